package fake

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"serverest-suite/internal/models"
)

func (s *Server) listCarts(c *gin.Context) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	out := make([]models.Cart, 0, len(s.store.carts))
	for _, cart := range s.store.carts {
		if matches(c, map[string]string{
			"_id": cart.ID, "idUsuario": cart.IDUsuario,
			"precoTotal": strconv.Itoa(cart.PrecoTotal), "quantidadeTotal": strconv.Itoa(cart.QuantidadeTotal),
		}) {
			out = append(out, *cart)
		}
	}
	c.JSON(http.StatusOK, models.CartList{Quantidade: len(out), Carrinhos: out})
}

func (s *Server) getCart(c *gin.Context) {
	id := c.Param("id")
	if !validID(c, id) {
		return
	}
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	_, cart := s.store.cartByID(id)
	if cart == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": models.MsgCartNotFound})
		return
	}
	c.JSON(http.StatusOK, cart)
}

func cartItemsFromBody(c *gin.Context) ([]models.CartItem, bool) {
	body, ok := bindObject(c)
	if !ok {
		return nil, false
	}
	raw, ok := body["produtos"].([]interface{})
	if !ok || len(raw) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"produtos": "produtos deve ser um array com ao menos um item"})
		return nil, false
	}
	items := make([]models.CartItem, 0, len(raw))
	for i, r := range raw {
		obj, _ := r.(map[string]interface{})
		fe := fieldErrors{}
		item := models.CartItem{
			IDProduto:  fe.stringField(obj, "idProduto"),
			Quantidade: fe.intField(obj, "quantidade", 1, "quantidade deve ser um número positivo"),
		}
		if !fe.empty() {
			errs := gin.H{}
			for k, v := range fe {
				errs["produtos["+strconv.Itoa(i)+"]."+k] = v
			}
			c.JSON(http.StatusBadRequest, errs)
			return nil, false
		}
		items = append(items, item)
	}
	return items, true
}

func (s *Server) createCart(c *gin.Context) {
	items, ok := cartItemsFromBody(c)
	if !ok {
		return
	}
	user := currentUser(c)

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, existing := s.store.cartByUser(user.ID); existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": models.MsgOneCartOnly})
		return
	}

	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if seen[item.IDProduto] {
			c.JSON(http.StatusBadRequest, gin.H{"message": models.MsgDuplicateProduct, "item": item})
			return
		}
		seen[item.IDProduto] = true
	}

	products := make([]*models.Product, len(items))
	for i, item := range items {
		_, p := s.store.productByID(item.IDProduto)
		if p == nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": models.MsgProductNotFound, "item": item})
			return
		}
		if p.Quantidade < item.Quantidade {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": models.MsgInsufficientStock,
				"item":    gin.H{"idProduto": item.IDProduto, "quantidade": item.Quantidade, "quantidadeEstoque": p.Quantidade},
			})
			return
		}
		products[i] = p
	}

	cart := &models.Cart{ID: newID(), IDUsuario: user.ID}
	for i, item := range items {
		p := products[i]
		p.Quantidade -= item.Quantidade
		item.PrecoUnitario = p.Preco
		cart.Produtos = append(cart.Produtos, item)
		cart.PrecoTotal += p.Preco * item.Quantidade
		cart.QuantidadeTotal += item.Quantidade
	}
	s.store.carts = append(s.store.carts, cart)
	c.JSON(http.StatusCreated, models.WriteResult{Message: models.MsgCreated, ID: cart.ID})
}

func (s *Server) concludePurchase(c *gin.Context) {
	s.closeCart(c, false)
}

func (s *Server) cancelPurchase(c *gin.Context) {
	s.closeCart(c, true)
}

// closeCart removes the caller's cart, returning its items to stock when restock is set.
func (s *Server) closeCart(c *gin.Context, restock bool) {
	user := currentUser(c)
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	i, cart := s.store.cartByUser(user.ID)
	if cart == nil {
		c.JSON(http.StatusOK, gin.H{"message": models.MsgNoCartForUser})
		return
	}
	if restock {
		for _, item := range cart.Produtos {
			if _, p := s.store.productByID(item.IDProduto); p != nil {
				p.Quantidade += item.Quantidade
			}
		}
	}
	s.store.carts = removeAt(s.store.carts, i)

	msg := models.MsgDeleted
	if restock {
		msg = models.MsgCartCancelled
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
