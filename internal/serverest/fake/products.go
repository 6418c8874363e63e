package fake

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"serverest-suite/internal/models"
)

func (s *Server) listProducts(c *gin.Context) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	out := make([]models.Product, 0, len(s.store.products))
	for _, p := range s.store.products {
		if matches(c, map[string]string{
			"_id": p.ID, "nome": p.Nome, "preco": strconv.Itoa(p.Preco),
			"descricao": p.Descricao, "quantidade": strconv.Itoa(p.Quantidade),
		}) {
			out = append(out, *p)
		}
	}
	c.JSON(http.StatusOK, models.ProductList{Quantidade: len(out), Produtos: out})
}

func (s *Server) getProduct(c *gin.Context) {
	id := c.Param("id")
	if !validID(c, id) {
		return
	}
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	_, p := s.store.productByID(id)
	if p == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": models.MsgProductNotFound})
		return
	}
	c.JSON(http.StatusOK, p)
}

func productFromBody(c *gin.Context) (models.Product, bool) {
	body, ok := bindObject(c)
	if !ok {
		return models.Product{}, false
	}
	fe := fieldErrors{}
	p := models.Product{
		Nome:       fe.stringField(body, "nome"),
		Preco:      fe.intField(body, "preco", 1, "preco deve ser um número positivo"),
		Descricao:  fe.stringField(body, "descricao"),
		Quantidade: fe.intField(body, "quantidade", 0, "quantidade deve ser maior ou igual a 0"),
	}
	if !fe.empty() {
		c.JSON(http.StatusBadRequest, fe)
		return models.Product{}, false
	}
	return p, true
}

func (s *Server) createProduct(c *gin.Context) {
	p, ok := productFromBody(c)
	if !ok {
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if s.store.productByName(p.Nome) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": models.MsgProductNameInUse})
		return
	}
	p.ID = newID()
	s.store.products = append(s.store.products, &p)
	c.JSON(http.StatusCreated, models.WriteResult{Message: models.MsgCreated, ID: p.ID})
}

func (s *Server) updateProduct(c *gin.Context) {
	id := c.Param("id")
	p, ok := productFromBody(c)
	if !ok {
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if other := s.store.productByName(p.Nome); other != nil && other.ID != id {
		c.JSON(http.StatusBadRequest, gin.H{"message": models.MsgProductNameInUse})
		return
	}
	_, existing := s.store.productByID(id)
	if existing == nil {
		p.ID = newID()
		s.store.products = append(s.store.products, &p)
		c.JSON(http.StatusCreated, models.WriteResult{Message: models.MsgCreated, ID: p.ID})
		return
	}
	p.ID = existing.ID
	*existing = p
	c.JSON(http.StatusOK, gin.H{"message": models.MsgUpdated})
}

func (s *Server) deleteProduct(c *gin.Context) {
	id := c.Param("id")
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if carts := s.store.cartsWithProduct(id); len(carts) > 0 {
		c.JSON(http.StatusBadRequest, models.WriteResult{Message: models.MsgProductInCart, IDCarrinhos: carts})
		return
	}
	i, p := s.store.productByID(id)
	if p == nil {
		c.JSON(http.StatusOK, gin.H{"message": models.MsgNothingDeleted})
		return
	}
	s.store.products = removeAt(s.store.products, i)
	c.JSON(http.StatusOK, gin.H{"message": models.MsgDeleted})
}
