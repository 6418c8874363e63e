package fake

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serverest-suite/internal/common/logger"
	"serverest-suite/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type call struct {
	status int
	body   map[string]interface{}
}

func do(t *testing.T, s *Server, method, path, token string, body interface{}) call {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	out := call{status: w.Code}
	_ = json.Unmarshal(w.Body.Bytes(), &out.body)
	return out
}

func newServer(t *testing.T, opts ...Option) *Server {
	return New(logger.NewTestLogger(t), opts...)
}

func createUser(t *testing.T, s *Server, email string, admin bool) string {
	t.Helper()
	res := do(t, s, http.MethodPost, "/usuarios", "", models.User{
		Nome: "Fulano", Email: email, Password: "SenhaSegura@123", Administrador: models.AdminFlag(admin),
	})
	require.Equal(t, http.StatusCreated, res.status, res.body)
	return res.body["_id"].(string)
}

func login(t *testing.T, s *Server, email string) string {
	t.Helper()
	res := do(t, s, http.MethodPost, "/login", "", models.LoginRequest{Email: email, Password: "SenhaSegura@123"})
	require.Equal(t, http.StatusOK, res.status, res.body)
	return res.body["authorization"].(string)
}

func createProduct(t *testing.T, s *Server, token string, price, qty int) string {
	t.Helper()
	res := do(t, s, http.MethodPost, "/produtos", token, models.Product{
		Nome: "Produto " + newID(), Preco: price, Descricao: "desc", Quantidade: qty,
	})
	require.Equal(t, http.StatusCreated, res.status, res.body)
	return res.body["_id"].(string)
}

func TestSeededData(t *testing.T) {
	s := newServer(t)
	users := do(t, s, http.MethodGet, "/usuarios", "", nil)
	assert.Equal(t, http.StatusOK, users.status)
	assert.Equal(t, float64(1), users.body["quantidade"])

	products := do(t, s, http.MethodGet, "/produtos?nome=Logitech+MX+Vertical", "", nil)
	assert.Equal(t, float64(1), products.body["quantidade"])

	empty := newServer(t, WithoutSeed())
	assert.Equal(t, float64(0), do(t, empty, http.MethodGet, "/usuarios", "", nil).body["quantidade"])
}

func TestLogin(t *testing.T) {
	s := newServer(t)
	createUser(t, s, "ana@qa.com", false)

	tests := []struct {
		name   string
		body   map[string]string
		status int
		fields []string
	}{
		{name: "valid", body: map[string]string{"email": "ana@qa.com", "password": "SenhaSegura@123"}, status: http.StatusOK, fields: []string{"authorization"}},
		{name: "wrong password", body: map[string]string{"email": "ana@qa.com", "password": "x"}, status: http.StatusUnauthorized, fields: []string{"message"}},
		{name: "blank email", body: map[string]string{"email": "", "password": "senha123"}, status: http.StatusBadRequest, fields: []string{"email"}},
		{name: "blank password", body: map[string]string{"email": "test@email.com", "password": ""}, status: http.StatusBadRequest, fields: []string{"password"}},
		{name: "both blank", body: map[string]string{"email": "", "password": ""}, status: http.StatusBadRequest, fields: []string{"email", "password"}},
		{name: "malformed email", body: map[string]string{"email": "plainaddress", "password": "senha123"}, status: http.StatusBadRequest, fields: []string{"email"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := do(t, s, http.MethodPost, "/login", "", tt.body)
			assert.Equal(t, tt.status, res.status)
			for _, f := range tt.fields {
				assert.Contains(t, res.body, f)
			}
		})
	}
}

func TestUsers_Lifecycle(t *testing.T) {
	s := newServer(t)
	id := createUser(t, s, "bia@qa.com", true)

	dup := do(t, s, http.MethodPost, "/usuarios", "", models.User{Nome: "x", Email: "bia@qa.com", Password: "p", Administrador: "false"})
	assert.Equal(t, http.StatusBadRequest, dup.status)
	assert.Equal(t, models.MsgEmailInUse, dup.body["message"])

	got := do(t, s, http.MethodGet, "/usuarios/"+id, "", nil)
	assert.Equal(t, "bia@qa.com", got.body["email"])

	filtered := do(t, s, http.MethodGet, "/usuarios?administrador=false", "", nil)
	assert.Equal(t, float64(0), filtered.body["quantidade"])

	upd := do(t, s, http.MethodPut, "/usuarios/"+id, "", models.User{Nome: "Bia", Email: "fulano@qa.com", Password: "p", Administrador: "true"})
	assert.Equal(t, http.StatusBadRequest, upd.status)
	assert.Equal(t, models.MsgEmailInUse, upd.body["message"])

	upd = do(t, s, http.MethodPut, "/usuarios/"+id, "", models.User{Nome: "Bia", Email: "bia@qa.com", Password: "p", Administrador: "true"})
	assert.Equal(t, http.StatusOK, upd.status)
	assert.Equal(t, models.MsgUpdated, upd.body["message"])

	del := do(t, s, http.MethodDelete, "/usuarios/"+id, "", nil)
	assert.Equal(t, models.MsgDeleted, del.body["message"])
	del = do(t, s, http.MethodDelete, "/usuarios/"+id, "", nil)
	assert.Equal(t, models.MsgNothingDeleted, del.body["message"])

	missing := do(t, s, http.MethodGet, "/usuarios/3F7K9P2XQ8M1R6TB", "", nil)
	assert.Equal(t, http.StatusBadRequest, missing.status)
	assert.Equal(t, models.MsgUserNotFound, missing.body["message"])

	invalid := do(t, s, http.MethodGet, "/usuarios/abc", "", nil)
	assert.Equal(t, models.MsgInvalidID, invalid.body["id"])
}

func TestProducts_Authorization(t *testing.T) {
	s := newServer(t)
	createUser(t, s, "comum@qa.com", false)
	token := login(t, s, "comum@qa.com")
	body := models.Product{Nome: "Restrito", Preco: 500, Descricao: "d", Quantidade: 5}

	res := do(t, s, http.MethodPost, "/produtos", "", body)
	assert.Equal(t, http.StatusUnauthorized, res.status)
	assert.Equal(t, models.MsgTokenInvalid, res.body["message"])

	res = do(t, s, http.MethodPost, "/produtos", token, body)
	assert.Equal(t, http.StatusForbidden, res.status)
	assert.Equal(t, models.MsgAdminOnly, res.body["message"])

	listed := do(t, s, http.MethodGet, "/produtos?nome=Restrito", "", nil)
	assert.Equal(t, float64(0), listed.body["quantidade"], "rejected product was stored")
}

func TestProducts_NonAdminWritesRejectedWithSingleBody(t *testing.T) {
	s := newServer(t)
	createUser(t, s, "adm@qa.com", true)
	productID := createProduct(t, s, login(t, s, "adm@qa.com"), 100, 10)
	createUser(t, s, "comum@qa.com", false)
	token := login(t, s, "comum@qa.com")

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
	}{
		{name: "create", method: http.MethodPost, path: "/produtos", body: models.Product{Nome: "Novo", Preco: 1, Descricao: "d", Quantidade: 1}},
		{name: "update", method: http.MethodPut, path: "/produtos/" + productID, body: models.Product{Nome: "Renomeado", Preco: 1, Descricao: "d", Quantidade: 1}},
		{name: "delete", method: http.MethodDelete, path: "/produtos/" + productID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if tt.body != nil {
				require.NoError(t, json.NewEncoder(&buf).Encode(tt.body))
			}
			req := httptest.NewRequest(tt.method, tt.path, &buf)
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", token)
			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, req)

			assert.Equal(t, http.StatusForbidden, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
			assert.Equal(t, models.MsgAdminOnly, body["message"])
		})
	}

	got := do(t, s, http.MethodGet, "/produtos/"+productID, "", nil)
	require.Equal(t, http.StatusOK, got.status)
	assert.NotEqual(t, "Renomeado", got.body["nome"])
}

func TestProducts_Validation(t *testing.T) {
	s := newServer(t)
	createUser(t, s, "adm@qa.com", true)
	token := login(t, s, "adm@qa.com")

	tests := []struct {
		name  string
		body  map[string]interface{}
		field string
	}{
		{name: "empty name", body: map[string]interface{}{"nome": "", "preco": 100, "descricao": "d", "quantidade": 10}, field: "nome"},
		{name: "negative price", body: map[string]interface{}{"nome": "P", "preco": -10, "descricao": "d", "quantidade": 10}, field: "preco"},
		{name: "empty description", body: map[string]interface{}{"nome": "P", "preco": 100, "descricao": "", "quantidade": 10}, field: "descricao"},
		{name: "negative quantity", body: map[string]interface{}{"nome": "P", "preco": 100, "descricao": "d", "quantidade": -5}, field: "quantidade"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := do(t, s, http.MethodPost, "/produtos", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, res.status)
			assert.Contains(t, res.body, tt.field)
		})
	}
}

func TestCarts_Lifecycle(t *testing.T) {
	s := newServer(t)
	userID := createUser(t, s, "carrinho@qa.com", true)
	token := login(t, s, "carrinho@qa.com")
	productID := createProduct(t, s, token, 150, 10)

	cancel := do(t, s, http.MethodDelete, "/carrinhos/cancelar-compra", token, nil)
	assert.Equal(t, http.StatusOK, cancel.status)
	assert.Equal(t, models.MsgNoCartForUser, cancel.body["message"])

	created := do(t, s, http.MethodPost, "/carrinhos", token, models.NewCartRequest(models.CartItem{IDProduto: productID, Quantidade: 2}))
	require.Equal(t, http.StatusCreated, created.status, created.body)
	cartID := created.body["_id"].(string)

	cart := do(t, s, http.MethodGet, "/carrinhos/"+cartID, "", nil)
	assert.Equal(t, float64(300), cart.body["precoTotal"])
	assert.Equal(t, float64(2), cart.body["quantidadeTotal"])
	assert.Equal(t, userID, cart.body["idUsuario"])

	stock := do(t, s, http.MethodGet, "/produtos/"+productID, "", nil)
	assert.Equal(t, float64(8), stock.body["quantidade"])

	second := do(t, s, http.MethodPost, "/carrinhos", token, models.NewCartRequest(models.CartItem{IDProduto: productID, Quantidade: 1}))
	assert.Equal(t, models.MsgOneCartOnly, second.body["message"])

	delUser := do(t, s, http.MethodDelete, "/usuarios/"+userID, "", nil)
	assert.Equal(t, models.MsgUserHasCart, delUser.body["message"])
	assert.Equal(t, cartID, delUser.body["idCarrinho"])

	delProduct := do(t, s, http.MethodDelete, "/produtos/"+productID, token, nil)
	assert.Equal(t, models.MsgProductInCart, delProduct.body["message"])

	cancel = do(t, s, http.MethodDelete, "/carrinhos/cancelar-compra", token, nil)
	assert.Equal(t, models.MsgCartCancelled, cancel.body["message"])
	stock = do(t, s, http.MethodGet, "/produtos/"+productID, "", nil)
	assert.Equal(t, float64(10), stock.body["quantidade"])
}

func TestCarts_Rejections(t *testing.T) {
	s := newServer(t)
	createUser(t, s, "rej@qa.com", true)
	token := login(t, s, "rej@qa.com")
	productID := createProduct(t, s, token, 100, 1)

	tests := []struct {
		name  string
		items []models.CartItem
		msg   string
	}{
		{name: "insufficient stock", items: []models.CartItem{{IDProduto: productID, Quantidade: 2}}, msg: models.MsgInsufficientStock},
		{name: "duplicated product", items: []models.CartItem{{IDProduto: productID, Quantidade: 1}, {IDProduto: productID, Quantidade: 1}}, msg: models.MsgDuplicateProduct},
		{name: "unknown product", items: []models.CartItem{{IDProduto: "AAAAAAAAAAAAAAAA", Quantidade: 1}}, msg: models.MsgProductNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := do(t, s, http.MethodPost, "/carrinhos", token, models.NewCartRequest(tt.items...))
			assert.Equal(t, http.StatusBadRequest, res.status)
			assert.Equal(t, tt.msg, res.body["message"])
		})
	}

	noToken := do(t, s, http.MethodPost, "/carrinhos", "", models.NewCartRequest(models.CartItem{IDProduto: productID, Quantidade: 1}))
	assert.Equal(t, http.StatusUnauthorized, noToken.status)

	invalid := do(t, s, http.MethodGet, "/carrinhos/invalid-cart-id-123", "", nil)
	assert.Equal(t, models.MsgInvalidID, invalid.body["id"])
}

func TestConcludePurchase(t *testing.T) {
	s := newServer(t)
	createUser(t, s, "compra@qa.com", true)
	token := login(t, s, "compra@qa.com")
	productID := createProduct(t, s, token, 50, 3)

	do(t, s, http.MethodPost, "/carrinhos", token, models.NewCartRequest(models.CartItem{IDProduto: productID, Quantidade: 3}))
	res := do(t, s, http.MethodDelete, "/carrinhos/concluir-compra", token, nil)
	assert.Equal(t, models.MsgDeleted, res.body["message"])

	stock := do(t, s, http.MethodGet, "/produtos/"+productID, "", nil)
	assert.Equal(t, float64(0), stock.body["quantidade"])
}

func TestTokenExpiry(t *testing.T) {
	s := newServer(t, WithTokenTTL(time.Nanosecond))
	createUser(t, s, "exp@qa.com", true)
	token := login(t, s, "exp@qa.com")
	time.Sleep(time.Millisecond)

	res := do(t, s, http.MethodDelete, "/carrinhos/concluir-compra", token, nil)
	assert.Equal(t, http.StatusUnauthorized, res.status)
}
