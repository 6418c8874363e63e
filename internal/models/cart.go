package models

// CartItem is one product line of a cart.
type CartItem struct {
	IDProduto     string `json:"idProduto"`
	Quantidade    int    `json:"quantidade"`
	PrecoUnitario int    `json:"precoUnitario,omitempty"`
}

// Cart is a ServeRest cart. Each user may hold at most one.
type Cart struct {
	ID              string     `json:"_id,omitempty"`
	Produtos        []CartItem `json:"produtos"`
	PrecoTotal      int        `json:"precoTotal"`
	QuantidadeTotal int        `json:"quantidadeTotal"`
	IDUsuario       string     `json:"idUsuario"`
}

// CartList is the GET /carrinhos payload.
type CartList struct {
	Quantidade int    `json:"quantidade"`
	Carrinhos  []Cart `json:"carrinhos"`
}

// CartRequest is the POST /carrinhos body.
type CartRequest struct {
	Produtos []CartItem `json:"produtos"`
}

// NewCartRequest builds a request from product id and quantity pairs.
func NewCartRequest(items ...CartItem) CartRequest {
	return CartRequest{Produtos: items}
}
