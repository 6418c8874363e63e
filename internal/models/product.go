package models

import "strconv"

// Product is a ServeRest product. Preco and Quantidade are whole numbers.
type Product struct {
	ID         string `json:"_id,omitempty"`
	Nome       string `json:"nome"`
	Preco      int    `json:"preco"`
	Descricao  string `json:"descricao"`
	Quantidade int    `json:"quantidade"`
}

// ProductList is the GET /produtos payload.
type ProductList struct {
	Quantidade int       `json:"quantidade"`
	Produtos   []Product `json:"produtos"`
}

// ProductFilter holds the query parameters accepted by GET /produtos.
// Zero numeric values are not sent.
type ProductFilter struct {
	ID         string
	Nome       string
	Preco      int
	Descricao  string
	Quantidade int
}

func (f ProductFilter) Query() map[string]string {
	q := map[string]string{}
	if f.ID != "" {
		q["_id"] = f.ID
	}
	if f.Nome != "" {
		q["nome"] = f.Nome
	}
	if f.Preco > 0 {
		q["preco"] = strconv.Itoa(f.Preco)
	}
	if f.Descricao != "" {
		q["descricao"] = f.Descricao
	}
	if f.Quantidade > 0 {
		q["quantidade"] = strconv.Itoa(f.Quantidade)
	}
	return q
}
