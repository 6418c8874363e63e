package models

// WriteResult is the body of ServeRest create, update and delete responses.
type WriteResult struct {
	Message     string   `json:"message"`
	ID          string   `json:"_id,omitempty"`
	IDCarrinho  string   `json:"idCarrinho,omitempty"`
	IDCarrinhos []string `json:"idCarrinhos,omitempty"`
}

// Messages returned by ServeRest.
const (
	MsgCreated           = "Cadastro realizado com sucesso"
	MsgUpdated           = "Registro alterado com sucesso"
	MsgDeleted           = "Registro excluído com sucesso"
	MsgNothingDeleted    = "Nenhum registro excluído"
	MsgLoginOK           = "Login realizado com sucesso"
	MsgLoginInvalid      = "Email e/ou senha inválidos"
	MsgEmailInUse        = "Este email já está sendo usado"
	MsgUserNotFound      = "Usuário não encontrado"
	MsgUserHasCart       = "Não é permitido excluir usuário com carrinho cadastrado"
	MsgTokenInvalid      = "Token de acesso ausente, inválido, expirado ou usuário do token não existe mais"
	MsgAdminOnly         = "Rota exclusiva para administradores"
	MsgProductNameInUse  = "Já existe produto com esse nome"
	MsgProductNotFound   = "Produto não encontrado"
	MsgProductInCart     = "Não é permitido excluir produto que faz parte de carrinho"
	MsgCartNotFound      = "Carrinho não encontrado"
	MsgOneCartOnly       = "Não é permitido ter mais de 1 carrinho"
	MsgDuplicateProduct  = "Não é permitido possuir produto duplicado"
	MsgInsufficientStock = "Produto não possui quantidade suficiente"
	MsgNoCartForUser     = "Não foi encontrado carrinho para esse usuário"
	MsgCartCancelled     = "Registro excluído com sucesso. Estoque dos produtos reabastecido"
	MsgInvalidID         = "id deve ter exatamente 16 caracteres alfanuméricos"
	MsgEmailBlank        = "email não pode ficar em branco"
	MsgEmailInvalid      = "email deve ser um email válido"
	MsgPasswordBlank     = "password não pode ficar em branco"
)
