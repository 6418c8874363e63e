package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serverest-suite/internal/common/errors"
)

func TestValidateNamed(t *testing.T) {
	tests := []struct {
		name   string
		schema string
		body   string
		valid  bool
	}{
		{
			name:   "user",
			schema: SchemaUser,
			body:   `{"nome":"Fulano da Silva","email":"beltrano@qa.com.br","password":"teste","administrador":"true","_id":"0uxuPY0cbmQhpEz1"}`,
			valid:  true,
		},
		{
			name:   "user with extra field",
			schema: SchemaUser,
			body:   `{"nome":"Fulano","email":"b@qa.com","password":"teste","administrador":"true","_id":"0uxuPY0cbmQhpEz1","cpf":"1"}`,
		},
		{
			name:   "user with phone field",
			schema: SchemaUser,
			body:   `{"nome":"Fulano","email":"b@qa.com","password":"teste","administrador":"false","_id":"0uxuPY0cbmQhpEz1","phone":"119"}`,
		},
		{
			name:   "user list",
			schema: SchemaUserList,
			body:   `{"quantidade":1,"usuarios":[{"nome":"Fulano","email":"b@qa.com","password":"teste","administrador":"false","_id":"0uxuPY0cbmQhpEz1"}]}`,
			valid:  true,
		},
		{
			name:   "product with fractional price",
			schema: SchemaProduct,
			body:   `{"nome":"Mouse","preco":4.5,"descricao":"Mouse","quantidade":1,"_id":"BeeJh5lz3k6kSIzA"}`,
		},
		{
			name:   "empty product list",
			schema: SchemaProductList,
			body:   `{"quantidade":0,"produtos":[]}`,
			valid:  true,
		},
		{
			name:   "cart",
			schema: SchemaCart,
			body:   `{"produtos":[{"idProduto":"BeeJh5lz3k6kSIzA","quantidade":1,"precoUnitario":470}],"precoTotal":470,"quantidadeTotal":1,"idUsuario":"oUb7aGkMtSEPf6BZ","_id":"qbMqntef4iTOwWfg"}`,
			valid:  true,
		},
		{
			name:   "cart list",
			schema: SchemaCartList,
			body:   `{"quantidade":0,"carrinhos":[]}`,
			valid:  true,
		},
		{
			name:   "login without bearer",
			schema: SchemaLogin,
			body:   `{"message":"Login realizado com sucesso","authorization":"abc"}`,
		},
		{
			name:   "write result",
			schema: SchemaWriteResult,
			body:   `{"message":"Cadastro realizado com sucesso","_id":"jogfODIlXsqxNFS2"}`,
			valid:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNamed(tt.schema, []byte(tt.body))
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeSchemaViolation, errors.CodeOf(err))
		})
	}
}

func TestValidateDocument_MalformedBody(t *testing.T) {
	err := ValidateDocument(`{"type":"object"}`, []byte(`<html>`))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSchemaViolation, errors.CodeOf(err))
}

func TestSchema_Unknown(t *testing.T) {
	_, err := Schema("nope")
	assert.Error(t, err)
}

func TestFormats(t *testing.T) {
	assert.True(t, ValidateEmail("fulano@qa.com"))
	assert.False(t, ValidateEmail("fulano.qa.com"))
	assert.True(t, ValidateServeRestID("0uxuPY0cbmQhpEz1"))
	assert.False(t, ValidateServeRestID("123"))
	assert.False(t, ValidateServeRestID("0uxuPY0cbmQhpEz1!"))
	assert.True(t, ValidatePersonName("João D'Ávila-Souza Jr."))
	assert.False(t, ValidatePersonName("1Fulano"))
}
