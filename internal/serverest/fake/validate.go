package fake

import (
	"math"

	"serverest-suite/internal/common/validation"
)

// fieldErrors maps a body field to its ServeRest validation message.
type fieldErrors map[string]interface{}

func (fe fieldErrors) stringField(body map[string]interface{}, key string) string {
	raw, ok := body[key]
	if !ok {
		fe[key] = key + " é obrigatório"
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		fe[key] = key + " deve ser uma string"
		return ""
	}
	if s == "" {
		fe[key] = key + " não pode ficar em branco"
	}
	return s
}

func (fe fieldErrors) emailField(body map[string]interface{}) string {
	email := fe.stringField(body, "email")
	if _, failed := fe["email"]; !failed && !validation.ValidateEmail(email) {
		fe["email"] = "email deve ser um email válido"
	}
	return email
}

func (fe fieldErrors) adminField(body map[string]interface{}) string {
	flag := fe.stringField(body, "administrador")
	if _, failed := fe["administrador"]; !failed && flag != "true" && flag != "false" {
		fe["administrador"] = "administrador deve ser 'true' ou 'false'"
	}
	return flag
}

// intField reads a whole number no smaller than min.
func (fe fieldErrors) intField(body map[string]interface{}, key string, min int, tooSmall string) int {
	raw, ok := body[key]
	if !ok {
		fe[key] = key + " é obrigatório"
		return 0
	}
	f, ok := raw.(float64)
	if !ok {
		fe[key] = key + " deve ser um número"
		return 0
	}
	if f != math.Trunc(f) {
		fe[key] = key + " deve ser um inteiro"
		return 0
	}
	if int(f) < min {
		fe[key] = tooSmall
	}
	return int(f)
}

func (fe fieldErrors) empty() bool {
	return len(fe) == 0
}
