// Package fakedata produces random ServeRest payloads for scenarios.
package fakedata

import (
	"strings"
	"unicode"

	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"

	"serverest-suite/internal/models"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 16
	emailDomain    = "gmail.com"
)

// Name returns a random full name.
func Name() string {
	return faker.Name()
}

// Email returns a lower-case first name with a unique suffix at gmail.com.
// ServeRest rejects duplicate e-mails, so bare first names would collide across runs.
func Email() string {
	first := strings.ToLower(onlyLetters(faker.FirstName()))
	if first == "" {
		first = "user"
	}
	return first + "." + shortID() + "@" + emailDomain
}

// Password returns a random password between 8 and 16 characters.
func Password() string {
	n := minPasswordLen
	if picks, err := faker.RandomInt(minPasswordLen, maxPasswordLen, 1); err == nil && len(picks) == 1 {
		n = picks[0]
	}
	pwd := faker.Password()
	for len(pwd) < n {
		pwd += faker.Password()
	}
	return pwd[:n]
}

// ProductName returns a product name unique across calls.
func ProductName() string {
	word := onlyLetters(faker.Word())
	if word == "" {
		word = "item"
	}
	return "Produto " + strings.ToUpper(word[:1]) + word[1:] + " " + shortID()
}

// Description returns a short sentence.
func Description() string {
	return faker.Sentence()
}

// NewUser builds a user payload with random identity.
func NewUser(admin bool) models.User {
	return models.User{
		Nome:          Name(),
		Email:         Email(),
		Password:      Password(),
		Administrador: models.AdminFlag(admin),
	}
}

// NewProduct builds a product payload with a unique name.
func NewProduct(price, quantity int) models.Product {
	return models.Product{
		Nome:       ProductName(),
		Preco:      price,
		Descricao:  Description(),
		Quantidade: quantity,
	}
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

func onlyLetters(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
