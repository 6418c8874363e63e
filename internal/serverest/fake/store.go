package fake

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"serverest-suite/internal/models"
)

type tokenEntry struct {
	userID  string
	expires time.Time
}

// store holds the in-memory ServeRest collections. Slices keep insertion
// order so listings are stable.
type store struct {
	mu       sync.RWMutex
	users    []*models.User
	products []*models.Product
	carts    []*models.Cart
	tokens   map[string]tokenEntry
}

func newStore() *store {
	return &store{tokens: make(map[string]tokenEntry)}
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

func (s *store) userByID(id string) (int, *models.User) {
	for i, u := range s.users {
		if u.ID == id {
			return i, u
		}
	}
	return -1, nil
}

func (s *store) userByEmail(email string) *models.User {
	for _, u := range s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (s *store) productByID(id string) (int, *models.Product) {
	for i, p := range s.products {
		if p.ID == id {
			return i, p
		}
	}
	return -1, nil
}

func (s *store) productByName(name string) *models.Product {
	for _, p := range s.products {
		if p.Nome == name {
			return p
		}
	}
	return nil
}

func (s *store) cartByID(id string) (int, *models.Cart) {
	for i, c := range s.carts {
		if c.ID == id {
			return i, c
		}
	}
	return -1, nil
}

func (s *store) cartByUser(userID string) (int, *models.Cart) {
	for i, c := range s.carts {
		if c.IDUsuario == userID {
			return i, c
		}
	}
	return -1, nil
}

func (s *store) cartsWithProduct(productID string) []string {
	var ids []string
	for _, c := range s.carts {
		for _, item := range c.Produtos {
			if item.IDProduto == productID {
				ids = append(ids, c.ID)
				break
			}
		}
	}
	return ids
}

func (s *store) issueToken(userID string, ttl time.Duration) string {
	token := "Bearer " + uuid.NewString()
	s.tokens[token] = tokenEntry{userID: userID, expires: time.Now().Add(ttl)}
	return token
}

// userForToken resolves a bearer token to a live user.
func (s *store) userForToken(token string) *models.User {
	entry, ok := s.tokens[token]
	if !ok || time.Now().After(entry.expires) {
		return nil
	}
	_, u := s.userByID(entry.userID)
	return u
}

func removeAt[T any](items []T, i int) []T {
	return append(items[:i], items[i+1:]...)
}
