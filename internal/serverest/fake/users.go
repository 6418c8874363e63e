package fake

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"serverest-suite/internal/models"
)

func (s *Server) listUsers(c *gin.Context) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	out := make([]models.User, 0, len(s.store.users))
	for _, u := range s.store.users {
		if matches(c, map[string]string{
			"_id": u.ID, "nome": u.Nome, "email": u.Email,
			"password": u.Password, "administrador": u.Administrador,
		}) {
			out = append(out, *u)
		}
	}
	c.JSON(http.StatusOK, models.UserList{Quantidade: len(out), Usuarios: out})
}

func (s *Server) getUser(c *gin.Context) {
	id := c.Param("id")
	if !validID(c, id) {
		return
	}
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	_, u := s.store.userByID(id)
	if u == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": models.MsgUserNotFound})
		return
	}
	c.JSON(http.StatusOK, u)
}

func userFromBody(c *gin.Context) (models.User, bool) {
	body, ok := bindObject(c)
	if !ok {
		return models.User{}, false
	}
	fe := fieldErrors{}
	u := models.User{
		Nome:          fe.stringField(body, "nome"),
		Email:         fe.emailField(body),
		Password:      fe.stringField(body, "password"),
		Administrador: fe.adminField(body),
	}
	if !fe.empty() {
		c.JSON(http.StatusBadRequest, fe)
		return models.User{}, false
	}
	return u, true
}

func (s *Server) createUser(c *gin.Context) {
	u, ok := userFromBody(c)
	if !ok {
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if s.store.userByEmail(u.Email) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": models.MsgEmailInUse})
		return
	}
	u.ID = newID()
	s.store.users = append(s.store.users, &u)
	c.JSON(http.StatusCreated, models.WriteResult{Message: models.MsgCreated, ID: u.ID})
}

// updateUser replaces the user, creating it when the id is unknown.
func (s *Server) updateUser(c *gin.Context) {
	id := c.Param("id")
	u, ok := userFromBody(c)
	if !ok {
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if other := s.store.userByEmail(u.Email); other != nil && other.ID != id {
		c.JSON(http.StatusBadRequest, gin.H{"message": models.MsgEmailInUse})
		return
	}
	_, existing := s.store.userByID(id)
	if existing == nil {
		u.ID = newID()
		s.store.users = append(s.store.users, &u)
		c.JSON(http.StatusCreated, models.WriteResult{Message: models.MsgCreated, ID: u.ID})
		return
	}
	u.ID = existing.ID
	*existing = u
	c.JSON(http.StatusOK, gin.H{"message": models.MsgUpdated})
}

func (s *Server) deleteUser(c *gin.Context) {
	id := c.Param("id")
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, cart := s.store.cartByUser(id); cart != nil {
		c.JSON(http.StatusBadRequest, models.WriteResult{Message: models.MsgUserHasCart, IDCarrinho: cart.ID})
		return
	}
	i, u := s.store.userByID(id)
	if u == nil {
		c.JSON(http.StatusOK, gin.H{"message": models.MsgNothingDeleted})
		return
	}
	s.store.users = removeAt(s.store.users, i)
	c.JSON(http.StatusOK, gin.H{"message": models.MsgDeleted})
}

// matches applies the ServeRest query filters: every given parameter must equal the field.
func matches(c *gin.Context, fields map[string]string) bool {
	for key, value := range fields {
		if q, ok := c.GetQuery(key); ok && q != value {
			return false
		}
	}
	return true
}
