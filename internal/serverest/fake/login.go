package fake

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"serverest-suite/internal/models"
)

func (s *Server) login(c *gin.Context) {
	body, ok := bindObject(c)
	if !ok {
		return
	}
	fe := fieldErrors{}
	email := fe.emailField(body)
	password := fe.stringField(body, "password")
	if !fe.empty() {
		c.JSON(http.StatusBadRequest, fe)
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	u := s.store.userByEmail(email)
	if u == nil || u.Password != password {
		c.JSON(http.StatusUnauthorized, gin.H{"message": models.MsgLoginInvalid})
		return
	}
	c.JSON(http.StatusOK, models.LoginResponse{
		Message:       models.MsgLoginOK,
		Authorization: s.store.issueToken(u.ID, s.tokenTTL),
	})
}
