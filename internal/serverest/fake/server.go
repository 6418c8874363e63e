// Package fake is an in-memory ServeRest used as the local dev target and as
// the test double for the client and the scenarios.
package fake

import (
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"

	"serverest-suite/internal/common/logger"
	"serverest-suite/internal/models"
)

// DefaultTokenTTL matches the lifetime of real ServeRest tokens.
const DefaultTokenTTL = 600 * time.Second

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9]{16}$`)

type Option func(*Server)

// WithTokenTTL overrides how long issued tokens stay valid.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Server) { s.tokenTTL = ttl }
}

// WithoutSeed starts with empty collections.
func WithoutSeed() Option {
	return func(s *Server) { s.seed = false }
}

type Server struct {
	store    *store
	engine   *gin.Engine
	logger   logger.Logger
	tokenTTL time.Duration
	seed     bool
}

func New(log logger.Logger, opts ...Option) *Server {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	s := &Server{
		store:    newStore(),
		logger:   log,
		tokenTTL: DefaultTokenTTL,
		seed:     true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.seed {
		s.seedDefaults()
	}

	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.routes()
	return s
}

// Handler exposes the gin engine.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	s.engine.POST("/login", s.login)

	users := s.engine.Group("/usuarios")
	users.GET("", s.listUsers)
	users.POST("", s.createUser)
	users.GET("/:id", s.getUser)
	users.PUT("/:id", s.updateUser)
	users.DELETE("/:id", s.deleteUser)

	products := s.engine.Group("/produtos")
	products.GET("", s.listProducts)
	products.POST("", s.requireAdmin, s.createProduct)
	products.GET("/:id", s.getProduct)
	products.PUT("/:id", s.requireAdmin, s.updateProduct)
	products.DELETE("/:id", s.requireAdmin, s.deleteProduct)

	carts := s.engine.Group("/carrinhos")
	carts.GET("", s.listCarts)
	carts.POST("", s.requireUser, s.createCart)
	carts.GET("/:id", s.getCart)
	carts.DELETE("/concluir-compra", s.requireUser, s.concludePurchase)
	carts.DELETE("/cancelar-compra", s.requireUser, s.cancelPurchase)
}

// seedDefaults loads the records a fresh ServeRest instance ships with.
func (s *Server) seedDefaults() {
	s.store.users = append(s.store.users, &models.User{
		ID:            "0uxuPY0cbmQhpEz1",
		Nome:          "Fulano da Silva",
		Email:         "fulano@qa.com",
		Password:      "teste",
		Administrador: "true",
	})
	s.store.products = append(s.store.products,
		&models.Product{ID: "BeeJh5lz3k6kSIzA", Nome: "Logitech MX Vertical", Preco: 470, Descricao: "Mouse", Quantidade: 382},
		&models.Product{ID: "K6leHdftCeOJj8BJ", Nome: "Samsung 60 polegadas", Preco: 5240, Descricao: "TV", Quantidade: 49977},
	)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("fake serverest request", map[string]interface{}{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
	}
}

const userKey = "serverest.user"

// authenticate resolves the bearer token and stores its user on c.
// It never advances the handler chain.
func (s *Server) authenticate(c *gin.Context) (models.User, bool) {
	s.store.mu.RLock()
	u := s.store.userForToken(c.GetHeader("Authorization"))
	s.store.mu.RUnlock()
	if u == nil {
		return models.User{}, false
	}
	c.Set(userKey, *u)
	return *u, true
}

func (s *Server) requireUser(c *gin.Context) {
	if _, ok := s.authenticate(c); !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": models.MsgTokenInvalid})
	}
}

func (s *Server) requireAdmin(c *gin.Context) {
	u, ok := s.authenticate(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": models.MsgTokenInvalid})
		return
	}
	if !u.IsAdmin() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": models.MsgAdminOnly})
	}
}

func currentUser(c *gin.Context) models.User {
	v, _ := c.Get(userKey)
	u, _ := v.(models.User)
	return u
}

// validID writes the ServeRest id error and reports false when id is malformed.
func validID(c *gin.Context, id string) bool {
	if !idPattern.MatchString(id) {
		c.JSON(http.StatusBadRequest, gin.H{"id": models.MsgInvalidID})
		return false
	}
	return true
}

// bindObject decodes a JSON object body; an unparsable body is reported as 400.
func bindObject(c *gin.Context) (map[string]interface{}, bool) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Adicione aspas em todos os valores. Para mais informações acesse a issue https://github.com/ServeRest/ServeRest/issues/225"})
		return nil, false
	}
	return body, true
}
