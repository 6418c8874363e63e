package suite

import (
	"context"
	"net/http"
	"sync"

	"serverest-suite/internal/common/errors"
	commonhttp "serverest-suite/internal/common/http"
	"serverest-suite/internal/common/logger"
	"serverest-suite/internal/fakedata"
	"serverest-suite/internal/models"
	"serverest-suite/internal/serverest"
	"serverest-suite/internal/session"
)

// Session carries what scenarios need to talk to ServeRest. It is shared by
// all workers of a run, so every field is safe for concurrent use.
type Session struct {
	API      *serverest.Client
	Logger   logger.Logger
	Tokens   session.TokenCache
	Password string

	adminMu    sync.Mutex
	adminEmail string
}

func NewSession(api *serverest.Client, log logger.Logger, tokens session.TokenCache, password string) *Session {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Session{API: api, Logger: log, Tokens: tokens, Password: password}
}

// Fixture is a user created for a scenario together with its token.
type Fixture struct {
	User  models.User
	Token string
}

// CreateAdminToken registers a fresh administrator and logs in.
func (s *Session) CreateAdminToken(ctx context.Context) (Fixture, error) {
	return s.createUserToken(ctx, true)
}

// CreateUserToken registers a fresh regular user and logs in.
func (s *Session) CreateUserToken(ctx context.Context) (Fixture, error) {
	return s.createUserToken(ctx, false)
}

func (s *Session) createUserToken(ctx context.Context, admin bool) (Fixture, error) {
	u := fakedata.NewUser(admin)
	u.Password = s.Password
	created, resp, err := s.API.CreateUser(ctx, u)
	if err != nil {
		return Fixture{}, err
	}
	if err := resp.ExpectStatus(http.StatusCreated); err != nil {
		return Fixture{}, err
	}
	u.ID = created.ID

	token, err := s.Login(ctx, u.Email, u.Password)
	if err != nil {
		return Fixture{}, err
	}
	return Fixture{User: u, Token: token}, nil
}

// Login returns a cached token for email or authenticates and caches a new one.
func (s *Session) Login(ctx context.Context, email, password string) (string, error) {
	if s.Tokens != nil {
		token, found, err := s.Tokens.Get(ctx, email)
		if err != nil {
			s.Logger.Warn("token cache read failed", map[string]interface{}{"email": email, "error": err.Error()})
		} else if found {
			return token, nil
		}
	}

	login, resp, err := s.API.Login(ctx, email, password)
	if err != nil {
		return "", err
	}
	if err := resp.ExpectStatus(http.StatusOK); err != nil {
		return "", err
	}
	if s.Tokens != nil {
		if err := s.Tokens.Put(ctx, email, login.Authorization); err != nil {
			s.Logger.Warn("token cache write failed", map[string]interface{}{"email": email, "error": err.Error()})
		}
	}
	return login.Authorization, nil
}

// SharedAdminToken returns the token of one administrator reused for the
// whole run. Use it only where no per-user state (such as a cart) is touched.
func (s *Session) SharedAdminToken(ctx context.Context) (string, error) {
	s.adminMu.Lock()
	defer s.adminMu.Unlock()

	if s.adminEmail != "" {
		return s.Login(ctx, s.adminEmail, s.Password)
	}
	fx, err := s.CreateAdminToken(ctx)
	if err != nil {
		return "", err
	}
	s.adminEmail = fx.User.Email
	return fx.Token, nil
}

// Relogin evicts the cached token for email and authenticates again.
func (s *Session) Relogin(ctx context.Context, email, password string) (string, error) {
	if s.Tokens != nil {
		if err := s.Tokens.Invalidate(ctx, email); err != nil {
			s.Logger.Warn("token cache invalidate failed", map[string]interface{}{"email": email, "error": err.Error()})
		}
	}
	return s.Login(ctx, email, password)
}

// WithSharedAdmin runs call with the shared administrator token. When ServeRest
// answers 401 the cached token is evicted and call runs once more with a fresh
// login. It returns the token of the last attempt.
func (s *Session) WithSharedAdmin(ctx context.Context, call func(token string) (*commonhttp.Response, error)) (string, *commonhttp.Response, error) {
	token, err := s.SharedAdminToken(ctx)
	if err != nil {
		return "", nil, err
	}
	resp, err := call(token)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return token, resp, err
	}

	s.adminMu.Lock()
	email := s.adminEmail
	s.adminMu.Unlock()
	s.Logger.Warn("shared admin token rejected, logging in again", map[string]interface{}{"email": email})

	token, err = s.Relogin(ctx, email, s.Password)
	if err != nil {
		return "", nil, err
	}
	resp, err = call(token)
	return token, resp, err
}

// CreateProduct registers a random product with the given price and stock.
func (s *Session) CreateProduct(ctx context.Context, token string, price, quantity int) (models.Product, error) {
	p := fakedata.NewProduct(price, quantity)
	created, resp, err := s.API.CreateProduct(ctx, token, p)
	if err != nil {
		return models.Product{}, err
	}
	if err := resp.ExpectStatus(http.StatusCreated); err != nil {
		return models.Product{}, err
	}
	if created.Message != models.MsgCreated {
		return models.Product{}, errors.NewAssertionFailedError("create product: unexpected message %q", created.Message)
	}
	p.ID = created.ID
	return p, nil
}

// ResetCart cancels any open cart of the token owner.
func (s *Session) ResetCart(ctx context.Context, token string) error {
	_, resp, err := s.API.CancelPurchase(ctx, token)
	if err != nil {
		return err
	}
	return resp.ExpectStatus(http.StatusOK)
}
