// Package serverest is a typed client for the ServeRest API.
package serverest

import (
	"context"
	"net/http"

	commonhttp "serverest-suite/internal/common/http"
	"serverest-suite/internal/models"
)

const (
	pathLogin    = "/login"
	pathUsers    = "/usuarios"
	pathProducts = "/produtos"
	pathCarts    = "/carrinhos"
)

// Client wraps the HTTP transport with one method per ServeRest operation.
// Every method returns the raw response even when the status is not a
// success, so callers can assert on negative paths; the typed result is only
// decoded for 2xx responses.
type Client struct {
	http *commonhttp.Client
}

func New(transport *commonhttp.Client) *Client {
	return &Client{http: transport}
}

// Transport exposes the underlying HTTP client for ad-hoc requests.
func (c *Client) Transport() *commonhttp.Client {
	return c.http
}

func (c *Client) call(ctx context.Context, req commonhttp.Request, out interface{}) (*commonhttp.Response, error) {
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if out != nil && isSuccess(resp.StatusCode) {
		if err := resp.Decode(out); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

// Login authenticates and returns the bearer token on success.
func (c *Client) Login(ctx context.Context, email, password string) (models.LoginResponse, *commonhttp.Response, error) {
	var out models.LoginResponse
	resp, err := c.call(ctx, commonhttp.Request{
		Method: http.MethodPost,
		Path:   pathLogin,
		Body:   models.LoginRequest{Email: email, Password: password},
	}, &out)
	return out, resp, err
}
