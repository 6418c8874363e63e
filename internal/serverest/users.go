package serverest

import (
	"context"
	"net/http"

	commonhttp "serverest-suite/internal/common/http"
	"serverest-suite/internal/models"
)

func (c *Client) ListUsers(ctx context.Context, filter models.UserFilter) (models.UserList, *commonhttp.Response, error) {
	var out models.UserList
	resp, err := c.call(ctx, commonhttp.Request{Method: http.MethodGet, Path: pathUsers, Query: filter.Query()}, &out)
	return out, resp, err
}

func (c *Client) GetUser(ctx context.Context, id string) (models.User, *commonhttp.Response, error) {
	var out models.User
	resp, err := c.call(ctx, commonhttp.Request{Method: http.MethodGet, Path: pathUsers + "/" + id}, &out)
	return out, resp, err
}

// CreateUser registers u; the ID field is ignored.
func (c *Client) CreateUser(ctx context.Context, u models.User) (models.WriteResult, *commonhttp.Response, error) {
	u.ID = ""
	var out models.WriteResult
	resp, err := c.call(ctx, commonhttp.Request{Method: http.MethodPost, Path: pathUsers, Body: u}, &out)
	return out, resp, err
}

// UpdateUser replaces the user with the given id. ServeRest creates the user
// (201) when the id is unknown.
func (c *Client) UpdateUser(ctx context.Context, id string, u models.User) (models.WriteResult, *commonhttp.Response, error) {
	u.ID = ""
	var out models.WriteResult
	resp, err := c.call(ctx, commonhttp.Request{Method: http.MethodPut, Path: pathUsers + "/" + id, Body: u}, &out)
	return out, resp, err
}

func (c *Client) DeleteUser(ctx context.Context, id string) (models.WriteResult, *commonhttp.Response, error) {
	var out models.WriteResult
	resp, err := c.call(ctx, commonhttp.Request{Method: http.MethodDelete, Path: pathUsers + "/" + id}, &out)
	return out, resp, err
}
