package serverest

import (
	"context"
	"net/http"

	commonhttp "serverest-suite/internal/common/http"
	"serverest-suite/internal/models"
)

const (
	pathConclude = pathCarts + "/concluir-compra"
	pathCancel   = pathCarts + "/cancelar-compra"
)

func (c *Client) ListCarts(ctx context.Context) (models.CartList, *commonhttp.Response, error) {
	var out models.CartList
	resp, err := c.call(ctx, commonhttp.Request{Method: http.MethodGet, Path: pathCarts}, &out)
	return out, resp, err
}

func (c *Client) GetCart(ctx context.Context, id string) (models.Cart, *commonhttp.Response, error) {
	var out models.Cart
	resp, err := c.call(ctx, commonhttp.Request{Method: http.MethodGet, Path: pathCarts + "/" + id}, &out)
	return out, resp, err
}

// CreateCart opens the token owner's cart. A user may hold only one.
func (c *Client) CreateCart(ctx context.Context, token string, req models.CartRequest) (models.WriteResult, *commonhttp.Response, error) {
	var out models.WriteResult
	resp, err := c.call(ctx, commonhttp.Request{Method: http.MethodPost, Path: pathCarts, Body: req, Token: token}, &out)
	return out, resp, err
}

// ConcludePurchase deletes the token owner's cart without restocking.
func (c *Client) ConcludePurchase(ctx context.Context, token string) (models.WriteResult, *commonhttp.Response, error) {
	var out models.WriteResult
	resp, err := c.call(ctx, commonhttp.Request{Method: http.MethodDelete, Path: pathConclude, Token: token}, &out)
	return out, resp, err
}

// CancelPurchase deletes the token owner's cart and returns its items to stock.
func (c *Client) CancelPurchase(ctx context.Context, token string) (models.WriteResult, *commonhttp.Response, error) {
	var out models.WriteResult
	resp, err := c.call(ctx, commonhttp.Request{Method: http.MethodDelete, Path: pathCancel, Token: token}, &out)
	return out, resp, err
}
