package serverest

import (
	"context"
	"net/http"

	commonhttp "serverest-suite/internal/common/http"
	"serverest-suite/internal/models"
)

func (c *Client) ListProducts(ctx context.Context, filter models.ProductFilter) (models.ProductList, *commonhttp.Response, error) {
	var out models.ProductList
	resp, err := c.call(ctx, commonhttp.Request{Method: http.MethodGet, Path: pathProducts, Query: filter.Query()}, &out)
	return out, resp, err
}

func (c *Client) GetProduct(ctx context.Context, id string) (models.Product, *commonhttp.Response, error) {
	var out models.Product
	resp, err := c.call(ctx, commonhttp.Request{Method: http.MethodGet, Path: pathProducts + "/" + id}, &out)
	return out, resp, err
}

// CreateProduct requires an administrator token.
func (c *Client) CreateProduct(ctx context.Context, token string, p models.Product) (models.WriteResult, *commonhttp.Response, error) {
	p.ID = ""
	var out models.WriteResult
	resp, err := c.call(ctx, commonhttp.Request{Method: http.MethodPost, Path: pathProducts, Body: p, Token: token}, &out)
	return out, resp, err
}

func (c *Client) UpdateProduct(ctx context.Context, token, id string, p models.Product) (models.WriteResult, *commonhttp.Response, error) {
	p.ID = ""
	var out models.WriteResult
	resp, err := c.call(ctx, commonhttp.Request{Method: http.MethodPut, Path: pathProducts + "/" + id, Body: p, Token: token}, &out)
	return out, resp, err
}

func (c *Client) DeleteProduct(ctx context.Context, token, id string) (models.WriteResult, *commonhttp.Response, error) {
	var out models.WriteResult
	resp, err := c.call(ctx, commonhttp.Request{Method: http.MethodDelete, Path: pathProducts + "/" + id, Token: token}, &out)
	return out, resp, err
}
