// Package carts holds the /carrinhos scenarios. Every scenario uses its own
// user because ServeRest allows a single open cart per user.
package carts

import (
	"context"
	"net/http"

	"serverest-suite/internal/common/validation"
	"serverest-suite/internal/models"
	"serverest-suite/internal/scenarios/suite"
)

const name = "carts"

func Scenarios() []suite.Scenario {
	out := []suite.Scenario{
		{ID: "carts.ct01", Name: "Full cart lifecycle for authenticated user", Tags: suite.Tags(suite.TagWrite), Run: fullLifecycle},
		{ID: "carts.ct02", Name: "Cancel purchase and return products to stock", Tags: suite.Tags(suite.TagWrite), Run: cancelRestoresStock},
		{ID: "carts.ct03", Name: "Prevent creating cart without authentication token", Tags: suite.Tags(suite.TagAuth), Run: withoutToken},
		{ID: "carts.ct04", Name: "Prevent creating more than one cart for the same user", Tags: suite.Tags(suite.TagWrite), Run: secondCart},
		{ID: "carts.ct05", Name: "Cart not found by ID", Tags: suite.Tags(suite.TagSmoke), Run: invalidID},
		{ID: "carts.ct06", Name: "Prevent cart creation when product stock is insufficient", Tags: suite.Tags(suite.TagWrite), Run: insufficientStock},
		{ID: "carts.ct07", Name: "Prevent cart creation with duplicated products in the same cart", Tags: suite.Tags(suite.TagWrite), Run: duplicatedProduct},
		{ID: "carts.ct08", Name: "Prevent cart creation with non-existing product", Tags: suite.Tags(suite.TagWrite), Run: unknownProduct},
		{ID: "carts.ct09", Name: "List carts and validate JSON structure", Tags: suite.Tags(suite.TagSmoke), Run: listStructure},
	}
	for i := range out {
		out[i].Suite = name
	}
	return out
}

// buyer is an administrator with an empty cart and one product in stock.
type buyer struct {
	suite.Fixture
	product models.Product
}

func newBuyer(ctx context.Context, s *suite.Session, price, stock int) (buyer, error) {
	fx, err := s.CreateAdminToken(ctx)
	if err != nil {
		return buyer{}, suite.Step("create user", err)
	}
	if err := s.ResetCart(ctx, fx.Token); err != nil {
		return buyer{}, suite.Step("reset cart", err)
	}
	p, err := s.CreateProduct(ctx, fx.Token, price, stock)
	if err != nil {
		return buyer{}, suite.Step("create product", err)
	}
	return buyer{Fixture: fx, product: p}, nil
}

func item(id string, qty int) models.CartRequest {
	return models.NewCartRequest(models.CartItem{IDProduto: id, Quantidade: qty})
}

func fullLifecycle(ctx context.Context, s *suite.Session) error {
	b, err := newBuyer(ctx, s, 150, 10)
	if err != nil {
		return err
	}

	created, resp, err := s.API.CreateCart(ctx, b.Token, item(b.product.ID, 2))
	if err != nil {
		return err
	}
	if err := suite.Check(
		suite.ExpectStatus(resp, http.StatusCreated),
		suite.ExpectMessage(resp, models.MsgCreated),
		suite.ExpectFieldPresent(resp, "_id"),
	); err != nil {
		return err
	}

	cart, resp, err := s.API.GetCart(ctx, created.ID)
	if err != nil {
		return err
	}
	if err := suite.Check(
		suite.ExpectStatus(resp, http.StatusOK),
		validation.ValidateNamed(validation.SchemaCart, resp.Body),
		suite.Expect(len(cart.Produtos) == 1, "cart has %d products, want 1", len(cart.Produtos)),
		suite.Expect(cart.PrecoTotal == 300, "precoTotal = %d, want 300", cart.PrecoTotal),
		suite.Expect(cart.QuantidadeTotal == 2, "quantidadeTotal = %d, want 2", cart.QuantidadeTotal),
		suite.Expect(cart.IDUsuario == b.User.ID, "idUsuario = %q, want %q", cart.IDUsuario, b.User.ID),
		suite.Expect(cart.ID == created.ID, "_id = %q, want %q", cart.ID, created.ID),
	); err != nil {
		return err
	}

	_, resp, err = s.API.ConcludePurchase(ctx, b.Token)
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusOK),
		suite.ExpectMessageContains(resp, models.MsgDeleted),
	)
}

func cancelRestoresStock(ctx context.Context, s *suite.Session) error {
	b, err := newBuyer(ctx, s, 200, 5)
	if err != nil {
		return err
	}
	_, resp, err := s.API.CreateCart(ctx, b.Token, item(b.product.ID, 1))
	if err != nil {
		return err
	}
	if err := suite.ExpectStatus(resp, http.StatusCreated); err != nil {
		return suite.Step("create cart", err)
	}

	reserved, _, err := s.API.GetProduct(ctx, b.product.ID)
	if err != nil {
		return err
	}
	if err := suite.Expect(reserved.Quantidade == 4, "stock after cart = %d, want 4", reserved.Quantidade); err != nil {
		return err
	}

	_, resp, err = s.API.CancelPurchase(ctx, b.Token)
	if err != nil {
		return err
	}
	if err := suite.Check(
		suite.ExpectStatus(resp, http.StatusOK),
		suite.ExpectMessage(resp, models.MsgCartCancelled),
	); err != nil {
		return err
	}

	restored, _, err := s.API.GetProduct(ctx, b.product.ID)
	if err != nil {
		return err
	}
	return suite.Expect(restored.Quantidade == 5, "stock after cancel = %d, want 5", restored.Quantidade)
}

func withoutToken(ctx context.Context, s *suite.Session) error {
	_, resp, err := s.API.CreateCart(ctx, "", item("BeeJh5lz3k6kSIzA", 1))
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusUnauthorized),
		suite.ExpectMessage(resp, models.MsgTokenInvalid),
	)
}

func secondCart(ctx context.Context, s *suite.Session) error {
	b, err := newBuyer(ctx, s, 120, 3)
	if err != nil {
		return err
	}
	req := item(b.product.ID, 1)
	_, resp, err := s.API.CreateCart(ctx, b.Token, req)
	if err != nil {
		return err
	}
	if err := suite.ExpectStatus(resp, http.StatusCreated); err != nil {
		return suite.Step("first cart", err)
	}

	_, resp, err = s.API.CreateCart(ctx, b.Token, req)
	if err != nil {
		return err
	}
	if err := suite.Check(
		suite.ExpectStatus(resp, http.StatusBadRequest),
		suite.ExpectMessageContains(resp, models.MsgOneCartOnly),
	); err != nil {
		return err
	}
	return s.ResetCart(ctx, b.Token)
}

func invalidID(ctx context.Context, s *suite.Session) error {
	_, resp, err := s.API.GetCart(ctx, "invalid-cart-id-123")
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusBadRequest),
		suite.ExpectField(resp, "id", models.MsgInvalidID),
	)
}

func insufficientStock(ctx context.Context, s *suite.Session) error {
	b, err := newBuyer(ctx, s, 100, 1)
	if err != nil {
		return err
	}
	_, resp, err := s.API.CreateCart(ctx, b.Token, item(b.product.ID, 2))
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusBadRequest),
		suite.ExpectMessageContains(resp, models.MsgInsufficientStock),
	)
}

func duplicatedProduct(ctx context.Context, s *suite.Session) error {
	b, err := newBuyer(ctx, s, 150, 10)
	if err != nil {
		return err
	}
	req := models.NewCartRequest(
		models.CartItem{IDProduto: b.product.ID, Quantidade: 1},
		models.CartItem{IDProduto: b.product.ID, Quantidade: 1},
	)
	_, resp, err := s.API.CreateCart(ctx, b.Token, req)
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusBadRequest),
		suite.ExpectMessageContains(resp, models.MsgDuplicateProduct),
	)
}

func unknownProduct(ctx context.Context, s *suite.Session) error {
	fx, err := s.CreateAdminToken(ctx)
	if err != nil {
		return suite.Step("create user", err)
	}
	if err := s.ResetCart(ctx, fx.Token); err != nil {
		return suite.Step("reset cart", err)
	}
	_, resp, err := s.API.CreateCart(ctx, fx.Token, item("AAAAAAAAAAAAAAAA", 1))
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusBadRequest),
		suite.ExpectMessageContains(resp, models.MsgProductNotFound),
	)
}

func listStructure(ctx context.Context, s *suite.Session) error {
	list, resp, err := s.API.ListCarts(ctx)
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusOK),
		validation.ValidateNamed(validation.SchemaCartList, resp.Body),
		suite.Expect(list.Quantidade == len(list.Carrinhos), "quantidade %d does not match %d carts", list.Quantidade, len(list.Carrinhos)),
	)
}
