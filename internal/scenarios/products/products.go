// Package products holds the /produtos scenarios.
package products

import (
	"context"
	"net/http"
	"strings"

	commonhttp "serverest-suite/internal/common/http"
	"serverest-suite/internal/common/validation"
	"serverest-suite/internal/fakedata"
	"serverest-suite/internal/models"
	"serverest-suite/internal/scenarios/suite"
)

const name = "products"

func Scenarios() []suite.Scenario {
	out := []suite.Scenario{
		{ID: "products.ct01", Name: "List all products and validate JSON structure", Tags: suite.Tags(suite.TagSmoke), Run: listStructure},
		{ID: "products.ct02", Name: "Create a new product as an administrator", Tags: suite.Tags(suite.TagWrite), Run: createAsAdmin},
		{ID: "products.ct03", Name: "Validate error when creating a product with a duplicate name", Tags: suite.Tags(suite.TagWrite), Run: duplicateName},
		{ID: "products.ct04", Name: "Search for products using query parameters", Tags: suite.Tags(suite.TagSmoke), Run: searchWithFilters},
		{ID: "products.ct05", Name: "Update information of an existing product", Tags: suite.Tags(suite.TagWrite), Run: updateAndReadBack},
		{ID: "products.ct06", Name: "Validate price calculations and comparisons", Tags: suite.Tags(suite.TagSmoke), Run: priceStatistics},
		{ID: "products.ct07", Name: "Attempt to create a product without an authentication token", Tags: suite.Tags(suite.TagAuth), Run: createWithoutToken},
		{ID: "products.ct08", Name: "Validate required fields when creating a product", Tags: suite.Tags(suite.TagWrite), Run: requiredFields},
		{ID: "products.ct09", Name: "Group products by price range", Tags: suite.Tags(suite.TagSmoke), Run: priceBuckets},
		{ID: "products.ct10", Name: "Delete an existing product", Tags: suite.Tags(suite.TagWrite), Run: deleteAndVerify},
		{ID: "products.ct11", Name: "Create a product from a fixed payload", Tags: suite.Tags(suite.TagWrite), Run: createFromFixedPayload},
		{ID: "products.ct12", Name: "Prevent deleting a product that is part of a cart", Tags: suite.Tags(suite.TagWrite), Run: deleteProductInCart},
		{ID: "products.ct13", Name: "Restrict product creation to administrators only", Tags: suite.Tags(suite.TagAuth), Run: nonAdminCreate},
	}
	for i := range out {
		out[i].Suite = name
	}
	return out
}

func listStructure(ctx context.Context, s *suite.Session) error {
	list, resp, err := s.API.ListProducts(ctx, models.ProductFilter{})
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusOK),
		validation.ValidateNamed(validation.SchemaProductList, resp.Body),
		suite.Expect(list.Quantidade >= 0, "quantidade = %d", list.Quantidade),
	)
}

func createAsAdmin(ctx context.Context, s *suite.Session) error {
	p := models.Product{Nome: fakedata.ProductName(), Preco: 250, Descricao: "Automated test product", Quantidade: 100}
	var created models.WriteResult
	_, resp, err := s.WithSharedAdmin(ctx, func(token string) (*commonhttp.Response, error) {
		var resp *commonhttp.Response
		var err error
		created, resp, err = s.API.CreateProduct(ctx, token, p)
		return resp, err
	})
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

	_, resp, err = s.API.GetProduct(ctx, created.ID)
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusOK),
		suite.ExpectField(resp, "nome", p.Nome),
		suite.ExpectField(resp, "preco", 250),
		suite.ExpectField(resp, "quantidade", 100),
		validation.ValidateNamed(validation.SchemaProduct, resp.Body),
	)
}

func duplicateName(ctx context.Context, s *suite.Session) error {
	token, err := s.SharedAdminToken(ctx)
	if err != nil {
		return suite.Step("admin login", err)
	}
	p := models.Product{Nome: fakedata.ProductName(), Preco: 150, Descricao: "First product", Quantidade: 50}
	_, resp, err := s.API.CreateProduct(ctx, token, p)
	if err != nil {
		return err
	}
	if err := suite.ExpectStatus(resp, http.StatusCreated); err != nil {
		return suite.Step("first create", err)
	}

	_, resp, err = s.API.CreateProduct(ctx, token, p)
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusBadRequest),
		suite.ExpectMessage(resp, models.MsgProductNameInUse),
	)
}

func searchWithFilters(ctx context.Context, s *suite.Session) error {
	byName, resp, err := s.API.ListProducts(ctx, models.ProductFilter{Nome: "Logitech"})
	if err != nil {
		return err
	}
	if err := suite.ExpectStatus(resp, http.StatusOK); err != nil {
		return err
	}
	for _, p := range byName.Produtos {
		if !strings.Contains(p.Nome, "Logitech") {
			return suite.Expect(false, "product %q returned for nome=Logitech", p.Nome)
		}
	}

	_, resp, err = s.API.ListProducts(ctx, models.ProductFilter{Preco: 100})
	if err != nil {
		return err
	}
	return suite.ExpectStatus(resp, http.StatusOK)
}

func updateAndReadBack(ctx context.Context, s *suite.Session) error {
	p := models.Product{Nome: fakedata.ProductName(), Preco: 100, Descricao: "Original description", Quantidade: 50}
	var created models.WriteResult
	token, resp, err := s.WithSharedAdmin(ctx, func(token string) (*commonhttp.Response, error) {
		var resp *commonhttp.Response
		var err error
		created, resp, err = s.API.CreateProduct(ctx, token, p)
		return resp, err
	})
	if err != nil {
		return suite.Step("create product", err)
	}
	if err := suite.ExpectStatus(resp, http.StatusCreated); err != nil {
		return suite.Step("create product", err)
	}

	p.Preco, p.Descricao, p.Quantidade = 200, "Updated description", 75
	_, resp, err = s.API.UpdateProduct(ctx, token, created.ID, p)
	if err != nil {
		return err
	}
	if err := suite.Check(
		suite.ExpectStatus(resp, http.StatusOK),
		suite.ExpectMessage(resp, models.MsgUpdated),
	); err != nil {
		return err
	}

	_, resp, err = s.API.GetProduct(ctx, created.ID)
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusOK),
		suite.ExpectField(resp, "preco", 200),
		suite.ExpectField(resp, "descricao", "Updated description"),
		suite.ExpectField(resp, "quantidade", 75),
	)
}

func priceStatistics(ctx context.Context, s *suite.Session) error {
	list, resp, err := s.API.ListProducts(ctx, models.ProductFilter{})
	if err != nil {
		return err
	}
	if err := suite.ExpectStatus(resp, http.StatusOK); err != nil {
		return err
	}
	if len(list.Produtos) == 0 {
		return nil
	}

	lo, hi, sum := list.Produtos[0].Preco, list.Produtos[0].Preco, 0
	for _, p := range list.Produtos {
		if err := suite.Expect(p.Preco > 0 && p.Preco < 100000, "product %s price %d out of range", p.ID, p.Preco); err != nil {
			return err
		}
		lo, hi = min(lo, p.Preco), max(hi, p.Preco)
		sum += p.Preco
	}
	s.Logger.Info("product price statistics", map[string]interface{}{
		"highest": hi,
		"lowest":  lo,
		"average": float64(sum) / float64(len(list.Produtos)),
	})
	return nil
}

func createWithoutToken(ctx context.Context, s *suite.Session) error {
	p := models.Product{Nome: "Product Without Auth", Preco: 100, Descricao: "Test", Quantidade: 10}
	_, resp, err := s.API.CreateProduct(ctx, "", p)
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusUnauthorized),
		suite.ExpectMessage(resp, models.MsgTokenInvalid),
	)
}

func requiredFields(ctx context.Context, s *suite.Session) error {
	token, err := s.SharedAdminToken(ctx)
	if err != nil {
		return suite.Step("admin login", err)
	}
	cases := []struct {
		label string
		p     models.Product
	}{
		{label: "empty name", p: models.Product{Nome: "", Preco: 100, Descricao: "Desc", Quantidade: 10}},
		{label: "negative price", p: models.Product{Nome: "Product Test", Preco: -10, Descricao: "Desc", Quantidade: 10}},
		{label: "empty description", p: models.Product{Nome: "Product Test", Preco: 100, Descricao: "", Quantidade: 10}},
		{label: "negative quantity", p: models.Product{Nome: "Product Test", Preco: 100, Descricao: "Desc", Quantidade: -5}},
	}
	for _, c := range cases {
		_, resp, err := s.API.CreateProduct(ctx, token, c.p)
		if err != nil {
			return err
		}
		if err := suite.ExpectStatus(resp, http.StatusBadRequest); err != nil {
			return suite.Step(c.label, err)
		}
	}
	return nil
}

func priceBuckets(ctx context.Context, s *suite.Session) error {
	list, resp, err := s.API.ListProducts(ctx, models.ProductFilter{})
	if err != nil {
		return err
	}
	if err := suite.ExpectStatus(resp, http.StatusOK); err != nil {
		return err
	}
	var cheap, medium, expensive int
	for _, p := range list.Produtos {
		switch {
		case p.Preco < 100:
			cheap++
		case p.Preco < 500:
			medium++
		default:
			expensive++
		}
	}
	s.Logger.Info("product price buckets", map[string]interface{}{
		"cheap":     cheap,
		"medium":    medium,
		"expensive": expensive,
	})
	return suite.Expect(cheap+medium+expensive == len(list.Produtos), "bucket counts do not add up")
}

func deleteAndVerify(ctx context.Context, s *suite.Session) error {
	token, err := s.SharedAdminToken(ctx)
	if err != nil {
		return suite.Step("admin login", err)
	}
	p, err := s.CreateProduct(ctx, token, 100, 10)
	if err != nil {
		return suite.Step("create product", err)
	}

	_, resp, err := s.API.DeleteProduct(ctx, token, p.ID)
	if err != nil {
		return err
	}
	if err := suite.Check(
		suite.ExpectStatus(resp, http.StatusOK),
		suite.ExpectMessage(resp, models.MsgDeleted),
	); err != nil {
		return err
	}

	_, resp, err = s.API.GetProduct(ctx, p.ID)
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusBadRequest),
		suite.ExpectMessage(resp, models.MsgProductNotFound),
	)
}

func createFromFixedPayload(ctx context.Context, s *suite.Session) error {
	token, err := s.SharedAdminToken(ctx)
	if err != nil {
		return suite.Step("admin login", err)
	}
	p := models.Product{Nome: fakedata.ProductName(), Preco: 470, Descricao: "Mouse", Quantidade: 381}
	_, resp, err := s.API.CreateProduct(ctx, token, p)
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusCreated),
		suite.ExpectMessage(resp, models.MsgCreated),
		suite.ExpectFieldPresent(resp, "_id"),
	)
}

func deleteProductInCart(ctx context.Context, s *suite.Session) error {
	adminToken, err := s.SharedAdminToken(ctx)
	if err != nil {
		return suite.Step("admin login", err)
	}
	p, err := s.CreateProduct(ctx, adminToken, 300, 10)
	if err != nil {
		return suite.Step("create product", err)
	}

	buyer, err := s.CreateUserToken(ctx)
	if err != nil {
		return suite.Step("create buyer", err)
	}
	if err := s.ResetCart(ctx, buyer.Token); err != nil {
		return suite.Step("reset cart", err)
	}
	_, resp, err := s.API.CreateCart(ctx, buyer.Token, models.NewCartRequest(models.CartItem{IDProduto: p.ID, Quantidade: 1}))
	if err != nil {
		return err
	}
	if err := suite.ExpectStatus(resp, http.StatusCreated); err != nil {
		return suite.Step("create cart", err)
	}

	_, resp, err = s.API.DeleteProduct(ctx, adminToken, p.ID)
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusBadRequest),
		suite.ExpectMessage(resp, models.MsgProductInCart),
	)
}

func nonAdminCreate(ctx context.Context, s *suite.Session) error {
	fx, err := s.CreateUserToken(ctx)
	if err != nil {
		return suite.Step("create regular user", err)
	}
	p := models.Product{Nome: "Restricted Product", Preco: 500, Descricao: "Product should be created only by admins", Quantidade: 5}
	_, resp, err := s.API.CreateProduct(ctx, fx.Token, p)
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusForbidden),
		suite.ExpectMessage(resp, models.MsgAdminOnly),
	)
}
