// Package login holds the /login scenarios.
package login

import (
	"context"
	"fmt"
	"net/http"

	"serverest-suite/internal/common/validation"
	"serverest-suite/internal/fakedata"
	"serverest-suite/internal/models"
	"serverest-suite/internal/scenarios/suite"
)

const name = "login"

// InvalidEmails are rejected by ServeRest's e-mail format check.
var InvalidEmails = []string{
	"plainaddress",
	"@semusuario.com",
	"usuario@.com",
	"usuario@dominio",
	"usuario com espaco@gmail.com",
	"usuario@@gmail.com",
}

func Scenarios() []suite.Scenario {
	out := []suite.Scenario{
		{ID: "login.ct01", Name: "Perform login with valid credentials and validate token", Tags: suite.Tags(suite.TagAuth), Run: validCredentials},
		{ID: "login.ct02", Name: "Attempt login with invalid credentials", Tags: suite.Tags(suite.TagAuth, suite.TagSmoke), Run: invalidCredentials},
		{ID: "login.ct03", Name: "Validate required fields on login", Tags: suite.Tags(suite.TagAuth), Run: requiredFields},
		{ID: "login.ct04", Name: "Login and use token to access a protected resource", Tags: suite.Tags(suite.TagAuth), Run: nonAdminOnProtectedRoute},
	}
	for i, email := range InvalidEmails {
		out = append(out, suite.Scenario{
			ID:   fmt.Sprintf("login.ct05.%d", i+1),
			Name: fmt.Sprintf("Validate invalid email format: %s", email),
			Tags: suite.Tags(suite.TagAuth),
			Run:  invalidEmailFormat(email),
		})
	}
	for i := range out {
		out[i].Suite = name
	}
	return out
}

func validCredentials(ctx context.Context, s *suite.Session) error {
	u := fakedata.NewUser(false)
	u.Password = s.Password
	_, resp, err := s.API.CreateUser(ctx, u)
	if err != nil {
		return err
	}
	if err := suite.ExpectStatus(resp, http.StatusCreated); err != nil {
		return suite.Step("create user", err)
	}

	_, resp, err = s.API.Login(ctx, u.Email, u.Password)
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusOK),
		suite.ExpectMessage(resp, models.MsgLoginOK),
		suite.ExpectFieldPresent(resp, "authorization"),
		validation.ValidateNamed(validation.SchemaLogin, resp.Body),
	)
}

func invalidCredentials(ctx context.Context, s *suite.Session) error {
	_, resp, err := s.API.Login(ctx, "usuario@inexistente.com", "senhaerrada")
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusUnauthorized),
		suite.ExpectMessage(resp, models.MsgLoginInvalid),
		suite.ExpectFieldAbsent(resp, "authorization"),
	)
}

func requiredFields(ctx context.Context, s *suite.Session) error {
	cases := []struct {
		email, password string
		fields          []string
	}{
		{email: "", password: "senha123", fields: []string{"email"}},
		{email: "test@email.com", password: "", fields: []string{"password"}},
		{email: "", password: "", fields: []string{"email", "password"}},
	}
	for _, c := range cases {
		_, resp, err := s.API.Login(ctx, c.email, c.password)
		if err != nil {
			return err
		}
		if err := suite.ExpectStatus(resp, http.StatusBadRequest); err != nil {
			return err
		}
		for _, f := range c.fields {
			if err := suite.ExpectFieldPresent(resp, f); err != nil {
				return err
			}
		}
	}
	return nil
}

func nonAdminOnProtectedRoute(ctx context.Context, s *suite.Session) error {
	fx, err := s.CreateUserToken(ctx)
	if err != nil {
		return suite.Step("create regular user", err)
	}

	_, resp, err := s.API.CreateProduct(ctx, fx.Token, fakedata.NewProduct(100, 10))
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusForbidden),
		suite.ExpectMessage(resp, models.MsgAdminOnly),
	)
}

func invalidEmailFormat(email string) func(context.Context, *suite.Session) error {
	return func(ctx context.Context, s *suite.Session) error {
		_, resp, err := s.API.Login(ctx, email, "senha123")
		if err != nil {
			return err
		}
		return suite.Check(
			suite.ExpectStatus(resp, http.StatusBadRequest),
			suite.ExpectFieldPresent(resp, "email"),
		)
	}
}
