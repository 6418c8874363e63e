// Package users holds the /usuarios scenarios.
package users

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"serverest-suite/internal/common/validation"
	"serverest-suite/internal/fakedata"
	"serverest-suite/internal/models"
	"serverest-suite/internal/scenarios/suite"
)

const name = "users"

func Scenarios() []suite.Scenario {
	out := []suite.Scenario{
		{ID: "users.ct01", Name: "List all users and validate JSON structure", Tags: suite.Tags(suite.TagSmoke), Run: listStructure},
		{ID: "users.ct02", Name: "Get a specific user by ID", Tags: suite.Tags(suite.TagSmoke), Run: getByID},
		{ID: "users.ct03", Name: "Create a new user with complete validations", Tags: suite.Tags(suite.TagWrite), Run: createAndReadBack},
		{ID: "users.ct04", Name: "Advanced JSON validations with filters", Tags: suite.Tags(suite.TagSmoke), Run: adminFilter},
		{ID: "users.ct05", Name: "Validate error messages when creating a duplicate email", Tags: suite.Tags(suite.TagWrite), Run: duplicateEmail},
		{ID: "users.ct06", Name: "Query users by administrador flag", Tags: suite.Tags(suite.TagSmoke), Run: queryByAdminFlag},
		{ID: "users.ct07", Name: "Conditional validations based on values", Tags: suite.Tags(suite.TagSmoke), Run: conditionalValues},
		{ID: "users.ct08", Name: "Validate formats with regular expressions", Tags: suite.Tags(suite.TagWrite), Run: formatChecks},
		{ID: "users.ct09", Name: "Validate absence of fields", Tags: suite.Tags(suite.TagSmoke), Run: absentFields},
		{ID: "users.ct10", Name: "Query a created user by e-mail", Tags: suite.Tags(suite.TagWrite), Run: queryByEmail},
		{ID: "users.ct11", Name: "Validate create response shape", Tags: suite.Tags(suite.TagWrite), Run: createResponseShape},
		{ID: "users.ct12", Name: "Create a user from a fixed payload", Tags: suite.Tags(suite.TagWrite), Run: createFromFixedPayload},
		{ID: "users.ct13", Name: "Create and delete user", Tags: suite.Tags(suite.TagWrite), Run: createAndDelete},
		{ID: "users.ct14", Name: "Prevent deleting user that has an associated cart", Tags: suite.Tags(suite.TagWrite), Run: deleteUserWithCart},
		{ID: "users.ct15", Name: "Get user by unknown ID should return 400", Tags: suite.Tags(suite.TagSmoke), Run: unknownID},
		{ID: "users.ct16", Name: "Prevent updating user with duplicate e-mail", Tags: suite.Tags(suite.TagWrite), Run: updateDuplicateEmail},
	}
	for i := range out {
		out[i].Suite = name
	}
	return out
}

// fixedPayload mirrors the canned user body the suite ships with; the e-mail is replaced per run.
func fixedPayload() models.User {
	return models.User{
		Nome:          "Fulano da Silva",
		Email:         fakedata.Email(),
		Password:      "teste",
		Administrador: "true",
	}
}

func createUser(ctx context.Context, s *suite.Session, u models.User) (string, error) {
	created, resp, err := s.API.CreateUser(ctx, u)
	if err != nil {
		return "", err
	}
	if err := suite.Check(
		suite.ExpectStatus(resp, http.StatusCreated),
		suite.ExpectMessage(resp, models.MsgCreated),
	); err != nil {
		return "", suite.Step("create user", err)
	}
	return created.ID, nil
}

func listStructure(ctx context.Context, s *suite.Session) error {
	list, resp, err := s.API.ListUsers(ctx, models.UserFilter{})
	if err != nil {
		return err
	}
	if err := suite.Check(
		suite.ExpectStatus(resp, http.StatusOK),
		validation.ValidateNamed(validation.SchemaUserList, resp.Body),
		suite.Expect(list.Quantidade > 0, "quantidade = %d, want > 0", list.Quantidade),
		suite.Expect(len(list.Usuarios) == list.Quantidade, "quantidade %d does not match %d users", list.Quantidade, len(list.Usuarios)),
	); err != nil {
		return err
	}
	for _, u := range list.Usuarios {
		if !validation.ValidateEmail(u.Email) {
			return suite.Expect(false, "user %s has malformed email %q", u.ID, u.Email)
		}
	}
	return nil
}

func getByID(ctx context.Context, s *suite.Session) error {
	list, _, err := s.API.ListUsers(ctx, models.UserFilter{})
	if err != nil {
		return err
	}
	if err := suite.Expect(len(list.Usuarios) > 0, "no users to read"); err != nil {
		return err
	}
	id := list.Usuarios[0].ID

	_, resp, err := s.API.GetUser(ctx, id)
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusOK),
		suite.ExpectField(resp, "_id", id),
		suite.ExpectFieldPresent(resp, "nome"),
		suite.ExpectFieldPresent(resp, "email"),
	)
}

func createAndReadBack(ctx context.Context, s *suite.Session) error {
	u := fakedata.NewUser(true)
	id, err := createUser(ctx, s, u)
	if err != nil {
		return err
	}
	_, resp, err := s.API.GetUser(ctx, id)
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusOK),
		suite.ExpectField(resp, "nome", u.Nome),
		suite.ExpectField(resp, "email", u.Email),
		validation.ValidateNamed(validation.SchemaUser, resp.Body),
	)
}

func adminFilter(ctx context.Context, s *suite.Session) error {
	list, resp, err := s.API.ListUsers(ctx, models.UserFilter{})
	if err != nil {
		return err
	}
	if err := suite.ExpectStatus(resp, http.StatusOK); err != nil {
		return err
	}
	admins := 0
	for _, u := range list.Usuarios {
		if u.IsAdmin() {
			admins++
		}
		if u.Email == "" {
			return suite.Expect(false, "user %s has no email", u.ID)
		}
	}
	return suite.Expect(admins > 0, "no administrators among %d users", len(list.Usuarios))
}

func duplicateEmail(ctx context.Context, s *suite.Session) error {
	email := fakedata.Email()
	first := models.User{Nome: "User 1", Email: email, Password: "senha123", Administrador: "false"}
	if _, err := createUser(ctx, s, first); err != nil {
		return err
	}

	second := models.User{Nome: "User 2", Email: email, Password: "anotherpassword", Administrador: "true"}
	_, resp, err := s.API.CreateUser(ctx, second)
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusBadRequest),
		suite.ExpectMessage(resp, models.MsgEmailInUse),
	)
}

func queryByAdminFlag(ctx context.Context, s *suite.Session) error {
	list, resp, err := s.API.ListUsers(ctx, models.UserFilter{Administrador: "true"})
	if err != nil {
		return err
	}
	if err := suite.ExpectStatus(resp, http.StatusOK); err != nil {
		return err
	}
	for _, u := range list.Usuarios {
		if err := suite.Check(
			suite.Expect(u.Nome != "", "user %s has no nome", u.ID),
			suite.Expect(u.Email != "", "user %s has no email", u.ID),
			suite.Expect(u.IsAdmin(), "user %s administrador = %q, want \"true\"", u.ID, u.Administrador),
		); err != nil {
			return err
		}
	}
	return nil
}

func conditionalValues(ctx context.Context, s *suite.Session) error {
	list, _, err := s.API.ListUsers(ctx, models.UserFilter{})
	if err != nil {
		return err
	}
	if err := suite.Expect(len(list.Usuarios) > 0, "no users to inspect"); err != nil {
		return err
	}
	u := list.Usuarios[0]
	return suite.Check(
		suite.Expect(u.Administrador == "true" || u.Administrador == "false", "administrador = %q", u.Administrador),
		suite.Expect(len(u.Email) > 5, "email %q too short", u.Email),
		suite.Expect(len(u.Password) > 0, "empty password for %s", u.ID),
	)
}

func formatChecks(ctx context.Context, s *suite.Session) error {
	u := models.User{
		Nome:          "Regex Test",
		Email:         fmt.Sprintf("test.regex.%d@example.com", time.Now().UnixNano()),
		Password:      "StrongPassword@123",
		Administrador: "false",
	}
	id, err := createUser(ctx, s, u)
	if err != nil {
		return err
	}
	got, resp, err := s.API.GetUser(ctx, id)
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusOK),
		suite.Expect(validation.ValidateEmail(got.Email), "email %q is malformed", got.Email),
		suite.Expect(validation.ValidatePersonName(got.Nome), "nome %q is not a person name", got.Nome),
		suite.Expect(validation.ValidateServeRestID(got.ID), "_id %q is not a ServeRest id", got.ID),
	)
}

func absentFields(ctx context.Context, s *suite.Session) error {
	_, resp, err := s.API.ListUsers(ctx, models.UserFilter{})
	if err != nil {
		return err
	}
	if err := suite.Check(
		suite.ExpectStatus(resp, http.StatusOK),
		suite.ExpectFieldAbsent(resp, "error"),
		suite.ExpectFieldAbsent(resp, "errorMessage"),
	); err != nil {
		return err
	}

	var page struct {
		Usuarios []json.RawMessage `json:"usuarios"`
	}
	if err := resp.Decode(&page); err != nil {
		return err
	}
	if err := suite.Expect(len(page.Usuarios) > 0, "no users to inspect"); err != nil {
		return err
	}
	var first map[string]interface{}
	if err := json.Unmarshal(page.Usuarios[0], &first); err != nil {
		return err
	}
	_, hasCPF := first["cpf"]
	_, hasPhone := first["phone"]
	return suite.Check(
		suite.Expect(!hasCPF, "user carries a cpf field"),
		suite.Expect(!hasPhone, "user carries a phone field"),
		validation.ValidateNamed(validation.SchemaUser, page.Usuarios[0]),
	)
}

func queryByEmail(ctx context.Context, s *suite.Session) error {
	u := fixedPayload()
	if _, err := createUser(ctx, s, u); err != nil {
		return err
	}
	list, resp, err := s.API.ListUsers(ctx, models.UserFilter{Email: u.Email})
	if err != nil {
		return err
	}
	if err := suite.Check(
		suite.ExpectStatus(resp, http.StatusOK),
		suite.Expect(len(list.Usuarios) == 1, "found %d users for %s, want 1", len(list.Usuarios), u.Email),
	); err != nil {
		return err
	}
	return suite.Check(
		suite.Expect(list.Usuarios[0].Email == u.Email, "email = %q, want %q", list.Usuarios[0].Email, u.Email),
		suite.Expect(list.Usuarios[0].Nome != "", "nome is empty"),
	)
}

func createResponseShape(ctx context.Context, s *suite.Session) error {
	u := models.User{Nome: "Complex User", Email: fakedata.Email(), Password: "senha123", Administrador: "true"}
	created, resp, err := s.API.CreateUser(ctx, u)
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusCreated),
		suite.ExpectMessage(resp, models.MsgCreated),
		suite.Expect(len(created.ID) > 10, "_id %q too short", created.ID),
		validation.ValidateNamed(validation.SchemaWriteResult, resp.Body),
	)
}

func createFromFixedPayload(ctx context.Context, s *suite.Session) error {
	created, resp, err := s.API.CreateUser(ctx, fixedPayload())
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusCreated),
		suite.ExpectMessage(resp, models.MsgCreated),
		suite.Expect(created.ID != "", "_id missing"),
	)
}

func createAndDelete(ctx context.Context, s *suite.Session) error {
	u := fixedPayload()
	id, err := createUser(ctx, s, u)
	if err != nil {
		return err
	}

	_, resp, err := s.API.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if err := suite.Check(
		suite.ExpectStatus(resp, http.StatusOK),
		suite.ExpectMessage(resp, models.MsgDeleted),
	); err != nil {
		return err
	}

	list, resp, err := s.API.ListUsers(ctx, models.UserFilter{Email: u.Email})
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusOK),
		suite.Expect(list.Quantidade == 0 && len(list.Usuarios) == 0, "deleted user still listed (%d)", list.Quantidade),
	)
}

func deleteUserWithCart(ctx context.Context, s *suite.Session) error {
	fx, err := s.CreateAdminToken(ctx)
	if err != nil {
		return suite.Step("create admin", err)
	}
	product, err := s.CreateProduct(ctx, fx.Token, 100, 5)
	if err != nil {
		return suite.Step("create product", err)
	}
	if err := s.ResetCart(ctx, fx.Token); err != nil {
		return suite.Step("reset cart", err)
	}
	_, resp, err := s.API.CreateCart(ctx, fx.Token, models.NewCartRequest(models.CartItem{IDProduto: product.ID, Quantidade: 1}))
	if err != nil {
		return err
	}
	if err := suite.ExpectStatus(resp, http.StatusCreated); err != nil {
		return suite.Step("create cart", err)
	}

	_, resp, err = s.API.DeleteUser(ctx, fx.User.ID)
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusBadRequest),
		suite.ExpectMessage(resp, models.MsgUserHasCart),
		suite.ExpectFieldPresent(resp, "idCarrinho"),
	)
}

func unknownID(ctx context.Context, s *suite.Session) error {
	_, resp, err := s.API.GetUser(ctx, "3F7K9P2XQ8M1R6TB")
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusBadRequest),
		suite.ExpectMessage(resp, models.MsgUserNotFound),
	)
}

func updateDuplicateEmail(ctx context.Context, s *suite.Session) error {
	one := models.User{Nome: "User One", Email: fakedata.Email(), Password: "Senha123@", Administrador: "false"}
	two := models.User{Nome: "User Two", Email: fakedata.Email(), Password: "Senha456@", Administrador: "true"}

	id, err := createUser(ctx, s, one)
	if err != nil {
		return err
	}
	if _, err := createUser(ctx, s, two); err != nil {
		return err
	}

	one.Nome = "User One Updated"
	one.Email = two.Email
	one.Administrador = "true"
	_, resp, err := s.API.UpdateUser(ctx, id, one)
	if err != nil {
		return err
	}
	return suite.Check(
		suite.ExpectStatus(resp, http.StatusBadRequest),
		suite.ExpectMessage(resp, models.MsgEmailInUse),
	)
}
