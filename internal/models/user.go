package models

// User is a ServeRest user. Administrador is the string "true" or "false".
type User struct {
	ID            string `json:"_id,omitempty"`
	Nome          string `json:"nome"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Administrador string `json:"administrador"`
}

// IsAdmin reports whether the user carries the administrator flag.
func (u User) IsAdmin() bool {
	return u.Administrador == "true"
}

// UserList is the GET /usuarios payload.
type UserList struct {
	Quantidade int    `json:"quantidade"`
	Usuarios   []User `json:"usuarios"`
}

// UserFilter holds the query parameters accepted by GET /usuarios.
type UserFilter struct {
	ID            string
	Nome          string
	Email         string
	Password      string
	Administrador string
}

// Query returns the non-empty filter values keyed by ServeRest parameter name.
func (f UserFilter) Query() map[string]string {
	q := map[string]string{}
	set := func(k, v string) {
		if v != "" {
			q[k] = v
		}
	}
	set("_id", f.ID)
	set("nome", f.Nome)
	set("email", f.Email)
	set("password", f.Password)
	set("administrador", f.Administrador)
	return q
}

// AdminFlag renders a bool the way ServeRest expects it.
func AdminFlag(admin bool) string {
	if admin {
		return "true"
	}
	return "false"
}
