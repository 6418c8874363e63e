package models

// LoginRequest is the POST /login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by a successful login. Authorization already
// carries the "Bearer " prefix.
type LoginResponse struct {
	Message       string `json:"message"`
	Authorization string `json:"authorization"`
}
