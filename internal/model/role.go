package model

// Role is an access-control classification carried in the session token.
type Role string

const (
	RoleCustomer Role = "KLIENT"
	RoleEmployee Role = "PRACOWNIK"
)

// IsValid reports whether r is a role known to the storefront.
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleEmployee:
		return true
	default:
		return false
	}
}

// Credentials is the payload of POST /login and POST /register.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by POST /login.
type LoginResponse struct {
	Token string `json:"token"`
}
