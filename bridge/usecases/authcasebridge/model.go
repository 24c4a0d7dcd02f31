package authcasebridge

import "github.com/jrazmi/taskforge/bridge/repositories/usersrepobridge"

// RegisterInput is the body of a registration.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginInput is the body of a login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is returned by a successful login.
type Session struct {
	Token string               `json:"token"`
	User  usersrepobridge.User `json:"user"`
}
