package usersrepobridge

import (
	"time"

	"github.com/jrazmi/taskforge/core/repositories/usersrepo"
)

// MarshalToBridge converts a core user to its wire shape.
func MarshalToBridge(user usersrepo.User) User {
	return User{
		ID:        user.UserID,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// MarshalListToBridge converts a list of core users.
func MarshalListToBridge(users []usersrepo.User) []User {
	out := make([]User, len(users))
	for i, u := range users {
		out[i] = MarshalToBridge(u)
	}
	return out
}

func MarshalCreateToRepository(input CreateUserInput) usersrepo.CreateUser {
	return usersrepo.CreateUser{
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
	}
}

func MarshalUpdateToRepository(input UpdateUserInput) usersrepo.UpdateUser {
	return usersrepo.UpdateUser{
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
	}
}
