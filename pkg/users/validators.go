package users

import "github.com/locallibrary/catalog/pkg/models"

// RegisterPayload is the body of both registration endpoints.
type RegisterPayload struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Password string `json:"password" validate:"required,max=128"`
}

// UserResponse mirrors the public fields of a user. Groups holds role ids.
type UserResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Groups   []int  `json:"groups"`
}

type RegisterResponse struct {
	User    UserResponse `json:"user"`
	Message string       `json:"message"`
}

const registeredMessage = "User Created Successfully.  Now perform Login to get your token"

func newUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Groups:   user.GroupIDs(),
	}
}
