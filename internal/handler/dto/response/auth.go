package response

import (
	"fleetrent/internal/usecase/queries"

	"github.com/google/uuid"
)

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

func FromAuthorizedUser(token string, view *queries.AuthorizedUserView) *LoginResponse {
	return &LoginResponse{
		AccessToken: token,
		User: UserResponse{
			ID:    view.ID,
			Email: view.Email,
			Role:  view.Role,
		},
	}
}

func FromUserView(view *queries.AuthorizedUserView) *UserResponse {
	return &UserResponse{
		ID:    view.ID,
		Email: view.Email,
		Role:  view.Role,
	}
}
