package client

import (
	"context"

	"helpdesk-console/internal/model"
	"helpdesk-console/internal/pipeline"
)

type AuthAPI struct {
	pipe *pipeline.Client
}

func NewAuthAPI(deps Deps) *AuthAPI {
	return &AuthAPI{pipe: deps.pipeline("/api/auth")}
}

// Login exchanges credentials for the opaque bearer token and the profile
// whose permission matrix gates the whole console.
func (a *AuthAPI) Login(ctx context.Context, email string, password string) (*model.LoginResult, error) {
	var result model.LoginResult
	err := a.pipe.Post(ctx, "/login", model.LoginRequest{Email: email, Password: password}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Profile refreshes the signed-in user's profile, including the permission
// matrix and unread notification count.
func (a *AuthAPI) Profile(ctx context.Context) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := a.pipe.Get(ctx, "/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ChangePassword is proxied verbatim; the backend decides policy.
func (a *AuthAPI) ChangePassword(ctx context.Context, current string, next string) error {
	body := map[string]string{"currentPassword": current, "newPassword": next}
	return a.pipe.Post(ctx, "/change-password", body, nil)
}
