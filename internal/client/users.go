package client

import (
	"context"
	"net/url"
	"strconv"

	"helpdesk-console/internal/model"
	"helpdesk-console/internal/pipeline"
)

type UserAPI struct {
	pipe *pipeline.Client
}

func NewUserAPI(deps Deps) *UserAPI {
	return &UserAPI{pipe: deps.pipeline("/api/users")}
}

type UserPage struct {
	Items []model.User `json:"items"`
	Total int          `json:"total"`
}

func (u *UserAPI) List(ctx context.Context, search string, page int, limit int) (*UserPage, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var result UserPage
	if err := u.pipe.Get(ctx, "", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (u *UserAPI) Get(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := u.pipe.Get(ctx, "/"+id, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type SaveUserRequest struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	RoleID       string `json:"roleId"`
	DepartmentID string `json:"departmentId,omitempty"`
	Password     string `json:"password,omitempty"`
}

func (u *UserAPI) Create(ctx context.Context, req SaveUserRequest) (*model.User, error) {
	var user model.User
	if err := u.pipe.Post(ctx, "", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserAPI) Update(ctx context.Context, id string, req SaveUserRequest) (*model.User, error) {
	var user model.User
	if err := u.pipe.Put(ctx, "/"+id, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserAPI) Delete(ctx context.Context, id string) error {
	return u.pipe.Delete(ctx, "/"+id, nil)
}

func (u *UserAPI) SetActive(ctx context.Context, id string, active bool) error {
	return u.pipe.Put(ctx, "/"+id+"/active", map[string]bool{"active": active}, nil)
}

func (u *UserAPI) AssignRole(ctx context.Context, id string, roleID string) error {
	return u.pipe.Put(ctx, "/"+id+"/role", map[string]string{"roleId": roleID}, nil)
}
