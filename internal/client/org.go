package client

import (
	"context"

	"helpdesk-console/internal/model"
	"helpdesk-console/internal/pipeline"
)

// OrgAPI covers the organizational admin modules: departments and roles.
type OrgAPI struct {
	pipe *pipeline.Client
}

func NewOrgAPI(deps Deps) *OrgAPI {
	return &OrgAPI{pipe: deps.pipeline("/api/org")}
}

func (o *OrgAPI) Departments(ctx context.Context) ([]model.Department, error) {
	var departments []model.Department
	if err := o.pipe.Get(ctx, "/departments", nil, &departments); err != nil {
		return nil, err
	}
	return departments, nil
}

func (o *OrgAPI) CreateDepartment(ctx context.Context, name string, head string) (*model.Department, error) {
	var department model.Department
	body := map[string]string{"name": name, "head": head}
	if err := o.pipe.Post(ctx, "/departments", body, &department); err != nil {
		return nil, err
	}
	return &department, nil
}

func (o *OrgAPI) UpdateDepartment(ctx context.Context, id string, name string, head string) (*model.Department, error) {
	var department model.Department
	body := map[string]string{"name": name, "head": head}
	if err := o.pipe.Put(ctx, "/departments/"+id, body, &department); err != nil {
		return nil, err
	}
	return &department, nil
}

func (o *OrgAPI) DeleteDepartment(ctx context.Context, id string) error {
	return o.pipe.Delete(ctx, "/departments/"+id, nil)
}

func (o *OrgAPI) Roles(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	if err := o.pipe.Get(ctx, "/roles", nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

type SaveRoleRequest struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description,omitempty"`
	Permissions []model.ModulePermission `json:"permissions"`
}

func (o *OrgAPI) CreateRole(ctx context.Context, req SaveRoleRequest) (*model.Role, error) {
	var role model.Role
	if err := o.pipe.Post(ctx, "/roles", req, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

func (o *OrgAPI) UpdateRole(ctx context.Context, id string, req SaveRoleRequest) (*model.Role, error) {
	var role model.Role
	if err := o.pipe.Put(ctx, "/roles/"+id, req, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

func (o *OrgAPI) DeleteRole(ctx context.Context, id string) error {
	return o.pipe.Delete(ctx, "/roles/"+id, nil)
}
