package hrm

import (
	"context"

	"github.com/guarzo/hrmapi/common/model"
)

// PermissionService wraps /permissions. The endpoint is not paginated.
type PermissionService struct {
	api Requester
}

func (s *PermissionService) List(ctx context.Context) ([]model.Permission, error) {
	perms, err := getData[[]model.Permission](ctx, s.api, path("/permissions"))
	if err != nil {
		return nil, err
	}
	return *perms, nil
}

func (s *PermissionService) Create(ctx context.Context, in model.PermissionInput) (*model.Permission, error) {
	return postData[model.Permission](ctx, s.api, path("/permissions"), in)
}

// RoleService wraps /roles. Roles are returned with their permissions.
type RoleService struct {
	api Requester
}

func (s *RoleService) List(ctx context.Context, o PageOptions) (*model.Page[model.Role], error) {
	q := query{}
	o.apply(q)
	return getPage[model.Role](ctx, s.api, path("/roles"), q)
}

func (s *RoleService) Get(ctx context.Context, id int) (*model.Role, error) {
	return getData[model.Role](ctx, s.api, path("/roles/%d", id))
}

func (s *RoleService) Create(ctx context.Context, in model.RoleInput) (*model.Role, error) {
	return postData[model.Role](ctx, s.api, path("/roles"), in)
}

func (s *RoleService) Update(ctx context.Context, id int, in model.RoleInput) (*model.Role, error) {
	return patchData[model.Role](ctx, s.api, path("/roles/%d", id), in)
}

func (s *RoleService) Delete(ctx context.Context, id int) error {
	return s.api.Delete(ctx, path("/roles/%d", id))
}
