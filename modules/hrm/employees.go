package hrm

import (
	"context"

	"github.com/guarzo/hrmapi/common/model"
)

// EmployeeFilter narrows an employee listing.
type EmployeeFilter struct {
	PageOptions
	Department   string
	DepartmentID int
	IsActive     *bool
}

// EmployeeService wraps /employees.
type EmployeeService struct {
	api Requester
}

func (s *EmployeeService) List(ctx context.Context, f EmployeeFilter) (*model.Page[model.EmployeeListItem], error) {
	q := query{}
	f.apply(q)
	q.str("department", f.Department)
	q.num("department_id", f.DepartmentID)
	q.flag("is_active", f.IsActive)
	return getPage[model.EmployeeListItem](ctx, s.api, path("/employees"), q)
}

func (s *EmployeeService) Get(ctx context.Context, id int) (*model.Employee, error) {
	return getData[model.Employee](ctx, s.api, path("/employees/%d", id))
}

func (s *EmployeeService) Create(ctx context.Context, in model.EmployeeInput) (*model.Employee, error) {
	return postData[model.Employee](ctx, s.api, path("/employees"), in)
}

// Update sends only the fields set in in.
func (s *EmployeeService) Update(ctx context.Context, id int, in model.EmployeeInput) (*model.Employee, error) {
	return patchData[model.Employee](ctx, s.api, path("/employees/%d", id), in)
}

func (s *EmployeeService) Delete(ctx context.Context, id int) error {
	return s.api.Delete(ctx, path("/employees/%d", id))
}

// DepartmentService wraps /departments.
type DepartmentService struct {
	api Requester
}

func (s *DepartmentService) List(ctx context.Context, o PageOptions) (*model.Page[model.Department], error) {
	q := query{}
	o.apply(q)
	return getPage[model.Department](ctx, s.api, path("/departments"), q)
}

func (s *DepartmentService) Get(ctx context.Context, id int) (*model.Department, error) {
	return getData[model.Department](ctx, s.api, path("/departments/%d", id))
}

func (s *DepartmentService) Create(ctx context.Context, in model.DepartmentInput) (*model.Department, error) {
	return postData[model.Department](ctx, s.api, path("/departments"), in)
}

func (s *DepartmentService) Update(ctx context.Context, id int, in model.DepartmentInput) (*model.Department, error) {
	return patchData[model.Department](ctx, s.api, path("/departments/%d", id), in)
}

func (s *DepartmentService) Delete(ctx context.Context, id int) error {
	return s.api.Delete(ctx, path("/departments/%d", id))
}
