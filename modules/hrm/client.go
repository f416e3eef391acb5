// Package hrm exposes the HRM resource endpoints as typed services over the gateway.
package hrm

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/guarzo/hrmapi/common/model"
	"github.com/guarzo/hrmapi/modules/gateway"
)

const apiPrefix = "/api/v1"

// ErrNoData is returned when a successful envelope carries a null payload where a
// resource was expected.
var ErrNoData = errors.New("response carried no data")

// Requester is the part of the gateway the resource services need.
type Requester interface {
	GetJSON(ctx context.Context, path string, out interface{}, opts ...gateway.RequestOption) error
	PostJSON(ctx context.Context, path string, body, out interface{}, opts ...gateway.RequestOption) error
	PatchJSON(ctx context.Context, path string, body, out interface{}, opts ...gateway.RequestOption) error
	Delete(ctx context.Context, path string, opts ...gateway.RequestOption) error
}

// Client groups the resource services.
type Client struct {
	Employees     *EmployeeService
	Departments   *DepartmentService
	Attendance    *AttendanceService
	Dashboard     *DashboardService
	Permissions   *PermissionService
	Roles         *RoleService
	LeaveTypes    *LeaveTypeService
	LeaveBalances *LeaveBalanceService
	LeaveRequests *LeaveRequestService
	Holidays      *HolidayService
	Calendar      *CalendarService
}

// NewClient wires every service to api.
func NewClient(api Requester) *Client {
	return &Client{
		Employees:     &EmployeeService{api: api},
		Departments:   &DepartmentService{api: api},
		Attendance:    &AttendanceService{api: api},
		Dashboard:     &DashboardService{api: api},
		Permissions:   &PermissionService{api: api},
		Roles:         &RoleService{api: api},
		LeaveTypes:    &LeaveTypeService{api: api},
		LeaveBalances: &LeaveBalanceService{api: api},
		LeaveRequests: &LeaveRequestService{api: api},
		Holidays:      &HolidayService{api: api},
		Calendar:      &CalendarService{api: api},
	}
}

// PageOptions selects a page of a list endpoint. Zero values are left to the server.
type PageOptions struct {
	Page    int
	PerPage int
}

func (o PageOptions) apply(q query) {
	q.num("page", o.Page)
	q.num("per_page", o.PerPage)
}

// query collects parameters, skipping the ones that are not set.
type query url.Values

func (q query) str(key, value string) {
	if value != "" {
		url.Values(q).Set(key, value)
	}
}

func (q query) num(key string, value int) {
	if value != 0 {
		url.Values(q).Set(key, strconv.Itoa(value))
	}
}

func (q query) flag(key string, value *bool) {
	if value != nil {
		url.Values(q).Set(key, strconv.FormatBool(*value))
	}
}

func (q query) option() gateway.RequestOption {
	return gateway.WithQuery(url.Values(q))
}

func path(format string, args ...interface{}) string {
	return apiPrefix + fmt.Sprintf(format, args...)
}

func getData[T any](ctx context.Context, api Requester, p string, opts ...gateway.RequestOption) (*T, error) {
	var env model.Response[T]
	if err := api.GetJSON(ctx, p, &env, opts...); err != nil {
		return nil, err
	}
	return unwrap(p, &env)
}

func getPage[T any](ctx context.Context, api Requester, p string, q query) (*model.Page[T], error) {
	var page model.Page[T]
	if err := api.GetJSON(ctx, p, &page, q.option()); err != nil {
		return nil, err
	}
	return &page, nil
}

func postData[T any](ctx context.Context, api Requester, p string, body interface{}) (*T, error) {
	var env model.Response[T]
	if err := api.PostJSON(ctx, p, body, &env); err != nil {
		return nil, err
	}
	return unwrap(p, &env)
}

func patchData[T any](ctx context.Context, api Requester, p string, body interface{}) (*T, error) {
	var env model.Response[T]
	if err := api.PatchJSON(ctx, p, body, &env); err != nil {
		return nil, err
	}
	return unwrap(p, &env)
}

func unwrap[T any](p string, env *model.Response[T]) (*T, error) {
	if env.Data == nil {
		if env.Message != "" {
			return nil, fmt.Errorf("%s: %s: %w", p, env.Message, ErrNoData)
		}
		return nil, fmt.Errorf("%s: %w", p, ErrNoData)
	}
	return env.Data, nil
}
