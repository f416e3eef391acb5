package hrm

import (
	"context"

	"github.com/guarzo/hrmapi/common/model"
)

// LeaveTypeService wraps /leave-types.
type LeaveTypeService struct {
	api Requester
}

func (s *LeaveTypeService) List(ctx context.Context, o PageOptions) (*model.Page[model.LeaveType], error) {
	q := query{}
	o.apply(q)
	return getPage[model.LeaveType](ctx, s.api, path("/leave-types"), q)
}

func (s *LeaveTypeService) Get(ctx context.Context, id int) (*model.LeaveType, error) {
	return getData[model.LeaveType](ctx, s.api, path("/leave-types/%d", id))
}

func (s *LeaveTypeService) Create(ctx context.Context, in model.LeaveTypeInput) (*model.LeaveType, error) {
	return postData[model.LeaveType](ctx, s.api, path("/leave-types"), in)
}

func (s *LeaveTypeService) Update(ctx context.Context, id int, in model.LeaveTypeInput) (*model.LeaveType, error) {
	return patchData[model.LeaveType](ctx, s.api, path("/leave-types/%d", id), in)
}

func (s *LeaveTypeService) Delete(ctx context.Context, id int) error {
	return s.api.Delete(ctx, path("/leave-types/%d", id))
}

// LeaveBalanceFilter narrows a leave balance listing.
type LeaveBalanceFilter struct {
	PageOptions
	EmployeeID int
	Year       int
}

// LeaveBalanceService wraps /leave-balances.
type LeaveBalanceService struct {
	api Requester
}

func (s *LeaveBalanceService) List(ctx context.Context, f LeaveBalanceFilter) (*model.Page[model.LeaveBalance], error) {
	q := query{}
	f.apply(q)
	q.num("employee_id", f.EmployeeID)
	q.num("year", f.Year)
	return getPage[model.LeaveBalance](ctx, s.api, path("/leave-balances"), q)
}

// ByEmployee returns every balance an employee holds for year.
func (s *LeaveBalanceService) ByEmployee(ctx context.Context, employeeID, year int) ([]model.LeaveBalance, error) {
	q := query{}
	q.num("year", year)
	balances, err := getData[[]model.LeaveBalance](ctx, s.api, path("/leave-balances/employee/%d", employeeID), q.option())
	if err != nil {
		return nil, err
	}
	return *balances, nil
}

func (s *LeaveBalanceService) Create(ctx context.Context, in model.LeaveBalanceInput) (*model.LeaveBalance, error) {
	return postData[model.LeaveBalance](ctx, s.api, path("/leave-balances"), in)
}

func (s *LeaveBalanceService) Update(ctx context.Context, id int, in model.LeaveBalanceUpdate) (*model.LeaveBalance, error) {
	return patchData[model.LeaveBalance](ctx, s.api, path("/leave-balances/%d", id), in)
}

// LeaveRequestFilter narrows a leave request listing.
type LeaveRequestFilter struct {
	PageOptions
	EmployeeID int
	Status     model.LeaveRequestStatus
	FromDate   string
	ToDate     string
}

// LeaveRequestService wraps /leave-requests.
type LeaveRequestService struct {
	api Requester
}

func (s *LeaveRequestService) List(ctx context.Context, f LeaveRequestFilter) (*model.Page[model.LeaveRequest], error) {
	q := query{}
	f.apply(q)
	q.num("employee_id", f.EmployeeID)
	q.str("status", string(f.Status))
	q.str("from_date", f.FromDate)
	q.str("to_date", f.ToDate)
	return getPage[model.LeaveRequest](ctx, s.api, path("/leave-requests"), q)
}

func (s *LeaveRequestService) Get(ctx context.Context, id int) (*model.LeaveRequest, error) {
	return getData[model.LeaveRequest](ctx, s.api, path("/leave-requests/%d", id))
}

// Create files a leave request on behalf of an employee.
func (s *LeaveRequestService) Create(ctx context.Context, employeeID int, in model.LeaveRequestInput) (*model.LeaveRequest, error) {
	return postData[model.LeaveRequest](ctx, s.api, path("/leave-requests/employee/%d", employeeID), in)
}

// Update changes status (approve, reject, cancel) or reason.
func (s *LeaveRequestService) Update(ctx context.Context, id int, in model.LeaveRequestUpdate) (*model.LeaveRequest, error) {
	return patchData[model.LeaveRequest](ctx, s.api, path("/leave-requests/%d", id), in)
}

// HolidayFilter narrows a holiday listing.
type HolidayFilter struct {
	PageOptions
	Year     int
	FromDate string
	ToDate   string
}

// HolidayService wraps /holidays.
type HolidayService struct {
	api Requester
}

func (s *HolidayService) List(ctx context.Context, f HolidayFilter) (*model.Page[model.Holiday], error) {
	q := query{}
	f.apply(q)
	q.num("year", f.Year)
	q.str("from_date", f.FromDate)
	q.str("to_date", f.ToDate)
	return getPage[model.Holiday](ctx, s.api, path("/holidays"), q)
}

func (s *HolidayService) Get(ctx context.Context, id int) (*model.Holiday, error) {
	return getData[model.Holiday](ctx, s.api, path("/holidays/%d", id))
}

func (s *HolidayService) Create(ctx context.Context, in model.HolidayInput) (*model.Holiday, error) {
	return postData[model.Holiday](ctx, s.api, path("/holidays"), in)
}

func (s *HolidayService) Update(ctx context.Context, id int, in model.HolidayInput) (*model.Holiday, error) {
	return patchData[model.Holiday](ctx, s.api, path("/holidays/%d", id), in)
}

func (s *HolidayService) Delete(ctx context.Context, id int) error {
	return s.api.Delete(ctx, path("/holidays/%d", id))
}
