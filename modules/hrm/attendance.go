package hrm

import (
	"context"

	"github.com/guarzo/hrmapi/common/model"
)

// AttendanceFilter narrows attendance listings. Dates are YYYY-MM-DD.
type AttendanceFilter struct {
	PageOptions
	FromDate string
	ToDate   string
	Status   model.AttendanceStatus
	// Department is honoured by List only.
	Department string
}

func (f AttendanceFilter) values(withDepartment bool) query {
	q := query{}
	f.apply(q)
	q.str("from_date", f.FromDate)
	q.str("to_date", f.ToDate)
	q.str("status", string(f.Status))
	if withDepartment {
		q.str("department", f.Department)
	}
	return q
}

// AttendanceService wraps /attendance.
type AttendanceService struct {
	api Requester
}

func (s *AttendanceService) List(ctx context.Context, f AttendanceFilter) (*model.Page[model.AttendanceWithEmployee], error) {
	return getPage[model.AttendanceWithEmployee](ctx, s.api, path("/attendance"), f.values(true))
}

func (s *AttendanceService) ListByEmployee(ctx context.Context, employeeID int, f AttendanceFilter) (*model.Page[model.Attendance], error) {
	return getPage[model.Attendance](ctx, s.api, path("/attendance/employee/%d", employeeID), f.values(false))
}

// PresentDays counts the days an employee was present, optionally within a date range.
func (s *AttendanceService) PresentDays(ctx context.Context, employeeID int, fromDate, toDate string) (*model.PresentDays, error) {
	q := query{}
	q.str("from_date", fromDate)
	q.str("to_date", toDate)
	return getData[model.PresentDays](ctx, s.api, path("/attendance/employee/%d/present-days", employeeID), q.option())
}

func (s *AttendanceService) Mark(ctx context.Context, employeeID int, in model.MarkAttendance) (*model.Attendance, error) {
	return postData[model.Attendance](ctx, s.api, path("/attendance/employee/%d", employeeID), in)
}

func (s *AttendanceService) Update(ctx context.Context, id int, in model.AttendanceUpdate) (*model.Attendance, error) {
	return patchData[model.Attendance](ctx, s.api, path("/attendance/%d", id), in)
}

func (s *AttendanceService) Delete(ctx context.Context, id int) error {
	return s.api.Delete(ctx, path("/attendance/%d", id))
}

// DashboardService wraps /dashboard.
type DashboardService struct {
	api Requester
}

func (s *DashboardService) Summary(ctx context.Context, fromDate, toDate string) (*model.DashboardSummary, error) {
	q := query{}
	q.str("from_date", fromDate)
	q.str("to_date", toDate)
	return getData[model.DashboardSummary](ctx, s.api, path("/dashboard/summary"), q.option())
}

func (s *DashboardService) Departments(ctx context.Context) (*model.DepartmentSummary, error) {
	return getData[model.DepartmentSummary](ctx, s.api, path("/dashboard/departments"))
}

// CalendarService wraps /calendar.
type CalendarService struct {
	api Requester
}

// Logs returns attendance, holidays and approved leave between two dates, inclusive.
func (s *CalendarService) Logs(ctx context.Context, fromDate, toDate string) (*model.CalendarLogs, error) {
	q := query{}
	q.str("from_date", fromDate)
	q.str("to_date", toDate)
	return getData[model.CalendarLogs](ctx, s.api, path("/calendar/logs"), q.option())
}
