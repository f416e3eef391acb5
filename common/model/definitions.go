package model

import (
	"encoding/json"
	"time"

	"golang.org/x/oauth2"
)

// ----------------------------------------------------------------------
// Envelopes
// ----------------------------------------------------------------------

// Envelope is the {success, message, data} wrapper every API response follows.
// Data is left raw so callers can decode it into the resource they expect.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// HasData reports whether the envelope carries a non-null payload.
func (e *Envelope) HasData() bool {
	return len(e.Data) > 0 && string(e.Data) != "null"
}

// DecodeData unmarshals the payload into out.
func (e *Envelope) DecodeData(out interface{}) error {
	if !e.HasData() {
		return nil
	}
	return json.Unmarshal(e.Data, out)
}

// Response is an envelope whose payload is already typed.
type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *T     `json:"data"`
}

// PaginationMeta accompanies list endpoints.
type PaginationMeta struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewPaginationMeta derives the page counters the same way the API does.
func NewPaginationMeta(page, perPage, total int) PaginationMeta {
	totalPages := 0
	if perPage > 0 {
		totalPages = (total + perPage - 1) / perPage
	}
	return PaginationMeta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// Page is a paginated list response.
type Page[T any] struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    []T            `json:"data"`
	Meta    PaginationMeta `json:"meta"`
}

// ErrorDetail is a single field-level error.
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope is the body the API sends with non-2xx statuses.
type ErrorEnvelope struct {
	Success   bool          `json:"success"`
	Message   string        `json:"message"`
	ErrorCode string        `json:"error_code,omitempty"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Timestamp string        `json:"timestamp,omitempty"`
}

// ----------------------------------------------------------------------
// Auth
// ----------------------------------------------------------------------

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenPair is returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"` // seconds
}

// Complete reports whether both tokens are present.
func (p *TokenPair) Complete() bool {
	return p != nil && p.AccessToken != "" && p.RefreshToken != ""
}

// OAuth2Token converts the pair into an *oauth2.Token, deriving Expiry from ExpiresIn.
func (p *TokenPair) OAuth2Token(now time.Time) *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    p.TokenType,
	}
	if p.ExpiresIn > 0 {
		tok.Expiry = now.Add(time.Duration(p.ExpiresIn) * time.Second)
	}
	return tok
}

// User is the authenticated account returned by /auth/me.
type User struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	IsActive bool   `json:"is_active"`
}

// ----------------------------------------------------------------------
// Employees and departments
// ----------------------------------------------------------------------

type EmployeeType string

const (
	EmployeeFullTime EmployeeType = "full_time"
	EmployeeContract EmployeeType = "contract"
	EmployeeIntern   EmployeeType = "intern"
	EmployeePartTime EmployeeType = "part_time"
)

type Gender string

const (
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderOther          Gender = "other"
	GenderPreferNotToSay Gender = "prefer_not_to_say"
)

// Employee mirrors EmployeeResponse. Dates are ISO "YYYY-MM-DD" strings.
type Employee struct {
	ID                    int           `json:"id"`
	EmployeeID            string        `json:"employee_id"`
	FullName              string        `json:"full_name"`
	Email                 string        `json:"email"`
	Phone                 *string       `json:"phone,omitempty"`
	Department            *string       `json:"department,omitempty"`
	DepartmentID          *int          `json:"department_id,omitempty"`
	Designation           *string       `json:"designation,omitempty"`
	DateOfJoining         *string       `json:"date_of_joining,omitempty"`
	ManagerID             *int          `json:"manager_id,omitempty"`
	Address               *string       `json:"address,omitempty"`
	EmergencyContactName  *string       `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string       `json:"emergency_contact_phone,omitempty"`
	DateOfBirth           *string       `json:"date_of_birth,omitempty"`
	Gender                *Gender       `json:"gender,omitempty"`
	EmployeeType          *EmployeeType `json:"employee_type,omitempty"`
	IsActive              bool          `json:"is_active"`
}

// EmployeeListItem is an Employee row with list-only aggregates.
type EmployeeListItem struct {
	Employee
	TotalPresentDays *int    `json:"total_present_days,omitempty"`
	DepartmentName   *string `json:"department_name,omitempty"`
}

// EmployeeInput is the create/update body; nil fields are omitted.
type EmployeeInput struct {
	EmployeeID            *string       `json:"employee_id,omitempty"`
	FullName              *string       `json:"full_name,omitempty"`
	Email                 *string       `json:"email,omitempty"`
	Phone                 *string       `json:"phone,omitempty"`
	Department            *string       `json:"department,omitempty"`
	DepartmentID          *int          `json:"department_id,omitempty"`
	Designation           *string       `json:"designation,omitempty"`
	DateOfJoining         *string       `json:"date_of_joining,omitempty"`
	ManagerID             *int          `json:"manager_id,omitempty"`
	Address               *string       `json:"address,omitempty"`
	EmergencyContactName  *string       `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string       `json:"emergency_contact_phone,omitempty"`
	DateOfBirth           *string       `json:"date_of_birth,omitempty"`
	Gender                *Gender       `json:"gender,omitempty"`
	EmployeeType          *EmployeeType `json:"employee_type,omitempty"`
	IsActive              *bool         `json:"is_active,omitempty"`
}

type Department struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Description *string `json:"description,omitempty"`
}

// DepartmentInput is the create/update body for departments.
type DepartmentInput struct {
	Name        *string `json:"name,omitempty"`
	Code        *string `json:"code,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ----------------------------------------------------------------------
// Attendance and dashboard
// ----------------------------------------------------------------------

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceHalfDay AttendanceStatus = "half_day"
	AttendanceOnLeave AttendanceStatus = "on_leave"
	AttendanceWFH     AttendanceStatus = "wfh"
)

type Attendance struct {
	ID           int              `json:"id"`
	EmployeeID   int              `json:"employee_id"`
	Date         string           `json:"date"`
	Status       AttendanceStatus `json:"status"`
	CheckInTime  *string          `json:"check_in_time,omitempty"`
	CheckOutTime *string          `json:"check_out_time,omitempty"`
	WorkHours    *float64         `json:"work_hours,omitempty"`
	Source       *string          `json:"source,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
}

// AttendanceWithEmployee is an attendance row joined with employee identity.
type AttendanceWithEmployee struct {
	Attendance
	EmployeeEmployeeID *string `json:"employee_employee_id,omitempty"`
	EmployeeFullName   *string `json:"employee_full_name,omitempty"`
}

// MarkAttendance is the body of POST /attendance/employee/{id}.
type MarkAttendance struct {
	Date   string           `json:"date"`
	Status AttendanceStatus `json:"status"`
	Notes  *string          `json:"notes,omitempty"`
}

// AttendanceUpdate is the body of PATCH /attendance/{id}.
type AttendanceUpdate struct {
	Status *AttendanceStatus `json:"status,omitempty"`
	Notes  *string           `json:"notes,omitempty"`
}

type PresentDays struct {
	EmployeeID  int `json:"employee_id"`
	PresentDays int `json:"present_days"`
}

type DashboardSummary struct {
	TotalEmployees         int     `json:"total_employees"`
	TotalAttendanceRecords int     `json:"total_attendance_records"`
	PresentCount           int     `json:"present_count"`
	AbsentCount            int     `json:"absent_count"`
	FromDate               *string `json:"from_date,omitempty"`
	ToDate                 *string `json:"to_date,omitempty"`
}

type DepartmentHeadcount struct {
	Name          string `json:"name"`
	EmployeeCount int    `json:"employee_count"`
}

type DepartmentSummary struct {
	Departments []DepartmentHeadcount `json:"departments"`
}

// ----------------------------------------------------------------------
// Roles and permissions
// ----------------------------------------------------------------------

type Permission struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Description *string `json:"description,omitempty"`
}

// PermissionInput is the create body for permissions.
type PermissionInput struct {
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Description *string `json:"description,omitempty"`
}

// Role is returned with its permissions expanded.
type Role struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Code        string       `json:"code"`
	Description *string      `json:"description,omitempty"`
	Permissions []Permission `json:"permissions"`
}

// RoleInput is the create/update body for roles.
type RoleInput struct {
	Name          *string `json:"name,omitempty"`
	Code          *string `json:"code,omitempty"`
	Description   *string `json:"description,omitempty"`
	PermissionIDs []int   `json:"permission_ids,omitempty"`
}

// ----------------------------------------------------------------------
// Leave
// ----------------------------------------------------------------------

type LeaveType struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	Code               string  `json:"code"`
	DefaultDaysPerYear float64 `json:"default_days_per_year"`
	Description        *string `json:"description,omitempty"`
}

// LeaveTypeInput is the create/update body for leave types.
type LeaveTypeInput struct {
	Name               *string  `json:"name,omitempty"`
	Code               *string  `json:"code,omitempty"`
	DefaultDaysPerYear *float64 `json:"default_days_per_year,omitempty"`
	Description        *string  `json:"description,omitempty"`
}

type LeaveBalance struct {
	ID            int      `json:"id"`
	EmployeeID    int      `json:"employee_id"`
	LeaveTypeID   int      `json:"leave_type_id"`
	Year          int      `json:"year"`
	BalanceDays   float64  `json:"balance_days"`
	UsedDays      float64  `json:"used_days"`
	EmployeeName  *string  `json:"employee_name,omitempty"`
	LeaveTypeName *string  `json:"leave_type_name,omitempty"`
	AvailableDays *float64 `json:"available_days,omitempty"`
}

// LeaveBalanceInput is the create body for leave balances.
type LeaveBalanceInput struct {
	EmployeeID  int      `json:"employee_id"`
	LeaveTypeID int      `json:"leave_type_id"`
	Year        int      `json:"year"`
	BalanceDays *float64 `json:"balance_days,omitempty"`
	UsedDays    *float64 `json:"used_days,omitempty"`
}

// LeaveBalanceUpdate is the PATCH body for leave balances.
type LeaveBalanceUpdate struct {
	BalanceDays *float64 `json:"balance_days,omitempty"`
	UsedDays    *float64 `json:"used_days,omitempty"`
}

type LeaveRequestStatus string

const (
	LeavePending   LeaveRequestStatus = "pending"
	LeaveApproved  LeaveRequestStatus = "approved"
	LeaveRejected  LeaveRequestStatus = "rejected"
	LeaveCancelled LeaveRequestStatus = "cancelled"
)

type LeaveRequest struct {
	ID            int                `json:"id"`
	EmployeeID    int                `json:"employee_id"`
	LeaveTypeID   int                `json:"leave_type_id"`
	FromDate      string             `json:"from_date"`
	ToDate        string             `json:"to_date"`
	Status        LeaveRequestStatus `json:"status"`
	Reason        *string            `json:"reason,omitempty"`
	ApprovedByID  *int               `json:"approved_by_id,omitempty"`
	EmployeeName  *string            `json:"employee_name,omitempty"`
	LeaveTypeName *string            `json:"leave_type_name,omitempty"`
	TotalDays     *float64           `json:"total_days,omitempty"`
}

// LeaveRequestInput is the body of POST /leave-requests/employee/{id}.
type LeaveRequestInput struct {
	LeaveTypeID int     `json:"leave_type_id"`
	FromDate    string  `json:"from_date"`
	ToDate      string  `json:"to_date"`
	Reason      *string `json:"reason,omitempty"`
}

// LeaveRequestUpdate is the PATCH body for leave requests.
type LeaveRequestUpdate struct {
	Status *LeaveRequestStatus `json:"status,omitempty"`
	Reason *string             `json:"reason,omitempty"`
}

// ----------------------------------------------------------------------
// Holidays and calendar
// ----------------------------------------------------------------------

type Holiday struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Date        string  `json:"date"`
	Year        *int    `json:"year,omitempty"`
	Description *string `json:"description,omitempty"`
}

// HolidayInput is the create/update body for holidays.
type HolidayInput struct {
	Name        *string `json:"name,omitempty"`
	Date        *string `json:"date,omitempty"`
	Year        *int    `json:"year,omitempty"`
	Description *string `json:"description,omitempty"`
}

type CalendarAttendanceLog struct {
	ID                 int      `json:"id"`
	Date               string   `json:"date"`
	EmployeeID         int      `json:"employee_id"`
	EmployeeName       *string  `json:"employee_name,omitempty"`
	EmployeeEmployeeID *string  `json:"employee_employee_id,omitempty"`
	Status             string   `json:"status"`
	CheckInTime        *string  `json:"check_in_time,omitempty"`
	CheckOutTime       *string  `json:"check_out_time,omitempty"`
	WorkHours          *float64 `json:"work_hours,omitempty"`
	Notes              *string  `json:"notes,omitempty"`
}

type CalendarHoliday struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
	Year *int   `json:"year,omitempty"`
}

type CalendarLeave struct {
	ID          int    `json:"id"`
	EmployeeID  int    `json:"employee_id"`
	FromDate    string `json:"from_date"`
	ToDate      string `json:"to_date"`
	LeaveTypeID int    `json:"leave_type_id"`
}

type CalendarLogs struct {
	FromDate       string                  `json:"from_date"`
	ToDate         string                  `json:"to_date"`
	AttendanceLogs []CalendarAttendanceLog `json:"attendance_logs"`
	Holidays       []CalendarHoliday       `json:"holidays"`
	Leave          []CalendarLeave         `json:"leave"`
}
