package models

import "time"

// ResultKind discriminates DataResult variants.
type ResultKind string

const (
	ResultOk         ResultKind = "ok"
	ResultDenied     ResultKind = "denied"
	ResultNotFound   ResultKind = "not_found"
	ResultFetchError ResultKind = "fetch_error"
)

// DataResult is the outcome of a scoped data fetch. Callers switch on Kind
// instead of catching errors; fetch failures are values, not panics.
type DataResult struct {
	Kind    ResultKind
	Payload any    // set only for ResultOk; one of the *Data types below
	Reason  string // denial reason or fetch error detail
}

// OkResult wraps a payload in a successful result.
func OkResult(payload any) DataResult {
	return DataResult{Kind: ResultOk, Payload: payload}
}

// DeniedResult carries an authorization denial into response generation.
func DeniedResult(reason string) DataResult {
	return DataResult{Kind: ResultDenied, Reason: reason}
}

// NotFoundResult signals the store has no matching record.
func NotFoundResult(reason string) DataResult {
	return DataResult{Kind: ResultNotFound, Reason: reason}
}

// FetchErrorResult signals a collaborator failure. Detail is for logs only
// and must never reach the caller verbatim.
func FetchErrorResult(detail string) DataResult {
	return DataResult{Kind: ResultFetchError, Reason: detail}
}

// ProfileData is an employee's profile as exposed to the chat pipeline.
type ProfileData struct {
	EmployeeID   EmployeeID `json:"employee_id"`
	BadgeID      string     `json:"badge_id"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Department   string     `json:"department"`
	Position     string     `json:"position"`
	Manager      string     `json:"manager"`
	JoiningDate  time.Time  `json:"joining_date"`
	IsActive     bool       `json:"is_active"`
}

// AttendanceDay is one daily attendance record.
type AttendanceDay struct {
	Date     time.Time `json:"date"`
	CheckIn  string    `json:"check_in"`  // "HH:MM" or empty
	CheckOut string    `json:"check_out"` // "HH:MM" or empty
	Present  bool      `json:"present"`
}

// AttendanceData summarizes attendance over a date range.
type AttendanceData struct {
	EmployeeID EmployeeID      `json:"employee_id"`
	PeriodFrom time.Time       `json:"period_from"`
	PeriodTo   time.Time       `json:"period_to"`
	TotalDays  int             `json:"total_days"`
	PresentDays int            `json:"present_days"`
	AbsentDays  int            `json:"absent_days"`
	Percentage  float64        `json:"attendance_percentage"`
	Recent      []AttendanceDay `json:"recent_attendance"` // newest first, at most 10
}

// LeaveBalance is the allocation state for one leave type.
type LeaveBalance struct {
	LeaveType string  `json:"leave_type"`
	Allocated float64 `json:"allocated"`
	Used      float64 `json:"used"`
	Remaining float64 `json:"remaining"`
}

// LeaveRequest is a single leave request on record.
type LeaveRequest struct {
	LeaveType string    `json:"leave_type"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Days      float64   `json:"days"`
	Status    string    `json:"status"`
}

// LeaveData is the leave balance plus recent requests for one employee.
type LeaveData struct {
	EmployeeID EmployeeID     `json:"employee_id"`
	Balances   []LeaveBalance `json:"leave_balance"`
	Recent     []LeaveRequest `json:"recent_requests"` // newest first, at most 5
}

// PayrollData is one month's payroll breakdown.
type PayrollData struct {
	EmployeeID      EmployeeID `json:"employee_id"`
	Month           time.Month `json:"month"`
	Year            int        `json:"year"`
	BasicSalary     float64    `json:"basic_salary"`
	GrossSalary     float64    `json:"gross_salary"`
	TotalAllowances float64    `json:"total_allowances"`
	TotalDeductions float64    `json:"total_deductions"`
	NetSalary       float64    `json:"net_salary"`
	Status          string     `json:"status"`
}

// TeamMember is one direct subordinate in a team roster.
type TeamMember struct {
	EmployeeID EmployeeID `json:"employee_id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Department string     `json:"department"`
	Position   string     `json:"position"`
}

// TeamData is the roster of a manager's direct subordinates.
type TeamData struct {
	ManagerID EmployeeID   `json:"manager_id"`
	Size      int          `json:"team_size"`
	Members   []TeamMember `json:"team_members"`
}

// CompanyData is the company-wide aggregate available to admins.
type CompanyData struct {
	TotalEmployees       int     `json:"total_employees"`
	PresentToday         int     `json:"present_today"`
	AbsentToday          int     `json:"absent_today"`
	AttendancePercentage float64 `json:"attendance_percentage"`
	PendingLeaveRequests int     `json:"pending_leave_requests"`
}
