package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hrkit/chartbot/pkg/fetcher"
	"github.com/hrkit/chartbot/pkg/models"
)

const (
	recentAttendanceDays = 10
	recentLeaveRequests  = 5
)

// HRStore is the PostgreSQL adapter for HR data reads.
type HRStore struct {
	client *Client
}

// NewHRStore creates an HR store over the shared client.
func NewHRStore(client *Client) *HRStore {
	return &HRStore{client: client}
}

// Profile returns one employee's profile, including the manager's name.
func (s *HRStore) Profile(ctx context.Context, id models.EmployeeID) (*models.ProfileData, error) {
	var (
		p           models.ProfileData
		firstName   string
		lastName    string
		manager     sql.NullString
		joiningDate sql.NullTime
	)
	err := s.client.db.QueryRowContext(ctx,
		`SELECT e.id, e.badge_id, e.first_name, e.last_name, e.email, e.phone,
		        e.department, e.position, e.joining_date, e.is_active,
		        trim(m.first_name || ' ' || m.last_name)
		 FROM employees e
		 LEFT JOIN employees m ON m.id = e.manager_id
		 WHERE e.id = $1`, int64(id)).Scan(
		&p.EmployeeID, &p.BadgeID, &firstName, &lastName, &p.Email, &p.Phone,
		&p.Department, &p.Position, &joiningDate, &p.IsActive, &manager)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fetcher.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}

	p.FullName = strings.TrimSpace(firstName + " " + lastName)
	p.Manager = manager.String
	if joiningDate.Valid {
		p.JoiningDate = joiningDate.Time
	}
	return &p, nil
}

// Attendance aggregates one employee's attendance over the date range,
// inclusive on both ends.
func (s *HRStore) Attendance(ctx context.Context, id models.EmployeeID, start, end time.Time) (*models.AttendanceData, error) {
	data := &models.AttendanceData{
		EmployeeID: id,
		PeriodFrom: start,
		PeriodTo:   end,
	}

	err := s.client.db.QueryRowContext(ctx,
		`SELECT count(*), count(*) FILTER (WHERE present)
		 FROM attendance
		 WHERE employee_id = $1 AND attendance_date BETWEEN $2 AND $3`,
		int64(id), start, end).Scan(&data.TotalDays, &data.PresentDays)
	if err != nil {
		return nil, fmt.Errorf("query attendance summary: %w", err)
	}

	if data.TotalDays == 0 {
		return nil, fetcher.ErrNotFound
	}
	data.AbsentDays = data.TotalDays - data.PresentDays
	data.Percentage = float64(data.PresentDays) / float64(data.TotalDays) * 100

	rows, err := s.client.db.QueryContext(ctx,
		`SELECT attendance_date, check_in, check_out, present
		 FROM attendance
		 WHERE employee_id = $1 AND attendance_date BETWEEN $2 AND $3
		 ORDER BY attendance_date DESC
		 LIMIT $4`,
		int64(id), start, end, recentAttendanceDays)
	if err != nil {
		return nil, fmt.Errorf("query recent attendance: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var day models.AttendanceDay
		if err := rows.Scan(&day.Date, &day.CheckIn, &day.CheckOut, &day.Present); err != nil {
			return nil, fmt.Errorf("scan attendance day: %w", err)
		}
		data.Recent = append(data.Recent, day)
	}
	return data, rows.Err()
}

// Leave returns the leave balances and recent requests for one employee.
func (s *HRStore) Leave(ctx context.Context, id models.EmployeeID) (*models.LeaveData, error) {
	data := &models.LeaveData{EmployeeID: id}

	rows, err := s.client.db.QueryContext(ctx,
		`SELECT leave_type, allocated_days, used_days
		 FROM leave_allocations
		 WHERE employee_id = $1
		 ORDER BY leave_type`, int64(id))
	if err != nil {
		return nil, fmt.Errorf("query leave allocations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b models.LeaveBalance
		if err := rows.Scan(&b.LeaveType, &b.Allocated, &b.Used); err != nil {
			return nil, fmt.Errorf("scan leave allocation: %w", err)
		}
		b.Remaining = b.Allocated - b.Used
		data.Balances = append(data.Balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(data.Balances) == 0 {
		return nil, fetcher.ErrNotFound
	}

	reqRows, err := s.client.db.QueryContext(ctx,
		`SELECT leave_type, start_date, end_date, days, status
		 FROM leave_requests
		 WHERE employee_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`, int64(id), recentLeaveRequests)
	if err != nil {
		return nil, fmt.Errorf("query leave requests: %w", err)
	}
	defer reqRows.Close()

	for reqRows.Next() {
		var r models.LeaveRequest
		if err := reqRows.Scan(&r.LeaveType, &r.StartDate, &r.EndDate, &r.Days, &r.Status); err != nil {
			return nil, fmt.Errorf("scan leave request: %w", err)
		}
		data.Recent = append(data.Recent, r)
	}
	return data, reqRows.Err()
}

// Payroll returns the payslip for one month.
func (s *HRStore) Payroll(ctx context.Context, id models.EmployeeID, month time.Month, year int) (*models.PayrollData, error) {
	p := &models.PayrollData{EmployeeID: id, Month: month, Year: year}

	err := s.client.db.QueryRowContext(ctx,
		`SELECT basic_salary, gross_salary, total_allowances, total_deductions, net_salary, status
		 FROM payslips
		 WHERE employee_id = $1 AND month = $2 AND year = $3`,
		int64(id), int(month), year).Scan(
		&p.BasicSalary, &p.GrossSalary, &p.TotalAllowances, &p.TotalDeductions, &p.NetSalary, &p.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fetcher.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query payslip: %w", err)
	}
	return p, nil
}

// TeamMembers returns roster rows for the given employee ids.
func (s *HRStore) TeamMembers(ctx context.Context, ids []models.EmployeeID) (*models.TeamData, error) {
	raw := make([]int64, len(ids))
	for i, id := range ids {
		raw[i] = int64(id)
	}

	rows, err := s.client.db.QueryContext(ctx,
		`SELECT id, trim(first_name || ' ' || last_name), email, department, position
		 FROM employees
		 WHERE id = ANY($1) AND is_active
		 ORDER BY id`, raw)
	if err != nil {
		return nil, fmt.Errorf("query team members: %w", err)
	}
	defer rows.Close()

	data := &models.TeamData{}
	for rows.Next() {
		var m models.TeamMember
		if err := rows.Scan(&m.EmployeeID, &m.Name, &m.Email, &m.Department, &m.Position); err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		data.Members = append(data.Members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	data.Size = len(data.Members)
	return data, nil
}

// CompanyStats aggregates today's company-wide numbers.
func (s *HRStore) CompanyStats(ctx context.Context) (*models.CompanyData, error) {
	data := &models.CompanyData{}

	err := s.client.db.QueryRowContext(ctx,
		`SELECT count(*) FROM employees WHERE is_active`).Scan(&data.TotalEmployees)
	if err != nil {
		return nil, fmt.Errorf("query headcount: %w", err)
	}

	err = s.client.db.QueryRowContext(ctx,
		`SELECT count(*) FILTER (WHERE present)
		 FROM attendance
		 WHERE attendance_date = current_date`).Scan(&data.PresentToday)
	if err != nil {
		return nil, fmt.Errorf("query today's attendance: %w", err)
	}

	err = s.client.db.QueryRowContext(ctx,
		`SELECT count(*) FROM leave_requests WHERE status = 'requested'`).Scan(&data.PendingLeaveRequests)
	if err != nil {
		return nil, fmt.Errorf("query pending leave requests: %w", err)
	}

	data.AbsentToday = data.TotalEmployees - data.PresentToday
	if data.TotalEmployees > 0 {
		data.AttendancePercentage = float64(data.PresentToday) / float64(data.TotalEmployees) * 100
	}
	return data, nil
}
