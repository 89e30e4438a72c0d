// Package models contains the domain types shared across the chat pipeline.
package models

// EmployeeID identifies an employee record in the HR directory.
type EmployeeID int64

// Principal is the authenticated caller. It is distinct from the employee
// record it may be linked to; a user account can exist without one.
// Immutable per request; constructed by the inbound auth layer.
type Principal struct {
	UserID      int64
	Username    string
	IsStaff     bool
	IsSuperuser bool

	// EmployeeID is the linked employee record, if any.
	// Zero means no linked employee (guest).
	EmployeeID EmployeeID

	// TenantID is the company identifier for multi-tenant deployments.
	// Empty in single-tenant deployments.
	TenantID string
}

// HasEmployee reports whether the principal is linked to an employee record.
func (p Principal) HasEmployee() bool {
	return p.EmployeeID != 0
}

// Role is the coarse authorization tier derived from the principal.
// Derived fresh per request, never stored.
type Role string

const (
	RoleGuest     Role = "guest"
	RoleEmployee  Role = "employee"
	RoleHRManager Role = "hr_manager"
	RoleAdmin     Role = "admin"
)
