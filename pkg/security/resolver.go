// Package security derives roles and data scopes from principals and makes
// authorization decisions for query intents.
package security

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hrkit/chartbot/pkg/models"
)

// Directory is the narrow employee-directory contract the resolver needs.
// Implementations must be read-only; the directory is the source of truth
// for reporting lines and the active-employee set.
type Directory interface {
	// Subordinates returns the direct subordinates of an employee.
	Subordinates(ctx context.Context, id models.EmployeeID) ([]models.EmployeeID, error)

	// ActiveEmployees returns every active employee id.
	ActiveEmployees(ctx context.Context) ([]models.EmployeeID, error)

	// HasManagerialPermission reports whether the principal holds any of the
	// fixed managerial permissions (view-all-employees, manage-department,
	// validate-attendance, approve-leave).
	HasManagerialPermission(ctx context.Context, userID int64) (bool, error)
}

// Context is the resolved security context for one request. Computed fresh
// per request and never persisted; the directory stays the system of record.
type Context struct {
	Role          models.Role
	EmployeeID    models.EmployeeID
	TenantID      string
	AccessibleIDs map[models.EmployeeID]struct{}
}

// CanAccess reports whether the context may read the given employee's data.
func (c Context) CanAccess(id models.EmployeeID) bool {
	_, ok := c.AccessibleIDs[id]
	return ok
}

// Resolver computes security contexts against the directory.
type Resolver struct {
	directory Directory
}

// NewResolver creates a resolver backed by the given directory.
func NewResolver(directory Directory) *Resolver {
	return &Resolver{directory: directory}
}

// Resolve derives the principal's role and accessible-employee scope.
//
// Role derivation, first match wins:
//  1. Guest: no linked employee record, no data access at all.
//  2. Admin: superuser or staff flag set, scope is all active employees.
//  3. HRManager: has at least one subordinate or a managerial permission,
//     scope is self plus direct subordinates.
//  4. Employee: scope is exactly self.
func (r *Resolver) Resolve(ctx context.Context, principal models.Principal) (Context, error) {
	if !principal.HasEmployee() {
		return Context{Role: models.RoleGuest, TenantID: principal.TenantID,
			AccessibleIDs: map[models.EmployeeID]struct{}{}}, nil
	}

	secCtx := Context{
		EmployeeID:    principal.EmployeeID,
		TenantID:      principal.TenantID,
		AccessibleIDs: map[models.EmployeeID]struct{}{principal.EmployeeID: {}},
	}

	if principal.IsSuperuser || principal.IsStaff {
		secCtx.Role = models.RoleAdmin
		all, err := r.directory.ActiveEmployees(ctx)
		if err != nil {
			return Context{}, fmt.Errorf("list active employees: %w", err)
		}
		for _, id := range all {
			secCtx.AccessibleIDs[id] = struct{}{}
		}
		return secCtx, nil
	}

	subordinates, err := r.directory.Subordinates(ctx, principal.EmployeeID)
	if err != nil {
		return Context{}, fmt.Errorf("list subordinates: %w", err)
	}

	isManager := len(subordinates) > 0
	if !isManager {
		hasPerm, err := r.directory.HasManagerialPermission(ctx, principal.UserID)
		if err != nil {
			return Context{}, fmt.Errorf("check managerial permissions: %w", err)
		}
		isManager = hasPerm
	}

	if isManager {
		secCtx.Role = models.RoleHRManager
		for _, id := range subordinates {
			secCtx.AccessibleIDs[id] = struct{}{}
		}
	} else {
		secCtx.Role = models.RoleEmployee
	}

	slog.Debug("Resolved security context",
		"user_id", principal.UserID,
		"role", secCtx.Role,
		"accessible_count", len(secCtx.AccessibleIDs))

	return secCtx, nil
}
