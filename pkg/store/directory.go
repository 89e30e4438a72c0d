package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hrkit/chartbot/pkg/models"
)

// managerialPermissions are the permission names that grant HR-manager
// standing even without direct subordinates.
var managerialPermissions = []string{
	"view_all_employees",
	"manage_department",
	"validate_attendance",
	"approve_leave",
}

// Directory is the PostgreSQL employee directory.
type Directory struct {
	client *Client
}

// NewDirectory creates a directory over the shared client.
func NewDirectory(client *Client) *Directory {
	return &Directory{client: client}
}

// Subordinates returns the active direct subordinates of an employee.
func (d *Directory) Subordinates(ctx context.Context, id models.EmployeeID) ([]models.EmployeeID, error) {
	rows, err := d.client.db.QueryContext(ctx,
		`SELECT id FROM employees WHERE manager_id = $1 AND is_active ORDER BY id`, int64(id))
	if err != nil {
		return nil, fmt.Errorf("query subordinates: %w", err)
	}
	defer rows.Close()

	return scanEmployeeIDs(rows)
}

// ActiveEmployees returns every active employee id.
func (d *Directory) ActiveEmployees(ctx context.Context) ([]models.EmployeeID, error) {
	rows, err := d.client.db.QueryContext(ctx,
		`SELECT id FROM employees WHERE is_active ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query active employees: %w", err)
	}
	defer rows.Close()

	return scanEmployeeIDs(rows)
}

// HasManagerialPermission reports whether the user holds any managerial
// permission.
func (d *Directory) HasManagerialPermission(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := d.client.db.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM user_permissions
			WHERE user_id = $1 AND permission = ANY($2)
		)`, userID, managerialPermissions).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query managerial permissions: %w", err)
	}
	return exists, nil
}

func scanEmployeeIDs(rows *sql.Rows) ([]models.EmployeeID, error) {
	var ids []models.EmployeeID
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan employee id: %w", err)
		}
		ids = append(ids, models.EmployeeID(id))
	}
	return ids, rows.Err()
}
