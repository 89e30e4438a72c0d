package security

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrkit/chartbot/pkg/models"
)

// fakeDirectory is an in-memory Directory for tests.
type fakeDirectory struct {
	subordinates map[models.EmployeeID][]models.EmployeeID
	active       []models.EmployeeID
	managerPerms map[int64]bool
	err          error
}

func (f *fakeDirectory) Subordinates(_ context.Context, id models.EmployeeID) ([]models.EmployeeID, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.subordinates[id], nil
}

func (f *fakeDirectory) ActiveEmployees(_ context.Context) ([]models.EmployeeID, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.active, nil
}

func (f *fakeDirectory) HasManagerialPermission(_ context.Context, userID int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.managerPerms[userID], nil
}

func testDirectory() *fakeDirectory {
	return &fakeDirectory{
		subordinates: map[models.EmployeeID][]models.EmployeeID{
			20: {7, 8},
		},
		active:       []models.EmployeeID{7, 8, 20, 31},
		managerPerms: map[int64]bool{},
	}
}

func TestResolve_Guest(t *testing.T) {
	r := NewResolver(testDirectory())

	secCtx, err := r.Resolve(context.Background(), models.Principal{UserID: 1, Username: "visitor"})
	require.NoError(t, err)

	assert.Equal(t, models.RoleGuest, secCtx.Role)
	assert.Empty(t, secCtx.AccessibleIDs)
}

func TestResolve_Employee(t *testing.T) {
	r := NewResolver(testDirectory())

	secCtx, err := r.Resolve(context.Background(), models.Principal{
		UserID: 2, Username: "alice", EmployeeID: 7,
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleEmployee, secCtx.Role)
	assert.Len(t, secCtx.AccessibleIDs, 1)
	assert.True(t, secCtx.CanAccess(7))
	assert.False(t, secCtx.CanAccess(8))
}

func TestResolve_HRManagerViaSubordinates(t *testing.T) {
	r := NewResolver(testDirectory())

	secCtx, err := r.Resolve(context.Background(), models.Principal{
		UserID: 3, Username: "mara", EmployeeID: 20,
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleHRManager, secCtx.Role)
	assert.True(t, secCtx.CanAccess(20), "own record stays accessible")
	assert.True(t, secCtx.CanAccess(7))
	assert.True(t, secCtx.CanAccess(8))
	assert.False(t, secCtx.CanAccess(31))
}

func TestResolve_HRManagerViaPermission(t *testing.T) {
	dir := testDirectory()
	dir.managerPerms[4] = true
	r := NewResolver(dir)

	secCtx, err := r.Resolve(context.Background(), models.Principal{
		UserID: 4, Username: "hr", EmployeeID: 31,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleHRManager, secCtx.Role)
}

func TestResolve_Admin(t *testing.T) {
	r := NewResolver(testDirectory())

	for _, p := range []models.Principal{
		{UserID: 5, Username: "root", EmployeeID: 31, IsSuperuser: true},
		{UserID: 6, Username: "staff", EmployeeID: 31, IsStaff: true},
	} {
		secCtx, err := r.Resolve(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, secCtx.Role)
		assert.Len(t, secCtx.AccessibleIDs, 4)
	}
}

func TestResolve_MonotonicRoleContainment(t *testing.T) {
	r := NewResolver(testDirectory())
	ctx := context.Background()

	employee, err := r.Resolve(ctx, models.Principal{UserID: 2, EmployeeID: 7})
	require.NoError(t, err)
	manager, err := r.Resolve(ctx, models.Principal{UserID: 3, EmployeeID: 20})
	require.NoError(t, err)
	admin, err := r.Resolve(ctx, models.Principal{UserID: 5, EmployeeID: 20, IsSuperuser: true})
	require.NoError(t, err)

	for id := range employee.AccessibleIDs {
		assert.True(t, manager.CanAccess(id), "employee scope must be contained in their manager's")
	}
	for id := range manager.AccessibleIDs {
		assert.True(t, admin.CanAccess(id), "manager scope must be contained in admin's")
	}
}

func TestResolve_DirectoryError(t *testing.T) {
	dir := testDirectory()
	dir.err = errors.New("directory down")
	r := NewResolver(dir)

	_, err := r.Resolve(context.Background(), models.Principal{UserID: 2, EmployeeID: 7})
	require.Error(t, err)
}

func TestAuthorize_PolicyTable(t *testing.T) {
	employee := Context{Role: models.RoleEmployee, EmployeeID: 7,
		AccessibleIDs: map[models.EmployeeID]struct{}{7: {}}}
	manager := Context{Role: models.RoleHRManager, EmployeeID: 20,
		AccessibleIDs: map[models.EmployeeID]struct{}{20: {}, 7: {}}}
	admin := Context{Role: models.RoleAdmin, EmployeeID: 31,
		AccessibleIDs: map[models.EmployeeID]struct{}{31: {}, 7: {}, 20: {}}}

	tests := []struct {
		name    string
		intent  models.QueryIntent
		secCtx  Context
		allowed bool
	}{
		{"employee reads own attendance", intent(models.QueryTypeAttendance, models.ScopeSelf), employee, true},
		{"employee denied team scope", intent(models.QueryTypeAttendance, models.ScopeTeam), employee, false},
		{"employee denied company scope", intent(models.QueryTypeCompany, models.ScopeCompany), employee, false},
		{"employee denied team query type without team keyword scope", intent(models.QueryTypeTeam, models.ScopeSelf), employee, false},
		{"manager allowed team scope", intent(models.QueryTypeAttendance, models.ScopeTeam), manager, true},
		{"manager denied company scope", intent(models.QueryTypeCompany, models.ScopeCompany), manager, false},
		{"admin allowed company scope", intent(models.QueryTypeCompany, models.ScopeCompany), admin, true},
		{"greeting open to everyone", intent(models.QueryTypeGreeting, models.ScopeSelf), employee, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Authorize(tt.intent, tt.secCtx)
			assert.Equal(t, tt.allowed, d.Allowed)
			if !tt.allowed {
				assert.NotEmpty(t, d.Reason)
				assert.NotEmpty(t, d.SuggestedAction)
			}
		})
	}
}

func TestAuthorize_EmployeeDeniedTeamMentionsManager(t *testing.T) {
	employee := Context{Role: models.RoleEmployee, EmployeeID: 7,
		AccessibleIDs: map[models.EmployeeID]struct{}{7: {}}}

	d := Authorize(intent(models.QueryTypeAttendance, models.ScopeTeam), employee)
	require.False(t, d.Allowed)
	assert.Contains(t, d.Reason, "team")
	assert.Contains(t, d.SuggestedAction, "managers")
}

func TestAuthorize_GuestDeniedDataBearingIntents(t *testing.T) {
	guest := Context{Role: models.RoleGuest, AccessibleIDs: map[models.EmployeeID]struct{}{}}

	for _, qt := range []models.QueryType{
		models.QueryTypeAttendance, models.QueryTypeLeave, models.QueryTypePayroll,
		models.QueryTypeProfile, models.QueryTypeTeam, models.QueryTypeCompany,
		models.QueryTypePersonalInfo,
	} {
		d := Authorize(intent(qt, models.ScopeSelf), guest)
		assert.False(t, d.Allowed, "guest must be denied %s", qt)
	}

	// But greeting still works.
	d := Authorize(intent(models.QueryTypeGreeting, models.ScopeSelf), guest)
	assert.True(t, d.Allowed)
}

func TestAuthorize_Deterministic(t *testing.T) {
	employee := Context{Role: models.RoleEmployee, EmployeeID: 7,
		AccessibleIDs: map[models.EmployeeID]struct{}{7: {}}}
	in := intent(models.QueryTypeAttendance, models.ScopeTeam)

	first := Authorize(in, employee)
	second := Authorize(in, employee)
	assert.Equal(t, first, second)
}

func TestAuthorizeEmployee(t *testing.T) {
	manager := Context{Role: models.RoleHRManager, EmployeeID: 20,
		AccessibleIDs: map[models.EmployeeID]struct{}{20: {}, 7: {}}}

	assert.True(t, AuthorizeEmployee(7, manager).Allowed)
	assert.False(t, AuthorizeEmployee(31, manager).Allowed)
}

func intent(qt models.QueryType, scope models.TargetScope) models.QueryIntent {
	return models.QueryIntent{Type: qt, Scope: scope, Parameters: map[string]any{}}
}
