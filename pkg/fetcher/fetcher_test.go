package fetcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrkit/chartbot/pkg/cache"
	"github.com/hrkit/chartbot/pkg/config"
	"github.com/hrkit/chartbot/pkg/models"
	"github.com/hrkit/chartbot/pkg/security"
)

// fakeStore records calls and serves canned data.
type fakeStore struct {
	profile    *models.ProfileData
	attendance *models.AttendanceData
	leave      *models.LeaveData
	payroll    *models.PayrollData
	team       *models.TeamData
	company    *models.CompanyData
	err        error

	calls          int
	lastStart      time.Time
	lastEnd        time.Time
	lastMonth      time.Month
	lastYear       int
	lastTeamIDs    []models.EmployeeID
	lastEmployeeID models.EmployeeID
}

func (s *fakeStore) Profile(_ context.Context, id models.EmployeeID) (*models.ProfileData, error) {
	s.calls++
	s.lastEmployeeID = id
	if s.err != nil {
		return nil, s.err
	}
	return s.profile, nil
}

func (s *fakeStore) Attendance(_ context.Context, id models.EmployeeID, start, end time.Time) (*models.AttendanceData, error) {
	s.calls++
	s.lastEmployeeID = id
	s.lastStart, s.lastEnd = start, end
	if s.err != nil {
		return nil, s.err
	}
	return s.attendance, nil
}

func (s *fakeStore) Leave(_ context.Context, id models.EmployeeID) (*models.LeaveData, error) {
	s.calls++
	s.lastEmployeeID = id
	if s.err != nil {
		return nil, s.err
	}
	return s.leave, nil
}

func (s *fakeStore) Payroll(_ context.Context, id models.EmployeeID, month time.Month, year int) (*models.PayrollData, error) {
	s.calls++
	s.lastEmployeeID = id
	s.lastMonth, s.lastYear = month, year
	if s.err != nil {
		return nil, s.err
	}
	return s.payroll, nil
}

func (s *fakeStore) TeamMembers(_ context.Context, ids []models.EmployeeID) (*models.TeamData, error) {
	s.calls++
	s.lastTeamIDs = ids
	if s.err != nil {
		return nil, s.err
	}
	return s.team, nil
}

func (s *fakeStore) CompanyStats(_ context.Context) (*models.CompanyData, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.company, nil
}

func testTTLs() config.CacheConfig {
	return config.CacheConfig{
		ProfileTTL:    time.Hour,
		AttendanceTTL: 5 * time.Minute,
		LeaveTTL:      10 * time.Minute,
		PayrollTTL:    30 * time.Minute,
		TeamTTL:       10 * time.Minute,
		CompanyTTL:    5 * time.Minute,
		DefaultTTL:    5 * time.Minute,
	}
}

func employeeCtx(id models.EmployeeID) security.Context {
	return security.Context{
		Role:          models.RoleEmployee,
		EmployeeID:    id,
		AccessibleIDs: map[models.EmployeeID]struct{}{id: {}},
	}
}

func managerCtx(self models.EmployeeID, subs ...models.EmployeeID) security.Context {
	ids := map[models.EmployeeID]struct{}{self: {}}
	for _, s := range subs {
		ids[s] = struct{}{}
	}
	return security.Context{Role: models.RoleHRManager, EmployeeID: self, AccessibleIDs: ids}
}

func dataIntent(qt models.QueryType) models.QueryIntent {
	return models.QueryIntent{Type: qt, Scope: models.ScopeSelf, Parameters: map[string]any{}}
}

func TestFetch_Attendance(t *testing.T) {
	store := &fakeStore{attendance: &models.AttendanceData{TotalDays: 20, PresentDays: 18, Percentage: 90}}
	f := New(store, cache.NewDataCache(), testTTLs())
	f.now = func() time.Time { return time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC) }

	intent := dataIntent(models.QueryTypeAttendance)
	intent.Period = models.TimePeriod{Type: models.PeriodThisMonth}

	result := f.Fetch(context.Background(), intent, employeeCtx(7))
	require.Equal(t, models.ResultOk, result.Kind)

	att := result.Payload.(*models.AttendanceData)
	assert.Equal(t, 18, att.PresentDays)
	assert.Equal(t, models.EmployeeID(7), store.lastEmployeeID)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), store.lastStart)
}

func TestFetch_DefaultPeriodIsMonthToDate(t *testing.T) {
	store := &fakeStore{attendance: &models.AttendanceData{}}
	f := New(store, cache.NewDataCache(), testTTLs())
	f.now = func() time.Time { return time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC) }

	f.Fetch(context.Background(), dataIntent(models.QueryTypeAttendance), employeeCtx(7))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), store.lastStart)
	assert.Equal(t, time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC), store.lastEnd)
}

func TestFetch_PayrollDefaultsToCurrentMonth(t *testing.T) {
	store := &fakeStore{payroll: &models.PayrollData{NetSalary: 4200}}
	f := New(store, cache.NewDataCache(), testTTLs())
	f.now = func() time.Time { return time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC) }

	result := f.Fetch(context.Background(), dataIntent(models.QueryTypePayroll), employeeCtx(7))
	require.Equal(t, models.ResultOk, result.Kind)
	assert.Equal(t, time.March, store.lastMonth)
	assert.Equal(t, 2024, store.lastYear)
}

func TestFetch_PayrollHonorsExplicitMonth(t *testing.T) {
	store := &fakeStore{payroll: &models.PayrollData{}}
	f := New(store, cache.NewDataCache(), testTTLs())
	f.now = func() time.Time { return time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC) }

	intent := dataIntent(models.QueryTypePayroll)
	intent.Period = models.TimePeriod{Month: time.January, Year: 2024}

	f.Fetch(context.Background(), intent, employeeCtx(7))
	assert.Equal(t, time.January, store.lastMonth)
	assert.Equal(t, 2024, store.lastYear)
}

func TestFetch_CacheHitSkipsStore(t *testing.T) {
	store := &fakeStore{leave: &models.LeaveData{}}
	f := New(store, cache.NewDataCache(), testTTLs())

	secCtx := employeeCtx(7)
	first := f.Fetch(context.Background(), dataIntent(models.QueryTypeLeave), secCtx)
	second := f.Fetch(context.Background(), dataIntent(models.QueryTypeLeave), secCtx)

	require.Equal(t, models.ResultOk, first.Kind)
	require.Equal(t, models.ResultOk, second.Kind)
	assert.Equal(t, 1, store.calls, "second fetch must be served from cache")
}

func TestFetch_CacheIsPerPrincipal(t *testing.T) {
	store := &fakeStore{leave: &models.LeaveData{}}
	f := New(store, cache.NewDataCache(), testTTLs())

	f.Fetch(context.Background(), dataIntent(models.QueryTypeLeave), employeeCtx(7))
	f.Fetch(context.Background(), dataIntent(models.QueryTypeLeave), employeeCtx(8))

	assert.Equal(t, 2, store.calls, "different principals must never share entries")
}

func TestFetch_FailuresAreNotCached(t *testing.T) {
	store := &fakeStore{err: errors.New("db down")}
	f := New(store, cache.NewDataCache(), testTTLs())

	secCtx := employeeCtx(7)
	first := f.Fetch(context.Background(), dataIntent(models.QueryTypeLeave), secCtx)
	require.Equal(t, models.ResultFetchError, first.Kind)

	store.err = nil
	store.leave = &models.LeaveData{}
	second := f.Fetch(context.Background(), dataIntent(models.QueryTypeLeave), secCtx)
	assert.Equal(t, models.ResultOk, second.Kind, "a failure must not poison the cache")
}

func TestFetch_NotFound(t *testing.T) {
	store := &fakeStore{err: ErrNotFound}
	f := New(store, cache.NewDataCache(), testTTLs())

	result := f.Fetch(context.Background(), dataIntent(models.QueryTypePayroll), employeeCtx(7))
	assert.Equal(t, models.ResultNotFound, result.Kind)
	assert.NotEmpty(t, result.Reason)
}

func TestFetch_StoreErrorBecomesFetchError(t *testing.T) {
	store := &fakeStore{err: errors.New("connection reset")}
	f := New(store, cache.NewDataCache(), testTTLs())

	result := f.Fetch(context.Background(), dataIntent(models.QueryTypeAttendance), employeeCtx(7))
	assert.Equal(t, models.ResultFetchError, result.Kind)
	assert.Contains(t, result.Reason, "connection reset")
}

func TestFetch_ContainmentDeniesOutOfScopeSelf(t *testing.T) {
	// A context whose own employee id is missing from the accessible set
	// must be denied, whatever upstream authorization said.
	store := &fakeStore{profile: &models.ProfileData{}}
	f := New(store, cache.NewDataCache(), testTTLs())

	secCtx := security.Context{
		Role:          models.RoleEmployee,
		EmployeeID:    7,
		AccessibleIDs: map[models.EmployeeID]struct{}{},
	}

	result := f.Fetch(context.Background(), dataIntent(models.QueryTypeProfile), secCtx)
	assert.Equal(t, models.ResultDenied, result.Kind)
	assert.Equal(t, 0, store.calls, "the store must never be touched on a containment failure")
}

func TestFetch_TeamExcludesSelf(t *testing.T) {
	store := &fakeStore{team: &models.TeamData{}}
	f := New(store, cache.NewDataCache(), testTTLs())

	result := f.Fetch(context.Background(), dataIntent(models.QueryTypeTeam), managerCtx(20, 7, 8))
	require.Equal(t, models.ResultOk, result.Kind)
	assert.Equal(t, []models.EmployeeID{7, 8}, store.lastTeamIDs)
}

func TestFetch_TeamWithNoSubordinates(t *testing.T) {
	store := &fakeStore{}
	f := New(store, cache.NewDataCache(), testTTLs())

	result := f.Fetch(context.Background(), dataIntent(models.QueryTypeTeam), managerCtx(20))
	assert.Equal(t, models.ResultNotFound, result.Kind)
	assert.Equal(t, 0, store.calls)
}

func TestFetch_Company(t *testing.T) {
	store := &fakeStore{company: &models.CompanyData{TotalEmployees: 42}}
	f := New(store, cache.NewDataCache(), testTTLs())

	secCtx := security.Context{Role: models.RoleAdmin, EmployeeID: 31,
		AccessibleIDs: map[models.EmployeeID]struct{}{31: {}}}

	result := f.Fetch(context.Background(), dataIntent(models.QueryTypeCompany), secCtx)
	require.Equal(t, models.ResultOk, result.Kind)
	assert.Equal(t, 42, result.Payload.(*models.CompanyData).TotalEmployees)
}
