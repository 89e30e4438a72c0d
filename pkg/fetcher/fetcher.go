// Package fetcher retrieves HR data for authorized query intents, enforcing
// employee-scope containment and caching successful results.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/hrkit/chartbot/pkg/cache"
	"github.com/hrkit/chartbot/pkg/config"
	"github.com/hrkit/chartbot/pkg/models"
	"github.com/hrkit/chartbot/pkg/security"
)

// ErrNotFound is returned by HRStore implementations when the requested
// record does not exist. It is an expected outcome, not a store fault.
var ErrNotFound = errors.New("record not found")

// HRStore is the read-only contract to the HR system of record. The fetcher
// never writes through it.
type HRStore interface {
	Profile(ctx context.Context, id models.EmployeeID) (*models.ProfileData, error)
	Attendance(ctx context.Context, id models.EmployeeID, start, end time.Time) (*models.AttendanceData, error)
	Leave(ctx context.Context, id models.EmployeeID) (*models.LeaveData, error)
	Payroll(ctx context.Context, id models.EmployeeID, month time.Month, year int) (*models.PayrollData, error)
	TeamMembers(ctx context.Context, ids []models.EmployeeID) (*models.TeamData, error)
	CompanyStats(ctx context.Context) (*models.CompanyData, error)
}

// Fetcher resolves query intents to data results through the cache and store.
type Fetcher struct {
	store  HRStore
	cache  *cache.DataCache
	ttls   config.CacheConfig
	logger *slog.Logger
	now    func() time.Time
}

// New creates a fetcher over the given store and cache.
func New(store HRStore, dataCache *cache.DataCache, ttls config.CacheConfig) *Fetcher {
	return &Fetcher{
		store:  store,
		cache:  dataCache,
		ttls:   ttls,
		logger: slog.Default(),
		now:    time.Now,
	}
}

// Fetch retrieves the data the intent asks for, scoped to the security
// context. Authorization must already have passed; Fetch still re-checks
// employee containment before touching any record, so a policy slip can
// never widen the readable set.
//
// Business failures (denied, not found, store error) come back inside the
// DataResult; Fetch itself never returns an error.
func (f *Fetcher) Fetch(ctx context.Context, intent models.QueryIntent, secCtx security.Context) models.DataResult {
	key := cache.DataKey{
		PrincipalID: int64(secCtx.EmployeeID),
		QueryType:   intent.Type,
		TenantID:    secCtx.TenantID,
	}
	if payload, ok := f.cache.Get(key); ok {
		return models.OkResult(payload)
	}

	result := f.fetch(ctx, intent, secCtx)

	// Only successful payloads are cached. Denials and store failures are
	// re-evaluated on every request.
	if result.Kind == models.ResultOk {
		f.cache.Put(key, result.Payload, f.ttlFor(intent.Type))
	}
	return result
}

func (f *Fetcher) fetch(ctx context.Context, intent models.QueryIntent, secCtx security.Context) models.DataResult {
	switch intent.Type {
	case models.QueryTypePersonalInfo, models.QueryTypeProfile:
		return f.fetchProfile(ctx, secCtx)
	case models.QueryTypeAttendance:
		return f.fetchAttendance(ctx, intent, secCtx)
	case models.QueryTypeLeave:
		return f.fetchLeave(ctx, secCtx)
	case models.QueryTypePayroll:
		return f.fetchPayroll(ctx, intent, secCtx)
	case models.QueryTypeTeam:
		return f.fetchTeam(ctx, secCtx)
	case models.QueryTypeCompany:
		return f.fetchCompany(ctx)
	default:
		return models.NotFoundResult("I don't have data for that kind of question.")
	}
}

func (f *Fetcher) fetchProfile(ctx context.Context, secCtx security.Context) models.DataResult {
	if d := security.AuthorizeEmployee(secCtx.EmployeeID, secCtx); !d.Allowed {
		return models.DeniedResult(d.Reason)
	}

	profile, err := f.store.Profile(ctx, secCtx.EmployeeID)
	if err != nil {
		return f.storeFailure("profile", err)
	}
	return models.OkResult(profile)
}

func (f *Fetcher) fetchAttendance(ctx context.Context, intent models.QueryIntent, secCtx security.Context) models.DataResult {
	if d := security.AuthorizeEmployee(secCtx.EmployeeID, secCtx); !d.Allowed {
		return models.DeniedResult(d.Reason)
	}

	start, end := intent.Period.Resolve(f.now())
	attendance, err := f.store.Attendance(ctx, secCtx.EmployeeID, start, end)
	if err != nil {
		return f.storeFailure("attendance", err)
	}
	return models.OkResult(attendance)
}

func (f *Fetcher) fetchLeave(ctx context.Context, secCtx security.Context) models.DataResult {
	if d := security.AuthorizeEmployee(secCtx.EmployeeID, secCtx); !d.Allowed {
		return models.DeniedResult(d.Reason)
	}

	leave, err := f.store.Leave(ctx, secCtx.EmployeeID)
	if err != nil {
		return f.storeFailure("leave", err)
	}
	return models.OkResult(leave)
}

func (f *Fetcher) fetchPayroll(ctx context.Context, intent models.QueryIntent, secCtx security.Context) models.DataResult {
	if d := security.AuthorizeEmployee(secCtx.EmployeeID, secCtx); !d.Allowed {
		return models.DeniedResult(d.Reason)
	}

	month, year := intent.Period.Month, intent.Period.Year
	if month == 0 {
		month = f.now().Month()
	}
	if year == 0 {
		year = f.now().Year()
	}

	payroll, err := f.store.Payroll(ctx, secCtx.EmployeeID, month, year)
	if err != nil {
		return f.storeFailure("payroll", err)
	}
	return models.OkResult(payroll)
}

func (f *Fetcher) fetchTeam(ctx context.Context, secCtx security.Context) models.DataResult {
	// The team is the accessible scope minus the principal's own record.
	// Every id comes out of the resolved context, so containment holds by
	// construction; the filter below keeps it explicit.
	ids := make([]models.EmployeeID, 0, len(secCtx.AccessibleIDs))
	for id := range secCtx.AccessibleIDs {
		if id == secCtx.EmployeeID || !secCtx.CanAccess(id) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if len(ids) == 0 {
		return models.NotFoundResult("No team members are linked to your record.")
	}

	team, err := f.store.TeamMembers(ctx, ids)
	if err != nil {
		return f.storeFailure("team", err)
	}
	return models.OkResult(team)
}

func (f *Fetcher) fetchCompany(ctx context.Context) models.DataResult {
	stats, err := f.store.CompanyStats(ctx)
	if err != nil {
		return f.storeFailure("company", err)
	}
	return models.OkResult(stats)
}

func (f *Fetcher) storeFailure(what string, err error) models.DataResult {
	if errors.Is(err, ErrNotFound) {
		return models.NotFoundResult(fmt.Sprintf("I couldn't find any %s records for you.", what))
	}
	f.logger.Warn("HR store fetch failed", "data", what, "error", err)
	return models.FetchErrorResult(err.Error())
}

func (f *Fetcher) ttlFor(queryType models.QueryType) time.Duration {
	switch queryType {
	case models.QueryTypeProfile, models.QueryTypePersonalInfo:
		return f.ttls.ProfileTTL
	case models.QueryTypeAttendance:
		return f.ttls.AttendanceTTL
	case models.QueryTypeLeave:
		return f.ttls.LeaveTTL
	case models.QueryTypePayroll:
		return f.ttls.PayrollTTL
	case models.QueryTypeTeam:
		return f.ttls.TeamTTL
	case models.QueryTypeCompany:
		return f.ttls.CompanyTTL
	default:
		return f.ttls.DefaultTTL
	}
}
