package security

import (
	"github.com/hrkit/chartbot/pkg/models"
)

// Decision is the outcome of an authorization check. One per
// (intent, context) pair; never persisted.
type Decision struct {
	Allowed         bool
	Reason          string
	SuggestedAction string
}

// Allow is the affirmative decision.
func Allow() Decision { return Decision{Allowed: true} }

func deny(reason, action string) Decision {
	return Decision{Reason: reason, SuggestedAction: action}
}

// Authorize decides whether the context may run the intent.
//
// The policy is deny-unless-allowed: personal-scope data is open to every
// role with an employee record, team scope needs HRManager or Admin, and
// company scope needs Admin. Guests are denied every data-bearing intent.
//
// Pure and side-effect-free: identical inputs always yield identical
// decisions.
func Authorize(intent models.QueryIntent, secCtx Context) Decision {
	// Greeting/help/general need no data and are open to everyone,
	// guests included.
	if !intent.Type.RequiresData() {
		return Allow()
	}

	if secCtx.Role == models.RoleGuest {
		return deny(
			"I couldn't find an employee record linked to your account.",
			"Please contact HR to link your account to an employee profile.",
		)
	}

	switch intent.Scope {
	case models.ScopeTeam:
		if secCtx.Role == models.RoleHRManager || secCtx.Role == models.RoleAdmin {
			return Allow()
		}
		return deny(
			"You don't have permission to view team data.",
			"Only managers can view team information.",
		)

	case models.ScopeCompany:
		if secCtx.Role == models.RoleAdmin {
			return Allow()
		}
		return deny(
			"You don't have permission to view company-wide data.",
			"Contact your administrator for access.",
		)
	}

	// Self scope. Team/company query types carry their scope implicitly,
	// so a "team" query without team keywords still needs manager rights.
	switch intent.Type {
	case models.QueryTypeTeam:
		if secCtx.Role == models.RoleHRManager || secCtx.Role == models.RoleAdmin {
			return Allow()
		}
		return deny(
			"You don't have permission to view team data.",
			"Only managers can view team information.",
		)
	case models.QueryTypeCompany:
		if secCtx.Role == models.RoleAdmin {
			return Allow()
		}
		return deny(
			"You don't have permission to view company-wide data.",
			"Contact your administrator for access.",
		)
	}

	return Allow()
}

// AuthorizeEmployee decides whether the context may read a specific
// employee's records. Used by the fetcher's containment re-check and by the
// policy for queries that name another employee.
func AuthorizeEmployee(target models.EmployeeID, secCtx Context) Decision {
	if secCtx.CanAccess(target) {
		return Allow()
	}
	return deny(
		"You don't have permission to view this employee's data.",
		"You can only view your own records.",
	)
}
