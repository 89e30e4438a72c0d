package models

import "time"

// QueryType classifies what a free-text query is asking for.
type QueryType string

const (
	QueryTypePersonalInfo QueryType = "personal_info"
	QueryTypeAttendance   QueryType = "attendance"
	QueryTypeLeave        QueryType = "leave"
	QueryTypePayroll      QueryType = "payroll"
	QueryTypeProfile      QueryType = "profile"
	QueryTypeTeam         QueryType = "team"
	QueryTypeCompany      QueryType = "company"
	QueryTypeGreeting     QueryType = "greeting"
	QueryTypeHelp         QueryType = "help"
	QueryTypeGeneral      QueryType = "general"
)

// RequiresData reports whether answering this query type needs a data fetch.
// Greeting, help, and general queries are answered from templates alone.
func (q QueryType) RequiresData() bool {
	switch q {
	case QueryTypePersonalInfo, QueryTypeAttendance, QueryTypeLeave,
		QueryTypePayroll, QueryTypeProfile, QueryTypeTeam, QueryTypeCompany:
		return true
	}
	return false
}

// TargetScope is whose data the query is about.
type TargetScope string

const (
	ScopeSelf    TargetScope = "self"
	ScopeTeam    TargetScope = "team"
	ScopeCompany TargetScope = "company"
)

// PeriodType is a normalized relative time phrase.
type PeriodType string

const (
	PeriodToday        PeriodType = "today"
	PeriodYesterday    PeriodType = "yesterday"
	PeriodThisWeek     PeriodType = "this_week"
	PeriodLastWeek     PeriodType = "last_week"
	PeriodThisMonth    PeriodType = "this_month"
	PeriodLastMonth    PeriodType = "last_month"
	PeriodThisYear     PeriodType = "this_year"
	PeriodLastYear     PeriodType = "last_year"
	PeriodSpecificDate PeriodType = "specific_date"
)

// TimePeriod is the time range a query refers to.
// StartDate/EndDate are set only for specific dates; Month/Year are set when
// the query names them explicitly (e.g. "payslip for march 2024").
type TimePeriod struct {
	Type      PeriodType
	StartDate time.Time
	EndDate   time.Time
	Month     time.Month // 0 = not specified
	Year      int        // 0 = not specified
}

// Resolve converts the period into a concrete [start, end] date range
// relative to now. Weeks start on Monday.
func (tp TimePeriod) Resolve(now time.Time) (start, end time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch tp.Type {
	case PeriodToday:
		return today, today
	case PeriodYesterday:
		y := today.AddDate(0, 0, -1)
		return y, y
	case PeriodThisWeek:
		start = today.AddDate(0, 0, -weekdayOffset(today))
		return start, start.AddDate(0, 0, 6)
	case PeriodLastWeek:
		start = today.AddDate(0, 0, -weekdayOffset(today)-7)
		return start, start.AddDate(0, 0, 6)
	case PeriodThisMonth:
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return start, start.AddDate(0, 1, -1)
	case PeriodLastMonth:
		firstOfThis := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return firstOfThis.AddDate(0, -1, 0), firstOfThis.AddDate(0, 0, -1)
	case PeriodThisYear:
		return time.Date(today.Year(), 1, 1, 0, 0, 0, 0, today.Location()),
			time.Date(today.Year(), 12, 31, 0, 0, 0, 0, today.Location())
	case PeriodLastYear:
		return time.Date(today.Year()-1, 1, 1, 0, 0, 0, 0, today.Location()),
			time.Date(today.Year()-1, 12, 31, 0, 0, 0, 0, today.Location())
	case PeriodSpecificDate:
		if !tp.StartDate.IsZero() {
			end = tp.EndDate
			if end.IsZero() {
				end = tp.StartDate
			}
			return tp.StartDate, end
		}
	}

	// Default: first of the current month through today.
	start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	return start, today
}

// weekdayOffset returns days since Monday for d.
func weekdayOffset(d time.Time) int {
	wd := int(d.Weekday())
	if wd == 0 {
		return 6 // Sunday
	}
	return wd - 1
}

// QueryIntent is the structured interpretation of a free-text query.
// Created once per query by the analyzer; immutable afterwards.
type QueryIntent struct {
	RawText    string
	Type       QueryType
	Period     TimePeriod
	Scope      TargetScope
	Parameters map[string]any

	// Confidence is an observability signal in [0,1]; it never gates behavior.
	Confidence float64
}
