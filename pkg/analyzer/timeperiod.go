package analyzer

import (
	"regexp"
	"strconv"
	"time"

	"github.com/hrkit/chartbot/pkg/models"
)

// Relative phrases are ordered so "last week" is tried before "week" etc.
var relativePeriods = []struct {
	re         *regexp.Regexp
	periodType models.PeriodType
}{
	{regexp.MustCompile(`\btoday\b`), models.PeriodToday},
	{regexp.MustCompile(`\byesterday\b`), models.PeriodYesterday},
	{regexp.MustCompile(`this\s+week`), models.PeriodThisWeek},
	{regexp.MustCompile(`last\s+week`), models.PeriodLastWeek},
	{regexp.MustCompile(`this\s+month`), models.PeriodThisMonth},
	{regexp.MustCompile(`last\s+month`), models.PeriodLastMonth},
	{regexp.MustCompile(`this\s+year`), models.PeriodThisYear},
	{regexp.MustCompile(`last\s+year`), models.PeriodLastYear},
}

var (
	// Day-first dates: 25/03/2024, 25-3-24.
	dateRe  = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})\b`)
	yearRe  = regexp.MustCompile(`\b(20\d{2})\b`)
	monthRe = regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`)
)

var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// extractTimePeriod fills tp from the query and reports whether any explicit
// time signal was found. Without one, the period defaults to this month.
func extractTimePeriod(query string, tp *models.TimePeriod) bool {
	explicit := false

	for _, rp := range relativePeriods {
		if rp.re.MatchString(query) {
			tp.Type = rp.periodType
			explicit = true
			break
		}
	}

	// An absolute DD/MM/YYYY date overrides a relative phrase.
	if m := dateRe.FindStringSubmatch(query); m != nil {
		if d, ok := parseDayFirst(m[1], m[2], m[3]); ok {
			tp.Type = models.PeriodSpecificDate
			tp.StartDate = d
			tp.EndDate = d
			explicit = true
		}
	}

	if m := monthRe.FindStringSubmatch(query); m != nil {
		tp.Month = monthsByName[m[1]]
		explicit = true
	}
	if m := yearRe.FindStringSubmatch(query); m != nil {
		tp.Year, _ = strconv.Atoi(m[1])
		explicit = true
	}

	if tp.Type == "" {
		tp.Type = models.PeriodThisMonth
	}
	return explicit
}

func parseDayFirst(dayStr, monthStr, yearStr string) (time.Time, bool) {
	day, _ := strconv.Atoi(dayStr)
	month, _ := strconv.Atoi(monthStr)
	year, _ := strconv.Atoi(yearStr)
	if len(yearStr) == 2 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// Reject rollover dates like 31/02.
	if d.Day() != day || d.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return d, true
}

var leaveTypeRe = regexp.MustCompile(`\b(sick|casual|annual|maternity|paternity|emergency)\b`)

var paramFlags = []struct {
	name string
	re   *regexp.Regexp
}{
	{"export", regexp.MustCompile(`\bexport\b|\bdownload\b`)},
	{"report", regexp.MustCompile(`\breport\b`)},
	{"summary", regexp.MustCompile(`\bsummary\b`)},
}

var numberRe = regexp.MustCompile(`\b\d+\b`)

// extractParameters pulls leave types, report flags, and numeric literals
// into the intent's parameter map.
func extractParameters(query string, params map[string]any) {
	if m := leaveTypeRe.FindStringSubmatch(query); m != nil {
		params["leave_type"] = m[1]
	}

	for _, flag := range paramFlags {
		if flag.re.MatchString(query) {
			params[flag.name] = true
		}
	}

	if nums := numberRe.FindAllString(query, -1); len(nums) > 0 {
		values := make([]int, 0, len(nums))
		for _, n := range nums {
			if v, err := strconv.Atoi(n); err == nil {
				values = append(values, v)
			}
		}
		if len(values) > 0 {
			params["numbers"] = values
		}
	}
}
