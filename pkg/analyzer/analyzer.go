// Package analyzer turns free-text queries into structured intents.
// Analysis is pure computation with no I/O, and it never fails: unrecognized
// input maps to the general query type with zero confidence.
package analyzer

import (
	"regexp"
	"strings"

	"github.com/hrkit/chartbot/pkg/models"
)

// patternGroup scores one query type. Groups are evaluated in slice order,
// which doubles as the tie-break priority: specific identifiers come before
// broad resource categories, which come before greeting/help.
type patternGroup struct {
	queryType models.QueryType
	patterns  []*regexp.Regexp
}

var intentGroups = []patternGroup{
	{models.QueryTypePersonalInfo, compileAll(
		`\bemail\b`, `\bmail\b`, `\bphone\b`, `\bmobile\b`, `\bcontact number\b`,
		`employee id`, `\bemp id\b`, `id number`, `\bbadge\b`,
	)},
	{models.QueryTypeProfile, compileAll(
		`\bprofile\b`, `personal.*info`, `\bdetails\b`, `\bdepartment\b`,
		`\bposition\b`, `\bmanager\b`, `joining.*date`, `\bdesignation\b`,
	)},
	{models.QueryTypeAttendance, compileAll(
		`\battendance\b`, `check.*in`, `check.*out`, `clock.*in`, `clock.*out`,
		`\bpresent\b`, `\babsent\b`, `worked.*hours`, `\bovertime\b`, `\bpunch\b`,
	)},
	{models.QueryTypeLeave, compileAll(
		`\bleaves?\b`, `\bvacation\b`, `sick.*leave`, `\bholidays?\b`,
		`\bbalance\b`, `time.*off`, `request.*leave`, `pending.*leave`,
		`approved.*leave`,
	)},
	{models.QueryTypePayroll, compileAll(
		`\bsalary\b`, `\bpayroll\b`, `\bpayslip\b`, `\bwage\b`, `\bincome\b`,
		`\ballowance\b`, `\bdeduction\b`, `net.*salary`, `gross.*salary`,
		`\bearnings\b`,
	)},
	{models.QueryTypeTeam, compileAll(
		`\bteam\b`, `\bsubordinates\b`, `team.*members`, `direct.*reports`,
		`\bmy staff\b`,
	)},
	{models.QueryTypeCompany, compileAll(
		`\bcompany\b`, `\borganization\b`, `all.*employees`, `\beveryone\b`,
		`\bstatistics\b`, `\bheadcount\b`, `\boverview\b`,
	)},
	{models.QueryTypeGreeting, compileAll(
		`^hi\b`, `^hello\b`, `^hey\b`, `good (morning|afternoon|evening)`,
	)},
	{models.QueryTypeHelp, compileAll(
		`\bhelp\b`, `what can you do`, `\bcapabilities\b`, `how do i\b`,
	)},
}

var (
	teamScopeRe    = regexp.MustCompile(`\bteam\b|\bsubordinates\b|direct.*reports|\bmy staff\b`)
	companyScopeRe = regexp.MustCompile(`\bcompany\b|\borganization\b|all.*employees|\beveryone\b|company.*wide`)
	selfRe         = regexp.MustCompile(`\bmy\b|\bme\b|\bmine\b|\bmyself\b|\bown\b|\bi\b`)
)

func compileAll(exprs ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		res[i] = regexp.MustCompile(e)
	}
	return res
}

// Analyzer extracts structured intents from raw chat text.
type Analyzer struct{}

// New creates a query analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// Analyze classifies the query, resolves its time period and target scope,
// and extracts parameters. Total: any input yields a usable intent.
func (a *Analyzer) Analyze(rawText string) models.QueryIntent {
	query := strings.ToLower(strings.TrimSpace(rawText))

	intent := models.QueryIntent{
		RawText:    rawText,
		Type:       detectType(query),
		Scope:      detectScope(query),
		Parameters: map[string]any{},
	}

	periodExplicit := extractTimePeriod(query, &intent.Period)
	extractParameters(query, intent.Parameters)

	selfReferenced := selfRe.MatchString(query)
	intent.Confidence = confidence(intent.Type, periodExplicit, len(intent.Parameters) > 0, selfReferenced)

	return intent
}

// detectType scores every pattern group by match count and picks the
// highest; ties go to the earlier (more specific) group.
func detectType(query string) models.QueryType {
	best := models.QueryTypeGeneral
	bestScore := 0

	for _, group := range intentGroups {
		score := 0
		for _, re := range group.patterns {
			if re.MatchString(query) {
				score++
			}
		}
		if score > bestScore {
			best = group.queryType
			bestScore = score
		}
	}
	return best
}

// detectScope defaults to self when no team/company keyword is present.
func detectScope(query string) models.TargetScope {
	switch {
	case teamScopeRe.MatchString(query):
		return models.ScopeTeam
	case companyScopeRe.MatchString(query):
		return models.ScopeCompany
	default:
		return models.ScopeSelf
	}
}

// confidence is a weighted sum of independent analysis signals, capped at 1.
// It is logged for observability and never gates behavior.
func confidence(qt models.QueryType, periodExplicit, hasParams, selfRef bool) float64 {
	c := 0.0
	if qt != models.QueryTypeGeneral {
		c += 0.4
	}
	if periodExplicit {
		c += 0.3
	}
	if hasParams {
		c += 0.2
	}
	if selfRef {
		c += 0.1
	}
	if c > 1.0 {
		c = 1.0
	}
	return c
}
