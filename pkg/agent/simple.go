package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hrkit/chartbot/pkg/analyzer"
	"github.com/hrkit/chartbot/pkg/models"
	"github.com/hrkit/chartbot/pkg/responder"
	"github.com/hrkit/chartbot/pkg/security"
)

// RuleBasedAgent runs the same pipeline as the advanced agent but renders
// every response from templates. Second tier of the fallback chain; it
// needs the directory and store but no LLM.
type RuleBasedAgent struct {
	deps   Deps
	logger *slog.Logger
}

// NewRuleBasedAgent creates the rule-based agent. The Responder in deps
// should be template-only.
func NewRuleBasedAgent(deps Deps) *RuleBasedAgent {
	return &RuleBasedAgent{deps: deps, logger: slog.Default()}
}

func (a *RuleBasedAgent) Name() string { return "rule_based" }

func (a *RuleBasedAgent) Handle(ctx context.Context, req ChatRequest) (*models.ChatResult, error) {
	intent := a.deps.Analyzer.Analyze(req.Message)

	secCtx, err := a.deps.Resolver.Resolve(ctx, req.Principal)
	if err != nil {
		return nil, fmt.Errorf("resolve security context: %w", err)
	}

	var data models.DataResult
	if d := security.Authorize(intent, secCtx); !d.Allowed {
		data = models.DeniedResult(denialMessage(d))
	} else if intent.Type.RequiresData() {
		data = a.deps.Fetcher.Fetch(ctx, intent, secCtx)
	}

	history := a.deps.History.Turns(req.SessionID)
	response := a.deps.Responder.Respond(ctx, intent, data, secCtx.Role, history)

	return &models.ChatResult{
		Response:  response,
		SessionID: req.SessionID,
		Role:      secCtx.Role,
		Success:   data.Kind != models.ResultFetchError,
	}, nil
}

// HeuristicAgent is the last tier: keyword analysis only, no directory, no
// store, no LLM. It answers greeting/help queries and degrades gracefully
// on everything that would need data. It cannot fail.
type HeuristicAgent struct {
	analyzer  *analyzer.Analyzer
	responder *responder.Generator
}

// NewHeuristicAgent creates the degraded-mode agent. gen must be
// template-only.
func NewHeuristicAgent(a *analyzer.Analyzer, gen *responder.Generator) *HeuristicAgent {
	return &HeuristicAgent{analyzer: a, responder: gen}
}

func (a *HeuristicAgent) Name() string { return "heuristic" }

func (a *HeuristicAgent) Handle(ctx context.Context, req ChatRequest) (*models.ChatResult, error) {
	intent := a.analyzer.Analyze(req.Message)

	// Without the directory the only safe role assumption is the weakest
	// one that still lets employees see non-data answers.
	role := models.RoleEmployee
	if !req.Principal.HasEmployee() {
		role = models.RoleGuest
	}

	var response string
	if intent.Type.RequiresData() {
		response = "I'm running in limited mode and can't look up records right now. Please try again in a few minutes."
	} else {
		response = a.responder.Respond(ctx, intent, models.DataResult{Kind: models.ResultOk}, role, nil)
	}

	return &models.ChatResult{
		Response:  response,
		SessionID: req.SessionID,
		Role:      role,
		Success:   true,
	}, nil
}
