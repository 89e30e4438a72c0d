package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hrkit/chartbot/pkg/models"
	"github.com/hrkit/chartbot/pkg/security"
)

// fsmState is one step of the advanced agent's workflow.
type fsmState string

const (
	stateAnalyze          fsmState = "analyze"
	stateCheckPermissions fsmState = "check_permissions"
	stateFetchData        fsmState = "fetch_data"
	stateGenerateResponse fsmState = "generate_response"
	stateHandleError      fsmState = "handle_error"
	stateDone             fsmState = "done"
)

// pipeline carries the state accumulated across FSM steps for one request.
type pipeline struct {
	req      ChatRequest
	intent   models.QueryIntent
	secCtx   security.Context
	data     models.DataResult
	response string
	err      error
}

// next is the transition function. It inspects the pipeline but never
// mutates it, so the workflow topology is checkable in isolation.
func next(s fsmState, p *pipeline) fsmState {
	switch s {
	case stateAnalyze:
		return stateCheckPermissions
	case stateCheckPermissions:
		if p.err != nil {
			return stateHandleError
		}
		if p.data.Kind == models.ResultDenied || !p.intent.Type.RequiresData() {
			return stateGenerateResponse
		}
		return stateFetchData
	case stateFetchData:
		return stateGenerateResponse
	case stateGenerateResponse:
		return stateDone
	default:
		return stateDone
	}
}

// AdvancedAgent is the full pipeline driven as an explicit state machine.
// It is the first tier of the fallback chain and the only one that talks
// to the LLM.
type AdvancedAgent struct {
	deps   Deps
	logger *slog.Logger
}

// NewAdvancedAgent creates the advanced agent. All Deps fields must be set.
func NewAdvancedAgent(deps Deps) *AdvancedAgent {
	return &AdvancedAgent{deps: deps, logger: slog.Default()}
}

func (a *AdvancedAgent) Name() string { return "advanced" }

// Handle runs the workflow to completion. Directory failures during
// permission resolution surface as (nil, error) so the chain can fall back;
// everything else terminates in a ChatResult.
func (a *AdvancedAgent) Handle(ctx context.Context, req ChatRequest) (*models.ChatResult, error) {
	p := &pipeline{req: req}

	for s := stateAnalyze; s != stateDone; s = next(s, p) {
		switch s {
		case stateAnalyze:
			a.analyze(p)
		case stateCheckPermissions:
			a.checkPermissions(ctx, p)
		case stateFetchData:
			a.fetchData(ctx, p)
		case stateGenerateResponse:
			a.generateResponse(ctx, p)
		case stateHandleError:
			return nil, fmt.Errorf("resolve security context: %w", p.err)
		}
	}

	success := p.data.Kind != models.ResultFetchError
	return &models.ChatResult{
		Response:  p.response,
		SessionID: req.SessionID,
		Role:      p.secCtx.Role,
		Success:   success,
	}, nil
}

func (a *AdvancedAgent) analyze(p *pipeline) {
	p.intent = a.deps.Analyzer.Analyze(p.req.Message)
	a.logger.Debug("Analyzed query",
		"query_type", p.intent.Type,
		"scope", p.intent.Scope,
		"confidence", p.intent.Confidence)
}

func (a *AdvancedAgent) checkPermissions(ctx context.Context, p *pipeline) {
	secCtx, err := a.deps.Resolver.Resolve(ctx, p.req.Principal)
	if err != nil {
		p.err = err
		return
	}
	p.secCtx = secCtx

	if d := security.Authorize(p.intent, secCtx); !d.Allowed {
		p.data = models.DeniedResult(denialMessage(d))
	}
}

func (a *AdvancedAgent) fetchData(ctx context.Context, p *pipeline) {
	p.data = a.deps.Fetcher.Fetch(ctx, p.intent, p.secCtx)
}

func (a *AdvancedAgent) generateResponse(ctx context.Context, p *pipeline) {
	history := a.deps.History.Turns(p.req.SessionID)
	p.response = a.deps.Responder.Respond(ctx, p.intent, p.data, p.secCtx.Role, history)
}
