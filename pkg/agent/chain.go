package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hrkit/chartbot/pkg/models"
	"github.com/hrkit/chartbot/pkg/responder"
)

// Chain tries agents in order until one produces a result. Ordering is
// fixed at construction; a later agent is only consulted when every agent
// before it returned an error.
type Chain struct {
	agents []ChatAgent
	logger *slog.Logger
}

// NewChain creates a chain over the given agents. At least one agent is
// required.
func NewChain(agents ...ChatAgent) (*Chain, error) {
	if len(agents) == 0 {
		return nil, fmt.Errorf("chain needs at least one agent")
	}
	return &Chain{agents: agents, logger: slog.Default()}, nil
}

func (c *Chain) Name() string { return "chain" }

// Handle delegates to the first agent that completes. The chain itself
// errors only when every tier failed.
func (c *Chain) Handle(ctx context.Context, req ChatRequest) (*models.ChatResult, error) {
	var lastErr error
	for i, a := range c.agents {
		result, err := a.Handle(ctx, req)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if i+1 < len(c.agents) {
			c.logger.Warn("Agent failed, falling back",
				"agent", a.Name(),
				"next", c.agents[i+1].Name(),
				"error", err)
		}
	}
	return nil, fmt.Errorf("all agents failed: %w", lastErr)
}

// ChainConfig drives Build's capability probing.
type ChainConfig struct {
	// Deps must carry the analyzer and history; resolver and fetcher are
	// optional and gate the data-capable tiers.
	Deps Deps

	// LLM is the generation client, nil when no LLM is configured.
	LLM responder.LLM

	// BotName is used by the template responders.
	BotName string
}

// Build assembles the fallback chain from whatever capabilities are
// available, probing the LLM once at construction:
//
//	advanced   needs directory, store and a live LLM
//	rule_based needs directory and store
//	heuristic  needs nothing
//
// The heuristic tier is always present, so Build never returns an empty
// chain.
func Build(ctx context.Context, cfg ChainConfig) (*Chain, error) {
	if cfg.Deps.Analyzer == nil || cfg.Deps.History == nil {
		return nil, fmt.Errorf("chain requires an analyzer and a history store")
	}

	templates := responder.New(nil, cfg.BotName)
	dataCapable := cfg.Deps.Resolver != nil && cfg.Deps.Fetcher != nil

	var agents []ChatAgent

	if dataCapable && cfg.LLM != nil {
		if cfg.LLM.Available(ctx) {
			deps := cfg.Deps
			deps.Responder = responder.New(cfg.LLM, cfg.BotName)
			agents = append(agents, NewAdvancedAgent(deps))
		} else {
			slog.Warn("LLM unavailable at startup, advanced agent disabled")
		}
	}

	if dataCapable {
		deps := cfg.Deps
		deps.Responder = templates
		agents = append(agents, NewRuleBasedAgent(deps))
	}

	agents = append(agents, NewHeuristicAgent(cfg.Deps.Analyzer, templates))

	names := make([]string, len(agents))
	for i, a := range agents {
		names[i] = a.Name()
	}
	slog.Info("Built agent chain", "agents", names)

	return NewChain(agents...)
}
