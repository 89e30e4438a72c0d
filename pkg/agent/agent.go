// Package agent implements the chat agents and the fallback chain that
// orchestrates them. Every agent runs the same pipeline shape: analyze the
// query, resolve and check permissions, fetch scoped data, generate the
// response. They differ in how much of the stack they need alive.
package agent

import (
	"context"
	"strings"

	"github.com/hrkit/chartbot/pkg/analyzer"
	"github.com/hrkit/chartbot/pkg/cache"
	"github.com/hrkit/chartbot/pkg/fetcher"
	"github.com/hrkit/chartbot/pkg/models"
	"github.com/hrkit/chartbot/pkg/responder"
	"github.com/hrkit/chartbot/pkg/security"
)

// ChatRequest is one inbound chat message with its authenticated caller.
type ChatRequest struct {
	Principal models.Principal
	SessionID string
	Message   string
}

// ChatAgent handles one chat request end to end.
//
// Returns (*ChatResult, nil) on completion, including denials and data
// failures (check Result.Success and the response text). Returns
// (nil, error) only when the agent itself cannot produce a result, which
// signals the chain to fall back to the next agent.
type ChatAgent interface {
	Name() string
	Handle(ctx context.Context, req ChatRequest) (*models.ChatResult, error)
}

// Deps bundles the pipeline collaborators shared by the agents. Fields may
// be nil when the corresponding capability is unavailable; the chain only
// constructs agents whose dependencies are satisfied.
type Deps struct {
	Analyzer  *analyzer.Analyzer
	Resolver  *security.Resolver
	Fetcher   *fetcher.Fetcher
	Responder *responder.Generator
	History   *cache.HistoryStore
}

// denialMessage joins a decision's reason and suggested action into the
// response the user sees.
func denialMessage(d security.Decision) string {
	return strings.TrimSpace(d.Reason + " " + d.SuggestedAction)
}
