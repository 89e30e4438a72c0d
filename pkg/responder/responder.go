// Package responder turns data results into user-facing chat responses,
// preferring LLM generation and falling back to deterministic templates.
package responder

import (
	"context"
	"log/slog"

	"github.com/hrkit/chartbot/pkg/models"
)

// LLM is the generation contract the responder needs. A nil LLM is valid
// and means template-only operation.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Available(ctx context.Context) bool
}

// Generator produces the final response text for a pipeline invocation.
type Generator struct {
	llm     LLM
	botName string
	logger  *slog.Logger
}

// New creates a generator. llm may be nil to force template rendering.
func New(llm LLM, botName string) *Generator {
	return &Generator{llm: llm, botName: botName, logger: slog.Default()}
}

// Respond renders the response for the intent and its data result.
//
// Denied, not-found and fetch-error results always render from templates
// so the wording stays deterministic and no internal detail leaks. For
// successful data results the generator tries the LLM first (probing
// availability to skip a known-down service) and falls back to the
// equivalent template on any failure. Respond never returns an error:
// there is always a template to fall back to.
func (g *Generator) Respond(ctx context.Context, intent models.QueryIntent, result models.DataResult, role models.Role, history []models.ConversationTurn) string {
	switch result.Kind {
	case models.ResultDenied:
		return result.Reason
	case models.ResultNotFound:
		if result.Reason != "" {
			return result.Reason
		}
		return "I couldn't find any records matching your question."
	case models.ResultFetchError:
		// Reason holds the store error for logs; never show it.
		return "I couldn't retrieve that information right now. Please try again later."
	}

	switch intent.Type {
	case models.QueryTypeGreeting:
		return g.greeting(role)
	case models.QueryTypeHelp:
		return g.help(role)
	case models.QueryTypeGeneral:
		return g.fallback()
	}

	if g.llm != nil && g.llm.Available(ctx) {
		prompt := buildPrompt(g.botName, intent, result, role, history)
		text, err := g.llm.Generate(ctx, prompt)
		if err == nil {
			return text
		}
		g.logger.Warn("LLM generation failed, falling back to template",
			"query_type", intent.Type, "error", err)
	}

	return renderData(intent, result.Payload)
}
