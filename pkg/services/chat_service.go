// Package services wires the chat pipeline behind a transport-agnostic API.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hrkit/chartbot/pkg/agent"
	"github.com/hrkit/chartbot/pkg/cache"
	"github.com/hrkit/chartbot/pkg/config"
	"github.com/hrkit/chartbot/pkg/models"
	"github.com/hrkit/chartbot/pkg/security"
)

// maxMessageLength bounds inbound chat messages.
const maxMessageLength = 2000

// Permissions summarizes what a role may query, for the status endpoint.
type Permissions struct {
	ViewOwnData     bool `json:"can_view_own_data"`
	ViewTeamData    bool `json:"can_view_team_data"`
	ViewCompanyData bool `json:"can_view_company_data"`
}

// Status is the bot's state as seen by one principal.
type Status struct {
	Enabled     bool        `json:"enabled"`
	BotName     string      `json:"bot_name"`
	Role        models.Role `json:"role"`
	Permissions Permissions `json:"permissions"`
}

// ChatService runs chat requests through the agent chain and maintains the
// per-session conversation history.
type ChatService struct {
	agent    agent.ChatAgent
	resolver *security.Resolver
	history  *cache.HistoryStore
	cfg      config.Config
	logger   *slog.Logger
	now      func() time.Time
}

// NewChatService creates the chat service.
func NewChatService(chatAgent agent.ChatAgent, resolver *security.Resolver, history *cache.HistoryStore, cfg config.Config) *ChatService {
	return &ChatService{
		agent:    chatAgent,
		resolver: resolver,
		history:  history,
		cfg:      cfg,
		logger:   slog.Default(),
		now:      time.Now,
	}
}

// Chat handles one message. A missing session id starts a new session.
// Returns ErrBotDisabled when the bot is switched off and a ValidationError
// for malformed input; agent-chain exhaustion is the only other error.
func (s *ChatService) Chat(ctx context.Context, principal models.Principal, sessionID, message string) (*models.ChatResult, error) {
	if !s.cfg.Enabled {
		return nil, ErrBotDisabled
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, NewValidationError("message", "must not be empty")
	}
	if len(message) > maxMessageLength {
		return nil, NewValidationError("message", fmt.Sprintf("must not exceed %d characters", maxMessageLength))
	}

	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	key := s.sessionKey(principal, sessionID)

	result, err := s.agent.Handle(ctx, agent.ChatRequest{
		Principal: principal,
		SessionID: key,
		Message:   message,
	})
	if err != nil {
		return nil, fmt.Errorf("handle chat request: %w", err)
	}
	// The agent sees the internal session key; the caller keeps theirs.
	result.SessionID = sessionID

	s.history.Append(key, models.ConversationTurn{
		Role: models.TurnRoleUser, Content: message, Timestamp: s.now().UTC(),
	})
	s.history.Append(key, models.ConversationTurn{
		Role: models.TurnRoleAssistant, Content: result.Response, Timestamp: s.now().UTC(),
	})

	s.logger.Info("Handled chat request",
		"user_id", principal.UserID,
		"session_id", sessionID,
		"success", result.Success)

	return result, nil
}

// History returns up to limit recent turns of the principal's session.
// limit <= 0 means the full retained history.
func (s *ChatService) History(_ context.Context, principal models.Principal, sessionID string, limit int) ([]models.ConversationTurn, error) {
	if sessionID == "" {
		return nil, NewValidationError("session_id", "must not be empty")
	}
	return s.history.Recent(s.sessionKey(principal, sessionID), limit), nil
}

// Status reports the bot state and the principal's effective permissions.
func (s *ChatService) Status(ctx context.Context, principal models.Principal) (*Status, error) {
	secCtx, err := s.resolver.Resolve(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("resolve security context: %w", err)
	}

	role := secCtx.Role
	return &Status{
		Enabled: s.cfg.Enabled,
		BotName: s.cfg.BotName,
		Role:    role,
		Permissions: Permissions{
			ViewOwnData:     role != models.RoleGuest,
			ViewTeamData:    role == models.RoleHRManager || role == models.RoleAdmin,
			ViewCompanyData: role == models.RoleAdmin,
		},
	}, nil
}

// sessionKey namespaces sessions by principal so one user can never read
// another user's history by guessing a session id.
func (s *ChatService) sessionKey(principal models.Principal, sessionID string) string {
	return fmt.Sprintf("%d/%s", principal.UserID, sessionID)
}
