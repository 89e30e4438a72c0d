package models

import "time"

// TurnRole identifies who produced a conversation turn.
type TurnRole string

const (
	TurnRoleUser      TurnRole = "user"
	TurnRoleAssistant TurnRole = "assistant"
)

// ConversationTurn is one message in a chat session.
type ConversationTurn struct {
	Role      TurnRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatResult is the terminal output of one pipeline invocation.
// Success is false only for internal faults, never for authorization
// denials; a denial is a valid business outcome with Success=true.
type ChatResult struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
	Role      Role   `json:"role"`
	Success   bool   `json:"success"`
}
