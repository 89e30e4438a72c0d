package responder

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hrkit/chartbot/pkg/models"
)

// historyWindow is how many recent turns the prompt carries.
const historyWindow = 5

// buildPrompt assembles the generation prompt: persona and security rules,
// the caller's role, recent conversation, the fetched data and the question.
// The data block is the only employee data the model ever sees; the rules
// forbid inventing anything beyond it.
func buildPrompt(botName string, intent models.QueryIntent, result models.DataResult, role models.Role, history []models.ConversationTurn) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("You are %s, an HR assistant chatbot.\n", botName))
	sb.WriteString("Rules:\n")
	sb.WriteString("- Answer only from the DATA section below. Never invent numbers, names or records.\n")
	sb.WriteString("- Never mention employees outside the DATA section.\n")
	sb.WriteString("- Be concise and friendly. Use plain sentences, no markdown tables.\n\n")

	sb.WriteString(fmt.Sprintf("The user's role is: %s\n\n", role))

	if len(history) > 0 {
		recent := history
		if len(recent) > historyWindow {
			recent = recent[len(recent)-historyWindow:]
		}
		sb.WriteString("Recent conversation:\n")
		for _, turn := range recent {
			sb.WriteString(fmt.Sprintf("%s: %s\n", turn.Role, turn.Content))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("DATA:\n")
	if result.Payload != nil {
		if encoded, err := json.MarshalIndent(result.Payload, "", "  "); err == nil {
			sb.Write(encoded)
			sb.WriteString("\n")
		} else {
			sb.WriteString("(no data available)\n")
		}
	} else {
		sb.WriteString("(no data available)\n")
	}

	sb.WriteString(fmt.Sprintf("\nQuestion: %s\n", intent.RawText))
	sb.WriteString("\nAnswer the question using only the data above.\n")

	return sb.String()
}
