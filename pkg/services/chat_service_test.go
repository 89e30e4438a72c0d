package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrkit/chartbot/pkg/agent"
	"github.com/hrkit/chartbot/pkg/cache"
	"github.com/hrkit/chartbot/pkg/config"
	"github.com/hrkit/chartbot/pkg/models"
	"github.com/hrkit/chartbot/pkg/security"
)

// echoAgent returns a canned response and records the request it saw.
type echoAgent struct {
	response string
	err      error
	lastReq  agent.ChatRequest
}

func (e *echoAgent) Name() string { return "echo" }

func (e *echoAgent) Handle(_ context.Context, req agent.ChatRequest) (*models.ChatResult, error) {
	e.lastReq = req
	if e.err != nil {
		return nil, e.err
	}
	return &models.ChatResult{
		Response:  e.response,
		SessionID: req.SessionID,
		Role:      models.RoleEmployee,
		Success:   true,
	}, nil
}

type fakeDirectory struct{}

func (fakeDirectory) Subordinates(context.Context, models.EmployeeID) ([]models.EmployeeID, error) {
	return nil, nil
}
func (fakeDirectory) ActiveEmployees(context.Context) ([]models.EmployeeID, error) {
	return []models.EmployeeID{7, 8}, nil
}
func (fakeDirectory) HasManagerialPermission(context.Context, int64) (bool, error) {
	return false, nil
}

func testService(a agent.ChatAgent, enabled bool) *ChatService {
	cfg := config.Config{BotName: "Chart Bot", Enabled: enabled,
		History: config.HistoryConfig{MaxTurns: 10}}
	return NewChatService(a, security.NewResolver(fakeDirectory{}), cache.NewHistoryStore(10), cfg)
}

func alice() models.Principal {
	return models.Principal{UserID: 2, Username: "alice", EmployeeID: 7}
}

func TestChat_GeneratesSessionID(t *testing.T) {
	svc := testService(&echoAgent{response: "hi"}, true)

	result, err := svc.Chat(context.Background(), alice(), "", "hello")
	require.NoError(t, err)
	assert.NotEmpty(t, result.SessionID)
}

func TestChat_KeepsCallerSessionID(t *testing.T) {
	svc := testService(&echoAgent{response: "hi"}, true)

	result, err := svc.Chat(context.Background(), alice(), "sess-1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", result.SessionID)
}

func TestChat_RecordsBothTurns(t *testing.T) {
	svc := testService(&echoAgent{response: "Hi Alice!"}, true)

	_, err := svc.Chat(context.Background(), alice(), "sess-1", "hello")
	require.NoError(t, err)

	turns, err := svc.History(context.Background(), alice(), "sess-1", 0)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, models.TurnRoleUser, turns[0].Role)
	assert.Equal(t, "hello", turns[0].Content)
	assert.Equal(t, models.TurnRoleAssistant, turns[1].Role)
	assert.Equal(t, "Hi Alice!", turns[1].Content)
}

func TestChat_HistoryIsolatedByPrincipal(t *testing.T) {
	svc := testService(&echoAgent{response: "hi"}, true)

	_, err := svc.Chat(context.Background(), alice(), "sess-1", "my secret question")
	require.NoError(t, err)

	bob := models.Principal{UserID: 3, Username: "bob", EmployeeID: 8}
	turns, err := svc.History(context.Background(), bob, "sess-1", 0)
	require.NoError(t, err)
	assert.Empty(t, turns, "guessing a session id must not expose another user's history")
}

func TestChat_RejectsEmptyMessage(t *testing.T) {
	svc := testService(&echoAgent{response: "hi"}, true)

	_, err := svc.Chat(context.Background(), alice(), "sess-1", "   ")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestChat_RejectsOversizedMessage(t *testing.T) {
	svc := testService(&echoAgent{response: "hi"}, true)

	_, err := svc.Chat(context.Background(), alice(), "sess-1", strings.Repeat("x", maxMessageLength+1))
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestChat_DisabledBot(t *testing.T) {
	svc := testService(&echoAgent{response: "hi"}, false)

	_, err := svc.Chat(context.Background(), alice(), "sess-1", "hello")
	assert.ErrorIs(t, err, ErrBotDisabled)
}

func TestChat_AgentFailure(t *testing.T) {
	svc := testService(&echoAgent{err: errors.New("all agents failed")}, true)

	_, err := svc.Chat(context.Background(), alice(), "sess-1", "hello")
	require.Error(t, err)

	turns, err := svc.History(context.Background(), alice(), "sess-1", 0)
	require.NoError(t, err)
	assert.Empty(t, turns, "failed requests must not pollute history")
}

func TestHistory_RequiresSessionID(t *testing.T) {
	svc := testService(&echoAgent{response: "hi"}, true)

	_, err := svc.History(context.Background(), alice(), "", 5)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestHistory_Limit(t *testing.T) {
	svc := testService(&echoAgent{response: "hi"}, true)

	for i := 0; i < 3; i++ {
		_, err := svc.Chat(context.Background(), alice(), "sess-1", "hello")
		require.NoError(t, err)
	}

	turns, err := svc.History(context.Background(), alice(), "sess-1", 2)
	require.NoError(t, err)
	assert.Len(t, turns, 2)
}

func TestStatus(t *testing.T) {
	svc := testService(&echoAgent{response: "hi"}, true)

	status, err := svc.Status(context.Background(), alice())
	require.NoError(t, err)

	assert.True(t, status.Enabled)
	assert.Equal(t, "Chart Bot", status.BotName)
	assert.Equal(t, models.RoleEmployee, status.Role)
	assert.True(t, status.Permissions.ViewOwnData)
	assert.False(t, status.Permissions.ViewTeamData)
	assert.False(t, status.Permissions.ViewCompanyData)
}

func TestStatus_Admin(t *testing.T) {
	svc := testService(&echoAgent{response: "hi"}, true)

	admin := models.Principal{UserID: 5, Username: "root", EmployeeID: 7, IsSuperuser: true}
	status, err := svc.Status(context.Background(), admin)
	require.NoError(t, err)

	assert.Equal(t, models.RoleAdmin, status.Role)
	assert.True(t, status.Permissions.ViewTeamData)
	assert.True(t, status.Permissions.ViewCompanyData)
}

func TestStatus_DisabledStillServes(t *testing.T) {
	svc := testService(&echoAgent{response: "hi"}, false)

	status, err := svc.Status(context.Background(), alice())
	require.NoError(t, err)
	assert.False(t, status.Enabled)
}
