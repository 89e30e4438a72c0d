package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hrkit/chartbot/pkg/models"
)

type chatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id"`
}

type historyResponse struct {
	SessionID string                    `json:"session_id"`
	Turns     []models.ConversationTurn `json:"turns"`
}

// handleChat runs one chat message through the pipeline.
// POST /api/v1/chat
func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: message is required"})
		return
	}

	result, err := s.chat.Chat(c.Request.Context(), currentPrincipal(c), req.SessionID, req.Message)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleHistory returns the recent turns of a session.
// GET /api/v1/history?session_id=...&limit=...
func (s *Server) handleHistory(c *gin.Context) {
	sessionID := c.Query("session_id")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	turns, err := s.chat.History(c.Request.Context(), currentPrincipal(c), sessionID, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if turns == nil {
		turns = []models.ConversationTurn{}
	}
	c.JSON(http.StatusOK, historyResponse{SessionID: sessionID, Turns: turns})
}

// handleStatus reports bot availability and the caller's permissions.
// GET /api/v1/status
func (s *Server) handleStatus(c *gin.Context) {
	status, err := s.chat.Status(c.Request.Context(), currentPrincipal(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// handleHealth is the unauthenticated liveness probe.
// GET /healthz
func (s *Server) handleHealth(c *gin.Context) {
	health := gin.H{"status": "ok"}
	if s.healthChecker != nil {
		if err := s.healthChecker(c.Request.Context()); err != nil {
			health["status"] = "degraded"
			health["detail"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, health)
			return
		}
	}
	c.JSON(http.StatusOK, health)
}
