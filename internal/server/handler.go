package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	errx "github.com/support-router-poc/server/internal/core/error"
	"github.com/support-router-poc/server/internal/router/model"
	logx "github.com/support-router-poc/server/pkg/logger"
)

// QueryRequest is the JSON body accepted by POST /api/v1/query.
type QueryRequest struct {
	UserQuery string `json:"user_query" binding:"required"`
}

// QueryResponse echoes the original query alongside the routing decision.
type QueryResponse struct {
	OriginalQuery string `json:"original_query"`
	AIResponse    string `json:"ai_response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleQuery validates the boundary contract (the orchestrator assumes a
// non-empty query) and invokes the triage graph exactly once. Its return
// value becomes ai_response verbatim.
func (s *Server) handleQuery(c *gin.Context) {
	ctx := c.Request.Context()

	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "user_query is required"})
		return
	}
	if strings.TrimSpace(req.UserQuery) == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "user_query must not be empty"})
		return
	}

	answer, err := s.runner.Invoke(ctx, model.QueryInput{Query: req.UserQuery})
	if err != nil {
		logx.Error().
			Str("request_id", c.GetString("request_id")).
			Err(err).
			Msg("Triage invocation failed")
		status, message := mapError(err)
		c.JSON(status, errorResponse{Error: message})
		return
	}

	c.JSON(http.StatusOK, QueryResponse{
		OriginalQuery: req.UserQuery,
		AIResponse:    answer,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.rdb != nil {
		if err := s.rdb.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// mapError converts orchestrator errors to a safe user-facing status/message.
func mapError(err error) (int, string) {
	var appErr *errx.Error
	if errors.As(err, &appErr) {
		return appErr.Status, appErr.Message
	}
	return http.StatusInternalServerError, errx.SystemErrorMessage
}
