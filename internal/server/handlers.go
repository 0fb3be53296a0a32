package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"collegematch/internal/match"
	"collegematch/internal/profile"
	"collegematch/internal/scorecard"
)

type compareRequest struct {
	IDs []int `json:"ids" binding:"required"`
}

func (s *Server) handleSuggest(c *gin.Context) {
	query := c.Query("query")

	results, err := s.suggester.Suggest(c.Request.Context(), query)
	if err != nil {
		s.fail(c, "suggest", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *Server) handleMatch(c *gin.Context) {
	var p profile.StudentProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := s.matcher.Match(c.Request.Context(), p)
	if err != nil {
		s.fail(c, "match", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCompare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := s.matcher.Compare(c.Request.Context(), req.IDs)
	if err != nil {
		s.fail(c, "compare", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// fail maps flow errors onto HTTP statuses: validation problems are the
// client's fault, a missing credential is ours, and provider failures
// surface as bad gateway.
func (s *Server) fail(c *gin.Context, op string, err error) {
	var statusErr *scorecard.StatusError

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, match.ErrNoSearchSignals), errors.Is(err, match.ErrCompareCount):
		status = http.StatusBadRequest
	case errors.Is(err, scorecard.ErrMissingAPIKey):
		status = http.StatusInternalServerError
	case errors.As(err, &statusErr):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("op", op), zap.Error(err))
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
