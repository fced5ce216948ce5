package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spacesedan/feedbackhub/internal/apperrors"
)

type analyzeRequest struct {
	Text string `json:"text"`
}

// handleAnalyze scores text ad hoc. Empty text is valid and scores neutral.
func (s *Server) handleAnalyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	return c.JSON(http.StatusOK, s.feedback.Analyze(req.Text))
}
