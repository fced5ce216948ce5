package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spacesedan/feedbackhub/internal/apperrors"
	"github.com/spacesedan/feedbackhub/internal/models"
)

func (s *Server) handleCreateFeedback(c echo.Context) error {
	var in models.FeedbackInput
	if err := c.Bind(&in); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	fb, err := s.feedback.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, fb)
}

func (s *Server) handleListFeedback(c echo.Context) error {
	limit, err := parseLimit(c.QueryParam("limit"))
	if err != nil {
		return err
	}

	filter := models.FeedbackFilter{
		EventID:   strings.TrimSpace(c.QueryParam("event_id")),
		EventName: strings.TrimSpace(c.QueryParam("event")),
		UserID:    strings.TrimSpace(c.QueryParam("user_id")),
		Limit:     limit,
	}

	list, err := s.feedback.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) handleGetFeedback(c echo.Context) error {
	fb, err := s.feedback.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fb)
}

func (s *Server) handleEventSummary(c echo.Context) error {
	summary, err := s.feedback.Summary(c.Request().Context(), c.Param("event"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

// parseLimit accepts an empty value as "use the default".
func parseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, apperrors.ValidationError("limit must be a positive integer").WithField("limit", raw)
	}
	return limit, nil
}
