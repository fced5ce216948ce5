package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spacesedan/feedbackhub/internal/apperrors"
	"github.com/spacesedan/feedbackhub/internal/models"
)

type registerRequest struct {
	UserID string `json:"user_id"`
}

func (s *Server) handleListEvents(c echo.Context) error {
	list, err := s.events.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) handleUpcomingEvents(c echo.Context) error {
	list, err := s.events.Upcoming(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) handleCreateEvent(c echo.Context) error {
	var in models.EventInput
	if err := c.Bind(&in); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	ev, err := s.events.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ev)
}

func (s *Server) handleGetEvent(c echo.Context) error {
	ev, err := s.events.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ev)
}

func (s *Server) handleUpdateEvent(c echo.Context) error {
	var in models.EventInput
	if err := c.Bind(&in); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	ev, err := s.events.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ev)
}

func (s *Server) handleDeleteEvent(c echo.Context) error {
	if err := s.events.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Event deleted"})
}

func (s *Server) handleRegisterForEvent(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	ev, err := s.events.Register(c.Request().Context(), c.Param("id"), req.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ev)
}

func (s *Server) handleListEventFeedback(c echo.Context) error {
	ctx := c.Request().Context()

	ev, err := s.events.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	limit, err := parseLimit(c.QueryParam("limit"))
	if err != nil {
		return err
	}

	list, err := s.feedback.List(ctx, models.FeedbackFilter{EventID: ev.ID, Limit: limit})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}
