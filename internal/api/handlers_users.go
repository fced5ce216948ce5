package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spacesedan/feedbackhub/internal/apperrors"
	"github.com/spacesedan/feedbackhub/internal/models"
)

func (s *Server) handleListUsers(c echo.Context) error {
	list, err := s.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) handleCreateUser(c echo.Context) error {
	var in models.UserInput
	if err := c.Bind(&in); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	u, err := s.users.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, u)
}

func (s *Server) handleGetUser(c echo.Context) error {
	u, err := s.users.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (s *Server) handleListUserFeedback(c echo.Context) error {
	ctx := c.Request().Context()

	u, err := s.users.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	limit, err := parseLimit(c.QueryParam("limit"))
	if err != nil {
		return err
	}

	list, err := s.feedback.List(ctx, models.FeedbackFilter{UserID: u.ID, Limit: limit})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}
