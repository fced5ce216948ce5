package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/spacesedan/feedbackhub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleCreateUser(t *testing.T) {
	users := &mockUserService{
		createFn: func(_ context.Context, in models.UserInput) (*models.User, error) {
			return &models.User{ID: "u-1", Name: in.Name, Email: in.Email, Role: models.RoleStudent}, nil
		},
	}
	srv := newTestServer(t, &mockFeedbackService{}, withUsers(users))

	rec := doRequest(srv, http.MethodPost, "/api/users", `{"name":"Ada","email":"ada@example.com"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"student"`)
}

func TestHandleCreateUser_EmailTaken(t *testing.T) {
	users := &mockUserService{
		createFn: func(context.Context, models.UserInput) (*models.User, error) {
			return nil, models.ErrEmailTaken
		},
	}
	srv := newTestServer(t, &mockFeedbackService{}, withUsers(users))

	rec := doRequest(srv, http.MethodPost, "/api/users", `{"name":"Ada","email":"ada@example.com"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":{"type":"conflict","message":"email already registered"}}`, rec.Body.String())
}

func TestHandleGetUser_NotFound(t *testing.T) {
	srv := newTestServer(t, &mockFeedbackService{})

	rec := doRequest(srv, http.MethodGet, "/api/users/missing", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":{"type":"not_found","message":"user not found"}}`, rec.Body.String())
}

func TestHandleListUsers(t *testing.T) {
	users := &mockUserService{
		listFn: func(context.Context) ([]models.User, error) {
			return []models.User{{ID: "u-1"}, {ID: "u-2"}}, nil
		},
	}
	srv := newTestServer(t, &mockFeedbackService{}, withUsers(users))

	rec := doRequest(srv, http.MethodGet, "/api/users", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"u-2"`)
}

func TestHandleListUserFeedback(t *testing.T) {
	users := &mockUserService{
		getFn: func(_ context.Context, id string) (*models.User, error) {
			if id == "u-1" {
				return &models.User{ID: "u-1"}, nil
			}
			return nil, models.ErrUserNotFound
		},
	}
	var got models.FeedbackFilter
	svc := &mockFeedbackService{
		listFn: func(_ context.Context, filter models.FeedbackFilter) ([]models.Feedback, error) {
			got = filter
			return []models.Feedback{{ID: "fb-1", UserID: "u-1"}}, nil
		},
	}
	srv := newTestServer(t, svc, withUsers(users))

	t.Run("known user", func(t *testing.T) {
		rec := doRequest(srv, http.MethodGet, "/api/users/u-1/feedback?limit=5", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, models.FeedbackFilter{UserID: "u-1", Limit: 5}, got)
		assert.Contains(t, rec.Body.String(), `"id":"fb-1"`)
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := doRequest(srv, http.MethodGet, "/api/users/u-9/feedback", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
