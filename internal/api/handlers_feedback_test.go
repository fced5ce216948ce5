package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spacesedan/feedbackhub/internal/apperrors"
	"github.com/spacesedan/feedbackhub/internal/models"
	"github.com/spacesedan/feedbackhub/internal/sentiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHandleWelcome(t *testing.T) {
	srv := newTestServer(t, &mockFeedbackService{})

	rec := doRequest(srv, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Welcome to the Event Feedback Hub Backend!"}`, rec.Body.String())
}

func TestHandleCreateFeedback(t *testing.T) {
	var got models.FeedbackInput
	svc := &mockFeedbackService{
		createFn: func(_ context.Context, in models.FeedbackInput) (*models.Feedback, error) {
			got = in
			return &models.Feedback{
				ID:             "fb-1",
				EventName:      in.EventName,
				FeedbackText:   in.FeedbackText,
				SentimentScore: 0.6,
				SentimentLabel: "Positive",
				CreatedAt:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			}, nil
		},
	}
	srv := newTestServer(t, svc)

	rec := doRequest(srv, http.MethodPost, "/feedback",
		`{"event_name":"Go Workshop","feedback_text":"Loved it","rating":5}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Go Workshop", got.EventName)
	assert.Equal(t, "Loved it", got.FeedbackText)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 5, *got.Rating)

	body := rec.Body.String()
	assert.Contains(t, body, `"id":"fb-1"`)
	assert.Contains(t, body, `"sentiment_label":"Positive"`)
}

func TestRoutes_AcceptTrailingSlash(t *testing.T) {
	var created bool
	svc := &mockFeedbackService{
		createFn: func(_ context.Context, in models.FeedbackInput) (*models.Feedback, error) {
			created = true
			return &models.Feedback{ID: "fb-1", EventName: in.EventName}, nil
		},
	}
	srv := newTestServer(t, svc)

	rec := doRequest(srv, http.MethodPost, "/feedback/", `{"event_name":"Go Workshop","feedback_text":"Loved it"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, created)

	rec = doRequest(srv, http.MethodGet, "/feedback/", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(srv, http.MethodGet, "/api/users/", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(srv, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleCreateFeedback_InvalidJSON(t *testing.T) {
	srv := newTestServer(t, &mockFeedbackService{})

	rec := doRequest(srv, http.MethodPost, "/feedback", `{"event_name":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":{"type":"validation","message":"invalid request body"}}`, rec.Body.String())
}

func TestHandleCreateFeedback_ValidationFromService(t *testing.T) {
	svc := &mockFeedbackService{
		createFn: func(context.Context, models.FeedbackInput) (*models.Feedback, error) {
			return nil, apperrors.ValidationError("event_name is required").WithField("event_name", "")
		},
	}
	srv := newTestServer(t, svc)

	rec := doRequest(srv, http.MethodPost, "/feedback", `{"feedback_text":"hi"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t,
		`{"error":{"type":"validation","message":"event_name is required","fields":{"event_name":""}}}`,
		rec.Body.String())
}

func TestHandleCreateFeedback_InternalErrorHidden(t *testing.T) {
	svc := &mockFeedbackService{
		createFn: func(context.Context, models.FeedbackInput) (*models.Feedback, error) {
			return nil, errors.New("dynamodb: connection reset")
		},
	}
	srv := newTestServer(t, svc)

	rec := doRequest(srv, http.MethodPost, "/feedback", `{"event_name":"a","feedback_text":"b"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "dynamodb")
	assert.Contains(t, rec.Body.String(), `"message":"internal server error"`)
}

func TestHandleGetFeedback(t *testing.T) {
	svc := &mockFeedbackService{
		getFn: func(_ context.Context, id string) (*models.Feedback, error) {
			if id == "fb-1" {
				return &models.Feedback{ID: "fb-1", EventName: "Go Workshop"}, nil
			}
			return nil, models.ErrFeedbackNotFound
		},
	}
	srv := newTestServer(t, svc)

	tests := []struct {
		name     string
		target   string
		wantCode int
		wantBody string
	}{
		{"found", "/feedback/fb-1", http.StatusOK, `"id":"fb-1"`},
		{"missing", "/feedback/nope", http.StatusNotFound, `"type":"not_found"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(srv, http.MethodGet, tt.target, "")
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestHandleListFeedback(t *testing.T) {
	var got models.FeedbackFilter
	svc := &mockFeedbackService{
		listFn: func(_ context.Context, filter models.FeedbackFilter) ([]models.Feedback, error) {
			got = filter
			return []models.Feedback{{ID: "fb-2"}, {ID: "fb-1"}}, nil
		},
	}
	srv := newTestServer(t, svc)

	rec := doRequest(srv, http.MethodGet, "/feedback?event=Go+Workshop&user_id=u-1&limit=2", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.FeedbackFilter{EventName: "Go Workshop", UserID: "u-1", Limit: 2}, got)
	assert.Contains(t, rec.Body.String(), `"id":"fb-2"`)
}

func TestHandleListFeedback_EmptyIsArray(t *testing.T) {
	srv := newTestServer(t, &mockFeedbackService{})

	rec := doRequest(srv, http.MethodGet, "/feedback", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandleListFeedback_InvalidLimit(t *testing.T) {
	srv := newTestServer(t, &mockFeedbackService{})

	for _, limit := range []string{"abc", "0", "-3"} {
		rec := doRequest(srv, http.MethodGet, "/feedback?limit="+limit, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", limit)
	}
}

func TestHandleEventSummary(t *testing.T) {
	svc := &mockFeedbackService{
		summaryFn: func(_ context.Context, eventName string) (models.EventSummary, error) {
			return models.EventSummary{EventName: eventName, Count: 3, Positive: 2, Neutral: 1, AverageScore: 0.4}, nil
		},
	}
	srv := newTestServer(t, svc)

	rec := doRequest(srv, http.MethodGet, "/feedback/events/Go%20Workshop/summary", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":3`)
}

func TestHandleAnalyze(t *testing.T) {
	var got string
	svc := &mockFeedbackService{
		analyzeFn: func(text string) sentiment.Result {
			got = text
			return sentiment.Result{Score: 0.5, Label: sentiment.Positive}
		},
	}
	srv := newTestServer(t, svc)

	rec := doRequest(srv, http.MethodPost, "/sentiment", `{"text":"great talk"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "great talk", got)
	assert.Contains(t, rec.Body.String(), `"label":"Positive"`)
	assert.Contains(t, rec.Body.String(), `"score":0.5`)
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t, &mockFeedbackService{})

	rec := doRequest(srv, http.MethodGet, "/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
