package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/spacesedan/feedbackhub/config"
	"github.com/spacesedan/feedbackhub/internal/models"
	"github.com/spacesedan/feedbackhub/internal/sentiment"
)

// --- Mock implementations ---

type mockFeedbackService struct {
	analyzeFn func(text string) sentiment.Result
	createFn  func(ctx context.Context, in models.FeedbackInput) (*models.Feedback, error)
	getFn     func(ctx context.Context, id string) (*models.Feedback, error)
	listFn    func(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, error)
	summaryFn func(ctx context.Context, eventName string) (models.EventSummary, error)
}

func (m *mockFeedbackService) Analyze(text string) sentiment.Result {
	if m.analyzeFn != nil {
		return m.analyzeFn(text)
	}
	return sentiment.Result{Label: sentiment.Neutral}
}

func (m *mockFeedbackService) Create(ctx context.Context, in models.FeedbackInput) (*models.Feedback, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return nil, errors.New("not implemented")
}

func (m *mockFeedbackService) Get(ctx context.Context, id string) (*models.Feedback, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, models.ErrFeedbackNotFound
}

func (m *mockFeedbackService) List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return []models.Feedback{}, nil
}

func (m *mockFeedbackService) Summary(ctx context.Context, eventName string) (models.EventSummary, error) {
	if m.summaryFn != nil {
		return m.summaryFn(ctx, eventName)
	}
	return models.EventSummary{EventName: eventName}, nil
}

type mockUserService struct {
	listFn   func(ctx context.Context) ([]models.User, error)
	getFn    func(ctx context.Context, id string) (*models.User, error)
	createFn func(ctx context.Context, in models.UserInput) (*models.User, error)
}

func (m *mockUserService) List(ctx context.Context) ([]models.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []models.User{}, nil
}

func (m *mockUserService) Get(ctx context.Context, id string) (*models.User, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, models.ErrUserNotFound
}

func (m *mockUserService) Create(ctx context.Context, in models.UserInput) (*models.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return nil, errors.New("not implemented")
}

type mockEventService struct {
	listFn     func(ctx context.Context) ([]models.Event, error)
	upcomingFn func(ctx context.Context) ([]models.Event, error)
	getFn      func(ctx context.Context, id string) (*models.Event, error)
	createFn   func(ctx context.Context, in models.EventInput) (*models.Event, error)
	updateFn   func(ctx context.Context, id string, in models.EventInput) (*models.Event, error)
	deleteFn   func(ctx context.Context, id string) error
	registerFn func(ctx context.Context, id, userID string) (*models.Event, error)
}

func (m *mockEventService) List(ctx context.Context) ([]models.Event, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []models.Event{}, nil
}

func (m *mockEventService) Upcoming(ctx context.Context) ([]models.Event, error) {
	if m.upcomingFn != nil {
		return m.upcomingFn(ctx)
	}
	return []models.Event{}, nil
}

func (m *mockEventService) Get(ctx context.Context, id string) (*models.Event, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, models.ErrEventNotFound
}

func (m *mockEventService) Create(ctx context.Context, in models.EventInput) (*models.Event, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return nil, errors.New("not implemented")
}

func (m *mockEventService) Update(ctx context.Context, id string, in models.EventInput) (*models.Event, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, in)
	}
	return nil, models.ErrEventNotFound
}

func (m *mockEventService) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return models.ErrEventNotFound
}

func (m *mockEventService) Register(ctx context.Context, id, userID string) (*models.Event, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, id, userID)
	}
	return nil, models.ErrEventNotFound
}

// --- Test server builder ---

type testServerOption func(*testServerOptions)

type testServerOptions struct {
	users        userService
	events       eventService
	obs          Observability
	healthChecks []HealthCheck
	origins      []string
}

func withUsers(u userService) testServerOption {
	return func(o *testServerOptions) { o.users = u }
}

func withEvents(e eventService) testServerOption {
	return func(o *testServerOptions) { o.events = e }
}

func withHealthChecks(checks ...HealthCheck) testServerOption {
	return func(o *testServerOptions) { o.healthChecks = checks }
}

func withMetricsHandler(h http.Handler) testServerOption {
	return func(o *testServerOptions) { o.obs.MetricsHandler = h }
}

func withOrigins(origins ...string) testServerOption {
	return func(o *testServerOptions) { o.origins = origins }
}

func newTestServer(t *testing.T, fb feedbackService, opts ...testServerOption) *Server {
	t.Helper()

	o := testServerOptions{
		users:   &mockUserService{},
		events:  &mockEventService{},
		origins: []string{"*"},
	}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := &config.Config{
		Port:             "0",
		CORSAllowOrigins: o.origins,
	}
	return NewServer(cfg, Services{Feedback: fb, Users: o.users, Events: o.events}, o.obs, o.healthChecks)
}
