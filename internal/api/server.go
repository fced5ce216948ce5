package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spacesedan/feedbackhub/config"
	"github.com/spacesedan/feedbackhub/internal/metrics"
	"github.com/spacesedan/feedbackhub/internal/models"
	"github.com/spacesedan/feedbackhub/internal/sentiment"
)

type feedbackService interface {
	Analyze(text string) sentiment.Result
	Create(ctx context.Context, in models.FeedbackInput) (*models.Feedback, error)
	Get(ctx context.Context, id string) (*models.Feedback, error)
	List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, error)
	Summary(ctx context.Context, eventName string) (models.EventSummary, error)
}

type userService interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, in models.UserInput) (*models.User, error)
}

type eventService interface {
	List(ctx context.Context) ([]models.Event, error)
	Upcoming(ctx context.Context) ([]models.Event, error)
	Get(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, in models.EventInput) (*models.Event, error)
	Update(ctx context.Context, id string, in models.EventInput) (*models.Event, error)
	Delete(ctx context.Context, id string) error
	Register(ctx context.Context, id, userID string) (*models.Event, error)
}

// Services groups the domain services behind the routes.
type Services struct {
	Feedback feedbackService
	Users    userService
	Events   eventService
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	feedback feedbackService
	users    userService
	events   eventService

	httpMetrics    *metrics.HTTPMetrics
	metricsHandler http.Handler

	healthChecks []HealthCheck
	startTime    time.Time
}

// Observability groups the optional metrics wiring.
type Observability struct {
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler
}

func NewServer(cfg *config.Config, services Services, obs Observability, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:           e,
		config:         cfg,
		feedback:       services.Feedback,
		users:          services.Users,
		events:         services.Events,
		httpMetrics:    obs.HTTPMetrics,
		metricsHandler: obs.MetricsHandler,
		healthChecks:   healthChecks,
		startTime:      time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("[Server] Starting server", slog.String("port", s.config.Port))
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("[Server] failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("[Server] failed to shutdown server: %w", err)
	}
	return nil
}

// ServeHTTP lets the server be mounted or exercised without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
