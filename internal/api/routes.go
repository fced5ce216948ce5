package api

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const welcomeMessage = "Welcome to the Event Feedback Hub Backend!"

func (s *Server) registerRoutes() {
	s.echo.Pre(middleware.RemoveTrailingSlash())
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.config.CORSAllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	if s.httpMetrics != nil {
		s.echo.Use(s.httpMetrics.Middleware())
	}
	s.echo.Use(ErrorHandlingMiddleware())

	s.echo.GET("/", s.handleWelcome)

	s.registerHealthRoutes()
	s.registerFeedbackRoutes()
	s.registerUserRoutes()
	s.registerEventRoutes()

	s.echo.POST("/sentiment", s.handleAnalyze)

	if s.metricsHandler != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metricsHandler))
	}
}

func (s *Server) registerFeedbackRoutes() {
	g := s.echo.Group("/feedback")
	g.POST("", s.handleCreateFeedback)
	g.GET("", s.handleListFeedback)
	g.GET("/:id", s.handleGetFeedback)
	g.GET("/events/:event/summary", s.handleEventSummary)
}

func (s *Server) registerUserRoutes() {
	g := s.echo.Group("/api/users")
	g.GET("", s.handleListUsers)
	g.POST("", s.handleCreateUser)
	g.GET("/:id", s.handleGetUser)
	g.GET("/:id/feedback", s.handleListUserFeedback)
}

func (s *Server) registerEventRoutes() {
	g := s.echo.Group("/api/events")
	g.GET("", s.handleListEvents)
	g.POST("", s.handleCreateEvent)
	g.GET("/upcoming", s.handleUpcomingEvents)
	g.GET("/:id", s.handleGetEvent)
	g.PUT("/:id", s.handleUpdateEvent)
	g.DELETE("/:id", s.handleDeleteEvent)
	g.POST("/:id/register", s.handleRegisterForEvent)
	g.GET("/:id/feedback", s.handleListEventFeedback)
}

func (s *Server) handleWelcome(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": welcomeMessage})
}

func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			slog.Info("[Server] Request", attrs...)
			return nil
		},
	})
}
