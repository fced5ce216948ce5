package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spacesedan/feedbackhub/config"
	"github.com/spacesedan/feedbackhub/internal/api"
	"github.com/spacesedan/feedbackhub/internal/clients"
	"github.com/spacesedan/feedbackhub/internal/clients/kafka_client"
	"github.com/spacesedan/feedbackhub/internal/db"
	"github.com/spacesedan/feedbackhub/internal/events"
	"github.com/spacesedan/feedbackhub/internal/feedback"
	"github.com/spacesedan/feedbackhub/internal/logging"
	"github.com/spacesedan/feedbackhub/internal/metrics"
	"github.com/spacesedan/feedbackhub/internal/sentiment"
	"github.com/spacesedan/feedbackhub/internal/users"
)

func setupConfig() *config.Config {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		// slog is not configured yet
		log.Fatalf("[Main] Failed to load config: %v", err)
	}
	return cfg
}

func setupScorer() *sentiment.Scorer {
	res, err := sentiment.Load()
	if err != nil {
		var initErr *sentiment.InitializationError
		if errors.As(err, &initErr) {
			slog.Error("[Main] Sentiment resources failed to initialize",
				slog.String("component", initErr.Component),
				slog.String("error", initErr.Err.Error()))
		} else {
			slog.Error("[Main] Sentiment resources failed to initialize", slog.String("error", err.Error()))
		}
		os.Exit(1)
	}
	return sentiment.NewScorer(res)
}

func setupFeedbackRepo(ctx context.Context, cfg *config.Config) (feedback.Repository, []api.HealthCheck) {
	if cfg.FeedbackStore != config.StoreDynamoDB {
		slog.Info("[Main] Using in-memory feedback store")
		return db.NewMemoryFeedbackRepository(), nil
	}

	awsOpts := clients.AWSOptions{Region: cfg.AWSRegion, Endpoint: cfg.AWSEndpoint}
	awsCfg, err := clients.LoadAWSConfig(ctx, awsOpts)
	if err != nil {
		slog.Error("[Main] Failed to load AWS config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repo := db.NewDynamoFeedbackRepository(clients.NewDynamoDBClient(awsCfg, awsOpts), cfg.FeedbackTable)
	slog.Info("[Main] Using DynamoDB feedback store", slog.String("table", cfg.FeedbackTable))
	return repo, []api.HealthCheck{{Name: "dynamodb", Check: repo.Ping}}
}

func setupTallies(cfg *config.Config) (feedback.TallyStore, []api.HealthCheck, func()) {
	if cfg.TallyStore != config.StoreValkey {
		slog.Info("[Main] Using in-memory tally store")
		return db.NewMemoryTallyStore(), nil, func() {}
	}

	client, err := clients.NewValkeyClient(clients.ValkeyOptions{
		Address:  cfg.ValkeyAddress,
		Password: cfg.ValkeyPassword,
		TLS:      cfg.ValkeyTLS,
	})
	if err != nil {
		slog.Error("[Main] Failed to connect to Valkey", slog.String("error", err.Error()))
		os.Exit(1)
	}

	return db.NewValkeyTallyStore(client), []api.HealthCheck{{Name: "valkey", Check: client.Ping}}, client.Close
}

func setupPublisher(cfg *config.Config) (feedback.Publisher, func()) {
	kcfg := kafka_client.KafkaConfig{
		Broker: cfg.KafkaBroker,
		Topic:  cfg.KafkaFeedbackTopic,
	}
	if !kcfg.Enabled() {
		slog.Info("[Main] KAFKA_BROKER not set, scored feedback events are disabled")
		return feedback.NoopPublisher{}, func() {}
	}

	producer, err := kafka_client.NewProducer(kcfg)
	if err != nil {
		slog.Error("[Main] Failed to create Kafka producer", slog.String("error", err.Error()))
		os.Exit(1)
	}
	return producer, producer.Close
}

func scorerCheck(scorer *sentiment.Scorer) api.HealthCheck {
	return api.HealthCheck{
		Name: "sentiment",
		Check: func(context.Context) error {
			if got := scorer.Score("good").Label; got != sentiment.Positive {
				return fmt.Errorf("probe scored %s", got)
			}
			return nil
		},
	}
}

func runGracefulShutdown(srv *api.Server, timeout time.Duration) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("[Main] Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("[Main] Server shutdown error", slog.String("error", err.Error()))
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()
	logging.InitLogger(cfg.LogLevel)
	slog.Info("[Main] Application starting",
		slog.String("app", cfg.AppName),
		slog.String("env", cfg.AppEnv),
		slog.String("port", cfg.Port))

	scorer := setupScorer()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	repo, repoChecks := setupFeedbackRepo(ctx, cfg)
	cancel()

	tallies, tallyChecks, closeTallies := setupTallies(cfg)
	defer closeTallies()

	publisher, closePublisher := setupPublisher(cfg)
	defer closePublisher()

	reg := metrics.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(reg)
	scoringMetrics := metrics.NewScoringMetrics(reg)

	userStore := users.NewStore(clock)
	eventStore := events.NewStore(clock, userStore)

	svc := feedback.NewService(feedback.Deps{
		Scorer:    scorer,
		Repo:      repo,
		Tallies:   tallies,
		Publisher: publisher,
		Users:     userStore,
		Events:    eventStore,
		Observer:  scoringMetrics,
		Clock:     clock,
	}, feedback.Options{
		StripMarkdown: cfg.StripMarkdown,
		ListLimit:     cfg.FeedbackListLimit,
		DeferTallies:  cfg.TallyFromEvents,
		RequireEvent:  cfg.FeedbackRequireEvent,
	})

	checks := []api.HealthCheck{scorerCheck(scorer)}
	checks = append(checks, repoChecks...)
	checks = append(checks, tallyChecks...)

	srv := api.NewServer(cfg, api.Services{
		Feedback: svc,
		Users:    userStore,
		Events:   eventStore,
	}, api.Observability{
		HTTPMetrics:    httpMetrics,
		MetricsHandler: metrics.Handler(reg),
	}, checks)

	done := runGracefulShutdown(srv, cfg.ShutdownTimeout)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("[Main] Server error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	<-done
	slog.Info("[Main] Server stopped")
}
