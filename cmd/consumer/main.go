package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/spacesedan/feedbackhub/config"
	"github.com/spacesedan/feedbackhub/internal/clients"
	"github.com/spacesedan/feedbackhub/internal/clients/kafka_client"
	"github.com/spacesedan/feedbackhub/internal/consumers"
	"github.com/spacesedan/feedbackhub/internal/db"
	"github.com/spacesedan/feedbackhub/internal/logging"
	"github.com/spacesedan/feedbackhub/internal/monitoring"
)

// The tally consumer applies feedback-scored events to the Valkey tallies
// that back GET /feedback/events/:event/summary.
func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Main] Failed to load config: %v", err)
	}
	logging.InitLogger(cfg.LogLevel)

	if cfg.KafkaBroker == "" || cfg.TallyStore != config.StoreValkey {
		slog.Error("[Main] The tally consumer needs KAFKA_BROKER and TALLY_STORE=valkey")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	valkeyClient, err := clients.NewValkeyClient(clients.ValkeyOptions{
		Address:  cfg.ValkeyAddress,
		Password: cfg.ValkeyPassword,
		TLS:      cfg.ValkeyTLS,
	})
	if err != nil {
		slog.Error("[Main] Failed to connect to Valkey", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer valkeyClient.Close()

	consumer, err := kafka_client.NewConsumer(kafka_client.KafkaConfig{
		Broker:  cfg.KafkaBroker,
		Topic:   cfg.KafkaFeedbackTopic,
		GroupID: cfg.KafkaGroupID,
	})
	if err != nil {
		slog.Error("[Main] Failed to create Kafka consumer", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			slog.Warn("[Main] Failed to close Kafka consumer", slog.String("error", err.Error()))
		}
	}()

	clock := clockwork.NewRealClock()
	valkeyHealthy := &atomic.Bool{}
	valkeyHealthy.Store(true)
	go monitoring.Monitor(ctx, clock, "valkey", monitoring.HEALTHCHECK_INTERVAL, valkeyClient.Ping, valkeyHealthy)

	tallyConsumer := consumers.NewTallyConsumer(
		kafka_client.NewKafkaMessageIterator(consumer),
		kafka_client.NewCommitHandler(consumer),
		db.NewValkeyTallyStore(valkeyClient),
		consumers.TallyConsumerOptions{Clock: clock, Healthy: valkeyHealthy},
	)

	slog.Info("[Main] Tally consumer started",
		slog.String("topic", cfg.KafkaFeedbackTopic),
		slog.String("group_id", cfg.KafkaGroupID))

	if err := tallyConsumer.Run(ctx); err != nil {
		slog.Error("[Main] Tally consumer stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("[Main] Tally consumer shut down")
}
