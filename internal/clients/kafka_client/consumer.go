package kafka_client

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

// NewConsumer creates a consumer subscribed to the scored feedback topic.
// Offsets are committed manually once a message has been applied.
func NewConsumer(cfg KafkaConfig) (*kafka.Consumer, error) {
	slog.Info("[KafkaClient] Initializing Kafka Consumer...",
		slog.String("broker", cfg.Broker),
		slog.String("group_id", cfg.groupID()),
		slog.String("topic", cfg.topic()))

	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  cfg.Broker,
		"group.id":           cfg.groupID(),
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": false,
		"isolation.level":    "read_committed",
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create consumer: %w", err)
	}

	if err := c.SubscribeTopics([]string{cfg.topic()}, nil); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("[KafkaClient] Failed to subscribe to topic %s: %w", cfg.topic(), err)
	}

	slog.Info("[KafkaClient] Kafka Consumer initialized successfully")
	return c, nil
}

// DecodeScoredEvent parses a message produced by Producer.PublishScored.
func DecodeScoredEvent(msg *kafka.Message) (ScoredFeedbackEvent, error) {
	var ev ScoredFeedbackEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		return ScoredFeedbackEvent{}, fmt.Errorf("[KafkaClient] failed to decode scored feedback: %w", err)
	}
	if ev.FeedbackID == "" || ev.EventName == "" {
		return ScoredFeedbackEvent{}, errors.New("[KafkaClient] scored feedback is missing feedback_id or event_name")
	}
	return ev, nil
}
