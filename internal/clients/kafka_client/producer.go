package kafka_client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/feedbackhub/internal/models"
)

// ScoredFeedbackEvent is the payload published for every stored feedback.
type ScoredFeedbackEvent struct {
	FeedbackID     string    `json:"feedback_id"`
	EventID        string    `json:"event_id,omitempty"`
	EventName      string    `json:"event_name"`
	UserID         string    `json:"user_id,omitempty"`
	SentimentScore float64   `json:"sentiment_score"`
	SentimentLabel string    `json:"sentiment_label"`
	CreatedAt      time.Time `json:"created_at"`
}

type Producer struct {
	producer *kafka.Producer
	topic    string
}

func NewProducer(cfg KafkaConfig) (*Producer, error) {
	slog.Info("[KafkaClient] Initializing Kafka Producer...", slog.String("broker", cfg.Broker))

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "feedbackhub-producer"
	}

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":                     cfg.Broker,
		"client.id":                             clientID,
		"security.protocol":                     "PLAINTEXT",
		"api.version.request":                   "true",
		"enable.idempotence":                    true,
		"acks":                                  "all",
		"max.in.flight.requests.per.connection": 1,
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return &Producer{producer: p, topic: cfg.topic()}, nil
}

// BuildMessage encodes a feedback record as a message keyed by feedback ID.
func BuildMessage(topic string, fb models.Feedback) (*kafka.Message, error) {
	payload, err := json.Marshal(ScoredFeedbackEvent{
		FeedbackID:     fb.ID,
		EventID:        fb.EventID,
		EventName:      fb.EventName,
		UserID:         fb.UserID,
		SentimentScore: fb.SentimentScore,
		SentimentLabel: fb.SentimentLabel,
		CreatedAt:      fb.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] failed to encode feedback: %w", err)
	}

	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(fb.ID),
		Value:          payload,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	}, nil
}

// PublishScored produces the feedback event and waits for its delivery report.
func (p *Producer) PublishScored(ctx context.Context, fb models.Feedback) error {
	msg, err := BuildMessage(p.topic, fb)
	if err != nil {
		return err
	}

	deliveries := make(chan kafka.Event, 1)
	for i := 0; i < MAX_RETRIES; i++ {
		err = p.producer.Produce(msg, deliveries)
		if err == nil {
			break
		}
		slog.Warn("[KafkaClient] Failed to produce message, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
	}
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to produce after %d attempts: %w", MAX_RETRIES, err)
	}

	ctx, cancel := context.WithTimeout(ctx, DELIVERY_TIMEOUT)
	defer cancel()

	select {
	case <-ctx.Done():
		return fmt.Errorf("[KafkaClient] delivery report not received: %w", ctx.Err())
	case ev := <-deliveries:
		delivered, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("[KafkaClient] unexpected delivery event %v", ev)
		}
		if delivered.TopicPartition.Error != nil {
			return fmt.Errorf("[KafkaClient] delivery failed: %w", delivered.TopicPartition.Error)
		}
	}

	slog.Debug("[KafkaClient] Published scored feedback",
		slog.String("topic", p.topic),
		slog.String("feedback_id", fb.ID))
	return nil
}

func (p *Producer) Close() {
	slog.Info("[KafkaClient] Flushing Kafka producer before shutdown...")
	if remaining := p.producer.Flush(FLUSH_TIMEOUT_MS); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	p.producer.Close()
	slog.Info("[KafkaClient] Kafka producer shut down")
}
