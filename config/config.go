package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go-simpler.org/env"
)

const (
	StoreMemory   = "memory"
	StoreDynamoDB = "dynamodb"
	StoreValkey   = "valkey"
)

// MaxFeedbackListLimit caps a single feedback listing.
const MaxFeedbackListLimit = 100

type Config struct {
	AppEnv     string `env:"APP_ENV" default:"dev"`
	AppName    string `env:"APP_NAME" default:"Event Feedback Hub"`
	APIVersion string `env:"API_VERSION" default:"v1"`
	Port       string `env:"PORT" default:"8000"`
	LogLevel   string `env:"LOG_LEVEL" default:"info"`

	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" default:"*"`
	// StripMarkdown scores the plain-text rendering of submissions instead of
	// the raw text.
	StripMarkdown    bool     `env:"STRIP_MARKDOWN" default:"false"`

	FeedbackStore     string `env:"FEEDBACK_STORE" default:"memory"`
	FeedbackTable     string `env:"FEEDBACK_TABLE" default:"Feedback"`
	FeedbackListLimit int    `env:"FEEDBACK_LIST_LIMIT" default:"100"`

	// FeedbackRequireEvent rejects feedback without a registered event_id.
	FeedbackRequireEvent bool `env:"FEEDBACK_REQUIRE_EVENT" default:"false"`

	AWSEndpoint string `env:"AWS_ENDPOINT"`
	AWSRegion   string `env:"AWS_REGION" default:"us-west-2"`

	TallyStore     string `env:"TALLY_STORE" default:"memory"`
	ValkeyAddress  string `env:"VALKEY_INIT_ADDRESS"`
	ValkeyPassword string `env:"VALKEY_PASSWORD"`
	ValkeyTLS      bool   `env:"VALKEY_TLS" default:"false"`

	KafkaBroker        string `env:"KAFKA_BROKER"`
	KafkaFeedbackTopic string `env:"KAFKA_FEEDBACK_TOPIC" default:"feedback-scored"`
	KafkaGroupID       string `env:"KAFKA_GROUP_ID" default:"feedbackhub-tally"`

	// TallyFromEvents leaves tally updates to the tally consumer instead of
	// the request path.
	TallyFromEvents bool `env:"TALLY_FROM_EVENTS" default:"false"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads the configuration from the environment and validates it. Call
// LoadEnv first to pull in the .env file for the current APP_ENV.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Load(&cfg, &env.Options{SliceSep: ","}); err != nil {
		return nil, fmt.Errorf("[Config] failed to load environment variables: %w", err)
	}

	origins := cfg.CORSAllowOrigins[:0]
	for _, origin := range cfg.CORSAllowOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	cfg.CORSAllowOrigins = origins

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Port == "" {
		return errors.New("PORT is required")
	}

	switch cfg.FeedbackStore {
	case StoreMemory:
	case StoreDynamoDB:
		if cfg.FeedbackTable == "" {
			return errors.New("FEEDBACK_TABLE is required when FEEDBACK_STORE=dynamodb")
		}
	default:
		return fmt.Errorf("FEEDBACK_STORE must be %q or %q, got %q", StoreMemory, StoreDynamoDB, cfg.FeedbackStore)
	}

	switch cfg.TallyStore {
	case StoreMemory:
	case StoreValkey:
		if cfg.ValkeyAddress == "" {
			return errors.New("VALKEY_INIT_ADDRESS is required when TALLY_STORE=valkey")
		}
	default:
		return fmt.Errorf("TALLY_STORE must be %q or %q, got %q", StoreMemory, StoreValkey, cfg.TallyStore)
	}

	if cfg.FeedbackListLimit < 1 || cfg.FeedbackListLimit > MaxFeedbackListLimit {
		return fmt.Errorf("FEEDBACK_LIST_LIMIT must be between 1 and %d", MaxFeedbackListLimit)
	}
	if len(cfg.CORSAllowOrigins) == 0 {
		return errors.New("CORS_ALLOW_ORIGINS must list at least one origin")
	}
	if cfg.TallyFromEvents {
		if cfg.KafkaBroker == "" {
			return errors.New("KAFKA_BROKER is required when TALLY_FROM_EVENTS=true")
		}
		if cfg.TallyStore != StoreValkey {
			return errors.New("TALLY_STORE=valkey is required when TALLY_FROM_EVENTS=true")
		}
	}
	return nil
}
