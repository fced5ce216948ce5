package kafka_client

import "time"

const KAFKA_TOPIC_FEEDBACK_SCORED = "feedback-scored" // feedback records after sentiment scoring

const KAFKA_GROUP_TALLY = "feedbackhub-tally"

const (
	DELIVERY_TIMEOUT = 10 * time.Second
	FLUSH_TIMEOUT_MS = 5000
	MAX_RETRIES      = 3
	RETRY_DELAY      = 2 * time.Second
	POLL_TIMEOUT     = 500 * time.Millisecond
)
