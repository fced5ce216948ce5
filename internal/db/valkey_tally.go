package db

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spacesedan/feedbackhub/internal/clients"
	"github.com/spacesedan/feedbackhub/internal/models"
	"github.com/spacesedan/feedbackhub/internal/sentiment"
	"github.com/valkey-io/valkey-go"
)

const (
	VALKEY_TALLY_KEY_PREFIX   = "feedback:tally:"
	VALKEY_TALLIED_KEY_PREFIX = "feedback:tallied:"
	// VALKEY_TALLIED_TTL outlives the feedback-scored topic retention so a
	// replayed event is still recognised.
	VALKEY_TALLIED_TTL = 8 * 24 * time.Hour
)

const (
	tallyFieldCount    = "count"
	tallyFieldScoreSum = "score_sum"
)

// recordTallyLua counts one feedback into the event hash at most once.
// KEYS: [1]=tally hash, [2]=tallied marker
// ARGV: [1]=label field, [2]=score, [3]=marker ttl seconds
// Returns 1 when counted, 0 when the feedback was already counted.
const recordTallyLua = `
if not redis.call('SET', KEYS[2], '1', 'NX', 'EX', ARGV[3]) then
  return 0
end
redis.call('HINCRBY', KEYS[1], 'count', 1)
redis.call('HINCRBY', KEYS[1], ARGV[1], 1)
redis.call('HINCRBYFLOAT', KEYS[1], 'score_sum', ARGV[2])
return 1
`

var recordTallyScript = valkey.NewLuaScript(recordTallyLua)

// ValkeyTallyStore keeps one hash per event with label counters and the
// running score sum, so summaries survive restarts and are shared by replicas.
type ValkeyTallyStore struct {
	client  *clients.ValkeyClient
	retries int
}

func NewValkeyTallyStore(client *clients.ValkeyClient) *ValkeyTallyStore {
	return &ValkeyTallyStore{client: client, retries: 3}
}

func tallyKey(eventName string) string {
	return VALKEY_TALLY_KEY_PREFIX + eventName
}

func talliedKey(feedbackID string) string {
	return VALKEY_TALLIED_KEY_PREFIX + feedbackID
}

func labelField(label sentiment.Label) string {
	return strings.ToLower(label.String())
}

// Record applies one feedback to its event tally. The marker and the three
// counters are written by a single script, so a retried or replayed call for
// the same feedback ID never counts twice.
func (s *ValkeyTallyStore) Record(ctx context.Context, feedbackID, eventName string, label sentiment.Label, score float64) error {
	keys := []string{tallyKey(eventName), talliedKey(feedbackID)}
	args := []string{
		labelField(label),
		strconv.FormatFloat(score, 'f', -1, 64),
		strconv.FormatInt(int64(VALKEY_TALLIED_TTL/time.Second), 10),
	}

	counted, err := s.client.ExecWithRetry(ctx, recordTallyScript, keys, args, s.retries).AsInt64()
	if err != nil {
		return fmt.Errorf("[ValkeyTally] Failed to record tally: %w", err)
	}
	if counted == 0 {
		slog.Debug("[ValkeyTally] Feedback already tallied",
			slog.String("feedback_id", feedbackID),
			slog.String("event_name", eventName))
	}
	return nil
}

func (s *ValkeyTallyStore) Summary(ctx context.Context, eventName string) (models.EventSummary, error) {
	res := s.client.DoWithRetry(ctx, s.client.B().Hgetall().Key(tallyKey(eventName)).Build().Pin(), s.retries)
	fields, err := res.AsStrMap()
	if err != nil && !valkey.IsValkeyNil(err) {
		return models.EventSummary{}, fmt.Errorf("[ValkeyTally] Failed to read tally: %w", err)
	}
	return summaryFromHash(eventName, fields)
}

func summaryFromHash(eventName string, fields map[string]string) (models.EventSummary, error) {
	summary := models.EventSummary{EventName: eventName}

	ints := map[string]*int64{
		tallyFieldCount:                &summary.Count,
		labelField(sentiment.Positive): &summary.Positive,
		labelField(sentiment.Negative): &summary.Negative,
		labelField(sentiment.Neutral):  &summary.Neutral,
	}
	for field, dst := range ints {
		raw, ok := fields[field]
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return models.EventSummary{}, fmt.Errorf("[ValkeyTally] invalid %s value %q: %w", field, raw, err)
		}
		*dst = n
	}

	if raw, ok := fields[tallyFieldScoreSum]; ok && summary.Count > 0 {
		sum, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return models.EventSummary{}, fmt.Errorf("[ValkeyTally] invalid score sum %q: %w", raw, err)
		}
		summary.AverageScore = sum / float64(summary.Count)
	}
	return summary, nil
}
