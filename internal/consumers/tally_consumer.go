package consumers

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/jonboulle/clockwork"
	"github.com/spacesedan/feedbackhub/internal/clients/kafka_client"
	"github.com/spacesedan/feedbackhub/internal/sentiment"
	"github.com/spacesedan/feedbackhub/internal/utils"
)

const (
	RECORD_ATTEMPTS   = 3
	UNHEALTHY_BACKOFF = 5 * time.Second
)

type messageSource interface {
	Next(ctx context.Context) (*kafka.Message, error)
}

type offsetCommitter interface {
	Commit(ctx context.Context, msg *kafka.Message) error
}

type tallyRecorder interface {
	Record(ctx context.Context, feedbackID, eventName string, label sentiment.Label, score float64) error
}

type pendingTally struct {
	msg   *kafka.Message
	event kafka_client.ScoredFeedbackEvent
	label sentiment.Label
	// skip marks undecodable messages; their offsets are still committed.
	skip bool
}

type TallyConsumerOptions struct {
	BatchSize    int
	BatchTimeout time.Duration
	Clock        clockwork.Clock
	// Healthy pauses consumption while false. Nil means always healthy.
	Healthy *atomic.Bool
}

// TallyConsumer applies scored feedback events to per-event tallies. Delivery
// is at least once: a failed batch is not committed and will be replayed.
type TallyConsumer struct {
	source    messageSource
	committer offsetCommitter
	tallies   tallyRecorder
	buffer    *utils.BatchBuffer[pendingTally]
	timeout   time.Duration
	clock     clockwork.Clock
	healthy   *atomic.Bool
}

func NewTallyConsumer(source messageSource, committer offsetCommitter, tallies tallyRecorder, opts TallyConsumerOptions) *TallyConsumer {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.BatchTimeout <= 0 {
		opts.BatchTimeout = utils.BATCH_TIMEOUT
	}
	return &TallyConsumer{
		source:    source,
		committer: committer,
		tallies:   tallies,
		buffer:    utils.NewBatchBuffer[pendingTally](opts.BatchSize),
		timeout:   opts.BatchTimeout,
		clock:     opts.Clock,
		healthy:   opts.Healthy,
	}
}

// Run consumes until ctx is done, then flushes what is buffered. It returns
// early when reading, recording or committing fails for good.
func (tc *TallyConsumer) Run(ctx context.Context) error {
	lastFlush := tc.clock.Now()

	for {
		if ctx.Err() != nil {
			slog.Info("[TallyConsumer] Context cancelled, flushing pending tallies",
				slog.Int("pending", tc.buffer.Size()))
			return tc.flush(context.WithoutCancel(ctx))
		}

		if tc.healthy != nil && !tc.healthy.Load() {
			select {
			case <-ctx.Done():
			case <-tc.clock.After(UNHEALTHY_BACKOFF):
			}
			continue
		}

		msg, err := tc.source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			return fmt.Errorf("[TallyConsumer] failed to read message: %w", err)
		}
		if msg != nil {
			tc.buffer.Add(decodePending(msg))
		}

		if tc.buffer.Full() || (tc.buffer.Size() > 0 && tc.clock.Since(lastFlush) >= tc.timeout) {
			if err := tc.flush(ctx); err != nil {
				return err
			}
			lastFlush = tc.clock.Now()
		}
	}
}

func decodePending(msg *kafka.Message) pendingTally {
	ev, err := kafka_client.DecodeScoredEvent(msg)
	if err != nil {
		slog.Warn("[TallyConsumer] Skipping undecodable message",
			slog.Int64("offset", int64(msg.TopicPartition.Offset)),
			slog.String("error", err.Error()))
		return pendingTally{msg: msg, skip: true}
	}

	label, err := sentiment.ParseLabel(ev.SentimentLabel)
	if err != nil {
		slog.Warn("[TallyConsumer] Skipping message with unknown label",
			slog.String("feedback_id", ev.FeedbackID),
			slog.String("label", ev.SentimentLabel))
		return pendingTally{msg: msg, skip: true}
	}

	return pendingTally{msg: msg, event: ev, label: label}
}

func (tc *TallyConsumer) flush(ctx context.Context) error {
	batch := tc.buffer.GetAndClear()
	if len(batch) == 0 {
		return nil
	}

	slog.Info("[TallyConsumer] Processing batch", slog.Int("batch_size", len(batch)))

	// Offsets are committed per partition, after the last message of that
	// partition in this batch.
	last := make(map[int32]*kafka.Message)
	for _, p := range batch {
		if !p.skip {
			if err := tc.record(ctx, p); err != nil {
				return err
			}
		}
		last[p.msg.TopicPartition.Partition] = p.msg
	}

	for _, msg := range last {
		if err := tc.committer.Commit(ctx, msg); err != nil {
			return fmt.Errorf("[TallyConsumer] failed to commit offset: %w", err)
		}
	}
	return nil
}

func (tc *TallyConsumer) record(ctx context.Context, p pendingTally) error {
	var err error
	for i := 0; i < RECORD_ATTEMPTS; i++ {
		err = tc.tallies.Record(ctx, p.event.FeedbackID, p.event.EventName, p.label, p.event.SentimentScore)
		if err == nil {
			return nil
		}
		slog.Error("[TallyConsumer] Failed to record tally",
			slog.String("feedback_id", p.event.FeedbackID),
			slog.String("error", err.Error()),
			slog.Int("attempt", i+1))
	}
	return fmt.Errorf("[TallyConsumer] failed to record tally for %s: %w", p.event.FeedbackID, err)
}
