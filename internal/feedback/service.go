package feedback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/spacesedan/feedbackhub/internal/apperrors"
	"github.com/spacesedan/feedbackhub/internal/models"
	"github.com/spacesedan/feedbackhub/internal/sentiment"
	"github.com/spacesedan/feedbackhub/internal/textclean"
)

type Repository interface {
	Insert(ctx context.Context, fb *models.Feedback) error
	Get(ctx context.Context, id string) (*models.Feedback, error)
	List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, error)
}

type TallyStore interface {
	Record(ctx context.Context, feedbackID, eventName string, label sentiment.Label, score float64) error
	Summary(ctx context.Context, eventName string) (models.EventSummary, error)
}

type Publisher interface {
	PublishScored(ctx context.Context, fb models.Feedback) error
}

type Scorer interface {
	Score(text string) sentiment.Result
}

type UserLookup interface {
	Get(ctx context.Context, id string) (*models.User, error)
}

type EventLookup interface {
	Get(ctx context.Context, id string) (*models.Event, error)
}

// ScoreObserver receives one call per scored text.
type ScoreObserver interface {
	ObserveScore(label sentiment.Label, elapsed time.Duration)
}

type Options struct {
	// StripMarkdown scores the plain text of markdown submissions instead of
	// the submitted text. Off by default; the stored text is always the original.
	StripMarkdown bool
	ListLimit     int
	// DeferTallies skips tally updates on create; the tally consumer applies
	// them from published events.
	DeferTallies bool
	// RequireEvent rejects feedback that does not name a registered event.
	RequireEvent bool
}

type Service struct {
	scorer    Scorer
	repo      Repository
	tallies   TallyStore
	publisher Publisher
	users     UserLookup
	events    EventLookup
	observer  ScoreObserver
	clock     clockwork.Clock
	opts      Options
}

type Deps struct {
	Scorer    Scorer
	Repo      Repository
	Tallies   TallyStore
	Publisher Publisher
	Users     UserLookup
	Events    EventLookup
	Observer  ScoreObserver
	Clock     clockwork.Clock
}

func NewService(deps Deps, opts Options) *Service {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Publisher == nil {
		deps.Publisher = NoopPublisher{}
	}
	if opts.ListLimit <= 0 {
		opts.ListLimit = 100
	}
	return &Service{
		scorer:    deps.Scorer,
		repo:      deps.Repo,
		tallies:   deps.Tallies,
		publisher: deps.Publisher,
		users:     deps.Users,
		events:    deps.Events,
		observer:  deps.Observer,
		clock:     deps.Clock,
		opts:      opts,
	}
}

// NoopPublisher drops events; used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishScored(context.Context, models.Feedback) error { return nil }

// Analyze scores text without storing anything.
func (s *Service) Analyze(text string) sentiment.Result {
	return s.score(text)
}

func (s *Service) score(text string) sentiment.Result {
	if s.opts.StripMarkdown {
		text = textclean.ToPlainText(text)
	}

	start := s.clock.Now()
	result := s.scorer.Score(text)
	if s.observer != nil {
		s.observer.ObserveScore(result.Label, s.clock.Since(start))
	}
	return result
}

// resolveEvent checks an event reference against the registered events and
// returns the event ID and the name to file the feedback under.
func (s *Service) resolveEvent(ctx context.Context, in models.FeedbackInput) (string, string, error) {
	eventID := strings.TrimSpace(in.EventID)
	eventName := strings.TrimSpace(in.EventName)

	if eventID == "" {
		if s.opts.RequireEvent {
			return "", "", apperrors.ValidationError("event_id is required")
		}
		return "", eventName, nil
	}
	if s.events == nil {
		return "", "", apperrors.ValidationError("events are not available").WithField("event_id", eventID)
	}

	ev, err := s.events.Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, models.ErrEventNotFound) {
			return "", "", apperrors.ValidationError("event does not exist").WithField("event_id", eventID)
		}
		return "", "", fmt.Errorf("[FeedbackService] failed to look up event: %w", err)
	}
	if eventName == "" {
		return ev.ID, ev.Title, nil
	}
	if !strings.EqualFold(eventName, ev.Title) {
		return "", "", apperrors.ValidationError("event_name does not match the event title").
			WithField("event_name", in.EventName)
	}
	return ev.ID, ev.Title, nil
}

func (s *Service) Create(ctx context.Context, in models.FeedbackInput) (*models.Feedback, error) {
	eventID, eventName, err := s.resolveEvent(ctx, in)
	if err != nil {
		return nil, err
	}
	if eventName == "" {
		return nil, apperrors.ValidationError("event_name is required").WithField("event_name", in.EventName)
	}
	if strings.TrimSpace(in.FeedbackText) == "" {
		return nil, apperrors.ValidationError("feedback_text is required").WithField("feedback_text", in.FeedbackText)
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return nil, apperrors.ValidationError("rating must be between 1 and 5").WithField("rating", *in.Rating)
	}

	userID := strings.TrimSpace(in.UserID)
	if userID != "" && s.users != nil {
		if _, err := s.users.Get(ctx, userID); err != nil {
			if errors.Is(err, models.ErrUserNotFound) {
				return nil, apperrors.ValidationError("user does not exist").WithField("user_id", userID)
			}
			return nil, fmt.Errorf("[FeedbackService] failed to look up user: %w", err)
		}
	}

	result := s.score(in.FeedbackText)

	fb := &models.Feedback{
		ID:               uuid.NewString(),
		EventID:          eventID,
		EventName:        eventName,
		FeedbackText:     in.FeedbackText,
		UserID:           userID,
		Rating:           in.Rating,
		SentimentScore:   result.Score,
		SentimentLabel:   result.Label.String(),
		SentimentDetails: result.Components,
		CreatedAt:        s.clock.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, fb); err != nil {
		return nil, fmt.Errorf("[FeedbackService] failed to store feedback: %w", err)
	}

	// The record is stored; tally and event failures must not fail the request.
	if !s.opts.DeferTallies {
		s.recordTally(ctx, fb, result.Label)
	}
	if err := s.publisher.PublishScored(ctx, *fb); err != nil {
		slog.Warn("[FeedbackService] Failed to publish scored feedback",
			slog.String("feedback_id", fb.ID),
			slog.String("error", err.Error()))
		// The tally consumer will never see this feedback.
		if s.opts.DeferTallies {
			s.recordTally(ctx, fb, result.Label)
		}
	}

	slog.Info("[FeedbackService] Stored feedback",
		slog.String("feedback_id", fb.ID),
		slog.String("event_name", fb.EventName),
		slog.String("label", fb.SentimentLabel),
		slog.Float64("score", fb.SentimentScore))
	return fb, nil
}

func (s *Service) recordTally(ctx context.Context, fb *models.Feedback, label sentiment.Label) {
	if s.tallies == nil {
		return
	}
	if err := s.tallies.Record(ctx, fb.ID, fb.EventName, label, fb.SentimentScore); err != nil {
		slog.Warn("[FeedbackService] Failed to record tally",
			slog.String("feedback_id", fb.ID),
			slog.String("error", err.Error()))
	}
}

func (s *Service) Get(ctx context.Context, id string) (*models.Feedback, error) {
	fb, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrFeedbackNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("[FeedbackService] failed to load feedback: %w", err)
	}
	return fb, nil
}

// List returns feedback newest first. A zero or oversized limit is replaced
// by the configured maximum.
func (s *Service) List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, error) {
	if filter.Limit <= 0 || filter.Limit > s.opts.ListLimit {
		filter.Limit = s.opts.ListLimit
	}

	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("[FeedbackService] failed to list feedback: %w", err)
	}
	if list == nil {
		list = []models.Feedback{}
	}
	return list, nil
}

func (s *Service) Summary(ctx context.Context, eventName string) (models.EventSummary, error) {
	eventName = strings.TrimSpace(eventName)
	if eventName == "" {
		return models.EventSummary{}, apperrors.ValidationError("event name is required")
	}
	if s.tallies == nil {
		return models.EventSummary{EventName: eventName}, nil
	}

	summary, err := s.tallies.Summary(ctx, eventName)
	if err != nil {
		return models.EventSummary{}, fmt.Errorf("[FeedbackService] failed to load summary: %w", err)
	}
	return summary, nil
}
