package db

import (
	"context"
	"sort"
	"sync"

	"github.com/spacesedan/feedbackhub/internal/models"
	"github.com/spacesedan/feedbackhub/internal/sentiment"
)

// MemoryFeedbackRepository keeps feedback in process memory.
type MemoryFeedbackRepository struct {
	mu    sync.RWMutex
	items []models.Feedback
}

func NewMemoryFeedbackRepository() *MemoryFeedbackRepository {
	return &MemoryFeedbackRepository{}
}

func (r *MemoryFeedbackRepository) Insert(_ context.Context, fb *models.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, *fb)
	return nil
}

func (r *MemoryFeedbackRepository) Get(_ context.Context, id string) (*models.Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.items {
		if r.items[i].ID == id {
			fb := r.items[i]
			return &fb, nil
		}
	}
	return nil, models.ErrFeedbackNotFound
}

func (r *MemoryFeedbackRepository) List(_ context.Context, filter models.FeedbackFilter) ([]models.Feedback, error) {
	r.mu.RLock()
	out := make([]models.Feedback, 0, len(r.items))
	for _, fb := range r.items {
		if filter.Matches(fb) {
			out = append(out, fb)
		}
	}
	r.mu.RUnlock()

	return newestFirst(out, filter.Limit), nil
}

// newestFirst sorts by CreatedAt descending and truncates to limit (if > 0).
func newestFirst(items []models.Feedback, limit int) []models.Feedback {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

type tally struct {
	count, positive, negative, neutral int64
	scoreSum                           float64
}

// MemoryTallyStore counts labels per event in process memory. Each feedback
// ID is counted once.
type MemoryTallyStore struct {
	mu      sync.Mutex
	tallies map[string]*tally
	tallied map[string]struct{}
}

func NewMemoryTallyStore() *MemoryTallyStore {
	return &MemoryTallyStore{
		tallies: make(map[string]*tally),
		tallied: make(map[string]struct{}),
	}
}

func (s *MemoryTallyStore) Record(_ context.Context, feedbackID, eventName string, label sentiment.Label, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, done := s.tallied[feedbackID]; done {
		return nil
	}
	s.tallied[feedbackID] = struct{}{}

	t, ok := s.tallies[eventName]
	if !ok {
		t = &tally{}
		s.tallies[eventName] = t
	}
	t.count++
	t.scoreSum += score
	switch label {
	case sentiment.Positive:
		t.positive++
	case sentiment.Negative:
		t.negative++
	default:
		t.neutral++
	}
	return nil
}

func (s *MemoryTallyStore) Summary(_ context.Context, eventName string) (models.EventSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := models.EventSummary{EventName: eventName}
	t, ok := s.tallies[eventName]
	if !ok {
		return summary, nil
	}
	summary.Count = t.count
	summary.Positive = t.positive
	summary.Negative = t.negative
	summary.Neutral = t.neutral
	if t.count > 0 {
		summary.AverageScore = t.scoreSum / float64(t.count)
	}
	return summary, nil
}
