package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/spacesedan/feedbackhub/internal/apperrors"
	"github.com/spacesedan/feedbackhub/internal/models"
)

type UserLookup interface {
	Get(ctx context.Context, id string) (*models.User, error)
}

// Store keeps events in memory. Listings are ordered by event date.
type Store struct {
	mu     sync.RWMutex
	events map[string]*models.Event
	users  UserLookup
	clock  clockwork.Clock
}

func NewStore(clock clockwork.Clock, users UserLookup) *Store {
	return &Store{
		events: make(map[string]*models.Event),
		users:  users,
		clock:  clock,
	}
}

func cloneEvent(ev *models.Event) models.Event {
	out := *ev
	out.Attendees = slices.Clone(ev.Attendees)
	if out.Attendees == nil {
		out.Attendees = []string{}
	}
	return out
}

func (s *Store) sorted(keep func(*models.Event) bool) []models.Event {
	out := make([]models.Event, 0, len(s.events))
	for _, ev := range s.events {
		if keep(ev) {
			out = append(out, cloneEvent(ev))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func (s *Store) List(_ context.Context) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(func(*models.Event) bool { return true }), nil
}

// Upcoming returns events still marked upcoming whose date has not passed.
func (s *Store) Upcoming(_ context.Context) ([]models.Event, error) {
	now := s.clock.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(func(ev *models.Event) bool {
		return ev.Status == models.EventUpcoming && !ev.Date.Before(now)
	}), nil
}

func (s *Store) Get(_ context.Context, id string) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.events[id]
	if !ok {
		return nil, models.ErrEventNotFound
	}
	out := cloneEvent(ev)
	return &out, nil
}

func (s *Store) validate(ctx context.Context, in models.EventInput) (models.EventInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, apperrors.ValidationError("title is required").WithField("title", in.Title)
	}
	if in.Date.IsZero() {
		return in, apperrors.ValidationError("date is required")
	}
	if in.Status == "" {
		in.Status = models.EventUpcoming
	}
	if !in.Status.Valid() {
		return in, apperrors.ValidationError("status must be upcoming, ongoing, completed or cancelled").
			WithField("status", string(in.Status))
	}

	in.OrganizerID = strings.TrimSpace(in.OrganizerID)
	if in.OrganizerID != "" {
		if err := s.requireUser(ctx, in.OrganizerID, "organizer_id"); err != nil {
			return in, err
		}
	}
	return in, nil
}

func (s *Store) requireUser(ctx context.Context, id, field string) error {
	if s.users == nil {
		return nil
	}
	if _, err := s.users.Get(ctx, id); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return apperrors.ValidationError("user does not exist").WithField(field, id)
		}
		return fmt.Errorf("[EventStore] failed to look up user: %w", err)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, in models.EventInput) (*models.Event, error) {
	in, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	ev := &models.Event{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date.UTC(),
		Location:    in.Location,
		OrganizerID: in.OrganizerID,
		Status:      in.Status,
		Attendees:   []string{},
		CreatedAt:   s.clock.Now().UTC(),
	}

	s.mu.Lock()
	s.events[ev.ID] = ev
	out := cloneEvent(ev)
	s.mu.Unlock()

	slog.Info("[EventStore] Created event",
		slog.String("event_id", ev.ID),
		slog.String("title", ev.Title))
	return &out, nil
}

func (s *Store) Update(ctx context.Context, id string, in models.EventInput) (*models.Event, error) {
	in, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ev, ok := s.events[id]
	if !ok {
		return nil, models.ErrEventNotFound
	}
	ev.Title = in.Title
	ev.Description = in.Description
	ev.Date = in.Date.UTC()
	ev.Location = in.Location
	ev.OrganizerID = in.OrganizerID
	ev.Status = in.Status

	out := cloneEvent(ev)
	return &out, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return models.ErrEventNotFound
	}
	delete(s.events, id)

	slog.Info("[EventStore] Deleted event", slog.String("event_id", id))
	return nil
}

// Register adds a user to the event's attendees. A user can register once.
func (s *Store) Register(ctx context.Context, id, userID string) (*models.Event, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.ValidationError("user_id is required")
	}
	if err := s.requireUser(ctx, userID, "user_id"); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ev, ok := s.events[id]
	if !ok {
		return nil, models.ErrEventNotFound
	}
	if slices.Contains(ev.Attendees, userID) {
		return nil, models.ErrAlreadyRegistered
	}
	ev.Attendees = append(ev.Attendees, userID)

	out := cloneEvent(ev)
	return &out, nil
}
