package users

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/spacesedan/feedbackhub/internal/apperrors"
	"github.com/spacesedan/feedbackhub/internal/models"
)

// Store keeps users in memory, in creation order.
type Store struct {
	mu      sync.RWMutex
	users   []models.User
	byEmail map[string]int
	clock   clockwork.Clock
}

func NewStore(clock clockwork.Clock) *Store {
	return &Store{
		byEmail: make(map[string]int),
		clock:   clock,
	}
}

func (s *Store) List(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

func (s *Store) Get(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (s *Store) Create(_ context.Context, in models.UserInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.ValidationError("name is required").WithField("name", in.Name)
	}

	addr, err := mail.ParseAddress(strings.TrimSpace(in.Email))
	if err != nil {
		return nil, apperrors.ValidationError("email is invalid").WithField("email", in.Email)
	}
	email := strings.ToLower(addr.Address)

	role := in.Role
	switch role {
	case "":
		role = models.RoleStudent
	case models.RoleStudent, models.RoleAdmin:
	default:
		return nil, apperrors.ValidationError("role must be student or admin").WithField("role", string(in.Role))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[email]; taken {
		return nil, models.ErrEmailTaken
	}

	u := models.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: s.clock.Now().UTC(),
	}
	s.byEmail[email] = len(s.users)
	s.users = append(s.users, u)

	slog.Info("[UserStore] Created user",
		slog.String("user_id", u.ID),
		slog.String("role", string(u.Role)))
	return &u, nil
}
