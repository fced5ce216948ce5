package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spacesedan/feedbackhub/internal/apperrors"
	"github.com/spacesedan/feedbackhub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func TestStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewStore(clockwork.NewFakeClockAt(epoch))

	u, err := s.Create(ctx, models.UserInput{Name: "  Ada  ", Email: "Ada@Example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Ada", u.Name)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, models.RoleStudent, u.Role)
	assert.Equal(t, epoch, u.CreatedAt)

	got, err := s.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestStore_GetMissing(t *testing.T) {
	s := NewStore(clockwork.NewFakeClock())

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestStore_ListKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStore(clockwork.NewFakeClock())

	_, err := s.Create(ctx, models.UserInput{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)
	_, err = s.Create(ctx, models.UserInput{Name: "B", Email: "b@example.com", Role: models.RoleAdmin})
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Name)
	assert.Equal(t, models.RoleAdmin, list[1].Role)
}

func TestStore_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := NewStore(clockwork.NewFakeClock())

	_, err := s.Create(ctx, models.UserInput{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)

	_, err = s.Create(ctx, models.UserInput{Name: "A2", Email: "A@EXAMPLE.COM"})
	assert.ErrorIs(t, err, models.ErrEmailTaken)
}

func TestStore_Validation(t *testing.T) {
	tests := map[string]models.UserInput{
		"missing name": {Name: " ", Email: "a@example.com"},
		"bad email":    {Name: "A", Email: "not-an-email"},
		"bad role":     {Name: "A", Email: "a@example.com", Role: "superuser"},
	}

	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			s := NewStore(clockwork.NewFakeClock())
			_, err := s.Create(context.Background(), in)

			var appErr *apperrors.Error
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, apperrors.TypeValidation, appErr.Type)
		})
	}
}
