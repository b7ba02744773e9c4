package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/greenwell/internal/model"
	"github.com/jwalitptl/greenwell/internal/repository"
)

func TestSessionRoundTrip(t *testing.T) {
	repo := NewSessionRepository(time.Minute, time.Minute)
	ctx := context.Background()

	sess := &model.Session{
		ID:     "s1",
		Step:   model.StepAppointment,
		Form:   model.BookingForm{FullName: "Jane Doe", DoctorID: "d1"},
		Errors: model.ValidationErrors{model.FieldDate: "Select a preferred date."},
	}
	require.NoError(t, repo.Save(ctx, sess))

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)
	assert.Equal(t, 1, repo.Len())
}

func TestSessionIsolation(t *testing.T) {
	repo := NewSessionRepository(time.Minute, time.Minute)
	ctx := context.Background()

	sess := &model.Session{ID: "s1", Errors: model.ValidationErrors{}}
	require.NoError(t, repo.Save(ctx, sess))

	sess.Errors["email"] = "mutated after save"
	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got.Errors)

	got.Step = model.StepReview
	again, _ := repo.Get(ctx, "s1")
	assert.NotEqual(t, model.StepReview, again.Step)
}

func TestSessionMissingAndExpired(t *testing.T) {
	repo := NewSessionRepository(20*time.Millisecond, time.Hour)
	ctx := context.Background()

	_, err := repo.Get(ctx, "missing")
	assert.True(t, errors.Is(err, repository.ErrNotFound))

	require.NoError(t, repo.Save(ctx, &model.Session{ID: "s1"}))
	time.Sleep(40 * time.Millisecond)

	_, err = repo.Get(ctx, "s1")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestSessionDeleteAndValidation(t *testing.T) {
	repo := NewSessionRepository(time.Minute, time.Minute)
	ctx := context.Background()

	assert.Error(t, repo.Save(ctx, &model.Session{}))
	assert.Error(t, repo.Save(ctx, nil))

	require.NoError(t, repo.Save(ctx, &model.Session{ID: "s1"}))
	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err := repo.Get(ctx, "s1")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
	assert.NoError(t, repo.Ping(ctx))
}
