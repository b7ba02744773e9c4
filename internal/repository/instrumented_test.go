package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/greenwell/internal/model"
	"github.com/jwalitptl/greenwell/internal/repository"
	"github.com/jwalitptl/greenwell/internal/repository/memory"
	"github.com/jwalitptl/greenwell/pkg/metrics"
)

func TestInstrumentCountsStoreCalls(t *testing.T) {
	m := metrics.New("test")
	store := repository.Instrument(memory.NewSessionRepository(time.Minute, 0), m)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.True(t, errors.Is(err, repository.ErrNotFound))

	require.NoError(t, store.Save(ctx, &model.Session{ID: "s1"}))
	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)
	require.NoError(t, store.Ping(ctx))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SessionOperations.WithLabelValues("get", "success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SessionOperations.WithLabelValues("get", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionOperations.WithLabelValues("save", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionOperations.WithLabelValues("ping", "success")))
}

func TestInstrumentWithoutMetricsIsPassThrough(t *testing.T) {
	inner := memory.NewSessionRepository(time.Minute, 0)
	assert.Same(t, inner, repository.Instrument(inner, nil))
}
