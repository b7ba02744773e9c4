package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jwalitptl/greenwell/internal/model"
	"github.com/jwalitptl/greenwell/pkg/metrics"
)

type instrumentedSessions struct {
	next    SessionRepository
	metrics *metrics.Metrics
}

// Instrument wraps a session store so every call is counted and timed.
func Instrument(next SessionRepository, m *metrics.Metrics) SessionRepository {
	if m == nil {
		return next
	}
	return &instrumentedSessions{next: next, metrics: m}
}

func (r *instrumentedSessions) Get(ctx context.Context, id string) (*model.Session, error) {
	start := time.Now()
	s, err := r.next.Get(ctx, id)
	// a miss is a normal outcome for an expired cookie
	obsErr := err
	if errors.Is(err, ErrNotFound) {
		obsErr = nil
	}
	r.metrics.ObserveStore("get", time.Since(start).Seconds(), obsErr)
	return s, err
}

func (r *instrumentedSessions) Save(ctx context.Context, s *model.Session) error {
	start := time.Now()
	err := r.next.Save(ctx, s)
	r.metrics.ObserveStore("save", time.Since(start).Seconds(), err)
	return err
}

func (r *instrumentedSessions) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := r.next.Delete(ctx, id)
	r.metrics.ObserveStore("delete", time.Since(start).Seconds(), err)
	return err
}

func (r *instrumentedSessions) Ping(ctx context.Context) error {
	start := time.Now()
	err := r.next.Ping(ctx)
	r.metrics.ObserveStore("ping", time.Since(start).Seconds(), err)
	return err
}
