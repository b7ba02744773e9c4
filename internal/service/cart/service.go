package cart

import (
	"context"

	"github.com/jwalitptl/greenwell/internal/model"
	"github.com/jwalitptl/greenwell/internal/service/booking"
	"github.com/jwalitptl/greenwell/internal/service/catalog"
	"github.com/jwalitptl/greenwell/pkg/logger"
	"github.com/jwalitptl/greenwell/pkg/metrics"
)

// SessionMutator is the part of the booking service the cart shares, so cart
// and booking changes to one session never interleave.
type SessionMutator interface {
	Load(ctx context.Context, id string) (*model.Session, error)
	Mutate(ctx context.Context, id string, action booking.Action, fn booking.Mutation) (*model.Session, error)
}

// Summary is the cart as the header badge sees it.
type Summary struct {
	Count int `json:"count"`
}

type Service struct {
	sessions SessionMutator
	catalog  *catalog.Service
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

func NewService(sessions SessionMutator, products *catalog.Service, m *metrics.Metrics, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{sessions: sessions, catalog: products, metrics: m, logger: log}
}

// Get returns the session with its cart counter.
func (s *Service) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	return s.sessions.Load(ctx, sessionID)
}

// Add counts one more item for an existing product.
func (s *Service) Add(ctx context.Context, sessionID, productID string) (*model.Session, error) {
	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	sess, err := s.sessions.Mutate(ctx, sessionID, booking.ActionCart, func(sess *model.Session) error {
		sess.CartCount++
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveCartAddition(productID)
	s.logger.Debug("product added to cart", "session_id", sess.ID, "product_id", productID, "count", sess.CartCount)
	return sess, nil
}
