package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/greenwell/internal/model"
	"github.com/jwalitptl/greenwell/internal/repository"
	apperrors "github.com/jwalitptl/greenwell/pkg/errors"
	"github.com/jwalitptl/greenwell/pkg/logger"
	"github.com/jwalitptl/greenwell/pkg/metrics"
)

// Mutation changes a loaded session in place.
type Mutation func(s *model.Session) error

type Service struct {
	sessions  repository.SessionRepository
	catalog   repository.CatalogRepository
	submitter Submitter
	metrics   *metrics.Metrics
	logger    *logger.Logger
	locks     sessionLocks
	now       func() time.Time
}

func NewService(sessions repository.SessionRepository, catalog repository.CatalogRepository, submitter Submitter, m *metrics.Metrics, log *logger.Logger) *Service {
	if submitter == nil {
		submitter = SimulatedSubmitter{Delay: DefaultSubmitDelay}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		sessions:  sessions,
		catalog:   catalog,
		submitter: submitter,
		metrics:   m,
		logger:    log,
		now:       time.Now,
	}
}

// Load returns the visitor's session. A missing or expired id yields a fresh
// session under a new id.
func (s *Service) Load(ctx context.Context, id string) (*model.Session, error) {
	unlock := s.locks.lock(id)
	defer unlock()
	return s.load(ctx, id)
}

func (s *Service) load(ctx context.Context, id string) (*model.Session, error) {
	if id != "" {
		sess, err := s.sessions.Get(ctx, id)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unavailable("session store unavailable", err)
		}
	}
	return s.start(ctx)
}

func (s *Service) start(ctx context.Context) (*model.Session, error) {
	doctor, err := s.catalog.DefaultClinician(ctx)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to resolve default clinician: %w", err))
	}

	sess := NewSession(uuid.New().String(), doctor.ID, s.now())
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, apperrors.Unavailable("session store unavailable", err)
	}
	s.metrics.ObserveTransition(string(ActionStart), "ok", nil)
	return sess, nil
}

// Mutate loads the session, applies fn and stores the result. Calls for the
// same id are serialized. The session is returned alongside a blocked or
// rejected outcome so callers can render it.
func (s *Service) Mutate(ctx context.Context, id string, action Action, fn Mutation) (*model.Session, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	sess, err := s.load(ctx, id)
	if err != nil {
		s.metrics.ObserveTransition(string(action), "error", nil)
		return nil, err
	}

	err = fn(sess)
	blocked := apperrors.HasCode(err, apperrors.ErrUnprocessable)
	if err == nil || blocked {
		sess.UpdatedAt = s.now()
		if serr := s.sessions.Save(ctx, sess); serr != nil {
			s.metrics.ObserveTransition(string(action), "error", nil)
			return nil, apperrors.Unavailable("session store unavailable", serr)
		}
	}

	s.record(sess, action, err)
	return sess, err
}

func (s *Service) record(sess *model.Session, action Action, err error) {
	switch {
	case err == nil:
		s.metrics.ObserveTransition(string(action), "ok", nil)
	case apperrors.HasCode(err, apperrors.ErrUnprocessable):
		fields := sess.Errors.Fields()
		s.metrics.ObserveTransition(string(action), "blocked", fields)
		s.logger.Debug("booking step blocked",
			"session_id", sess.ID, "action", string(action), "step", int(sess.Step), "fields", fields)
	default:
		s.metrics.ObserveTransition(string(action), "rejected", nil)
		s.logger.Debug("booking action rejected",
			"session_id", sess.ID, "action", string(action), "step", int(sess.Step), "reason", err.Error())
	}
}

// Update applies a partial form change.
func (s *Service) Update(ctx context.Context, id string, patch model.FormPatch) (*model.Session, error) {
	return s.Mutate(ctx, id, ActionUpdate, func(sess *model.Session) error {
		return ApplyPatch(sess, patch, s.knownClinician(ctx))
	})
}

func (s *Service) SelectClinician(ctx context.Context, id, doctorID string) (*model.Session, error) {
	return s.Mutate(ctx, id, ActionClinician, func(sess *model.Session) error {
		return ApplyPatch(sess, model.FormPatch{DoctorID: &doctorID}, s.knownClinician(ctx))
	})
}

func (s *Service) knownClinician(ctx context.Context) func(string) bool {
	return func(doctorID string) bool {
		_, err := s.catalog.GetClinician(ctx, doctorID)
		return err == nil
	}
}

func (s *Service) Next(ctx context.Context, id string) (*model.Session, error) {
	return s.Mutate(ctx, id, ActionNext, Next)
}

func (s *Service) Back(ctx context.Context, id string) (*model.Session, error) {
	return s.Mutate(ctx, id, ActionBack, Back)
}

func (s *Service) Submit(ctx context.Context, id string) (*model.Session, error) {
	return s.Mutate(ctx, id, ActionSubmit, RequestSubmit)
}

func (s *Service) Cancel(ctx context.Context, id string) (*model.Session, error) {
	return s.Mutate(ctx, id, ActionCancel, CancelSubmit)
}

// Confirm sends the pending request and resets the flow. The session lock is
// held for the whole submission, so a second confirm waits and then finds
// nothing pending.
func (s *Service) Confirm(ctx context.Context, id string) (*model.Session, error) {
	return s.Mutate(ctx, id, ActionConfirm, func(sess *model.Session) error {
		if err := BeginConfirm(sess); err != nil {
			return err
		}

		doctor, err := s.catalog.DefaultClinician(ctx)
		if err != nil {
			return apperrors.Internal(fmt.Errorf("failed to resolve default clinician: %w", err))
		}

		start := s.now()
		s.submitter.Submit(ctx, sess.Form)
		s.metrics.ObserveSubmission(s.now().Sub(start).Seconds())

		s.logger.Info("appointment request submitted",
			"session_id", sess.ID, "doctor_id", sess.Form.DoctorID)

		CompleteSubmission(sess, doctor.ID)
		return nil
	})
}

// Validate checks a form without touching any session.
func (s *Service) Validate(form model.BookingForm, step model.Step) (model.ValidationErrors, error) {
	if !step.Valid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("step must be between %d and %d", model.StepDetails, model.StepReview), nil)
	}
	return Validate(form, step), nil
}
