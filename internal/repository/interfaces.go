package repository

import (
	"context"
	"errors"

	"github.com/jwalitptl/greenwell/internal/model"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// All repository interfaces in one file
type (
	// CatalogRepository serves the fixed reference data. Returned values are
	// copies; callers may modify them freely.
	CatalogRepository interface {
		ListClinicians(ctx context.Context) ([]model.Clinician, error)
		GetClinician(ctx context.Context, id string) (*model.Clinician, error)
		// DefaultClinician is the clinician preselected on a fresh form.
		DefaultClinician(ctx context.Context) (*model.Clinician, error)
		ListProducts(ctx context.Context) ([]model.Product, error)
		GetProduct(ctx context.Context, id string) (*model.Product, error)
		ListSampleAppointments(ctx context.Context) ([]model.SampleAppointment, error)
		ListSamplePrescriptions(ctx context.Context) ([]model.SamplePrescription, error)
	}

	// SessionRepository keeps per-visitor UI state for a limited idle time.
	SessionRepository interface {
		Get(ctx context.Context, id string) (*model.Session, error)
		Save(ctx context.Context, session *model.Session) error
		Delete(ctx context.Context, id string) error
		Ping(ctx context.Context) error
	}
)
