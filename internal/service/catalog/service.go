package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwalitptl/greenwell/internal/model"
	"github.com/jwalitptl/greenwell/internal/repository"
	apperrors "github.com/jwalitptl/greenwell/pkg/errors"
)

// Samples is the QA helper data shown beside the booking form.
type Samples struct {
	Appointments  []model.SampleAppointment  `json:"appointments"`
	Prescriptions []model.SamplePrescription `json:"prescriptions"`
}

type Service struct {
	repo repository.CatalogRepository
}

func NewService(repo repository.CatalogRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListClinicians(ctx context.Context) ([]model.Clinician, error) {
	list, err := s.repo.ListClinicians(ctx)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list clinicians: %w", err))
	}
	return list, nil
}

func (s *Service) GetClinician(ctx context.Context, id string) (*model.Clinician, error) {
	c, err := s.repo.GetClinician(ctx, id)
	if err != nil {
		return nil, notFoundOr("clinician", err)
	}
	return c, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]model.Product, error) {
	list, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list products: %w", err))
	}
	return list, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFoundOr("product", err)
	}
	return p, nil
}

func (s *Service) Samples(ctx context.Context) (*Samples, error) {
	appts, err := s.repo.ListSampleAppointments(ctx)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list sample appointments: %w", err))
	}
	rx, err := s.repo.ListSamplePrescriptions(ctx)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list sample prescriptions: %w", err))
	}
	return &Samples{Appointments: appts, Prescriptions: rx}, nil
}

func notFoundOr(resource string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound(resource, err)
	}
	return apperrors.Internal(fmt.Errorf("failed to get %s: %w", resource, err))
}
