package supplier

import (
	"context"

	"stockledger/pkg/logger"
)

// Service provides supplier catalog operations.
type Service struct {
	repo Repository
}

// NewService creates a new supplier service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new supplier.
func (s *Service) Create(ctx context.Context, sup *Supplier) error {
	if err := sup.Validate(ctx); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, sup); err != nil {
		return err
	}

	logger.Info(ctx, "supplier created", "code", sup.Code, "name", sup.Name)
	return nil
}

// Update changes supplier master data.
func (s *Service) Update(ctx context.Context, sup *Supplier) error {
	if err := sup.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Update(ctx, sup)
}

// GetByCode returns a supplier by its code.
func (s *Service) GetByCode(ctx context.Context, code string) (*Supplier, error) {
	return s.repo.GetByCode(ctx, code)
}

// List returns suppliers, optionally only active ones.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]Supplier, error) {
	return s.repo.List(ctx, activeOnly)
}
