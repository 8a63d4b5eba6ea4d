package warehouse

import (
	"context"

	"stockledger/pkg/logger"
)

// Service provides warehouse catalog operations.
type Service struct {
	repo Repository
}

// NewService creates a new warehouse service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new warehouse. Counters start at zero, so the first
// allocated voucher for either class is 1.
func (s *Service) Create(ctx context.Context, w *Warehouse) error {
	if err := w.Validate(ctx); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, w); err != nil {
		return err
	}

	logger.Info(ctx, "warehouse created", "code", w.Code, "name", w.Name)
	return nil
}

// Update changes a warehouse's name, address or active flag. Counters are
// not updatable through this path.
func (s *Service) Update(ctx context.Context, w *Warehouse) error {
	if err := w.Validate(ctx); err != nil {
		return err
	}

	current, err := s.repo.GetByCode(ctx, w.Code)
	if err != nil {
		return err
	}
	w.InboundCounter = current.InboundCounter
	w.OutboundCounter = current.OutboundCounter
	w.TransferCounter = current.TransferCounter

	return s.repo.Update(ctx, w)
}

// GetByCode returns a warehouse by its code.
func (s *Service) GetByCode(ctx context.Context, code string) (*Warehouse, error) {
	return s.repo.GetByCode(ctx, code)
}

// List returns warehouses, optionally only active ones.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]Warehouse, error) {
	return s.repo.List(ctx, activeOnly)
}
