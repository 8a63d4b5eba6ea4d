// Package stock maintains per (warehouse, article) running balances.
package stock

import (
	"context"
	"fmt"

	"stockledger/internal/core/types"
	"stockledger/internal/domain/movement"
)

// Balance is the running quantity for one (warehouse, article) pair. The
// quantity is signed; the ledger permits negative balances.
type Balance struct {
	Warehouse string         `db:"warehouse" json:"warehouse"`
	Article   string         `db:"article" json:"article"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`
}

// BalanceFilter narrows balance listings.
type BalanceFilter struct {
	ExcludeZero bool
}

// Repository persists stock balances. AddDelta must be a single atomic
// upsert so concurrent movements for the same pair never lose an update.
type Repository interface {
	AddDelta(ctx context.Context, warehouse, article string, delta types.Quantity) error
	GetBalance(ctx context.Context, warehouse, article string) (*Balance, error)
	ListByWarehouse(ctx context.Context, warehouse string, filter BalanceFilter) ([]Balance, error)
}

// Service applies movement deltas to balances and serves balance reads.
type Service struct {
	repo Repository
}

// NewService creates a new stock service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ApplyDelta increases the balance for inbound movements and decreases it
// for outbound ones. No negative-balance guard: the ledger records what
// physically happened, and count corrections arrive as later movements.
// Not idempotent; the caller owns calling it exactly once per line.
func (s *Service) ApplyDelta(ctx context.Context, warehouse, article string, qty types.Quantity, class movement.Class) error {
	delta := qty
	if class == movement.ClassOutbound {
		delta = delta.Neg()
	}

	if err := s.repo.AddDelta(ctx, warehouse, article, delta); err != nil {
		return fmt.Errorf("apply stock delta: %w", err)
	}
	return nil
}

// GetBalance returns the balance for one (warehouse, article) pair.
// A pair that never moved reports zero.
func (s *Service) GetBalance(ctx context.Context, warehouse, article string) (*Balance, error) {
	return s.repo.GetBalance(ctx, warehouse, article)
}

// ListByWarehouse returns balances in a warehouse, skipping zero rows.
func (s *Service) ListByWarehouse(ctx context.Context, warehouse string) ([]Balance, error) {
	return s.repo.ListByWarehouse(ctx, warehouse, BalanceFilter{ExcludeZero: true})
}

var _ movement.StockMutator = (*Service)(nil)
