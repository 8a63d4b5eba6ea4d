package supplier

import "context"

// Repository persists suppliers.
type Repository interface {
	Create(ctx context.Context, s *Supplier) error
	Update(ctx context.Context, s *Supplier) error
	GetByCode(ctx context.Context, code string) (*Supplier, error)
	List(ctx context.Context, activeOnly bool) ([]Supplier, error)
}
