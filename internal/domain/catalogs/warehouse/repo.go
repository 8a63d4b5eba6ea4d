package warehouse

import "context"

// Repository persists warehouses.
type Repository interface {
	Create(ctx context.Context, w *Warehouse) error
	Update(ctx context.Context, w *Warehouse) error
	GetByCode(ctx context.Context, code string) (*Warehouse, error)
	List(ctx context.Context, activeOnly bool) ([]Warehouse, error)
}
