package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockledger/internal/core/apperror"
	"stockledger/internal/domain/catalogs/warehouse"
	"stockledger/internal/infrastructure/storage/postgres"
)

const warehousesTable = "cat_warehouses"

var warehouseColumns = []string{
	"code", "name", "address", "is_active",
	"inbound_counter", "outbound_counter", "transfer_counter",
	"created_at", "updated_at",
}

// WarehouseRepo implements warehouse.Repository.
type WarehouseRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewWarehouseRepo creates a new warehouse repository.
func NewWarehouseRepo(txm *postgres.TxManager) *WarehouseRepo {
	return &WarehouseRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a warehouse row with zeroed counters.
func (r *WarehouseRepo) Create(ctx context.Context, w *warehouse.Warehouse) error {
	q := r.builder.
		Insert(warehousesTable).
		Columns("code", "name", "address", "is_active", "inbound_counter", "outbound_counter", "transfer_counter", "created_at", "updated_at").
		Values(w.Code, w.Name, w.Address, w.IsActive, 0, 0, 0, squirrel.Expr("now()"), squirrel.Expr("now()"))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("warehouse", "code", w.Code)
		}
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

// Update changes master data only; counters belong to the allocator.
func (r *WarehouseRepo) Update(ctx context.Context, w *warehouse.Warehouse) error {
	q := r.builder.
		Update(warehousesTable).
		Set("name", w.Name).
		Set("address", w.Address).
		Set("is_active", w.IsActive).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"code": w.Code})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update warehouse: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("warehouse", w.Code)
	}
	return nil
}

// GetByCode returns a warehouse by its code.
func (r *WarehouseRepo) GetByCode(ctx context.Context, code string) (*warehouse.Warehouse, error) {
	q := r.builder.
		Select(warehouseColumns...).
		From(warehousesTable).
		Where(squirrel.Eq{"code": code})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var w warehouse.Warehouse
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &w, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("warehouse", code)
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}

// List returns warehouses ordered by code.
func (r *WarehouseRepo) List(ctx context.Context, activeOnly bool) ([]warehouse.Warehouse, error) {
	q := r.builder.
		Select(warehouseColumns...).
		From(warehousesTable).
		OrderBy("code")

	if activeOnly {
		q = q.Where(squirrel.Eq{"is_active": true})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var warehouses []warehouse.Warehouse
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &warehouses, sql, args...); err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	return warehouses, nil
}

var _ warehouse.Repository = (*WarehouseRepo)(nil)
