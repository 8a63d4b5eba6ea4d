package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockledger/internal/core/apperror"
	"stockledger/internal/domain/catalogs/supplier"
	"stockledger/internal/infrastructure/storage/postgres"
)

const suppliersTable = "cat_suppliers"

var supplierColumns = []string{
	"code", "name", "tax_id", "address", "phone", "email", "is_active",
	"created_at", "updated_at",
}

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewSupplierRepo creates a new supplier repository.
func NewSupplierRepo(txm *postgres.TxManager) *SupplierRepo {
	return &SupplierRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a supplier row.
func (r *SupplierRepo) Create(ctx context.Context, s *supplier.Supplier) error {
	q := r.builder.
		Insert(suppliersTable).
		Columns("code", "name", "tax_id", "address", "phone", "email", "is_active", "created_at", "updated_at").
		Values(s.Code, s.Name, s.TaxID, s.Address, s.Phone, s.Email, s.IsActive, squirrel.Expr("now()"), squirrel.Expr("now()"))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("supplier", "code", s.Code)
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// Update changes supplier master data.
func (r *SupplierRepo) Update(ctx context.Context, s *supplier.Supplier) error {
	q := r.builder.
		Update(suppliersTable).
		Set("name", s.Name).
		Set("tax_id", s.TaxID).
		Set("address", s.Address).
		Set("phone", s.Phone).
		Set("email", s.Email).
		Set("is_active", s.IsActive).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"code": s.Code})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("supplier", s.Code)
	}
	return nil
}

// GetByCode returns a supplier by its code.
func (r *SupplierRepo) GetByCode(ctx context.Context, code string) (*supplier.Supplier, error) {
	q := r.builder.
		Select(supplierColumns...).
		From(suppliersTable).
		Where(squirrel.Eq{"code": code})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s supplier.Supplier
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("supplier", code)
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

// List returns suppliers ordered by code.
func (r *SupplierRepo) List(ctx context.Context, activeOnly bool) ([]supplier.Supplier, error) {
	q := r.builder.
		Select(supplierColumns...).
		From(suppliersTable).
		OrderBy("code")

	if activeOnly {
		q = q.Where(squirrel.Eq{"is_active": true})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var suppliers []supplier.Supplier
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &suppliers, sql, args...); err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return suppliers, nil
}

var _ supplier.Repository = (*SupplierRepo)(nil)
