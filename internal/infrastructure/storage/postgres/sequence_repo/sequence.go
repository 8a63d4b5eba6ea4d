// Package sequence_repo provides the PostgreSQL sequence allocator.
// Counters live on the warehouse and sales-point rows; every allocation is
// one atomic read-increment-write that relies on row-level locking, so two
// concurrent allocations for the same key never observe the same value.
package sequence_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"stockledger/internal/core/apperror"
	"stockledger/internal/domain/movement"
	"stockledger/internal/infrastructure/storage/postgres"
)

const (
	warehousesTable  = "cat_warehouses"
	salesPointsTable = "cat_sales_points"
)

// SequenceRepo implements movement.Allocator.
type SequenceRepo struct {
	txm *postgres.TxManager
}

// NewSequenceRepo creates a new sequence allocator.
func NewSequenceRepo(txm *postgres.TxManager) *SequenceRepo {
	return &SequenceRepo{txm: txm}
}

// AllocateVoucher increments the class counter on the warehouse row and
// returns the new value. A single UPDATE … RETURNING: the row lock it takes
// is the whole concurrency story.
func (r *SequenceRepo) AllocateVoucher(ctx context.Context, warehouse string, class movement.Class) (int, error) {
	column := "outbound_counter"
	if class == movement.ClassInbound {
		column = "inbound_counter"
	}

	sql := fmt.Sprintf(
		`UPDATE %s SET %s = %s + 1, updated_at = now() WHERE code = $1 RETURNING %s`,
		warehousesTable, column, column, column,
	)

	var next int
	err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, warehouse).Scan(&next)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperror.NewUnknownWarehouse(warehouse)
		}
		return 0, fmt.Errorf("allocate voucher: %w", err)
	}
	return next, nil
}

// AllocateTransferNumber increments the transfer counter on the warehouse row.
func (r *SequenceRepo) AllocateTransferNumber(ctx context.Context, warehouse string) (int, error) {
	sql := fmt.Sprintf(
		`UPDATE %s SET transfer_counter = transfer_counter + 1, updated_at = now() WHERE code = $1 RETURNING transfer_counter`,
		warehousesTable,
	)

	var next int
	err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, warehouse).Scan(&next)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperror.NewUnknownWarehouse(warehouse)
		}
		return 0, fmt.Errorf("allocate transfer number: %w", err)
	}
	return next, nil
}

// AllocateOrderNumber increments the order counter on the sales-point row.
// Runs inside an explicit transaction: the read, increment and write are one
// logical unit holding the row lock until commit, rolled back as a whole on
// any failure.
func (r *SequenceRepo) AllocateOrderNumber(ctx context.Context, salesPoint int) (int, error) {
	return r.allocateSalesPoint(ctx, salesPoint, "order_counter")
}

// AllocateCreditNoteNumber is the credit-note twin of AllocateOrderNumber.
func (r *SequenceRepo) AllocateCreditNoteNumber(ctx context.Context, salesPoint int) (int, error) {
	return r.allocateSalesPoint(ctx, salesPoint, "credit_note_counter")
}

func (r *SequenceRepo) allocateSalesPoint(ctx context.Context, salesPoint int, column string) (int, error) {
	var next int
	err := r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		q := r.txm.GetQuerier(ctx)

		var current int
		sql := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 FOR UPDATE`, column, salesPointsTable)
		if err := q.QueryRow(ctx, sql, salesPoint).Scan(&current); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperror.NewUnknownSalesPoint(salesPoint)
			}
			return fmt.Errorf("read counter: %w", err)
		}

		next = current + 1
		sql = fmt.Sprintf(`UPDATE %s SET %s = $1, updated_at = now() WHERE id = $2`, salesPointsTable, column)
		if _, err := q.Exec(ctx, sql, next, salesPoint); err != nil {
			return fmt.Errorf("write counter: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

var _ movement.Allocator = (*SequenceRepo)(nil)
