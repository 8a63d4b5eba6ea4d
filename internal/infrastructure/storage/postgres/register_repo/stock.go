// Package register_repo provides the PostgreSQL stock balance repository.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockledger/internal/core/types"
	"stockledger/internal/domain/stock"
	"stockledger/internal/infrastructure/storage/postgres"
)

const stockBalancesTable = "reg_stock_balances"

// StockRepo implements stock.Repository.
type StockRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock balance repository.
func NewStockRepo(txm *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// AddDelta applies a signed delta as one atomic upsert. Concurrent deltas
// for the same pair serialize on the row; negative results are allowed.
func (r *StockRepo) AddDelta(ctx context.Context, warehouse, article string, delta types.Quantity) error {
	sql := fmt.Sprintf(`
		INSERT INTO %s (warehouse, article, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (warehouse, article)
		DO UPDATE SET quantity = %s.quantity + EXCLUDED.quantity, updated_at = now()`,
		stockBalancesTable, stockBalancesTable,
	)

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, warehouse, article, delta); err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}
	return nil
}

// GetBalance returns the balance row, or a zero balance for a pair that
// never moved.
func (r *StockRepo) GetBalance(ctx context.Context, warehouse, article string) (*stock.Balance, error) {
	q := r.builder.
		Select("warehouse", "article", "quantity").
		From(stockBalancesTable).
		Where(squirrel.Eq{"warehouse": warehouse, "article": article})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var b stock.Balance
	err = pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &b, sql, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return &stock.Balance{Warehouse: warehouse, Article: article}, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return &b, nil
}

// ListByWarehouse returns balances in a warehouse ordered by article.
func (r *StockRepo) ListByWarehouse(ctx context.Context, warehouse string, filter stock.BalanceFilter) ([]stock.Balance, error) {
	q := r.builder.
		Select("warehouse", "article", "quantity").
		From(stockBalancesTable).
		Where(squirrel.Eq{"warehouse": warehouse}).
		OrderBy("article")

	if filter.ExcludeZero {
		q = q.Where(squirrel.NotEq{"quantity": 0})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []stock.Balance
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	return balances, nil
}

var _ stock.Repository = (*StockRepo)(nil)
