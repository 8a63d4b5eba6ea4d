package stock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/core/types"
	"stockledger/internal/domain/movement"
)

type memRepo struct {
	balances map[string]types.Quantity
	err      error
}

func newMemRepo() *memRepo {
	return &memRepo{balances: map[string]types.Quantity{}}
}

func (r *memRepo) AddDelta(_ context.Context, warehouse, article string, delta types.Quantity) error {
	if r.err != nil {
		return r.err
	}
	r.balances[warehouse+"/"+article] += delta
	return nil
}

func (r *memRepo) GetBalance(_ context.Context, warehouse, article string) (*Balance, error) {
	return &Balance{
		Warehouse: warehouse,
		Article:   article,
		Quantity:  r.balances[warehouse+"/"+article],
	}, nil
}

func (r *memRepo) ListByWarehouse(_ context.Context, warehouse string, filter BalanceFilter) ([]Balance, error) {
	var out []Balance
	for key, qty := range r.balances {
		if filter.ExcludeZero && qty.IsZero() {
			continue
		}
		out = append(out, Balance{Warehouse: warehouse, Article: key, Quantity: qty})
	}
	return out, nil
}

func TestApplyDelta_SignFollowsClass(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.ApplyDelta(ctx, "01", "A100", types.NewQuantityFromInt(10), movement.ClassInbound))
	assert.Equal(t, types.NewQuantityFromInt(10), repo.balances["01/A100"])

	require.NoError(t, svc.ApplyDelta(ctx, "01", "A100", types.NewQuantityFromInt(3), movement.ClassOutbound))
	assert.Equal(t, types.NewQuantityFromInt(7), repo.balances["01/A100"])
}

func TestApplyDelta_AllowsNegativeBalance(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	err := svc.ApplyDelta(context.Background(), "01", "A100", types.NewQuantityFromInt(4), movement.ClassOutbound)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromInt(-4), repo.balances["01/A100"])
}

func TestApplyDelta_WrapsRepoError(t *testing.T) {
	repo := newMemRepo()
	repo.err = errors.New("deadlock detected")
	svc := NewService(repo)

	err := svc.ApplyDelta(context.Background(), "01", "A100", types.NewQuantityFromInt(1), movement.ClassInbound)
	require.Error(t, err)
	assert.ErrorContains(t, err, "apply stock delta")
	assert.True(t, errors.Is(err, repo.err))
}
