package sequence

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/core/apperror"
	"stockledger/internal/domain/movement"
)

func TestAllocateVoucher_Sequential(t *testing.T) {
	a := NewMemoryAllocator()
	a.RegisterWarehouse("01", 0)

	ctx := context.Background()
	for want := 1; want <= 5; want++ {
		got, err := a.AllocateVoucher(ctx, "01", movement.ClassInbound)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// Classes count independently.
	got, err := a.AllocateVoucher(ctx, "01", movement.ClassOutbound)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestAllocateVoucher_UnknownWarehouse(t *testing.T) {
	a := NewMemoryAllocator()

	got, err := a.AllocateVoucher(context.Background(), "99", movement.ClassInbound)
	assert.Equal(t, 0, got)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeUnknownWarehouse))
}

func TestAllocateVoucher_ConcurrentAllocationsAreDistinct(t *testing.T) {
	const n = 200

	a := NewMemoryAllocator()
	a.RegisterWarehouse("01", 0)

	ctx := context.Background()
	results := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := a.AllocateVoucher(ctx, "01", movement.ClassOutbound)
			assert.NoError(t, err)
			results <- v
		}()
	}
	wg.Wait()
	close(results)

	vouchers := make([]int, 0, n)
	for v := range results {
		vouchers = append(vouchers, v)
	}
	require.Len(t, vouchers, n)

	// N concurrent allocations yield N distinct consecutive integers.
	sort.Ints(vouchers)
	for i, v := range vouchers {
		assert.Equal(t, i+1, v)
	}
}

func TestAllocateOrderAndCreditNoteNumbers(t *testing.T) {
	a := NewMemoryAllocator()
	a.RegisterSalesPoint(3, 100)

	ctx := context.Background()

	order, err := a.AllocateOrderNumber(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 101, order)

	note, err := a.AllocateCreditNoteNumber(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 101, note)

	_, err = a.AllocateOrderNumber(ctx, 9)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeUnknownSalesPoint))
}

func TestAllocateTransferNumber(t *testing.T) {
	a := NewMemoryAllocator()
	a.RegisterWarehouse("01", 0)

	ctx := context.Background()
	first, err := a.AllocateTransferNumber(ctx, "01")
	require.NoError(t, err)
	second, err := a.AllocateTransferNumber(ctx, "01")
	require.NoError(t, err)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)

	_, err = a.AllocateTransferNumber(ctx, "77")
	assert.True(t, apperror.HasCode(err, apperror.CodeUnknownWarehouse))
}
