// Package sequence provides the in-memory sequence allocator.
// Production allocation runs against the warehouse and sales-point counter
// rows in postgres; this implementation backs unit tests and carries the
// allocator's concurrency contract in a form a property test can hammer.
package sequence

import (
	"context"
	"sync"

	"stockledger/internal/core/apperror"
	"stockledger/internal/domain/movement"
)

// MemoryAllocator is a movement.Allocator over in-process counters.
// All methods are safe for concurrent use; each allocation is one
// read-increment-write under the mutex, so the same number is never handed
// to two callers for the same key.
type MemoryAllocator struct {
	mu sync.Mutex

	inbound   map[string]int
	outbound  map[string]int
	transfers map[string]int
	orders    map[int]int
	notes     map[int]int
}

// NewMemoryAllocator creates an allocator with no registered counters.
// Counters must be registered before allocation, mirroring the production
// rule that an absent counter row fails the request.
func NewMemoryAllocator() *MemoryAllocator {
	return &MemoryAllocator{
		inbound:   make(map[string]int),
		outbound:  make(map[string]int),
		transfers: make(map[string]int),
		orders:    make(map[int]int),
		notes:     make(map[int]int),
	}
}

// RegisterWarehouse creates the counter rows for a warehouse, all starting
// at the given value.
func (a *MemoryAllocator) RegisterWarehouse(warehouse string, start int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.inbound[warehouse] = start
	a.outbound[warehouse] = start
	a.transfers[warehouse] = start
}

// RegisterSalesPoint creates the counter rows for a sales point.
func (a *MemoryAllocator) RegisterSalesPoint(salesPoint, start int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.orders[salesPoint] = start
	a.notes[salesPoint] = start
}

// AllocateVoucher implements movement.Allocator.
func (a *MemoryAllocator) AllocateVoucher(_ context.Context, warehouse string, class movement.Class) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	counters := a.outbound
	if class == movement.ClassInbound {
		counters = a.inbound
	}
	current, ok := counters[warehouse]
	if !ok {
		return 0, apperror.NewUnknownWarehouse(warehouse)
	}
	counters[warehouse] = current + 1
	return current + 1, nil
}

// AllocateTransferNumber implements movement.Allocator.
func (a *MemoryAllocator) AllocateTransferNumber(_ context.Context, warehouse string) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	current, ok := a.transfers[warehouse]
	if !ok {
		return 0, apperror.NewUnknownWarehouse(warehouse)
	}
	a.transfers[warehouse] = current + 1
	return current + 1, nil
}

// AllocateOrderNumber implements movement.Allocator.
func (a *MemoryAllocator) AllocateOrderNumber(_ context.Context, salesPoint int) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	current, ok := a.orders[salesPoint]
	if !ok {
		return 0, apperror.NewUnknownSalesPoint(salesPoint)
	}
	a.orders[salesPoint] = current + 1
	return current + 1, nil
}

// AllocateCreditNoteNumber implements movement.Allocator.
func (a *MemoryAllocator) AllocateCreditNoteNumber(_ context.Context, salesPoint int) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	current, ok := a.notes[salesPoint]
	if !ok {
		return 0, apperror.NewUnknownSalesPoint(salesPoint)
	}
	a.notes[salesPoint] = current + 1
	return current + 1, nil
}

var _ movement.Allocator = (*MemoryAllocator)(nil)
