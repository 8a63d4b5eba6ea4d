package movement

import (
	"context"

	"stockledger/internal/core/types"
)

// TypeCatalog answers movement-type reference-data questions. Satisfied by
// Repository; split out so the validator can be exercised with a small fake.
type TypeCatalog interface {
	// MovementTypeExists reports whether (class, typeCode) is registered
	// for posting.
	MovementTypeExists(ctx context.Context, class Class, typeCode string) (bool, error)
}

// Repository persists movement records. Each write commits independently;
// there is no enclosing transaction across a registration, so a failed step
// leaves prior writes committed.
type Repository interface {
	TypeCatalog

	// ExistsMovement reports whether a header is already registered for
	// (year, period, warehouse, voucher).
	ExistsMovement(ctx context.Context, year, period int, warehouse string, voucher int) (bool, error)

	// IsTransferType reports whether typeCode is flagged as a
	// warehouse-to-warehouse transfer.
	IsTransferType(ctx context.Context, typeCode string) (bool, error)

	WriteHeader(ctx context.Context, h *Header) error
	WriteLine(ctx context.Context, l *Line) error
	WriteOrderHeader(ctx context.Context, h *OrderHeader) error
	WriteOrderLine(ctx context.Context, l *OrderLine) error
	WriteCreditNoteHeader(ctx context.Context, h *CreditNoteHeader) error
	WriteCreditNoteLine(ctx context.Context, l *CreditNoteLine) error
	WriteTransferLink(ctx context.Context, link *TransferLink) error
}

// Allocator hands out sequence numbers. Counters are the only shared mutable
// state in the system: each allocation is one atomic read-increment-write and
// never hands the same number to two concurrent callers for the same key.
type Allocator interface {
	// AllocateVoucher returns the next voucher for (warehouse, class).
	// Never returns 0 on success. Fails with UnknownWarehouse when no
	// counter row exists.
	AllocateVoucher(ctx context.Context, warehouse string, class Class) (int, error)

	// AllocateOrderNumber returns the next order number for a sales
	// point, inside an explicit transaction with rollback on failure.
	AllocateOrderNumber(ctx context.Context, salesPoint int) (int, error)

	// AllocateCreditNoteNumber is the credit-note twin of
	// AllocateOrderNumber.
	AllocateCreditNoteNumber(ctx context.Context, salesPoint int) (int, error)

	// AllocateTransferNumber returns the next transfer-control number for
	// the origin warehouse.
	AllocateTransferNumber(ctx context.Context, warehouse string) (int, error)
}

// StockMutator applies signed quantity deltas to (warehouse, article)
// balances. Not idempotent: the orchestrator guarantees exactly one call per
// persisted line.
type StockMutator interface {
	// ApplyDelta increases the balance for inbound movements and
	// decreases it for outbound ones. Negative balances are permitted.
	ApplyDelta(ctx context.Context, warehouse, article string, qty types.Quantity, class Class) error
}
