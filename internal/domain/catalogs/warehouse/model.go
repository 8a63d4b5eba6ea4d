// Package warehouse provides the warehouse catalog. A warehouse row also
// owns the voucher and transfer counters the sequence allocator increments.
package warehouse

import (
	"context"
	"strings"
	"time"

	"stockledger/internal/core/apperror"
)

// Warehouse represents one storage location.
type Warehouse struct {
	Code     string `db:"code" json:"code"`
	Name     string `db:"name" json:"name"`
	Address  string `db:"address" json:"address,omitempty"`
	IsActive bool   `db:"is_active" json:"isActive"`

	// Counters are owned by the sequence allocator and mutated only via
	// its atomic increment. They are surfaced read-only here.
	InboundCounter  int `db:"inbound_counter" json:"inboundCounter"`
	OutboundCounter int `db:"outbound_counter" json:"outboundCounter"`
	TransferCounter int `db:"transfer_counter" json:"transferCounter"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// MaxCodeLen bounds the warehouse code; movement reference slots assume it.
const MaxCodeLen = 12

// NewWarehouse creates an active warehouse with zeroed counters.
func NewWarehouse(code, name string) *Warehouse {
	return &Warehouse{
		Code:     code,
		Name:     name,
		IsActive: true,
	}
}

// Validate checks required fields.
func (w *Warehouse) Validate(_ context.Context) error {
	if strings.TrimSpace(w.Code) == "" {
		return apperror.NewValidation("warehouse code is required").
			WithDetail("field", "code")
	}
	if len(w.Code) > MaxCodeLen {
		return apperror.NewValidation("warehouse code too long").
			WithDetail("field", "code").
			WithDetail("maxLen", MaxCodeLen)
	}
	if strings.TrimSpace(w.Name) == "" {
		return apperror.NewValidation("warehouse name is required").
			WithDetail("field", "name")
	}
	return nil
}
