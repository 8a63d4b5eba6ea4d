// Package supplier provides the supplier catalog.
package supplier

import (
	"context"
	"strings"
	"time"

	"stockledger/internal/core/apperror"
)

// Supplier represents one goods supplier.
type Supplier struct {
	Code     string `db:"code" json:"code"`
	Name     string `db:"name" json:"name"`
	TaxID    string `db:"tax_id" json:"taxId,omitempty"`
	Address  string `db:"address" json:"address,omitempty"`
	Phone    string `db:"phone" json:"phone,omitempty"`
	Email    string `db:"email" json:"email,omitempty"`
	IsActive bool   `db:"is_active" json:"isActive"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewSupplier creates an active supplier.
func NewSupplier(code, name string) *Supplier {
	return &Supplier{
		Code:     code,
		Name:     name,
		IsActive: true,
	}
}

// Validate checks required fields.
func (s *Supplier) Validate(_ context.Context) error {
	if strings.TrimSpace(s.Code) == "" {
		return apperror.NewValidation("supplier code is required").
			WithDetail("field", "code")
	}
	if strings.TrimSpace(s.Name) == "" {
		return apperror.NewValidation("supplier name is required").
			WithDetail("field", "name")
	}
	return nil
}
