package dto

import "stockledger/internal/domain/catalogs/supplier"

type CreateSupplierRequest struct {
	Code    string `json:"code" binding:"required,max=12"`
	Name    string `json:"name" binding:"required,max=60"`
	TaxID   string `json:"taxId,omitempty" binding:"max=20"`
	Address string `json:"address,omitempty" binding:"max=120"`
	Phone   string `json:"phone,omitempty" binding:"max=20"`
	Email   string `json:"email,omitempty" binding:"omitempty,email"`
}

func (r *CreateSupplierRequest) ToEntity() *supplier.Supplier {
	s := supplier.NewSupplier(r.Code, r.Name)
	s.TaxID = r.TaxID
	s.Address = r.Address
	s.Phone = r.Phone
	s.Email = r.Email
	return s
}

type UpdateSupplierRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,max=60"`
	TaxID    *string `json:"taxId,omitempty" binding:"omitempty,max=20"`
	Address  *string `json:"address,omitempty" binding:"omitempty,max=120"`
	Phone    *string `json:"phone,omitempty" binding:"omitempty,max=20"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	IsActive *bool   `json:"isActive,omitempty"`
}

func (r *UpdateSupplierRequest) ApplyTo(s *supplier.Supplier) {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.TaxID != nil {
		s.TaxID = *r.TaxID
	}
	if r.Address != nil {
		s.Address = *r.Address
	}
	if r.Phone != nil {
		s.Phone = *r.Phone
	}
	if r.Email != nil {
		s.Email = *r.Email
	}
	if r.IsActive != nil {
		s.IsActive = *r.IsActive
	}
}
