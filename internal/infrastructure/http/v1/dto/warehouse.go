package dto

import "stockledger/internal/domain/catalogs/warehouse"

type CreateWarehouseRequest struct {
	Code    string `json:"code" binding:"required,max=12"`
	Name    string `json:"name" binding:"required,max=60"`
	Address string `json:"address,omitempty" binding:"max=120"`
}

func (r *CreateWarehouseRequest) ToEntity() *warehouse.Warehouse {
	w := warehouse.NewWarehouse(r.Code, r.Name)
	w.Address = r.Address
	return w
}

type UpdateWarehouseRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,max=60"`
	Address  *string `json:"address,omitempty" binding:"omitempty,max=120"`
	IsActive *bool   `json:"isActive,omitempty"`
}

func (r *UpdateWarehouseRequest) ApplyTo(w *warehouse.Warehouse) {
	if r.Name != nil {
		w.Name = *r.Name
	}
	if r.Address != nil {
		w.Address = *r.Address
	}
	if r.IsActive != nil {
		w.IsActive = *r.IsActive
	}
}
