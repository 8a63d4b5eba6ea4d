package dto

import (
	"time"

	"stockledger/internal/core/types"
	"stockledger/internal/domain/movement"
)

// --- Request DTOs ---

type RegisterMovementRequest struct {
	Category   string                `json:"category" binding:"required,oneof=order credit_note stock_adjustment"`
	Header     MovementHeaderRequest `json:"header" binding:"required"`
	Lines      []MovementLineRequest `json:"lines" binding:"required,min=1,dive"`
	Order      *SubDocumentRequest   `json:"order,omitempty"`
	CreditNote *SubDocumentRequest   `json:"creditNote,omitempty"`
}

type MovementHeaderRequest struct {
	Warehouse  string    `json:"warehouse" binding:"required,max=12"`
	Class      string    `json:"class" binding:"required,oneof=I O"`
	FiscalYear int       `json:"fiscalYear" binding:"required"`
	Period     int       `json:"period" binding:"required,min=1,max=12"`
	Date       time.Time `json:"date" binding:"required"`
	TypeCode   string    `json:"typeCode" binding:"required,max=12"`

	// DestWarehouse names the receiving warehouse for transfer types.
	DestWarehouse string `json:"destWarehouse,omitempty" binding:"max=12"`

	Driver  string `json:"driver,omitempty" binding:"max=40"`
	Vehicle string `json:"vehicle,omitempty" binding:"max=20"`
	User    string `json:"user,omitempty" binding:"max=20"`
}

type MovementLineRequest struct {
	Warehouse  string    `json:"warehouse" binding:"required,max=12"`
	Article    string    `json:"article" binding:"required,max=20"`
	Class      string    `json:"class" binding:"required,oneof=I O"`
	FiscalYear int       `json:"fiscalYear" binding:"required"`
	Period     int       `json:"period" binding:"required"`
	Date       time.Time `json:"date" binding:"required"`
	TypeCode   string    `json:"typeCode" binding:"required,max=12"`

	QtyRegistered float64 `json:"qtyRegistered" binding:"required"`
	QtyWarehouse  float64 `json:"qtyWarehouse,omitempty"`

	UnitCost  types.Money `json:"unitCost,omitempty"`
	TotalCost types.Money `json:"totalCost,omitempty"`

	Lot    string     `json:"lot,omitempty" binding:"max=20"`
	Expiry *time.Time `json:"expiry,omitempty"`
}

// SubDocumentRequest carries the order or credit-note document; both share
// one shape and differ only in which sequence numbers them.
type SubDocumentRequest struct {
	Header SubDocumentHeaderRequest `json:"header" binding:"required"`
	Lines  []SubDocumentLineRequest `json:"lines" binding:"required,min=1,dive"`
}

type SubDocumentHeaderRequest struct {
	SalesPoint int         `json:"salesPoint" binding:"required"`
	Client     string      `json:"client" binding:"required,max=12"`
	DocType    string      `json:"docType" binding:"required,max=12"`
	Date       time.Time   `json:"date" binding:"required"`
	Subtotal   types.Money `json:"subtotal,omitempty"`
	Tax        types.Money `json:"tax,omitempty"`
	Total      types.Money `json:"total,omitempty"`
}

type SubDocumentLineRequest struct {
	SalesPoint int         `json:"salesPoint" binding:"required"`
	Client     string      `json:"client" binding:"required,max=12"`
	Date       time.Time   `json:"date" binding:"required"`
	Article    string      `json:"article" binding:"required,max=20"`
	Qty        float64     `json:"qty" binding:"required"`
	UnitPrice  types.Money `json:"unitPrice,omitempty"`
	Total      types.Money `json:"total,omitempty"`
}

// ToDomain converts the request into the domain model.
func (r *RegisterMovementRequest) ToDomain() *movement.Request {
	req := &movement.Request{
		Category: movement.Category(r.Category),
		Header: movement.Header{
			Warehouse:  r.Header.Warehouse,
			Class:      movement.Class(r.Header.Class),
			FiscalYear: r.Header.FiscalYear,
			Period:     r.Header.Period,
			Date:       r.Header.Date,
			TypeCode:   r.Header.TypeCode,
			Aux1:       r.Header.DestWarehouse,
			Driver:     r.Header.Driver,
			Vehicle:    r.Header.Vehicle,
			User:       r.Header.User,
		},
		Lines: make([]movement.Line, 0, len(r.Lines)),
	}

	for _, l := range r.Lines {
		qtyWarehouse := l.QtyWarehouse
		if qtyWarehouse == 0 {
			qtyWarehouse = l.QtyRegistered
		}
		req.Lines = append(req.Lines, movement.Line{
			Warehouse:     l.Warehouse,
			Article:       l.Article,
			Class:         movement.Class(l.Class),
			FiscalYear:    l.FiscalYear,
			Period:        l.Period,
			Date:          l.Date,
			TypeCode:      l.TypeCode,
			QtyRegistered: types.NewQuantityFromFloat64(l.QtyRegistered),
			QtyWarehouse:  types.NewQuantityFromFloat64(qtyWarehouse),
			UnitCost:      l.UnitCost,
			TotalCost:     l.TotalCost,
			Lot:           l.Lot,
			Expiry:        l.Expiry,
		})
	}

	if r.Order != nil {
		req.Order = &movement.OrderDocument{
			Header: movement.OrderHeader{
				SalesPoint: r.Order.Header.SalesPoint,
				Client:     r.Order.Header.Client,
				DocType:    r.Order.Header.DocType,
				Date:       r.Order.Header.Date,
				Subtotal:   r.Order.Header.Subtotal,
				Tax:        r.Order.Header.Tax,
				Total:      r.Order.Header.Total,
			},
		}
		for _, l := range r.Order.Lines {
			req.Order.Lines = append(req.Order.Lines, movement.OrderLine{
				SalesPoint: l.SalesPoint,
				Client:     l.Client,
				Date:       l.Date,
				Article:    l.Article,
				Qty:        types.NewQuantityFromFloat64(l.Qty),
				UnitPrice:  l.UnitPrice,
				Total:      l.Total,
			})
		}
	}

	if r.CreditNote != nil {
		req.CreditNote = &movement.CreditNoteDocument{
			Header: movement.CreditNoteHeader{
				SalesPoint: r.CreditNote.Header.SalesPoint,
				Client:     r.CreditNote.Header.Client,
				DocType:    r.CreditNote.Header.DocType,
				Date:       r.CreditNote.Header.Date,
				Subtotal:   r.CreditNote.Header.Subtotal,
				Tax:        r.CreditNote.Header.Tax,
				Total:      r.CreditNote.Header.Total,
			},
		}
		for _, l := range r.CreditNote.Lines {
			req.CreditNote.Lines = append(req.CreditNote.Lines, movement.CreditNoteLine{
				SalesPoint: l.SalesPoint,
				Client:     l.Client,
				Date:       l.Date,
				Article:    l.Article,
				Qty:        types.NewQuantityFromFloat64(l.Qty),
				UnitPrice:  l.UnitPrice,
				Total:      l.Total,
			})
		}
	}

	return req
}

// --- Response DTOs ---

type TransferResponse struct {
	DestWarehouse  string `json:"destWarehouse"`
	DestVoucher    int    `json:"destVoucher"`
	TransferNumber int    `json:"transferNumber"`
}

type RegisterMovementResponse struct {
	Voucher        int               `json:"voucher"`
	DocumentNumber int               `json:"documentNumber,omitempty"`
	Transfer       *TransferResponse `json:"transfer,omitempty"`
}

// FromRegisterResult maps the orchestrator result.
func FromRegisterResult(res *movement.RegisterResult) RegisterMovementResponse {
	out := RegisterMovementResponse{
		Voucher:        res.Voucher,
		DocumentNumber: res.DocumentNumber,
	}
	if res.Transfer != nil {
		out.Transfer = &TransferResponse{
			DestWarehouse:  res.Transfer.DestWarehouse,
			DestVoucher:    res.Transfer.DestVoucher,
			TransferNumber: res.Transfer.TransferNumber,
		}
	}
	return out
}
