// Package movement implements the movement orchestration engine: consistency
// validation, voucher/document sequence assignment, ordered multi-table
// writes, stock mutation and transfer expansion.
package movement

import (
	"time"

	"stockledger/internal/core/types"
)

// Class is the direction of a stock movement.
type Class string

const (
	ClassInbound  Class = "I"
	ClassOutbound Class = "O"
)

// Valid reports whether c is a known movement class.
func (c Class) Valid() bool {
	return c == ClassInbound || c == ClassOutbound
}

func (c Class) String() string { return string(c) }

// Category selects the linked sub-document a movement carries.
type Category string

const (
	CategoryOrder           Category = "order"
	CategoryCreditNote      Category = "credit_note"
	CategoryStockAdjustment Category = "stock_adjustment"
)

// Valid reports whether c is a known movement category.
func (c Category) Valid() bool {
	switch c {
	case CategoryOrder, CategoryCreditNote, CategoryStockAdjustment:
		return true
	}
	return false
}

// StatusPosted marks a finalized movement. Transfer destination legs are
// recorded with this status directly, skipping any transit holding state.
const StatusPosted = "P"

// Header is one movement header row. Vouchers are unique within
// (warehouse, class, fiscal year, period). Headers are created once and
// never updated or deleted; the recovery action for an operator mistake
// is a new credit-note movement.
type Header struct {
	Warehouse  string    `db:"warehouse" json:"warehouse"`
	Class      Class     `db:"class" json:"class"`
	Voucher    int       `db:"voucher" json:"voucher"`
	FiscalYear int       `db:"fiscal_year" json:"fiscalYear"`
	Period     int       `db:"period" json:"period"`
	Date       time.Time `db:"movement_date" json:"date"`
	TypeCode   string    `db:"type_code" json:"typeCode"`
	Status     string    `db:"status" json:"status"`

	// Ref1..Ref3 carry the fixed-width packed linkage to the order or
	// credit-note document (client, document type, number).
	Ref1 string `db:"ref1" json:"ref1,omitempty"`
	Ref2 string `db:"ref2" json:"ref2,omitempty"`
	Ref3 string `db:"ref3" json:"ref3,omitempty"`

	// Aux1 carries the counterpart warehouse for transfers: destination
	// on the origin leg, origin on the destination leg.
	Aux1 string `db:"aux1" json:"aux1,omitempty"`
	Aux2 string `db:"aux2" json:"aux2,omitempty"`

	Driver  string `db:"driver" json:"driver,omitempty"`
	Vehicle string `db:"vehicle" json:"vehicle,omitempty"`
	User    string `db:"registered_by" json:"registeredBy,omitempty"`
}

// Line is one movement line row. Warehouse, class, voucher, fiscal
// year, period, date and type code must equal the header's.
type Line struct {
	Warehouse  string    `db:"warehouse" json:"warehouse"`
	Article    string    `db:"article" json:"article"`
	Class      Class     `db:"class" json:"class"`
	Voucher    int       `db:"voucher" json:"voucher"`
	Seq        int       `db:"seq" json:"seq"`
	FiscalYear int       `db:"fiscal_year" json:"fiscalYear"`
	Period     int       `db:"period" json:"period"`
	Date       time.Time `db:"movement_date" json:"date"`
	TypeCode   string    `db:"type_code" json:"typeCode"`

	// QtyRegistered is in the article's registered unit, QtyWarehouse in
	// the warehouse storage unit. Stock deltas apply QtyWarehouse.
	QtyRegistered types.Quantity `db:"qty_registered" json:"qtyRegistered"`
	QtyWarehouse  types.Quantity `db:"qty_warehouse" json:"qtyWarehouse"`

	UnitCost  types.Money `db:"unit_cost" json:"unitCost"`
	TotalCost types.Money `db:"total_cost" json:"totalCost"`

	Lot    string     `db:"lot" json:"lot,omitempty"`
	Expiry *time.Time `db:"expiry" json:"expiry,omitempty"`
}

// OrderHeader heads the sales-order sub-document of an outbound order
// movement. Numbers are sequenced per sales point.
type OrderHeader struct {
	Number     int         `db:"number" json:"number"`
	SalesPoint int         `db:"sales_point" json:"salesPoint"`
	Client     string      `db:"client" json:"client"`
	DocType    string      `db:"doc_type" json:"docType"`
	Date       time.Time   `db:"order_date" json:"date"`
	Subtotal   types.Money `db:"subtotal" json:"subtotal"`
	Tax        types.Money `db:"tax" json:"tax"`
	Total      types.Money `db:"total" json:"total"`
}

// OrderLine is one sales-order line. Client, date, number and sales
// point must equal the header's. Voucher cross-references the movement
// the order was registered with.
type OrderLine struct {
	Number     int            `db:"number" json:"number"`
	SalesPoint int            `db:"sales_point" json:"salesPoint"`
	Client     string         `db:"client" json:"client"`
	Date       time.Time      `db:"order_date" json:"date"`
	Seq        int            `db:"seq" json:"seq"`
	Article    string         `db:"article" json:"article"`
	Qty        types.Quantity `db:"qty" json:"qty"`
	UnitPrice  types.Money    `db:"unit_price" json:"unitPrice"`
	Total      types.Money    `db:"total" json:"total"`
	Voucher    int            `db:"voucher" json:"voucher"`
}

// OrderDocument is the order sub-document of an order-category request.
type OrderDocument struct {
	Header OrderHeader `json:"header"`
	Lines  []OrderLine `json:"lines"`
}

// CreditNoteHeader heads the credit-note sub-document of an inbound
// credit-note movement. Same shape and consistency rules as OrderHeader,
// keyed by the per-sales-point credit-note sequence.
type CreditNoteHeader struct {
	Number     int         `db:"number" json:"number"`
	SalesPoint int         `db:"sales_point" json:"salesPoint"`
	Client     string      `db:"client" json:"client"`
	DocType    string      `db:"doc_type" json:"docType"`
	Date       time.Time   `db:"note_date" json:"date"`
	Subtotal   types.Money `db:"subtotal" json:"subtotal"`
	Tax        types.Money `db:"tax" json:"tax"`
	Total      types.Money `db:"total" json:"total"`
}

// CreditNoteLine is one credit-note line.
type CreditNoteLine struct {
	Number     int            `db:"number" json:"number"`
	SalesPoint int            `db:"sales_point" json:"salesPoint"`
	Client     string         `db:"client" json:"client"`
	Date       time.Time      `db:"note_date" json:"date"`
	Seq        int            `db:"seq" json:"seq"`
	Article    string         `db:"article" json:"article"`
	Qty        types.Quantity `db:"qty" json:"qty"`
	UnitPrice  types.Money    `db:"unit_price" json:"unitPrice"`
	Total      types.Money    `db:"total" json:"total"`
	Voucher    int            `db:"voucher" json:"voucher"`
}

// CreditNoteDocument is the credit-note sub-document of a
// credit-note-category request.
type CreditNoteDocument struct {
	Header CreditNoteHeader `json:"header"`
	Lines  []CreditNoteLine `json:"lines"`
}

// LinkRole tags a TransferLink as pairing headers or individual lines.
type LinkRole string

const (
	LinkRoleHeader LinkRole = "H"
	LinkRoleLine   LinkRole = "L"
)

// TransferLink pairs the origin and destination legs of a transfer.
// One header-role record (seq 0 on both sides) plus one line-role record
// per mirrored line.
type TransferLink struct {
	TransferNumber  int      `db:"transfer_number" json:"transferNumber"`
	Role            LinkRole `db:"role" json:"role"`
	OriginWarehouse string   `db:"origin_warehouse" json:"originWarehouse"`
	OriginClass     Class    `db:"origin_class" json:"originClass"`
	OriginVoucher   int      `db:"origin_voucher" json:"originVoucher"`
	OriginSeq       int      `db:"origin_seq" json:"originSeq"`
	DestWarehouse   string   `db:"dest_warehouse" json:"destWarehouse"`
	DestClass       Class    `db:"dest_class" json:"destClass"`
	DestVoucher     int      `db:"dest_voucher" json:"destVoucher"`
	DestSeq         int      `db:"dest_seq" json:"destSeq"`
}

// Request is one full movement registration request.
type Request struct {
	Category   Category            `json:"category"`
	Header     Header              `json:"header"`
	Lines      []Line              `json:"lines"`
	Order      *OrderDocument      `json:"order,omitempty"`
	CreditNote *CreditNoteDocument `json:"creditNote,omitempty"`
}

// TransferResult describes the destination leg synthesized for a
// transfer-typed outbound movement.
type TransferResult struct {
	DestWarehouse  string `json:"destWarehouse"`
	DestVoucher    int    `json:"destVoucher"`
	TransferNumber int    `json:"transferNumber"`
}

// RegisterResult is returned on successful registration.
type RegisterResult struct {
	Voucher int `json:"voucher"`

	// DocumentNumber is the allocated order or credit-note number,
	// 0 for stock adjustments.
	DocumentNumber int `json:"documentNumber,omitempty"`

	// Transfer is set only when the destination leg was expanded.
	Transfer *TransferResult `json:"transfer,omitempty"`
}
