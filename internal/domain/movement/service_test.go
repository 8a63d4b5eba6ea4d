package movement

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/core/apperror"
	appctx "stockledger/internal/core/context"
	"stockledger/internal/core/types"
)

type fakeRepo struct {
	*fakeCatalog

	transferTypes   map[string]bool
	existing        map[string]bool
	failLineArticle string
	failLinks       bool

	headers      []Header
	lines        []Line
	orderHeaders []OrderHeader
	orderLines   []OrderLine
	cnHeaders    []CreditNoteHeader
	cnLines      []CreditNoteLine
	links        []TransferLink
}

func newFakeRepo(typeCodes ...string) *fakeRepo {
	return &fakeRepo{
		fakeCatalog:   registeredCatalog(typeCodes...),
		transferTypes: map[string]bool{},
		existing:      map[string]bool{},
	}
}

func (r *fakeRepo) ExistsMovement(_ context.Context, year, period int, warehouse string, voucher int) (bool, error) {
	return r.existing[fmt.Sprintf("%d/%d/%s/%d", year, period, warehouse, voucher)], nil
}

func (r *fakeRepo) IsTransferType(_ context.Context, typeCode string) (bool, error) {
	return r.transferTypes[typeCode], nil
}

func (r *fakeRepo) WriteHeader(_ context.Context, h *Header) error {
	r.headers = append(r.headers, *h)
	return nil
}

func (r *fakeRepo) WriteLine(_ context.Context, l *Line) error {
	if r.failLineArticle != "" && l.Article == r.failLineArticle {
		return errors.New("insert failed")
	}
	r.lines = append(r.lines, *l)
	return nil
}

func (r *fakeRepo) WriteOrderHeader(_ context.Context, h *OrderHeader) error {
	r.orderHeaders = append(r.orderHeaders, *h)
	return nil
}

func (r *fakeRepo) WriteOrderLine(_ context.Context, l *OrderLine) error {
	r.orderLines = append(r.orderLines, *l)
	return nil
}

func (r *fakeRepo) WriteCreditNoteHeader(_ context.Context, h *CreditNoteHeader) error {
	r.cnHeaders = append(r.cnHeaders, *h)
	return nil
}

func (r *fakeRepo) WriteCreditNoteLine(_ context.Context, l *CreditNoteLine) error {
	r.cnLines = append(r.cnLines, *l)
	return nil
}

func (r *fakeRepo) WriteTransferLink(_ context.Context, link *TransferLink) error {
	if r.failLinks {
		return errors.New("insert failed")
	}
	r.links = append(r.links, *link)
	return nil
}

type fakeAllocator struct {
	vouchers  map[string]int
	orders    map[int]int
	notes     map[int]int
	transfers map[string]int
	calls     int
}

func newFakeAllocator() *fakeAllocator {
	return &fakeAllocator{
		vouchers:  map[string]int{},
		orders:    map[int]int{},
		notes:     map[int]int{},
		transfers: map[string]int{},
	}
}

func (a *fakeAllocator) AllocateVoucher(_ context.Context, warehouse string, class Class) (int, error) {
	a.calls++
	if warehouse == "" || warehouse == "99" {
		return 0, apperror.NewUnknownWarehouse(warehouse)
	}
	key := warehouse + ":" + string(class)
	a.vouchers[key]++
	return a.vouchers[key], nil
}

func (a *fakeAllocator) AllocateOrderNumber(_ context.Context, salesPoint int) (int, error) {
	a.calls++
	a.orders[salesPoint]++
	return 100 + a.orders[salesPoint], nil
}

func (a *fakeAllocator) AllocateCreditNoteNumber(_ context.Context, salesPoint int) (int, error) {
	a.calls++
	a.notes[salesPoint]++
	return 500 + a.notes[salesPoint], nil
}

func (a *fakeAllocator) AllocateTransferNumber(_ context.Context, warehouse string) (int, error) {
	a.calls++
	a.transfers[warehouse]++
	return a.transfers[warehouse], nil
}

type fakeStock struct {
	balances map[string]types.Quantity
	failFor  string
}

func newFakeStock() *fakeStock {
	return &fakeStock{balances: map[string]types.Quantity{}}
}

func (s *fakeStock) ApplyDelta(_ context.Context, warehouse, article string, qty types.Quantity, class Class) error {
	if s.failFor != "" && warehouse == s.failFor {
		return errors.New("balance update failed")
	}
	if class == ClassOutbound {
		qty = qty.Neg()
	}
	s.balances[warehouse+"/"+article] += qty
	return nil
}

func TestRegister_StockAdjustment(t *testing.T) {
	repo := newFakeRepo("I:ADJ")
	alloc := newFakeAllocator()
	stock := newFakeStock()
	svc := NewService(repo, alloc, stock)

	result, err := svc.Register(context.Background(), adjustmentRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Voucher)
	assert.Zero(t, result.DocumentNumber)
	assert.Nil(t, result.Transfer)

	require.Len(t, repo.headers, 1)
	assert.Equal(t, StatusPosted, repo.headers[0].Status)
	assert.Equal(t, 1, repo.headers[0].Voucher)

	require.Len(t, repo.lines, 1)
	assert.Equal(t, 1, repo.lines[0].Seq)
	assert.Equal(t, 1, repo.lines[0].Voucher)

	assert.Equal(t, types.NewQuantityFromInt(10), stock.balances["01/A100"])
	assert.Empty(t, repo.orderHeaders)
	assert.Empty(t, repo.cnHeaders)
}

func TestRegister_OrderFlow(t *testing.T) {
	repo := newFakeRepo("O:SAL")
	alloc := newFakeAllocator()
	stock := newFakeStock()
	svc := NewService(repo, alloc, stock)

	result, err := svc.Register(context.Background(), orderRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Voucher)
	assert.Equal(t, 101, result.DocumentNumber)

	require.Len(t, repo.headers, 1)
	h := repo.headers[0]
	assert.Equal(t, "          C1", h.Ref1)
	assert.Equal(t, "          FA", h.Ref2)
	assert.Equal(t, "000000000101", h.Ref3)

	require.Len(t, repo.orderHeaders, 1)
	assert.Equal(t, 101, repo.orderHeaders[0].Number)

	require.Len(t, repo.orderLines, 1)
	ol := repo.orderLines[0]
	assert.Equal(t, 101, ol.Number)
	assert.Equal(t, 1, ol.Seq)
	assert.Equal(t, 1, ol.Voucher)

	// Outbound sale draws the balance down.
	assert.Equal(t, types.NewQuantityFromInt(-10), stock.balances["01/A100"])
}

func TestRegister_ValidationFailureHasNoSideEffects(t *testing.T) {
	repo := newFakeRepo("O:SAL")
	alloc := newFakeAllocator()
	svc := NewService(repo, alloc, newFakeStock())

	req := orderRequest()
	req.Order.Lines[0].Client = "C2"

	_, err := svc.Register(context.Background(), req)
	assertCode(t, err, apperror.CodeSubLineHeaderMismatch)

	assert.Zero(t, alloc.calls, "no counters consumed")
	assert.Empty(t, repo.headers)
	assert.Empty(t, repo.lines)
	assert.Empty(t, repo.orderHeaders)
}

func TestRegister_UnregisteredTypeRejectedBeforeWrites(t *testing.T) {
	repo := newFakeRepo()
	alloc := newFakeAllocator()
	svc := NewService(repo, alloc, newFakeStock())

	_, err := svc.Register(context.Background(), adjustmentRequest())
	assertCode(t, err, apperror.CodeUnregisteredType)

	assert.Zero(t, alloc.calls)
	assert.Empty(t, repo.headers)
}

func TestRegister_DuplicateMovement(t *testing.T) {
	repo := newFakeRepo("I:ADJ")
	repo.existing["2026/3/01/1"] = true
	svc := NewService(repo, newFakeAllocator(), newFakeStock())

	_, err := svc.Register(context.Background(), adjustmentRequest())
	assertCode(t, err, apperror.CodeDuplicateMovement)
	assert.Empty(t, repo.headers)
}

func TestRegister_UnknownWarehouse(t *testing.T) {
	repo := newFakeRepo("I:ADJ")
	svc := NewService(repo, newFakeAllocator(), newFakeStock())

	req := adjustmentRequest()
	req.Header.Warehouse = "99"
	for i := range req.Lines {
		req.Lines[i].Warehouse = "99"
	}

	_, err := svc.Register(context.Background(), req)
	assertCode(t, err, apperror.CodeUnknownWarehouse)
	assert.Empty(t, repo.headers)
}

func TestRegister_TransferExpansion(t *testing.T) {
	repo := newFakeRepo("O:TRF")
	repo.transferTypes["TRF"] = true
	alloc := newFakeAllocator()
	stock := newFakeStock()
	svc := NewService(repo, alloc, stock)

	req := adjustmentRequest()
	req.Header.Class = ClassOutbound
	req.Header.TypeCode = "TRF"
	req.Header.Aux1 = "02"
	req.Header.Driver = "D. Rossi"
	req.Lines[0].Class = ClassOutbound
	req.Lines[0].TypeCode = "TRF"
	req.Lines[0].QtyRegistered = types.NewQuantityFromInt(5)
	req.Lines[0].QtyWarehouse = types.NewQuantityFromInt(5)

	result, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, result.Transfer)
	assert.Equal(t, "02", result.Transfer.DestWarehouse)
	assert.Equal(t, 1, result.Transfer.DestVoucher)
	assert.Equal(t, 1, result.Transfer.TransferNumber)

	require.Len(t, repo.headers, 2)
	origin, dest := repo.headers[0], repo.headers[1]
	assert.Equal(t, "01", origin.Warehouse)
	assert.Equal(t, ClassOutbound, origin.Class)
	assert.Equal(t, "02", dest.Warehouse)
	assert.Equal(t, ClassInbound, dest.Class)
	assert.Equal(t, StatusPosted, dest.Status)
	assert.Equal(t, "01", dest.Aux1)
	assert.Equal(t, "000000000001", dest.Ref3)
	assert.Equal(t, "D. Rossi", dest.Driver)
	assert.Equal(t, origin.FiscalYear, dest.FiscalYear)

	require.Len(t, repo.lines, 2)
	assert.Equal(t, "02", repo.lines[1].Warehouse)
	assert.Equal(t, ClassInbound, repo.lines[1].Class)
	assert.Equal(t, req.Lines[0].QtyWarehouse, repo.lines[1].QtyWarehouse)

	assert.Equal(t, types.NewQuantityFromInt(-5), stock.balances["01/A100"])
	assert.Equal(t, types.NewQuantityFromInt(5), stock.balances["02/A100"])

	require.Len(t, repo.links, 2)
	hl := repo.links[0]
	assert.Equal(t, LinkRoleHeader, hl.Role)
	assert.Equal(t, "01", hl.OriginWarehouse)
	assert.Equal(t, 1, hl.OriginVoucher)
	assert.Equal(t, "02", hl.DestWarehouse)
	assert.Equal(t, 1, hl.DestVoucher)
	assert.Zero(t, hl.OriginSeq)

	ll := repo.links[1]
	assert.Equal(t, LinkRoleLine, ll.Role)
	assert.Equal(t, 1, ll.OriginSeq)
	assert.Equal(t, 1, ll.DestSeq)
	assert.Equal(t, 1, ll.TransferNumber)
}

func TestRegister_TransferExpansionFailureKeepsOrigin(t *testing.T) {
	repo := newFakeRepo("O:TRF")
	repo.transferTypes["TRF"] = true
	svc := NewService(repo, newFakeAllocator(), newFakeStock())

	req := adjustmentRequest()
	req.Header.Class = ClassOutbound
	req.Header.TypeCode = "TRF"
	req.Header.Aux1 = "99" // no counter row for the destination
	req.Lines[0].Class = ClassOutbound
	req.Lines[0].TypeCode = "TRF"

	result, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Voucher)
	assert.Nil(t, result.Transfer)
	require.Len(t, repo.headers, 1, "origin leg stays committed")
	assert.Empty(t, repo.links)
}

func TestRegister_LineWriteFailureAborts(t *testing.T) {
	repo := newFakeRepo("I:ADJ")
	repo.failLineArticle = "A100"
	svc := NewService(repo, newFakeAllocator(), newFakeStock())

	_, err := svc.Register(context.Background(), adjustmentRequest())
	assertCode(t, err, apperror.CodeLineWrite)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "A100", appErr.Details["article"])

	// The header write precedes line writes and is not undone.
	assert.Len(t, repo.headers, 1)
}

func TestRegister_StockFailureIsNonFatal(t *testing.T) {
	repo := newFakeRepo("I:ADJ")
	stock := newFakeStock()
	stock.failFor = "01"
	svc := NewService(repo, newFakeAllocator(), stock)

	result, err := svc.Register(context.Background(), adjustmentRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Voucher)
	assert.Len(t, repo.lines, 1)
	assert.Empty(t, stock.balances)
}

func TestRegister_DefaultsUserFromContext(t *testing.T) {
	repo := newFakeRepo("I:ADJ")
	svc := NewService(repo, newFakeAllocator(), newFakeStock())

	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{Username: "operator1"})
	_, err := svc.Register(ctx, adjustmentRequest())
	require.NoError(t, err)

	require.Len(t, repo.headers, 1)
	assert.Equal(t, "operator1", repo.headers[0].User)
}

func TestRegister_CreditNoteFlow(t *testing.T) {
	repo := newFakeRepo("I:RET")
	alloc := newFakeAllocator()
	svc := NewService(repo, alloc, newFakeStock())

	req := adjustmentRequest()
	req.Category = CategoryCreditNote
	req.Header.TypeCode = "RET"
	req.Lines[0].TypeCode = "RET"
	req.CreditNote = &CreditNoteDocument{
		Header: CreditNoteHeader{SalesPoint: 2, Client: "C7", DocType: "NC", Date: testDate},
		Lines: []CreditNoteLine{{
			SalesPoint: 2, Client: "C7", Date: testDate,
			Article: "A100", Qty: types.NewQuantityFromInt(10),
		}},
	}

	result, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 501, result.DocumentNumber)
	require.Len(t, repo.cnHeaders, 1)
	assert.Equal(t, 501, repo.cnHeaders[0].Number)
	require.Len(t, repo.cnLines, 1)
	assert.Equal(t, 501, repo.cnLines[0].Number)
	assert.Equal(t, 1, repo.cnLines[0].Voucher)
	assert.Equal(t, "          C7", repo.headers[0].Ref1)
	assert.Equal(t, "000000000501", repo.headers[0].Ref3)
}
