package movement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/types"
)

type fakeCatalog struct {
	registered map[string]bool
	err        error
}

func (f *fakeCatalog) MovementTypeExists(_ context.Context, class Class, typeCode string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.registered[string(class)+":"+typeCode], nil
}

func registeredCatalog(pairs ...string) *fakeCatalog {
	m := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		m[p] = true
	}
	return &fakeCatalog{registered: m}
}

var testDate = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

func adjustmentRequest() *Request {
	h := Header{
		Warehouse:  "01",
		Class:      ClassInbound,
		FiscalYear: 2026,
		Period:     3,
		Date:       testDate,
		TypeCode:   "ADJ",
	}
	return &Request{
		Category: CategoryStockAdjustment,
		Header:   h,
		Lines: []Line{{
			Warehouse:     h.Warehouse,
			Article:       "A100",
			Class:         h.Class,
			FiscalYear:    h.FiscalYear,
			Period:        h.Period,
			Date:          h.Date,
			TypeCode:      h.TypeCode,
			QtyRegistered: types.NewQuantityFromInt(10),
			QtyWarehouse:  types.NewQuantityFromInt(10),
		}},
	}
}

func orderRequest() *Request {
	req := adjustmentRequest()
	req.Category = CategoryOrder
	req.Header.Class = ClassOutbound
	req.Header.TypeCode = "SAL"
	req.Lines[0].Class = ClassOutbound
	req.Lines[0].TypeCode = "SAL"
	req.Order = &OrderDocument{
		Header: OrderHeader{
			SalesPoint: 1,
			Client:     "C1",
			DocType:    "FA",
			Date:       testDate,
		},
		Lines: []OrderLine{{
			SalesPoint: 1,
			Client:     "C1",
			Date:       testDate,
			Article:    "A100",
			Qty:        types.NewQuantityFromInt(10),
		}},
	}
	return req
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, code), "want code %s, got %v", code, err)
}

func TestValidateRequest_Valid(t *testing.T) {
	ctx := context.Background()

	err := ValidateRequest(ctx, registeredCatalog("I:ADJ"), adjustmentRequest())
	assert.NoError(t, err)

	err = ValidateRequest(ctx, registeredCatalog("O:SAL"), orderRequest())
	assert.NoError(t, err)
}

func TestValidateRequest_MissingLines(t *testing.T) {
	req := adjustmentRequest()
	req.Lines = nil

	err := ValidateRequest(context.Background(), registeredCatalog("I:ADJ"), req)
	assertCode(t, err, apperror.CodeMissingLines)
}

func TestValidateRequest_InvalidClass(t *testing.T) {
	req := adjustmentRequest()
	req.Header.Class = "X"

	err := ValidateRequest(context.Background(), registeredCatalog("I:ADJ"), req)
	assertCode(t, err, apperror.CodeInvalidClass)
}

func TestValidateRequest_InvalidCategory(t *testing.T) {
	req := adjustmentRequest()
	req.Category = "refund"

	err := ValidateRequest(context.Background(), registeredCatalog("I:ADJ"), req)
	assertCode(t, err, apperror.CodeInvalidCategory)
}

func TestValidateRequest_ClassCategoryMismatch(t *testing.T) {
	req := orderRequest()
	req.Header.Class = ClassInbound
	req.Lines[0].Class = ClassInbound

	err := ValidateRequest(context.Background(), registeredCatalog("I:SAL"), req)
	assertCode(t, err, apperror.CodeClassCategoryMismatch)

	// Credit notes are the mirror case: inbound only.
	req = adjustmentRequest()
	req.Category = CategoryCreditNote
	req.Header.Class = ClassOutbound
	req.Lines[0].Class = ClassOutbound

	err = ValidateRequest(context.Background(), registeredCatalog("O:ADJ"), req)
	assertCode(t, err, apperror.CodeClassCategoryMismatch)
}

func TestValidateRequest_UnregisteredType(t *testing.T) {
	req := adjustmentRequest()

	err := ValidateRequest(context.Background(), registeredCatalog(), req)
	assertCode(t, err, apperror.CodeUnregisteredType)
}

func TestValidateRequest_CatalogLookupFailure(t *testing.T) {
	req := adjustmentRequest()
	catalog := &fakeCatalog{err: errors.New("connection refused")}

	err := ValidateRequest(context.Background(), catalog, req)
	assertCode(t, err, apperror.CodeCatalogLookup)
}

func TestValidateRequest_LineHeaderMismatch(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Request)
	}{
		{"class", func(r *Request) { r.Lines[0].Class = ClassOutbound }},
		{"warehouse", func(r *Request) { r.Lines[0].Warehouse = "02" }},
		{"fiscalYear", func(r *Request) { r.Lines[0].FiscalYear = 2025 }},
		{"period", func(r *Request) { r.Lines[0].Period = 4 }},
		{"date", func(r *Request) { r.Lines[0].Date = testDate.AddDate(0, 0, 1) }},
		{"typeCode", func(r *Request) { r.Lines[0].TypeCode = "XXX" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := adjustmentRequest()
			tc.mutate(req)

			err := ValidateRequest(context.Background(), registeredCatalog("I:ADJ"), req)
			assertCode(t, err, apperror.CodeLineHeaderMismatch)

			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tc.name, appErr.Details["field"])
		})
	}
}

func TestValidateRequest_OrderSubDocument(t *testing.T) {
	catalog := registeredCatalog("O:SAL")
	ctx := context.Background()

	t.Run("missing header", func(t *testing.T) {
		req := orderRequest()
		req.Order = nil
		assertCode(t, ValidateRequest(ctx, catalog, req), apperror.CodeMissingSubDocument)
	})

	t.Run("missing lines", func(t *testing.T) {
		req := orderRequest()
		req.Order.Lines = nil
		assertCode(t, ValidateRequest(ctx, catalog, req), apperror.CodeMissingSubDocumentLines)
	})

	t.Run("line count mismatch", func(t *testing.T) {
		req := orderRequest()
		req.Order.Lines = append(req.Order.Lines, req.Order.Lines[0])
		assertCode(t, ValidateRequest(ctx, catalog, req), apperror.CodeLineCountMismatch)
	})

	t.Run("client mismatch", func(t *testing.T) {
		req := orderRequest()
		req.Order.Lines[0].Client = "C2"
		err := ValidateRequest(ctx, catalog, req)
		assertCode(t, err, apperror.CodeSubLineHeaderMismatch)

		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "client", appErr.Details["field"])
	})

	t.Run("sales point mismatch", func(t *testing.T) {
		req := orderRequest()
		req.Order.Lines[0].SalesPoint = 2
		assertCode(t, ValidateRequest(ctx, catalog, req), apperror.CodeSubLineHeaderMismatch)
	})
}

func TestValidateRequest_CreditNoteSubDocument(t *testing.T) {
	ctx := context.Background()
	catalog := registeredCatalog("I:RET")

	creditNote := func() *Request {
		req := adjustmentRequest()
		req.Category = CategoryCreditNote
		req.Header.TypeCode = "RET"
		req.Lines[0].TypeCode = "RET"
		req.CreditNote = &CreditNoteDocument{
			Header: CreditNoteHeader{
				SalesPoint: 1,
				Client:     "C1",
				DocType:    "NC",
				Date:       testDate,
			},
			Lines: []CreditNoteLine{{
				SalesPoint: 1,
				Client:     "C1",
				Date:       testDate,
				Article:    "A100",
				Qty:        types.NewQuantityFromInt(10),
			}},
		}
		return req
	}

	require.NoError(t, ValidateRequest(ctx, catalog, creditNote()))

	req := creditNote()
	req.CreditNote = nil
	assertCode(t, ValidateRequest(ctx, catalog, req), apperror.CodeMissingSubDocument)

	req = creditNote()
	req.CreditNote.Lines[0].Date = testDate.AddDate(0, 0, 1)
	assertCode(t, ValidateRequest(ctx, catalog, req), apperror.CodeSubLineHeaderMismatch)
}
