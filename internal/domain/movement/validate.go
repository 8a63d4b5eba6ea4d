package movement

import (
	"context"
	"fmt"

	"stockledger/internal/core/apperror"
)

// ValidateRequest checks the cross-document invariants of a registration
// request before anything is written. Side-effect-free except for the
// movement-type catalog lookup. Order of checks matters: structural problems
// surface before field-level ones.
func ValidateRequest(ctx context.Context, catalog TypeCatalog, req *Request) error {
	h := &req.Header

	if len(req.Lines) == 0 {
		return apperror.NewConsistency(apperror.CodeMissingLines, "movement has no lines")
	}

	if !h.Class.Valid() {
		return apperror.NewConsistency(apperror.CodeInvalidClass,
			fmt.Sprintf("unknown movement class %q", h.Class)).
			WithDetail("class", string(h.Class))
	}

	if !req.Category.Valid() {
		return apperror.NewConsistency(apperror.CodeInvalidCategory,
			fmt.Sprintf("unknown movement category %q", req.Category)).
			WithDetail("category", string(req.Category))
	}

	if req.Category == CategoryOrder && h.Class != ClassOutbound {
		return apperror.NewConsistency(apperror.CodeClassCategoryMismatch,
			"order movements must be outbound").
			WithDetail("class", string(h.Class))
	}
	if req.Category == CategoryCreditNote && h.Class != ClassInbound {
		return apperror.NewConsistency(apperror.CodeClassCategoryMismatch,
			"credit note movements must be inbound").
			WithDetail("class", string(h.Class))
	}

	// Mandatory before any persistence: an unclassifiable movement breaks
	// downstream accounting reconciliation.
	registered, err := catalog.MovementTypeExists(ctx, h.Class, h.TypeCode)
	if err != nil {
		return apperror.NewCatalogLookup(err)
	}
	if !registered {
		return apperror.NewUnregisteredType(string(h.Class), h.TypeCode)
	}

	for i, l := range req.Lines {
		if err := validateLine(h, &l, i+1); err != nil {
			return err
		}
	}

	switch req.Category {
	case CategoryOrder:
		return validateOrder(req)
	case CategoryCreditNote:
		return validateCreditNote(req)
	}
	return nil
}

func validateLine(h *Header, l *Line, lineNo int) error {
	mismatch := func(field string) error {
		return apperror.NewConsistency(apperror.CodeLineHeaderMismatch,
			fmt.Sprintf("line %d: %s differs from header", lineNo, field)).
			WithDetail("field", field).
			WithDetail("lineNo", lineNo).
			WithDetail("article", l.Article)
	}

	switch {
	case l.Class != h.Class:
		return mismatch("class")
	case l.Warehouse != h.Warehouse:
		return mismatch("warehouse")
	case l.FiscalYear != h.FiscalYear:
		return mismatch("fiscalYear")
	case l.Period != h.Period:
		return mismatch("period")
	case !l.Date.Equal(h.Date):
		return mismatch("date")
	case l.TypeCode != h.TypeCode:
		return mismatch("typeCode")
	}
	return nil
}

func validateOrder(req *Request) error {
	if req.Order == nil {
		return apperror.NewConsistency(apperror.CodeMissingSubDocument,
			"order movement has no order header").
			WithDetail("document", "order")
	}
	if len(req.Order.Lines) == 0 {
		return apperror.NewConsistency(apperror.CodeMissingSubDocumentLines,
			"order movement has no order lines").
			WithDetail("document", "order")
	}
	if len(req.Order.Lines) != len(req.Lines) {
		return apperror.NewConsistency(apperror.CodeLineCountMismatch,
			fmt.Sprintf("movement has %d lines but order has %d", len(req.Lines), len(req.Order.Lines))).
			WithDetail("document", "order").
			WithDetail("movementLines", len(req.Lines)).
			WithDetail("documentLines", len(req.Order.Lines))
	}

	h := &req.Order.Header
	for i, l := range req.Order.Lines {
		mismatch := func(field string) error {
			return apperror.NewConsistency(apperror.CodeSubLineHeaderMismatch,
				fmt.Sprintf("order line %d: %s differs from order header", i+1, field)).
				WithDetail("document", "order").
				WithDetail("field", field).
				WithDetail("lineNo", i+1).
				WithDetail("article", l.Article)
		}
		switch {
		case l.Client != h.Client:
			return mismatch("client")
		case !l.Date.Equal(h.Date):
			return mismatch("date")
		case l.Number != h.Number:
			return mismatch("number")
		case l.SalesPoint != h.SalesPoint:
			return mismatch("salesPoint")
		}
	}
	return nil
}

func validateCreditNote(req *Request) error {
	if req.CreditNote == nil {
		return apperror.NewConsistency(apperror.CodeMissingSubDocument,
			"credit note movement has no credit note header").
			WithDetail("document", "credit_note")
	}
	if len(req.CreditNote.Lines) == 0 {
		return apperror.NewConsistency(apperror.CodeMissingSubDocumentLines,
			"credit note movement has no credit note lines").
			WithDetail("document", "credit_note")
	}
	if len(req.CreditNote.Lines) != len(req.Lines) {
		return apperror.NewConsistency(apperror.CodeLineCountMismatch,
			fmt.Sprintf("movement has %d lines but credit note has %d", len(req.Lines), len(req.CreditNote.Lines))).
			WithDetail("document", "credit_note").
			WithDetail("movementLines", len(req.Lines)).
			WithDetail("documentLines", len(req.CreditNote.Lines))
	}

	h := &req.CreditNote.Header
	for i, l := range req.CreditNote.Lines {
		mismatch := func(field string) error {
			return apperror.NewConsistency(apperror.CodeSubLineHeaderMismatch,
				fmt.Sprintf("credit note line %d: %s differs from credit note header", i+1, field)).
				WithDetail("document", "credit_note").
				WithDetail("field", field).
				WithDetail("lineNo", i+1).
				WithDetail("article", l.Article)
		}
		switch {
		case l.Client != h.Client:
			return mismatch("client")
		case !l.Date.Equal(h.Date):
			return mismatch("date")
		case l.Number != h.Number:
			return mismatch("number")
		case l.SalesPoint != h.SalesPoint:
			return mismatch("salesPoint")
		}
	}
	return nil
}
