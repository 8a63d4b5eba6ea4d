package movement

import (
	"context"
	"errors"
	"strings"

	"stockledger/internal/core/apperror"
	appctx "stockledger/internal/core/context"
	"stockledger/pkg/logger"
)

// Service is the movement orchestrator. Registration is a linear sequence
// with one category branch; each write commits on its own, so a mid-sequence
// failure leaves the earlier writes in place. Stock deltas and transfer
// expansion are trailing best-effort steps: once the movement itself is
// durable it is the source of truth and is never rolled back.
type Service struct {
	repo  Repository
	alloc Allocator
	stock StockMutator
}

// NewService creates the movement orchestrator.
func NewService(repo Repository, alloc Allocator, stock StockMutator) *Service {
	return &Service{
		repo:  repo,
		alloc: alloc,
		stock: stock,
	}
}

// Register validates and persists one movement: header, lines, stock deltas,
// the category sub-document, and the destination leg for transfers.
func (s *Service) Register(ctx context.Context, req *Request) (*RegisterResult, error) {
	if err := ValidateRequest(ctx, s.repo, req); err != nil {
		return nil, err
	}

	h := &req.Header
	if h.Status == "" {
		h.Status = StatusPosted
	}
	if h.User == "" {
		h.User = appctx.GetUsername(ctx)
	}

	voucher, err := s.alloc.AllocateVoucher(ctx, h.Warehouse, h.Class)
	if err != nil {
		return nil, asAllocationError(err)
	}

	exists, err := s.repo.ExistsMovement(ctx, h.FiscalYear, h.Period, h.Warehouse, voucher)
	if err != nil {
		return nil, apperror.NewInternal(err).WithDetail("check", "duplicate_movement")
	}
	if exists {
		return nil, apperror.NewDuplicateMovement(h.FiscalYear, h.Period, h.Warehouse, voucher)
	}

	h.Voucher = voucher
	for i := range req.Lines {
		req.Lines[i].Voucher = voucher
		req.Lines[i].Seq = i + 1
	}

	result := &RegisterResult{Voucher: voucher}

	switch req.Category {
	case CategoryOrder:
		number, err := s.alloc.AllocateOrderNumber(ctx, req.Order.Header.SalesPoint)
		if err != nil {
			return nil, asAllocationError(err)
		}
		req.Order.Header.Number = number
		for i := range req.Order.Lines {
			req.Order.Lines[i].Number = number
			req.Order.Lines[i].Seq = i + 1
			req.Order.Lines[i].Voucher = voucher
		}
		h.Ref1 = PackClientRef(req.Order.Header.Client)
		h.Ref2 = PackDocTypeRef(req.Order.Header.DocType)
		h.Ref3 = PackNumberRef(number)
		result.DocumentNumber = number

	case CategoryCreditNote:
		number, err := s.alloc.AllocateCreditNoteNumber(ctx, req.CreditNote.Header.SalesPoint)
		if err != nil {
			return nil, asAllocationError(err)
		}
		req.CreditNote.Header.Number = number
		for i := range req.CreditNote.Lines {
			req.CreditNote.Lines[i].Number = number
			req.CreditNote.Lines[i].Seq = i + 1
			req.CreditNote.Lines[i].Voucher = voucher
		}
		h.Ref1 = PackClientRef(req.CreditNote.Header.Client)
		h.Ref2 = PackDocTypeRef(req.CreditNote.Header.DocType)
		h.Ref3 = PackNumberRef(number)
		result.DocumentNumber = number
	}

	if err := s.repo.WriteHeader(ctx, h); err != nil {
		return nil, apperror.NewWriteFailure(apperror.CodeHeaderWrite, "movement_headers", err).
			WithDetail("warehouse", h.Warehouse).
			WithDetail("voucher", voucher)
	}

	for i := range req.Lines {
		l := &req.Lines[i]
		if err := s.repo.WriteLine(ctx, l); err != nil {
			return nil, apperror.NewWriteFailure(apperror.CodeLineWrite, "movement_lines", err).
				WithDetail("article", l.Article).
				WithDetail("lineNo", l.Seq)
		}
		// The line is durable at this point; a failed balance update is
		// logged and reconciled out of band, never surfaced as a
		// request failure.
		if err := s.stock.ApplyDelta(ctx, l.Warehouse, l.Article, l.QtyWarehouse, l.Class); err != nil {
			logger.Error(ctx, "stock delta failed",
				"warehouse", l.Warehouse,
				"article", l.Article,
				"voucher", voucher,
				"lineNo", l.Seq,
				"error", err)
		}
	}

	switch req.Category {
	case CategoryOrder:
		if err := s.writeOrder(ctx, req.Order); err != nil {
			return nil, err
		}
	case CategoryCreditNote:
		if err := s.writeCreditNote(ctx, req.CreditNote); err != nil {
			return nil, err
		}
	case CategoryStockAdjustment:
		// Header and lines are the whole document.
	}

	if h.Class == ClassOutbound {
		transfer, err := s.repo.IsTransferType(ctx, h.TypeCode)
		if err != nil {
			logger.Error(ctx, "transfer type lookup failed",
				"typeCode", h.TypeCode, "voucher", voucher, "error", err)
		} else if transfer {
			tr, err := s.expandTransfer(ctx, req)
			if err != nil {
				logger.Error(ctx, "transfer expansion failed",
					"warehouse", h.Warehouse,
					"voucher", voucher,
					"destWarehouse", strings.TrimSpace(h.Aux1),
					"error", err)
			} else {
				result.Transfer = tr
			}
		}
	}

	logger.Info(ctx, "movement registered",
		"warehouse", h.Warehouse,
		"class", string(h.Class),
		"voucher", voucher,
		"category", string(req.Category),
		"lines", len(req.Lines))

	return result, nil
}

func (s *Service) writeOrder(ctx context.Context, doc *OrderDocument) error {
	if err := s.repo.WriteOrderHeader(ctx, &doc.Header); err != nil {
		return apperror.NewWriteFailure(apperror.CodeOrderWrite, "order_headers", err).
			WithDetail("number", doc.Header.Number)
	}
	for i := range doc.Lines {
		l := &doc.Lines[i]
		if err := s.repo.WriteOrderLine(ctx, l); err != nil {
			return apperror.NewWriteFailure(apperror.CodeOrderWrite, "order_lines", err).
				WithDetail("number", l.Number).
				WithDetail("article", l.Article).
				WithDetail("lineNo", l.Seq)
		}
	}
	return nil
}

func (s *Service) writeCreditNote(ctx context.Context, doc *CreditNoteDocument) error {
	if err := s.repo.WriteCreditNoteHeader(ctx, &doc.Header); err != nil {
		return apperror.NewWriteFailure(apperror.CodeCreditNoteWrite, "credit_note_headers", err).
			WithDetail("number", doc.Header.Number)
	}
	for i := range doc.Lines {
		l := &doc.Lines[i]
		if err := s.repo.WriteCreditNoteLine(ctx, l); err != nil {
			return apperror.NewWriteFailure(apperror.CodeCreditNoteWrite, "credit_note_lines", err).
				WithDetail("number", l.Number).
				WithDetail("article", l.Article).
				WithDetail("lineNo", l.Seq)
		}
	}
	return nil
}

// expandTransfer synthesizes the inbound destination leg of a committed
// outbound transfer: destination header, mirrored lines with destination
// stock deltas, and the control links pairing both legs. A failure stops the
// expansion where it stands; nothing already written is retried or undone.
func (s *Service) expandTransfer(ctx context.Context, req *Request) (*TransferResult, error) {
	origin := &req.Header

	dest := strings.TrimSpace(origin.Aux1)
	if dest == "" {
		return nil, errors.New("transfer movement has no destination warehouse")
	}

	destVoucher, err := s.alloc.AllocateVoucher(ctx, dest, ClassInbound)
	if err != nil {
		return nil, asAllocationError(err)
	}
	transferNo, err := s.alloc.AllocateTransferNumber(ctx, origin.Warehouse)
	if err != nil {
		return nil, asAllocationError(err)
	}

	// The destination leg is finalized on arrival; there is no transit
	// holding state.
	destHeader := Header{
		Warehouse:  dest,
		Class:      ClassInbound,
		Voucher:    destVoucher,
		FiscalYear: origin.FiscalYear,
		Period:     origin.Period,
		Date:       origin.Date,
		TypeCode:   origin.TypeCode,
		Status:     StatusPosted,
		Ref3:       PackNumberRef(origin.Voucher),
		Aux1:       origin.Warehouse,
		Driver:     origin.Driver,
		Vehicle:    origin.Vehicle,
		User:       origin.User,
	}
	if err := s.repo.WriteHeader(ctx, &destHeader); err != nil {
		return nil, apperror.NewWriteFailure(apperror.CodeHeaderWrite, "movement_headers", err).
			WithDetail("warehouse", dest).
			WithDetail("voucher", destVoucher)
	}

	for i := range req.Lines {
		src := &req.Lines[i]
		destLine := Line{
			Warehouse:     dest,
			Article:       src.Article,
			Class:         ClassInbound,
			Voucher:       destVoucher,
			Seq:           i + 1,
			FiscalYear:    destHeader.FiscalYear,
			Period:        destHeader.Period,
			Date:          destHeader.Date,
			TypeCode:      destHeader.TypeCode,
			QtyRegistered: src.QtyRegistered,
			QtyWarehouse:  src.QtyWarehouse,
			UnitCost:      src.UnitCost,
			TotalCost:     src.TotalCost,
			Lot:           src.Lot,
			Expiry:        src.Expiry,
		}
		if err := s.repo.WriteLine(ctx, &destLine); err != nil {
			return nil, apperror.NewWriteFailure(apperror.CodeLineWrite, "movement_lines", err).
				WithDetail("article", destLine.Article).
				WithDetail("lineNo", destLine.Seq)
		}
		if err := s.stock.ApplyDelta(ctx, dest, destLine.Article, destLine.QtyWarehouse, ClassInbound); err != nil {
			return nil, err
		}
	}

	headerLink := TransferLink{
		TransferNumber:  transferNo,
		Role:            LinkRoleHeader,
		OriginWarehouse: origin.Warehouse,
		OriginClass:     origin.Class,
		OriginVoucher:   origin.Voucher,
		DestWarehouse:   dest,
		DestClass:       ClassInbound,
		DestVoucher:     destVoucher,
	}
	if err := s.repo.WriteTransferLink(ctx, &headerLink); err != nil {
		return nil, apperror.NewWriteFailure(apperror.CodeLineWrite, "transfer_links", err).
			WithDetail("transferNumber", transferNo)
	}

	for i := range req.Lines {
		link := TransferLink{
			TransferNumber:  transferNo,
			Role:            LinkRoleLine,
			OriginWarehouse: origin.Warehouse,
			OriginClass:     origin.Class,
			OriginVoucher:   origin.Voucher,
			OriginSeq:       i + 1,
			DestWarehouse:   dest,
			DestClass:       ClassInbound,
			DestVoucher:     destVoucher,
			DestSeq:         i + 1,
		}
		if err := s.repo.WriteTransferLink(ctx, &link); err != nil {
			return nil, apperror.NewWriteFailure(apperror.CodeLineWrite, "transfer_links", err).
				WithDetail("transferNumber", transferNo).
				WithDetail("lineNo", i+1)
		}
	}

	logger.Info(ctx, "transfer expanded",
		"originWarehouse", origin.Warehouse,
		"originVoucher", origin.Voucher,
		"destWarehouse", dest,
		"destVoucher", destVoucher,
		"transferNumber", transferNo)

	return &TransferResult{
		DestWarehouse:  dest,
		DestVoucher:    destVoucher,
		TransferNumber: transferNo,
	}, nil
}

// asAllocationError passes allocator AppErrors through unchanged and wraps
// everything else as a sequence-allocation failure.
func asAllocationError(err error) error {
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewSequenceAllocation(err)
}
