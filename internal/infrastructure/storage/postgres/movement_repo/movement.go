// Package movement_repo provides the PostgreSQL implementation of the
// movement repository. Each write is a single committed statement; the
// orchestrator deliberately runs without an enclosing transaction.
package movement_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"stockledger/internal/domain/movement"
	"stockledger/internal/infrastructure/storage/postgres"
)

const (
	headersTable       = "mov_headers"
	linesTable         = "mov_lines"
	orderHeadersTable  = "doc_order_headers"
	orderLinesTable    = "doc_order_lines"
	noteHeadersTable   = "doc_credit_note_headers"
	noteLinesTable     = "doc_credit_note_lines"
	transferLinksTable = "mov_transfer_links"
	movementTypesTable = "cat_movement_types"
)

// MovementRepo implements movement.Repository.
type MovementRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewMovementRepo creates a new movement repository.
func NewMovementRepo(txm *postgres.TxManager) *MovementRepo {
	return &MovementRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ExistsMovement reports whether a header is already registered.
func (r *MovementRepo) ExistsMovement(ctx context.Context, year, period int, warehouse string, voucher int) (bool, error) {
	q := r.builder.
		Select("1").
		From(headersTable).
		Where(squirrel.Eq{
			"fiscal_year": year,
			"period":      period,
			"warehouse":   warehouse,
			"voucher":     voucher,
		}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("check movement exists: %w", err)
	}
	return true, nil
}

// MovementTypeExists reports whether (class, typeCode) is registered.
func (r *MovementRepo) MovementTypeExists(ctx context.Context, class movement.Class, typeCode string) (bool, error) {
	q := r.builder.
		Select("1").
		From(movementTypesTable).
		Where(squirrel.Eq{"class": string(class), "code": typeCode}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("check movement type: %w", err)
	}
	return true, nil
}

// IsTransferType reports whether typeCode carries the transfer flag.
func (r *MovementRepo) IsTransferType(ctx context.Context, typeCode string) (bool, error) {
	q := r.builder.
		Select("is_transfer").
		From(movementTypesTable).
		Where(squirrel.Eq{"code": typeCode}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var isTransfer bool
	err = r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&isTransfer)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("check transfer type: %w", err)
	}
	return isTransfer, nil
}

// WriteHeader inserts one movement header.
func (r *MovementRepo) WriteHeader(ctx context.Context, h *movement.Header) error {
	q := r.builder.
		Insert(headersTable).
		Columns(
			"warehouse", "class", "voucher", "fiscal_year", "period",
			"movement_date", "type_code", "status",
			"ref1", "ref2", "ref3", "aux1", "aux2",
			"driver", "vehicle", "registered_by",
		).
		Values(
			h.Warehouse, string(h.Class), h.Voucher, h.FiscalYear, h.Period,
			h.Date, h.TypeCode, h.Status,
			h.Ref1, h.Ref2, h.Ref3, h.Aux1, h.Aux2,
			h.Driver, h.Vehicle, h.User,
		)

	return r.exec(ctx, q, "insert header")
}

// WriteLine inserts one movement line.
func (r *MovementRepo) WriteLine(ctx context.Context, l *movement.Line) error {
	q := r.builder.
		Insert(linesTable).
		Columns(
			"warehouse", "article", "class", "voucher", "seq",
			"fiscal_year", "period", "movement_date", "type_code",
			"qty_registered", "qty_warehouse",
			"unit_cost", "total_cost", "lot", "expiry",
		).
		Values(
			l.Warehouse, l.Article, string(l.Class), l.Voucher, l.Seq,
			l.FiscalYear, l.Period, l.Date, l.TypeCode,
			l.QtyRegistered, l.QtyWarehouse,
			l.UnitCost, l.TotalCost, l.Lot, l.Expiry,
		)

	return r.exec(ctx, q, "insert line")
}

// WriteOrderHeader inserts one order header.
func (r *MovementRepo) WriteOrderHeader(ctx context.Context, h *movement.OrderHeader) error {
	q := r.builder.
		Insert(orderHeadersTable).
		Columns("number", "sales_point", "client", "doc_type", "order_date", "subtotal", "tax", "total").
		Values(h.Number, h.SalesPoint, h.Client, h.DocType, h.Date, h.Subtotal, h.Tax, h.Total)

	return r.exec(ctx, q, "insert order header")
}

// WriteOrderLine inserts one order line.
func (r *MovementRepo) WriteOrderLine(ctx context.Context, l *movement.OrderLine) error {
	q := r.builder.
		Insert(orderLinesTable).
		Columns("number", "sales_point", "client", "order_date", "seq", "article", "qty", "unit_price", "total", "voucher").
		Values(l.Number, l.SalesPoint, l.Client, l.Date, l.Seq, l.Article, l.Qty, l.UnitPrice, l.Total, l.Voucher)

	return r.exec(ctx, q, "insert order line")
}

// WriteCreditNoteHeader inserts one credit note header.
func (r *MovementRepo) WriteCreditNoteHeader(ctx context.Context, h *movement.CreditNoteHeader) error {
	q := r.builder.
		Insert(noteHeadersTable).
		Columns("number", "sales_point", "client", "doc_type", "note_date", "subtotal", "tax", "total").
		Values(h.Number, h.SalesPoint, h.Client, h.DocType, h.Date, h.Subtotal, h.Tax, h.Total)

	return r.exec(ctx, q, "insert credit note header")
}

// WriteCreditNoteLine inserts one credit note line.
func (r *MovementRepo) WriteCreditNoteLine(ctx context.Context, l *movement.CreditNoteLine) error {
	q := r.builder.
		Insert(noteLinesTable).
		Columns("number", "sales_point", "client", "note_date", "seq", "article", "qty", "unit_price", "total", "voucher").
		Values(l.Number, l.SalesPoint, l.Client, l.Date, l.Seq, l.Article, l.Qty, l.UnitPrice, l.Total, l.Voucher)

	return r.exec(ctx, q, "insert credit note line")
}

// WriteTransferLink inserts one transfer control record.
func (r *MovementRepo) WriteTransferLink(ctx context.Context, link *movement.TransferLink) error {
	q := r.builder.
		Insert(transferLinksTable).
		Columns(
			"transfer_number", "role",
			"origin_warehouse", "origin_class", "origin_voucher", "origin_seq",
			"dest_warehouse", "dest_class", "dest_voucher", "dest_seq",
		).
		Values(
			link.TransferNumber, string(link.Role),
			link.OriginWarehouse, string(link.OriginClass), link.OriginVoucher, link.OriginSeq,
			link.DestWarehouse, string(link.DestClass), link.DestVoucher, link.DestSeq,
		)

	return r.exec(ctx, q, "insert transfer link")
}

func (r *MovementRepo) exec(ctx context.Context, q squirrel.InsertBuilder, op string) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

var _ movement.Repository = (*MovementRepo)(nil)
