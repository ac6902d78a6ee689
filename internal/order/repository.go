package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"libreria-be/internal/logger"

	"go.uber.org/zap"
)

// ApplyResult reports what the payment merge did to the order.
type ApplyResult struct {
	Applied       bool
	StockAdjusted bool
	Status        Status
}

// AdminUpdate is a partial, admin-initiated mutation. Nil fields are left
// untouched.
type AdminUpdate struct {
	Status       *Status
	PayerEmail   *string
	PayerName    *string
	PayerSurname *string
	PayerPhone   *string
}

type Repository interface {
	// EnsureOrder persists a pending order keyed by its external reference.
	// It is an idempotent upsert: a reference that already exists is a no-op,
	// so the checkout path and any later catch-up path converge on one row.
	EnsureOrder(ctx context.Context, o *Order) error

	GetByID(ctx context.Context, id uint) (*Order, error)
	GetByReference(ctx context.Context, ref string) (*Order, error)
	List(ctx context.Context, status *Status, limit, page *int32) ([]*Order, error)

	UpdateAdminFields(ctx context.Context, id uint, upd AdminUpdate) error

	// ApplyPayment merges an authoritative payment snapshot into the order
	// identified by ref, holding a row lock for the whole decision so
	// concurrent deliveries for the same reference serialize.
	ApplyPayment(ctx context.Context, ref string, snap PaymentSnapshot) (ApplyResult, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	id, external_reference, status, total, currency,
	payer_email, payer_name, payer_surname, payer_phone,
	mercado_pago_id, payment_method, payment_type,
	transaction_amount, net_received_amount, total_paid_amount,
	date_approved, payment_last_updated, created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.ExternalReference, &o.Status, &o.Total, &o.Currency,
		&o.PayerEmail, &o.PayerName, &o.PayerSurname, &o.PayerPhone,
		&o.MercadoPagoID, &o.PaymentMethod, &o.PaymentType,
		&o.TransactionAmount, &o.NetReceivedAmount, &o.TotalPaidAmount,
		&o.DateApproved, &o.PaymentLastUpdated, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) EnsureOrder(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("external_reference", o.ExternalReference),
		zap.Int("item_count", len(o.Items)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var id uint
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			external_reference, status, total, currency,
			payer_email, payer_name, payer_surname, payer_phone
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (external_reference) DO NOTHING
		RETURNING id
	`,
		o.ExternalReference, o.Status, o.Total, o.Currency,
		o.PayerEmail, o.PayerName, o.PayerSurname, o.PayerPhone,
	).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		// Reference already persisted; nothing to do.
		log.Info("order already exists, skipping insert")
		return tx.Commit()
	}
	if err != nil {
		log.Error("order insert failed", zap.Error(err))
		return err
	}
	o.ID = id

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = id
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, name, author, unit_price, quantity)
			VALUES ($1,$2,$3,$4,$5,$6)
			RETURNING id
		`, id, item.ProductID, item.Name, item.Author, item.UnitPrice, item.Quantity).Scan(&item.ID)
		if err != nil {
			log.Error("order item insert failed", zap.Error(err), zap.Uint("product_id", item.ProductID))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Info("order persisted", zap.Uint("order_id", id))
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if o.Items, err = r.fetchItems(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) GetByReference(ctx context.Context, ref string) (*Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE external_reference = $1`, ref)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if o.Items, err = r.fetchItems(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) fetchItems(ctx context.Context, orderID uint) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, name, author, unit_price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Name, &it.Author, &it.UnitPrice, &it.Quantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) List(ctx context.Context, status *Status, limit, page *int32) ([]*Order, error) {
	finalLimit := int32(20)
	finalPage := int32(1)
	if limit != nil && *limit > 0 {
		finalLimit = *limit
	}
	if page != nil && *page > 0 {
		finalPage = *page
	}
	finalOffset := (finalPage - 1) * finalLimit

	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []interface{}{}

	if status != nil {
		query += fmt.Sprintf(" WHERE status = $%d", len(args)+1)
		args = append(args, *status)
	}

	query += " ORDER BY created_at DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, finalLimit, finalOffset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *repository) UpdateAdminFields(ctx context.Context, id uint, upd AdminUpdate) error {
	set := []string{}
	args := []interface{}{}

	add := func(col string, val interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)+1))
		args = append(args, val)
	}

	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.PayerEmail != nil {
		add("payer_email", *upd.PayerEmail)
	}
	if upd.PayerName != nil {
		add("payer_name", *upd.PayerName)
	}
	if upd.PayerSurname != nil {
		add("payer_surname", *upd.PayerSurname)
	}
	if upd.PayerPhone != nil {
		add("payer_phone", *upd.PayerPhone)
	}

	if len(set) == 0 {
		return nil
	}

	set = append(set, "updated_at = now()")
	query := fmt.Sprintf("UPDATE orders SET %s WHERE id = $%d", strings.Join(set, ", "), len(args)+1)
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) ApplyPayment(ctx context.Context, ref string, snap PaymentSnapshot) (ApplyResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("external_reference", ref),
		zap.Int64("mercado_pago_id", snap.MercadoPagoID),
		zap.String("incoming_status", string(snap.Status)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return ApplyResult{}, err
	}
	defer tx.Rollback()

	// Row lock: concurrent deliveries for the same reference serialize here.
	var (
		orderID     uint
		current     Status
		lastUpdated sql.NullTime
	)
	err = tx.QueryRowContext(ctx, `
		SELECT id, status, payment_last_updated
		FROM orders
		WHERE external_reference = $1
		FOR UPDATE
	`, ref).Scan(&orderID, &current, &lastUpdated)

	if errors.Is(err, sql.ErrNoRows) {
		return ApplyResult{}, ErrOrderNotFound
	}
	if err != nil {
		return ApplyResult{}, err
	}

	dec := Decide(current, nullTimePtr(lastUpdated), snap)
	if !dec.Apply {
		log.Warn("stale payment snapshot skipped",
			zap.String("current_status", string(current)),
		)
		return ApplyResult{Applied: false, Status: current}, tx.Commit()
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE orders SET
			status = $1,
			mercado_pago_id = $2,
			payment_method = $3,
			payment_type = $4,
			transaction_amount = $5,
			net_received_amount = $6,
			total_paid_amount = $7,
			date_approved = $8,
			payment_last_updated = $9,
			updated_at = now()
		WHERE id = $10
	`,
		dec.NextStatus, snap.MercadoPagoID, snap.PaymentMethod, snap.PaymentType,
		snap.TransactionAmount, snap.NetReceivedAmount, snap.TotalPaidAmount,
		snap.DateApproved, snap.OrderingSignal(), orderID,
	)
	if err != nil {
		log.Error("payment merge failed", zap.Error(err))
		return ApplyResult{}, err
	}

	if dec.AdjustStock {
		if err := r.decrementStock(ctx, tx, orderID, log); err != nil {
			return ApplyResult{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return ApplyResult{}, err
	}

	log.Info("payment reconciled",
		zap.Uint("order_id", orderID),
		zap.String("previous_status", string(current)),
		zap.String("status", string(dec.NextStatus)),
		zap.Bool("stock_adjusted", dec.AdjustStock),
	)

	return ApplyResult{Applied: true, StockAdjusted: dec.AdjustStock, Status: dec.NextStatus}, nil
}

func (r *repository) decrementStock(ctx context.Context, tx *sql.Tx, orderID uint, log *zap.Logger) error {
	rows, err := tx.QueryContext(ctx, `
		SELECT product_id, quantity FROM order_items WHERE order_id = $1
	`, orderID)
	if err != nil {
		return err
	}
	defer rows.Close()

	type line struct {
		productID uint
		quantity  int
	}
	var lines []line
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.productID, &l.quantity); err != nil {
			return err
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, l := range lines {
		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - $1, updated_at = now()
			WHERE id = $2 AND stock >= $1
		`, l.quantity, l.productID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			// Oversold: keep the order approved, flag for operations.
			log.Warn("stock underflow, decrement skipped",
				zap.Uint("product_id", l.productID),
				zap.Int("quantity", l.quantity),
			)
		}
	}
	return nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
