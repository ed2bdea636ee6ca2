package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/wizardsoflight-studio/studioWebsite/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type OrderRepository struct {
	DB *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{DB: db}
}

const orderColumns = `id, order_number, user_id, status, subtotal, shipping_cost, tax, total, payment_processor, payment_intent_id, shipping_address, tracking_number, tracking_url, notes, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	var addr []byte
	if err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.Status,
		&o.Subtotal, &o.ShippingCost, &o.Tax, &o.Total,
		&o.PaymentProcessor, &o.PaymentIntentID, &addr,
		&o.TrackingNumber, &o.TrackingURL, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(addr) > 0 {
		if err := json.Unmarshal(addr, &o.ShippingAddress); err != nil {
			return nil, err
		}
	}
	return &o, nil
}

func marshalAddress(addr *model.ShippingAddress) ([]byte, error) {
	if addr == nil {
		return nil, nil // nil []byte encodes as SQL NULL
	}
	return json.Marshal(addr)
}

// CreateWithItems persists the pending order and its item snapshots in one
// transaction, filling in generated ids and timestamps.
func (r *OrderRepository) CreateWithItems(ctx context.Context, o *model.Order, items []model.OrderItem) error {
	addrJSON, err := marshalAddress(o.ShippingAddress)
	if err != nil {
		return err
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `
		INSERT INTO orders (order_number, user_id, status, subtotal, shipping_cost, tax, total, payment_processor, payment_intent_id, shipping_address)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at, updated_at
	`, o.OrderNumber, o.UserID, o.Status, o.Subtotal, o.ShippingCost, o.Tax, o.Total, o.PaymentProcessor, o.PaymentIntentID, addrJSON,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return err
	}

	for i := range items {
		it := &items[i]
		it.OrderID = o.ID
		if err := tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, variant_id, quantity, unit_price, total_price, product_name, variant_name, product_image)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			RETURNING id
		`, it.OrderID, it.ProductID, it.VariantID, it.Quantity, it.UnitPrice, it.TotalPrice, it.ProductName, it.VariantName, it.ProductImage,
		).Scan(&it.ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	o.Items = items
	return nil
}

// SetPaymentRef stores the processor's reference id on the order after the
// session/order was created on the processor side.
func (r *OrderRepository) SetPaymentRef(ctx context.Context, orderID, ref string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE orders SET payment_intent_id=$2, updated_at=now() WHERE id=$1`,
		orderID, ref)
	return err
}

// GetByID returns (nil, nil) when no order matches.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return o, nil
}

// GetByPaymentRef resolves an order by the processor reference id carried in
// reconciliation events. Returns (nil, nil) when no order matches.
func (r *OrderRepository) GetByPaymentRef(ctx context.Context, ref string) (*model.Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE payment_intent_id=$1`, ref))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orderIDs []string) (map[string][]model.OrderItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, product_id, variant_id, quantity, unit_price, total_price, product_name, variant_name, product_image
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]model.OrderItem)
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.VariantID, &it.Quantity, &it.UnitPrice, &it.TotalPrice, &it.ProductName, &it.VariantName, &it.ProductImage); err != nil {
			return nil, err
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, rows.Err()
}

// GetWithItems reloads the full order including item snapshots.
func (r *OrderRepository) GetWithItems(ctx context.Context, id string) (*model.Order, error) {
	o, err := r.GetByID(ctx, id)
	if err != nil || o == nil {
		return o, err
	}
	items, err := r.loadItems(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

// FinalizePaid performs the paid transition atomically: the status flip is a
// conditional update on status='pending' and the stock decrements run in the
// same transaction, so a replayed event can never decrement twice. Returns
// false when the order was not in pending (already processed, or cancelled).
//
// A decrement that would go negative clamps the variant to zero and logs a
// warning: the payment is already captured at this point, so the drift is
// recorded rather than the order refused.
func (r *OrderRepository) FinalizePaid(ctx context.Context, orderID string, addr *model.ShippingAddress) (bool, error) {
	addrJSON, err := marshalAddress(addr)
	if err != nil {
		return false, err
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE orders
		SET status='paid',
		    shipping_address=COALESCE($2, shipping_address),
		    updated_at=now()
		WHERE id=$1 AND status='pending'
	`, orderID, addrJSON)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	rows, err := tx.Query(ctx,
		`SELECT variant_id, quantity FROM order_items WHERE order_id=$1`, orderID)
	if err != nil {
		return false, err
	}
	type line struct {
		variantID string
		quantity  int
	}
	var lines []line
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.variantID, &l.quantity); err != nil {
			rows.Close()
			return false, err
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return false, err
	}

	for _, l := range lines {
		tag, err := tx.Exec(ctx, `
			UPDATE product_variants
			SET stock_count = stock_count - $2
			WHERE id=$1 AND stock_count >= $2
		`, l.variantID, l.quantity)
		if err != nil {
			return false, err
		}
		if tag.RowsAffected() == 0 {
			// Oversold between checkout validation and capture.
			if _, err := tx.Exec(ctx,
				`UPDATE product_variants SET stock_count=0 WHERE id=$1`, l.variantID); err != nil {
				return false, err
			}
			log.WithFields(log.Fields{
				"order_id":   orderID,
				"variant_id": l.variantID,
				"quantity":   l.quantity,
			}).Warn("stock drift: decrement clamped to zero")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// CancelPending transitions a pending order to cancelled. Returns false when
// the order was not in pending.
func (r *OrderRepository) CancelPending(ctx context.Context, orderID string) (bool, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE orders SET status='cancelled', updated_at=now() WHERE id=$1 AND status='pending'`,
		orderID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListByUser returns the account order history, items included.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return r.attachItems(ctx, out)
}

// List returns orders for the admin view, newest first, items included.
func (r *OrderRepository) List(ctx context.Context, limit, offset int) ([]model.Order, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.DB.Query(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return r.attachItems(ctx, out)
}

func (r *OrderRepository) attachItems(ctx context.Context, orders []model.Order) ([]model.Order, error) {
	if len(orders) == 0 {
		return orders, nil
	}
	ids := make([]string, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}
	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

// UpdateStatus applies an admin status change plus optional tracking fields.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus, trackingNumber, trackingURL, notes *string) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE orders
		SET status=$2,
		    tracking_number=COALESCE($3, tracking_number),
		    tracking_url=COALESCE($4, tracking_url),
		    notes=COALESCE($5, notes),
		    updated_at=now()
		WHERE id=$1
	`, orderID, status, trackingNumber, trackingURL, notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("order not found")
	}
	return nil
}

// SalesTotals backs the admin dashboard: revenue over paid-and-beyond orders
// plus order counts by bucket.
func (r *OrderRepository) SalesTotals(ctx context.Context) (revenue int64, paid, pending, shipped int, err error) {
	err = r.DB.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(total) FILTER (WHERE status IN ('paid','processing','shipped','delivered')), 0),
			COUNT(*) FILTER (WHERE status IN ('paid','processing','shipped','delivered')),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'shipped')
		FROM orders
	`).Scan(&revenue, &paid, &pending, &shipped)
	return revenue, paid, pending, shipped, err
}
