package repositories

import (
	"context"
	"errors"
	"time"

	"ecofinds/models"

	"github.com/jackc/pgx/v5"
)

type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// Create inserts the order and its item snapshot atomically. When the
// idempotency key was already used, the originally created order id is
// returned instead of inserting a duplicate.
func (r *OrderRepository) Create(ctx context.Context, userID int, items []models.OrderItem, total float64, idempotencyKey string) (int, error) {
	tx, err := models.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if idempotencyKey != "" {
		var existingID int
		err := tx.QueryRow(ctx,
			`SELECT id FROM orders WHERE idempotency_key = $1`, idempotencyKey).Scan(&existingID)
		if err == nil {
			return existingID, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return 0, err
		}
	}

	now := time.Now()
	var orderID int
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (user_id, total, idempotency_key, created_at)
		 VALUES ($1, $2, NULLIF($3, ''), $4) RETURNING id`,
		userID, total, idempotencyKey, now).Scan(&orderID)
	if err != nil {
		return 0, err
	}

	for _, item := range items {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, title, price, quantity)
			 VALUES ($1, $2, $3, $4, $5)`,
			orderID, item.ProductID, item.Title, item.Price, item.Quantity)
		if err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, err
	}

	return orderID, nil
}

// ListByUser returns the caller's orders newest first, items included.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int) ([]models.Order, error) {
	rows, err := models.DB.Query(ctx,
		`SELECT id, user_id, total, created_at FROM orders
		 WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Total, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		itemRows, err := models.DB.Query(ctx,
			`SELECT product_id, title, price, quantity FROM order_items
			 WHERE order_id = $1 ORDER BY id`, orders[i].ID)
		if err != nil {
			return nil, err
		}

		items := []models.OrderItem{}
		for itemRows.Next() {
			var it models.OrderItem
			if err := itemRows.Scan(&it.ProductID, &it.Title, &it.Price, &it.Quantity); err != nil {
				itemRows.Close()
				return nil, err
			}
			items = append(items, it)
		}
		itemRows.Close()
		if err := itemRows.Err(); err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}
