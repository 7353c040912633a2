package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/grocito/earnings/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// DeliveredByPartner returns a partner's DELIVERED orders completed within
// [start, end). Records missing delivered_at fall back to order_time for the
// window check, mirroring how the engine resolves completion instants.
func (r *OrderRepository) DeliveredByPartner(ctx context.Context, partnerID string, start, end time.Time) ([]models.OrderRecord, error) {
	query := `
        SELECT
            id, customer_id, delivery_partner_id, items, status,
            order_time, delivered_at, payment_method, delivery_address
        FROM orders
        WHERE delivery_partner_id = $1
          AND status = $2
          AND COALESCE(delivered_at, order_time) >= $3
          AND COALESCE(delivered_at, order_time) < $4
        ORDER BY COALESCE(delivered_at, order_time)
    `
	rows, err := r.pool.Query(ctx, query, partnerID, models.OrderStatusDelivered, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query delivered orders: %w", err)
	}
	defer rows.Close()

	var orders []models.OrderRecord
	for rows.Next() {
		var (
			order       models.OrderRecord
			itemsJSON   []byte
			addressJSON []byte
			deliveredAt *time.Time
			orderTime   *time.Time
		)
		err := rows.Scan(
			&order.ID,
			&order.CustomerID,
			&order.DeliveryPartnerID,
			&itemsJSON,
			&order.Status,
			&orderTime,
			&deliveredAt,
			&order.PaymentMethod,
			&addressJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}

		if orderTime != nil {
			order.OrderTime = *orderTime
		}
		if deliveredAt != nil {
			order.DeliveredAt = *deliveredAt
		}
		if len(itemsJSON) > 0 {
			if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
				return nil, fmt.Errorf("failed to decode items for order %s: %w", order.ID, err)
			}
		}
		if len(addressJSON) > 0 {
			if err := json.Unmarshal(addressJSON, &order.Address); err != nil {
				return nil, fmt.Errorf("failed to decode address for order %s: %w", order.ID, err)
			}
		}

		orders = append(orders, order)
	}

	return orders, rows.Err()
}

func (r *OrderRepository) CountDelivered(ctx context.Context, partnerID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE delivery_partner_id = $1 AND status = $2`,
		partnerID, models.OrderStatusDelivered,
	).Scan(&count)
	return count, err
}
