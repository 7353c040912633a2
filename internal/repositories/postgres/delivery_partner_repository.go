package postgres

import (
	"context"
	"fmt"

	"github.com/grocito/earnings/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DeliveryPartnerRepository struct {
	pool *pgxpool.Pool
}

func NewDeliveryPartnerRepository(pool *pgxpool.Pool) *DeliveryPartnerRepository {
	return &DeliveryPartnerRepository{pool: pool}
}

func (r *DeliveryPartnerRepository) GetAll(ctx context.Context) ([]*models.DeliveryPartner, error) {
	query := `
        SELECT id, name, phone, vehicle_type, join_date, rating, total_ratings, status
        FROM delivery_partners
        WHERE status = $1
        ORDER BY join_date
    `
	rows, err := r.pool.Query(ctx, query, models.PartnerStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query delivery partners: %w", err)
	}
	defer rows.Close()

	var partners []*models.DeliveryPartner
	for rows.Next() {
		partner := &models.DeliveryPartner{}
		err := rows.Scan(
			&partner.ID,
			&partner.Name,
			&partner.Phone,
			&partner.VehicleType,
			&partner.JoinDate,
			&partner.Rating,
			&partner.TotalRatings,
			&partner.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery partner row: %w", err)
		}
		partners = append(partners, partner)
	}

	return partners, rows.Err()
}

func (r *DeliveryPartnerRepository) GetByID(ctx context.Context, id string) (*models.DeliveryPartner, error) {
	partner := &models.DeliveryPartner{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, phone, vehicle_type, join_date, rating, total_ratings, status
         FROM delivery_partners WHERE id = $1`,
		id,
	).Scan(
		&partner.ID,
		&partner.Name,
		&partner.Phone,
		&partner.VehicleType,
		&partner.JoinDate,
		&partner.Rating,
		&partner.TotalRatings,
		&partner.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch delivery partner %s: %w", id, err)
	}
	return partner, nil
}
