package repositories

import (
	"context"
	"time"

	"github.com/grocito/earnings/internal/models"
)

type OrderRepository interface {
	DeliveredByPartner(ctx context.Context, partnerID string, start, end time.Time) ([]models.OrderRecord, error)
	CountDelivered(ctx context.Context, partnerID string) (int, error)
}

type DeliveryPartnerRepository interface {
	GetAll(ctx context.Context) ([]*models.DeliveryPartner, error)
	GetByID(ctx context.Context, id string) (*models.DeliveryPartner, error)
}
