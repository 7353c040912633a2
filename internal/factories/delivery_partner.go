package factories

import (
	"time"

	"github.com/grocito/earnings/internal/models"
	"github.com/lucsky/cuid"
)

var vehicleTypes = []string{"bike", "scooter", "bicycle"}

type DeliveryPartnerFactory struct{}

func (df *DeliveryPartnerFactory) CreateDeliveryPartner(now time.Time) *models.DeliveryPartner {
	return &models.DeliveryPartner{
		ID:           cuid.New(),
		Name:         fake.Person().Name(),
		Phone:        fake.Phone().Number(),
		VehicleType:  fake.RandomStringElement(vehicleTypes),
		JoinDate:     fake.Time().TimeBetween(now.AddDate(-2, 0, 0), now),
		Rating:       fake.Float64(1, 1, 5),
		TotalRatings: fake.Float64(0, 0, 500),
		Status:       models.PartnerStatusActive,
	}
}
