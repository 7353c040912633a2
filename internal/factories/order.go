package factories

import (
	"math/rand"
	"time"

	"github.com/grocito/earnings/internal/models"
	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
)

var fake = faker.New()

// Seed makes fabricated data reproducible across runs.
func Seed(seed int64) {
	fake = faker.NewWithSeed(rand.NewSource(seed))
}

var groceryCategories = []string{
	"fruits_vegetables", "dairy_bread_eggs", "snacks", "beverages",
	"staples", "personal_care", "household",
}

var paymentMethods = []string{"card", "upi", "cash", "wallet"}

type OrderFactory struct{}

// CreateDeliveredOrder fabricates one DELIVERED grocery order for a partner,
// completed at the given instant. Items alternate between the two shapes the
// order backend returns: a flat item price and a price nested under product.
func (of *OrderFactory) CreateDeliveredOrder(partnerID string, deliveredAt time.Time) models.OrderRecord {
	itemCount := fake.IntBetween(1, 8)
	items := make([]models.OrderItem, 0, itemCount)
	for i := 0; i < itemCount; i++ {
		quantity := fake.IntBetween(1, 4)
		unitPrice := fake.Float64(2, 15, 120)
		if i%2 == 0 {
			items = append(items, models.OrderItem{
				Quantity: quantity,
				Price:    &unitPrice,
			})
		} else {
			items = append(items, models.OrderItem{
				Quantity: quantity,
				Product: &models.Product{
					ID:       cuid.New(),
					Name:     fake.Food().Fruit(),
					Price:    unitPrice,
					Category: fake.RandomStringElement(groceryCategories),
				},
			})
		}
	}

	orderTime := deliveredAt.Add(-time.Duration(fake.IntBetween(20, 70)) * time.Minute)

	return models.OrderRecord{
		ID:                cuid.New(),
		CustomerID:        cuid.New(),
		DeliveryPartnerID: partnerID,
		Items:             items,
		Status:            models.OrderStatusDelivered,
		OrderTime:         orderTime,
		DeliveredAt:       deliveredAt,
		PaymentMethod:     fake.RandomStringElement(paymentMethods),
		Address: models.Address{
			HouseNo:   fake.Address().BuildingNumber(),
			Address1:  fake.Address().StreetName(),
			Pincode:   fake.Address().PostCode(),
			Latitude:  fake.Address().Latitude(),
			Longitude: fake.Address().Longitude(),
		},
	}
}

// CreateDeliveredOrders fabricates a partner's delivery history over
// [start, end), roughly perDay orders spread across delivery hours.
func (of *OrderFactory) CreateDeliveredOrders(partnerID string, start, end time.Time, perDay int) []models.OrderRecord {
	if perDay <= 0 {
		perDay = 1
	}

	var orders []models.OrderRecord
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		count := fake.IntBetween(perDay/2+1, perDay+perDay/2)
		for i := 0; i < count; i++ {
			windowStart := day.Add(7 * time.Hour)
			windowEnd := day.Add(22 * time.Hour)
			if !windowEnd.Before(end) {
				windowEnd = end.Add(-time.Minute)
			}
			if !windowStart.Before(windowEnd) {
				continue
			}
			deliveredAt := fake.Time().TimeBetween(windowStart, windowEnd)
			orders = append(orders, of.CreateDeliveredOrder(partnerID, deliveredAt))
		}
	}
	return orders
}
