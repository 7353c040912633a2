package models

import "time"

type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// OrderItem carries either a flat price or a nested product price, matching the
// two shapes the order backend returns depending on the endpoint.
type OrderItem struct {
	Quantity int      `json:"quantity"`
	Price    *float64 `json:"price,omitempty"`
	Product  *Product `json:"product,omitempty"`
}

// UnitPrice resolves the flat price first, then the nested product price.
// Missing both means 0, never an error.
func (i OrderItem) UnitPrice() float64 {
	if i.Price != nil {
		return *i.Price
	}
	if i.Product != nil {
		return i.Product.Price
	}
	return 0
}

type OrderRecord struct {
	ID                string      `json:"id"`
	CustomerID        string      `json:"customer_id"`
	DeliveryPartnerID string      `json:"delivery_partner_id"`
	Items             []OrderItem `json:"items"`
	Status            string      `json:"status"`
	OrderTime         time.Time   `json:"order_time"`
	DeliveredAt       time.Time   `json:"delivered_at"`
	PaymentMethod     string      `json:"payment_method"`
	Address           Address     `json:"delivery_address"`
}

// CompletedAt resolves the record's completion instant: delivered_at, then
// order_time, then the supplied reference instant when both are absent.
func (o OrderRecord) CompletedAt(reference time.Time) time.Time {
	if !o.DeliveredAt.IsZero() {
		return o.DeliveredAt
	}
	if !o.OrderTime.IsZero() {
		return o.OrderTime
	}
	return reference
}
