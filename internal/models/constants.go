package models

const (
	OrderStatusAssigned       = "ASSIGNED"
	OrderStatusPickedUp       = "PICKED_UP"
	OrderStatusOutForDelivery = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      = "DELIVERED"
	OrderStatusCancelled      = "CANCELLED"

	PartnerStatusActive    = "active"
	PartnerStatusSuspended = "suspended"
	PartnerStatusOffline   = "offline"

	DeliveryTypeFree = "FREE_DELIVERY"
	DeliveryTypePaid = "PAID_DELIVERY"

	BonusPeakHour = "peak_hour"
	BonusWeekend  = "weekend"
)

// orderStatuses is the closed delivery-lifecycle set. Transitions are owned by
// the order-management backend; this side only reads terminal records.
var orderStatuses = map[string]bool{
	OrderStatusAssigned:       true,
	OrderStatusPickedUp:       true,
	OrderStatusOutForDelivery: true,
	OrderStatusDelivered:      true,
	OrderStatusCancelled:      true,
}

func IsValidOrderStatus(status string) bool {
	return orderStatuses[status]
}
