package models

import "time"

type DeliveryPartner struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	VehicleType  string    `json:"vehicle_type"`
	JoinDate     time.Time `json:"join_date"`
	Rating       float64   `json:"rating"`
	TotalRatings float64   `json:"total_ratings"`
	Status       string    `json:"status"`
}
