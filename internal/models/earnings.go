package models

import "time"

// EarningsPolicy holds the payout constants. They are platform configuration,
// loaded alongside the rest of the config rather than baked into the engine.
type EarningsPolicy struct {
	FreeDeliveryThreshold  float64 `mapstructure:"free_delivery_threshold" json:"free_delivery_threshold"`
	PaidDeliveryPartnerFee float64 `mapstructure:"paid_delivery_partner_fee" json:"paid_delivery_partner_fee"`
	FreeDeliveryPartnerFee float64 `mapstructure:"free_delivery_partner_fee" json:"free_delivery_partner_fee"`
	PeakHourBonus          float64 `mapstructure:"peak_hour_bonus" json:"peak_hour_bonus"`
	WeekendBonus           float64 `mapstructure:"weekend_bonus" json:"weekend_bonus"`
	DailyTargetCount       int     `mapstructure:"daily_target_count" json:"daily_target_count"`
	DailyTargetBonus       float64 `mapstructure:"daily_target_bonus" json:"daily_target_bonus"`
}

// DefaultEarningsPolicy returns the platform's current payout constants.
func DefaultEarningsPolicy() EarningsPolicy {
	return EarningsPolicy{
		FreeDeliveryThreshold:  199,
		PaidDeliveryPartnerFee: 30,
		FreeDeliveryPartnerFee: 25,
		PeakHourBonus:          5,
		WeekendBonus:           3,
		DailyTargetCount:       12,
		DailyTargetBonus:       80,
	}
}

// OrderEarnings is the per-order payout breakdown. TotalEarnings excludes the
// daily-target bonus, which is granted once per calendar day, not per order.
type OrderEarnings struct {
	OrderID       string             `json:"order_id"`
	OrderAmount   float64            `json:"order_amount"`
	DeliveryType  string             `json:"delivery_type"`
	BaseEarnings  float64            `json:"base_earnings"`
	Bonuses       map[string]float64 `json:"bonuses,omitempty"`
	TotalBonuses  float64            `json:"total_bonuses"`
	TotalEarnings float64            `json:"total_earnings"`
	CompletedAt   time.Time          `json:"completed_at"`
}

// DailyEarningsSummary aggregates every delivered order whose completion
// instant falls in one local calendar day.
type DailyEarningsSummary struct {
	Day                        time.Time `json:"day"`
	TotalDeliveries            int       `json:"total_deliveries"`
	FreeDeliveries             int       `json:"free_deliveries"`
	PaidDeliveries             int       `json:"paid_deliveries"`
	PeakHourDeliveries         int       `json:"peak_hour_deliveries"`
	WeekendDeliveries          int       `json:"weekend_deliveries"`
	TotalBaseEarnings          float64   `json:"total_base_earnings"`
	TotalBonuses               float64   `json:"total_bonuses"`
	DailyTargetBonus           float64   `json:"daily_target_bonus"`
	DailyTargetAchieved        bool      `json:"daily_target_achieved"`
	DeliveriesNeededForTarget  int       `json:"deliveries_needed_for_target"`
	TotalEarnings              float64   `json:"total_earnings"`
	AverageEarningsPerDelivery float64   `json:"average_earnings_per_delivery"`
}

// RangeEarningsSummary sums per-day summaries over [StartDay, EndDay). The
// daily-target bonus is evaluated day by day before summing, never against the
// whole-range delivery count.
type RangeEarningsSummary struct {
	StartDay                   time.Time              `json:"start_day"`
	EndDay                     time.Time              `json:"end_day"`
	Days                       []DailyEarningsSummary `json:"days"`
	TotalDeliveries            int                    `json:"total_deliveries"`
	FreeDeliveries             int                    `json:"free_deliveries"`
	PaidDeliveries             int                    `json:"paid_deliveries"`
	PeakHourDeliveries         int                    `json:"peak_hour_deliveries"`
	WeekendDeliveries          int                    `json:"weekend_deliveries"`
	TotalBaseEarnings          float64                `json:"total_base_earnings"`
	TotalBonuses               float64                `json:"total_bonuses"`
	DaysTargetAchieved         int                    `json:"days_target_achieved"`
	TotalEarnings              float64                `json:"total_earnings"`
	AverageEarningsPerDelivery float64                `json:"average_earnings_per_delivery"`
}
