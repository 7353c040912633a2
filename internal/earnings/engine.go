// Package earnings computes delivery-partner payouts from delivered-order
// records. The engine is pure: it never reads the wall clock, performs no I/O
// and never mutates its inputs, so recomputing over the same list always
// yields the same result.
package earnings

import (
	"math"
	"time"

	"github.com/grocito/earnings/internal/models"
)

// Peak delivery windows, local time, end exclusive.
const (
	morningPeakStart = 7
	morningPeakEnd   = 10
	eveningPeakStart = 18
	eveningPeakEnd   = 21
)

type Engine struct {
	policy models.EarningsPolicy
	loc    *time.Location
}

// New returns an engine bound to a payout policy and a reporting timezone.
// A nil location falls back to the process-local zone.
func New(policy models.EarningsPolicy, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{policy: policy, loc: loc}
}

// OrderEarnings computes the payout breakdown for a single order. The
// reference instant stands in for "now" and is only consulted when the record
// carries neither delivered_at nor order_time. TotalEarnings excludes the
// daily-target bonus, which is a per-day grant.
func (e *Engine) OrderEarnings(order models.OrderRecord, reference time.Time) models.OrderEarnings {
	amount := orderAmount(order.Items)

	deliveryType := models.DeliveryTypePaid
	baseEarnings := e.policy.PaidDeliveryPartnerFee
	if amount >= e.policy.FreeDeliveryThreshold {
		deliveryType = models.DeliveryTypeFree
		baseEarnings = e.policy.FreeDeliveryPartnerFee
	}

	completedAt := order.CompletedAt(reference).In(e.loc)

	bonuses := make(map[string]float64)
	if isPeakHour(completedAt) {
		bonuses[models.BonusPeakHour] = e.policy.PeakHourBonus
	}
	if isWeekend(completedAt) {
		bonuses[models.BonusWeekend] = e.policy.WeekendBonus
	}

	var totalBonuses float64
	for _, b := range bonuses {
		totalBonuses += b
	}
	if len(bonuses) == 0 {
		bonuses = nil
	}

	return models.OrderEarnings{
		OrderID:       order.ID,
		OrderAmount:   round2(amount),
		DeliveryType:  deliveryType,
		BaseEarnings:  baseEarnings,
		Bonuses:       bonuses,
		TotalBonuses:  round2(totalBonuses),
		TotalEarnings: round2(baseEarnings + totalBonuses),
		CompletedAt:   completedAt,
	}
}

// DailySummary aggregates the delivered orders whose completion instant falls
// on the calendar day containing `day`, in the engine's timezone. Orders in
// any other lifecycle state are ignored.
func (e *Engine) DailySummary(orders []models.OrderRecord, day time.Time, reference time.Time) models.DailyEarningsSummary {
	dayStart := e.startOfDay(day)
	dayEnd := dayStart.AddDate(0, 0, 1)

	summary := models.DailyEarningsSummary{Day: dayStart}

	for _, order := range orders {
		if order.Status != models.OrderStatusDelivered {
			continue
		}
		completedAt := order.CompletedAt(reference).In(e.loc)
		if completedAt.Before(dayStart) || !completedAt.Before(dayEnd) {
			continue
		}

		oe := e.OrderEarnings(order, reference)
		summary.TotalDeliveries++
		if oe.DeliveryType == models.DeliveryTypeFree {
			summary.FreeDeliveries++
		} else {
			summary.PaidDeliveries++
		}
		if _, ok := oe.Bonuses[models.BonusPeakHour]; ok {
			summary.PeakHourDeliveries++
		}
		if _, ok := oe.Bonuses[models.BonusWeekend]; ok {
			summary.WeekendDeliveries++
		}
		summary.TotalBaseEarnings += oe.BaseEarnings
		summary.TotalBonuses += oe.TotalBonuses
	}

	summary.DailyTargetAchieved = summary.TotalDeliveries >= e.policy.DailyTargetCount
	if summary.DailyTargetAchieved {
		summary.DailyTargetBonus = e.policy.DailyTargetBonus
		summary.TotalBonuses += e.policy.DailyTargetBonus
	}
	if needed := e.policy.DailyTargetCount - summary.TotalDeliveries; needed > 0 {
		summary.DeliveriesNeededForTarget = needed
	}

	summary.TotalBaseEarnings = round2(summary.TotalBaseEarnings)
	summary.TotalBonuses = round2(summary.TotalBonuses)
	summary.TotalEarnings = round2(summary.TotalBaseEarnings + summary.TotalBonuses)
	if summary.TotalDeliveries > 0 {
		summary.AverageEarningsPerDelivery = round2(summary.TotalEarnings / float64(summary.TotalDeliveries))
	}

	return summary
}

// RangeSummary buckets orders into local calendar days over [start, end),
// evaluates each day with DailySummary semantics and sums the results. The
// daily-target bonus is decided per day; a range total reaching the target
// count never triggers it on its own.
func (e *Engine) RangeSummary(orders []models.OrderRecord, start, end time.Time, reference time.Time) models.RangeEarningsSummary {
	startDay := e.startOfDay(start)
	endDay := e.startOfDay(end)

	summary := models.RangeEarningsSummary{
		StartDay: startDay,
		EndDay:   endDay,
	}

	for day := startDay; day.Before(endDay); day = day.AddDate(0, 0, 1) {
		daily := e.DailySummary(orders, day, reference)
		summary.Days = append(summary.Days, daily)

		summary.TotalDeliveries += daily.TotalDeliveries
		summary.FreeDeliveries += daily.FreeDeliveries
		summary.PaidDeliveries += daily.PaidDeliveries
		summary.PeakHourDeliveries += daily.PeakHourDeliveries
		summary.WeekendDeliveries += daily.WeekendDeliveries
		summary.TotalBaseEarnings += daily.TotalBaseEarnings
		summary.TotalBonuses += daily.TotalBonuses
		summary.TotalEarnings += daily.TotalEarnings
		if daily.DailyTargetAchieved {
			summary.DaysTargetAchieved++
		}
	}

	summary.TotalBaseEarnings = round2(summary.TotalBaseEarnings)
	summary.TotalBonuses = round2(summary.TotalBonuses)
	summary.TotalEarnings = round2(summary.TotalEarnings)
	if summary.TotalDeliveries > 0 {
		summary.AverageEarningsPerDelivery = round2(summary.TotalEarnings / float64(summary.TotalDeliveries))
	}

	return summary
}

// orderAmount sums unit price times quantity. Missing prices count as zero,
// an empty item list gives zero.
func orderAmount(items []models.OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.UnitPrice() * float64(item.Quantity)
	}
	return total
}

func isPeakHour(t time.Time) bool {
	hour := t.Hour()
	if hour >= morningPeakStart && hour < morningPeakEnd {
		return true
	}
	return hour >= eveningPeakStart && hour < eveningPeakEnd
}

func isWeekend(t time.Time) bool {
	day := t.Weekday()
	return day == time.Saturday || day == time.Sunday
}

func (e *Engine) startOfDay(t time.Time) time.Time {
	local := t.In(e.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, e.loc)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
