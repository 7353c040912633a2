package earnings

import (
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"github.com/grocito/earnings/internal/models"
	"github.com/stretchr/testify/assert"
)

// The engine's day bucketing follows its configured zone, so tests pin a fixed
// offset instead of relying on the machine's local zone.
var ist = time.FixedZone("IST", 5*3600+1800)

// Monday 2 June 2025 in the test zone.
var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, ist)

func testEngine() *Engine {
	return New(models.DefaultEarningsPolicy(), ist)
}

func price(v float64) *float64 { return &v }

func deliveredOrder(id string, amount float64, at time.Time) models.OrderRecord {
	return models.OrderRecord{
		ID:                id,
		DeliveryPartnerID: "partner-1",
		Status:            models.OrderStatusDelivered,
		DeliveredAt:       at,
		Items: []models.OrderItem{
			{Quantity: 1, Price: price(amount)},
		},
	}
}

func TestOrderEarnings_FreeDeliveryThreshold(t *testing.T) {
	e := testEngine()
	at := monday.Add(12 * time.Hour) // off-peak weekday

	cases := []struct {
		amount       float64
		deliveryType string
		baseEarnings float64
	}{
		{198.99, models.DeliveryTypePaid, 30},
		{199.00, models.DeliveryTypeFree, 25},
		{199.01, models.DeliveryTypeFree, 25},
	}
	for _, tc := range cases {
		oe := e.OrderEarnings(deliveredOrder("o1", tc.amount, at), at)
		assert.Equal(t, tc.deliveryType, oe.DeliveryType, "amount %v", tc.amount)
		assert.Equal(t, tc.baseEarnings, oe.BaseEarnings, "amount %v", tc.amount)
		assert.Empty(t, oe.Bonuses)
		assert.Equal(t, tc.baseEarnings, oe.TotalEarnings)
	}
}

func TestOrderEarnings_AmountFromItems(t *testing.T) {
	e := testEngine()
	at := monday.Add(12 * time.Hour)

	order := models.OrderRecord{
		ID:          "o1",
		Status:      models.OrderStatusDelivered,
		DeliveredAt: at,
		Items: []models.OrderItem{
			{Quantity: 2, Price: price(50)},
			{Quantity: 3, Product: &models.Product{Price: 20}},
			{Quantity: 4}, // no price anywhere, counts as zero
		},
	}
	oe := e.OrderEarnings(order, at)
	assert.Equal(t, 160.0, oe.OrderAmount)
	assert.Equal(t, models.DeliveryTypePaid, oe.DeliveryType)

	empty := e.OrderEarnings(models.OrderRecord{ID: "o2", Status: models.OrderStatusDelivered, DeliveredAt: at}, at)
	assert.Equal(t, 0.0, empty.OrderAmount)
	assert.Equal(t, models.DeliveryTypePaid, empty.DeliveryType)
}

func TestOrderEarnings_PeakHourBoundaries(t *testing.T) {
	e := testEngine()

	cases := []struct {
		hour, minute int
		peak         bool
	}{
		{6, 59, false},
		{7, 0, true},
		{9, 59, true},
		{10, 0, false},
		{17, 59, false},
		{18, 0, true},
		{20, 59, true},
		{21, 0, false},
	}
	for _, tc := range cases {
		at := time.Date(2025, 6, 2, tc.hour, tc.minute, 0, 0, ist)
		oe := e.OrderEarnings(deliveredOrder("o1", 100, at), at)
		if tc.peak {
			assert.Equal(t, 5.0, oe.Bonuses[models.BonusPeakHour], "%02d:%02d", tc.hour, tc.minute)
			assert.Equal(t, 35.0, oe.TotalEarnings)
		} else {
			assert.NotContains(t, oe.Bonuses, models.BonusPeakHour, "%02d:%02d", tc.hour, tc.minute)
			assert.Equal(t, 30.0, oe.TotalEarnings)
		}
	}
}

func TestOrderEarnings_WeekendBonus(t *testing.T) {
	e := testEngine()

	saturday := time.Date(2025, 6, 7, 14, 0, 0, 0, ist)
	sunday := time.Date(2025, 6, 8, 14, 0, 0, 0, ist)
	wednesday := time.Date(2025, 6, 4, 14, 0, 0, 0, ist)

	for _, at := range []time.Time{saturday, sunday} {
		oe := e.OrderEarnings(deliveredOrder("o1", 250, at), at)
		assert.Equal(t, 3.0, oe.Bonuses[models.BonusWeekend], at.Weekday())
		assert.Equal(t, 28.0, oe.TotalEarnings)
	}

	oe := e.OrderEarnings(deliveredOrder("o1", 250, wednesday), wednesday)
	assert.NotContains(t, oe.Bonuses, models.BonusWeekend)
	assert.Equal(t, 25.0, oe.TotalEarnings)
}

func TestOrderEarnings_BonusesStack(t *testing.T) {
	e := testEngine()

	// Saturday 08:30: both peak-hour and weekend apply.
	at := time.Date(2025, 6, 7, 8, 30, 0, 0, ist)
	oe := e.OrderEarnings(deliveredOrder("o1", 150, at), at)

	assert.Equal(t, 8.0, oe.TotalBonuses)
	assert.Equal(t, 38.0, oe.TotalEarnings)
}

func TestOrderEarnings_TimestampFallback(t *testing.T) {
	e := testEngine()
	reference := time.Date(2025, 6, 2, 8, 0, 0, 0, ist)

	// order_time used when delivered_at is absent
	orderTimeOnly := models.OrderRecord{
		ID:        "o1",
		Status:    models.OrderStatusDelivered,
		OrderTime: time.Date(2025, 6, 2, 19, 0, 0, 0, ist),
		Items:     []models.OrderItem{{Quantity: 1, Price: price(100)}},
	}
	oe := e.OrderEarnings(orderTimeOnly, reference)
	assert.Equal(t, 5.0, oe.Bonuses[models.BonusPeakHour])

	// both timestamps absent: the injected reference instant decides
	bare := models.OrderRecord{
		ID:     "o2",
		Status: models.OrderStatusDelivered,
		Items:  []models.OrderItem{{Quantity: 1, Price: price(100)}},
	}
	oe = e.OrderEarnings(bare, reference)
	assert.True(t, oe.CompletedAt.Equal(reference))
	assert.Equal(t, 5.0, oe.Bonuses[models.BonusPeakHour])
}

func TestDailySummary_TargetBonusOnceRegardlessOfOrdering(t *testing.T) {
	e := testEngine()
	reference := monday.Add(23 * time.Hour)

	orders := make([]models.OrderRecord, 0, 12)
	for i := 0; i < 12; i++ {
		at := monday.Add(time.Duration(10+i%8) * time.Hour) // off-peak weekday hours
		orders = append(orders, deliveredOrder("o", 100, at))
	}

	want := e.DailySummary(orders, monday, reference)
	assert.True(t, want.DailyTargetAchieved)
	assert.Equal(t, 80.0, want.DailyTargetBonus)
	assert.Equal(t, 0, want.DeliveriesNeededForTarget)
	// 12 paid deliveries at 30 each, plus the one-time target bonus
	assert.Equal(t, 440.0, want.TotalEarnings)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 5; i++ {
		rng.Shuffle(len(orders), func(a, b int) { orders[a], orders[b] = orders[b], orders[a] })
		got := e.DailySummary(orders, monday, reference)
		assert.Equal(t, want, got)
	}
}

func TestDailySummary_BelowTarget(t *testing.T) {
	e := testEngine()
	reference := monday.Add(23 * time.Hour)

	orders := []models.OrderRecord{
		deliveredOrder("o1", 100, monday.Add(11*time.Hour)),
		deliveredOrder("o2", 100, monday.Add(12*time.Hour)),
	}
	summary := e.DailySummary(orders, monday, reference)

	assert.False(t, summary.DailyTargetAchieved)
	assert.Equal(t, 0.0, summary.DailyTargetBonus)
	assert.Equal(t, 10, summary.DeliveriesNeededForTarget)
}

func TestRangeSummary_TargetEvaluatedPerDay(t *testing.T) {
	e := testEngine()
	tuesday := monday.AddDate(0, 0, 1)
	reference := tuesday.Add(23 * time.Hour)

	// 6 deliveries each on two days, 12 across the range: no target bonus anywhere.
	var orders []models.OrderRecord
	for i := 0; i < 6; i++ {
		orders = append(orders, deliveredOrder("m", 100, monday.Add(time.Duration(11+i)*time.Hour)))
		orders = append(orders, deliveredOrder("t", 100, tuesday.Add(time.Duration(11+i)*time.Hour)))
	}

	summary := e.RangeSummary(orders, monday, monday.AddDate(0, 0, 2), reference)
	assert.Equal(t, 12, summary.TotalDeliveries)
	assert.Equal(t, 0, summary.DaysTargetAchieved)
	assert.Len(t, summary.Days, 2)
	for _, day := range summary.Days {
		assert.False(t, day.DailyTargetAchieved)
	}

	// Move every delivery onto Monday: a single day reaches 12 and earns the bonus once.
	for i := range orders {
		orders[i].DeliveredAt = monday.Add(time.Duration(11+i%6) * time.Hour)
	}
	summary = e.RangeSummary(orders, monday, monday.AddDate(0, 0, 2), reference)
	assert.Equal(t, 1, summary.DaysTargetAchieved)
	assert.Equal(t, summary.Days[0].TotalEarnings+summary.Days[1].TotalEarnings, summary.TotalEarnings)
	assert.Equal(t, 80.0, summary.Days[0].DailyTargetBonus)
}

func TestDailySummary_EmptyInput(t *testing.T) {
	e := testEngine()
	summary := e.DailySummary(nil, monday, monday)

	assert.Equal(t, 0, summary.TotalDeliveries)
	assert.Equal(t, 0.0, summary.TotalEarnings)
	assert.Equal(t, 0.0, summary.AverageEarningsPerDelivery)
	assert.False(t, summary.DailyTargetAchieved)
	assert.Equal(t, 12, summary.DeliveriesNeededForTarget)
}

func TestDailySummary_MixedDayScenario(t *testing.T) {
	e := testEngine()
	peak := monday.Add(8 * time.Hour) // Monday 08:00
	reference := monday.Add(23 * time.Hour)

	orders := []models.OrderRecord{
		deliveredOrder("o1", 250, peak), // free delivery at peak: 25 + 5
		deliveredOrder("o2", 150, peak), // paid delivery at peak: 30 + 5
	}
	summary := e.DailySummary(orders, monday, reference)

	assert.Equal(t, 2, summary.TotalDeliveries)
	assert.Equal(t, 1, summary.FreeDeliveries)
	assert.Equal(t, 1, summary.PaidDeliveries)
	assert.Equal(t, 2, summary.PeakHourDeliveries)
	assert.Equal(t, 0, summary.WeekendDeliveries)
	assert.Equal(t, 55.0, summary.TotalBaseEarnings)
	assert.Equal(t, 10.0, summary.TotalBonuses)
	assert.Equal(t, 0.0, summary.DailyTargetBonus)
	assert.Equal(t, 65.0, summary.TotalEarnings)
	assert.Equal(t, 32.5, summary.AverageEarningsPerDelivery)
}

func TestDailySummary_IgnoresNonDeliveredAndOtherDays(t *testing.T) {
	e := testEngine()
	reference := monday.Add(23 * time.Hour)

	cancelled := deliveredOrder("c1", 100, monday.Add(12*time.Hour))
	cancelled.Status = models.OrderStatusCancelled
	inFlight := deliveredOrder("f1", 100, monday.Add(12*time.Hour))
	inFlight.Status = models.OrderStatusOutForDelivery

	orders := []models.OrderRecord{
		deliveredOrder("o1", 100, monday.Add(12*time.Hour)),
		cancelled,
		inFlight,
		deliveredOrder("o2", 100, monday.AddDate(0, 0, 1).Add(time.Hour)), // next day
		deliveredOrder("o3", 100, monday.Add(-time.Hour)),                 // previous day
	}
	summary := e.DailySummary(orders, monday, reference)
	assert.Equal(t, 1, summary.TotalDeliveries)
}

func TestDailySummary_DoesNotMutateInput(t *testing.T) {
	e := testEngine()
	reference := monday.Add(23 * time.Hour)

	orders := []models.OrderRecord{
		deliveredOrder("o1", 250, monday.Add(8*time.Hour)),
		deliveredOrder("o2", 150, monday.Add(19*time.Hour)),
	}
	before, err := json.Marshal(orders)
	assert.NoError(t, err)

	first := e.DailySummary(orders, monday, reference)
	second := e.DailySummary(orders, monday, reference)
	assert.Equal(t, first, second)

	after, err := json.Marshal(orders)
	assert.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestRangeSummary_BucketsByLocalCalendarDay(t *testing.T) {
	e := testEngine()
	reference := monday.Add(48 * time.Hour)

	// 23:30 Monday and 00:30 Tuesday land in different buckets even though
	// they are an hour apart.
	orders := []models.OrderRecord{
		deliveredOrder("o1", 100, monday.Add(23*time.Hour+30*time.Minute)),
		deliveredOrder("o2", 100, monday.Add(24*time.Hour+30*time.Minute)),
	}
	summary := e.RangeSummary(orders, monday, monday.AddDate(0, 0, 2), reference)

	assert.Len(t, summary.Days, 2)
	assert.Equal(t, 1, summary.Days[0].TotalDeliveries)
	assert.Equal(t, 1, summary.Days[1].TotalDeliveries)
}
