package reporter

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/grocito/earnings/internal/earnings"
	"github.com/grocito/earnings/internal/models"
	"github.com/stretchr/testify/assert"
)

type memorySink struct {
	messages map[string][][]byte
	closed   bool
}

func newMemorySink() *memorySink {
	return &memorySink{messages: make(map[string][][]byte)}
}

func (m *memorySink) WriteMessage(topic string, msg []byte) error {
	m.messages[topic] = append(m.messages[topic], msg)
	return nil
}

func (m *memorySink) Close() error {
	m.closed = true
	return nil
}

func testConfig(start, end time.Time) *models.Config {
	return &models.Config{
		StartDate: start,
		EndDate:   end,
		Policy:    models.DefaultEarningsPolicy(),
		Source:    "demo",
	}
}

func TestReportPartner_EmitsAllTopics(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)
	reference := monday.AddDate(0, 0, 7)

	amountFree := 250.0
	amountPaid := 150.0
	orders := []models.OrderRecord{
		{ID: "o1", DeliveryPartnerID: "p1", Status: models.OrderStatusDelivered,
			DeliveredAt: monday.Add(8 * time.Hour),
			Items:       []models.OrderItem{{Quantity: 1, Price: &amountFree}}},
		{ID: "o2", DeliveryPartnerID: "p1", Status: models.OrderStatusDelivered,
			DeliveredAt: monday.Add(8 * time.Hour),
			Items:       []models.OrderItem{{Quantity: 1, Price: &amountPaid}}},
		{ID: "o3", DeliveryPartnerID: "p1", Status: models.OrderStatusCancelled,
			DeliveredAt: monday.Add(9 * time.Hour)},
	}

	cfg := testConfig(monday, monday.AddDate(0, 0, 7))
	r := &Reporter{
		config: cfg,
		engine: earnings.New(cfg.Policy, loc),
		source: NewResilientSource(&stubSource{orders: orders}, nil),
	}

	sink := newMemorySink()
	partner := &models.DeliveryPartner{ID: "p1", Name: "Asha Verma"}
	err := r.reportPartner(context.Background(), sink, partner, reference)
	assert.NoError(t, err)

	// cancelled orders produce no earnings event
	assert.Len(t, sink.messages[TopicOrderEarnings], 2)
	assert.Len(t, sink.messages[TopicDailyEarnings], 1)
	assert.Len(t, sink.messages[TopicEarningsStatement], 1)

	var statement EarningsStatementEvent
	assert.NoError(t, json.Unmarshal(sink.messages[TopicEarningsStatement][0], &statement))
	assert.Equal(t, string(OriginLive), statement.DataOrigin)
	assert.Equal(t, "Asha Verma", statement.PartnerName)
	assert.Equal(t, int32(2), statement.TotalDeliveries)
	// 25+5 for the free peak delivery, 30+5 for the paid one
	assert.Equal(t, 65.0, statement.TotalEarnings)
	assert.Equal(t, int32(0), statement.DaysTargetAchieved)

	var daily DailyEarningsEvent
	assert.NoError(t, json.Unmarshal(sink.messages[TopicDailyEarnings][0], &daily))
	assert.Equal(t, "2025-06-02", daily.Day)
	assert.Equal(t, int32(2), daily.PeakHourDeliveries)
	assert.Equal(t, 0.0, daily.DailyTargetBonus)
	assert.Equal(t, 65.0, daily.TotalEarnings)

	var oe OrderEarningsEvent
	assert.NoError(t, json.Unmarshal(sink.messages[TopicOrderEarnings][0], &oe))
	assert.Equal(t, "o1", oe.OrderID)
	assert.Equal(t, models.DeliveryTypeFree, oe.DeliveryType)
	assert.Equal(t, 5.0, oe.PeakHourBonus)
	assert.Equal(t, 30.0, oe.TotalEarnings)
}

func TestReportPartner_FallbackOriginPropagates(t *testing.T) {
	loc := time.UTC
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)
	cfg := testConfig(start, start.AddDate(0, 0, 2))

	r := &Reporter{
		config: cfg,
		engine: earnings.New(cfg.Policy, loc),
		source: NewResilientSource(&stubSource{err: assert.AnError}, NewDemoSource(4)),
	}

	sink := newMemorySink()
	partner := &models.DeliveryPartner{ID: "p1", Name: "Ravi Kumar"}
	err := r.reportPartner(context.Background(), sink, partner, start.AddDate(0, 0, 3))
	assert.NoError(t, err)

	var statement EarningsStatementEvent
	assert.NoError(t, json.Unmarshal(sink.messages[TopicEarningsStatement][0], &statement))
	assert.Equal(t, string(OriginFallback), statement.DataOrigin)
}

func TestResolvePartners_SinglePartnerWithoutStore(t *testing.T) {
	cfg := testConfig(time.Now().AddDate(0, 0, -7), time.Now())
	cfg.PartnerID = "p42"
	r := &Reporter{config: cfg}

	partners, err := r.resolvePartners(context.Background())
	assert.NoError(t, err)
	assert.Len(t, partners, 1)
	assert.Equal(t, "p42", partners[0].ID)
}

func TestResolvePartners_DemoFleet(t *testing.T) {
	cfg := testConfig(time.Now().AddDate(0, 0, -7), time.Now())
	cfg.DemoPartners = 5
	r := &Reporter{config: cfg}

	partners, err := r.resolvePartners(context.Background())
	assert.NoError(t, err)
	assert.Len(t, partners, 5)
	for _, partner := range partners {
		assert.NotEmpty(t, partner.ID)
		assert.Equal(t, models.PartnerStatusActive, partner.Status)
	}
}

func TestDetermineOutputDestination_DefaultsToConsole(t *testing.T) {
	r := &Reporter{config: testConfig(time.Now().AddDate(0, 0, -7), time.Now())}
	output, err := r.determineOutputDestination()
	assert.NoError(t, err)
	assert.IsType(t, &ConsoleOutput{}, output)
}
