package reporter

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/grocito/earnings/internal/earnings"
	"github.com/grocito/earnings/internal/factories"
	"github.com/grocito/earnings/internal/models"
	"github.com/grocito/earnings/internal/repositories"
	"github.com/grocito/earnings/internal/repositories/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/schollz/progressbar/v3"
)

const dayFormat = "2006-01-02"

// Reporter runs the earnings batch: resolve partners, fetch each one's
// delivered orders, push them through the engine and emit the results.
type Reporter struct {
	config      *models.Config
	engine      *earnings.Engine
	source      *ResilientSource
	demoOrigin  bool
	partnerRepo repositories.DeliveryPartnerRepository
	pool        *pgxpool.Pool
}

func New(config *models.Config) (*Reporter, error) {
	loc, err := config.Location()
	if err != nil {
		return nil, err
	}

	r := &Reporter{
		config: config,
		engine: earnings.New(config.Policy, loc),
	}

	if config.Seed != 0 {
		factories.Seed(config.Seed)
	}

	var primary OrderSource
	switch config.Source {
	case "postgres":
		pool, err := pgxpool.New(context.Background(), config.Database.ConnString())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to order store: %w", err)
		}
		r.pool = pool
		r.partnerRepo = postgres.NewDeliveryPartnerRepository(pool)
		primary = NewPostgresSource(postgres.NewOrderRepository(pool))
	case "file":
		primary = NewFileSource(config.InputFile)
	case "demo":
		primary = NewDemoSource(config.DemoOrdersPerDay)
		r.demoOrigin = true
	default:
		return nil, fmt.Errorf("unsupported order source: %s", config.Source)
	}

	var fallback OrderSource
	if config.FallbackEnabled && !r.demoOrigin {
		fallback = NewDemoSource(config.DemoOrdersPerDay)
	}
	r.source = NewResilientSource(primary, fallback)

	return r, nil
}

// Run generates one statement per partner over the configured window. The
// run's start instant is captured once and threaded through every engine call
// so a single report never straddles two "nows".
func (r *Reporter) Run(ctx context.Context) error {
	output, err := r.determineOutputDestination()
	if err != nil {
		return err
	}
	defer func() {
		if err := output.Close(); err != nil {
			log.Printf("Error closing output: %v", err)
		}
	}()

	partners, err := r.resolvePartners(ctx)
	if err != nil {
		return err
	}
	if len(partners) == 0 {
		return fmt.Errorf("no delivery partners to report on")
	}

	reference := time.Now()
	log.Printf("Generating earnings statements for %d partner(s), window %s to %s",
		len(partners),
		r.config.StartDate.Format(dayFormat),
		r.config.EndDate.Format(dayFormat))

	bar := progressbar.Default(int64(len(partners)), "statements")
	for _, partner := range partners {
		if err := r.reportPartner(ctx, output, partner, reference); err != nil {
			return fmt.Errorf("failed to report on partner %s: %w", partner.ID, err)
		}
		if err := bar.Add(1); err != nil {
			log.Printf("Progress update failed: %v", err)
		}
	}

	log.Printf("Earnings run completed at %s", time.Now().UTC().Format(time.RFC3339))
	return nil
}

func (r *Reporter) reportPartner(ctx context.Context, output OutputDestination, partner *models.DeliveryPartner, reference time.Time) error {
	result, err := r.source.Fetch(ctx, partner.ID, r.config.StartDate, r.config.EndDate)
	if err != nil {
		return err
	}
	origin := result.Origin
	if r.demoOrigin {
		origin = OriginDemo
	}

	summary := r.engine.RangeSummary(result.Orders, r.config.StartDate, r.config.EndDate, reference)

	for _, order := range result.Orders {
		if order.Status != models.OrderStatusDelivered {
			continue
		}
		oe := r.engine.OrderEarnings(order, reference)
		event := OrderEarningsEvent{
			BaseEvent:     NewBaseEvent("order_earnings", partner.ID, origin, reference),
			OrderID:       oe.OrderID,
			OrderAmount:   oe.OrderAmount,
			DeliveryType:  oe.DeliveryType,
			BaseEarnings:  oe.BaseEarnings,
			PeakHourBonus: oe.Bonuses[models.BonusPeakHour],
			WeekendBonus:  oe.Bonuses[models.BonusWeekend],
			TotalBonuses:  oe.TotalBonuses,
			TotalEarnings: oe.TotalEarnings,
			CompletedAt:   oe.CompletedAt.Unix(),
		}
		if err := r.emit(output, TopicOrderEarnings, event); err != nil {
			return err
		}
	}

	for _, day := range summary.Days {
		if day.TotalDeliveries == 0 {
			continue
		}
		event := DailyEarningsEvent{
			BaseEvent:                 NewBaseEvent("daily_earnings", partner.ID, origin, reference),
			Day:                       day.Day.Format(dayFormat),
			TotalDeliveries:           int32(day.TotalDeliveries),
			FreeDeliveries:            int32(day.FreeDeliveries),
			PaidDeliveries:            int32(day.PaidDeliveries),
			PeakHourDeliveries:        int32(day.PeakHourDeliveries),
			WeekendDeliveries:         int32(day.WeekendDeliveries),
			TotalBaseEarnings:         day.TotalBaseEarnings,
			TotalBonuses:              day.TotalBonuses,
			DailyTargetBonus:          day.DailyTargetBonus,
			DailyTargetAchieved:       day.DailyTargetAchieved,
			DeliveriesNeededForTarget: int32(day.DeliveriesNeededForTarget),
			TotalEarnings:             day.TotalEarnings,
			AvgEarningsPerDelivery:    day.AverageEarningsPerDelivery,
		}
		if err := r.emit(output, TopicDailyEarnings, event); err != nil {
			return err
		}
	}

	statement := EarningsStatementEvent{
		BaseEvent:              NewBaseEvent("earnings_statement", partner.ID, origin, reference),
		PartnerName:            partner.Name,
		StartDay:               summary.StartDay.Format(dayFormat),
		EndDay:                 summary.EndDay.Format(dayFormat),
		TotalDeliveries:        int32(summary.TotalDeliveries),
		FreeDeliveries:         int32(summary.FreeDeliveries),
		PaidDeliveries:         int32(summary.PaidDeliveries),
		TotalBaseEarnings:      summary.TotalBaseEarnings,
		TotalBonuses:           summary.TotalBonuses,
		DaysTargetAchieved:     int32(summary.DaysTargetAchieved),
		TotalEarnings:          summary.TotalEarnings,
		AvgEarningsPerDelivery: summary.AverageEarningsPerDelivery,
	}
	return r.emit(output, TopicEarningsStatement, statement)
}

func (r *Reporter) emit(output OutputDestination, topic string, event interface{}) error {
	msg, err := marshalEvent(event)
	if err != nil {
		return fmt.Errorf("error serializing %s event: %w", topic, err)
	}
	if err := output.WriteMessage(topic, msg); err != nil {
		return fmt.Errorf("failed to write %s message: %w", topic, err)
	}
	return nil
}

// resolvePartners decides who the run covers: the configured partner, every
// active partner in the store, the distinct partners in the input file, or a
// fabricated fleet for demo runs.
func (r *Reporter) resolvePartners(ctx context.Context) ([]*models.DeliveryPartner, error) {
	if r.config.PartnerID != "" {
		if r.partnerRepo != nil {
			partner, err := r.partnerRepo.GetByID(ctx, r.config.PartnerID)
			if err != nil {
				return nil, err
			}
			return []*models.DeliveryPartner{partner}, nil
		}
		return []*models.DeliveryPartner{{ID: r.config.PartnerID, Status: models.PartnerStatusActive}}, nil
	}

	switch r.config.Source {
	case "postgres":
		return r.partnerRepo.GetAll(ctx)
	case "file":
		ids, err := NewFileSource(r.config.InputFile).PartnerIDs()
		if err != nil {
			return nil, err
		}
		partners := make([]*models.DeliveryPartner, 0, len(ids))
		for _, id := range ids {
			partners = append(partners, &models.DeliveryPartner{ID: id, Status: models.PartnerStatusActive})
		}
		return partners, nil
	default:
		factory := &factories.DeliveryPartnerFactory{}
		partners := make([]*models.DeliveryPartner, 0, r.config.DemoPartners)
		for i := 0; i < r.config.DemoPartners; i++ {
			partners = append(partners, factory.CreateDeliveryPartner(time.Now()))
		}
		return partners, nil
	}
}

// Close releases the database pool when the run used one.
func (r *Reporter) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}
