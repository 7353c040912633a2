package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/grocito/earnings/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresOutput persists earnings events into statement tables so the
// dashboards can query payouts without recomputing them per page load.
type PostgresOutput struct {
	pool *pgxpool.Pool
}

func NewPostgresOutput(config models.DatabaseConfig) (*PostgresOutput, error) {
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, config.ConnString())
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	out := &PostgresOutput{pool: pool}
	if err := out.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return out, nil
}

func (p *PostgresOutput) ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS order_earnings (
            order_id TEXT PRIMARY KEY,
            partner_id TEXT NOT NULL,
            data_origin TEXT NOT NULL,
            order_amount NUMERIC(12,2) NOT NULL,
            delivery_type TEXT NOT NULL,
            base_earnings NUMERIC(12,2) NOT NULL,
            peak_hour_bonus NUMERIC(12,2) NOT NULL,
            weekend_bonus NUMERIC(12,2) NOT NULL,
            total_bonuses NUMERIC(12,2) NOT NULL,
            total_earnings NUMERIC(12,2) NOT NULL,
            completed_at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS daily_earnings (
            partner_id TEXT NOT NULL,
            day DATE NOT NULL,
            data_origin TEXT NOT NULL,
            total_deliveries INT NOT NULL,
            free_deliveries INT NOT NULL,
            paid_deliveries INT NOT NULL,
            peak_hour_deliveries INT NOT NULL,
            weekend_deliveries INT NOT NULL,
            total_base_earnings NUMERIC(12,2) NOT NULL,
            total_bonuses NUMERIC(12,2) NOT NULL,
            daily_target_bonus NUMERIC(12,2) NOT NULL,
            daily_target_achieved BOOLEAN NOT NULL,
            deliveries_needed_for_target INT NOT NULL,
            total_earnings NUMERIC(12,2) NOT NULL,
            avg_earnings_per_delivery NUMERIC(12,2) NOT NULL,
            PRIMARY KEY (partner_id, day)
        )`,
		`CREATE TABLE IF NOT EXISTS earnings_statements (
            partner_id TEXT NOT NULL,
            start_day DATE NOT NULL,
            end_day DATE NOT NULL,
            data_origin TEXT NOT NULL,
            partner_name TEXT NOT NULL,
            total_deliveries INT NOT NULL,
            free_deliveries INT NOT NULL,
            paid_deliveries INT NOT NULL,
            total_base_earnings NUMERIC(12,2) NOT NULL,
            total_bonuses NUMERIC(12,2) NOT NULL,
            days_target_achieved INT NOT NULL,
            total_earnings NUMERIC(12,2) NOT NULL,
            avg_earnings_per_delivery NUMERIC(12,2) NOT NULL,
            generated_at TIMESTAMPTZ NOT NULL,
            PRIMARY KEY (partner_id, start_day, end_day)
        )`,
	}

	for _, stmt := range statements {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure statement tables: %w", err)
		}
	}
	return nil
}

func (p *PostgresOutput) WriteMessage(topic string, msg []byte) error {
	ctx := context.Background()

	switch topic {
	case TopicOrderEarnings:
		var event OrderEarningsEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			return err
		}
		return p.insertOrderEarnings(ctx, event)
	case TopicDailyEarnings:
		var event DailyEarningsEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			return err
		}
		return p.insertDailyEarnings(ctx, event)
	case TopicEarningsStatement:
		var event EarningsStatementEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			return err
		}
		return p.insertStatement(ctx, event)
	default:
		return fmt.Errorf("unknown topic: %s", topic)
	}
}

func (p *PostgresOutput) insertOrderEarnings(ctx context.Context, event OrderEarningsEvent) error {
	query := `
        INSERT INTO order_earnings (
            order_id, partner_id, data_origin, order_amount, delivery_type,
            base_earnings, peak_hour_bonus, weekend_bonus, total_bonuses,
            total_earnings, completed_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        ON CONFLICT (order_id) DO UPDATE SET
            data_origin = EXCLUDED.data_origin,
            order_amount = EXCLUDED.order_amount,
            delivery_type = EXCLUDED.delivery_type,
            base_earnings = EXCLUDED.base_earnings,
            peak_hour_bonus = EXCLUDED.peak_hour_bonus,
            weekend_bonus = EXCLUDED.weekend_bonus,
            total_bonuses = EXCLUDED.total_bonuses,
            total_earnings = EXCLUDED.total_earnings,
            completed_at = EXCLUDED.completed_at
    `
	_, err := p.pool.Exec(ctx, query,
		event.OrderID,
		event.PartnerID,
		event.DataOrigin,
		event.OrderAmount,
		event.DeliveryType,
		event.BaseEarnings,
		event.PeakHourBonus,
		event.WeekendBonus,
		event.TotalBonuses,
		event.TotalEarnings,
		time.Unix(event.CompletedAt, 0),
	)
	if err != nil {
		return fmt.Errorf("failed to insert into order_earnings: %w", err)
	}
	return nil
}

func (p *PostgresOutput) insertDailyEarnings(ctx context.Context, event DailyEarningsEvent) error {
	query := `
        INSERT INTO daily_earnings (
            partner_id, day, data_origin, total_deliveries, free_deliveries,
            paid_deliveries, peak_hour_deliveries, weekend_deliveries,
            total_base_earnings, total_bonuses, daily_target_bonus,
            daily_target_achieved, deliveries_needed_for_target,
            total_earnings, avg_earnings_per_delivery
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
        ON CONFLICT (partner_id, day) DO UPDATE SET
            data_origin = EXCLUDED.data_origin,
            total_deliveries = EXCLUDED.total_deliveries,
            free_deliveries = EXCLUDED.free_deliveries,
            paid_deliveries = EXCLUDED.paid_deliveries,
            peak_hour_deliveries = EXCLUDED.peak_hour_deliveries,
            weekend_deliveries = EXCLUDED.weekend_deliveries,
            total_base_earnings = EXCLUDED.total_base_earnings,
            total_bonuses = EXCLUDED.total_bonuses,
            daily_target_bonus = EXCLUDED.daily_target_bonus,
            daily_target_achieved = EXCLUDED.daily_target_achieved,
            deliveries_needed_for_target = EXCLUDED.deliveries_needed_for_target,
            total_earnings = EXCLUDED.total_earnings,
            avg_earnings_per_delivery = EXCLUDED.avg_earnings_per_delivery
    `
	_, err := p.pool.Exec(ctx, query,
		event.PartnerID,
		event.Day,
		event.DataOrigin,
		event.TotalDeliveries,
		event.FreeDeliveries,
		event.PaidDeliveries,
		event.PeakHourDeliveries,
		event.WeekendDeliveries,
		event.TotalBaseEarnings,
		event.TotalBonuses,
		event.DailyTargetBonus,
		event.DailyTargetAchieved,
		event.DeliveriesNeededForTarget,
		event.TotalEarnings,
		event.AvgEarningsPerDelivery,
	)
	if err != nil {
		return fmt.Errorf("failed to insert into daily_earnings: %w", err)
	}
	return nil
}

func (p *PostgresOutput) insertStatement(ctx context.Context, event EarningsStatementEvent) error {
	query := `
        INSERT INTO earnings_statements (
            partner_id, start_day, end_day, data_origin, partner_name,
            total_deliveries, free_deliveries, paid_deliveries,
            total_base_earnings, total_bonuses, days_target_achieved,
            total_earnings, avg_earnings_per_delivery, generated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        ON CONFLICT (partner_id, start_day, end_day) DO UPDATE SET
            data_origin = EXCLUDED.data_origin,
            partner_name = EXCLUDED.partner_name,
            total_deliveries = EXCLUDED.total_deliveries,
            free_deliveries = EXCLUDED.free_deliveries,
            paid_deliveries = EXCLUDED.paid_deliveries,
            total_base_earnings = EXCLUDED.total_base_earnings,
            total_bonuses = EXCLUDED.total_bonuses,
            days_target_achieved = EXCLUDED.days_target_achieved,
            total_earnings = EXCLUDED.total_earnings,
            avg_earnings_per_delivery = EXCLUDED.avg_earnings_per_delivery,
            generated_at = EXCLUDED.generated_at
    `
	_, err := p.pool.Exec(ctx, query,
		event.PartnerID,
		event.StartDay,
		event.EndDay,
		event.DataOrigin,
		event.PartnerName,
		event.TotalDeliveries,
		event.FreeDeliveries,
		event.PaidDeliveries,
		event.TotalBaseEarnings,
		event.TotalBonuses,
		event.DaysTargetAchieved,
		event.TotalEarnings,
		event.AvgEarningsPerDelivery,
		time.Unix(event.Timestamp, 0),
	)
	if err != nil {
		return fmt.Errorf("failed to insert into earnings_statements: %w", err)
	}
	return nil
}

func (p *PostgresOutput) Close() error {
	p.pool.Close()
	return nil
}
