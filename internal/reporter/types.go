package reporter

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/xitongsys/parquet-go/schema"
)

const (
	TopicOrderEarnings     = "order_earnings_events"
	TopicDailyEarnings     = "daily_earnings_events"
	TopicEarningsStatement = "earnings_statement_events"
)

// DataOrigin tags whether a statement was computed from live backend data or
// from fabricated fallback data. Fallback output is never presented as live.
type DataOrigin string

const (
	OriginLive     DataOrigin = "live"
	OriginFallback DataOrigin = "fallback"
	OriginDemo     DataOrigin = "demo"
)

// BaseEvent is the common structure for all earnings events
type BaseEvent struct {
	Timestamp  int64  `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	EventType  string `json:"eventType" parquet:"name=eventType,type=BYTE_ARRAY,convertedtype=UTF8"`
	PartnerID  string `json:"partnerId" parquet:"name=partnerId,type=BYTE_ARRAY,convertedtype=UTF8"`
	DataOrigin string `json:"dataOrigin" parquet:"name=dataOrigin,type=BYTE_ARRAY,convertedtype=UTF8"`
}

// OrderEarningsEvent is the per-order payout breakdown
type OrderEarningsEvent struct {
	BaseEvent
	OrderID       string  `json:"orderId" parquet:"name=orderId,type=BYTE_ARRAY,convertedtype=UTF8"`
	OrderAmount   float64 `json:"orderAmount" parquet:"name=orderAmount,type=DOUBLE"`
	DeliveryType  string  `json:"deliveryType" parquet:"name=deliveryType,type=BYTE_ARRAY,convertedtype=UTF8"`
	BaseEarnings  float64 `json:"baseEarnings" parquet:"name=baseEarnings,type=DOUBLE"`
	PeakHourBonus float64 `json:"peakHourBonus" parquet:"name=peakHourBonus,type=DOUBLE"`
	WeekendBonus  float64 `json:"weekendBonus" parquet:"name=weekendBonus,type=DOUBLE"`
	TotalBonuses  float64 `json:"totalBonuses" parquet:"name=totalBonuses,type=DOUBLE"`
	TotalEarnings float64 `json:"totalEarnings" parquet:"name=totalEarnings,type=DOUBLE"`
	CompletedAt   int64   `json:"completedAt" parquet:"name=completedAt,type=INT64"`
}

// DailyEarningsEvent is one partner-day aggregate
type DailyEarningsEvent struct {
	BaseEvent
	Day                       string  `json:"day" parquet:"name=day,type=BYTE_ARRAY,convertedtype=UTF8"`
	TotalDeliveries           int32   `json:"totalDeliveries" parquet:"name=totalDeliveries,type=INT32"`
	FreeDeliveries            int32   `json:"freeDeliveries" parquet:"name=freeDeliveries,type=INT32"`
	PaidDeliveries            int32   `json:"paidDeliveries" parquet:"name=paidDeliveries,type=INT32"`
	PeakHourDeliveries        int32   `json:"peakHourDeliveries" parquet:"name=peakHourDeliveries,type=INT32"`
	WeekendDeliveries         int32   `json:"weekendDeliveries" parquet:"name=weekendDeliveries,type=INT32"`
	TotalBaseEarnings         float64 `json:"totalBaseEarnings" parquet:"name=totalBaseEarnings,type=DOUBLE"`
	TotalBonuses              float64 `json:"totalBonuses" parquet:"name=totalBonuses,type=DOUBLE"`
	DailyTargetBonus          float64 `json:"dailyTargetBonus" parquet:"name=dailyTargetBonus,type=DOUBLE"`
	DailyTargetAchieved       bool    `json:"dailyTargetAchieved" parquet:"name=dailyTargetAchieved,type=BOOLEAN"`
	DeliveriesNeededForTarget int32   `json:"deliveriesNeededForTarget" parquet:"name=deliveriesNeededForTarget,type=INT32"`
	TotalEarnings             float64 `json:"totalEarnings" parquet:"name=totalEarnings,type=DOUBLE"`
	AvgEarningsPerDelivery    float64 `json:"avgEarningsPerDelivery" parquet:"name=avgEarningsPerDelivery,type=DOUBLE"`
}

// EarningsStatementEvent is the per-partner range statement
type EarningsStatementEvent struct {
	BaseEvent
	PartnerName            string  `json:"partnerName" parquet:"name=partnerName,type=BYTE_ARRAY,convertedtype=UTF8"`
	StartDay               string  `json:"startDay" parquet:"name=startDay,type=BYTE_ARRAY,convertedtype=UTF8"`
	EndDay                 string  `json:"endDay" parquet:"name=endDay,type=BYTE_ARRAY,convertedtype=UTF8"`
	TotalDeliveries        int32   `json:"totalDeliveries" parquet:"name=totalDeliveries,type=INT32"`
	FreeDeliveries         int32   `json:"freeDeliveries" parquet:"name=freeDeliveries,type=INT32"`
	PaidDeliveries         int32   `json:"paidDeliveries" parquet:"name=paidDeliveries,type=INT32"`
	TotalBaseEarnings      float64 `json:"totalBaseEarnings" parquet:"name=totalBaseEarnings,type=DOUBLE"`
	TotalBonuses           float64 `json:"totalBonuses" parquet:"name=totalBonuses,type=DOUBLE"`
	DaysTargetAchieved     int32   `json:"daysTargetAchieved" parquet:"name=daysTargetAchieved,type=INT32"`
	TotalEarnings          float64 `json:"totalEarnings" parquet:"name=totalEarnings,type=DOUBLE"`
	AvgEarningsPerDelivery float64 `json:"avgEarningsPerDelivery" parquet:"name=avgEarningsPerDelivery,type=DOUBLE"`
}

func GetSchema(topic string) (*schema.SchemaHandler, error) {
	var sh *schema.SchemaHandler
	var err error

	switch topic {
	case TopicOrderEarnings:
		sh, err = schema.NewSchemaHandlerFromStruct(new(OrderEarningsEvent))
	case TopicDailyEarnings:
		sh, err = schema.NewSchemaHandlerFromStruct(new(DailyEarningsEvent))
	case TopicEarningsStatement:
		sh, err = schema.NewSchemaHandlerFromStruct(new(EarningsStatementEvent))
	default:
		return nil, fmt.Errorf("unknown topic: %s", topic)
	}

	if err != nil {
		log.Printf("Error creating schema for %s: %v", topic, err)
		return nil, fmt.Errorf("error creating schema for %s: %w", topic, err)
	}

	return sh, nil
}

func NewBaseEvent(eventType, partnerID string, origin DataOrigin, timestamp time.Time) BaseEvent {
	return BaseEvent{
		Timestamp:  timestamp.Unix(),
		EventType:  eventType,
		PartnerID:  partnerID,
		DataOrigin: string(origin),
	}
}

func marshalEvent(event interface{}) ([]byte, error) {
	return json.Marshal(event)
}
