package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/grocito/earnings/internal/factories"
	"github.com/grocito/earnings/internal/models"
	"github.com/grocito/earnings/internal/repositories"
)

// OrderSource supplies a partner's delivered orders for a window. This is the
// "my completed orders" collaborator from the backend's point of view.
type OrderSource interface {
	DeliveredOrders(ctx context.Context, partnerID string, start, end time.Time) ([]models.OrderRecord, error)
}

// FetchResult pairs the fetched orders with where they came from, so callers
// can surface fallback data instead of presenting it as real.
type FetchResult struct {
	Orders []models.OrderRecord
	Origin DataOrigin
}

type PostgresSource struct {
	repo repositories.OrderRepository
}

func NewPostgresSource(repo repositories.OrderRepository) *PostgresSource {
	return &PostgresSource{repo: repo}
}

func (s *PostgresSource) DeliveredOrders(ctx context.Context, partnerID string, start, end time.Time) ([]models.OrderRecord, error) {
	return s.repo.DeliveredByPartner(ctx, partnerID, start, end)
}

// FileSource reads an exported JSON array of order records, the same shape the
// REST backend returns from its completed-orders endpoint.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) DeliveredOrders(ctx context.Context, partnerID string, start, end time.Time) ([]models.OrderRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read orders file %s: %w", s.path, err)
	}

	var all []models.OrderRecord
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("failed to decode orders file %s: %w", s.path, err)
	}

	var orders []models.OrderRecord
	for _, order := range all {
		if partnerID != "" && order.DeliveryPartnerID != partnerID {
			continue
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// PartnerIDs lists the distinct partner ids present in the file, in first-seen
// order, so a run without an explicit partner can cover everyone in the export.
func (s *FileSource) PartnerIDs() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read orders file %s: %w", s.path, err)
	}

	var all []models.OrderRecord
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("failed to decode orders file %s: %w", s.path, err)
	}

	seen := make(map[string]bool)
	var ids []string
	for _, order := range all {
		if order.DeliveryPartnerID == "" || seen[order.DeliveryPartnerID] {
			continue
		}
		seen[order.DeliveryPartnerID] = true
		ids = append(ids, order.DeliveryPartnerID)
	}
	return ids, nil
}

// DemoSource fabricates a plausible delivery history. It backs demo runs and
// the fallback path when a live source is unreachable.
type DemoSource struct {
	factory *factories.OrderFactory
	perDay  int
}

func NewDemoSource(perDay int) *DemoSource {
	return &DemoSource{factory: &factories.OrderFactory{}, perDay: perDay}
}

func (s *DemoSource) DeliveredOrders(ctx context.Context, partnerID string, start, end time.Time) ([]models.OrderRecord, error) {
	return s.factory.CreateDeliveredOrders(partnerID, start, end, s.perDay), nil
}

// ResilientSource tries the primary source and substitutes fabricated data
// when it fails. The substitution is explicit: results carry OriginFallback,
// and the failure is logged rather than masked.
type ResilientSource struct {
	primary  OrderSource
	fallback OrderSource
}

func NewResilientSource(primary, fallback OrderSource) *ResilientSource {
	return &ResilientSource{primary: primary, fallback: fallback}
}

func (s *ResilientSource) Fetch(ctx context.Context, partnerID string, start, end time.Time) (FetchResult, error) {
	orders, err := s.primary.DeliveredOrders(ctx, partnerID, start, end)
	if err == nil {
		return FetchResult{Orders: orders, Origin: OriginLive}, nil
	}

	if s.fallback == nil {
		return FetchResult{}, err
	}

	log.Printf("Order fetch failed for partner %s, using fallback data: %v", partnerID, err)
	orders, ferr := s.fallback.DeliveredOrders(ctx, partnerID, start, end)
	if ferr != nil {
		return FetchResult{}, fmt.Errorf("fallback fetch failed after primary error %v: %w", err, ferr)
	}
	return FetchResult{Orders: orders, Origin: OriginFallback}, nil
}
