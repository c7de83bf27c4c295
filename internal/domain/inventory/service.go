package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ration-shop-go/internal/domain/family"
	"ration-shop-go/internal/metrics"
	"ration-shop-go/pkg/logger"

	"github.com/google/uuid"
)

// FamilyDirectory resolves families for the stock read path.
type FamilyDirectory interface {
	GetFamilyByCode(ctx context.Context, code string) (*family.Family, error)
	SizeClass(ctx context.Context, familyID string) (int, error)
}

// Notifier publishes an area-scoped notice when new stock arrives.
type Notifier interface {
	Publish(ctx context.Context, area, message string) error
}

type Service struct {
	repo       Repository
	families   FamilyDirectory
	notifier   Notifier
	itemMaxAge time.Duration
	log        logger.Logger
}

func NewService(repo Repository, families FamilyDirectory, notifier Notifier, itemMaxAge time.Duration, log logger.Logger) *Service {
	if itemMaxAge == 0 {
		itemMaxAge = 72 * time.Hour
	}
	return &Service{
		repo:       repo,
		families:   families,
		notifier:   notifier,
		itemMaxAge: itemMaxAge,
		log:        log,
	}
}

// AddItem creates a ration item and publishes a stock-arrival notice for the
// item's area. Item creation and the notice are one logical operation; a
// failed publish does not undo the created item.
func (s *Service) AddItem(ctx context.Context, input CreateItemInput) (*RationItem, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Area = strings.TrimSpace(input.Area)
	if input.Name == "" || input.Area == "" {
		return nil, fmt.Errorf("name and area are required")
	}
	if input.Price <= 0 || input.TotalQuantity < 0 {
		return nil, fmt.Errorf("price must be positive and quantity non-negative")
	}

	item := RationItem{
		ID:            uuid.NewString(),
		Name:          input.Name,
		Area:          input.Area,
		Price:         input.Price,
		TotalQuantity: input.TotalQuantity,
		Limit1:        input.Limit1,
		Limit2:        input.Limit2,
		Limit3:        input.Limit3,
		Limit4:        input.Limit4,
	}
	if err := s.repo.CreateItem(ctx, &item); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("New stock for %s is available in your area!", item.Name)
	if err := s.notifier.Publish(ctx, item.Area, message); err != nil {
		s.log.InternalError("inventory.add_item: stock notice publish failed", err, "item_id", item.ID, "area", item.Area)
	}

	return &item, nil
}

func (s *Service) GetItem(ctx context.Context, id string) (*RationItem, error) {
	return s.repo.GetItem(ctx, id)
}

func (s *Service) UpdateItem(ctx context.Context, input UpdateItemInput) (*RationItem, error) {
	item, err := s.repo.GetItem(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		item.Name = name
	}
	if input.Price > 0 {
		item.Price = input.Price
	}
	if input.TotalQuantity >= 0 {
		item.TotalQuantity = input.TotalQuantity
	}
	item.Limit1 = input.Limit1
	item.Limit2 = input.Limit2
	item.Limit3 = input.Limit3
	item.Limit4 = input.Limit4

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) DeleteItem(ctx context.Context, id string) error {
	return s.repo.DeleteItem(ctx, id)
}

// AdminStock lists every item with stock remaining, across all areas.
func (s *Service) AdminStock(ctx context.Context) ([]RationItem, error) {
	return s.repo.ListInStock(ctx)
}

// ListAvailable computes the items a family may still buy: area match, stock
// remaining, not already bought in a paid order, and a non-zero limit for the
// family's size class. Quantity adequacy is re-checked at order time, not
// here.
func (s *Service) ListAvailable(ctx context.Context, familyCode string) ([]AvailableItem, int, error) {
	fam, err := s.families.GetFamilyByCode(ctx, familyCode)
	if err != nil {
		return nil, 0, err
	}

	size, err := s.families.SizeClass(ctx, fam.ID)
	if err != nil {
		return nil, 0, err
	}

	items, err := s.repo.ListInStockByArea(ctx, fam.Area)
	if err != nil {
		return nil, 0, err
	}

	purchased, err := s.repo.PurchasedItemIDs(ctx, fam.ID)
	if err != nil {
		return nil, 0, err
	}
	purchasedSet := make(map[string]struct{}, len(purchased))
	for _, id := range purchased {
		purchasedSet[id] = struct{}{}
	}

	available := make([]AvailableItem, 0, len(items))
	for _, item := range items {
		if _, ok := purchasedSet[item.ID]; ok {
			continue
		}
		limit := item.LimitForSize(size)
		if limit == 0 {
			continue
		}
		available = append(available, AvailableItem{RationItem: item, Limit: limit})
	}

	return available, size, nil
}

// AreaStock lists every in-stock item in an area.
func (s *Service) AreaStock(ctx context.Context, area string) ([]RationItem, error) {
	return s.repo.ListInStockByArea(ctx, area)
}

// RecentItems lists items added to an area within the window.
func (s *Service) RecentItems(ctx context.Context, area string, window time.Duration) ([]RationItem, error) {
	return s.repo.ListCreatedSince(ctx, area, time.Now().UTC().Add(-window))
}

// FindByName matches items in an area by a case-insensitive name fragment.
func (s *Service) FindByName(ctx context.Context, nameFragment, area string) ([]RationItem, error) {
	return s.repo.ListByNameInArea(ctx, nameFragment, area)
}

// PurgeStale removes exhausted items past their age limit and unviable
// residue below the one-member limit.
func (s *Service) PurgeStale(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-s.itemMaxAge)
	count, err := s.repo.DeleteStale(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		metrics.StaleItemsPurged.Add(float64(count))
	}
	return count, nil
}

// StartPurgeLoop runs the stale-item sweep on a ticker until ctx is done.
func (s *Service) StartPurgeLoop(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				count, err := s.PurgeStale(ctx)
				if err != nil {
					s.log.InternalError("inventory.purge: sweep failed", err)
					continue
				}
				if count > 0 {
					s.log.Info("inventory.purge: stale items removed", "count", count)
				}
			}
		}
	}()
}
