package inventory

import (
	"context"
	"testing"
	"time"

	"ration-shop-go/internal/domain/family"
	"ration-shop-go/pkg/logger"
)

type fakeInventoryRepo struct {
	items     map[string]*RationItem
	purchased map[string][]string
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{
		items:     make(map[string]*RationItem),
		purchased: make(map[string][]string),
	}
}

func (r *fakeInventoryRepo) CreateItem(ctx context.Context, item *RationItem) error {
	copied := *item
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = time.Now().UTC()
	}
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeInventoryRepo) GetItem(ctx context.Context, id string) (*RationItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeInventoryRepo) UpdateItem(ctx context.Context, item *RationItem) error {
	if _, ok := r.items[item.ID]; !ok {
		return ErrItemNotFound
	}
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeInventoryRepo) DeleteItem(ctx context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeInventoryRepo) ListInStock(ctx context.Context) ([]RationItem, error) {
	result := make([]RationItem, 0)
	for _, item := range r.items {
		if item.TotalQuantity > 0 {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *fakeInventoryRepo) ListInStockByArea(ctx context.Context, area string) ([]RationItem, error) {
	result := make([]RationItem, 0)
	for _, item := range r.items {
		if item.Area == area && item.TotalQuantity > 0 {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *fakeInventoryRepo) ListCreatedSince(ctx context.Context, area string, since time.Time) ([]RationItem, error) {
	result := make([]RationItem, 0)
	for _, item := range r.items {
		if item.Area == area && item.TotalQuantity > 0 && !item.CreatedAt.Before(since) {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *fakeInventoryRepo) ListByNameInArea(ctx context.Context, nameFragment, area string) ([]RationItem, error) {
	return r.ListInStockByArea(ctx, area)
}

func (r *fakeInventoryRepo) PurchasedItemIDs(ctx context.Context, familyID string) ([]string, error) {
	return r.purchased[familyID], nil
}

func (r *fakeInventoryRepo) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	for id, item := range r.items {
		exhausted := item.TotalQuantity == 0 && item.CreatedAt.Before(cutoff)
		unviable := item.TotalQuantity > 0 && item.TotalQuantity < item.Limit1
		if exhausted || unviable {
			delete(r.items, id)
			removed++
		}
	}
	return removed, nil
}

type fakeFamilies struct {
	area string
	size int
}

func (f *fakeFamilies) GetFamilyByCode(ctx context.Context, code string) (*family.Family, error) {
	return &family.Family{ID: "fam-1", Code: code, Area: f.area}, nil
}

func (f *fakeFamilies) SizeClass(ctx context.Context, familyID string) (int, error) {
	return f.size, nil
}

type recordingNotifier struct {
	published []string
}

func (n *recordingNotifier) Publish(ctx context.Context, area, message string) error {
	n.published = append(n.published, area+": "+message)
	return nil
}

func newTestService(repo Repository, families FamilyDirectory, notifier Notifier) *Service {
	return NewService(repo, families, notifier, 72*time.Hour, logger.NewFromEnv())
}

func TestAddItemPublishesStockNotice(t *testing.T) {
	repo := newFakeInventoryRepo()
	notifier := &recordingNotifier{}
	svc := newTestService(repo, &fakeFamilies{area: "Anna Nagar", size: 2}, notifier)

	item, err := svc.AddItem(context.Background(), CreateItemInput{
		Name: "Rice", Area: "Anna Nagar", Price: 25.00, TotalQuantity: 100,
		Limit1: 2, Limit2: 4, Limit3: 6, Limit4: 8,
	})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if item.ID == "" {
		t.Fatal("expected generated item id")
	}
	if len(notifier.published) != 1 {
		t.Fatalf("expected one stock notice, got %d", len(notifier.published))
	}
}

func TestAddItemValidation(t *testing.T) {
	svc := newTestService(newFakeInventoryRepo(), &fakeFamilies{}, &recordingNotifier{})

	if _, err := svc.AddItem(context.Background(), CreateItemInput{Name: "", Area: "Anna Nagar", Price: 10}); err == nil {
		t.Fatal("expected error for empty name")
	}
	if _, err := svc.AddItem(context.Background(), CreateItemInput{Name: "Rice", Area: "Anna Nagar", Price: 0}); err == nil {
		t.Fatal("expected error for non-positive price")
	}
}

func TestListAvailableFilters(t *testing.T) {
	repo := newFakeInventoryRepo()
	families := &fakeFamilies{area: "Anna Nagar", size: 2}
	svc := newTestService(repo, families, &recordingNotifier{})
	ctx := context.Background()

	repo.items["in-area"] = &RationItem{ID: "in-area", Name: "Rice", Area: "Anna Nagar", Price: 25, TotalQuantity: 10, Limit1: 2, Limit2: 4}
	repo.items["other-area"] = &RationItem{ID: "other-area", Name: "Rice", Area: "T Nagar", Price: 25, TotalQuantity: 10, Limit1: 2, Limit2: 4}
	repo.items["sold-out"] = &RationItem{ID: "sold-out", Name: "Sugar", Area: "Anna Nagar", Price: 40, TotalQuantity: 0, Limit1: 2, Limit2: 4}
	repo.items["zero-limit"] = &RationItem{ID: "zero-limit", Name: "Oil", Area: "Anna Nagar", Price: 120, TotalQuantity: 10}
	repo.items["bought"] = &RationItem{ID: "bought", Name: "Dal", Area: "Anna Nagar", Price: 90, TotalQuantity: 10, Limit1: 2, Limit2: 4}
	repo.purchased["fam-1"] = []string{"bought"}

	available, size, err := svc.ListAvailable(ctx, "FAM1001")
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if size != 2 {
		t.Fatalf("expected size class 2, got %d", size)
	}
	if len(available) != 1 || available[0].ID != "in-area" {
		t.Fatalf("expected only in-area item, got %+v", available)
	}
	if available[0].Limit != 4 {
		t.Fatalf("expected limit 4 for size 2, got %d", available[0].Limit)
	}
}

func TestListAvailableLowStockStillListed(t *testing.T) {
	repo := newFakeInventoryRepo()
	svc := newTestService(repo, &fakeFamilies{area: "Anna Nagar", size: 4}, &recordingNotifier{})

	// one unit left, limit 8: the limit is a ceiling, not a stock predicate
	repo.items["low"] = &RationItem{ID: "low", Name: "Rice", Area: "Anna Nagar", Price: 25, TotalQuantity: 1, Limit1: 2, Limit2: 4, Limit3: 6, Limit4: 8}

	available, _, err := svc.ListAvailable(context.Background(), "FAM1001")
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if len(available) != 1 || available[0].Limit != 8 {
		t.Fatalf("expected low-stock item listed with limit 8, got %+v", available)
	}
}

func TestLimitForSize(t *testing.T) {
	item := RationItem{Limit1: 1, Limit2: 2, Limit3: 3, Limit4: 4}

	cases := []struct {
		members int
		want    int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{4, 4},
		{7, 4},
	}
	for _, tc := range cases {
		if got := item.LimitForSize(tc.members); got != tc.want {
			t.Errorf("LimitForSize(%d) = %d, want %d", tc.members, got, tc.want)
		}
	}
}

func TestPurgeStale(t *testing.T) {
	repo := newFakeInventoryRepo()
	svc := newTestService(repo, &fakeFamilies{}, &recordingNotifier{})

	old := time.Now().Add(-100 * time.Hour)
	repo.items["aged-empty"] = &RationItem{ID: "aged-empty", Name: "Rice", TotalQuantity: 0, CreatedAt: old}
	repo.items["fresh-empty"] = &RationItem{ID: "fresh-empty", Name: "Sugar", TotalQuantity: 0, CreatedAt: time.Now()}
	repo.items["residue"] = &RationItem{ID: "residue", Name: "Oil", TotalQuantity: 1, Limit1: 2, CreatedAt: time.Now()}
	repo.items["healthy"] = &RationItem{ID: "healthy", Name: "Dal", TotalQuantity: 50, Limit1: 2, CreatedAt: old}

	removed, err := svc.PurgeStale(context.Background())
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if _, ok := repo.items["healthy"]; !ok {
		t.Fatal("healthy stock must survive the sweep")
	}
	if _, ok := repo.items["fresh-empty"]; !ok {
		t.Fatal("recently exhausted stock must survive until it ages out")
	}
}
