package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"ration-shop-go/pkg/logger"
)

type fakeNotificationRepo struct {
	records []*Notification
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *Notification) error {
	copied := *n
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = time.Now().UTC()
	}
	r.records = append(r.records, &copied)
	return nil
}

func (r *fakeNotificationRepo) GetByID(ctx context.Context, id string) (*Notification, error) {
	for _, n := range r.records {
		if n.ID == id {
			copied := *n
			return &copied, nil
		}
	}
	return nil, ErrNotificationNotFound
}

func (r *fakeNotificationRepo) ListVisible(ctx context.Context, area string) ([]Notification, error) {
	visible := make([]Notification, 0)
	for _, n := range r.records {
		if n.Area == area && !n.DismissedIn(area) {
			visible = append(visible, *n)
		}
	}
	return visible, nil
}

func (r *fakeNotificationRepo) Dismiss(ctx context.Context, id, area string) (bool, error) {
	for _, n := range r.records {
		if n.ID != id {
			continue
		}
		if n.DismissedIn(area) {
			return false, nil
		}
		n.DismissedAreas = append(n.DismissedAreas, area)
		return true, nil
	}
	return false, ErrNotificationNotFound
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, area string) (int64, error) {
	var count int64
	for _, n := range r.records {
		if n.Area == area && !n.Read {
			n.Read = true
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	kept := make([]*Notification, 0, len(r.records))
	var removed int64
	for _, n := range r.records {
		if n.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	r.records = kept
	return removed, nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, logger.NewFromEnv())
}

func TestPublishAndList(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	if err := svc.Publish(ctx, "Anna Nagar", "New stock for Rice is available in your area!"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := svc.Publish(ctx, "T Nagar", "New stock for Oil is available in your area!"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	visible, err := svc.ListFor(ctx, "Anna Nagar")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(visible) != 1 || visible[0].Area != "Anna Nagar" {
		t.Fatalf("expected one Anna Nagar notification, got %+v", visible)
	}
}

func TestPublishRequiresAreaAndMessage(t *testing.T) {
	svc := newTestService(&fakeNotificationRepo{})

	if err := svc.Publish(context.Background(), "", "message"); err == nil {
		t.Fatal("expected error for empty area")
	}
	if err := svc.Publish(context.Background(), "Anna Nagar", "  "); err == nil {
		t.Fatal("expected error for empty message")
	}
}

func TestDismissIsIdempotent(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	if err := svc.Publish(ctx, "Anna Nagar", "hello"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	id := repo.records[0].ID

	if err := svc.Dismiss(ctx, id, "Anna Nagar"); err != nil {
		t.Fatalf("first dismiss: %v", err)
	}
	if err := svc.Dismiss(ctx, id, "Anna Nagar"); err != nil {
		t.Fatalf("repeat dismiss should succeed, got %v", err)
	}

	visible, _ := svc.ListFor(ctx, "Anna Nagar")
	if len(visible) != 0 {
		t.Fatalf("expected nothing visible, got %d", len(visible))
	}
}

func TestDismissScopedToArea(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	if err := svc.Publish(ctx, "Anna Nagar", "hello"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	id := repo.records[0].ID

	// a dismissal recorded for another audience must not hide the message
	// from its own area
	if _, err := repo.Dismiss(ctx, id, "T Nagar"); err != nil {
		t.Fatalf("dismiss other area: %v", err)
	}

	visible, _ := svc.ListFor(ctx, "Anna Nagar")
	if len(visible) != 1 {
		t.Fatalf("expected notification still visible in its area, got %d", len(visible))
	}
}

func TestDismissAll(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.Publish(ctx, "Anna Nagar", "hello"); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	count, err := svc.DismissAll(ctx, "Anna Nagar")
	if err != nil {
		t.Fatalf("dismiss all: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 dismissed, got %d", count)
	}

	if _, err := svc.DismissAll(ctx, "Anna Nagar"); !errors.Is(err, ErrNothingToDismiss) {
		t.Fatalf("expected ErrNothingToDismiss, got %v", err)
	}
}

func TestMarkRead(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	if err := svc.Publish(ctx, "Anna Nagar", "hello"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	count, err := svc.MarkRead(ctx, "Anna Nagar")
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 updated, got %d", count)
	}

	visible, _ := svc.ListFor(ctx, "Anna Nagar")
	if len(visible) != 1 || !visible[0].Read {
		t.Fatal("read notifications stay visible until dismissed")
	}
}

func TestPurgeOlderThan(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	repo.records = append(repo.records, &Notification{ID: "old", Area: "Anna Nagar", Message: "aged", CreatedAt: time.Now().Add(-100 * time.Hour)})
	if err := svc.Publish(ctx, "Anna Nagar", "fresh"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	removed, err := svc.PurgeOlderThan(ctx, 72*time.Hour)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
}
