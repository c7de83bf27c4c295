package inventory

import (
	"context"
	"time"
)

type Repository interface {
	CreateItem(ctx context.Context, item *RationItem) error
	GetItem(ctx context.Context, id string) (*RationItem, error)
	UpdateItem(ctx context.Context, item *RationItem) error
	DeleteItem(ctx context.Context, id string) error
	ListInStock(ctx context.Context) ([]RationItem, error)
	ListInStockByArea(ctx context.Context, area string) ([]RationItem, error)
	ListCreatedSince(ctx context.Context, area string, since time.Time) ([]RationItem, error)
	ListByNameInArea(ctx context.Context, nameFragment, area string) ([]RationItem, error)

	// PurchasedItemIDs returns the ids of items that appear in any paid
	// order of the family.
	PurchasedItemIDs(ctx context.Context, familyID string) ([]string, error)

	// DeleteStale removes items older than cutoff with zero stock, plus
	// items whose remaining stock fell below their one-member limit.
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}
