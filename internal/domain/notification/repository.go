package notification

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id string) (*Notification, error)

	// ListVisible returns the area's notifications, newest first,
	// excluding ones dismissed in that area.
	ListVisible(ctx context.Context, area string) ([]Notification, error)

	// Dismiss adds the area to the notification's dismissed set and
	// reports whether the set changed. Dismissing twice is a no-op.
	Dismiss(ctx context.Context, id, area string) (bool, error)

	// MarkAllRead flags the area's visible notifications as read and
	// returns how many rows changed.
	MarkAllRead(ctx context.Context, area string) (int64, error)

	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
