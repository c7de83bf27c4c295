package notification

import (
	"context"
	"errors"
	"time"

	notificationdomain "ration-shop-go/internal/domain/notification"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const dismissAttempts = 3

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, n *notificationdomain.Notification) error {
	if n.DismissedAreas == nil {
		n.DismissedAreas = []string{}
	}
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*notificationdomain.Notification, error) {
	var n notificationdomain.Notification
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notificationdomain.ErrNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}

// ListVisible filters dismissed rows in Go. The dismissed set is a JSON
// column and per-area audiences are small, so a portable scan beats a
// dialect-specific JSON containment predicate.
func (r *PostgresRepository) ListVisible(ctx context.Context, area string) ([]notificationdomain.Notification, error) {
	var rows []notificationdomain.Notification
	if err := r.db.WithContext(ctx).
		Where("area = ?", area).
		Order("created_at desc").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	visible := make([]notificationdomain.Notification, 0, len(rows))
	for _, n := range rows {
		if !n.DismissedIn(area) {
			visible = append(visible, n)
		}
	}
	return visible, nil
}

// Dismiss extends the dismissed set with an optimistic read-modify-write: the
// UPDATE only applies if the set is still the one we read, and a lost race is
// retried against the fresh row.
func (r *PostgresRepository) Dismiss(ctx context.Context, id, area string) (bool, error) {
	for attempt := 0; attempt < dismissAttempts; attempt++ {
		n, err := r.GetByID(ctx, id)
		if err != nil {
			return false, err
		}
		if n.DismissedIn(area) {
			return false, nil
		}

		updated := datatypes.JSONSlice[string](append(append([]string{}, n.DismissedAreas...), area))
		res := r.db.WithContext(ctx).Model(&notificationdomain.Notification{}).
			Where("id = ? AND dismissed_areas = ?", id, n.DismissedAreas).
			Update("dismissed_areas", updated)
		if res.Error != nil {
			return false, res.Error
		}
		if res.RowsAffected > 0 {
			return true, nil
		}
	}
	return false, errors.New("dismiss: concurrent updates exhausted retries")
}

func (r *PostgresRepository) MarkAllRead(ctx context.Context, area string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&notificationdomain.Notification{}).
		Where("area = ? AND read = ?", area, false).
		Update("read", true)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *PostgresRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&notificationdomain.Notification{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
