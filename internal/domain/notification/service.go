package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ration-shop-go/internal/metrics"
	"ration-shop-go/pkg/logger"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	log  logger.Logger
}

func NewService(repo Repository, log logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Publish broadcasts a message to every family in the area.
func (s *Service) Publish(ctx context.Context, area, message string) error {
	area = strings.TrimSpace(area)
	message = strings.TrimSpace(message)
	if area == "" || message == "" {
		return fmt.Errorf("area and message are required")
	}

	n := Notification{
		ID:      uuid.NewString(),
		Message: message,
		Area:    area,
	}
	if err := s.repo.Create(ctx, &n); err != nil {
		return err
	}

	metrics.NotificationsPublished.Inc()
	s.log.Debug("notification.publish: broadcast stored", "area", area)
	return nil
}

// ListFor returns the area's visible notifications, newest first.
func (s *Service) ListFor(ctx context.Context, area string) ([]Notification, error) {
	return s.repo.ListVisible(ctx, strings.TrimSpace(area))
}

// Dismiss hides one notification for the area. Repeat dismissals succeed
// without changing anything.
func (s *Service) Dismiss(ctx context.Context, id, area string) error {
	_, err := s.repo.Dismiss(ctx, strings.TrimSpace(id), strings.TrimSpace(area))
	return err
}

// DismissAll hides every visible notification for the area and returns how
// many were hidden. An already-clean area reports ErrNothingToDismiss.
func (s *Service) DismissAll(ctx context.Context, area string) (int, error) {
	area = strings.TrimSpace(area)

	visible, err := s.repo.ListVisible(ctx, area)
	if err != nil {
		return 0, err
	}
	if len(visible) == 0 {
		return 0, ErrNothingToDismiss
	}

	dismissed := 0
	for _, n := range visible {
		changed, err := s.repo.Dismiss(ctx, n.ID, area)
		if err != nil {
			return dismissed, err
		}
		if changed {
			dismissed++
		}
	}
	return dismissed, nil
}

// MarkRead flags the area's visible notifications as read.
func (s *Service) MarkRead(ctx context.Context, area string) (int64, error) {
	return s.repo.MarkAllRead(ctx, strings.TrimSpace(area))
}

// PurgeOlderThan drops notifications past the retention window.
func (s *Service) PurgeOlderThan(ctx context.Context, maxAge time.Duration) (int64, error) {
	return s.repo.DeleteCreatedBefore(ctx, time.Now().UTC().Add(-maxAge))
}

// StartPurgeLoop sweeps aged notifications until ctx is done.
func (s *Service) StartPurgeLoop(ctx context.Context, interval, maxAge time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := s.PurgeOlderThan(ctx, maxAge)
				if err != nil {
					s.log.InternalError("notification.purge: sweep failed", err)
					continue
				}
				if removed > 0 {
					s.log.Info("notification.purge: removed aged notifications", "count", removed)
				}
			}
		}
	}()
}
