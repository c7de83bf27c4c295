package notification

import "errors"

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNothingToDismiss     = errors.New("no notifications to dismiss")
)
