package notification

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is an area-scoped broadcast. Area is the audience;
// DismissedAreas records audiences that cleared it, so a dismissal in one
// area never hides the message from another.
type Notification struct {
	ID             string                        `gorm:"type:uuid;primaryKey"`
	Message        string                        `gorm:"size:255;not null"`
	Area           string                        `gorm:"size:100;not null;index"`
	DismissedAreas datatypes.JSONSlice[string]   `gorm:"not null"`
	Read           bool                          `gorm:"not null;default:false"`
	CreatedAt      time.Time                     `gorm:"autoCreateTime;index"`
}

// DismissedIn reports whether the notification was cleared for the area.
func (n *Notification) DismissedIn(area string) bool {
	for _, a := range n.DismissedAreas {
		if a == area {
			return true
		}
	}
	return false
}
