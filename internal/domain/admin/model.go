package admin

import "time"

type Admin struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"size:100;not null;uniqueIndex"`
	PasswordHash string    `gorm:"size:100;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}
