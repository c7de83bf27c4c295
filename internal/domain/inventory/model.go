package inventory

import (
	"time"

	"ration-shop-go/internal/domain/family"
)

type RationItem struct {
	ID            string    `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"size:100;not null"`
	Area          string    `gorm:"size:100;not null;index"`
	Price         float64   `gorm:"type:numeric(10,2);not null"`
	TotalQuantity int       `gorm:"not null"`
	Limit1        int       `gorm:"column:limit_1;not null;default:0"`
	Limit2        int       `gorm:"column:limit_2;not null;default:0"`
	Limit3        int       `gorm:"column:limit_3;not null;default:0"`
	Limit4        int       `gorm:"column:limit_4;not null;default:0"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index"`
}

func (RationItem) TableName() string {
	return "ration_items"
}

// LimitForSize selects the purchase limit for a clamped family size. The
// explicit table replaces any field-name lookup by size.
func (i RationItem) LimitForSize(memberCount int) int {
	limits := [family.MaxSizeClass]int{i.Limit1, i.Limit2, i.Limit3, i.Limit4}
	return limits[family.ClampSize(memberCount)-1]
}

// AvailableItem is a ration item paired with the entitlement limit that
// applies to the requesting family. The limit is a per-checkout ceiling, not
// a stock predicate: stock below the limit still lists.
type AvailableItem struct {
	RationItem
	Limit int
}

type CreateItemInput struct {
	Name          string
	Area          string
	Price         float64
	TotalQuantity int
	Limit1        int
	Limit2        int
	Limit3        int
	Limit4        int
}

type UpdateItemInput struct {
	ID            string
	Name          string
	Price         float64
	TotalQuantity int
	Limit1        int
	Limit2        int
	Limit3        int
	Limit4        int
}
