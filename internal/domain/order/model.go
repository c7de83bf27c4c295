package order

import "time"

// Payment status values. Immutable once paid or failed.
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusFailed  = "failed"
)

// PaymentFlow names the two supported checkout variants: the immediate flow
// commits the order as paid, the deferred flow leaves it pending for a later
// confirmation step.
type PaymentFlow string

const (
	FlowImmediate PaymentFlow = "immediate"
	FlowDeferred  PaymentFlow = "deferred"
)

const tokenLength = 8

type Order struct {
	ID            string    `gorm:"type:uuid;primaryKey"`
	FamilyID      string    `gorm:"type:uuid;not null;index"`
	Token         string    `gorm:"size:20;not null;uniqueIndex"`
	TotalPrice    float64   `gorm:"type:numeric(10,2);not null"`
	OTPCode       string    `gorm:"column:otp_code;size:6;not null"`
	PaymentStatus string    `gorm:"size:20;not null;default:pending"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`

	Items []OrderItem `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

type OrderItem struct {
	ID       string `gorm:"type:uuid;primaryKey"`
	OrderID  string `gorm:"type:uuid;not null;index"`
	ItemID   string `gorm:"type:uuid;not null;index"`
	ItemName string `gorm:"size:100;not null"`
	Quantity int    `gorm:"not null"`
	// UnitPrice is captured at order time so historical invoices survive
	// later price edits.
	UnitPrice float64 `gorm:"type:numeric(10,2);not null"`
	Position  int     `gorm:"not null"`
}

// OrderableItem is the projection of a ration item the engine needs while
// committing an order.
type OrderableItem struct {
	ID            string
	Name          string
	Area          string
	Price         float64
	TotalQuantity int
}

// Summary pairs an order with its family identity for admin views.
type Summary struct {
	Order
	FamilyCode string
	Area       string
}

type Line struct {
	ItemID   string
	Quantity int
}

type PlaceOrderInput struct {
	FamilyCode string
	Email      string
	OTPCode    string
	Flow       PaymentFlow
	Lines      []Line
}
