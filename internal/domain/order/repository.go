package order

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	// GetOrderableItems resolves the engine's projection of the requested
	// ration items.
	GetOrderableItems(ctx context.Context, ids []string) ([]OrderableItem, error)

	// DecrementStock subtracts quantity from an item's stock only when
	// enough remains, and reports whether the decrement happened. The
	// guard and the write are one atomic statement, which is what
	// serializes concurrent orders on the same item.
	DecrementStock(ctx context.Context, itemID string, quantity int) (bool, error)

	CreateOrder(ctx context.Context, o *Order) error
	CreateOrderItems(ctx context.Context, items []OrderItem) error
	IsTokenTaken(ctx context.Context, token string) (bool, error)

	GetOrderByToken(ctx context.Context, token string) (*Order, error)

	// SettleIfPending moves a pending order to the given terminal status
	// and reports whether the transition happened.
	SettleIfPending(ctx context.Context, token, status string) (bool, error)

	// ListOrders returns orders newest first, with lines and family
	// identity; an empty area means all areas.
	ListOrders(ctx context.Context, area string) ([]Summary, error)

	// ListPaidByOTPAndArea finds paid orders carrying the given checkout
	// code within an area.
	ListPaidByOTPAndArea(ctx context.Context, otpCode, area string) ([]Summary, error)

	LatestOrderForFamily(ctx context.Context, familyID string) (*Order, error)
}
