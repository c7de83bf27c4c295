package order

import (
	"context"
	"errors"

	orderdomain "ration-shop-go/internal/domain/order"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(orderdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetOrderableItems(ctx context.Context, ids []string) ([]orderdomain.OrderableItem, error) {
	type itemRow struct {
		ID            string  `gorm:"column:id"`
		Name          string  `gorm:"column:name"`
		Area          string  `gorm:"column:area"`
		Price         float64 `gorm:"column:price"`
		TotalQuantity int     `gorm:"column:total_quantity"`
	}

	var rows []itemRow
	if err := r.db.WithContext(ctx).
		Table("ration_items").
		Select("id, name, area, price, total_quantity").
		Where("id IN ?", ids).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]orderdomain.OrderableItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, orderdomain.OrderableItem{
			ID:            row.ID,
			Name:          row.Name,
			Area:          row.Area,
			Price:         row.Price,
			TotalQuantity: row.TotalQuantity,
		})
	}
	return items, nil
}

// DecrementStock guards and writes in one statement. On Postgres the row lock
// taken by UPDATE serializes rival orders; the quantity predicate rejects the
// loser instead of driving stock negative.
func (r *PostgresRepository) DecrementStock(ctx context.Context, itemID string, quantity int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(
		"UPDATE ration_items SET total_quantity = total_quantity - ? WHERE id = ? AND total_quantity >= ?",
		quantity, itemID, quantity,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresRepository) CreateOrder(ctx context.Context, o *orderdomain.Order) error {
	return r.db.WithContext(ctx).Omit("Items").Create(o).Error
}

func (r *PostgresRepository) CreateOrderItems(ctx context.Context, items []orderdomain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *PostgresRepository) IsTokenTaken(ctx context.Context, token string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&orderdomain.Order{}).Where("token = ?", token).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) GetOrderByToken(ctx context.Context, token string) (*orderdomain.Order, error) {
	var o orderdomain.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.position asc") }).
		Where("token = ?", token).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, orderdomain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PostgresRepository) SettleIfPending(ctx context.Context, token, status string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&orderdomain.Order{}).
		Where("token = ? AND payment_status = ?", token, orderdomain.StatusPending).
		Update("payment_status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresRepository) ListOrders(ctx context.Context, area string) ([]orderdomain.Summary, error) {
	query := r.db.WithContext(ctx).Model(&orderdomain.Order{}).
		Joins("join families on families.id = orders.family_id").
		Order("orders.created_at desc")
	if area != "" {
		query = query.Where("families.area = ?", area)
	}
	return r.scanSummaries(ctx, query)
}

func (r *PostgresRepository) ListPaidByOTPAndArea(ctx context.Context, otpCode, area string) ([]orderdomain.Summary, error) {
	query := r.db.WithContext(ctx).Model(&orderdomain.Order{}).
		Joins("join families on families.id = orders.family_id").
		Where("orders.otp_code = ? AND orders.payment_status = ? AND families.area = ?",
			otpCode, orderdomain.StatusPaid, area).
		Order("orders.created_at desc")
	return r.scanSummaries(ctx, query)
}

func (r *PostgresRepository) scanSummaries(ctx context.Context, query *gorm.DB) ([]orderdomain.Summary, error) {
	var orders []orderdomain.Order
	if err := query.
		Select("orders.*").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.position asc") }).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []orderdomain.Summary{}, nil
	}

	familyIDs := make([]string, 0, len(orders))
	for _, o := range orders {
		familyIDs = append(familyIDs, o.FamilyID)
	}

	type familyRow struct {
		ID   string `gorm:"column:id"`
		Code string `gorm:"column:code"`
		Area string `gorm:"column:area"`
	}
	var rows []familyRow
	if err := r.db.WithContext(ctx).
		Table("families").
		Select("id, code, area").
		Where("id IN ?", familyIDs).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]familyRow, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	summaries := make([]orderdomain.Summary, 0, len(orders))
	for _, o := range orders {
		fam := byID[o.FamilyID]
		summaries = append(summaries, orderdomain.Summary{
			Order:      o,
			FamilyCode: fam.Code,
			Area:       fam.Area,
		})
	}
	return summaries, nil
}

func (r *PostgresRepository) LatestOrderForFamily(ctx context.Context, familyID string) (*orderdomain.Order, error) {
	var o orderdomain.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.position asc") }).
		Where("family_id = ?", familyID).
		Order("created_at desc").
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, orderdomain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
