package inventory

import (
	"context"
	"errors"
	"time"

	inventorydomain "ration-shop-go/internal/domain/inventory"
	orderdomain "ration-shop-go/internal/domain/order"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateItem(ctx context.Context, item *inventorydomain.RationItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *PostgresRepository) GetItem(ctx context.Context, id string) (*inventorydomain.RationItem, error) {
	var item inventorydomain.RationItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventorydomain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) UpdateItem(ctx context.Context, item *inventorydomain.RationItem) error {
	res := r.db.WithContext(ctx).Model(&inventorydomain.RationItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"name":           item.Name,
			"area":           item.Area,
			"price":          item.Price,
			"total_quantity": item.TotalQuantity,
			"limit_1":        item.Limit1,
			"limit_2":        item.Limit2,
			"limit_3":        item.Limit3,
			"limit_4":        item.Limit4,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return inventorydomain.ErrItemNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteItem(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&inventorydomain.RationItem{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return inventorydomain.ErrItemNotFound
	}
	return nil
}

func (r *PostgresRepository) ListInStock(ctx context.Context) ([]inventorydomain.RationItem, error) {
	var items []inventorydomain.RationItem
	if err := r.db.WithContext(ctx).
		Where("total_quantity > 0").
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) ListInStockByArea(ctx context.Context, area string) ([]inventorydomain.RationItem, error) {
	var items []inventorydomain.RationItem
	if err := r.db.WithContext(ctx).
		Where("area = ? AND total_quantity > 0", area).
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) ListCreatedSince(ctx context.Context, area string, since time.Time) ([]inventorydomain.RationItem, error) {
	var items []inventorydomain.RationItem
	if err := r.db.WithContext(ctx).
		Where("area = ? AND total_quantity > 0 AND created_at >= ?", area, since).
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) ListByNameInArea(ctx context.Context, nameFragment, area string) ([]inventorydomain.RationItem, error) {
	var items []inventorydomain.RationItem
	if err := r.db.WithContext(ctx).
		Where("area = ? AND total_quantity > 0 AND lower(name) LIKE ?", area, "%"+nameFragment+"%").
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) PurchasedItemIDs(ctx context.Context, familyID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Table("order_items").
		Distinct("order_items.item_id").
		Joins("join orders on orders.id = order_items.order_id").
		Where("orders.family_id = ? AND orders.payment_status = ?", familyID, orderdomain.StatusPaid).
		Pluck("order_items.item_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("(created_at < ? AND total_quantity = 0) OR (total_quantity > 0 AND total_quantity < limit_1)", cutoff).
		Delete(&inventorydomain.RationItem{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
