package admin

import (
	"context"
	"errors"

	admindomain "ration-shop-go/internal/domain/admin"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a *admindomain.Admin) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&admindomain.Admin{}).Where("username = ?", a.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return admindomain.ErrUsernameTaken
	}
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*admindomain.Admin, error) {
	var a admindomain.Admin
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, admindomain.ErrAdminNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&admindomain.Admin{}).
		Where("username = ?", username).
		Update("password_hash", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return admindomain.ErrAdminNotFound
	}
	return nil
}
