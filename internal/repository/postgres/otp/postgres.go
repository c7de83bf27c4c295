package otp

import (
	"context"
	"errors"
	"time"

	otpdomain "ration-shop-go/internal/domain/otp"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, record *otpdomain.OTP) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *PostgresRepository) Latest(ctx context.Context, email, code string) (*otpdomain.OTP, error) {
	var record otpdomain.OTP
	err := r.db.WithContext(ctx).
		Where("email = ? AND code = ?", email, code).
		Order("created_at desc").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, otpdomain.ErrCodeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarkVerified is a compare-and-set on the verified flag. With two racing
// verifiers, only one UPDATE matches the unverified row.
func (r *PostgresRepository) MarkVerified(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&otpdomain.OTP{}).
		Where("id = ? AND verified = ?", id, false).
		Update("verified", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&otpdomain.OTP{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
