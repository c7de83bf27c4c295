package family

import (
	"context"
	"errors"
	"time"

	familydomain "ration-shop-go/internal/domain/family"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(familydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateFamily(ctx context.Context, family *familydomain.Family) error {
	return r.db.WithContext(ctx).Create(family).Error
}

func (r *PostgresRepository) GetFamilyByCode(ctx context.Context, code string) (*familydomain.Family, error) {
	var family familydomain.Family
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&family).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrFamilyNotFound
		}
		return nil, err
	}
	return &family, nil
}

func (r *PostgresRepository) UpdateFamily(ctx context.Context, familyID, code, area string) error {
	return r.db.WithContext(ctx).Model(&familydomain.Family{}).
		Where("id = ?", familyID).
		Updates(map[string]interface{}{"code": code, "area": area}).Error
}

func (r *PostgresRepository) DeleteFamily(ctx context.Context, familyID string) error {
	return r.db.WithContext(ctx).Delete(&familydomain.Family{}, "id = ?", familyID).Error
}

func (r *PostgresRepository) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&familydomain.Family{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) ListAreas(ctx context.Context) ([]string, error) {
	var areas []string
	if err := r.db.WithContext(ctx).Model(&familydomain.Family{}).
		Distinct("area").
		Order("area asc").
		Pluck("area", &areas).Error; err != nil {
		return nil, err
	}
	return areas, nil
}

func (r *PostgresRepository) CreateMember(ctx context.Context, member *familydomain.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *PostgresRepository) GetMemberByAadhar(ctx context.Context, aadhar string) (*familydomain.Member, error) {
	var member familydomain.Member
	if err := r.db.WithContext(ctx).Preload("Family").Where("aadhar_number = ?", aadhar).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) GetMemberByAadharAndEmail(ctx context.Context, aadhar, email string) (*familydomain.Member, error) {
	var member familydomain.Member
	if err := r.db.WithContext(ctx).Preload("Family").
		Where("aadhar_number = ? AND email = ?", aadhar, email).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, familyID string) ([]familydomain.Member, error) {
	var members []familydomain.Member
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("created_at asc").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) UpdateMember(ctx context.Context, member *familydomain.Member) error {
	return r.db.WithContext(ctx).Model(&familydomain.Member{}).
		Where("id = ?", member.ID).
		Updates(map[string]interface{}{
			"name":          member.Name,
			"aadhar_number": member.AadharNumber,
			"email":         member.Email,
		}).Error
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, aadhar string) error {
	res := r.db.WithContext(ctx).Delete(&familydomain.Member{}, "aadhar_number = ?", aadhar)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return familydomain.ErrMemberNotFound
	}
	return nil
}

func (r *PostgresRepository) IsAadharTaken(ctx context.Context, aadhar string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&familydomain.Member{}).Where("aadhar_number = ?", aadhar).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) CountMembers(ctx context.Context, familyID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&familydomain.Member{}).Where("family_id = ?", familyID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) SetMemberOTP(ctx context.Context, memberID string, otpHash *string, expiresAt *time.Time) error {
	return r.db.WithContext(ctx).Model(&familydomain.Member{}).
		Where("id = ?", memberID).
		Updates(map[string]interface{}{"otp_hash": otpHash, "otp_expires_at": expiresAt}).Error
}
