package family

import (
	"context"
	"time"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	CreateFamily(ctx context.Context, family *Family) error
	GetFamilyByCode(ctx context.Context, code string) (*Family, error)
	UpdateFamily(ctx context.Context, familyID, code, area string) error
	DeleteFamily(ctx context.Context, familyID string) error
	IsCodeTaken(ctx context.Context, code string) (bool, error)
	ListAreas(ctx context.Context) ([]string, error)

	CreateMember(ctx context.Context, member *Member) error
	GetMemberByAadhar(ctx context.Context, aadhar string) (*Member, error)
	GetMemberByAadharAndEmail(ctx context.Context, aadhar, email string) (*Member, error)
	ListMembers(ctx context.Context, familyID string) ([]Member, error)
	UpdateMember(ctx context.Context, member *Member) error
	DeleteMember(ctx context.Context, aadhar string) error
	IsAadharTaken(ctx context.Context, aadhar string) (bool, error)
	CountMembers(ctx context.Context, familyID string) (int64, error)
	SetMemberOTP(ctx context.Context, memberID string, otpHash *string, expiresAt *time.Time) error
}
