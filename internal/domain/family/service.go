package family

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const cacheTTL = time.Minute

type Service struct {
	repo  Repository
	cache Cache
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, cache: noopCache{}}
}

func NewServiceWithCache(repo Repository, cache Cache) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{repo: repo, cache: cache}
}

func (s *Service) CreateFamily(ctx context.Context, code, area string) (*Family, error) {
	code = strings.TrimSpace(code)
	area = strings.TrimSpace(area)
	if code == "" || area == "" {
		return nil, fmt.Errorf("family code and area are required")
	}

	var result Family
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		taken, err := tx.IsCodeTaken(ctx, code)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: %s", ErrFamilyExists, code)
		}

		fam := Family{
			ID:   uuid.NewString(),
			Code: code,
			Area: area,
		}
		if err := tx.CreateFamily(ctx, &fam); err != nil {
			return err
		}

		result = fam
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) GetFamilyByCode(ctx context.Context, code string) (*Family, error) {
	code = strings.TrimSpace(code)
	if fam, ok := s.cache.GetByCode(code); ok {
		return fam, nil
	}

	fam, err := s.repo.GetFamilyByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	s.cache.SetByCode(code, fam, cacheTTL)
	return fam, nil
}

func (s *Service) UpdateFamily(ctx context.Context, code, newCode, area string) (*Family, error) {
	newCode = strings.TrimSpace(newCode)
	area = strings.TrimSpace(area)
	if newCode == "" || area == "" {
		return nil, fmt.Errorf("family code and area are required")
	}

	var result Family
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		fam, err := tx.GetFamilyByCode(ctx, code)
		if err != nil {
			return err
		}

		if newCode != fam.Code {
			taken, err := tx.IsCodeTaken(ctx, newCode)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%w: %s", ErrFamilyExists, newCode)
			}
		}

		if err := tx.UpdateFamily(ctx, fam.ID, newCode, area); err != nil {
			return err
		}

		result = *fam
		result.Code = newCode
		result.Area = area
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.DeleteByCode(code)
	s.cache.DeleteByCode(newCode)
	return &result, nil
}

// DeleteFamily removes the family; members and their orders cascade in the
// store.
func (s *Service) DeleteFamily(ctx context.Context, code string) error {
	fam, err := s.repo.GetFamilyByCode(ctx, code)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteFamily(ctx, fam.ID); err != nil {
		return err
	}
	s.cache.DeleteByCode(code)
	return nil
}

func (s *Service) ListAreas(ctx context.Context) ([]string, error) {
	return s.repo.ListAreas(ctx)
}

func (s *Service) AddMember(ctx context.Context, input CreateMemberInput) (*Member, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.AadharNumber = strings.TrimSpace(input.AadharNumber)
	if input.Name == "" || input.AadharNumber == "" {
		return nil, fmt.Errorf("name and aadhar number are required")
	}

	var result Member
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		fam, err := tx.GetFamilyByCode(ctx, input.FamilyCode)
		if err != nil {
			return err
		}

		taken, err := tx.IsAadharTaken(ctx, input.AadharNumber)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: %s", ErrAadharTaken, input.AadharNumber)
		}

		member := Member{
			ID:           uuid.NewString(),
			FamilyID:     fam.ID,
			Name:         input.Name,
			AadharNumber: input.AadharNumber,
			Email:        input.Email,
		}
		if err := tx.CreateMember(ctx, &member); err != nil {
			return err
		}

		result = member
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) UpdateMember(ctx context.Context, input UpdateMemberInput) (*Member, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.NewAadharNumber = strings.TrimSpace(input.NewAadharNumber)
	if input.Name == "" || input.NewAadharNumber == "" {
		return nil, fmt.Errorf("name and aadhar number are required")
	}

	var result Member
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		member, err := tx.GetMemberByAadhar(ctx, input.AadharNumber)
		if err != nil {
			return err
		}

		if input.NewAadharNumber != member.AadharNumber {
			taken, err := tx.IsAadharTaken(ctx, input.NewAadharNumber)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%w: %s", ErrAadharTaken, input.NewAadharNumber)
			}
		}

		member.Name = input.Name
		member.AadharNumber = input.NewAadharNumber
		member.Email = input.Email
		if err := tx.UpdateMember(ctx, member); err != nil {
			return err
		}

		result = *member
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) DeleteMember(ctx context.Context, aadhar string) error {
	return s.repo.DeleteMember(ctx, strings.TrimSpace(aadhar))
}

func (s *Service) ListMembers(ctx context.Context, familyCode string) ([]Member, error) {
	fam, err := s.repo.GetFamilyByCode(ctx, familyCode)
	if err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, fam.ID)
}

// LoginWithAadhar resolves a member and its family for the plain aadhar login
// path.
func (s *Service) LoginWithAadhar(ctx context.Context, aadhar string) (*Member, *Family, error) {
	member, err := s.repo.GetMemberByAadhar(ctx, strings.TrimSpace(aadhar))
	if err != nil {
		return nil, nil, err
	}
	return member, &member.Family, nil
}

// SizeClass returns the clamped family size used for purchase-limit
// selection.
func (s *Service) SizeClass(ctx context.Context, familyID string) (int, error) {
	count, err := s.repo.CountMembers(ctx, familyID)
	if err != nil {
		return 0, err
	}
	return ClampSize(int(count)), nil
}
