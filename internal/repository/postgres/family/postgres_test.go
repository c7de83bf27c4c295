package family

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	familydomain "ration-shop-go/internal/domain/family"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:famrepo_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&familydomain.Family{}, &familydomain.Member{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedFamily(t *testing.T, repo *PostgresRepository, code, area string) string {
	t.Helper()
	id := uuid.NewString()
	if err := repo.CreateFamily(context.Background(), &familydomain.Family{ID: id, Code: code, Area: area}); err != nil {
		t.Fatalf("seed family: %v", err)
	}
	return id
}

func seedMember(t *testing.T, repo *PostgresRepository, familyID, name, aadhar string) string {
	t.Helper()
	id := uuid.NewString()
	email := name + "@example.com"
	member := familydomain.Member{ID: id, FamilyID: familyID, Name: name, AadharNumber: aadhar, Email: &email}
	if err := repo.CreateMember(context.Background(), &member); err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return id
}

func TestGetFamilyByCode(t *testing.T) {
	repo := NewPostgres(newTestDB(t))
	ctx := context.Background()

	id := seedFamily(t, repo, "FAM1001", "Anna Nagar")

	family, err := repo.GetFamilyByCode(ctx, "FAM1001")
	if err != nil {
		t.Fatalf("get family: %v", err)
	}
	if family.ID != id || family.Area != "Anna Nagar" {
		t.Fatalf("unexpected family %+v", family)
	}

	if _, err := repo.GetFamilyByCode(ctx, "FAM9999"); !errors.Is(err, familydomain.ErrFamilyNotFound) {
		t.Fatalf("expected ErrFamilyNotFound, got %v", err)
	}
}

func TestIsCodeTaken(t *testing.T) {
	repo := NewPostgres(newTestDB(t))
	ctx := context.Background()

	seedFamily(t, repo, "FAM1001", "Anna Nagar")

	taken, err := repo.IsCodeTaken(ctx, "FAM1001")
	if err != nil {
		t.Fatalf("code check: %v", err)
	}
	if !taken {
		t.Fatal("existing code must report taken")
	}

	taken, err = repo.IsCodeTaken(ctx, "FAM9999")
	if err != nil {
		t.Fatalf("code check: %v", err)
	}
	if taken {
		t.Fatal("fresh code must report free")
	}
}

func TestListAreasDistinctSorted(t *testing.T) {
	repo := NewPostgres(newTestDB(t))
	ctx := context.Background()

	seedFamily(t, repo, "FAM1001", "T Nagar")
	seedFamily(t, repo, "FAM1002", "Anna Nagar")
	seedFamily(t, repo, "FAM1003", "Anna Nagar")

	areas, err := repo.ListAreas(ctx)
	if err != nil {
		t.Fatalf("list areas: %v", err)
	}
	if !reflect.DeepEqual(areas, []string{"Anna Nagar", "T Nagar"}) {
		t.Fatalf("expected deduplicated sorted areas, got %v", areas)
	}
}

func TestGetMemberByAadharPreloadsFamily(t *testing.T) {
	repo := NewPostgres(newTestDB(t))
	ctx := context.Background()

	familyID := seedFamily(t, repo, "FAM1001", "Anna Nagar")
	seedMember(t, repo, familyID, "Lakshmi", "123456789012")

	member, err := repo.GetMemberByAadhar(ctx, "123456789012")
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if member.Family.Code != "FAM1001" || member.Family.Area != "Anna Nagar" {
		t.Fatalf("expected family preloaded, got %+v", member.Family)
	}

	if _, err := repo.GetMemberByAadhar(ctx, "000000000000"); !errors.Is(err, familydomain.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestGetMemberByAadharAndEmail(t *testing.T) {
	repo := NewPostgres(newTestDB(t))
	ctx := context.Background()

	familyID := seedFamily(t, repo, "FAM1001", "Anna Nagar")
	seedMember(t, repo, familyID, "Lakshmi", "123456789012")

	member, err := repo.GetMemberByAadharAndEmail(ctx, "123456789012", "Lakshmi@example.com")
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if member.Name != "Lakshmi" {
		t.Fatalf("unexpected member %+v", member)
	}

	if _, err := repo.GetMemberByAadharAndEmail(ctx, "123456789012", "other@example.com"); !errors.Is(err, familydomain.ErrMemberNotFound) {
		t.Fatalf("mismatched email must miss, got %v", err)
	}
}

func TestDeleteMember(t *testing.T) {
	repo := NewPostgres(newTestDB(t))
	ctx := context.Background()

	familyID := seedFamily(t, repo, "FAM1001", "Anna Nagar")
	seedMember(t, repo, familyID, "Lakshmi", "123456789012")

	if err := repo.DeleteMember(ctx, "123456789012"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeleteMember(ctx, "123456789012"); !errors.Is(err, familydomain.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound on repeat delete, got %v", err)
	}
}

func TestCountMembers(t *testing.T) {
	repo := NewPostgres(newTestDB(t))
	ctx := context.Background()

	familyID := seedFamily(t, repo, "FAM1001", "Anna Nagar")
	otherID := seedFamily(t, repo, "FAM1002", "T Nagar")
	seedMember(t, repo, familyID, "Lakshmi", "123456789012")
	seedMember(t, repo, familyID, "Ravi", "223456789012")
	seedMember(t, repo, otherID, "Mani", "323456789012")

	count, err := repo.CountMembers(ctx, familyID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 members, got %d", count)
	}
}

func TestSetMemberOTPSetAndClear(t *testing.T) {
	repo := NewPostgres(newTestDB(t))
	ctx := context.Background()

	familyID := seedFamily(t, repo, "FAM1001", "Anna Nagar")
	memberID := seedMember(t, repo, familyID, "Lakshmi", "123456789012")

	hash := "$2a$12$example"
	expires := time.Now().Add(5 * time.Minute).UTC()
	if err := repo.SetMemberOTP(ctx, memberID, &hash, &expires); err != nil {
		t.Fatalf("set otp: %v", err)
	}

	member, err := repo.GetMemberByAadhar(ctx, "123456789012")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if member.OTPHash == nil || *member.OTPHash != hash {
		t.Fatalf("expected otp hash stored, got %v", member.OTPHash)
	}
	if member.OTPExpiresAt == nil {
		t.Fatal("expected otp expiry stored")
	}

	if err := repo.SetMemberOTP(ctx, memberID, nil, nil); err != nil {
		t.Fatalf("clear otp: %v", err)
	}
	member, err = repo.GetMemberByAadhar(ctx, "123456789012")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if member.OTPHash != nil || member.OTPExpiresAt != nil {
		t.Fatal("expected otp cleared")
	}
}

func TestUpdateMember(t *testing.T) {
	repo := NewPostgres(newTestDB(t))
	ctx := context.Background()

	familyID := seedFamily(t, repo, "FAM1001", "Anna Nagar")
	memberID := seedMember(t, repo, familyID, "Lakshmi", "123456789012")

	email := "new@example.com"
	err := repo.UpdateMember(ctx, &familydomain.Member{
		ID:           memberID,
		Name:         "Lakshmi Devi",
		AadharNumber: "999956789012",
		Email:        &email,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	member, err := repo.GetMemberByAadhar(ctx, "999956789012")
	if err != nil {
		t.Fatalf("reload by new aadhar: %v", err)
	}
	if member.Name != "Lakshmi Devi" || member.Email == nil || *member.Email != email {
		t.Fatalf("unexpected member after update %+v", member)
	}
}
