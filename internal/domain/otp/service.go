package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"ration-shop-go/internal/domain/family"
	"ration-shop-go/internal/mail"
	"ration-shop-go/internal/metrics"
	"ration-shop-go/internal/security"
	"ration-shop-go/pkg/logger"

	"github.com/google/uuid"
)

// MemberDirectory is the slice of member storage the login OTP variant
// needs: resolving a member and updating its embedded code fields.
type MemberDirectory interface {
	GetMemberByAadhar(ctx context.Context, aadhar string) (*family.Member, error)
	GetMemberByAadharAndEmail(ctx context.Context, aadhar, email string) (*family.Member, error)
	SetMemberOTP(ctx context.Context, memberID string, otpHash *string, expiresAt *time.Time) error
}

type Service struct {
	repo    Repository
	members MemberDirectory
	sender  mail.Sender
	ttl     time.Duration
	now     func() time.Time
	log     logger.Logger
}

func NewService(repo Repository, members MemberDirectory, sender mail.Sender, ttl time.Duration, log logger.Logger) *Service {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		repo:    repo,
		members: members,
		sender:  sender,
		ttl:     ttl,
		now:     time.Now,
		log:     log,
	}
}

// IssueCheckout stores a fresh single-use code for the email and mails it.
// The code is persisted before delivery: a failed send keeps the record and
// reports ErrDeliveryFailed so the caller can retry delivery.
func (s *Service) IssueCheckout(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fmt.Errorf("email is required")
	}

	code, err := generateCode(CodeLength)
	if err != nil {
		return "", err
	}

	record := OTP{
		ID:    uuid.NewString(),
		Email: email,
		Code:  code,
	}
	if err := s.repo.Create(ctx, &record); err != nil {
		return "", err
	}
	metrics.OTPIssued.Inc()

	body := fmt.Sprintf("Your OTP is %s. It expires in %d minutes.", code, int(s.ttl.Minutes()))
	if err := s.sender.Send(ctx, email, "Your OTP Code", body); err != nil {
		return code, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	return code, nil
}

// VerifyCheckout authorizes a checkout code. The latest record for the pair
// decides; the verified flip is a compare-and-set, so a replayed code fails
// with ErrCodeAlreadyUsed.
func (s *Service) VerifyCheckout(ctx context.Context, email, code string) error {
	record, err := s.repo.Latest(ctx, strings.TrimSpace(email), strings.TrimSpace(code))
	if err != nil {
		return err
	}
	if record.Verified {
		return ErrCodeAlreadyUsed
	}
	if s.now().After(record.CreatedAt.Add(s.ttl)) {
		return ErrCodeExpired
	}

	won, err := s.repo.MarkVerified(ctx, record.ID)
	if err != nil {
		return err
	}
	if !won {
		return ErrCodeAlreadyUsed
	}

	metrics.OTPVerified.Inc()
	return nil
}

// IssueLogin stores a hashed login code on the member row. Aadhar and email
// must belong to the same member.
func (s *Service) IssueLogin(ctx context.Context, aadhar, email string) error {
	member, err := s.members.GetMemberByAadharAndEmail(ctx, strings.TrimSpace(aadhar), strings.TrimSpace(email))
	if err != nil {
		return err
	}

	code, err := generateCode(CodeLength)
	if err != nil {
		return err
	}

	hash, err := security.HashPassword(code)
	if err != nil {
		return err
	}

	expiresAt := s.now().UTC().Add(s.ttl)
	if err := s.members.SetMemberOTP(ctx, member.ID, &hash, &expiresAt); err != nil {
		return err
	}
	metrics.OTPIssued.Inc()

	body := fmt.Sprintf("Your OTP is: %s", code)
	if err := s.sender.Send(ctx, valueOr(member.Email, email), "Your OTP for Login", body); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	return nil
}

// VerifyLogin checks the member-embedded code against its stored hash and
// expiry, then clears both fields so the code cannot be replayed.
func (s *Service) VerifyLogin(ctx context.Context, aadhar, code string) (*family.Member, error) {
	member, err := s.members.GetMemberByAadhar(ctx, strings.TrimSpace(aadhar))
	if err != nil {
		return nil, err
	}

	if member.OTPHash == nil || *member.OTPHash == "" {
		return nil, ErrCodeNotFound
	}
	if member.OTPExpiresAt != nil && s.now().After(*member.OTPExpiresAt) {
		return nil, ErrCodeExpired
	}
	if !security.CheckPassword(*member.OTPHash, strings.TrimSpace(code)) {
		return nil, ErrCodeNotFound
	}

	if err := s.members.SetMemberOTP(ctx, member.ID, nil, nil); err != nil {
		return nil, err
	}

	metrics.OTPVerified.Inc()
	return member, nil
}

// PurgeExpired removes checkout records past the validity window.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteCreatedBefore(ctx, s.now().UTC().Add(-s.ttl))
}

// StartPurgeLoop sweeps expired checkout codes until ctx is done.
func (s *Service) StartPurgeLoop(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.PurgeExpired(ctx); err != nil {
					s.log.InternalError("otp.purge: sweep failed", err)
				}
			}
		}
	}()
}

func generateCode(length int) (string, error) {
	const digits = "0123456789"
	max := big.NewInt(int64(len(digits)))

	var builder strings.Builder
	builder.Grow(length)

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(digits[n.Int64()])
	}

	return builder.String(), nil
}

func valueOr(value *string, fallback string) string {
	if value != nil && *value != "" {
		return *value
	}
	return fallback
}
