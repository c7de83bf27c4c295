package admin

import (
	"context"
	"errors"
	"strings"
	"time"

	"ration-shop-go/internal/security"
	"ration-shop-go/pkg/logger"

	"github.com/google/uuid"
)

type Service struct {
	repo      Repository
	jwtSecret string
	tokenTTL  time.Duration
	log       logger.Logger
}

func NewService(repo Repository, jwtSecret string, tokenTTL time.Duration, log logger.Logger) *Service {
	if tokenTTL == 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// Login checks the credentials and returns a signed session token. A missing
// user and a wrong password produce the same error.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	a, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !security.CheckPassword(a.PasswordHash, password) {
		s.log.Warn("admin.login: bad password", "username", a.Username)
		return "", ErrInvalidCredentials
	}

	return security.GenerateAdminToken(s.jwtSecret, a.Username, s.tokenTTL)
}

// Register creates an admin account with a hashed password.
func (s *Service) Register(ctx context.Context, username, password string) error {
	hash, err := security.HashPassword(password)
	if err != nil {
		return err
	}

	return s.repo.Create(ctx, &Admin{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(username),
		PasswordHash: hash,
	})
}

// ChangePassword replaces the stored hash after verifying the current one.
func (s *Service) ChangePassword(ctx context.Context, username, current, next string) error {
	a, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return err
	}
	if !security.CheckPassword(a.PasswordHash, current) {
		return ErrInvalidCredentials
	}

	hash, err := security.HashPassword(next)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, a.Username, hash)
}
