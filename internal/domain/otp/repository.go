package otp

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, record *OTP) error

	// Latest returns the most recently created record for the email+code
	// pair.
	Latest(ctx context.Context, email, code string) (*OTP, error)

	// MarkVerified flips the verified flag and reports whether this call
	// performed the flip. Only the first verifier for a record wins.
	MarkVerified(ctx context.Context, id string) (bool, error)

	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
