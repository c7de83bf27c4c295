package otp

import "errors"

var (
	ErrCodeNotFound    = errors.New("otp code not found")
	ErrCodeAlreadyUsed = errors.New("otp code already used")
	ErrCodeExpired     = errors.New("otp code expired")
	ErrDeliveryFailed  = errors.New("otp email delivery failed")
)
