package otp

import "time"

const CodeLength = 6

// OTP is a stored checkout authorization code. A record becomes unusable
// after the first successful verification or once the validity window
// elapses, whichever comes first.
type OTP struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"size:255;not null;index:idx_otps_email_code"`
	Code      string    `gorm:"size:6;not null;index:idx_otps_email_code"`
	Verified  bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (OTP) TableName() string {
	return "otps"
}
