package family

import "time"

const (
	// MinSizeClass and MaxSizeClass bound the family size used for
	// purchase-limit selection. Households larger than four members use
	// the four-member limit.
	MinSizeClass = 1
	MaxSizeClass = 4
)

type Family struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Code      string    `gorm:"size:100;not null;uniqueIndex"`
	Area      string    `gorm:"size:100;not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type Member struct {
	ID           string     `gorm:"type:uuid;primaryKey"`
	FamilyID     string     `gorm:"type:uuid;not null;index"`
	Name         string     `gorm:"not null"`
	AadharNumber string     `gorm:"size:12;not null;uniqueIndex"`
	Email        *string    `gorm:"size:255"`
	OTPHash      *string    `gorm:"column:otp_hash;size:256"`
	OTPExpiresAt *time.Time `gorm:"column:otp_expires_at"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`

	Family Family `gorm:"foreignKey:FamilyID;references:ID;constraint:OnDelete:CASCADE"`
}

// ClampSize maps a member count onto the size class range used to pick a
// purchase limit.
func ClampSize(memberCount int) int {
	if memberCount < MinSizeClass {
		return MinSizeClass
	}
	if memberCount > MaxSizeClass {
		return MaxSizeClass
	}
	return memberCount
}

type CreateMemberInput struct {
	FamilyCode   string
	Name         string
	AadharNumber string
	Email        *string
}

type UpdateMemberInput struct {
	AadharNumber    string
	Name            string
	NewAadharNumber string
	Email           *string
}
