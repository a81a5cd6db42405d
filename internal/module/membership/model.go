package membership

import (
	"time"

	"github.com/google/uuid"
)

// PlanType represents the subscription tier.
type PlanType string

const (
	PlanFree    PlanType = "FREE"
	PlanPremium PlanType = "PREMIUM"
)

// DefaultFreeAllowance is the number of free generations granted at sign-up.
const DefaultFreeAllowance = 3

// Quota is the per-user allowance record. Exactly one per user; the
// remaining count is meaningful only for the FREE tier.
type Quota struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID         uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	PlanType       PlanType  `json:"plan_type" gorm:"not null;default:FREE"`
	RemainingCount int       `json:"remaining_count" gorm:"not null;default:0"`
	StartsAt       time.Time `json:"starts_at" gorm:"not null"`
	ExpiresAt      time.Time `json:"expires_at" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (Quota) TableName() string {
	return "quotas"
}

// IsPremium returns true for the unlimited tier.
func (q *Quota) IsPremium() bool {
	return q.PlanType == PlanPremium
}

// CanConsume reports whether one generation unit may be consumed.
// Premium quotas are unbounded and never decremented.
func (q *Quota) CanConsume() bool {
	return q.IsPremium() || q.RemainingCount > 0
}

// NewFreeQuota builds the default FREE quota for a new user.
func NewFreeQuota(userID uuid.UUID) *Quota {
	now := time.Now()
	return &Quota{
		ID:             uuid.New(),
		UserID:         userID,
		PlanType:       PlanFree,
		RemainingCount: DefaultFreeAllowance,
		StartsAt:       now,
		// Effectively unbounded; revisited when paid plans get real billing periods.
		ExpiresAt: now.AddDate(100, 0, 0),
	}
}
