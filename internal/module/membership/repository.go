package membership

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for quota data access.
type Repository interface {
	Create(ctx context.Context, quota *Quota) error
	FindByUser(ctx context.Context, userID uuid.UUID) (*Quota, error)
	// DecrementIfFree atomically consumes one free unit. Returns true when a
	// unit was consumed, false when the remaining count was already zero.
	// Premium quotas are not touched by this call.
	DecrementIfFree(ctx context.Context, userID uuid.UUID) (bool, error)
	UpgradeToPremium(ctx context.Context, userID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new quota repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, quota *Quota) error {
	return r.db.WithContext(ctx).Create(quota).Error
}

func (r *repository) FindByUser(ctx context.Context, userID uuid.UUID) (*Quota, error) {
	var quota Quota
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&quota).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotaNotFound
		}
		return nil, err
	}
	return &quota, nil
}

// The guard in the WHERE clause is what keeps the count from going negative
// under concurrent decrements; there is no client-side read-modify-write.
func (r *repository) DecrementIfFree(ctx context.Context, userID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Quota{}).
		Where("user_id = ? AND plan_type = ? AND remaining_count > 0", userID, PlanFree).
		UpdateColumn("remaining_count", gorm.Expr("remaining_count - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) UpgradeToPremium(ctx context.Context, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&Quota{}).
		Where("user_id = ?", userID).
		Update("plan_type", PlanPremium)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrQuotaNotFound
	}
	return nil
}
