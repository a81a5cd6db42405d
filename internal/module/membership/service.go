package membership

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service provides plan management operations.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new membership service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateDefaultPlan provisions the FREE quota for a freshly registered user.
// Satisfies user.PlanProvisioner.
func (s *Service) CreateDefaultPlan(ctx context.Context, userID uuid.UUID) error {
	quota := NewFreeQuota(userID)
	if err := s.repo.Create(ctx, quota); err != nil {
		return fmt.Errorf("create quota: %w", err)
	}
	return nil
}

// GetQuota returns a user's quota record.
func (s *Service) GetQuota(ctx context.Context, userID uuid.UUID) (*Quota, error) {
	return s.repo.FindByUser(ctx, userID)
}

// UpgradeToPremium switches a user to the unlimited tier. Administrative
// grant path, not exposed to regular users.
func (s *Service) UpgradeToPremium(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.UpgradeToPremium(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("plan upgraded to premium", zap.String("user_id", userID.String()))
	return nil
}
