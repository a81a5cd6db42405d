package membership

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hierfortune/server/internal/module/user"
)

// Gate decides whether a user is entitled to one more generation, and
// consumes one free unit when they are. The decrement is a single atomic
// database operation and is visible before Authorize returns.
type Gate struct {
	users  user.Repository
	quotas Repository
	logger *zap.Logger
}

// NewGate creates a new quota gate.
func NewGate(users user.Repository, quotas Repository, logger *zap.Logger) *Gate {
	return &Gate{
		users:  users,
		quotas: quotas,
		logger: logger,
	}
}

// Authorize loads the user, checks the plan, and for the FREE tier consumes
// exactly one unit. Returns user.ErrUserNotFound when the identity does not
// exist and ErrQuotaExceeded when the free allowance is spent.
//
// A consumed unit is not refunded if the generation later fails; see the
// timeout/failure policy in the fortune service.
func (g *Gate) Authorize(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	u, err := g.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	quota, err := g.quotas.FindByUser(ctx, userID)
	if err != nil {
		// Every user gets a quota at sign-up; absence is a config inconsistency.
		return nil, fmt.Errorf("quota record missing for user %s: %w", userID, err)
	}

	if quota.IsPremium() {
		return u, nil
	}

	consumed, err := g.quotas.DecrementIfFree(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("decrement quota: %w", err)
	}
	if !consumed {
		g.logger.Info("free quota exhausted", zap.String("user_id", userID.String()))
		return nil, ErrQuotaExceeded
	}

	return u, nil
}
