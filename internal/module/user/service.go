package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlanProvisioner creates the default quota record for a new user.
// Implemented by the membership module.
type PlanProvisioner interface {
	CreateDefaultPlan(ctx context.Context, userID uuid.UUID) error
}

// Service provides user management operations.
type Service struct {
	repo   Repository
	plans  PlanProvisioner
	logger *zap.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, plans PlanProvisioner, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		plans:  plans,
		logger: logger,
	}
}

// Register creates a new user together with its default FREE quota.
// A user without a quota record is a configuration inconsistency, so the
// quota is provisioned as part of sign-up.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err == nil && existing != nil {
		return nil, ErrEmailAlreadyExists
	}
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	if !req.Sex.IsValid() {
		return nil, ErrInvalidSex
	}

	birthSlot := req.BirthSlot
	if birthSlot == "" {
		birthSlot = BirthSlotUnknown
	}
	birthInfo := BirthInfo{
		BirthYear:  req.BirthYear,
		BirthMonth: req.BirthMonth,
		BirthDay:   req.BirthDay,
		BirthSlot:  birthSlot,
	}
	if err := birthInfo.Validate(); err != nil {
		return nil, err
	}

	u := &User{
		ID:        uuid.New(),
		Email:     req.Email,
		Name:      req.Name,
		Sex:       req.Sex,
		Role:      RoleUser,
		BirthInfo: birthInfo,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.plans.CreateDefaultPlan(ctx, u.ID); err != nil {
		return nil, fmt.Errorf("provision default plan: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", u.ID.String()),
		zap.String("email", u.Email),
	)

	return u, nil
}

// GetUser returns a user by ID.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile updates the mutable fields of a user's profile.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.BirthInfo != nil {
		if err := req.BirthInfo.Validate(); err != nil {
			return nil, err
		}
		u.BirthInfo = *req.BirthInfo
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	return u, nil
}
