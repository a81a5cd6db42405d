package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memRepo struct {
	users map[uuid.UUID]*User
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[uuid.UUID]*User)}
}

func (r *memRepo) Create(_ context.Context, u *User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return ErrEmailAlreadyExists
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (r *memRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *memRepo) Update(_ context.Context, u *User) error {
	r.users[u.ID] = u
	return nil
}

func (r *memRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

type fakeProvisioner struct {
	provisioned []uuid.UUID
	err         error
}

func (p *fakeProvisioner) CreateDefaultPlan(_ context.Context, userID uuid.UUID) error {
	if p.err != nil {
		return p.err
	}
	p.provisioned = append(p.provisioned, userID)
	return nil
}

func validRegister() *RegisterRequest {
	return &RegisterRequest{
		Email:      "a@example.com",
		Name:       "Aria",
		Sex:        SexFemale,
		BirthYear:  2001,
		BirthMonth: 8,
		BirthDay:   6,
		BirthSlot:  BirthSlotSa,
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the user and provisions the default plan", func(t *testing.T) {
		repo := newMemRepo()
		plans := &fakeProvisioner{}
		svc := NewService(repo, plans, zap.NewNop())

		u, err := svc.Register(ctx, validRegister())
		require.NoError(t, err)
		assert.Equal(t, RoleUser, u.Role)
		assert.Equal(t, BirthSlotSa, u.BirthInfo.BirthSlot)
		require.Len(t, plans.provisioned, 1)
		assert.Equal(t, u.ID, plans.provisioned[0])
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := newMemRepo()
		svc := NewService(repo, &fakeProvisioner{}, zap.NewNop())

		_, err := svc.Register(ctx, validRegister())
		require.NoError(t, err)
		_, err = svc.Register(ctx, validRegister())
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})

	t.Run("missing birth slot defaults to unknown", func(t *testing.T) {
		svc := NewService(newMemRepo(), &fakeProvisioner{}, zap.NewNop())

		req := validRegister()
		req.BirthSlot = ""
		u, err := svc.Register(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, BirthSlotUnknown, u.BirthInfo.BirthSlot)
	})

	t.Run("invalid inputs", func(t *testing.T) {
		svc := NewService(newMemRepo(), &fakeProvisioner{}, zap.NewNop())

		req := validRegister()
		req.Sex = "OTHER"
		_, err := svc.Register(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidSex)

		req = validRegister()
		req.BirthMonth = 13
		_, err = svc.Register(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidBirthInfo)

		req = validRegister()
		req.BirthYear = 1850
		_, err = svc.Register(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidBirthInfo)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo(), &fakeProvisioner{}, zap.NewNop())

	u, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	t.Run("updates name only", func(t *testing.T) {
		name := "Mina"
		got, err := svc.UpdateProfile(ctx, u.ID, &UpdateProfileRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Mina", got.Name)
		assert.Equal(t, 2001, got.BirthInfo.BirthYear)
	})

	t.Run("updates birth facts", func(t *testing.T) {
		info := BirthInfo{BirthYear: 1999, BirthMonth: 1, BirthDay: 2, BirthSlot: BirthSlotO}
		got, err := svc.UpdateProfile(ctx, u.ID, &UpdateProfileRequest{BirthInfo: &info})
		require.NoError(t, err)
		assert.Equal(t, info, got.BirthInfo)
	})

	t.Run("rejects implausible birth facts", func(t *testing.T) {
		info := BirthInfo{BirthYear: 1999, BirthMonth: 0, BirthDay: 2, BirthSlot: BirthSlotO}
		_, err := svc.UpdateProfile(ctx, u.ID, &UpdateProfileRequest{BirthInfo: &info})
		assert.ErrorIs(t, err, ErrInvalidBirthInfo)
	})

	t.Run("unknown user", func(t *testing.T) {
		name := "X"
		_, err := svc.UpdateProfile(ctx, uuid.New(), &UpdateProfileRequest{Name: &name})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestBirthSlot(t *testing.T) {
	assert.True(t, BirthSlotJa.IsValid())
	assert.True(t, BirthSlotUnknown.IsValid())
	assert.False(t, BirthSlot("NOON").IsValid())
}
