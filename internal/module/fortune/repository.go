package fortune

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is the result store. Daily and lifelong carry a reuse lookup
// keyed the way their cache policy demands; face and dream only need
// creation and id retrieval.
type Repository interface {
	CreateDaily(ctx context.Context, f *DailyFortune) error
	FindDailyByUserAndDate(ctx context.Context, userID uuid.UUID, date string) (*DailyFortune, error)
	FindDailyByID(ctx context.Context, id uuid.UUID) (*DailyFortune, error)

	CreateLifelong(ctx context.Context, f *LifelongFortune) error
	FindLifelongByUser(ctx context.Context, userID uuid.UUID) (*LifelongFortune, error)
	FindLifelongByID(ctx context.Context, id uuid.UUID) (*LifelongFortune, error)

	CreateFace(ctx context.Context, f *FaceReading) error
	FindFaceByID(ctx context.Context, id uuid.UUID) (*FaceReading, error)

	CreateDream(ctx context.Context, d *DreamAnalysis) error
	FindDreamByID(ctx context.Context, id uuid.UUID) (*DreamAnalysis, error)

	// ListByUser returns summaries of every stored result the user owns,
	// newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]ResultSummary, error)

	// CountByKind reports how many results of the kind exist in the store.
	CountByKind(ctx context.Context, kind Kind) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new fortune result repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func translateCreateErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateResult
	}
	return err
}

func (r *repository) CreateDaily(ctx context.Context, f *DailyFortune) error {
	return translateCreateErr(r.db.WithContext(ctx).Create(f).Error)
}

func (r *repository) FindDailyByUserAndDate(ctx context.Context, userID uuid.UUID, date string) (*DailyFortune, error) {
	var f DailyFortune
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND fortune_date = ?", userID, date).
		First(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *repository) FindDailyByID(ctx context.Context, id uuid.UUID) (*DailyFortune, error) {
	var f DailyFortune
	if err := r.findByID(ctx, id, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repository) CreateLifelong(ctx context.Context, f *LifelongFortune) error {
	return translateCreateErr(r.db.WithContext(ctx).Create(f).Error)
}

func (r *repository) FindLifelongByUser(ctx context.Context, userID uuid.UUID) (*LifelongFortune, error) {
	var f LifelongFortune
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *repository) FindLifelongByID(ctx context.Context, id uuid.UUID) (*LifelongFortune, error) {
	var f LifelongFortune
	if err := r.findByID(ctx, id, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repository) CreateFace(ctx context.Context, f *FaceReading) error {
	return translateCreateErr(r.db.WithContext(ctx).Create(f).Error)
}

func (r *repository) FindFaceByID(ctx context.Context, id uuid.UUID) (*FaceReading, error) {
	var f FaceReading
	if err := r.findByID(ctx, id, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repository) CreateDream(ctx context.Context, d *DreamAnalysis) error {
	return translateCreateErr(r.db.WithContext(ctx).Create(d).Error)
}

func (r *repository) FindDreamByID(ctx context.Context, id uuid.UUID) (*DreamAnalysis, error) {
	var d DreamAnalysis
	if err := r.findByID(ctx, id, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) findByID(ctx context.Context, id uuid.UUID, dest any) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrResultNotFound
	}
	return err
}

type summaryRow struct {
	ID        uuid.UUID
	CreatedAt time.Time
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]ResultSummary, error) {
	var out []ResultSummary

	collect := func(model any, kind Kind) error {
		var rows []summaryRow
		err := r.db.WithContext(ctx).
			Model(model).
			Select("id", "created_at").
			Where("user_id = ?", userID).
			Find(&rows).Error
		if err != nil {
			return err
		}
		for _, row := range rows {
			out = append(out, ResultSummary{Kind: kind, ID: row.ID, CreatedAt: row.CreatedAt})
		}
		return nil
	}

	for _, src := range []struct {
		model any
		kind  Kind
	}{
		{&DailyFortune{}, KindDaily},
		{&LifelongFortune{}, KindLifelong},
		{&FaceReading{}, KindFace},
		{&DreamAnalysis{}, KindDream},
	} {
		if err := collect(src.model, src.kind); err != nil {
			return nil, err
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *repository) CountByKind(ctx context.Context, kind Kind) (int64, error) {
	var model any
	switch kind {
	case KindDaily:
		model = &DailyFortune{}
	case KindLifelong:
		model = &LifelongFortune{}
	case KindFace:
		model = &FaceReading{}
	case KindDream:
		model = &DreamAnalysis{}
	default:
		return 0, ErrUnknownKind
	}
	var n int64
	err := r.db.WithContext(ctx).Model(model).Count(&n).Error
	return n, err
}
