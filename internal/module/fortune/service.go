package fortune

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hierfortune/server/internal/module/membership"
	"github.com/hierfortune/server/internal/module/user"
	"github.com/hierfortune/server/internal/shared/metrics"
)

// QuotaGate authorizes one generation and consumes one free unit when the
// caller is on the free tier. Satisfied by membership.Gate.
type QuotaGate interface {
	Authorize(ctx context.Context, userID uuid.UUID) (*user.User, error)
}

// UsageCounter records one successful generation per kind. Increment
// failures are surfaced to the caller but treated as non-fatal by the
// service; a lost count never fails a request.
type UsageCounter interface {
	Increment(ctx context.Context, kind Kind) error
}

// Service is the orchestration core. For every request it decides whether
// a stored result can be reused, whether the caller may generate a new
// one, which strategy runs, and records usage afterwards.
type Service struct {
	gate     QuotaGate
	repo     Repository
	registry *Registry
	counter  UsageCounter
	locks    *keyedMutex
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates the orchestration service. metrics may be nil in
// tests.
func NewService(gate QuotaGate, repo Repository, registry *Registry, counter UsageCounter, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		gate:     gate,
		repo:     repo,
		registry: registry,
		counter:  counter,
		locks:    newKeyedMutex(),
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

func lockKey(userID uuid.UUID, kind Kind) string {
	return userID.String() + ":" + string(kind)
}

// GetOrGenerateDaily returns the user's reading for today, generating and
// storing it on first call. Subsequent calls on the same date return the
// stored row without touching the gate or the generator.
func (s *Service) GetOrGenerateDaily(ctx context.Context, userID uuid.UUID) (*DailyFortuneResponse, error) {
	date := s.now().Format(DateLayout)

	// Serialized per (user, kind) so two concurrent misses cannot spend
	// two quota units on the same date.
	unlock := s.locks.Lock(lockKey(userID, KindDaily))
	defer unlock()

	cached, err := s.repo.FindDailyByUserAndDate(ctx, userID, date)
	if err == nil {
		s.recordCacheHit(KindDaily)
		return cached.ToResponse(), nil
	}
	if !errors.Is(err, ErrResultNotFound) {
		return nil, err
	}

	res, err := s.generate(ctx, userID, KindDaily, date)
	if err != nil {
		if errors.Is(err, ErrDuplicateResult) {
			// A concurrent writer won the race; its row is the answer.
			if f, ferr := s.repo.FindDailyByUserAndDate(ctx, userID, date); ferr == nil {
				s.logger.Warn("duplicate daily generation recovered from store",
					zap.String("user_id", userID.String()))
				return f.ToResponse(), nil
			}
		}
		return nil, err
	}
	return res.(*DailyFortune).ToResponse(), nil
}

// GetOrGenerateLifelong returns the user's lifetime reading, generating it
// on the first ever call. It never regenerates.
func (s *Service) GetOrGenerateLifelong(ctx context.Context, userID uuid.UUID) (*LifelongFortuneResponse, error) {
	unlock := s.locks.Lock(lockKey(userID, KindLifelong))
	defer unlock()

	cached, err := s.repo.FindLifelongByUser(ctx, userID)
	if err == nil {
		s.recordCacheHit(KindLifelong)
		return cached.ToResponse(), nil
	}
	if !errors.Is(err, ErrResultNotFound) {
		return nil, err
	}

	res, err := s.generate(ctx, userID, KindLifelong, nil)
	if err != nil {
		if errors.Is(err, ErrDuplicateResult) {
			if f, ferr := s.repo.FindLifelongByUser(ctx, userID); ferr == nil {
				s.logger.Warn("duplicate lifelong generation recovered from store",
					zap.String("user_id", userID.String()))
				return f.ToResponse(), nil
			}
		}
		return nil, err
	}
	return res.(*LifelongFortune).ToResponse(), nil
}

// GenerateFace runs a fresh face reading. No reuse lookup: every call that
// clears the gate produces a new stored result.
func (s *Service) GenerateFace(ctx context.Context, userID uuid.UUID, req *FaceRequest) (*FaceReadingResponse, error) {
	// Input problems must be rejected before any quota is spent.
	if req == nil || req.ImageURL == "" || !req.ImageType.IsValid() {
		return nil, ErrInvalidRequest
	}

	res, err := s.generate(ctx, userID, KindFace, req)
	if err != nil {
		return nil, err
	}
	return res.(*FaceReading).ToResponse(), nil
}

// GenerateDream runs a fresh dream interpretation.
func (s *Service) GenerateDream(ctx context.Context, userID uuid.UUID, req *DreamRequest) (*DreamAnalysisResponse, error) {
	if req == nil || req.Description == "" || req.Mood == "" {
		return nil, ErrInvalidRequest
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	res, err := s.generate(ctx, userID, KindDream, req)
	if err != nil {
		return nil, err
	}
	return res.(*DreamAnalysis).ToResponse(), nil
}

// generate is the gated path shared by all kinds: authorize, dispatch to
// the strategy, then record telemetry for the success.
func (s *Service) generate(ctx context.Context, userID uuid.UUID, kind Kind, req any) (Result, error) {
	strategy, err := s.registry.Get(kind)
	if err != nil {
		return nil, err
	}

	u, err := s.gate.Authorize(ctx, userID)
	if err != nil {
		s.recordQuotaDenial(err)
		return nil, err
	}

	start := time.Now()
	res, err := strategy.Generate(ctx, u, req)
	s.recordGeneration(kind, err, time.Since(start))
	if err != nil {
		// The consumed quota unit is not refunded. Refunding here would
		// open the opposite race: a slow failure refunding after the user
		// already spent the unit elsewhere.
		return nil, err
	}

	if cerr := s.counter.Increment(ctx, kind); cerr != nil {
		s.logger.Warn("usage counter increment failed",
			zap.String("kind", string(kind)),
			zap.Error(cerr))
	}
	return res, nil
}

// GetResult retrieves a stored result of the given kind by id.
func (s *Service) GetResult(ctx context.Context, kind Kind, id uuid.UUID) (any, error) {
	switch kind {
	case KindDaily:
		f, err := s.repo.FindDailyByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return f.ToResponse(), nil
	case KindLifelong:
		f, err := s.repo.FindLifelongByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return f.ToResponse(), nil
	case KindFace:
		f, err := s.repo.FindFaceByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return f.ToResponse(), nil
	case KindDream:
		d, err := s.repo.FindDreamByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return d.ToResponse(), nil
	default:
		return nil, ErrUnknownKind
	}
}

// ListResults returns summaries of everything the user has generated,
// newest first.
func (s *Service) ListResults(ctx context.Context, userID uuid.UUID) (*ResultListResponse, error) {
	results, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []ResultSummary{}
	}
	return &ResultListResponse{Results: results}, nil
}

func (s *Service) recordCacheHit(kind Kind) {
	if s.metrics != nil {
		s.metrics.CacheHitsTotal.WithLabelValues(string(kind)).Inc()
	}
}

func (s *Service) recordQuotaDenial(err error) {
	if s.metrics != nil && errors.Is(err, membership.ErrQuotaExceeded) {
		s.metrics.QuotaDenialsTotal.Inc()
	}
}

func (s *Service) recordGeneration(kind Kind, err error, d time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordGeneration(string(kind), err, d)
	}
}
