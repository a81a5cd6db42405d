package stats

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hierfortune/server/internal/module/fortune"
)

// SnapshotCounter reads the per-kind generation tallies. Satisfied by
// RedisCounter.
type SnapshotCounter interface {
	Snapshot(ctx context.Context) (map[fortune.Kind]int64, error)
}

// UserCounter counts registered users. Satisfied by user.Repository.
type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

// ResultCounter counts stored results per kind. Satisfied by
// fortune.Repository.
type ResultCounter interface {
	CountByKind(ctx context.Context, kind fortune.Kind) (int64, error)
}

// Response is the public statistics payload.
type Response struct {
	TotalUsers    int64 `json:"totalUsers"`
	DailyCount    int64 `json:"dailyFortuneResultCount"`
	LifelongCount int64 `json:"lifeLongResultCount"`
	FaceCount     int64 `json:"faceResultCount"`
	DreamCount    int64 `json:"dreamInterpretationResultCount"`
}

// Service assembles usage statistics from the counter and the user store.
type Service struct {
	counter SnapshotCounter
	users   UserCounter
	results ResultCounter
	logger  *zap.Logger
}

// NewService creates a new statistics service.
func NewService(counter SnapshotCounter, users UserCounter, results ResultCounter, logger *zap.Logger) *Service {
	return &Service{counter: counter, users: users, results: results, logger: logger}
}

// GetStatistics returns the user total and per-kind generation counts.
// When the counter is unreachable the per-kind counts fall back to the
// durable store, so the endpoint stays up through a Redis outage.
func (s *Service) GetStatistics(ctx context.Context) (*Response, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	counts, err := s.counter.Snapshot(ctx)
	if err != nil {
		s.logger.Warn("usage counter snapshot failed, falling back to store", zap.Error(err))
		counts = make(map[fortune.Kind]int64)
		for _, k := range fortune.Kinds() {
			n, cerr := s.results.CountByKind(ctx, k)
			if cerr != nil {
				return nil, fmt.Errorf("count %s results: %w", k, cerr)
			}
			counts[k] = n
		}
	}

	return &Response{
		TotalUsers:    totalUsers,
		DailyCount:    counts[fortune.KindDaily],
		LifelongCount: counts[fortune.KindLifelong],
		FaceCount:     counts[fortune.KindFace],
		DreamCount:    counts[fortune.KindDream],
	}, nil
}
