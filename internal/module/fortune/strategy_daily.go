package fortune

import (
	"context"
	"fmt"

	"github.com/hierfortune/server/internal/module/fortune/generator"
	"github.com/hierfortune/server/internal/module/user"
)

// DailyStrategy generates one reading per user per calendar date. The
// request payload is the date string the service resolved for "today".
type DailyStrategy struct {
	gen  generator.Generator
	repo Repository
}

func NewDailyStrategy(gen generator.Generator, repo Repository) *DailyStrategy {
	return &DailyStrategy{gen: gen, repo: repo}
}

func (s *DailyStrategy) Kind() Kind { return KindDaily }

func (s *DailyStrategy) Generate(ctx context.Context, u *user.User, req any) (Result, error) {
	date, ok := req.(string)
	if !ok {
		return nil, fmt.Errorf("%w: daily strategy expects a date string", ErrInvalidRequest)
	}

	prompt, err := renderPrompt(dailyPromptTemplate, birthParams(u))
	if err != nil {
		return nil, err
	}

	var reading DailyReading
	if err := s.gen.Generate(ctx, generator.Request{Prompt: prompt}, &reading); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if reading.OverallRating < 1 || reading.OverallRating > 5 {
		return nil, fmt.Errorf("%w: overall rating %d out of range", ErrGenerationFailed, reading.OverallRating)
	}

	f := &DailyFortune{
		UserID:       u.ID,
		FortuneDate:  date,
		DailyReading: reading,
	}
	if err := s.repo.CreateDaily(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}
