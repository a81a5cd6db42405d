package fortune

import (
	"context"
	"fmt"

	"github.com/hierfortune/server/internal/module/fortune/generator"
	"github.com/hierfortune/server/internal/module/user"
)

// LifelongStrategy generates the once-per-user lifetime reading. It takes
// no request payload; everything comes from the user's stored birth facts.
type LifelongStrategy struct {
	gen  generator.Generator
	repo Repository
}

func NewLifelongStrategy(gen generator.Generator, repo Repository) *LifelongStrategy {
	return &LifelongStrategy{gen: gen, repo: repo}
}

func (s *LifelongStrategy) Kind() Kind { return KindLifelong }

func (s *LifelongStrategy) Generate(ctx context.Context, u *user.User, _ any) (Result, error) {
	prompt, err := renderPrompt(lifelongPromptTemplate, birthParams(u))
	if err != nil {
		return nil, err
	}

	var reading LifelongReading
	if err := s.gen.Generate(ctx, generator.Request{Prompt: prompt}, &reading); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	f := &LifelongFortune{
		UserID:          u.ID,
		LifelongReading: reading,
	}
	if err := s.repo.CreateLifelong(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}
