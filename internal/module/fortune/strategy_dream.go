package fortune

import (
	"context"
	"fmt"
	"strings"

	"github.com/hierfortune/server/internal/module/fortune/generator"
	"github.com/hierfortune/server/internal/module/user"
)

// DreamStrategy interprets a described dream. Dream results are never
// reused.
type DreamStrategy struct {
	gen  generator.Generator
	repo Repository
}

func NewDreamStrategy(gen generator.Generator, repo Repository) *DreamStrategy {
	return &DreamStrategy{gen: gen, repo: repo}
}

func (s *DreamStrategy) Kind() Kind { return KindDream }

func (s *DreamStrategy) Generate(ctx context.Context, u *user.User, req any) (Result, error) {
	dr, ok := req.(*DreamRequest)
	if !ok {
		return nil, fmt.Errorf("%w: dream strategy expects a DreamRequest", ErrInvalidRequest)
	}
	if dr.Description == "" || dr.Mood == "" {
		return nil, ErrInvalidRequest
	}
	if err := dr.Validate(); err != nil {
		return nil, err
	}

	prompt, err := renderPrompt(dreamPromptTemplate, map[string]string{
		"dream_description": dr.Description,
		"mood":              dr.Mood,
		"keywords":          joinKeywords(dr.Keywords),
	})
	if err != nil {
		return nil, err
	}

	var reading DreamReading
	if err := s.gen.Generate(ctx, generator.Request{Prompt: prompt}, &reading); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	d := &DreamAnalysis{
		UserID:       u.ID,
		DreamReading: reading,
	}
	if err := s.repo.CreateDream(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// joinKeywords renders the keyword labels as a comma-separated list.
func joinKeywords(keywords []DreamKeyword) string {
	labels := make([]string, 0, len(keywords))
	for _, k := range keywords {
		labels = append(labels, k.Label())
	}
	return strings.Join(labels, ", ")
}
