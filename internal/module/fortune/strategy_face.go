package fortune

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hierfortune/server/internal/module/fortune/generator"
	"github.com/hierfortune/server/internal/module/user"
)

// FaceStrategy sends the caller's photo to the vision model and stores the
// reading. Face results are never reused.
type FaceStrategy struct {
	gen  generator.Generator
	repo Repository
}

func NewFaceStrategy(gen generator.Generator, repo Repository) *FaceStrategy {
	return &FaceStrategy{gen: gen, repo: repo}
}

func (s *FaceStrategy) Kind() Kind { return KindFace }

func (s *FaceStrategy) Generate(ctx context.Context, u *user.User, req any) (Result, error) {
	fr, ok := req.(*FaceRequest)
	if !ok {
		return nil, fmt.Errorf("%w: face strategy expects a FaceRequest", ErrInvalidRequest)
	}
	if fr.ImageURL == "" || !fr.ImageType.IsValid() {
		return nil, ErrInvalidRequest
	}

	prompt, err := renderPrompt(facePromptTemplate, map[string]string{
		"name":      u.Name,
		"birthYear": strconv.Itoa(u.BirthInfo.BirthYear),
	})
	if err != nil {
		return nil, err
	}

	var payload FaceReadingPayload
	genReq := generator.Request{
		Prompt: prompt,
		Attachments: []generator.Attachment{
			{URL: fr.ImageURL, MimeType: fr.ImageType.MimeType()},
		},
	}
	if err := s.gen.Generate(ctx, genReq, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	f := &FaceReading{
		UserID:             u.ID,
		FaceReadingPayload: payload,
	}
	if err := s.repo.CreateFace(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}
