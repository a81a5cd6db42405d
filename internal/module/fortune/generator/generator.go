// Package generator is the port to the external AI model. The fortune
// strategies hand it a rendered prompt and a destination struct; the
// implementation is responsible for transport, retries-by-breaker, and
// decoding the model's structured JSON answer.
package generator

import "context"

// Attachment is an image the model should look at alongside the prompt.
type Attachment struct {
	URL      string
	MimeType string
}

// Request is one generation call.
type Request struct {
	Prompt      string
	Attachments []Attachment
}

// Generator produces a structured completion. The model's JSON payload is
// unmarshalled into out, which must be a pointer.
type Generator interface {
	Generate(ctx context.Context, req Request, out any) error
}
