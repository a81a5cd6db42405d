package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/hierfortune/server/internal/shared/config"
)

// ErrUnavailable is returned while the circuit breaker holds the model
// endpoint open after repeated failures.
var ErrUnavailable = errors.New("generator unavailable")

// OpenAIGenerator talks to an OpenAI-compatible chat completions endpoint.
// Responses are requested in JSON mode so the payload decodes straight
// into the caller's result struct.
type OpenAIGenerator struct {
	cfg     *config.AIConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  *zap.Logger
}

// NewOpenAIGenerator creates a generator backed by the configured model.
func NewOpenAIGenerator(cfg *config.AIConfig, client *http.Client, logger *zap.Logger) *OpenAIGenerator {
	settings := gobreaker.Settings{
		Name: "ai-generator",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		Timeout: cfg.CircuitTimeout,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("generator breaker state change",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
	return &OpenAIGenerator{
		cfg:     cfg,
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
		logger:  logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

// Generate renders one completion and decodes its JSON payload into out.
func (g *OpenAIGenerator) Generate(ctx context.Context, req Request, out any) error {
	raw, err := g.breaker.Execute(func() ([]byte, error) {
		return g.complete(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return err
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode model payload: %w", err)
	}
	return nil
}

func (g *OpenAIGenerator) complete(ctx context.Context, req Request) ([]byte, error) {
	var content any = req.Prompt
	if len(req.Attachments) > 0 {
		parts := []contentPart{{Type: "text", Text: req.Prompt}}
		for _, a := range req.Attachments {
			parts = append(parts, contentPart{
				Type:     "image_url",
				ImageURL: &imageURL{URL: a.URL},
			})
		}
		content = parts
	}

	body := map[string]any{
		"model":           g.cfg.Model,
		"messages":        []chatMessage{{Role: "user", Content: content}},
		"response_format": map[string]string{"type": "json_object"},
	}
	if g.cfg.MaxTokens > 0 {
		body["max_tokens"] = g.cfg.MaxTokens
	}
	if g.cfg.Temperature > 0 {
		body["temperature"] = g.cfg.Temperature
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(msg))
	}

	var openaiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&openaiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(openaiResp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	return []byte(stripFences(openaiResp.Choices[0].Message.Content)), nil
}

// Some models fence the payload in markdown even in JSON mode.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
