package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/Keshavsspppp/municipality/internal/domain/entity"
	"github.com/Keshavsspppp/municipality/internal/domain/service"
	"github.com/Keshavsspppp/municipality/internal/infrastructure/config"
	"github.com/Keshavsspppp/municipality/internal/infrastructure/metrics"
)

const promptHeader = `
You are an AI that groups similar comments based on their content and generates valid JSON. Follow these rules:
1. Analyze the provided comments and group them based on semantic similarity of their content.
2. Create a concise summary for each group (max 50 characters).
3. List all comments in each group.
4. Ensure valid JSON output with properly escaped characters.
5. If grouping isn't possible, place each comment in its own group with a summary describing it.
6. Avoid extra quotes, commas, or invalid JSON syntax.
7. Handle special characters by escaping them properly.

Comments:
`

const promptFooter = `

Return JSON in this exact structure:
{
    "groups": [
        {
            "summary": "Summary text",
            "comments": ["comment1", "comment2"]
        }
    ]
}
`

// Grouper asks an OpenAI-compatible chat completion API (Groq by default)
// to cluster comments.
type Grouper struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	limiter     *rate.Limiter
}

// ErrMissingAPIKey is returned by NewGrouper when no API key is configured
var ErrMissingAPIKey = errors.New("llm api key not configured")

// NewGrouper builds a grouper from config
func NewGrouper(cfg *config.LLMConfig) (*Grouper, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	} else {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}

	return &Grouper{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		limiter:     limiter,
	}, nil
}

var _ service.Grouper = (*Grouper)(nil)

// Model returns the configured model name
func (g *Grouper) Model() string {
	return g.model
}

// Group sends all comments in one chat completion and parses the answer
func (g *Grouper) Group(ctx context.Context, comments []string) ([]entity.Group, error) {
	prompt, err := BuildPrompt(comments)
	if err != nil {
		return nil, err
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	})
	metrics.LLMDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned", service.ErrMalformedGrouping)
	}

	return ParseGroups(resp.Choices[0].Message.Content)
}

// BuildPrompt renders the grouping instructions with the comments embedded
// as a JSON array. Non-ASCII characters are kept as is.
func BuildPrompt(comments []string) (string, error) {
	if comments == nil {
		comments = []string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(comments); err != nil {
		return "", fmt.Errorf("failed to encode comments: %w", err)
	}

	return promptHeader + strings.TrimSuffix(buf.String(), "\n") + promptFooter, nil
}

// ParseGroups validates a model answer of the form {"groups": [...]}
func ParseGroups(content string) ([]entity.Group, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrMalformedGrouping, err)
	}

	raw, ok := envelope["groups"]
	if !ok {
		return nil, fmt.Errorf("%w: missing groups", service.ErrMalformedGrouping)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: groups is not a list", service.ErrMalformedGrouping)
	}

	var groups []entity.Group
	if err := json.Unmarshal(trimmed, &groups); err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrMalformedGrouping, err)
	}
	for i := range groups {
		if groups[i].Comments == nil {
			groups[i].Comments = []string{}
		}
	}
	return groups, nil
}
