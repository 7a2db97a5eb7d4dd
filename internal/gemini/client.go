package gemini

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/mathbuddy/mathbuddy/internal/logger"
	"google.golang.org/genai"
)

// Generation settings for problem text. Temperature is raised for variety.
const (
	problemTemperature float32 = 0.85
	problemTopP        float32 = 0.95
	problemTopK        float32 = 40
)

type Client struct {
	client *genai.Client
	model  string
	log    *logger.Logger
}

// New creates a client for the Gemini API. The key is required; callers that
// may run without one should skip construction and fail fast per request.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{
		client: c,
		model:  model,
		log:    logger.Default().WithPrefix("gemini"),
	}, nil
}

// GenerateProblem asks the model for a problem as JSON text.
func (c *Client) GenerateProblem(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("gemini")
	log.Debug("generating problem: model=%s, prompt_len=%d", c.model, len(prompt))
	start := time.Now()

	temp := problemTemperature
	topP := problemTopP
	topK := problemTopK
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      &temp,
		TopP:             &topP,
		TopK:             &topK,
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		log.Error("problem generation failed: %v", err)
		return "", fmt.Errorf("generate content: %w", err)
	}

	log.Debug("problem generated in %v", time.Since(start))
	return strings.TrimSpace(result.Text()), nil
}

// GenerateFeedback asks the model for plain-text feedback on a graded answer.
func (c *Client) GenerateFeedback(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("gemini")
	log.Debug("generating feedback: model=%s", c.model)
	start := time.Now()

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		log.Warn("feedback generation failed: %v", err)
		return "", fmt.Errorf("generate content: %w", err)
	}

	log.Debug("feedback generated in %v", time.Since(start))
	return strings.TrimSpace(result.Text()), nil
}

// ListModels returns the names of models that support content generation.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("gemini")
	log.Debug("listing models")

	var names []string
	for model, err := range c.client.Models.All(ctx) {
		if err != nil {
			log.Error("failed to list models: %v", err)
			return nil, fmt.Errorf("list models: %w", err)
		}
		if slices.Contains(model.SupportedActions, "generateContent") {
			names = append(names, model.Name)
		}
	}

	log.Info("found %d generation-capable models", len(names))
	return names, nil
}
