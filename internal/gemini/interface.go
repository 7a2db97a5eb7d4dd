package gemini

import "context"

// CompletionClient defines the interface for completion-service operations.
// This interface enables testability by allowing mock implementations.
type CompletionClient interface {
	GenerateProblem(ctx context.Context, prompt string) (string, error)
	GenerateFeedback(ctx context.Context, prompt string) (string, error)
	ListModels(ctx context.Context) ([]string, error)
}

// Ensure Client implements the interface
var _ CompletionClient = (*Client)(nil)
