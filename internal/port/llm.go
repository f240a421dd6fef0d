package port

import (
	"context"

	"docqa/internal/domain"
)

// Generator produces an answer for a question from an assembled context.
type Generator interface {
	Generate(ctx context.Context, question string, c domain.Context) (string, error)

	// ModelName returns the name of the model.
	ModelName() string
}
