package repo

import (
	"context"

	"github.com/samber/mo"
)

// GenerateRepo is the inference endpoint interface.
// Generate returns a tagged result: Ok carries sanitized model output,
// Err carries a transport or status failure description. The caller
// decides how a failure is rendered; there is no retry at this layer.
type GenerateRepo interface {
	Generate(ctx context.Context, prompt string) mo.Result[string]

	// Model returns the active model name
	Model() string

	// SetModel swaps the model used for subsequent requests
	SetModel(model string)
}
