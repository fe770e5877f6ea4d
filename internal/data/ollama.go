package data

import (
	"context"

	"github.com/samber/mo"

	"github.com/kempysnetwork/kempai/internal/biz/repo"
	"github.com/kempysnetwork/kempai/ollama"
)

// ollamaRepo implements the inference repository
type ollamaRepo struct {
	client *ollama.Client
}

// NewOllamaRepo creates an Ollama-backed generate repository
func NewOllamaRepo(client *ollama.Client) repo.GenerateRepo {
	return &ollamaRepo{client: client}
}

func (r *ollamaRepo) Generate(ctx context.Context, prompt string) mo.Result[string] {
	return r.client.Generate(ctx, prompt)
}

func (r *ollamaRepo) Model() string {
	return r.client.Model()
}

func (r *ollamaRepo) SetModel(model string) {
	r.client.SetModel(model)
}
