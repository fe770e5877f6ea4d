package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/samber/mo"
)

const (
	defaultModel   = "llama2"
	requestTimeout = 60 * time.Second

	// Appended to every prompt so reasoning-tuned models answer
	// without leaking their internal monologue.
	promptSuffix = "\nRespond directly without any <think> tags or internal monologue."
)

// Client is the Ollama generate API client
type Client struct {
	apiURL     string
	httpClient *http.Client

	mu    sync.RWMutex
	model string
}

// NewClient creates a new Ollama client
func NewClient(apiURL, model string) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{
		apiURL:     apiURL,
		model:      model,
		httpClient: &http.Client{},
	}
}

// Model returns the active model name
func (c *Client) Model() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// SetModel swaps the model used for subsequent requests
func (c *Client) SetModel(model string) {
	c.mu.Lock()
	c.model = model
	c.mu.Unlock()
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate sends a prompt to the Ollama API as a single non-streaming
// request and returns the sanitized response text. Failures come back
// as Err results carrying a user-presentable description; there is no
// retry or backoff, only the bounded request timeout.
func (c *Client) Generate(ctx context.Context, prompt string) mo.Result[string] {
	payload := generateRequest{
		Model:  c.Model(),
		Prompt: prompt + promptSuffix,
		Stream: false,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return mo.Err[string](fmt.Errorf("Error connecting to Ollama: %v", err))
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return mo.Err[string](fmt.Errorf("Error connecting to Ollama: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return mo.Err[string](fmt.Errorf("Error connecting to Ollama: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return mo.Err[string](fmt.Errorf("Error: Received status code %d", resp.StatusCode))
	}

	var data generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return mo.Err[string](fmt.Errorf("Error connecting to Ollama: %v", err))
	}

	raw := data.Response
	if raw == "" {
		raw = "Error: No response received"
	}

	return mo.Ok(Sanitize(raw))
}
