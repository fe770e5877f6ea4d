package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateSuccess(t *testing.T) {
	var gotBody generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		fmt.Fprintln(w, `{"response": "Hey there!"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama2")
	result := client.Generate(context.Background(), "hello")

	text, err := result.Get()
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if text != "Hey there!" {
		t.Errorf("Generate = %q, want %q", text, "Hey there!")
	}

	if gotBody.Model != "llama2" {
		t.Errorf("request model = %q, want llama2", gotBody.Model)
	}
	if gotBody.Stream {
		t.Error("request should be non-streaming")
	}
	if !strings.HasPrefix(gotBody.Prompt, "hello") {
		t.Errorf("prompt should start with the caller's text, got %q", gotBody.Prompt)
	}
	if !strings.Contains(gotBody.Prompt, "without any <think> tags") {
		t.Errorf("prompt missing the no-monologue suffix: %q", gotBody.Prompt)
	}
}

func TestGenerateSanitizesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"response": "<think>hmm</think>  Sure thing!  "}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama2")
	text, err := client.Generate(context.Background(), "hi").Get()
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if text != "Sure thing!" {
		t.Errorf("Generate = %q, want %q", text, "Sure thing!")
	}
}

func TestGenerateNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama2")
	_, err := client.Generate(context.Background(), "hi").Get()
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if err.Error() != "Error: Received status code 500" {
		t.Errorf("error = %q, want %q", err.Error(), "Error: Received status code 500")
	}
}

func TestGenerateConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // force connection refused

	client := NewClient(server.URL, "llama2")
	_, err := client.Generate(context.Background(), "hi").Get()
	if err == nil {
		t.Fatal("expected error for closed server")
	}
	if !strings.HasPrefix(err.Error(), "Error connecting to Ollama:") {
		t.Errorf("error = %q, want the connection error prefix", err.Error())
	}
}

func TestGenerateEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"other_field": "ignored"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama2")
	text, err := client.Generate(context.Background(), "hi").Get()
	if err != nil {
		t.Fatalf("missing response field should not be an Err result: %v", err)
	}
	if text != "Error: No response received" {
		t.Errorf("Generate = %q, want the placeholder text", text)
	}
}

func TestSetModel(t *testing.T) {
	client := NewClient("http://localhost:11434/api/generate", "llama2")
	if client.Model() != "llama2" {
		t.Errorf("Model = %q, want llama2", client.Model())
	}

	client.SetModel("mistral")
	if client.Model() != "mistral" {
		t.Errorf("Model = %q after SetModel, want mistral", client.Model())
	}
}

func TestNewClientDefaultModel(t *testing.T) {
	client := NewClient("http://localhost:11434/api/generate", "")
	if client.Model() != "llama2" {
		t.Errorf("empty model should default to llama2, got %q", client.Model())
	}
}
