// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/paper-search/pkg/types"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []float32
	}{
		{"axis vector", []float32{3, 0, 0}},
		{"mixed", []float32{1, 2, 2}},
		{"negative components", []float32{-1, 1, -1, 1}},
		{"already unit", []float32{0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(append([]float32(nil), tt.in...))
			var sum float64
			for _, v := range got {
				sum += float64(v) * float64(v)
			}
			if math.Abs(sum-1) > 1e-5 {
				t.Errorf("norm^2 = %f, want 1", sum)
			}
		})
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	got := Normalize([]float32{0, 0, 0})
	for i, v := range got {
		if v != 0 {
			t.Errorf("component %d = %f, want 0", i, v)
		}
	}
}

func TestNormalizePreservesDirection(t *testing.T) {
	got := Normalize([]float32{0, -4, 0})
	if got[1] != -1 {
		t.Errorf("got[1] = %f, want -1", got[1])
	}
}

func TestNewProviderSelection(t *testing.T) {
	if _, err := NewProvider(types.EmbeddingConfig{Provider: "bogus"}); err == nil {
		t.Error("unknown provider should be rejected")
	}

	p, err := NewProvider(types.EmbeddingConfig{Provider: types.ProviderOllama})
	if err != nil {
		t.Fatalf("NewProvider(ollama) error: %v", err)
	}
	if _, ok := p.(*OllamaProvider); !ok {
		t.Errorf("NewProvider(ollama) = %T", p)
	}

	if _, err := NewProvider(types.EmbeddingConfig{Provider: types.ProviderOpenAI}); err == nil {
		t.Error("openai provider without API key should be rejected")
	}
}

// --- Ollama provider ---

func TestOllamaEmbedBatchOrder(t *testing.T) {
	// Answer each prompt with a vector derived from its length, so order
	// is observable.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"embedding": []float32{float32(len(req.Prompt)), 0},
		})
	}))
	defer ts.Close()

	p := NewOllamaProvider(types.EmbeddingConfig{
		Provider: types.ProviderOllama,
		BaseURL:  ts.URL,
		Model:    "all-minilm:l6-v2",
	})

	vectors, err := p.Embed(context.Background(), []string{"a", "bb", "ccc"})
	if err != nil {
		t.Fatalf("Embed() error: %v", err)
	}
	if len(vectors) != 3 {
		t.Fatalf("len(vectors) = %d, want 3", len(vectors))
	}
	for i, want := range []float32{1, 2, 3} {
		if vectors[i][0] != want {
			t.Errorf("vectors[%d][0] = %f, want %f", i, vectors[i][0], want)
		}
	}
}

func TestOllamaEmbedDimensionMismatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"embedding": []float32{1, 2, 3}})
	}))
	defer ts.Close()

	p := NewOllamaProvider(types.EmbeddingConfig{
		BaseURL:    ts.URL,
		Dimensions: 384,
	})

	if _, err := p.Embed(context.Background(), []string{"text"}); err == nil {
		t.Error("dimension mismatch should be an error")
	}
}

func TestOllamaEmbedServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer ts.Close()

	p := NewOllamaProvider(types.EmbeddingConfig{BaseURL: ts.URL})
	if _, err := p.Embed(context.Background(), []string{"text"}); err == nil {
		t.Error("server error should propagate")
	}
}

// --- OpenAI provider (against an httptest stand-in) ---

func TestOpenAIEmbedBatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		// Return vectors out of order; the provider must place them by index.
		data := make([]map[string]any, 0, len(req.Input))
		for i := len(req.Input) - 1; i >= 0; i-- {
			data = append(data, map[string]any{
				"object":    "embedding",
				"index":     i,
				"embedding": []float32{float32(i), 1},
			})
		}
		json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   data,
			"model":  req.Model,
		})
	}))
	defer ts.Close()

	p, err := NewOpenAIProvider(types.EmbeddingConfig{
		APIKey:  "test-key",
		BaseURL: ts.URL,
		Model:   "text-embedding-3-small",
	})
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error: %v", err)
	}

	vectors, err := p.Embed(context.Background(), []string{"first", "second", "third"})
	if err != nil {
		t.Fatalf("Embed() error: %v", err)
	}
	if len(vectors) != 3 {
		t.Fatalf("len(vectors) = %d, want 3", len(vectors))
	}
	for i := range vectors {
		if vectors[i][0] != float32(i) {
			t.Errorf("vectors[%d][0] = %f, want %d", i, vectors[i][0], i)
		}
	}
}

func TestOpenAIEmbedCountMismatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data": []map[string]any{
				{"object": "embedding", "index": 0, "embedding": []float32{1}},
			},
		})
	}))
	defer ts.Close()

	p, err := NewOpenAIProvider(types.EmbeddingConfig{APIKey: "k", BaseURL: ts.URL})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := p.Embed(context.Background(), []string{"a", "b"}); err == nil {
		t.Error("vector count mismatch should be an error")
	}
}

func TestOpenAIEmbedEmptyInput(t *testing.T) {
	p, err := NewOpenAIProvider(types.EmbeddingConfig{APIKey: "k"})
	if err != nil {
		t.Fatal(err)
	}
	vectors, err := p.Embed(context.Background(), nil)
	if err != nil {
		t.Fatalf("Embed(nil) error: %v", err)
	}
	if len(vectors) != 0 {
		t.Errorf("len(vectors) = %d, want 0", len(vectors))
	}
}
