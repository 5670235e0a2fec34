package answer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiGenerate(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": "Admission is open."}},
				},
			}},
		})
	}))
	defer srv.Close()

	temp := float32(0.2)
	gen, err := NewGemini(context.Background(), GeminiOptions{
		APIKey:      "test-key",
		BaseURL:     srv.URL,
		Temperature: &temp,
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, gen.Model())

	got, err := gen.Generate(context.Background(), "Question: when?")
	require.NoError(t, err)
	assert.Equal(t, "Admission is open.", got)
	assert.True(t, strings.HasSuffix(gotPath, DefaultModel+":generateContent"), gotPath)
	assert.Contains(t, gotBody, "Question: when?")
	assert.Contains(t, gotBody, `"temperature"`)
}

func TestGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), GeminiOptions{})
	require.Error(t, err)
}

func TestGeminiHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	gen, err := NewGemini(context.Background(), GeminiOptions{APIKey: "k", Model: "gemini-test", BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = gen.Generate(context.Background(), "hi")
	require.Error(t, err)
}
