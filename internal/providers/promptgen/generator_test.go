package promptgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adgen/internal/domain"
	"adgen/internal/providers/gemini"
)

func newCompletionServer(t *testing.T, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{{"text": text}},
				},
			}},
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
}

func newTestGenerator(t *testing.T, srvURL string) *GeminiGenerator {
	t.Helper()
	client, err := gemini.NewClient(gemini.Options{APIKey: "test-key", BaseURL: srvURL})
	require.NoError(t, err)
	g, err := NewGeminiGenerator(client)
	require.NoError(t, err)
	return g
}

const threePrompts = `[
  {"name":"Modern Minimal","prompt":"Place the product on a clean white surface","description":"Clean and contemporary"},
  {"name":"Bold Dynamic","prompt":"High-contrast lighting with motion streaks","description":"Energetic"},
  {"name":"Luxury Premium","prompt":"Dark marble backdrop with golden accents","description":"Upscale"}
]`

func TestVariationsFencedResponse(t *testing.T) {
	srv := newCompletionServer(t, "```json\n"+threePrompts+"\n```")
	defer srv.Close()

	prompts, err := newTestGenerator(t, srv.URL).Variations(context.Background(), domain.ImageAnalysis{ProductType: "sneaker"}, 3)
	require.NoError(t, err)
	require.Len(t, prompts, 3)
	assert.Equal(t, "Modern Minimal", prompts[0].Name)
	assert.Equal(t, "Place the product on a clean white surface", prompts[0].PromptText)
}

func TestVariationsShortResponseIsHardFailure(t *testing.T) {
	srv := newCompletionServer(t, `[{"name":"Only One","prompt":"p","description":"d"}]`)
	defer srv.Close()

	_, err := newTestGenerator(t, srv.URL).Variations(context.Background(), domain.ImageAnalysis{}, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPromptCount), "short responses must not be padded with defaults")
}

func TestVariationsUnparsableResponseIsHardFailure(t *testing.T) {
	srv := newCompletionServer(t, "I could not produce JSON, sorry.")
	defer srv.Close()

	_, err := newTestGenerator(t, srv.URL).Variations(context.Background(), domain.ImageAnalysis{}, 3)
	require.Error(t, err)
}

func TestVariationsTruncatesExtraEntries(t *testing.T) {
	extra := `[
  {"name":"a","prompt":"p1","description":""},
  {"name":"b","prompt":"p2","description":""},
  {"name":"c","prompt":"p3","description":""},
  {"name":"d","prompt":"p4","description":""}
]`
	srv := newCompletionServer(t, extra)
	defer srv.Close()

	prompts, err := newTestGenerator(t, srv.URL).Variations(context.Background(), domain.ImageAnalysis{}, 3)
	require.NoError(t, err)
	assert.Len(t, prompts, 3)
}

func TestAdCopy(t *testing.T) {
	srv := newCompletionServer(t, `{"headline":"Step Into Bold","caption":"Your next favorite sneaker.","tags":["sneaker","style"]}`)
	defer srv.Close()

	copyText, err := newTestGenerator(t, srv.URL).AdCopy(context.Background(), domain.ImageAnalysis{ProductType: "sneaker"})
	require.NoError(t, err)
	assert.Equal(t, "Step Into Bold", copyText.Headline)
	assert.Len(t, copyText.Tags, 2)
}

func TestVariationInstructionMentionsCount(t *testing.T) {
	got := buildVariationInstruction(domain.ImageAnalysis{ProductType: "mug"}, 4)
	assert.Contains(t, got, fmt.Sprintf("exactly %d", 4))
	assert.Contains(t, got, "mug")
}
