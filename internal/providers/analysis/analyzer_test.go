package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adgen/internal/domain"
	"adgen/internal/media"
	"adgen/internal/providers/gemini"
)

func testImage(t *testing.T) *media.EncodedImage {
	t.Helper()
	enc, err := media.Encode([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0})
	require.NoError(t, err)
	return enc
}

func TestGeminiAnalyzerParsesResponse(t *testing.T) {
	payload := `{"product_type":"sneaker","colors":["white","red"],"style":"athletic","mood":"energetic","key_features":["mesh upper"]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{"parts": []map[string]any{{"text": "```json\n" + payload + "\n```"}}},
			}},
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	client, err := gemini.NewClient(gemini.Options{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	analyzer, err := NewGeminiAnalyzer(client)
	require.NoError(t, err)

	got, err := analyzer.Analyze(context.Background(), testImage(t))
	require.NoError(t, err)
	assert.Equal(t, "sneaker", got.ProductType)
	assert.Equal(t, []string{"white", "red"}, got.Colors)
	assert.Equal(t, "energetic", got.Mood)
	assert.NotEmpty(t, got.RawText)
}

func TestGeminiAnalyzerPropagatesProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":500,"message":"internal"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := gemini.NewClient(gemini.Options{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	analyzer, err := NewGeminiAnalyzer(client)
	require.NoError(t, err)

	_, err = analyzer.Analyze(context.Background(), testImage(t))
	require.Error(t, err)
}

func TestOpenAIAnalyzerRequiresCredential(t *testing.T) {
	_, err := NewOpenAIAnalyzer(OpenAIOptions{APIKey: ""})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}

func TestAnalysisSummary(t *testing.T) {
	a := domain.ImageAnalysis{
		ProductType: "sneaker",
		Style:       "athletic",
		Mood:        "energetic",
		Colors:      []string{"white", "red"},
	}
	sum := a.Summary()
	assert.Contains(t, sum, "sneaker")
	assert.Contains(t, sum, "athletic style")
	assert.Contains(t, sum, "colors: white, red")
}
