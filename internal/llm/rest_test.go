package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelope(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
		},
	})
	return string(b)
}

var pixel = Image{MIMEType: "image/png", Data: "AA=="}

func newTestRESTClient(t *testing.T, handler http.HandlerFunc) *RESTClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewRESTClient(DefaultConfig().WithBaseURL(srv.URL), "test-key", srv.Client())
	require.NoError(t, err)
	return client
}

func TestRESTClient_GenerateFromImage_RequestShape(t *testing.T) {
	var (
		gotPath  string
		gotKey   string
		gotCType string
		gotBody  map[string]any
	)
	client := newTestRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		gotCType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		_, _ = io.WriteString(w, envelope(`{"company":"Acme"}`))
	})

	text, err := client.GenerateFromImage(context.Background(), "extract", Image{MIMEType: "image/png", Data: "QUJD"}, TierStandard)
	require.NoError(t, err)
	assert.Equal(t, `{"company":"Acme"}`, text)

	assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "application/json", gotCType)

	contents := gotBody["contents"].([]any)
	require.Len(t, contents, 1)
	parts := contents[0].(map[string]any)["parts"].([]any)
	require.Len(t, parts, 2)
	assert.Equal(t, "extract", parts[0].(map[string]any)["text"])
	inline := parts[1].(map[string]any)["inlineData"].(map[string]any)
	assert.Equal(t, "image/png", inline["mimeType"])
	assert.Equal(t, "QUJD", inline["data"])
	assert.NotContains(t, parts[1], "text")
}

func TestRESTClient_InvalidImageSendsNothing(t *testing.T) {
	called := false
	client := newTestRESTClient(t, func(w http.ResponseWriter, _ *http.Request) {
		called = true
		_, _ = io.WriteString(w, envelope("unused"))
	})

	_, err := client.GenerateFromImage(context.Background(), "p", Image{MIMEType: "image/png", Data: "not base64!"}, TierStandard)
	assert.ErrorIs(t, err, ErrInvalidImage)
	assert.False(t, called)
}

func TestRESTClient_NonSuccessStatus(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "api error body",
			status:      http.StatusBadRequest,
			body:        `{"error":{"code":400,"message":"API key not valid"}}`,
			wantMessage: "API key not valid",
		},
		{
			name:        "plain body",
			status:      http.StatusServiceUnavailable,
			body:        "upstream down",
			wantMessage: "Service Unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestRESTClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.GenerateFromImage(context.Background(), "p", Image{MIMEType: "image/png", Data: "AA=="}, TierStandard)
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
		})
	}
}

func TestRESTClient_MissingText(t *testing.T) {
	for name, body := range map[string]string{
		"no candidates":   `{"candidates":[]}`,
		"non-string text": `{"candidates":[{"content":{"parts":[{"text":42}]}}]}`,
		"empty object":    `{}`,
	} {
		t.Run(name, func(t *testing.T) {
			client := newTestRESTClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, body)
			})

			_, err := client.GenerateFromImage(context.Background(), "p", pixel, TierStandard)
			assert.ErrorIs(t, err, ErrNoText)
		})
	}
}

func TestRESTClient_TransportFailureRedactsKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client, err := NewRESTClient(DefaultConfig().WithBaseURL(srv.URL), "super-secret", &http.Client{Timeout: 20 * time.Millisecond})
	require.NoError(t, err)

	_, err = client.GenerateFromImage(context.Background(), "p", pixel, TierStandard)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Zero(t, apiErr.StatusCode)
	assert.NotContains(t, err.Error(), "super-secret")
}

func TestRESTClient_NoModelForTier(t *testing.T) {
	client, err := NewRESTClient(&Config{Provider: ProviderGeminiREST, Models: map[ModelTier]string{}}, "k", nil)
	require.NoError(t, err)

	_, err = client.GenerateFromImage(context.Background(), "p", pixel, TierStandard)
	assert.ErrorContains(t, err, "no model configured")
}

func TestNewRESTClient_RequiresKey(t *testing.T) {
	_, err := NewRESTClient(nil, "", nil)
	assert.ErrorContains(t, err, "API key is required")
}
