package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 8 << 20

// RESTClient implements Client by posting generateContent requests directly.
// The API key travels as the "key" query parameter.
type RESTClient struct {
	httpClient *http.Client
	config     *Config
	apiKey     string
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// NewRESTClient creates a REST client. A nil httpClient gets one with the configured timeout.
func NewRESTClient(config *Config, apiKey string, httpClient *http.Client) (*RESTClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.timeout()}
	}

	return &RESTClient{
		httpClient: httpClient,
		config:     config,
		apiKey:     apiKey,
	}, nil
}

// GenerateFromImage sends the prompt and the inline image as two parts of one content entry
func (c *RESTClient) GenerateFromImage(ctx context.Context, prompt string, image Image, tier ModelTier) (string, error) {
	if _, err := image.decode(); err != nil {
		return "", err
	}
	return c.generate(ctx, tier,
		part{Text: prompt},
		part{InlineData: &inlineData{MimeType: image.MIMEType, Data: image.Data}},
	)
}

// GetModel returns the model name for a tier
func (c *RESTClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the HTTP client holds no dedicated resources.
func (c *RESTClient) Close() error {
	return nil
}

func (c *RESTClient) generate(ctx context.Context, tier ModelTier, parts ...part) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	body, err := json.Marshal(generateRequest{Contents: []content{{Parts: parts}}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(modelName), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &APIError{Message: "request failed", Cause: redactKey(err, c.apiKey)}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &APIError{StatusCode: resp.StatusCode, Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := gjson.GetBytes(data, "error.message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	text := gjson.GetBytes(data, "candidates.0.content.parts.0.text")
	if !text.Exists() || text.Type != gjson.String {
		return "", ErrNoText
	}
	return text.String(), nil
}

func (c *RESTClient) endpoint(model string) string {
	base := strings.TrimRight(c.config.baseURL(), "/")
	query := url.Values{"key": {c.apiKey}}
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?%s", base, url.PathEscape(model), query.Encode())
}

// redactKey keeps the API key out of *url.Error messages, which embed the full request URL.
func redactKey(err error, apiKey string) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) || apiKey == "" {
		return err
	}
	redacted := *urlErr
	redacted.URL = strings.ReplaceAll(urlErr.URL, url.QueryEscape(apiKey), "REDACTED")
	return &redacted
}
