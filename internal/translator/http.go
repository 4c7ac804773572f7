package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const defaultHTTPTimeout = 60 * time.Second

// HTTPTranslator talks to a JSON-over-HTTP translation endpoint.
// Thread-safe for concurrent use.
type HTTPTranslator struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// HTTPOption customizes an HTTPTranslator.
type HTTPOption func(*HTTPTranslator)

// WithAPIKey sends the key as a bearer token on every request.
func WithAPIKey(key string) HTTPOption {
	return func(t *HTTPTranslator) {
		t.apiKey = key
	}
}

// WithTimeout overrides the request timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(t *HTTPTranslator) {
		t.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client entirely.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(t *HTTPTranslator) {
		t.httpClient = c
	}
}

// NewHTTP creates a translator posting to the given endpoint.
func NewHTTP(endpoint string, opts ...HTTPOption) (*HTTPTranslator, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("translator endpoint is required")
	}
	t := &HTTPTranslator{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

type translateRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"target_lang"`
}

type translateResponse struct {
	TranslatedText string `json:"translated_text"`
	Error          string `json:"error,omitempty"`
}

// Translate posts the text and returns the translated form.
func (t *HTTPTranslator) Translate(ctx context.Context, text string, targetLang string) (string, error) {
	payload := translateRequest{Text: text, TargetLang: targetLang}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		if os.IsTimeout(err) {
			return "", fmt.Errorf("request timed out: %w", err)
		}
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("translation request failed with status %d: %s", resp.StatusCode, string(responseBody))
	}

	var parsed translateResponse
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("translation service error: %s", parsed.Error)
	}
	return parsed.TranslatedText, nil
}
