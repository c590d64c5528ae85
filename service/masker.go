package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPMasker masks PII by calling an external NER sidecar. The sidecar
// receives raw text and returns the text with PERSON/ORG/GPE entity spans
// replaced by bracketed placeholders such as [PERSON].
type HTTPMasker struct {
	url    string
	client *http.Client
}

// NewHTTPMasker creates a masker against the sidecar at url.
func NewHTTPMasker(url string) *HTTPMasker {
	return &HTTPMasker{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type maskRequest struct {
	Text string `json:"text"`
}

type maskResponse struct {
	Text string `json:"text"`
}

// Mask sends text to the sidecar and returns the masked result.
func (m *HTTPMasker) Mask(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", nil
	}

	jsonData, err := json.Marshal(maskRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("failed to marshal mask request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", m.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create mask request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("mask request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("masker returned status %d", resp.StatusCode)
	}

	var out maskResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode mask response: %w", err)
	}
	return out.Text, nil
}

// NoopMasker passes text through unchanged. Used when no masking sidecar is
// configured.
type NoopMasker struct{}

// Mask returns the text unchanged.
func (NoopMasker) Mask(_ context.Context, text string) (string, error) {
	return text, nil
}
