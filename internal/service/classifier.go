package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"phonestore/internal/config"

	"go.uber.org/zap"
)

// Classifier resolves a raw utterance through the external intent service.
type Classifier interface {
	Classify(ctx context.Context, message string) (*ClassifierResponse, error)
}

// Entity keys as configured in the classifier app.
const (
	EntityProductName = "product_name:product_name"
	EntityPriceRange  = "price_range:price_range"
	EntityFeature     = "feature:feature"
	EntityColor       = "color:color"
	EntityBrand       = "brand:brand"
)

// ClassifierIntent is one recognized intent with its confidence.
type ClassifierIntent struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// ClassifierEntity is one typed value extraction.
type ClassifierEntity struct {
	Value string `json:"value"`
}

// ClassifierResponse mirrors the Wit.ai /message payload. A nil Intents
// slice means the service omitted the field entirely, which the resolver
// treats the same as a classifier failure.
type ClassifierResponse struct {
	Text     string                        `json:"text"`
	Intents  []ClassifierIntent            `json:"intents"`
	Entities map[string][]ClassifierEntity `json:"entities"`
}

// FirstEntity returns the first extraction for a key, or "".
func (r *ClassifierResponse) FirstEntity(key string) string {
	if values := r.Entities[key]; len(values) > 0 {
		return values[0].Value
	}
	return ""
}

// EntityValues returns all extractions for a key, in order.
func (r *ClassifierResponse) EntityValues(key string) []string {
	entities := r.Entities[key]
	values := make([]string, 0, len(entities))
	for _, e := range entities {
		values = append(values, e.Value)
	}
	return values
}

// WitClient calls the Wit.ai /message endpoint.
type WitClient struct {
	cfg        *config.WitConfig
	httpClient *http.Client
	log        *zap.Logger
}

// NewWitClient creates a new Wit.ai classifier client
func NewWitClient(cfg *config.WitConfig, log *zap.Logger) *WitClient {
	return &WitClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// IsEnabled returns whether the client is configured and ready
func (c *WitClient) IsEnabled() bool {
	return c.cfg.Enabled
}

// Classify sends the utterance to the classifier. Errors are non-fatal to
// the caller; the resolver degrades to the fallback path.
func (c *WitClient) Classify(ctx context.Context, message string) (*ClassifierResponse, error) {
	if !c.cfg.Enabled {
		return nil, fmt.Errorf("classifier is not enabled (missing access token)")
	}

	reqURL := fmt.Sprintf("%s/message?v=%s&q=%s", c.cfg.APIBase, c.cfg.APIVersion, url.QueryEscape(message))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result ClassifierResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &result, nil
}

// Ensure WitClient implements Classifier
var _ Classifier = (*WitClient)(nil)
