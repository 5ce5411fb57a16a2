package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"phonestore/internal/config"

	"go.uber.org/zap"
)

// TextGenerator produces free text from a natural-language instruction.
type TextGenerator interface {
	GenerateText(ctx context.Context, instruction string) (string, error)
}

// Embedder produces embedding vectors for texts.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	IsEnabled() bool
}

// GeminiClient handles Gemini REST API interactions
type GeminiClient struct {
	cfg        *config.GeminiConfig
	httpClient *http.Client
	log        *zap.Logger
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(cfg *config.GeminiConfig, log *zap.Logger) *GeminiClient {
	return &GeminiClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// IsEnabled returns whether the client is configured and ready
func (c *GeminiClient) IsEnabled() bool {
	return c.cfg.Enabled
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type generateRequest struct {
	Contents []geminiContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type embedRequest struct {
	Content geminiContent `json:"content"`
}

type embedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

// GenerateText sends the instruction to the generateContent endpoint and
// returns the first candidate's text.
func (c *GeminiClient) GenerateText(ctx context.Context, instruction string) (string, error) {
	if !c.cfg.Enabled {
		return "", fmt.Errorf("generator is not enabled (missing API key)")
	}

	reqBody := generateRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: instruction}}}},
	}
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.cfg.APIBase, c.cfg.Model, c.cfg.APIKey)

	body, err := c.post(ctx, endpoint, reqBody)
	if err != nil {
		return "", err
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generator returned no candidates")
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}

// EmbedTexts generates embeddings sequentially with a small delay to respect
// rate limits.
func (c *GeminiClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if !c.cfg.Enabled {
		return nil, fmt.Errorf("generator is not enabled (missing API key)")
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:embedContent?key=%s", c.cfg.APIBase, c.cfg.EmbeddingModel, c.cfg.APIKey)
	embeddings := make([][]float32, 0, len(texts))

	for i, text := range texts {
		if i > 0 {
			select {
			case <-time.After(100 * time.Millisecond):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		reqBody := embedRequest{Content: geminiContent{Parts: []geminiPart{{Text: text}}}}
		body, err := c.post(ctx, endpoint, reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to embed text %d: %w", i, err)
		}

		var result embedResponse
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal embedding %d: %w", i, err)
		}
		if len(result.Embedding.Values) == 0 {
			return nil, fmt.Errorf("empty embedding for text %d", i)
		}
		embeddings = append(embeddings, result.Embedding.Values)
	}

	return embeddings, nil
}

func (c *GeminiClient) post(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

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
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// Ensure GeminiClient implements both capabilities
var _ TextGenerator = (*GeminiClient)(nil)
var _ Embedder = (*GeminiClient)(nil)
