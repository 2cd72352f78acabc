package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"app/internal/model"

	"github.com/rs/zerolog"
)

// GenerationClient talks to the external generation backend.
type GenerationClient interface {
	// Generate submits one generation request and returns the result
	// URL. Timeouts are left to the transport and the caller's context.
	Generate(ctx context.Context, req *GenerationRequest) (string, error)
}

// GenerationRequest is the single request shape the backend accepts.
type GenerationRequest struct {
	Prompt     string
	Duration   string
	Resolution string
	Kind       model.GenerationKind
	SubKind    string
	UserID     string
	// File is an optional reference image, already read into memory so
	// a detached generation job does not depend on the request body.
	FileName string
	FileData []byte
}

type generateResponse struct {
	URL string `json:"url"`
}

type generateError struct {
	Detail string `json:"detail"`
}

type generationClient struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewGenerationClient creates a GenerationClient for the configured
// backend base URL.
func NewGenerationClient(baseURL string, logger zerolog.Logger) GenerationClient {
	return &generationClient{
		baseURL: baseURL,
		client:  &http.Client{
			// No client timeout: generation runs are long and the
			// backend does not report progress. Cancellation comes from
			// the request context.
		},
		logger: logger.With().Str("service", "GenerationClient").Logger(),
	}
}

func (c *generationClient) Generate(ctx context.Context, genReq *GenerationRequest) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"prompt":     genReq.Prompt,
		"duration":   genReq.Duration,
		"resolution": genReq.Resolution,
		"type":       string(genReq.Kind),
		"subType":    genReq.SubKind,
		"user_id":    genReq.UserID,
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return "", fmt.Errorf("writing form field %s: %w", name, err)
		}
	}
	if len(genReq.FileData) > 0 {
		part, err := mw.CreateFormFile("file", genReq.FileName)
		if err != nil {
			return "", fmt.Errorf("creating form file part: %w", err)
		}
		if _, err := part.Write(genReq.FileData); err != nil {
			return "", fmt.Errorf("writing form file part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("closing multipart writer: %w", err)
	}

	url := fmt.Sprintf("%s/api/generate", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("making request to generation backend: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn().Err(closeErr).Msg("Failed to close response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The backend may answer with a JSON detail; fall back to a
		// generic message when the body is unparsable.
		detail := "Generation failed on backend"
		bodyBytes, readErr := io.ReadAll(resp.Body)
		if readErr == nil {
			var ge generateError
			if err := json.Unmarshal(bodyBytes, &ge); err == nil && ge.Detail != "" {
				detail = ge.Detail
			}
		}
		c.logger.Error().
			Int("status_code", resp.StatusCode).
			Str("detail", detail).
			Msg("Generation backend returned error")
		return "", &UpstreamError{Message: detail}
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("decoding generation response: %w", err)
	}
	return gr.URL, nil
}
