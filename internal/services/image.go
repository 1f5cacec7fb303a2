package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const DefaultImageModel = "imagen-3.0-generate-002"

// GeminiImageService implements ImageService against the Imagen predict
// endpoint. Image generation is supplementary: callers treat failures as
// a degraded turn, never a failed one.
type GeminiImageService struct {
	apiKey     string
	modelName  string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type imagenInstance struct {
	Prompt string `json:"prompt"`
}

type imagenParameters struct {
	SampleCount int    `json:"sampleCount"`
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type imagenPredictRequest struct {
	Instances  []imagenInstance `json:"instances"`
	Parameters imagenParameters `json:"parameters"`
}

type imagenPrediction struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MimeType           string `json:"mimeType"`
}

type imagenPredictResponse struct {
	Predictions []imagenPrediction `json:"predictions"`
	Error       *geminiAPIError    `json:"error,omitempty"`
}

// NewGeminiImageService creates an Imagen-backed image service.
func NewGeminiImageService(apiKey, modelName string, logger *slog.Logger) *GeminiImageService {
	if modelName == "" {
		modelName = DefaultImageModel
	}
	return &GeminiImageService{
		apiKey:    apiKey,
		modelName: modelName,
		baseURL:   geminiBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

// GenerateImage renders one prompt and returns a data URI suitable for
// attaching into the state's image_url field.
func (s *GeminiImageService) GenerateImage(ctx context.Context, prompt string) (string, error) {
	reqBody := imagenPredictRequest{
		Instances:  []imagenInstance{{Prompt: prompt}},
		Parameters: imagenParameters{SampleCount: 1, AspectRatio: "16:9"},
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:predict", s.baseURL, s.modelName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var predictResp imagenPredictResponse
	if err := json.Unmarshal(body, &predictResp); err != nil {
		return "", fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || predictResp.Error != nil {
		status := ""
		message := ""
		if predictResp.Error != nil {
			status = predictResp.Error.Status
			message = predictResp.Error.Message
		}
		return "", fmt.Errorf("image request failed (status %d %s): %s", resp.StatusCode, status, message)
	}

	if len(predictResp.Predictions) == 0 || predictResp.Predictions[0].BytesBase64Encoded == "" {
		return "", ErrEmptyResponse
	}

	prediction := predictResp.Predictions[0]
	mimeType := prediction.MimeType
	if mimeType == "" {
		mimeType = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, prediction.BytesBase64Encoded), nil
}
