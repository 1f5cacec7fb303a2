package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/valmeida/aetria/pkg/chat"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	DefaultGeminiModel       = "gemini-2.5-flash"
	DefaultGeminiTemperature = 0.9
	DefaultGeminiMaxTokens   = 8192
)

// GeminiService implements LLMService for the Gemini API.
type GeminiService struct {
	apiKey     string
	modelName  string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

type geminiGenerateRequest struct {
	SystemInstruction *geminiContent          `json:"system_instruction,omitempty"`
	Contents          []geminiContent         `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

type geminiGenerateResponse struct {
	Candidates     []geminiCandidate `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	Error *geminiAPIError `json:"error,omitempty"`
}

type geminiAPIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// NewGeminiService creates a Gemini-backed LLM service.
func NewGeminiService(apiKey, modelName string, logger *slog.Logger) *GeminiService {
	return &GeminiService{
		apiKey:    apiKey,
		modelName: modelName,
		baseURL:   geminiBaseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}
}

// splitMessages pulls system entries out into the system instruction and
// maps the rest onto the Gemini role names.
func splitMessages(messages []chat.Message) (*geminiContent, []geminiContent) {
	var systemParts []geminiPart
	contents := make([]geminiContent, 0, len(messages))

	for _, msg := range messages {
		if msg.Role == chat.RoleSystem {
			systemParts = append(systemParts, geminiPart{Text: msg.Content})
			continue
		}
		role := "user"
		if msg.Role == chat.RoleModel {
			role = "model"
		}
		contents = append(contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: msg.Content}},
		})
	}

	if len(systemParts) == 0 {
		return nil, contents
	}
	return &geminiContent{Parts: systemParts}, contents
}

// GenerateTurn sends one generateContent request and returns the raw
// response text.
func (g *GeminiService) GenerateTurn(ctx context.Context, messages []chat.Message) (string, error) {
	system, contents := splitMessages(messages)

	temperature := DefaultGeminiTemperature
	reqBody := geminiGenerateRequest{
		SystemInstruction: system,
		Contents:          contents,
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     &temperature,
			MaxOutputTokens: DefaultGeminiMaxTokens,
		},
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.modelName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
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

	var genResp geminiGenerateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || genResp.Error != nil {
		return "", g.classifyAPIError(resp.StatusCode, genResp.Error)
	}

	if genResp.PromptFeedback != nil && genResp.PromptFeedback.BlockReason != "" {
		g.logger.Warn("Prompt blocked", "reason", genResp.PromptFeedback.BlockReason)
		return "", fmt.Errorf("%w: %s", ErrContentBlocked, genResp.PromptFeedback.BlockReason)
	}

	if len(genResp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	candidate := genResp.Candidates[0]
	switch candidate.FinishReason {
	case "SAFETY", "PROHIBITED_CONTENT", "BLOCKLIST":
		return "", fmt.Errorf("%w: %s", ErrContentBlocked, candidate.FinishReason)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		text.WriteString(part.Text)
	}
	if text.Len() == 0 {
		if candidate.FinishReason != "" && candidate.FinishReason != "STOP" {
			return "", fmt.Errorf("%w: generation stopped (%s)", ErrEmptyResponse, candidate.FinishReason)
		}
		return "", ErrEmptyResponse
	}

	return text.String(), nil
}

// classifyAPIError maps the structured error onto the sentinel taxonomy:
// overloaded and unavailable retry, quota and safety do not.
func (g *GeminiService) classifyAPIError(statusCode int, apiErr *geminiAPIError) error {
	status := ""
	message := ""
	if apiErr != nil {
		status = apiErr.Status
		message = strings.ToLower(apiErr.Message)
	}

	switch {
	case statusCode == http.StatusServiceUnavailable,
		status == "UNAVAILABLE",
		strings.Contains(message, "overloaded"),
		strings.Contains(message, "unavailable"):
		return fmt.Errorf("%w: %s", ErrOverloaded, message)
	case statusCode == http.StatusTooManyRequests,
		status == "RESOURCE_EXHAUSTED":
		return fmt.Errorf("%w: %s", ErrQuotaExhausted, message)
	default:
		return fmt.Errorf("completion request failed (status %d %s): %s", statusCode, status, message)
	}
}
