package services

import (
	"context"
	"sync"

	"github.com/valmeida/aetria/pkg/chat"
)

// MockLLMService is a mock implementation of LLMService for testing.
type MockLLMService struct {
	GenerateTurnFunc func(ctx context.Context, messages []chat.Message) (string, error)

	// Track calls for testing
	GenerateTurnCalls [][]chat.Message

	mu sync.Mutex
}

// NewMockLLMService creates a new mock LLM service.
func NewMockLLMService() *MockLLMService {
	return &MockLLMService{
		GenerateTurnCalls: make([][]chat.Message, 0),
	}
}

func (m *MockLLMService) GenerateTurn(ctx context.Context, messages []chat.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GenerateTurnCalls = append(m.GenerateTurnCalls, messages)

	if m.GenerateTurnFunc != nil {
		return m.GenerateTurnFunc(ctx, messages)
	}
	return "...\n```json\n{}\n```", nil
}

// CallCount returns how many turns were requested.
func (m *MockLLMService) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GenerateTurnCalls)
}

// MockImageService is a mock implementation of ImageService for testing.
type MockImageService struct {
	GenerateImageFunc func(ctx context.Context, prompt string) (string, error)

	GenerateImageCalls []string

	mu sync.Mutex
}

// NewMockImageService creates a new mock image service.
func NewMockImageService() *MockImageService {
	return &MockImageService{
		GenerateImageCalls: make([]string, 0),
	}
}

func (m *MockImageService) GenerateImage(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GenerateImageCalls = append(m.GenerateImageCalls, prompt)

	if m.GenerateImageFunc != nil {
		return m.GenerateImageFunc(ctx, prompt)
	}
	return "data:image/png;base64,dGVzdA==", nil
}
