package services

import (
	"context"

	"github.com/valmeida/aetria/pkg/chat"
)

// LLMService is the interface to the external completion service acting
// as game master.
type LLMService interface {
	// GenerateTurn sends the ordered message list and returns the raw
	// response text: free narrative expected to end with one fenced
	// JSON state block. Errors are classified against the sentinel
	// taxonomy in errors.go.
	GenerateTurn(ctx context.Context, messages []chat.Message) (string, error)
}

// ImageService is the interface to the optional scene-illustration
// service.
type ImageService interface {
	// GenerateImage renders one prompt and returns the result as an
	// inline data URI.
	GenerateImage(ctx context.Context, prompt string) (string, error)
}
