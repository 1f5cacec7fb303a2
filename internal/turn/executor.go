package turn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/valmeida/aetria/internal/services"
	"github.com/valmeida/aetria/pkg/chat"
	"github.com/valmeida/aetria/pkg/prompts"
	"github.com/valmeida/aetria/pkg/response"
	"github.com/valmeida/aetria/pkg/state"
)

// ErrMalformedResponse marks a reply that carried no usable state
// payload. The turn is rejected wholesale: the previous state stands
// and nothing enters the histories.
var ErrMalformedResponse = errors.New("response carried no valid state block")

// imageFailureToast is shown when the illustration call fails while the
// turn itself succeeded.
const imageFailureToast = "A ilustração da cena não pôde ser gerada."

// Result is one fully resolved turn. The caller commits all of it or
// none of it.
type Result struct {
	Turn       state.Turn
	UserEntry  chat.Message
	ModelEntry chat.Message
}

// Executor drives the turn pipeline against the completion and
// illustration services.
type Executor struct {
	llm    services.LLMService
	image  services.ImageService // optional
	retry  RetryPolicy
	logger *slog.Logger
}

// NewExecutor creates an executor. image may be nil to disable scene
// illustration.
func NewExecutor(llm services.LLMService, image services.ImageService, logger *slog.Logger) *Executor {
	return &Executor{
		llm:    llm,
		image:  image,
		retry:  DefaultRetryPolicy(),
		logger: logger,
	}
}

// WithRetryPolicy overrides the default retry behavior.
func (e *Executor) WithRetryPolicy(p RetryPolicy) *Executor {
	e.retry = p
	return e
}

// Run resolves one player action against the current state. On any
// error the inputs are untouched: the caller only mutates its world on
// a non-nil Result.
func (e *Executor) Run(ctx context.Context, action string, gs *state.GameState, transcript []chat.Message) (*Result, error) {
	messages, err := prompts.New().
		WithGameState(gs).
		WithTranscript(transcript).
		WithAction(action).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build turn context: %w", err)
	}

	raw, err := e.retry.Do(ctx, func(ctx context.Context) (string, error) {
		return e.llm.GenerateTurn(ctx, messages)
	})
	if err != nil {
		return nil, err
	}

	parsed := response.Parse(raw)
	if parsed.State == nil {
		e.logger.Warn("Turn rejected", "reason", "no state block", "narrative_len", len(parsed.Narrative))
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, firstLine(parsed.Narrative))
	}

	next, err := state.Decode(state.Upgrade(parsed.State))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	e.illustrate(ctx, next)

	return &Result{
		Turn:       state.Turn{Narrative: parsed.Narrative, State: next},
		UserEntry:  chat.Message{Role: chat.RoleUser, Content: action},
		ModelEntry: chat.Message{Role: chat.RoleModel, Content: parsed.Narrative},
	}, nil
}

// illustrate resolves a pending scene-illustration request on the new
// state. Failures degrade: the turn stands, the player gets a toast.
func (e *Executor) illustrate(ctx context.Context, gs *state.GameState) {
	if gs.UI.ImagePrompt == "" || gs.UI.ImageURL != "" {
		return
	}
	if e.image == nil {
		gs.UI.ImagePrompt = ""
		return
	}

	url, err := e.image.GenerateImage(ctx, gs.UI.ImagePrompt)
	if err != nil {
		e.logger.Warn("Scene illustration failed", "error", err)
		gs.UI.ImagePrompt = ""
		if gs.UI.Toast == nil {
			toast := imageFailureToast
			gs.UI.Toast = &toast
		}
		return
	}
	gs.UI.ImageURL = url
	gs.UI.ImagePrompt = ""
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
