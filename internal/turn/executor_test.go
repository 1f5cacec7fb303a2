package turn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valmeida/aetria/internal/services"
	"github.com/valmeida/aetria/pkg/chat"
	"github.com/valmeida/aetria/pkg/state"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestExecutor(llm services.LLMService, image services.ImageService) *Executor {
	p := DefaultRetryPolicy()
	p.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return NewExecutor(llm, image, testLogger()).WithRetryPolicy(p)
}

// replyWith renders a well-formed game-master reply around the given
// state document.
func replyWith(narrative string, gs *state.GameState) string {
	data, err := json.Marshal(gs)
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("%s\n\n```json\n%s\n```", narrative, data)
}

func TestExecutor_Run(t *testing.T) {
	next := state.Default()
	next.Player.Nome = "Kael"
	next.Time.Dia = 2

	mock := services.NewMockLLMService()
	mock.GenerateTurnFunc = func(ctx context.Context, messages []chat.Message) (string, error) {
		return replyWith("O sol nasce sobre o vale.", next), nil
	}

	exec := newTestExecutor(mock, nil)
	res, err := exec.Run(context.Background(), "Explorar a vila", state.Default(), nil)
	require.NoError(t, err)

	assert.Equal(t, "O sol nasce sobre o vale.", res.Turn.Narrative)
	assert.Equal(t, "Kael", res.Turn.State.Player.Nome)
	assert.Equal(t, 2, res.Turn.State.Time.Dia)

	// Only the short action text enters the transcript, never the
	// serialized snapshot.
	assert.Equal(t, chat.RoleUser, res.UserEntry.Role)
	assert.Equal(t, "Explorar a vila", res.UserEntry.Content)
	assert.Equal(t, chat.RoleModel, res.ModelEntry.Role)
	assert.Equal(t, "O sol nasce sobre o vale.", res.ModelEntry.Content)
}

func TestExecutor_ContextCarriesStateSnapshot(t *testing.T) {
	mock := services.NewMockLLMService()
	mock.GenerateTurnFunc = func(ctx context.Context, messages []chat.Message) (string, error) {
		return replyWith("ok", state.Default()), nil
	}

	gs := state.Default()
	gs.Player.Nome = "Aria"
	transcript := []chat.Message{
		{Role: chat.RoleUser, Content: "olhar ao redor"},
		{Role: chat.RoleModel, Content: "Você vê a praça."},
	}

	exec := newTestExecutor(mock, nil)
	_, err := exec.Run(context.Background(), "Seguir para o porto", gs, transcript)
	require.NoError(t, err)

	require.Equal(t, 1, mock.CallCount())
	sent := mock.GenerateTurnCalls[0]
	require.Len(t, sent, 4)
	assert.Equal(t, chat.RoleSystem, sent[0].Role)
	assert.Equal(t, "olhar ao redor", sent[1].Content)
	assert.Contains(t, sent[3].Content, "Seguir para o porto")
	assert.Contains(t, sent[3].Content, "Aria")
}

func TestExecutor_MissingStateBlockFailsTurn(t *testing.T) {
	for name, reply := range map[string]string{
		"no fence":        "Apenas narrativa, sem estado.",
		"malformed fence": "Narrativa.\n```json\n{broken\n```",
	} {
		t.Run(name, func(t *testing.T) {
			mock := services.NewMockLLMService()
			mock.GenerateTurnFunc = func(ctx context.Context, messages []chat.Message) (string, error) {
				return reply, nil
			}

			exec := newTestExecutor(mock, nil)
			res, err := exec.Run(context.Background(), "agir", state.Default(), nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedResponse)
			assert.Nil(t, res)
		})
	}
}

func TestExecutor_RetriesOverloadedService(t *testing.T) {
	mock := services.NewMockLLMService()
	calls := 0
	mock.GenerateTurnFunc = func(ctx context.Context, messages []chat.Message) (string, error) {
		calls++
		if calls < 2 {
			return "", services.ErrOverloaded
		}
		return replyWith("ok", state.Default()), nil
	}

	exec := newTestExecutor(mock, nil)
	_, err := exec.Run(context.Background(), "agir", state.Default(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestExecutor_QuotaErrorSurfacesImmediately(t *testing.T) {
	mock := services.NewMockLLMService()
	mock.GenerateTurnFunc = func(ctx context.Context, messages []chat.Message) (string, error) {
		return "", services.ErrQuotaExhausted
	}

	exec := newTestExecutor(mock, nil)
	_, err := exec.Run(context.Background(), "agir", state.Default(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrQuotaExhausted)
	assert.Equal(t, 1, mock.CallCount())
}

func TestExecutor_ResponseStateIsMigrated(t *testing.T) {
	// Game master replies with a legacy-shaped document.
	mock := services.NewMockLLMService()
	mock.GenerateTurnFunc = func(ctx context.Context, messages []chat.Message) (string, error) {
		return "ok\n```json\n{\"player\":{\"harem\":{\"membros\":[\"npc_1\"]}}}\n```", nil
	}

	exec := newTestExecutor(mock, nil)
	res, err := exec.Run(context.Background(), "agir", state.Default(), nil)
	require.NoError(t, err)
	assert.Equal(t, state.CurrentVersion, res.Turn.State.Version)
	assert.Equal(t, []string{"npc_1"}, res.Turn.State.Player.CirculoIntimo.Membros)
}

func TestExecutor_Illustration(t *testing.T) {
	pendingReply := func() string {
		gs := state.Default()
		gs.UI.ImagePrompt = "um porto ao amanhecer"
		return replyWith("ok", gs)
	}

	t.Run("pending request resolved", func(t *testing.T) {
		mock := services.NewMockLLMService()
		mock.GenerateTurnFunc = func(ctx context.Context, messages []chat.Message) (string, error) {
			return pendingReply(), nil
		}
		img := services.NewMockImageService()

		exec := newTestExecutor(mock, img)
		res, err := exec.Run(context.Background(), "agir", state.Default(), nil)
		require.NoError(t, err)

		assert.Equal(t, []string{"um porto ao amanhecer"}, img.GenerateImageCalls)
		assert.Equal(t, "data:image/png;base64,dGVzdA==", res.Turn.State.UI.ImageURL)
		assert.Empty(t, res.Turn.State.UI.ImagePrompt)
	})

	t.Run("failure degrades without failing the turn", func(t *testing.T) {
		mock := services.NewMockLLMService()
		mock.GenerateTurnFunc = func(ctx context.Context, messages []chat.Message) (string, error) {
			return pendingReply(), nil
		}
		img := services.NewMockImageService()
		img.GenerateImageFunc = func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("render backend down")
		}

		exec := newTestExecutor(mock, img)
		res, err := exec.Run(context.Background(), "agir", state.Default(), nil)
		require.NoError(t, err)

		assert.Empty(t, res.Turn.State.UI.ImageURL)
		assert.Empty(t, res.Turn.State.UI.ImagePrompt)
		require.NotNil(t, res.Turn.State.UI.Toast)
		assert.Equal(t, imageFailureToast, *res.Turn.State.UI.Toast)
	})

	t.Run("no image service clears the request", func(t *testing.T) {
		mock := services.NewMockLLMService()
		mock.GenerateTurnFunc = func(ctx context.Context, messages []chat.Message) (string, error) {
			return pendingReply(), nil
		}

		exec := newTestExecutor(mock, nil)
		res, err := exec.Run(context.Background(), "agir", state.Default(), nil)
		require.NoError(t, err)
		assert.Empty(t, res.Turn.State.UI.ImagePrompt)
	})

	t.Run("already illustrated turn left alone", func(t *testing.T) {
		mock := services.NewMockLLMService()
		mock.GenerateTurnFunc = func(ctx context.Context, messages []chat.Message) (string, error) {
			gs := state.Default()
			gs.UI.ImagePrompt = "cena"
			gs.UI.ImageURL = "data:image/png;base64,existente"
			return replyWith("ok", gs), nil
		}
		img := services.NewMockImageService()

		exec := newTestExecutor(mock, img)
		res, err := exec.Run(context.Background(), "agir", state.Default(), nil)
		require.NoError(t, err)
		assert.Empty(t, img.GenerateImageCalls)
		assert.Equal(t, "data:image/png;base64,existente", res.Turn.State.UI.ImageURL)
	})
}
