package chat

// Roles for transcript entries, as expected by the completion service.
const (
	RoleUser   = "user"
	RoleModel  = "model"
	RoleSystem = "system"
)

// Message is a single role-tagged entry in the conversation replayed to
// the game master for continuity. The transcript is deliberately lossy:
// the model entries carry only narrative text, never the state blob that
// travels out of band with each request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Window returns the most recent n messages without mutating history.
// It is applied at the pre-request boundary and at the persistence
// boundary; the in-memory transcript keeps growing for display.
func Window(history []Message, n int) []Message {
	if n <= 0 {
		return []Message{}
	}
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
