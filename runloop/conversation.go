package runloop

// Role identifies who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry in a conversation: either free text or a
// structured action emitted by the model.
type Message struct {
	Role   Role    `json:"role"`
	Text   string  `json:"text,omitempty"`
	Action *Action `json:"action,omitempty"`
}

// Conversation is an ordered, append-only sequence of messages. The loop
// owns it for the duration of a run; messages are never removed or
// reordered.
type Conversation []Message

// UserMessage creates a user Message with text content.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Text: text}
}

// ActionMessage creates an assistant Message wrapping a structured action.
func ActionMessage(act *Action) Message {
	return Message{Role: RoleAssistant, Action: act}
}

// Clone returns a shallow copy safe for appending without aliasing the
// caller's seed.
func (c Conversation) Clone() Conversation {
	if c == nil {
		return nil
	}
	out := make(Conversation, len(c))
	copy(out, c)
	return out
}
