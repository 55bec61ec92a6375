package internal

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Message roles. Role is immutable once a message is created.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// titleMaxLen is the number of leading characters of the first message kept
// as the default session title.
const titleMaxLen = 30

// Message represents one chat message
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Thinking  *string   `json:"thinking,omitempty"` // assistant messages only
	Images    []string  `json:"images,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserMessage builds a user message with a fresh ID and timestamp
func NewUserMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewAssistantMessage builds an assistant message with a fresh ID and
// timestamp. thinking is nil when the response had no thought segment.
func NewAssistantMessage(content string, thinking *string, images []string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   content,
		Thinking:  thinking,
		Images:    images,
		CreatedAt: time.Now(),
	}
}

// Session represents one chat session. ID is generated once when the session
// is first persisted and immutable afterwards. Title is the only
// user-editable field; TitleSet records an explicit rename so later upserts
// stop recomputing it.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	TitleSet  bool      `json:"title_set,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`
}

// DefaultTitle derives a session title from the first message: the first 30
// characters plus an ellipsis, or the content verbatim when short enough.
func DefaultTitle(messages []Message) string {
	if len(messages) == 0 {
		return "New chat"
	}
	content := messages[0].Content
	runes := []rune(content)
	if len(runes) > titleMaxLen {
		return string(runes[:titleMaxLen]) + "..."
	}
	return content
}

// NewSessionID mints a session ID. Nanosecond timestamps make collisions
// practically impossible within one store.
func NewSessionID() string {
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}
