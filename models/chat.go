package models

import "time"

// Roles used in the conversation window and the completion request.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatRequest is the payload coming from the frontend into /chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is what the chat handler returns to the frontend.
type ChatResponse struct {
	Response string `json:"response"`
}

// ChatMessage is a single turn in the ordered message list sent to the
// completion gateway.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is the per-visitor server-side state, keyed by the session cookie.
// Memory stays in its serialized form between turns; it is only decoded when
// a handoff summary has to be rendered.
type Session struct {
	Token        string        `json:"token"`
	Memory       string        `json:"memory"`
	Conversation []ChatMessage `json:"conversation"`
	ThreadHandle string        `json:"threadHandle,omitempty"`
	HandedOff    bool          `json:"handedOff"`
	LastAccess   time.Time     `json:"lastAccess"`
}

// Memory is the structured fact set the assistant maintains across turns.
// Unknown fields in the serialized record are tolerated and ignored.
type Memory struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Location       string `json:"location"`
	Artist         string `json:"artist"`
	PriceRange     string `json:"priceRange"`
	Description    string `json:"description"`
	Date           string `json:"date"`
	AlreadyGreeted bool   `json:"alreadyGreeted"`
}
