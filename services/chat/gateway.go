package chat

import (
	"context"
	"net/http"

	"aitana/models"
)

// CompletionGateway is a stateless model invocation: ordered message list
// in, one free-text reply out.
type CompletionGateway interface {
	Complete(ctx context.Context, messages []models.ChatMessage) (string, error)
}

// ThreadedGateway is implemented by gateways that keep conversation state
// server-side. The chat service stores the returned handle on the session
// and hands it back on the next turn; an empty handle starts a new thread.
type ThreadedGateway interface {
	ContinueThread(ctx context.Context, handle, instructions, message string) (newHandle, reply string, err error)
}

// HTTPClient lets tests substitute the transport under the HTTP gateways.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
