package chat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"aitana/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedClient struct {
	handler  func(req *http.Request) (int, string)
	requests []*http.Request
}

func (c *scriptedClient) Do(req *http.Request) (*http.Response, error) {
	c.requests = append(c.requests, req)
	status, body := c.handler(req)
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}, nil
}

func TestOpenAIGatewayComplete(t *testing.T) {
	client := &scriptedClient{handler: func(req *http.Request) (int, string) {
		return 200, `{"choices":[{"message":{"content":"Hi, my name is Aitana!"}}]}`
	}}
	gw := NewOpenAIGatewayWithClient("key", "gpt-4", "https://example.test/v1", client)

	reply, err := gw.Complete(context.Background(), []models.ChatMessage{
		{Role: models.RoleSystem, Content: "sys"},
		{Role: models.RoleUser, Content: "hi"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hi, my name is Aitana!", reply)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.Equal(t, "https://example.test/v1/chat/completions", req.URL.String())
	assert.Equal(t, "Bearer key", req.Header.Get("Authorization"))

	var sent chatCompletionRequest
	body, _ := io.ReadAll(req.Body)
	require.NoError(t, json.Unmarshal(body, &sent))
	assert.Equal(t, "gpt-4", sent.Model)
	require.Len(t, sent.Messages, 2)
}

func TestOpenAIGatewayEmptyChoices(t *testing.T) {
	client := &scriptedClient{handler: func(req *http.Request) (int, string) {
		return 200, `{"choices":[]}`
	}}
	gw := NewOpenAIGatewayWithClient("key", "gpt-4", "", client)

	_, err := gw.Complete(context.Background(), nil)
	assert.Error(t, err)
}

func TestOpenAIGatewayHTTPError(t *testing.T) {
	client := &scriptedClient{handler: func(req *http.Request) (int, string) {
		return 429, `{"error":{"message":"rate limited"}}`
	}}
	gw := NewOpenAIGatewayWithClient("key", "gpt-4", "", client)

	_, err := gw.Complete(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func assistantScript(runStatuses []string) func(req *http.Request) (int, string) {
	polls := 0
	return func(req *http.Request) (int, string) {
		switch {
		case req.Method == http.MethodPost && strings.HasSuffix(req.URL.Path, "/threads"):
			return 200, `{"id":"th_1"}`
		case req.Method == http.MethodPost && strings.HasSuffix(req.URL.Path, "/messages"):
			return 200, `{}`
		case req.Method == http.MethodPost && strings.HasSuffix(req.URL.Path, "/runs"):
			return 200, `{"id":"run_1","status":"queued"}`
		case req.Method == http.MethodGet && strings.Contains(req.URL.Path, "/runs/"):
			status := runStatuses[polls]
			if polls < len(runStatuses)-1 {
				polls++
			}
			return 200, `{"id":"run_1","status":"` + status + `"}`
		case req.Method == http.MethodGet && strings.Contains(req.URL.Path, "/messages"):
			return 200, `{"data":[{"role":"assistant","content":[{"type":"text","text":{"value":"Thread reply."}}]}]}`
		}
		return 404, `{}`
	}
}

func TestAssistantGatewayHappyPath(t *testing.T) {
	client := &scriptedClient{handler: assistantScript([]string{"queued", "in_progress", "completed"})}
	gw := NewAssistantGatewayWithClient("key", "asst_1", "https://example.test/v1", client, time.Millisecond, 10)

	handle, reply, err := gw.ContinueThread(context.Background(), "", "instructions", "hi")
	require.NoError(t, err)
	assert.Equal(t, "th_1", handle)
	assert.Equal(t, "Thread reply.", reply)

	// Thread reuse skips creation.
	before := len(client.requests)
	_, _, err = gw.ContinueThread(context.Background(), "th_1", "instructions", "again")
	require.NoError(t, err)
	for _, req := range client.requests[before:] {
		assert.NotEqual(t, "/v1/threads", req.URL.Path, "existing handle must be reused")
	}
}

func TestAssistantGatewayRunFailure(t *testing.T) {
	client := &scriptedClient{handler: assistantScript([]string{"queued", "failed"})}
	gw := NewAssistantGatewayWithClient("key", "asst_1", "", client, time.Millisecond, 10)

	_, _, err := gw.ContinueThread(context.Background(), "", "instructions", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `status "failed"`)
}

func TestAssistantGatewayPollBound(t *testing.T) {
	client := &scriptedClient{handler: assistantScript([]string{"in_progress"})}
	gw := NewAssistantGatewayWithClient("key", "asst_1", "", client, time.Millisecond, 3)

	_, _, err := gw.ContinueThread(context.Background(), "", "instructions", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not terminal after 3 checks")
}
