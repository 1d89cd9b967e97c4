package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aitana/models"
)

const openaiBaseURL = "https://api.openai.com/v1"

// OpenAIGateway calls the chat-completions endpoint. Stateless: the full
// message list travels on every request.
type OpenAIGateway struct {
	apiKey  string
	model   string
	baseURL string
	client  HTTPClient
}

func NewOpenAIGateway(apiKey, model string) *OpenAIGateway {
	return NewOpenAIGatewayWithClient(apiKey, model, "", &http.Client{Timeout: 60 * time.Second})
}

func NewOpenAIGatewayWithClient(apiKey, model, baseURL string, client HTTPClient) *OpenAIGateway {
	if baseURL == "" {
		baseURL = openaiBaseURL
	}
	return &OpenAIGateway{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
}

type chatCompletionRequest struct {
	Model    string               `json:"model"`
	Messages []models.ChatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (g *OpenAIGateway) Complete(ctx context.Context, messages []models.ChatMessage) (string, error) {
	var out chatCompletionResponse
	err := g.postJSON(ctx, "/chat/completions", chatCompletionRequest{
		Model:    g.model,
		Messages: messages,
	}, &out)
	if err != nil {
		return "", err
	}
	if out.Error != nil {
		return "", fmt.Errorf("openai: %s (%s)", out.Error.Message, out.Error.Type)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("openai: empty choices in completion response")
	}
	return out.Choices[0].Message.Content, nil
}

func (g *OpenAIGateway) postJSON(ctx context.Context, path string, payload, out any) error {
	return doOpenAIRequest(ctx, g.client, g.apiKey, http.MethodPost, g.baseURL+path, payload, out, false)
}

// doOpenAIRequest is shared by the stateless and threaded gateways.
func doOpenAIRequest(ctx context.Context, client HTTPClient, apiKey, method, url string, payload, out any, beta bool) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("openai: encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("openai: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	if beta {
		req.Header.Set("OpenAI-Beta", "assistants=v2")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("openai: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("openai: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("openai: unexpected status %d: %s", resp.StatusCode, truncate(string(data), 200))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("openai: decode response: %w", err)
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// AssistantGateway drives the stateful threads API: create-or-reuse thread,
// append the message, start a run and poll it to a terminal status. The
// poll loop is hard-bounded; exhausting it is an error, never a hang.
type AssistantGateway struct {
	apiKey       string
	assistantID  string
	baseURL      string
	client       HTTPClient
	pollInterval time.Duration
	maxChecks    int
}

func NewAssistantGateway(apiKey, assistantID string, pollInterval time.Duration, maxChecks int) *AssistantGateway {
	return NewAssistantGatewayWithClient(apiKey, assistantID, "", &http.Client{Timeout: 60 * time.Second}, pollInterval, maxChecks)
}

func NewAssistantGatewayWithClient(apiKey, assistantID, baseURL string, client HTTPClient, pollInterval time.Duration, maxChecks int) *AssistantGateway {
	if baseURL == "" {
		baseURL = openaiBaseURL
	}
	if pollInterval <= 0 {
		pollInterval = 300 * time.Millisecond
	}
	if maxChecks <= 0 {
		maxChecks = 100
	}
	return &AssistantGateway{
		apiKey:       apiKey,
		assistantID:  assistantID,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		client:       client,
		pollInterval: pollInterval,
		maxChecks:    maxChecks,
	}
}

type threadObject struct {
	ID string `json:"id"`
}

type runObject struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type threadMessageList struct {
	Data []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text struct {
				Value string `json:"value"`
			} `json:"text"`
		} `json:"content"`
	} `json:"data"`
}

func (g *AssistantGateway) ContinueThread(ctx context.Context, handle, instructions, message string) (string, string, error) {
	if handle == "" {
		var thread threadObject
		if err := g.postJSON(ctx, "/threads", map[string]any{}, &thread); err != nil {
			return "", "", fmt.Errorf("create thread: %w", err)
		}
		handle = thread.ID
	}

	err := g.postJSON(ctx, "/threads/"+handle+"/messages", map[string]string{
		"role":    models.RoleUser,
		"content": message,
	}, nil)
	if err != nil {
		return handle, "", fmt.Errorf("append thread message: %w", err)
	}

	var run runObject
	err = g.postJSON(ctx, "/threads/"+handle+"/runs", map[string]string{
		"assistant_id": g.assistantID,
		"instructions": instructions,
	}, &run)
	if err != nil {
		return handle, "", fmt.Errorf("start run: %w", err)
	}

	if err := g.awaitRun(ctx, handle, run.ID); err != nil {
		return handle, "", err
	}

	reply, err := g.latestAssistantReply(ctx, handle)
	if err != nil {
		return handle, "", err
	}
	return handle, reply, nil
}

// awaitRun polls the run until it completes. Any terminal status other than
// "completed" is a failure, as is exhausting the check budget.
func (g *AssistantGateway) awaitRun(ctx context.Context, threadID, runID string) error {
	for i := 0; i < g.maxChecks; i++ {
		var run runObject
		if err := g.getJSON(ctx, "/threads/"+threadID+"/runs/"+runID, &run); err != nil {
			return fmt.Errorf("poll run: %w", err)
		}
		switch run.Status {
		case "completed":
			return nil
		case "queued", "in_progress":
			// keep polling
		default:
			return fmt.Errorf("run %s ended with status %q", runID, run.Status)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(g.pollInterval):
		}
	}
	return fmt.Errorf("run %s still not terminal after %d checks", runID, g.maxChecks)
}

func (g *AssistantGateway) latestAssistantReply(ctx context.Context, threadID string) (string, error) {
	var list threadMessageList
	if err := g.getJSON(ctx, "/threads/"+threadID+"/messages?limit=1&order=desc", &list); err != nil {
		return "", fmt.Errorf("list thread messages: %w", err)
	}
	if len(list.Data) == 0 || list.Data[0].Role != models.RoleAssistant {
		return "", fmt.Errorf("no assistant reply on thread %s", threadID)
	}
	var sb strings.Builder
	for _, part := range list.Data[0].Content {
		if part.Type == "text" {
			sb.WriteString(part.Text.Value)
		}
	}
	return sb.String(), nil
}

func (g *AssistantGateway) postJSON(ctx context.Context, path string, payload, out any) error {
	return doOpenAIRequest(ctx, g.client, g.apiKey, http.MethodPost, g.baseURL+path, payload, out, true)
}

func (g *AssistantGateway) getJSON(ctx context.Context, path string, out any) error {
	return doOpenAIRequest(ctx, g.client, g.apiKey, http.MethodGet, g.baseURL+path, nil, out, true)
}
