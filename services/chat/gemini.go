package chat

import (
	"context"
	"fmt"
	"strings"

	"aitana/models"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiGateway is the Gemini-backed stateless gateway. Gemini has no
// system role on this API surface, so the message list is flattened into a
// single prompt with role labels.
type GeminiGateway struct {
	model *genai.GenerativeModel
}

func NewGeminiGateway(ctx context.Context, apiKey string) (*GeminiGateway, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiGateway{model: client.GenerativeModel("models/gemini-1.5-pro")}, nil
}

func (g *GeminiGateway) Complete(ctx context.Context, messages []models.ChatMessage) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(flattenMessages(messages)))
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini: empty candidate list")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return sb.String(), nil
}

func flattenMessages(messages []models.ChatMessage) string {
	var sb strings.Builder
	for _, m := range messages {
		switch m.Role {
		case models.RoleSystem:
			sb.WriteString(m.Content)
		case models.RoleUser:
			sb.WriteString("Client: " + m.Content)
		case models.RoleAssistant:
			sb.WriteString("Aitana: " + m.Content)
		}
		sb.WriteString("\n\n")
	}
	sb.WriteString("Aitana:")
	return sb.String()
}
