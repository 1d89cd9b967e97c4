package chat

import (
	"testing"

	"aitana/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSystemPromptEmbedsMemory(t *testing.T) {
	memory := `{"name":"Alex","alreadyGreeted":true}`

	prompt := BuildSystemPrompt(memory)

	assert.Contains(t, prompt, "Current Known JSON Memory:\n"+memory)
	assert.Contains(t, prompt, "Club Tattoo")
	assert.Contains(t, prompt, "IMPORTANT SYSTEM RULES FOR #DATA")
}

func TestBuildSystemPromptDefaultsEmptyMemory(t *testing.T) {
	prompt := BuildSystemPrompt("")
	assert.Contains(t, prompt, DefaultMemory)
}

func TestAssembleMessagesOrder(t *testing.T) {
	conversation := []models.ChatMessage{
		{Role: models.RoleUser, Content: "hi"},
		{Role: models.RoleAssistant, Content: "hello!"},
		{Role: models.RoleUser, Content: "how much for a rose?"},
	}

	messages := AssembleMessages("system prompt", conversation)

	require.Len(t, messages, 4)
	assert.Equal(t, models.RoleSystem, messages[0].Role)
	assert.Equal(t, "system prompt", messages[0].Content)
	for i, turn := range conversation {
		assert.Equal(t, turn, messages[i+1])
	}
}

func TestAssembleMessagesDoesNotAliasConversation(t *testing.T) {
	conversation := []models.ChatMessage{{Role: models.RoleUser, Content: "hi"}}

	messages := AssembleMessages("sys", conversation)
	messages[1].Content = "changed"

	assert.Equal(t, "hi", conversation[0].Content)
}
