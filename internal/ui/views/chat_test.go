package views

import (
	"errors"
	"testing"

	"github.com/Cyclone1070/mcpchat/internal/ui/models"
	"github.com/stretchr/testify/assert"
)

func TestRenderChat_NoMessages(t *testing.T) {
	state := models.State{Messages: []models.Message{}}
	result := RenderChat(state, &MockMarkdownRenderer{})
	assert.Contains(t, result, "No messages yet")
}

func TestRenderChat_WithMessages(t *testing.T) {
	vp := createTestViewport()
	vp.SetContent("Rendered Content")

	state := models.State{
		Messages: []models.Message{{Role: models.RoleUser, Content: "Hello"}},
		Viewport: vp,
	}

	result := RenderChat(state, &MockMarkdownRenderer{})
	assert.Contains(t, result, "Rendered Content")
}

func TestFormatChatContent_Roles(t *testing.T) {
	renderer := &MockMarkdownRenderer{RenderFunc: func(s string, _ int) (string, error) {
		return "md:" + s, nil
	}}
	messages := []models.Message{
		{Role: models.RoleUser, Content: "hotels in Madrid"},
		{Role: models.RoleAssistant, Content: "Hotel Sol"},
		{Role: models.RoleNotice, Content: "Tools used: search_hotels"},
	}

	out := FormatChatContent(messages, 76, renderer)

	assert.Contains(t, out, "You: hotels in Madrid")
	assert.Contains(t, out, "md:Hotel Sol")
	assert.Contains(t, out, "Tools used: search_hotels")
	assert.NotContains(t, out, "md:Tools used")
}

func TestFormatChatContent_RenderErrorFallsBack(t *testing.T) {
	renderer := &MockMarkdownRenderer{RenderFunc: func(string, int) (string, error) {
		return "", errors.New("boom")
	}}
	out := FormatChatContent([]models.Message{{Role: models.RoleAssistant, Content: "plain"}}, 40, renderer)
	assert.Contains(t, out, "Assistant: plain")
}
