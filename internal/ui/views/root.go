package views

import (
	"github.com/Cyclone1070/mcpchat/internal/ui/models"
	"github.com/Cyclone1070/mcpchat/internal/ui/services"
	"github.com/charmbracelet/lipgloss"
)

// RenderRoot renders the complete UI layout
func RenderRoot(s models.State, renderer services.MarkdownRenderer) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		RenderChat(s, renderer),
		RenderInput(s),
		RenderStatus(s),
	)
}
