package views

import (
	"testing"

	"github.com/Cyclone1070/mcpchat/internal/ui/models"
	"github.com/stretchr/testify/assert"
)

func TestRenderStatus_Executing(t *testing.T) {
	state := models.State{
		StatusPhase:   "executing",
		StatusMessage: "Running search_hotels...",
		Spinner:       createTestSpinner(),
	}

	result := RenderStatus(state)

	assert.Contains(t, result, "Running search_hotels...")
	assert.NotEmpty(t, result)
}

func TestRenderStatus_Done(t *testing.T) {
	state := models.State{
		StatusPhase:   "done",
		StatusMessage: "search_hotels",
	}

	result := RenderStatus(state)

	assert.Contains(t, result, "✔")
	assert.Contains(t, result, "search_hotels")
}

func TestRenderStatus_Error(t *testing.T) {
	state := models.State{
		StatusPhase:   "error",
		StatusMessage: "request failed",
	}

	result := RenderStatus(state)

	assert.Contains(t, result, "✘")
	assert.Contains(t, result, "request failed")
}

func TestRenderStatus_Thinking(t *testing.T) {
	state := models.State{
		StatusPhase: "thinking",
		DotCount:    2,
		Spinner:     createTestSpinner(),
	}

	result := RenderStatus(state)

	assert.Contains(t, result, "Generating..") // 2 dots
}

func TestRenderStatus_DefaultReady(t *testing.T) {
	result := RenderStatus(models.State{})

	assert.Contains(t, result, "Ready")
}

func TestRenderStatus_ShowsModel(t *testing.T) {
	result := RenderStatus(models.State{CurrentModel: "gemini-2.5-flash"})

	assert.Contains(t, result, "Ready")
	assert.Contains(t, result, "gemini-2.5-flash")
}
