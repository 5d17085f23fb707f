package promptlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_DepthAnalysis(t *testing.T) {
	lib := New()
	prompt, err := lib.Render(DepthAnalysis, map[string]string{"core_idea": "my idea"})
	require.NoError(t, err)
	assert.Contains(t, prompt, "my idea")
	assert.NotContains(t, prompt, "{{")
}

func TestRender_UnknownStage(t *testing.T) {
	lib := New()
	_, err := lib.Render("not_a_stage", nil)
	require.Error(t, err)
}

func TestRender_MissingVariableLeavesNoPlaceholder(t *testing.T) {
	lib := New()
	// Omitting a variable substitutes empty string rather than erroring,
	// matching worker.renderTemplate's permissive behavior; only a template
	// text typo (a placeholder with no matching declared variable) trips the
	// unbound-placeholder check.
	prompt, err := lib.Render(FollowUpQuestion, map[string]string{})
	require.NoError(t, err)
	assert.NotContains(t, prompt, "{{")
}

func TestAllStagesRenderWithoutUnboundPlaceholders(t *testing.T) {
	lib := New()
	stages := []string{
		DepthAnalysis, FollowUpQuestion, PersonalAnecdote, HookGeneration,
		ArcDevelopment, QuoteIntegration, CTAGeneration, FinalAssembly, ErrorRecovery,
	}
	for _, stage := range stages {
		tmpl, ok := lib.Template(stage)
		require.True(t, ok, stage)
		vars := make(map[string]string, len(tmpl.Variables))
		for _, v := range tmpl.Variables {
			vars[v] = "x"
		}
		_, err := lib.Render(stage, vars)
		require.NoError(t, err, stage)
	}
}
