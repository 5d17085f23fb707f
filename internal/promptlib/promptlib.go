// Package promptlib is a pure, side-effect-free mapping from (stage,
// variables) to a prompt string. Templates are data, not code, so they can be
// swapped without touching the Conversation Engine (spec §4.5; Design Notes
// §9: "prompt strings embedded in module-level constants become a
// data-driven Prompt Library"). Placeholder substitution follows the
// teacher's worker.renderTemplate pattern: a simple "{{name}}" replace with
// an error if any placeholder is left unbound.
package promptlib

import (
	"fmt"
	"strings"
)

// Stage keys for the required template set (spec §4.5).
const (
	DepthAnalysis     = "depth_analysis"
	FollowUpQuestion  = "follow_up_question"
	PersonalAnecdote  = "personal_anecdote"
	HookGeneration    = "hook_generation"
	ArcDevelopment    = "arc_development"
	QuoteIntegration  = "quote_integration"
	CTAGeneration     = "cta_generation"
	FinalAssembly     = "final_assembly"
	ErrorRecovery     = "error_recovery"
)

// OutputShape documents what a template's renderer should expect back from
// the LLM, for documentation purposes; the engine's parser is the actual
// authority on acceptance.
type OutputShape string

const (
	ShapeFreeText        OutputShape = "free_text"
	ShapeNumericScore    OutputShape = "numeric_score"
	ShapeThreeCandidates OutputShape = "three_candidates"
)

// Template describes one stage's prompt: its source text, the variables it
// expects, and the output shape callers should parse for.
type Template struct {
	Name      string
	Text      string
	Variables []string
	Output    OutputShape
}

// Library is the loaded, read-only set of templates keyed by stage.
type Library struct {
	templates map[string]Template
}

// New constructs the default Library. It never fails: the built-in template
// set is a compile-time constant, so "loaded once at startup" here just means
// "constructed once at startup" rather than read from disk, but the Library
// handle is passed by reference exactly as an externally loaded one would be.
func New() *Library {
	return &Library{templates: defaultTemplates()}
}

// Render produces the prompt string for a stage given a set of variables.
// It returns an error if the stage is unknown or a placeholder in the
// template text has no corresponding variable.
func (l *Library) Render(stage string, vars map[string]string) (string, error) {
	tmpl, ok := l.templates[stage]
	if !ok {
		return "", fmt.Errorf("promptlib: unknown stage %q", stage)
	}
	rendered := tmpl.Text
	for _, name := range tmpl.Variables {
		placeholder := "{{" + name + "}}"
		value, present := vars[name]
		if !present {
			value = ""
		}
		rendered = strings.ReplaceAll(rendered, placeholder, value)
	}
	if strings.Contains(rendered, "{{") {
		return "", fmt.Errorf("promptlib: unbound placeholders remain in %q template", stage)
	}
	return rendered, nil
}

// Template returns the raw template definition for a stage, mainly so the
// HTTP surface or tests can introspect expected variables/shape.
func (l *Library) Template(stage string) (Template, bool) {
	t, ok := l.templates[stage]
	return t, ok
}

func defaultTemplates() map[string]Template {
	return map[string]Template{
		DepthAnalysis: {
			Name: DepthAnalysis,
			Text: `You are assessing the narrative depth of a raw story seed for a Richmond,
Virginia storytelling project.

Seed idea:
"""
{{core_idea}}
"""

Score the seed's narrative potential from 0 to 5 using this rubric:
  0-1: a bare topic or location with no personal stake ("Richmond tech scene").
  2-2.9: names a personal connection but lacks a concrete moment or conflict.
  3-3.9: contains a specific moment, decision, or turning point tied to the
         author.
  4-5: contains a specific moment AND a clear emotional or thematic stake.

Respond with exactly two lines:
SCORE: <number 0-5>
CLASSIFICATION: <sufficient|insufficient>

A score below 3.0 is always "insufficient".`,
			Variables: []string{"core_idea"},
			Output:    ShapeNumericScore,
		},
		FollowUpQuestion: {
			Name: FollowUpQuestion,
			Text: `The following seed idea needs more personal detail before it can become a
story:

"""
{{core_idea}}
"""

Ask exactly one open-ended, specific follow-up question that would surface a
concrete moment, decision, or turning point the author experienced. Return
only the question, with no preamble.`,
			Variables: []string{"core_idea"},
			Output:    ShapeFreeText,
		},
		PersonalAnecdote: {
			Name: PersonalAnecdote,
			Text: `Seed idea and context gathered so far:

"""
{{enriched_core}}
"""

Invite the author to share a short personal anecdote that brings this idea to
life — a specific scene, with people, place, and a moment of change. Ask one
warm, specific question. Return only the question.`,
			Variables: []string{"enriched_core"},
			Output:    ShapeFreeText,
		},
		HookGeneration: {
			Name: HookGeneration,
			Text: `Using the story material below and the grounding context from Richmond's
local archive, write exactly three distinct hooks that could open this story.

Story material:
"""
{{enriched_core}}
"""

Richmond context:
"""
{{context_chunks}}
"""

Respond with exactly three entries, one per line, in this exact format:
HOOK 1: <title> - <body>
HOOK 2: <title> - <body>
HOOK 3: <title> - <body>`,
			Variables: []string{"enriched_core", "context_chunks"},
			Output:    ShapeThreeCandidates,
		},
		ArcDevelopment: {
			Name: ArcDevelopment,
			Text: `Selected hook:
"""
{{selected_hook}}
"""

Story material:
"""
{{enriched_core}}
"""

Richmond context:
"""
{{context_chunks}}
"""

Write the narrative arc: the shape the story takes from opening hook to
resolution, in 3-5 sentences of connected prose. Return only the arc text.`,
			Variables: []string{"selected_hook", "enriched_core", "context_chunks"},
			Output:    ShapeFreeText,
		},
		QuoteIntegration: {
			Name: QuoteIntegration,
			Text: `Narrative arc so far:
"""
{{narrative_arc}}
"""

Richmond context:
"""
{{context_chunks}}
"""

Write one short, single-speaker quotation (one sentence, attributable to a
single voice in the story) that could be integrated into this arc. Return
only the quotation text, without attribution or quotation marks.`,
			Variables: []string{"narrative_arc", "context_chunks"},
			Output:    ShapeFreeText,
		},
		CTAGeneration: {
			Name: CTAGeneration,
			Text: `Story material so far:
"""
{{narrative_arc}}
{{quote}}
"""

Write exactly three distinct calls to action a reader could take after
finishing this story.

Respond with exactly three entries, one per line, in this exact format:
CTA 1: <title> - <body>
CTA 2: <title> - <body>
CTA 3: <title> - <body>`,
			Variables: []string{"narrative_arc", "quote"},
			Output:    ShapeThreeCandidates,
		},
		FinalAssembly: {
			Name: FinalAssembly,
			Text: `Assemble the final story from these accumulated fragments.

Hook:
"""
{{selected_hook}}
"""

Narrative arc:
"""
{{narrative_arc}}
"""

Quote:
"""
{{quote}}
"""

Call to action:
"""
{{selected_cta}}
"""

Richmond context:
"""
{{context_chunks}}
"""

Write the complete story in the "{{style}}" style, weaving the hook, arc,
quote, and call to action into one cohesive narrative grounded in the
Richmond context above. Return only the finished story text.`,
			Variables: []string{"selected_hook", "narrative_arc", "quote", "selected_cta", "context_chunks", "style"},
			Output:    ShapeFreeText,
		},
		ErrorRecovery: {
			Name: ErrorRecovery,
			Text: `Local Richmond context could not be retrieved for this step ({{reason}}).
Continuing with the author's own material only; the result may reference
Richmond more generically than usual.`,
			Variables: []string{"reason"},
			Output:    ShapeFreeText,
		},
	}
}
