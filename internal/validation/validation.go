// Package validation holds the input constraints the HTTP Surface and
// Conversation Engine enforce before touching session state. It has no
// dependency on other internal packages, matching the teacher's
// import-cycle-avoidance convention for this package.
package validation

import (
	"errors"
	"strings"
)

// ErrCoreIdeaTooShort indicates a core idea below the configured minimum
// length (spec §8 boundary: min_core_idea_chars - 1 -> InvalidInput).
var ErrCoreIdeaTooShort = errors.New("core_idea must be at least the minimum configured length")

// ErrUnknownStyle indicates a style outside the closed recognized set.
var ErrUnknownStyle = errors.New("unrecognized style")

// ErrInvalidOptionType indicates an option_selection type outside {hook, cta}.
var ErrInvalidOptionType = errors.New("option type must be hook or cta")

// ErrInvalidOptionIndex indicates an index outside 0..2.
var ErrInvalidOptionIndex = errors.New("option index must be 0, 1, or 2")

// CoreIdea trims and validates a seed story idea against the configured
// minimum length.
func CoreIdea(raw string, minChars int) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) < minChars {
		return "", ErrCoreIdeaTooShort
	}
	return trimmed, nil
}

// OptionType is one of the two selectable narrative fragment kinds.
type OptionType string

const (
	OptionHook OptionType = "hook"
	OptionCTA  OptionType = "cta"
)

// Option validates a select-option request's type and index.
func Option(rawType string, index int) (OptionType, error) {
	switch OptionType(strings.ToLower(strings.TrimSpace(rawType))) {
	case OptionHook:
		if index < 0 || index > 2 {
			return "", ErrInvalidOptionIndex
		}
		return OptionHook, nil
	case OptionCTA:
		if index < 0 || index > 2 {
			return "", ErrInvalidOptionIndex
		}
		return OptionCTA, nil
	default:
		return "", ErrInvalidOptionType
	}
}
