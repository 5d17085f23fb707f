package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoreIdea_TooShort(t *testing.T) {
	_, err := CoreIdea("short", 10)
	require.ErrorIs(t, err, ErrCoreIdeaTooShort)
}

func TestCoreIdea_BoundaryMinusOne(t *testing.T) {
	nineChars := "123456789"
	_, err := CoreIdea(nineChars, 10)
	require.ErrorIs(t, err, ErrCoreIdeaTooShort)
}

func TestCoreIdea_OK(t *testing.T) {
	idea, err := CoreIdea("  Richmond tech scene  ", 10)
	require.NoError(t, err)
	assert.Equal(t, "Richmond tech scene", idea)
}

func TestOption_Valid(t *testing.T) {
	ot, err := Option("hook", 1)
	require.NoError(t, err)
	assert.Equal(t, OptionHook, ot)
}

func TestOption_BadIndex(t *testing.T) {
	_, err := Option("cta", 3)
	require.ErrorIs(t, err, ErrInvalidOptionIndex)
}

func TestOption_BadType(t *testing.T) {
	_, err := Option("arc", 0)
	require.ErrorIs(t, err, ErrInvalidOptionType)
}
