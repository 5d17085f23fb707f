package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageOfAndStageOf_DomainError(t *testing.T) {
	err := New(InvalidTransition, "continue is not valid here").WithStage("depth_analysis")
	assert.Equal(t, InvalidTransition, KindOf(err))
	assert.Equal(t, "continue is not valid here", MessageOf(err))
	assert.Equal(t, "depth_analysis", StageOf(err))
	assert.Equal(t, http.StatusConflict, StatusCode(err))
}

func TestMessageOfAndStageOf_WrappedError(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(Unavailable, cause, "provider unreachable")
	assert.Equal(t, Unavailable, KindOf(err))
	assert.Equal(t, "provider unreachable", MessageOf(err))
	assert.Empty(t, StageOf(err))
	assert.True(t, errors.Is(err, cause))
}

func TestKindOfAndMessageOf_NonDomainError(t *testing.T) {
	plain := errors.New("unrecognized failure")
	assert.Equal(t, Unavailable, KindOf(plain))
	assert.Equal(t, "unrecognized failure", MessageOf(plain))
	assert.Empty(t, StageOf(plain))
}
