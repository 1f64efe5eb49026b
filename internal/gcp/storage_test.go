package gcp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("FIRESAFETY_TEST_VAR", "set")

	assert.Equal(t, "set", GetEnv("FIRESAFETY_TEST_VAR", "fallback"))
	assert.Equal(t, "fallback", GetEnv("FIRESAFETY_TEST_UNSET_VAR", "fallback"))
}

func TestPreconditionErr(t *testing.T) {
	wrapped := fmt.Errorf("googleapi: %w", &googleapi.Error{Code: 412})
	assert.ErrorIs(t, preconditionErr("a.pdf", wrapped), ErrObjectExists)

	other := &googleapi.Error{Code: 503}
	assert.Same(t, other, preconditionErr("a.pdf", other))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, preconditionErr("a.pdf", plain))
}
