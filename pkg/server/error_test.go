package server_test

import (
	"errors"
	"fmt"
	"testing"

	"lintang/routeviz/pkg/server"

	"github.com/stretchr/testify/assert"
)

func TestWrapErrorf(t *testing.T) {
	orig := errors.New("dial tcp: refused")
	err := server.WrapErrorf(orig, server.ErrUpstream, "fetch solution %s", "7")

	assert.Equal(t, "fetch solution 7", err.Error())
	assert.ErrorIs(t, err, orig)
	assert.Equal(t, server.ErrUpstream, server.CodeOf(err))

	wrapped := fmt.Errorf("render: %w", err)
	assert.Equal(t, server.ErrUpstream, server.CodeOf(wrapped))
	assert.Equal(t, server.ErrInternalServerError, server.CodeOf(orig))
}

func TestConflictDescribesSupersededView(t *testing.T) {
	err := server.WrapErrorf(errors.New("stale render pass"), server.ErrConflict, "view switched away from %s while rendering", "7")
	assert.Equal(t, server.ErrConflict, server.CodeOf(err))
	assert.Contains(t, server.ErrConflict.Error(), "superseded")
}
