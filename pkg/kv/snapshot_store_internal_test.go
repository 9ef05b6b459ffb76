package kv

import (
	"errors"
	"io"
	"testing"

	"lintang/routeviz/pkg/server"

	"github.com/cockroachdb/pebble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkersNearReadErrors(t *testing.T) {
	t.Run("missing cells are skipped", func(t *testing.T) {
		get := func(key []byte) ([]byte, io.Closer, error) {
			return nil, nil, pebble.ErrNotFound
		}
		ms, err := markersNear(get, "7", 1, 1, 0.5)
		require.NoError(t, err)
		assert.Empty(t, ms)
	})

	t.Run("read failure is returned", func(t *testing.T) {
		diskErr := errors.New("read sstable: i/o error")
		get := func(key []byte) ([]byte, io.Closer, error) {
			return nil, nil, diskErr
		}
		_, err := markersNear(get, "7", 1, 1, 0.5)
		require.Error(t, err)
		assert.ErrorIs(t, err, diskErr)
		assert.Equal(t, server.ErrInternalServerError, server.CodeOf(err))
	})
}
