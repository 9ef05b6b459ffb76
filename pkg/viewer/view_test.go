package viewer_test

import (
	"context"
	"errors"
	"testing"

	"lintang/routeviz/pkg/overlay"
	"lintang/routeviz/pkg/viewer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowAcceptsLatestPass(t *testing.T) {
	v := viewer.New(func(ctx context.Context, id string) (*viewer.Frame, error) {
		return &viewer.Frame{Overlay: &overlay.Overlay{Title: id}}, nil
	})

	_, ok := v.Current()
	assert.False(t, ok)

	f, err := v.Show(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "a", f.ID)
	assert.Equal(t, uint64(1), f.Generation)

	f, err = v.Show(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), f.Generation)

	cur, ok := v.Current()
	require.True(t, ok)
	assert.Equal(t, "b", cur.Overlay.Title)
}

func TestShowDiscardsStalePass(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	v := viewer.New(func(ctx context.Context, id string) (*viewer.Frame, error) {
		if id == "slow" {
			close(started)
			<-release
		}
		return &viewer.Frame{Overlay: &overlay.Overlay{Title: id}}, nil
	})

	errc := make(chan error, 1)
	go func() {
		_, err := v.Show(context.Background(), "slow")
		errc <- err
	}()

	<-started
	_, err := v.Show(context.Background(), "fast")
	require.NoError(t, err)
	close(release)

	assert.ErrorIs(t, <-errc, viewer.ErrStale)

	cur, ok := v.Current()
	require.True(t, ok)
	assert.Equal(t, "fast", cur.ID)
	assert.Equal(t, "fast", v.ID())
}

func TestShowReloadOfSameIDSupersedesOlderPass(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	calls := 0
	v := viewer.New(func(ctx context.Context, id string) (*viewer.Frame, error) {
		calls++
		if calls == 1 {
			close(started)
			<-release
		}
		return &viewer.Frame{}, nil
	})

	errc := make(chan error, 1)
	go func() {
		_, err := v.Show(context.Background(), "x")
		errc <- err
	}()

	<-started
	f, err := v.Show(context.Background(), "x")
	require.NoError(t, err)
	close(release)

	assert.ErrorIs(t, <-errc, viewer.ErrStale)
	cur, _ := v.Current()
	assert.Equal(t, f, cur)
}

func TestShowLoaderError(t *testing.T) {
	boom := errors.New("boom")
	v := viewer.New(func(ctx context.Context, id string) (*viewer.Frame, error) {
		return nil, boom
	})
	_, err := v.Show(context.Background(), "a")
	assert.ErrorIs(t, err, boom)
	_, ok := v.Current()
	assert.False(t, ok)
}
