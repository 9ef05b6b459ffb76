// Package viewer tracks which solution the live view shows and discards
// render passes that finish after the view moved on.
package viewer

import (
	"context"
	"errors"
	"sync"
	"time"

	"lintang/routeviz/pkg/overlay"
)

var ErrStale = errors.New("viewer: render pass superseded by a newer view")

// Frame is one accepted render pass.
type Frame struct {
	ID         string           `json:"id"`
	PassID     string           `json:"passId"`
	Generation uint64           `json:"generation"`
	Overlay    *overlay.Overlay `json:"overlay"`
	Badge      *overlay.Badge   `json:"badge,omitempty"`
	RenderedAt time.Time        `json:"renderedAt"`
}

// Loader fetches and renders the solution with the given id.
type Loader func(ctx context.Context, id string) (*Frame, error)

type View struct {
	mu      sync.Mutex
	id      string
	gen     uint64
	current *Frame
	load    Loader
}

func New(load Loader) *View {
	return &View{load: load}
}

// Show switches the view to id and runs a render pass for it. The result is
// kept only if no other Show started meanwhile; otherwise ErrStale is
// returned and the current frame is left untouched.
func (v *View) Show(ctx context.Context, id string) (*Frame, error) {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.id = id
	v.mu.Unlock()

	frame, err := v.load(ctx, id)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gen != gen || v.id != id {
		return nil, ErrStale
	}
	if err != nil {
		return nil, err
	}
	frame.ID = id
	frame.Generation = gen
	v.current = frame
	return frame, nil
}

// Current returns the last accepted frame.
func (v *View) Current() (*Frame, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current, v.current != nil
}

// ID is the identifier the view is switched to, which may still be loading.
func (v *View) ID() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.id
}
