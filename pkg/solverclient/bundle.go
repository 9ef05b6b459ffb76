package solverclient

import (
	"context"
	"log/slog"

	"lintang/routeviz/pkg/indictment"
	"lintang/routeviz/pkg/solution"

	"golang.org/x/sync/errgroup"
)

// Bundle is everything one render pass needs. The score analysis arrives
// on its own and is read through Analysis.
type Bundle struct {
	ID          string
	Solution    *solution.Solution
	Indictments []indictment.Indictment

	analysis     *indictment.Analysis
	analysisDone chan struct{}
}

// NewBundle returns a bundle whose analysis is already settled; analysis may
// be nil.
func NewBundle(id string, sol *solution.Solution, inds []indictment.Indictment, analysis *indictment.Analysis) *Bundle {
	return &Bundle{ID: id, Solution: sol, Indictments: inds, analysis: analysis}
}

// Index builds the indictment index of the bundle.
func (b *Bundle) Index() indictment.Index {
	return indictment.Build(b.Indictments)
}

// Analysis waits for the score analysis fetched alongside the bundle. It
// returns nil when that fetch failed or ctx is done first.
func (b *Bundle) Analysis(ctx context.Context) *indictment.Analysis {
	if b.analysisDone == nil {
		return b.analysis
	}
	select {
	case <-b.analysisDone:
		return b.analysis
	case <-ctx.Done():
		return nil
	}
}

// FetchBundle fetches the solution and its indictments concurrently; either
// failing fails the bundle. The score analysis is fetched in the background
// and never holds the bundle back; its failure is only logged.
func (c *Client) FetchBundle(ctx context.Context, id string) (*Bundle, error) {
	b := &Bundle{ID: id, analysisDone: make(chan struct{})}

	go func() {
		defer close(b.analysisDone)
		a, err := c.Analysis(ctx, id)
		if err != nil {
			slog.Warn("score analysis unavailable", "id", id, "err", err)
			return
		}
		b.analysis = a
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sol, err := c.Solution(gctx, id)
		if err != nil {
			return err
		}
		b.Solution = sol
		return nil
	})
	g.Go(func() error {
		inds, err := c.Indictments(gctx, id)
		if err != nil {
			return err
		}
		b.Indictments = inds
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return b, nil
}
