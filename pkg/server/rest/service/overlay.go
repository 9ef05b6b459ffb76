package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"lintang/routeviz/pkg/indictment"
	"lintang/routeviz/pkg/itinerary"
	"lintang/routeviz/pkg/overlay"
	"lintang/routeviz/pkg/server"
	"lintang/routeviz/pkg/solution"
	"lintang/routeviz/pkg/solverclient"
	"lintang/routeviz/pkg/spatial"
	"lintang/routeviz/pkg/viewer"

	"github.com/google/uuid"
)

// badgeWait bounds how long a finished render waits for the score analysis
// before it is returned without a badge.
const badgeWait = 250 * time.Millisecond

type Solver interface {
	FetchBundle(ctx context.Context, id string) (*solverclient.Bundle, error)
	Analysis(ctx context.Context, id string) (*indictment.Analysis, error)
	List(ctx context.Context) ([]string, error)
}

type SnapshotStore interface {
	Put(id string, ov *overlay.Overlay) error
	Get(id string) (*overlay.Overlay, error)
	MarkersNear(id string, lat, lon, radiusKm float64) ([]overlay.Marker, error)
}

// RenderObserver is told how many routes each render pass drew and skipped.
type RenderObserver interface {
	ObserveRender(rendered, skipped int)
}

// RenderResult is one render pass of a solver solution.
type RenderResult struct {
	PassID    string
	Solution  *solution.Solution
	Index     indictment.Index
	Analysis  *indictment.Analysis
	Overlay   *overlay.Overlay
	Itinerary itinerary.View
}

type OverlayService struct {
	solver   Solver
	store    SnapshotStore
	renderer *overlay.Renderer
	observer RenderObserver
	view     *viewer.View
}

// NewOverlayService wires the solver and the snapshot store; store and obs
// may be nil.
func NewOverlayService(solver Solver, store SnapshotStore, renderer *overlay.Renderer, obs RenderObserver) *OverlayService {
	if renderer == nil {
		renderer = overlay.NewRenderer()
	}
	s := &OverlayService{solver: solver, store: store, renderer: renderer, observer: obs}
	s.view = viewer.New(s.loadFrame)
	return s
}

func (s *OverlayService) List(ctx context.Context) ([]string, error) {
	return s.solver.List(ctx)
}

// Render fetches solution id with its indictments, renders it and stores
// the overlay as the latest snapshot of id. The score analysis is attached
// only when it arrives within badgeWait of the render.
func (s *OverlayService) Render(ctx context.Context, id string) (*RenderResult, error) {
	bundle, err := s.solver.FetchBundle(ctx, id)
	if err != nil {
		return nil, err
	}

	res := s.render(bundle.Solution, bundle.Index())

	waitCtx, cancel := context.WithTimeout(ctx, badgeWait)
	res.Analysis = bundle.Analysis(waitCtx)
	cancel()

	if s.store != nil {
		if err := s.store.Put(id, res.Overlay); err != nil {
			slog.Error("store snapshot", "id", id, "pass", res.PassID, "err", err)
		}
	}
	return res, nil
}

// RenderDocument renders a solver payload supplied by the caller. Nothing is
// stored.
func (s *OverlayService) RenderDocument(ctx context.Context, doc solution.Document, indictments []indictment.Indictment) *RenderResult {
	return s.render(doc.Normalize(), indictment.Build(indictments))
}

func (s *OverlayService) render(sol *solution.Solution, idx indictment.Index) *RenderResult {
	passID := uuid.NewString()
	ov := s.renderer.Render(sol, idx)

	skipped := len(sol.Routes) - len(ov.Groups)
	for _, m := range sol.Malformed {
		if m.Route() {
			skipped++
		}
	}
	slog.Debug("render pass",
		"pass", passID,
		"title", ov.Title,
		"routes", len(sol.Routes),
		"rendered", len(ov.Groups),
		"skipped", skipped,
	)
	for _, sk := range ov.Skipped {
		slog.Debug("route skipped", "pass", passID, "route", sk.RouteID, "reason", sk.Reason)
	}
	if s.observer != nil {
		s.observer.ObserveRender(len(ov.Groups), skipped)
	}

	return &RenderResult{
		PassID:    passID,
		Solution:  sol,
		Index:     idx,
		Overlay:   ov,
		Itinerary: itinerary.Build(sol, idx),
	}
}

// ScoreBadge fetches the score analysis of id.
func (s *OverlayService) ScoreBadge(ctx context.Context, id string) (overlay.Badge, error) {
	a, err := s.solver.Analysis(ctx, id)
	if err != nil {
		return overlay.Badge{}, err
	}
	return overlay.ScoreBadge(*a), nil
}

// Nearest finds the k markers closest to (lat, lon) on the latest snapshot
// of id, rendering it first when there is none.
func (s *OverlayService) Nearest(ctx context.Context, id string, lat, lon float64, k int) ([]spatial.Hit, error) {
	ov, err := s.latest(ctx, id)
	if err != nil {
		return nil, err
	}
	return spatial.NewMarkerIndex(ov).Nearest(lat, lon, k), nil
}

func (s *OverlayService) latest(ctx context.Context, id string) (*overlay.Overlay, error) {
	if s.store != nil {
		ov, err := s.store.Get(id)
		if err == nil {
			return ov, nil
		}
		if !errors.Is(server.CodeOf(err), server.ErrNotFound) {
			return nil, err
		}
	}
	res, err := s.Render(ctx, id)
	if err != nil {
		return nil, err
	}
	return res.Overlay, nil
}

func (s *OverlayService) Snapshot(id string) (*overlay.Overlay, error) {
	if s.store == nil {
		return nil, server.WrapErrorf(nil, server.ErrNotFound, "snapshots are disabled")
	}
	return s.store.Get(id)
}

func (s *OverlayService) SnapshotMarkers(id string, lat, lon, radiusKm float64) ([]overlay.Marker, error) {
	if s.store == nil {
		return nil, server.WrapErrorf(nil, server.ErrNotFound, "snapshots are disabled")
	}
	return s.store.MarkersNear(id, lat, lon, radiusKm)
}

// ShowView switches the live view to id. A pass overtaken by a later switch
// fails with a conflict.
func (s *OverlayService) ShowView(ctx context.Context, id string) (*viewer.Frame, error) {
	f, err := s.view.Show(ctx, id)
	if errors.Is(err, viewer.ErrStale) {
		return nil, server.WrapErrorf(err, server.ErrConflict, "view switched away from %s while rendering", id)
	}
	return f, err
}

func (s *OverlayService) CurrentView() (*viewer.Frame, bool) {
	return s.view.Current()
}

func (s *OverlayService) loadFrame(ctx context.Context, id string) (*viewer.Frame, error) {
	res, err := s.Render(ctx, id)
	if err != nil {
		return nil, err
	}
	f := &viewer.Frame{
		PassID:     res.PassID,
		Overlay:    res.Overlay,
		RenderedAt: time.Now().UTC(),
	}
	if res.Analysis != nil {
		b := overlay.ScoreBadge(*res.Analysis)
		f.Badge = &b
	}
	return f, nil
}
