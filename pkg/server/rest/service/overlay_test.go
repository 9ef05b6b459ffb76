package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"lintang/routeviz/pkg/datastructure"
	"lintang/routeviz/pkg/indictment"
	"lintang/routeviz/pkg/kv"
	"lintang/routeviz/pkg/server"
	"lintang/routeviz/pkg/server/rest/service"
	"lintang/routeviz/pkg/solution"
	"lintang/routeviz/pkg/solverclient"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSolver struct {
	mu      sync.Mutex
	fetches int
}

func loc(lat, lon float64) *datastructure.Coordinate {
	c := datastructure.NewCoordinate(lat, lon)
	return &c
}

func (f *fakeSolver) FetchBundle(ctx context.Context, id string) (*solverclient.Bundle, error) {
	f.mu.Lock()
	f.fetches++
	f.mu.Unlock()
	if id != "7" {
		return nil, server.WrapErrorf(nil, server.ErrNotFound, "fetch solution %s: not found", id)
	}
	sol := &solution.Solution{
		Name: "lunch",
		Routes: []solution.Route{
			{ID: "s1", Kind: "CourierShift", IDField: "id", Depot: loc(10.01, 20.01), Visits: []solution.Visit{
				{ID: "1", Type: solution.Restaurant, Location: loc(10, 20)},
				{ID: "2", Type: solution.Customer, Location: loc(10, 20)},
			}},
			{ID: "s2", Kind: "CourierShift", IDField: "id"},
		},
	}
	inds := []indictment.Indictment{{IndictedObjectID: "1", Score: "-1hard/0soft", MatchCount: 1}}
	return solverclient.NewBundle(id, sol, inds, &indictment.Analysis{Score: "-1hard/0soft"}), nil
}

func (f *fakeSolver) Analysis(ctx context.Context, id string) (*indictment.Analysis, error) {
	if id != "7" {
		return nil, server.WrapErrorf(nil, server.ErrNotFound, "not found")
	}
	return &indictment.Analysis{Score: "0hard/-3soft"}, nil
}

func (f *fakeSolver) List(ctx context.Context) ([]string, error) {
	return []string{"7"}, nil
}

type countingObserver struct {
	rendered, skipped int
}

func (c *countingObserver) ObserveRender(rendered, skipped int) {
	c.rendered += rendered
	c.skipped += skipped
}

func newService(t *testing.T) (*service.OverlayService, *fakeSolver, *countingObserver) {
	t.Helper()
	store, err := kv.OpenSnapshotStore("", &pebble.Options{FS: vfs.NewMem()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	solver := &fakeSolver{}
	obs := &countingObserver{}
	return service.NewOverlayService(solver, store, nil, obs), solver, obs
}

func TestRender(t *testing.T) {
	svc, _, obs := newService(t)
	ctx := context.Background()

	res, err := svc.Render(ctx, "7")
	require.NoError(t, err)
	assert.NotEmpty(t, res.PassID)
	assert.Len(t, res.Overlay.Groups, 1)
	assert.Len(t, res.Itinerary.Routes, 2)
	require.NotNil(t, res.Analysis)
	assert.Equal(t, 1, obs.rendered)
	assert.Equal(t, 1, obs.skipped)

	snap, err := svc.Snapshot("7")
	require.NoError(t, err)
	assert.Equal(t, res.Overlay, snap)

	_, err = svc.Render(ctx, "404")
	assert.Equal(t, server.ErrNotFound, server.CodeOf(err))
}

func TestNearestUsesSnapshot(t *testing.T) {
	svc, solver, _ := newService(t)
	ctx := context.Background()

	hits, err := svc.Nearest(ctx, "7", 10.01, 20.01, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, indictment.EntityID(""), hits[0].Marker.VisitID, "depot marker")

	_, err = svc.Nearest(ctx, "7", 10, 20, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, solver.fetches)

	markers, err := svc.SnapshotMarkers("7", 10, 20, 0.5)
	require.NoError(t, err)
	assert.Len(t, markers, 2)
}

func TestShowView(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, ok := svc.CurrentView()
	assert.False(t, ok)

	f, err := svc.ShowView(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "7", f.ID)
	require.NotNil(t, f.Badge)
	assert.Equal(t, "badge bg-danger", f.Badge.Class)

	cur, ok := svc.CurrentView()
	require.True(t, ok)
	assert.Equal(t, f, cur)

	_, err = svc.ShowView(ctx, "404")
	assert.Equal(t, server.ErrNotFound, server.CodeOf(err))
}

func TestRenderDocument(t *testing.T) {
	svc, solver, _ := newService(t)
	doc, err := solution.DecodeDocument(strings.NewReader(`{"courierShifts": [{"id": 1, "visits": [{"id": 5, "location": {"lat": 1, "lon": 2}}]}]}`))
	require.NoError(t, err)

	res := svc.RenderDocument(context.Background(), doc, nil)
	require.Len(t, res.Overlay.Groups, 1)
	assert.Equal(t, 0, solver.fetches)

	_, err = svc.Snapshot("1")
	assert.Equal(t, server.ErrNotFound, server.CodeOf(err))
}

func TestScoreBadge(t *testing.T) {
	svc, _, _ := newService(t)
	b, err := svc.ScoreBadge(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "badge bg-success", b.Class)

	_, err = svc.ScoreBadge(context.Background(), "x")
	assert.Error(t, err)
}
