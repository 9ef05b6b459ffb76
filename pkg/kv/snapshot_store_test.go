package kv_test

import (
	"testing"

	"lintang/routeviz/pkg/datastructure"
	"lintang/routeviz/pkg/indictment"
	"lintang/routeviz/pkg/kv"
	"lintang/routeviz/pkg/overlay"
	"lintang/routeviz/pkg/server"
	"lintang/routeviz/pkg/solution"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loc(lat, lon float64) *datastructure.Coordinate {
	c := datastructure.NewCoordinate(lat, lon)
	return &c
}

func openStore(t *testing.T) *kv.SnapshotStore {
	t.Helper()
	store, err := kv.OpenSnapshotStore("", &pebble.Options{FS: vfs.NewMem()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func renderTestOverlay(lat, lon float64) *overlay.Overlay {
	sol := &solution.Solution{
		Name: "snap",
		Routes: []solution.Route{
			{ID: "r", Kind: "CourierShift", IDField: "id", Depot: loc(lat+0.05, lon+0.05), Visits: []solution.Visit{
				{ID: "a", Location: loc(lat, lon)},
				{ID: "b", Location: loc(lat, lon)},
			}},
		},
	}
	idx := indictment.Build([]indictment.Indictment{{IndictedObjectID: "a", Score: "-1hard/0soft"}})
	return overlay.NewRenderer().Render(sol, idx)
}

func TestSnapshotStore(t *testing.T) {
	store := openStore(t)

	t.Run("missing snapshot", func(t *testing.T) {
		_, err := store.Get("nope")
		require.Error(t, err)
		assert.Equal(t, server.ErrNotFound, server.CodeOf(err))
	})

	t.Run("round trip", func(t *testing.T) {
		ov := renderTestOverlay(-7.55, 110.8)
		require.NoError(t, store.Put("7", ov))

		got, err := store.Get("7")
		require.NoError(t, err)
		assert.Equal(t, ov, got)
	})

	t.Run("put replaces", func(t *testing.T) {
		require.NoError(t, store.Put("8", renderTestOverlay(1, 1)))
		next := renderTestOverlay(2, 2)
		require.NoError(t, store.Put("8", next))

		got, err := store.Get("8")
		require.NoError(t, err)
		assert.Equal(t, next, got)

		assert.Empty(t, mustNear(t, store, "8", 1, 1, 0.5))
		assert.Len(t, mustNear(t, store, "8", 2, 2, 0.5), 2)
	})
}

func TestMarkersNear(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.Put("9", renderTestOverlay(-7.55, 110.8)))

	near := mustNear(t, store, "9", -7.55, 110.8, 0.5)
	require.Len(t, near, 2)
	ids := []indictment.EntityID{near[0].VisitID, near[1].VisitID}
	assert.ElementsMatch(t, []indictment.EntityID{"a", "b"}, ids)

	// the depot is ~7.8 km away
	assert.Len(t, mustNear(t, store, "9", -7.55, 110.8, 12), 3)

	assert.Empty(t, mustNear(t, store, "other", -7.55, 110.8, 12))
}

func mustNear(t *testing.T, store *kv.SnapshotStore, id string, lat, lon, radiusKm float64) []overlay.Marker {
	t.Helper()
	ms, err := store.MarkersNear(id, lat, lon, radiusKm)
	require.NoError(t, err)
	return ms
}

func TestCompress(t *testing.T) {
	in := []byte(`{"title":"compress me compress me compress me"}`)
	c, err := kv.Compress(in)
	require.NoError(t, err)
	out, err := kv.Decompress(c)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestIDsSharingAPrefixStayApart(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.Put("a/b", renderTestOverlay(1, 1)))
	require.NoError(t, store.Put("a", renderTestOverlay(2, 2)))
	require.NoError(t, store.Put("a", renderTestOverlay(3, 3)))

	assert.Len(t, mustNear(t, store, "a/b", 1, 1, 0.5), 2)
	assert.Len(t, mustNear(t, store, "a", 3, 3, 0.5), 2)
	assert.Empty(t, mustNear(t, store, "a", 1, 1, 0.5))

	got, err := store.Get("a/b")
	require.NoError(t, err)
	assert.Equal(t, renderTestOverlay(1, 1), got)
}
