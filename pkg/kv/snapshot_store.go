// Package kv persists rendered overlays in pebble so the last render of a
// solution can be served without asking the solver again. Only rendered
// output is stored.
package kv

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"

	"lintang/routeviz/pkg/overlay"
	"lintang/routeviz/pkg/server"

	"github.com/cockroachdb/pebble"
	"github.com/uber/h3-go/v4"
)

const cellResolution = 9

// key layout, <id> path-escaped so no id is a prefix of another's range:
//
//	snapshot/<id>        zstd(json(overlay))
//	cell/<id>/<h3 cell>  zstd(json([]marker)) markers whose true location is in the cell
func snapshotKey(id string) []byte {
	return []byte("snapshot/" + url.PathEscape(id))
}

func cellPrefix(id string) []byte {
	return []byte("cell/" + url.PathEscape(id) + "/")
}

func cellKey(id string, c h3.Cell) []byte {
	return append(cellPrefix(id), c.String()...)
}

type SnapshotStore struct {
	db *pebble.DB
}

func NewSnapshotStore(db *pebble.DB) *SnapshotStore {
	return &SnapshotStore{db}
}

// OpenSnapshotStore opens (or creates) a pebble store in dir.
func OpenSnapshotStore(dir string, opts *pebble.Options) (*SnapshotStore, error) {
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store %s: %w", dir, err)
	}
	return NewSnapshotStore(db), nil
}

// Put replaces the snapshot of id and its cell buckets in one batch.
func (k *SnapshotStore) Put(id string, ov *overlay.Overlay) error {
	val, err := encodeOverlay(ov)
	if err != nil {
		return fmt.Errorf("put snapshot %s: encode: %w", id, err)
	}

	buckets := make(map[h3.Cell][]overlay.Marker)
	for _, m := range ov.Markers() {
		c := h3.LatLngToCell(h3.NewLatLng(m.Location.Lat, m.Location.Lon), cellResolution)
		buckets[c] = append(buckets[c], m)
	}

	b := k.db.NewBatch()
	defer b.Close()

	prefix := cellPrefix(id)
	if err := b.DeleteRange(prefix, prefixEnd(prefix), nil); err != nil {
		return fmt.Errorf("put snapshot %s: clear cells: %w", id, err)
	}
	if err := b.Set(snapshotKey(id), val, nil); err != nil {
		return fmt.Errorf("put snapshot %s: %w", id, err)
	}
	for c, ms := range buckets {
		bb, err := encodeMarkers(ms)
		if err != nil {
			return fmt.Errorf("put snapshot %s: encode cell: %w", id, err)
		}
		if err := b.Set(cellKey(id, c), bb, nil); err != nil {
			return fmt.Errorf("put snapshot %s: %w", id, err)
		}
	}

	if err := b.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("put snapshot %s: commit: %w", id, err)
	}
	return nil
}

func (k *SnapshotStore) Get(id string) (*overlay.Overlay, error) {
	val, closer, err := k.db.Get(snapshotKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, server.WrapErrorf(err, server.ErrNotFound, "no snapshot for solution %s", id)
	}
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, "get snapshot %s", id)
	}
	defer closer.Close()

	ov, err := decodeOverlay(val)
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, "decode snapshot %s", id)
	}
	return ov, nil
}

// MarkersNear returns the stored markers of id whose true location lies in
// an H3 cell within radiusKm of (lat, lon).
func (k *SnapshotStore) MarkersNear(id string, lat, lon, radiusKm float64) ([]overlay.Marker, error) {
	return markersNear(k.db.Get, id, lat, lon, radiusKm)
}

type getFunc func(key []byte) ([]byte, io.Closer, error)

func markersNear(get getFunc, id string, lat, lon, radiusKm float64) ([]overlay.Marker, error) {
	out := []overlay.Marker{}
	for _, c := range kRingIndexesArea(lat, lon, radiusKm) {
		val, closer, err := get(cellKey(id, c))
		if errors.Is(err, pebble.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, server.WrapErrorf(err, server.ErrInternalServerError, "read cell %s of snapshot %s", c, id)
		}
		ms, err := decodeMarkers(val)
		closer.Close()
		if err != nil {
			return nil, server.WrapErrorf(err, server.ErrInternalServerError, "decode cell %s of snapshot %s", c, id)
		}
		out = append(out, ms...)
	}
	return out, nil
}

func (k *SnapshotStore) Close() error {
	return k.db.Close()
}

/*
*
  - https://observablehq.com/@nrabinowitz/h3-radius-lookup?collection=@nrabinowitz/h3
    cells around (lat, lon) covering a disk of radius searchRadiusKm
*/
func kRingIndexesArea(lat, lon, searchRadiusKm float64) []h3.Cell {
	home := h3.NewLatLng(lat, lon)
	origin := h3.LatLngToCell(home, cellResolution)
	originArea := h3.CellAreaKm2(origin)
	searchArea := math.Pi * searchRadiusKm * searchRadiusKm

	radius := 0
	diskArea := originArea

	for diskArea < searchArea {
		radius++
		cellCount := float64(3*radius*(radius+1) + 1)
		diskArea = cellCount * originArea
	}

	return h3.GridDisk(origin, radius)
}

// prefixEnd is the smallest key greater than every key starting with prefix.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte{}, prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
