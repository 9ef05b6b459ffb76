// Package spatial answers "which marker is here" queries over a rendered
// overlay.
package spatial

import (
	"sort"

	"lintang/routeviz/pkg/datastructure"
	"lintang/routeviz/pkg/overlay"

	"github.com/dhconnelly/rtreego"
	"github.com/golang/geo/s2"
)

const (
	tol = 0.0001

	earthRadiusMeters = 6371008.8

	// rtreego ranks by planar degree distance; a few extra candidates are
	// re-ranked on the sphere.
	candidateSlack = 4
)

type markerRect struct {
	Location rtreego.Point
	Group    int
	Marker   overlay.Marker
}

func (m *markerRect) Bounds() rtreego.Rect {
	return m.Location.ToRect(tol)
}

// Hit is a marker found near a query point.
type Hit struct {
	Group    int            `json:"group"`
	Marker   overlay.Marker `json:"marker"`
	Distance float64        `json:"distanceMeters"`
}

type MarkerIndex struct {
	tree *rtreego.Rtree
	size int
}

// NewMarkerIndex indexes the rendered (possibly jittered) position of every
// marker of ov, depots included.
func NewMarkerIndex(ov *overlay.Overlay) *MarkerIndex {
	objs := []rtreego.Spatial{}
	for i, g := range ov.Groups {
		if g.Depot != nil {
			objs = append(objs, newMarkerRect(i, *g.Depot))
		}
		for _, m := range g.Markers {
			objs = append(objs, newMarkerRect(i, m))
		}
	}
	return &MarkerIndex{
		tree: rtreego.NewTree(2, 25, 50, objs...),
		size: len(objs),
	}
}

func newMarkerRect(group int, m overlay.Marker) *markerRect {
	return &markerRect{
		Location: rtreego.Point{m.Position.Lat, m.Position.Lon},
		Group:    group,
		Marker:   m,
	}
}

func (idx *MarkerIndex) Len() int {
	return idx.size
}

// Nearest returns at most k markers closest to (lat, lon), nearest first.
func (idx *MarkerIndex) Nearest(lat, lon float64, k int) []Hit {
	if k <= 0 || idx.size == 0 {
		return []Hit{}
	}

	query := datastructure.NewCoordinate(lat, lon)
	neighbors := idx.tree.NearestNeighbors(k+candidateSlack, rtreego.Point{lat, lon})

	hits := make([]Hit, 0, len(neighbors))
	for _, n := range neighbors {
		mr, ok := n.(*markerRect)
		if !ok || mr == nil {
			continue
		}
		hits = append(hits, Hit{
			Group:    mr.Group,
			Marker:   mr.Marker,
			Distance: DistanceMeters(query, mr.Marker.Position),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// DistanceMeters is the great-circle distance between a and b.
func DistanceMeters(a, b datastructure.Coordinate) float64 {
	angle := s2.LatLngFromDegrees(a.Lat, a.Lon).Distance(s2.LatLngFromDegrees(b.Lat, b.Lon))
	return angle.Radians() * earthRadiusMeters
}
