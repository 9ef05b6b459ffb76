package overlay

import (
	"lintang/routeviz/pkg/datastructure"
	"lintang/routeviz/pkg/solution"
)

type Segment struct {
	From  datastructure.Coordinate `json:"from"`
	To    datastructure.Coordinate `json:"to"`
	Color string                   `json:"color"`
}

/*
BuildPath returns the line segments of one route.

  - depot → first visit follows route.PathToFirst (no first leg without depot)
  - visit i → visit i+1 follows visit i's PathToNext
  - last visit → depot is drawn only when there is a depot and the last
    visit carries PathToNext geometry

Each leg is A→P1, P1→P2, …, Pk→B, or the direct A→B when it has no
waypoints. A leg starts at the rendered position of its origin (rendered[i],
possibly jittered) and ends at the true coordinate of the next visit.
rendered must be aligned with route.Visits; nil means "use true coordinates".

ok is false, and no segment is produced, when the route has no visits or
any visit has no location.
*/
func BuildPath(route solution.Route, rendered []datastructure.Coordinate, color string) (segments []Segment, ok bool) {
	visits := route.Visits
	if len(visits) == 0 {
		return nil, false
	}
	for _, v := range visits {
		if v.Location == nil {
			return nil, false
		}
	}
	if len(rendered) != len(visits) {
		rendered = make([]datastructure.Coordinate, len(visits))
		for i, v := range visits {
			rendered[i] = *v.Location
		}
	}

	segments = make([]Segment, 0, len(visits)*2)
	leg := func(from datastructure.Coordinate, via []datastructure.Coordinate, to datastructure.Coordinate) {
		prev := from
		for _, p := range via {
			segments = append(segments, Segment{From: prev, To: p, Color: color})
			prev = p
		}
		segments = append(segments, Segment{From: prev, To: to, Color: color})
	}

	if route.Depot != nil {
		leg(*route.Depot, route.PathToFirst, *visits[0].Location)
	}

	for i := 0; i+1 < len(visits); i++ {
		leg(rendered[i], visits[i].PathToNext, *visits[i+1].Location)
	}

	last := len(visits) - 1
	if route.Depot != nil && len(visits[last].PathToNext) > 0 {
		leg(rendered[last], visits[last].PathToNext, *route.Depot)
	}

	return segments, true
}

// Polyline joins consecutive segments into one point sequence. A segment that
// does not start where the previous one ended (jittered origin) contributes
// its own start point.
func Polyline(segments []Segment) []datastructure.Coordinate {
	if len(segments) == 0 {
		return nil
	}
	points := make([]datastructure.Coordinate, 0, len(segments)+1)
	points = append(points, segments[0].From)
	for i, s := range segments {
		if i > 0 && s.From != segments[i-1].To {
			points = append(points, s.From)
		}
		points = append(points, s.To)
	}
	return points
}
