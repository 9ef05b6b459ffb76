package overlay

import (
	"math"
	"strconv"

	"lintang/routeviz/pkg/datastructure"
	"lintang/routeviz/pkg/solution"
)

const (
	// DefaultJitterRadius is the distance in meters between a stop and its displaced marker.
	DefaultJitterRadius = 10.0

	metersPerDegreeLat = 111320.0
	coordKeyPrecision  = 6
)

// CoordKey identifies "the same point" at 6 decimal digits (~0.11 m).
func CoordKey(c datastructure.Coordinate) string {
	return strconv.FormatFloat(c.Lat, 'f', coordKeyPrecision, 64) + "," +
		strconv.FormatFloat(c.Lon, 'f', coordKeyPrecision, 64)
}

// Jitter places member index of a group of total overlapping points on a
// circle of radiusMeters around c. Groups of one are returned unchanged.
func Jitter(c datastructure.Coordinate, index, total int, radiusMeters float64) datastructure.Coordinate {
	if total <= 1 {
		return c
	}

	angle := 2 * math.Pi * float64(index) / float64(total)

	dLat := (radiusMeters / metersPerDegreeLat) * math.Sin(angle)
	dLon := (radiusMeters / (metersPerDegreeLat * math.Cos(degToRad(c.Lat)))) * math.Cos(angle)

	return datastructure.NewCoordinate(c.Lat+dLat, c.Lon+dLon)
}

// JitteredVisit is the marker placement of one located visit.
type JitteredVisit struct {
	// Index is the position of the visit in its route.
	Index     int
	Position  datastructure.Coordinate
	Location  datastructure.Coordinate
	GroupSize int
}

// JitterVisits spreads visits of one route that share a coordinate key.
// Members of a group are numbered in visit order. Visits without a location
// are left out of the result.
func JitterVisits(visits []solution.Visit, radiusMeters float64) []JitteredVisit {
	groupSize := make(map[string]int, len(visits))
	for _, v := range visits {
		if v.Location == nil {
			continue
		}
		groupSize[CoordKey(*v.Location)]++
	}

	seen := make(map[string]int, len(groupSize))
	out := make([]JitteredVisit, 0, len(visits))
	for i, v := range visits {
		if v.Location == nil {
			continue
		}
		key := CoordKey(*v.Location)
		total := groupSize[key]
		nth := seen[key]
		seen[key] = nth + 1

		out = append(out, JitteredVisit{
			Index:     i,
			Position:  Jitter(*v.Location, nth, total, radiusMeters),
			Location:  *v.Location,
			GroupSize: total,
		})
	}
	return out
}

func degToRad(d float64) float64 {
	return d * math.Pi / 180.0
}
