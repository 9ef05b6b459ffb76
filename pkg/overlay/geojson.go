package overlay

import (
	"lintang/routeviz/pkg/datastructure"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection exports the overlay as GeoJSON: a LineString per route
// path and a Point per marker, styled through feature properties.
func (o *Overlay) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, g := range o.Groups {
		if len(g.Path) > 1 {
			line := make(orb.LineString, 0, len(g.Path))
			for _, p := range g.Path {
				line = append(line, toPoint(p))
			}
			f := geojson.NewFeature(line)
			f.Properties["kind"] = "path"
			f.Properties["group"] = i
			f.Properties["label"] = g.Label
			f.Properties["routeId"] = string(g.RouteID)
			f.Properties["stroke"] = g.Color
			f.Properties["status"] = g.Status.String()
			fc.Append(f)
		}

		if g.Depot != nil {
			fc.Append(markerFeature(*g.Depot, i, g, "depot"))
		}
		for _, m := range g.Markers {
			fc.Append(markerFeature(m, i, g, "visit"))
		}
	}
	return fc
}

func markerFeature(m Marker, group int, g RouteGroup, kind string) *geojson.Feature {
	f := geojson.NewFeature(toPoint(m.Position))
	f.Properties["kind"] = kind
	f.Properties["group"] = group
	f.Properties["routeId"] = string(g.RouteID)
	f.Properties["marker-color"] = g.Color
	f.Properties["icon"] = string(m.Icon.Kind)
	f.Properties["status"] = m.Icon.Variant.String()
	f.Properties["popup"] = m.Popup
	f.Properties["h3Cell"] = m.Cell
	if kind == "visit" {
		f.Properties["visitId"] = string(m.VisitID)
		f.Properties["nr"] = m.Nr
	}
	return f
}

// GeoJSON coordinates are [lon, lat].
func toPoint(c datastructure.Coordinate) orb.Point {
	return orb.Point{c.Lon, c.Lat}
}
