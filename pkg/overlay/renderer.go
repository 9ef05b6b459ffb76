// Package overlay turns a solution and its indictments into map overlay
// descriptors: one colored group per route with markers, popups and path
// segments, layer toggles, and the viewport bounds.
package overlay

import (
	"fmt"

	"lintang/routeviz/pkg/datastructure"
	"lintang/routeviz/pkg/indictment"
	"lintang/routeviz/pkg/score"
	"lintang/routeviz/pkg/solution"

	"github.com/golang/geo/s2"
	"github.com/uber/h3-go/v4"
)

const defaultH3Resolution = 9

type Marker struct {
	VisitID indictment.EntityID `json:"visitId"`
	// Nr is the 1-based position of the visit in its route, 0 for depots.
	Nr       int                      `json:"nr"`
	Position datastructure.Coordinate `json:"position"`
	Location datastructure.Coordinate `json:"location"`
	Icon     Icon                     `json:"icon"`
	Popup    string                   `json:"popup"`
	Cell     string                   `json:"h3Cell"`
}

type RouteGroup struct {
	Label    string                     `json:"label"`
	RouteID  indictment.EntityID        `json:"routeId"`
	Color    string                     `json:"color"`
	Status   score.Status               `json:"status"`
	Depot    *Marker                    `json:"depot,omitempty"`
	Markers  []Marker                   `json:"markers"`
	Segments []Segment                  `json:"segments"`
	Path     []datastructure.Coordinate `json:"path,omitempty"`
	Encoded  string                     `json:"encodedPath,omitempty"`
}

// LayerToggle is the layers-control entry switching one route group.
type LayerToggle struct {
	Label   string `json:"label"`
	Group   int    `json:"group"`
	Checked bool   `json:"checked"`
}

type LayerControl struct {
	Collapsed bool          `json:"collapsed"`
	Overlays  []LayerToggle `json:"overlays"`
}

type SkippedRoute struct {
	RouteID indictment.EntityID `json:"routeId"`
	Reason  string              `json:"reason"`
}

type Overlay struct {
	Title    string                `json:"title"`
	Groups   []RouteGroup          `json:"groups"`
	Controls LayerControl          `json:"controls"`
	Bounds   *datastructure.Bounds `json:"bounds,omitempty"`
	Skipped  []SkippedRoute        `json:"skipped,omitempty"`
}

// Markers returns every marker of every group, depots included.
func (o *Overlay) Markers() []Marker {
	var out []Marker
	for _, g := range o.Groups {
		if g.Depot != nil {
			out = append(out, *g.Depot)
		}
		out = append(out, g.Markers...)
	}
	return out
}

type Renderer struct {
	JitterRadius float64
	H3Resolution int
}

func NewRenderer() *Renderer {
	return &Renderer{
		JitterRadius: DefaultJitterRadius,
		H3Resolution: defaultH3Resolution,
	}
}

// Render builds the overlay of one solution. Every call starts from a fresh
// color allocator, so identical input yields identical output. Routes with no
// visits, or whose first visit has no location, are skipped and listed in
// Overlay.Skipped along with the payload records that failed to decode. idx
// may be nil.
func (r *Renderer) Render(sol *solution.Solution, idx indictment.Index) *Overlay {
	colors := NewColorAllocator()
	ov := &Overlay{
		Title:    Title(sol),
		Groups:   []RouteGroup{},
		Controls: LayerControl{Collapsed: false, Overlays: []LayerToggle{}},
	}
	rect := s2.EmptyRect()
	extend := func(c datastructure.Coordinate) {
		rect = rect.AddPoint(s2.LatLngFromDegrees(c.Lat, c.Lon))
	}

	for _, m := range sol.Malformed {
		ov.Skipped = append(ov.Skipped, SkippedRoute{m.RouteID, "malformed " + m.String()})
	}

	for routeIdx, route := range sol.Routes {
		if len(route.Visits) == 0 {
			ov.Skipped = append(ov.Skipped, SkippedRoute{route.ID, "no visits"})
			continue
		}
		if route.Visits[0].Location == nil {
			ov.Skipped = append(ov.Skipped, SkippedRoute{route.ID, "first visit has no location"})
			continue
		}

		group := RouteGroup{
			Label:   routeLabel(route, routeIdx),
			RouteID: route.ID,
			Color:   colors.Next(),
			Status:  idx.Classify(route.ID),
			Markers: []Marker{},
		}

		if route.Depot != nil {
			group.Depot = &Marker{
				Position: *route.Depot,
				Location: *route.Depot,
				Icon:     NewIcon(IconVehicle, group.Status),
				Popup:    DepotPopup(route, idx),
				Cell:     r.cell(*route.Depot),
			}
			extend(*route.Depot)
		}

		rendered := make([]datastructure.Coordinate, len(route.Visits))
		for _, jv := range JitterVisits(route.Visits, r.JitterRadius) {
			visit := route.Visits[jv.Index]
			rendered[jv.Index] = jv.Position
			group.Markers = append(group.Markers, Marker{
				VisitID:  visit.ID,
				Nr:       jv.Index + 1,
				Position: jv.Position,
				Location: jv.Location,
				Icon:     NewIcon(visitIconKind(sol.Variant, visit.Type), idx.Classify(visit.ID)),
				Popup:    VisitPopup(visit, jv.Index+1, route, idx),
				Cell:     r.cell(jv.Location),
			})
			extend(jv.Position)
		}

		if segments, ok := BuildPath(route, rendered, group.Color); ok {
			group.Segments = segments
			group.Path = Polyline(segments)
			group.Encoded = datastructure.RenderPath(group.Path)
			for _, p := range group.Path {
				extend(p)
			}
		} else {
			group.Segments = []Segment{}
			ov.Skipped = append(ov.Skipped, SkippedRoute{route.ID, "path skipped: visit without location"})
		}

		ov.Controls.Overlays = append(ov.Controls.Overlays, LayerToggle{
			Label:   group.Label,
			Group:   len(ov.Groups),
			Checked: true,
		})
		ov.Groups = append(ov.Groups, group)
	}

	if !rect.IsEmpty() {
		lo, hi := rect.Lo(), rect.Hi()
		ov.Bounds = &datastructure.Bounds{
			SouthWest: datastructure.NewCoordinate(lo.Lat.Degrees(), lo.Lng.Degrees()),
			NorthEast: datastructure.NewCoordinate(hi.Lat.Degrees(), hi.Lng.Degrees()),
		}
	}
	return ov
}

func (r *Renderer) cell(c datastructure.Coordinate) string {
	return h3.LatLngToCell(h3.NewLatLng(c.Lat, c.Lon), r.H3Resolution).String()
}

func routeLabel(route solution.Route, routeIdx int) string {
	label := fmt.Sprintf("%s %d", route.Kind, routeIdx+1)
	if route.ID != "" {
		label += fmt.Sprintf(" (%s=%s)", route.IDField, route.ID)
	}
	return label
}
