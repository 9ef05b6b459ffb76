// Package itinerary builds the textual, list-style view of a solution: one
// badge per route followed by one badge per visit, each with a popover.
package itinerary

import (
	"fmt"
	"html"
	"strings"

	"lintang/routeviz/pkg/indictment"
	"lintang/routeviz/pkg/overlay"
	"lintang/routeviz/pkg/score"
	"lintang/routeviz/pkg/solution"
)

const noVisits = "no visits"

// Entry is a badge with its popover.
type Entry struct {
	Title   string       `json:"title"`
	Class   string       `json:"class"`
	Status  score.Status `json:"status"`
	Popover string       `json:"popover"`
}

type Route struct {
	Entry
	Visits []Entry `json:"visits"`
	// Note replaces the visit list of a route that has none.
	Note string `json:"note,omitempty"`
}

type View struct {
	Title  string  `json:"title"`
	Routes []Route `json:"routes"`
	// Empty is set when the solution has no routes at all.
	Empty string `json:"empty,omitempty"`
}

func Build(sol *solution.Solution, idx indictment.Index) View {
	view := View{
		Title:  overlay.Title(sol),
		Routes: []Route{},
	}
	if len(sol.Routes) == 0 {
		view.Empty = emptyMessage(sol.Variant)
		return view
	}

	for _, r := range sol.Routes {
		item := Route{
			Entry:  entry(routeTitle(r), r.ID, routeLines(r), idx),
			Visits: []Entry{},
		}
		if len(r.Visits) == 0 {
			item.Note = noVisits
		}
		for i, v := range r.Visits {
			item.Visits = append(item.Visits, entry(visitTitle(v, i+1), v.ID, visitLines(v), idx))
		}
		view.Routes = append(view.Routes, item)
	}
	return view
}

func entry(title string, id indictment.EntityID, lines []string, idx indictment.Index) Entry {
	status := idx.Classify(id)
	return Entry{
		Title:   title,
		Class:   status.BadgeClass(),
		Status:  status,
		Popover: strings.Join(lines, "<br>") + "<hr>" + overlay.EntityPopup(id, idx),
	}
}

func routeTitle(r solution.Route) string {
	if r.ID == "" {
		return r.Kind
	}
	return r.Kind + " " + string(r.ID)
}

func visitTitle(v solution.Visit, nr int) string {
	parts := []string{fmt.Sprintf("#%d", nr), "Visit " + string(v.ID)}
	if v.Type != "" {
		parts = append(parts, string(v.Type))
	}
	return strings.Join(parts, " | ")
}

func routeLines(r solution.Route) []string {
	lines := make([]string, 0, len(r.Attrs))
	for _, a := range r.Attrs {
		lines = append(lines, line(a.Key, a.Value))
	}
	return lines
}

func visitLines(v solution.Visit) []string {
	var lines []string
	if v.Type != "" {
		lines = append(lines, line("type", string(v.Type)))
	}
	if v.Time != nil {
		label := "departure time"
		if v.TimeUnit == solution.Seconds {
			label = "arrival"
		}
		lines = append(lines, line(label, overlay.FormatTime(*v.Time, v.TimeUnit)))
	}
	for _, a := range v.Attrs {
		lines = append(lines, line(a.Key, a.Value))
	}
	return lines
}

func line(key, value string) string {
	return html.EscapeString(key) + ": " + html.EscapeString(value)
}

func emptyMessage(v solution.Variant) string {
	if v == solution.Vehicles {
		return "No vehicles."
	}
	return "No courier shifts."
}
