package overlay

import (
	"fmt"
	"html"
	"strings"

	"lintang/routeviz/pkg/indictment"
	"lintang/routeviz/pkg/score"
	"lintang/routeviz/pkg/solution"
)

// EntityPopup is the violation section of a popup: the total score with its
// match count, then one line per constraint match, bold when the match
// carries a hard violation. Entities without an indictment get "".
func EntityPopup(id indictment.EntityID, idx indictment.Index) string {
	ind, ok := idx.Lookup(id)
	if !ok {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Total score: <b>%s</b> (%d)<br>", html.EscapeString(ind.Score), ind.MatchCount)
	for _, m := range ind.ConstraintMatches {
		writeScoreLine(&sb, m.ConstraintName, m.Score)
	}
	return sb.String()
}

// ScorePopup lists the per-constraint breakdown of a score analysis.
func ScorePopup(constraints []indictment.ConstraintScore) string {
	var sb strings.Builder
	for _, c := range constraints {
		writeScoreLine(&sb, c.Name, c.Score)
	}
	return sb.String()
}

func writeScoreLine(sb *strings.Builder, name, s string) {
	line := html.EscapeString(name) + " : " + html.EscapeString(s)
	if score.Classify(s) == score.OK {
		sb.WriteString(line + "<br>")
		return
	}
	sb.WriteString("<b>" + line + "</b><br>")
}

// VisitPopup describes a visit, its route and its violations. nr is the
// 1-based position of the visit in the route. Absent attributes are left out.
func VisitPopup(visit solution.Visit, nr int, route solution.Route, idx indictment.Index) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>visit id=%s</b> (stop %d of %s)", html.EscapeString(string(visit.ID)), nr, html.EscapeString(route.Kind))
	if visit.Type != "" {
		writeAttr(&sb, "visit type", string(visit.Type))
	}
	if visit.Time != nil {
		writeAttr(&sb, timeLabel(visit.TimeUnit), FormatTime(*visit.Time, visit.TimeUnit))
	}
	for _, a := range visit.Attrs {
		writeAttr(&sb, a.Key, a.Value)
	}

	sb.WriteString("<hr>")
	writeRouteAttrs(&sb, route)
	sb.WriteString("<hr>")
	sb.WriteString(EntityPopup(visit.ID, idx))
	return sb.String()
}

// DepotPopup describes the route itself at its depot marker.
func DepotPopup(route solution.Route, idx indictment.Index) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>#%s</b>", html.EscapeString(string(route.ID)))
	writeRouteAttrs(&sb, route)
	sb.WriteString("<hr>")
	sb.WriteString(EntityPopup(route.ID, idx))
	return sb.String()
}

func writeRouteAttrs(sb *strings.Builder, route solution.Route) {
	if route.ID != "" {
		writeAttr(sb, route.Kind+" "+route.IDField, string(route.ID))
	}
	for _, a := range route.Attrs {
		writeAttr(sb, a.Key, a.Value)
	}
}

func writeAttr(sb *strings.Builder, key, value string) {
	sb.WriteString("<br>" + html.EscapeString(key) + "=" + html.EscapeString(value))
}

func timeLabel(unit solution.TimeUnit) string {
	if unit == solution.Seconds {
		return "arrival"
	}
	return "departure time"
}

// FormatTime renders minutes as HH:MM and seconds as HH:MM:SS.
func FormatTime(t int, unit solution.TimeUnit) string {
	if unit == solution.Seconds {
		return fmt.Sprintf("%02d:%02d:%02d", t/3600, (t%3600)/60, t%60)
	}
	return fmt.Sprintf("%02d:%02d", t/60, t%60)
}

// Title is the solution heading: its name followed by the solver status.
func Title(sol *solution.Solution) string {
	return strings.TrimSpace(sol.Name + "  " + sol.SolverStatus)
}

// Badge is the solution-wide score indicator.
type Badge struct {
	Text    string       `json:"text"`
	Class   string       `json:"class"`
	Status  score.Status `json:"status"`
	Title   string       `json:"title"`
	Popover string       `json:"popover"`
}

func ScoreBadge(analysis indictment.Analysis) Badge {
	status := score.Classify(analysis.Score)
	return Badge{
		Text:    analysis.Score,
		Class:   status.BadgeClass(),
		Status:  status,
		Title:   "Score Breakdown",
		Popover: ScorePopup(analysis.Constraints),
	}
}
