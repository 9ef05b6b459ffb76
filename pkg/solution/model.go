// Package solution holds the canonical route model the renderer works on and
// the decoders that map both solver schemas onto it.
package solution

import (
	"fmt"

	"lintang/routeviz/pkg/datastructure"
	"lintang/routeviz/pkg/indictment"
)

type Variant int

const (
	CourierShifts Variant = iota
	Vehicles
)

func (v Variant) String() string {
	if v == Vehicles {
		return "vehicles"
	}
	return "courierShifts"
}

func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

type VisitType string

const (
	Restaurant      VisitType = "RESTAURANT"
	Customer        VisitType = "CUSTOMER"
	ChargingStation VisitType = "CHARGING_STATION"
)

// TimeUnit is fixed per schema: courier shifts count minutes, vehicle routes seconds.
type TimeUnit int

const (
	Minutes TimeUnit = iota
	Seconds
)

// Attr is a display-only attribute carried through from the solver payload.
type Attr struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Visit struct {
	ID         indictment.EntityID        `json:"id"`
	Type       VisitType                  `json:"type,omitempty"`
	Location   *datastructure.Coordinate  `json:"location,omitempty"`
	Time       *int                       `json:"time,omitempty"`
	TimeUnit   TimeUnit                   `json:"-"`
	PathToNext []datastructure.Coordinate `json:"pathToNext,omitempty"`
	Attrs      []Attr                     `json:"attrs,omitempty"`
}

type Route struct {
	ID indictment.EntityID `json:"id"`
	// Kind and IDField name the route in labels, e.g. "CourierShift" / "id".
	Kind        string                     `json:"kind"`
	IDField     string                     `json:"-"`
	Depot       *datastructure.Coordinate  `json:"depot,omitempty"`
	PathToFirst []datastructure.Coordinate `json:"pathToFirst,omitempty"`
	Visits      []Visit                    `json:"visits"`
	Attrs       []Attr                     `json:"attrs,omitempty"`
}

// Malformed is a route, visit or location record of the payload that failed
// to decode and was left out. RouteID is empty for records outside a route.
type Malformed struct {
	RouteID indictment.EntityID `json:"routeId,omitempty"`
	List    string              `json:"list"`
	Index   int                 `json:"index"`
	Reason  string              `json:"reason"`
}

// Route reports whether the rejected record was a whole route.
func (m Malformed) Route() bool {
	return m.List == "courierShifts" || m.List == "vehicleList"
}

func (m Malformed) String() string {
	return fmt.Sprintf("%s[%d]: %s", m.List, m.Index, m.Reason)
}

type Solution struct {
	Name         string      `json:"name,omitempty"`
	SolverStatus string      `json:"solverStatus,omitempty"`
	Variant      Variant     `json:"variant"`
	Routes       []Route     `json:"routes"`
	Malformed    []Malformed `json:"malformed,omitempty"`
}
