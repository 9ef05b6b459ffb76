package solution

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"lintang/routeviz/pkg/datastructure"
	"lintang/routeviz/pkg/indictment"
)

type point struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

func (p *point) coordinate() *datastructure.Coordinate {
	if p == nil || p.Lat == nil || p.Lon == nil {
		return nil
	}
	c := datastructure.NewCoordinate(*p.Lat, *p.Lon)
	return &c
}

func waypoints(pp []*point) []datastructure.Coordinate {
	out := make([]datastructure.Coordinate, 0, len(pp))
	for _, p := range pp {
		if c := p.coordinate(); c != nil {
			out = append(out, *c)
		}
	}
	return out
}

// Records decodes a JSON array one element at a time. Elements that fail to
// decode are left out of Items and reported in Rejected.
type Records[T any] struct {
	Items    []T
	Rejected []Rejected
}

type Rejected struct {
	Index int
	Err   error
}

func (r *Records[T]) UnmarshalJSON(b []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(b, &raws); err != nil {
		return err
	}
	r.Items = make([]T, 0, len(raws))
	r.Rejected = nil
	for i, raw := range raws {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			r.Rejected = append(r.Rejected, Rejected{Index: i, Err: err})
			continue
		}
		r.Items = append(r.Items, item)
	}
	return nil
}

type CourierVisit struct {
	ID                indictment.EntityID `json:"id"`
	Type              *string             `json:"type"`
	MinuteTime        *int                `json:"minuteTime"`
	RoadTime          *int                `json:"roadTime"`
	OrderID           *string             `json:"orderId"`
	RestaurantID      *string             `json:"restaurantId"`
	RestaurantChainID *string             `json:"restaurantChainId"`
	RestaurantName    *string             `json:"restaurantName"`
	Location          *point              `json:"location"`
	PathToNext        []*point            `json:"pathToNext"`
}

type CourierShift struct {
	ID           indictment.EntityID   `json:"id"`
	HotCapacity  *int                  `json:"hotCapacity"`
	ColdCapacity *int                  `json:"coldCapacity"`
	Depot        *point                `json:"depot"`
	Visits       Records[CourierVisit] `json:"visits"`
}

type CourierDocument struct {
	Name          *string               `json:"name"`
	SolverStatus  string                `json:"solverStatus"`
	CourierShifts Records[CourierShift] `json:"courierShifts"`
}

type VehicleLocation struct {
	ID  indictment.EntityID `json:"id"`
	Lat *float64            `json:"lat"`
	Lon *float64            `json:"lon"`
}

type VehicleVisit struct {
	Name                    indictment.EntityID `json:"name"`
	Class                   string              `json:"@class"`
	Location                indictment.EntityID `json:"location"`
	ArrivalTime             *float64            `json:"arrivalTime"`
	VehicleCharge           *float64            `json:"vehicleCharge"`
	VehicleChargeAfterVisit *float64            `json:"vehicleChargeAfterVisit"`
	PathToNext              []*point            `json:"pathToNext"`
}

type Vehicle struct {
	RegNr         indictment.EntityID   `json:"regNr"`
	Depot         indictment.EntityID   `json:"depot"`
	PathToFirst   []*point              `json:"pathToFirst"`
	TotalDistance *float64              `json:"totalDistance"`
	MaxCharge     *float64              `json:"maxCharge"`
	Visits        Records[VehicleVisit] `json:"visits"`
}

type VehicleDocument struct {
	Name         *string                  `json:"name"`
	SolverStatus string                   `json:"solverStatus"`
	LocationList Records[VehicleLocation] `json:"locationList"`
	VehicleList  Records[Vehicle]         `json:"vehicleList"`
}

// Document is one decoded solver payload; exactly one of Courier and Vehicle is set.
type Document struct {
	Variant Variant
	Courier *CourierDocument
	Vehicle *VehicleDocument
}

// DecodeDocument detects the schema by its route list key. Payloads carrying
// neither key decode as an empty courier document.
func DecodeDocument(r io.Reader) (Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("decode solution: read: %w", err)
	}

	var head struct {
		VehicleList json.RawMessage `json:"vehicleList"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return Document{}, fmt.Errorf("decode solution: %w", err)
	}

	if head.VehicleList != nil {
		doc := &VehicleDocument{}
		if err := json.Unmarshal(raw, doc); err != nil {
			return Document{}, fmt.Errorf("decode solution: vehicle schema: %w", err)
		}
		return Document{Variant: Vehicles, Vehicle: doc}, nil
	}

	doc := &CourierDocument{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return Document{}, fmt.Errorf("decode solution: courier schema: %w", err)
	}
	return Document{Variant: CourierShifts, Courier: doc}, nil
}

// Decode reads a solver payload of either schema into the canonical model.
func Decode(r io.Reader) (*Solution, error) {
	doc, err := DecodeDocument(r)
	if err != nil {
		return nil, err
	}
	return doc.Normalize(), nil
}

func (d Document) Normalize() *Solution {
	switch {
	case d.Vehicle != nil:
		return d.Vehicle.Normalize()
	case d.Courier != nil:
		return d.Courier.Normalize()
	default:
		return &Solution{Variant: d.Variant, Routes: []Route{}}
	}
}

func (d *CourierDocument) Normalize() *Solution {
	sol := &Solution{
		Name:         deref(d.Name),
		SolverStatus: d.SolverStatus,
		Variant:      CourierShifts,
		Routes:       make([]Route, 0, len(d.CourierShifts.Items)),
	}
	sol.reject("", "courierShifts", d.CourierShifts.Rejected)
	for _, shift := range d.CourierShifts.Items {
		route := Route{
			ID:      shift.ID,
			Kind:    "CourierShift",
			IDField: "id",
			Depot:   shift.Depot.coordinate(),
			Visits:  make([]Visit, 0, len(shift.Visits.Items)),
		}
		route.Attrs = appendInt(route.Attrs, "hotCapacity", shift.HotCapacity)
		route.Attrs = appendInt(route.Attrs, "coldCapacity", shift.ColdCapacity)
		sol.reject(shift.ID, "visits", shift.Visits.Rejected)

		for _, v := range shift.Visits.Items {
			visit := Visit{
				ID:         v.ID,
				Type:       VisitType(strings.ToUpper(deref(v.Type))),
				Location:   v.Location.coordinate(),
				Time:       v.MinuteTime,
				TimeUnit:   Minutes,
				PathToNext: waypoints(v.PathToNext),
			}
			if visit.Type == Restaurant {
				visit.Attrs = appendString(visit.Attrs, "restaurantId", v.RestaurantID)
				visit.Attrs = appendString(visit.Attrs, "restaurantChainId", v.RestaurantChainID)
			}
			visit.Attrs = appendString(visit.Attrs, "restaurant", v.RestaurantName)
			if v.RoadTime != nil {
				visit.Attrs = append(visit.Attrs, Attr{"road time", strconv.Itoa(*v.RoadTime) + "min"})
			}
			visit.Attrs = appendString(visit.Attrs, "order id", v.OrderID)
			route.Visits = append(route.Visits, visit)
		}
		sol.Routes = append(sol.Routes, route)
	}
	return sol
}

func (d *VehicleDocument) Normalize() *Solution {
	locations := make(map[indictment.EntityID]datastructure.Coordinate, len(d.LocationList.Items))
	for _, l := range d.LocationList.Items {
		if l.Lat == nil || l.Lon == nil {
			continue
		}
		locations[l.ID] = datastructure.NewCoordinate(*l.Lat, *l.Lon)
	}
	resolve := func(id indictment.EntityID) *datastructure.Coordinate {
		c, ok := locations[id]
		if !ok {
			return nil
		}
		return &c
	}

	sol := &Solution{
		Name:         deref(d.Name),
		SolverStatus: d.SolverStatus,
		Variant:      Vehicles,
		Routes:       make([]Route, 0, len(d.VehicleList.Items)),
	}
	sol.reject("", "locationList", d.LocationList.Rejected)
	sol.reject("", "vehicleList", d.VehicleList.Rejected)
	for _, vehicle := range d.VehicleList.Items {
		route := Route{
			ID:          vehicle.RegNr,
			Kind:        "Vehicle",
			IDField:     "regNr",
			Depot:       resolve(vehicle.Depot),
			PathToFirst: waypoints(vehicle.PathToFirst),
			Visits:      make([]Visit, 0, len(vehicle.Visits.Items)),
		}
		route.Attrs = appendFloat(route.Attrs, "totalDistance", vehicle.TotalDistance)
		route.Attrs = appendFloat(route.Attrs, "maxCharge", vehicle.MaxCharge)
		sol.reject(vehicle.RegNr, "visits", vehicle.Visits.Rejected)

		for _, v := range vehicle.Visits.Items {
			visit := Visit{
				ID:         v.Name,
				Type:       vehicleVisitType(v.Class),
				Location:   resolve(v.Location),
				TimeUnit:   Seconds,
				PathToNext: waypoints(v.PathToNext),
			}
			if v.ArrivalTime != nil {
				t := int(*v.ArrivalTime)
				visit.Time = &t
			}
			visit.Attrs = appendFloat(visit.Attrs, "charge", v.VehicleCharge)
			visit.Attrs = appendFloat(visit.Attrs, "after", v.VehicleChargeAfterVisit)
			route.Visits = append(route.Visits, visit)
		}
		sol.Routes = append(sol.Routes, route)
	}
	return sol
}

func (sol *Solution) reject(routeID indictment.EntityID, list string, rejected []Rejected) {
	for _, r := range rejected {
		sol.Malformed = append(sol.Malformed, Malformed{
			RouteID: routeID,
			List:    list,
			Index:   r.Index,
			Reason:  r.Err.Error(),
		})
	}
}

// vehicleVisitType maps a fully qualified domain class name to a visit type.
func vehicleVisitType(class string) VisitType {
	if class == "" {
		return ""
	}
	if strings.HasSuffix(class, ".Customer") || class == "Customer" {
		return Customer
	}
	return ChargingStation
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func appendString(attrs []Attr, key string, v *string) []Attr {
	if v == nil {
		return attrs
	}
	return append(attrs, Attr{key, *v})
}

func appendInt(attrs []Attr, key string, v *int) []Attr {
	if v == nil {
		return attrs
	}
	return append(attrs, Attr{key, strconv.Itoa(*v)})
}

func appendFloat(attrs []Attr, key string, v *float64) []Attr {
	if v == nil {
		return attrs
	}
	return append(attrs, Attr{key, strconv.FormatFloat(*v, 'f', -1, 64)})
}
