package overlay

import (
	"lintang/routeviz/pkg/score"
	"lintang/routeviz/pkg/solution"
)

const violatedIconColor = "#ff0000"

type IconKind string

const (
	IconRestaurant IconKind = "restaurant"
	IconCustomer   IconKind = "customer"
	IconCharging   IconKind = "charging"
	IconVehicle    IconKind = "vehicle"
)

var iconClasses = map[IconKind]string{
	IconRestaurant: "fas fa-utensils",
	IconCustomer:   "fas fa-warehouse",
	IconCharging:   "fas fa-battery-full",
	IconVehicle:    "fas fa-truck",
}

// Icon is a font-awesome div icon; violated variants are drawn red.
type Icon struct {
	Kind    IconKind     `json:"kind"`
	Variant score.Status `json:"variant"`
	Class   string       `json:"class"`
	Color   string       `json:"color,omitempty"`
	HTML    string       `json:"html"`
}

func NewIcon(kind IconKind, status score.Status) Icon {
	icon := Icon{
		Kind:    kind,
		Variant: status,
		Class:   iconClasses[kind],
	}
	if status == score.Violated {
		icon.Color = violatedIconColor
		icon.HTML = `<i class="` + icon.Class + `" style="color: ` + icon.Color + `"></i>`
	} else {
		icon.HTML = `<i class="` + icon.Class + `"></i>`
	}
	return icon
}

// visitIconKind picks the marker glyph. Untyped or unknown visits fall back
// to the non-customer glyph of the schema (restaurant / charging station).
func visitIconKind(variant solution.Variant, t solution.VisitType) IconKind {
	switch t {
	case solution.Customer:
		return IconCustomer
	case solution.Restaurant:
		return IconRestaurant
	case solution.ChargingStation:
		return IconCharging
	}
	if variant == solution.Vehicles {
		return IconCharging
	}
	return IconRestaurant
}
