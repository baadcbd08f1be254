package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Availability is the ordinal labor-availability category of a region.
type Availability int

// Availability categories.
const (
	AvailabilityLow Availability = iota + 1
	AvailabilityModerate
	AvailabilityHigh
	AvailabilityDiverse
	AvailabilityRobust
)

var availabilityNames = map[Availability]string{
	AvailabilityLow:      "Low",
	AvailabilityModerate: "Moderate",
	AvailabilityHigh:     "High",
	AvailabilityDiverse:  "Diverse",
	AvailabilityRobust:   "Robust",
}

// ParseAvailability maps a category label to its Availability.
// Unrecognized labels are an error; there is no default category.
func ParseAvailability(label string) (Availability, error) {
	key := strings.TrimSpace(label)
	for a, name := range availabilityNames {
		if strings.EqualFold(key, name) {
			return a, nil
		}
	}
	return 0, eris.Errorf("model: unknown labor availability %q", label)
}

// String returns the category label.
func (a Availability) String() string {
	if name, ok := availabilityNames[a]; ok {
		return name
	}
	return "Unknown"
}

// Score returns the category's numeric score in [0,1].
func (a Availability) Score() float64 {
	switch a {
	case AvailabilityLow:
		return 0.3
	case AvailabilityModerate:
		return 0.6
	case AvailabilityHigh:
		return 0.9
	case AvailabilityDiverse:
		return 0.7
	case AvailabilityRobust:
		return 1.0
	default:
		return 0
	}
}
