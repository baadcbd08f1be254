// Package normalize turns raw regional measurements into comparable factor
// scores in [0,1].
package normalize

import (
	"math"
	"strings"

	"github.com/sells-group/plant-locator/internal/model"
)

// Labor composite weights.
const (
	LaborAvailabilityWeight = 0.4
	LaborSkilledWeight      = 0.3
	LaborUnskilledWeight    = 0.3
)

// Canonicalize maps a region name through the alias table. Names without an
// alias are returned unchanged.
func Canonicalize(aliases map[string]string, name string) string {
	if canonical, ok := aliases[name]; ok {
		return canonical
	}
	return name
}

// Key lowercases and trims a catalogue key such as an industry or scale name.
func Key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// bounds returns the minimum and maximum of values. Empty input yields (0, 0).
func bounds(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// InvertedMinMax scores values where lower is better: the minimum maps to 1
// and the maximum to 0. When every value is equal all scores are 1.
func InvertedMinMax(values []float64) []float64 {
	out := make([]float64, len(values))
	lo, hi := bounds(values)
	span := hi - lo
	for i, v := range values {
		if span == 0 {
			out[i] = 1
			continue
		}
		out[i] = Clamp(1-(v-lo)/span, 0, 1)
	}
	return out
}

// MinMax rescales values linearly onto [0, scale]. When every value is equal
// all results are scale.
func MinMax(values []float64, scale float64) []float64 {
	out := make([]float64, len(values))
	lo, hi := bounds(values)
	span := hi - lo
	for i, v := range values {
		if span == 0 {
			out[i] = scale
			continue
		}
		out[i] = Clamp((v-lo)/span*scale, 0, scale)
	}
	return out
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Percent maps an EODB percentage to [0,1].
func Percent(raw float64) float64 {
	return raw / 100
}

// Labor combines availability with the skilled and unskilled cost scores.
func Labor(availability model.Availability, skilledScore, unskilledScore float64) float64 {
	return availability.Score()*LaborAvailabilityWeight +
		skilledScore*LaborSkilledWeight +
		unskilledScore*LaborUnskilledWeight
}

// Infrastructure sums the weights of the zone types present.
func Infrastructure(zones []model.ZoneType) float64 {
	seen := make(map[model.ZoneType]bool, len(zones))
	var score float64
	for _, z := range zones {
		if seen[z] {
			continue
		}
		seen[z] = true
		score += z.Weight()
	}
	return score
}

// Mean returns the arithmetic mean, or 0 for no values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
