// Package zone recommends industrial zone types within a region for an
// industry.
package zone

import (
	"slices"
	"strings"

	"github.com/sells-group/plant-locator/internal/dataset"
	"github.com/sells-group/plant-locator/internal/model"
)

// Sentinel recommendations.
const (
	NoZones          = "No specific industrial zones identified"
	DataNotAvailable = "Data not available"
)

// Recommender maps (region, industry) to zone recommendations.
type Recommender struct {
	data *dataset.Dataset
}

// NewRecommender creates a Recommender over the given dataset.
func NewRecommender(data *dataset.Dataset) *Recommender {
	return &Recommender{data: data}
}

// Recommend returns the zone types present in region that industry prefers,
// in the industry's preference order. When the region has zones but none are
// preferred, every present zone is returned in column order. The SEZ entry
// carries the region's named SEZs in either case. A region with no zones yields NoZones and an unknown region yields
// DataNotAvailable. An unknown industry has no preferences.
func (r *Recommender) Recommend(region, industry string) []string {
	row, ok := r.data.ZoneRow(region)
	if !ok {
		return []string{DataNotAvailable}
	}
	if len(row.Zones) == 0 {
		return []string{NoZones}
	}

	var preferred []model.ZoneType
	if ind, ok := r.data.Industry(industry); ok {
		preferred = ind.PreferredZones
	}

	var matched []model.ZoneType
	for _, z := range preferred {
		if row.Has(z) && !slices.Contains(matched, z) {
			matched = append(matched, z)
		}
	}

	if len(matched) == 0 {
		matched = row.Zones
	}

	out := make([]string, len(matched))
	for i, z := range matched {
		out[i] = r.label(z, row.Region)
	}
	return out
}

// label annotates the SEZ zone type with the region's named SEZs.
func (r *Recommender) label(z model.ZoneType, region string) string {
	if z != model.ZoneSEZ {
		return z.String()
	}
	names := r.data.SEZNames(region)
	if len(names) == 0 {
		return z.String()
	}
	return z.String() + " (e.g., " + strings.Join(names, ", ") + ")"
}
