// Package dataset holds the static reference tables behind location scoring:
// electricity tariffs, ease-of-doing-business results, labor market data,
// industrial zone presence, region adjacency, the SEZ catalogue and the
// industry and investment-scale profiles.
//
// Tables are embedded YAML, decoded once, canonicalized and validated. A
// Dataset is immutable after Load; every accessor returns a copy.
package dataset

import (
	"embed"
	"io/fs"
	"slices"
	"strings"
	"sync"

	"github.com/sells-group/plant-locator/internal/model"
	"github.com/sells-group/plant-locator/internal/normalize"
)

//go:embed data/*.yaml
var dataFS embed.FS

// ElectricityRow is one region's industrial electricity tariff.
type ElectricityRow struct {
	Region      string  `yaml:"name" validate:"required"`
	Tariff      float64 `yaml:"tariff" validate:"gt=0"`
	FixedCharge float64 `yaml:"fixed_charge" validate:"gte=0"`
}

// EODBRow is one region's ease-of-doing-business result.
type EODBRow struct {
	Region   string  `yaml:"name" validate:"required"`
	Score    float64 `yaml:"score" validate:"gte=0,lte=100"`
	Category string  `yaml:"category" validate:"required"`
}

// LaborRow is one region's labor availability and daily wage levels.
type LaborRow struct {
	Region        string
	Availability  model.Availability
	SkilledCost   float64
	UnskilledCost float64
}

// ZoneRow lists the zone types present in a region, in zone column order.
type ZoneRow struct {
	Region string
	Zones  []model.ZoneType
}

// Has reports whether the zone type is present.
func (r ZoneRow) Has(z model.ZoneType) bool {
	return slices.Contains(r.Zones, z)
}

// Dataset is the full set of reference tables.
type Dataset struct {
	electricity []ElectricityRow
	eodb        []EODBRow
	labor       []LaborRow
	zones       []ZoneRow
	aliases     map[string]string
	neighbors   map[string][]string
	sezNames    map[string][]string
	industries  []model.Industry
	scales      []model.Scale
}

var (
	defaultOnce sync.Once
	defaultSet  *Dataset
	defaultErr  error
)

// Default returns the dataset built from the embedded tables. It panics if
// the embedded data does not load, which tests guard against.
func Default() *Dataset {
	defaultOnce.Do(func() {
		sub, err := fs.Sub(dataFS, "data")
		if err != nil {
			defaultErr = err
			return
		}
		defaultSet, defaultErr = Load(sub)
	})
	if defaultErr != nil {
		panic("dataset: embedded tables are invalid: " + defaultErr.Error())
	}
	return defaultSet
}

// Electricity returns the electricity table in source order.
func (d *Dataset) Electricity() []ElectricityRow {
	return slices.Clone(d.electricity)
}

// EODB returns the ease-of-doing-business table in source order.
func (d *Dataset) EODB() []EODBRow {
	return slices.Clone(d.eodb)
}

// Labor returns the labor table in source order.
func (d *Dataset) Labor() []LaborRow {
	return slices.Clone(d.labor)
}

// Zones returns the zone presence table. Every electricity region has a row.
func (d *Dataset) Zones() []ZoneRow {
	out := make([]ZoneRow, len(d.zones))
	for i, r := range d.zones {
		out[i] = ZoneRow{Region: r.Region, Zones: slices.Clone(r.Zones)}
	}
	return out
}

// ZoneRow returns the zone row for a canonical region name.
func (d *Dataset) ZoneRow(region string) (ZoneRow, bool) {
	for _, r := range d.zones {
		if r.Region == region {
			return ZoneRow{Region: r.Region, Zones: slices.Clone(r.Zones)}, true
		}
	}
	return ZoneRow{}, false
}

// Regions returns the canonical region names of the electricity table,
// which is the base of every ranking.
func (d *Dataset) Regions() []string {
	out := make([]string, len(d.electricity))
	for i, r := range d.electricity {
		out[i] = r.Region
	}
	return out
}

// Canonicalize maps a region name through the alias table.
func (d *Dataset) Canonicalize(name string) string {
	return normalize.Canonicalize(d.aliases, name)
}

// ResolveRegion maps user input to a ranked region's canonical name. Input is
// trimmed and matched case-insensitively, first against the alias table and
// then against the region names.
func (d *Dataset) ResolveRegion(name string) (string, bool) {
	key := normalize.Key(name)
	if key == "" {
		return "", false
	}
	for alias, canonical := range d.aliases {
		if normalize.Key(alias) == key {
			key = normalize.Key(canonical)
			break
		}
	}
	for _, r := range d.electricity {
		if normalize.Key(r.Region) == key {
			return r.Region, true
		}
	}
	return "", false
}

// Neighbors returns the neighbors recorded for a region. The key is matched
// exactly; a region with no entry has no neighbors.
func (d *Dataset) Neighbors(region string) []string {
	return slices.Clone(d.neighbors[region])
}

// SEZNames returns the named special economic zones of a region.
func (d *Dataset) SEZNames(region string) []string {
	return slices.Clone(d.sezNames[region])
}

// Industries returns every industry profile in catalogue order.
func (d *Dataset) Industries() []model.Industry {
	out := make([]model.Industry, len(d.industries))
	for i, ind := range d.industries {
		out[i] = cloneIndustry(ind)
	}
	return out
}

// Industry looks up an industry profile, ignoring case and surrounding space.
func (d *Dataset) Industry(name string) (model.Industry, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, ind := range d.industries {
		if ind.Name == key {
			return cloneIndustry(ind), true
		}
	}
	return model.Industry{}, false
}

// IndustryNames returns the industry keys in catalogue order.
func (d *Dataset) IndustryNames() []string {
	out := make([]string, len(d.industries))
	for i, ind := range d.industries {
		out[i] = ind.Name
	}
	return out
}

// Scales returns every investment scale in catalogue order.
func (d *Dataset) Scales() []model.Scale {
	return slices.Clone(d.scales)
}

// Scale looks up an investment scale, ignoring case and surrounding space.
func (d *Dataset) Scale(name string) (model.Scale, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, s := range d.scales {
		if s.Name == key {
			return s, true
		}
	}
	return model.Scale{}, false
}

// ScaleNames returns the scale keys in catalogue order.
func (d *Dataset) ScaleNames() []string {
	out := make([]string, len(d.scales))
	for i, s := range d.scales {
		out[i] = s.Name
	}
	return out
}

func cloneIndustry(ind model.Industry) model.Industry {
	ind.PreferredZones = slices.Clone(ind.PreferredZones)
	return ind
}
