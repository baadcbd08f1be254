package scorer

import (
	"cmp"
	"slices"
	"strings"

	"github.com/sells-group/plant-locator/internal/config"
	"github.com/sells-group/plant-locator/internal/dataset"
	"github.com/sells-group/plant-locator/internal/model"
	"github.com/sells-group/plant-locator/internal/normalize"
)

// Component keys of RegionScore.Components.
const (
	ComponentElectricity    = "electricity"
	ComponentEaseOfBusiness = "ease_of_business"
	ComponentLabor          = "labor"
	ComponentInfrastructure = "infrastructure"
)

// MaxScore is the top of the normalized score scale.
const MaxScore = 100.0

// Engine ranks every region in the dataset. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	data *dataset.Dataset
	cfg  config.ScorerConfig
}

// NewEngine creates an Engine over the given dataset.
func NewEngine(data *dataset.Dataset, cfg config.ScorerConfig) *Engine {
	return &Engine{data: data, cfg: cfg}
}

// Config returns the engine configuration.
func (e *Engine) Config() config.ScorerConfig {
	return e.cfg
}

// ResolveIndustry looks up an industry profile, returning a ValidationError
// listing the valid industries when it is unknown.
func (e *Engine) ResolveIndustry(name string) (model.Industry, error) {
	ind, ok := e.data.Industry(name)
	if !ok {
		return model.Industry{}, &ValidationError{
			Field: "industry type",
			Value: name,
			Valid: e.data.IndustryNames(),
		}
	}
	return ind, nil
}

// ResolveScale looks up an investment scale, returning a ValidationError
// listing the valid scales when it is unknown.
func (e *Engine) ResolveScale(name string) (model.Scale, error) {
	s, ok := e.data.Scale(name)
	if !ok {
		return model.Scale{}, &ValidationError{
			Field: "investment scale",
			Value: name,
			Valid: e.data.ScaleNames(),
		}
	}
	return s, nil
}

// Rank scores every region of the electricity table for the industry and
// scale, applies the proximity bonus when preferred is non-empty, and returns
// the regions by normalized score descending, ties broken by name.
func (e *Engine) Rank(industry, scale, preferred string) ([]model.RegionScore, error) {
	ind, err := e.ResolveIndustry(industry)
	if err != nil {
		return nil, err
	}
	sc, err := e.ResolveScale(scale)
	if err != nil {
		return nil, err
	}

	rows := e.factorTable()

	w := sc.Weights
	raw := make([]float64, len(rows))
	for i := range rows {
		r := &rows[i]
		components := map[string]float64{
			ComponentElectricity:    r.ElectricityScore * w.Electricity * ind.ElectricityWeight,
			ComponentEaseOfBusiness: r.EODBScore * w.EaseOfBusiness,
			ComponentLabor:          r.LaborScore * w.Labor,
			ComponentInfrastructure: r.InfrastructureScore * w.Infrastructure,
		}
		r.WeightedScore = components[ComponentElectricity] +
			components[ComponentEaseOfBusiness] +
			components[ComponentLabor] +
			components[ComponentInfrastructure]
		r.Components = components
		raw[i] = r.WeightedScore
	}

	for i, s := range normalize.MinMax(raw, MaxScore) {
		rows[i].NormalizedScore = s
	}

	if strings.TrimSpace(preferred) != "" {
		ApplyProximity(rows, preferred, e.data.Neighbors, e.cfg.ProximityWeight)
	}

	SortScores(rows)
	return rows, nil
}

// factorTable left-joins the electricity table with the EODB, labor and zone
// tables on canonical region name and fills the four factor scores.
// Missing EODB rows take the worst observed EODB score; missing labor or
// infrastructure values take the mean of the joined rows that have one.
func (e *Engine) factorTable() []model.RegionScore {
	elec := e.data.Electricity()
	tariffs := make([]float64, len(elec))
	for i, r := range elec {
		tariffs[i] = r.Tariff
	}
	elecScores := normalize.InvertedMinMax(tariffs)

	eodb := e.eodbScores()
	minEODB := 0.0
	for i, r := range e.data.EODB() {
		s := normalize.Percent(r.Score)
		if i == 0 || s < minEODB {
			minEODB = s
		}
	}

	labor := e.laborScores()
	infra := e.infrastructureScores()

	rows := make([]model.RegionScore, len(elec))
	var laborPresent, infraPresent []float64
	laborMissing := make([]bool, len(elec))
	infraMissing := make([]bool, len(elec))
	for i, r := range elec {
		row := model.RegionScore{
			Region:           r.Region,
			Tariff:           r.Tariff,
			FixedCharge:      r.FixedCharge,
			ElectricityScore: elecScores[i],
		}
		if s, ok := eodb[r.Region]; ok {
			row.EODBScore = s
		} else {
			row.EODBScore = minEODB
		}
		if s, ok := labor[r.Region]; ok {
			row.LaborScore = s
			laborPresent = append(laborPresent, s)
		} else {
			laborMissing[i] = true
		}
		if s, ok := infra[r.Region]; ok {
			row.InfrastructureScore = s
			infraPresent = append(infraPresent, s)
		} else {
			infraMissing[i] = true
		}
		rows[i] = row
	}

	laborMean := normalize.Mean(laborPresent)
	infraMean := normalize.Mean(infraPresent)
	for i := range rows {
		if laborMissing[i] {
			rows[i].LaborScore = laborMean
		}
		if infraMissing[i] {
			rows[i].InfrastructureScore = infraMean
		}
	}
	return rows
}

func (e *Engine) eodbScores() map[string]float64 {
	rows := e.data.EODB()
	out := make(map[string]float64, len(rows))
	for _, r := range rows {
		out[r.Region] = normalize.Percent(r.Score)
	}
	return out
}

// laborScores normalizes wages within the labor table and combines them with
// availability.
func (e *Engine) laborScores() map[string]float64 {
	rows := e.data.Labor()
	skilled := make([]float64, len(rows))
	unskilled := make([]float64, len(rows))
	for i, r := range rows {
		skilled[i] = r.SkilledCost
		unskilled[i] = r.UnskilledCost
	}
	skilledScores := normalize.InvertedMinMax(skilled)
	unskilledScores := normalize.InvertedMinMax(unskilled)

	out := make(map[string]float64, len(rows))
	for i, r := range rows {
		out[r.Region] = normalize.Labor(r.Availability, skilledScores[i], unskilledScores[i])
	}
	return out
}

func (e *Engine) infrastructureScores() map[string]float64 {
	rows := e.data.Zones()
	out := make(map[string]float64, len(rows))
	for _, r := range rows {
		out[r.Region] = normalize.Infrastructure(r.Zones)
	}
	return out
}

// SortScores orders rows by normalized score descending, then by region name.
func SortScores(rows []model.RegionScore) {
	slices.SortStableFunc(rows, func(a, b model.RegionScore) int {
		if c := cmp.Compare(b.NormalizedScore, a.NormalizedScore); c != 0 {
			return c
		}
		return strings.Compare(a.Region, b.Region)
	})
}
