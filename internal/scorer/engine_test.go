package scorer

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/plant-locator/internal/dataset"
	"github.com/sells-group/plant-locator/internal/model"
)

func newTestEngine() *Engine {
	return NewEngine(dataset.Default(), DefaultScorerConfig())
}

func byRegion(rows []model.RegionScore) map[string]model.RegionScore {
	out := make(map[string]model.RegionScore, len(rows))
	for _, r := range rows {
		out[r.Region] = r
	}
	return out
}

func TestRank_TextileSmall(t *testing.T) {
	rows, err := newTestEngine().Rank("textile", "small", "")
	require.NoError(t, err)
	require.Len(t, rows, 36)

	assert.Equal(t, "Telangana", rows[0].Region)
	assert.InDelta(t, 100.0, rows[0].NormalizedScore, 1e-9)
	assert.Equal(t, "Tamil Nadu", rows[1].Region)
	assert.InDelta(t, 92.5645, rows[1].NormalizedScore, 1e-3)
	assert.Equal(t, "Andaman and Nicobar Islands", rows[len(rows)-1].Region)
	assert.InDelta(t, 0.0, rows[len(rows)-1].NormalizedScore, 1e-9)

	for _, r := range rows {
		assert.False(t, r.ProximityBoosted, r.Region)
	}
}

func TestRank_FactorScores(t *testing.T) {
	rows, err := newTestEngine().Rank("textile", "small", "")
	require.NoError(t, err)
	got := byRegion(rows)

	gj := got["Gujarat"]
	assert.Equal(t, 7.52, gj.Tariff)
	assert.Equal(t, 0.0, gj.FixedCharge)
	assert.InDelta(t, 0.9973, gj.EODBScore, 1e-9)
	assert.InDelta(t, 0.450122, gj.LaborScore, 1e-5)
	assert.InDelta(t, 0.85, gj.InfrastructureScore, 1e-9)
	assert.InDelta(t, 84.6510, gj.NormalizedScore, 1e-3)

	// Maharashtra has the highest tariff, Dadra and Nagar Haveli the lowest.
	assert.InDelta(t, 0.0, got["Maharashtra"].ElectricityScore, 1e-9)
	assert.InDelta(t, 1.0, got["Dadra and Nagar Haveli"].ElectricityScore, 1e-9)
	assert.InDelta(t, 1.0, got["Maharashtra"].InfrastructureScore, 1e-9)
}

func TestRank_MissingRowFallbacks(t *testing.T) {
	rows, err := newTestEngine().Rank("textile", "medium", "")
	require.NoError(t, err)
	got := byRegion(rows)

	// Tripura has no labor row and takes the mean of the joined labor scores.
	var sum float64
	var n int
	for _, r := range rows {
		if r.Region != "Tripura" {
			sum += r.LaborScore
			n++
		}
	}
	assert.InDelta(t, sum/float64(n), got["Tripura"].LaborScore, 1e-9)
	assert.InDelta(t, 0.565816, got["Tripura"].LaborScore, 1e-5)

	// Regions without zones score zero infrastructure rather than a fallback.
	assert.Equal(t, 0.0, got["Goa"].InfrastructureScore)
}

func TestRank_Components(t *testing.T) {
	rows, err := newTestEngine().Rank("chemical", "large", "")
	require.NoError(t, err)

	for _, r := range rows {
		require.Len(t, r.Components, 4)
		sum := r.Components[ComponentElectricity] + r.Components[ComponentEaseOfBusiness] +
			r.Components[ComponentLabor] + r.Components[ComponentInfrastructure]
		assert.InDelta(t, r.WeightedScore, sum, 1e-12, r.Region)
		assert.InDelta(t, r.ElectricityScore*0.2*0.7, r.Components[ComponentElectricity], 1e-12, r.Region)
		assert.InDelta(t, r.InfrastructureScore*0.3, r.Components[ComponentInfrastructure], 1e-12, r.Region)
	}
}

func TestRank_CaseInsensitiveInputs(t *testing.T) {
	e := newTestEngine()
	a, err := e.Rank("textile", "small", "")
	require.NoError(t, err)
	b, err := e.Rank("  TEXTILE ", "Small", "")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRank_UnknownIndustry(t *testing.T) {
	_, err := newTestEngine().Rank("bicycles", "small", "")
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "industry type", ve.Field)
	assert.Equal(t, "bicycles", ve.Value)
	assert.Len(t, ve.Valid, 10)
	for _, name := range []string{"textile", "electronics", "food processing", "automotive",
		"pharmaceutical", "chemical", "furniture", "plastics", "paper", "metal"} {
		assert.Contains(t, err.Error(), name)
	}
}

func TestRank_UnknownScale(t *testing.T) {
	_, err := newTestEngine().Rank("textile", "huge", "")
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "investment scale", ve.Field)
	assert.Equal(t, []string{"small", "medium", "large"}, ve.Valid)
	assert.Contains(t, err.Error(), "small, medium, large")
}

func TestRank_Idempotent(t *testing.T) {
	e := newTestEngine()
	a, err := e.Rank("pharmaceutical", "large", "Karnataka")
	require.NoError(t, err)
	b, err := e.Rank("pharmaceutical", "large", "Karnataka")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRank_Bounds(t *testing.T) {
	e := newTestEngine()
	d := dataset.Default()
	for _, ind := range d.IndustryNames() {
		for _, sc := range d.ScaleNames() {
			for _, pref := range []string{"", "Rajasthan", "assam", "Atlantis"} {
				rows, err := e.Rank(ind, sc, pref)
				require.NoError(t, err)
				for _, r := range rows {
					for name, v := range map[string]float64{
						"electricity":    r.ElectricityScore,
						"eodb":           r.EODBScore,
						"labor":          r.LaborScore,
						"infrastructure": r.InfrastructureScore,
					} {
						assert.GreaterOrEqual(t, v, 0.0, "%s %s %s", ind, r.Region, name)
						assert.LessOrEqual(t, v, 1.0, "%s %s %s", ind, r.Region, name)
					}
					assert.GreaterOrEqual(t, r.NormalizedScore, 0.0)
					assert.LessOrEqual(t, r.NormalizedScore, MaxScore)
				}
				for i := 1; i < len(rows); i++ {
					assert.GreaterOrEqual(t, rows[i-1].NormalizedScore, rows[i].NormalizedScore)
				}
			}
		}
	}
}

func TestRank_TiesBrokenByName(t *testing.T) {
	// Rajasthan's boost lifts Uttar Pradesh to the cap alongside Telangana.
	rows, err := newTestEngine().Rank("textile", "small", "Rajasthan")
	require.NoError(t, err)
	assert.Equal(t, "Telangana", rows[0].Region)
	assert.Equal(t, "Uttar Pradesh", rows[1].Region)
	assert.Equal(t, MaxScore, rows[1].NormalizedScore)
}

func TestSortScores(t *testing.T) {
	rows := []model.RegionScore{
		{Region: "b", NormalizedScore: 50},
		{Region: "c", NormalizedScore: 80},
		{Region: "a", NormalizedScore: 50},
	}
	SortScores(rows)
	assert.Equal(t, "c", rows[0].Region)
	assert.Equal(t, "a", rows[1].Region)
	assert.Equal(t, "b", rows[2].Region)
}

func TestRank_ZeroRangeAggregate(t *testing.T) {
	// A single region has zero spread in every factor and the aggregate.
	d, err := dataset.Load(singleRegionFS())
	require.NoError(t, err)

	rows, err := NewEngine(d, DefaultScorerConfig()).Rank("widgets", "even", "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1.0, rows[0].ElectricityScore)
	assert.Equal(t, MaxScore, rows[0].NormalizedScore)
}

// TestTariffMonotonicity lowers one region's tariff and checks its
// electricity score never drops.
func TestTariffMonotonicity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("lower tariff never lowers electricity score", prop.ForAll(
		func(base, cut float64) bool {
			before := rankTwoRegions(t, base, 6.0)
			after := rankTwoRegions(t, base-cut, 6.0)
			return after["A"].ElectricityScore >= before["A"].ElectricityScore
		},
		gen.Float64Range(1, 20),
		gen.Float64Range(0, 0.99),
	))

	properties.TestingRun(t)
}

func TestConfig(t *testing.T) {
	assert.NoError(t, ValidateConfig(DefaultScorerConfig()))

	cfg := DefaultScorerConfig()
	cfg.ProximityWeight = -0.1
	cfg.TopN = 0
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "proximity_weight must be >= 0")
	assert.Contains(t, err.Error(), "top_n must be >= 1")

	assert.Equal(t, 0.15, newTestEngine().Config().ProximityWeight)
}
