package normalize

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/sells-group/plant-locator/internal/model"
)

func TestCanonicalize(t *testing.T) {
	aliases := map[string]string{
		"Jammu & Kashmir":       "Jammu and Kashmir",
		"Uttar Pradesh (Urban)": "Uttar Pradesh",
	}
	tests := []struct {
		in, want string
	}{
		{"Jammu & Kashmir", "Jammu and Kashmir"},
		{"Uttar Pradesh (Urban)", "Uttar Pradesh"},
		{"Gujarat", "Gujarat"},
		{"jammu & kashmir", "jammu & kashmir"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonicalize(aliases, tt.in))
		})
	}
	assert.Equal(t, "Goa", Canonicalize(nil, "Goa"))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "food processing", Key("  Food Processing "))
	assert.Equal(t, "", Key("   "))
}

func TestInvertedMinMax(t *testing.T) {
	got := InvertedMinMax([]float64{4, 8, 6})
	assert.InDelta(t, 1.0, got[0], 1e-12)
	assert.InDelta(t, 0.0, got[1], 1e-12)
	assert.InDelta(t, 0.5, got[2], 1e-12)
}

func TestInvertedMinMax_ZeroRange(t *testing.T) {
	got := InvertedMinMax([]float64{7.5, 7.5, 7.5})
	assert.Equal(t, []float64{1, 1, 1}, got)
}

func TestInvertedMinMax_Empty(t *testing.T) {
	assert.Empty(t, InvertedMinMax(nil))
}

func TestMinMax(t *testing.T) {
	got := MinMax([]float64{0.2, 0.6, 0.4}, 100)
	assert.InDelta(t, 0.0, got[0], 1e-9)
	assert.InDelta(t, 100.0, got[1], 1e-9)
	assert.InDelta(t, 50.0, got[2], 1e-9)
}

func TestMinMax_ZeroRange(t *testing.T) {
	assert.Equal(t, []float64{100, 100}, MinMax([]float64{0.3, 0.3}, 100))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-1, 0, 1))
	assert.Equal(t, 1.0, Clamp(2, 0, 1))
	assert.Equal(t, 0.5, Clamp(0.5, 0, 1))
}

func TestPercent(t *testing.T) {
	assert.InDelta(t, 0.9973, Percent(99.73), 1e-12)
}

func TestLabor(t *testing.T) {
	// Robust availability with the cheapest wages in both columns.
	assert.InDelta(t, 1.0, Labor(model.AvailabilityRobust, 1, 1), 1e-12)
	// Low availability, most expensive wages.
	assert.InDelta(t, 0.12, Labor(model.AvailabilityLow, 0, 0), 1e-12)
	assert.InDelta(t, 0.24+0.15+0.06, Labor(model.AvailabilityModerate, 0.5, 0.2), 1e-12)
}

func TestInfrastructure(t *testing.T) {
	tests := []struct {
		name  string
		zones []model.ZoneType
		want  float64
	}{
		{"none", nil, 0},
		{"all", model.ZoneTypes(), 1.0},
		{"sez and pli", []model.ZoneType{model.ZoneSEZ, model.ZonePLI}, 0.40},
		{"duplicates counted once", []model.ZoneType{model.ZoneNIMZ, model.ZoneNIMZ}, 0.20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Infrastructure(tt.zones), 1e-12)
		})
	}
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 2.0, Mean([]float64{1, 2, 3}), 1e-12)
}

func TestNormalizeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	values := gen.SliceOf(gen.Float64Range(0, 1000))

	properties.Property("inverted scores stay in [0,1]", prop.ForAll(
		func(vs []float64) bool {
			for _, s := range InvertedMinMax(vs) {
				if s < 0 || s > 1 {
					return false
				}
			}
			return true
		},
		values,
	))

	properties.Property("lower raw value never scores lower", prop.ForAll(
		func(vs []float64) bool {
			scores := InvertedMinMax(vs)
			for i := range vs {
				for j := range vs {
					if vs[i] < vs[j] && scores[i] < scores[j] {
						return false
					}
				}
			}
			return true
		},
		values,
	))

	properties.Property("rescaled values stay in [0,100]", prop.ForAll(
		func(vs []float64) bool {
			for _, s := range MinMax(vs, 100) {
				if s < 0 || s > 100 {
					return false
				}
			}
			return true
		},
		values,
	))

	properties.Property("normalization is deterministic", prop.ForAll(
		func(vs []float64) bool {
			a, b := InvertedMinMax(vs), InvertedMinMax(vs)
			for i := range a {
				if a[i] != b[i] {
					return false
				}
			}
			return true
		},
		values,
	))

	properties.TestingRun(t)
}
