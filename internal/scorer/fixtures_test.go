package scorer

import (
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/plant-locator/internal/dataset"
	"github.com/sells-group/plant-locator/internal/model"
)

const fixtureProfiles = `
industries:
  - {name: widgets, intensity: low, electricity_weight: 0.5, description: Widgets, preferred_zones: [sez]}
scales:
  - name: even
    range: any
    weights: {electricity: 0.25, labor: 0.25, ease_of_business: 0.25, infrastructure: 0.25}
`

func singleRegionFS() fstest.MapFS {
	return fstest.MapFS{
		dataset.GeographyFile:   {Data: []byte("aliases: {}\n")},
		dataset.ElectricityFile: {Data: []byte("regions:\n  - {name: Solo, tariff: 5, fixed_charge: 10}\n")},
		dataset.EODBFile:        {Data: []byte("regions:\n  - {name: Solo, score: 80, category: Achiever}\n")},
		dataset.LaborFile:       {Data: []byte("regions:\n  - {name: Solo, availability: High, skilled_cost: 500, unskilled_cost: 400}\n")},
		dataset.ZonesFile:       {Data: []byte("regions:\n  - {name: Solo, zones: [sez]}\n")},
		dataset.ProfilesFile:    {Data: []byte(fixtureProfiles)},
	}
}

func rankTwoRegions(t *testing.T, tariffA, tariffB float64) map[string]model.RegionScore {
	t.Helper()
	fsys := fstest.MapFS{
		dataset.GeographyFile: {Data: []byte("neighbors:\n  A: [B]\n")},
		dataset.ElectricityFile: {Data: []byte(fmt.Sprintf(
			"regions:\n  - {name: A, tariff: %g, fixed_charge: 0}\n  - {name: B, tariff: %g, fixed_charge: 0}\n",
			tariffA, tariffB))},
		dataset.EODBFile:     {Data: []byte("regions:\n  - {name: A, score: 80, category: x}\n  - {name: B, score: 90, category: x}\n")},
		dataset.LaborFile:    {Data: []byte("regions:\n  - {name: A, availability: Low, skilled_cost: 500, unskilled_cost: 400}\n  - {name: B, availability: High, skilled_cost: 600, unskilled_cost: 300}\n")},
		dataset.ZonesFile:    {Data: []byte("regions:\n  - {name: A, zones: [park]}\n")},
		dataset.ProfilesFile: {Data: []byte(fixtureProfiles)},
	}
	d, err := dataset.Load(fsys)
	require.NoError(t, err)
	rows, err := NewEngine(d, DefaultScorerConfig()).Rank("widgets", "even", "")
	require.NoError(t, err)
	return byRegion(rows)
}
