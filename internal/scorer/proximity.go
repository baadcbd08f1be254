package scorer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/plant-locator/internal/model"
)

// NeighborFunc returns the neighbors recorded for an exact region name.
type NeighborFunc func(region string) []string

// TitleCase capitalizes the first letter of every word and lowercases the
// rest, the form adjacency keys are looked up by.
func TitleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

// ApplyProximity multiplies the normalized score of the preferred region
// (matched case-insensitively) and of each neighbor of its title-cased name
// by (1 + weight), then caps every score at MaxScore. A region is boosted at
// most once. An unknown preferred region leaves rows unchanged apart from the
// cap.
func ApplyProximity(rows []model.RegionScore, preferred string, neighbors NeighborFunc, weight float64) {
	preferred = strings.TrimSpace(preferred)
	factor := 1 + weight

	boost := func(r *model.RegionScore) {
		if r.ProximityBoosted {
			return
		}
		r.NormalizedScore *= factor
		r.ProximityBoosted = true
	}

	for i := range rows {
		if strings.EqualFold(rows[i].Region, preferred) {
			boost(&rows[i])
		}
	}

	if neighbors != nil {
		for _, n := range neighbors(TitleCase(preferred)) {
			for i := range rows {
				if rows[i].Region == n {
					boost(&rows[i])
				}
			}
		}
	}

	for i := range rows {
		if rows[i].NormalizedScore > MaxScore {
			rows[i].NormalizedScore = MaxScore
		}
	}
}
