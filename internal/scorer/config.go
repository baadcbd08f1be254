// Package scorer ranks regions for a manufacturing industry and investment
// scale by combining electricity, ease-of-business, labor and infrastructure
// factor scores.
package scorer

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/plant-locator/internal/config"
)

// DefaultScorerConfig returns a config.ScorerConfig with sensible defaults.
func DefaultScorerConfig() config.ScorerConfig {
	return config.ScorerConfig{
		ProximityWeight: 0.15,
		TopN:            5,
	}
}

// ValidateConfig checks that a ScorerConfig is internally consistent.
func ValidateConfig(c config.ScorerConfig) error {
	var errs []string

	if c.ProximityWeight < 0 {
		errs = append(errs, fmt.Sprintf("proximity_weight must be >= 0, got %g", c.ProximityWeight))
	}
	if c.TopN < 1 {
		errs = append(errs, fmt.Sprintf("top_n must be >= 1, got %d", c.TopN))
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
