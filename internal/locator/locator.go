// Package locator is the entry point for site selection: it validates a
// request, ranks regions, keeps the top N and attaches zone recommendations.
package locator

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/plant-locator/internal/config"
	"github.com/sells-group/plant-locator/internal/dataset"
	"github.com/sells-group/plant-locator/internal/metrics"
	"github.com/sells-group/plant-locator/internal/model"
	"github.com/sells-group/plant-locator/internal/scorer"
	"github.com/sells-group/plant-locator/internal/zone"
)

// NoPreference is reported as the preferred region when none was given.
const NoPreference = "None"

// Analyzer answers location analyses over a fixed dataset. It is safe for
// concurrent use.
type Analyzer struct {
	data    *dataset.Dataset
	engine  *scorer.Engine
	zones   *zone.Recommender
	topN    int
	metrics *metrics.Registry
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithMetrics records analyses in the given registry.
func WithMetrics(r *metrics.Registry) Option {
	return func(a *Analyzer) { a.metrics = r }
}

// New creates an Analyzer. A non-positive cfg.TopN falls back to the default.
func New(data *dataset.Dataset, cfg config.ScorerConfig, opts ...Option) *Analyzer {
	if cfg.TopN <= 0 {
		cfg.TopN = scorer.DefaultScorerConfig().TopN
	}
	a := &Analyzer{
		data:   data,
		engine: scorer.NewEngine(data, cfg),
		zones:  zone.NewRecommender(data),
		topN:   cfg.TopN,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze ranks every region for industry and scale, boosts the preferred
// region and its neighbors when preferred is non-empty, and returns the top
// regions with zone recommendations. Unknown industries or scales return a
// *scorer.ValidationError.
func (a *Analyzer) Analyze(industry, scale, preferred string) (*model.Report, error) {
	start := time.Now()

	ind, err := a.engine.ResolveIndustry(industry)
	if err != nil {
		a.recordError(err)
		return nil, err
	}
	sc, err := a.engine.ResolveScale(scale)
	if err != nil {
		a.recordError(err)
		return nil, err
	}

	rows, err := a.engine.Rank(ind.Name, sc.Name, a.resolveRegion(preferred))
	if err != nil {
		a.recordError(err)
		return nil, err
	}
	if len(rows) > a.topN {
		rows = rows[:a.topN]
	}

	recs := make([]model.Recommendation, len(rows))
	for i, r := range rows {
		recs[i] = model.Recommendation{
			Region:              r.Region,
			OverallScore:        round2(r.NormalizedScore),
			ElectricityTariff:   r.Tariff,
			FixedCharge:         r.FixedCharge,
			EODBScore:           round2(r.EODBScore * 100),
			LaborScore:          round2(r.LaborScore * 100),
			InfrastructureScore: round2(r.InfrastructureScore * 100),
			RecommendedZones:    a.zones.Recommend(r.Region, ind.Name),
		}
	}

	report := &model.Report{
		Details:         a.details(ind, sc, preferred),
		Recommendations: recs,
	}

	elapsed := time.Since(start)
	if a.metrics != nil {
		a.metrics.RecordAnalysis(ind.Name, sc.Name, elapsed)
	}
	zap.L().Debug("locator: analysis complete",
		zap.String("industry", ind.Name),
		zap.String("scale", sc.Name),
		zap.String("preferred", preferred),
		zap.Int("results", len(recs)),
		zap.Duration("elapsed", elapsed),
	)
	return report, nil
}

// RecommendZones validates industry and returns zone recommendations for a
// region, matched like Analyze's preferred region. Unknown regions yield the "Data not available" sentinel.
func (a *Analyzer) RecommendZones(region, industry string) ([]string, error) {
	ind, err := a.engine.ResolveIndustry(industry)
	if err != nil {
		return nil, err
	}
	return a.zones.Recommend(a.resolveRegion(region), ind.Name), nil
}

// resolveRegion maps region input through the alias table, ignoring case.
// Unmatched input is returned trimmed.
func (a *Analyzer) resolveRegion(region string) string {
	if canonical, ok := a.data.ResolveRegion(region); ok {
		return canonical
	}
	return strings.TrimSpace(region)
}

// Industries returns the industry catalogue.
func (a *Analyzer) Industries() []model.Industry {
	return a.data.Industries()
}

// Scales returns the investment scale catalogue.
func (a *Analyzer) Scales() []model.Scale {
	return a.data.Scales()
}

// Regions returns every ranked region's canonical name.
func (a *Analyzer) Regions() []string {
	return a.data.Regions()
}

// TopN returns how many regions Analyze keeps.
func (a *Analyzer) TopN() int {
	return a.topN
}

func (a *Analyzer) details(ind model.Industry, sc model.Scale, preferred string) model.AnalysisDetails {
	pref := strings.TrimSpace(preferred)
	if pref == "" {
		pref = NoPreference
	}
	return model.AnalysisDetails{
		Industry:             Capitalize(ind.Name),
		ElectricityIntensity: Capitalize(ind.Intensity),
		Description:          ind.Description,
		InvestmentScale:      Capitalize(sc.Name) + " (" + sc.Range + ")",
		PreferredRegion:      pref,
	}
}

func (a *Analyzer) recordError(err error) {
	if a.metrics == nil {
		return
	}
	kind := "internal"
	if scorer.IsValidation(err) {
		kind = "validation"
	}
	a.metrics.RecordAnalysisError(kind)
}

// Capitalize upper-cases the first letter and lower-cases the rest:
// "food processing" becomes "Food processing".
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.Und).String(s[:size]) + cases.Lower(language.Und).String(s[size:])
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
