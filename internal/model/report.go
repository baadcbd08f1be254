package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RegionScore is one row of the aggregated ranking table.
type RegionScore struct {
	Region              string             `json:"region"`
	Tariff              float64            `json:"tariff"`
	FixedCharge         float64            `json:"fixed_charge"`
	ElectricityScore    float64            `json:"electricity_score"`
	EODBScore           float64            `json:"eodb_score"`
	LaborScore          float64            `json:"labor_score"`
	InfrastructureScore float64            `json:"infrastructure_score"`
	WeightedScore       float64            `json:"weighted_score"`
	NormalizedScore     float64            `json:"normalized_score"`
	Components          map[string]float64 `json:"components,omitempty"`
	ProximityBoosted    bool               `json:"proximity_boosted,omitempty"`
}

// Recommendation is a ranked region decorated with recommended zones.
// Percentages are on a 0-100 scale rounded to two decimals.
type Recommendation struct {
	Region              string   `json:"region" yaml:"region"`
	OverallScore        float64  `json:"overall_score" yaml:"overall_score"`
	ElectricityTariff   float64  `json:"electricity_tariff" yaml:"electricity_tariff"`
	FixedCharge         float64  `json:"fixed_charge" yaml:"fixed_charge"`
	EODBScore           float64  `json:"eodb_score" yaml:"eodb_score"`
	LaborScore          float64  `json:"labor_score" yaml:"labor_score"`
	InfrastructureScore float64  `json:"infrastructure_score" yaml:"infrastructure_score"`
	RecommendedZones    []string `json:"recommended_zones" yaml:"recommended_zones"`
}

// DisplayRow is the human-readable rendering of a Recommendation.
type DisplayRow struct {
	Region              string `json:"State/UT" yaml:"State/UT"`
	OverallScore        string `json:"Overall Score" yaml:"Overall Score"`
	ElectricityTariff   string `json:"Electricity Tariff" yaml:"Electricity Tariff"`
	FixedCharges        string `json:"Fixed Charges" yaml:"Fixed Charges"`
	EODBScore           string `json:"EODB Score" yaml:"EODB Score"`
	LaborScore          string `json:"Labor Score" yaml:"Labor Score"`
	InfrastructureScore string `json:"Infrastructure Score" yaml:"Infrastructure Score"`
	RecommendedZones    string `json:"Recommended Zones" yaml:"Recommended Zones"`
}

// Display formats the recommendation for people: "82.15%", "₹7.52/kWh",
// "₹225/month", zones joined by ", ".
func (r Recommendation) Display() DisplayRow {
	return DisplayRow{
		Region:              r.Region,
		OverallScore:        percent(r.OverallScore),
		ElectricityTariff:   "₹" + decimal.NewFromFloat(r.ElectricityTariff).StringFixed(2) + "/kWh",
		FixedCharges:        "₹" + decimal.NewFromFloat(r.FixedCharge).String() + "/month",
		EODBScore:           percent(r.EODBScore),
		LaborScore:          percent(r.LaborScore),
		InfrastructureScore: percent(r.InfrastructureScore),
		RecommendedZones:    strings.Join(r.RecommendedZones, ", "),
	}
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// AnalysisDetails echoes the resolved inputs of an analysis.
type AnalysisDetails struct {
	Industry             string `json:"industry" yaml:"industry"`
	ElectricityIntensity string `json:"electricity_intensity" yaml:"electricity_intensity"`
	Description          string `json:"description" yaml:"description"`
	InvestmentScale      string `json:"investment_scale" yaml:"investment_scale"`
	PreferredRegion      string `json:"preferred_region" yaml:"preferred_region"`
}

// Report is the result of one analysis.
type Report struct {
	Details         AnalysisDetails       `json:"analysis_details" yaml:"analysis_details"`
	Recommendations []Recommendation      `json:"results" yaml:"results"`
	Suppliers       map[string][]Supplier `json:"suppliers,omitempty" yaml:"suppliers,omitempty"`
}

// Analysis is a persisted Report together with the raw request.
type Analysis struct {
	ID              string    `json:"id"`
	Industry        string    `json:"industry"`
	Scale           string    `json:"scale"`
	PreferredRegion string    `json:"preferred_region,omitempty"`
	Report          Report    `json:"report"`
	CreatedAt       time.Time `json:"created_at"`
}
