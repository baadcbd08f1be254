package model

// Industry describes how an industry weighs electricity and which zone
// types it prefers, in preference order.
type Industry struct {
	Name              string     `json:"name" yaml:"name"`
	Intensity         string     `json:"intensity" yaml:"intensity"`
	ElectricityWeight float64    `json:"electricity_weight" yaml:"electricity_weight"`
	Description       string     `json:"description" yaml:"description"`
	PreferredZones    []ZoneType `json:"preferred_zones" yaml:"-"`
}

// ScaleWeights distributes weight over the four scoring factors.
type ScaleWeights struct {
	Electricity    float64 `json:"electricity" yaml:"electricity"`
	Labor          float64 `json:"labor" yaml:"labor"`
	EaseOfBusiness float64 `json:"ease_of_business" yaml:"ease_of_business"`
	Infrastructure float64 `json:"infrastructure" yaml:"infrastructure"`
}

// Sum returns the total of the four factor weights.
func (w ScaleWeights) Sum() float64 {
	return w.Electricity + w.Labor + w.EaseOfBusiness + w.Infrastructure
}

// Scale is an investment scale (small, medium, large).
type Scale struct {
	Name    string       `json:"name" yaml:"name"`
	Range   string       `json:"range" yaml:"range"`
	Weights ScaleWeights `json:"weights" yaml:"weights"`
}
