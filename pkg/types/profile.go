package types

// ScoreMax is the upper bound of every flavor dimension. The lower bound is 0.
const ScoreMax = 5.0

// FlavorProfile holds the four flavor intensities, each within [0, ScoreMax].
type FlavorProfile struct {
	Acidity    float64 `json:"acidity"`
	Sweetness  float64 `json:"sweetness"`
	Bitterness float64 `json:"bitterness"`
	Body       float64 `json:"body"`
}

// Indicators is a FlavorProfile rescaled to [0, 1] for progress-bar display.
type Indicators struct {
	Acidity    float64 `json:"acidity"`
	Sweetness  float64 `json:"sweetness"`
	Bitterness float64 `json:"bitterness"`
	Body       float64 `json:"body"`
}

// Indicators divides every dimension by ScoreMax.
func (f FlavorProfile) Indicators() Indicators {
	return Indicators{
		Acidity:    f.Acidity / ScoreMax,
		Sweetness:  f.Sweetness / ScoreMax,
		Bitterness: f.Bitterness / ScoreMax,
		Body:       f.Body / ScoreMax,
	}
}

// Add returns the dimension-wise sum of f and d.
func (f FlavorProfile) Add(d FlavorProfile) FlavorProfile {
	return FlavorProfile{
		Acidity:    f.Acidity + d.Acidity,
		Sweetness:  f.Sweetness + d.Sweetness,
		Bitterness: f.Bitterness + d.Bitterness,
		Body:       f.Body + d.Body,
	}
}
