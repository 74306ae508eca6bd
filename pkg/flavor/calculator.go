package flavor

import "github.com/brewstack/brewstack/pkg/types"

// Baseline is the starting intensity of every flavor dimension before any
// rule fires.
const Baseline = 2.5

// Output is the result of the flavor calculation.
type Output struct {
	// Profile is the clamped profile, each dimension within [0, 5].
	Profile types.FlavorProfile

	// Raw is the pre-clamp sum: Baseline plus the delta of every fired rule.
	Raw types.FlavorProfile

	// Fired lists the key of each rule that contributed, in layer order.
	// Useful for explaining a score in the UI.
	Fired []string
}

// rule adds delta when its condition holds on the raw parameters.
type rule struct {
	key   string
	when  func(p types.BrewParameters) bool
	delta types.FlavorProfile
}

// layer is an ordered group of mutually exclusive rules; the first match wins.
type layer struct {
	name  string
	rules []rule
}

// d builds a delta in acidity, sweetness, bitterness, body order.
func d(acid, sweet, bitter, body float64) types.FlavorProfile {
	return types.FlavorProfile{Acidity: acid, Sweetness: sweet, Bitterness: bitter, Body: body}
}

// layers is evaluated top to bottom. No layer sees another layer's result.
var layers = []layer{
	{
		name: "process",
		rules: []rule{
			{"process.natural", processIs(types.ProcessNatural), d(-0.5, +1.5, -0.5, +1)},
			{"process.washed", processIs(types.ProcessWashed), d(+1.5, -0.5, +0.5, -0.5)},
			{"process.honey", processIs(types.ProcessHoney), d(+0.5, +1, 0, +0.5)},
		},
	},
	{
		name: "roast",
		rules: []rule{
			{"roast.light", roastIs(types.RoastLight), d(+1.5, +0.5, -1.5, -1)},
			{"roast.dark", roastIs(types.RoastDark), d(-1.5, +0.5, +2, +1.5)},
		},
	},
	{
		name: "grind_time",
		rules: []rule{
			{"grind.fine.short", func(p types.BrewParameters) bool {
				return p.GrindSize == types.GrindFine && p.BrewTime < 100
			}, d(+1.5, -1, -1, -1)},
			{"grind.fine.ideal", func(p types.BrewParameters) bool {
				return p.GrindSize == types.GrindFine && p.BrewTime <= 180
			}, d(0, +0.5, 0, +0.5)},
			{"grind.fine.long", func(p types.BrewParameters) bool {
				return p.GrindSize == types.GrindFine
			}, d(-1.5, -1, +2, +1)},
			{"grind.coarse.short", func(p types.BrewParameters) bool {
				return p.GrindSize == types.GrindCoarse && p.BrewTime < 120
			}, d(+1, -1.5, 0, -1.5)},
			{"grind.coarse.long", func(p types.BrewParameters) bool {
				return p.GrindSize == types.GrindCoarse && p.BrewTime > 180
			}, d(+0.5, -1, +1, -2)},
		},
	},
	{
		name: "ratio",
		rules: []rule{
			{"ratio.strong", func(p types.BrewParameters) bool { return p.Ratio < 14 }, d(0, +0.5, +0.5, +0.5)},
			{"ratio.weak", func(p types.BrewParameters) bool { return p.Ratio > 17 }, d(+0.5, -0.5, 0, -0.5)},
		},
	},
	{
		name: "temperature",
		rules: []rule{
			{"temperature.hot", func(p types.BrewParameters) bool { return p.Temperature > 94 }, d(-0.5, -0.5, +1, 0)},
			{"temperature.cool", func(p types.BrewParameters) bool { return p.Temperature < 88 }, d(+1.5, -1, -0.5, -0.5)},
		},
	},
	{
		name: "bloom_time",
		rules: []rule{
			{"bloom.short", func(p types.BrewParameters) bool {
				return p.BloomTime > 0 && p.BloomTime < 20
			}, d(+1, -0.5, 0, -1)},
			{"bloom.long", func(p types.BrewParameters) bool { return p.BloomTime > 40 }, d(-0.5, -1, +1, 0)},
			{"bloom.skipped", func(p types.BrewParameters) bool { return p.BloomTime == 0 }, d(+0.5, -0.5, 0, -0.5)},
		},
	},
	{
		name: "bloom_ratio",
		rules: []rule{
			{"bloom_ratio.low", func(p types.BrewParameters) bool { return p.BloomRatio < 1.8 }, d(+0.8, -0.8, 0, -0.8)},
			{"bloom_ratio.high", func(p types.BrewParameters) bool { return p.BloomRatio > 3.0 }, d(0, 0, +0.5, -0.5)},
		},
	},
	{
		name: "pours",
		rules: []rule{
			{"pours.none", func(p types.BrewParameters) bool { return p.PourCount == 0 }, d(+0.5, -1, +0.5, -1)},
			{"pours.many", func(p types.BrewParameters) bool { return p.PourCount >= 3 }, d(+0.5, +0.5, -0.5, 0)},
		},
	},
}

// Compute derives the flavor profile for p.
//
// Every layer contributes at most one delta, chosen from the raw inputs, and
// the contributions are summed onto Baseline. The only nonlinearity is the
// final per-dimension clamp to [0, 5]. Compute never fails; out-of-range
// inputs are rejected by BrewParameters.Validate before they get here.
func Compute(p types.BrewParameters) Output {
	raw := d(Baseline, Baseline, Baseline, Baseline)
	fired := make([]string, 0, len(layers))

	for _, l := range layers {
		for _, r := range l.rules {
			if r.when(p) {
				raw = raw.Add(r.delta)
				fired = append(fired, r.key)
				break
			}
		}
	}

	return Output{
		Profile: types.FlavorProfile{
			Acidity:    clampScore(raw.Acidity),
			Sweetness:  clampScore(raw.Sweetness),
			Bitterness: clampScore(raw.Bitterness),
			Body:       clampScore(raw.Body),
		},
		Raw:   raw,
		Fired: fired,
	}
}

// RuleDelta returns the delta contributed by the rule with the given key.
func RuleDelta(key string) (types.FlavorProfile, bool) {
	for _, l := range layers {
		for _, r := range l.rules {
			if r.key == key {
				return r.delta, true
			}
		}
	}
	return types.FlavorProfile{}, false
}

func processIs(m types.ProcessMethod) func(types.BrewParameters) bool {
	return func(p types.BrewParameters) bool { return p.ProcessMethod == m }
}

func roastIs(r types.RoastLevel) func(types.BrewParameters) bool {
	return func(p types.BrewParameters) bool { return p.RoastLevel == r }
}

// clampScore restricts v to the range [0, ScoreMax].
func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > types.ScoreMax {
		return types.ScoreMax
	}
	return v
}
