package flavor

import "github.com/brewstack/brewstack/pkg/types"

// Tip categories, in the order tips are emitted.
const (
	CategoryGrindTime   = "grind_time"
	CategoryRatio       = "ratio"
	CategoryTemperature = "temperature"
	CategoryBloomTime   = "bloom_time"
	CategoryBloomRatio  = "bloom_ratio"
	CategoryPours       = "pours"
	CategoryGeneral     = "general"
)

// Tip is one adjustment suggestion.
type Tip struct {
	// Key is a stable machine-readable identifier, e.g. "temperature.hot".
	Key string `json:"key"`
	// Category groups tips by the parameter they concern.
	Category string `json:"category"`
	// Text is the localized suggestion, markdown emphasis included.
	Text string `json:"text"`
}

// Suggest returns the English adjustment tips for p.
func Suggest(p types.BrewParameters) []string {
	return SuggestIn(LocaleEN, p)
}

// SuggestIn returns the adjustment tips for p as plain strings.
func SuggestIn(loc Locale, p types.BrewParameters) []string {
	tips := Advise(loc, p)
	out := make([]string, len(tips))
	for i, t := range tips {
		out[i] = t.Text
	}
	return out
}

// Advise evaluates every parameter band independently and returns one Tip per
// band that sits outside its ideal range. When nothing fires, the result is
// exactly one "balanced" tip, so the list is never empty.
func Advise(loc Locale, p types.BrewParameters) []Tip {
	cat := catalogFor(loc)
	var tips []Tip
	add := func(category, key string) {
		tips = append(tips, Tip{Key: key, Category: category, Text: cat.tip(key)})
	}

	// ── Grind size × brew time ──────────────────────────────────────────────
	switch p.GrindSize {
	case types.GrindFine:
		switch {
		case p.BrewTime < 100:
			add(CategoryGrindTime, tipFineShort)
		case p.BrewTime > 180:
			add(CategoryGrindTime, tipFineLong)
		}
	case types.GrindCoarse:
		switch {
		case p.BrewTime < 120:
			add(CategoryGrindTime, tipCoarseShort)
		case p.BrewTime > 180:
			add(CategoryGrindTime, tipCoarseLong)
		}
	default:
		switch {
		case p.BrewTime < 120:
			add(CategoryGrindTime, tipMediumShort)
		case p.BrewTime > 180:
			add(CategoryGrindTime, tipMediumLong)
		}
	}

	// ── Ratio ───────────────────────────────────────────────────────────────
	switch {
	case p.Ratio < 14:
		add(CategoryRatio, tipRatioStrong)
	case p.Ratio > 17:
		add(CategoryRatio, tipRatioWeak)
	}

	// ── Temperature ─────────────────────────────────────────────────────────
	switch {
	case p.Temperature > 94:
		add(CategoryTemperature, tipTemperatureHot)
	case p.Temperature < 88:
		add(CategoryTemperature, tipTemperatureCool)
	}

	// ── Bloom ───────────────────────────────────────────────────────────────
	switch {
	case p.BloomTime > 0 && p.BloomTime < 20:
		add(CategoryBloomTime, tipBloomShort)
	case p.BloomTime > 40:
		add(CategoryBloomTime, tipBloomLong)
	case p.BloomTime == 0:
		add(CategoryBloomTime, tipBloomSkipped)
	}

	switch {
	case p.BloomRatio < 1.8:
		add(CategoryBloomRatio, tipBloomRatioLow)
	case p.BloomRatio > 3.0:
		add(CategoryBloomRatio, tipBloomRatioHigh)
	}

	// ── Pulse pours ─────────────────────────────────────────────────────────
	switch {
	case p.PourCount == 0:
		add(CategoryPours, tipPoursNone)
	case p.PourCount >= 3:
		add(CategoryPours, tipPoursMany)
	}

	// ── All clear ───────────────────────────────────────────────────────────
	if len(tips) == 0 {
		add(CategoryGeneral, tipBalanced)
	}
	return tips
}
