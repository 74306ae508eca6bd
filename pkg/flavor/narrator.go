package flavor

import "github.com/brewstack/brewstack/pkg/types"

// Tier boundaries shared by all four dimensions.
const (
	tierHigh   = 4.0
	tierMedium = 2.0
)

// Window in which every dimension must sit for the "balanced" summary.
const (
	balancedLow  = 1.5
	balancedHigh = 3.5
)

// Describe returns the English flavor notes for profile.
func Describe(profile types.FlavorProfile, method types.ProcessMethod, roast types.RoastLevel) []string {
	return DescribeIn(LocaleEN, profile, method, roast)
}

// DescribeIn returns the flavor notes for profile in the given locale.
//
// The order is fixed: the base sentence for (method, roast), then one clause
// each for acidity, sweetness, bitterness and body, then at most one overall
// balance sentence. The result always has at least five entries.
func DescribeIn(loc Locale, profile types.FlavorProfile, method types.ProcessMethod, roast types.RoastLevel) []string {
	cat := catalogFor(loc)
	keys := noteKeys(profile, method, roast)

	notes := make([]string, 0, len(keys)+1)
	notes = append(notes, cat.baseNote(method, roast))
	for _, k := range keys {
		notes = append(notes, cat.note(k))
	}
	return notes
}

// BaseNote returns the canned opening sentence for a (method, roast) pair.
func BaseNote(loc Locale, method types.ProcessMethod, roast types.RoastLevel) string {
	return catalogFor(loc).baseNote(method, roast)
}

// noteKeys selects the catalog key of every clause after the base sentence.
func noteKeys(f types.FlavorProfile, method types.ProcessMethod, roast types.RoastLevel) []string {
	keys := []string{
		acidityKey(f.Acidity, method, roast),
		sweetnessKey(f.Sweetness, method, roast),
		bitternessKey(f.Bitterness, roast),
		bodyKey(f.Body, method, roast),
	}
	if k := overallKey(f); k != "" {
		keys = append(keys, k)
	}
	return keys
}

func acidityKey(v float64, method types.ProcessMethod, roast types.RoastLevel) string {
	switch {
	case v >= tierHigh:
		switch {
		case roast == types.RoastLight || method == types.ProcessWashed:
			return noteAcidityBright
		case roast == types.RoastMedium || method == types.ProcessHoney:
			return noteAcidityRounded
		default:
			return noteAcidityTropical
		}
	case v >= tierMedium:
		return noteAcidityMedium
	default:
		return noteAcidityLow
	}
}

func sweetnessKey(v float64, method types.ProcessMethod, roast types.RoastLevel) string {
	switch {
	case v >= tierHigh:
		switch {
		case roast == types.RoastLight || method == types.ProcessWashed:
			return noteSweetnessClean
		case method == types.ProcessNatural || method == types.ProcessHoney:
			return noteSweetnessJammy
		default:
			return noteSweetnessCaramel
		}
	case v >= tierMedium:
		return noteSweetnessMedium
	default:
		return noteSweetnessLow
	}
}

func bitternessKey(v float64, roast types.RoastLevel) string {
	switch {
	case v >= tierHigh:
		if roast == types.RoastDark {
			return noteBitternessCocoa
		}
		return noteBitternessHarsh
	case v >= tierMedium:
		return noteBitternessMedium
	default:
		return noteBitternessLow
	}
}

func bodyKey(v float64, method types.ProcessMethod, roast types.RoastLevel) string {
	switch {
	case v >= tierHigh:
		switch {
		case method == types.ProcessWashed:
			return noteBodySilky
		case method == types.ProcessNatural || roast == types.RoastDark:
			return noteBodySyrupy
		default:
			return noteBodyRounded
		}
	case v >= tierMedium:
		return noteBodyMedium
	default:
		return noteBodyLow
	}
}

// overallKey picks the closing sentence. The conditions are checked in
// priority order and do not cover every profile; "" means no sentence.
func overallKey(f types.FlavorProfile) string {
	switch {
	case inBalancedWindow(f.Acidity) && inBalancedWindow(f.Sweetness) &&
		inBalancedWindow(f.Bitterness) && inBalancedWindow(f.Body):
		return noteOverallBalanced
	case f.Acidity > f.Bitterness && f.Sweetness > f.Acidity:
		return noteOverallAcidSweet
	case f.Bitterness > f.Acidity && f.Body > f.Sweetness:
		return noteOverallBitterBodied
	}
	return ""
}

func inBalancedWindow(v float64) bool {
	return v >= balancedLow && v <= balancedHigh
}
