// Package flavor is the brewing simulator core.
//
// calculator.go provides the pure Compute(BrewParameters) function: a fixed
// baseline of 2.5 per dimension, eight ordered rule layers (process, roast,
// grind × time, ratio, temperature, bloom time, bloom ratio, pours) each
// adding at most one delta, then a per-dimension clamp to [0, 5].
//
// narrator.go maps a FlavorProfile plus (process, roast) to ordered notes:
// base sentence, four tiered dimension clauses (high ≥4, medium ≥2, low),
// and an optional overall balance sentence.
//
// advisor.go maps parameters to adjustment tips, one per out-of-band
// parameter, falling back to a single "balanced" tip.
//
// catalog.go and guide.go hold the English and zh-TW text. engine.go wraps
// the three pure operations with validation and a bounded result cache.
package flavor
