package api

import (
	"strings"

	"github.com/brewstack/brewstack/pkg/flavor"
	"github.com/brewstack/brewstack/pkg/types"
)

// Contribution explains one fired rule: which layer it belongs to and what it
// added to each dimension before clamping. The UI shows these next to the
// score bars so a user can see why a dimension moved.
type Contribution struct {
	// Rule is the calculator rule key, e.g. "temperature.hot".
	Rule string `json:"rule"`
	// Layer is the rule's parameter group: process, roast, grind, ratio,
	// temperature, bloom, bloom_ratio or pours.
	Layer string              `json:"layer"`
	Delta types.FlavorProfile `json:"delta"`
	// Clamped lists the dimensions whose final score was cut off at 0 or 5.
	Clamped []string `json:"clamped,omitempty"`
}

// breakdown derives the per-rule contributions for sim, in layer order.
// A clamped dimension is reported on the contribution that pushed it out of
// [0, 5] for the final time: the running sum left the range there and never
// came back.
func breakdown(sim flavor.Simulation) []Contribution {
	out := make([]Contribution, 0, len(sim.Fired))
	running := types.FlavorProfile{
		Acidity: flavor.Baseline, Sweetness: flavor.Baseline,
		Bitterness: flavor.Baseline, Body: flavor.Baseline,
	}
	leftAt := map[string]int{}

	for _, key := range sim.Fired {
		delta, ok := flavor.RuleDelta(key)
		if !ok {
			continue
		}
		running = running.Add(delta)
		for dim, v := range dimensions(running) {
			_, wasOut := leftAt[dim]
			switch {
			case v >= 0 && v <= types.ScoreMax:
				delete(leftAt, dim)
			case !wasOut:
				leftAt[dim] = len(out)
			}
		}
		layer, _, _ := strings.Cut(key, ".")
		out = append(out, Contribution{Rule: key, Layer: layer, Delta: delta})
	}

	final := dimensions(running)
	for _, dim := range dimensionOrder {
		v := final[dim]
		if v >= 0 && v <= types.ScoreMax {
			continue
		}
		if i, ok := leftAt[dim]; ok {
			out[i].Clamped = append(out[i].Clamped, dim)
		}
	}
	return out
}

var dimensionOrder = []string{"acidity", "sweetness", "bitterness", "body"}

func dimensions(f types.FlavorProfile) map[string]float64 {
	return map[string]float64{
		"acidity":    f.Acidity,
		"sweetness":  f.Sweetness,
		"bitterness": f.Bitterness,
		"body":       f.Body,
	}
}
