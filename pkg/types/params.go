package types

import (
	"fmt"
	"strings"
)

// GrindSize is the particle size of the ground coffee.
type GrindSize string

// ProcessMethod is how the green coffee was processed after harvest.
type ProcessMethod string

// RoastLevel is the degree of roast development.
type RoastLevel string

const (
	GrindCoarse GrindSize = "coarse"
	GrindMedium GrindSize = "medium"
	GrindFine   GrindSize = "fine"
)

const (
	ProcessWashed  ProcessMethod = "washed"
	ProcessNatural ProcessMethod = "natural"
	ProcessHoney   ProcessMethod = "honey"
)

const (
	RoastLight  RoastLevel = "light"
	RoastMedium RoastLevel = "medium"
	RoastDark   RoastLevel = "dark"
)

// Option lists in display order.
var (
	GrindSizes     = []GrindSize{GrindCoarse, GrindMedium, GrindFine}
	ProcessMethods = []ProcessMethod{ProcessWashed, ProcessNatural, ProcessHoney}
	RoastLevels    = []RoastLevel{RoastLight, RoastMedium, RoastDark}
)

// Parameter ranges accepted at the boundary. Both ends are inclusive.
const (
	MinRatio       = 10.0
	MaxRatio       = 20.0
	MinBrewTime    = 60
	MaxBrewTime    = 240
	MinTemperature = 80
	MaxTemperature = 100
	MinBloomTime   = 0
	MaxBloomTime   = 60
	MinBloomRatio  = 1.5
	MaxBloomRatio  = 3.5
	MinPourCount   = 0
	MaxPourCount   = 5
)

// Range describes one numeric control for front ends that render sliders.
type Range struct {
	Field string  `json:"field"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Step  float64 `json:"step"`
	Unit  string  `json:"unit,omitempty"`
}

// Ranges lists the numeric controls in display order.
func Ranges() []Range {
	return []Range{
		{Field: "ratio", Min: MinRatio, Max: MaxRatio, Step: 0.5, Unit: "1:x"},
		{Field: "brew_time", Min: MinBrewTime, Max: MaxBrewTime, Step: 10, Unit: "s"},
		{Field: "temperature", Min: MinTemperature, Max: MaxTemperature, Step: 1, Unit: "°C"},
		{Field: "bloom_time", Min: MinBloomTime, Max: MaxBloomTime, Step: 5, Unit: "s"},
		{Field: "bloom_ratio", Min: MinBloomRatio, Max: MaxBloomRatio, Step: 0.5, Unit: "×"},
		{Field: "pour_count", Min: MinPourCount, Max: MaxPourCount, Step: 1},
	}
}

// BrewParameters is one snapshot of every user-adjustable brewing control.
//
// BloomTime == 0 means the bloom was skipped entirely; it is a state of its
// own and not merely the low end of the range.
type BrewParameters struct {
	Ratio         float64       `json:"ratio" yaml:"ratio"`
	BrewTime      int           `json:"brew_time" yaml:"brew_time"`
	Temperature   int           `json:"temperature" yaml:"temperature"`
	GrindSize     GrindSize     `json:"grind_size" yaml:"grind_size"`
	ProcessMethod ProcessMethod `json:"process_method" yaml:"process_method"`
	RoastLevel    RoastLevel    `json:"roast_level" yaml:"roast_level"`
	BloomTime     int           `json:"bloom_time" yaml:"bloom_time"`
	BloomRatio    float64       `json:"bloom_ratio" yaml:"bloom_ratio"`
	PourCount     int           `json:"pour_count" yaml:"pour_count"`
}

// Defaults returns the parameter set a fresh session starts from.
func Defaults() BrewParameters {
	return BrewParameters{
		Ratio:         15.0,
		BrewTime:      150,
		Temperature:   90,
		GrindSize:     GrindMedium,
		ProcessMethod: ProcessWashed,
		RoastLevel:    RoastMedium,
		BloomTime:     30,
		BloomRatio:    2.0,
		PourCount:     2,
	}
}

// Validate reports the first field that falls outside its allowed range or
// enum set. The returned error is a *ParamError wrapping ErrInvalidParameter.
func (p BrewParameters) Validate() error {
	switch {
	case p.Ratio < MinRatio || p.Ratio > MaxRatio:
		return rangeError("ratio", p.Ratio, MinRatio, MaxRatio)
	case p.BrewTime < MinBrewTime || p.BrewTime > MaxBrewTime:
		return rangeError("brew_time", p.BrewTime, MinBrewTime, MaxBrewTime)
	case p.Temperature < MinTemperature || p.Temperature > MaxTemperature:
		return rangeError("temperature", p.Temperature, MinTemperature, MaxTemperature)
	case !p.GrindSize.Valid():
		return &ParamError{Field: "grind_size", Value: string(p.GrindSize), Reason: "want coarse|medium|fine"}
	case !p.ProcessMethod.Valid():
		return &ParamError{Field: "process_method", Value: string(p.ProcessMethod), Reason: "want washed|natural|honey"}
	case !p.RoastLevel.Valid():
		return &ParamError{Field: "roast_level", Value: string(p.RoastLevel), Reason: "want light|medium|dark"}
	case p.BloomTime < MinBloomTime || p.BloomTime > MaxBloomTime:
		return rangeError("bloom_time", p.BloomTime, MinBloomTime, MaxBloomTime)
	case p.BloomRatio < MinBloomRatio || p.BloomRatio > MaxBloomRatio:
		return rangeError("bloom_ratio", p.BloomRatio, MinBloomRatio, MaxBloomRatio)
	case p.PourCount < MinPourCount || p.PourCount > MaxPourCount:
		return rangeError("pour_count", p.PourCount, MinPourCount, MaxPourCount)
	}
	return nil
}

func rangeError[T int | float64](field string, v, lo, hi T) error {
	return &ParamError{
		Field:  field,
		Value:  fmt.Sprint(v),
		Reason: fmt.Sprintf("must be within [%v, %v]", lo, hi),
	}
}

// ParamPatch is a partial update. Nil fields are left untouched.
type ParamPatch struct {
	Ratio         *float64       `json:"ratio,omitempty"`
	BrewTime      *int           `json:"brew_time,omitempty"`
	Temperature   *int           `json:"temperature,omitempty"`
	GrindSize     *GrindSize     `json:"grind_size,omitempty"`
	ProcessMethod *ProcessMethod `json:"process_method,omitempty"`
	RoastLevel    *RoastLevel    `json:"roast_level,omitempty"`
	BloomTime     *int           `json:"bloom_time,omitempty"`
	BloomRatio    *float64       `json:"bloom_ratio,omitempty"`
	PourCount     *int           `json:"pour_count,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (pp ParamPatch) Empty() bool {
	return pp == ParamPatch{}
}

// Apply returns p with every non-nil patch field overlaid. p is not modified.
func (pp ParamPatch) Apply(p BrewParameters) BrewParameters {
	if pp.Ratio != nil {
		p.Ratio = *pp.Ratio
	}
	if pp.BrewTime != nil {
		p.BrewTime = *pp.BrewTime
	}
	if pp.Temperature != nil {
		p.Temperature = *pp.Temperature
	}
	if pp.GrindSize != nil {
		p.GrindSize = *pp.GrindSize
	}
	if pp.ProcessMethod != nil {
		p.ProcessMethod = *pp.ProcessMethod
	}
	if pp.RoastLevel != nil {
		p.RoastLevel = *pp.RoastLevel
	}
	if pp.BloomTime != nil {
		p.BloomTime = *pp.BloomTime
	}
	if pp.BloomRatio != nil {
		p.BloomRatio = *pp.BloomRatio
	}
	if pp.PourCount != nil {
		p.PourCount = *pp.PourCount
	}
	return p
}

// PatchFrom returns a patch that sets every field to p's value.
func PatchFrom(p BrewParameters) ParamPatch {
	return ParamPatch{
		Ratio:         &p.Ratio,
		BrewTime:      &p.BrewTime,
		Temperature:   &p.Temperature,
		GrindSize:     &p.GrindSize,
		ProcessMethod: &p.ProcessMethod,
		RoastLevel:    &p.RoastLevel,
		BloomTime:     &p.BloomTime,
		BloomRatio:    &p.BloomRatio,
		PourCount:     &p.PourCount,
	}
}

// --- enums ------------------------------------------------------------------

// Valid reports whether g is one of the known grind sizes.
func (g GrindSize) Valid() bool {
	switch g {
	case GrindCoarse, GrindMedium, GrindFine:
		return true
	}
	return false
}

// Valid reports whether m is one of the known process methods.
func (m ProcessMethod) Valid() bool {
	switch m {
	case ProcessWashed, ProcessNatural, ProcessHoney:
		return true
	}
	return false
}

// Valid reports whether r is one of the known roast levels.
func (r RoastLevel) Valid() bool {
	switch r {
	case RoastLight, RoastMedium, RoastDark:
		return true
	}
	return false
}

// ParseGrindSize parses s case-insensitively.
func ParseGrindSize(s string) (GrindSize, error) {
	g := GrindSize(normalize(s))
	if !g.Valid() {
		return "", &ParamError{Field: "grind_size", Value: s, Reason: "want coarse|medium|fine"}
	}
	return g, nil
}

// ParseProcessMethod parses s case-insensitively.
func ParseProcessMethod(s string) (ProcessMethod, error) {
	m := ProcessMethod(normalize(s))
	if !m.Valid() {
		return "", &ParamError{Field: "process_method", Value: s, Reason: "want washed|natural|honey"}
	}
	return m, nil
}

// ParseRoastLevel parses s case-insensitively.
func ParseRoastLevel(s string) (RoastLevel, error) {
	r := RoastLevel(normalize(s))
	if !r.Valid() {
		return "", &ParamError{Field: "roast_level", Value: s, Reason: "want light|medium|dark"}
	}
	return r, nil
}

// UnmarshalText lets JSON and YAML decoders accept any letter case.
func (g *GrindSize) UnmarshalText(b []byte) error {
	v, err := ParseGrindSize(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// UnmarshalText lets JSON and YAML decoders accept any letter case.
func (m *ProcessMethod) UnmarshalText(b []byte) error {
	v, err := ParseProcessMethod(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// UnmarshalText lets JSON and YAML decoders accept any letter case.
func (r *RoastLevel) UnmarshalText(b []byte) error {
	v, err := ParseRoastLevel(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
