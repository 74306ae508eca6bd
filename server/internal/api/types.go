package api

import (
	"github.com/brewstack/brewstack/pkg/flavor"
	"github.com/brewstack/brewstack/pkg/types"
	"github.com/brewstack/brewstack/server/internal/store"
)

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status   string            `json:"status"`
	Sessions int               `json:"sessions"`
	Locale   flavor.Locale     `json:"locale"`
	Cache    flavor.CacheStats `json:"cache"`
}

// OptionsResponse is the payload for GET /api/v1/options: everything a front
// end needs to render the controls.
type OptionsResponse struct {
	GrindSizes     []types.GrindSize     `json:"grind_sizes"`
	ProcessMethods []types.ProcessMethod `json:"process_methods"`
	RoastLevels    []types.RoastLevel    `json:"roast_levels"`
	Ranges         []types.Range         `json:"ranges"`
	Locales        []flavor.Locale       `json:"locales"`
	Defaults       types.BrewParameters  `json:"defaults"`
}

// GuideResponse is the payload for GET /api/v1/guide.
type GuideResponse struct {
	Locale flavor.Locale  `json:"locale"`
	Topics []flavor.Topic `json:"topics"`
}

// SimulationResponse is the payload for POST /api/v1/simulate.
type SimulationResponse struct {
	Simulation flavor.Simulation `json:"simulation"`
	Breakdown  []Contribution    `json:"breakdown"`
}

// SessionResponse is returned by every single-session endpoint.
type SessionResponse struct {
	Session    store.Session     `json:"session"`
	Simulation flavor.Simulation `json:"simulation"`
	Breakdown  []Contribution    `json:"breakdown"`
}

// BuildSession assembles the SessionResponse for sess simulated as sim.
// The websocket hub uses it so REST and streaming clients see one schema.
func BuildSession(sess store.Session, sim flavor.Simulation) SessionResponse {
	return SessionResponse{Session: sess, Simulation: sim, Breakdown: breakdown(sim)}
}

// errorResponse is the standard JSON error body.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
