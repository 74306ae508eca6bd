package brewrpc

import (
	"github.com/brewstack/brewstack/pkg/flavor"
	"github.com/brewstack/brewstack/pkg/types"
)

// SimulateRequest asks for one simulation. Params is layered onto the
// server's default parameters, so an empty patch simulates the defaults.
type SimulateRequest struct {
	Params types.ParamPatch `json:"params"`
	Locale string           `json:"locale,omitempty"`
}

// SimulateResponse carries the resolved parameters and their simulation.
type SimulateResponse struct {
	Simulation flavor.Simulation `json:"simulation"`
}

// DefaultsRequest is empty.
type DefaultsRequest struct{}

// DefaultsResponse returns the server's current default parameters.
type DefaultsResponse struct {
	Params types.BrewParameters `json:"params"`
}
