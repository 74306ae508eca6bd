package receiver

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/brewstack/brewstack/pkg/brewrpc"
	"github.com/brewstack/brewstack/pkg/flavor"
	"github.com/brewstack/brewstack/pkg/types"
	"github.com/brewstack/brewstack/server/internal/metrics"
	"github.com/brewstack/brewstack/server/internal/store"
)

// Receiver implements brewrpc.SimulatorServer.
// It layers each request onto the store's defaults and simulates through the
// shared engine.
type Receiver struct {
	store   *store.Store
	engine  *flavor.Engine
	metrics *metrics.Collector
	locale  *flavor.LocaleVar
}

// New creates a Receiver. st supplies the current defaults.
func New(st *store.Store, eng *flavor.Engine, mc *metrics.Collector, locale *flavor.LocaleVar) *Receiver {
	return &Receiver{store: st, engine: eng, metrics: mc, locale: locale}
}

// Simulate is the unary RPC handler for brewstack.v1.Simulator/Simulate.
// Authentication is enforced by the gRPC server interceptor before this is called.
func (r *Receiver) Simulate(ctx context.Context, req *brewrpc.SimulateRequest) (*brewrpc.SimulateResponse, error) {
	p := req.Params.Apply(r.store.Defaults())
	loc := r.locale.Resolve(req.Locale)

	sim, err := r.engine.Simulate(loc, p)
	if err != nil {
		r.metrics.ObserveError(metrics.SurfaceGRPC)
		if errors.Is(err, types.ErrInvalidParameter) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	r.metrics.ObserveSimulation(metrics.SurfaceGRPC, sim)

	slog.Debug("receiver: simulated",
		"locale", loc,
		"grind_size", p.GrindSize,
		"brew_time", p.BrewTime,
		"fired", len(sim.Fired),
	)

	return &brewrpc.SimulateResponse{Simulation: sim}, nil
}

// Defaults returns the parameter set partial requests are layered onto.
func (r *Receiver) Defaults(ctx context.Context, _ *brewrpc.DefaultsRequest) (*brewrpc.DefaultsResponse, error) {
	return &brewrpc.DefaultsResponse{Params: r.store.Defaults()}, nil
}
