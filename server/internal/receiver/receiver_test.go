package receiver_test

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/brewstack/brewstack/pkg/brewrpc"
	"github.com/brewstack/brewstack/pkg/flavor"
	"github.com/brewstack/brewstack/pkg/types"
	"github.com/brewstack/brewstack/server/internal/auth"
	"github.com/brewstack/brewstack/server/internal/metrics"
	"github.com/brewstack/brewstack/server/internal/receiver"
	"github.com/brewstack/brewstack/server/internal/store"
)

type env struct {
	client *brewrpc.SimulatorClient
	store  *store.Store
	engine *flavor.Engine
	locale *flavor.LocaleVar
}

// startServer starts a gRPC server with the given interceptor and returns a
// connected client. Uses a random TCP port.
func startServer(t *testing.T, interceptor grpc.UnaryServerInterceptor) *env {
	t.Helper()

	st := store.New(5*time.Minute, types.Defaults())
	eng := flavor.NewEngine(16)
	loc := &flavor.LocaleVar{}
	rec := receiver.New(st, eng, metrics.New(metrics.Sources{}), loc)

	srv := grpc.NewServer(grpc.UnaryInterceptor(interceptor))
	brewrpc.RegisterSimulatorServer(srv, rec)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	go srv.Serve(lis) //nolint:errcheck

	t.Cleanup(func() {
		srv.Stop()
		lis.Close()
	})

	conn, err := grpc.Dial(lis.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	) //nolint:staticcheck
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return &env{client: brewrpc.NewSimulatorClient(conn), store: st, engine: eng, locale: loc}
}

// allowAll is a no-op interceptor that passes every call through.
func allowAll(ctx context.Context, req interface{}, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	return handler(ctx, req)
}

func TestSimulate_EmptyPatchSimulatesDefaults(t *testing.T) {
	e := startServer(t, allowAll)

	resp, err := e.client.Simulate(context.Background(), &brewrpc.SimulateRequest{})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	want := types.FlavorProfile{Acidity: 4, Sweetness: 2, Bitterness: 3, Body: 2}
	if resp.Simulation.Profile != want {
		t.Errorf("Profile: got %+v, want %+v", resp.Simulation.Profile, want)
	}
	if resp.Simulation.Locale != flavor.LocaleEN {
		t.Errorf("Locale: got %q, want en", resp.Simulation.Locale)
	}
}

func TestSimulate_LayersOnCurrentDefaults(t *testing.T) {
	e := startServer(t, allowAll)

	custom := types.Defaults()
	custom.ProcessMethod = types.ProcessNatural
	if err := e.store.SetDefaults(custom); err != nil {
		t.Fatal(err)
	}
	e.locale.Set(flavor.LocaleZH)

	pc := 0
	resp, err := e.client.Simulate(context.Background(), &brewrpc.SimulateRequest{
		Params: types.ParamPatch{PourCount: &pc},
	})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	p := resp.Simulation.Params
	if p.ProcessMethod != types.ProcessNatural || p.PourCount != 0 {
		t.Errorf("Params: got %+v", p)
	}
	if resp.Simulation.Locale != flavor.LocaleZH {
		t.Errorf("Locale: got %q, want zh-TW from the server default", resp.Simulation.Locale)
	}
}

func TestSimulate_InvalidParams_InvalidArgument(t *testing.T) {
	e := startServer(t, allowAll)

	ratio := 25.0
	_, err := e.client.Simulate(context.Background(), &brewrpc.SimulateRequest{
		Params: types.ParamPatch{Ratio: &ratio},
	})
	if code := status.Code(err); code != codes.InvalidArgument {
		t.Errorf("code: got %v, want InvalidArgument", code)
	}
	if s := e.engine.Stats(); s.Misses != 0 {
		t.Errorf("invalid request reached the engine cache: %+v", s)
	}
}

func TestDefaults(t *testing.T) {
	e := startServer(t, allowAll)
	resp, err := e.client.Defaults(context.Background(), &brewrpc.DefaultsRequest{})
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}
	if resp.Params != types.Defaults() {
		t.Errorf("Params: got %+v", resp.Params)
	}
}

func TestSimulate_WithAPIKeyInterceptor(t *testing.T) {
	tests := []struct {
		name string
		key  string // "" sends no metadata
		want codes.Code
	}{
		{"correct key", "testkey", codes.OK},
		{"wrong key", "wrongkey", codes.Unauthenticated},
		{"missing key", "", codes.Unauthenticated},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := startServer(t, auth.APIKeyInterceptor("apikey", "x-api-key", "testkey"))

			ctx := context.Background()
			if tc.key != "" {
				ctx = metadata.AppendToOutgoingContext(ctx, "x-api-key", tc.key)
			}
			_, err := e.client.Simulate(ctx, &brewrpc.SimulateRequest{})
			if code := status.Code(err); code != tc.want {
				t.Errorf("code: got %v, want %v", code, tc.want)
			}
		})
	}
}
