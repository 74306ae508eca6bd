package remote

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/brewstack/brewstack/pkg/brewrpc"
	"github.com/brewstack/brewstack/pkg/flavor"
	"github.com/brewstack/brewstack/pkg/types"
)

const (
	backoffInitial    = 250 * time.Millisecond
	backoffMax        = 5 * time.Second
	backoffMultiplier = 2.0

	// DefaultAttempts is the number of tries per call, first one included.
	DefaultAttempts = 3
)

// Options configures a Client.
type Options struct {
	// Endpoint is the server's host:port.
	Endpoint string
	// APIKey is sent under Header on every call when non-empty.
	APIKey string
	Header string
	// Timeout bounds each attempt. Zero means no per-attempt deadline.
	Timeout time.Duration
	// Attempts is the number of tries for a transient failure (default 3).
	Attempts int
}

// Client calls the Simulator service.
type Client struct {
	opts    Options
	conn    *grpc.ClientConn
	rpc     *brewrpc.SimulatorClient
	initial time.Duration // first backoff step; shortened in tests
}

// Dial connects to opts.Endpoint. The connection is established lazily;
// an unreachable server surfaces as a transient error on the first call.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("remote: empty endpoint")
	}
	if opts.Header == "" {
		opts.Header = "x-api-key"
	}
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultAttempts
	}

	conn, err := grpc.DialContext(ctx, opts.Endpoint, dialOptions()...) //nolint:staticcheck // deprecated in 1.63 but DialContext is used for compat
	if err != nil {
		return nil, fmt.Errorf("remote: dial %s: %w", opts.Endpoint, err)
	}
	return &Client{
		opts:    opts,
		conn:    conn,
		rpc:     brewrpc.NewSimulatorClient(conn),
		initial: backoffInitial,
	}, nil
}

// Close releases the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Simulate asks the server to simulate patch layered on its defaults.
// An empty locale uses the server's default.
func (c *Client) Simulate(ctx context.Context, patch types.ParamPatch, locale string) (flavor.Simulation, error) {
	var resp *brewrpc.SimulateResponse
	err := c.call(ctx, "Simulate", func(ctx context.Context) error {
		var err error
		resp, err = c.rpc.Simulate(ctx, &brewrpc.SimulateRequest{Params: patch, Locale: locale})
		return err
	})
	if err != nil {
		return flavor.Simulation{}, err
	}
	return resp.Simulation, nil
}

// Defaults fetches the server's default parameter set.
func (c *Client) Defaults(ctx context.Context) (types.BrewParameters, error) {
	var resp *brewrpc.DefaultsResponse
	err := c.call(ctx, "Defaults", func(ctx context.Context) error {
		var err error
		resp, err = c.rpc.Defaults(ctx, &brewrpc.DefaultsRequest{})
		return err
	})
	if err != nil {
		return types.BrewParameters{}, err
	}
	return resp.Params, nil
}

// call runs fn with auth metadata, retrying transient errors.
func (c *Client) call(ctx context.Context, method string, fn func(context.Context) error) error {
	bo := newBackoff(c.initial)

	var err error
	for attempt := 1; ; attempt++ {
		callCtx, cancel := c.attemptContext(ctx)
		err = fn(callCtx)
		cancel()

		if err == nil || isPermanentError(err) || attempt >= c.opts.Attempts || ctx.Err() != nil {
			break
		}

		wait := bo.next()
		slog.Debug("remote: call failed, will retry",
			"method", method,
			"endpoint", c.opts.Endpoint,
			"attempt", attempt,
			"err", err,
			"retry_in", wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	if err != nil {
		return fmt.Errorf("remote: %s: %w", method, err)
	}
	return nil
}

func (c *Client) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opts.APIKey != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, c.opts.Header, c.opts.APIKey)
	}
	if c.opts.Timeout > 0 {
		return context.WithTimeout(ctx, c.opts.Timeout)
	}
	return context.WithCancel(ctx)
}

// isPermanentError returns true for gRPC errors that retrying cannot fix.
func isPermanentError(err error) bool {
	switch status.Code(err) {
	case codes.InvalidArgument, codes.Unauthenticated, codes.PermissionDenied,
		codes.Unimplemented, codes.Canceled:
		return true
	}
	return false
}

// IsInvalidArgument reports whether err carries codes.InvalidArgument,
// i.e. the server rejected the parameters.
func IsInvalidArgument(err error) bool {
	return status.Code(err) == codes.InvalidArgument
}

// dialOptions builds the grpc.DialOption slice. The API key travels as
// per-call metadata, so the transport itself is plain.
func dialOptions() []grpc.DialOption {
	return []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
}

// backoff implements truncated exponential backoff with jitter.
type backoff struct {
	current time.Duration
}

func newBackoff(initial time.Duration) *backoff {
	return &backoff{current: initial}
}

// next returns the current backoff duration and advances the internal state.
func (b *backoff) next() time.Duration {
	d := b.current
	// Apply ±25 % jitter.
	jitter := time.Duration(float64(b.current) * 0.25 * (rand.Float64()*2 - 1)) //nolint:gosec // not crypto
	d += jitter
	if d < 0 {
		d = 0
	}

	b.current = time.Duration(float64(b.current) * backoffMultiplier)
	if b.current > backoffMax {
		b.current = backoffMax
	}
	return d
}
