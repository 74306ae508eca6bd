package metrics

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/brewstack/brewstack/pkg/flavor"
)

// Surfaces label which front end served a simulation.
const (
	SurfaceREST = "rest"
	SurfaceGRPC = "grpc"
	SurfaceWS   = "ws"
)

// Metric family names.
const (
	nameSimulations = "brewstack_simulations_total"
	nameErrors      = "brewstack_simulation_errors_total"
	nameRules       = "brewstack_rules_fired_total"
	nameSessions    = "brewstack_sessions"
	nameWSClients   = "brewstack_ws_clients"
	nameCacheHits   = "brewstack_cache_hits_total"
	nameCacheMisses = "brewstack_cache_misses_total"
	nameCacheSize   = "brewstack_cache_entries"
)

// Sources supplies the gauges the Collector reads at scrape time.
// Any nil func is reported as zero.
type Sources struct {
	Sessions  func() int
	WSClients func() int
	Cache     func() flavor.CacheStats
}

// Collector counts simulations and renders every brewstack metric in the
// Prometheus text exposition format. It is safe for concurrent use.
type Collector struct {
	mu          sync.Mutex
	simulations map[string]uint64 // by surface
	errors      map[string]uint64 // by surface
	rules       map[string]uint64 // by rule key
	src         Sources
}

// New creates a Collector reading gauges from src.
func New(src Sources) *Collector {
	return &Collector{
		simulations: make(map[string]uint64),
		errors:      make(map[string]uint64),
		rules:       make(map[string]uint64),
		src:         src,
	}
}

// ObserveSimulation records one successful simulation served on surface.
func (c *Collector) ObserveSimulation(surface string, sim flavor.Simulation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.simulations[surface]++
	for _, k := range sim.Fired {
		c.rules[k]++
	}
}

// ObserveError records one rejected simulation request on surface.
func (c *Collector) ObserveError(surface string) {
	c.mu.Lock()
	c.errors[surface]++
	c.mu.Unlock()
}

// Families returns a point-in-time copy of every metric family that has at
// least one series, sorted by name.
func (c *Collector) Families() []*dto.MetricFamily {
	c.mu.Lock()
	fams := []*dto.MetricFamily{
		counterVec(nameSimulations, "Simulations served, by surface.", "surface", c.simulations),
		counterVec(nameErrors, "Simulation requests rejected as invalid, by surface.", "surface", c.errors),
		counterVec(nameRules, "Flavor rules fired across all simulations, by rule.", "rule", c.rules),
	}
	c.mu.Unlock()

	var cache flavor.CacheStats
	if c.src.Cache != nil {
		cache = c.src.Cache()
	}
	fams = append(fams,
		gauge(nameSessions, "Sessions currently held in memory.", call(c.src.Sessions)),
		gauge(nameWSClients, "Connected WebSocket clients.", call(c.src.WSClients)),
		counter(nameCacheHits, "Simulation cache hits.", float64(cache.Hits)),
		counter(nameCacheMisses, "Simulation cache misses.", float64(cache.Misses)),
		gauge(nameCacheSize, "Simulations currently cached.", float64(cache.Size)),
	)

	// The text encoder rejects a family without series.
	out := fams[:0]
	for _, mf := range fams {
		if len(mf.Metric) > 0 {
			out = append(out, mf)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GetName() < out[j].GetName() })
	return out
}

// WriteText renders all families in the text exposition format.
func (c *Collector) WriteText(w io.Writer) error {
	for _, mf := range c.Families() {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// ServeHTTP implements http.Handler for GET /metrics.
func (c *Collector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var buf bytes.Buffer
	if err := c.WriteText(&buf); err != nil {
		slog.Error("metrics: render failed", "err", err)
		http.Error(w, "render metrics", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", string(expfmt.NewFormat(expfmt.TypeTextPlain)))
	w.Write(buf.Bytes()) //nolint:errcheck
}

func call(f func() int) float64 {
	if f == nil {
		return 0
	}
	return float64(f())
}

func counter(name, help string, v float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(name),
		Help:   proto.String(help),
		Type:   dto.MetricType_COUNTER.Enum(),
		Metric: []*dto.Metric{{Counter: &dto.Counter{Value: proto.Float64(v)}}},
	}
}

func gauge(name, help string, v float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(name),
		Help:   proto.String(help),
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{{Gauge: &dto.Gauge{Value: proto.Float64(v)}}},
	}
}

// counterVec builds one labelled series per map entry, in label order.
func counterVec(name, help, label string, values map[string]uint64) *dto.MetricFamily {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	mf := &dto.MetricFamily{
		Name: proto.String(name),
		Help: proto.String(help),
		Type: dto.MetricType_COUNTER.Enum(),
	}
	for _, k := range keys {
		mf.Metric = append(mf.Metric, &dto.Metric{
			Label:   []*dto.LabelPair{{Name: proto.String(label), Value: proto.String(k)}},
			Counter: &dto.Counter{Value: proto.Float64(float64(values[k]))},
		})
	}
	return mf
}
