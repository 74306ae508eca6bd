package ws_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/brewstack/brewstack/pkg/flavor"
	"github.com/brewstack/brewstack/pkg/types"
	"github.com/brewstack/brewstack/server/internal/metrics"
	"github.com/brewstack/brewstack/server/internal/store"
	wsHub "github.com/brewstack/brewstack/server/internal/ws"
)

// --- helpers ----------------------------------------------------------------

type fixture struct {
	url     string
	hub     *wsHub.Hub
	store   *store.Store
	metrics *metrics.Collector
	cancel  func()
}

// startHub starts a test HTTP server with the hub as its handler and runs the
// hub with a cancellable context.
func startHub(t *testing.T) *fixture {
	t.Helper()

	st := store.New(5*time.Minute, types.Defaults())
	mc := metrics.New(metrics.Sources{Sessions: st.Count})
	hub := wsHub.New(st, flavor.NewEngine(16), mc, &flavor.LocaleVar{})
	ctx, cancel := context.WithCancel(context.Background())

	srv := httptest.NewServer(hub)
	go hub.Run(ctx)

	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	return &fixture{
		url:     "ws" + strings.TrimPrefix(srv.URL, "http"),
		hub:     hub,
		store:   st,
		metrics: mc,
		cancel:  cancel,
	}
}

// dial connects a WebSocket client with the given raw query.
func dial(t *testing.T, f *fixture, query string) *websocket.Conn {
	t.Helper()
	u := f.url
	if query != "" {
		u += "?" + query
	}
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", u, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readMessage reads one message from conn with a short deadline.
func readMessage(t *testing.T, conn *websocket.Conn) wsHub.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var m wsHub.Message
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return m
}

// roundTrip sends raw as a text frame and returns the reply.
func roundTrip(t *testing.T, conn *websocket.Conn, raw string) wsHub.Message {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	return readMessage(t, conn)
}

func mustSimulation(t *testing.T, m wsHub.Message) {
	t.Helper()
	if m.Event != wsHub.EventSimulation || m.Data == nil {
		t.Fatalf("got event %q (error %q), want simulation", m.Event, m.Error)
	}
}

// --- tests ------------------------------------------------------------------

func TestHub_Connect_CreatesSessionAndSendsSimulation(t *testing.T) {
	f := startHub(t)
	conn := dial(t, f, "")

	m := readMessage(t, conn)
	mustSimulation(t, m)

	want := types.FlavorProfile{Acidity: 4, Sweetness: 2, Bitterness: 3, Body: 2}
	if m.Data.Simulation.Profile != want {
		t.Errorf("Profile: got %+v, want %+v", m.Data.Simulation.Profile, want)
	}
	if m.Data.Session.ID == "" {
		t.Fatal("session id: missing")
	}
	if _, err := f.store.Get(m.Data.Session.ID); err != nil {
		t.Errorf("session not stored: %v", err)
	}
}

func TestHub_Connect_LocaleForNewSession(t *testing.T) {
	f := startHub(t)
	conn := dial(t, f, "locale=zh-TW")

	m := readMessage(t, conn)
	mustSimulation(t, m)
	if m.Data.Session.Locale != flavor.LocaleZH {
		t.Errorf("Locale: got %q, want zh-TW", m.Data.Session.Locale)
	}
}

func TestHub_Connect_ExistingSession(t *testing.T) {
	f := startHub(t)
	sess := f.store.Create(flavor.LocaleEN)
	temp := 94
	if _, err := f.store.Patch(sess.ID, types.ParamPatch{Temperature: &temp}); err != nil {
		t.Fatal(err)
	}

	conn := dial(t, f, "session="+sess.ID)
	m := readMessage(t, conn)
	mustSimulation(t, m)
	if m.Data.Session.ID != sess.ID {
		t.Errorf("session: got %q, want %q", m.Data.Session.ID, sess.ID)
	}
	if m.Data.Simulation.Params.Temperature != 94 {
		t.Errorf("Temperature: got %d, want 94", m.Data.Simulation.Params.Temperature)
	}
	if n := f.store.Count(); n != 1 {
		t.Errorf("store Count: got %d, want 1", n)
	}
}

func TestHub_UnknownSession_Returns404(t *testing.T) {
	f := startHub(t)
	_, resp, err := websocket.DefaultDialer.Dial(f.url+"?session=nope", nil)
	if err == nil {
		t.Fatal("dial: want error for unknown session")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("status: got %v, want 404", resp)
	}
}

func TestHub_PatchFrame_Resimulates(t *testing.T) {
	f := startHub(t)
	conn := dial(t, f, "")
	first := readMessage(t, conn)

	m := roundTrip(t, conn, `{"temperature": 95, "grind_size": "fine"}`)
	mustSimulation(t, m)

	p := m.Data.Simulation.Params
	if p.Temperature != 95 || p.GrindSize != types.GrindFine {
		t.Errorf("Params: got %+v", p)
	}
	if m.Data.Simulation.Profile == first.Data.Simulation.Profile {
		t.Error("Profile: unchanged after patch")
	}

	stored, err := f.store.Get(first.Data.Session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Params != p {
		t.Errorf("stored Params: got %+v, want %+v", stored.Params, p)
	}
}

func TestHub_InvalidFrames_ErrorEvent(t *testing.T) {
	tests := []struct {
		name      string
		frame     string
		wantField string
	}{
		{"out of range", `{"temperature": 200}`, "temperature"},
		{"bad enum", `{"roast_level": "burnt"}`, ""},
		{"unknown field", `{"temprature": 92}`, ""},
		{"not json", `hello`, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := startHub(t)
			conn := dial(t, f, "")
			first := readMessage(t, conn)

			m := roundTrip(t, conn, tc.frame)
			if m.Event != wsHub.EventError {
				t.Fatalf("event: got %q, want error", m.Event)
			}
			if m.Error == "" {
				t.Error("error: empty")
			}
			if m.Field != tc.wantField {
				t.Errorf("field: got %q, want %q", m.Field, tc.wantField)
			}

			stored, _ := f.store.Get(first.Data.Session.ID)
			if stored.Params != types.Defaults() {
				t.Errorf("session changed after rejected frame: %+v", stored.Params)
			}

			// The connection stays usable.
			mustSimulation(t, roundTrip(t, conn, `{}`))
		})
	}
}

func TestHub_ResetFrame_RestoresDefaults(t *testing.T) {
	f := startHub(t)
	conn := dial(t, f, "")
	readMessage(t, conn)

	mustSimulation(t, roundTrip(t, conn, `{"ratio": 17.5, "pour_count": 4}`))

	m := roundTrip(t, conn, `{"reset": true}`)
	mustSimulation(t, m)
	if m.Data.Simulation.Params != types.Defaults() {
		t.Errorf("Params after reset: got %+v", m.Data.Simulation.Params)
	}
}

func TestHub_ResetWithPatch_AppliesPatchAfterReset(t *testing.T) {
	f := startHub(t)
	conn := dial(t, f, "")
	readMessage(t, conn)

	mustSimulation(t, roundTrip(t, conn, `{"ratio": 17.5}`))

	m := roundTrip(t, conn, `{"reset": true, "bloom_time": 0}`)
	mustSimulation(t, m)
	p := m.Data.Simulation.Params
	if p.Ratio != types.Defaults().Ratio || p.BloomTime != 0 {
		t.Errorf("Params: got %+v", p)
	}
}

func TestHub_ResetWithInvalidPatch_CommitsNothing(t *testing.T) {
	f := startHub(t)
	conn := dial(t, f, "")
	first := readMessage(t, conn)

	mustSimulation(t, roundTrip(t, conn, `{"ratio": 12}`))

	m := roundTrip(t, conn, `{"reset": true, "locale": "zh-TW", "ratio": 50}`)
	if m.Event != wsHub.EventError || m.Field != "ratio" {
		t.Fatalf("got %+v, want ratio error", m)
	}

	stored, err := f.store.Get(first.Data.Session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Params.Ratio != 12 {
		t.Errorf("Ratio: got %g, want 12 (reset must not be saved)", stored.Params.Ratio)
	}
	if stored.Locale != flavor.LocaleEN {
		t.Errorf("Locale: got %q, want en", stored.Locale)
	}
}

func TestHub_FailedUpgrade_CreatesNoSession(t *testing.T) {
	f := startHub(t)

	req, err := http.NewRequest(http.MethodGet, "http"+strings.TrimPrefix(f.url, "ws")+"?locale=zh-TW", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Sec-WebSocket-Version", "7")
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
	if n := f.store.Count(); n != 0 {
		t.Errorf("store Count: got %d, want 0", n)
	}
}

func TestHub_LocaleFrame_SwitchesText(t *testing.T) {
	f := startHub(t)
	conn := dial(t, f, "")
	readMessage(t, conn)

	m := roundTrip(t, conn, `{"locale": "zh-TW"}`)
	mustSimulation(t, m)
	if m.Data.Simulation.Locale != flavor.LocaleZH {
		t.Errorf("Locale: got %q, want zh-TW", m.Data.Simulation.Locale)
	}
	if len(m.Data.Simulation.Notes) == 0 || !strings.HasPrefix(m.Data.Simulation.Notes[0], "此為") {
		t.Errorf("Notes: got %q", m.Data.Simulation.Notes)
	}
}

func TestHub_SessionDeletedMidStream_ErrorEvent(t *testing.T) {
	f := startHub(t)
	conn := dial(t, f, "")
	first := readMessage(t, conn)

	if err := f.store.Delete(first.Data.Session.ID); err != nil {
		t.Fatal(err)
	}
	m := roundTrip(t, conn, `{"temperature": 91}`)
	if m.Event != wsHub.EventError || m.Error != "session not found" {
		t.Errorf("got %+v, want session not found error", m)
	}
}

func TestHub_CountClients(t *testing.T) {
	f := startHub(t)

	conns := make([]*websocket.Conn, 3)
	for i := range conns {
		conns[i] = dial(t, f, "")
		readMessage(t, conns[i])
	}

	time.Sleep(10 * time.Millisecond)
	if n := f.hub.Count(); n != 3 {
		t.Errorf("Count: got %d, want 3", n)
	}

	conns[0].Close()
	time.Sleep(50 * time.Millisecond) // let readPump detect the close

	if n := f.hub.Count(); n != 2 {
		t.Errorf("Count after disconnect: got %d, want 2", n)
	}
}

func TestHub_CancelContextClosesConnections(t *testing.T) {
	f := startHub(t)

	conn := dial(t, f, "")
	readMessage(t, conn)
	time.Sleep(10 * time.Millisecond)

	f.cancel()

	time.Sleep(50 * time.Millisecond)
	if n := f.hub.Count(); n != 0 {
		t.Errorf("Count after cancel: got %d, want 0", n)
	}
}

func TestHub_RecordsWSMetrics(t *testing.T) {
	f := startHub(t)
	conn := dial(t, f, "")
	readMessage(t, conn)
	roundTrip(t, conn, `{"temperature": 200}`)

	var buf bytes.Buffer
	if err := f.metrics.WriteText(&buf); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`brewstack_simulations_total{surface="ws"} 1`,
		`brewstack_simulation_errors_total{surface="ws"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics: missing %q in\n%s", want, out)
		}
	}
}

func TestHub_NonWebSocketRequest_Returns400(t *testing.T) {
	f := startHub(t)

	// Plain HTTP GET without WebSocket upgrade headers.
	resp, err := http.Get("http" + strings.TrimPrefix(f.url, "ws"))
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
	if n := f.store.Count(); n != 0 {
		t.Errorf("store Count: got %d, want 0 (no session for a failed upgrade)", n)
	}
}
