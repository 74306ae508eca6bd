package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brewstack/brewstack/pkg/flavor"
	"github.com/brewstack/brewstack/pkg/types"
	"github.com/brewstack/brewstack/server/internal/api"
	"github.com/brewstack/brewstack/server/internal/metrics"
	"github.com/brewstack/brewstack/server/internal/store"
)

// --- test helpers -----------------------------------------------------------

type fixture struct {
	h      http.Handler
	store  *store.Store
	engine *flavor.Engine
	locale *flavor.LocaleVar
}

func newFixture() *fixture {
	st := store.New(5*time.Minute, types.Defaults())
	eng := flavor.NewEngine(64)
	loc := &flavor.LocaleVar{}
	mc := metrics.New(metrics.Sources{Sessions: st.Count, Cache: eng.Stats})
	return &fixture{h: api.New(st, eng, mc, loc), store: st, engine: eng, locale: loc}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON: %v (body: %s)", err, rr.Body.String())
	}
}

// --- read-only endpoints ----------------------------------------------------

func TestHealth(t *testing.T) {
	f := newFixture()
	f.store.Create(flavor.LocaleEN)

	rr := do(t, f.h, http.MethodGet, "/api/v1/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp api.HealthResponse
	decode(t, rr, &resp)
	if resp.Status != "ok" || resp.Sessions != 1 || resp.Locale != flavor.LocaleEN {
		t.Errorf("health: got %+v", resp)
	}
	if resp.Cache.Capacity != 64 {
		t.Errorf("cache capacity: got %d, want 64", resp.Cache.Capacity)
	}
}

func TestReadOnlyEndpoints_MethodNotAllowed(t *testing.T) {
	f := newFixture()
	for _, path := range []string{"/api/v1/health", "/api/v1/defaults", "/api/v1/options", "/api/v1/guide"} {
		rr := do(t, f.h, http.MethodPost, path, "")
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST %s: got %d, want 405", path, rr.Code)
		}
	}
	if rr := do(t, f.h, http.MethodGet, "/api/v1/simulate", ""); rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/v1/simulate: got %d, want 405", rr.Code)
	}
}

func TestDefaults_FollowsStore(t *testing.T) {
	f := newFixture()
	custom := types.Defaults()
	custom.Temperature = 93
	if err := f.store.SetDefaults(custom); err != nil {
		t.Fatal(err)
	}

	var got types.BrewParameters
	decode(t, do(t, f.h, http.MethodGet, "/api/v1/defaults", ""), &got)
	if got != custom {
		t.Errorf("defaults: got %+v, want %+v", got, custom)
	}
}

func TestOptions(t *testing.T) {
	f := newFixture()
	var resp api.OptionsResponse
	decode(t, do(t, f.h, http.MethodGet, "/api/v1/options", ""), &resp)

	if len(resp.GrindSizes) != 3 || len(resp.ProcessMethods) != 3 || len(resp.RoastLevels) != 3 {
		t.Errorf("enum options: got %+v", resp)
	}
	if len(resp.Ranges) != 6 || resp.Ranges[0].Field != "ratio" || resp.Ranges[0].Step != 0.5 {
		t.Errorf("ranges: got %+v", resp.Ranges)
	}
	if len(resp.Locales) != 2 {
		t.Errorf("locales: got %v", resp.Locales)
	}
}

func TestGuide(t *testing.T) {
	f := newFixture()

	var all api.GuideResponse
	decode(t, do(t, f.h, http.MethodGet, "/api/v1/guide?locale=zh-TW", ""), &all)
	if all.Locale != flavor.LocaleZH || len(all.Topics) != 5 {
		t.Errorf("guide: locale %q, %d topics", all.Locale, len(all.Topics))
	}

	var one api.GuideResponse
	decode(t, do(t, f.h, http.MethodGet, "/api/v1/guide?topic=roast", ""), &one)
	if len(one.Topics) != 1 || one.Topics[0].ID != "roast" {
		t.Errorf("guide topic: got %+v", one.Topics)
	}

	if rr := do(t, f.h, http.MethodGet, "/api/v1/guide?topic=latte-art", ""); rr.Code != http.StatusNotFound {
		t.Errorf("unknown topic: got %d, want 404", rr.Code)
	}
}

// --- /api/v1/simulate -------------------------------------------------------

func TestSimulate_EmptyBodyUsesDefaults(t *testing.T) {
	f := newFixture()
	rr := do(t, f.h, http.MethodPost, "/api/v1/simulate", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	var resp api.SimulationResponse
	decode(t, rr, &resp)

	want := types.FlavorProfile{Acidity: 4, Sweetness: 2, Bitterness: 3, Body: 2}
	if resp.Simulation.Profile != want {
		t.Errorf("profile: got %+v, want %+v", resp.Simulation.Profile, want)
	}
	if resp.Simulation.Params != types.Defaults() {
		t.Errorf("params: got %+v", resp.Simulation.Params)
	}
	if len(resp.Breakdown) != 1 || resp.Breakdown[0].Rule != "process.washed" || resp.Breakdown[0].Layer != "process" {
		t.Errorf("breakdown: got %+v", resp.Breakdown)
	}
}

func TestSimulate_PartialBodyAndLocale(t *testing.T) {
	f := newFixture()
	rr := do(t, f.h, http.MethodPost, "/api/v1/simulate?locale=zh-TW",
		`{"grind_size":"FINE","brew_time":220,"roast_level":"dark","temperature":98}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	var resp api.SimulationResponse
	decode(t, rr, &resp)

	sim := resp.Simulation
	if sim.Locale != flavor.LocaleZH {
		t.Errorf("locale: got %q", sim.Locale)
	}
	if sim.Params.GrindSize != types.GrindFine || sim.Params.Ratio != 15 {
		t.Errorf("params: got %+v", sim.Params)
	}
	if sim.Profile.Bitterness != 5 {
		t.Errorf("bitterness: got %v, want clamped 5", sim.Profile.Bitterness)
	}
	if !strings.HasPrefix(sim.Notes[0], "此為") {
		t.Errorf("first note not zh-TW: %q", sim.Notes[0])
	}

	// Washed(+0.5) dark(+2) fine long(+2) hot(+1) pushes bitterness to 8. It
	// first passes 5 on the fine-grind rule and never comes back.
	var clampedOn string
	for _, c := range resp.Breakdown {
		for _, dim := range c.Clamped {
			if dim == "bitterness" {
				clampedOn = c.Rule
			}
		}
	}
	if clampedOn != "grind.fine.long" {
		t.Errorf("bitterness clamp reported on %q, want grind.fine.long", clampedOn)
	}
}

func TestSimulate_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"out of range", `{"temperature":120}`, "temperature"},
		{"bad enum", `{"roast_level":"charcoal"}`, "roast_level"},
		{"negative pours", `{"pour_count":-1}`, "pour_count"},
		{"unknown field", `{"temprature":90}`, ""},
		{"malformed", `{"ratio":`, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			rr := do(t, f.h, http.MethodPost, "/api/v1/simulate", tc.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want 400", rr.Code)
			}
			var resp map[string]string
			decode(t, rr, &resp)
			if resp["error"] == "" {
				t.Error("error message empty")
			}
			if resp["field"] != tc.wantField {
				t.Errorf("field: got %q, want %q", resp["field"], tc.wantField)
			}
		})
	}
}

func TestSimulate_DefaultLocaleFollowsVar(t *testing.T) {
	f := newFixture()
	f.locale.Set(flavor.LocaleZH)

	var resp api.SimulationResponse
	decode(t, do(t, f.h, http.MethodPost, "/api/v1/simulate", "{}"), &resp)
	if resp.Simulation.Locale != flavor.LocaleZH {
		t.Errorf("locale: got %q, want zh-TW", resp.Simulation.Locale)
	}
}

// --- sessions ---------------------------------------------------------------

func createSession(t *testing.T, h http.Handler, path, body string) api.SessionResponse {
	t.Helper()
	rr := do(t, h, http.MethodPost, path, body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: got %d, want 201 (body %s)", rr.Code, rr.Body.String())
	}
	var resp api.SessionResponse
	decode(t, rr, &resp)
	return resp
}

func TestSessions_Lifecycle(t *testing.T) {
	f := newFixture()

	created := createSession(t, f.h, "/api/v1/sessions", "")
	id := created.Session.ID
	if id == "" || created.Session.Params != types.Defaults() {
		t.Fatalf("created: %+v", created.Session)
	}

	// PATCH one field.
	rr := do(t, f.h, http.MethodPatch, "/api/v1/sessions/"+id, `{"pour_count":0}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("patch: got %d (body %s)", rr.Code, rr.Body.String())
	}
	var patched api.SessionResponse
	decode(t, rr, &patched)
	if patched.Session.Params.PourCount != 0 {
		t.Errorf("pour_count: got %d, want 0", patched.Session.Params.PourCount)
	}
	if got := patched.Simulation.Tips[len(patched.Simulation.Tips)-1].Key; got != "pours.none" {
		t.Errorf("last tip: got %q, want pours.none", got)
	}

	// GET reflects the patch.
	var got api.SessionResponse
	decode(t, do(t, f.h, http.MethodGet, "/api/v1/sessions/"+id, ""), &got)
	if got.Session.Params.PourCount != 0 {
		t.Errorf("GET after PATCH: got %+v", got.Session.Params)
	}

	// Reset restores defaults.
	var reset api.SessionResponse
	decode(t, do(t, f.h, http.MethodPost, "/api/v1/sessions/"+id+"/reset", ""), &reset)
	if reset.Session.Params != types.Defaults() {
		t.Errorf("reset: got %+v", reset.Session.Params)
	}

	// List contains it.
	var list []store.Session
	decode(t, do(t, f.h, http.MethodGet, "/api/v1/sessions", ""), &list)
	if len(list) != 1 || list[0].ID != id {
		t.Errorf("list: got %+v", list)
	}

	// DELETE then 404.
	if rr := do(t, f.h, http.MethodDelete, "/api/v1/sessions/"+id, ""); rr.Code != http.StatusNoContent {
		t.Errorf("delete: got %d, want 204", rr.Code)
	}
	if rr := do(t, f.h, http.MethodGet, "/api/v1/sessions/"+id, ""); rr.Code != http.StatusNotFound {
		t.Errorf("GET after delete: got %d, want 404", rr.Code)
	}
}

func TestSessions_CreateWithBodyAndLocale(t *testing.T) {
	f := newFixture()
	resp := createSession(t, f.h, "/api/v1/sessions?locale=zh", `{"process_method":"natural"}`)
	if resp.Session.Locale != flavor.LocaleZH {
		t.Errorf("locale: got %q", resp.Session.Locale)
	}
	if resp.Session.Params.ProcessMethod != types.ProcessNatural {
		t.Errorf("process: got %q", resp.Session.Params.ProcessMethod)
	}
}

func TestSessions_CreateInvalidLeavesNothingBehind(t *testing.T) {
	f := newFixture()
	rr := do(t, f.h, http.MethodPost, "/api/v1/sessions", `{"bloom_ratio":9}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
	if f.store.Count() != 0 {
		t.Errorf("store count: got %d, want 0", f.store.Count())
	}
}

func TestSessions_InvalidPatchLeavesSessionUnchanged(t *testing.T) {
	f := newFixture()
	id := createSession(t, f.h, "/api/v1/sessions", "").Session.ID

	rr := do(t, f.h, http.MethodPatch, "/api/v1/sessions/"+id, `{"ratio":16,"brew_time":500}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
	sess, _ := f.store.Get(id)
	if sess.Params != types.Defaults() {
		t.Errorf("session changed: %+v", sess.Params)
	}
}

func TestSessions_InvalidPatchKeepsLocale(t *testing.T) {
	f := newFixture()
	id := createSession(t, f.h, "/api/v1/sessions", "").Session.ID

	rr := do(t, f.h, http.MethodPatch, "/api/v1/sessions/"+id+"?locale=zh-TW", `{"pour_count":9}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
	sess, _ := f.store.Get(id)
	if sess.Locale != flavor.LocaleEN {
		t.Errorf("locale changed by rejected PATCH: %q", sess.Locale)
	}
}

func TestSessions_PatchLocaleIsPersisted(t *testing.T) {
	f := newFixture()
	id := createSession(t, f.h, "/api/v1/sessions", "").Session.ID

	// GET override does not persist.
	var once api.SessionResponse
	decode(t, do(t, f.h, http.MethodGet, "/api/v1/sessions/"+id+"?locale=zh-TW", ""), &once)
	if once.Simulation.Locale != flavor.LocaleZH || once.Session.Locale != flavor.LocaleEN {
		t.Errorf("GET override: sim %q, session %q", once.Simulation.Locale, once.Session.Locale)
	}

	do(t, f.h, http.MethodPatch, "/api/v1/sessions/"+id+"?locale=zh-TW", "{}")
	sess, _ := f.store.Get(id)
	if sess.Locale != flavor.LocaleZH {
		t.Errorf("PATCH locale not persisted: %q", sess.Locale)
	}
}

func TestSessions_NotFoundAndBadRoutes(t *testing.T) {
	f := newFixture()
	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/api/v1/sessions/missing", http.StatusNotFound},
		{http.MethodPatch, "/api/v1/sessions/missing", http.StatusNotFound},
		{http.MethodDelete, "/api/v1/sessions/missing", http.StatusNotFound},
		{http.MethodPost, "/api/v1/sessions/missing/reset", http.StatusNotFound},
		{http.MethodGet, "/api/v1/sessions/missing/reset", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/sessions/x/brew", http.StatusNotFound},
		{http.MethodPut, "/api/v1/sessions", http.StatusMethodNotAllowed},
	}
	for _, tc := range tests {
		if rr := do(t, f.h, tc.method, tc.path, ""); rr.Code != tc.want {
			t.Errorf("%s %s: got %d, want %d", tc.method, tc.path, rr.Code, tc.want)
		}
	}
}

func TestSimulate_UsesEngineCache(t *testing.T) {
	f := newFixture()
	do(t, f.h, http.MethodPost, "/api/v1/simulate", `{"ratio":16}`)
	do(t, f.h, http.MethodPost, "/api/v1/simulate", `{"ratio":16}`)
	if s := f.engine.Stats(); s.Hits != 1 || s.Misses != 1 {
		t.Errorf("cache stats: got %+v, want 1 hit, 1 miss", s)
	}
}
