package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/brewstack/brewstack/pkg/flavor"
	"github.com/brewstack/brewstack/pkg/types"
	"github.com/brewstack/brewstack/server/internal/metrics"
	"github.com/brewstack/brewstack/server/internal/store"
)

// maxBodyBytes bounds request bodies; a full ParamPatch is well under 1 KiB.
const maxBodyBytes = 64 << 10

// Handler is the HTTP handler for all /api/v1/* endpoints.
// It simulates through the shared engine and keeps sessions in the store.
type Handler struct {
	store   *store.Store
	engine  *flavor.Engine
	metrics *metrics.Collector
	locale  *flavor.LocaleVar
	mux     *http.ServeMux
}

// New creates a Handler and registers all routes. locale supplies the default
// text locale for requests that do not name one.
func New(st *store.Store, eng *flavor.Engine, mc *metrics.Collector, locale *flavor.LocaleVar) http.Handler {
	h := &Handler{store: st, engine: eng, metrics: mc, locale: locale, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/defaults", h.defaults)
	h.mux.HandleFunc("/api/v1/options", h.options)
	h.mux.HandleFunc("/api/v1/guide", h.guide)
	h.mux.HandleFunc("/api/v1/simulate", h.simulate)
	h.mux.HandleFunc("/api/v1/sessions", h.sessions)
	h.mux.HandleFunc("/api/v1/sessions/", h.session) // subtree: extracts {id}[/reset]

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health: session count and cache effectiveness.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Sessions: h.store.Count(),
		Locale:   h.locale.Locale(),
		Cache:    h.engine.Stats(),
	})
}

// defaults returns GET /api/v1/defaults: the parameters new sessions start from.
func (h *Handler) defaults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, h.store.Defaults())
}

// options returns GET /api/v1/options: enum choices, numeric ranges and locales.
func (h *Handler) options(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, OptionsResponse{
		GrindSizes:     types.GrindSizes,
		ProcessMethods: types.ProcessMethods,
		RoastLevels:    types.RoastLevels,
		Ranges:         types.Ranges(),
		Locales:        flavor.Locales,
		Defaults:       h.store.Defaults(),
	})
}

// guide returns GET /api/v1/guide[?topic=id]: the brewing-basics topics.
func (h *Handler) guide(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	loc := h.locale.Resolve(r.URL.Query().Get("locale"))

	if id := r.URL.Query().Get("topic"); id != "" {
		t, ok := flavor.FindTopic(loc, id)
		if !ok {
			jsonErr(w, http.StatusNotFound, "topic not found")
			return
		}
		jsonResp(w, http.StatusOK, GuideResponse{Locale: loc, Topics: []flavor.Topic{t}})
		return
	}
	jsonResp(w, http.StatusOK, GuideResponse{Locale: loc, Topics: flavor.Guide(loc)})
}

// simulate handles POST /api/v1/simulate. The body is a partial parameter set
// layered onto the current defaults; an empty body simulates the defaults.
func (h *Handler) simulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	patch, ok := h.decodePatch(w, r)
	if !ok {
		return
	}

	loc := h.locale.Resolve(r.URL.Query().Get("locale"))
	sim, err := h.run(loc, patch.Apply(h.store.Defaults()))
	if err != nil {
		writeParamErr(w, err)
		return
	}
	jsonResp(w, http.StatusOK, SimulationResponse{Simulation: sim, Breakdown: breakdown(sim)})
}

// sessions handles GET (list) and POST (create) on /api/v1/sessions.
func (h *Handler) sessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		jsonResp(w, http.StatusOK, h.store.List())

	case http.MethodPost:
		patch, ok := h.decodePatch(w, r)
		if !ok {
			return
		}
		// Validate before creating so a bad body does not leave a session behind.
		if err := patch.Apply(h.store.Defaults()).Validate(); err != nil {
			h.metrics.ObserveError(metrics.SurfaceREST)
			writeParamErr(w, err)
			return
		}
		sess := h.store.Create(h.locale.Resolve(r.URL.Query().Get("locale")))
		if !patch.Empty() {
			var err error
			if sess, err = h.store.Patch(sess.ID, patch); err != nil {
				writeParamErr(w, err)
				return
			}
		}
		slog.Debug("api: session created", "id", sess.ID, "locale", sess.Locale)
		h.respondSession(w, http.StatusCreated, sess, "")

	default:
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// session handles /api/v1/sessions/{id} (GET, PATCH, DELETE) and
// /api/v1/sessions/{id}/reset (POST).
func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/sessions/"), "/")
	if rest == "" {
		// Bare /api/v1/sessions/ behaves like the collection.
		h.sessions(w, r)
		return
	}
	id, action, _ := strings.Cut(rest, "/")
	query := r.URL.Query().Get("locale")

	switch {
	case action == "reset":
		if r.Method != http.MethodPost {
			jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		sess, err := h.store.Reset(id)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		h.respondSession(w, http.StatusOK, sess, query)

	case action != "":
		jsonErr(w, http.StatusNotFound, "not found")

	case r.Method == http.MethodGet:
		sess, err := h.store.Get(id)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		h.respondSession(w, http.StatusOK, sess, query)

	case r.Method == http.MethodPatch:
		patch, ok := h.decodePatch(w, r)
		if !ok {
			return
		}
		// ?locale= on PATCH is persisted; on GET and reset it only applies to
		// the one response.
		u := store.Update{Patch: patch}
		if query != "" {
			u.Locale = flavor.ParseLocale(query)
		}
		sess, err := h.store.Apply(id, u)
		if err != nil {
			if errors.Is(err, types.ErrInvalidParameter) {
				h.metrics.ObserveError(metrics.SurfaceREST)
			}
			writeStoreErr(w, err)
			return
		}
		h.respondSession(w, http.StatusOK, sess, "")

	case r.Method == http.MethodDelete:
		if err := h.store.Delete(id); err != nil {
			writeStoreErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// --- helpers ----------------------------------------------------------------

// run simulates p and records the outcome.
func (h *Handler) run(loc flavor.Locale, p types.BrewParameters) (flavor.Simulation, error) {
	sim, err := h.engine.Simulate(loc, p)
	if err != nil {
		h.metrics.ObserveError(metrics.SurfaceREST)
		return flavor.Simulation{}, err
	}
	h.metrics.ObserveSimulation(metrics.SurfaceREST, sim)
	return sim, nil
}

// respondSession simulates sess and writes a SessionResponse. A non-empty
// override replaces the session's locale for this response only.
func (h *Handler) respondSession(w http.ResponseWriter, code int, sess store.Session, override string) {
	loc := sess.Locale
	if override != "" {
		loc = flavor.ParseLocale(override)
	}
	sim, err := h.run(loc, sess.Params)
	if err != nil {
		// Stored parameters are validated on every write.
		slog.Error("api: stored session failed validation", "id", sess.ID, "err", err)
		jsonErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	jsonResp(w, code, BuildSession(sess, sim))
}

// decodePatch reads a ParamPatch body. An empty body is an empty patch.
// Unknown fields are rejected so a typo does not silently fall back to the
// default value. On failure it writes a 400 and returns false.
func (h *Handler) decodePatch(w http.ResponseWriter, r *http.Request) (types.ParamPatch, bool) {
	var patch types.ParamPatch
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil && !errors.Is(err, io.EOF) {
		h.metrics.ObserveError(metrics.SurfaceREST)
		writeParamErr(w, err)
		return types.ParamPatch{}, false
	}
	return patch, true
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}

// writeParamErr reports a bad request body or out-of-range parameter as 400,
// naming the offending field when known.
func writeParamErr(w http.ResponseWriter, err error) {
	var pe *types.ParamError
	if errors.As(err, &pe) {
		jsonResp(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: pe.Field})
		return
	}
	jsonErr(w, http.StatusBadRequest, "invalid request body: "+err.Error())
}

// writeStoreErr maps store errors to HTTP status codes.
func writeStoreErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonErr(w, http.StatusNotFound, "session not found")
	case errors.Is(err, types.ErrInvalidParameter):
		writeParamErr(w, err)
	default:
		slog.Error("api: store error", "err", err)
		jsonErr(w, http.StatusInternalServerError, "internal error")
	}
}
