// Package testutil provides an in-process offers backend for tests that drive
// the real HTTP client. It speaks the same REST contract as the production
// server: cookie login, reference data, offer CRUD and image rendering.
//
// Example usage:
//
//	backend := testutil.NewBackendBuilder(t).
//		WithFixtureOffers().
//		WithCredentials("admin", "pw").
//		Start()
//
//	client, _ := api.NewClient(backend.URL())
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/Veraticus/offer-desk/internal/model"
)

const sessionCookie = "session"

// BackendBuilder configures a Backend before it starts serving.
type BackendBuilder interface {
	// WithCredentials sets the only account that can log in.
	WithCredentials(username, password string) BackendBuilder

	// WithReference replaces the templates, programs and currencies.
	WithReference(ref model.BackendConfig) BackendBuilder

	// WithOffer adds one saved offer.
	WithOffer(record model.OfferRecord) BackendBuilder

	// WithFixtureOffers adds FixtureOffers.
	WithFixtureOffers() BackendBuilder

	// WithImage sets the bytes served for every offer image.
	WithImage(data []byte) BackendBuilder

	// Start begins serving. The server is closed when the test ends.
	Start() *Backend
}

// Backend is a running fake offers backend.
type Backend struct {
	server    *httptest.Server
	reference model.BackendConfig
	username  string
	password  string
	token     string
	offers    []model.OfferRecord
	created   []model.OfferDraft
	deleted   []int64
	failures  map[string]int
	image     []byte
	mu        sync.Mutex
}

type backendBuilder struct {
	t       *testing.T
	backend *Backend
}

// NewBackendBuilder returns a builder for a backend with FixtureReference and
// the admin/pw account.
func NewBackendBuilder(t *testing.T) BackendBuilder {
	t.Helper()
	return &backendBuilder{
		t: t,
		backend: &Backend{
			reference: FixtureReference(),
			username:  "admin",
			password:  "pw",
			token:     "s3cret",
			image:     []byte("\x89PNG fake"),
			failures:  make(map[string]int),
		},
	}
}

func (b *backendBuilder) WithCredentials(username, password string) BackendBuilder {
	b.backend.username = username
	b.backend.password = password
	return b
}

func (b *backendBuilder) WithReference(ref model.BackendConfig) BackendBuilder {
	b.backend.reference = ref
	return b
}

func (b *backendBuilder) WithOffer(record model.OfferRecord) BackendBuilder {
	b.backend.offers = append(b.backend.offers, record)
	return b
}

func (b *backendBuilder) WithFixtureOffers() BackendBuilder {
	b.backend.offers = append(b.backend.offers, FixtureOffers()...)
	return b
}

func (b *backendBuilder) WithImage(data []byte) BackendBuilder {
	b.backend.image = data
	return b
}

func (b *backendBuilder) Start() *Backend {
	b.t.Helper()
	b.backend.server = httptest.NewServer(b.backend.routes())
	b.t.Cleanup(b.backend.server.Close)
	return b.backend
}

// URL is the base address of the backend.
func (b *Backend) URL() string {
	return b.server.URL
}

// Created returns the drafts posted as new offers, oldest first.
func (b *Backend) Created() []model.OfferDraft {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.OfferDraft(nil), b.created...)
}

// Deleted returns the ids of deleted offers in request order.
func (b *Backend) Deleted() []int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]int64(nil), b.deleted...)
}

// FailNext makes the next n requests matching pattern (e.g.
// "DELETE /api/searches/{id}") answer 500.
func (b *Backend) FailNext(pattern string, n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[pattern] += n
}

func (b *Backend) routes() http.Handler {
	mux := http.NewServeMux()

	handle := func(pattern string, authed bool, h http.HandlerFunc) {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			if authed && !b.loggedIn(r) {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			if b.shouldFail(pattern) {
				writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "msg": "falha simulada"})
				return
			}
			h(w, r)
		})
	}

	handle("POST /api/login", false, b.login)
	handle("POST /api/logout", true, func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	})
	handle("GET /api/check_auth", false, func(w http.ResponseWriter, r *http.Request) {
		if b.loggedIn(r) {
			writeJSON(w, http.StatusOK, map[string]any{"authenticated": true, "username": b.username})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false, "username": ""})
	})
	handle("GET /api/config", true, func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, b.reference)
	})
	handle("POST /api/programs", true, b.addProgram)
	handle("DELETE /api/programs/{id}", true, b.deleteProgram)
	handle("POST /api/currencies", true, b.addCurrency)
	handle("DELETE /api/currencies/{id}", true, b.deleteCurrency)
	handle("GET /api/searches", true, func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, append([]model.OfferRecord{}, b.offers...))
	})
	handle("POST /api/searches", true, b.createOffer)
	handle("DELETE /api/searches/{id}", true, b.deleteOffer)
	handle("GET /api/generate/{id}", false, b.generate)

	return mux
}

func (b *Backend) loggedIn(r *http.Request) bool {
	ck, err := r.Cookie(sessionCookie)
	return err == nil && ck.Value == b.token
}

func (b *Backend) shouldFail(pattern string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failures[pattern] == 0 {
		return false
	}
	b.failures[pattern]--
	return true
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "msg": err.Error()})
		return
	}
	if body.Username != b.username || body.Password != b.password {
		writeJSON(w, http.StatusUnauthorized, map[string]bool{"success": false})
		return
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: b.token, Path: "/", HttpOnly: true})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (b *Backend) addProgram(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.reference.Programs = append(b.reference.Programs, model.Program{ID: b.nextProgramID(), Name: body.Name})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (b *Backend) deleteProgram(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.reference.Programs[:0]
	for _, p := range b.reference.Programs {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	b.reference.Programs = kept
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (b *Backend) addCurrency(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	b.mu.Lock()
	defer b.mu.Unlock()
	var next int64 = 1
	for _, c := range b.reference.Currencies {
		next = max(next, c.ID+1)
	}
	b.reference.Currencies = append(b.reference.Currencies, model.Currency{ID: next, Code: body.Code})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (b *Backend) deleteCurrency(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.reference.Currencies[:0]
	for _, c := range b.reference.Currencies {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	b.reference.Currencies = kept
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (b *Backend) nextProgramID() int64 {
	var next int64 = 1
	for _, p := range b.reference.Programs {
		next = max(next, p.ID+1)
	}
	return next
}

func (b *Backend) createOffer(w http.ResponseWriter, r *http.Request) {
	var draft model.OfferDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "msg": err.Error()})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.created = append(b.created, draft)

	var next int64 = 1
	for _, o := range b.offers {
		next = max(next, o.ID+1)
	}
	b.offers = append(b.offers, model.OfferRecord{
		ID:           next,
		Origin:       draft.Origin,
		Destination:  draft.Destination,
		Operator:     draft.Operator,
		FlightType:   draft.FlightType,
		SearchDate:   draft.SearchDate,
		SelectedBG:   draft.SelectedBG,
		Dates1:       draft.Dates1,
		Dates2:       draft.Dates2,
		Origin2:      draft.Origin2,
		Destination2: draft.Destination2,
		Prices1:      draft.Prices1,
		Prices2:      draft.Prices2,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (b *Backend) deleteOffer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "msg": "id inválido"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, id)
	kept := b.offers[:0]
	for _, o := range b.offers {
		if o.ID != id {
			kept = append(kept, o)
		}
	}
	b.offers = kept
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (b *Backend) generate(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, o := range b.offers {
		if o.ID == id {
			w.Header().Set("Content-Type", "image/png")
			w.Header().Set("Content-Length", strconv.Itoa(len(b.image)))
			_, _ = w.Write(b.image)
			return
		}
	}
	http.Error(w, "Registro não encontrado no DB", http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
