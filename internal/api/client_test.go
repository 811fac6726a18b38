package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/offer-desk/internal/common"
	"github.com/Veraticus/offer-desk/internal/model"
	"github.com/Veraticus/offer-desk/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend mimics the offers backend closely enough for the client.
type fakeBackend struct {
	created  []map[string]any
	deleted  []string
	requests []string
	mu       sync.Mutex
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if ck, err := r.Cookie("session"); err != nil || ck.Value != "s3cret" {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			next(w, r)
		}
	}
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "admin" || body["password"] != "pw" {
			writeJSON(w, http.StatusUnauthorized, map[string]bool{"success": false})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "s3cret", Path: "/"})
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	})
	mux.HandleFunc("POST /api/logout", authed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}))
	mux.HandleFunc("GET /api/check_auth", func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie("session"); err == nil && ck.Value == "s3cret" {
			writeJSON(w, http.StatusOK, map[string]any{"authenticated": true, "username": "admin"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false, "username": ""})
	})
	mux.HandleFunc("GET /api/config", authed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"templates":  []string{"azul.png"},
			"programs":   []map[string]any{{"id": 3, "name": "Smiles"}},
			"currencies": []map[string]any{{"id": 1, "code": "USD"}},
		})
	}))
	mux.HandleFunc("GET /api/searches", authed(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"id":7,"created_at":"2026-05-01T10:00:00.123456","origin":"GRU","destination":"MIA",
			"operator":null,"prices_1":[{"id":1,"miles":"120000","prog_id":"3","tax":"55.3","curr_id":"1"}],"prices_2":[],"user_id":1}]`)
	}))
	mux.HandleFunc("POST /api/searches", authed(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["origin"] == "ERR" {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "msg": "template missing"})
			return
		}
		f.mu.Lock()
		f.created = append(f.created, body)
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}))
	mux.HandleFunc("DELETE /api/searches/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.deleted = append(f.deleted, r.PathValue("id"))
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}))
	mux.HandleFunc("POST /api/programs", authed(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, "program "+string(bytes.TrimSpace(data)))
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}))
	mux.HandleFunc("DELETE /api/currencies/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, "currency delete "+r.PathValue("id"))
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}))
	mux.HandleFunc("GET /api/generate/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "7" {
			http.Error(w, "Registro não encontrado no DB", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("\x89PNG fake"))
	})

	return mux
}

func newTestClient(t *testing.T, opts ...Option) (*Client, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{}
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL+"/", opts...)
	require.NoError(t, err)
	return client, backend
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient("not a url")
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestClient_RequiresLogin(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.ListOffers(context.Background())
	require.ErrorIs(t, err, common.ErrUnauthorized)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusFound, statusErr.StatusCode)
	assert.Equal(t, "/api/searches", statusErr.Path)
}

func TestClient_LoginFlow(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	client, backend := newTestClient(t, WithSessionStore(store))

	err := client.Login(ctx, "admin", "wrong")
	require.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, "Usuário ou senha inválidos.", common.UserMessage(err))

	require.NoError(t, client.Login(ctx, "admin", "pw"))

	status, err := client.CheckAuth(ctx)
	require.NoError(t, err)
	assert.True(t, status.Authenticated)
	assert.Equal(t, "admin", status.Username)

	records, err := client.ListOffers(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(7), records[0].ID)
	assert.Empty(t, records[0].Operator)
	assert.Equal(t, model.FlexString("1"), records[0].Prices1[0].ID)

	// A second client sharing the store reuses the session.
	other, err := NewClient(client.BaseURL(), WithSessionStore(store))
	require.NoError(t, err)
	require.NoError(t, other.RestoreSession(ctx))
	require.NoError(t, other.DeleteOffer(ctx, 7))
	assert.Equal(t, []string{"7"}, backend.deleted)

	require.NoError(t, other.Logout(ctx))
	_, err = store.Get(ctx, SessionKey)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestClient_RestoreSessionWithoutStore(t *testing.T) {
	client, _ := newTestClient(t)
	assert.NoError(t, client.RestoreSession(context.Background()))
	assert.NoError(t, client.SaveSession(context.Background()))
}

func TestClient_ConfigAndReferenceData(t *testing.T) {
	ctx := context.Background()
	client, backend := newTestClient(t)
	require.NoError(t, client.Login(ctx, "admin", "pw"))

	cfg, err := client.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"azul.png"}, cfg.Templates)
	assert.Equal(t, []model.Program{{ID: 3, Name: "Smiles"}}, cfg.Programs)
	assert.Equal(t, "USD", cfg.Currencies[0].Code)

	require.NoError(t, client.AddProgram(ctx, "TudoAzul"))
	require.NoError(t, client.DeleteCurrency(ctx, 4))
	assert.Equal(t, []string{`program {"name":"TudoAzul"}`, "currency delete 4"}, backend.requests)
}

func TestClient_CreateOffer(t *testing.T) {
	ctx := context.Background()
	client, backend := newTestClient(t)
	require.NoError(t, client.Login(ctx, "admin", "pw"))

	draft := model.NewOfferDraft(time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC))
	draft.Origin, draft.Destination = "GRU", "MIA"
	require.NoError(t, client.CreateOffer(ctx, draft))

	require.Len(t, backend.created, 1)
	assert.Equal(t, "GRU", backend.created[0]["origin"])
	assert.Equal(t, "2026-05-10", backend.created[0]["search_date"])
	assert.Contains(t, backend.created[0], "dates_1_raw")

	draft.Origin = "ERR"
	err := client.CreateOffer(ctx, draft)
	require.ErrorIs(t, err, common.ErrBackend)
	assert.Contains(t, err.Error(), "template missing")
}

func TestClient_Images(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t, WithCacheBuster(func() string { return "42" }))

	assert.Equal(t, client.BaseURL()+"/api/generate/7?v=42", client.ImageURL(7))

	fresh, _ := newTestClient(t)
	first, second := fresh.ImageURL(7), fresh.ImageURL(7)
	assert.NotEqual(t, first, second, "every image URL gets its own cache buster")

	var buf bytes.Buffer
	n, err := client.DownloadImage(ctx, 7, &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, "\x89PNG fake", buf.String())

	_, err = client.DownloadImage(ctx, 8, &buf)
	require.ErrorIs(t, err, common.ErrBackend)
	assert.Contains(t, err.Error(), "Registro não encontrado")
}

func TestClient_TransportFailure(t *testing.T) {
	client, err := NewClient("http://127.0.0.1:1", WithTimeout(time.Second))
	require.NoError(t, err)

	_, err = client.GetConfig(context.Background())
	assert.ErrorIs(t, err, common.ErrBackend)
}
