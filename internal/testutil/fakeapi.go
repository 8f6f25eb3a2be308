package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/dalemusser/aftershift/internal/app/system/apiclient"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// FakeAPI stands in for the backend REST API. Tests register the routes
// they need; anything else answers 404 with a JSON message.
type FakeAPI struct {
	Server *httptest.Server
	router chi.Router

	mu    sync.Mutex
	calls []string
}

// NewFakeAPI starts a fake backend that is closed when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	f := &FakeAPI{router: chi.NewRouter()}
	f.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusNotFound, map[string]string{"message": "Not found"})
	})
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls = append(f.calls, r.Method+" "+r.URL.Path)
		f.mu.Unlock()
		f.router.ServeHTTP(w, r)
	}))
	t.Cleanup(f.Server.Close)
	return f
}

// Handle registers fn for method and a chi path pattern.
func (f *FakeAPI) Handle(method, pattern string, fn http.HandlerFunc) {
	f.router.MethodFunc(method, pattern, fn)
}

// JSON registers a route that always answers status with v encoded.
func (f *FakeAPI) JSON(method, pattern string, status int, v any) {
	f.Handle(method, pattern, func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, status, v)
	})
}

// Calls lists "METHOD /path" for every request received so far.
func (f *FakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Called reports whether "METHOD /path" was requested.
func (f *FakeAPI) Called(call string) bool {
	for _, c := range f.Calls() {
		if c == call {
			return true
		}
	}
	return false
}

// Client returns an apiclient pointed at the fake with throttling off.
func (f *FakeAPI) Client(t *testing.T) *apiclient.Client {
	t.Helper()
	c, err := apiclient.New(apiclient.Config{
		BaseURL:    f.Server.URL,
		HTTPClient: f.Server.Client(),
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("apiclient.New: %v", err)
	}
	return c
}

// WriteJSON writes v as JSON with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
