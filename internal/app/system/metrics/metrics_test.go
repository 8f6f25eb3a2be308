package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/aftershift/internal/app/system/metrics"
	"github.com/go-chi/chi/v5"
)

func TestMiddlewareRecordsRoutePattern(t *testing.T) {
	m := metrics.New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/admin/employees/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Method("GET", "/metrics", m.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/admin/employees/42", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	want := `aftershift_http_requests_total{code="418",method="GET",route="/admin/employees/{id}"} 1`
	if !strings.Contains(out, want) {
		t.Errorf("metrics output missing %q", want)
	}
	if strings.Contains(out, `route="/admin/employees/42"`) {
		t.Error("raw path leaked into labels")
	}
}
