package publicapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/aftershift/internal/app/features/publicapi"
	"github.com/dalemusser/aftershift/internal/app/system/weather"
	"github.com/dalemusser/aftershift/internal/domain/models"
	"github.com/dalemusser/aftershift/internal/testutil"
	"go.uber.org/zap"
)

type stubForecaster struct {
	data json.RawMessage
	err  error
	got  string
}

func (s *stubForecaster) Forecast(ctx context.Context, lat, lon string) (json.RawMessage, error) {
	s.got = lat + "," + lon
	return s.data, s.err
}

func newRouter(t *testing.T, wx publicapi.Forecaster) (http.Handler, *testutil.FakeAPI) {
	t.Helper()
	api := testutil.NewFakeAPI(t)
	h := publicapi.NewHandler(api.Client(t), wx, zap.NewNop())
	return publicapi.Routes(h, nil), api
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	req.Header.Set("Origin", "https://partner.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestWeather_MissingCoordinates(t *testing.T) {
	router, _ := newRouter(t, &stubForecaster{})

	rec, body := get(t, router, "/weather?lat=14.5")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
	if body["error"] != "Missing coordinates" {
		t.Errorf("error: got %v", body["error"])
	}
}

func TestWeather_PassesForecastThrough(t *testing.T) {
	wx := &stubForecaster{data: json.RawMessage(`{"current":{"temp_c":31},"forecast":{}}`)}
	router, _ := newRouter(t, wx)

	rec, body := get(t, router, "/weather?lat=14.5&lon=121.0")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if wx.got != "14.5,121.0" {
		t.Errorf("forecast called with %q", wx.got)
	}
	if _, ok := body["current"]; !ok {
		t.Errorf("body: %v", body)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS header on public endpoint")
	}
}

func TestWeather_UpstreamStatusPassedThrough(t *testing.T) {
	wx := &stubForecaster{err: &weather.UpstreamError{Status: 403, StatusText: "Forbidden", Body: `{"error":"key"}`}}
	router, _ := newRouter(t, wx)

	rec, body := get(t, router, "/weather?lat=1&lon=2")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403", rec.Code)
	}
	if body["error"] != "WeatherAPI error: 403 Forbidden" || body["details"] != `{"error":"key"}` {
		t.Errorf("body: %v", body)
	}
}

func TestWeather_IncompleteIs500(t *testing.T) {
	router, _ := newRouter(t, &stubForecaster{err: weather.ErrIncomplete})

	rec, body := get(t, router, "/weather?lat=1&lon=2")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rec.Code)
	}
	if body["error"] != weather.ErrIncomplete.Error() {
		t.Errorf("error: got %v", body["error"])
	}
}

func TestWeather_TransportErrorIs500(t *testing.T) {
	router, _ := newRouter(t, &stubForecaster{err: errors.New("dial tcp: refused")})
	rec, _ := get(t, router, "/weather?lat=1&lon=2")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rec.Code)
	}
}

func TestConversionRates_ForwardsBackend(t *testing.T) {
	router, api := newRouter(t, &stubForecaster{})
	api.JSON("GET", "/api/conversion-rates", http.StatusOK, models.ConversionRates{InquiryToAppointment: 40, Inquiries: 10, Appointments: 4})

	_, body := get(t, router, "/conversion-rates")
	if body["inquiryToAppointment"] != float64(40) || body["inquiries"] != float64(10) {
		t.Errorf("body: %v", body)
	}
}

func TestConversionRates_Fallback(t *testing.T) {
	router, api := newRouter(t, &stubForecaster{})
	api.JSON("GET", "/api/conversion-rates", http.StatusInternalServerError, map[string]string{"message": "boom"})

	rec, body := get(t, router, "/conversion-rates")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if body["inquiryToAppointment"] != float64(32) || body["inquiries"] != float64(320) || body["appointments"] != float64(102) {
		t.Errorf("body: %v", body)
	}
}

func TestGalleriesCount_Fallback(t *testing.T) {
	router, _ := newRouter(t, &stubForecaster{})

	_, body := get(t, router, "/galleriescount")
	if body["total"] != float64(42) {
		t.Errorf("body: %v", body)
	}
}
