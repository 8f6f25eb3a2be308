package weather_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/aftershift/internal/app/system/weather"
)

func server(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forecast.json" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "14.5,121.0" || q.Get("days") != "4" || q.Get("key") != "k" {
			t.Errorf("query = %v", q)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestForecast_OK(t *testing.T) {
	srv := server(t, 200, `{"current":{"temp_c":31},"forecast":{"forecastday":[]}}`)
	c := weather.New(srv.URL, "k", time.Second)
	raw, err := c.Forecast(context.Background(), "14.5", "121.0")
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if len(raw) == 0 {
		t.Error("expected body")
	}
}

func TestForecast_Upstream(t *testing.T) {
	srv := server(t, 403, `{"error":{"message":"API key disabled"}}`)
	_, err := weather.New(srv.URL, "k", time.Second).Forecast(context.Background(), "14.5", "121.0")
	var ue *weather.UpstreamError
	if !errors.As(err, &ue) || ue.Status != 403 || ue.Body == "" {
		t.Errorf("err = %v", err)
	}
}

func TestForecast_EmptyAndIncomplete(t *testing.T) {
	srv := server(t, 200, "")
	if _, err := weather.New(srv.URL, "k", time.Second).Forecast(context.Background(), "14.5", "121.0"); !errors.Is(err, weather.ErrEmpty) {
		t.Errorf("empty: err = %v", err)
	}
	srv2 := server(t, 200, `{"current":{"temp_c":31}}`)
	if _, err := weather.New(srv2.URL, "k", time.Second).Forecast(context.Background(), "14.5", "121.0"); !errors.Is(err, weather.ErrIncomplete) {
		t.Errorf("incomplete: err = %v", err)
	}
}

func TestForecast_NoKey(t *testing.T) {
	if _, err := weather.New("", "", 0).Forecast(context.Background(), "1", "2"); !errors.Is(err, weather.ErrNoKey) {
		t.Errorf("err = %v", err)
	}
}
