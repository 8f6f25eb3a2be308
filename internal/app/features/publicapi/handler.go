// internal/app/features/publicapi/handler.go
//
// Package publicapi serves the small JSON endpoints the marketing pages
// call from the browser: the weather widget and the two funnel counters.
package publicapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/aftershift/internal/app/system/apiclient"
	"github.com/dalemusser/aftershift/internal/app/system/timeouts"
	"github.com/dalemusser/aftershift/internal/app/system/weather"
	"github.com/dalemusser/aftershift/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

// Served when the backend cannot answer.
var (
	fallbackRates     = models.ConversionRates{InquiryToAppointment: 32, Inquiries: 320, Appointments: 102}
	fallbackGalleries = models.GalleryCount{Total: 42}
)

// Forecaster fetches raw forecast JSON.
type Forecaster interface {
	Forecast(ctx context.Context, lat, lon string) (json.RawMessage, error)
}

type Handler struct {
	API        *apiclient.Client
	Forecaster Forecaster
	Log        *zap.Logger
}

func NewHandler(api *apiclient.Client, wx Forecaster, logger *zap.Logger) *Handler {
	return &Handler{API: api, Forecaster: wx, Log: logger}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Weather handles GET /api/weather?lat=..&lon=..
func (h *Handler) Weather(w http.ResponseWriter, r *http.Request) {
	lat := strings.TrimSpace(query.Get(r, "lat"))
	lon := strings.TrimSpace(query.Get(r, "lon"))
	if lat == "" || lon == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing coordinates"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data, err := h.Forecaster.Forecast(ctx, lat, lon)
	if err != nil {
		var up *weather.UpstreamError
		if errors.As(err, &up) {
			h.Log.Warn("weather upstream error", zap.Int("status", up.Status))
			writeJSON(w, up.Status, map[string]string{"error": up.Error(), "details": up.Body})
			return
		}
		h.Log.Error("weather fetch failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// ConversionRates handles GET /api/conversion-rates.
func (h *Handler) ConversionRates(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rates, err := h.API.ConversionRates(ctx)
	if err != nil {
		h.Log.Warn("conversion rates unavailable, serving fallback", zap.Error(err))
		rates = fallbackRates
	}
	writeJSON(w, http.StatusOK, rates)
}

// GalleriesCount handles GET /api/galleriescount.
func (h *Handler) GalleriesCount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	count, err := h.API.GalleriesCount(ctx)
	if err != nil {
		h.Log.Warn("gallery count unavailable, serving fallback", zap.Error(err))
		count = fallbackGalleries
	}
	writeJSON(w, http.StatusOK, count)
}
