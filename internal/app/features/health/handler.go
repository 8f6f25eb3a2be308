package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/aftershift/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Pinger is anything that can report its own reachability, such as the
// backend API client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client *mongo.Client
	API    Pinger
	Log    *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo client, the
// backend client and logger. api may be nil.
func NewHandler(client *mongo.Client, api Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		Client: client,
		API:    api,
		Log:    logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Backend  string `json:"backend,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "backend":"reachable" }
//
// On DB failure: 503 and
//
//	{ "status":"error", "message":"Database unavailable", "error":"…"}
//
// A backend that does not answer degrades the status but still returns
// 200; the admin screens report backend errors on their own.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
	}

	if h.Client == nil {
		resp.Database = "disabled"
	} else if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	if h.API != nil {
		if err := h.API.Ping(ctx); err != nil {
			h.Log.Warn("health-check: backend ping failed", zap.Error(err))
			resp.Status = "degraded"
			resp.Backend = "unreachable"
			resp.Error = err.Error()
		} else {
			resp.Backend = "reachable"
		}
	}

	_ = json.NewEncoder(w).Encode(resp)
}
