// Package api implements the hosted Shelfguard REST API.
// It provides ingest, scoring and read endpoints backed by Postgres and
// blob storage.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/shelfguard/shelfguard/internal/export"
	"github.com/shelfguard/shelfguard/internal/store"
	"github.com/shelfguard/shelfguard/pkg/config"
	"github.com/shelfguard/shelfguard/pkg/inventory"
	"github.com/shelfguard/shelfguard/pkg/scoring"
	"github.com/shelfguard/shelfguard/pkg/voidlog"
)

// Store is the persistence surface the API needs.
type Store interface {
	InsertEvents(ctx context.Context, events []inventory.Event) error
	InsertVoidRecords(ctx context.Context, records []voidlog.Record) error
	FetchEvents(ctx context.Context, filter store.EventFilter) (*store.FetchResult, error)
	ListVoidRecords(ctx context.Context, storeID string) ([]voidlog.Record, error)
	UpsertScorecard(ctx context.Context, card *scoring.Scorecard) error
	GetScorecard(ctx context.Context, storeID string) (*scoring.Scorecard, error)
	ListScorecards(ctx context.Context) ([]*scoring.Scorecard, error)
}

// Handler is the top-level API handler for the hosted Shelfguard service.
type Handler struct {
	store     Store
	storage   export.ReportStorage
	cfg       *config.Config
	cardCache *ResultCache
	rollCache *ResultCache
	logger    *zap.Logger
}

// NewHandler creates a new API handler. storage may be nil when generated
// workbooks should not be archived.
func NewHandler(st Store, storage export.ReportStorage, cfg *config.Config, logger *zap.Logger) *Handler {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		store:     st,
		storage:   storage,
		cfg:       cfg,
		cardCache: NewScorecardCacheFromEnv(),
		rollCache: NewRollupCacheFromEnv(),
		logger:    logger,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Write endpoints (auth-protected)
	mux.HandleFunc("POST /api/v1/events", h.handleIngestEvents)
	mux.HandleFunc("POST /api/v1/voids", h.handleIngestVoids)
	mux.HandleFunc("POST /api/v1/rescore", h.handleRescore)

	// Read endpoints
	mux.HandleFunc("GET /api/v1/stores/{storeID}/scorecard", h.handleGetScorecard)
	mux.HandleFunc("GET /api/v1/stores/{storeID}/suspects", h.handleSuspects)
	mux.HandleFunc("GET /api/v1/scorecards", h.handleListScorecards)
	mux.HandleFunc("GET /api/v1/rollup", h.handleRollup)
	mux.HandleFunc("GET /api/v1/batches/{batchID}", h.handleGetBatch)
	mux.HandleFunc("GET /api/v1/export", h.handleExport)
	mux.HandleFunc("GET /healthz", h.handleHealthz)
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// chainID resolves the storage namespace for archived blobs from the chain
// query parameter.
func chainID(r *http.Request) string {
	if chain := r.URL.Query().Get("chain"); chain != "" {
		return chain
	}
	return "default"
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
