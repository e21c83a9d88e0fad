package api

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shelfguard/shelfguard/pkg/inventory"
	"github.com/shelfguard/shelfguard/pkg/voidlog"
)

// eventsRequest is the JSON body for POST /api/v1/events.
type eventsRequest struct {
	Source string            `json:"source,omitempty"`
	Events []inventory.Event `json:"events"`
}

// voidsRequest is the JSON body for POST /api/v1/voids.
type voidsRequest struct {
	Source  string           `json:"source,omitempty"`
	Records []voidlog.Record `json:"records"`
}

// requestBody unwraps an optionally gzip-compressed request body.
func requestBody(r *http.Request) (io.Reader, func(), error) {
	if r.Header.Get("Content-Encoding") != "gzip" {
		return r.Body, func() {}, nil
	}
	gz, err := gzip.NewReader(r.Body)
	if err != nil {
		return nil, nil, err
	}
	return gz, func() { gz.Close() }, nil
}

func (h *Handler) handleIngestEvents(w http.ResponseWriter, r *http.Request) {
	body, closeBody, err := requestBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid gzip body: "+err.Error())
		return
	}
	defer closeBody()

	var req eventsRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Events) == 0 {
		writeError(w, http.StatusBadRequest, "events are required")
		return
	}
	for _, e := range req.Events {
		if e.StoreID == "" || e.ProductID == "" || e.PeriodID == "" {
			writeError(w, http.StatusBadRequest, "event missing store_id, product_id or period_id")
			return
		}
		if e.CountIndex < 0 {
			writeError(w, http.StatusBadRequest, "event has negative count_index")
			return
		}
	}

	if err := h.store.InsertEvents(r.Context(), req.Events); err != nil {
		h.logger.Error("insert events failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store events: "+err.Error())
		return
	}

	// Scores computed from the old event set are stale now.
	h.cardCache.Invalidate()
	h.rollCache.Invalidate()

	resp := map[string]any{"accepted": len(req.Events)}
	if batchID := h.archiveBatch(r, &req); batchID != "" {
		resp["batch_id"] = batchID
	}

	h.logger.Info("events ingested",
		zap.String("source", req.Source),
		zap.Int("count", len(req.Events)))
	writeJSON(w, http.StatusOK, resp)
}

// archiveBatch stores the raw ingested batch in blob storage for later
// replay or audit. Archival failure is logged, never surfaced: the events
// are already persisted.
func (h *Handler) archiveBatch(r *http.Request, req *eventsRequest) string {
	if h.storage == nil {
		return ""
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	batchID := uuid.NewString()
	if err := h.storage.PutBatch(r.Context(), chainID(r), batchID, payload); err != nil {
		h.logger.Warn("archive batch failed", zap.String("batch", batchID), zap.Error(err))
		return ""
	}
	return batchID
}

// handleGetBatch returns an archived raw event batch.
func (h *Handler) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusNotFound, "batch archive not configured")
		return
	}
	batchID := r.PathValue("batchID")
	data, err := h.storage.GetBatch(r.Context(), chainID(r), batchID)
	if err != nil {
		writeError(w, http.StatusNotFound, "batch not found: "+batchID)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) handleIngestVoids(w http.ResponseWriter, r *http.Request) {
	body, closeBody, err := requestBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid gzip body: "+err.Error())
		return
	}
	defer closeBody()

	var req voidsRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Records) == 0 {
		writeError(w, http.StatusBadRequest, "records are required")
		return
	}
	for _, rec := range req.Records {
		if rec.StoreID == "" || rec.ProductID == "" {
			writeError(w, http.StatusBadRequest, "record missing store_id or product_id")
			return
		}
	}

	if err := h.store.InsertVoidRecords(r.Context(), req.Records); err != nil {
		h.logger.Error("insert void records failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store records: "+err.Error())
		return
	}

	h.logger.Info("void records ingested",
		zap.String("source", req.Source),
		zap.Int("count", len(req.Records)))
	writeJSON(w, http.StatusOK, map[string]int{"accepted": len(req.Records)})
}
