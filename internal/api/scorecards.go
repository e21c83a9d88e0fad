package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/shelfguard/shelfguard/internal/store"
	"github.com/shelfguard/shelfguard/pkg/config"
	"github.com/shelfguard/shelfguard/pkg/detect"
	"github.com/shelfguard/shelfguard/pkg/inventory"
	"github.com/shelfguard/shelfguard/pkg/scoring"
	"github.com/shelfguard/shelfguard/pkg/voidlog"
)

// rescoreRequest narrows a rescore run. All fields are optional; an empty
// body rescores every store.
type rescoreRequest struct {
	StoreID  string `json:"store_id,omitempty"`
	PeriodID string `json:"period_id,omitempty"`
	Manager  string `json:"manager,omitempty"`
	Region   string `json:"region,omitempty"`
}

type rescoreResponse struct {
	Stores     int  `json:"stores"`
	Incomplete bool `json:"incomplete,omitempty"`
}

// handleRescore recomputes scorecards from the stored event history and
// persists them.
func (h *Handler) handleRescore(w http.ResponseWriter, r *http.Request) {
	var req rescoreRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	ctx := r.Context()
	result, err := h.store.FetchEvents(ctx, store.EventFilter{
		StoreID:  req.StoreID,
		PeriodID: req.PeriodID,
		Manager:  req.Manager,
		Region:   req.Region,
	})
	if err != nil {
		h.logger.Error("event scan failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load events: "+err.Error())
		return
	}
	if result.Incomplete {
		h.logger.Warn("event scan incomplete, scoring partial data")
	}

	views := inventory.BuildStoreViews(result.Events)
	cards, err := scoring.ScoreViews(h.cfg, views)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "scoring failed: "+err.Error())
		return
	}
	for _, card := range cards {
		if err := h.store.UpsertScorecard(ctx, card); err != nil {
			h.logger.Error("store scorecard failed",
				zap.String("store", card.StoreID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to store scorecard: "+err.Error())
			return
		}
	}

	h.cardCache.Invalidate()
	h.rollCache.Invalidate()

	h.logger.Info("rescore complete",
		zap.Int("stores", len(cards)),
		zap.Bool("incomplete", result.Incomplete))
	writeJSON(w, http.StatusOK, rescoreResponse{
		Stores:     len(cards),
		Incomplete: result.Incomplete,
	})
}

func (h *Handler) handleGetScorecard(w http.ResponseWriter, r *http.Request) {
	storeID := r.PathValue("storeID")

	if cached := h.cardCache.Get(storeID); cached != nil {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	card, err := h.store.GetScorecard(r.Context(), storeID)
	if err != nil {
		writeError(w, http.StatusNotFound, "scorecard not found for store "+storeID)
		return
	}
	h.cardCache.Put(storeID, card)
	writeJSON(w, http.StatusOK, card)
}

func (h *Handler) handleListScorecards(w http.ResponseWriter, r *http.Request) {
	const cacheKey = "_all"
	if cached := h.cardCache.Get(cacheKey); cached != nil {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	cards, err := h.store.ListScorecards(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list scorecards: "+err.Error())
		return
	}
	h.cardCache.Put(cacheKey, cards)
	writeJSON(w, http.StatusOK, cards)
}

func (h *Handler) handleRollup(w http.ResponseWriter, r *http.Request) {
	by := r.URL.Query().Get("by")
	if by == "" {
		by = "manager"
	}
	if by != "manager" && by != "region" {
		writeError(w, http.StatusBadRequest, "by must be manager or region")
		return
	}

	if cached := h.rollCache.Get(by); cached != nil {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	cards, err := h.store.ListScorecards(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list scorecards: "+err.Error())
		return
	}

	var rows []scoring.RollupRow
	if by == "manager" {
		rows = scoring.RollupByManager(cards)
	} else {
		rows = scoring.RollupByRegion(cards)
	}
	h.rollCache.Put(by, rows)
	writeJSON(w, http.StatusOK, rows)
}

// suspect pairs a theft finding with its correlated POS void activity.
type suspect struct {
	Finding     detect.Finding      `json:"finding"`
	Correlation voidlog.Correlation `json:"correlation"`
}

// handleSuspects returns the store's internal-theft findings enriched with
// matching void-log entries. The optional date query param (YYYY-MM-DD)
// anchors the lookback window; it defaults to today.
func (h *Handler) handleSuspects(w http.ResponseWriter, r *http.Request) {
	storeID := r.PathValue("storeID")
	ctx := r.Context()

	auditDate := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		auditDate = parsed
	}

	card, err := h.store.GetScorecard(ctx, storeID)
	if err != nil {
		writeError(w, http.StatusNotFound, "scorecard not found for store "+storeID)
		return
	}
	records, err := h.store.ListVoidRecords(ctx, storeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load void records: "+err.Error())
		return
	}

	var suspects []suspect
	for _, rs := range card.Breakdown {
		if rs.Key != config.RuleInternalTheft {
			continue
		}
		for _, f := range rs.Findings {
			corr := voidlog.Correlate(voidlog.Request{
				StoreID:      storeID,
				ProductID:    f.ProductID,
				CategoryPath: f.CategoryPath,
				AuditDate:    auditDate,
				WindowDays:   h.cfg.Detection.VoidWindowDays,
				PriceFloor:   h.cfg.Detection.PriceFloor,
			}, records)
			suspects = append(suspects, suspect{Finding: f, Correlation: corr})
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"store_id": storeID,
		"suspects": suspects,
	})
}
