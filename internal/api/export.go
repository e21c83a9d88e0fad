package api

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/shelfguard/shelfguard/internal/export"
)

// handleExport builds an audit workbook from the stored scorecards and
// streams it as a zip download. When blob storage is configured the workbook
// is archived there as well; archival failure does not fail the download.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cards, err := h.store.ListScorecards(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list scorecards: "+err.Error())
		return
	}
	if len(cards) == 0 {
		writeError(w, http.StatusNotFound, "no scorecards to export")
		return
	}

	report, err := export.NewReport(cards)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build workbook: "+err.Error())
		return
	}

	if h.storage != nil {
		if err := h.storage.PutReport(ctx, chainID(r), report.ID, report.Content); err != nil {
			h.logger.Warn("archive workbook failed",
				zap.String("report", report.ID), zap.Error(err))
		}
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.Filename()+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(report.Content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(report.Content)
}
