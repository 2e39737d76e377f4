package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/gridiron-fantasy/internal/usecase"
)

func (h *Handler) RunReferenceSyncDirect(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunReferenceSyncDirect")
	defer span.End()

	if h.ingestionService == nil {
		writeError(ctx, w, fmt.Errorf("%w: ingestion service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	summary, err := h.ingestionService.SyncReferenceData(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "reference data sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) RunProjectionRefreshDirect(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunProjectionRefreshDirect")
	defer span.End()

	if h.projectionService == nil {
		writeError(ctx, w, fmt.Errorf("%w: projection service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req internalJobRunRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.projectionService.RefreshWeek(ctx, req.Week, req.Year)
	if err != nil {
		h.logger.WarnContext(ctx, "projection refresh failed", "week", req.Week, "year", req.Year, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) RunResultSyncDirect(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunResultSyncDirect")
	defer span.End()

	if h.resultService == nil {
		writeError(ctx, w, fmt.Errorf("%w: result service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req internalJobRunRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.resultService.SyncWeek(ctx, req.Week, req.Year)
	if err != nil {
		h.logger.WarnContext(ctx, "result sync failed", "week", req.Week, "year", req.Year, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) RunSeasonIngestDirect(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSeasonIngestDirect")
	defer span.End()

	if h.ingestionService == nil {
		writeError(ctx, w, fmt.Errorf("%w: ingestion service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req internalJobIngestRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	run, err := h.ingestionService.IngestSeason(ctx, usecase.IngestSeasonInput{
		Season:     req.Season,
		Weeks:      req.Weeks,
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "season ingest failed", "season", req.Season, "weeks", req.Weeks, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, run)
}

func (h *Handler) GetIngestionRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetIngestionRun")
	defer span.End()

	if h.ingestionService == nil {
		writeError(ctx, w, fmt.Errorf("%w: ingestion service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	runID := strings.TrimSpace(r.PathValue("runID"))
	if runID == "" {
		writeError(ctx, w, fmt.Errorf("%w: runID path parameter is required", usecase.ErrInvalidInput))
		return
	}

	run, err := h.ingestionService.Run(ctx, runID)
	if err != nil {
		h.logger.WarnContext(ctx, "get ingestion run failed", "run_id", runID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, run)
}
