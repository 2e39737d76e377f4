package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/jobscheduler"
	"github.com/riskibarqy/gridiron-fantasy/internal/usecase"
	"go.opentelemetry.io/otel/trace"
)

var internalJobDispatchUnsafeRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func (h *Handler) RunBootstrapJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunBootstrapJob")
	defer span.End()

	if h.jobOrchestrator == nil {
		writeError(ctx, w, fmt.Errorf("%w: job orchestrator is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req internalJobRunRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.jobOrchestrator.Bootstrap(ctx, usecase.JobRunInput{
		Week:  req.Week,
		Year:  req.Year,
		Force: req.Force,
	})
	if err != nil {
		h.recordInternalJobDispatch(ctx, req.DispatchID, weekDispatchScope(req.Week, req.Year), jobscheduler.DispatchEvent{
			JobName:      "bootstrap",
			JobPath:      "/v1/internal/jobs/bootstrap",
			Status:       jobscheduler.StatusFailed,
			Payload:      buildJobRunPayload(req),
			ErrorMessage: err.Error(),
			OccurredAt:   time.Now().UTC(),
		})
		h.logger.WarnContext(ctx, "run bootstrap job failed", "week", req.Week, "year", req.Year, "force", req.Force, "error", err)
		writeError(ctx, w, err)
		return
	}
	h.recordInternalJobDispatch(ctx, req.DispatchID, weekDispatchScope(req.Week, req.Year), jobscheduler.DispatchEvent{
		JobName:    "bootstrap",
		JobPath:    "/v1/internal/jobs/bootstrap",
		Status:     jobscheduler.StatusCompleted,
		Payload:    buildJobRunPayload(req),
		OccurredAt: time.Now().UTC(),
	})

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunRefreshProjectionsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRefreshProjectionsJob")
	defer span.End()

	if h.jobOrchestrator == nil {
		writeError(ctx, w, fmt.Errorf("%w: job orchestrator is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req internalJobRunRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.jobOrchestrator.RunProjectionRefresh(ctx, usecase.JobRunInput{
		Week:  req.Week,
		Year:  req.Year,
		Force: req.Force,
	})
	if err != nil {
		h.recordInternalJobDispatch(ctx, req.DispatchID, weekDispatchScope(req.Week, req.Year), jobscheduler.DispatchEvent{
			JobName:      "refresh-projections",
			JobPath:      "/v1/internal/jobs/refresh-projections",
			Status:       jobscheduler.StatusFailed,
			Payload:      buildJobRunPayload(req),
			ErrorMessage: err.Error(),
			OccurredAt:   time.Now().UTC(),
		})
		h.logger.WarnContext(ctx, "run refresh projections job failed", "week", req.Week, "year", req.Year, "force", req.Force, "error", err)
		writeError(ctx, w, err)
		return
	}
	h.recordInternalJobDispatch(ctx, req.DispatchID, weekDispatchScope(req.Week, req.Year), jobscheduler.DispatchEvent{
		JobName:    "refresh-projections",
		JobPath:    "/v1/internal/jobs/refresh-projections",
		Status:     jobscheduler.StatusCompleted,
		Payload:    buildJobRunPayload(req),
		OccurredAt: time.Now().UTC(),
	})

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunSyncResultsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncResultsJob")
	defer span.End()

	if h.jobOrchestrator == nil {
		writeError(ctx, w, fmt.Errorf("%w: job orchestrator is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req internalJobRunRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.jobOrchestrator.RunResultSync(ctx, usecase.JobRunInput{
		Week:  req.Week,
		Year:  req.Year,
		Force: req.Force,
	})
	if err != nil {
		h.recordInternalJobDispatch(ctx, req.DispatchID, weekDispatchScope(req.Week, req.Year), jobscheduler.DispatchEvent{
			JobName:      "sync-results",
			JobPath:      "/v1/internal/jobs/sync-results",
			Status:       jobscheduler.StatusFailed,
			Payload:      buildJobRunPayload(req),
			ErrorMessage: err.Error(),
			OccurredAt:   time.Now().UTC(),
		})
		h.logger.WarnContext(ctx, "run sync results job failed", "week", req.Week, "year", req.Year, "force", req.Force, "error", err)
		writeError(ctx, w, err)
		return
	}
	h.recordInternalJobDispatch(ctx, req.DispatchID, weekDispatchScope(req.Week, req.Year), jobscheduler.DispatchEvent{
		JobName:    "sync-results",
		JobPath:    "/v1/internal/jobs/sync-results",
		Status:     jobscheduler.StatusCompleted,
		Payload:    buildJobRunPayload(req),
		OccurredAt: time.Now().UTC(),
	})

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunIngestSeasonJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunIngestSeasonJob")
	defer span.End()

	if h.jobOrchestrator == nil {
		writeError(ctx, w, fmt.Errorf("%w: job orchestrator is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req internalJobIngestRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.jobOrchestrator.RunSeasonIngest(ctx, usecase.JobIngestInput{
		Season:     req.Season,
		Weeks:      req.Weeks,
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.recordInternalJobDispatch(ctx, req.DispatchID, strconv.Itoa(req.Season), jobscheduler.DispatchEvent{
			JobName:      "ingest-season",
			JobPath:      "/v1/internal/jobs/ingest-season",
			Status:       jobscheduler.StatusFailed,
			Payload:      buildJobIngestPayload(req),
			ErrorMessage: err.Error(),
			OccurredAt:   time.Now().UTC(),
		})
		h.logger.WarnContext(ctx, "run ingest season job failed", "season", req.Season, "weeks", req.Weeks, "error", err)
		writeError(ctx, w, err)
		return
	}
	h.recordInternalJobDispatch(ctx, req.DispatchID, strconv.Itoa(req.Season), jobscheduler.DispatchEvent{
		JobName:    "ingest-season",
		JobPath:    "/v1/internal/jobs/ingest-season",
		Status:     jobscheduler.StatusCompleted,
		Payload:    buildJobIngestPayload(req),
		OccurredAt: time.Now().UTC(),
	})

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) recordInternalJobDispatch(ctx context.Context, requestedID, scope string, event jobscheduler.DispatchEvent) {
	if h.jobDispatchRepo == nil {
		return
	}

	dispatchID := strings.TrimSpace(requestedID)
	if dispatchID == "" {
		dispatchID = buildManualDispatchID(event.JobName, scope, event.OccurredAt)
	}
	event.DispatchID = dispatchID

	traceID, spanID := traceMetaFromContext(ctx)
	event.TraceID = traceID
	event.SpanID = spanID

	if err := h.jobDispatchRepo.UpsertEvent(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "record internal job dispatch failed",
			"dispatch_id", event.DispatchID,
			"job_name", event.JobName,
			"status", event.Status,
			"error", err,
		)
	}
}

func buildJobRunPayload(req internalJobRunRequest) map[string]any {
	payload := map[string]any{
		"week":  req.Week,
		"year":  req.Year,
		"force": req.Force,
	}
	if strings.TrimSpace(req.DispatchID) != "" {
		payload["dispatch_id"] = req.DispatchID
	}
	return payload
}

func buildJobIngestPayload(req internalJobIngestRequest) map[string]any {
	payload := map[string]any{
		"season":      req.Season,
		"weeks":       req.Weeks,
		"max_workers": req.MaxWorkers,
	}
	if strings.TrimSpace(req.DispatchID) != "" {
		payload["dispatch_id"] = req.DispatchID
	}
	return payload
}

func weekDispatchScope(week, year int) string {
	return strconv.Itoa(year) + "w" + strconv.Itoa(week)
}

func buildManualDispatchID(jobName, scope string, now time.Time) string {
	jobName = sanitizeDispatchPart(jobName)
	scope = sanitizeDispatchPart(scope)
	ts := now.UTC().Format("20060102T150405.000000000Z")
	return "manual-" + jobName + "-" + scope + "-" + ts
}

func sanitizeDispatchPart(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return internalJobDispatchUnsafeRegex.ReplaceAllString(value, "-")
}

func traceMetaFromContext(ctx context.Context) (string, string) {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if !spanContext.IsValid() {
		return "", ""
	}
	return spanContext.TraceID().String(), spanContext.SpanID().String()
}
