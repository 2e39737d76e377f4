package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/gridiron-fantasy/internal/usecase"
)

func (h *Handler) GetMyRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyRoster")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	if h.rosterService == nil {
		writeError(ctx, w, fmt.Errorf("%w: roster service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	year, err := parseOptionalIntQuery(r, "year", time.Now().UTC().Year())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.rosterService.Get(ctx, principal.UserID, year)
	if err != nil {
		h.logger.WarnContext(ctx, "get roster failed", "user_id", principal.UserID, "year", year, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(ctx, item))
}

func (h *Handler) SaveMyRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveMyRoster")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	if h.rosterService == nil {
		writeError(ctx, w, fmt.Errorf("%w: roster service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req saveRosterRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.rosterService.Save(ctx, principal.UserID, req.Year, req.PlayerIDs)
	if err != nil {
		h.logger.WarnContext(ctx, "save roster failed", "user_id", principal.UserID, "year", req.Year, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(ctx, item))
}

func (h *Handler) GetOptimalLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetOptimalLineup")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	if h.lineupService == nil {
		writeError(ctx, w, fmt.Errorf("%w: lineup service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	week, err := parseRequiredIntQuery(r, "week")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	year, err := parseRequiredIntQuery(r, "year")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	lineup, err := h.lineupService.Optimal(ctx, principal.UserID, week, year)
	if err != nil {
		h.logger.WarnContext(ctx, "build optimal lineup failed", "user_id", principal.UserID, "week", week, "year", year, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupToDTO(ctx, lineup))
}
