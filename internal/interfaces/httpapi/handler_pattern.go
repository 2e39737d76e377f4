package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/gridiron-fantasy/internal/usecase"
)

func (h *Handler) ListTouchdownPatterns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTouchdownPatterns")
	defer span.End()

	if h.patternService == nil {
		writeError(ctx, w, fmt.Errorf("%w: pattern service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	season, err := parseRequiredIntQuery(r, "season")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.patternService.TouchdownDistributions(ctx, season)
	if err != nil {
		h.logger.WarnContext(ctx, "list touchdown patterns failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, buildPatternListDTO(ctx, season, "touchdowns", items))
}

func (h *Handler) ListFieldGoalPatterns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFieldGoalPatterns")
	defer span.End()

	if h.patternService == nil {
		writeError(ctx, w, fmt.Errorf("%w: pattern service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	season, err := parseRequiredIntQuery(r, "season")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.patternService.FieldGoalDistributions(ctx, season)
	if err != nil {
		h.logger.WarnContext(ctx, "list field goal patterns failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, buildPatternListDTO(ctx, season, "fieldgoals", items))
}
