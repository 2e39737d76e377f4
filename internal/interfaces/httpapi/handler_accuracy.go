package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/gridiron-fantasy/internal/usecase"
)

func (h *Handler) GetConfidenceIntervals(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetConfidenceIntervals")
	defer span.End()

	if h.accuracyService == nil {
		writeError(ctx, w, fmt.Errorf("%w: accuracy service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	year, err := parseRequiredIntQuery(r, "year")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	intervals, err := h.accuracyService.ConfidenceIntervals(ctx, year)
	if err != nil {
		h.logger.WarnContext(ctx, "get confidence intervals failed", "year", year, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, intervalsToDTO(ctx, year, intervals))
}

// GetAccuracyReport serves one report per scope: pass week for a single week's
// breakdown, omit it for the season rollup.
func (h *Handler) GetAccuracyReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAccuracyReport")
	defer span.End()

	year, err := parseRequiredIntQuery(r, "year")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if strings.TrimSpace(r.URL.Query().Get("week")) != "" {
		if h.resultService == nil {
			writeError(ctx, w, fmt.Errorf("%w: result service is not configured", usecase.ErrDependencyUnavailable))
			return
		}
		week, err := parseRequiredIntQuery(r, "week")
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		report, err := h.resultService.WeekReport(ctx, week, year)
		if err != nil {
			h.logger.WarnContext(ctx, "get week accuracy report failed", "week", week, "year", year, "error", err)
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, weekReportToDTO(ctx, report))
		return
	}

	if h.accuracyService == nil {
		writeError(ctx, w, fmt.Errorf("%w: accuracy service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	report, err := h.accuracyService.SeasonReport(ctx, year)
	if err != nil {
		h.logger.WarnContext(ctx, "get season accuracy report failed", "year", year, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}
