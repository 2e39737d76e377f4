package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/gridiron-fantasy/internal/usecase"
)

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDashboard")
	defer span.End()

	if _, ok := principalFromContext(ctx); !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	if h.dashboardService == nil {
		writeError(ctx, w, fmt.Errorf("%w: dashboard service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	year, err := parseOptionalIntQuery(r, "year", time.Now().UTC().Year())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	dashboard, err := h.dashboardService.Get(ctx, year)
	if err != nil {
		h.logger.WarnContext(ctx, "build dashboard failed", "year", year, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dashboardToDTO(ctx, dashboard))
}
