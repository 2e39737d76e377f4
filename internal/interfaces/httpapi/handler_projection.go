package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/gridiron-fantasy/internal/usecase"
)

func (h *Handler) ListWeekProjections(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListWeekProjections")
	defer span.End()

	if h.projectionService == nil {
		writeError(ctx, w, fmt.Errorf("%w: projection service is not configured", usecase.ErrDependencyUnavailable))
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
	position := strings.TrimSpace(r.URL.Query().Get("position"))

	items, err := h.projectionService.ListWeek(ctx, week, year, position)
	if err != nil {
		h.logger.WarnContext(ctx, "list week projections failed", "week", week, "year", year, "position", position, "error", err)
		writeError(ctx, w, err)
		return
	}

	response := projectionListDTO{
		Week:     week,
		Year:     year,
		Position: strings.ToUpper(position),
		Count:    len(items),
		Items:    make([]projectionRecordDTO, 0, len(items)),
	}
	for _, item := range items {
		response.Items = append(response.Items, projectionRecordToDTO(ctx, item))
	}

	writeSuccess(ctx, w, http.StatusOK, response)
}
