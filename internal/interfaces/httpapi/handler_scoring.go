package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/gridiron-fantasy/internal/usecase"
)

func (h *Handler) GetScoringRules(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScoringRules")
	defer span.End()

	if h.scoringService == nil {
		writeError(ctx, w, fmt.Errorf("%w: scoring service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rulesToDTO(ctx, h.scoringService.Rules()))
}

func (h *Handler) ScoreStatLine(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScoreStatLine")
	defer span.End()

	if h.scoringService == nil {
		writeError(ctx, w, fmt.Errorf("%w: scoring service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req scoreRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	touchdowns := make([]scoring.TouchdownEvent, 0, len(req.Touchdowns))
	for _, event := range req.Touchdowns {
		touchdowns = append(touchdowns, scoring.TouchdownEvent{
			Kind:  scoring.TouchdownKind(event.Kind),
			Yards: event.Yards,
		})
	}

	breakdown, err := h.scoringService.Score(ctx, usecase.ScoreInput{
		Position:   req.Position,
		Stats:      scoring.StatLine(req.Stats),
		Touchdowns: touchdowns,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "score stat line failed", "position", req.Position, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, breakdown)
}
