package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/player"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/scoring"
)

// ScoringService wraps the pure rule engine with input validation so HTTP and
// job callers cannot feed it positions or band tables the domain never
// checked.
type ScoringService struct {
	rules scoring.Rules
}

type ScoreInput struct {
	Position   string
	Stats      scoring.StatLine
	Touchdowns []scoring.TouchdownEvent
}

type ScoreBreakdown struct {
	Position        player.Position `json:"position"`
	BasePoints      float64         `json:"base_points"`
	TouchdownBonus  float64         `json:"touchdown_bonus"`
	TotalPoints     float64         `json:"total_points"`
	StatCount       int             `json:"stat_count"`
	TouchdownEvents int             `json:"touchdown_events"`
}

// NewScoringService validates the rule set up front. A malformed band table is
// a deploy-time mistake, not something to discover per request.
func NewScoringService(rules scoring.Rules) (*ScoringService, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("validate scoring rules: %w", err)
	}
	return &ScoringService{rules: rules}, nil
}

func (s *ScoringService) Rules() scoring.Rules {
	return s.rules
}

func (s *ScoringService) Score(ctx context.Context, input ScoreInput) (ScoreBreakdown, error) {
	_, span := startUsecaseSpan(ctx, "usecase.ScoringService.Score")
	defer span.End()

	raw := strings.TrimSpace(input.Position)
	if raw == "" {
		return ScoreBreakdown{}, fmt.Errorf("%w: position is required", ErrInvalidInput)
	}
	pos, ok := player.NormalizePosition(raw)
	if !ok {
		return ScoreBreakdown{}, fmt.Errorf("%w: unknown position %q", ErrInvalidInput, raw)
	}
	for _, event := range input.Touchdowns {
		switch event.Kind {
		case scoring.TouchdownPassing, scoring.TouchdownRushing, scoring.TouchdownReceiving, scoring.TouchdownReturn:
		default:
			return ScoreBreakdown{}, fmt.Errorf("%w: unknown touchdown kind %q", ErrInvalidInput, event.Kind)
		}
		if event.Yards < 0 {
			return ScoreBreakdown{}, fmt.Errorf("%w: touchdown yards cannot be negative", ErrInvalidInput)
		}
	}

	base := scoring.Score(input.Stats, pos, s.rules)

	// Length bonuses are an offense concept. Kicker and defense lines ignore
	// any touchdown events the caller attached.
	var bonus float64
	if class, _ := player.ClassOf(pos); class == player.ClassOffense {
		bonus = scoring.ScoreTouchdowns(input.Touchdowns, s.rules.Offense)
	}

	return ScoreBreakdown{
		Position:        pos,
		BasePoints:      base,
		TouchdownBonus:  bonus,
		TotalPoints:     scoring.Round1(base + bonus),
		StatCount:       len(input.Stats),
		TouchdownEvents: len(input.Touchdowns),
	}, nil
}
