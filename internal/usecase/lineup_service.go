package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/player"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/projection"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/roster"
)

type lineupProjectionReader interface {
	ListRecords(ctx context.Context, week, year int) ([]projection.Record, error)
}

// LineupService fills the fixed slot template from a user's roster using the
// week's projections. The fill is greedy on projected points, not a search
// over slot assignments.
type LineupService struct {
	rosterRepo     roster.Repository
	playerRepo     player.Repository
	projectionRepo lineupProjectionReader
}

func NewLineupService(
	rosterRepo roster.Repository,
	playerRepo player.Repository,
	projectionRepo lineupProjectionReader,
) *LineupService {
	return &LineupService{
		rosterRepo:     rosterRepo,
		playerRepo:     playerRepo,
		projectionRepo: projectionRepo,
	}
}

// Optimal builds the best greedy lineup for a user's roster in a week. Slots
// the roster cannot cover stay empty; owned players without a projection
// record rank at zero points.
func (s *LineupService) Optimal(ctx context.Context, userID string, week, year int) (roster.Lineup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.Optimal")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return roster.Lineup{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if err := validateWeek(week, year); err != nil {
		return roster.Lineup{}, err
	}

	item, exists, err := s.rosterRepo.Get(ctx, userID, year)
	if err != nil {
		return roster.Lineup{}, fmt.Errorf("get roster: %w", err)
	}
	if !exists {
		return roster.Lineup{}, fmt.Errorf("%w: roster for user=%s year=%d", ErrNotFound, userID, year)
	}

	players, err := s.playerRepo.GetByIDs(ctx, item.PlayerIDs)
	if err != nil {
		return roster.Lineup{}, fmt.Errorf("get roster players: %w", err)
	}

	records, err := s.projectionRepo.ListRecords(ctx, week, year)
	if err != nil {
		return roster.Lineup{}, fmt.Errorf("list projection records: %w", err)
	}
	pointsByPlayer := make(map[string]float64, len(records))
	for _, record := range records {
		if record.PlayerID == "" {
			continue
		}
		pointsByPlayer[record.PlayerID] = record.ProjectedPoints
	}

	candidates := make([]roster.Candidate, 0, len(players))
	for _, p := range players {
		// Inactive players never start.
		if !p.IsActive {
			continue
		}
		candidates = append(candidates, roster.Candidate{
			PlayerID:        p.ID,
			PlayerName:      p.Name,
			Position:        p.Position,
			ProjectedPoints: pointsByPlayer[p.ID],
		})
	}

	lineup := roster.FillLineup(candidates)
	lineup.UserID = userID
	lineup.Week = week
	lineup.Year = year
	return lineup, nil
}
