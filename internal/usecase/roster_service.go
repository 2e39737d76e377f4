package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/player"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/roster"
)

// RosterService stores which players a user owns for a season.
type RosterService struct {
	rosterRepo roster.Repository
	playerRepo player.Repository
	now        func() time.Time
}

func NewRosterService(rosterRepo roster.Repository, playerRepo player.Repository) *RosterService {
	return &RosterService{
		rosterRepo: rosterRepo,
		playerRepo: playerRepo,
		now:        time.Now,
	}
}

func (s *RosterService) Save(ctx context.Context, userID string, year int, playerIDs []string) (roster.Roster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Save")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return roster.Roster{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if year <= 0 {
		return roster.Roster{}, fmt.Errorf("%w: year is required", ErrInvalidInput)
	}

	ids, err := normalizePlayerIDs(playerIDs)
	if err != nil {
		return roster.Roster{}, err
	}
	if len(ids) == 0 {
		return roster.Roster{}, fmt.Errorf("%w: roster needs at least one player", ErrInvalidInput)
	}

	item := roster.Roster{
		UserID:    userID,
		Year:      year,
		PlayerIDs: ids,
		UpdatedAt: s.now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return roster.Roster{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	found, err := s.playerRepo.GetByIDs(ctx, ids)
	if err != nil {
		return roster.Roster{}, fmt.Errorf("get players by ids: %w", err)
	}
	if len(found) != len(ids) {
		return roster.Roster{}, fmt.Errorf("%w: some players are not in the player pool", ErrInvalidInput)
	}

	if err := s.rosterRepo.Upsert(ctx, item); err != nil {
		return roster.Roster{}, fmt.Errorf("save roster: %w", err)
	}

	return item, nil
}

func (s *RosterService) Get(ctx context.Context, userID string, year int) (roster.Roster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Get")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return roster.Roster{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if year <= 0 {
		return roster.Roster{}, fmt.Errorf("%w: year is required", ErrInvalidInput)
	}

	item, exists, err := s.rosterRepo.Get(ctx, userID, year)
	if err != nil {
		return roster.Roster{}, fmt.Errorf("get roster: %w", err)
	}
	if !exists {
		return roster.Roster{}, fmt.Errorf("%w: roster for user=%s year=%d", ErrNotFound, userID, year)
	}

	return item, nil
}

func normalizePlayerIDs(ids []string) ([]string, error) {
	cleaned := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("%w: player id cannot be empty", ErrInvalidInput)
		}
		cleaned = append(cleaned, id)
	}
	return cleaned, nil
}
