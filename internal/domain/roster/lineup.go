package roster

import (
	"sort"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/player"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/scoring"
)

// Candidate is one rostered player with a projection for the week.
type Candidate struct {
	PlayerID        string
	PlayerName      string
	Position        player.Position
	ProjectedPoints float64
}

// FillLineup greedily fills the fixed slot template from the highest-projected
// candidates: dedicated position slots first, then FLEX takes the best
// remaining RB, WR or TE. This is a simple best-fit scan, not a combinatorial
// optimizer. Slots the candidate pool cannot cover stay empty.
func FillLineup(candidates []Candidate) Lineup {
	ranked := append([]Candidate(nil), candidates...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ProjectedPoints > ranked[j].ProjectedPoints
	})

	slots := make(map[SlotName]Candidate, len(SlotOrder))
	used := make(map[string]struct{}, len(ranked))

	take := func(name SlotName, c Candidate) bool {
		if _, filled := slots[name]; filled {
			return false
		}
		slots[name] = c
		used[c.PlayerID] = struct{}{}
		return true
	}

	for _, c := range ranked {
		if c.PlayerID == "" {
			continue
		}
		if _, taken := used[c.PlayerID]; taken {
			continue
		}
		switch c.Position {
		case player.PositionQuarterback:
			take(SlotQB, c)
		case player.PositionRunningBack:
			if !take(SlotRB1, c) {
				take(SlotRB2, c)
			}
		case player.PositionWideReceiver:
			if !take(SlotWR1, c) {
				take(SlotWR2, c)
			}
		case player.PositionTightEnd:
			take(SlotTE, c)
		case player.PositionKicker:
			take(SlotK, c)
		case player.PositionDefense:
			take(SlotDST, c)
		}
	}

	// FLEX takes the best remaining flex-eligible candidate.
	for _, c := range ranked {
		if c.PlayerID == "" {
			continue
		}
		if _, taken := used[c.PlayerID]; taken {
			continue
		}
		if _, ok := player.FlexEligible[c.Position]; !ok {
			continue
		}
		take(SlotFlex, c)
		break
	}

	lineup := Lineup{Slots: make([]Slot, 0, len(SlotOrder))}
	var total float64
	for _, name := range SlotOrder {
		c, ok := slots[name]
		if !ok {
			lineup.Slots = append(lineup.Slots, Slot{Name: name})
			continue
		}
		lineup.Slots = append(lineup.Slots, Slot{
			Name:            name,
			PlayerID:        c.PlayerID,
			PlayerName:      c.PlayerName,
			Position:        c.Position,
			ProjectedPoints: c.ProjectedPoints,
		})
		total += c.ProjectedPoints
	}
	lineup.TotalPoints = scoring.Round1(total)

	return lineup
}
