package gridirondata

import (
	"strings"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/playevent"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/gridiron-fantasy/internal/usecase"
)

type pagination struct {
	Count       int     `json:"count"`
	PerPage     int     `json:"per_page"`
	CurrentPage int     `json:"current_page"`
	NextPage    *string `json:"next_page"`
	HasMore     bool    `json:"has_more"`
}

type teamsEnvelope struct {
	Data []teamItem `json:"data"`
}

type teamItem struct {
	ID           string `json:"id"`
	Abbreviation string `json:"abbreviation"`
	Location     string `json:"location"`
	Name         string `json:"name"`
}

type playersEnvelope struct {
	Data       []playerItem `json:"data"`
	Pagination pagination   `json:"pagination"`
}

type playerItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Team        string `json:"team"`
	Position    string `json:"position"`
	Status      string `json:"status"`
}

type weekStatsEnvelope struct {
	Data []playerWeekStatsItem `json:"data"`
}

type playerWeekStatsItem struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Team       string `json:"team"`
	Position   string `json:"position"`

	Completions         float64 `json:"completions"`
	PassingYards        float64 `json:"passing_yards"`
	PassingTouchdowns   float64 `json:"passing_tds"`
	Interceptions       float64 `json:"interceptions"`
	Sacks               float64 `json:"sacks"`
	RushingAttempts     float64 `json:"rushing_attempts"`
	RushingYards        float64 `json:"rushing_yards"`
	RushingTouchdowns   float64 `json:"rushing_tds"`
	Receptions          float64 `json:"receptions"`
	ReceivingYards      float64 `json:"receiving_yards"`
	ReceivingTouchdowns float64 `json:"receiving_tds"`
	ReturnYards         float64 `json:"return_yards"`
	ReturnTouchdowns    float64 `json:"return_tds"`
	FumblesLost         float64 `json:"fumbles_lost"`
	FumbleRecoveryTDs   float64 `json:"fumble_recovered_tds"`
	TwoPointConversions float64 `json:"two_point_conversions"`

	PATsMade         float64 `json:"pats_made"`
	FieldGoalsMade   float64 `json:"field_goals_made"`
	FieldGoals0to19  float64 `json:"fg_made_0_19"`
	FieldGoals20to29 float64 `json:"fg_made_20_29"`
	FieldGoals30to39 float64 `json:"fg_made_30_39"`
	FieldGoals40to49 float64 `json:"fg_made_40_49"`
	FieldGoals50Plus float64 `json:"fg_made_50_plus"`

	FumbleRecoveries    float64 `json:"fumble_recoveries"`
	FumblesForced       float64 `json:"fumbles_forced"`
	Safeties            float64 `json:"safeties"`
	DefensiveTouchdowns float64 `json:"defensive_tds"`
	BlockedKicks        float64 `json:"blocked_kicks"`
	TwoPointReturns     float64 `json:"two_point_returns"`
	PointsAllowed       float64 `json:"points_allowed"`
	YardsAllowed        float64 `json:"yards_allowed"`
}

type scoringPlaysEnvelope struct {
	Data []scoringPlayItem `json:"data"`
}

type scoringPlayItem struct {
	Season     int     `json:"season"`
	Week       int     `json:"week"`
	PlayType   string  `json:"play_type"`
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	PasserID   string  `json:"passer_id"`
	PasserName string  `json:"passer_name"`
	Yards      float64 `json:"yards"`
	Made       bool    `json:"made"`
}

type returnStatsEnvelope struct {
	Data []teamReturnStatsItem `json:"data"`
}

type teamReturnStatsItem struct {
	Team               string  `json:"team"`
	TeamID             string  `json:"team_id"`
	Season             int     `json:"season"`
	ReturnYardsAllowed float64 `json:"return_yards_allowed"`
	Games              int     `json:"games"`
}

func mapTeamItem(item teamItem) usecase.ExternalTeam {
	name := strings.TrimSpace(strings.TrimSpace(item.Location) + " " + strings.TrimSpace(item.Name))
	return usecase.ExternalTeam{
		ID:   firstNonEmpty(item.Abbreviation, item.ID),
		Name: name,
	}
}

func mapPlayerItem(item playerItem) usecase.ExternalPlayer {
	status := strings.ToLower(strings.TrimSpace(item.Status))
	return usecase.ExternalPlayer{
		ID:       strings.TrimSpace(item.ID),
		Name:     firstNonEmpty(item.Name, item.DisplayName),
		TeamID:   strings.TrimSpace(item.Team),
		Position: strings.ToUpper(strings.TrimSpace(item.Position)),
		Active:   status == "" || status == "active",
	}
}

func mapWeekStatsItem(item playerWeekStatsItem, season, week int) usecase.ExternalPlayerWeekStats {
	return usecase.ExternalPlayerWeekStats{
		PlayerID:   strings.TrimSpace(item.PlayerID),
		PlayerName: strings.TrimSpace(item.PlayerName),
		TeamID:     strings.TrimSpace(item.Team),
		Position:   strings.ToUpper(strings.TrimSpace(item.Position)),
		Season:     season,
		Week:       week,
		Stats:      item.statLine(),
	}
}

// statLine keeps only non-zero entries; the scorer treats missing keys as
// zero, so lean maps score identically to padded ones.
func (p playerWeekStatsItem) statLine() map[string]float64 {
	out := make(map[string]float64, 16)
	addStat(out, scoring.StatCompletions, p.Completions)
	addStat(out, scoring.StatPassingYards, p.PassingYards)
	addStat(out, scoring.StatPassingTouchdowns, p.PassingTouchdowns)
	addStat(out, scoring.StatInterceptions, p.Interceptions)
	addStat(out, scoring.StatSacks, p.Sacks)
	addStat(out, scoring.StatRushingAttempts, p.RushingAttempts)
	addStat(out, scoring.StatRushingYards, p.RushingYards)
	addStat(out, scoring.StatRushingTouchdowns, p.RushingTouchdowns)
	addStat(out, scoring.StatReceptions, p.Receptions)
	addStat(out, scoring.StatReceivingYards, p.ReceivingYards)
	addStat(out, scoring.StatReceivingTouchdowns, p.ReceivingTouchdowns)
	addStat(out, scoring.StatReturnYards, p.ReturnYards)
	addStat(out, scoring.StatReturnTouchdowns, p.ReturnTouchdowns)
	addStat(out, scoring.StatFumblesLost, p.FumblesLost)
	addStat(out, scoring.StatFumbleRecoveryTDs, p.FumbleRecoveryTDs)
	addStat(out, scoring.StatTwoPointConversions, p.TwoPointConversions)
	addStat(out, scoring.StatPointsAfterMade, p.PATsMade)
	addStat(out, scoring.StatFieldGoalsMade, p.FieldGoalsMade)
	addStat(out, scoring.StatFieldGoals0to19, p.FieldGoals0to19)
	addStat(out, scoring.StatFieldGoals20to29, p.FieldGoals20to29)
	addStat(out, scoring.StatFieldGoals30to39, p.FieldGoals30to39)
	addStat(out, scoring.StatFieldGoals40to49, p.FieldGoals40to49)
	addStat(out, scoring.StatFieldGoals50Plus, p.FieldGoals50Plus)
	addStat(out, scoring.StatFumbleRecoveries, p.FumbleRecoveries)
	addStat(out, scoring.StatFumblesForced, p.FumblesForced)
	addStat(out, scoring.StatSafeties, p.Safeties)
	addStat(out, scoring.StatDefensiveTouchdowns, p.DefensiveTouchdowns)
	addStat(out, scoring.StatBlockedKicks, p.BlockedKicks)
	addStat(out, scoring.StatTwoPointReturns, p.TwoPointReturns)
	addStat(out, scoring.StatPointsAllowed, p.PointsAllowed)
	addStat(out, scoring.StatYardsAllowed, p.YardsAllowed)
	return out
}

func addStat(dst map[string]float64, key string, value float64) {
	if value == 0 {
		return
	}
	dst[key] = value
}

func mapScoringPlayItem(item scoringPlayItem, season, week int) (usecase.ExternalScoringPlay, bool) {
	playType := normalizePlayType(item.PlayType)
	if playType == "" {
		return usecase.ExternalScoringPlay{}, false
	}

	made := item.Made
	if playevent.Type(playType).Touchdown() {
		made = true
	}

	return usecase.ExternalScoringPlay{
		Season:     season,
		Week:       week,
		PlayType:   playType,
		PlayerID:   strings.TrimSpace(item.PlayerID),
		PlayerName: strings.TrimSpace(item.PlayerName),
		PasserID:   strings.TrimSpace(item.PasserID),
		PasserName: strings.TrimSpace(item.PasserName),
		Yards:      item.Yards,
		Made:       made,
	}, true
}

func normalizePlayType(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	value = strings.ReplaceAll(value, "-", "_")
	value = strings.ReplaceAll(value, " ", "_")

	switch value {
	case "rushing_td", "rush_td", "rushing_touchdown":
		return string(playevent.TypeRushingTouchdown)
	case "receiving_td", "reception_td", "receiving_touchdown", "pass_td", "passing_td":
		return string(playevent.TypeReceivingTouchdown)
	case "return_td", "kick_return_td", "punt_return_td", "return_touchdown":
		return string(playevent.TypeReturnTouchdown)
	case "field_goal", "fg", "field_goal_made", "field_goal_missed":
		return string(playevent.TypeFieldGoal)
	default:
		return ""
	}
}

func mapReturnStatsItem(item teamReturnStatsItem, season int) usecase.ExternalTeamReturnStats {
	itemSeason := item.Season
	if itemSeason <= 0 {
		itemSeason = season
	}
	return usecase.ExternalTeamReturnStats{
		TeamID:             firstNonEmpty(item.Team, item.TeamID),
		Season:             itemSeason,
		ReturnYardsAllowed: item.ReturnYardsAllowed,
		Games:              item.Games,
	}
}

func firstNonEmpty(values ...string) string {
	for _, item := range values {
		if strings.TrimSpace(item) != "" {
			return strings.TrimSpace(item)
		}
	}
	return ""
}
