package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/accuracy"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/jobscheduler"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/pattern"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/player"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/projection"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/roster"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/gridiron-fantasy/internal/platform/logging"
	"github.com/riskibarqy/gridiron-fantasy/internal/usecase"
)

type Handler struct {
	scoringService    *usecase.ScoringService
	patternService    *usecase.PatternService
	projectionService *usecase.ProjectionService
	resultService     *usecase.ResultService
	accuracyService   *usecase.AccuracyService
	rosterService     *usecase.RosterService
	lineupService     *usecase.LineupService
	ingestionService  *usecase.IngestionService
	jobOrchestrator   *usecase.JobOrchestratorService
	dashboardService  *usecase.DashboardService
	jobDispatchRepo   jobscheduler.Repository
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	scoringService *usecase.ScoringService,
	patternService *usecase.PatternService,
	projectionService *usecase.ProjectionService,
	resultService *usecase.ResultService,
	accuracyService *usecase.AccuracyService,
	rosterService *usecase.RosterService,
	lineupService *usecase.LineupService,
	ingestionService *usecase.IngestionService,
	jobOrchestrator *usecase.JobOrchestratorService,
	dashboardService *usecase.DashboardService,
	jobDispatchRepo jobscheduler.Repository,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		scoringService:    scoringService,
		patternService:    patternService,
		projectionService: projectionService,
		resultService:     resultService,
		accuracyService:   accuracyService,
		rosterService:     rosterService,
		lineupService:     lineupService,
		ingestionService:  ingestionService,
		jobOrchestrator:   jobOrchestrator,
		dashboardService:  dashboardService,
		jobDispatchRepo:   jobDispatchRepo,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeJSONBody reads a JSON request body into dst. An empty body leaves dst
// zero-valued so struct validation produces the error message.
func decodeJSONBody(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func parseRequiredIntQuery(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", usecase.ErrInvalidInput, name)
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}

	return value, nil
}

func parseOptionalIntQuery(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}

	return value, nil
}

type scoreRequest struct {
	Position   string               `json:"position" validate:"required"`
	Stats      map[string]float64   `json:"stats"`
	Touchdowns []touchdownEventBody `json:"touchdowns" validate:"omitempty,dive"`
}

type touchdownEventBody struct {
	Kind  string  `json:"kind" validate:"required"`
	Yards float64 `json:"yards" validate:"gte=0"`
}

type saveRosterRequest struct {
	Year      int      `json:"year" validate:"required,gt=0"`
	PlayerIDs []string `json:"player_ids" validate:"required,min=1,dive,required"`
}

type internalJobRunRequest struct {
	Week       int    `json:"week"`
	Year       int    `json:"year"`
	Force      bool   `json:"force"`
	DispatchID string `json:"dispatch_id"`
}

type internalJobIngestRequest struct {
	Season     int    `json:"season"`
	Weeks      []int  `json:"weeks"`
	MaxWorkers int    `json:"max_workers"`
	DispatchID string `json:"dispatch_id"`
}

type rulesDTO struct {
	Offense offenseRulesDTO `json:"offense"`
	Kicker  kickerRulesDTO  `json:"kicker"`
	Defense defenseRulesDTO `json:"defense"`
}

type offenseRulesDTO struct {
	Completion            float64        `json:"completion"`
	PassingYard           float64        `json:"passing_yard"`
	PassingTouchdown      float64        `json:"passing_td"`
	Interception          float64        `json:"interception"`
	SackTaken             float64        `json:"sack_taken"`
	RushingAttempt        float64        `json:"rushing_attempt"`
	RushingYard           float64        `json:"rushing_yard"`
	RushingTouchdown      float64        `json:"rushing_td"`
	Reception             float64        `json:"reception"`
	ReceivingYard         float64        `json:"receiving_yard"`
	ReceivingTouchdown    float64        `json:"receiving_td"`
	ReturnYard            float64        `json:"return_yard"`
	ReturnTouchdown       float64        `json:"return_td"`
	FumbleLost            float64        `json:"fumble_lost"`
	FumbleRecoveryTD      float64        `json:"fumble_recovery_td"`
	TwoPointConversion    float64        `json:"two_point_conversion"`
	PassingYardageBonus   []bandDTO      `json:"passing_yardage_bonus"`
	RushingYardageBonus   []thresholdDTO `json:"rushing_yardage_bonus"`
	ReceivingYardageBonus []thresholdDTO `json:"receiving_yardage_bonus"`
	TouchdownLengthBonus  []bandDTO      `json:"touchdown_length_bonus"`
}

type kickerRulesDTO struct {
	PointAfter    float64   `json:"point_after"`
	DistanceBands []bandDTO `json:"distance_bands"`
	FlatFieldGoal float64   `json:"flat_field_goal"`
}

type defenseRulesDTO struct {
	Sack               float64   `json:"sack"`
	Interception       float64   `json:"interception"`
	FumbleRecovery     float64   `json:"fumble_recovery"`
	FumbleForced       float64   `json:"fumble_forced"`
	Safety             float64   `json:"safety"`
	DefensiveTouchdown float64   `json:"defensive_td"`
	BlockedKick        float64   `json:"blocked_kick"`
	ReturnTouchdown    float64   `json:"return_td"`
	ReturnYard         float64   `json:"return_yard"`
	TwoPointReturn     float64   `json:"two_point_return"`
	PointsAllowedBands []bandDTO `json:"points_allowed_bands"`
	YardsAllowedBands  []bandDTO `json:"yards_allowed_bands"`
	DefaultPointsAllow float64   `json:"default_points_allowed"`
	DefaultYardsAllow  float64   `json:"default_yards_allowed"`
}

// bandDTO leaves Upper nil for open-ended tiers; math.Inf does not survive a
// JSON encoder.
type bandDTO struct {
	Lower float64  `json:"lower"`
	Upper *float64 `json:"upper,omitempty"`
	Value float64  `json:"value"`
}

type thresholdDTO struct {
	At    float64 `json:"at"`
	Value float64 `json:"value"`
}

type patternShareDTO struct {
	Lower    float64  `json:"lower"`
	Upper    *float64 `json:"upper,omitempty"`
	Count    int      `json:"count"`
	Fraction float64  `json:"fraction"`
}

type patternDistributionDTO struct {
	ActorID  string            `json:"actor_id"`
	Total    int               `json:"total"`
	AvgYards float64           `json:"avg_yards"`
	Shares   []patternShareDTO `json:"shares"`
}

type patternListDTO struct {
	Season int                      `json:"season"`
	Kind   string                   `json:"kind"`
	Count  int                      `json:"count"`
	Items  []patternDistributionDTO `json:"items"`
}

type projectionRecordDTO struct {
	ID              string  `json:"id"`
	Week            int     `json:"week"`
	Year            int     `json:"year"`
	PlayerID        string  `json:"player_id,omitempty"`
	PlayerName      string  `json:"player_name"`
	Position        string  `json:"position"`
	ProjectedPoints float64 `json:"projected_points"`
	CreatedAtUTC    string  `json:"created_at_utc"`
}

type projectionListDTO struct {
	Week     int                   `json:"week"`
	Year     int                   `json:"year"`
	Position string                `json:"position,omitempty"`
	Count    int                   `json:"count"`
	Items    []projectionRecordDTO `json:"items"`
}

type projectionResultDTO struct {
	ID              string  `json:"id"`
	Week            int     `json:"week"`
	Year            int     `json:"year"`
	PlayerID        string  `json:"player_id,omitempty"`
	PlayerName      string  `json:"player_name"`
	Position        string  `json:"position"`
	ProjectedPoints float64 `json:"projected_points"`
	ActualPoints    float64 `json:"actual_points"`
	AccuracyPct     float64 `json:"accuracy_pct"`
	CreatedAtUTC    string  `json:"created_at_utc"`
}

type weekAccuracyReportDTO struct {
	Week            int                        `json:"week"`
	Year            int                        `json:"year"`
	Samples         int                        `json:"samples"`
	MeanAccuracyPct float64                    `json:"mean_accuracy_pct"`
	Positions       []usecase.PositionAccuracy `json:"positions"`
	Best            []projectionResultDTO      `json:"best"`
	Worst           []projectionResultDTO      `json:"worst"`
}

type confidenceIntervalDTO struct {
	Position     string  `json:"position"`
	OneSigma     float64 `json:"one_sigma"`
	TwoSigma     float64 `json:"two_sigma"`
	MeanAbsError float64 `json:"mean_abs_error"`
	Samples      int     `json:"samples"`
}

type confidenceIntervalsDTO struct {
	Year  int                     `json:"year"`
	Items []confidenceIntervalDTO `json:"items"`
}

type rosterDTO struct {
	UserID       string   `json:"user_id"`
	Year         int      `json:"year"`
	PlayerIDs    []string `json:"player_ids"`
	UpdatedAtUTC string   `json:"updated_at_utc"`
}

type lineupSlotDTO struct {
	Name            string  `json:"name"`
	PlayerID        string  `json:"player_id,omitempty"`
	PlayerName      string  `json:"player_name,omitempty"`
	Position        string  `json:"position,omitempty"`
	ProjectedPoints float64 `json:"projected_points"`
	Filled          bool    `json:"filled"`
}

type lineupDTO struct {
	UserID      string          `json:"user_id"`
	Week        int             `json:"week"`
	Year        int             `json:"year"`
	Slots       []lineupSlotDTO `json:"slots"`
	TotalPoints float64         `json:"total_points"`
}

type jobDispatchDTO struct {
	DispatchID    string         `json:"dispatch_id"`
	JobName       string         `json:"job_name"`
	JobPath       string         `json:"job_path"`
	DedupID       string         `json:"dedup_id,omitempty"`
	Status        string         `json:"status"`
	Payload       map[string]any `json:"payload,omitempty"`
	ErrorMessage  string         `json:"error_message,omitempty"`
	OccurredAtUTC string         `json:"occurred_at_utc"`
	TraceID       string         `json:"trace_id,omitempty"`
	SpanID        string         `json:"span_id,omitempty"`
}

type weekActivityDTO struct {
	Week        int `json:"week"`
	PlayEvents  int `json:"play_events"`
	Projections int `json:"projections"`
	Results     int `json:"results"`
}

type dashboardDTO struct {
	Year             int                         `json:"year"`
	PatternSeason    int                         `json:"pattern_season"`
	GeneratedAtUTC   string                      `json:"generated_at_utc"`
	Weeks            []weekActivityDTO           `json:"weeks"`
	PatternCache     []usecase.PatternCacheState `json:"pattern_cache,omitempty"`
	RecentDispatches []jobDispatchDTO            `json:"recent_dispatches,omitempty"`
	RecentRuns       []usecase.IngestionRun      `json:"recent_runs,omitempty"`
}

// positionOrder is the display order for per-position listings.
var positionOrder = []player.Position{
	player.PositionQuarterback,
	player.PositionRunningBack,
	player.PositionWideReceiver,
	player.PositionTightEnd,
	player.PositionKicker,
	player.PositionDefense,
}

func rulesToDTO(ctx context.Context, rules scoring.Rules) rulesDTO {
	ctx, span := startSpan(ctx, "httpapi.rulesToDTO")
	defer span.End()

	return rulesDTO{
		Offense: offenseRulesDTO{
			Completion:            rules.Offense.Completion,
			PassingYard:           rules.Offense.PassingYard,
			PassingTouchdown:      rules.Offense.PassingTouchdown,
			Interception:          rules.Offense.Interception,
			SackTaken:             rules.Offense.SackTaken,
			RushingAttempt:        rules.Offense.RushingAttempt,
			RushingYard:           rules.Offense.RushingYard,
			RushingTouchdown:      rules.Offense.RushingTouchdown,
			Reception:             rules.Offense.Reception,
			ReceivingYard:         rules.Offense.ReceivingYard,
			ReceivingTouchdown:    rules.Offense.ReceivingTouchdown,
			ReturnYard:            rules.Offense.ReturnYard,
			ReturnTouchdown:       rules.Offense.ReturnTouchdown,
			FumbleLost:            rules.Offense.FumbleLost,
			FumbleRecoveryTD:      rules.Offense.FumbleRecoveryTD,
			TwoPointConversion:    rules.Offense.TwoPointConversion,
			PassingYardageBonus:   bandTableToDTO(rules.Offense.PassingYardageBonus),
			RushingYardageBonus:   thresholdTableToDTO(rules.Offense.RushingYardageBonus),
			ReceivingYardageBonus: thresholdTableToDTO(rules.Offense.ReceivingYardageBonus),
			TouchdownLengthBonus:  bandTableToDTO(rules.Offense.TouchdownLengthBonus),
		},
		Kicker: kickerRulesDTO{
			PointAfter:    rules.Kicker.PointAfter,
			DistanceBands: bandTableToDTO(rules.Kicker.DistanceBands),
			FlatFieldGoal: rules.Kicker.FlatFieldGoal,
		},
		Defense: defenseRulesDTO{
			Sack:               rules.Defense.Sack,
			Interception:       rules.Defense.Interception,
			FumbleRecovery:     rules.Defense.FumbleRecovery,
			FumbleForced:       rules.Defense.FumbleForced,
			Safety:             rules.Defense.Safety,
			DefensiveTouchdown: rules.Defense.DefensiveTouchdown,
			BlockedKick:        rules.Defense.BlockedKick,
			ReturnTouchdown:    rules.Defense.ReturnTouchdown,
			ReturnYard:         rules.Defense.ReturnYard,
			TwoPointReturn:     rules.Defense.TwoPointReturn,
			PointsAllowedBands: bandTableToDTO(rules.Defense.PointsAllowedBands),
			YardsAllowedBands:  bandTableToDTO(rules.Defense.YardsAllowedBands),
			DefaultPointsAllow: rules.Defense.DefaultPointsAllowed,
			DefaultYardsAllow:  rules.Defense.DefaultYardsAllowed,
		},
	}
}

func bandTableToDTO(table scoring.BandTable) []bandDTO {
	out := make([]bandDTO, 0, len(table))
	for _, band := range table {
		item := bandDTO{Lower: band.Lower, Value: band.Value}
		if !math.IsInf(band.Upper, 1) {
			upper := band.Upper
			item.Upper = &upper
		}
		out = append(out, item)
	}
	return out
}

func thresholdTableToDTO(table scoring.ThresholdTable) []thresholdDTO {
	out := make([]thresholdDTO, 0, len(table))
	for _, th := range table {
		out = append(out, thresholdDTO{At: th.At, Value: th.Value})
	}
	return out
}

func distributionToDTO(ctx context.Context, item pattern.Distribution) patternDistributionDTO {
	ctx, span := startSpan(ctx, "httpapi.distributionToDTO")
	defer span.End()

	shares := make([]patternShareDTO, 0, len(item.Shares))
	for _, share := range item.Shares {
		dto := patternShareDTO{
			Lower:    share.Lower,
			Count:    share.Count,
			Fraction: share.Fraction,
		}
		if !math.IsInf(share.Upper, 1) {
			upper := share.Upper
			dto.Upper = &upper
		}
		shares = append(shares, dto)
	}

	return patternDistributionDTO{
		ActorID:  item.ActorID,
		Total:    item.Total,
		AvgYards: item.AvgYards,
		Shares:   shares,
	}
}

func buildPatternListDTO(ctx context.Context, season int, kind string, items []pattern.Distribution) patternListDTO {
	ctx, span := startSpan(ctx, "httpapi.buildPatternListDTO")
	defer span.End()

	out := patternListDTO{
		Season: season,
		Kind:   kind,
		Count:  len(items),
		Items:  make([]patternDistributionDTO, 0, len(items)),
	}
	for _, item := range items {
		out.Items = append(out.Items, distributionToDTO(ctx, item))
	}
	return out
}

func projectionRecordToDTO(ctx context.Context, item projection.Record) projectionRecordDTO {
	ctx, span := startSpan(ctx, "httpapi.projectionRecordToDTO")
	defer span.End()

	return projectionRecordDTO{
		ID:              item.ID,
		Week:            item.Week,
		Year:            item.Year,
		PlayerID:        item.PlayerID,
		PlayerName:      item.PlayerName,
		Position:        string(item.Position),
		ProjectedPoints: item.ProjectedPoints,
		CreatedAtUTC:    item.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func projectionResultToDTO(ctx context.Context, item projection.Result) projectionResultDTO {
	ctx, span := startSpan(ctx, "httpapi.projectionResultToDTO")
	defer span.End()

	return projectionResultDTO{
		ID:              item.ID,
		Week:            item.Week,
		Year:            item.Year,
		PlayerID:        item.PlayerID,
		PlayerName:      item.PlayerName,
		Position:        string(item.Position),
		ProjectedPoints: item.ProjectedPoints,
		ActualPoints:    item.ActualPoints,
		AccuracyPct:     item.AccuracyPct,
		CreatedAtUTC:    item.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func weekReportToDTO(ctx context.Context, report usecase.WeekAccuracyReport) weekAccuracyReportDTO {
	ctx, span := startSpan(ctx, "httpapi.weekReportToDTO")
	defer span.End()

	best := make([]projectionResultDTO, 0, len(report.Best))
	for _, item := range report.Best {
		best = append(best, projectionResultToDTO(ctx, item))
	}
	worst := make([]projectionResultDTO, 0, len(report.Worst))
	for _, item := range report.Worst {
		worst = append(worst, projectionResultToDTO(ctx, item))
	}

	return weekAccuracyReportDTO{
		Week:            report.Week,
		Year:            report.Year,
		Samples:         report.Samples,
		MeanAccuracyPct: report.MeanAccuracyPct,
		Positions:       report.Positions,
		Best:            best,
		Worst:           worst,
	}
}

func intervalsToDTO(ctx context.Context, year int, intervals map[player.Position]accuracy.ConfidenceInterval) confidenceIntervalsDTO {
	ctx, span := startSpan(ctx, "httpapi.intervalsToDTO")
	defer span.End()

	out := confidenceIntervalsDTO{Year: year, Items: make([]confidenceIntervalDTO, 0, len(intervals))}
	for _, pos := range positionOrder {
		interval, ok := intervals[pos]
		if !ok {
			continue
		}
		out.Items = append(out.Items, confidenceIntervalDTO{
			Position:     string(pos),
			OneSigma:     interval.OneSigma,
			TwoSigma:     interval.TwoSigma,
			MeanAbsError: interval.MeanAbsError,
			Samples:      interval.Samples,
		})
	}
	return out
}

func rosterToDTO(ctx context.Context, item roster.Roster) rosterDTO {
	ctx, span := startSpan(ctx, "httpapi.rosterToDTO")
	defer span.End()

	return rosterDTO{
		UserID:       item.UserID,
		Year:         item.Year,
		PlayerIDs:    append([]string(nil), item.PlayerIDs...),
		UpdatedAtUTC: item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func lineupToDTO(ctx context.Context, item roster.Lineup) lineupDTO {
	ctx, span := startSpan(ctx, "httpapi.lineupToDTO")
	defer span.End()

	slots := make([]lineupSlotDTO, 0, len(item.Slots))
	for _, slot := range item.Slots {
		slots = append(slots, lineupSlotDTO{
			Name:            string(slot.Name),
			PlayerID:        slot.PlayerID,
			PlayerName:      slot.PlayerName,
			Position:        string(slot.Position),
			ProjectedPoints: slot.ProjectedPoints,
			Filled:          slot.Filled(),
		})
	}

	return lineupDTO{
		UserID:      item.UserID,
		Week:        item.Week,
		Year:        item.Year,
		Slots:       slots,
		TotalPoints: item.TotalPoints,
	}
}

func dispatchEventToDTO(ctx context.Context, item jobscheduler.DispatchEvent) jobDispatchDTO {
	ctx, span := startSpan(ctx, "httpapi.dispatchEventToDTO")
	defer span.End()

	return jobDispatchDTO{
		DispatchID:    item.DispatchID,
		JobName:       item.JobName,
		JobPath:       item.JobPath,
		DedupID:       item.DedupID,
		Status:        string(item.Status),
		Payload:       item.Payload,
		ErrorMessage:  item.ErrorMessage,
		OccurredAtUTC: item.OccurredAt.UTC().Format(time.RFC3339),
		TraceID:       item.TraceID,
		SpanID:        item.SpanID,
	}
}

func dashboardToDTO(ctx context.Context, item usecase.OpsDashboard) dashboardDTO {
	ctx, span := startSpan(ctx, "httpapi.dashboardToDTO")
	defer span.End()

	weeks := make([]weekActivityDTO, 0, len(item.Weeks))
	for _, week := range item.Weeks {
		weeks = append(weeks, weekActivityDTO{
			Week:        week.Week,
			PlayEvents:  week.PlayEvents,
			Projections: week.Projections,
			Results:     week.Results,
		})
	}

	dispatches := make([]jobDispatchDTO, 0, len(item.RecentDispatches))
	for _, dispatch := range item.RecentDispatches {
		dispatches = append(dispatches, dispatchEventToDTO(ctx, dispatch))
	}

	return dashboardDTO{
		Year:             item.Year,
		PatternSeason:    item.PatternSeason,
		GeneratedAtUTC:   item.GeneratedAt.UTC().Format(time.RFC3339),
		Weeks:            weeks,
		PatternCache:     item.PatternCache,
		RecentDispatches: dispatches,
		RecentRuns:       item.RecentRuns,
	}
}
