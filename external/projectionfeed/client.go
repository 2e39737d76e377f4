// Package projectionfeed talks to the weekly projection feed. The feed is a
// simple read-only JSON API, so the client rides fasthttp instead of the
// heavier net/http stack used for the stats provider.
package projectionfeed

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/player"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/gridiron-fantasy/internal/platform/logging"
	"github.com/riskibarqy/gridiron-fantasy/internal/platform/resilience"
	"github.com/riskibarqy/gridiron-fantasy/internal/usecase"
)

const (
	defaultBaseURL     = "https://feed.gridironprojections.io"
	defaultTimeout     = 10 * time.Second
	maxResponseBodyLen = 6 << 20
)

var errFeedTransient = crerr.New("projection feed transient failure")

type ClientConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	client         *fasthttp.Client
	baseURL        string
	token          string
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		client: &fasthttp.Client{
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxResponseBodyLen,
		},
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		timeout:        timeout,
		maxRetries:     maxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) FetchWeekProjections(ctx context.Context, week, year int, pos player.Position) ([]usecase.ExternalPlayerProjection, error) {
	if week <= 0 {
		return nil, fmt.Errorf("week must be greater than zero")
	}
	if year <= 0 {
		return nil, fmt.Errorf("year must be greater than zero")
	}
	if _, ok := player.AllPositions[pos]; !ok {
		return nil, fmt.Errorf("unknown position: %s", pos)
	}

	fullURL := c.baseURL + "/projections?week=" + strconv.Itoa(week) +
		"&year=" + strconv.Itoa(year) +
		"&position=" + string(pos)

	var envelope projectionsEnvelope
	if err := c.doJSON(ctx, fullURL, &envelope); err != nil {
		return nil, fmt.Errorf("fetch projections week=%d year=%d position=%s: %w", week, year, pos, err)
	}

	out := make([]usecase.ExternalPlayerProjection, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		mapped := mapProjectionItem(item, pos)
		if mapped.PlayerName == "" {
			continue
		}
		out = append(out, mapped)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PlayerName != out[j].PlayerName {
			return out[i].PlayerName < out[j].PlayerName
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, fullURL string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "projection feed circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: projection feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isFeedCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode feed payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := c.doOnce(fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !isFeedCircuitFailure(err) {
			return nil, err
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "projection feed request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) doOnce(fullURL string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	if err := c.client.DoDeadline(req, resp, time.Now().Add(c.timeout)); err != nil {
		return nil, fmt.Errorf("%w: send request: %v", errFeedTransient, err)
	}

	status := resp.StatusCode()
	// Body buffers are pooled with the response, so copy before release.
	raw := append([]byte(nil), resp.Body()...)

	if status >= 200 && status < 300 {
		return raw, nil
	}
	if isRetryableStatus(status) {
		return nil, fmt.Errorf("%w: feed status=%d body=%s", errFeedTransient, status, abbreviateBody(raw))
	}
	return nil, fmt.Errorf("feed status=%d body=%s", status, abbreviateBody(raw))
}

func isFeedCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errFeedTransient)
}

func isRetryableStatus(code int) bool {
	return code == fasthttp.StatusTooManyRequests || code >= fasthttp.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

type projectionsEnvelope struct {
	Data []projectionItem `json:"data"`
}

type projectionItem struct {
	PlayerID   string             `json:"player_id"`
	PlayerName string             `json:"player_name"`
	Team       string             `json:"team"`
	Opponent   string             `json:"opponent"`
	Position   string             `json:"position"`
	Stats      map[string]float64 `json:"stats"`
}

func mapProjectionItem(item projectionItem, pos player.Position) usecase.ExternalPlayerProjection {
	position := strings.ToUpper(strings.TrimSpace(item.Position))
	if position == "" {
		position = string(pos)
	}

	return usecase.ExternalPlayerProjection{
		PlayerID:   strings.TrimSpace(item.PlayerID),
		PlayerName: strings.TrimSpace(item.PlayerName),
		TeamID:     strings.TrimSpace(item.Team),
		Opponent:   strings.TrimSpace(item.Opponent),
		Position:   position,
		Stats:      canonicalStatLine(item.Stats),
	}
}

// feedStatKeys maps the feed's wire names onto the scorer's stat keys. The
// feed mostly mirrors them but keeps a few legacy shorthands around.
var feedStatKeys = map[string]string{
	"completions":           scoring.StatCompletions,
	"pass_completions":      scoring.StatCompletions,
	"passing_yards":         scoring.StatPassingYards,
	"pass_yds":              scoring.StatPassingYards,
	"passing_tds":           scoring.StatPassingTouchdowns,
	"pass_tds":              scoring.StatPassingTouchdowns,
	"interceptions":         scoring.StatInterceptions,
	"ints":                  scoring.StatInterceptions,
	"sacks":                 scoring.StatSacks,
	"rushing_attempts":      scoring.StatRushingAttempts,
	"rush_att":              scoring.StatRushingAttempts,
	"rushing_yards":         scoring.StatRushingYards,
	"rush_yds":              scoring.StatRushingYards,
	"rushing_tds":           scoring.StatRushingTouchdowns,
	"rush_tds":              scoring.StatRushingTouchdowns,
	"receptions":            scoring.StatReceptions,
	"receiving_yards":       scoring.StatReceivingYards,
	"rec_yds":               scoring.StatReceivingYards,
	"receiving_tds":         scoring.StatReceivingTouchdowns,
	"rec_tds":               scoring.StatReceivingTouchdowns,
	"return_yards":          scoring.StatReturnYards,
	"return_tds":            scoring.StatReturnTouchdowns,
	"fumbles_lost":          scoring.StatFumblesLost,
	"fumble_recovered_tds":  scoring.StatFumbleRecoveryTDs,
	"two_point_conversions": scoring.StatTwoPointConversions,
	"pats_made":             scoring.StatPointsAfterMade,
	"xp_made":               scoring.StatPointsAfterMade,
	"field_goals_made":      scoring.StatFieldGoalsMade,
	"fg_made":               scoring.StatFieldGoalsMade,
	"fg_made_0_19":          scoring.StatFieldGoals0to19,
	"fg_made_20_29":         scoring.StatFieldGoals20to29,
	"fg_made_30_39":         scoring.StatFieldGoals30to39,
	"fg_made_40_49":         scoring.StatFieldGoals40to49,
	"fg_made_50_plus":       scoring.StatFieldGoals50Plus,
	"fumble_recoveries":     scoring.StatFumbleRecoveries,
	"fumbles_forced":        scoring.StatFumblesForced,
	"safeties":              scoring.StatSafeties,
	"defensive_tds":         scoring.StatDefensiveTouchdowns,
	"blocked_kicks":         scoring.StatBlockedKicks,
	"two_point_returns":     scoring.StatTwoPointReturns,
	"points_allowed":        scoring.StatPointsAllowed,
	"yards_allowed":         scoring.StatYardsAllowed,
}

func canonicalStatLine(stats map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(stats))
	for key, value := range stats {
		canonical, ok := feedStatKeys[strings.ToLower(strings.TrimSpace(key))]
		if !ok || value == 0 {
			continue
		}
		out[canonical] += value
	}
	return out
}
