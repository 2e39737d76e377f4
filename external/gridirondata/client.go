package gridirondata

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/gridiron-fantasy/internal/platform/logging"
	"github.com/riskibarqy/gridiron-fantasy/internal/platform/resilience"
	"github.com/riskibarqy/gridiron-fantasy/internal/usecase"
)

const (
	defaultBaseURL = "https://api.gridirondata.io/v1/nfl"

	playersPerPage = 100
	maxPlayerPages = 50
)

var apiTokenParamRegex = regexp.MustCompile(`api_token=[^&\s"']+`)
var errGridironTransient = crerr.New("gridirondata transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
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

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) FetchTeams(ctx context.Context) ([]usecase.ExternalTeam, error) {
	var envelope teamsEnvelope
	if _, err := c.doJSON(ctx, "/teams", nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch teams: %w", err)
	}

	out := make([]usecase.ExternalTeam, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		mapped := mapTeamItem(item)
		if mapped.ID == "" || mapped.Name == "" {
			continue
		}
		out = append(out, mapped)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *Client) FetchPlayers(ctx context.Context) ([]usecase.ExternalPlayer, error) {
	out := make([]usecase.ExternalPlayer, 0, 512)
	seen := make(map[string]struct{}, 512)

	for page := 1; page <= maxPlayerPages; page++ {
		query := map[string]string{
			"page":     strconv.Itoa(page),
			"per_page": strconv.Itoa(playersPerPage),
		}

		var envelope playersEnvelope
		if _, err := c.doJSON(ctx, "/players", query, &envelope); err != nil {
			return nil, fmt.Errorf("fetch players page=%d: %w", page, err)
		}

		for _, item := range envelope.Data {
			mapped := mapPlayerItem(item)
			if mapped.ID == "" || mapped.Name == "" {
				continue
			}
			if _, dup := seen[mapped.ID]; dup {
				continue
			}
			seen[mapped.ID] = struct{}{}
			out = append(out, mapped)
		}

		if len(envelope.Data) == 0 || !envelope.Pagination.HasMore {
			break
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (c *Client) FetchWeekStats(ctx context.Context, season, week int) ([]usecase.ExternalPlayerWeekStats, error) {
	if season <= 0 {
		return nil, fmt.Errorf("season must be greater than zero")
	}
	if week <= 0 {
		return nil, fmt.Errorf("week must be greater than zero")
	}

	query := map[string]string{
		"season": strconv.Itoa(season),
		"week":   strconv.Itoa(week),
	}

	var envelope weekStatsEnvelope
	if _, err := c.doJSON(ctx, "/stats/weekly", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch week stats season=%d week=%d: %w", season, week, err)
	}

	out := make([]usecase.ExternalPlayerWeekStats, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		mapped := mapWeekStatsItem(item, season, week)
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

func (c *Client) FetchScoringPlays(ctx context.Context, season, week int) ([]usecase.ExternalScoringPlay, error) {
	if season <= 0 {
		return nil, fmt.Errorf("season must be greater than zero")
	}
	if week <= 0 {
		return nil, fmt.Errorf("week must be greater than zero")
	}

	query := map[string]string{
		"season": strconv.Itoa(season),
		"week":   strconv.Itoa(week),
	}

	var envelope scoringPlaysEnvelope
	if _, err := c.doJSON(ctx, "/plays/scoring", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch scoring plays season=%d week=%d: %w", season, week, err)
	}

	out := make([]usecase.ExternalScoringPlay, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		mapped, ok := mapScoringPlayItem(item, season, week)
		if !ok {
			c.logger.WarnContext(ctx, "skip scoring play with unknown play type",
				"play_type", item.PlayType,
				"season", season,
				"week", week,
			)
			continue
		}
		out = append(out, mapped)
	}

	return out, nil
}

func (c *Client) FetchTeamReturnStats(ctx context.Context, season int) ([]usecase.ExternalTeamReturnStats, error) {
	if season <= 0 {
		return nil, fmt.Errorf("season must be greater than zero")
	}

	query := map[string]string{
		"season": strconv.Itoa(season),
	}

	var envelope returnStatsEnvelope
	if _, err := c.doJSON(ctx, "/teams/return-stats", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch team return stats season=%d: %w", season, err)
	}

	out := make([]usecase.ExternalTeamReturnStats, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		mapped := mapReturnStatsItem(item, season)
		if mapped.TeamID == "" {
			continue
		}
		out = append(out, mapped)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "gridirondata circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: stats provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("api_token", c.token)

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil {
				if isGridironCircuitFailure(reqErr) {
					c.breaker.RecordFailure()
				} else {
					c.breaker.RecordSuccess()
				}
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("decode provider payload: %w", err)
	}

	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errGridironTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errGridironTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else {
				if isRetryableStatus(resp.StatusCode) {
					lastErr = fmt.Errorf("%w: provider status=%d body=%s", errGridironTransient, resp.StatusCode, abbreviateBody(raw))
				} else {
					lastErr = fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
					return nil, lastErr
				}
			}
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
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "gridirondata request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	value = apiTokenParamRegex.ReplaceAllString(value, "api_token=REDACTED")
	return value
}

func isGridironCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errGridironTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	if query.Has("api_token") {
		query.Set("api_token", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
