package gridirondata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/gridiron-fantasy/internal/platform/logging"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		Token:      "test-token",
		Logger:     logging.NewNop(),
	})
	return client, server
}

func TestClient_FetchScoringPlays_NormalizesPlayTypes(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/plays/scoring" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("api_token"); got != "test-token" {
			t.Errorf("expected api_token query param, got=%q", got)
		}
		if got := r.URL.Query().Get("season"); got != "2024" {
			t.Errorf("expected season=2024, got=%q", got)
		}
		if got := r.URL.Query().Get("week"); got != "7" {
			t.Errorf("expected week=7, got=%q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"play_type":"rushing-touchdown","player_id":"p-1","player_name":"Late Slant","yards":12},
			{"play_type":"receiving_td","player_id":"p-2","player_name":"Crossing Route","passer_id":"p-9","passer_name":"Pocket Passer","yards":45},
			{"play_type":"celebration","player_id":"p-3","player_name":"Noise Row","yards":3},
			{"play_type":"field_goal","player_id":"k-1","player_name":"Left Hash","yards":52,"made":false}
		]}`))
	}))

	plays, err := client.FetchScoringPlays(context.Background(), 2024, 7)
	if err != nil {
		t.Fatalf("FetchScoringPlays returned error: %v", err)
	}
	if len(plays) != 3 {
		t.Fatalf("expected unknown play types dropped, got %d plays", len(plays))
	}

	if plays[0].PlayType != "rushing_td" {
		t.Fatalf("expected dashed play type normalized, got=%q", plays[0].PlayType)
	}
	if !plays[0].Made {
		t.Fatalf("expected touchdown plays marked made")
	}
	if plays[1].PasserName != "Pocket Passer" || plays[1].PasserID != "p-9" {
		t.Fatalf("expected passer carried on receiving touchdowns, got=%+v", plays[1])
	}
	if plays[2].PlayType != "field_goal" || plays[2].Made {
		t.Fatalf("expected missed field goal kept with made=false, got=%+v", plays[2])
	}
	if plays[0].Season != 2024 || plays[0].Week != 7 {
		t.Fatalf("expected season/week stamped from request, got=%+v", plays[0])
	}
}

func TestClient_FetchWeekStats_BuildsCanonicalStatLine(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stats/weekly" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"player_id":"p-9","player_name":"Pocket Passer","team":"KC","position":"qb",
			 "completions":28,"passing_yards":320,"passing_tds":3,"interceptions":1,
			 "rushing_yards":0,"receptions":0}
		]}`))
	}))

	lines, err := client.FetchWeekStats(context.Background(), 2024, 7)
	if err != nil {
		t.Fatalf("FetchWeekStats returned error: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected one stat line, got=%d", len(lines))
	}

	line := lines[0]
	if line.Position != "QB" {
		t.Fatalf("expected position upper-cased, got=%q", line.Position)
	}
	if line.Season != 2024 || line.Week != 7 {
		t.Fatalf("expected season/week stamped, got season=%d week=%d", line.Season, line.Week)
	}
	if got := line.Stats[scoring.StatPassingYards]; got != 320 {
		t.Fatalf("expected passing yards 320, got=%v", got)
	}
	if got := line.Stats[scoring.StatPassingTouchdowns]; got != 3 {
		t.Fatalf("expected 3 passing tds, got=%v", got)
	}
	if _, ok := line.Stats[scoring.StatRushingYards]; ok {
		t.Fatalf("expected zero-valued stats omitted from the line")
	}
}

func TestClient_FetchPlayers_WalksPages(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("page") {
		case "1":
			_, _ = w.Write([]byte(`{"data":[
				{"id":"p-2","name":"Crossing Route","team":"KC","position":"WR","status":"Active"},
				{"id":"p-1","name":"Late Slant","team":"DEN","position":"RB"}
			],"pagination":{"current_page":1,"has_more":true}}`))
		case "2":
			_, _ = w.Write([]byte(`{"data":[
				{"id":"p-1","name":"Late Slant","team":"DEN","position":"RB"},
				{"id":"p-3","name":"Benched Veteran","team":"NYJ","position":"TE","status":"inactive"}
			],"pagination":{"current_page":2,"has_more":false}}`))
		default:
			t.Errorf("unexpected page request: %q", r.URL.Query().Get("page"))
			_, _ = w.Write([]byte(`{"data":[]}`))
		}
	}))

	players, err := client.FetchPlayers(context.Background())
	if err != nil {
		t.Fatalf("FetchPlayers returned error: %v", err)
	}
	if len(players) != 3 {
		t.Fatalf("expected pages merged and duplicates dropped, got=%d players", len(players))
	}
	if players[0].Name != "Benched Veteran" || players[0].Active {
		t.Fatalf("expected inactive player sorted first by name, got=%+v", players[0])
	}
	if !players[2].Active {
		t.Fatalf("expected player with no status to default active, got=%+v", players[2])
	}
}

func TestClient_FetchTeamReturnStats_FillsSeason(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/teams/return-stats" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"team":"KC","return_yards_allowed":812.5,"games":12},
			{"team_id":"DEN","season":2023,"return_yards_allowed":640,"games":11},
			{"return_yards_allowed":99,"games":1}
		]}`))
	}))

	stats, err := client.FetchTeamReturnStats(context.Background(), 2024)
	if err != nil {
		t.Fatalf("FetchTeamReturnStats returned error: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected rows without a team dropped, got=%d", len(stats))
	}
	if stats[0].TeamID != "DEN" || stats[0].Season != 2023 {
		t.Fatalf("expected explicit season preserved, got=%+v", stats[0])
	}
	if stats[1].TeamID != "KC" || stats[1].Season != 2024 {
		t.Fatalf("expected missing season filled from request, got=%+v", stats[1])
	}
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, `{"message":"unknown endpoint"}`, http.StatusNotFound)
	}))
	client.maxRetries = 2

	_, err := client.FetchTeams(context.Background())
	if err == nil {
		t.Fatalf("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "status=404") {
		t.Fatalf("expected status in error, got=%v", err)
	}
	if got := attempts.Load(); got != 1 {
		t.Fatalf("expected a single attempt for non-retryable status, got=%d", got)
	}
}
