package pattern

import (
	"testing"

	"github.com/riskibarqy/gridiron-fantasy/internal/domain/playevent"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/scoring"
)

func td(actorID string, yards float64) playevent.Event {
	return playevent.Event{
		Season: 2025, Week: 1, Type: playevent.TypeRushingTouchdown,
		ActorID: actorID, ActorName: actorID, Yards: yards, Made: true,
	}
}

func fg(actorID string, yards float64, made bool) playevent.Event {
	return playevent.Event{
		Season: 2025, Week: 1, Type: playevent.TypeFieldGoal,
		ActorID: actorID, ActorName: actorID, Yards: yards, Made: made,
	}
}

func TestBuildPartitionsByActor(t *testing.T) {
	events := []playevent.Event{
		td("p1", 45), td("p1", 48), td("p1", 55), td("p1", 3),
		td("p2", 12), td("p2", 80),
		td("", 60),
	}

	model := Build(2025, events, scoring.DefaultRules(), DefaultThresholds())

	d, ok := model.Touchdowns["p1"]
	if !ok {
		t.Fatal("expected p1 distribution")
	}
	if d.Total != 4 {
		t.Fatalf("p1 total = %d, want 4", d.Total)
	}
	if len(d.Shares) != 2 {
		t.Fatalf("p1 shares = %d, want 2", len(d.Shares))
	}
	if d.Shares[0].Count != 2 || d.Shares[0].Fraction != 0.5 {
		t.Fatalf("40-49 share = (%d, %v), want (2, 0.5)", d.Shares[0].Count, d.Shares[0].Fraction)
	}
	if d.Shares[1].Count != 1 || d.Shares[1].Fraction != 0.25 {
		t.Fatalf("50+ share = (%d, %v), want (1, 0.25)", d.Shares[1].Count, d.Shares[1].Fraction)
	}

	// Two touchdowns is below the minimum sample.
	if _, ok := model.Touchdowns["p2"]; ok {
		t.Fatal("p2 should be excluded below threshold")
	}
	// Unresolved actors never enter the table.
	if _, ok := model.Touchdowns[""]; ok {
		t.Fatal("empty actor id should be skipped")
	}
}

func TestBuildReturnTouchdownsCountTowardTotal(t *testing.T) {
	events := []playevent.Event{
		td("p1", 5), td("p1", 8),
		{Season: 2025, Week: 3, Type: playevent.TypeReturnTouchdown, ActorID: "p1", ActorName: "p1", Yards: 98, Made: true},
	}

	model := Build(2025, events, scoring.DefaultRules(), DefaultThresholds())

	d, ok := model.Touchdowns["p1"]
	if !ok {
		t.Fatal("expected p1 distribution with the return touchdown counted")
	}
	if d.Total != 3 {
		t.Fatalf("total = %d, want 3", d.Total)
	}
	if d.Shares[1].Count != 1 {
		t.Fatalf("50+ count = %d, want 1", d.Shares[1].Count)
	}
}

func TestBuildFieldGoalsCountMadeOnly(t *testing.T) {
	events := []playevent.Event{
		fg("k1", 18, true), fg("k1", 25, true), fg("k1", 35, true),
		fg("k1", 45, true), fg("k1", 52, true), fg("k1", 58, false),
		fg("k2", 30, true), fg("k2", 31, true), fg("k2", 32, true),
		fg("k2", 33, true), fg("k2", 55, false),
	}

	model := Build(2025, events, scoring.DefaultRules(), DefaultThresholds())

	d, ok := model.FieldGoals["k1"]
	if !ok {
		t.Fatal("expected k1 distribution")
	}
	if d.Total != 5 {
		t.Fatalf("k1 total = %d, want 5 made kicks", d.Total)
	}
	for i, share := range d.Shares {
		if share.Count != 1 || share.Fraction != 0.2 {
			t.Fatalf("k1 share %d = (%d, %v), want (1, 0.2)", i, share.Count, share.Fraction)
		}
	}

	// Four made kicks is below the kicker threshold even with five attempts.
	if _, ok := model.FieldGoals["k2"]; ok {
		t.Fatal("k2 should be excluded below threshold")
	}
}

func TestExpectedTouchdownBonus(t *testing.T) {
	events := []playevent.Event{
		td("p1", 45), td("p1", 48), td("p1", 55), td("p1", 3),
		td("short", 2), td("short", 5), td("short", 1),
	}
	model := Build(2025, events, scoring.DefaultRules(), DefaultThresholds())

	// 2 * 0.5 * 3 + 2 * 0.25 * 5 = 5.5
	if got := model.ExpectedTouchdownBonus("p1", 2); got != 5.5 {
		t.Fatalf("known actor bonus = %v, want 5.5", got)
	}

	// An actor with only short touchdowns owns a zero-share pattern, which is
	// not the same as falling back to the league averages.
	if got := model.ExpectedTouchdownBonus("short", 2); got != 0 {
		t.Fatalf("short-touchdown actor bonus = %v, want 0", got)
	}

	// 0.7 * 0.05 * 3 + 0.7 * 0.03 * 5 = 0.21 -> 0.2
	fallback := model.ExpectedTouchdownBonus("nobody", 0.7)
	if fallback != 0.2 {
		t.Fatalf("fallback bonus = %v, want 0.2", fallback)
	}
}

func TestExpectedTouchdownBonusBelowThresholdUsesFallback(t *testing.T) {
	events := []playevent.Event{td("p2", 60), td("p2", 65)}
	model := Build(2025, events, scoring.DefaultRules(), DefaultThresholds())

	// With only two recorded touchdowns p2 has no distribution, so the bonus
	// must match the league-average computation, not their own long-TD plays.
	got := model.ExpectedTouchdownBonus("p2", 1)
	want := scoring.Round1(1*0.05*3 + 1*0.03*5)
	if got != want {
		t.Fatalf("below-threshold bonus = %v, want %v", got, want)
	}
}

func TestExpectedFieldGoalPoints(t *testing.T) {
	events := []playevent.Event{
		fg("k1", 18, true), fg("k1", 25, true), fg("k1", 35, true),
		fg("k1", 45, true), fg("k1", 52, true),
	}
	model := Build(2025, events, scoring.DefaultRules(), DefaultThresholds())

	// 3 PATs + 2 FGs spread evenly: 3 + 2*0.8*3 + 2*0.2*5 = 9.8
	if got := model.ExpectedFieldGoalPoints("k1", 2, 3); got != 9.8 {
		t.Fatalf("known kicker points = %v, want 9.8", got)
	}

	// Fallback distribution works out to 3.2 points per projected field goal.
	if got := model.ExpectedFieldGoalPoints("nobody", 2, 0); got != 6.4 {
		t.Fatalf("fallback points = %v, want 6.4", got)
	}
}
