package scoring

import (
	"context"
	"testing"

	mem "translatescore/adapters/memory"
	"translatescore/analytics"
	"translatescore/core"
	"translatescore/engine"
	"translatescore/leaderboard"
	"translatescore/realtime"
)

func TestNewDefaultsAndOptions(t *testing.T) {
	hub := realtime.NewHub()
	board := leaderboard.New()
	counters := analytics.NewCounters()
	svc := New(
		WithRealtime(hub),
		WithLeaderboard(board),
		WithHook(counters),
		WithStorage(mem.New()),
		WithDispatchMode(engine.DispatchSync),
	)
	defer svc.Close()

	_, ch := hub.Subscribe(1)

	err := svc.HandleTranslationCreated(context.Background(), core.TranslationCreated{
		TranslationID: "t1",
		Snapshot:      core.TranslationSnapshot{UserID: "alice"},
	})
	if err != nil {
		t.Fatalf("handle create: %v", err)
	}

	ev := <-ch
	if ev.UserID != "alice" || ev.Type != core.EventPointsAdjusted {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if top := board.TopN(1); len(top) != 1 || top[0].Points != 5 {
		t.Fatalf("leaderboard not updated: %+v", top)
	}
	if snap := counters.Snapshot(); snap.PointsAdjusted != 1 {
		t.Fatalf("counters not updated: %+v", snap)
	}
}

func TestNewMemoryDefault(t *testing.T) {
	svc := New()
	defer svc.Close()

	err := svc.HandleTranslationCreated(context.Background(), core.TranslationCreated{
		TranslationID: "t1",
		Snapshot:      core.TranslationSnapshot{UserID: "bob"},
	})
	if err != nil {
		t.Fatalf("handle create: %v", err)
	}
	rep, err := svc.GetUser(context.Background(), "bob")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if rep.Points != 5 || rep.Badge != core.BadgeNovice {
		t.Fatalf("unexpected record: %+v", rep)
	}
}
