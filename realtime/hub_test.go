package realtime

import (
	"context"
	"encoding/json"
	"testing"

	"translatescore/core"
)

func TestHubSubscribeBroadcastUnsubscribe(t *testing.T) {
	h := NewHub()
	id, ch := h.Subscribe(1)

	ev := core.NewPointsAdjusted("bob", "t1", core.KindVoteChange, 2, 12)
	h.Broadcast(context.Background(), ev)

	received := <-ch
	if received.UserID != "bob" || received.Type != core.EventPointsAdjusted {
		t.Fatalf("unexpected event: %+v", received)
	}

	h.Unsubscribe(id)
	_, ok := <-ch
	if ok {
		t.Fatal("expected channel closed after unsubscribe")
	}
}

func TestMarshalJSON(t *testing.T) {
	ev := core.NewBadgeUnlocked("alice", "t1", core.KindCreate, core.BadgeRisingStar, 50)
	b := MarshalJSON(ev)
	var out core.Event
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Badge != core.BadgeRisingStar {
		t.Fatalf("unexpected badge: %s", out.Badge)
	}
}
