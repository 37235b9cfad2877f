package notify

import (
	"context"
	"errors"
	"testing"

	"translatescore/core"
)

type fakeNotifier struct {
	sent []sentMessage
	err  error
}

type sentMessage struct {
	token string
	title string
	data  map[string]string
}

func (f *fakeNotifier) Send(_ context.Context, token, title, _ string, data map[string]string) error {
	f.sent = append(f.sent, sentMessage{token: token, title: title, data: data})
	return f.err
}

func user(token string) core.UserReputation {
	return core.UserReputation{UserID: "alice", Points: 10, Badge: core.BadgeNovice, PushToken: token}
}

func TestDispatchBadgeUpgradeWinsOverUpvote(t *testing.T) {
	f := &fakeNotifier{}
	d := NewDispatcher(f, nil)

	out := core.Outcome{Points: 50, Badge: core.BadgeRisingStar, BadgeUpgraded: true}
	d.Dispatch(context.Background(), user("tok"), out, core.KindVoteChange, 2, "t1")

	if len(f.sent) != 1 {
		t.Fatalf("expected one send, got %d", len(f.sent))
	}
	if f.sent[0].data["type"] != TypeBadgeUnlocked {
		t.Fatalf("expected badge_unlocked, got %s", f.sent[0].data["type"])
	}
}

func TestDispatchCreateReward(t *testing.T) {
	f := &fakeNotifier{}
	d := NewDispatcher(f, nil)

	out := core.Outcome{Points: 5, Badge: core.BadgeNovice}
	d.Dispatch(context.Background(), user("tok"), out, core.KindCreate, core.CreateDelta, "t1")

	if len(f.sent) != 1 || f.sent[0].data["type"] != TypePointsEarned {
		t.Fatalf("expected points_earned send, got %+v", f.sent)
	}
}

func TestDispatchPositiveVoteDelta(t *testing.T) {
	f := &fakeNotifier{}
	d := NewDispatcher(f, nil)

	out := core.Outcome{Points: 12, Badge: core.BadgeNovice}
	d.Dispatch(context.Background(), user("tok"), out, core.KindVoteChange, 2, "t42")

	if len(f.sent) != 1 || f.sent[0].data["type"] != TypeTranslationUpvoted {
		t.Fatalf("expected translation_upvoted send, got %+v", f.sent)
	}
	if f.sent[0].data["translation_id"] != "t42" {
		t.Fatalf("expected translation id in payload, got %+v", f.sent[0].data)
	}
}

func TestDispatchSilentOnNegativeDelta(t *testing.T) {
	f := &fakeNotifier{}
	d := NewDispatcher(f, nil)

	out := core.Outcome{Points: 2, Badge: core.BadgeNovice}
	d.Dispatch(context.Background(), user("tok"), out, core.KindVoteChange, -1, "t1")

	if len(f.sent) != 0 {
		t.Fatalf("expected no send for negative delta, got %+v", f.sent)
	}
}

func TestDispatchSilentWithoutToken(t *testing.T) {
	f := &fakeNotifier{}
	d := NewDispatcher(f, nil)

	out := core.Outcome{Points: 5, Badge: core.BadgeNovice}
	d.Dispatch(context.Background(), user(""), out, core.KindCreate, core.CreateDelta, "t1")

	if len(f.sent) != 0 {
		t.Fatal("expected silent no-op when token absent")
	}
}

func TestDispatchDeliveryFailureIsSwallowed(t *testing.T) {
	f := &fakeNotifier{err: errors.New("token expired")}
	d := NewDispatcher(f, nil)

	out := core.Outcome{Points: 5, Badge: core.BadgeNovice}
	// Must not panic or propagate; failure is observable via logs only.
	d.Dispatch(context.Background(), user("tok"), out, core.KindCreate, core.CreateDelta, "t1")

	if len(f.sent) != 1 {
		t.Fatal("send should still have been attempted")
	}
}
