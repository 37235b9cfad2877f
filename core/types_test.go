package core

import "testing"

func TestTierForPoints(t *testing.T) {
	cases := []struct {
		points int64
		want   Badge
	}{
		{0, BadgeNovice},
		{49, BadgeNovice},
		{50, BadgeRisingStar},
		{149, BadgeRisingStar},
		{150, BadgeDialectMaster},
		{10_000, BadgeDialectMaster},
	}
	for _, c := range cases {
		if got := TierForPoints(c.points); got != c.want {
			t.Fatalf("TierForPoints(%d) = %q, want %q", c.points, got, c.want)
		}
	}
}

func TestTierForPointsMonotonic(t *testing.T) {
	prev := TierRank(TierForPoints(0))
	for p := int64(1); p <= 300; p++ {
		rank := TierRank(TierForPoints(p))
		if rank < prev {
			t.Fatalf("tier rank decreased at %d points", p)
		}
		prev = rank
	}
}

func TestAdvanceClampsAtZero(t *testing.T) {
	out := Advance(3, BadgeNovice, -10)
	if out.Points != 0 {
		t.Fatalf("expected clamp to 0, got %d", out.Points)
	}
	if out.BadgeUpgraded {
		t.Fatal("point loss must never upgrade a badge")
	}
}

func TestAdvanceUpgradesOnThreshold(t *testing.T) {
	out := Advance(48, BadgeNovice, 2)
	if out.Points != 50 || out.Badge != BadgeRisingStar || !out.BadgeUpgraded {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}

func TestAdvanceBadgeSticky(t *testing.T) {
	// A user who reached Rising Star keeps it even when points drop below 50.
	out := Advance(51, BadgeRisingStar, -3)
	if out.Points != 48 {
		t.Fatalf("expected 48 points, got %d", out.Points)
	}
	if out.Badge != BadgeRisingStar || out.BadgeUpgraded {
		t.Fatalf("badge must stay sticky: %+v", out)
	}
}

func TestAdvanceRecoveryKeepsHigherBadge(t *testing.T) {
	// Rising Star clamped to 0 by losses; a small gain must not rewrite the
	// stored badge to the tier the classifier reports for the new total.
	out := Advance(0, BadgeRisingStar, 2)
	if out.Points != 2 {
		t.Fatalf("expected 2 points, got %d", out.Points)
	}
	if out.Badge != BadgeRisingStar || out.BadgeUpgraded {
		t.Fatalf("higher badge lost on recovery: %+v", out)
	}

	// From the clamped floor a genuine climb past a higher threshold still
	// upgrades.
	out = Advance(148, BadgeRisingStar, 2)
	if out.Badge != BadgeDialectMaster || !out.BadgeUpgraded {
		t.Fatalf("expected Dialect Master upgrade, got %+v", out)
	}
}

func TestAdvanceNeverDowngrades(t *testing.T) {
	deltas := []int64{5, 2, 2, -1, -2, 100, -50, 50, -200, 2}
	points := int64(0)
	badge := BadgeNovice
	best := TierRank(badge)
	for _, d := range deltas {
		out := Advance(points, badge, d)
		if r := TierRank(out.Badge); r < best {
			t.Fatalf("badge downgraded from rank %d to %d after delta %d", best, r, d)
		} else if r > best {
			best = r
		}
		if out.Points < 0 {
			t.Fatalf("negative points after delta %d", d)
		}
		points, badge = out.Points, out.Badge
	}
}

func TestAdvanceDefaultsEmptyBadge(t *testing.T) {
	out := Advance(0, "", CreateDelta)
	if out.Points != 5 || out.Badge != BadgeNovice || out.BadgeUpgraded {
		t.Fatalf("unexpected outcome for fresh record: %+v", out)
	}
}

func TestNormalizeUserID(t *testing.T) {
	id, err := NormalizeUserID(" alice ")
	if err != nil || id != "alice" {
		t.Fatalf("got %v %v", id, err)
	}
	if _, err := NormalizeUserID("   "); err == nil {
		t.Fatal("expected missing user error")
	}
}
