package mapper

import (
	"testing"
	"time"

	"github.com/outrider/wayfinder/internal/geo"
	"github.com/outrider/wayfinder/internal/worldapi"
)

func TestDetectEngagementIdempotentWithinThrottle(t *testing.T) {
	es := &EngageState{}
	// Fixed to a throttle-window-aligned instant so the 50ms step below is
	// deterministically within the same time bucket, not dependent on
	// where time.Now() happens to land relative to the window boundary.
	now := time.Unix(0, 0)
	snap := worldapi.Snapshot{
		HasPlayer: true,
		Player:    worldapi.Player{Grid: geo.Pos{X: 500, Y: 500}},
		Entities: []worldapi.Entity{
			{ID: 77, Kind: worldapi.KindMonster, IsAlive: true, Subtype: worldapi.SubtypeMonsterUnique,
				HPCur: 9500, HPMax: 10000, Grid: geo.Pos{X: 540, Y: 540}, IsTargetable: true},
		},
		Now: now,
	}

	first, found1, reason1 := DetectEngagement(es, snap, nil, geo.Pos{}, false, 200)
	if !found1 {
		t.Fatalf("expected the hp-not-full candidate to be detected")
	}

	snap.Now = now.Add(50 * time.Millisecond) // still inside EngageThrottle
	second, found2, reason2 := DetectEngagement(es, snap, nil, geo.Pos{}, false, 200)
	if !found2 || second.ID != first.ID || reason2 != reason1 {
		t.Fatalf("expected an identical cached result within the throttle window, got %+v/%s vs %+v/%s",
			second, reason2, first, reason1)
	}
}

func TestDetectEngagementRejectsOutsideMaxDistance(t *testing.T) {
	es := &EngageState{}
	now := time.Now()
	snap := worldapi.Snapshot{
		HasPlayer: true,
		Player:    worldapi.Player{Grid: geo.Pos{X: 0, Y: 0}},
		Entities: []worldapi.Entity{
			{ID: 1, Kind: worldapi.KindMonster, IsAlive: true, Subtype: worldapi.SubtypeMonsterUnique,
				HPCur: 100, HPMax: 200, Grid: geo.Pos{X: 150, Y: 150}, IsTargetable: true},
		},
		Now: now,
	}

	_, found, _ := DetectEngagement(es, snap, nil, geo.Pos{}, false, 60)
	if found {
		t.Fatalf("expected a candidate beyond maxEngageDist to be rejected")
	}
}
