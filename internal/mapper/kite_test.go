package mapper

import (
	"math"
	"testing"
	"time"

	"github.com/outrider/wayfinder/internal/geo"
	"github.com/outrider/wayfinder/internal/mapconst"
	"github.com/outrider/wayfinder/internal/worldapi"
)

func snapAt(player geo.Pos, now time.Time) worldapi.Snapshot {
	return worldapi.Snapshot{
		HasPlayer: true,
		Player:    worldapi.Player{Grid: player},
		Now:       now,
	}
}

func TestOrbitDirectionStableWithoutStalls(t *testing.T) {
	o := NewOrbitState()
	k := NewKite(&fixedKiteRand{v: 0.4})
	boss := worldapi.Entity{Grid: geo.Pos{X: 0, Y: 0}, IsAlive: true}

	dir := o.direction
	now := time.Now()
	for i := 0; i < 5; i++ {
		now = now.Add(500 * time.Millisecond)
		k.orbit(o, snapAt(geo.Pos{X: 50, Y: 0}, now), boss, nil)
	}
	if o.direction != dir {
		t.Fatalf("expected orbit direction to stay %d with no micro-stalls, got %d", dir, o.direction)
	}
}

func TestOrbitFlipsAfterTwoConsecutiveMicroStalls(t *testing.T) {
	o := NewOrbitState()
	k := NewKite(&fixedKiteRand{v: 0.4})
	boss := worldapi.Entity{Grid: geo.Pos{X: 0, Y: 0}, IsAlive: true}
	dir := o.direction

	player := geo.Pos{X: 50, Y: 0}
	now := time.Now()
	// Prime lastPlayerSeen so the first stall window has a baseline.
	k.orbit(o, snapAt(player, now), boss, nil)

	for i := 0; i < 2; i++ {
		now = now.Add(2300 * time.Millisecond)
		k.orbit(o, snapAt(player, now), boss, nil) // unmoved -> counts as a micro-stall
	}
	if o.direction == dir {
		t.Fatalf("expected orbit direction to flip after two consecutive micro-stalls")
	}
}

func TestBehindDodgeOnlyLandsBehindFacing(t *testing.T) {
	o := NewOrbitState()
	k := NewKite(&fixedKiteRand{v: 0.5})
	boss := worldapi.Entity{
		Grid:     geo.Pos{X: 0, Y: 0},
		Rotation: &worldapi.Rotation{X: 1, Y: 0}, // facing +X
	}
	snap := snapAt(geo.Pos{X: -40, Y: 0}, time.Now()) // player stands behind the boss already

	intent := k.behindDodge(o, snap, boss, nil)
	if intent.Kind != IntentChanneledSkill {
		t.Fatalf("expected a channeled-skill dodge intent, got %+v", intent)
	}

	// Undo geo.IsoDelta to recover the landing, then check it lies behind
	// the boss's +X facing (the boss sits at the origin).
	landX := snap.Player.Grid.X + intent.DX + intent.DY/2
	landY := snap.Player.Grid.Y + intent.DX - intent.DY/2
	mag := float32(math.Hypot(float64(landX), float64(landY)))
	if mag == 0 || landX/mag >= mapconst.DodgeFacingDotMax {
		t.Fatalf("expected the dodge to land behind the boss's facing, landed at (%v,%v)", landX, landY)
	}
}

func TestBehindDodgeRejectsWhenPlayerInFront(t *testing.T) {
	o := NewOrbitState()
	k := NewKite(&fixedKiteRand{v: 0.5})
	boss := worldapi.Entity{
		Grid:     geo.Pos{X: 0, Y: 0},
		Rotation: &worldapi.Rotation{X: 1, Y: 0},
	}
	snap := snapAt(geo.Pos{X: 40, Y: 0}, time.Now()) // player in front of the boss's facing

	intent := k.behindDodge(o, snap, boss, nil)
	if intent.Kind != IntentNone {
		t.Fatalf("expected no dodge when the player stands in front of the boss, got %+v", intent)
	}
}

func TestOrbitEscalatesToFenceEscapeWhenNoSectorWalkable(t *testing.T) {
	o := NewOrbitState()
	k := NewKite(&fixedKiteRand{v: 0.4})
	boss := worldapi.Entity{Grid: geo.Pos{X: 0, Y: 0}, IsAlive: true}
	snap := snapAt(geo.Pos{X: 50, Y: 0}, time.Now())

	intent := k.orbit(o, snap, boss, func(geo.Pos) bool { return false })
	if intent.Kind != IntentMove || intent.Label != "fence_escape" {
		t.Fatalf("expected orbit to escalate to fence_escape when every sector fails walkability, got %+v", intent)
	}
}

type fixedKiteRand struct{ v float64 }

func (r *fixedKiteRand) Float64() float64 { return r.v }
