package mapper

import (
	"time"

	"github.com/outrider/wayfinder/internal/geo"
	"github.com/outrider/wayfinder/internal/mapconst"
	"github.com/outrider/wayfinder/internal/worldapi"
)

// BossState tracks progress through FIND_BOSS/WALK_BOSS_*/FIGHT_BOSS.
type BossState struct {
	TargetID     uint64
	HasTarget    bool
	Source       TargetSource
	Checkpoint   geo.Pos
	HasCheckpoint bool
	Anchor       geo.Pos
	HasAnchor    bool
	FoundAt      time.Time
	EngagedAt    time.Time
	HasEngaged   bool
	LastSeenAt   time.Time

	// MeleeHoldSince marks when the boss most recently became continuously
	// targetable-and-damageable during WALK_BOSS_MELEE, for the hold-based
	// engagement gate. Zero while not currently held.
	MeleeHoldSince time.Time
}

func (b *BossState) Reset() {
	*b = BossState{}
}

// ScoreCandidate reports whether an entity looks like the map boss and its
// score, mirroring the source's unique/rare-weighted heuristic: monster
// subtype (unique over rare), absolute HP pool size, and proximity to any
// known arena anchor.
func ScoreCandidate(e worldapi.Entity, anchors []geo.Pos) (score int, likely bool) {
	if !e.IsAlive || e.Kind != worldapi.KindMonster {
		return 0, false
	}
	switch e.Subtype {
	case worldapi.SubtypeMonsterUnique:
		score += 4
	case worldapi.SubtypeMonsterRare:
		score += 2
	}
	if e.HPMax > 0 {
		switch {
		case e.HPMax >= 50000:
			score += 3
		case e.HPMax >= 15000:
			score += 2
		case e.HPMax >= 5000:
			score += 1
		}
	}
	for _, a := range anchors {
		if geo.Within(e.Grid, a, mapconst.BossCandidateAnchorRadius) {
			score += 2
			break
		}
	}
	return score, score >= mapconst.LikelyBossScoreThreshold
}

// ResolveArenaAnchor scans TGT locations for the highest-weighted arena
// anchor pattern present, mirroring spec.md's checkpoint->anchor fallback.
func ResolveArenaAnchor(tgts map[string][]geo.Pos) (geo.Pos, bool) {
	var best geo.Pos
	bestWeight := float64(-1)
	found := false
	for name, pts := range tgts {
		if len(pts) == 0 {
			continue
		}
		for _, cand := range mapconst.ArenaAnchorPatterns {
			if containsFold(name, cand.Pattern) && cand.Weight > bestWeight {
				bestWeight = cand.Weight
				best = pts[0]
				found = true
			}
		}
	}
	return best, found
}

func containsFold(haystack, needle string) bool {
	hl, nl := len(haystack), len(needle)
	if nl == 0 || nl > hl {
		return nl == 0
	}
outer:
	for i := 0; i+nl <= hl; i++ {
		for j := 0; j < nl; j++ {
			a, b := haystack[i+j], needle[j]
			if toLower(a) != toLower(b) {
				continue outer
			}
		}
		return true
	}
	return false
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// RejectNearTemple reports whether a candidate boss position is too close
// to the temple center to be a genuine separate boss encounter (guards
// against a resolver re-targeting a temple guardian as "the boss").
func RejectNearTemple(candidate, templeCenter geo.Pos, hasTemple bool) bool {
	if !hasTemple {
		return false
	}
	return geo.Within(candidate, templeCenter, mapconst.BossRejectNearTempleDist)
}

// IsAbandoned reports whether a previously-seen boss target should be
// dropped because it was last seen more than timeout ago. A zero
// lastSeenAt never counts as abandoned.
func IsAbandoned(lastSeenAt, now time.Time, timeout time.Duration) bool {
	if lastSeenAt.IsZero() {
		return false
	}
	return now.Sub(lastSeenAt) > timeout
}
