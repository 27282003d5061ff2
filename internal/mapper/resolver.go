package mapper

import (
	"github.com/outrider/wayfinder/internal/geo"
	"github.com/outrider/wayfinder/internal/mapconst"
	"github.com/outrider/wayfinder/internal/worldapi"
)

// ResolveTempleCenter clusters TGT waygate-device markers into a single
// walkable center, or reports false if none are present this tick.
func ResolveTempleCenter(snap worldapi.Snapshot) (geo.Pos, bool) {
	var points []geo.Pos
	for name, pts := range snap.TGTLocations {
		if containsFold(name, mapconst.TempleTGTNameSubstr) {
			points = append(points, pts...)
		}
	}
	return ClusterTGTs(points, mapconst.TempleClusterRadius)
}

// BossCandidate is one scored boss resolution outcome.
type BossCandidate struct {
	EntityID uint64
	Pos      geo.Pos
	Score    int
	Likely   bool
}

// ResolveBossTarget picks the best-scoring monster entity from the radar's
// unique/rare candidates, preferring candidates near a known arena anchor.
// Candidates too close to the temple center are rejected outright so a
// leftover temple guardian never gets mistaken for the map boss.
func ResolveBossTarget(entities []worldapi.Entity, anchors []geo.Pos, templeCenter geo.Pos, hasTemple bool) (BossCandidate, bool) {
	best := BossCandidate{}
	found := false
	for _, e := range entities {
		if e.ID == 0 {
			continue
		}
		if RejectNearTemple(e.Grid, templeCenter, hasTemple) {
			continue
		}
		score, likely := ScoreCandidate(e, anchors)
		if !likely {
			continue
		}
		if !found || score > best.Score {
			best = BossCandidate{EntityID: e.ID, Pos: e.Grid, Score: score, Likely: likely}
			found = true
		}
	}
	return best, found
}

// ResolveBossCheckpoint finds the named endgame-boss checkpoint TGT, the
// highest-priority boss-area target source.
func ResolveBossCheckpoint(snap worldapi.Snapshot) (geo.Pos, bool) {
	for name, pts := range snap.TGTLocations {
		if len(pts) == 0 {
			continue
		}
		if containsFold(name, mapconst.BossCheckpointMetadata) {
			return pts[0], true
		}
	}
	return geo.Zero, false
}

// CollectArenaAnchors gathers every known arena-anchor TGT position, used
// both for scoring and as the WALK_BOSS_CHECKPOINT fallback target.
func CollectArenaAnchors(snap worldapi.Snapshot) []geo.Pos {
	var out []geo.Pos
	for name, pts := range snap.TGTLocations {
		for _, cand := range mapconst.ArenaAnchorPatterns {
			if containsFold(name, cand.Pattern) {
				out = append(out, pts...)
			}
		}
	}
	return out
}

// IsAbandonedTarget reports whether `candidate` is far enough from the
// previous target that the resolver should treat it as a fresh pick rather
// than noise around the same target (merge radius from spec.md's abandoned-
// target rejection rule).
func IsAbandonedTarget(previous, candidate geo.Pos, hasPrevious bool) bool {
	if !hasPrevious {
		return false
	}
	return !geo.Within(previous, candidate, mapconst.AbandonedMergeRadius)
}
