package mapper

import (
	"time"

	"github.com/outrider/wayfinder/internal/geo"
	"github.com/outrider/wayfinder/internal/mapconst"
	"github.com/outrider/wayfinder/internal/worldapi"
)

// EngageState holds the engagement detector's per-entity HP sampling
// history and its bucketed probe cache, owned by the Mapper like every
// other piece of per-run state.
type EngageState struct {
	lastProbeAt time.Time
	hpSamples   map[uint64][]hpSample
	probeCache  bucketCache
}

type hpSample struct {
	at    time.Time
	hpCur int64
}

// engageProbe is the cached outcome of one DetectEngagement call.
type engageProbe struct {
	found  bool
	entity worldapi.Entity
	reason EngageReason
}

// DetectEngagement enumerates alive unique monsters within EngageScanRadius
// and the caller's maxEngageDist, rejects any that aren't boss-approach
// candidates (RejectNearTemple) or that don't look like the map boss
// (ScoreCandidate), and scores the survivors on HP-sample history and
// openness. The highest scorer wins; throttled to EngageThrottle, with the
// whole decision — candidate included — cached per (max-dist bucket,
// time bucket) for the throttle window, since maxEngageDist is the one
// input that varies call to call between the checkpoint and melee ticks.
func DetectEngagement(es *EngageState, snap worldapi.Snapshot, anchors []geo.Pos, templeCenter geo.Pos, hasTemple bool, maxEngageDist float32) (worldapi.Entity, bool, EngageReason) {
	key := cacheKey{
		distanceBucket: distanceBucket(maxEngageDist, 20),
		timeBucket:     timeBucket(snap.Now, mapconst.EngageThrottle),
	}
	if snap.Now.Sub(es.lastProbeAt) < mapconst.EngageThrottle {
		if p, ok := es.probeCache.get(key); ok {
			return p.entity, p.found, p.reason
		}
	}
	es.lastProbeAt = snap.Now

	if !snap.HasPlayer {
		es.probeCache.set(key, engageProbe{})
		return worldapi.Entity{}, false, EngageReasonNone
	}
	if es.hpSamples == nil {
		es.hpSamples = map[uint64][]hpSample{}
	}

	var best worldapi.Entity
	bestReason := EngageReasonNone
	bestScore := 0.0
	found := false

	for _, e := range snap.Entities {
		if e.ID == 0 || !e.IsAlive || e.Subtype != worldapi.SubtypeMonsterUnique {
			continue
		}
		if !geo.Within(snap.Player.Grid, e.Grid, mapconst.EngageScanRadius) ||
			!geo.Within(snap.Player.Grid, e.Grid, maxEngageDist) {
			continue
		}
		if RejectNearTemple(e.Grid, templeCenter, hasTemple) {
			continue
		}
		candidateScore, likely := ScoreCandidate(e, anchors)
		if !likely {
			continue
		}

		samples := append(es.hpSamples[e.ID], hpSample{at: snap.Now, hpCur: e.HPCur})
		samples = pruneHPSamples(samples, snap.Now, mapconst.EngageHPSampleTTL)
		es.hpSamples[e.ID] = samples

		engaged, reason, score := evaluateEngagement(samples, snap, e, candidateScore)
		if !engaged {
			continue
		}
		if !found || score > bestScore {
			best, bestReason, bestScore, found = e, reason, score, true
		}
	}

	es.probeCache.set(key, engageProbe{found: found, entity: best, reason: bestReason})
	return best, found, bestReason
}

// evaluateEngagement scores one candidate on hp-changing, hp-not-full, and
// a clean open shot, highest weight first, plus a distance penalty and the
// resolver's own likely-boss score as the "likely-boss" bonus.
func evaluateEngagement(samples []hpSample, snap worldapi.Snapshot, e worldapi.Entity, candidateScore int) (bool, EngageReason, float64) {
	reason := EngageReasonNone
	score := 0.0

	hpChanging := false
	if n := len(samples); n > 0 {
		latest := samples[n-1]
		for _, s := range samples[:n-1] {
			if snap.Now.Sub(s.at) <= mapconst.EngageHPChangeWindow &&
				s.hpCur-latest.hpCur >= mapconst.EngageHPChangeMinDelta {
				hpChanging = true
				break
			}
		}
	}
	hpNotFull := e.HPMax > 0 && e.HPCur < e.HPMax
	dist := geo.Dist(snap.Player.Grid, e.Grid)
	targetableOpen := e.IsTargetable && !e.CannotBeDamaged && dist < mapconst.EngageTargetableOpenDist

	if hpChanging {
		score += 80
		reason = EngageReasonHPChanging
	}
	if hpNotFull {
		score += 70
		if reason == EngageReasonNone {
			reason = EngageReasonHPNotFull
		}
	}
	if targetableOpen {
		score += 30
		if reason == EngageReasonNone {
			reason = EngageReasonTargetableOpen
		}
	}
	score -= 0.2 * float64(dist)
	score += float64(candidateScore)

	return hpChanging || hpNotFull || targetableOpen, reason, score
}

func pruneHPSamples(samples []hpSample, now time.Time, ttl time.Duration) []hpSample {
	out := samples[:0]
	for _, s := range samples {
		if now.Sub(s.at) <= ttl {
			out = append(out, s)
		}
	}
	return out
}
