package mapper

import (
	"time"

	"github.com/outrider/wayfinder/internal/geo"
	"github.com/outrider/wayfinder/internal/mapconst"
	"github.com/outrider/wayfinder/internal/worldapi"
)

// PathState holds a Walker's committed target and the waypoint queue
// currently being walked toward it.
type PathState struct {
	Target      geo.Pos
	Label       string
	Waypoints   []geo.Pos
	committedAt time.Time

	lastRepath   time.Time
	repathTier   repathTier
	noPathSince  time.Time

	lastPos      geo.Pos
	lastMoveAt   time.Time
	stuckEvents  []time.Time

	hasTarget bool
}

type repathTier uint8

const (
	repathTierNone repathTier = iota
	repathTierShort
	repathTierMedium
	repathTierLong
)

func repathInterval(tier repathTier) time.Duration {
	switch tier {
	case repathTierShort:
		return mapconst.RepathShort
	case repathTierMedium:
		return mapconst.RepathMedium
	default:
		return mapconst.RepathLong
	}
}

func tierForWaypointCount(n int) repathTier {
	switch {
	case n <= mapconst.RepathShortMaxLen:
		return repathTierShort
	case n <= mapconst.RepathMediumMaxLen:
		return repathTierMedium
	default:
		return repathTierLong
	}
}

// Walker drives one PathState toward its committed target, using a
// three-tier pathfinder fallback: pre-baked radar paths, then BFS over the
// walkable grid, then full A*.
type Walker struct {
	world worldapi.WorldReader
	pf    worldapi.Pathfinder
}

func NewWalker(world worldapi.WorldReader, pf worldapi.Pathfinder) *Walker {
	return &Walker{world: world, pf: pf}
}

// Commit sets a new target, replacing whatever the path state was walking
// toward. Committing the same target within CommitDebounce of the previous
// commit is a no-op, so noisy resolvers don't thrash the waypoint queue.
func (w *Walker) Commit(ps *PathState, snap worldapi.Snapshot, target geo.Pos, label string) {
	if ps.hasTarget && geo.Within(ps.Target, target, 0.01) &&
		snap.Now.Sub(ps.committedAt) < mapconst.CommitDebounce {
		return
	}
	*ps = PathState{
		Target:      target,
		Label:       label,
		committedAt: snap.Now,
		hasTarget:   true,
	}
}

// HasTarget reports whether ps currently has a committed target.
func (ps *PathState) HasTarget() bool {
	return ps.hasTarget
}

// Step advances one tick of walking toward ps.Target and returns the
// outcome plus, on PathStepWalking, the intent to move.
func (w *Walker) Step(ps *PathState, snap worldapi.Snapshot, arrivalRadius float32) (PathStepResult, Intent) {
	if !ps.hasTarget {
		return PathStepNoPath, Intent{}
	}
	if !snap.HasPlayer {
		return PathStepNoPath, Intent{}
	}

	if geo.Within(snap.Player.Grid, ps.Target, arrivalRadius) {
		return PathStepArrived, Intent{}
	}

	if w.needsRepath(ps, snap) {
		w.repath(ps, snap)
	}

	if len(ps.Waypoints) == 0 {
		if snap.Now.Sub(ps.noPathSince) > mapconst.RepathNoPath*4 && !ps.noPathSince.IsZero() {
			return PathStepNoPath, Intent{}
		}
		return PathStepWalking, Intent{}
	}

	next := ps.Waypoints[0]
	if geo.Within(snap.Player.Grid, next, mapconst.WaypointAdvanceRadius) {
		ps.Waypoints = ps.Waypoints[1:]
		if len(ps.Waypoints) == 0 {
			next = ps.Target
		} else {
			next = ps.Waypoints[0]
		}
	}

	if w.isStuck(ps, snap) {
		return PathStepStuck, Intent{}
	}

	angle, dist := geo.MoveVector(snap.Player.Grid, next, moveStepDistance)
	return PathStepWalking, moveIntent(angle, dist, ps.Label)
}

const moveStepDistance = 60.0

func (w *Walker) needsRepath(ps *PathState, snap worldapi.Snapshot) bool {
	if len(ps.Waypoints) == 0 && ps.lastRepath.IsZero() {
		return true
	}
	tier := tierForWaypointCount(len(ps.Waypoints))
	interval := repathInterval(tier)
	if interval < mapconst.RepathCombatFloor {
		interval = mapconst.RepathCombatFloor
	}
	return snap.Now.Sub(ps.lastRepath) >= interval
}

func (w *Walker) repath(ps *PathState, snap worldapi.Snapshot) {
	ps.lastRepath = snap.Now
	if !snap.HasPlayer {
		return
	}
	from := snap.Player.Grid

	for _, rp := range snap.RadarPaths {
		if rp.Name == ps.Label && len(rp.Path) > 0 {
			ps.Waypoints = append([]geo.Pos(nil), rp.Path...)
			ps.repathTier = tierForWaypointCount(len(ps.Waypoints))
			ps.noPathSince = time.Time{}
			return
		}
	}

	if path, ok := w.pf.FindPathBFS(from, ps.Target); ok && len(path) > 0 {
		ps.Waypoints = path
		ps.repathTier = tierForWaypointCount(len(path))
		ps.noPathSince = time.Time{}
		return
	}

	iters := mapconst.AStarIterMin
	if path, ok := w.pf.FindPath(from, ps.Target, iters); ok && len(path) > 0 {
		ps.Waypoints = path
		ps.repathTier = tierForWaypointCount(len(path))
		ps.noPathSince = time.Time{}
		return
	}

	if path, ok := w.pf.FindPath(from, ps.Target, mapconst.AStarIterMax); ok && len(path) > 0 {
		ps.Waypoints = path
		ps.repathTier = tierForWaypointCount(len(path))
		ps.noPathSince = time.Time{}
		return
	}

	if ps.noPathSince.IsZero() {
		ps.noPathSince = snap.Now
	}
	ps.Waypoints = nil
}

func (w *Walker) isStuck(ps *PathState, snap worldapi.Snapshot) bool {
	if !snap.HasPlayer {
		return false
	}
	if ps.lastMoveAt.IsZero() {
		ps.lastPos = snap.Player.Grid
		ps.lastMoveAt = snap.Now
		return false
	}
	moved := geo.Dist(ps.lastPos, snap.Player.Grid)
	if moved >= mapconst.StuckWindowNoMove {
		ps.lastPos = snap.Player.Grid
		ps.lastMoveAt = snap.Now
		ps.stuckEvents = nil
		return false
	}
	if snap.Now.Sub(ps.lastMoveAt) < mapconst.TempleStuckTimeout {
		return false
	}
	ps.stuckEvents = append(ps.stuckEvents, snap.Now)
	ps.stuckEvents = pruneOld(ps.stuckEvents, snap.Now, mapconst.StuckWindowDuration)
	ps.lastMoveAt = snap.Now
	return len(ps.stuckEvents) >= 1
}

func pruneOld(ts []time.Time, now time.Time, window time.Duration) []time.Time {
	out := ts[:0]
	for _, t := range ts {
		if now.Sub(t) <= window {
			out = append(out, t)
		}
	}
	return out
}
