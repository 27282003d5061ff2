// Package mapper implements the hierarchical objective state machine that
// drives one map run: find the temple, walk to it, clear it, find the map
// boss, walk to its checkpoint and then into melee range, fight it, and
// report completion. Every external dependency — game-memory reads,
// pathfinding, packet emission — comes in through the worldapi interfaces,
// so Tick is a pure function of (Mapper, Snapshot) that production code and
// tests can drive identically.
package mapper

import (
	"strings"
	"time"

	"github.com/outrider/wayfinder/internal/geo"
	"github.com/outrider/wayfinder/internal/mapconst"
	"github.com/outrider/wayfinder/internal/worldapi"
)

// Mapper owns every piece of state a run accumulates. Nothing here is
// global; a test can construct as many independent Mappers as it needs.
type Mapper struct {
	world worldapi.WorldReader
	pf    worldapi.Pathfinder
	rand  geo.Rand

	state State

	walker *Walker
	path   PathState
	temple TempleState
	boss   BossState
	orbit  *OrbitState
	engage EngageState
	gate   emissionGate

	lastAreaChange uint64

	fightLastLogicAt time.Time
	lastCombatIntent time.Time

	// abandoned holds positions the resolver should never re-pick:
	// checkpoints/anchors/candidates that consistently produced NoPath.
	abandoned []geo.Pos

	OnDebug func(event string, fields map[string]any)
}

// isAbandoned reports whether p falls within the merge radius of a
// previously abandoned target.
func (m *Mapper) isAbandoned(p geo.Pos) bool {
	for _, a := range m.abandoned {
		if geo.Within(p, a, mapconst.AbandonedMergeRadius) {
			return true
		}
	}
	return false
}

// markAbandoned records p as unreachable, unless it already falls within an
// existing abandoned entry's merge radius.
func (m *Mapper) markAbandoned(p geo.Pos) {
	if m.isAbandoned(p) {
		return
	}
	m.abandoned = append(m.abandoned, p)
}

// New constructs a Mapper in StateIdle, ready to Tick.
func New(world worldapi.WorldReader, pf worldapi.Pathfinder, rand geo.Rand) *Mapper {
	return &Mapper{
		world:  world,
		pf:     pf,
		rand:   rand,
		state:  StateIdle,
		walker: NewWalker(world, pf),
		orbit:  NewOrbitState(),
	}
}

// State reports the current top-level state.
func (m *Mapper) State() State { return m.state }

// TempleCenter reports the resolved temple center, if one has been found.
func (m *Mapper) TempleCenter() (geo.Pos, bool) { return m.temple.Center, m.temple.HasCenter }

// SkipBoss is the operator-requested skip-to-boss action behind the
// "skip-boss" settings flag: from any state before FIND_BOSS it clears the
// temple state and moves straight to FIND_BOSS. It is a no-op once a boss
// state or COMPLETE has been reached.
func (m *Mapper) SkipBoss() {
	switch m.state {
	case StateIdle, StateFindTemple, StateWalkTemple, StateClearTemple:
		m.debug("skip_to_boss", nil)
		m.temple.Reset()
		m.transition(StateFindBoss)
		m.path = PathState{}
	}
}

func (m *Mapper) debug(event string, fields map[string]any) {
	if m.OnDebug != nil {
		m.OnDebug(event, fields)
	}
}

func (m *Mapper) transition(next State) {
	if next == m.state {
		return
	}
	m.debug("state_transition", map[string]any{"from": m.state.String(), "to": next.String()})
	m.state = next
}

func isHubArea(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, mapconst.HubSubstrHideout) ||
		strings.Contains(lower, mapconst.HubSubstrTown) ||
		strings.Contains(lower, mapconst.HubSubstrEncampment)
}

// Tick advances the state machine by one world snapshot and returns the
// intents this tick wants applied, gated by the packet emission limiter.
func (m *Mapper) Tick(snap worldapi.Snapshot) []Intent {
	if snap.AreaChangeCount != m.lastAreaChange {
		m.onAreaChange(snap)
	}

	if !snap.Area.IsValid || isHubArea(snap.Area.AreaName) {
		if m.state != StateIdle {
			m.debug("reset_non_map_area", map[string]any{"area": snap.Area.AreaName})
			m.resetRun()
		}
		return nil
	}

	if snap.MovementLock.Locked {
		m.debug("peer_lock_yield", map[string]any{"source": snap.MovementLock.Source})
		return m.gated(snap, stopIntent("peer_lock"))
	}

	if m.state == StateIdle {
		m.transition(StateFindTemple)
	}

	var intent Intent
	switch m.state {
	case StateFindTemple:
		intent = m.tickFindTemple(snap)
	case StateWalkTemple:
		intent = m.tickWalkTemple(snap)
	case StateClearTemple:
		intent = m.tickClearTemple(snap)
	case StateFindBoss:
		intent = m.tickFindBoss(snap)
	case StateWalkBossCheckpoint:
		intent = m.tickWalkBossCheckpoint(snap)
	case StateWalkBossMelee:
		intent = m.tickWalkBossMelee(snap)
	case StateFightBoss:
		intent = m.tickFightBoss(snap)
	case StateComplete:
		intent = Intent{}
	}

	return m.gated(snap, intent)
}

func (m *Mapper) gated(snap worldapi.Snapshot, intent Intent) []Intent {
	if intent.Kind == IntentNone {
		return nil
	}
	if !m.gate.allow(intent.Kind, intent.Label, snap.Now) {
		return nil
	}
	return []Intent{intent}
}

func (m *Mapper) onAreaChange(snap worldapi.Snapshot) {
	m.lastAreaChange = snap.AreaChangeCount
	m.debug("area_change", map[string]any{"area": snap.Area.AreaName})
	m.resetRun()
}

func (m *Mapper) resetRun() {
	m.state = StateIdle
	m.path = PathState{}
	m.temple.Reset()
	m.boss.Reset()
	m.orbit = NewOrbitState()
	m.engage = EngageState{}
	m.abandoned = nil
}

func (m *Mapper) tickFindTemple(snap worldapi.Snapshot) Intent {
	if center, ok := ResolveTempleCenter(snap); ok {
		m.temple.Center = center
		m.temple.HasCenter = true
		m.temple.FoundAt = snap.Now
		m.transition(StateWalkTemple)
	}
	return Intent{}
}

func (m *Mapper) tickWalkTemple(snap worldapi.Snapshot) Intent {
	if !m.path.HasTarget() {
		m.walker.Commit(&m.path, snap, m.temple.Center, "walk_temple")
	}
	result, intent := m.walker.Step(&m.path, snap, mapconst.TempleArrivalRadius)
	switch result {
	case PathStepArrived:
		m.temple.HasArrived = true
		m.temple.ArrivedAt = snap.Now
		m.transition(StateClearTemple)
		return m.tickClearTemple(snap)
	case PathStepStuck, PathStepNoPath:
		m.debug("walk_temple_blocked", map[string]any{"reason": resultReason(result).String()})
		return Intent{}
	}
	return intent
}

func resultReason(r PathStepResult) Reason {
	switch r {
	case PathStepStuck:
		return ReasonStuck
	case PathStepNoPath:
		return ReasonNoPath
	default:
		return ReasonNone
	}
}

func (m *Mapper) tickClearTemple(snap worldapi.Snapshot) Intent {
	if m.temple.ClearStartedAt.IsZero() {
		m.temple.ClearStartedAt = snap.Now
	}

	hasHostile := false
	for _, e := range snap.Entities {
		if e.Kind == worldapi.KindMonster && e.IsAlive &&
			geo.Within(e.Grid, m.temple.Center, mapconst.TempleClusterRadius*mapconst.TempleClearRadiusMul) {
			hasHostile = true
			break
		}
	}

	if !hasHostile {
		if m.temple.NoHostileSince.IsZero() {
			m.temple.NoHostileSince = snap.Now
		}
		atCenter := snap.HasPlayer && geo.Within(snap.Player.Grid, m.temple.Center, mapconst.TempleArrivalRadius)
		elapsed := snap.Now.Sub(m.temple.NoHostileSince)
		if (atCenter && elapsed >= mapconst.TempleNoHostilesHold) ||
			elapsed >= mapconst.TempleNoHostileNotAtCenterLimit {
			m.transition(StateFindBoss)
			m.path = PathState{}
		}
		return Intent{}
	}
	m.temple.NoHostileSince = time.Time{}

	if snap.Now.Sub(m.temple.ClearStartedAt) >= mapconst.TempleClearTimeout {
		m.debug("temple_clear_timeout", nil)
		m.transition(StateFindBoss)
		m.path = PathState{}
		return Intent{}
	}

	if !snap.HasPlayer || geo.Within(snap.Player.Grid, m.temple.Center, mapconst.TempleArrivalRadius) {
		return Intent{}
	}
	angle, d := geo.MoveVector(snap.Player.Grid, m.temple.Center, moveStepDistance)
	return moveIntent(angle, d, "clear_temple_hold")
}

func (m *Mapper) tickFindBoss(snap worldapi.Snapshot) Intent {
	if cp, ok := ResolveBossCheckpoint(snap); ok && !m.isAbandoned(cp) {
		m.boss.Checkpoint = cp
		m.boss.HasCheckpoint = true
		m.boss.Source = TargetSourceCheckpoint
		m.boss.FoundAt = snap.Now
		m.transition(StateWalkBossCheckpoint)
		return Intent{}
	}

	anchors := CollectArenaAnchors(snap)
	for _, a := range anchors {
		if m.isAbandoned(a) {
			continue
		}
		m.boss.Anchor = a
		m.boss.Source = TargetSourceArenaAnchor
		m.boss.FoundAt = snap.Now
		m.transition(StateWalkBossCheckpoint)
		return Intent{}
	}

	if cand, ok := ResolveBossTarget(snap.Entities, anchors, m.temple.Center, m.temple.HasCenter); ok && !m.isAbandoned(cand.Pos) {
		m.boss.TargetID = cand.EntityID
		m.boss.HasTarget = true
		m.boss.Anchor = cand.Pos
		m.boss.Source = TargetSourceRadarBoss
		m.boss.FoundAt = snap.Now
		m.transition(StateWalkBossMelee)
	}
	return Intent{}
}

// tryEngage probes the engagement detector and, on a positive detection,
// binds the boss target to the detected candidate and transitions straight
// into FIGHT_BOSS. Reports whether it did so, so approach ticks can skip
// the rest of their own logic for this tick.
func (m *Mapper) tryEngage(snap worldapi.Snapshot, maxEngageDist float32) bool {
	anchors := CollectArenaAnchors(snap)
	cand, found, reason := DetectEngagement(&m.engage, snap, anchors, m.temple.Center, m.temple.HasCenter, maxEngageDist)
	if !found {
		return false
	}
	m.debug("engagement_detected", map[string]any{"entity_id": cand.ID, "reason": reason.String()})
	m.boss.TargetID = cand.ID
	m.boss.HasTarget = true
	m.boss.HasEngaged = true
	m.boss.EngagedAt = snap.Now
	m.boss.LastSeenAt = snap.Now
	m.transition(StateFightBoss)
	m.path = PathState{}
	return true
}

func (m *Mapper) tickWalkBossCheckpoint(snap worldapi.Snapshot) Intent {
	if m.tryEngage(snap, mapconst.EngageMaxDistCheckpoint) {
		return Intent{}
	}

	target := m.boss.Checkpoint
	if m.boss.Source == TargetSourceArenaAnchor {
		target = m.boss.Anchor
	}
	if !m.path.HasTarget() {
		m.walker.Commit(&m.path, snap, target, "walk_boss_checkpoint")
	}
	result, intent := m.walker.Step(&m.path, snap, mapconst.TempleArrivalRadius)
	switch result {
	case PathStepArrived:
		m.transition(StateWalkBossMelee)
		m.path = PathState{}
		return Intent{}
	case PathStepStuck, PathStepNoPath:
		if snap.Now.Sub(m.boss.FoundAt) > mapconst.BossCheckpointUnreachable {
			m.debug("boss_checkpoint_unreachable", map[string]any{"target": target})
			m.markAbandoned(target)
			m.transition(StateFindBoss)
			m.boss.HasCheckpoint = false
		}
		return Intent{}
	}
	return intent
}

func (m *Mapper) tickWalkBossMelee(snap worldapi.Snapshot) Intent {
	if m.tryEngage(snap, mapconst.EngageMaxDistMelee) {
		return Intent{}
	}

	boss, ok := m.findBossEntity(snap)
	if !ok {
		if snap.Now.Sub(m.boss.FoundAt) > mapconst.BossInactivityTimeout {
			m.transition(StateFindBoss)
		}
		return Intent{}
	}
	m.boss.LastSeenAt = snap.Now

	if m.meleeEngageReady(snap, boss) {
		m.boss.HasEngaged = true
		m.boss.EngagedAt = snap.Now
		m.transition(StateFightBoss)
		m.path = PathState{}
		return Intent{}
	}

	if !m.path.HasTarget() {
		m.walker.Commit(&m.path, snap, boss.Grid, "walk_boss_melee")
	}
	result, intent := m.walker.Step(&m.path, snap, mapconst.RingReposArrival)
	if result == PathStepArrived {
		m.boss.HasEngaged = true
		m.boss.EngagedAt = snap.Now
		m.transition(StateFightBoss)
		m.path = PathState{}
		return Intent{}
	}
	return intent
}

// meleeEngageReady reports whether WALK_BOSS_MELEE's distance/hold gates
// are satisfied: immune and within BossImmuneRadius, damageable and within
// BossDamageableRadius, or continuously targetable/damageable for at least
// BossEngageHoldDuration.
func (m *Mapper) meleeEngageReady(snap worldapi.Snapshot, boss worldapi.Entity) bool {
	damageable := boss.IsTargetable && !boss.CannotBeDamaged
	if !damageable {
		m.boss.MeleeHoldSince = time.Time{}
	} else if m.boss.MeleeHoldSince.IsZero() {
		m.boss.MeleeHoldSince = snap.Now
	}

	dist := geo.Dist(snap.Player.Grid, boss.Grid)
	if boss.CannotBeDamaged && dist <= mapconst.BossImmuneRadius {
		return true
	}
	if damageable && dist <= mapconst.BossDamageableRadius {
		return true
	}
	return damageable && snap.Now.Sub(m.boss.MeleeHoldSince) >= mapconst.BossEngageHoldDuration
}

func (m *Mapper) tickFightBoss(snap worldapi.Snapshot) Intent {
	if snap.Now.Sub(m.fightLastLogicAt) < mapconst.FightBossLogicInterval {
		return Intent{}
	}
	m.fightLastLogicAt = snap.Now

	boss, ok := m.findBossEntity(snap)
	if !ok {
		if snap.Now.Sub(m.boss.LastSeenAt) > mapconst.BossInactivityTimeout {
			m.transition(StateComplete)
		}
		return Intent{}
	}
	m.boss.LastSeenAt = snap.Now

	if !boss.IsAlive {
		m.debug("boss_killed", nil)
		m.transition(StateComplete)
		return Intent{}
	}

	kite := NewKite(m.rand)
	intent := kite.Step(m.orbit, snap, boss, m.world.IsWalkable)
	if intent.Kind == IntentNone {
		if snap.Now.Sub(m.lastCombatIntent) > mapconst.RollOutSuppression*4 {
			intent = kite.EmergencyRollOut(snap, boss, m.world.IsWalkable)
		}
	}
	if intent.Kind != IntentNone {
		m.lastCombatIntent = snap.Now
	}
	return intent
}

// findBossEntity reports the tracked boss entity by ID. ok is true whenever
// the entity is present in this tick's snapshot, dead or alive — callers
// distinguish "gone from the snapshot" (ok=false, likely despawned/out of
// detection range) from "present but dead" (ok=true, IsAlive=false).
func (m *Mapper) findBossEntity(snap worldapi.Snapshot) (worldapi.Entity, bool) {
	if m.boss.HasTarget {
		for _, e := range snap.Entities {
			if e.ID == m.boss.TargetID {
				return e, true
			}
		}
	}
	anchors := CollectArenaAnchors(snap)
	if cand, ok := ResolveBossTarget(snap.Entities, anchors, m.temple.Center, m.temple.HasCenter); ok {
		m.boss.TargetID = cand.EntityID
		m.boss.HasTarget = true
		for _, e := range snap.Entities {
			if e.ID == cand.EntityID {
				return e, true
			}
		}
	}
	return worldapi.Entity{}, false
}
