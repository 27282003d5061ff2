package mapper

import (
	"math"
	"time"

	"github.com/outrider/wayfinder/internal/geo"
	"github.com/outrider/wayfinder/internal/mapconst"
	"github.com/outrider/wayfinder/internal/worldapi"
)

// OrbitState is the combat kite's persistent memory: which way it's been
// circling, how long it's been stuck doing it, and which sectors it's
// already visited recently so it doesn't oscillate between two spots.
type OrbitState struct {
	direction      int8 // +1 or -1
	currentSector  int
	recentSectors  [mapconst.OrbitSkipRecentCount]int
	recentFill     int
	microStalls    int
	reverseUntil   time.Time
	lastWaypoint   geo.Pos
	waypointSetAt  time.Time
	lastDodgeAt    time.Time
	lastPlayerPos  geo.Pos
	lastPlayerSeen time.Time
}

func NewOrbitState() *OrbitState {
	return &OrbitState{direction: 1}
}

func (o *OrbitState) markSector(s int) {
	o.recentSectors[o.recentFill%len(o.recentSectors)] = s
	o.recentFill++
}

func (o *OrbitState) sectorIsRecent(s int) bool {
	n := o.recentFill
	if n > len(o.recentSectors) {
		n = len(o.recentSectors)
	}
	for i := 0; i < n; i++ {
		if o.recentSectors[i] == s {
			return true
		}
	}
	return false
}

// Kite is the combat movement controller for FIGHT_BOSS: it rings in from
// range, orbits at melee distance, escapes fenced-in spots, and dodges
// behind-facing bursts.
type Kite struct {
	rand geo.Rand
}

func NewKite(rand geo.Rand) *Kite {
	return &Kite{rand: rand}
}

// Step computes this tick's combat movement intent.
func (k *Kite) Step(o *OrbitState, snap worldapi.Snapshot, boss worldapi.Entity, walkable func(geo.Pos) bool) Intent {
	if !snap.HasPlayer {
		return Intent{}
	}
	dist := geo.Dist(snap.Player.Grid, boss.Grid)

	if dist > mapconst.RingReposFarDistance {
		return k.ringReposition(snap, boss)
	}

	if dodge := k.behindDodge(o, snap, boss, walkable); dodge.Kind != IntentNone {
		return dodge
	}

	if escape := k.fenceEscape(o, snap, boss, walkable); escape.Kind != IntentNone {
		return escape
	}

	return k.orbit(o, snap, boss, walkable)
}

func (k *Kite) ringReposition(snap worldapi.Snapshot, boss worldapi.Entity) Intent {
	angle, d := geo.MoveVector(snap.Player.Grid, boss.Grid, moveStepDistance)
	if geo.Within(snap.Player.Grid, boss.Grid, mapconst.RingReposArrival) {
		return Intent{}
	}
	return moveIntent(angle, d, "ring_reposition")
}

func (k *Kite) orbit(o *OrbitState, snap worldapi.Snapshot, boss worldapi.Entity, walkable func(geo.Pos) bool) Intent {
	radius := mapconst.OrbitRadiusBase + float32(k.rand.Float64())*mapconst.OrbitRadiusJitter

	moved := geo.Dist(o.lastPlayerPos, snap.Player.Grid)
	if !o.lastPlayerSeen.IsZero() && moved < mapconst.RingMicroStallDist &&
		snap.Now.Sub(o.lastPlayerSeen) > mapconst.RingMicroStallWindow {
		o.microStalls++
		if o.microStalls >= 2 {
			o.direction = -o.direction
			o.microStalls = 0
		}
	}
	o.lastPlayerPos = snap.Player.Grid
	o.lastPlayerSeen = snap.Now

	needNewWaypoint := o.waypointSetAt.IsZero() ||
		snap.Now.Sub(o.waypointSetAt) > mapconst.OrbitWaypointTTL ||
		geo.Within(snap.Player.Grid, o.lastWaypoint, mapconst.WaypointAdvanceRadius)

	if needNewWaypoint {
		sector, offset, ok := k.pickWalkableSector(o, boss, radius, walkable)
		if !ok {
			return k.fenceEscape(o, snap, boss, walkable)
		}
		o.currentSector = sector
		o.markSector(sector)
		o.lastWaypoint = offset
		o.waypointSetAt = snap.Now
	}

	angle, d := geo.MoveVector(snap.Player.Grid, o.lastWaypoint, moveStepDistance)
	return moveIntent(angle, d, "orbit_kite")
}

// pickWalkableSector sweeps forward from the current sector in the orbit's
// direction, skipping recently-visited sectors, and accepts the first
// candidate whose waypoint is walkable. ok is false only when a full
// revolution turns up nothing, the caller's cue to escalate to fenceEscape.
func (k *Kite) pickWalkableSector(o *OrbitState, boss worldapi.Entity, radius float32, walkable func(geo.Pos) bool) (sector int, offset geo.Pos, ok bool) {
	step := mapconst.OrbitStepMin + int(k.rand.Float64()*float64(mapconst.OrbitStepMax-mapconst.OrbitStepMin+1))
	next := (o.currentSector + int(o.direction)*step + mapconst.OrbitSectorCount) % mapconst.OrbitSectorCount
	for tries := 0; tries < mapconst.OrbitSectorCount; tries++ {
		if !o.sectorIsRecent(next) {
			candidate := sectorWaypoint(boss, next, radius)
			if walkable == nil || walkable(candidate) {
				return next, candidate, true
			}
		}
		next = (next + int(o.direction) + mapconst.OrbitSectorCount) % mapconst.OrbitSectorCount
	}
	return 0, geo.Pos{}, false
}

func sectorWaypoint(boss worldapi.Entity, sector int, radius float32) geo.Pos {
	sectorAngle := float64(sector) * (360.0 / mapconst.OrbitSectorCount)
	rad := sectorAngle * math.Pi / 180
	return geo.Pos{
		X: boss.Grid.X + float32(math.Cos(rad))*radius,
		Y: boss.Grid.Y + float32(math.Sin(rad))*radius,
	}
}

func (k *Kite) fenceEscape(o *OrbitState, snap worldapi.Snapshot, boss worldapi.Entity, walkable func(geo.Pos) bool) Intent {
	if walkable == nil {
		return Intent{}
	}
	blocked := 0
	const probes = 8
	for i := 0; i < probes; i++ {
		rad := float64(i) * (360.0 / probes) * math.Pi / 180
		p := geo.Pos{
			X: snap.Player.Grid.X + float32(math.Cos(rad))*10,
			Y: snap.Player.Grid.Y + float32(math.Sin(rad))*10,
		}
		if !walkable(p) {
			blocked++
		}
	}
	if blocked < mapconst.FenceMinClearance {
		return Intent{}
	}

	radius := mapconst.FenceRadiusMin + float32(k.rand.Float64())*(mapconst.FenceRadiusMax-mapconst.FenceRadiusMin)
	angle := geo.RandomAngleDeg(k.rand)
	rad := angle * math.Pi / 180
	target := geo.Pos{
		X: boss.Grid.X + float32(math.Cos(rad))*radius,
		Y: boss.Grid.Y + float32(math.Sin(rad))*radius,
	}
	a, d := geo.MoveVector(snap.Player.Grid, target, moveStepDistance)
	return moveIntent(a, d, "fence_escape")
}

// dodgeCandidate is one scored landing spot considered by behindDodge or
// EmergencyRollOut.
type dodgeCandidate struct {
	pos   geo.Pos
	score float64
}

// behindDodge looks for a landing spot behind the boss's facing direction
// and, if one clears, fires a channeled-skill burst to it. Every accepted
// landing satisfies dot(unit(boss->landing), boss_facing) < DodgeFacingDotMax;
// candidates that fail that check are discarded before scoring, never
// merely penalised, so a bad roll never slips through on points alone.
func (k *Kite) behindDodge(o *OrbitState, snap worldapi.Snapshot, boss worldapi.Entity, walkable func(geo.Pos) bool) Intent {
	if boss.Rotation == nil {
		return Intent{}
	}
	if snap.Now.Sub(o.lastDodgeAt) < mapconst.DodgeMinInterval {
		return Intent{}
	}
	toPlayer := snap.Player.Grid.Sub(boss.Grid)
	mag := float32(math.Sqrt(float64(toPlayer.X*toPlayer.X + toPlayer.Y*toPlayer.Y)))
	if mag == 0 {
		return Intent{}
	}
	nx, ny := toPlayer.X/mag, toPlayer.Y/mag
	dot := nx*boss.Rotation.X + ny*boss.Rotation.Y
	if dot > mapconst.DodgeFacingDotMax {
		return Intent{}
	}

	behindAngle := math.Atan2(float64(-boss.Rotation.Y), float64(-boss.Rotation.X))
	radii := [3]float32{mapconst.DodgeDefaultRadius, mapconst.DodgeDefaultRadius - mapconst.DodgeRadiusJitter, mapconst.DodgeDefaultRadius + mapconst.DodgeRadiusJitter}
	offsetsDeg := [5]float64{0, mapconst.DodgeBehindMinDeg, -mapconst.DodgeBehindMinDeg, mapconst.DodgeBehindMaxDeg, -mapconst.DodgeBehindMaxDeg}

	var best dodgeCandidate
	haveBest := false
	for _, r := range radii {
		for _, offDeg := range offsetsDeg {
			rad := behindAngle + offDeg*math.Pi/180
			pos := geo.Pos{
				X: boss.Grid.X + float32(math.Cos(rad))*r,
				Y: boss.Grid.Y + float32(math.Sin(rad))*r,
			}
			lvec := pos.Sub(boss.Grid)
			lmag := float32(math.Sqrt(float64(lvec.X*lvec.X + lvec.Y*lvec.Y)))
			if lmag == 0 {
				continue
			}
			landDot := (lvec.X/lmag)*boss.Rotation.X + (lvec.Y/lmag)*boss.Rotation.Y
			if landDot >= mapconst.DodgeFacingDotMax {
				continue
			}
			score := -float64(landDot)
			score -= math.Abs(offDeg) / 90.0
			score -= math.Abs(float64(r-mapconst.DodgeDefaultRadius)) / mapconst.DodgeRadiusJitter
			if walkable != nil && !walkable(pos) {
				score -= 2.0
			}
			if !haveBest || score > best.score {
				best = dodgeCandidate{pos: pos, score: score}
				haveBest = true
			}
		}
	}
	if !haveBest {
		return Intent{}
	}

	o.lastDodgeAt = snap.Now
	toward := best.pos.Sub(boss.Grid)
	if toward.X*boss.Rotation.Y-toward.Y*boss.Rotation.X >= 0 {
		o.direction = 1
	} else {
		o.direction = -1
	}
	dx, dy := geo.IsoDelta(snap.Player.Grid, best.pos)
	return skillIntent(dx, dy, mapconst.DodgeSlot, "behind_dodge")
}

// EmergencyRollOut pushes the player away from the boss when no other kite
// behaviour has fired recently — the last-resort unstick. It walks the
// escalating candidate radii and takes the first walkable landing, falling
// back to the nearest radius if the walkable query is unavailable.
func (k *Kite) EmergencyRollOut(snap worldapi.Snapshot, boss worldapi.Entity, walkable func(geo.Pos) bool) Intent {
	away := snap.Player.Grid.Sub(boss.Grid)
	mag := float32(math.Sqrt(float64(away.X*away.X + away.Y*away.Y)))
	if mag == 0 {
		angle := geo.RandomAngleDeg(k.rand)
		rad := angle * math.Pi / 180
		away = geo.Pos{X: float32(math.Cos(rad)), Y: float32(math.Sin(rad))}
		mag = 1
	}
	nx, ny := away.X/mag, away.Y/mag

	radii := [3]float32{mapconst.RollOutRadiusNear, mapconst.RollOutRadiusMid, mapconst.RollOutRadiusFar}
	fallback := geo.Pos{X: snap.Player.Grid.X + nx*radii[0], Y: snap.Player.Grid.Y + ny*radii[0]}
	for _, r := range radii {
		target := geo.Pos{X: snap.Player.Grid.X + nx*r, Y: snap.Player.Grid.Y + ny*r}
		if walkable == nil || walkable(target) {
			dx, dy := geo.IsoDelta(snap.Player.Grid, target)
			return skillIntent(dx, dy, mapconst.RollOutSlot, "emergency_roll_out")
		}
	}
	dx, dy := geo.IsoDelta(snap.Player.Grid, fallback)
	return skillIntent(dx, dy, mapconst.RollOutSlot, "emergency_roll_out")
}
