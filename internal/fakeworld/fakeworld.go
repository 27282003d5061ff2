// Package fakeworld provides in-memory WorldReader/Pathfinder/Emitter
// implementations for tests and the `wf sim` scripted-scenario command.
// Nothing here talks to a real game process; every field is plain state a
// test can poke directly between ticks.
package fakeworld

import (
	"math"

	"github.com/outrider/wayfinder/internal/geo"
	"github.com/outrider/wayfinder/internal/worldapi"
)

// World is a fully in-memory, directly mutable WorldReader + Pathfinder.
type World struct {
	Player       worldapi.Player
	HasPlayer    bool
	Entities     []worldapi.Entity
	RadarPaths   []worldapi.RadarPath
	TGTs         map[string][]geo.Pos
	Area         worldapi.AreaInfo
	AreaChanges  uint64
	Lock         worldapi.MovementLock
	Unwalkable   map[geo.Pos]bool
	PathFailures map[string]bool // keyed by "fromX,fromY->toX,toY" to force failure in tests
}

func New() *World {
	return &World{
		TGTs:       map[string][]geo.Pos{},
		Unwalkable: map[geo.Pos]bool{},
		Area:       worldapi.AreaInfo{AreaName: "TestArea", IsValid: true},
	}
}

func (w *World) GetLocalPlayer() (worldapi.Player, bool) { return w.Player, w.HasPlayer }

func (w *World) GetEntities(filter worldapi.EntityFilter) []worldapi.Entity {
	var out []worldapi.Entity
	for _, e := range w.Entities {
		if filter.AliveOnly && !e.IsAlive {
			continue
		}
		if filter.Kind != nil && e.Kind != *filter.Kind {
			continue
		}
		if filter.MaxDistance > 0 && geo.Dist(filter.From, e.Grid) > filter.MaxDistance {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (w *World) GetRadarPaths() []worldapi.RadarPath { return w.RadarPaths }
func (w *World) GetTGTLocations() map[string][]geo.Pos { return w.TGTs }
func (w *World) GetAreaInfo() worldapi.AreaInfo        { return w.Area }
func (w *World) GetAreaChangeCount() uint64             { return w.AreaChanges }
func (w *World) IsMovementLocked() worldapi.MovementLock { return w.Lock }

func (w *World) IsWalkable(p geo.Pos) bool {
	return !w.Unwalkable[p]
}

// FindPath is a direct straight-line "A*" stand-in: a handful of
// intermediate waypoints between from and to, unless the pair was marked
// as a forced failure.
func (w *World) FindPath(from, to geo.Pos, maxIters int) ([]geo.Pos, bool) {
	if w.PathFailures[pathKey(from, to)] {
		return nil, false
	}
	return straightLine(from, to, 4), true
}

// FindPathBFS mirrors FindPath for the fake, with fewer waypoints. It
// checks the same PathFailures entry as FindPath, so a forced failure
// fails both tiers at once; the two cannot be failed independently.
func (w *World) FindPathBFS(from, to geo.Pos) ([]geo.Pos, bool) {
	if w.PathFailures[pathKey(from, to)] {
		return nil, false
	}
	return straightLine(from, to, 2), true
}

func straightLine(from, to geo.Pos, steps int) []geo.Pos {
	out := make([]geo.Pos, 0, steps)
	for i := 1; i <= steps; i++ {
		t := float32(i) / float32(steps)
		out = append(out, geo.Pos{
			X: from.X + (to.X-from.X)*t,
			Y: from.Y + (to.Y-from.Y)*t,
		})
	}
	return out
}

func pathKey(from, to geo.Pos) string {
	return posKey(from) + "->" + posKey(to)
}

func posKey(p geo.Pos) string {
	return floatKey(p.X) + "," + floatKey(p.Y)
}

func floatKey(f float32) string {
	r := math.Round(float64(f)*100) / 100
	return formatFloat(r)
}

func formatFloat(f float64) string {
	neg := f < 0
	if neg {
		f = -f
	}
	whole := int64(f)
	frac := int64(math.Round((f - float64(whole)) * 100))
	s := itoa(whole) + "." + itoa(frac)
	if neg {
		s = "-" + s
	}
	return s
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// Emitter records every call it receives instead of sending packets, so
// tests can assert on what the Mapper asked for.
type Emitter struct {
	Moves []MoveCall
	Stops int
	Skills []SkillCall
}

type MoveCall struct {
	AngleDeg float64
	Distance float32
}

type SkillCall struct {
	SkillBytes []byte
	DX, DY     float32
	Slot       int
}

func (e *Emitter) MoveAtAngle(angleDeg float64, distance float32) bool {
	e.Moves = append(e.Moves, MoveCall{AngleDeg: angleDeg, Distance: distance})
	return true
}

func (e *Emitter) StopMovement() bool {
	e.Stops++
	return true
}

func (e *Emitter) ExecuteChanneledSkill(skillBytes []byte, dx, dy float32, slot int) bool {
	e.Skills = append(e.Skills, SkillCall{SkillBytes: skillBytes, DX: dx, DY: dy, Slot: slot})
	return true
}

// FixedRand is a deterministic geo.Rand for tests.
type FixedRand struct{ Values []float64; idx int }

func (r *FixedRand) Float64() float64 {
	if len(r.Values) == 0 {
		return 0.5
	}
	v := r.Values[r.idx%len(r.Values)]
	r.idx++
	return v
}
