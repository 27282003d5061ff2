package worldapi

import "github.com/outrider/wayfinder/internal/geo"

// WorldReader is the inbound capability record: everything the Mapper reads
// from the external game-memory reader and its sibling plugins.
type WorldReader interface {
	GetLocalPlayer() (Player, bool)
	GetEntities(filter EntityFilter) []Entity
	GetRadarPaths() []RadarPath
	GetTGTLocations() map[string][]geo.Pos
	GetAreaInfo() AreaInfo
	GetAreaChangeCount() uint64
	IsWalkable(p geo.Pos) bool
	IsMovementLocked() MovementLock
}

// Pathfinder is the inbound capability record for path computation.
type Pathfinder interface {
	// FindPath runs A* with an iteration budget. ok is false on failure.
	FindPath(from, to geo.Pos, maxIters int) ([]geo.Pos, bool)
	// FindPathBFS runs BFS over the radar's walkable grid, with a
	// per-target distance-field cache owned by the implementation.
	FindPathBFS(from, to geo.Pos) ([]geo.Pos, bool)
}

// Emitter is the outbound capability record. The Mapper core never calls it
// directly: the caller applies the intents a tick returns, and the core's
// own emission gate has already spaced out moves, stops and dodge skills by
// then. An implementation's packet transport may add pacing of its own.
type Emitter interface {
	MoveAtAngle(angleDeg float64, distance float32) bool
	StopMovement() bool
	ExecuteChanneledSkill(skillBytes []byte, dx, dy float32, slot int) bool
}
