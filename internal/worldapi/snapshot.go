package worldapi

import (
	"time"

	"github.com/outrider/wayfinder/internal/geo"
)

// Snapshot is the single read-only view of the world a tick operates on.
// Every state read during a tick comes from here; nothing is re-queried
// mid-tick, so decisions within one tick are internally consistent.
type Snapshot struct {
	Player          Player
	HasPlayer       bool
	Entities        []Entity
	RadarPaths      []RadarPath
	TGTLocations    map[string][]geo.Pos
	Area            AreaInfo
	AreaChangeCount uint64
	MovementLock    MovementLock
	Now             time.Time
}

// BuildSnapshot pulls one consistent snapshot from a WorldReader. Entity
// filtering is left to callers (resolver/engagement stages each ask for a
// narrower slice); this pulls the broad per-tick state once.
func BuildSnapshot(r WorldReader, entities []Entity, now time.Time) Snapshot {
	player, ok := r.GetLocalPlayer()
	return Snapshot{
		Player:          player,
		HasPlayer:       ok,
		Entities:        entities,
		RadarPaths:      r.GetRadarPaths(),
		TGTLocations:    r.GetTGTLocations(),
		Area:            r.GetAreaInfo(),
		AreaChangeCount: r.GetAreaChangeCount(),
		MovementLock:    r.IsMovementLocked(),
		Now:             now,
	}
}
