// Package worldapi declares the inbound/outbound capability records the
// Mapper core consumes. Per the design notes in spec.md §9, every external
// service (game memory reader, pathfinder, packet transport) is exposed as
// an interface so production code wires one concrete backend and tests
// substitute fakes — no dynamic dispatch inside the core itself.
package worldapi

import (
	"time"

	"github.com/outrider/wayfinder/internal/geo"
)

// EntityKind classifies a world entity.
type EntityKind uint8

const (
	KindMonster EntityKind = iota
	KindPlayer
	KindNPC
	KindChest
	KindShrine
	KindItem
	KindOther
)

// Subtype further classifies monster entities.
type Subtype uint8

const (
	SubtypeNone Subtype = iota
	SubtypeMonsterUnique
	SubtypeMonsterRare
	SubtypeMonsterMagic
	SubtypeMonsterFriendly
)

// World3 is a world-space coordinate (x, y, z).
type World3 struct {
	X, Y, Z float32
}

// Bounds is an entity's axis-aligned footprint, used by clearance scoring.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float32
}

// Rotation is a facing vector; nil on entities the reader can't derive one
// for (most non-boss monsters).
type Rotation struct {
	X, Y float32
}

// Entity is a read-only per-tick snapshot of one world object.
type Entity struct {
	ID                uint64 // 0 = absent
	Kind              EntityKind
	Rarity            uint8 // 0..3
	Subtype           Subtype
	Grid              geo.Pos
	World             World3
	HPCur             int64
	HPMax             int64
	IsAlive           bool
	IsTargetable      bool
	CannotBeDamaged   bool
	IsHidden          bool
	MetadataPath      string
	Bounds            Bounds
	Rotation          *Rotation
	Stats             map[string]float64
}

// HasStat reports whether the entity carries a named stat key at all
// (presence, not value — mirrors the source's boolean "has X stat" checks).
func (e Entity) HasStat(key string) bool {
	if e.Stats == nil {
		return false
	}
	_, ok := e.Stats[key]
	return ok
}

// RadarPath is a named endpoint with a sparse, pre-computed walkable-grid
// polyline, supplied by the sibling visualisation plugin.
type RadarPath struct {
	Name   string
	Target geo.Pos
	Path   []geo.Pos
}

// Buff is an active player buff/debuff.
type Buff struct {
	Name     string
	TimeLeft time.Duration
	Charges  int
}

// Player is the local player snapshot.
type Player struct {
	Grid       geo.Pos
	World      World3
	HPCur      int64
	HPMax      int64
	ESCur      int64
	ESMax      int64
	ManaCur    int64
	ManaMax    int64
	Buffs      []Buff
	PlayerName string
}

// AreaInfo describes the current game area.
type AreaInfo struct {
	AreaName string
	AreaID   string
	IsValid  bool
}

// MovementLock reports a peer-plugin request to yield movement control.
type MovementLock struct {
	Locked    bool
	Source    string
	Remaining time.Duration
}

// EntityFilter narrows a GetEntities call.
type EntityFilter struct {
	Kind             *EntityKind
	Subtype          *Subtype
	AliveOnly        bool
	MetadataContains string
	MaxDistance      float32
	From             geo.Pos
	Lightweight      bool // omit expensive stat/buff components
}
