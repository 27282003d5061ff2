// Package mapconst centralizes the magic numbers spec.md assigns to each
// subsystem. Centralizing them here — rather than scattering literals across
// the state machine, walker, resolver, and kite — keeps the thresholds
// auditable against the specification in one place, the way the teacher
// repo centralizes its timing/directory/file constants in internal/constants.
package mapconst

import "time"

// Area guard.
const (
	// NonMapAreaPattern-matched substrings (case-insensitive) mark a hub
	// area where the core must reset and refuse to move.
	HubSubstrHideout    = "hideout"
	HubSubstrTown       = "town"
	HubSubstrEncampment = "encampment"
)

// Scheduler throttling.
const (
	FightBossLogicInterval = 150 * time.Millisecond
)

// Temple discovery/clearing.
const (
	TempleTGTNameSubstr   = "waygatedevice"
	TempleCellCenterOffX  = 11.5
	TempleCellCenterOffY  = 11.5
	TempleClusterRadius   = 100.0
	TempleArrivalRadius   = 20.0
	TempleStuckTimeout    = 5 * time.Second
	TempleClearRadiusMul  = 2.0
	TempleNoHostilesHold  = 12 * time.Second
	TempleClearTimeout    = 60 * time.Second
	TempleCenterWaitLimit = 8 * time.Second
	// TempleNoHostileNotAtCenterLimit consolidates the source's stacked
	// 8s/14s watchdogs into one ceiling (spec.md §9 open question #3).
	TempleNoHostileNotAtCenterLimit = 14 * time.Second
)

// Boss discovery.
const (
	BossCheckpointMetadata   = "Checkpoint_Endgame_Boss"
	BossFindPollInterval     = 3 * time.Second
	BossCheckpointStallLimit = 5 * time.Second
	BossCheckpointUnreachable = 32 * time.Second
	BossInactivityTimeout    = 30 * time.Second
	BossEngageHoldDuration   = 900 * time.Millisecond
	BossImmuneRadius         = 20.0
	BossDamageableRadius     = 50.0
	BossRejectNearTempleDist = 80.0
	AbandonedMergeRadius     = 50.0
)

// Arena anchor whitelist, in score-weight order.
var ArenaAnchorPatterns = []struct {
	Pattern string
	Weight  float64
}{
	{"BossArenaBlocker", 3},
	{"BossForceFieldDoorVisuals", 2},
	{"BossArenaLocker", 1},
}

// Boss candidate scoring.
const (
	BossCandidateAnchorRadius = 280.0
	LikelyBossScoreThreshold  = 5
)

// Engagement detector.
const (
	EngageThrottle          = 350 * time.Millisecond
	EngageHPSampleTTL       = 12 * time.Second
	EngageHPChangeWindow    = 4 * time.Second
	EngageHPChangeMinDelta  = 1
	EngageTargetableOpenDist = 120.0
	EngageScanRadius        = 280.0

	// Per-invocation max-engage-distance: tighter while still walking to the
	// checkpoint (a distant HP bar shouldn't short-circuit the approach),
	// wider once already walking into melee.
	EngageMaxDistCheckpoint = 160.0
	EngageMaxDistMelee      = 280.0
)

// Path walker.
const (
	WaypointAdvanceRadius  = 8.0
	CommitDebounce         = 260 * time.Millisecond
	StuckWindowNoMove      = 2.0
	StuckWindowDuration    = 3 * time.Second
	StuckMaxEvents         = 5
	MoveRateLimit          = 120 * time.Millisecond
	StopRateLimit          = 300 * time.Millisecond
	DodgeSuppressionWindow = 520 * time.Millisecond

	RepathNoPath       = 800 * time.Millisecond
	RepathShort        = 1000 * time.Millisecond
	RepathMedium       = 3000 * time.Millisecond
	RepathLong         = 5000 * time.Millisecond
	RepathCombatFloor  = 1200 * time.Millisecond
	RepathShortMaxLen  = 3
	RepathMediumMaxLen = 50

	AStarIterMin = 80_000
	AStarIterMax = 200_000
)

// Combat kite.
const (
	RingReposFarDistance   = 120.0
	RingReposArrival       = 18.0
	RingMicroStallDist     = 2.5
	RingMicroStallWindow   = 2200 * time.Millisecond

	OrbitSectorCount     = 16
	OrbitStepMin         = 2
	OrbitStepMax         = 5
	OrbitJitterSectors   = 1
	OrbitSkipRecentCount = 4
	OrbitRadiusBase      = 58.0
	OrbitRadiusJitter    = 10.0
	OrbitWaypointTTL     = 2600 * time.Millisecond
	OrbitWaypointTTLCramped = 3400 * time.Millisecond
	OrbitCrampedClearance   = 3

	FenceMinClearance = 6
	FenceRadiusMin    = 76.0
	FenceRadiusMax    = 108.0

	DodgeMinInterval    = 800 * time.Millisecond
	DodgeEngageDelay    = 500 * time.Millisecond
	DodgeFacingDotMax   = -0.12
	DodgeDefaultRadius  = 46.0
	DodgeRadiusJitter   = 8.0
	DodgeBehindMinDeg   = 30.0
	DodgeBehindMaxDeg   = 70.0
	DodgeSlot           = 0

	RollOutRadiusNear  = 68.0
	RollOutRadiusMid   = 82.0
	RollOutRadiusFar   = 96.0
	RollOutSuppression = 140 * time.Millisecond
	RollOutSlot        = 0
)

// Debug log dedup.
const LogDedupWindow = 1200 * time.Millisecond
