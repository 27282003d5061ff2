package mapper

import (
	"time"

	"github.com/outrider/wayfinder/internal/mapconst"
)

// emissionGate throttles how often each intent kind is allowed out of a
// tick, independent of the wire transport's own pacing — the core decides
// whether an intent is even worth considering this tick.
type emissionGate struct {
	lastMove      time.Time
	lastStop      time.Time
	lastDodgeAt   time.Time
	lastRollOutAt time.Time
}

func (g *emissionGate) allow(kind IntentKind, label string, now time.Time) bool {
	switch kind {
	case IntentMove:
		if now.Sub(g.lastMove) < mapconst.MoveRateLimit {
			return false
		}
		g.lastMove = now
		return true
	case IntentStop:
		if now.Sub(g.lastStop) < mapconst.StopRateLimit {
			return false
		}
		g.lastStop = now
		return true
	case IntentChanneledSkill:
		switch label {
		case "behind_dodge":
			if now.Sub(g.lastDodgeAt) < mapconst.DodgeSuppressionWindow {
				return false
			}
			g.lastDodgeAt = now
		case "emergency_roll_out":
			if now.Sub(g.lastRollOutAt) < mapconst.RollOutSuppression {
				return false
			}
			g.lastRollOutAt = now
		}
		return true
	default:
		return true
	}
}
