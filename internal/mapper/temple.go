package mapper

import (
	"time"

	"github.com/outrider/wayfinder/internal/geo"
)

// TempleState tracks progress through FIND_TEMPLE/WALK_TEMPLE/CLEAR_TEMPLE.
type TempleState struct {
	Center       geo.Pos
	HasCenter    bool
	FoundAt      time.Time
	ArrivedAt    time.Time
	HasArrived   bool
	NoHostileSince time.Time
	ClearStartedAt time.Time
}

func (t *TempleState) Reset() {
	*t = TempleState{}
}

// ClusterTGTs greedily merges nearby TGT waygate-device markers into one
// representative center, the way a temple's several device anchors collapse
// into a single walkable point. O(n^2) over typically single-digit inputs.
func ClusterTGTs(points []geo.Pos, radius float32) (geo.Pos, bool) {
	if len(points) == 0 {
		return geo.Zero, false
	}
	used := make([]bool, len(points))
	bestCluster := []geo.Pos{points[0]}
	used[0] = true
	for i := 1; i < len(points); i++ {
		for _, c := range bestCluster {
			if geo.Within(c, points[i], radius) {
				bestCluster = append(bestCluster, points[i])
				used[i] = true
				break
			}
		}
	}
	for {
		grew := false
		for i, p := range points {
			if used[i] {
				continue
			}
			for _, c := range bestCluster {
				if geo.Within(c, p, radius) {
					bestCluster = append(bestCluster, p)
					used[i] = true
					grew = true
					break
				}
			}
		}
		if !grew {
			break
		}
	}

	var sumX, sumY float32
	for _, p := range bestCluster {
		sumX += p.X
		sumY += p.Y
	}
	n := float32(len(bestCluster))
	return geo.Pos{X: sumX / n, Y: sumY / n}, true
}
