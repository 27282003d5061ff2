package cmd

import "math/rand"

func stdRandFloat64() float64 {
	return rand.Float64() //nolint:gosec // G404: kite jitter has no security relevance
}
