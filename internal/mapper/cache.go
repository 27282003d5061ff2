package mapper

import "time"

// bucketCache holds one cached value per (distance_bucket, time_bucket)
// key, the short-TTL interior-mutability cache spec.md's open question
// calls for on the engagement probe: expensive per-tick scans get reused
// across ticks that fall in the same coarse bucket instead of
// re-evaluating every tick.
type bucketCache struct {
	key   cacheKey
	value engageProbe
	has   bool
}

type cacheKey struct {
	distanceBucket int
	timeBucket     int64
}

func distanceBucket(d float32, bucketSize float32) int {
	if bucketSize <= 0 {
		bucketSize = 1
	}
	return int(d / bucketSize)
}

func timeBucket(t time.Time, window time.Duration) int64 {
	if window <= 0 {
		window = time.Millisecond
	}
	return t.UnixNano() / int64(window)
}

func (c *bucketCache) get(key cacheKey) (engageProbe, bool) {
	if c.has && c.key == key {
		return c.value, true
	}
	return engageProbe{}, false
}

func (c *bucketCache) set(key cacheKey, value engageProbe) {
	c.key = key
	c.value = value
	c.has = true
}
