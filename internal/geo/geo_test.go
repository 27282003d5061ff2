package geo

import "testing"

func TestDistAndWithin(t *testing.T) {
	a := Pos{X: 0, Y: 0}
	b := Pos{X: 3, Y: 4}
	if d := Dist(a, b); d != 5 {
		t.Fatalf("expected dist 5, got %v", d)
	}
	if !Within(a, b, 5) {
		t.Fatalf("expected within radius 5")
	}
	if Within(a, b, 4) {
		t.Fatalf("expected not within radius 4")
	}
}

func TestIsZero(t *testing.T) {
	if !Zero.IsZero() {
		t.Fatalf("expected zero sentinel to report IsZero")
	}
	if (Pos{X: 1}).IsZero() {
		t.Fatalf("expected non-zero pos to report false")
	}
}

func TestScreenAngleDegCardinal(t *testing.T) {
	angle := ScreenAngleDeg(1, 0)
	if angle <= 0 || angle >= 90 {
		t.Fatalf("expected angle in (0,90) for +x delta, got %v", angle)
	}
}

func TestMoveVectorClampsDistance(t *testing.T) {
	from := Pos{X: 0, Y: 0}
	to := Pos{X: 100, Y: 0}
	_, dist := MoveVector(from, to, 10)
	if dist > 10 {
		t.Fatalf("expected clamped distance <= 10, got %v", dist)
	}
}

type fixedRand struct{ v float64 }

func (f fixedRand) Float64() float64 { return f.v }

func TestRandomAngleDegRange(t *testing.T) {
	a := RandomAngleDeg(fixedRand{v: 0.5})
	if a != 180 {
		t.Fatalf("expected 180 for 0.5 entropy, got %v", a)
	}
}
