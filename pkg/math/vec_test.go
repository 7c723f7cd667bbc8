package math

import (
	gomath "math"
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
	if back := got.Sub(b); back != a {
		t.Errorf("Vec2.Sub() = %v, want %v", back, a)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 0, 4}
	l := v.Normalize().Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if z := (Vec3{}).Normalize(); z != (Vec3{}) {
		t.Errorf("zero Normalize() = %v, want zero vector", z)
	}
}

func TestVec3MinMaxMidpoint(t *testing.T) {
	a := Vec3{1, 5, -2}
	b := Vec3{3, -1, 4}

	if got, want := a.Min(b), (Vec3{1, -1, -2}); got != want {
		t.Errorf("Min() = %v, want %v", got, want)
	}
	if got, want := a.Max(b), (Vec3{3, 5, 4}); got != want {
		t.Errorf("Max() = %v, want %v", got, want)
	}
	if got, want := a.Midpoint(b), (Vec3{2, 2, 1}); got != want {
		t.Errorf("Midpoint() = %v, want %v", got, want)
	}
	if d := (Vec3{}).Distance(Vec3{0, 3, 4}); d != 5 {
		t.Errorf("Distance() = %v, want 5", d)
	}
}

func TestVec3IsFinite(t *testing.T) {
	if !(Vec3{1, 2, 3}).IsFinite() {
		t.Error("expected finite vector")
	}
	nan := float32(gomath.NaN())
	if (Vec3{1, nan, 3}).IsFinite() {
		t.Error("expected NaN component to be reported")
	}
	inf := float32(gomath.Inf(1))
	if (Vec3{inf, 0, 0}).IsFinite() {
		t.Error("expected Inf component to be reported")
	}
}

func TestVec3String(t *testing.T) {
	if s := (Vec3{X: 1, Y: -0.5, Z: 2}).String(); s != "(1, -0.5, 2)" {
		t.Errorf("String() = %q", s)
	}
}
