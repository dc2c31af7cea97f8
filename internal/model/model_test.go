package model

import (
	"math"
	"testing"
)

func TestExponentialQuantile(t *testing.T) {
	got := Exponential(1-math.Exp(-1), 2)
	if math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("Exponential() = %v, want 0.5", got)
	}
	if v := Exponential(0, 1); v <= 0 || math.IsInf(v, 0) {
		t.Fatalf("Exponential(0) = %v, want small positive", v)
	}
	if v := Exponential(1, 1); math.IsInf(v, 0) {
		t.Fatalf("Exponential(1) = %v, want finite", v)
	}
}

func TestGammaUnitCVIsExponential(t *testing.T) {
	for _, u := range []float64{0.1, 0.5, 0.9} {
		g := Gamma(u, 2, 1)
		e := Exponential(u, 0.5)
		if math.Abs(g-e) > 1e-6 {
			t.Fatalf("u=%v: Gamma = %v, Exponential = %v", u, g, e)
		}
	}
}

func TestGammaPanicsOnZeroCV(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Gamma(0.5, 1, 0)
}

func TestServerAcceptFIFO(t *testing.T) {
	s := InitServers(1, 2)[0]
	s.Lock()
	start, end := s.Accept(0, 3)
	if start != 0 || end != 3 {
		t.Fatalf("first job [%v, %v], want [0, 3]", start, end)
	}
	start, end = s.Accept(1, 2)
	if start != 3 || end != 5 {
		t.Fatalf("second job [%v, %v], want [3, 5]", start, end)
	}
	if !s.IsOverLoaded() {
		t.Fatal("server with 2/2 jobs not overloaded")
	}
	s.Release()
	s.Unlock()

	s.AddSnapshot(4)
	snap := s.Snapshots[0]
	if snap.Connections != 1 || snap.Backlog != 1 {
		t.Fatalf("snapshot = %+v", *snap)
	}
}
