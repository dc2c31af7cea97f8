package sequence

import (
	"errors"
	"math"
	"testing"

	"github.com/emrzvv/qrng-research/internal/direction"
)

func TestSobolUnitCoversDyadicGrid(t *testing.T) {
	for _, k := range []int{1, 4, 10, 14} {
		g, err := NewSobol(1, 1, direction.Unit)
		if err != nil {
			t.Fatalf("NewSobol() error = %v", err)
		}
		n := 1 << k
		seen := make([]bool, n)
		for i := 0; i < n; i++ {
			p, err := g.Next()
			if err != nil {
				t.Fatalf("Next() error = %v", err)
			}
			scaled := p[0] * float64(n)
			cell := int(scaled)
			if scaled != float64(cell) {
				t.Fatalf("k=%d: point %d = %v is not on the 2^-%d grid", k, i, p[0], k)
			}
			if seen[cell] {
				t.Fatalf("k=%d: duplicate point %v", k, p[0])
			}
			seen[cell] = true
		}
	}
}

func TestSobolKnownPoints(t *testing.T) {
	want := [][]float64{
		{0, 0, 0},
		{0.5, 0.5, 0.5},
		{0.75, 0.25, 0.75},
		{0.25, 0.75, 0.25},
		{0.375, 0.375, 0.625},
		{0.875, 0.875, 0.125},
		{0.625, 0.125, 0.375},
		{0.125, 0.625, 0.875},
	}
	g, err := NewSobol(3, 1, direction.SobolLevitan)
	if err != nil {
		t.Fatalf("NewSobol() error = %v", err)
	}
	for i, w := range want {
		p, err := g.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		for j := range w {
			if p[j] != w[j] {
				t.Fatalf("point %d = %v, want %v", i, p, w)
			}
		}
	}
	if g.Count() != uint64(len(want)) {
		t.Fatalf("Count() = %d, want %d", g.Count(), len(want))
	}
}

func TestSobolDeterminism(t *testing.T) {
	for _, v := range []direction.Variant{direction.Unit, direction.Jaeckel, direction.SobolLevitan, direction.SobolLevitanLemieux} {
		t.Run(v.String(), func(t *testing.T) {
			a, err := New(Options{Kind: Sobol, Dimension: 30, Seed: 2024, Variant: v})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			pa, err := Fill(a, 500)
			if err != nil {
				t.Fatalf("Fill() error = %v", err)
			}

			// unrelated draws in between must not matter
			other, _ := NewPseudo(4, 2024)
			_, _ = Fill(other, 100)

			b, err := New(Options{Kind: Sobol, Dimension: 30, Seed: 2024, Variant: v})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			pb, err := Fill(b, 500)
			if err != nil {
				t.Fatalf("Fill() error = %v", err)
			}
			for i := range pa {
				for j := range pa[i] {
					if pa[i][j] != pb[i][j] {
						t.Fatalf("point %d dim %d differs: %v vs %v", i, j, pa[i][j], pb[i][j])
					}
				}
			}
		})
	}
}

func TestSobolPointsInUnitCube(t *testing.T) {
	g, err := NewSobol(40, 9, direction.SobolLevitanLemieux)
	if err != nil {
		t.Fatalf("NewSobol() error = %v", err)
	}
	for i := 0; i < 4096; i++ {
		p, err := g.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		for j, x := range p {
			if x < 0 || x >= 1 {
				t.Fatalf("point %d dim %d = %v out of [0,1)", i, j, x)
			}
		}
	}
}

func TestSobolExhausted(t *testing.T) {
	g, err := NewSobol(2, 1, direction.SobolLevitan)
	if err != nil {
		t.Fatalf("NewSobol() error = %v", err)
	}
	g.count = sobolDraws - 2
	for i := 0; i < 2; i++ {
		if _, err := g.Next(); err != nil {
			t.Fatalf("draw %d: Next() error = %v", i, err)
		}
	}
	if _, err := g.Next(); !errors.Is(err, ErrSequenceExhausted) {
		t.Fatalf("Next() error = %v, want %v", err, ErrSequenceExhausted)
	}
	if _, err := g.Next(); !errors.Is(err, ErrSequenceExhausted) {
		t.Fatalf("second Next() error = %v, want %v", err, ErrSequenceExhausted)
	}
}

func TestNewDimensionOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "sobol-levitan past table", opts: Options{Kind: Sobol, Dimension: 41, Variant: direction.SobolLevitan}},
		{name: "sobol zero", opts: Options{Kind: Sobol, Dimension: 0, Variant: direction.Unit}},
		{name: "halton zero", opts: Options{Kind: Halton, Dimension: 0}},
		{name: "pseudo negative", opts: Options{Kind: Pseudo, Dimension: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			if !errors.Is(err, ErrDimensionOutOfRange) {
				t.Fatalf("New() error = %v, want %v", err, ErrDimensionOutOfRange)
			}
			if !errors.Is(err, direction.ErrDimensionOutOfRange) {
				t.Fatalf("New() error = %v does not match the direction error", err)
			}
		})
	}
}

func TestHaltonKnownPoints(t *testing.T) {
	want := [][]float64{
		{1.0 / 2, 1.0 / 3, 1.0 / 5},
		{1.0 / 4, 2.0 / 3, 2.0 / 5},
		{3.0 / 4, 1.0 / 9, 3.0 / 5},
		{1.0 / 8, 4.0 / 9, 4.0 / 5},
		{5.0 / 8, 7.0 / 9, 1.0 / 25},
	}
	g, err := NewHalton(3, 0)
	if err != nil {
		t.Fatalf("NewHalton() error = %v", err)
	}
	for i, w := range want {
		p, err := g.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		for j := range w {
			if math.Abs(p[j]-w[j]) > 1e-12 {
				t.Fatalf("point %d = %v, want %v", i, p, w)
			}
		}
	}
}

func TestHaltonIgnoresSeed(t *testing.T) {
	a, _ := NewHalton(5, 1)
	b, _ := NewHalton(5, 99)
	pa, _ := Fill(a, 50)
	pb, _ := Fill(b, 50)
	for i := range pa {
		for j := range pa[i] {
			if pa[i][j] != pb[i][j] {
				t.Fatalf("point %d differs across seeds", i)
			}
		}
	}
}

func TestFirstPrimes(t *testing.T) {
	want := []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29}
	got := firstPrimes(len(want))
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("firstPrimes = %v, want %v", got, want)
		}
	}
}

func TestPseudoDeterminism(t *testing.T) {
	a, _ := NewPseudo(3, 77)
	b, _ := NewPseudo(3, 77)
	pa, _ := Fill(a, 1000)
	pb, _ := Fill(b, 1000)
	for i := range pa {
		for j := range pa[i] {
			if pa[i][j] != pb[i][j] {
				t.Fatalf("point %d differs", i)
			}
			if pa[i][j] < 0 || pa[i][j] >= 1 {
				t.Fatalf("point %d = %v out of [0,1)", i, pa[i])
			}
		}
	}
}

func TestNames(t *testing.T) {
	tests := []struct {
		opts Options
		want string
	}{
		{Options{Kind: Sobol, Dimension: 1, Variant: direction.Unit}, "Sobol - Unit initialization"},
		{Options{Kind: Sobol, Dimension: 1, Seed: 3, Variant: direction.Jaeckel}, "Sobol - Regularity breaking initialization"},
		{Options{Kind: Sobol, Dimension: 1, Variant: direction.SobolLevitan}, "Sobol - Sobol-Levitan initialization"},
		{Options{Kind: Sobol, Dimension: 1, Variant: direction.SobolLevitanLemieux}, "Sobol - Sobol-Levitan-Lemieux initialization"},
		{Options{Kind: Halton, Dimension: 1}, "Halton low discrepancy number generator"},
		{Options{Kind: Pseudo, Dimension: 1, Seed: 5}, "Mersenne Twister pseudo-random sequence"},
	}
	for _, tt := range tests {
		g, err := New(tt.opts)
		if err != nil {
			t.Fatalf("New(%+v) error = %v", tt.opts, err)
		}
		if g.Name() != tt.want {
			t.Errorf("Name() = %q, want %q", g.Name(), tt.want)
		}
		if g.Dimension() != tt.opts.Dimension {
			t.Errorf("Dimension() = %d, want %d", g.Dimension(), tt.opts.Dimension)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{Sobol, Halton, Pseudo} {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("faure"); err == nil {
		t.Error("ParseKind(faure) expected error")
	}
}
