package direction

import (
	"errors"
	"testing"
)

func TestPrimitiveCountsPerDegree(t *testing.T) {
	// phi(2^d - 1) / d
	want := map[int]int{1: 1, 2: 1, 3: 2, 4: 2, 5: 6, 6: 6, 7: 18, 8: 16, 9: 48, 10: 60, 11: 176}
	total := 0
	for _, n := range want {
		total += n
	}

	polys, err := Primitive(total)
	if err != nil {
		t.Fatalf("Primitive() error = %v", err)
	}
	got := make(map[int]int)
	for _, p := range polys {
		got[Degree(p)]++
	}
	for d, n := range want {
		if got[d] != n {
			t.Errorf("degree %d: %d polynomials, want %d", d, got[d], n)
		}
	}
}

func TestPrimitiveOrder(t *testing.T) {
	want := []uint32{3, 7, 11, 13, 19, 25, 37, 41, 47, 55, 59, 61}
	polys, err := Primitive(len(want))
	if err != nil {
		t.Fatalf("Primitive() error = %v", err)
	}
	for i, p := range want {
		if polys[i] != p {
			t.Fatalf("polynomial %d = %d, want %d", i, polys[i], p)
		}
	}
}

func TestPrimitiveRejectsNonPrimitive(t *testing.T) {
	tests := []struct {
		name string
		poly uint32
	}{
		{name: "x^4+x^3+x^2+x+1 has order 5", poly: 31},
		{name: "x^2+1 is reducible", poly: 5},
		{name: "x^3+x^2+x+1 is reducible", poly: 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deg := Degree(tt.poly)
			if isPrimitive(tt.poly, deg, primeFactors(uint64(1)<<deg-1)) {
				t.Fatalf("%d reported primitive", tt.poly)
			}
		})
	}
}

func TestPrimitiveTooMany(t *testing.T) {
	if _, err := Primitive(maxPolynomials + 1); !errors.Is(err, ErrDimensionOutOfRange) {
		t.Fatalf("Primitive() error = %v, want %v", err, ErrDimensionOutOfRange)
	}
}

func TestDatasetLoads(t *testing.T) {
	version, err := DatasetVersion()
	if err != nil {
		t.Fatalf("DatasetVersion() error = %v", err)
	}
	if version == "" {
		t.Fatal("empty dataset version")
	}
	for _, v := range []Variant{SobolLevitan, SobolLevitanLemieux} {
		n, err := MaxDimension(v)
		if err != nil {
			t.Fatalf("MaxDimension(%s) error = %v", v, err)
		}
		if n != 40 {
			t.Errorf("MaxDimension(%s) = %d, want 40", v, n)
		}
	}
}

func TestParseDatasetRejectsEvenInitializer(t *testing.T) {
	raw := []byte("version: x\ntables:\n  sobol-levitan:\n    - {dim: 2, poly: 3, m: [2]}\n")
	if _, err := parseDataset(raw); err == nil {
		t.Fatal("expected error for even initializer")
	}
}

func TestParseDatasetRejectsUnknownField(t *testing.T) {
	raw := []byte("version: x\nextra: 1\ntables: {}\n")
	if _, err := parseDataset(raw); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestVanDerCorputDimension(t *testing.T) {
	tables, err := Build(1, SobolLevitan, 1)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for k, v := range tables[0] {
		if v != uint32(1)<<(Bits-1-k) {
			t.Fatalf("v[%d] = %#x", k, v)
		}
	}
}

func TestBuildKnownDirections(t *testing.T) {
	tables, err := Build(3, SobolLevitan, 1)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	// dimension 2: x+1, m1=1 -> m = 1, 3, 5, 15, ...
	wantM := []uint32{1, 3, 5, 15, 17, 51}
	for k, m := range wantM {
		if got := tables[1][k] >> (Bits - 1 - k); got != m {
			t.Errorf("dim 2 m%d = %d, want %d", k+1, got, m)
		}
	}
	// dimension 3: x^2+x+1, m = 1, 1, 7, 11, 13, ...
	wantM = []uint32{1, 1, 7, 11, 13}
	for k, m := range wantM {
		if got := tables[2][k] >> (Bits - 1 - k); got != m {
			t.Errorf("dim 3 m%d = %d, want %d", k+1, got, m)
		}
	}
}

func TestDirectionsAreOddMultiples(t *testing.T) {
	for _, v := range []Variant{Unit, Jaeckel, SobolLevitan, SobolLevitanLemieux} {
		tables, err := Build(40, v, 17)
		if err != nil {
			t.Fatalf("Build(%s) error = %v", v, err)
		}
		for j, tab := range tables {
			for k, x := range tab {
				// m_k = v_k >> (Bits-1-k) must be odd and below 2^(k+1)
				m := x >> (Bits - 1 - k)
				if m&1 == 0 || x&(uint32(1)<<(Bits-1-k)-1) != 0 {
					t.Fatalf("%s dim %d v[%d] = %#x is not an odd multiple of 2^%d", v, j+1, k, x, Bits-1-k)
				}
			}
		}
	}
}

func TestJaeckelSharesBratleyFoxPrefix(t *testing.T) {
	jk, err := Build(8, Jaeckel, 5)
	if err != nil {
		t.Fatalf("Build(Jaeckel) error = %v", err)
	}
	bf, err := Build(8, SobolLevitan, 5)
	if err != nil {
		t.Fatalf("Build(SobolLevitan) error = %v", err)
	}
	for j := range jk {
		if jk[j] != bf[j] {
			t.Fatalf("dimension %d differs", j+1)
		}
	}
}

func TestJaeckelPropertyA(t *testing.T) {
	for _, seed := range []uint32{1, 3, 8, 17, 42, 19650218} {
		tables, err := Build(jaeckelPropertyA, Jaeckel, seed)
		if err != nil {
			t.Fatalf("Build(seed %d) error = %v", seed, err)
		}
		for d := 1; d <= jaeckelPropertyA; d++ {
			if !propertyA(tables[:d]) {
				t.Fatalf("seed %d: Property A fails at d=%d", seed, d)
			}
		}
	}
}

func TestPropertyARank(t *testing.T) {
	bf, err := Build(40, SobolLevitan, 0)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	// Bratley-Fox: holds for d <= 20 and d = 23, 31
	for d, want := range map[int]bool{5: true, 20: true, 21: false, 23: true, 24: false, 31: true, 32: false} {
		if got := propertyA(bf[:d]); got != want {
			t.Errorf("d=%d: propertyA = %v, want %v", d, got, want)
		}
	}
	unit, err := Build(6, Unit, 0)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if propertyA(unit) {
		t.Error("unit initialization passes Property A at d=6")
	}
}

func TestJaeckelSeedDeterminism(t *testing.T) {
	a, err := Build(50, Jaeckel, 42)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	b, err := Build(50, Jaeckel, 42)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	c, err := Build(50, Jaeckel, 43)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	differ := false
	for j := range a {
		if a[j] != b[j] {
			t.Fatalf("dimension %d differs for equal seeds", j+1)
		}
		if a[j] != c[j] {
			differ = true
		}
	}
	if !differ {
		t.Fatal("seeds 42 and 43 built identical tables")
	}
}

func TestBuildDimensionOutOfRange(t *testing.T) {
	tests := []struct {
		name    string
		dim     int
		variant Variant
	}{
		{name: "zero", dim: 0, variant: Unit},
		{name: "negative", dim: -3, variant: Jaeckel},
		{name: "past Bratley-Fox", dim: 41, variant: SobolLevitan},
		{name: "past Lemieux", dim: 41, variant: SobolLevitanLemieux},
		{name: "past polynomial table", dim: maxPolynomials + 2, variant: Unit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.dim, tt.variant, 1)
			if !errors.Is(err, ErrDimensionOutOfRange) {
				t.Fatalf("Build(%d, %s) error = %v, want %v", tt.dim, tt.variant, err, ErrDimensionOutOfRange)
			}
		})
	}
}

func TestParseVariant(t *testing.T) {
	for _, v := range []Variant{Unit, Jaeckel, SobolLevitan, SobolLevitanLemieux} {
		got, err := ParseVariant(v.String())
		if err != nil || got != v {
			t.Errorf("ParseVariant(%q) = %v, %v", v.String(), got, err)
		}
	}
	if _, err := ParseVariant("bogus"); err == nil {
		t.Error("ParseVariant(bogus) expected error")
	}
	var zero Variant
	if zero != Jaeckel {
		t.Errorf("zero Variant = %v, want %v", zero, Jaeckel)
	}
}
