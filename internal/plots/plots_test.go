package plots

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/emrzvv/qrng-research/internal/direction"
	"github.com/emrzvv/qrng-research/internal/model"
	"github.com/emrzvv/qrng-research/internal/pricing"
	"github.com/emrzvv/qrng-research/internal/sequence"
	"github.com/emrzvv/qrng-research/internal/stats"
)

func assertFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	if info.Size() == 0 {
		t.Fatalf("%s is empty", path)
	}
}

func TestProjection(t *testing.T) {
	g, _ := sequence.NewSobol(2, 1, direction.Jaeckel)
	pts, _ := sequence.Fill(g, 256)
	file := filepath.Join(t.TempDir(), "proj.png")
	if err := Projection(pts, 0, 1, g.Name(), file); err != nil {
		t.Fatalf("Projection() error = %v", err)
	}
	assertFile(t, file)

	if err := Projection(pts, 0, 2, "bad", file); err == nil {
		t.Fatal("expected error for missing coordinate")
	}
}

func TestConvergence(t *testing.T) {
	series := [][]pricing.ConvergencePoint{
		{{Generator: "a", Paths: 64, AbsError: 0.5}, {Generator: "a", Paths: 1024, AbsError: 0}},
		{{Generator: "b", Paths: 64, AbsError: 0.7}, {Generator: "b", Paths: 1024, AbsError: 0.1}},
	}
	file := filepath.Join(t.TempDir(), "conv.png")
	if err := Convergence(series, file); err != nil {
		t.Fatalf("Convergence() error = %v", err)
	}
	assertFile(t, file)
}

func TestAggregateArrivals(t *testing.T) {
	events := []*stats.ArrivalEvent{{T: 0.5}, {T: 1.2}, {T: 1.9}, {T: 10}}
	got := AggregateArrivals(events, 1, 3)
	want := []float64{1, 2, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("AggregateArrivals() = %v, want %v", got, want)
		}
	}
}

func TestBacklogAndArrivals(t *testing.T) {
	servers := model.InitServers(2, 0)
	servers[0].BusyUntil = 3
	for _, ts := range []float64{1, 2, 3} {
		servers[0].AddSnapshot(ts)
		servers[1].AddSnapshot(ts)
	}
	dir := t.TempDir()
	if err := Backlog(servers, filepath.Join(dir, "backlog.png")); err != nil {
		t.Fatalf("Backlog() error = %v", err)
	}
	assertFile(t, filepath.Join(dir, "backlog.png"))

	if err := Arrivals([]float64{1, 3, 2}, 10, filepath.Join(dir, "arrivals.png")); err != nil {
		t.Fatalf("Arrivals() error = %v", err)
	}
	assertFile(t, filepath.Join(dir, "arrivals.png"))
}
