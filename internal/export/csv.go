package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/emrzvv/qrng-research/internal/model"
	"github.com/emrzvv/qrng-research/internal/pricing"
	"github.com/emrzvv/qrng-research/internal/quality"
	"github.com/emrzvv/qrng-research/internal/stats"
)

func pointHeader(dim int) []string {
	h := make([]string, 0, dim+1)
	h = append(h, "index")
	for k := 1; k <= dim; k++ {
		h = append(h, fmt.Sprintf("x%d", k))
	}
	return h
}

func pointRecord(i int, p []float64) []string {
	rec := make([]string, 0, len(p)+1)
	rec = append(rec, strconv.Itoa(i))
	for _, v := range p {
		rec = append(rec, strconv.FormatFloat(v, 'f', 10, 64))
	}
	return rec
}

// WritePoints writes one row per point.
func WritePoints(points [][]float64, path string) error {
	if len(points) == 0 {
		return fmt.Errorf("no points for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	_ = w.Write(pointHeader(len(points[0])))
	for i, p := range points {
		w.Write(pointRecord(i, p))
	}
	w.Flush()
	return w.Error()
}

func WriteConvergence(points []pricing.ConvergencePoint, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	_ = w.Write([]string{"generator", "paths", "price", "abs_error"})
	for _, p := range points {
		w.Write([]string{
			p.Generator,
			strconv.Itoa(p.Paths),
			fmt.Sprintf("%.6f", p.Price),
			fmt.Sprintf("%.6e", p.AbsError),
		})
	}
	w.Flush()
	return w.Error()
}

// QualityRow is one generator's line in the quality report.
type QualityRow struct {
	Generator   string
	ChiSquare   quality.ChiSquareResult
	Discrepancy float64
	PropertyA   bool
}

func WriteQuality(rows []QualityRow, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	_ = w.Write([]string{"generator", "chi_square", "p_value", "uniform", "l2_star", "property_a"})
	for _, r := range rows {
		w.Write([]string{
			r.Generator,
			fmt.Sprintf("%.3f", r.ChiSquare.Statistic),
			fmt.Sprintf("%.4g", r.ChiSquare.PValue),
			strconv.FormatBool(r.ChiSquare.Pass),
			fmt.Sprintf("%.6e", r.Discrepancy),
			strconv.FormatBool(r.PropertyA),
		})
	}
	w.Flush()
	return w.Error()
}

func writeServersCfgToCSV(servers []*model.Server, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	_ = w.Write([]string{"id", "max_conn"})
	for _, s := range servers {
		w.Write([]string{
			strconv.Itoa(s.ID),
			strconv.Itoa(s.MaxConnections),
		})
	}
	w.Flush()
	return w.Error()
}

func writeSummaryToCSV(st *stats.Statistics, servers []*model.Server, warmup float64, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	_ = w.Write([]string{"id", "picked", "served", "mean_wait"})

	served := make([]int, len(servers))
	waits := make([]float64, len(servers))
	for _, r := range st.Requests {
		if r.Arrival < warmup {
			continue
		}
		served[r.ServerID-1]++
		waits[r.ServerID-1] += r.Wait()
	}
	for i := range servers {
		mean := 0.0
		if served[i] > 0 {
			mean = waits[i] / float64(served[i])
		}
		w.Write([]string{
			strconv.Itoa(i + 1),
			strconv.Itoa(st.Picks[i]),
			strconv.Itoa(served[i]),
			fmt.Sprintf("%.5f", mean),
		})
	}

	sum := st.Summarize(warmup)
	_ = w.Write([]string{"all", strconv.Itoa(sum.Arrivals), strconv.Itoa(sum.Served), fmt.Sprintf("%.5f", sum.MeanWait)})
	w.Flush()
	return w.Error()
}

func writeSnapshotsToCSV(servers []*model.Server, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	wr := csv.NewWriter(f)
	_ = wr.Write([]string{"time_s", "server_id", "connections", "backlog_s"})

	for _, s := range servers {
		for _, snap := range s.Snapshots {
			wr.Write([]string{
				fmt.Sprintf("%.5f", snap.T),
				strconv.Itoa(s.ID),
				strconv.Itoa(snap.Connections),
				fmt.Sprintf("%.5f", snap.Backlog),
			})
		}
	}
	wr.Flush()
	return wr.Error()
}

func writeStatisticsToCSV(st *stats.Statistics, requestsPath, dropsPath string) error {
	fr, err := os.Create(requestsPath)
	if err != nil {
		return err
	}
	defer fr.Close()

	rw := csv.NewWriter(fr)
	_ = rw.Write([]string{"server_id", "customer_id", "arrival_s", "start_s", "end_s", "wait"})
	for _, event := range st.Requests {
		rw.Write([]string{
			strconv.Itoa(event.ServerID),
			strconv.FormatInt(event.CustomerID, 10),
			fmt.Sprintf("%.5f", event.Arrival),
			fmt.Sprintf("%.5f", event.Start),
			fmt.Sprintf("%.5f", event.End),
			fmt.Sprintf("%.5f", event.Wait()),
		})
	}
	rw.Flush()
	if err := rw.Error(); err != nil {
		return err
	}

	fd, err := os.Create(dropsPath)
	if err != nil {
		return err
	}
	defer fd.Close()

	dw := csv.NewWriter(fd)
	_ = dw.Write([]string{"server_id", "customer_id", "time_s", "reason"})
	for _, event := range st.Drops {
		dw.Write([]string{
			strconv.Itoa(event.ServerID),
			strconv.FormatInt(event.CustomerID, 10),
			fmt.Sprintf("%.5f", event.T),
			event.Reason,
		})
	}
	dw.Flush()
	return dw.Error()
}

// QueueToCSV writes the queue experiment tables into dir.
func QueueToCSV(dir string, statistics *stats.Statistics, servers []*model.Server, warmup float64) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := writeServersCfgToCSV(servers, filepath.Join(dir, "servers.csv")); err != nil {
		return err
	}
	if err := writeSummaryToCSV(statistics, servers, warmup, filepath.Join(dir, "summary.csv")); err != nil {
		return err
	}
	if err := writeSnapshotsToCSV(servers, filepath.Join(dir, "snapshots.csv")); err != nil {
		return err
	}
	return writeStatisticsToCSV(statistics,
		filepath.Join(dir, "requests.csv"),
		filepath.Join(dir, "drops.csv"))
}
