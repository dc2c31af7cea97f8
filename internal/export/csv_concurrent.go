package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/emrzvv/qrng-research/internal/sequence"
)

const flushEvery = 800 * time.Millisecond

// StreamPoints draws up to n points from g on a producer goroutine and writes
// them to path as they arrive. It stops early when ctx is done or the
// generator fails and returns how many rows were written.
func StreamPoints(ctx context.Context, g sequence.Generator, n int, path string) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(pointHeader(g.Dimension())); err != nil {
		return 0, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	points := make(chan []float64, 1<<10)
	errCh := make(chan error, 1)
	go func() {
		defer close(points)
		for i := 0; i < n; i++ {
			p, err := g.Next()
			if err != nil {
				errCh <- fmt.Errorf("point %d: %w", i, err)
				return
			}
			select {
			case points <- p:
			case <-ctx.Done():
				return
			}
		}
	}()

	flushTicker := time.NewTicker(flushEvery)
	defer flushTicker.Stop()

	written := 0
	for {
		select {
		case p, ok := <-points:
			if !ok {
				w.Flush()
				if err := w.Error(); err != nil {
					return written, err
				}
				select {
				case err := <-errCh:
					return written, err
				default:
				}
				return written, ctx.Err()
			}
			if err := w.Write(pointRecord(written, p)); err != nil {
				return written, err
			}
			written++
		case <-flushTicker.C:
			w.Flush()
		case <-ctx.Done():
			w.Flush()
			if err := w.Error(); err != nil {
				return written, err
			}
			return written, ctx.Err()
		}
	}
}
