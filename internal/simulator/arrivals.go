package simulator

import (
	"fmt"

	"github.com/fschuetz04/simgo"

	"github.com/emrzvv/qrng-research/internal/balancer"
	"github.com/emrzvv/qrng-research/internal/config"
	"github.com/emrzvv/qrng-research/internal/model"
	"github.com/emrzvv/qrng-research/internal/sequence"
	"github.com/emrzvv/qrng-research/internal/stats"
)

// generateArrivals draws one point per customer: the first coordinate sets
// the interarrival time and the second the service time.
func generateArrivals(
	proc simgo.Process,
	sim *simgo.Simulation,
	cfg *config.Config,
	rc *rateCtrl,
	balancer balancer.Balancer,
	st *stats.Statistics,
	gen sequence.Generator) error {

	q := cfg.Experiments.Queue
	var customerID int64
	for proc.Now() < q.TimeSeconds {
		point, err := gen.Next()
		if err != nil {
			return fmt.Errorf("arrival %d: %w", customerID+1, err)
		}

		ia := model.Exponential(point[0], rc.Get())
		proc.Wait(proc.Timeout(ia))
		now := proc.Now()
		customerID++
		id := customerID
		st.AddArrival(&stats.ArrivalEvent{T: now, CustomerID: id})

		server := balancer.PickServer()
		if server == nil {
			st.AddDrop(&stats.DropEvent{ServerID: 0, CustomerID: id, T: now, Reason: "queue_full"})
			continue
		}
		st.AddPick(server.ID - 1)

		service := model.Gamma(point[1], q.ServiceMean, q.ServiceCV)
		server.Lock()
		start, end := server.Accept(now, service)
		server.Unlock()

		sim.Process(func(job simgo.Process) {
			job.Wait(job.Timeout(end - now))
			server.Lock()
			server.Release()
			server.Unlock()
			st.AddRequest(&stats.RequestEvent{
				ServerID:   server.ID,
				CustomerID: id,
				Arrival:    now,
				Start:      start,
				End:        end,
			})
		})
	}
	return nil
}
