package stats

import (
	"sync"

	"gonum.org/v1/gonum/stat"
)

type Statistics struct {
	mu       sync.Mutex
	Arrivals []*ArrivalEvent
	Requests []*RequestEvent
	Drops    []*DropEvent
	Picks    []int
}

type ArrivalEvent struct {
	T          float64
	CustomerID int64
}

type RequestEvent struct {
	ServerID   int
	CustomerID int64
	Arrival    float64
	Start      float64
	End        float64
}

func (re *RequestEvent) Wait() float64 { return re.Start - re.Arrival }

func (re *RequestEvent) Sojourn() float64 { return re.End - re.Arrival }

type DropEvent struct {
	ServerID   int
	CustomerID int64
	T          float64
	Reason     string
}

func NewStatistics(servers int) *Statistics {
	return &Statistics{
		mu:       sync.Mutex{},
		Arrivals: make([]*ArrivalEvent, 0),
		Requests: make([]*RequestEvent, 0),
		Drops:    make([]*DropEvent, 0),
		Picks:    make([]int, servers),
	}
}

func (st *Statistics) AddArrival(ae *ArrivalEvent) {
	st.mu.Lock()
	st.Arrivals = append(st.Arrivals, ae)
	st.mu.Unlock()
}

func (st *Statistics) AddPick(id int) {
	st.mu.Lock()
	st.Picks[id]++
	st.mu.Unlock()
}

func (st *Statistics) AddDrop(de *DropEvent) {
	st.mu.Lock()
	st.Drops = append(st.Drops, de)
	st.mu.Unlock()
}

func (st *Statistics) AddRequest(re *RequestEvent) {
	st.mu.Lock()
	st.Requests = append(st.Requests, re)
	st.mu.Unlock()
}

type Summary struct {
	Arrivals    int
	Served      int
	Dropped     int
	MeanWait    float64
	StdWait     float64
	MeanSojourn float64
}

// Summarize aggregates waits over completed requests whose arrival is at or
// after warmup.
func (st *Statistics) Summarize(warmup float64) Summary {
	st.mu.Lock()
	defer st.mu.Unlock()

	waits := make([]float64, 0, len(st.Requests))
	sojourns := make([]float64, 0, len(st.Requests))
	for _, r := range st.Requests {
		if r.Arrival < warmup {
			continue
		}
		waits = append(waits, r.Wait())
		sojourns = append(sojourns, r.Sojourn())
	}

	sum := Summary{
		Arrivals: len(st.Arrivals),
		Served:   len(st.Requests),
		Dropped:  len(st.Drops),
	}
	if len(waits) > 0 {
		sum.MeanWait, sum.StdWait = stat.MeanStdDev(waits, nil)
		sum.MeanSojourn = stat.Mean(sojourns, nil)
	}
	return sum
}
