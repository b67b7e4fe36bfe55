package pipeline

import (
	"runtime"
	"sync"

	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/event"
)

// workItem holds one event geometry ready for processing.
type workItem struct {
	seq      int
	geometry *event.Geometry
}

// workResult holds the processing output for a single event.
type workResult struct {
	seq     int
	eventID string
	record  *Record
	err     error
}

// parallelProcess processes work items using a pool of workers. Results
// arrive in completion order; use orderedCollect to consume them in
// sequence-number order. If workers is 0, runtime.NumCPU() is used.
func (p *Pipeline) parallelProcess(items <-chan workItem, workers int) <-chan workResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan workResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				rec, err := p.processEvent(item.geometry)
				results <- workResult{
					seq:     item.seq,
					eventID: item.geometry.EventID,
					record:  rec,
					err:     err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// orderedCollect calls fn for each result in sequence-number order,
// buffering out-of-order results until the next expected sequence number
// arrives. Blocks until the results channel is closed.
func orderedCollect(results <-chan workResult, fn func(workResult) error) error {
	pending := make(map[int]workResult)
	nextSeq := 0

	for r := range results {
		pending[r.seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
