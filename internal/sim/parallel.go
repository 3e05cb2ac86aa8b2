package sim

import (
	"context"
	"runtime"
	"sync"
)

// Job is one independent run in a batch.
type Job struct {
	Sim    *Simulator
	Config RunConfig
}

// RunBatch runs the jobs concurrently, at most GOMAXPROCS at a time. Jobs
// must not share a Simulator. Results keep the job order; the first error
// in job order is returned.
func RunBatch(ctx context.Context, jobs []Job) ([]*Result, error) {
	results := make([]*Result, len(jobs))
	errs := make([]error, len(jobs))

	slots := make(chan struct{}, runtime.GOMAXPROCS(0))
	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		slots <- struct{}{}
		go func(idx int) {
			defer func() {
				<-slots
				wg.Done()
			}()
			results[idx], errs[idx] = jobs[idx].Sim.Run(ctx, jobs[idx].Config)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
