package concurrency

import (
	"time"
)

// ThrottledWorker runs a job per argument at a fixed pace, used for zone-wide
// command fan-out so the gateway is never hammered with a burst of writes.
type ThrottledWorker struct {
	jobCallback func(arg string) error
	pace        time.Duration
}

func NewThrottledWorker(pace time.Duration, jobCallback func(arg string) error) ThrottledWorker {
	if pace <= 0 {
		pace = 100 * time.Millisecond
	}
	return ThrottledWorker{jobCallback: jobCallback, pace: pace}
}

// Run executes the job for every argument and reports how many succeeded.
func (w *ThrottledWorker) Run(jobArgs []string) int {

	limiter := time.NewTicker(w.pace)
	defer limiter.Stop()

	succeeded := 0
	for _, arg := range jobArgs {
		<-limiter.C
		if err := w.jobCallback(arg); err == nil {
			succeeded++
		}
	}

	return succeeded
}
