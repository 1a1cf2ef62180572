package jobs

import (
	"context"
	"log"
	"time"
)

// sweeper is the part of the rate limiter this job drives.
type sweeper interface {
	Sweep() int
}

// LimiterSweepJob periodically evicts elapsed rate-limit windows so the
// limiter's memory stays bounded by active keys, not all keys ever seen.
type LimiterSweepJob struct {
	limiter  sweeper
	interval time.Duration
	stop     chan struct{}
}

func NewLimiterSweepJob(limiter sweeper, interval time.Duration) *LimiterSweepJob {
	return &LimiterSweepJob{
		limiter:  limiter,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (j *LimiterSweepJob) Start(ctx context.Context) {
	log.Println("🕐 Starting rate-limit sweep job...")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⏹️ Rate-limit sweep job stopped (context cancelled)")
			return
		case <-j.stop:
			log.Println("⏹️ Rate-limit sweep job stopped")
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *LimiterSweepJob) Stop() {
	close(j.stop)
}

func (j *LimiterSweepJob) sweep() {
	removed := j.limiter.Sweep()
	if removed > 0 {
		log.Printf("🧹 Swept %d elapsed rate-limit windows", removed)
	}
}
