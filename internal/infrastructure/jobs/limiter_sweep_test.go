package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type sweeperStub struct {
	calls   int32
	removed int
}

func (s *sweeperStub) Sweep() int {
	atomic.AddInt32(&s.calls, 1)
	return s.removed
}

func TestLimiterSweepJob_Sweep(t *testing.T) {
	stub := &sweeperStub{removed: 3}
	job := NewLimiterSweepJob(stub, time.Minute)

	job.sweep()
	require.EqualValues(t, 1, atomic.LoadInt32(&stub.calls))
}

func TestLimiterSweepJob_StopsOnContextCancel(t *testing.T) {
	stub := &sweeperStub{}
	job := NewLimiterSweepJob(stub, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not stop after context cancel")
	}
	require.Positive(t, atomic.LoadInt32(&stub.calls))
}

func TestLimiterSweepJob_StopMethod(t *testing.T) {
	stub := &sweeperStub{}
	job := NewLimiterSweepJob(stub, time.Hour)

	done := make(chan struct{})
	go func() {
		job.Start(context.Background())
		close(done)
	}()

	job.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not stop after Stop()")
	}
}
