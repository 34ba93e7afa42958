package queue

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestEnqueueJobReportsResult(t *testing.T) {
	rqm := NewRequestQueueManager(4, 2)
	defer rqm.Shutdown()

	errc := make(chan error, 1)
	rqm.EnqueueJob(Job{
		Fn:   func() error { return nil },
		Errc: errc,
	})
	if err := <-errc; err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	wantErr := errors.New("boom")
	rqm.EnqueueJob(Job{
		Fn:   func() error { return wantErr },
		Errc: errc,
	})
	if err := <-errc; !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
}

func TestShutdownDrainsQueuedJobs(t *testing.T) {
	rqm := NewRequestQueueManager(8, 1)

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		rqm.EnqueueJob(Job{Fn: func() error {
			ran.Add(1)
			return nil
		}})
	}

	rqm.Shutdown()

	if got := ran.Load(); got != 5 {
		t.Fatalf("expected 5 jobs to run, got %d", got)
	}
	if rqm.Depth() != 0 {
		t.Fatalf("expected empty queue after shutdown, got depth %d", rqm.Depth())
	}
}
