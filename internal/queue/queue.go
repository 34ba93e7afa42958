package queue

import (
	"log"
	"sync"
)

// Job is one unit of HTTP work. The result is reported on Errc when set.
type Job struct {
	Fn   func() error
	Errc chan error
}

// RequestQueueManager runs REST handlers through a bounded worker pool so
// a burst of requests cannot spawn unbounded concurrent handlers.
type RequestQueueManager struct {
	jobs       chan Job
	maxWorkers int
	wg         sync.WaitGroup
}

func NewRequestQueueManager(queueSize, maxWorkers int) *RequestQueueManager {
	manager := &RequestQueueManager{
		jobs:       make(chan Job, queueSize),
		maxWorkers: maxWorkers,
	}
	manager.startWorkers()
	return manager
}

func (rqm *RequestQueueManager) startWorkers() {
	for i := 0; i < rqm.maxWorkers; i++ {
		rqm.wg.Add(1)
		go func(workerID int) {
			defer rqm.wg.Done()
			for job := range rqm.jobs {
				err := job.Fn()
				if job.Errc != nil {
					job.Errc <- err
				}
			}
			log.Printf("queue worker %d stopped", workerID)
		}(i)
	}
}

func (rqm *RequestQueueManager) EnqueueJob(job Job) {
	rqm.jobs <- job
}

// Depth reports how many jobs are waiting, for the queue-depth gauge.
func (rqm *RequestQueueManager) Depth() int {
	return len(rqm.jobs)
}

func (rqm *RequestQueueManager) Shutdown() {
	close(rqm.jobs)
	rqm.wg.Wait()
}
