package main

import (
	"log"
	"sync"
)

const progressQueueSize = 256

type flushJob struct {
	Username string
	Profile  Profile
}

// ProgressSync pushes economy fields to the profile store off the critical
// path. Saves are idempotent overwrites, so delivery is at-least-once: a
// full queue falls back to a one-off goroutine rather than dropping the job.
type ProgressSync struct {
	store ProfileStore
	jobs  chan flushJob
	stop  chan struct{}
	wg    sync.WaitGroup
}

// NewProgressSync creates and starts the background flush worker
func NewProgressSync(store ProfileStore) *ProgressSync {
	ps := &ProgressSync{
		store: store,
		jobs:  make(chan flushJob, progressQueueSize),
		stop:  make(chan struct{}),
	}
	ps.wg.Add(1)
	go ps.worker()
	return ps
}

// Flush enqueues a profile save. Never blocks the caller.
func (ps *ProgressSync) Flush(username string, p Profile) {
	job := flushJob{Username: username, Profile: p}
	select {
	case ps.jobs <- job:
	default:
		// Queue full — save out of band instead of blocking the game loop
		ps.wg.Add(1)
		go func() {
			defer ps.wg.Done()
			ps.save(job)
		}()
	}
}

// Stop drains pending jobs and shuts the worker down
func (ps *ProgressSync) Stop() {
	close(ps.stop)
	ps.wg.Wait()
}

func (ps *ProgressSync) worker() {
	defer ps.wg.Done()
	for {
		select {
		case job := <-ps.jobs:
			ps.save(job)
		case <-ps.stop:
			// Drain whatever is left so disconnect flushes are not lost
			for {
				select {
				case job := <-ps.jobs:
					ps.save(job)
				default:
					return
				}
			}
		}
	}
}

// save is best-effort: a failed write is logged, not retried
func (ps *ProgressSync) save(job flushJob) {
	if err := ps.store.SaveProfile(job.Username, job.Profile); err != nil {
		log.Printf("profile save failed for %s: %v", job.Username, err)
	}
}
