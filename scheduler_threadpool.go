// Copyright 2025 samber.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://github.com/samber/ro/blob/main/licenses/LICENSE.apache.md
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rxbackpressure

import (
	"context"
	"sync"
	"time"
)

// ThreadPoolScheduler runs actions on a pool of worker goroutines.
// IsOrderGuaranteed is true only when Workers == 1: with a single worker,
// actions submitted from one goroutine still run in submission order;
// with more than one, two actions may race each other onto separate workers.
// Operators that rely on FIFO ordering across hops (ObserveOn) must be
// configured with a single-worker pool.
type ThreadPoolScheduler struct {
	workers int
	jobs    chan func()

	wg     sync.WaitGroup
	closed chan struct{}
	once   sync.Once
}

var _ Scheduler = (*ThreadPoolScheduler)(nil)

// NewThreadPoolScheduler starts a pool of `workers` goroutines draining a
// shared job queue that holds up to 1024 pending actions; Schedule blocks
// while the queue is full. workers must be >= 1.
func NewThreadPoolScheduler(workers int) *ThreadPoolScheduler {
	if workers < 1 {
		workers = 1
	}

	s := &ThreadPoolScheduler{
		workers: workers,
		jobs:    make(chan func(), 1024),
		closed:  make(chan struct{}),
	}

	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}

	return s
}

func (s *ThreadPoolScheduler) worker() {
	defer s.wg.Done()

	for {
		select {
		case action, ok := <-s.jobs:
			if !ok {
				return
			}
			action()
		case <-s.closed:
			// Drain whatever is already queued before exiting, so Dispose
			// observes every in-flight action complete rather than abandoning
			// them (see SPEC_FULL §E.3, adapted from the original
			// schedulers/threadpoolschedulerdispose.py).
			for {
				select {
				case action, ok := <-s.jobs:
					if !ok {
						return
					}
					action()
				default:
					return
				}
			}
		}
	}
}

// Schedule enqueues action for some worker to run.
func (s *ThreadPoolScheduler) Schedule(action func()) {
	select {
	case <-s.closed:
		return
	default:
	}

	select {
	case s.jobs <- action:
	case <-s.closed:
	}
}

// ScheduleAfter enqueues action once delay elapses.
func (s *ThreadPoolScheduler) ScheduleAfter(delay time.Duration, action func()) {
	if delay <= 0 {
		s.Schedule(action)
		return
	}

	time.AfterFunc(delay, func() {
		s.Schedule(action)
	})
}

// Now returns the wall-clock time.
func (s *ThreadPoolScheduler) Now() time.Time { return time.Now() }

// IsOrderGuaranteed is true only for a single-worker pool.
func (s *ThreadPoolScheduler) IsOrderGuaranteed() bool { return s.workers == 1 }

// NextFrameIndex uses the shared default frame budget.
func (s *ThreadPoolScheduler) NextFrameIndex(syncIndex int) int {
	return standardNextFrameIndex(syncIndex)
}

// Dispose stops accepting new actions and waits for already-queued and
// in-flight actions to finish before returning, rather than abandoning them
// mid-flight. ctx bounds how long Dispose is willing to wait.
func (s *ThreadPoolScheduler) Dispose(ctx context.Context) error {
	s.once.Do(func() {
		close(s.closed)
		close(s.jobs)
	})

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
