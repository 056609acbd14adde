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
	"container/list"
	"sync"
	"time"
)

// TrampolineScheduler runs actions on the calling goroutine. A re-entrant
// Schedule call — one made from inside an action already running on this
// trampoline — is queued and drained in FIFO order after the current action
// returns, rather than recursing. This bounds stack growth for chains that
// would otherwise call each other synchronously forever (e.g. a Range
// source feeding a Map feeding another Map).
type TrampolineScheduler struct {
	mu      sync.Mutex
	queue   *list.List
	running bool
}

var _ Scheduler = (*TrampolineScheduler)(nil)

// NewTrampolineScheduler creates a new, independent TrampolineScheduler.
// Each logical "thread" of execution should use its own instance; sharing
// one across unrelated call chains would serialize them against each other.
func NewTrampolineScheduler() *TrampolineScheduler {
	return &TrampolineScheduler{queue: list.New()}
}

// Schedule runs action immediately if no action is currently running on this
// trampoline, whichever goroutine runs it; otherwise it enqueues action, and
// the goroutine already draining the trampoline runs it after the current
// (and any already-queued) actions finish.
func (s *TrampolineScheduler) Schedule(action func()) {
	s.mu.Lock()
	if s.running {
		s.queue.PushBack(action)
		s.mu.Unlock()
		return
	}

	s.running = true
	s.mu.Unlock()

	s.drain(action)
}

func (s *TrampolineScheduler) drain(first func()) {
	current := first
	for current != nil {
		current()

		s.mu.Lock()
		front := s.queue.Front()
		if front == nil {
			s.running = false
			s.mu.Unlock()
			return
		}
		s.queue.Remove(front)
		s.mu.Unlock()

		current = front.Value.(func())
	}
}

// ScheduleAfter busy-waits are inappropriate for a trampoline; delayed work
// is handed to a private timer goroutine that re-enters Schedule once the
// delay elapses, keeping ordering guarantees intact for the trampolined part.
func (s *TrampolineScheduler) ScheduleAfter(delay time.Duration, action func()) {
	if delay <= 0 {
		s.Schedule(action)
		return
	}

	time.AfterFunc(delay, func() {
		s.Schedule(action)
	})
}

// Now returns the wall-clock time.
func (s *TrampolineScheduler) Now() time.Time { return time.Now() }

// IsOrderGuaranteed is true: a single-goroutine trampoline never reorders
// actions submitted from the same call chain.
func (s *TrampolineScheduler) IsOrderGuaranteed() bool { return true }

// NextFrameIndex uses the shared default frame budget.
func (s *TrampolineScheduler) NextFrameIndex(syncIndex int) int {
	return standardNextFrameIndex(syncIndex)
}
