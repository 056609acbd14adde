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

	"github.com/JIAWea/rxbackpressure/internal/xsync"
)

// CachedServeFirstSubject multicasts one producer to N subscribers running
// at independent speeds. It buffers only as much as the slowest *active*
// subscriber still needs: each subscriber tracks its own cursor into a
// DequeuableBuffer of notifications, and the buffer's prefix is dequeued
// opportunistically whenever the slowest cursor advances.
//
// A subscriber that is caught up to the live edge is "idle": the next
// producer on_next delivers to it synchronously, inline with the publish
// call. A subscriber that fell behind runs its own "fast loop" to catch back
// up. The loop starts inside the callback of the ack that held it back, on
// whichever goroutine resolves that ack, and consults the scheduler's
// NextFrameIndex, rescheduling itself once the budget is spent, so a long
// backlog cannot grow the stack or starve other subscribers.
//
// New subscribers join at the current live edge: CachedServeFirstSubject
// replays nothing recorded before they subscribed (see DESIGN.md).
type CachedServeFirstSubject[T any] struct {
	mu          xsync.Mutex
	buffer      *DequeuableBuffer[Notification[T]]
	subscribers map[int]*subjectSubscriber[T]
	idle        []int
	nextID      int
	scheduler   Scheduler
	terminal    bool
}

type subjectSubscriber[T any] struct {
	id       int
	observer Observer[T]
	cursor   int
	disposed bool
}

var _ Observer[int] = (*CachedServeFirstSubject[int])(nil)

// NewCachedServeFirstSubject creates an empty subject. Its internal fast
// loop runs on a private TrampolineScheduler, bounding how long any one
// subscriber's catch-up may spin before yielding. It locks around every
// access to its buffer and subscriber table, safe for concurrent publishers.
func NewCachedServeFirstSubject[T any]() *CachedServeFirstSubject[T] {
	return newCachedServeFirstSubject[T](xsync.NewMutexWithLock())
}

// NewUnsafeCachedServeFirstSubject creates a subject that skips locking
// entirely, on the caller's promise that OnNext/OnError/OnCompleted are only
// ever invoked from a single producer goroutine. Observe/dispose from other
// goroutines is still fine — the race only exists between concurrent
// publishers, which this variant does not protect against.
func NewUnsafeCachedServeFirstSubject[T any]() *CachedServeFirstSubject[T] {
	return newCachedServeFirstSubject[T](xsync.NewMutexWithoutLock())
}

func newCachedServeFirstSubject[T any](mu xsync.Mutex) *CachedServeFirstSubject[T] {
	return &CachedServeFirstSubject[T]{
		mu:          mu,
		buffer:      NewDequeuableBuffer[Notification[T]](),
		subscribers: make(map[int]*subjectSubscriber[T]),
		scheduler:   NewTrampolineScheduler(),
	}
}

// Observe attaches a new subscriber at the subject's current live edge.
func (s *CachedServeFirstSubject[T]) Observe(info ObserverInfo[T]) Disposable {
	s.mu.Lock()
	id := s.nextID
	s.nextID++

	sub := &subjectSubscriber[T]{
		id:       id,
		observer: info.Observer,
		cursor:   s.buffer.LastIdx(),
	}
	s.subscribers[id] = sub
	s.idle = append(s.idle, id)
	s.mu.Unlock()

	return NewDisposable(func() {
		s.removeSubscriber(id)
	})
}

func (s *CachedServeFirstSubject[T]) OnNext(batch Batch[T]) Ack {
	return s.OnNextWithContext(context.Background(), batch)
}

func (s *CachedServeFirstSubject[T]) OnNextWithContext(ctx context.Context, batch Batch[T]) Ack {
	return s.publish(ctx, NewNextNotification(batch))
}

func (s *CachedServeFirstSubject[T]) OnError(err error) {
	s.OnErrorWithContext(context.Background(), err)
}

func (s *CachedServeFirstSubject[T]) OnErrorWithContext(ctx context.Context, err error) {
	s.mu.Lock()
	s.terminal = true
	s.mu.Unlock()

	s.publish(ctx, NewErrorNotification[T](err))
}

func (s *CachedServeFirstSubject[T]) OnCompleted() {
	s.OnCompletedWithContext(context.Background())
}

func (s *CachedServeFirstSubject[T]) OnCompletedWithContext(ctx context.Context) {
	s.mu.Lock()
	s.terminal = true
	s.mu.Unlock()

	s.publish(ctx, NewCompletedNotification[T]())
}

func (s *CachedServeFirstSubject[T]) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminal
}

func (s *CachedServeFirstSubject[T]) HasThrown() bool { return false }
func (s *CachedServeFirstSubject[T]) IsCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminal
}

// publish implements the producer-side on_next handshake (§4.6): snapshot
// and clear the idle list, append the notification, synchronously notify
// every previously-idle subscriber, then answer the producer with Continue
// if any of them took it immediately, else the merge of whatever pending
// acks they returned.
func (s *CachedServeFirstSubject[T]) publish(ctx context.Context, notification Notification[T]) Ack {
	s.mu.Lock()
	idle := s.idle
	s.idle = nil
	idx := s.buffer.Append(notification)
	s.mu.Unlock()

	anyImmediateContinue := false
	var pending []Ack

	for _, id := range idle {
		sub, ok := s.getSubscriber(id)
		if !ok {
			continue
		}

		result, ack, isPending := s.notifySubscriber(ctx, sub, idx, notification)
		if !isPending {
			if result == AckContinue {
				anyImmediateContinue = true
			}
			continue
		}
		pending = append(pending, ack)
	}

	if anyImmediateContinue {
		return Continue
	}
	if len(pending) == 0 {
		return Continue
	}
	return MergeAcks(pending...)
}

// notifySubscriber delivers notification to sub synchronously (sub must
// already be caught up to idx). It returns the immediate AckResult when one
// is available, or the pending Ack itself with isPending true, registering
// a resolution callback that either re-enters the idle set or launches the
// fast loop.
func (s *CachedServeFirstSubject[T]) notifySubscriber(ctx context.Context, sub *subjectSubscriber[T], idx int, notification Notification[T]) (result AckResult, ack Ack, isPending bool) {
	s.mu.Lock()
	sub.cursor = idx + 1
	if sub.cursor == s.minCursorLocked() {
		s.buffer.DequeueThrough(sub.cursor - 1)
	}
	s.mu.Unlock()

	deliveredAck := notification.Deliver(ctx, sub.observer)

	if r, ok := immediateResult(deliveredAck); ok {
		if r == AckStop {
			s.removeSubscriber(sub.id)
			return r, deliveredAck, false
		}
		s.reinsertIdle(sub.id)
		return r, deliveredAck, false
	}

	deliveredAck.Subscribe(func(r AckResult) {
		if r == AckStop {
			s.removeSubscriber(sub.id)
			return
		}

		s.mu.Lock()
		hasMore := sub.cursor < s.buffer.LastIdx()
		s.mu.Unlock()

		if hasMore {
			s.runFastLoop(ctx, sub)
		} else {
			s.reinsertIdle(sub.id)
		}
	})

	return AckContinue, deliveredAck, true
}

// runFastLoop drains the buffer for sub starting at its current cursor,
// stopping when it catches up to the live edge, when its scheduler budget
// is exhausted (rescheduling itself), or when downstream returns Stop.
func (s *CachedServeFirstSubject[T]) runFastLoop(ctx context.Context, sub *subjectSubscriber[T]) {
	syncIdx := 0

	for {
		s.mu.Lock()
		if sub.disposed {
			s.mu.Unlock()
			return
		}
		if sub.cursor >= s.buffer.LastIdx() {
			s.mu.Unlock()
			s.reinsertIdle(sub.id)
			return
		}

		notification := s.buffer.Get(sub.cursor)
		sub.cursor++

		if sub.cursor == s.minCursorLocked() {
			s.buffer.DequeueThrough(sub.cursor - 1)
		}
		s.mu.Unlock()

		ack := notification.Deliver(ctx, sub.observer)

		if r, ok := immediateResult(ack); ok {
			if r == AckStop {
				s.removeSubscriber(sub.id)
				return
			}

			syncIdx = s.scheduler.NextFrameIndex(syncIdx)
			if syncIdx == 0 {
				s.scheduler.Schedule(func() { s.runFastLoop(ctx, sub) })
				return
			}
			if syncIdx < 0 {
				return
			}
			continue
		}

		ack.Subscribe(func(r AckResult) {
			if r == AckStop {
				s.removeSubscriber(sub.id)
				return
			}
			s.runFastLoop(ctx, sub)
		})
		return
	}
}

// minCursorLocked returns the minimum cursor across all active subscribers.
// Callers must hold s.mu. Returns the live edge if there are no subscribers,
// so DequeueThrough is never called spuriously.
func (s *CachedServeFirstSubject[T]) minCursorLocked() int {
	min := s.buffer.LastIdx()
	for _, sub := range s.subscribers {
		if sub.disposed {
			continue
		}
		if sub.cursor < min {
			min = sub.cursor
		}
	}
	return min
}

func (s *CachedServeFirstSubject[T]) getSubscriber(id int) (*subjectSubscriber[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subscribers[id]
	return sub, ok
}

func (s *CachedServeFirstSubject[T]) reinsertIdle(id int) {
	s.mu.Lock()
	if _, ok := s.subscribers[id]; ok {
		s.idle = append(s.idle, id)
	}
	s.mu.Unlock()
}

func (s *CachedServeFirstSubject[T]) removeSubscriber(id int) {
	s.mu.Lock()
	if sub, ok := s.subscribers[id]; ok {
		sub.disposed = true
		delete(s.subscribers, id)
	}
	filtered := s.idle[:0]
	for _, existing := range s.idle {
		if existing != id {
			filtered = append(filtered, existing)
		}
	}
	s.idle = filtered
	s.mu.Unlock()
}
