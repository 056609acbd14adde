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
	"sync/atomic"
)

// Merge sends every element emitted by either left or right downstream, in
// the order each side's on_next arrives. An emission that arrives while the
// other side's previous emission is still awaiting its downstream ack is
// held until that ack resolves, since destination's on_next calls must stay
// serialized.
// Completion is forwarded only once both sides have completed and no
// emission is still in flight; an error is forwarded once, any second error
// (from either side) is swallowed.
func Merge[T any](left, right Observable[T]) Observable[T] {
	return NewObservable(func(ctx context.Context, destination Observer[T]) Teardown {
		m := &mergeState[T]{destination: destination}

		leftDisposable := left.ObserveWithContext(ctx, NewObserverInfo[T](NewObserverWithContext[T](
			func(ctx context.Context, batch Batch[T]) Ack {
				return m.onNext(ctx, &m.left, &m.right, batch)
			},
			func(ctx context.Context, err error) { m.onError(ctx, err) },
			func(ctx context.Context) { m.onCompleted(ctx, &m.left, &m.right) },
		)))

		rightDisposable := right.ObserveWithContext(ctx, NewObserverInfo[T](NewObserverWithContext[T](
			func(ctx context.Context, batch Batch[T]) Ack {
				return m.onNext(ctx, &m.right, &m.left, batch)
			},
			func(ctx context.Context, err error) { m.onError(ctx, err) },
			func(ctx context.Context) { m.onCompleted(ctx, &m.right, &m.left) },
		)))

		return func() {
			leftDisposable.Dispose()
			rightDisposable.Dispose()
		}
	})
}

// MergeAll merges an arbitrary number of sources by folding Merge pairwise.
func MergeAll[T any](sources ...Observable[T]) Observable[T] {
	if len(sources) == 0 {
		return NewObservable(func(ctx context.Context, destination Observer[T]) Teardown {
			destination.OnCompletedWithContext(ctx)
			return nil
		})
	}

	merged := sources[0]
	for _, source := range sources[1:] {
		merged = Merge(merged, source)
	}
	return merged
}

type mergeSide struct {
	pending   Ack
	completed bool
}

type mergeState[T any] struct {
	mu          sync.Mutex
	destination Observer[T]
	left        mergeSide
	right       mergeSide
	errored     int32
}

func (m *mergeState[T]) onNext(ctx context.Context, mine, other *mergeSide, batch Batch[T]) Ack {
	m.mu.Lock()

	if other.pending == nil {
		ack := m.destination.OnNextWithContext(ctx, batch)
		mine.pending = ack
		m.mu.Unlock()

		ack.Subscribe(func(AckResult) {
			m.mu.Lock()
			mine.pending = nil
			m.mu.Unlock()
			m.tryComplete(ctx)
		})

		return ack
	}

	waitFor := other.pending
	m.mu.Unlock()

	result := NewPendingAck()
	waitFor.Subscribe(func(AckResult) {
		m.mu.Lock()
		ack := m.destination.OnNextWithContext(ctx, batch)
		mine.pending = ack
		m.mu.Unlock()

		ack.Subscribe(func(r AckResult) {
			m.mu.Lock()
			mine.pending = nil
			m.mu.Unlock()
			result.Resolve(r)
			m.tryComplete(ctx)
		})
	})

	return result
}

func (m *mergeState[T]) onCompleted(ctx context.Context, mine, _ *mergeSide) {
	m.mu.Lock()
	mine.completed = true
	m.mu.Unlock()

	m.tryComplete(ctx)
}

func (m *mergeState[T]) tryComplete(ctx context.Context) {
	m.mu.Lock()
	done := m.left.completed && m.right.completed && m.left.pending == nil && m.right.pending == nil
	m.mu.Unlock()

	if done {
		m.destination.OnCompletedWithContext(ctx)
	}
}

func (m *mergeState[T]) onError(ctx context.Context, err error) {
	if atomic.CompareAndSwapInt32(&m.errored, 0, 1) {
		m.destination.OnErrorWithContext(ctx, err)
	}
}
