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
)

// FlatMap maps every outer element to an inner Observable and concatenates
// their outputs, back-pressure preserved across the boundary: a batch's
// on_next is acknowledged only once every inner it produced has fully
// completed. At most one inner runs at a time. Picking up the next queued
// item is scheduled rather than invoked re-entrantly, so a long run of
// synchronously-completing inners cannot grow the stack unbounded.
//
// source must not be a hot (multicast) flowable — FlatMap cannot control a
// hot source's pace, since it only starts producing for whoever is observing
// when it happens to emit. This is checked at subscribe time against the
// isHotObservable marker implemented by ConnectableObservable and
// Share/RefCount results; a hot source fails the subscription immediately
// with ErrHotFlattenAttempt instead of silently running ahead of back-pressure.
func FlatMap[T, R any](scheduler Scheduler, fn func(T) Observable[R]) func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		return NewObservable(func(ctx context.Context, destination Observer[R]) Teardown {
			if hot, ok := source.(isHotObservable); ok && hot.hot() {
				destination.OnErrorWithContext(ctx, ErrHotFlattenAttempt)
				return nil
			}

			f := &flatMapState[T, R]{
				ctx:         ctx,
				destination: destination,
				fn:          fn,
				scheduler:   scheduler,
			}

			upstream := source.ObserveWithContext(ctx, NewObserverInfo[T](NewObserverWithContext[T](
				func(ctx context.Context, batch Batch[T]) Ack {
					return f.onOuterNext(batch)
				},
				func(ctx context.Context, err error) { f.onOuterError(err) },
				func(ctx context.Context) { f.onOuterCompleted() },
			)))

			return func() {
				upstream.Dispose()
				f.mu.Lock()
				if f.activeInner != nil {
					f.activeInner.Dispose()
				}
				f.mu.Unlock()
			}
		})
	}
}

// flatMapGroup tracks how many inners spawned from one outer batch are still
// running; its ack resolves once remaining drops to zero.
type flatMapGroup struct {
	mu        sync.Mutex
	remaining int
	ack       SettableAck
}

func (g *flatMapGroup) done() {
	g.mu.Lock()
	g.remaining--
	fire := g.remaining == 0
	g.mu.Unlock()

	if fire {
		g.ack.Resolve(AckContinue)
	}
}

type flatMapItem[T any] struct {
	value T
	group *flatMapGroup
}

type flatMapState[T, R any] struct {
	ctx         context.Context
	destination Observer[R]
	fn          func(T) Observable[R]
	scheduler   Scheduler

	mu          sync.Mutex
	queue       []flatMapItem[T]
	activeInner Disposable
	outerDone   bool
	stopped     bool
}

func (f *flatMapState[T, R]) onOuterNext(batch Batch[T]) Ack {
	elems := batch.ToSlice()
	if len(elems) == 0 {
		return Continue
	}

	group := &flatMapGroup{remaining: len(elems), ack: NewPendingAck()}

	items := make([]flatMapItem[T], len(elems))
	for i, v := range elems {
		items[i] = flatMapItem[T]{value: v, group: group}
	}

	f.mu.Lock()
	f.queue = append(f.queue, items...)
	idle := f.activeInner == nil
	f.mu.Unlock()

	if idle {
		f.scheduler.Schedule(f.pumpNext)
	}

	return group.ack
}

func (f *flatMapState[T, R]) pumpNext() {
	f.mu.Lock()
	if len(f.queue) == 0 {
		f.activeInner = nil
		done := f.outerDone
		f.mu.Unlock()

		if done {
			f.destination.OnCompletedWithContext(f.ctx)
		}
		return
	}

	item := f.queue[0]
	f.queue = f.queue[1:]
	f.mu.Unlock()

	inner := f.fn(item.value)
	finished := make(chan struct{})

	disposable := inner.ObserveWithContext(f.ctx, NewObserverInfo[R](NewObserverWithContext[R](
		func(ctx context.Context, innerBatch Batch[R]) Ack {
			return f.destination.OnNextWithContext(ctx, innerBatch)
		},
		func(ctx context.Context, err error) {
			f.onOuterError(err)
			close(finished)
		},
		func(ctx context.Context) {
			close(finished)
		},
	)))

	f.mu.Lock()
	f.activeInner = disposable
	f.mu.Unlock()

	go func() {
		<-finished
		item.group.done()
		f.scheduler.Schedule(f.pumpNext)
	}()
}

func (f *flatMapState[T, R]) onOuterError(err error) {
	f.mu.Lock()
	if f.stopped {
		f.mu.Unlock()
		return
	}
	f.stopped = true
	f.mu.Unlock()

	f.destination.OnErrorWithContext(f.ctx, err)
}

func (f *flatMapState[T, R]) onOuterCompleted() {
	f.mu.Lock()
	f.outerDone = true
	idle := f.activeInner == nil && len(f.queue) == 0
	f.mu.Unlock()

	if idle {
		f.destination.OnCompletedWithContext(f.ctx)
	}
}
