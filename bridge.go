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
)

// RxObserver is the external-style, ack-less consumer ToRx exposes: OnNext
// returns nothing, since a bridged subscriber cannot exert back-pressure
// on the original pipeline.
type RxObserver[T any] struct {
	OnNext      func(T)
	OnError     func(error)
	OnCompleted func()
}

// ToRx exposes source as an external-style observable that discards
// back-pressure: every on_next it receives internally always answers
// Continue immediately, regardless of how long the RxObserver callback
// takes. Use this only at the edge of a pipeline, handing off to code that
// was never written against the ack-reply contract.
func ToRx[T any](source Observable[T]) func(ctx context.Context, observer RxObserver[T]) Disposable {
	return func(ctx context.Context, observer RxObserver[T]) Disposable {
		return source.ObserveWithContext(ctx, NewObserverInfo[T](NewObserverWithContext[T](
			func(ctx context.Context, batch Batch[T]) Ack {
				for _, item := range batch.ToSlice() {
					if observer.OnNext != nil {
						observer.OnNext(item)
					}
				}
				return Continue
			},
			func(ctx context.Context, err error) {
				if observer.OnError != nil {
					observer.OnError(err)
				}
			},
			func(ctx context.Context) {
				if observer.OnCompleted != nil {
					observer.OnCompleted()
				}
			},
		)))
	}
}

// FromRx lifts an external-style push source (anything that can be told to
// start pushing into a plain callback) into an Observable, inserting a
// BackpressureBufferedObserver so the result honors the ack-reply contract
// even though the underlying producer knows nothing about acks.
func FromRx[T any](
	start func(ctx context.Context, onNext func(T), onError func(error), onCompleted func()) Teardown,
	bufferCapacity int,
	scheduler Scheduler,
) Observable[T] {
	return NewObservable(func(ctx context.Context, destination Observer[T]) Teardown {
		buffered := NewBackpressureBufferedObserver[T](destination, bufferCapacity, BackpressureBlock, scheduler)

		return start(
			ctx,
			func(value T) { buffered.OnNextWithContext(ctx, NewSingletonBatch(value)) },
			func(err error) { buffered.OnErrorWithContext(ctx, err) },
			func() { buffered.OnCompletedWithContext(ctx) },
		)
	})
}

// ToIterator observes source on a separate goroutine and yields its
// elements lazily, one at a time, handing each one over through a channel
// and blocking the calling goroutine between elements. Each element is
// acknowledged only when the next one is requested. Useful for tests and
// batch-style consumers that don't want to build an Observer by hand.
func ToIterator[T any](ctx context.Context, source Observable[T]) func() (T, bool, error) {
	type item struct {
		value T
		err   error
		done  bool
	}

	items := make(chan item, 1)
	acks := make(chan AckResult)

	observer := NewObserverWithContext[T](
		func(ctx context.Context, batch Batch[T]) Ack {
			for _, v := range batch.ToSlice() {
				items <- item{value: v}
				if <-acks == AckStop {
					return Stop
				}
			}
			return Continue
		},
		func(ctx context.Context, err error) {
			items <- item{err: err, done: true}
		},
		func(ctx context.Context) {
			items <- item{done: true}
		},
	)

	disposable := NewSingleAssignmentDisposable()
	go func() {
		disposable.Set(source.ObserveWithContext(ctx, NewObserverInfo[T](observer)))
	}()

	exhausted := false

	return func() (T, bool, error) {
		var zero T
		if exhausted {
			return zero, false, nil
		}

		next := <-items
		if next.done {
			exhausted = true
			disposable.Dispose()
			if next.err != nil {
				return zero, false, next.err
			}
			return zero, false, nil
		}

		acks <- AckContinue
		return next.value, true, nil
	}
}

// Run drains source to completion and returns every element it produced, in
// order, or the first error encountered.
func Run[T any](ctx context.Context, source Observable[T]) ([]T, error) {
	next := ToIterator(ctx, source)

	var out []T
	for {
		value, ok, err := next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, value)
	}
}
