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

// First forwards only the first element downstream, immediately returns
// Stop to upstream (cancelling it) and completes downstream. An empty
// upstream yields ErrSequenceContainsNoElements, unless raiseException is
// non-nil, in which case it is called with that error instead of delivering
// it downstream, and downstream is completed without an error.
func First[T any](raiseException func(error)) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservable(func(ctx context.Context, destination Observer[T]) Teardown {
			got := false

			upstream := source.ObserveWithContext(ctx, NewObserverInfo[T](NewObserverWithContext[T](
				func(ctx context.Context, batch Batch[T]) Ack {
					for it := batch(); ; {
						item, ok := it.Next()
						if !ok {
							break
						}
						if !got {
							got = true
							destination.OnNextWithContext(ctx, NewSingletonBatch(item))
							destination.OnCompletedWithContext(ctx)
						}
						return Stop
					}
					return Continue
				},
				destination.OnErrorWithContext,
				func(ctx context.Context) {
					if got {
						return
					}
					if raiseException != nil {
						raiseException(ErrSequenceContainsNoElements)
						destination.OnCompletedWithContext(ctx)
						return
					}
					destination.OnErrorWithContext(ctx, ErrSequenceContainsNoElements)
				},
			)))

			return upstream.Dispose
		})
	}
}

// Scan carries an accumulator across the whole stream: each element lazily
// maps to acc = fn(acc, elem), and that running value is yielded in its
// place. Since the transform happens while the downstream iterates the
// batch, the ack returned is exactly the downstream ack — Scan adds no
// back-pressure semantics of its own.
func Scan[T, R any](fn func(acc R, item T) R, seed R) func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		return NewObservable(func(ctx context.Context, destination Observer[R]) Teardown {
			acc := seed

			upstream := source.ObserveWithContext(ctx, NewObserverInfo[T](NewObserverWithContext[T](
				func(ctx context.Context, batch Batch[T]) Ack {
					mapped := MapBatch(batch, func(item T) R {
						acc = fn(acc, item)
						return acc
					})
					return destination.OnNextWithContext(ctx, mapped)
				},
				destination.OnErrorWithContext,
				destination.OnCompletedWithContext,
			)))

			return upstream.Dispose
		})
	}
}

// ToList collects every element into a single slice, emitted as one batch of
// one element once the source completes.
func ToList[T any]() func(Observable[T]) Observable[[]T] {
	return func(source Observable[T]) Observable[[]T] {
		return NewObservable(func(ctx context.Context, destination Observer[[]T]) Teardown {
			var all []T

			upstream := source.ObserveWithContext(ctx, NewObserverInfo[T](NewObserverWithContext[T](
				func(ctx context.Context, batch Batch[T]) Ack {
					all = append(all, batch.ToSlice()...)
					return Continue
				},
				destination.OnErrorWithContext,
				func(ctx context.Context) {
					destination.OnNextWithContext(ctx, NewSingletonBatch(all))
					destination.OnCompletedWithContext(ctx)
				},
			)))

			return upstream.Dispose
		})
	}
}

// RepeatFirst captures the first element of source and re-emits it forever
// in fixed-size batches once requested; every subsequent upstream element is
// ignored, and upstream completion does not propagate — only disposing the
// subscription stops the repetition.
func RepeatFirst[T any](batchSize int) func(Observable[T]) Observable[T] {
	if batchSize < 1 {
		batchSize = 1
	}

	return func(source Observable[T]) Observable[T] {
		return NewObservable(func(ctx context.Context, destination Observer[T]) Teardown {
			var (
				mu    sync.Mutex
				first T
				ready = make(chan struct{})
				got   bool
			)

			upstream := source.ObserveWithContext(ctx, NewObserverInfo[T](NewObserverWithContext[T](
				func(ctx context.Context, batch Batch[T]) Ack {
					mu.Lock()
					defer mu.Unlock()
					if got {
						return Continue
					}
					item, ok := batch().Next()
					if ok {
						first = item
						got = true
						close(ready)
					}
					return Continue
				},
				func(context.Context, error) {},
				func(context.Context) {},
			)))

			stop := make(chan struct{})

			go func() {
				select {
				case <-ready:
				case <-stop:
					return
				}

				mu.Lock()
				value := first
				mu.Unlock()

				repeated := make([]T, batchSize)
				for i := range repeated {
					repeated[i] = value
				}

				for {
					select {
					case <-stop:
						return
					default:
					}

					if awaitAck(destination.OnNextWithContext(ctx, NewBatchFromSlice(repeated))) == AckStop {
						return
					}
				}
			}()

			return func() {
				close(stop)
				upstream.Dispose()
			}
		})
	}
}

// awaitAck blocks the calling goroutine until ack resolves.
func awaitAck(ack Ack) AckResult {
	done := make(chan AckResult, 1)
	ack.Subscribe(func(r AckResult) { done <- r })
	return <-done
}
