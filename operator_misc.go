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

import "context"

// DebugHooks are the optional callbacks Debug fires around the subscription
// it observes. A nil hook is skipped.
type DebugHooks[T any] struct {
	Name      string
	OnNext    func(name string, batch Batch[T])
	OnAck     func(name string, result AckResult)
	OnError   func(name string, err error)
	OnSubscribe func(name string)
}

// Debug is a transparent pass-through operator that fires hooks around each
// notification, for tracing a pipeline during development.
func Debug[T any](hooks DebugHooks[T]) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservable(func(ctx context.Context, destination Observer[T]) Teardown {
			if hooks.OnSubscribe != nil {
				hooks.OnSubscribe(hooks.Name)
			}

			upstream := source.ObserveWithContext(ctx, NewObserverInfo[T](NewObserverWithContext[T](
				func(ctx context.Context, batch Batch[T]) Ack {
					if hooks.OnNext != nil {
						hooks.OnNext(hooks.Name, batch)
					}
					ack := destination.OnNextWithContext(ctx, batch)
					if hooks.OnAck != nil {
						ack.Subscribe(func(result AckResult) { hooks.OnAck(hooks.Name, result) })
					}
					return ack
				},
				func(ctx context.Context, err error) {
					if hooks.OnError != nil {
						hooks.OnError(hooks.Name, err)
					}
					destination.OnErrorWithContext(ctx, err)
				},
				destination.OnCompletedWithContext,
			)))

			return upstream.Dispose
		})
	}
}

// ExecuteOn moves where the upstream's subscription-time work (the Observe
// call itself) runs, as opposed to ObserveOn which moves where its
// *notifications* are delivered. A source whose constructor blocks or does
// expensive setup should be wrapped in ExecuteOn rather than ObserveOn.
func ExecuteOn[T any](scheduler Scheduler) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservable(func(ctx context.Context, destination Observer[T]) Teardown {
			composite := NewCompositeDisposable()

			scheduler.Schedule(func() {
				if composite.IsDisposed() {
					return
				}
				composite.Add(source.ObserveWithContext(ctx, NewObserverInfo[T](destination)))
			})

			return composite.Dispose
		})
	}
}

// Concat subscribes to each source in turn, forwarding completion of one
// into a subscription of the next; only the last source's completion (or
// any source's error) propagates downstream.
func Concat[T any](sources ...Observable[T]) Observable[T] {
	return NewObservable(func(ctx context.Context, destination Observer[T]) Teardown {
		var current Disposable

		var subscribeNext func(index int)
		subscribeNext = func(index int) {
			if index >= len(sources) {
				destination.OnCompletedWithContext(ctx)
				return
			}

			current = sources[index].ObserveWithContext(ctx, NewObserverInfo[T](NewObserverWithContext[T](
				func(ctx context.Context, batch Batch[T]) Ack {
					return destination.OnNextWithContext(ctx, batch)
				},
				destination.OnErrorWithContext,
				func(ctx context.Context) { subscribeNext(index + 1) },
			)))
		}

		subscribeNext(0)

		return func() {
			if current != nil {
				current.Dispose()
			}
		}
	})
}

// Window groups elements into fixed-size batches, each emitted downstream as
// its own Next notification once `size` elements have accumulated. If
// upstream completes with a partial window buffered, that partial window is
// flushed as one final short batch before downstream completion (see
// DESIGN.md for why this reading was chosen over discarding the remainder).
func Window[T any](size int) func(Observable[T]) Observable[T] {
	if size < 1 {
		size = 1
	}

	return func(source Observable[T]) Observable[T] {
		return NewObservable(func(ctx context.Context, destination Observer[T]) Teardown {
			var pending []T

			upstream := source.ObserveWithContext(ctx, NewObserverInfo[T](NewObserverWithContext[T](
				func(ctx context.Context, batch Batch[T]) Ack {
					pending = append(pending, batch.ToSlice()...)

					var lastAck Ack = Continue
					for len(pending) >= size {
						window := pending[:size]
						pending = pending[size:]
						lastAck = destination.OnNextWithContext(ctx, NewBatchFromSlice(append([]T(nil), window...)))
					}
					return lastAck
				},
				destination.OnErrorWithContext,
				func(ctx context.Context) {
					if len(pending) > 0 {
						destination.OnNextWithContext(ctx, NewBatchFromSlice(pending))
						pending = nil
					}
					destination.OnCompletedWithContext(ctx)
				},
			)))

			return upstream.Dispose
		})
	}
}
