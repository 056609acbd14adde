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

	"github.com/samber/lo"
)

// Map transforms every element of source with fn. Since Batch is lazy, the
// transform runs once per element, on demand, the first time the downstream
// iterator pulls it — mapping never forces a batch to materialize early.
func Map[T, R any](fn func(T) R) func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		return NewObservable(func(ctx context.Context, destination Observer[R]) Teardown {
			upstream := source.ObserveWithContext(ctx, NewObserverInfo[T](NewObserverWithContext[T](
				func(ctx context.Context, batch Batch[T]) Ack {
					return destination.OnNextWithContext(ctx, MapBatch(batch, fn))
				},
				destination.OnErrorWithContext,
				destination.OnCompletedWithContext,
			)))

			return upstream.Dispose
		})
	}
}

// Filter keeps only elements for which predicate returns true.
func Filter[T any](predicate func(T) bool) func(Observable[T]) Observable[T] {
	return FilterWithIndex[T](func(item T, _ int) bool { return predicate(item) })
}

// FilterWithIndex is Filter with the element's position (reset per batch, not
// per stream — callers needing a running count should close over their own
// counter).
func FilterWithIndex[T any](predicate func(item T, index int) bool) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservable(func(ctx context.Context, destination Observer[T]) Teardown {
			upstream := source.ObserveWithContext(ctx, NewObserverInfo[T](NewObserverWithContext[T](
				func(ctx context.Context, batch Batch[T]) Ack {
					index := 0
					filtered := FilterBatch(batch, func(item T) bool {
						keep := predicate(item, index)
						index++
						return keep
					})
					return destination.OnNextWithContext(ctx, filtered)
				},
				destination.OnErrorWithContext,
				destination.OnCompletedWithContext,
			)))

			return upstream.Dispose
		})
	}
}

// Pairwise emits (previous, current) for every element after the first.
// Nothing is emitted for the first element of the source; it is only
// recorded as the initial "previous".
func Pairwise[T any]() func(Observable[T]) Observable[[2]T] {
	return func(source Observable[T]) Observable[[2]T] {
		return NewObservable(func(ctx context.Context, destination Observer[[2]T]) Teardown {
			var prev T
			hasPrev := false

			upstream := source.ObserveWithContext(ctx, NewObserverInfo[T](NewObserverWithContext[T](
				func(ctx context.Context, batch Batch[T]) Ack {
					out := make([][2]T, 0)

					for it := batch(); ; {
						item, ok := it.Next()
						if !ok {
							break
						}
						if hasPrev {
							out = append(out, [2]T{prev, item})
						}
						prev = item
						hasPrev = true
					}

					if len(out) == 0 {
						return Continue
					}
					return destination.OnNextWithContext(ctx, NewBatchFromSlice(out))
				},
				destination.OnErrorWithContext,
				destination.OnCompletedWithContext,
			)))

			return upstream.Dispose
		})
	}
}

// MapToIterator transforms every element of source into zero or more
// elements, expanding each via fn's Iterator lazily as the downstream pulls
// the resulting Batch — fn itself never sees a Batch, only one source
// element at a time, unlike FlatMap which maps into another Observable and
// therefore needs its own ack bookkeeping.
func MapToIterator[T, R any](fn func(T) Iterator[R]) func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		return NewObservable(func(ctx context.Context, destination Observer[R]) Teardown {
			upstream := source.ObserveWithContext(ctx, NewObserverInfo[T](NewObserverWithContext[T](
				func(ctx context.Context, batch Batch[T]) Ack {
					return destination.OnNextWithContext(ctx, flattenToIterator(batch, fn))
				},
				destination.OnErrorWithContext,
				destination.OnCompletedWithContext,
			)))

			return upstream.Dispose
		})
	}
}

// flattenToIterator builds a Batch[R] that, pulled lazily, walks b's elements
// in order and for each one drains the Iterator fn produces before moving to
// the next source element.
func flattenToIterator[T, R any](b Batch[T], fn func(T) Iterator[R]) Batch[R] {
	return func() Iterator[R] {
		source := b()
		var current Iterator[R]

		next := func() (R, bool) {
			for {
				if current != nil {
					if v, ok := current.Next(); ok {
						return v, true
					}
					current = nil
				}

				item, ok := source.Next()
				if !ok {
					var zero R
					return zero, false
				}

				current = fn(item)
			}
		}

		return &funcIterator[R]{next: next}
	}
}

// ZipWithIndex pairs every element with its position in the overall stream
// (not reset per batch).
func ZipWithIndex[T any]() func(Observable[T]) Observable[lo.Tuple2[T, int64]] {
	return func(source Observable[T]) Observable[lo.Tuple2[T, int64]] {
		return NewObservable(func(ctx context.Context, destination Observer[lo.Tuple2[T, int64]]) Teardown {
			var index int64

			upstream := source.ObserveWithContext(ctx, NewObserverInfo[T](NewObserverWithContext[T](
				func(ctx context.Context, batch Batch[T]) Ack {
					out := make([]lo.Tuple2[T, int64], 0)
					for it := batch(); ; {
						item, ok := it.Next()
						if !ok {
							break
						}
						out = append(out, lo.T2(item, index))
						index++
					}
					return destination.OnNextWithContext(ctx, NewBatchFromSlice(out))
				},
				destination.OnErrorWithContext,
				destination.OnCompletedWithContext,
			)))

			return upstream.Dispose
		})
	}
}
