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

	"github.com/JIAWea/rxbackpressure/internal/constraints"
)

// Reduce applies an accumulator over every element and emits exactly one
// result once the source completes.
func Reduce[T, R any](fn func(acc R, item T) R, seed R) func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		return NewObservable(func(ctx context.Context, destination Observer[R]) Teardown {
			acc := seed

			upstream := source.ObserveWithContext(ctx, NewObserverInfo[T](NewObserverWithContext[T](
				func(ctx context.Context, batch Batch[T]) Ack {
					for _, item := range batch.ToSlice() {
						acc = fn(acc, item)
					}
					return Continue
				},
				destination.OnErrorWithContext,
				func(ctx context.Context) {
					destination.OnNextWithContext(ctx, NewSingletonBatch(acc))
					destination.OnCompletedWithContext(ctx)
				},
			)))

			return upstream.Dispose
		})
	}
}

// Sum emits the sum of every element once source completes.
func Sum[T constraints.Numeric]() func(Observable[T]) Observable[T] {
	return Reduce(func(acc, item T) T { return acc + item }, T(0))
}

// Average emits the arithmetic mean once source completes; an empty source
// emits zero since there is no sensible NaN for every constraints.Numeric
// instantiation (unlike the teacher's float64-only Average).
func Average[T constraints.Numeric]() func(Observable[T]) Observable[float64] {
	return func(source Observable[T]) Observable[float64] {
		return NewObservable(func(ctx context.Context, destination Observer[float64]) Teardown {
			var sum float64
			var count int64

			upstream := source.ObserveWithContext(ctx, NewObserverInfo[T](NewObserverWithContext[T](
				func(ctx context.Context, batch Batch[T]) Ack {
					for _, item := range batch.ToSlice() {
						sum += float64(item)
						count++
					}
					return Continue
				},
				destination.OnErrorWithContext,
				func(ctx context.Context) {
					var avg float64
					if count > 0 {
						avg = sum / float64(count)
					}
					destination.OnNextWithContext(ctx, NewSingletonBatch(avg))
					destination.OnCompletedWithContext(ctx)
				},
			)))

			return upstream.Dispose
		})
	}
}

// Min emits the smallest element once source completes. An empty source
// emits nothing.
func Min[T constraints.Numeric]() func(Observable[T]) Observable[T] {
	return extremum[T](func(a, b T) bool { return a < b })
}

// Max emits the largest element once source completes. An empty source
// emits nothing.
func Max[T constraints.Numeric]() func(Observable[T]) Observable[T] {
	return extremum[T](func(a, b T) bool { return a > b })
}

func extremum[T constraints.Numeric](better func(candidate, current T) bool) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservable(func(ctx context.Context, destination Observer[T]) Teardown {
			var (
				best  T
				found bool
			)

			upstream := source.ObserveWithContext(ctx, NewObserverInfo[T](NewObserverWithContext[T](
				func(ctx context.Context, batch Batch[T]) Ack {
					for _, item := range batch.ToSlice() {
						if !found || better(item, best) {
							best = item
							found = true
						}
					}
					return Continue
				},
				destination.OnErrorWithContext,
				func(ctx context.Context) {
					if found {
						destination.OnNextWithContext(ctx, NewSingletonBatch(best))
					}
					destination.OnCompletedWithContext(ctx)
				},
			)))

			return upstream.Dispose
		})
	}
}

// Clamp emits every element clamped to the inclusive [lower, upper] range.
// Panics at construction time if lower > upper, since that range can never
// be satisfied (adapted from the teacher's operator_math.go Clamp, whose
// arbitrary-precision CeilWithPrecision companion is dropped).
func Clamp[T constraints.Numeric](lower, upper T) func(Observable[T]) Observable[T] {
	if lower > upper {
		panic(ErrClampLowerGreaterThanUpper)
	}

	return Map(func(value T) T {
		switch {
		case value < lower:
			return lower
		case value > upper:
			return upper
		default:
			return value
		}
	})
}
