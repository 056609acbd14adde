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

// Range emits the integers [start, start+count) in a single batch. Its
// Subscription carries a NumericalBase(count) tag; Match does not use the
// tag and compares elements at runtime.
func Range(start, count int) Flowable[int] {
	values := make([]int, count)
	for i := range values {
		values[i] = start + i
	}

	observable := NewObservable(func(ctx context.Context, destination Observer[int]) Teardown {
		ack := destination.OnNextWithContext(ctx, NewBatchFromSlice(values))
		ack.Subscribe(func(AckResult) {
			destination.OnCompletedWithContext(ctx)
		})
		return nil
	})

	return func(Subscriber) Subscription[int] {
		return Subscription[int]{
			Observable: observable,
			Info:       BaseAndSelectors{Base: NumericalBase(count)},
		}
	}
}

// FromSlice emits every element of values in a single batch, then completes.
func FromSlice[T any](values []T) Observable[T] {
	return NewObservable(func(ctx context.Context, destination Observer[T]) Teardown {
		ack := destination.OnNextWithContext(ctx, NewBatchFromSlice(values))
		ack.Subscribe(func(AckResult) {
			destination.OnCompletedWithContext(ctx)
		})
		return nil
	})
}

// Return emits a single value then completes.
func Return[T any](value T) Observable[T] {
	return FromSlice([]T{value})
}

// Throw immediately errors with err, emitting nothing.
func Throw[T any](err error) Observable[T] {
	return NewObservable(func(ctx context.Context, destination Observer[T]) Teardown {
		destination.OnErrorWithContext(ctx, err)
		return nil
	})
}

// Empty completes immediately, emitting nothing.
func Empty[T any]() Observable[T] {
	return NewObservable(func(ctx context.Context, destination Observer[T]) Teardown {
		destination.OnCompletedWithContext(ctx)
		return nil
	})
}
