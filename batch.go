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

// Iterator is a pull cursor over a lazily produced finite sequence. Next
// returns the next element and true, or the zero value and false once
// exhausted. An Iterator must not be shared across goroutines.
type Iterator[T any] interface {
	Next() (T, bool)
}

// sliceIterator adapts an in-memory slice to Iterator.
type sliceIterator[T any] struct {
	values []T
	index  int
}

func (it *sliceIterator[T]) Next() (T, bool) {
	if it.index >= len(it.values) {
		var zero T
		return zero, false
	}

	v := it.values[it.index]
	it.index++
	return v, true
}

// funcIterator adapts a next-function to Iterator.
type funcIterator[T any] struct {
	next func() (T, bool)
}

func (it *funcIterator[T]) Next() (T, bool) {
	return it.next()
}

// Batch is a lazy, finite sequence of elements, produced on demand at most
// once. One Batch corresponds to exactly one on_next call and exactly one
// Ack. Calling a Batch twice is allowed by the type system but operators
// must treat it as a one-shot thunk, matching the "at most once" element
// production the spec requires.
type Batch[T any] func() Iterator[T]

// NewBatchFromSlice builds a Batch that replays the given slice once.
func NewBatchFromSlice[T any](values []T) Batch[T] {
	return func() Iterator[T] {
		return &sliceIterator[T]{values: values}
	}
}

// NewBatchFromFunc builds a Batch from a raw next-function.
func NewBatchFromFunc[T any](next func() (T, bool)) Batch[T] {
	return func() Iterator[T] {
		return &funcIterator[T]{next: next}
	}
}

// NewSingletonBatch builds a Batch containing exactly one element.
func NewSingletonBatch[T any](value T) Batch[T] {
	return NewBatchFromSlice([]T{value})
}

// EmptyBatch returns a Batch with zero elements.
func EmptyBatch[T any]() Batch[T] {
	return NewBatchFromSlice[T](nil)
}

// ToSlice drains a Batch into a slice. Intended for operators and tests that
// need eager materialization (ToList, test assertions); hot-path operators
// should prefer pulling the Iterator directly.
func (b Batch[T]) ToSlice() []T {
	it := b()
	out := []T{}

	for {
		v, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

// MapBatch lazily maps every element of a Batch through f, without
// materializing the source Batch.
func MapBatch[T, R any](b Batch[T], f func(T) R) Batch[R] {
	return func() Iterator[R] {
		source := b()
		return &funcIterator[R]{
			next: func() (R, bool) {
				v, ok := source.Next()
				if !ok {
					var zero R
					return zero, false
				}
				return f(v), true
			},
		}
	}
}

// FilterBatch lazily filters the elements of a Batch through pred.
func FilterBatch[T any](b Batch[T], pred func(T) bool) Batch[T] {
	return func() Iterator[T] {
		source := b()
		return &funcIterator[T]{
			next: func() (T, bool) {
				for {
					v, ok := source.Next()
					if !ok {
						var zero T
						return zero, false
					}
					if pred(v) {
						return v, true
					}
				}
			},
		}
	}
}
