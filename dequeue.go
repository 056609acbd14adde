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

// DequeuableBuffer is an ordered queue indexed by a monotonically increasing
// firstIdx. Entries from firstIdx up to (but excluding) lastIdx are
// addressable by Get; DequeueThrough drops every entry at or below a given
// index. CachedServeFirstSubject uses one of these to hold notifications
// that subscribers consume at independent rates: firstIdx only advances once
// the slowest subscriber has moved past it.
type DequeuableBuffer[T any] struct {
	entries  []T
	firstIdx int
}

// NewDequeuableBuffer returns an empty buffer whose first appended entry
// takes index 0.
func NewDequeuableBuffer[T any]() *DequeuableBuffer[T] {
	return &DequeuableBuffer[T]{}
}

// Append adds an entry at the next index (LastIdx) and returns that index.
func (b *DequeuableBuffer[T]) Append(entry T) int {
	b.entries = append(b.entries, entry)
	return b.LastIdx() - 1
}

// Get returns the entry at idx. idx must satisfy FirstIdx() <= idx <
// LastIdx(); callers violate this at their own risk since the buffer trusts
// the cursor bookkeeping done by its caller rather than bounds-checking on
// every read.
func (b *DequeuableBuffer[T]) Get(idx int) T {
	return b.entries[idx-b.firstIdx]
}

// FirstIdx returns the index of the oldest retained entry.
func (b *DequeuableBuffer[T]) FirstIdx() int {
	return b.firstIdx
}

// LastIdx returns one past the index of the newest entry (i.e. the index the
// next Append will take).
func (b *DequeuableBuffer[T]) LastIdx() int {
	return b.firstIdx + len(b.entries)
}

// Len returns the number of entries currently retained.
func (b *DequeuableBuffer[T]) Len() int {
	return len(b.entries)
}

// DequeueThrough drops every entry with index <= idx. Indices below
// FirstIdx() are a no-op. This never shrinks the backing array eagerly
// beyond what's been dropped; callers that need to reclaim memory on a
// long-lived buffer should rely on Go's slice-of-slice growth rather than
// this method compacting on every call.
func (b *DequeuableBuffer[T]) DequeueThrough(idx int) {
	if idx < b.firstIdx {
		return
	}
	if idx >= b.LastIdx() {
		idx = b.LastIdx() - 1
	}

	drop := idx - b.firstIdx + 1
	b.entries = b.entries[drop:]
	b.firstIdx += drop
}
