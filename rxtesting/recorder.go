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

package rxtesting

import (
	"context"
	"sync"

	rx "github.com/JIAWea/rxbackpressure"
)

// Recorder is an Observer[T] that records every notification it receives
// and answers a scripted AckResult for each on_next, so a test can exercise
// an operator's back-pressure handling deterministically instead of always
// answering Continue.
type Recorder[T any] struct {
	mu sync.Mutex

	// NextAck, when non-nil, is consulted for every on_next to decide what
	// Ack to hand back; absent, every on_next answers Continue immediately.
	NextAck func(batch rx.Batch[T]) rx.Ack

	values          []T
	batchCount      int
	err             error
	completed       bool
	completedBefore bool
}

// NewRecorder creates an empty Recorder that answers Continue to every
// on_next unless NextAck is set afterward.
func NewRecorder[T any]() *Recorder[T] {
	return &Recorder[T]{}
}

// Values returns every element observed so far, across every batch, in
// delivery order.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.values...)
}

// BatchCount reports how many on_next calls were received.
func (r *Recorder[T]) BatchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batchCount
}

// Err returns the error delivered via on_error, or nil if none arrived.
func (r *Recorder[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Completed reports whether on_completed was delivered.
func (r *Recorder[T]) Completed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completed
}

func (r *Recorder[T]) OnNext(batch rx.Batch[T]) rx.Ack {
	return r.OnNextWithContext(context.Background(), batch)
}

func (r *Recorder[T]) OnNextWithContext(_ context.Context, batch rx.Batch[T]) rx.Ack {
	r.mu.Lock()
	r.batchCount++
	r.values = append(r.values, batch.ToSlice()...)
	ackFn := r.NextAck
	r.mu.Unlock()

	if ackFn != nil {
		return ackFn(batch)
	}
	return rx.Continue
}

func (r *Recorder[T]) OnError(err error) {
	r.OnErrorWithContext(context.Background(), err)
}

func (r *Recorder[T]) OnErrorWithContext(_ context.Context, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.completedBefore {
		return
	}
	r.completedBefore = true
	r.err = err
}

func (r *Recorder[T]) OnCompleted() {
	r.OnCompletedWithContext(context.Background())
}

func (r *Recorder[T]) OnCompletedWithContext(context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.completedBefore {
		return
	}
	r.completedBefore = true
	r.completed = true
}

func (r *Recorder[T]) IsClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completedBefore
}

func (r *Recorder[T]) HasThrown() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err != nil
}

func (r *Recorder[T]) IsCompleted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completed
}

var _ rx.Observer[int] = (*Recorder[int])(nil)
