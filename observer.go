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
	"sync/atomic"

	"github.com/samber/lo"
)

// Observer is the consumer of an Observable. It receives Batches, at most
// one Error, and at most one Completed — and never a Batch after either.
// Calls are serialized: after OnNext returns a pending Ack, the caller must
// not invoke OnNext again until that Ack resolves.
type Observer[T any] interface {
	// OnNext delivers the next Batch. Returns Continue/Stop immediately (an
	// "immediate ack"), or a pending Ack resolved exactly once later.
	OnNext(batch Batch[T]) Ack
	OnNextWithContext(ctx context.Context, batch Batch[T]) Ack

	// OnError delivers a terminal error. Called at most once; never after OnCompleted.
	OnError(err error)
	OnErrorWithContext(ctx context.Context, err error)

	// OnCompleted delivers terminal completion. Called at most once; never after OnError.
	OnCompleted()
	OnCompletedWithContext(ctx context.Context)

	// IsClosed reports whether a terminal notification has already been delivered.
	IsClosed() bool
	// HasThrown reports whether the terminal notification was an error.
	HasThrown() bool
	// IsCompleted reports whether the terminal notification was completion.
	IsCompleted() bool
}

var _ Observer[int] = (*observerImpl[int])(nil)

// NewObserver creates an Observer from plain callbacks (no context).
func NewObserver[T any](onNext func(Batch[T]) Ack, onError func(error), onCompleted func()) Observer[T] {
	return NewObserverWithContext(
		func(ctx context.Context, batch Batch[T]) Ack { return onNext(batch) },
		func(ctx context.Context, err error) { onError(err) },
		func(ctx context.Context) { onCompleted() },
	)
}

// NewObserverWithContext creates an Observer whose callbacks each receive
// the subscription's context.
func NewObserverWithContext[T any](
	onNext func(ctx context.Context, batch Batch[T]) Ack,
	onError func(ctx context.Context, err error),
	onCompleted func(ctx context.Context),
) Observer[T] {
	return &observerImpl[T]{
		capturePanics: true,
		onNext:        onNext,
		onError:       onError,
		onCompleted:   onCompleted,
	}
}

// NewUnsafeObserver creates an Observer that does not wrap callbacks with
// panic recovery. Use only on performance-sensitive paths where the caller
// guarantees no panics, or wants them to propagate to the caller.
func NewUnsafeObserver[T any](onNext func(Batch[T]) Ack, onError func(error), onCompleted func()) Observer[T] {
	return &observerImpl[T]{
		capturePanics: false,
		onNext:        func(ctx context.Context, batch Batch[T]) Ack { return onNext(batch) },
		onError:       func(ctx context.Context, err error) { onError(err) },
		onCompleted:   func(ctx context.Context) { onCompleted() },
	}
}

// observer status values.
const (
	observerActive int32 = iota
	observerErrored
	observerCompleted
)

type observerImpl[T any] struct {
	status        int32
	capturePanics bool
	onNext        func(context.Context, Batch[T]) Ack
	onError       func(context.Context, error)
	onCompleted   func(context.Context)
}

func (o *observerImpl[T]) OnNext(batch Batch[T]) Ack {
	return o.OnNextWithContext(context.Background(), batch)
}

func (o *observerImpl[T]) OnNextWithContext(ctx context.Context, batch Batch[T]) Ack {
	if o.onNext == nil || atomic.LoadInt32(&o.status) != observerActive {
		OnDroppedNotification(ctx, NewNextNotification(batch))
		return Stop
	}

	return o.tryNext(ctx, batch)
}

func (o *observerImpl[T]) OnError(err error) {
	o.OnErrorWithContext(context.Background(), err)
}

func (o *observerImpl[T]) OnErrorWithContext(ctx context.Context, err error) {
	if o.onError == nil || !atomic.CompareAndSwapInt32(&o.status, observerActive, observerErrored) {
		OnDroppedNotification(ctx, NewErrorNotification[T](err))
		return
	}

	o.tryError(ctx, err)
}

func (o *observerImpl[T]) OnCompleted() {
	o.OnCompletedWithContext(context.Background())
}

func (o *observerImpl[T]) OnCompletedWithContext(ctx context.Context) {
	if o.onCompleted == nil || !atomic.CompareAndSwapInt32(&o.status, observerActive, observerCompleted) {
		OnDroppedNotification(ctx, NewCompletedNotification[T]())
		return
	}

	o.tryCompleted(ctx)
}

func (o *observerImpl[T]) tryNext(ctx context.Context, batch Batch[T]) (ack Ack) {
	if !o.capturePanics {
		return o.onNext(ctx, batch)
	}

	ack = Stop

	lo.TryCatchWithErrorValue(
		func() error {
			ack = o.onNext(ctx, batch)
			return nil
		},
		func(e any) {
			err := newObserverError(recoverValueToError(e))

			if o.onError == nil {
				OnUnhandledError(ctx, err)
				return
			}

			if atomic.CompareAndSwapInt32(&o.status, observerActive, observerErrored) {
				o.tryError(ctx, err)
			}
		},
	)

	return ack
}

func (o *observerImpl[T]) tryError(ctx context.Context, err error) {
	if !o.capturePanics {
		o.onError(ctx, err)
		return
	}

	lo.TryCatchWithErrorValue(
		func() error {
			o.onError(ctx, err)
			return nil
		},
		func(e any) {
			OnUnhandledError(ctx, newObserverError(recoverValueToError(e)))
		},
	)
}

func (o *observerImpl[T]) tryCompleted(ctx context.Context) {
	if !o.capturePanics {
		o.onCompleted(ctx)
		return
	}

	lo.TryCatchWithErrorValue(
		func() error {
			o.onCompleted(ctx)
			return nil
		},
		func(e any) {
			OnUnhandledError(ctx, newObserverError(recoverValueToError(e)))
		},
	)
}

func (o *observerImpl[T]) IsClosed() bool {
	return atomic.LoadInt32(&o.status) != observerActive
}

func (o *observerImpl[T]) HasThrown() bool {
	return atomic.LoadInt32(&o.status) == observerErrored
}

func (o *observerImpl[T]) IsCompleted() bool {
	return atomic.LoadInt32(&o.status) == observerCompleted
}

// NoopObserver is an Observer that discards everything and always Continues.
func NoopObserver[T any]() Observer[T] {
	return NewObserverWithContext(
		func(ctx context.Context, batch Batch[T]) Ack { return Continue },
		func(ctx context.Context, err error) {},
		func(ctx context.Context) {},
	)
}
