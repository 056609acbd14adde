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

// ObserverInfo carries an Observer plus the flags an Observable needs at
// observe-time. IsVolatile is carried for callers only: no Observable in
// this package sets or reads it, so volatile observers take part in
// disposal propagation like any other (§F).
type ObserverInfo[T any] struct {
	Observer   Observer[T]
	IsVolatile bool
}

// NewObserverInfo wraps an Observer with default (non-volatile) flags.
func NewObserverInfo[T any](observer Observer[T]) ObserverInfo[T] {
	return ObserverInfo[T]{Observer: observer}
}

// Observable is the low-level push producer: Observe attaches an Observer
// and returns a Disposable that cancels the production. An Observable is a
// factory for executions, not an execution itself — each Observe call
// starts an independent one, unless the Observable is hot (see Subject,
// ConnectableObservable).
type Observable[T any] interface {
	Observe(info ObserverInfo[T]) Disposable
	ObserveWithContext(ctx context.Context, info ObserverInfo[T]) Disposable
}

var _ Observable[int] = (*observableImpl[int])(nil)

// ObserveFunc is the producer-side callback given to NewObservable: it
// receives the context and destination Observer, emits whatever it likes,
// and returns a Teardown to run on disposal (or nil if none is needed).
type ObserveFunc[T any] func(ctx context.Context, destination Observer[T]) Teardown

// NewObservable creates an Observable from an ObserveFunc.
func NewObservable[T any](fn ObserveFunc[T]) Observable[T] {
	return &observableImpl[T]{fn: fn}
}

type observableImpl[T any] struct {
	fn ObserveFunc[T]
}

func (o *observableImpl[T]) Observe(info ObserverInfo[T]) Disposable {
	return o.ObserveWithContext(context.Background(), info)
}

func (o *observableImpl[T]) ObserveWithContext(ctx context.Context, info ObserverInfo[T]) Disposable {
	disposable := NewDisposable(nil).(*baseDisposable)

	lo.TryCatchWithErrorValue(
		func() error {
			teardown := o.fn(ctx, info.Observer)
			if teardown != nil {
				disposable.Add(teardown)
			}
			return nil
		},
		func(e any) {
			err := newObserverError(recoverValueToError(e))
			info.Observer.OnErrorWithContext(ctx, err)
			disposable.Dispose()
		},
	)

	return disposable
}

// Defer recreates the upstream Observable on every Observe call via factory,
// rather than sharing one execution. Grounded on the original
// rxbp/flowables/deferflowable.py, absent from spec.md's operator list but
// useful whenever a cold source must be recomputed per subscription (§E.2).
func Defer[T any](factory func() Observable[T]) Observable[T] {
	return NewObservable(func(ctx context.Context, destination Observer[T]) Teardown {
		inner := factory()
		d := inner.ObserveWithContext(ctx, NewObserverInfo(destination))
		return d.Dispose
	})
}
