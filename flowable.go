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

// Subscription pairs the Observable produced by a subscribe-time negotiation
// with whatever Base and selectors came out of it. The combining operators
// (Zip, ControlledZip, Match) work on Observables and do not inspect Info.
type Subscription[T any] struct {
	Observable Observable[T]
	Info       BaseAndSelectors
}

// NewSubscription wraps an Observable with no Base and no selectors, the
// common case for sources and single-input operators.
func NewSubscription[T any](observable Observable[T]) Subscription[T] {
	return Subscription[T]{Observable: observable}
}

// Flowable is the composition unit: given a Subscriber (the two schedulers
// governing this subscription), it negotiates Base/selector metadata and
// returns the Observable to observe plus that metadata. Subscription flows
// leaf-to-root — each operator's UnsafeSubscribe calls its upstream's first,
// then wraps the resulting Observable.
type Flowable[T any] func(subscriber Subscriber) Subscription[T]

// NewFlowable wraps a subscribe-time negotiation function as a Flowable.
func NewFlowable[T any](fn func(Subscriber) Subscription[T]) Flowable[T] {
	return fn
}

// FromObservable lifts a plain Observable to a Flowable carrying no Base.
func FromObservable[T any](observable Observable[T]) Flowable[T] {
	return func(Subscriber) Subscription[T] {
		return NewSubscription(observable)
	}
}

// UnsafeSubscribe runs the subscribe-time negotiation, installing whatever
// observer chain this Flowable and its upstreams require. It is "unsafe" in
// the same sense the original uses the word: callers get back a raw
// Subscription and are responsible for actually observing it (or composing
// it into a further operator) rather than a managed Disposable.
func (f Flowable[T]) UnsafeSubscribe(subscriber Subscriber) Subscription[T] {
	return f(subscriber)
}

// Subscribe negotiates the subscription and immediately observes it with
// observer, running subscribe-time work on the subscriber's
// SubscribeScheduler. If subscriber is the zero value, a fresh
// trampoline-backed Subscriber is used.
func (f Flowable[T]) Subscribe(ctx context.Context, subscriber Subscriber, observer Observer[T]) Disposable {
	if subscriber.SubscribeScheduler == nil {
		subscriber = NewSubscriber(nil, nil)
	}

	disposable := NewSingleAssignmentDisposable()
	subscriber.SubscribeScheduler.Schedule(func() {
		subscription := f.UnsafeSubscribe(subscriber)
		disposable.Set(subscription.Observable.ObserveWithContext(ctx, NewObserverInfo(observer)))
	})
	return disposable
}
