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
	"sync"
)

// ConnectableObservable wraps a cold source so it can be multicast: Observe
// attaches a new subscriber to the shared subject without starting a new
// execution of source; Connect performs that one execution, feeding
// whatever is currently subscribed (and anyone who subscribes later).
type ConnectableObservable[T any] struct {
	mu         sync.Mutex
	source     Observable[T]
	subject    *CachedServeFirstSubject[T]
	connection Disposable
}

// NewConnectableObservable builds a ConnectableObservable over source.
func NewConnectableObservable[T any](source Observable[T]) *ConnectableObservable[T] {
	return &ConnectableObservable[T]{
		source:  source,
		subject: NewCachedServeFirstSubject[T](),
	}
}

// Connect starts feeding source into the shared subject, if it isn't
// already. Calling Connect again before Disconnect is a no-op returning the
// existing connection's Disposable.
func (c *ConnectableObservable[T]) Connect(ctx context.Context) Disposable {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connection != nil {
		return c.connection
	}

	c.connection = c.source.ObserveWithContext(ctx, NewObserverInfo[T](c.subject))
	return c.connection
}

// Disconnect tears down the current connection, if any, so a future Connect
// starts source over from scratch.
func (c *ConnectableObservable[T]) Disconnect() {
	c.mu.Lock()
	connection := c.connection
	c.connection = nil
	c.mu.Unlock()

	if connection != nil {
		connection.Dispose()
	}
}

// Observe attaches a new subscriber to the shared subject; it never starts
// source running on its own — see Connect/RefCount for that.
func (c *ConnectableObservable[T]) Observe(info ObserverInfo[T]) Disposable {
	return c.subject.Observe(info)
}

// ObserveWithContext is equivalent to Observe; the shared subject ignores
// per-subscriber contexts since it already runs under the context Connect
// was called with.
func (c *ConnectableObservable[T]) ObserveWithContext(_ context.Context, info ObserverInfo[T]) Disposable {
	return c.subject.Observe(info)
}

var _ Observable[int] = (*ConnectableObservable[int])(nil)

// isHotObservable is implemented by the multicast Observable wrappers this
// package produces (ConnectableObservable, and the Share/RefCount result
// below). FlatMap uses it to reject a hot source at subscribe time, since it
// cannot control the pace of something that emits independently of who is
// currently observing it.
type isHotObservable interface {
	hot() bool
}

func (c *ConnectableObservable[T]) hot() bool { return true }

// Share multicasts source to every subscriber via ref-counting: the first
// subscriber triggers Connect, the last one to unsubscribe triggers
// Disconnect, so unrelated subscription bursts each get a fresh execution of
// source rather than piling onto however source's state decayed previously.
func Share[T any](source Observable[T]) Observable[T] {
	return RefCount(NewConnectableObservable(source))
}

// refCountObservable wraps the plain Observable RefCount builds so that it
// stays statically identifiable as hot even after being wrapped in
// NewObservable, which would otherwise erase the distinction.
type refCountObservable[T any] struct {
	Observable[T]
}

func (refCountObservable[T]) hot() bool { return true }

var _ isHotObservable = refCountObservable[int]{}

// RefCount wraps a ConnectableObservable so that Observe manages
// Connect/Disconnect by counting active subscribers.
func RefCount[T any](connectable *ConnectableObservable[T]) Observable[T] {
	var (
		mu    sync.Mutex
		count int
	)

	return refCountObservable[T]{NewObservable(func(ctx context.Context, destination Observer[T]) Teardown {
		mu.Lock()
		count++
		first := count == 1
		mu.Unlock()

		if first {
			connectable.Connect(ctx)
		}

		subscription := connectable.Observe(NewObserverInfo(destination))

		return func() {
			subscription.Dispose()

			mu.Lock()
			count--
			last := count == 0
			mu.Unlock()

			if last {
				connectable.Disconnect()
			}
		}
	})}
}
