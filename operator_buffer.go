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

// BackpressureMode selects what a BackpressureBufferedObserver does when its
// queue is at capacity.
type BackpressureMode int

const (
	// BackpressureBlock holds the incoming batch aside and returns a pending
	// ack, resolved once a queue slot frees.
	BackpressureBlock BackpressureMode = iota
	// BackpressureEvictOldest drops the oldest queued, not-yet-delivered
	// batch to make room, and always returns Continue immediately.
	BackpressureEvictOldest
)

type bufferEntry[T any] struct {
	ctx   context.Context
	batch Batch[T]
}

// Buffer installs a BackpressureBufferedObserver between source and
// downstream, decoupling source's emission rate from the rate downstream
// actually acks at: every upstream batch is accepted immediately (subject to
// mode once the queue reaches size), and a single drain loop running on
// scheduler delivers them to downstream strictly FIFO.
func Buffer[T any](size int, mode BackpressureMode, scheduler Scheduler) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservable(func(ctx context.Context, destination Observer[T]) Teardown {
			buffered := NewBackpressureBufferedObserver[T](destination, size, mode, scheduler)
			upstream := source.ObserveWithContext(ctx, NewObserverInfo[T](buffered))
			return upstream.Dispose
		})
	}
}

// NewBackpressureBufferedObserver wraps underlying with a bounded queue of
// capacity entries, decoupling the ingress rate from underlying's actual
// processing rate. A single drain loop, run on scheduler, delivers queued
// batches to underlying strictly FIFO.
func NewBackpressureBufferedObserver[T any](underlying Observer[T], capacity int, mode BackpressureMode, scheduler Scheduler) Observer[T] {
	if capacity < 1 {
		capacity = 1
	}

	b := &bufferedObserver[T]{
		underlying: underlying,
		capacity:   capacity,
		mode:       mode,
		scheduler:  scheduler,
	}

	return NewObserverWithContext[T](b.onNext, b.onError, b.onCompleted)
}

type bufferedObserver[T any] struct {
	mu         sync.Mutex
	queue      []bufferEntry[T]
	waiting    []waitingEntry[T]
	draining   bool
	capacity   int
	mode       BackpressureMode
	underlying Observer[T]
	scheduler  Scheduler
}

type waitingEntry[T any] struct {
	entry bufferEntry[T]
	ack   SettableAck
}

func (b *bufferedObserver[T]) onNext(ctx context.Context, batch Batch[T]) Ack {
	b.mu.Lock()

	if len(b.queue) < b.capacity {
		b.queue = append(b.queue, bufferEntry[T]{ctx: ctx, batch: batch})
		idle := !b.draining
		if idle {
			b.draining = true
		}
		b.mu.Unlock()

		if idle {
			b.scheduler.Schedule(b.drainNext)
		}
		return Continue
	}

	if b.mode == BackpressureEvictOldest {
		if len(b.queue) > 0 {
			b.queue = b.queue[1:]
		}
		b.queue = append(b.queue, bufferEntry[T]{ctx: ctx, batch: batch})
		b.mu.Unlock()
		return Continue
	}

	ack := NewPendingAck()
	b.waiting = append(b.waiting, waitingEntry[T]{entry: bufferEntry[T]{ctx: ctx, batch: batch}, ack: ack})
	b.mu.Unlock()

	return ack
}

func (b *bufferedObserver[T]) drainNext() {
	b.mu.Lock()
	if len(b.queue) == 0 {
		b.draining = false
		b.mu.Unlock()
		return
	}
	entry := b.queue[0]
	b.queue = b.queue[1:]
	b.mu.Unlock()

	ack := b.underlying.OnNextWithContext(entry.ctx, entry.batch)
	ack.Subscribe(func(AckResult) {
		b.mu.Lock()
		if len(b.waiting) > 0 {
			next := b.waiting[0]
			b.waiting = b.waiting[1:]
			b.queue = append(b.queue, next.entry)
			b.mu.Unlock()
			next.ack.Resolve(AckContinue)
		} else {
			b.mu.Unlock()
		}
		b.scheduler.Schedule(b.drainNext)
	})
}

func (b *bufferedObserver[T]) onError(ctx context.Context, err error) {
	b.underlying.OnErrorWithContext(ctx, err)
}

func (b *bufferedObserver[T]) onCompleted(ctx context.Context) {
	b.underlying.OnCompletedWithContext(ctx)
}

// ConnectableObserver buffers on_next/on_error/on_completed until Connect is
// called, at which point everything buffered drains to underlying in order
// (buffered next events before any buffered error) and subsequent calls pass
// through live. Connecting twice panics with ErrConnectableAlreadyConnected.
type ConnectableObserver[T any] struct {
	mu         sync.Mutex
	underlying Observer[T]
	connected  bool
	buffer     []bufferEntry[T]
	errCtx     context.Context
	err        error
	hasErr     bool
	completed  bool
	completedCtx context.Context
}

var _ Observer[int] = (*ConnectableObserver[int])(nil)

// NewConnectableObserver creates a disconnected ConnectableObserver atop underlying.
func NewConnectableObserver[T any](underlying Observer[T]) *ConnectableObserver[T] {
	return &ConnectableObserver[T]{underlying: underlying}
}

// Connect drains every buffered notification to underlying, buffered next
// events first, then a buffered error or completion if one arrived. It may
// only be called once.
func (c *ConnectableObserver[T]) Connect() {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		panic(newProtocolViolationError(ErrConnectableAlreadyConnected))
	}
	c.connected = true
	buffer := c.buffer
	c.buffer = nil
	hasErr, errCtx, err := c.hasErr, c.errCtx, c.err
	completed, completedCtx := c.completed, c.completedCtx
	c.mu.Unlock()

	for _, entry := range buffer {
		c.underlying.OnNextWithContext(entry.ctx, entry.batch)
	}
	if hasErr {
		c.underlying.OnErrorWithContext(errCtx, err)
	} else if completed {
		c.underlying.OnCompletedWithContext(completedCtx)
	}
}

func (c *ConnectableObserver[T]) OnNext(batch Batch[T]) Ack {
	return c.OnNextWithContext(context.Background(), batch)
}

func (c *ConnectableObserver[T]) OnNextWithContext(ctx context.Context, batch Batch[T]) Ack {
	c.mu.Lock()
	if !c.connected {
		c.buffer = append(c.buffer, bufferEntry[T]{ctx: ctx, batch: batch})
		c.mu.Unlock()
		return Continue
	}
	c.mu.Unlock()

	return c.underlying.OnNextWithContext(ctx, batch)
}

func (c *ConnectableObserver[T]) OnError(err error) {
	c.OnErrorWithContext(context.Background(), err)
}

func (c *ConnectableObserver[T]) OnErrorWithContext(ctx context.Context, err error) {
	c.mu.Lock()
	if !c.connected {
		c.hasErr, c.errCtx, c.err = true, ctx, err
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.underlying.OnErrorWithContext(ctx, err)
}

func (c *ConnectableObserver[T]) OnCompleted() {
	c.OnCompletedWithContext(context.Background())
}

func (c *ConnectableObserver[T]) OnCompletedWithContext(ctx context.Context) {
	c.mu.Lock()
	if !c.connected {
		c.completed, c.completedCtx = true, ctx
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.underlying.OnCompletedWithContext(ctx)
}

func (c *ConnectableObserver[T]) IsClosed() bool    { return c.underlying.IsClosed() }
func (c *ConnectableObserver[T]) HasThrown() bool   { return c.underlying.HasThrown() }
func (c *ConnectableObserver[T]) IsCompleted() bool { return c.underlying.IsCompleted() }
