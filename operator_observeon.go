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

type observeOnEntry[T any] struct {
	ctx   context.Context
	batch Batch[T]
	err   error
	kind  Kind
	ack   SettableAck
}

// ObserveOn reschedules downstream delivery onto scheduler: every upstream
// notification is enqueued immediately (the upstream ack it returns is
// pending, resolved once that entry is delivered and its own downstream ack
// resolves), and a single consumer loop running on scheduler drains the
// queue strictly FIFO, waiting for each downstream ack before dequeuing the
// next.
func ObserveOn[T any](scheduler Scheduler) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservable(func(ctx context.Context, destination Observer[T]) Teardown {
			o := &observeOnState[T]{destination: destination, scheduler: scheduler}

			upstream := source.ObserveWithContext(ctx, NewObserverInfo[T](NewObserverWithContext[T](
				func(ctx context.Context, batch Batch[T]) Ack {
					return o.push(observeOnEntry[T]{ctx: ctx, batch: batch, kind: KindNext, ack: NewPendingAck()})
				},
				func(ctx context.Context, err error) {
					o.push(observeOnEntry[T]{ctx: ctx, err: err, kind: KindError, ack: NewPendingAck()})
				},
				func(ctx context.Context) {
					o.push(observeOnEntry[T]{ctx: ctx, kind: KindCompleted, ack: NewPendingAck()})
				},
			)))

			return upstream.Dispose
		})
	}
}

type observeOnState[T any] struct {
	mu        sync.Mutex
	queue     []observeOnEntry[T]
	draining  bool
	scheduler Scheduler
	destination Observer[T]
}

func (o *observeOnState[T]) push(entry observeOnEntry[T]) Ack {
	o.mu.Lock()
	o.queue = append(o.queue, entry)
	idle := !o.draining
	if idle {
		o.draining = true
	}
	o.mu.Unlock()

	if idle {
		o.scheduler.Schedule(o.drainNext)
	}

	return entry.ack
}

func (o *observeOnState[T]) drainNext() {
	o.mu.Lock()
	if len(o.queue) == 0 {
		o.draining = false
		o.mu.Unlock()
		return
	}
	entry := o.queue[0]
	o.queue = o.queue[1:]
	o.mu.Unlock()

	switch entry.kind {
	case KindNext:
		ack := o.destination.OnNextWithContext(entry.ctx, entry.batch)
		ack.Subscribe(func(result AckResult) {
			entry.ack.Resolve(result)
			o.scheduler.Schedule(o.drainNext)
		})
	case KindError:
		o.destination.OnErrorWithContext(entry.ctx, entry.err)
		entry.ack.Resolve(AckStop)
		o.scheduler.Schedule(o.drainNext)
	case KindCompleted:
		o.destination.OnCompletedWithContext(entry.ctx)
		entry.ack.Resolve(AckContinue)
		o.scheduler.Schedule(o.drainNext)
	}
}
