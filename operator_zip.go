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

	"github.com/samber/lo"
)

// Zip pairs one element from each upstream, strictly in arrival order. An
// upstream batch's ack resolves only once every element it carried has been
// paired and forwarded — if the other side hasn't produced a match yet, the
// leftover elements sit buffered and the ack stays pending, back-pressuring
// that upstream until the other side catches up.
func Zip[L, R any](left Observable[L], right Observable[R]) Observable[lo.Tuple2[L, R]] {
	return ControlledZip[L, R](left, right,
		func(L, R) bool { return true },
		func(L, R) bool { return true },
		func(L, R) bool { return true },
	)
}

// ControlledZip parameterizes pairing with three predicates evaluated
// against the current head of each side: matchFunc decides whether the
// heads form a pair at all; requestLeft/requestRight decide, independently,
// whether each side's head is consumed (dequeued) once a pair is emitted, or
// kept to be matched again against the other side's next element.
func ControlledZip[L, R any](
	left Observable[L],
	right Observable[R],
	requestLeft func(l L, r R) bool,
	requestRight func(l L, r R) bool,
	matchFunc func(l L, r R) bool,
) Observable[lo.Tuple2[L, R]] {
	return NewObservable(func(ctx context.Context, destination Observer[lo.Tuple2[L, R]]) Teardown {
		z := &zipState[L, R]{
			destination:  destination,
			requestLeft:  requestLeft,
			requestRight: requestRight,
			matchFunc:    matchFunc,
		}

		leftDisposable := left.ObserveWithContext(ctx, NewObserverInfo[L](NewObserverWithContext[L](
			func(ctx context.Context, batch Batch[L]) Ack { return z.onLeft(ctx, batch) },
			func(ctx context.Context, err error) { z.onError(ctx, err) },
			func(ctx context.Context) { z.onLeftCompleted(ctx) },
		)))

		rightDisposable := right.ObserveWithContext(ctx, NewObserverInfo[R](NewObserverWithContext[R](
			func(ctx context.Context, batch Batch[R]) Ack { return z.onRight(ctx, batch) },
			func(ctx context.Context, err error) { z.onError(ctx, err) },
			func(ctx context.Context) { z.onRightCompleted(ctx) },
		)))

		return func() {
			leftDisposable.Dispose()
			rightDisposable.Dispose()
		}
	})
}

// Match is ControlledZip that emits a pair only when the two heads are equal
// (==), consuming both heads after each emitted pair. It works on plain
// Observables and does not consult any Base or selector map (see base.go).
func Match[T comparable](left, right Observable[T]) Observable[lo.Tuple2[T, T]] {
	return ControlledZip[T, T](left, right,
		func(T, T) bool { return true },
		func(T, T) bool { return true },
		func(l, r T) bool { return l == r },
	)
}

type zipState[L, R any] struct {
	mu sync.Mutex

	leftBuf  []L
	rightBuf []R

	leftAck      SettableAck
	rightAck     SettableAck
	leftPending  []Ack
	rightPending []Ack

	leftDone, rightDone bool
	stopped             bool

	destination  Observer[lo.Tuple2[L, R]]
	requestLeft  func(L, R) bool
	requestRight func(L, R) bool
	matchFunc    func(L, R) bool
}

func (z *zipState[L, R]) onLeft(ctx context.Context, batch Batch[L]) Ack {
	elems := batch.ToSlice()
	if len(elems) == 0 {
		return Continue
	}

	z.mu.Lock()
	if z.stopped {
		z.mu.Unlock()
		return Stop
	}

	z.leftBuf = append(z.leftBuf, elems...)
	ack := NewPendingAck()
	z.leftAck = ack
	z.drain(ctx)
	z.mu.Unlock()

	return ack
}

func (z *zipState[L, R]) onRight(ctx context.Context, batch Batch[R]) Ack {
	elems := batch.ToSlice()
	if len(elems) == 0 {
		return Continue
	}

	z.mu.Lock()
	if z.stopped {
		z.mu.Unlock()
		return Stop
	}

	z.rightBuf = append(z.rightBuf, elems...)
	ack := NewPendingAck()
	z.rightAck = ack
	z.drain(ctx)
	z.mu.Unlock()

	return ack
}

// drain must be called with z.mu held.
func (z *zipState[L, R]) drain(ctx context.Context) {
	for len(z.leftBuf) > 0 && len(z.rightBuf) > 0 {
		l, r := z.leftBuf[0], z.rightBuf[0]

		if !z.matchFunc(l, r) {
			break
		}

		downstreamAck := z.destination.OnNextWithContext(ctx, NewSingletonBatch(lo.T2(l, r)))

		consumedLeft := z.requestLeft(l, r)
		consumedRight := z.requestRight(l, r)

		if consumedLeft {
			z.leftBuf = z.leftBuf[1:]
			z.leftPending = append(z.leftPending, downstreamAck)
		}
		if consumedRight {
			z.rightBuf = z.rightBuf[1:]
			z.rightPending = append(z.rightPending, downstreamAck)
		}

		result, ok := immediateResult(downstreamAck)
		if ok && result == AckStop {
			z.stopped = true
			z.resolveSide(&z.leftAck, &z.leftPending)
			z.resolveSide(&z.rightAck, &z.rightPending)
			return
		}

		if !consumedLeft && !consumedRight {
			break
		}
	}

	if len(z.leftBuf) == 0 {
		z.resolveSide(&z.leftAck, &z.leftPending)
		if z.leftDone {
			z.completeOnce(ctx)
		}
	}
	if len(z.rightBuf) == 0 {
		z.resolveSide(&z.rightAck, &z.rightPending)
		if z.rightDone {
			z.completeOnce(ctx)
		}
	}
}

func (z *zipState[L, R]) resolveSide(ack *SettableAck, pending *[]Ack) {
	if *ack == nil {
		return
	}
	toResolve := *ack
	acks := *pending
	*ack = nil
	*pending = nil

	if len(acks) == 0 {
		toResolve.Resolve(AckContinue)
		return
	}

	merged := MergeAcks(acks...)
	merged.Subscribe(func(result AckResult) {
		toResolve.Resolve(result)
	})
}

func (z *zipState[L, R]) onLeftCompleted(ctx context.Context) {
	z.mu.Lock()
	z.leftDone = true
	empty := len(z.leftBuf) == 0
	z.mu.Unlock()

	if empty {
		z.completeOnce(ctx)
	}
}

func (z *zipState[L, R]) onRightCompleted(ctx context.Context) {
	z.mu.Lock()
	z.rightDone = true
	empty := len(z.rightBuf) == 0
	z.mu.Unlock()

	if empty {
		z.completeOnce(ctx)
	}
}

func (z *zipState[L, R]) completeOnce(ctx context.Context) {
	z.mu.Lock()
	if z.stopped {
		z.mu.Unlock()
		return
	}
	z.stopped = true
	z.mu.Unlock()

	z.destination.OnCompletedWithContext(ctx)
}

func (z *zipState[L, R]) onError(ctx context.Context, err error) {
	z.mu.Lock()
	if z.stopped {
		z.mu.Unlock()
		return
	}
	z.stopped = true
	z.mu.Unlock()

	z.destination.OnErrorWithContext(ctx, err)
}

// immediateResult reports whether ack already resolved synchronously (the
// Continue/Stop singletons, or an already-settled pending ack), avoiding an
// unnecessary Subscribe hop on the common fast path.
func immediateResult(ack Ack) (AckResult, bool) {
	switch ack {
	case Continue:
		return AckContinue, true
	case Stop:
		return AckStop, true
	}

	var (
		result  AckResult
		settled bool
	)
	ack.Subscribe(func(r AckResult) {
		result = r
		settled = true
	})

	return result, settled
}
