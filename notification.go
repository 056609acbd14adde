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
	"fmt"
	"log"
	"sync/atomic"
)

var (
	// onUnhandledError stores the current handler for unhandled errors. It is
	// accessed via atomic.Value so concurrent readers and writers never race.
	onUnhandledError atomic.Value // func(context.Context, error)

	// onDroppedNotification stores the current handler for dropped notifications,
	// i.e. notifications delivered to an Observer that is already terminal.
	onDroppedNotification atomic.Value // func(context.Context, fmt.Stringer)
)

func init() {
	onUnhandledError.Store(IgnoreOnUnhandledError)
	onDroppedNotification.Store(IgnoreOnDroppedNotification)
}

// SetOnUnhandledError sets the handler invoked when an error has nowhere left
// to go (e.g. a panic recovered outside of any subscription's on_error).
// Passing nil restores the default (silent) handler.
func SetOnUnhandledError(fn func(ctx context.Context, err error)) {
	if fn == nil {
		fn = IgnoreOnUnhandledError
	}
	onUnhandledError.Store(fn)
}

// GetOnUnhandledError returns the currently configured unhandled-error handler.
func GetOnUnhandledError() func(ctx context.Context, err error) {
	return onUnhandledError.Load().(func(context.Context, error))
}

// OnUnhandledError invokes the currently configured unhandled-error handler.
func OnUnhandledError(ctx context.Context, err error) {
	GetOnUnhandledError()(ctx, err)
}

// SetOnDroppedNotification sets the handler invoked whenever a Next, Error,
// or Completed notification is dropped because its Observer had already
// reached a terminal state (§7 DisposedAccess). Passing nil restores silence.
func SetOnDroppedNotification(fn func(ctx context.Context, notification fmt.Stringer)) {
	if fn == nil {
		fn = IgnoreOnDroppedNotification
	}
	onDroppedNotification.Store(fn)
}

// GetOnDroppedNotification returns the currently configured dropped-notification handler.
func GetOnDroppedNotification() func(ctx context.Context, notification fmt.Stringer) {
	return onDroppedNotification.Load().(func(context.Context, fmt.Stringer))
}

// OnDroppedNotification invokes the currently configured dropped-notification handler.
func OnDroppedNotification(ctx context.Context, notification fmt.Stringer) {
	GetOnDroppedNotification()(ctx, notification)
}

// IgnoreOnUnhandledError is the default unhandled-error handler: it does nothing.
func IgnoreOnUnhandledError(ctx context.Context, err error) {}

// IgnoreOnDroppedNotification is the default dropped-notification handler: it does nothing.
func IgnoreOnDroppedNotification(ctx context.Context, notification fmt.Stringer) {}

// DefaultOnUnhandledError logs the error via the standard library logger.
// Opt into it with SetOnUnhandledError(DefaultOnUnhandledError) during
// development; production code usually wants a quieter or metrics-backed hook.
func DefaultOnUnhandledError(ctx context.Context, err error) {
	if err != nil {
		log.Printf("rxbackpressure: unhandled error: %s\n", err.Error())
	}
}

var _ fmt.Stringer = (*Notification[int])(nil)

// DefaultOnDroppedNotification logs the dropped notification via the standard
// library logger.
func DefaultOnDroppedNotification(ctx context.Context, notification fmt.Stringer) {
	log.Printf("rxbackpressure: dropped notification: %s\n", notification.String())
}

// Kind identifies the variant carried by a Notification: a value, an error,
// or a completion signal.
type Kind uint8

// Kind constants.
const (
	KindNext Kind = iota
	KindError
	KindCompleted
)

// String returns the human-readable name of the Kind.
func (k Kind) String() string {
	switch k {
	case KindNext:
		return "Next"
	case KindError:
		return "Error"
	case KindCompleted:
		return "Completed"
	}

	panic("rxbackpressure: unknown notification kind")
}

// Notification captures one of the three events an Observer can receive:
// a batch of values, an error, or completion. CachedServeFirstSubject's
// buffer (§4.6) stores a queue of these, and the dropped-notification hook
// receives one whenever a notification cannot be delivered.
type Notification[T any] struct {
	Kind  Kind
	Batch Batch[T]
	Err   error
}

// NewNextNotification wraps a Batch in a Next notification.
func NewNextNotification[T any](batch Batch[T]) Notification[T] {
	return Notification[T]{Kind: KindNext, Batch: batch}
}

// NewErrorNotification wraps an error in an Error notification.
func NewErrorNotification[T any](err error) Notification[T] {
	return Notification[T]{Kind: KindError, Err: err}
}

// NewCompletedNotification builds a Completed notification.
func NewCompletedNotification[T any]() Notification[T] {
	return Notification[T]{Kind: KindCompleted}
}

// String implements fmt.Stringer, used by the dropped-notification hook.
func (n Notification[T]) String() string {
	switch n.Kind {
	case KindNext:
		return "Next(...)"
	case KindError:
		if n.Err == nil {
			return "Error(nil)"
		}
		return fmt.Sprintf("Error(%s)", n.Err.Error())
	case KindCompleted:
		return "Completed()"
	}

	panic("rxbackpressure: unknown notification kind")
}

// Deliver replays the notification against an Observer, returning the Ack
// produced by a Next notification (Continue for Error/Completed, since
// there is nothing further to acknowledge after a terminal notification).
func (n Notification[T]) Deliver(ctx context.Context, destination Observer[T]) Ack {
	switch n.Kind {
	case KindNext:
		return destination.OnNextWithContext(ctx, n.Batch)
	case KindError:
		destination.OnErrorWithContext(ctx, n.Err)
		return Continue
	case KindCompleted:
		destination.OnCompletedWithContext(ctx)
		return Continue
	}

	panic("rxbackpressure: unknown notification kind")
}
