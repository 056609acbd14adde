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
	"errors"
	"fmt"
)

// Sentinel errors. These name the error *kinds* of §7: UserException,
// ProtocolViolation, EmptySequence, and HotFlattenAttempt. DisposedAccess
// never surfaces as an error (it resolves to Stop or a no-op per spec).
var (
	// ErrSequenceContainsNoElements is raised by First() over an empty upstream.
	ErrSequenceContainsNoElements = errors.New("rxbackpressure: sequence contains no elements")

	// ErrHotFlattenAttempt is raised at subscribe time when FlatMap is applied
	// to a hot (shared/connectable) source, whose ack semantics are ambiguous
	// once multiple subscribers exist.
	ErrHotFlattenAttempt = errors.New("rxbackpressure: flat_map over a hot flowable is not supported")

	// ErrAckAlreadyResolved is a protocol violation: an Ack may resolve exactly once.
	ErrAckAlreadyResolved = errors.New("rxbackpressure: ack resolved twice")

	// ErrObserverAfterTerminal is a protocol violation: on_next after on_error/on_completed.
	ErrObserverAfterTerminal = errors.New("rxbackpressure: on_next called after terminal notification")

	// ErrConnectableAlreadyConnected is a protocol violation: connecting a ConnectableObserver twice.
	ErrConnectableAlreadyConnected = errors.New("rxbackpressure: connectable observer already connected")

	// ErrClampLowerGreaterThanUpper guards the numeric Clamp reducer kept from the teacher.
	ErrClampLowerGreaterThanUpper = errors.New("rxbackpressure: clamp lower bound greater than upper bound")
)

// ObserverError wraps a panic recovered from a user-supplied observer
// callback (§7 UserException). It is delivered downstream via on_error.
type ObserverError struct {
	cause error
}

func newObserverError(cause error) *ObserverError {
	return &ObserverError{cause: cause}
}

func (e *ObserverError) Error() string {
	return fmt.Sprintf("rxbackpressure: observer callback panicked: %s", e.cause.Error())
}

func (e *ObserverError) Unwrap() error { return e.cause }

// UnsubscriptionError wraps a panic recovered from a teardown/finalizer
// callback run during disposal.
type UnsubscriptionError struct {
	cause error
}

func newUnsubscriptionError(cause error) *UnsubscriptionError {
	return &UnsubscriptionError{cause: cause}
}

func (e *UnsubscriptionError) Error() string {
	return fmt.Sprintf("rxbackpressure: teardown panicked: %s", e.cause.Error())
}

func (e *UnsubscriptionError) Unwrap() error { return e.cause }

// ProtocolViolationError wraps a broken sequential contract (§7
// ProtocolViolation): on_next after completion, double ack resolution,
// double connect. These are fatal to the affected subscription.
type ProtocolViolationError struct {
	cause error
}

func newProtocolViolationError(cause error) *ProtocolViolationError {
	return &ProtocolViolationError{cause: cause}
}

func (e *ProtocolViolationError) Error() string {
	return fmt.Sprintf("rxbackpressure: protocol violation: %s", e.cause.Error())
}

func (e *ProtocolViolationError) Unwrap() error { return e.cause }

// recoverValueToError converts a recover() value into an error, wrapping
// non-error panic values (strings, other types) in a generic error.
func recoverValueToError(value any) error {
	if err, ok := value.(error); ok {
		return err
	}

	return fmt.Errorf("%v", value)
}
