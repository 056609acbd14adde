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

import "sync"

// AckResult is the one-shot resolution value of an Ack: either the upstream
// may send its next Batch (Continue), or it must stop (Stop).
type AckResult uint8

// AckResult constants.
const (
	AckContinue AckResult = iota
	AckStop
)

func (r AckResult) String() string {
	if r == AckContinue {
		return "Continue"
	}
	return "Stop"
}

// Ack is a single-assignment, single-value channel carrying AckContinue or
// AckStop. A synchronously returned Continue/Stop is an "immediate" ack
// (see Continue and Stop below); anything else is a "pending" ack that
// resolves exactly once, later.
//
// Subscribe delivers the resolution exactly once: synchronously if already
// resolved, asynchronously (via the callback) otherwise. Connect forwards
// this ack's resolution to another Ack. Merge produces a new Ack that
// resolves to Continue only if both operands resolve to Continue.
type Ack interface {
	// Subscribe registers callback to run exactly once, with this ack's
	// eventual resolution. If already resolved, callback runs immediately
	// on the calling goroutine.
	Subscribe(callback func(AckResult))
	// Connect forwards this ack's resolution to other, i.e. resolving other
	// with the same AckResult this ack eventually settles on.
	Connect(other SettableAck)
	// Merge returns an Ack that resolves to Continue iff both this ack and
	// other resolve to Continue, and to Stop as soon as either resolves to Stop.
	Merge(other Ack) Ack
}

// SettableAck is the producer side of a pending Ack: whoever created it (via
// NewPendingAck) resolves it exactly once via Resolve.
type SettableAck interface {
	Ack
	// Resolve settles the ack. Calling Resolve more than once is a protocol
	// violation (§7); the second and further calls panic with a
	// ProtocolViolationError, mirroring the "exactly one resolution" invariant.
	Resolve(result AckResult)
}

var (
	// Continue is the immediate Ack meaning "upstream may send the next batch".
	Continue Ack = immediateAck{result: AckContinue}
	// Stop is the immediate Ack meaning "upstream must cease".
	Stop Ack = immediateAck{result: AckStop}
)

// immediateAck is a synchronously resolved Ack; Subscribe always calls back
// inline since there is nothing to wait for.
type immediateAck struct {
	result AckResult
}

func (a immediateAck) Subscribe(callback func(AckResult)) {
	if callback != nil {
		callback(a.result)
	}
}

func (a immediateAck) Connect(other SettableAck) {
	other.Resolve(a.result)
}

func (a immediateAck) Merge(other Ack) Ack {
	if a.result == AckStop {
		return a
	}
	return other
}

// FromAckResult returns the immediate Ack matching result.
func FromAckResult(result AckResult) Ack {
	if result == AckStop {
		return Stop
	}
	return Continue
}

// pendingAck is the general single-assignment Ack. Constructed with
// NewPendingAck and resolved exactly once via Resolve.
type pendingAck struct {
	mu        sync.Mutex
	resolved  bool
	result    AckResult
	callbacks []func(AckResult)
}

// NewPendingAck creates an unresolved Ack. The returned SettableAck exposes
// Resolve to the one party responsible for settling it (typically the
// downstream operator that received the Batch).
func NewPendingAck() SettableAck {
	return &pendingAck{}
}

func (a *pendingAck) Resolve(result AckResult) {
	a.mu.Lock()
	if a.resolved {
		a.mu.Unlock()
		panic(newProtocolViolationError(ErrAckAlreadyResolved))
	}

	a.resolved = true
	a.result = result
	callbacks := a.callbacks
	a.callbacks = nil
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(result)
	}
}

func (a *pendingAck) Subscribe(callback func(AckResult)) {
	if callback == nil {
		return
	}

	a.mu.Lock()
	if a.resolved {
		result := a.result
		a.mu.Unlock()
		callback(result)
		return
	}

	a.callbacks = append(a.callbacks, callback)
	a.mu.Unlock()
}

func (a *pendingAck) Connect(other SettableAck) {
	a.Subscribe(func(result AckResult) {
		other.Resolve(result)
	})
}

func (a *pendingAck) Merge(other Ack) Ack {
	return MergeAcks(a, other)
}

// MergeAcks resolves to Continue iff every operand resolves to Continue, and
// to Stop as soon as any operand resolves to Stop. Grounded on the original
// implementation's acknowledgement/operators/mergeall.py, which generalizes
// the spec's pairwise Ack.merge to N operands (used by CachedServeFirstSubject
// to answer the producer and by the zip state machine to release a side).
func MergeAcks(acks ...Ack) Ack {
	switch len(acks) {
	case 0:
		return Continue
	case 1:
		return acks[0]
	}

	merged := NewPendingAck()

	var mu sync.Mutex
	remaining := len(acks)
	stopped := false

	for _, ack := range acks {
		ack := ack
		ack.Subscribe(func(result AckResult) {
			mu.Lock()
			defer mu.Unlock()

			if stopped {
				return
			}

			if result == AckStop {
				stopped = true
				merged.Resolve(AckStop)
				return
			}

			remaining--
			if remaining == 0 {
				merged.Resolve(AckContinue)
			}
		})
	}

	return merged
}
