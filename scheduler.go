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

import "time"

// Scheduler executes actions, defining both the ordering and the
// suspension policy of whatever runs through it. Operators that must defer
// work past the current call — to break a re-entrancy chain or to hop
// threads — submit through Schedule rather than invoking directly.
type Scheduler interface {
	// Schedule submits action to run according to the scheduler's policy.
	Schedule(action func())
	// ScheduleAfter submits action to run no sooner than delay from now.
	ScheduleAfter(delay time.Duration, action func())
	// Now returns the scheduler's notion of the current time (the virtual
	// clock for VirtualTimeScheduler, wall-clock otherwise).
	Now() time.Time
	// IsOrderGuaranteed reports whether actions scheduled from a single
	// goroutine are guaranteed to run in submission order.
	IsOrderGuaranteed() bool
	// NextFrameIndex governs how long a hot synchronous loop may keep
	// spinning on the calling goroutine before yielding. The
	// CachedServeFirstSubject fast loop consults it; FlatMap and ObserveOn
	// do not, and hand each step back to Schedule instead. Given the
	// number of synchronous iterations already run in the current frame, it
	// returns >0 to keep spinning synchronously, 0 to reschedule (yield and
	// continue from a fresh Schedule call), or <0 to stop cooperatively.
	NextFrameIndex(syncIndex int) int
}

// defaultFrameBudget bounds how many synchronous iterations a hot loop may
// run before it must reschedule, capping stack depth and keeping the
// scheduler fair across concurrently draining subscriptions.
const defaultFrameBudget = 1024

// standardNextFrameIndex implements the common "spin up to a fixed budget,
// then reschedule" policy shared by the trampoline and thread-pool
// schedulers.
func standardNextFrameIndex(syncIndex int) int {
	if syncIndex >= defaultFrameBudget {
		return 0
	}
	return syncIndex + 1
}
