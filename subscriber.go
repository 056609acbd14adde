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

// Subscriber carries the two schedulers a subscription needs as it is built
// leaf-to-root: SubscribeScheduler runs subscription-time actions (the
// recursive UnsafeSubscribe calls), while ObserverScheduler is the default
// scheduler new operators should deliver on, absent an explicit ObserveOn.
type Subscriber struct {
	SubscribeScheduler Scheduler
	ObserverScheduler  Scheduler
}

// NewSubscriber builds a Subscriber. A nil subscribeScheduler defaults to a
// fresh TrampolineScheduler, and a nil observerScheduler defaults to the
// subscribe scheduler, so trampolined execution needs no explicit opt-in.
func NewSubscriber(subscribeScheduler, observerScheduler Scheduler) Subscriber {
	if subscribeScheduler == nil {
		subscribeScheduler = NewTrampolineScheduler()
	}
	if observerScheduler == nil {
		observerScheduler = subscribeScheduler
	}

	return Subscriber{
		SubscribeScheduler: subscribeScheduler,
		ObserverScheduler:  observerScheduler,
	}
}

// WithObserverScheduler returns a copy of the Subscriber using a different
// downstream scheduler, leaving the subscribe scheduler untouched. ExecuteOn
// and ObserveOn take their scheduler as an argument and do not call it.
func (s Subscriber) WithObserverScheduler(scheduler Scheduler) Subscriber {
	s.ObserverScheduler = scheduler
	return s
}

// WithSubscribeScheduler returns a copy of the Subscriber using a different
// subscribe-time scheduler.
func (s Subscriber) WithSubscribeScheduler(scheduler Scheduler) Subscriber {
	s.SubscribeScheduler = scheduler
	return s
}
