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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSubscriberDefaultsBothSchedulersToSameTrampoline(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subscriber := NewSubscriber(nil, nil)
	is.NotNil(subscriber.SubscribeScheduler)
	is.Same(subscriber.SubscribeScheduler, subscriber.ObserverScheduler)
}

func TestNewSubscriberObserverDefaultsToSubscribeScheduler(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subscribe := NewTrampolineScheduler()
	subscriber := NewSubscriber(subscribe, nil)
	is.Same(subscribe, subscriber.ObserverScheduler)
}

func TestWithObserverSchedulerLeavesSubscribeSchedulerAlone(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subscribe := NewTrampolineScheduler()
	observe := NewTrampolineScheduler()
	subscriber := NewSubscriber(subscribe, subscribe)

	updated := subscriber.WithObserverScheduler(observe)
	is.Same(subscribe, updated.SubscribeScheduler)
	is.Same(observe, updated.ObserverScheduler)
	is.Same(subscribe, subscriber.SubscribeScheduler, "original is unmodified")
}

func TestWithSubscribeSchedulerLeavesObserverSchedulerAlone(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subscribe := NewTrampolineScheduler()
	observe := NewTrampolineScheduler()
	subscriber := NewSubscriber(subscribe, observe)

	other := NewTrampolineScheduler()
	updated := subscriber.WithSubscribeScheduler(other)
	is.Same(other, updated.SubscribeScheduler)
	is.Same(observe, updated.ObserverScheduler)
}
