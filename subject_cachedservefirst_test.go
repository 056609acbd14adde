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
	"time"

	"github.com/JIAWea/rxbackpressure/rxtesting"
	"github.com/stretchr/testify/assert"
)

func TestCachedServeFirstSubjectBroadcastsToIdleSubscribers(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewCachedServeFirstSubject[int]()

	a := rxtesting.NewRecorder[int]()
	b := rxtesting.NewRecorder[int]()
	subject.Observe(NewObserverInfo[int](a))
	subject.Observe(NewObserverInfo[int](b))

	ack := subject.OnNext(NewSingletonBatch(1))
	result, ok := immediateResult(ack)
	is.True(ok)
	is.Equal(AckContinue, result)

	is.Equal([]int{1}, a.Values())
	is.Equal([]int{1}, b.Values())

	subject.OnCompleted()
	is.True(a.Completed())
	is.True(b.Completed())
}

func TestCachedServeFirstSubjectNewSubscriberMissesPastHistory(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewCachedServeFirstSubject[int]()
	subject.OnNext(NewSingletonBatch(1))

	late := rxtesting.NewRecorder[int]()
	subject.Observe(NewObserverInfo[int](late))

	subject.OnNext(NewSingletonBatch(2))
	is.Equal([]int{2}, late.Values())
}

func TestCachedServeFirstSubjectSlowSubscriberCatchesUpViaFastLoop(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewCachedServeFirstSubject[int]()

	slow := rxtesting.NewRecorder[int]()
	slowAck := NewPendingAck()
	slow.NextAck = func(Batch[int]) Ack { return slowAck }
	subject.Observe(NewObserverInfo[int](slow))

	subject.OnNext(NewSingletonBatch(1))
	is.Equal([]int{1}, slow.Values())

	// Publish a second value while the subscriber's first ack is still
	// pending: it must be queued in the buffer, not delivered yet.
	subject.OnNext(NewSingletonBatch(2))
	is.Equal([]int{1}, slow.Values())

	slowAck.Resolve(AckContinue)

	assert.Eventually(t, func() bool {
		return len(slow.Values()) == 2
	}, time.Second, time.Millisecond)
	is.Equal([]int{1, 2}, slow.Values())
}

func TestUnsafeCachedServeFirstSubjectSkipsLockingButStillBroadcasts(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewUnsafeCachedServeFirstSubject[int]()
	recorder := rxtesting.NewRecorder[int]()
	subject.Observe(NewObserverInfo[int](recorder))

	subject.OnNext(NewSingletonBatch(1))
	subject.OnCompleted()

	is.Equal([]int{1}, recorder.Values())
	is.True(recorder.Completed())
}

func TestCachedServeFirstSubjectDisposeRemovesSubscriber(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewCachedServeFirstSubject[int]()
	recorder := rxtesting.NewRecorder[int]()
	disposable := subject.Observe(NewObserverInfo[int](recorder))
	disposable.Dispose()

	subject.OnNext(NewSingletonBatch(1))
	is.Empty(recorder.Values())
}
