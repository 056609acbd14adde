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
	"sync/atomic"
	"testing"
	"time"

	"github.com/JIAWea/rxbackpressure/rxtesting"
	"github.com/stretchr/testify/assert"
)

func TestShareMulticastsASingleExecution(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	scheduler := NewThreadPoolScheduler(1)
	defer scheduler.Dispose(context.Background())

	var executions int32
	source := NewObservable(func(ctx context.Context, destination Observer[int]) Teardown {
		atomic.AddInt32(&executions, 1)
		scheduler.ScheduleAfter(10*time.Millisecond, func() {
			ack := destination.OnNextWithContext(ctx, NewSingletonBatch(1))
			ack.Subscribe(func(AckResult) { destination.OnCompletedWithContext(ctx) })
		})
		return nil
	})

	shared := Share[int](source)

	a := rxtesting.NewRecorder[int]()
	b := rxtesting.NewRecorder[int]()
	da := shared.Observe(NewObserverInfo[int](a))
	db := shared.Observe(NewObserverInfo[int](b))
	defer da.Dispose()
	defer db.Dispose()

	assert.Eventually(t, func() bool {
		return a.Completed() && b.Completed()
	}, time.Second, time.Millisecond)

	is.Equal(int32(1), atomic.LoadInt32(&executions), "source must run exactly once for both subscribers")
	is.Equal([]int{1}, a.Values())
	is.Equal([]int{1}, b.Values())
}

func TestRefCountReconnectsAfterFullyDraining(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var executions int32
	source := NewObservable(func(ctx context.Context, destination Observer[int]) Teardown {
		atomic.AddInt32(&executions, 1)
		return nil
	})

	connectable := NewConnectableObservable(source)
	shared := RefCount(connectable)

	first := rxtesting.NewRecorder[int]()
	d1 := shared.Observe(NewObserverInfo[int](first))
	is.Equal(int32(1), atomic.LoadInt32(&executions))
	d1.Dispose()

	second := rxtesting.NewRecorder[int]()
	d2 := shared.Observe(NewObserverInfo[int](second))
	defer d2.Dispose()
	is.Equal(int32(2), atomic.LoadInt32(&executions), "dropping to zero subscribers must disconnect, so the next subscriber reconnects")
}
