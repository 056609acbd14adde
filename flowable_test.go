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
	"testing"

	"github.com/JIAWea/rxbackpressure/rxtesting"
	"github.com/stretchr/testify/assert"
)

func TestFromObservableCarriesNoBase(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	flowable := FromObservable[int](FromSlice([]int{1, 2, 3}))
	subscription := flowable.UnsafeSubscribe(NewSubscriber(nil, nil))
	is.Nil(subscription.Info.Base)

	recorder := rxtesting.NewRecorder[int]()
	disposable := subscription.Observable.Observe(NewObserverInfo[int](recorder))
	defer disposable.Dispose()
	is.Equal([]int{1, 2, 3}, recorder.Values())
}

func TestFlowableSubscribeDefaultsSubscriber(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	flowable := FromObservable[int](FromSlice([]int{1, 2}))
	recorder := rxtesting.NewRecorder[int]()

	disposable := flowable.Subscribe(context.Background(), Subscriber{}, recorder)
	defer disposable.Dispose()

	is.Equal([]int{1, 2}, recorder.Values())
	is.True(recorder.Completed())
}

func TestNewFlowablePreservesNegotiatedBase(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	inner := NewSubscription(FromSlice([]int{1}))
	inner.Info.Base = NumericalBase(1)

	flowable := NewFlowable[int](func(Subscriber) Subscription[int] {
		return inner
	})

	subscription := flowable.UnsafeSubscribe(NewSubscriber(nil, nil))
	is.Equal(NumericalBase(1), subscription.Info.Base)
}
