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
	"testing"

	"github.com/JIAWea/rxbackpressure/rxtesting"
	"github.com/stretchr/testify/assert"
)

func TestKindStringNamesEachVariant(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.Equal("Next", KindNext.String())
	is.Equal("Error", KindError.String())
	is.Equal("Completed", KindCompleted.String())
}

func TestNotificationDeliverNext(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	recorder := rxtesting.NewRecorder[int]()
	n := NewNextNotification(NewSingletonBatch(42))
	ack := n.Deliver(context.Background(), recorder)

	result, ok := immediateResult(ack)
	is.True(ok)
	is.Equal(AckContinue, result)
	is.Equal([]int{42}, recorder.Values())
}

func TestNotificationDeliverErrorSynthesizesContinueAck(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	recorder := rxtesting.NewRecorder[int]()
	n := NewErrorNotification[int](assert.AnError)
	ack := n.Deliver(context.Background(), recorder)

	result, ok := immediateResult(ack)
	is.True(ok)
	is.Equal(AckContinue, result)
	is.ErrorIs(recorder.Err(), assert.AnError)
}

func TestNotificationDeliverCompletedSynthesizesContinueAck(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	recorder := rxtesting.NewRecorder[int]()
	n := NewCompletedNotification[int]()
	ack := n.Deliver(context.Background(), recorder)

	result, ok := immediateResult(ack)
	is.True(ok)
	is.Equal(AckContinue, result)
	is.True(recorder.Completed())
}

func TestNotificationStringFormatsEachKind(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.Equal("Next(...)", NewNextNotification(NewSingletonBatch(1)).String())
	is.Contains(NewErrorNotification[int](assert.AnError).String(), assert.AnError.Error())
	is.Equal("Completed()", NewCompletedNotification[int]().String())
}

func TestSetOnUnhandledErrorInvokesConfiguredHandler(t *testing.T) {
	// Mutates global handler state; must not run in parallel with other
	// tests that observe it.
	defer SetOnUnhandledError(nil)
	is := assert.New(t)

	var received error
	SetOnUnhandledError(func(ctx context.Context, err error) { received = err })
	OnUnhandledError(context.Background(), assert.AnError)
	is.ErrorIs(received, assert.AnError)
}

func TestSetOnUnhandledErrorNilRestoresDefault(t *testing.T) {
	defer SetOnUnhandledError(nil)
	is := assert.New(t)

	SetOnUnhandledError(func(ctx context.Context, err error) { t.Fatal("should not be called") })
	SetOnUnhandledError(nil)

	is.NotPanics(func() { OnUnhandledError(context.Background(), assert.AnError) })
}

func TestSetOnDroppedNotificationInvokesConfiguredHandler(t *testing.T) {
	defer SetOnDroppedNotification(nil)
	is := assert.New(t)

	var received string
	SetOnDroppedNotification(func(ctx context.Context, n fmt.Stringer) {
		received = n.String()
	})
	OnDroppedNotification(context.Background(), NewCompletedNotification[int]())
	is.Equal("Completed()", received)
}
