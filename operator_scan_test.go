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
	"time"

	"github.com/JIAWea/rxbackpressure/rxtesting"
	"github.com/stretchr/testify/assert"
)

func TestFirstForwardsOnlyOneElement(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Run(context.Background(), First[int](nil)(FromSlice([]int{1, 2, 3})))
	is.NoError(err)
	is.Equal([]int{1}, values)
}

func TestFirstOnEmptySourceErrors(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	_, err := Run(context.Background(), First[int](nil)(Empty[int]()))
	is.ErrorIs(err, ErrSequenceContainsNoElements)
}

func TestFirstOnEmptySourceCallsRaiseException(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var raised error
	_, err := Run(context.Background(), First[int](func(e error) { raised = e })(Empty[int]()))
	is.NoError(err)
	is.ErrorIs(raised, ErrSequenceContainsNoElements)
}

func TestScanCarriesRunningTotal(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Run(context.Background(), Scan(func(acc, item int) int { return acc + item }, 0)(FromSlice([]int{1, 2, 3})))
	is.NoError(err)
	is.Equal([]int{1, 3, 6}, values)
}

func TestToList(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Run(context.Background(), ToList[int]()(FromSlice([]int{1, 2, 3})))
	is.NoError(err)
	is.Equal([][]int{{1, 2, 3}}, values)
}

func TestRepeatFirstRepeatsUntilStopped(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	recorder := rxtesting.NewRecorder[int]()
	stopped := make(chan struct{})
	recorder.NextAck = func(batch Batch[int]) Ack {
		if recorder.BatchCount() >= 3 {
			close(stopped)
			return Stop
		}
		return Continue
	}

	disposable := RepeatFirst[int](2)(FromSlice([]int{7, 8, 9})).Observe(NewObserverInfo[int](recorder))
	defer disposable.Dispose()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("repeat_first never reached the expected batch count")
	}

	is.Equal([]int{7, 7, 7, 7, 7, 7}, recorder.Values())
}
