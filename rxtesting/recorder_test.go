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

package rxtesting

import (
	"context"
	"testing"

	rx "github.com/JIAWea/rxbackpressure"
	"github.com/stretchr/testify/assert"
)

func TestRecorderDefaultsToContinue(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	recorder := NewRecorder[int]()
	ack := recorder.OnNext(rx.NewSingletonBatch(7))

	is.Equal(rx.Continue, ack)
	is.Equal([]int{7}, recorder.Values())
	is.Equal(1, recorder.BatchCount())
}

func TestRecorderHonorsScriptedNextAck(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	recorder := NewRecorder[int]()
	recorder.NextAck = func(rx.Batch[int]) rx.Ack { return rx.Stop }

	ack := recorder.OnNextWithContext(context.Background(), rx.NewSingletonBatch(1))
	is.Equal(rx.Stop, ack)
}

func TestRecorderOnErrorIsAtMostOnce(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	recorder := NewRecorder[int]()
	recorder.OnError(assert.AnError)
	recorder.OnCompleted()

	is.ErrorIs(recorder.Err(), assert.AnError)
	is.False(recorder.Completed())
}

func TestRecorderOnCompletedIsAtMostOnce(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	recorder := NewRecorder[int]()
	recorder.OnCompleted()
	recorder.OnError(assert.AnError)

	is.True(recorder.Completed())
	is.NoError(recorder.Err())
}

func TestRecorderValuesReturnsACopy(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	recorder := NewRecorder[int]()
	recorder.OnNext(rx.NewSingletonBatch(1))

	values := recorder.Values()
	values[0] = 999

	is.Equal([]int{1}, recorder.Values())
}
