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

func TestObservableObserveRunsTeardownOnDispose(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var torndown bool
	source := NewObservable(func(ctx context.Context, destination Observer[int]) Teardown {
		return func() { torndown = true }
	})

	disposable := source.Observe(NewObserverInfo[int](rxtesting.NewRecorder[int]()))
	disposable.Dispose()
	is.True(torndown)
}

func TestObservableCapturesPanicFromObserveFuncIntoOnError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source := NewObservable(func(ctx context.Context, destination Observer[int]) Teardown {
		panic(assert.AnError)
	})

	recorder := rxtesting.NewRecorder[int]()
	disposable := source.Observe(NewObserverInfo[int](recorder))
	defer disposable.Dispose()

	is.ErrorIs(recorder.Err(), assert.AnError)
	is.True(disposable.IsDisposed())
}

func TestDeferRecreatesSourcePerObserve(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var builds int
	deferred := Defer[int](func() Observable[int] {
		builds++
		return FromSlice([]int{builds})
	})

	first, err := Run(context.Background(), deferred)
	is.NoError(err)
	is.Equal([]int{1}, first)

	second, err := Run(context.Background(), deferred)
	is.NoError(err)
	is.Equal([]int{2}, second)
	is.Equal(2, builds)
}
