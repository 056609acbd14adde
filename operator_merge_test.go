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
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeCombinesBothSourcesAndCompletesOnce(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Run(context.Background(), Merge(FromSlice([]int{1, 2}), FromSlice([]int{3, 4})))
	is.NoError(err)

	sort.Ints(values)
	is.Equal([]int{1, 2, 3, 4}, values)
}

func TestMergePropagatesFirstError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	_, err := Run(context.Background(), Merge(Throw[int](assert.AnError), Empty[int]()))
	is.ErrorIs(err, assert.AnError)
}

func TestMergeAllEmptyCompletesImmediately(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Run(context.Background(), MergeAll[int]())
	is.NoError(err)
	is.Empty(values)
}

func TestMergeAllFoldsEverySource(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Run(context.Background(), MergeAll(
		FromSlice([]int{1}),
		FromSlice([]int{2}),
		FromSlice([]int{3}),
	))
	is.NoError(err)

	sort.Ints(values)
	is.Equal([]int{1, 2, 3}, values)
}
