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

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestZipPairsInOrder(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Run(context.Background(), Zip(FromSlice([]int{1, 2, 3}), FromSlice([]string{"a", "b", "c"})))
	is.NoError(err)
	is.Equal([]lo.Tuple2[int, string]{
		lo.T2(1, "a"),
		lo.T2(2, "b"),
		lo.T2(3, "c"),
	}, values)
}

func TestZipCompletesWhenShorterSideIsExhausted(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Run(context.Background(), Zip(FromSlice([]int{1, 2}), FromSlice([]int{10, 20, 30})))
	is.NoError(err)
	is.Equal([]lo.Tuple2[int, int]{lo.T2(1, 10), lo.T2(2, 20)}, values)
}

func TestMatchPairsOnEquality(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Run(context.Background(), Match(FromSlice([]int{1, 2, 3}), FromSlice([]int{1, 2, 3})))
	is.NoError(err)
	is.Equal([]lo.Tuple2[int, int]{lo.T2(1, 1), lo.T2(2, 2), lo.T2(3, 3)}, values)
}

func TestControlledZipPropagatesErrorFromEitherSide(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	_, err := Run(context.Background(), Zip(Throw[int](assert.AnError), FromSlice([]int{1})))
	is.ErrorIs(err, assert.AnError)
}
