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

	"github.com/stretchr/testify/assert"
)

func TestReduce(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Run(context.Background(), Reduce(func(acc, item int) int { return acc + item }, 0)(FromSlice([]int{1, 2, 3})))
	is.NoError(err)
	is.Equal([]int{6}, values)
}

func TestSum(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Run(context.Background(), Sum[int]()(FromSlice([]int{1, 2, 3, 4})))
	is.NoError(err)
	is.Equal([]int{10}, values)
}

func TestAverage(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Run(context.Background(), Average[int]()(FromSlice([]int{1, 2, 3})))
	is.NoError(err)
	is.Equal([]float64{2}, values)

	values, err = Run(context.Background(), Average[int]()(Empty[int]()))
	is.NoError(err)
	is.Equal([]float64{0}, values)
}

func TestMinMax(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Run(context.Background(), Min[int]()(FromSlice([]int{3, 1, 2})))
	is.NoError(err)
	is.Equal([]int{1}, values)

	values, err = Run(context.Background(), Max[int]()(FromSlice([]int{3, 1, 2})))
	is.NoError(err)
	is.Equal([]int{3}, values)

	values, err = Run(context.Background(), Min[int]()(Empty[int]()))
	is.NoError(err)
	is.Empty(values)
}

func TestClamp(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Run(context.Background(), Clamp(0, 10)(FromSlice([]int{-5, 5, 15})))
	is.NoError(err)
	is.Equal([]int{0, 5, 10}, values)
}

func TestClampPanicsWhenBoundsInverted(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { Clamp(10, 0) })
}
