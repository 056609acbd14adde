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

func TestRangeSubscription(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subscription := Range(10, 3)(NewSubscriber(nil, nil))
	is.Equal(NumericalBase(3), subscription.Info.Base)

	values, err := Run(context.Background(), subscription.Observable)
	is.NoError(err)
	is.Equal([]int{10, 11, 12}, values)
}

func TestFromSliceReturnEmptyThrow(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Run(context.Background(), FromSlice([]string{"a", "b"}))
	is.NoError(err)
	is.Equal([]string{"a", "b"}, values)

	values, err = Run(context.Background(), Return(42))
	is.NoError(err)
	is.Equal([]int{42}, values)

	values, err = Run(context.Background(), Empty[int]())
	is.NoError(err)
	is.Empty(values)

	_, err = Run(context.Background(), Throw[int](assert.AnError))
	is.ErrorIs(err, assert.AnError)
}
