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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDequeuableBufferAppendGet(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	buf := NewDequeuableBuffer[string]()
	is.Equal(0, buf.FirstIdx())
	is.Equal(0, buf.LastIdx())
	is.Equal(0, buf.Len())

	idx0 := buf.Append("a")
	idx1 := buf.Append("b")
	is.Equal(0, idx0)
	is.Equal(1, idx1)
	is.Equal(2, buf.LastIdx())
	is.Equal("a", buf.Get(0))
	is.Equal("b", buf.Get(1))
}

func TestDequeuableBufferDequeueThrough(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	buf := NewDequeuableBuffer[int]()
	for i := 0; i < 5; i++ {
		buf.Append(i)
	}

	buf.DequeueThrough(2)
	is.Equal(3, buf.FirstIdx())
	is.Equal(5, buf.LastIdx())
	is.Equal(2, buf.Len())
	is.Equal(3, buf.Get(3))

	// Dequeuing an already-dequeued prefix is a no-op.
	buf.DequeueThrough(1)
	is.Equal(3, buf.FirstIdx())
}
