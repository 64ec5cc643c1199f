// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package smartptr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apache/arrow/go/smartptr/memory"
	"github.com/apache/arrow/go/smartptr/smartptr"
)

func TestArray2D(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	g := smartptr.NewArray2D[int32](smartptr.Shared, 3, 2, smartptr.WithAllocator(mem))
	require.NotNil(t, g)
	defer g.Release()

	assert.Equal(t, 3, g.Cols())
	assert.Equal(t, 2, g.Rows())
	assert.Equal(t, []byte{3, 0, 0, 0, 2, 0, 0, 0}, g.Array().Userdata())

	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			g.Set(c, r, int32(r*10+c))
		}
	}
	assert.Equal(t, []int32{0, 1, 2, 10, 11, 12}, g.Array().Values())
	assert.EqualValues(t, 12, g.Get(2, 1))
	assert.Same(t, g.Array().At(4), g.At(1, 1))

	h := smartptr.AsArray2D(g.Array())
	require.NotNil(t, h)
	assert.Equal(t, 3, h.Cols())
	assert.EqualValues(t, 11, h.Get(1, 1))

	assert.Equal(t, 2, g.Retain().Array().RefCount())
	g.Release()
}

func TestArray2DInvalid(t *testing.T) {
	assert.Nil(t, smartptr.NewArray2D[int](smartptr.Unique, 0, 4))
	assert.Nil(t, smartptr.NewArray2D[int](smartptr.Unique, 4, -1))

	a := smartptr.NewArray(smartptr.Unique, 4, []int{1, 2, 3, 4})
	require.NotNil(t, a)
	defer a.Release()
	assert.Nil(t, smartptr.AsArray2D(a))
}
