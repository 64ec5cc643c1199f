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

//go:build assert

package smartptr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apache/arrow/go/smartptr/memory"
	"github.com/apache/arrow/go/smartptr/smartptr"
)

func TestRetainUnique(t *testing.T) {
	b := smartptr.NewUnique(1)
	require.NotNil(t, b)
	defer b.Release()

	assert.PanicsWithValue(t, "smartptr: retain on non-shared allocation", func() { b.Retain() })
}

func TestMoveShared(t *testing.T) {
	b := smartptr.NewShared(1)
	require.NotNil(t, b)
	defer b.Release()

	assert.PanicsWithValue(t, "smartptr: move of non-unique allocation", func() { b.Move() })
}

func TestUseAfterFree(t *testing.T) {
	b := smartptr.NewShared(uint16(3))
	require.NotNil(t, b)
	b.Release()

	assert.PanicsWithValue(t, "smartptr: use after free", func() { b.Get() })
	assert.PanicsWithValue(t, "smartptr: use after free", func() { b.Retain() })
	assert.PanicsWithValue(t, "smartptr: too many releases", b.Release)
}

func TestReentrantDestructor(t *testing.T) {
	var self *smartptr.Box[int64]
	self = smartptr.NewUnique(int64(1), smartptr.WithDestructor(func(*int64, []byte) {
		self.Get()
	}))
	require.NotNil(t, self)
	assert.PanicsWithValue(t, "smartptr: use after free", self.Release)
}

func TestUserdataModified(t *testing.T) {
	mem := memory.NewGoAllocator()
	b := smartptr.NewUnique(1, smartptr.WithAllocator(mem), smartptr.WithUserdata([]byte("frozen")))
	require.NotNil(t, b)

	b.Userdata()[0] = 'F'
	assert.PanicsWithValue(t, "smartptr: corrupted allocation: userdata modified", b.Release)
}

func TestOutOfRange(t *testing.T) {
	a := smartptr.NewDynamicArray(smartptr.Unique, 2, []int{1})
	require.NotNil(t, a)
	defer a.Release()

	assert.PanicsWithValue(t, "smartptr: index out of range", func() { a.At(1) })
	assert.PanicsWithValue(t, "smartptr: index out of range", func() { _ = a.Insert(3, 0) })
	assert.PanicsWithValue(t, "smartptr: index out of range", func() { a.DeleteRange(0, 2) })

	g := smartptr.NewArray2D[int](smartptr.Unique, 2, 2)
	require.NotNil(t, g)
	defer g.Release()
	assert.PanicsWithValue(t, "smartptr: index out of range", func() { g.At(2, 0) })
}

func TestElemSizeMismatch(t *testing.T) {
	p := smartptr.Alloc(smartptr.Config{Kind: smartptr.Unique | smartptr.DynamicArray, ElemSize: 4, Count: 2})
	require.NotNil(t, p)
	defer p.Release()

	const msg = "smartptr: element size mismatch: got 3 bytes, want 4"
	assert.PanicsWithValue(t, msg, func() { _ = p.Append([]byte{1, 2, 3}) })
	assert.PanicsWithValue(t, msg, func() { _ = p.Insert(0, []byte{1, 2, 3}) })
	assert.Zero(t, p.Len())
	assert.PanicsWithValue(t, "smartptr: index out of range", func() { _ = p.InsertN(1, 1) })
}

func TestInvalidKind(t *testing.T) {
	assert.PanicsWithValue(t, "smartptr: invalid kind", func() {
		smartptr.Alloc(smartptr.Config{Kind: smartptr.StaticArray, ElemSize: 1, Count: 1})
	})
}
