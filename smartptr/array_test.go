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
	"github.com/stretchr/testify/suite"

	"github.com/apache/arrow/go/smartptr/memory"
	"github.com/apache/arrow/go/smartptr/smartptr"
)

type ArraySuite struct {
	suite.Suite

	mem *memory.CheckedAllocator
}

func (s *ArraySuite) SetupTest() {
	s.mem = memory.NewCheckedAllocator(memory.NewGoAllocator())
}

func (s *ArraySuite) TearDownTest() {
	s.mem.AssertSize(s.T(), 0)
}

func (s *ArraySuite) TestStatic() {
	var destroyed []int16
	a := smartptr.NewArray(smartptr.Shared, 5, []int16{1, 2, 3},
		smartptr.WithAllocator(s.mem),
		smartptr.WithDestructor(func(v *int16, _ []byte) { destroyed = append(destroyed, *v) }))
	s.Require().NotNil(a)

	s.Equal(smartptr.Shared|smartptr.StaticArray, a.Kind())
	s.Equal(5, a.Len())
	s.Equal(5, a.Cap())
	s.Equal([]int16{1, 2, 3, 0, 0}, a.Values())

	a.Set(4, 9)
	*a.At(3) = 8
	s.Equal([]int16{1, 2, 3, 8, 9}, a.Values())
	s.EqualValues(9, *a.Last())

	a.Retain().Release()
	s.Empty(destroyed)
	a.Release()
	s.Equal([]int16{1, 2, 3, 8, 9}, destroyed)
}

func (s *ArraySuite) TestDynamic() {
	a := smartptr.NewDynamicArray(smartptr.Unique, 5, []int32(nil), smartptr.WithAllocator(s.mem))
	s.Require().NotNil(a)
	defer a.Release()

	s.Equal(smartptr.Unique|smartptr.DynamicArray, a.Kind())
	s.Zero(a.Len())
	s.Equal(5, a.Cap())

	input := []int32{1, 3, 5, 7, 9, 2, 4, 6, 8, 10, 11}
	for _, v := range input {
		s.Require().NoError(a.Append(v))
	}
	s.Equal(11, a.Len())
	s.GreaterOrEqual(a.Cap(), 11)
	s.Equal(input, a.Values())

	s.Require().NoError(a.Insert(0, -1))
	s.EqualValues(-1, *a.At(0))
	s.Equal(input, a.Values()[1:])

	a.DeleteRange(0, 3)
	s.Equal(input[2:], a.Values())
	a.Delete(0)
	s.Equal(input[3:], a.Values())

	for i := len(input) - 1; i >= 3; i-- {
		s.Equal(input[i], a.Pop())
	}
	s.Zero(a.Len())
}

func (s *ArraySuite) TestDynamicInitialValues() {
	a := smartptr.NewDynamicArray(smartptr.Shared, 2, []uint64{4, 5, 6}, smartptr.WithAllocator(s.mem))
	s.Require().NotNil(a)
	defer a.Release()

	s.Equal(3, a.Len())
	s.Equal(3, a.Cap())
	s.Require().NoError(a.AppendValues(7, 8, 9, 10))
	s.Equal([]uint64{4, 5, 6, 7, 8, 9, 10}, a.Values())
	s.Equal(7, a.Cap())
}

func (s *ArraySuite) TestInsertValues() {
	a := smartptr.NewDynamicArray(smartptr.Unique, 2, []int32{1, 5}, smartptr.WithAllocator(s.mem))
	s.Require().NotNil(a)
	defer a.Release()

	s.Require().NoError(a.InsertValues(1, 2, 3, 4))
	s.Equal([]int32{1, 2, 3, 4, 5}, a.Values())

	s.Require().NoError(a.InsertN(0, 2))
	s.Equal([]int32{0, 0, 1, 2, 3, 4, 5}, a.Values())

	i, err := a.AppendN(1)
	s.Require().NoError(err)
	s.Equal(7, i)
	a.Set(i, 6)
	s.Equal([]int32{0, 0, 1, 2, 3, 4, 5, 6}, a.Values())

	s.Require().NoError(a.InsertValues(a.Len()))
	s.Equal(8, a.Len())
}

func (s *ArraySuite) TestMove() {
	a := smartptr.NewArray(smartptr.Unique, 3, []float32{0.5, 1.5, 2.5},
		smartptr.WithAllocator(s.mem), smartptr.WithUserdata([]byte{7}))
	s.Require().NotNil(a)
	defer a.Release()

	b := a.Move()
	s.Require().NotNil(b)
	defer b.Release()

	s.Equal(smartptr.Shared|smartptr.StaticArray, b.Kind())
	s.Equal(a.Values(), b.Values())
	s.Equal([]byte{7}, b.Userdata())
	s.Equal(2, b.Retain().RefCount())
	b.Release()
}

func (s *ArraySuite) TestEmpty() {
	s.Nil(smartptr.NewArray[int](smartptr.Unique, 0, nil, smartptr.WithAllocator(s.mem)))
	s.Nil(smartptr.NewDynamicArray[int](smartptr.Unique, 0, nil, smartptr.WithAllocator(s.mem)))
}

func TestArraySuite(t *testing.T) {
	suite.Run(t, new(ArraySuite))
}

func TestReleaseAll(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	b := smartptr.NewUnique(1, smartptr.WithAllocator(mem))
	a := smartptr.NewArray(smartptr.Shared, 4, []byte("abcd"), smartptr.WithAllocator(mem))
	g := smartptr.NewArray2D[uint8](smartptr.Unique, 2, 2, smartptr.WithAllocator(mem))
	require.Equal(t, 3, mem.Live())

	smartptr.ReleaseAll(b, a, g, nil)
	assert.Zero(t, mem.Live())
}
