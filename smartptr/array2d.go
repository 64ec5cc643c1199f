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

package smartptr

import (
	"encoding/binary"
	"math"

	"github.com/apache/arrow/go/smartptr/internal/debug"
)

const dimsSize = 8

// Array2D views a static array of cols*rows elements as a row-major grid.
// The dimensions live in the allocation's userdata as two little-endian
// int32 values, so any userdata option passed to NewArray2D is replaced.
type Array2D[T any] struct {
	a          *Array[T]
	cols, rows int
}

// NewArray2D allocates a zeroed cols by rows grid. It returns nil when a
// dimension is not positive or does not fit in an int32, or when the
// allocation fails.
func NewArray2D[T any](kind Kind, cols, rows int, opts ...Option) *Array2D[T] {
	if cols <= 0 || rows <= 0 || cols > math.MaxInt32 || rows > math.MaxInt32 {
		return nil
	}
	var dims [dimsSize]byte
	binary.LittleEndian.PutUint32(dims[0:], uint32(cols))
	binary.LittleEndian.PutUint32(dims[4:], uint32(rows))

	a := NewArray[T](kind, cols*rows, nil, append(opts[:len(opts):len(opts)], WithUserdata(dims[:]))...)
	if a == nil {
		return nil
	}
	return &Array2D[T]{a: a, cols: cols, rows: rows}
}

// AsArray2D returns a grid view over an array created by NewArray2D, or
// nil when a does not carry grid dimensions.
func AsArray2D[T any](a *Array[T]) *Array2D[T] {
	ud := a.Userdata()
	if len(ud) != dimsSize || !a.Kind().IsArray() || a.Kind().IsDynamic() {
		return nil
	}
	cols := int(int32(binary.LittleEndian.Uint32(ud[0:])))
	rows := int(int32(binary.LittleEndian.Uint32(ud[4:])))
	if cols <= 0 || rows <= 0 || cols*rows != a.Len() {
		return nil
	}
	return &Array2D[T]{a: a, cols: cols, rows: rows}
}

func (g *Array2D[T]) Cols() int { return g.cols }
func (g *Array2D[T]) Rows() int { return g.rows }

// At returns a pointer to the element in column c of row r.
func (g *Array2D[T]) At(c, r int) *T {
	debug.Assert(c >= 0 && c < g.cols, msgOutOfRange)
	debug.Assert(r >= 0 && r < g.rows, msgOutOfRange)
	return g.a.At(r*g.cols + c)
}

func (g *Array2D[T]) Get(c, r int) T    { return *g.At(c, r) }
func (g *Array2D[T]) Set(c, r int, v T) { *g.At(c, r) = v }

// Retain adds a reference to a shared grid and returns g.
func (g *Array2D[T]) Retain() *Array2D[T] {
	g.a.Retain()
	return g
}

// Release drops a reference to the underlying array.
func (g *Array2D[T]) Release() {
	if g != nil {
		g.a.Release()
	}
}

// Array returns the underlying static array.
func (g *Array2D[T]) Array() *Array[T] { return g.a }
