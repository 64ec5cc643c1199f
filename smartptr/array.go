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
	"github.com/apache/arrow/go/smartptr/internal/debug"
)

// Array is a typed handle to a static or dynamic array allocation of T.
// T must not contain Go pointers.
type Array[T any] struct {
	p *Ptr
}

// NewArray allocates a static array of n elements with the ownership of
// kind (Unique or Shared). The first len(values) elements are copied from
// values and the rest are zeroed. It returns nil when n is not positive or
// the allocation fails.
func NewArray[T any](kind Kind, n int, values []T, opts ...Option) *Array[T] {
	debug.Assert(len(values) <= n, msgOutOfRange)
	if len(values) > n {
		values = values[:n]
	}
	return newArray(kind.Ownership()|StaticArray, n, 0, values, opts)
}

// NewDynamicArray allocates a growable array with room for capacity
// elements, holding a copy of values. The capacity is raised to
// len(values) when smaller.
func NewDynamicArray[T any](kind Kind, capacity int, values []T, opts ...Option) *Array[T] {
	return newArray(kind.Ownership()|DynamicArray, max(capacity, len(values)), len(values), values, opts)
}

func newArray[T any](kind Kind, count, length int, values []T, opts []Option) *Array[T] {
	size := elemSize[T]()
	c := newConfig(size, opts)
	p := Alloc(Config{
		Kind:     kind,
		ElemSize: size,
		Count:    count,
		Len:      length,
		Dtor:     c.dtor,
		Userdata: c.userdata,
		Data:     sliceBytes(values),
		Mem:      c.mem,
	})
	if p == nil {
		return nil
	}
	return &Array[T]{p: p}
}

// Values returns the live elements. The slice is invalidated by growth
// and by the final Release.
func (a *Array[T]) Values() []T { return castSlice[T](a.p.Bytes(), a.p.Len()) }

// At returns a pointer to element i.
func (a *Array[T]) At(i int) *T { return castElem[T](a.p.Elem(i)) }

// Set stores v at index i.
func (a *Array[T]) Set(i int, v T) { *a.At(i) = v }

func (a *Array[T]) Len() int { return a.p.Len() }
func (a *Array[T]) Cap() int { return a.p.Cap() }

// Grow makes room for n more elements of a dynamic array.
func (a *Array[T]) Grow(n int) error { return a.p.Grow(n) }

// Append adds v at the end of a dynamic array.
func (a *Array[T]) Append(v T) error { return a.p.Append(bytesOf(&v)) }

// AppendValues adds vs at the end of a dynamic array, growing at most once.
func (a *Array[T]) AppendValues(vs ...T) error {
	if err := a.p.Grow(len(vs)); err != nil {
		return err
	}
	for i := range vs {
		if err := a.p.Append(bytesOf(&vs[i])); err != nil {
			return err
		}
	}
	return nil
}

// Pop removes and returns the last element. The caller owns the value;
// no destructor is called.
func (a *Array[T]) Pop() T {
	if v := castElem[T](a.p.Pop()); v != nil {
		return *v
	}
	var zero T
	return zero
}

// Insert places v at index i, shifting later elements right.
func (a *Array[T]) Insert(i int, v T) error { return a.p.Insert(i, bytesOf(&v)) }

// InsertN opens n zero-valued slots at index i.
func (a *Array[T]) InsertN(i, n int) error { return a.p.InsertN(i, n) }

// InsertValues places vs at index i in one shift, keeping their order.
func (a *Array[T]) InsertValues(i int, vs ...T) error {
	if err := a.p.InsertN(i, len(vs)); err != nil {
		return err
	}
	copy(a.Values()[i:], vs)
	return nil
}

// AppendN adds n zero-valued elements and returns the index of the first.
func (a *Array[T]) AppendN(n int) (int, error) { return a.p.AppendN(n) }

// Delete removes the element at index i without destroying it.
func (a *Array[T]) Delete(i int) { a.p.Delete(i) }

// DeleteRange removes n elements starting at i without destroying them.
func (a *Array[T]) DeleteRange(i, n int) { a.p.DeleteRange(i, n) }

// Last returns a pointer to the last element.
func (a *Array[T]) Last() *T { return castElem[T](a.p.Last()) }

// Retain adds a reference to a shared array and returns a.
func (a *Array[T]) Retain() *Array[T] {
	a.p.Retain()
	return a
}

// Release drops a reference, destroying every element on the last one.
func (a *Array[T]) Release() {
	if a != nil {
		a.p.Release()
	}
}

// Move copies a unique array into a new shared one. a is left intact and
// must still be released.
func (a *Array[T]) Move() *Array[T] {
	p := a.p.Move()
	if p == nil {
		return nil
	}
	return &Array[T]{p: p}
}

func (a *Array[T]) Userdata() []byte { return a.p.Userdata() }
func (a *Array[T]) Kind() Kind       { return a.p.Kind() }
func (a *Array[T]) RefCount() int    { return a.p.RefCount() }

// Ptr returns the untyped handle.
func (a *Array[T]) Ptr() *Ptr { return a.p }
