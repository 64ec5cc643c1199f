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

// Box is a typed handle to a scalar allocation holding one T. T must not
// contain Go pointers.
type Box[T any] struct {
	p *Ptr
}

// NewUnique allocates a uniquely owned T initialized to v. It returns nil
// if the allocation fails.
func NewUnique[T any](v T, opts ...Option) *Box[T] { return newBox(Unique, v, opts) }

// NewShared allocates a reference counted T initialized to v, with a
// reference count of 1. It returns nil if the allocation fails.
func NewShared[T any](v T, opts ...Option) *Box[T] { return newBox(Shared, v, opts) }

func newBox[T any](kind Kind, v T, opts []Option) *Box[T] {
	size := elemSize[T]()
	c := newConfig(size, opts)
	p := Alloc(Config{
		Kind:     kind,
		ElemSize: size,
		Count:    1,
		Dtor:     c.dtor,
		Userdata: c.userdata,
		Data:     bytesOf(&v),
		Mem:      c.mem,
	})
	if p == nil {
		return nil
	}
	return &Box[T]{p: p}
}

// Get returns a pointer to the boxed value, valid until the final Release.
func (b *Box[T]) Get() *T { return castElem[T](b.p.Bytes()) }

// Value returns a copy of the boxed value.
func (b *Box[T]) Value() T {
	if v := b.Get(); v != nil {
		return *v
	}
	var zero T
	return zero
}

// Retain adds a reference to a shared box and returns b.
func (b *Box[T]) Retain() *Box[T] {
	b.p.Retain()
	return b
}

// Release drops a reference, destroying the value on the last one.
func (b *Box[T]) Release() {
	if b != nil {
		b.p.Release()
	}
}

// Move copies a unique box into a new shared one. b is left intact and
// must still be released.
func (b *Box[T]) Move() *Box[T] {
	p := b.p.Move()
	if p == nil {
		return nil
	}
	return &Box[T]{p: p}
}

func (b *Box[T]) Userdata() []byte { return b.p.Userdata() }
func (b *Box[T]) Kind() Kind       { return b.p.Kind() }
func (b *Box[T]) RefCount() int    { return b.p.RefCount() }

// Ptr returns the untyped handle.
func (b *Box[T]) Ptr() *Ptr { return b.p }
