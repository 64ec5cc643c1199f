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
	"sync/atomic"
	"unsafe"

	"github.com/zeebo/xxh3"

	"github.com/apache/arrow/go/smartptr/internal/debug"
)

// header is a view of the engine words at the start of a raw block.
type header struct {
	base unsafe.Pointer
}

func (h header) word(off int) *int { return (*int)(unsafe.Add(h.base, off)) }

func (h header) kind() Kind       { return Kind(*h.word(offKind)) }
func (h header) rawSize() int     { return *h.word(offRawSize) }
func (h header) userdataLen() int { return *h.word(offUserdataLen) }

// self and digest are only meaningful in assert builds.
func (h header) self() *uintptr  { return (*uintptr)(unsafe.Add(h.base, offSelf)) }
func (h header) digest() *uint64 { return (*uint64)(unsafe.Add(h.base, offDigest)) }

func (h header) refs() *atomic.Int32 {
	return (*atomic.Int32)(unsafe.Add(h.base, refsOffset()))
}

// meta returns the array metadata, or nil for scalar kinds.
func (h header) meta() *arrayMeta {
	k := h.kind()
	if !k.IsArray() {
		return nil
	}
	return (*arrayMeta)(unsafe.Add(h.base, headerSize(k)))
}

// userdata returns the userdata region, or nil when none was supplied.
func (h header) userdata() []byte {
	n := h.userdataLen()
	if n == 0 {
		return nil
	}
	k := h.kind()
	p := unsafe.Add(h.base, headerSize(k)+metaSize(k))
	return unsafe.Slice((*byte)(p), n)
}

func (h header) raw() []byte {
	return unsafe.Slice((*byte)(h.base), h.rawSize())
}

func backPointer(payload unsafe.Pointer) *int {
	return (*int)(unsafe.Add(payload, -wordSize))
}

// headerOf locates the header of the allocation whose payload starts at
// payload. In assert builds it panics when the payload is misaligned or the
// header does not record payload as its own.
func headerOf(payload unsafe.Pointer) header {
	debug.Assert(uintptr(payload)%uintptr(wordSize) == 0, msgCorrupted+": misaligned payload")
	h := header{base: unsafe.Add(payload, -*backPointer(payload))}
	if debug.Enabled {
		debug.Assert(*h.self() == uintptr(payload), msgCorrupted)
	}
	return h
}

// arrayMetaOf returns the array metadata of the allocation at payload, or
// nil when it is not an array.
func arrayMetaOf(payload unsafe.Pointer) *arrayMeta { return headerOf(payload).meta() }

// userdataOf returns the userdata of the allocation at payload, or nil when
// it has none.
func userdataOf(payload unsafe.Pointer) []byte { return headerOf(payload).userdata() }

// initBlock writes the header, array metadata, userdata and back pointer of
// a freshly allocated raw block and returns its payload, capacity elements
// of elemSize bytes. The payload itself is left as the allocator returned
// it.
func initBlock(raw []byte, l layout, userdata []byte, elemSize, capacity, length int) []byte {
	clear(raw[:l.payloadOffset()])

	h := header{base: unsafe.Pointer(unsafe.SliceData(raw))}
	*h.word(offKind) = int(l.kind)
	*h.word(offRawSize) = len(raw)
	*h.word(offUserdataLen) = len(userdata)
	if l.kind.IsShared() {
		h.refs().Store(1)
	}
	if l.kind.IsArray() {
		*h.meta() = arrayMeta{elemSize: elemSize, length: length, capacity: capacity}
	}
	copy(raw[l.userdataOffset():], userdata)

	off := l.payloadOffset()
	payload := raw[off : off+elemSize*capacity : off+elemSize*capacity]
	*backPointer(unsafe.Pointer(unsafe.SliceData(payload))) = off
	if debug.Enabled {
		*h.self() = uintptr(unsafe.Pointer(unsafe.SliceData(payload)))
		*h.digest() = xxh3.Hash(userdata)
	}
	return payload
}

// rebaseBlock updates the header of a block that was moved or resized to
// hold capacity elements and returns its new payload.
func rebaseBlock(raw []byte, l layout, capacity int) []byte {
	h := header{base: unsafe.Pointer(unsafe.SliceData(raw))}
	*h.word(offRawSize) = len(raw)
	m := h.meta()
	m.capacity = capacity

	off := l.payloadOffset()
	payload := raw[off : off+m.elemSize*capacity : off+m.elemSize*capacity]
	if debug.Enabled {
		*h.self() = uintptr(unsafe.Pointer(unsafe.SliceData(payload)))
	}
	return payload
}

// checkUserdata panics in assert builds when the userdata no longer matches
// the digest taken at creation.
func checkUserdata(h header) {
	if debug.Enabled {
		debug.Assert(*h.digest() == xxh3.Hash(h.userdata()), msgCorrupted+": userdata modified")
	}
}
