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
	"unsafe"

	"github.com/apache/arrow/go/smartptr/internal/debug"
	"github.com/apache/arrow/go/smartptr/memory"
)

// AssertsEnabled reports whether misuse and corruption checks are compiled
// in, that is whether the binary was built with -tags assert.
const AssertsEnabled = debug.Enabled

// Destructor is called during destruction with the bytes of one element
// (or of the whole payload for scalars) and the allocation's userdata,
// which is nil when none was supplied.
//
// A destructor must not retain or release the allocation being destroyed.
// It may freely create and release unrelated allocations.
type Destructor func(elem, userdata []byte)

// Config describes an allocation to create.
type Config struct {
	// Kind is one of Unique or Shared, optionally combined with
	// StaticArray or DynamicArray.
	Kind Kind
	// ElemSize is the size in bytes of one element; for scalars, the size
	// of the value.
	ElemSize int
	// Count is the number of elements: the length of a static array, the
	// initial capacity of a dynamic array.
	Count int
	// Len is the initial length of a dynamic array. When zero it defaults
	// to len(Data)/ElemSize. Ignored for other kinds.
	Len int
	// Dtor is invoked on destruction, once per element for arrays.
	Dtor Destructor
	// Userdata is copied into the allocation and is read-only thereafter.
	Userdata []byte
	// Data initializes the payload. Bytes not covered by Data are zeroed.
	Data []byte
	// Mem supplies the raw block. Defaults to memory.DefaultAllocator.
	Mem memory.Allocator
}

// Ptr is the owning handle of a manually managed allocation. All holders of
// a shared allocation share the same *Ptr.
//
// Ptr is not safe for concurrent mutation of its payload or array metadata.
// Retain and Release may be called concurrently.
type Ptr struct {
	mem  memory.Allocator
	dtor Destructor
	data []byte
}

// Alloc creates a new allocation described by cfg. It returns nil when
// ElemSize or Count is not positive, when the requested size overflows, or
// when the allocator cannot supply the memory. No partial state is left on
// failure.
func Alloc(cfg Config) *Ptr {
	debug.Assert(cfg.Kind.valid(), msgInvalidKind)
	if cfg.ElemSize <= 0 || cfg.Count <= 0 || !cfg.Kind.valid() {
		return nil
	}

	mem := cfg.Mem
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	l, ok := newLayout(cfg.Kind, cfg.ElemSize, cfg.Count, len(cfg.Userdata))
	if !ok {
		debug.Logf("smartptr: layout overflow for %s of %d x %d bytes", cfg.Kind, cfg.Count, cfg.ElemSize)
		return nil
	}

	length := cfg.Count
	if cfg.Kind.IsDynamic() {
		length = cfg.Len
		if length == 0 {
			length = len(cfg.Data) / cfg.ElemSize
		}
		debug.Assert(length >= 0 && length <= cfg.Count, msgOutOfRange)
		length = min(max(length, 0), cfg.Count)
	}

	raw := mem.Allocate(l.totalSize())
	if raw == nil {
		debug.Logf("smartptr: allocator failed to supply %d bytes", l.totalSize())
		return nil
	}

	payload := initBlock(raw, l, cfg.Userdata, cfg.ElemSize, cfg.Count, length)
	n := copy(payload, cfg.Data)
	memory.Set(payload[n:], 0)

	return &Ptr{mem: mem, dtor: cfg.Dtor, data: payload}
}

func (p *Ptr) payload() unsafe.Pointer { return unsafe.Pointer(unsafe.SliceData(p.data)) }

func (p *Ptr) live() bool {
	ok := p.data != nil
	debug.Assert(ok, msgUseAfterFree)
	return ok
}

func (p *Ptr) header() header { return headerOf(p.payload()) }

// Kind returns the allocation kind, or 0 once released.
func (p *Ptr) Kind() Kind {
	if !p.live() {
		return 0
	}
	return p.header().kind()
}

// Bytes returns the payload: the whole value for scalars, the first Len
// elements for arrays. The slice is invalidated by growth and by the final
// Release.
func (p *Ptr) Bytes() []byte {
	if !p.live() {
		return nil
	}
	m := arrayMetaOf(p.payload())
	if m == nil {
		return p.data
	}
	return p.data[:m.length*m.elemSize]
}

// Elem returns the bytes of element i of an array.
func (p *Ptr) Elem(i int) []byte {
	if !p.live() {
		return nil
	}
	m := arrayMetaOf(p.payload())
	if m == nil {
		debug.Assert(i == 0, msgOutOfRange)
		return p.data
	}
	debug.Assert(i >= 0 && i < m.length, msgOutOfRange)
	off := i * m.elemSize
	return p.data[off : off+m.elemSize : off+m.elemSize]
}

// Userdata returns the userdata copied in at creation, or nil if none was
// supplied. The returned bytes must not be modified.
func (p *Ptr) Userdata() []byte {
	if !p.live() {
		return nil
	}
	return userdataOf(p.payload())
}

// Len returns the number of elements. Scalars report 1.
func (p *Ptr) Len() int {
	if !p.live() {
		return 0
	}
	if m := arrayMetaOf(p.payload()); m != nil {
		return m.length
	}
	return 1
}

// Cap returns the number of allocated element slots. Scalars report 1.
func (p *Ptr) Cap() int {
	if !p.live() {
		return 0
	}
	if m := arrayMetaOf(p.payload()); m != nil {
		return m.capacity
	}
	return 1
}

// ElemSize returns the element size in bytes. For scalars it is the
// payload size.
func (p *Ptr) ElemSize() int {
	if !p.live() {
		return 0
	}
	if m := arrayMetaOf(p.payload()); m != nil {
		return m.elemSize
	}
	return len(p.data)
}

// RefCount returns the current reference count. Unique allocations report
// 1 and released ones 0.
func (p *Ptr) RefCount() int {
	if p.data == nil {
		return 0
	}
	h := p.header()
	if !h.kind().IsShared() {
		return 1
	}
	return int(h.refs().Load())
}

// Retain increments the reference count of a shared allocation and returns
// p. Retaining a unique allocation is a programming error.
func (p *Ptr) Retain() *Ptr {
	if !p.live() {
		return p
	}
	h := p.header()
	debug.Assert(h.kind().IsShared(), msgRetainNotShared)
	if h.kind().IsShared() {
		n := h.refs().Add(1)
		debug.Assert(n > 1, msgRefOverflow)
	}
	return p
}

// Release drops one reference. The allocation is destroyed when a unique
// allocation is released or the reference count of a shared one reaches
// zero: the destructor runs once per element in ascending index order (or
// once for a scalar) and the raw block goes back to its allocator.
// Release on a nil handle is a no-op.
func (p *Ptr) Release() {
	if p == nil {
		return
	}
	ok := p.data != nil
	debug.Assert(ok, msgTooManyReleases)
	if !ok {
		return
	}

	h := p.header()
	if h.kind().IsShared() {
		n := h.refs().Add(-1)
		debug.Assert(n >= 0, msgTooManyReleases)
		if n > 0 {
			return
		}
	}
	p.destroy(h)
}

func (p *Ptr) destroy(h header) {
	checkUserdata(h)

	data, raw := p.data, h.raw()
	// cleared first so destructor reentrancy into p is caught by live.
	p.data = nil

	if p.dtor != nil {
		ud := h.userdata()
		if m := h.meta(); m != nil {
			es := m.elemSize
			for i := 0; i < m.length; i++ {
				p.dtor(data[i*es:(i+1)*es:(i+1)*es], ud)
			}
		} else {
			p.dtor(data, ud)
		}
	}

	if debug.Enabled {
		*h.self() = 0
	}
	debug.Logf("smartptr: free %s block of %d bytes", h.kind(), len(raw))
	p.mem.Free(raw)
}

// Move converts a unique allocation into a new shared one with the same
// destructor, userdata, array metadata and payload bytes. p is left intact
// and must still be released by its owner. For dynamic arrays only the
// first Len elements are copied. Move returns nil if the new
// block cannot be allocated. Moving a non-unique allocation is a
// programming error.
func (p *Ptr) Move() *Ptr {
	if !p.live() {
		return nil
	}
	h := p.header()
	k := h.kind()
	debug.Assert(k.IsUnique(), msgMoveNotUnique)
	debug.Log(func() string { return "smartptr: move " + k.String() + " to shared" })

	cfg := Config{
		Kind:     k&^Unique | Shared,
		ElemSize: len(p.data),
		Count:    1,
		Dtor:     p.dtor,
		Userdata: h.userdata(),
		Data:     p.data,
		Mem:      p.mem,
	}
	if m := h.meta(); m != nil {
		cfg.ElemSize, cfg.Count, cfg.Len = m.elemSize, m.capacity, m.length
		cfg.Data = p.data[:m.length*m.elemSize]
	}
	return Alloc(cfg)
}
