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

package mallocator

// #include <stdlib.h>
// #include <string.h>
//
// void* realloc_and_initialize(void* ptr, size_t old_len, size_t new_len) {
//   void* new_ptr = realloc(ptr, new_len);
//   if (new_ptr && new_len > old_len) {
//     memset((char*)new_ptr + old_len, 0, new_len - old_len);
//   }
//   return new_ptr;
// }
import "C"

import (
	"sync/atomic"
	"unsafe"

	"github.com/apache/arrow/go/smartptr/memory"
)

// Mallocator is an allocator backed by calloc, realloc and free. It is safe
// for concurrent use. Blocks are zero initialized, including the tail added
// by a growing Reallocate.
type Mallocator struct {
	allocatedBytes atomic.Int64
}

func NewMallocator() *Mallocator { return &Mallocator{} }

func (alloc *Mallocator) Allocate(size int) []byte {
	if size < 0 {
		panic("mallocator: negative size")
	}
	if size == 0 {
		return []byte{}
	}
	ptr := C.calloc(C.size_t(size), 1)
	if ptr == nil {
		return nil
	}
	alloc.allocatedBytes.Add(int64(size))
	return unsafe.Slice((*byte)(ptr), size)
}

func (alloc *Mallocator) Free(b []byte) {
	if cap(b) == 0 {
		return
	}
	alloc.allocatedBytes.Add(-int64(len(b)))
	C.free(unsafe.Pointer(unsafe.SliceData(b)))
}

func (alloc *Mallocator) Reallocate(size int, b []byte) []byte {
	if size < 0 {
		panic("mallocator: negative size")
	}
	if cap(b) == 0 {
		return alloc.Allocate(size)
	}
	if size == 0 {
		alloc.Free(b)
		return []byte{}
	}
	old := len(b)
	ptr := C.realloc_and_initialize(unsafe.Pointer(unsafe.SliceData(b)), C.size_t(old), C.size_t(size))
	if ptr == nil {
		return nil
	}
	alloc.allocatedBytes.Add(int64(size - old))
	return unsafe.Slice((*byte)(ptr), size)
}

// AllocatedBytes returns the number of bytes currently held by callers.
func (alloc *Mallocator) AllocatedBytes() int64 {
	return alloc.allocatedBytes.Load()
}

// AssertSize reports an error on t when the allocated byte count differs
// from sz.
func (alloc *Mallocator) AssertSize(t memory.TestingT, sz int) {
	cur := alloc.AllocatedBytes()
	if int64(sz) != cur {
		t.Helper()
		t.Errorf("invalid memory size exp=%d, got=%d", sz, cur)
	}
}

var _ memory.Allocator = (*Mallocator)(nil)
