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

package memory

import (
	"os"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

// CheckedAllocator wraps another Allocator and keeps track of every live
// block and the call site that produced it. It is meant for tests: after
// all handles have been released, AssertSize(t, 0) reports each leaked
// block together with the function and line that allocated it.
type CheckedAllocator struct {
	mem Allocator
	sz  int64

	allocs sync.Map
}

func NewCheckedAllocator(mem Allocator) *CheckedAllocator {
	return &CheckedAllocator{mem: mem}
}

// CurrentAlloc returns the number of bytes currently allocated through a.
func (a *CheckedAllocator) CurrentAlloc() int { return int(atomic.LoadInt64(&a.sz)) }

// Live returns the number of blocks currently allocated through a.
func (a *CheckedAllocator) Live() int {
	n := 0
	a.allocs.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

func (a *CheckedAllocator) Allocate(size int) []byte {
	out := a.mem.Allocate(size)
	if out == nil {
		return nil
	}
	atomic.AddInt64(&a.sz, int64(size))
	if size == 0 {
		return out
	}

	if pc, _, l, ok := runtime.Caller(allocFrames); ok {
		a.allocs.Store(addressOf(out), &dalloc{pc: pc, line: l, sz: size})
	}
	return out
}

func (a *CheckedAllocator) Reallocate(size int, b []byte) []byte {
	out := a.mem.Reallocate(size, b)
	if out == nil {
		return nil
	}
	atomic.AddInt64(&a.sz, int64(size-len(b)))

	if len(b) != 0 {
		a.allocs.Delete(addressOf(b))
	}
	if size == 0 {
		return out
	}
	if pc, _, l, ok := runtime.Caller(reallocFrames); ok {
		a.allocs.Store(addressOf(out), &dalloc{pc: pc, line: l, sz: size})
	}
	return out
}

func (a *CheckedAllocator) Free(b []byte) {
	atomic.AddInt64(&a.sz, int64(len(b)*-1))
	defer a.mem.Free(b)

	if len(b) == 0 {
		return
	}
	a.allocs.Delete(addressOf(b))
}

// Allocations usually come through the smartptr engine rather than from
// consumers calling Allocate or Reallocate directly, so the recorded call
// site skips the engine frames to land on the code that created or grew the
// allocation.
const (
	defAllocFrames   = 3
	defReallocFrames = 3
)

// Use the environment variables SMARTPTR_CHECKED_ALLOC_FRAMES and
// SMARTPTR_CHECKED_REALLOC_FRAMES to control how many frames up the stack
// the call site of an allocation is taken from when hunting leaks.
var allocFrames, reallocFrames int = defAllocFrames, defReallocFrames

func init() {
	if val, ok := os.LookupEnv("SMARTPTR_CHECKED_ALLOC_FRAMES"); ok {
		if f, err := strconv.Atoi(val); err == nil {
			allocFrames = f
		}
	}

	if val, ok := os.LookupEnv("SMARTPTR_CHECKED_REALLOC_FRAMES"); ok {
		if f, err := strconv.Atoi(val); err == nil {
			reallocFrames = f
		}
	}
}

type dalloc struct {
	pc   uintptr
	line int
	sz   int
}

// TestingT is the subset of testing.TB used for reporting.
type TestingT interface {
	Errorf(format string, args ...interface{})
	Helper()
}

// AssertSize reports an error on t when the number of bytes currently
// allocated differs from sz, listing every live block as a leak.
func (a *CheckedAllocator) AssertSize(t TestingT, sz int) {
	cur := int(atomic.LoadInt64(&a.sz))
	if cur == sz {
		return
	}

	t.Helper()
	a.allocs.Range(func(_, value interface{}) bool {
		info := value.(*dalloc)
		name := "<unknown>"
		if f := runtime.FuncForPC(info.pc); f != nil {
			name = f.Name()
		}
		t.Errorf("LEAK of %d bytes FROM %s line %d\n", info.sz, name, info.line)
		return true
	})
	t.Errorf("invalid memory size exp=%d, got=%d", sz, cur)
}

// CheckedAllocatorScope remembers the allocated size at creation so a test
// can check that a block of code released everything it allocated.
type CheckedAllocatorScope struct {
	alloc *CheckedAllocator
	sz    int
}

func NewCheckedAllocatorScope(alloc *CheckedAllocator) *CheckedAllocatorScope {
	sz := atomic.LoadInt64(&alloc.sz)
	return &CheckedAllocatorScope{alloc: alloc, sz: int(sz)}
}

func (c *CheckedAllocatorScope) CheckSize(t TestingT) {
	sz := int(atomic.LoadInt64(&c.alloc.sz))
	if c.sz != sz {
		t.Helper()
		t.Errorf("invalid memory size exp=%d, got=%d", c.sz, sz)
	}
}

var (
	_ Allocator = (*CheckedAllocator)(nil)
	_ Allocator = (*GoAllocator)(nil)
)
