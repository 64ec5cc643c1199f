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

import "sync/atomic"

// LimitedAllocator wraps another Allocator with a byte budget. Requests
// that would take the bytes in use past the limit fail by returning nil,
// which makes it the simplest way to drive allocation failure paths.
type LimitedAllocator struct {
	mem   Allocator
	limit atomic.Int64
	used  atomic.Int64
}

// NewLimitedAllocator returns an allocator that serves at most limit bytes
// at a time from mem.
func NewLimitedAllocator(mem Allocator, limit int) *LimitedAllocator {
	a := &LimitedAllocator{mem: mem}
	a.limit.Store(int64(limit))
	return a
}

// SetLimit changes the budget. Blocks already handed out are unaffected,
// even if they exceed the new limit.
func (a *LimitedAllocator) SetLimit(limit int) { a.limit.Store(int64(limit)) }

func (a *LimitedAllocator) Limit() int { return int(a.limit.Load()) }

// Used returns the number of bytes currently handed out.
func (a *LimitedAllocator) Used() int { return int(a.used.Load()) }

func (a *LimitedAllocator) reserve(n int64) bool {
	for {
		cur := a.used.Load()
		if cur+n > a.limit.Load() {
			return false
		}
		if a.used.CompareAndSwap(cur, cur+n) {
			return true
		}
	}
}

func (a *LimitedAllocator) Allocate(size int) []byte {
	if !a.reserve(int64(size)) {
		return nil
	}
	out := a.mem.Allocate(size)
	if out == nil {
		a.used.Add(-int64(size))
	}
	return out
}

func (a *LimitedAllocator) Reallocate(size int, b []byte) []byte {
	delta := int64(size - len(b))
	if delta > 0 && !a.reserve(delta) {
		return nil
	}
	out := a.mem.Reallocate(size, b)
	switch {
	case out == nil && delta > 0:
		a.used.Add(-delta)
	case out != nil && delta < 0:
		a.used.Add(delta)
	}
	return out
}

func (a *LimitedAllocator) Free(b []byte) {
	a.used.Add(-int64(len(b)))
	a.mem.Free(b)
}

var _ Allocator = (*LimitedAllocator)(nil)
