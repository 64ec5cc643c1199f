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

//go:build unix

// Package guard provides a debugging allocator that gives every block its
// own anonymous memory mapping.
//
// Each block is placed at the very end of its mapping, directly in front of
// an inaccessible guard page, so writing past the end of a payload faults
// immediately. With Poison enabled, freed blocks stay mapped with no access
// rights, so reading or writing through a stale slice after the last
// release faults as well. Both checks trade a lot of memory for precise
// failures and are meant for tests and debugging sessions.
package guard

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/apache/arrow/go/smartptr/internal/debug"
	"github.com/apache/arrow/go/smartptr/memory"
)

// Options configures an Allocator.
type Options struct {
	// Poison keeps freed blocks mapped with PROT_NONE instead of unmapping
	// them. Poisoned mappings are released by Close.
	Poison bool
}

// Allocator is a memory.Allocator backed by one mmap per block.
type Allocator struct {
	poison   bool
	pageSize int

	mu       sync.Mutex
	mappings map[uintptr][]byte
	poisoned [][]byte

	allocated atomic.Int64
}

func NewAllocator(opts Options) *Allocator {
	return &Allocator{
		poison:   opts.Poison,
		pageSize: unix.Getpagesize(),
		mappings: make(map[uintptr][]byte),
	}
}

func (a *Allocator) Allocate(size int) []byte {
	if size < 0 {
		panic("guard: negative size")
	}
	if size == 0 {
		return []byte{}
	}

	body := memory.RoundUp(size, a.pageSize)
	m, err := unix.Mmap(-1, 0, body+a.pageSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		debug.Logf("guard: mmap %d bytes: %v", body+a.pageSize, err)
		return nil
	}
	if err := unix.Mprotect(m[body:], unix.PROT_NONE); err != nil {
		debug.Logf("guard: protect guard page: %v", err)
		_ = unix.Munmap(m)
		return nil
	}

	start := body - memory.RoundUp(size, memory.WordSize)
	b := m[start : start+size : start+size]

	a.mu.Lock()
	a.mappings[addressOf(b)] = m
	a.mu.Unlock()
	a.allocated.Add(int64(size))
	return b
}

func (a *Allocator) Reallocate(size int, b []byte) []byte {
	if size < 0 {
		panic("guard: negative size")
	}
	if cap(b) == 0 {
		return a.Allocate(size)
	}
	if size == 0 {
		a.Free(b)
		return []byte{}
	}
	out := a.Allocate(size)
	if out == nil {
		return nil
	}
	copy(out, b)
	a.Free(b)
	return out
}

func (a *Allocator) Free(b []byte) {
	if cap(b) == 0 {
		return
	}

	a.mu.Lock()
	addr := addressOf(b)
	m, ok := a.mappings[addr]
	delete(a.mappings, addr)
	if ok && a.poison {
		a.poisoned = append(a.poisoned, m)
	}
	a.mu.Unlock()
	if !ok {
		panic("guard: free of a block not owned by this allocator")
	}

	a.allocated.Add(-int64(len(b)))
	var err error
	if a.poison {
		err = unix.Mprotect(m, unix.PROT_NONE)
	} else {
		err = unix.Munmap(m)
	}
	if err != nil {
		panic("guard: releasing block: " + err.Error())
	}
}

// AllocatedBytes returns the number of bytes currently held by callers.
func (a *Allocator) AllocatedBytes() int64 { return a.allocated.Load() }

// Close unmaps every poisoned block. Blocks still held by callers are left
// alone.
func (a *Allocator) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var firstErr error
	for _, m := range a.poisoned {
		if err := unix.Munmap(m); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.poisoned = nil
	return firstErr
}

func addressOf(b []byte) uintptr { return uintptr(unsafe.Pointer(unsafe.SliceData(b))) }

var _ memory.Allocator = (*Allocator)(nil)
