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

// Allocator is the boundary between the smartptr engine and the memory it
// manages.
//
// Allocate returns a block of exactly size bytes, or nil when the request
// cannot be satisfied. Reallocate resizes b to size bytes, preserving the
// leading min(len(b), size) bytes; it may move the block. When Reallocate
// returns nil, b is left intact and is still owned by the caller. Free
// returns a block obtained from Allocate or Reallocate of the same
// Allocator.
type Allocator interface {
	Allocate(size int) []byte
	Reallocate(size int, b []byte) []byte
	Free(b []byte)
}

// DefaultAllocator is a default implementation of Allocator and can be used anywhere
// an Allocator is required.
//
// DefaultAllocator is safe to use from multiple goroutines.
var DefaultAllocator Allocator = NewGoAllocator()

// AllocatorStats is a snapshot of allocator activity.
type AllocatorStats struct {
	Allocations   int64 `json:"allocations"`
	Reallocations int64 `json:"reallocations"`
	Frees         int64 `json:"frees"`
	Failures      int64 `json:"failures"`
	InUseBytes    int64 `json:"in_use_bytes"`
}
