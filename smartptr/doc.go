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

/*
Package smartptr provides manually managed allocations with unique or
reference counted ownership, optional destructors and userdata, and
growable arrays. Its import path is
github.com/apache/arrow/go/smartptr/smartptr; the allocators it draws from
live in github.com/apache/arrow/go/smartptr/memory.

Every allocation is a single raw block obtained from a memory.Allocator:

	[header][array metadata][userdata][offset word][payload]

The offset word just before the payload records where the block starts,
so the header is always reachable from the payload alone. Handles (*Ptr,
and the typed Box, Array and Array2D) expose the payload through
accessors and must be released explicitly, usually with defer:

	b := smartptr.NewShared(point{1, 2}, smartptr.WithDestructor(func(p *point, _ []byte) {
		log.Println("destroying", *p)
	}))
	defer b.Release()

Payload memory may come from outside the Go heap, so element types must
not contain Go pointers.

Building with -tags assert adds a self pointer and a userdata digest to
every header and turns misuse (retain of a unique allocation, use after
free, corrupted headers) into panics. -tags debug traces allocation
events to stderr.
*/
package smartptr
