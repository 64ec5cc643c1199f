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
	"fmt"
	"unsafe"

	"github.com/apache/arrow/go/smartptr/memory"
)

type config struct {
	dtor     Destructor
	dtorSize int
	userdata []byte
	mem      memory.Allocator
}

// Option configures an allocation made by the typed constructors.
type Option func(*config)

// WithDestructor registers fn to be called on each element when the
// allocation is destroyed. T must match the element type of the
// allocation.
func WithDestructor[T any](fn func(elem *T, userdata []byte)) Option {
	var zero T
	size := int(unsafe.Sizeof(zero))
	return func(c *config) {
		c.dtorSize = size
		c.dtor = func(elem, userdata []byte) { fn(castElem[T](elem), userdata) }
	}
}

// WithUserdata copies b into the allocation's userdata region.
func WithUserdata(b []byte) Option {
	return func(c *config) { c.userdata = b }
}

// WithAllocator selects the allocator backing the allocation instead of
// memory.DefaultAllocator.
func WithAllocator(mem memory.Allocator) Option {
	return func(c *config) { c.mem = mem }
}

func newConfig(elemSize int, opts []Option) config {
	var c config
	for _, o := range opts {
		o(&c)
	}
	if c.dtor != nil && c.dtorSize != elemSize {
		panic(fmt.Sprintf("smartptr: destructor for %d byte elements used with %d byte elements", c.dtorSize, elemSize))
	}
	return c
}
