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

import "strings"

// Kind describes the ownership and shape of an allocation. A valid Kind has
// exactly one of Unique or Shared set, and at most one of StaticArray or
// DynamicArray.
type Kind uint8

const (
	// Unique allocations have a single owner; one Release ends their life.
	Unique Kind = 1 << iota
	// Shared allocations carry an atomic reference count starting at 1.
	Shared
	// StaticArray allocations hold a fixed number of elements.
	StaticArray
	// DynamicArray allocations hold a growable number of elements.
	DynamicArray
)

const (
	ownershipMask = Unique | Shared
	arrayMask     = StaticArray | DynamicArray
)

func (k Kind) IsUnique() bool  { return k&Unique != 0 }
func (k Kind) IsShared() bool  { return k&Shared != 0 }
func (k Kind) IsArray() bool   { return k&arrayMask != 0 }
func (k Kind) IsDynamic() bool { return k&DynamicArray != 0 }

// Ownership returns k with the array flags cleared.
func (k Kind) Ownership() Kind { return k & ownershipMask }

func (k Kind) valid() bool {
	own := k & ownershipMask
	arr := k & arrayMask
	return (own == Unique || own == Shared) && arr != arrayMask && k&^(ownershipMask|arrayMask) == 0
}

var kindNames = [...]struct {
	k    Kind
	name string
}{
	{Unique, "unique"},
	{Shared, "shared"},
	{StaticArray, "static_array"},
	{DynamicArray, "dynamic_array"},
}

func (k Kind) String() string {
	if k == 0 {
		return "invalid"
	}
	var parts []string
	for _, n := range kindNames {
		if k&n.k != 0 {
			parts = append(parts, n.name)
			k &^= n.k
		}
	}
	if k != 0 {
		parts = append(parts, "unknown")
	}
	return strings.Join(parts, "|")
}
