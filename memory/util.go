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
	"unsafe"

	"golang.org/x/exp/constraints"
)

// WordSize is the size in bytes of a machine word.
const WordSize = int(unsafe.Sizeof(uintptr(0)))

// RoundUp rounds v up to the next multiple of align, which must be a power
// of two.
func RoundUp[T constraints.Integer](v, align T) T {
	return (v + align - 1) &^ (align - 1)
}

// IsMultipleOf reports whether v is a multiple of align, which must be a
// power of two.
func IsMultipleOf[T constraints.Integer](v, align T) bool {
	return v&(align-1) == 0
}

func addressOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}
