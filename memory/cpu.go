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

import "github.com/klauspost/cpuid/v2"

// alignment is the byte alignment of blocks returned by GoAllocator. It is
// never below 64 so payloads stay friendly to SIMD loads, and grows to the
// detected cache line size on CPUs with wider lines.
var alignment = blockAlignment(cpuid.CPU.CacheLine)

func blockAlignment(cacheLine int) int {
	const minAlignment = 64
	if cacheLine > minAlignment && IsMultipleOf(cacheLine, minAlignment) && cacheLine&(cacheLine-1) == 0 {
		return cacheLine
	}
	return minAlignment
}
