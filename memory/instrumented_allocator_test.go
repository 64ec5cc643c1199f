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

package memory_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apache/arrow/go/smartptr/memory"
)

func TestInstrumentedAllocator(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	limited := memory.NewLimitedAllocator(memory.NewGoAllocator(), 1024)
	mem := memory.NewInstrumentedAllocator(limited, reg)

	a := mem.Allocate(100)
	b := mem.Allocate(200)
	require.NotNil(t, a)
	require.NotNil(t, b)

	b = mem.Reallocate(400, b)
	require.NotNil(t, b)
	assert.Nil(t, mem.Allocate(1000))
	mem.Free(a)

	assert.Equal(t, memory.AllocatorStats{
		Allocations:   2,
		Reallocations: 1,
		Frees:         1,
		Failures:      1,
		InUseBytes:    400,
	}, mem.Stats())

	err := testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP smartptr_allocator_allocations_total Total number of blocks handed out by the allocator.
# TYPE smartptr_allocator_allocations_total counter
smartptr_allocator_allocations_total 2
# HELP smartptr_allocator_failures_total Total number of allocation or resize requests that could not be satisfied.
# TYPE smartptr_allocator_failures_total counter
smartptr_allocator_failures_total 1
# HELP smartptr_allocator_frees_total Total number of blocks returned to the allocator.
# TYPE smartptr_allocator_frees_total counter
smartptr_allocator_frees_total 1
# HELP smartptr_allocator_in_use_bytes Bytes currently handed out by the allocator.
# TYPE smartptr_allocator_in_use_bytes gauge
smartptr_allocator_in_use_bytes 400
# HELP smartptr_allocator_reallocations_total Total number of successful block resizes.
# TYPE smartptr_allocator_reallocations_total counter
smartptr_allocator_reallocations_total 1
`))
	assert.NoError(t, err)

	mem.Free(b)
	assert.Zero(t, mem.Stats().InUseBytes)
}

func TestInstrumentedAllocatorUnregistered(t *testing.T) {
	mem := memory.NewInstrumentedAllocator(memory.NewGoAllocator(), nil)
	mem.Free(mem.Allocate(8))
	assert.Equal(t, int64(1), mem.Stats().Frees)
}
