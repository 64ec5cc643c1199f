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
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// InstrumentedAllocator wraps another Allocator and records its activity,
// both as Prometheus metrics and as plain counters readable with Stats.
type InstrumentedAllocator struct {
	mem Allocator

	allocations   atomic.Int64
	reallocations atomic.Int64
	frees         atomic.Int64
	failures      atomic.Int64
	inUse         atomic.Int64

	allocationsTotal   prometheus.Counter
	reallocationsTotal prometheus.Counter
	freesTotal         prometheus.Counter
	failuresTotal      prometheus.Counter
	inUseBytes         prometheus.Gauge
}

// NewInstrumentedAllocator wraps mem and registers its metrics with reg. A
// nil reg leaves the metrics unregistered. Registering two instrumented
// allocators with the same registry panics, as metric names would collide.
func NewInstrumentedAllocator(mem Allocator, reg prometheus.Registerer) *InstrumentedAllocator {
	f := promauto.With(reg)
	return &InstrumentedAllocator{
		mem: mem,
		allocationsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "smartptr_allocator_allocations_total",
			Help: "Total number of blocks handed out by the allocator.",
		}),
		reallocationsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "smartptr_allocator_reallocations_total",
			Help: "Total number of successful block resizes.",
		}),
		freesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "smartptr_allocator_frees_total",
			Help: "Total number of blocks returned to the allocator.",
		}),
		failuresTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "smartptr_allocator_failures_total",
			Help: "Total number of allocation or resize requests that could not be satisfied.",
		}),
		inUseBytes: f.NewGauge(prometheus.GaugeOpts{
			Name: "smartptr_allocator_in_use_bytes",
			Help: "Bytes currently handed out by the allocator.",
		}),
	}
}

func (a *InstrumentedAllocator) Allocate(size int) []byte {
	out := a.mem.Allocate(size)
	if out == nil {
		a.failures.Add(1)
		a.failuresTotal.Inc()
		return nil
	}
	a.allocations.Add(1)
	a.allocationsTotal.Inc()
	a.inUseBytes.Set(float64(a.inUse.Add(int64(size))))
	return out
}

func (a *InstrumentedAllocator) Reallocate(size int, b []byte) []byte {
	out := a.mem.Reallocate(size, b)
	if out == nil {
		a.failures.Add(1)
		a.failuresTotal.Inc()
		return nil
	}
	a.reallocations.Add(1)
	a.reallocationsTotal.Inc()
	a.inUseBytes.Set(float64(a.inUse.Add(int64(size - len(b)))))
	return out
}

func (a *InstrumentedAllocator) Free(b []byte) {
	a.frees.Add(1)
	a.freesTotal.Inc()
	a.inUseBytes.Set(float64(a.inUse.Add(-int64(len(b)))))
	a.mem.Free(b)
}

// Stats returns a snapshot of the allocator counters.
func (a *InstrumentedAllocator) Stats() AllocatorStats {
	return AllocatorStats{
		Allocations:   a.allocations.Load(),
		Reallocations: a.reallocations.Load(),
		Frees:         a.frees.Load(),
		Failures:      a.failures.Load(),
		InUseBytes:    a.inUse.Load(),
	}
}

var _ Allocator = (*InstrumentedAllocator)(nil)
