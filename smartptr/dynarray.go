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
	"github.com/JohnCGriffin/overflow"
	"golang.org/x/xerrors"

	"github.com/apache/arrow/go/smartptr/internal/debug"
	"github.com/apache/arrow/go/smartptr/memory"
)

// minGrowCap is the smallest capacity a dynamic array grows to.
const minGrowCap = 4

func (p *Ptr) dynamicMeta() (header, *arrayMeta, error) {
	if !p.live() {
		return header{}, nil, ErrReleased
	}
	h := p.header()
	k := h.kind()
	debug.Assert(k.IsDynamic(), ErrNotDynamic.Error())
	if !k.IsDynamic() {
		return header{}, nil, xerrors.Errorf("smartptr: %s: %w", k, ErrNotDynamic)
	}
	return h, h.meta(), nil
}

// Grow makes room for at least n more elements. When the array is full it
// reallocates to max(Len+n, 2*Cap, 4) elements; the payload may move, so
// slices obtained from Bytes or Elem before the call are invalidated. On
// failure the array keeps its previous capacity and contents and the
// returned error wraps ErrAllocationFailure. No destructor is called.
func (p *Ptr) Grow(n int) error {
	h, m, err := p.dynamicMeta()
	if err != nil {
		return err
	}
	debug.Assert(n >= 0, msgOutOfRange)

	need, ok := overflow.Add(m.length, n)
	if !ok {
		return xerrors.Errorf("smartptr: grow %d elements by %d: %w", m.length, n, ErrAllocationFailure)
	}
	if need <= m.capacity {
		return nil
	}

	newCap := max(need, minGrowCap)
	if twice, ok := overflow.Mul(m.capacity, 2); ok {
		newCap = max(newCap, twice)
	}

	es, oldCap := m.elemSize, m.capacity
	l, ok := newLayout(h.kind(), es, newCap, h.userdataLen())
	if !ok {
		return xerrors.Errorf("smartptr: grow to %d elements of %d bytes: %w", newCap, es, ErrAllocationFailure)
	}

	raw := p.mem.Reallocate(l.totalSize(), h.raw())
	if raw == nil {
		return xerrors.Errorf("smartptr: grow to %d elements of %d bytes: %w", newCap, es, ErrAllocationFailure)
	}
	debug.Logf("smartptr: grew %s from %d to %d elements", h.kind(), oldCap, newCap)

	p.data = rebaseBlock(raw, l, newCap)
	memory.Set(p.data[oldCap*es:], 0)
	return nil
}

// Append adds elem, which must be ElemSize bytes, at the end of the array.
func (p *Ptr) Append(elem []byte) error {
	if err := p.Grow(1); err != nil {
		return err
	}
	m := arrayMetaOf(p.payload())
	debug.Assertf(len(elem) == m.elemSize, msgElemSize, len(elem), m.elemSize)
	copy(p.data[m.length*m.elemSize:(m.length+1)*m.elemSize], elem)
	m.length++
	return nil
}

// Pop removes the last element and returns its bytes. The returned slice
// aliases the array's storage and is valid until the next mutation. No
// destructor is called.
func (p *Ptr) Pop() []byte {
	_, m, err := p.dynamicMeta()
	if err != nil {
		return nil
	}
	debug.Assert(m.length > 0, msgOutOfRange)
	m.length--
	off := m.length * m.elemSize
	return p.data[off : off+m.elemSize : off+m.elemSize]
}

// Insert places elem at index i, shifting elements [i, Len) one slot to
// the right. i must be in [0, Len].
func (p *Ptr) Insert(i int, elem []byte) error {
	_, m, err := p.dynamicMeta()
	if err != nil {
		return err
	}
	debug.Assertf(len(elem) == m.elemSize, msgElemSize, len(elem), m.elemSize)
	if err := p.InsertN(i, 1); err != nil {
		return err
	}
	copy(p.Elem(i), elem)
	return nil
}

// InsertN opens n zeroed slots at index i, shifting elements [i, Len) n
// slots to the right. i must be in [0, Len].
func (p *Ptr) InsertN(i, n int) error {
	if err := p.Grow(n); err != nil {
		return err
	}
	m := arrayMetaOf(p.payload())
	debug.Assert(i >= 0 && i <= m.length, msgOutOfRange)

	es := m.elemSize
	copy(p.data[(i+n)*es:], p.data[i*es:m.length*es])
	memory.Set(p.data[i*es:(i+n)*es], 0)
	m.length += n
	return nil
}

// AppendN adds n zeroed elements at the end of the array and returns the
// index of the first one.
func (p *Ptr) AppendN(n int) (int, error) {
	_, m, err := p.dynamicMeta()
	if err != nil {
		return 0, err
	}
	i := m.length
	if err := p.InsertN(i, n); err != nil {
		return 0, err
	}
	return i, nil
}

// DeleteRange removes n elements starting at index i, shifting the
// remainder left. No destructor is called on the removed elements.
func (p *Ptr) DeleteRange(i, n int) {
	_, m, err := p.dynamicMeta()
	if err != nil {
		return
	}
	debug.Assert(i >= 0 && n >= 0 && i+n <= m.length, msgOutOfRange)

	es := m.elemSize
	copy(p.data[i*es:], p.data[(i+n)*es:m.length*es])
	m.length -= n
}

// Delete removes the element at index i.
func (p *Ptr) Delete(i int) { p.DeleteRange(i, 1) }

// Last returns the bytes of the last element.
func (p *Ptr) Last() []byte {
	if !p.live() {
		return nil
	}
	m := arrayMetaOf(p.payload())
	if m == nil {
		return p.data
	}
	debug.Assert(m.length > 0, msgOutOfRange)
	off := (m.length - 1) * m.elemSize
	return p.data[off : off+m.elemSize : off+m.elemSize]
}
