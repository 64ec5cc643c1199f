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

	"github.com/apache/arrow/go/smartptr/internal/debug"
	"github.com/apache/arrow/go/smartptr/memory"
)

// A raw block is laid out as
//
//	[header][array metadata][userdata][back pointer][payload]
//
// with every region rounded up to a whole number of words. The header
// always starts with the kind, the raw block size and the exact userdata
// length. Assert builds append the expected payload address and a digest of
// the userdata. Shared allocations end the header with the reference count.
// Array metadata is present only for array kinds. The back pointer holds
// the distance from the start of the block to the payload, which is what
// lets a payload address find its header.

const wordSize = memory.WordSize

const (
	offKind = iota * wordSize
	offRawSize
	offUserdataLen
	baseHeaderSize
)

// digestSize is the width of the userdata digest slot.
const digestSize = 8

const (
	offSelf   = baseHeaderSize
	offDigest = baseHeaderSize + wordSize
)

// debugHeaderSize is the size of the header words that only exist in assert
// builds.
var debugHeaderSize = func() int {
	if debug.Enabled {
		return wordSize + memory.RoundUp(digestSize, wordSize)
	}
	return 0
}()

// arrayMeta mirrors the array metadata words of a raw block.
type arrayMeta struct {
	elemSize int
	length   int
	capacity int
}

const arrayMetaSize = 3 * wordSize

func refsOffset() int { return baseHeaderSize + debugHeaderSize }

func headerSize(k Kind) int {
	n := baseHeaderSize + debugHeaderSize
	if k.IsShared() {
		n += wordSize
	}
	return n
}

func metaSize(k Kind) int {
	if k.IsArray() {
		return arrayMetaSize
	}
	return 0
}

// layout holds the region sizes of a raw block.
type layout struct {
	kind          Kind
	headerSize    int
	arrayMetaSize int
	userdataSize  int
	payloadSize   int
}

// newLayout computes the layout for count elements of elemSize bytes plus
// userdataLen bytes of userdata. It reports false when the sizes are
// negative or the total does not fit in an int.
func newLayout(kind Kind, elemSize, count, userdataLen int) (layout, bool) {
	if elemSize < 0 || count < 0 || userdataLen < 0 {
		return layout{}, false
	}
	payload, ok := overflow.Mul(elemSize, count)
	if !ok {
		return layout{}, false
	}
	payload, ok = alignUp(payload)
	if !ok {
		return layout{}, false
	}
	userdata, ok := alignUp(userdataLen)
	if !ok {
		return layout{}, false
	}

	l := layout{
		kind:          kind,
		headerSize:    headerSize(kind),
		arrayMetaSize: metaSize(kind),
		userdataSize:  userdata,
		payloadSize:   payload,
	}
	if _, ok := overflow.Add(l.headerSize+l.arrayMetaSize+wordSize, l.userdataSize); !ok {
		return layout{}, false
	}
	if _, ok := overflow.Add(l.payloadOffset(), l.payloadSize); !ok {
		return layout{}, false
	}
	return l, true
}

func alignUp(n int) (int, bool) {
	if _, ok := overflow.Add(n, wordSize-1); !ok {
		return 0, false
	}
	return memory.RoundUp(n, wordSize), true
}

func (l layout) arrayMetaOffset() int { return l.headerSize }

func (l layout) userdataOffset() int { return l.headerSize + l.arrayMetaSize }

// backPointerOffset is also the total size of the header, array metadata
// and userdata regions.
func (l layout) backPointerOffset() int { return l.userdataOffset() + l.userdataSize }

func (l layout) payloadOffset() int { return l.backPointerOffset() + wordSize }

func (l layout) totalSize() int { return l.payloadOffset() + l.payloadSize }
