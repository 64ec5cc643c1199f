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

import "golang.org/x/xerrors"

var (
	// ErrAllocationFailure is returned when the backing allocator cannot
	// satisfy a growth request. The array is left at its previous capacity.
	ErrAllocationFailure = xerrors.New("smartptr: allocation failure")
	// ErrReleased is returned by operations on a handle whose allocation
	// has already been destroyed.
	ErrReleased = xerrors.New("smartptr: allocation already released")
	// ErrNotDynamic is returned when a growth operation targets an
	// allocation that is not a dynamic array.
	ErrNotDynamic = xerrors.New("smartptr: not a dynamic array")
)

// messages for programming faults, raised by debug.Assert in assert builds.
const (
	msgCorrupted       = "smartptr: corrupted allocation"
	msgUseAfterFree    = "smartptr: use after free"
	msgRetainNotShared = "smartptr: retain on non-shared allocation"
	msgRefOverflow     = "smartptr: reference count overflow"
	msgTooManyReleases = "smartptr: too many releases"
	msgMoveNotUnique   = "smartptr: move of non-unique allocation"
	msgInvalidKind     = "smartptr: invalid kind"
	msgOutOfRange      = "smartptr: index out of range"
	msgElemSize        = "smartptr: element size mismatch: got %d bytes, want %d"
)
