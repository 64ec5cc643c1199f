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
Package memory provides the backing allocators used by the smartptr engine.

An Allocator hands out raw, word aligned byte blocks. The engine carves each
block into a header, optional array metadata, optional userdata and the
payload, so allocators never see anything but plain bytes. Implementations
signal exhaustion by returning nil rather than panicking; callers treat a nil
block as an allocation failure and leave their own state untouched.

The package-level DefaultAllocator is used whenever a caller does not supply
one. It may be swapped at process start; every allocation remembers the
allocator it came from, so blocks are always returned to their origin.
*/
package memory
