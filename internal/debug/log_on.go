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

//go:build debug
// +build debug

package debug

import (
	"fmt"
	"log"
	"os"
)

var (
	debug = log.New(os.Stderr, "[D] ", log.LstdFlags|log.Lmicroseconds)
)

// Log writes msg to stderr. msg must be a string, func() string or
// fmt.Stringer.
func Log(msg interface{}) {
	debug.Output(2, getStringValue(msg))
}

// Logf writes a formatted message to stderr.
func Logf(format string, args ...interface{}) {
	debug.Output(2, fmt.Sprintf(format, args...))
}
