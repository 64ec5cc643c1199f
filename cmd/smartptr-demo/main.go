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

// Command smartptr-demo builds a small graph of shared allocations, reports
// the destructor calls made while tearing it down and prints allocator
// statistics.
package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/docopt/docopt-go"
	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"golang.org/x/xerrors"

	"github.com/apache/arrow/go/smartptr/memory"
	"github.com/apache/arrow/go/smartptr/smartptr"
)

const usage = `Smart pointer demo.
Usage:
  smartptr-demo -h | --help
  smartptr-demo [--allocator=<name>] [--json]
Options:
  -h --help             Show this screen.
  --allocator=<name>    Backing allocator, go or checked [default: checked].
  --json                Format the report as JSON instead of text.`

type foo struct {
	Name [8]byte
	C    byte
	I    int32
}

func (f *foo) name() string {
	if i := bytes.IndexByte(f.Name[:], 0); i >= 0 {
		return string(f.Name[:i])
	}
	return string(f.Name[:])
}

type bar struct {
	F float32
}

type report struct {
	Allocator string                `json:"allocator"`
	Events    []string              `json:"events"`
	Stats     memory.AllocatorStats `json:"stats"`
}

type demo struct {
	mem    memory.Allocator
	out    io.Writer
	events []string
}

func (d *demo) tracef(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	d.events = append(d.events, msg)
	if d.out != nil {
		fmt.Fprintln(d.out, msg)
	}
}

// newBar returns a shared bar whose destructor releases the foo it refers
// to, along with a borrowed view of that foo.
func (d *demo) newBar() (*smartptr.Box[bar], *smartptr.Box[foo]) {
	v := foo{C: 'A', I: 42}
	copy(v.Name[:], "foo")
	f := smartptr.NewShared(v, smartptr.WithAllocator(d.mem),
		smartptr.WithDestructor(func(f *foo, _ []byte) { d.tracef("foo_dtor -> %s", f.name()) }))
	if f == nil {
		return nil, nil
	}

	b := smartptr.NewShared(bar{F: 3.14}, smartptr.WithAllocator(d.mem),
		smartptr.WithDestructor(func(b *bar, _ []byte) {
			d.tracef("bar_dtor -> %.2f", b.F)
			f.Release()
		}))
	if b == nil {
		f.Release()
		return nil, nil
	}
	return b, f
}

func (d *demo) newInts(n int) *smartptr.Array[int32] {
	a := smartptr.NewArray[int32](smartptr.Shared, n, nil, smartptr.WithAllocator(d.mem))
	if a == nil {
		return nil
	}
	for i := range a.Values() {
		a.Set(i, int32(i))
	}
	return a
}

func (d *demo) run() error {
	b, f := d.newBar()
	if b == nil {
		return smartptr.ErrAllocationFailure
	}
	defer b.Release()

	ia := d.newInts(3)
	if ia == nil {
		return smartptr.ErrAllocationFailure
	}
	defer ia.Release()

	d.tracef("ia: %d", *ia.At(0))
	d.tracef("b->f: %f", b.Get().F)
	d.tracef("b->ptr->name: %s", f.Get().name())
	d.tracef("b->ptr->c: %c", f.Get().C)
	d.tracef("b->ptr->i: %d", f.Get().I)
	return nil
}

func newAllocator(name string) (memory.Allocator, error) {
	switch name {
	case "go":
		return memory.NewGoAllocator(), nil
	case "checked":
		return memory.NewCheckedAllocator(memory.NewGoAllocator()), nil
	default:
		return nil, xerrors.Errorf("unknown allocator %q", name)
	}
}

// run executes the demo and writes the report to w. It returns the number
// of bytes left allocated.
func run(argv []string, w io.Writer) (int64, error) {
	parser := &docopt.Parser{HelpHandler: docopt.PrintHelpAndExit}
	opts, err := parser.ParseArgs(usage, argv, "")
	if err != nil {
		return 0, err
	}
	var config struct {
		Allocator string `docopt:"--allocator"`
		JSON      bool   `docopt:"--json"`
	}
	if err := opts.Bind(&config); err != nil {
		return 0, err
	}

	base, err := newAllocator(config.Allocator)
	if err != nil {
		return 0, err
	}
	mem := memory.NewInstrumentedAllocator(base, nil)

	d := &demo{mem: mem}
	if !config.JSON {
		d.out = w
	}
	if err := d.run(); err != nil {
		return 0, err
	}

	stats := mem.Stats()
	if config.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report{Allocator: config.Allocator, Events: d.events, Stats: stats}); err != nil {
			return 0, err
		}
		return stats.InUseBytes, nil
	}

	fmt.Fprintf(w, "allocator: %s\n", config.Allocator)
	fmt.Fprintf(w, "allocations: %d, reallocations: %d, frees: %d, failures: %d\n",
		stats.Allocations, stats.Reallocations, stats.Frees, stats.Failures)
	fmt.Fprintf(w, "in use: %s\n", humanize.Bytes(uint64(max(stats.InUseBytes, 0))))
	return stats.InUseBytes, nil
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("smartptr-demo: ")

	leaked, err := run(os.Args[1:], os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
	if leaked != 0 {
		log.Printf("%s leaked", humanize.Bytes(uint64(leaked)))
		os.Exit(1)
	}
}
