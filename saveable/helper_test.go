// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package saveable

import (
	"github.com/tochemey/savekit/storage"
)

type counter struct {
	value      string
	loads      []string
	skip       bool
	stale      bool
	panicSave  bool
	panicLoad  bool
	serialized int
}

func (c *counter) Serialize() string {
	if c.panicSave {
		panic("serialize failure")
	}
	c.serialized++
	return c.value
}

func (c *counter) Deserialize(payload string) {
	if c.panicLoad {
		panic("deserialize failure")
	}
	c.loads = append(c.loads, payload)
	c.value = payload
}

func (c *counter) ShouldSave() bool {
	return !c.skip
}

func (c *counter) Stale() bool {
	return c.stale
}

type named struct {
	counter
}

func (n *named) SaveTypeName() string {
	return "Inventory"
}

type call struct {
	method string
	flush  bool
}

// recorder is a Coordinator bound to a single backend
type recorder struct {
	backend storage.Backend
	calls   []call
}

var _ Coordinator = (*recorder)(nil)

func newRecorder() *recorder {
	return &recorder{backend: storage.NewText()}
}

func (r *recorder) Register(s *Saveable) {
	r.calls = append(r.calls, call{method: "register"})
	s.OnLoadRequest(r.backend)
}

func (r *recorder) Unregister(s *Saveable, flushOnRemove bool) {
	r.calls = append(r.calls, call{method: "unregister", flush: flushOnRemove})
	if flushOnRemove {
		s.OnSaveRequest(r.backend)
	}
}

func (r *recorder) RequestReload(s *Saveable) {
	r.calls = append(r.calls, call{method: "reload"})
	s.OnLoadRequest(r.backend)
}

func (r *recorder) count(method string) int {
	n := 0
	for _, c := range r.calls {
		if c.method == method {
			n++
		}
	}
	return n
}
