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

package instance

import (
	"sync"

	"github.com/tochemey/savekit/saveable"
	"github.com/tochemey/savekit/storage"
)

type crop struct {
	mu    sync.Mutex
	value string
	loads []string
}

func (c *crop) Serialize() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

func (c *crop) Deserialize(payload string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = payload
	c.loads = append(c.loads, payload)
}

func (c *crop) ShouldSave() bool {
	return true
}

// farm builds a crop participant for every spawned instance
type farm struct {
	mu               sync.Mutex
	crops            map[string]*crop
	builds           []SpawnInfo
	saveWhenDisabled bool
	fail             error
}

func newFarm() *farm {
	return &farm{crops: make(map[string]*crop), saveWhenDisabled: true}
}

func (f *farm) Build(info SpawnInfo, registry *saveable.Saveable) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	c := &crop{value: "seed"}
	f.crops[registry.SaveIdentification()] = c
	f.builds = append(f.builds, info)
	registry.SetSaveWhenDisabled(f.saveWhenDisabled)
	registry.AddParticipant("Growth", c, false)
	return nil
}

func (f *farm) crop(id string) *crop {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.crops[id]
}

type fakeCoordinator struct {
	backend storage.Backend
}

var _ Coordinator = (*fakeCoordinator)(nil)

func newFakeCoordinator() *fakeCoordinator {
	return &fakeCoordinator{backend: storage.NewText()}
}

func (c *fakeCoordinator) Register(s *saveable.Saveable) {
	s.OnLoadRequest(c.backend)
}

func (c *fakeCoordinator) Unregister(s *saveable.Saveable, flushOnRemove bool) {
	if flushOnRemove {
		s.OnSaveRequest(c.backend)
	}
}

func (c *fakeCoordinator) RequestReload(s *saveable.Saveable) {
	s.OnLoadRequest(c.backend)
}

func (c *fakeCoordinator) WipeSaveable(s *saveable.Saveable) {
	s.WipeData(c.backend, true)
}
