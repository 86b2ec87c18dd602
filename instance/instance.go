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

	"github.com/tochemey/savekit/log"
	"github.com/tochemey/savekit/saveable"
)

// Instance wraps one spawned object and its registry.
// By default an instance that goes away wipes its save data.
type Instance struct {
	mu sync.Mutex

	id          string
	info        SpawnInfo
	handle      Handle
	registry    *saveable.Saveable
	coordinator Coordinator
	clock       saveable.Clock
	logger      log.Logger
	forget      func(Handle)

	removeData  bool
	disabled    bool
	disableTick uint64
	gone        bool
}

// ID returns the save identification of the instance
func (i *Instance) ID() string {
	return i.id
}

// SpawnInfo returns how the instance was spawned
func (i *Instance) SpawnInfo() SpawnInfo {
	return i.info
}

// Handle returns the handle of the instance within its manager
func (i *Instance) Handle() Handle {
	return i.handle
}

// Saveable returns the registry of the instance
func (i *Instance) Saveable() *saveable.Saveable {
	return i.registry
}

// IsDestroyed reports whether the instance went away
func (i *Instance) IsDestroyed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.gone
}

// Enable marks the object active
func (i *Instance) Enable() {
	i.mu.Lock()
	i.disabled = false
	i.mu.Unlock()
	i.registry.Enable()
}

// Disable marks the object inactive
func (i *Instance) Disable() {
	i.mu.Lock()
	i.disabled = true
	i.disableTick = i.clock.Tick()
	i.mu.Unlock()
	i.registry.Disable()
}

// DontSaveInstance reports whether the instance is left out of the spawn list:
// it has been disabled for longer than the grace window and does not save when disabled
func (i *Instance) DontSaveInstance() bool {
	if i.registry.SaveWhenDisabled() {
		return false
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.disabled {
		return false
	}
	now := i.clock.Tick()
	return now > i.disableTick && now-i.disableTick > saveable.GraceTicks
}

// Destroy despawns the object and keeps its save data.
// The registry flushes its state and leaves the coordinator, so the instance
// respawns the next time its spawn list loads.
func (i *Instance) Destroy() {
	i.mu.Lock()
	if i.gone {
		i.mu.Unlock()
		return
	}
	i.gone = true
	i.removeData = false
	i.mu.Unlock()

	i.registry.SetManualSaveLoad(true)
	if i.coordinator != nil {
		i.coordinator.Unregister(i.registry, true)
	}
	i.registry.Destroy()
}

// HandleDestroyed tears the instance down after the object went away without a
// call to Destroy. Save data is wiped and the manager forgets the instance, except
// on scene teardown or when a disabled object does not save when disabled.
func (i *Instance) HandleDestroyed(cause Cause) {
	i.mu.Lock()
	if i.gone {
		i.mu.Unlock()
		return
	}
	i.gone = true
	removeData := i.removeData
	disabled := i.disabled
	i.mu.Unlock()

	defer i.registry.Destroy()

	if cause == CauseSceneTeardown || !removeData {
		return
	}

	if disabled && !i.registry.SaveWhenDisabled() {
		i.logger.Debugf("instance %s was disabled, keeping its data", i.id)
		return
	}

	if i.coordinator != nil {
		i.coordinator.WipeSaveable(i.registry)
	} else {
		i.registry.WipeData(nil, true)
	}

	if i.forget != nil {
		i.forget(i.handle)
	}
	i.logger.Debugf("instance %s %s, data wiped", i.id, cause)
}
