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
	"fmt"

	"github.com/tochemey/savekit/saveable"
)

// Source tells where the template of a spawned object comes from
type Source string

const (
	// SourceResource spawns from a resource addressed by its path
	SourceResource Source = "resource"
	// SourceCustom spawns through a caller defined source
	SourceCustom Source = "custom"
)

// SpawnInfo describes how to respawn an object
type SpawnInfo struct {
	Source       Source `json:"source"`
	SourceID     string `json:"sourceId"`
	Scene        string `json:"scene"`
	CustomSource string `json:"customSource,omitempty"`
}

// Handle addresses an instance within its Manager.
// A Handle is stale once the instance it addresses has been forgotten.
type Handle struct {
	index      uint32
	generation uint32
}

// IsZero reports whether the handle was never issued
func (h Handle) IsZero() bool {
	return h.generation == 0
}

// String returns the handle in <index>:<generation> form
func (h Handle) String() string {
	return fmt.Sprintf("%d:%d", h.index, h.generation)
}

// Factory builds the object described by info and attaches its
// participants to registry
type Factory interface {
	Build(info SpawnInfo, registry *saveable.Saveable) error
}

// FactoryFunc implements Factory
type FactoryFunc func(info SpawnInfo, registry *saveable.Saveable) error

var _ Factory = FactoryFunc(nil)

// Build calls f
func (f FactoryFunc) Build(info SpawnInfo, registry *saveable.Saveable) error {
	return f(info, registry)
}

// Coordinator is the coordinator the spawned registries register with.
// WipeSaveable removes the data of a registry from the active save.
type Coordinator interface {
	saveable.Coordinator
	WipeSaveable(s *saveable.Saveable)
}

// Cause tells why a spawned object went away
type Cause int

const (
	// CauseRemoved means game code destroyed the object
	CauseRemoved Cause = iota
	// CauseSceneTeardown means the object went away with its scene
	CauseSceneTeardown
)

// String returns the cause name
func (c Cause) String() string {
	switch c {
	case CauseRemoved:
		return "removed"
	case CauseSceneTeardown:
		return "scene-teardown"
	default:
		return fmt.Sprintf("cause(%d)", int(c))
	}
}
