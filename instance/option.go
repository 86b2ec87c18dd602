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
	"github.com/tochemey/savekit/log"
	"github.com/tochemey/savekit/saveable"
)

// Option is the interface that applies a Manager option.
type Option interface {
	// Apply sets the Option value of a Manager.
	Apply(m *Manager)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Manager)

// Apply applies the option
func (f OptionFunc) Apply(m *Manager) {
	f(m)
}

// WithCoordinator sets the coordinator of the manager and of every spawned registry
func WithCoordinator(coordinator Coordinator) Option {
	return OptionFunc(func(m *Manager) {
		m.coordinator = coordinator
	})
}

// WithClock sets the clock shared with the spawned registries
func WithClock(clock saveable.Clock) Option {
	return OptionFunc(func(m *Manager) {
		if clock != nil {
			m.clock = clock
		}
	})
}

// WithLoadedSet sets the loaded set shared with the spawned registries
func WithLoadedSet(loaded *saveable.LoadedSet) Option {
	return OptionFunc(func(m *Manager) {
		if loaded != nil {
			m.loaded = loaded
		}
	})
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	})
}

// WithIdentifierLength sets the length of the suffix of generated instance identifiers
func WithIdentifierLength(length int) Option {
	return OptionFunc(func(m *Manager) {
		if length > 0 {
			m.idLength = length
		}
	})
}
