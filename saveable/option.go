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

import "github.com/tochemey/savekit/log"

// Option is the interface that applies a Saveable option.
type Option interface {
	// Apply sets the Option value of a Saveable.
	Apply(s *Saveable)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Saveable)

// Apply applies the option
func (f OptionFunc) Apply(s *Saveable) {
	f(s)
}

// WithScene sets the scene tag written with every payload
func WithScene(scene string) Option {
	return OptionFunc(func(s *Saveable) {
		s.scene = scene
	})
}

// WithCoordinator sets the coordinator the registry registers with on Activate
func WithCoordinator(coordinator Coordinator) Option {
	return OptionFunc(func(s *Saveable) {
		s.coordinator = coordinator
	})
}

// WithClock sets the clock driving the disable grace window
func WithClock(clock Clock) Option {
	return OptionFunc(func(s *Saveable) {
		if clock != nil {
			s.clock = clock
		}
	})
}

// WithLoadedSet sets the set recording applied payloads
func WithLoadedSet(loaded *LoadedSet) Option {
	return OptionFunc(func(s *Saveable) {
		if loaded != nil {
			s.loaded = loaded
		}
	})
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(s *Saveable) {
		if logger != nil {
			s.logger = logger
		}
	})
}

// WithLoadOnce prevents the registry from loading more than once
// until its state is reset
func WithLoadOnce() Option {
	return OptionFunc(func(s *Saveable) {
		s.loadOnce = true
	})
}

// WithManualSaveLoad keeps the registry out of the coordinator fan-out
func WithManualSaveLoad() Option {
	return OptionFunc(func(s *Saveable) {
		s.manualSaveLoad = true
	})
}

// WithSaveWhenDisabled sets whether a disabled registry keeps saving. Defaults to true.
func WithSaveWhenDisabled(enabled bool) Option {
	return OptionFunc(func(s *Saveable) {
		s.saveWhenDisabled = enabled
	})
}

// WithDeactivateWhenInitialized disables the registry right after activation
func WithDeactivateWhenInitialized() Option {
	return OptionFunc(func(s *Saveable) {
		s.deactivateWhenInitialized = true
	})
}

// WithParticipant adds an authored participant under a persisted component key
func WithParticipant(key string, participant Participant) Option {
	return OptionFunc(func(s *Saveable) {
		s.upsert(key, participant)
	})
}
