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

package coordinator

import (
	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/tochemey/savekit/saveable"
)

// Option is the interface that applies a Coordinator option.
type Option interface {
	// Apply sets the Option value of a Coordinator.
	Apply(c *Coordinator)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Coordinator)

// Apply applies the option
func (f OptionFunc) Apply(c *Coordinator) {
	f(c)
}

// WithMeterProvider sets the meter provider of the save instruments.
// The global provider is used otherwise.
func WithMeterProvider(provider otelmetric.MeterProvider) Option {
	return OptionFunc(func(c *Coordinator) {
		c.meterProvider = provider
	})
}

// WithClock sets the tick clock shared with the registries
func WithClock(clock *saveable.TickClock) Option {
	return OptionFunc(func(c *Coordinator) {
		if clock != nil {
			c.clock = clock
		}
	})
}

// WithLoadedSet sets the process loaded set
func WithLoadedSet(loaded *saveable.LoadedSet) Option {
	return OptionFunc(func(c *Coordinator) {
		if loaded != nil {
			c.loaded = loaded
		}
	})
}
