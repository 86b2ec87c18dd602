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

import "go.uber.org/atomic"

// GraceTicks is how many ticks after a Disable a registry keeps saving
// when it is not configured to save while disabled
const GraceTicks = 1

// Clock returns the current scheduling tick
type Clock interface {
	Tick() uint64
}

// TickClock is a Clock advanced explicitly by the host loop
type TickClock struct {
	tick *atomic.Uint64
}

var _ Clock = (*TickClock)(nil)

// NewTickClock creates a clock at tick zero
func NewTickClock() *TickClock {
	return &TickClock{tick: atomic.NewUint64(0)}
}

// Tick returns the current tick
func (c *TickClock) Tick() uint64 {
	return c.tick.Load()
}

// Advance moves to the next tick and returns it
func (c *TickClock) Advance() uint64 {
	return c.tick.Inc()
}
