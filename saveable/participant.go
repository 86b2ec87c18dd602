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

// Participant is a unit of state that can be written to and restored from a save.
// Implementations are supplied by the application.
type Participant interface {
	// Serialize returns the payload to store. An empty payload is not written.
	Serialize() string
	// Deserialize restores the state from a payload previously returned by Serialize
	Deserialize(payload string)
	// ShouldSave reports whether the participant has something to save.
	// It is bypassed once after a state reset.
	ShouldSave() bool
}

// Staler is implemented by participants whose underlying object can go away.
// Stale participants are dropped from their registry on the next save or load.
type Staler interface {
	Stale() bool
}

// TypeNamer overrides the type name used to derive dynamic component keys
type TypeNamer interface {
	SaveTypeName() string
}

// Coordinator fans out save and load requests to registries
type Coordinator interface {
	// Register adds a registry to the fan-out
	Register(s *Saveable)
	// Unregister removes a registry. When flushOnRemove is set its state
	// is saved one last time into the active save.
	Unregister(s *Saveable, flushOnRemove bool)
	// RequestReload loads a single registry from the active save
	RequestReload(s *Saveable)
}

// isStale reports whether p should be pruned
func isStale(p Participant) bool {
	if p == nil {
		return true
	}
	if staler, ok := p.(Staler); ok {
		return staler.Stale()
	}
	return false
}
