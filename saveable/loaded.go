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

import goset "github.com/deckarep/golang-set/v2"

// LoadedSet records the composite identifiers whose payload has been applied
// since the last Reset. The host resets it once per boot, before any scene loads.
type LoadedSet struct {
	ids goset.Set[string]
}

// NewLoadedSet creates an empty LoadedSet
func NewLoadedSet() *LoadedSet {
	return &LoadedSet{ids: goset.NewSet[string]()}
}

// Add marks id as loaded
func (l *LoadedSet) Add(id string) {
	l.ids.Add(id)
}

// Contains reports whether the payload of id has been applied
func (l *LoadedSet) Contains(id string) bool {
	return l.ids.Contains(id)
}

// Remove forgets id
func (l *LoadedSet) Remove(id string) {
	l.ids.Remove(id)
}

// Len returns the number of loaded identifiers
func (l *LoadedSet) Len() int {
	return l.ids.Cardinality()
}

// Reset forgets every identifier
func (l *LoadedSet) Reset() {
	l.ids.Clear()
}
