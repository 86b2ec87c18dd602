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

package storage

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	goset "github.com/deckarep/golang-set/v2"

	gerrors "github.com/tochemey/savekit/errors"
)

type record struct {
	payload string
	scene   string
}

// table is the in-memory keyed store shared by every backend.
// Serialization is the only part that differs between formats.
type table struct {
	mu          sync.RWMutex
	fileName    string
	entries     map[string]record
	scenes      map[string]goset.Set[string]
	metadata    map[string]string
	loadCycles  int
	writeCycles int
}

func newTable() *table {
	return &table{
		entries:  make(map[string]record),
		scenes:   make(map[string]goset.Set[string]),
		metadata: make(map[string]string),
	}
}

// Get returns the payload stored under key, or an empty string
func (t *table) Get(key string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.entries[key].payload
}

// Set upserts payload under key. Empty keys are ignored.
func (t *table) Set(key, payload, scene string) {
	if key == "" {
		return
	}
	t.mu.Lock()
	t.set(key, payload, scene)
	t.mu.Unlock()
}

func (t *table) set(key, payload, scene string) {
	if previous, ok := t.entries[key]; ok && previous.scene != scene {
		t.unindex(key, previous.scene)
	}
	t.entries[key] = record{payload: payload, scene: scene}
	if scene == "" {
		return
	}
	keys, ok := t.scenes[scene]
	if !ok {
		keys = goset.NewThreadUnsafeSet[string]()
		t.scenes[scene] = keys
	}
	keys.Add(key)
}

func (t *table) unindex(key, scene string) {
	if scene == "" {
		return
	}
	if keys, ok := t.scenes[scene]; ok {
		keys.Remove(key)
	}
}

// Remove deletes key
func (t *table) Remove(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	previous, ok := t.entries[key]
	if !ok {
		return
	}
	delete(t.entries, key)
	t.unindex(key, previous.scene)
}

// WipeSceneData removes every key whose last write was tagged with scene
func (t *table) WipeSceneData(scene string) {
	if scene == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	keys, ok := t.scenes[scene]
	if !ok {
		return
	}
	for _, key := range keys.ToSlice() {
		if t.entries[key].scene == scene {
			delete(t.entries, key)
		}
	}
	delete(t.scenes, scene)
}

// GetMetaData returns a metadata value
func (t *table) GetMetaData(key string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	value, ok := t.metadata[key]
	return value, ok
}

// SetMetaData sets a metadata value. Empty keys are ignored.
func (t *table) SetMetaData(key, value string) {
	if key == "" {
		return
	}
	t.mu.Lock()
	t.metadata[key] = value
	t.mu.Unlock()
}

// MetaData returns a copy of the metadata table
func (t *table) MetaData() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return maps.Clone(t.metadata)
}

// SetFileName sets the diagnostic file name
func (t *table) SetFileName(name string) {
	t.mu.Lock()
	t.fileName = name
	t.mu.Unlock()
}

// FileName returns the diagnostic file name
func (t *table) FileName() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.fileName
}

// Keys returns the stored keys in lexical order
func (t *table) Keys() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Sorted(maps.Keys(t.entries))
}

// Scenes returns the scenes owning at least one key
func (t *table) Scenes() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	scenes := make([]string, 0, len(t.scenes))
	for scene, keys := range t.scenes {
		if keys.Cardinality() > 0 {
			scenes = append(scenes, scene)
		}
	}
	slices.Sort(scenes)
	return scenes
}

// SceneKeys returns the keys owned by scene in lexical order
func (t *table) SceneKeys(scene string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	keys, ok := t.scenes[scene]
	if !ok {
		return nil
	}
	out := keys.ToSlice()
	slices.Sort(out)
	return out
}

// Entries returns every entry in key order
func (t *table) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Entry, 0, len(t.entries))
	for key, rec := range t.entries {
		out = append(out, Entry{Key: key, Payload: rec.payload, Scene: rec.scene})
	}
	slices.SortFunc(out, func(a, b Entry) int {
		return strings.Compare(a.Key, b.Key)
	})
	return out
}

// Len returns the number of stored keys
func (t *table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// OnAfterLoad rebuilds the scene index from the entries
func (t *table) OnAfterLoad() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scenes = make(map[string]goset.Set[string])
	for key, rec := range t.entries {
		if rec.scene == "" {
			continue
		}
		keys, ok := t.scenes[rec.scene]
		if !ok {
			keys = goset.NewThreadUnsafeSet[string]()
			t.scenes[rec.scene] = keys
		}
		keys.Add(key)
	}
	t.loadCycles++
}

// OnBeforeWrite drops scene sets left empty by removals
func (t *table) OnBeforeWrite() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for scene, keys := range t.scenes {
		if keys.Cardinality() == 0 {
			delete(t.scenes, scene)
		}
	}
	t.writeCycles++
}

// LoadCycles returns how many times OnAfterLoad ran
func (t *table) LoadCycles() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loadCycles
}

// WriteCycles returns how many times OnBeforeWrite ran
func (t *table) WriteCycles() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.writeCycles
}

// replace swaps the whole content, as done by the readers
func (t *table) replace(fileName string, entries []Entry, metadata map[string]string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[string]record, len(entries))
	t.scenes = make(map[string]goset.Set[string])
	if metadata == nil {
		metadata = make(map[string]string)
	}
	t.metadata = metadata
	if fileName != "" {
		t.fileName = fileName
	}
	for _, entry := range entries {
		if entry.Key == "" {
			continue
		}
		t.set(entry.Key, entry.Payload, entry.Scene)
	}
}

// copyInto deep copies the content into another backend
func (t *table) copyInto(dst Backend) {
	for _, entry := range t.Entries() {
		dst.Set(entry.Key, entry.Payload, entry.Scene)
	}
	for key, value := range t.MetaData() {
		dst.SetMetaData(key, value)
	}
	dst.SetFileName(t.FileName())
}

// convertTable materializes the table as a fresh backend of format
func convertTable(t *table, from, to Format, opts ...Option) (Backend, error) {
	dst, err := New(to, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s to %s: %w: %w", from, to, gerrors.ErrNoConverter, err)
	}
	t.copyInto(dst)
	return dst, nil
}
