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

package xsync

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	m := NewMap[int, string]()
	m.Set(0, "Slot0.savegame")
	require.True(t, m.SetIfAbsent(1, "Slot1.savegame"))
	require.False(t, m.SetIfAbsent(1, "other"))

	val, ok := m.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Slot1.savegame", val)
	assert.True(t, m.Has(0))
	assert.Equal(t, 2, m.Len())

	keys := m.Keys()
	sort.Ints(keys)
	assert.Equal(t, []int{0, 1}, keys)

	snapshot := m.Snapshot()
	snapshot[5] = "mutated"
	assert.False(t, m.Has(5))

	m.Delete(0)
	assert.False(t, m.Has(0))

	m.Replace(map[int]string{7: "Slot7.savegame"})
	assert.Equal(t, 1, m.Len())
	assert.True(t, m.Has(7))

	m.Reset()
	assert.Zero(t, m.Len())
}

func TestMapConcurrentAccess(t *testing.T) {
	m := NewMap[int, int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Set(i, i*i)
			_, _ = m.Get(i)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, m.Len())
}
