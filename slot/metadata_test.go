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

package slot

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/savekit/storage"
)

func TestMetaData(t *testing.T) {
	manager := newManager(t, t.TempDir())

	t.Run("missing sidecar", func(t *testing.T) {
		_, ok, err := manager.LoadMetaData(0, "summary")
		require.NoError(t, err)
		assert.False(t, ok)

		all, err := manager.MetaData(0)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("mirrored on write", func(t *testing.T) {
		backend := storage.NewBinary()
		backend.SetMetaData("summary", `{"day":3,"gold":120}`)
		backend.SetMetaData("player.name", "Ada")
		require.NoError(t, manager.Write(backend, 0))

		value, ok, err := manager.LoadMetaData(0, "summary")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, `{"day":3,"gold":120}`, value)

		value, ok, err = manager.LoadMetaData(0, "player.name")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Ada", value)
	})

	t.Run("patched in place", func(t *testing.T) {
		require.NoError(t, manager.WriteMetaData(0, "playtime", "3600"))
		require.NoError(t, manager.WriteMetaData(0, "player.name", "Grace"))

		all, err := manager.MetaData(0)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"summary":     `{"day":3,"gold":120}`,
			"player.name": "Grace",
			"playtime":    "3600",
		}, all)
	})

	t.Run("sidecar without save file", func(t *testing.T) {
		require.NoError(t, manager.WriteMetaData(4, "note", "draft"))
		value, ok, err := manager.LoadMetaData(4, "note")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "draft", value)
	})

	t.Run("removed with the slot", func(t *testing.T) {
		path, err := manager.metaPath(0)
		require.NoError(t, err)
		require.NoError(t, manager.Delete(0))
		_, err = os.Stat(path)
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("removed when the table is empty", func(t *testing.T) {
		backend := storage.NewText()
		backend.SetMetaData("k", "v")
		require.NoError(t, manager.Write(backend, 1))
		path, err := manager.metaPath(1)
		require.NoError(t, err)
		_, err = os.Stat(path)
		require.NoError(t, err)

		require.NoError(t, manager.Write(storage.NewText(), 1))
		_, err = os.Stat(path)
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid slot", func(t *testing.T) {
		_, _, err := manager.LoadMetaData(-1, "k")
		require.Error(t, err)
	})
}
