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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/savekit/errors"
)

type cycleCounter interface {
	LoadCycles() int
	WriteCycles() int
}

func newBackends(t *testing.T) map[Format]Backend {
	t.Helper()
	out := make(map[Format]Backend, len(Formats))
	for _, format := range Formats {
		backend, err := New(format)
		require.NoError(t, err)
		require.Equal(t, format, backend.Format())
		out[format] = backend
	}
	return out
}

func TestFormat(t *testing.T) {
	for _, format := range Formats {
		parsed, err := ParseFormat(format.String())
		require.NoError(t, err)
		assert.Equal(t, format, parsed)
	}

	parsed, err := ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, FormatText, parsed)

	_, err = ParseFormat("sqlite3")
	require.ErrorIs(t, err, gerrors.ErrUnknownFormat)

	_, err = New(Format(42))
	require.ErrorIs(t, err, gerrors.ErrUnknownFormat)
	assert.Equal(t, "format(42)", Format(42).String())
}

func TestCompression(t *testing.T) {
	for _, name := range []string{"zstd", "brotli", "none"} {
		compression, err := ParseCompression(name)
		require.NoError(t, err)
		assert.Equal(t, name, compression.String())
	}
	_, err := ParseCompression("lz4")
	require.Error(t, err)
}

func TestBackendKeyedStore(t *testing.T) {
	for format, backend := range newBackends(t) {
		t.Run(format.String(), func(t *testing.T) {
			backend.Set("Hero-HP", "100", "Farm")
			assert.Equal(t, "100", backend.Get("Hero-HP"))

			backend.Set("Hero-HP", "90", "Farm")
			assert.Equal(t, "90", backend.Get("Hero-HP"))
			assert.Equal(t, 1, backend.Len())

			backend.Remove("Hero-HP")
			assert.Empty(t, backend.Get("Hero-HP"))
			assert.Zero(t, backend.Len())

			backend.Remove("missing")
			assert.Empty(t, backend.Get("missing"))

			backend.Set("", "ignored", "Farm")
			assert.Zero(t, backend.Len())
		})
	}
}

func TestBackendWipeSceneData(t *testing.T) {
	for format, backend := range newBackends(t) {
		t.Run(format.String(), func(t *testing.T) {
			backend.Set("a-1", "1", "Farm")
			backend.Set("b-1", "2", "Town")
			backend.Set("c-1", "3", "Farm")
			backend.Set("d-1", "4", "")
			// moves from Farm to Town
			backend.Set("c-1", "5", "Town")
			// moves from Town to Farm
			backend.Set("b-1", "6", "Farm")

			assert.Equal(t, []string{"Farm", "Town"}, backend.Scenes())
			assert.Equal(t, []string{"a-1", "b-1"}, backend.SceneKeys("Farm"))

			backend.WipeSceneData("Farm")
			assert.Empty(t, backend.Get("a-1"))
			assert.Empty(t, backend.Get("b-1"))
			assert.Equal(t, "5", backend.Get("c-1"))
			assert.Equal(t, "4", backend.Get("d-1"))
			assert.Equal(t, []string{"Town"}, backend.Scenes())

			backend.WipeSceneData("Unknown")
			backend.WipeSceneData("")
			assert.Equal(t, 2, backend.Len())
		})
	}
}

func TestBackendWipeSceneInterleavings(t *testing.T) {
	scenes := []string{"Farm", "Town", "Mine"}
	for format, backend := range newBackends(t) {
		t.Run(format.String(), func(t *testing.T) {
			owner := make(map[string]string)
			for i := range 60 {
				key := fmt.Sprintf("obj%d-c", i%17)
				scene := scenes[(i*7)%len(scenes)]
				backend.Set(key, fmt.Sprint(i), scene)
				owner[key] = scene
			}

			backend.WipeSceneData("Town")
			for key, scene := range owner {
				if scene == "Town" {
					assert.Empty(t, backend.Get(key), key)
					continue
				}
				assert.NotEmpty(t, backend.Get(key), key)
			}
		})
	}
}

func TestBackendMetaData(t *testing.T) {
	for format, backend := range newBackends(t) {
		t.Run(format.String(), func(t *testing.T) {
			_, ok := backend.GetMetaData("summary")
			require.False(t, ok)

			backend.SetMetaData("summary", `{"day":3}`)
			value, ok := backend.GetMetaData("summary")
			require.True(t, ok)
			assert.Equal(t, `{"day":3}`, value)

			meta := backend.MetaData()
			meta["summary"] = "mutated"
			value, _ = backend.GetMetaData("summary")
			assert.Equal(t, `{"day":3}`, value)

			backend.SetFileName("SaveGame0")
			assert.Equal(t, "SaveGame0", backend.FileName())
		})
	}
}

func TestBackendPersistence(t *testing.T) {
	for format, backend := range newBackends(t) {
		t.Run(format.String(), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "SaveGame0.savegame")
			backend.Set("Hero-HP", "100", "Farm")
			backend.Set("Chest-Items", `["sword","shield"]`, "Town")
			backend.Set("Global-Volume", "0.5", "")
			backend.SetMetaData("playtime", "3600")
			backend.SetFileName("SaveGame0")

			backend.OnBeforeWrite()
			require.NoError(t, backend.WriteSaveFile(path))

			detected, err := DetectFormat(path)
			require.NoError(t, err)
			require.Equal(t, format, detected)

			reloaded, err := New(format)
			require.NoError(t, err)
			require.NoError(t, reloaded.ReadSaveFromPath(path))
			reloaded.OnAfterLoad()

			assert.Equal(t, backend.Entries(), reloaded.Entries())
			assert.Equal(t, backend.MetaData(), reloaded.MetaData())
			assert.Equal(t, "SaveGame0", reloaded.FileName())

			counter, ok := reloaded.(cycleCounter)
			require.True(t, ok)
			assert.Equal(t, 1, counter.LoadCycles())
			assert.Zero(t, counter.WriteCycles())

			reloaded.WipeSceneData("Farm")
			assert.Empty(t, reloaded.Get("Hero-HP"))
			assert.Equal(t, "0.5", reloaded.Get("Global-Volume"))
		})
	}
}

func TestBackendRewriteDropsRemovedKeys(t *testing.T) {
	for format, backend := range newBackends(t) {
		t.Run(format.String(), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "SaveGame1.savegame")
			backend.Set("a-1", "1", "Farm")
			backend.Set("b-1", "2", "Farm")
			require.NoError(t, backend.WriteSaveFile(path))

			backend.Remove("a-1")
			require.NoError(t, backend.WriteSaveFile(path))

			reloaded, err := Open(path)
			require.NoError(t, err)
			assert.Equal(t, []string{"b-1"}, reloaded.Keys())
			assert.Equal(t, []string{"b-1"}, reloaded.SceneKeys("Farm"))
		})
	}
}

func TestBinaryCompression(t *testing.T) {
	for _, compression := range []Compression{CompressionZstd, CompressionBrotli, CompressionNone} {
		t.Run(compression.String(), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "save.bin")
			backend := NewBinary(WithCompression(compression))
			require.Equal(t, compression, backend.Compression())
			backend.Set("Hero-HP", "100", "Farm")
			require.NoError(t, backend.WriteSaveFile(path))

			reloaded := NewBinary()
			require.NoError(t, reloaded.ReadSaveFromPath(path))
			assert.Equal(t, "100", reloaded.Get("Hero-HP"))
		})
	}
}

func TestBinaryChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.bin")
	backend := NewBinary()
	backend.Set("Hero-HP", "100", "Farm")
	require.NoError(t, backend.WriteSaveFile(path))

	bytea, err := os.ReadFile(path)
	require.NoError(t, err)
	bytea[len(bytea)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(path, bytea, 0o600))

	err = NewBinary().ReadSaveFromPath(path)
	require.ErrorIs(t, err, gerrors.ErrCorruptFile)
	require.ErrorIs(t, err, gerrors.ErrChecksumMismatch)
}

func TestBinaryTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.bin")
	require.NoError(t, os.WriteFile(path, []byte("SAVEGAME binary"), 0o600))
	err := NewBinary().ReadSaveFromPath(path)
	require.ErrorIs(t, err, gerrors.ErrCorruptFile)
}

func TestTextRejectsGarbage(t *testing.T) {
	dir := t.TempDir()

	invalid := filepath.Join(dir, "invalid.savegame")
	require.NoError(t, os.WriteFile(invalid, []byte("{not json"), 0o600))
	require.ErrorIs(t, NewText().ReadSaveFromPath(invalid), gerrors.ErrCorruptFile)

	foreign := filepath.Join(dir, "foreign.savegame")
	require.NoError(t, os.WriteFile(foreign, []byte(`{"format":"other"}`), 0o600))
	require.ErrorIs(t, NewText().ReadSaveFromPath(foreign), gerrors.ErrCorruptFile)
}

func TestReadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.savegame")
	for format, backend := range newBackends(t) {
		t.Run(format.String(), func(t *testing.T) {
			err := backend.ReadSaveFromPath(path)
			require.ErrorIs(t, err, os.ErrNotExist)
		})
	}
}

func TestLifecycleCounters(t *testing.T) {
	backend := NewText()
	backend.OnBeforeWrite()
	backend.OnBeforeWrite()
	backend.OnAfterLoad()
	assert.Equal(t, 2, backend.WriteCycles())
	assert.Equal(t, 1, backend.LoadCycles())
}
