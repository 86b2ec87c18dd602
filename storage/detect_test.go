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
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/savekit/errors"
)

func TestSniff(t *testing.T) {
	embeddedLE := make([]byte, sniffSize)
	binary.LittleEndian.PutUint32(embeddedLE[embeddedMagicOffset:], embeddedMagic)
	embeddedBE := make([]byte, sniffSize)
	binary.BigEndian.PutUint32(embeddedBE[embeddedMagicOffset:], embeddedMagic)

	testCases := []struct {
		name   string
		header []byte
		format Format
		ok     bool
	}{
		{name: "text", header: []byte(`{"format":"text"`), format: FormatText, ok: true},
		{name: "indented text", header: []byte("\n\n  {\n"), format: FormatText, ok: true},
		{name: "binary", header: []byte("SAVEGAME binary\x01"), format: FormatBinary, ok: true},
		{name: "binary wins over text", header: []byte("{binary"), format: FormatBinary, ok: true},
		{name: "embedded little endian", header: embeddedLE, format: FormatEmbedded, ok: true},
		{name: "embedded big endian", header: embeddedBE, format: FormatEmbedded, ok: true},
		{name: "signature beyond window", header: []byte("0123456789abcdef{"), ok: false},
		{name: "garbage", header: []byte("garbage bytes..."), ok: false},
		{name: "empty", header: nil, ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			format, ok := Sniff(tc.header)
			require.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.format, format)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := DetectFormat(filepath.Join(dir, "missing"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("empty file is corrupt", func(t *testing.T) {
		path := filepath.Join(dir, "empty")
		require.NoError(t, os.WriteFile(path, nil, 0o600))
		_, err := DetectFormat(path)
		require.ErrorIs(t, err, gerrors.ErrCorruptFile)
	})

	t.Run("garbage is corrupt", func(t *testing.T) {
		path := filepath.Join(dir, "garbage")
		require.NoError(t, os.WriteFile(path, []byte("this is not a save file at all"), 0o600))
		_, err := DetectFormat(path)
		require.ErrorIs(t, err, gerrors.ErrCorruptFile)
	})

	t.Run("short text file", func(t *testing.T) {
		path := filepath.Join(dir, "short")
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
		format, err := DetectFormat(path)
		require.NoError(t, err)
		assert.Equal(t, FormatText, format)
	})
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage")
	require.NoError(t, os.WriteFile(path, []byte("garbage garbage garbage"), 0o600))
	_, err := Open(path)
	require.ErrorIs(t, err, gerrors.ErrCorruptFile)
}
