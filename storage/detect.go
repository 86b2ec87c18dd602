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
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	gerrors "github.com/tochemey/savekit/errors"
)

// HeaderSize is the number of leading bytes scanned for a format signature
const HeaderSize = 16

// bbolt writes its meta page magic right after the 16 bytes page header.
// The embedded signature is the only one read past HeaderSize.
const (
	embeddedMagic       uint32 = 0xED0CDAED
	embeddedMagicOffset        = 16
	sniffSize                  = embeddedMagicOffset + 4
)

var (
	binarySignature = []byte("binary")
	textSignature   = []byte("{")
)

// Sniff matches the leading bytes of a save file against the known signatures.
// The embedded database signature wins over binary which wins over text.
func Sniff(header []byte) (Format, bool) {
	if isEmbedded(header) {
		return FormatEmbedded, true
	}

	window := header
	if len(window) > HeaderSize {
		window = window[:HeaderSize]
	}

	switch {
	case bytes.Contains(window, binarySignature):
		return FormatBinary, true
	case bytes.Contains(window, textSignature):
		return FormatText, true
	default:
		return 0, false
	}
}

func isEmbedded(header []byte) bool {
	if len(header) < sniffSize {
		return false
	}
	magic := header[embeddedMagicOffset:sniffSize]
	return binary.LittleEndian.Uint32(magic) == embeddedMagic || binary.BigEndian.Uint32(magic) == embeddedMagic
}

// DetectFormat reads the header of the file at path and returns its format.
// A file matching no signature is reported as ErrCorruptFile.
func DetectFormat(path string) (Format, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open save file: %w", err)
	}
	defer file.Close()

	header := make([]byte, sniffSize)
	n, err := io.ReadFull(file, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("failed to read save file header: %w", err)
	}

	format, ok := Sniff(header[:n])
	if !ok {
		return 0, gerrors.NewErrCorruptFile(path, nil)
	}
	return format, nil
}
