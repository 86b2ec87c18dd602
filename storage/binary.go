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
	"fmt"
	"maps"
	"os"
	"slices"

	"google.golang.org/protobuf/encoding/protowire"

	gerrors "github.com/tochemey/savekit/errors"
	"github.com/tochemey/savekit/hash"
	"github.com/tochemey/savekit/internal/compression"
)

const (
	binaryVersion = 1

	// binary layout: magic(15) version(1) codec(1) checksum(8) body
	binaryCodecOffset    = HeaderSize
	binaryChecksumOffset = binaryCodecOffset + 1
	binaryBodyOffset     = binaryChecksumOffset + 8
)

const (
	fieldFileName protowire.Number = 1
	fieldEntry    protowire.Number = 2
	fieldMetaData protowire.Number = 3

	fieldEntryKey     protowire.Number = 1
	fieldEntryPayload protowire.Number = 2
	fieldEntryScene   protowire.Number = 3

	fieldMetaKey   protowire.Number = 1
	fieldMetaValue protowire.Number = 2
)

var binaryMagic = []byte("SAVEGAME binary")

// Binary is the compact backend: a fixed header, a codec byte, a checksum
// and a compressed stream of protobuf wire records.
type Binary struct {
	*table
	compression Compression
	hasher      hash.Hasher
}

var (
	_ Backend   = (*Binary)(nil)
	_ Converter = (*Binary)(nil)
)

// NewBinary creates an empty binary backend
func NewBinary(opts ...Option) *Binary {
	return newBinary(newOptions(opts...))
}

func newBinary(o *options) *Binary {
	return &Binary{
		table:       newTable(),
		compression: o.compression,
		hasher:      o.hasher,
	}
}

// Format returns FormatBinary
func (x *Binary) Format() Format {
	return FormatBinary
}

// Compression returns the codec used on write
func (x *Binary) Compression() Compression {
	return x.compression
}

// ReadSaveFromPath replaces the backend content with the binary file at path
func (x *Binary) ReadSaveFromPath(path string) error {
	bytea, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if len(bytea) < binaryBodyOffset || !bytes.HasPrefix(bytea, binaryMagic) {
		return gerrors.NewErrCorruptFile(path, fmt.Errorf("missing binary header"))
	}

	if version := bytea[len(binaryMagic)]; version != binaryVersion {
		return gerrors.NewErrCorruptFile(path, fmt.Errorf("unsupported binary version %d", version))
	}

	codec := Compression(bytea[binaryCodecOffset])
	checksum := bytea[binaryChecksumOffset:binaryBodyOffset]
	body := bytea[binaryBodyOffset:]
	if !bytes.Equal(checksum, hash.Checksum(x.hasher, body)) {
		return gerrors.NewErrCorruptFile(path, gerrors.ErrChecksumMismatch)
	}

	raw, err := compression.Decompress(compression.Codec(codec), body)
	if err != nil {
		return gerrors.NewErrCorruptFile(path, err)
	}

	fileName, entries, metadata, err := decodeRecords(raw)
	if err != nil {
		return gerrors.NewErrCorruptFile(path, err)
	}

	x.replace(fileName, entries, metadata)
	return nil
}

// WriteSaveFile writes the backend to path
func (x *Binary) WriteSaveFile(path string) error {
	raw := encodeRecords(x.FileName(), x.Entries(), x.MetaData())
	body, err := compression.Compress(compression.Codec(x.compression), raw)
	if err != nil {
		return err
	}

	out := make([]byte, 0, binaryBodyOffset+len(body))
	out = append(out, binaryMagic...)
	out = append(out, binaryVersion)
	out = append(out, byte(x.compression))
	out = append(out, hash.Checksum(x.hasher, body)...)
	out = append(out, body...)
	return os.WriteFile(path, out, fileMode)
}

// ConvertTo copies the content into a fresh backend of format
func (x *Binary) ConvertTo(format Format, opts ...Option) (Backend, error) {
	return convertTable(x.table, FormatBinary, format, opts...)
}

func encodeRecords(fileName string, entries []Entry, metadata map[string]string) []byte {
	var out []byte
	if fileName != "" {
		out = protowire.AppendTag(out, fieldFileName, protowire.BytesType)
		out = protowire.AppendString(out, fileName)
	}

	for _, entry := range entries {
		var rec []byte
		rec = appendString(rec, fieldEntryKey, entry.Key)
		rec = appendString(rec, fieldEntryPayload, entry.Payload)
		if entry.Scene != "" {
			rec = appendString(rec, fieldEntryScene, entry.Scene)
		}
		out = protowire.AppendTag(out, fieldEntry, protowire.BytesType)
		out = protowire.AppendBytes(out, rec)
	}

	for _, key := range slices.Sorted(maps.Keys(metadata)) {
		var rec []byte
		rec = appendString(rec, fieldMetaKey, key)
		rec = appendString(rec, fieldMetaValue, metadata[key])
		out = protowire.AppendTag(out, fieldMetaData, protowire.BytesType)
		out = protowire.AppendBytes(out, rec)
	}
	return out
}

func appendString(out []byte, num protowire.Number, value string) []byte {
	out = protowire.AppendTag(out, num, protowire.BytesType)
	return protowire.AppendString(out, value)
}

func decodeRecords(raw []byte) (string, []Entry, map[string]string, error) {
	var (
		fileName string
		entries  []Entry
		metadata = make(map[string]string)
	)

	err := consumeFields(raw, func(num protowire.Number, value []byte) error {
		switch num {
		case fieldFileName:
			fileName = string(value)
		case fieldEntry:
			var entry Entry
			if err := consumeFields(value, func(num protowire.Number, value []byte) error {
				switch num {
				case fieldEntryKey:
					entry.Key = string(value)
				case fieldEntryPayload:
					entry.Payload = string(value)
				case fieldEntryScene:
					entry.Scene = string(value)
				}
				return nil
			}); err != nil {
				return err
			}
			entries = append(entries, entry)
		case fieldMetaData:
			var key, val string
			if err := consumeFields(value, func(num protowire.Number, value []byte) error {
				switch num {
				case fieldMetaKey:
					key = string(value)
				case fieldMetaValue:
					val = string(value)
				}
				return nil
			}); err != nil {
				return err
			}
			metadata[key] = val
		}
		return nil
	})
	return fileName, entries, metadata, err
}

// consumeFields walks a wire record and hands every length-delimited field to fn.
// Fields of other wire types are skipped.
func consumeFields(raw []byte, fn func(num protowire.Number, value []byte) error) error {
	for len(raw) > 0 {
		num, typ, n := protowire.ConsumeTag(raw)
		if n < 0 {
			return protowire.ParseError(n)
		}
		raw = raw[n:]

		if typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, raw)
			if n < 0 {
				return protowire.ParseError(n)
			}
			raw = raw[n:]
			continue
		}

		value, n := protowire.ConsumeBytes(raw)
		if n < 0 {
			return protowire.ParseError(n)
		}
		raw = raw[n:]

		if err := fn(num, value); err != nil {
			return err
		}
	}
	return nil
}
