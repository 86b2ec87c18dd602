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
	"strings"

	gerrors "github.com/tochemey/savekit/errors"
	"github.com/tochemey/savekit/hash"
)

// Format identifies one of the interchangeable on-disk representations of a save
type Format int

const (
	// FormatText stores the save as a JSON document
	FormatText Format = iota
	// FormatBinary stores the save as a compressed, checksummed record stream
	FormatBinary
	// FormatEmbedded stores the save in an embedded bbolt database file
	FormatEmbedded
)

// Formats lists every supported format
var Formats = []Format{FormatText, FormatBinary, FormatEmbedded}

// String returns the format name
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatBinary:
		return "binary"
	case FormatEmbedded:
		return "embedded"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ParseFormat maps a format name to a Format
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "text", "json":
		return FormatText, nil
	case "binary", "bin":
		return FormatBinary, nil
	case "embedded", "embedded-db", "bbolt", "db":
		return FormatEmbedded, nil
	default:
		return 0, fmt.Errorf("format=(%s) %w", name, gerrors.ErrUnknownFormat)
	}
}

// Entry is one keyed payload together with the scene it was written under
type Entry struct {
	Key     string
	Payload string
	Scene   string
}

// Backend is a keyed string-blob store with scene tagging, a small metadata table,
// and a single-file serialization. A Backend is borrowed by registries for the
// duration of a save or load and never retained by them.
type Backend interface {
	// Format returns the on-disk format of the backend
	Format() Format
	// Get returns the payload stored under key, or an empty string
	Get(key string) string
	// Set upserts payload under key and records key under scene.
	// A key belongs to the scene of its last write.
	Set(key, payload, scene string)
	// Remove deletes key. Missing keys are ignored.
	Remove(key string)
	// WipeSceneData removes every key recorded under scene
	WipeSceneData(scene string)
	// GetMetaData returns a value of the out-of-band metadata table
	GetMetaData(key string) (string, bool)
	// SetMetaData sets a value of the out-of-band metadata table
	SetMetaData(key, value string)
	// MetaData returns a copy of the metadata table
	MetaData() map[string]string
	// ReadSaveFromPath replaces the backend content with the file at path
	ReadSaveFromPath(path string) error
	// WriteSaveFile serializes the backend to path
	WriteSaveFile(path string) error
	// OnAfterLoad runs once after a load, before any Get or Set
	OnAfterLoad()
	// OnBeforeWrite runs once before WriteSaveFile
	OnBeforeWrite()
	// SetFileName associates a logical name used in diagnostics
	SetFileName(name string)
	// FileName returns the logical name
	FileName() string
	// Keys returns every stored key in lexical order
	Keys() []string
	// Scenes returns every scene that owns at least one key
	Scenes() []string
	// SceneKeys returns the keys owned by scene
	SceneKeys(scene string) []string
	// Entries returns every entry in key order
	Entries() []Entry
	// Len returns the number of stored keys
	Len() int
}

// Converter is implemented by backends that can re-materialize themselves in another format
type Converter interface {
	ConvertTo(format Format, opts ...Option) (Backend, error)
}

// Compression selects how the binary format compresses its body.
// The values are written in the binary header and mirror compression.Codec.
type Compression int

const (
	// CompressionZstd compresses with Zstandard
	CompressionZstd Compression = iota
	// CompressionBrotli compresses with Brotli
	CompressionBrotli
	// CompressionNone stores the body as is
	CompressionNone
)

// String returns the compression name
func (c Compression) String() string {
	switch c {
	case CompressionZstd:
		return "zstd"
	case CompressionBrotli:
		return "brotli"
	case CompressionNone:
		return "none"
	default:
		return fmt.Sprintf("compression(%d)", int(c))
	}
}

// ParseCompression maps a compression name to a Compression
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "zstd", "":
		return CompressionZstd, nil
	case "brotli", "br":
		return CompressionBrotli, nil
	case "none":
		return CompressionNone, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", name)
	}
}

// Option configures a backend at creation time
type Option interface {
	// Apply sets the Option value of a config.
	Apply(*options)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*options)

// Apply applies the option
func (f OptionFunc) Apply(o *options) {
	f(o)
}

type options struct {
	compression Compression
	hasher      hash.Hasher
}

func newOptions(opts ...Option) *options {
	o := &options{
		compression: CompressionZstd,
		hasher:      hash.DefaultHasher(),
	}
	for _, opt := range opts {
		opt.Apply(o)
	}
	return o
}

// WithCompression sets the compression used by the binary format
func WithCompression(compression Compression) Option {
	return OptionFunc(func(o *options) {
		o.compression = compression
	})
}

// WithHasher sets the checksum hasher used by the binary format
func WithHasher(hasher hash.Hasher) Option {
	return OptionFunc(func(o *options) {
		if hasher != nil {
			o.hasher = hasher
		}
	})
}

// New creates an empty backend of the given format
func New(format Format, opts ...Option) (Backend, error) {
	o := newOptions(opts...)
	switch format {
	case FormatText:
		return NewText(), nil
	case FormatBinary:
		return newBinary(o), nil
	case FormatEmbedded:
		return NewEmbedded(), nil
	default:
		return nil, fmt.Errorf("format=(%s) %w", format, gerrors.ErrUnknownFormat)
	}
}
