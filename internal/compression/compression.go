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

package compression

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// Codec identifies a body compression algorithm. The values are persisted.
type Codec byte

const (
	// Zstd is the Zstandard codec
	Zstd Codec = iota
	// Brotli is the Brotli codec
	Brotli
	// None stores the body uncompressed
	None
)

// brotli level used on write
const brotliLevel = brotli.DefaultCompression

var zstdEncodersPool = sync.Pool{
	New: func() any {
		enc, _ := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderConcurrency(1))
		return enc
	},
}

var brotliWritersPool = sync.Pool{
	New: func() any {
		return brotli.NewWriterLevel(nil, brotliLevel)
	},
}

func zstdEncoder() (*zstd.Encoder, error) {
	enc, ok := zstdEncodersPool.Get().(*zstd.Encoder)
	if !ok || enc == nil {
		return zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	}
	return enc, nil
}

// Compress encodes raw with codec
func Compress(codec Codec, raw []byte) ([]byte, error) {
	switch codec {
	case None:
		return raw, nil
	case Zstd:
		enc, err := zstdEncoder()
		if err != nil {
			return nil, err
		}
		out := enc.EncodeAll(raw, nil)
		zstdEncodersPool.Put(enc)
		return out, nil
	case Brotli:
		var buf bytes.Buffer
		writer := brotliWritersPool.Get().(*brotli.Writer)
		writer.Reset(&buf)
		defer func() {
			writer.Reset(nil)
			brotliWritersPool.Put(writer)
		}()
		if _, err := writer.Write(raw); err != nil {
			return nil, err
		}
		if err := writer.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported codec %d", codec)
	}
}

// Decompress decodes body with codec
func Decompress(codec Codec, body []byte) ([]byte, error) {
	switch codec {
	case None:
		return body, nil
	case Zstd:
		// zstd.Decoder cannot be re-used after close
		dec, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxMemory(64<<20))
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(body, nil)
	case Brotli:
		return io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
	default:
		return nil, fmt.Errorf("unsupported codec %d", codec)
	}
}
