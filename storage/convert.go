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

	gerrors "github.com/tochemey/savekit/errors"
)

// Convert re-materializes src as a backend of format to. Every entry, its scene
// and the metadata table are deep copied. Converting to the same format returns src.
func Convert(src Backend, to Format, opts ...Option) (Backend, error) {
	if src.Format() == to {
		return src, nil
	}

	converter, ok := src.(Converter)
	if !ok {
		return nil, fmt.Errorf("%s to %s: %w", src.Format(), to, gerrors.ErrNoConverter)
	}

	return converter.ConvertTo(to, opts...)
}

// Open detects the format of the file at path and reads it with the matching backend
func Open(path string, opts ...Option) (Backend, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	backend, err := New(format, opts...)
	if err != nil {
		return nil, err
	}

	if err := backend.ReadSaveFromPath(path); err != nil {
		return nil, err
	}

	backend.OnAfterLoad()
	return backend, nil
}
