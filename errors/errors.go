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

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrCorruptFile is returned when a save file header matches no known storage format,
	// or when its content fails integrity checks. It is never treated as an empty save.
	ErrCorruptFile = errors.New("save file is corrupted or of unknown format")

	// ErrFormatMismatch is returned when the detected on-disk format differs from the
	// configured native format and the validation policy refuses to load it.
	ErrFormatMismatch = errors.New("save file format does not match the native format")

	// ErrNoConverter is returned when no conversion path exists between two formats.
	ErrNoConverter = errors.New("no converter available between storage formats")

	// ErrUnknownFormat is returned when a storage format is not recognized.
	ErrUnknownFormat = errors.New("unknown storage format")

	// ErrInvalidSlot is returned for negative slot numbers other than the temporary slot.
	ErrInvalidSlot = errors.New("invalid save slot")

	// ErrEmptyFileName is returned when a named write is requested without a file name.
	ErrEmptyFileName = errors.New("save file name is empty")

	// ErrIdentifierCollision indicates that two participants resolve to the same composite identifier.
	ErrIdentifierCollision = errors.New("identifier collision")

	// ErrIdentifierExhausted is returned when no unique identifier could be generated
	// within the allowed number of attempts.
	ErrIdentifierExhausted = errors.New("unable to generate a unique identifier")

	// ErrInvalidConfig is returned when the configuration fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNoActiveSave is returned when an operation requires an active save and none is bound.
	ErrNoActiveSave = errors.New("no active save")

	// ErrNoFactory is returned when an instance manager is created without a factory.
	ErrNoFactory = errors.New("instance factory is required")

	// ErrChecksumMismatch is returned when a binary save body does not match its checksum.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// NewErrCorruptFile wraps a cause with ErrCorruptFile and the offending path
func NewErrCorruptFile(path string, err error) error {
	if err == nil {
		return fmt.Errorf("file=(%s) %w", path, ErrCorruptFile)
	}
	return fmt.Errorf("file=(%s) %w: %w", path, ErrCorruptFile, err)
}

// NewErrInvalidSlot wraps ErrInvalidSlot with the offending slot number
func NewErrInvalidSlot(slot int) error {
	return fmt.Errorf("slot=(%d) %w", slot, ErrInvalidSlot)
}

// NewErrIdentifierCollision wraps ErrIdentifierCollision with the colliding identifier
func NewErrIdentifierCollision(identifier string) error {
	return fmt.Errorf("identifier=(%s) %w", identifier, ErrIdentifierCollision)
}

// NewErrInvalidConfig wraps configuration violations with ErrInvalidConfig
func NewErrInvalidConfig(err error) error {
	return errors.Join(ErrInvalidConfig, err)
}

// FormatMismatchError carries the detected and the configured format names.
// errors.Is(err, ErrFormatMismatch) holds for it.
type FormatMismatchError struct {
	Detected string
	Native   string
}

// enforce compilation error
var _ error = (*FormatMismatchError)(nil)

// NewFormatMismatchError creates an instance of FormatMismatchError
func NewFormatMismatchError(detected, native string) *FormatMismatchError {
	return &FormatMismatchError{Detected: detected, Native: native}
}

// Error implements the standard error interface
func (e *FormatMismatchError) Error() string {
	return fmt.Sprintf("%s: detected=(%s) native=(%s)", ErrFormatMismatch.Error(), e.Detected, e.Native)
}

// Is reports whether target is ErrFormatMismatch
func (e *FormatMismatchError) Is(target error) bool {
	return target == ErrFormatMismatch
}
