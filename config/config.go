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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gerrors "github.com/tochemey/savekit/errors"
	"github.com/tochemey/savekit/internal/validation"
	"github.com/tochemey/savekit/log"
	"github.com/tochemey/savekit/storage"
)

// Validation decides what happens when a save file is not in the native format
type Validation int

const (
	// Strict refuses to load a mismatched file
	Strict Validation = iota
	// Convert loads with the detected backend and converts to the native format
	Convert
	// Replace discards the file content and persists an empty native save in its place
	Replace
	// Ignore reads the file with the native backend regardless of the mismatch
	Ignore
)

// String returns the policy name
func (v Validation) String() string {
	switch v {
	case Strict:
		return "strict"
	case Convert:
		return "convert"
	case Replace:
		return "replace"
	case Ignore:
		return "ignore"
	default:
		return fmt.Sprintf("validation(%d)", int(v))
	}
}

// ParseValidation maps a policy name to a Validation
func ParseValidation(name string) (Validation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "strict", "refuse":
		return Strict, nil
	case "convert", "":
		return Convert, nil
	case "replace":
		return Replace, nil
	case "ignore":
		return Ignore, nil
	default:
		return 0, fmt.Errorf("unknown validation policy %q", name)
	}
}

// Directory selects the root of the save folder
type Directory int

const (
	// PersistentDataDir resolves to the user configuration directory of the platform
	PersistentDataDir Directory = iota
	// BesideBinary resolves to the directory holding the running executable
	BesideBinary
)

// String returns the directory name
func (d Directory) String() string {
	switch d {
	case PersistentDataDir:
		return "persistent"
	case BesideBinary:
		return "binary"
	default:
		return fmt.Sprintf("directory(%d)", int(d))
	}
}

// ParseDirectory maps a directory name to a Directory
func ParseDirectory(name string) (Directory, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "persistent", "persistent-data", "":
		return PersistentDataDir, nil
	case "binary", "beside-binary":
		return BesideBinary, nil
	default:
		return 0, fmt.Errorf("unknown directory %q", name)
	}
}

// defaults applied by New
const (
	DefaultAppName           = "savekit"
	DefaultFileFolder        = "SaveData"
	DefaultGameFileName      = "SaveGame"
	DefaultExtension         = ".savegame"
	DefaultMetaExtension     = ".savemeta"
	DefaultMaxSlots          = 8
	DefaultComponentIDLength = 5
	DefaultObjectIDLength    = 5
	DefaultNativeFormat      = storage.FormatBinary
	DefaultValidation        = Convert
	DefaultDirectory         = PersistentDataDir
	DefaultCompression       = storage.CompressionZstd
)

const (
	maxIdentifierLength = 32
	maxSlotsUpperBound  = 10_000
	extensionPattern    = `^\.[A-Za-z0-9_-]+$`
)

// Config holds the save system settings
type Config struct {
	format            storage.Format
	validation        Validation
	directory         Directory
	rootPath          string
	appName           string
	fileFolder        string
	gameFileName      string
	extension         string
	metaExtension     string
	maxSlots          int
	componentIDLength int
	objectIDLength    int
	compression       storage.Compression
	logger            log.Logger
}

// New creates an instance of Config with the given options applied on top of the defaults
func New(opts ...Option) (*Config, error) {
	config := &Config{
		format:            DefaultNativeFormat,
		validation:        DefaultValidation,
		directory:         DefaultDirectory,
		appName:           DefaultAppName,
		fileFolder:        DefaultFileFolder,
		gameFileName:      DefaultGameFileName,
		extension:         DefaultExtension,
		metaExtension:     DefaultMetaExtension,
		maxSlots:          DefaultMaxSlots,
		componentIDLength: DefaultComponentIDLength,
		objectIDLength:    DefaultObjectIDLength,
		compression:       DefaultCompression,
		logger:            log.DefaultLogger,
	}

	for _, opt := range opts {
		opt.Apply(config)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	err := validation.New().
		AddValidator(validation.NewEmptyStringValidator("gameFileName", c.gameFileName)).
		AddValidator(validation.NewEmptyStringValidator("fileFolder", c.fileFolder)).
		AddValidator(validation.NewPatternValidator("extension", extensionPattern, c.extension)).
		AddValidator(validation.NewPatternValidator("metaExtension", extensionPattern, c.metaExtension)).
		AddAssertion(c.extension != c.metaExtension, "extension and metaExtension must differ").
		AddAssertion(!strings.ContainsAny(c.gameFileName, `/\`), "gameFileName must not contain a path separator").
		AddValidator(validation.NewRangeValidator("maxSlots", c.maxSlots, 1, maxSlotsUpperBound)).
		AddValidator(validation.NewRangeValidator("componentIDLength", c.componentIDLength, 1, maxIdentifierLength)).
		AddValidator(validation.NewRangeValidator("objectIDLength", c.objectIDLength, 1, maxIdentifierLength)).
		AddAssertion(c.format >= storage.FormatText && c.format <= storage.FormatEmbedded, "format is invalid").
		AddAssertion(c.validation >= Strict && c.validation <= Ignore, "validation policy is invalid").
		AddAssertion(c.directory == PersistentDataDir || c.directory == BesideBinary, "directory is invalid").
		AddAssertion(c.compression >= storage.CompressionZstd && c.compression <= storage.CompressionNone, "compression is invalid").
		AddAssertion(c.logger != nil, "logger is required").
		Validate()
	if err != nil {
		return gerrors.NewErrInvalidConfig(err)
	}
	return nil
}

// Format returns the native storage format
func (c *Config) Format() storage.Format {
	return c.format
}

// Validation returns the format mismatch policy
func (c *Config) Validation() Validation {
	return c.validation
}

// Directory returns the save folder root selector
func (c *Config) Directory() Directory {
	return c.directory
}

// AppName returns the application name used under the platform data directory
func (c *Config) AppName() string {
	return c.appName
}

// FileFolder returns the save folder name
func (c *Config) FileFolder() string {
	return c.fileFolder
}

// GameFileName returns the save file base name
func (c *Config) GameFileName() string {
	return c.gameFileName
}

// Extension returns the save file extension, dot included
func (c *Config) Extension() string {
	return c.extension
}

// MetaExtension returns the metadata sidecar extension, dot included
func (c *Config) MetaExtension() string {
	return c.metaExtension
}

// MaxSlots returns the number of slots offered to players
func (c *Config) MaxSlots() int {
	return c.maxSlots
}

// ComponentIDLength returns the length of generated component key suffixes
func (c *Config) ComponentIDLength() int {
	return c.componentIDLength
}

// ObjectIDLength returns the length of generated object identifier suffixes
func (c *Config) ObjectIDLength() int {
	return c.objectIDLength
}

// Compression returns the binary format compression
func (c *Config) Compression() storage.Compression {
	return c.compression
}

// Logger returns the configured logger
func (c *Config) Logger() log.Logger {
	return c.logger
}

// StorageOptions returns the backend options derived from the configuration
func (c *Config) StorageOptions() []storage.Option {
	return []storage.Option{storage.WithCompression(c.compression)}
}

// RootPath returns the directory holding the save folder
func (c *Config) RootPath() (string, error) {
	if c.rootPath != "" {
		return c.rootPath, nil
	}

	switch c.directory {
	case BesideBinary:
		executable, err := os.Executable()
		if err != nil {
			return "", fmt.Errorf("failed to resolve the executable path: %w", err)
		}
		return filepath.Dir(executable), nil
	default:
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve the user data directory: %w", err)
		}
		return filepath.Join(dir, c.appName), nil
	}
}
