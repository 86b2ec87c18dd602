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
	"github.com/tochemey/savekit/log"
	"github.com/tochemey/savekit/storage"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(config *Config)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Config)

// Apply applies the Config's option
func (f OptionFunc) Apply(c *Config) {
	f(c)
}

// WithFormat sets the native storage format
func WithFormat(format storage.Format) Option {
	return OptionFunc(func(config *Config) {
		config.format = format
	})
}

// WithValidation sets the policy applied when a file is not in the native format
func WithValidation(validation Validation) Option {
	return OptionFunc(func(config *Config) {
		config.validation = validation
	})
}

// WithDirectory sets the save folder root selector
func WithDirectory(directory Directory) Option {
	return OptionFunc(func(config *Config) {
		config.directory = directory
	})
}

// WithRootPath overrides the resolved root directory
func WithRootPath(path string) Option {
	return OptionFunc(func(config *Config) {
		config.rootPath = path
	})
}

// WithAppName sets the application name
func WithAppName(name string) Option {
	return OptionFunc(func(config *Config) {
		config.appName = name
	})
}

// WithFileFolder sets the save folder name
func WithFileFolder(folder string) Option {
	return OptionFunc(func(config *Config) {
		config.fileFolder = folder
	})
}

// WithGameFileName sets the save file base name
func WithGameFileName(name string) Option {
	return OptionFunc(func(config *Config) {
		config.gameFileName = name
	})
}

// WithExtension sets the save file extension
func WithExtension(extension string) Option {
	return OptionFunc(func(config *Config) {
		config.extension = extension
	})
}

// WithMetaExtension sets the metadata sidecar extension
func WithMetaExtension(extension string) Option {
	return OptionFunc(func(config *Config) {
		config.metaExtension = extension
	})
}

// WithMaxSlots sets the number of slots
func WithMaxSlots(count int) Option {
	return OptionFunc(func(config *Config) {
		config.maxSlots = count
	})
}

// WithComponentIDLength sets the length of generated component key suffixes
func WithComponentIDLength(length int) Option {
	return OptionFunc(func(config *Config) {
		config.componentIDLength = length
	})
}

// WithObjectIDLength sets the length of generated object identifier suffixes
func WithObjectIDLength(length int) Option {
	return OptionFunc(func(config *Config) {
		config.objectIDLength = length
	})
}

// WithCompression sets the binary format compression
func WithCompression(compression storage.Compression) Option {
	return OptionFunc(func(config *Config) {
		config.compression = compression
	})
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(config *Config) {
		config.logger = logger
	})
}
