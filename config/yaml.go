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

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	gerrors "github.com/tochemey/savekit/errors"
	"github.com/tochemey/savekit/log"
	"github.com/tochemey/savekit/storage"
)

// fileConfig is the YAML representation of Config.
// Zero values keep the defaults.
type fileConfig struct {
	Format            string `yaml:"format"`
	Validation        string `yaml:"validation"`
	Directory         string `yaml:"directory"`
	RootPath          string `yaml:"rootPath"`
	AppName           string `yaml:"appName"`
	FileFolder        string `yaml:"fileFolder"`
	GameFileName      string `yaml:"gameFileName"`
	Extension         string `yaml:"extension"`
	MetaExtension     string `yaml:"metaExtension"`
	MaxSlots          int    `yaml:"maxSlots"`
	ComponentIDLength int    `yaml:"componentIdLength"`
	ObjectIDLength    int    `yaml:"objectIdLength"`
	Compression       string `yaml:"compression"`
	LogLevel          string `yaml:"logLevel"`
}

// Load reads a YAML configuration file. Extra options are applied after the file settings.
func Load(path string, opts ...Option) (*Config, error) {
	bytea, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(bytea, opts...)
}

// Parse builds a Config from YAML content
func Parse(content []byte, opts ...Option) (*Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(content, &fc); err != nil {
		return nil, gerrors.NewErrInvalidConfig(err)
	}

	fileOpts, err := fc.options()
	if err != nil {
		return nil, gerrors.NewErrInvalidConfig(err)
	}

	return New(append(fileOpts, opts...)...)
}

func (fc fileConfig) options() ([]Option, error) {
	var (
		opts []Option
		errs error
	)

	if fc.Format != "" {
		format, err := storage.ParseFormat(fc.Format)
		errs = multierr.Append(errs, err)
		opts = append(opts, WithFormat(format))
	}
	if fc.Validation != "" {
		policy, err := ParseValidation(fc.Validation)
		errs = multierr.Append(errs, err)
		opts = append(opts, WithValidation(policy))
	}
	if fc.Directory != "" {
		directory, err := ParseDirectory(fc.Directory)
		errs = multierr.Append(errs, err)
		opts = append(opts, WithDirectory(directory))
	}
	if fc.Compression != "" {
		compression, err := storage.ParseCompression(fc.Compression)
		errs = multierr.Append(errs, err)
		opts = append(opts, WithCompression(compression))
	}
	if fc.LogLevel != "" {
		level := log.ParseLevel(fc.LogLevel)
		if level == log.InvalidLevel {
			errs = multierr.Append(errs, fmt.Errorf("unknown log level %q", fc.LogLevel))
		} else {
			opts = append(opts, WithLogger(log.NewZap(level, os.Stdout)))
		}
	}

	strs := []struct {
		value string
		opt   func(string) Option
	}{
		{fc.RootPath, WithRootPath},
		{fc.AppName, WithAppName},
		{fc.FileFolder, WithFileFolder},
		{fc.GameFileName, WithGameFileName},
		{fc.Extension, WithExtension},
		{fc.MetaExtension, WithMetaExtension},
	}
	for _, s := range strs {
		if s.value != "" {
			opts = append(opts, s.opt(s.value))
		}
	}

	ints := []struct {
		value int
		opt   func(int) Option
	}{
		{fc.MaxSlots, WithMaxSlots},
		{fc.ComponentIDLength, WithComponentIDLength},
		{fc.ObjectIDLength, WithObjectIDLength},
	}
	for _, i := range ints {
		if i.value != 0 {
			opts = append(opts, i.opt(i.value))
		}
	}

	return opts, errs
}
