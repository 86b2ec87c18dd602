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

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tochemey/savekit/config"
	"github.com/tochemey/savekit/log"
	"github.com/tochemey/savekit/slot"
	"github.com/tochemey/savekit/storage"
)

// flags holds the persistent flags shared by every command
type flags struct {
	configPath string
	rootPath   string
	format     string
	validation string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	f := new(flags)
	root := &cobra.Command{
		Use:          "savectl",
		Short:        "Inspect and maintain save slots",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "path to a YAML configuration file")
	pf.StringVar(&f.rootPath, "root", "", "directory holding the save folder")
	pf.StringVar(&f.format, "format", "", "native storage format (text, binary, embedded)")
	pf.StringVar(&f.validation, "validation", "", "format mismatch policy (strict, convert, replace, ignore)")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		newSlotsCmd(f),
		newShowCmd(f),
		newConvertCmd(f),
		newRemoveCmd(f),
		newWipeSceneCmd(f),
		newMetaCmd(f),
	)
	return root
}

// config builds the configuration from the config file and the flags.
// Flags win over the file.
func (f *flags) config() (*config.Config, error) {
	var opts []config.Option
	switch {
	case f.verbose:
		opts = append(opts, config.WithLogger(log.DebugLogger))
	case f.configPath == "":
		opts = append(opts, config.WithLogger(log.DiscardLogger))
	}

	if f.rootPath != "" {
		opts = append(opts, config.WithRootPath(f.rootPath))
	}

	if f.format != "" {
		format, err := storage.ParseFormat(f.format)
		if err != nil {
			return nil, err
		}
		opts = append(opts, config.WithFormat(format))
	}

	if f.validation != "" {
		validation, err := config.ParseValidation(f.validation)
		if err != nil {
			return nil, err
		}
		opts = append(opts, config.WithValidation(validation))
	}

	if f.configPath != "" {
		return config.Load(f.configPath, opts...)
	}
	return config.New(opts...)
}

func (f *flags) slots() (*slot.Manager, error) {
	cfg, err := f.config()
	if err != nil {
		return nil, err
	}
	return slot.NewManager(cfg), nil
}

func parseSlot(arg string) (int, error) {
	number, err := strconv.Atoi(arg)
	if err != nil || number < 0 {
		return 0, fmt.Errorf("invalid slot %q", arg)
	}
	return number, nil
}

// loadSlot loads the save of slot, failing when the slot is empty
func loadSlot(manager *slot.Manager, number int) (storage.Backend, error) {
	backend, err := manager.Load(number, false)
	if err != nil {
		return nil, err
	}
	if backend == nil {
		return nil, fmt.Errorf("slot %d is empty", number)
	}
	return backend, nil
}
