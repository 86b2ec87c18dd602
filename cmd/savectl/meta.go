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
	"slices"

	"github.com/spf13/cobra"
)

func newMetaCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "meta <slot> [key [value]]",
		Short: "Read or patch the metadata file of a save slot",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseSlot(args[0])
			if err != nil {
				return err
			}

			manager, err := f.slots()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch len(args) {
			case 1:
				metadata, err := manager.MetaData(number)
				if err != nil {
					return err
				}
				keys := make([]string, 0, len(metadata))
				for key := range metadata {
					keys = append(keys, key)
				}
				slices.Sort(keys)
				for _, key := range keys {
					fmt.Fprintf(out, "%s=%s\n", key, metadata[key])
				}
				return nil
			case 2:
				value, ok, err := manager.LoadMetaData(number, args[1])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("slot %d has no metadata %q", number, args[1])
				}
				fmt.Fprintln(out, value)
				return nil
			default:
				return manager.WriteMetaData(number, args[1], args[2])
			}
		},
	}
}
