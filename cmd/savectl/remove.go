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

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

func newRemoveCmd(f *flags) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "rm [slot...]",
		Short: "Delete save slots and their metadata files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) > 0) {
				return fmt.Errorf("either pass slots or --all")
			}

			manager, err := f.slots()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if all {
				if err := manager.DeleteAll(); err != nil {
					return err
				}
				fmt.Fprintln(out, "all save slots deleted")
				return nil
			}

			var errs error
			for _, arg := range args {
				number, err := parseSlot(arg)
				if err != nil {
					errs = multierr.Append(errs, err)
					continue
				}
				if err := manager.Delete(number); err != nil {
					errs = multierr.Append(errs, err)
					continue
				}
				fmt.Fprintf(out, "slot %d deleted\n", number)
			}
			return errs
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "delete every save and metadata file")
	return cmd
}
