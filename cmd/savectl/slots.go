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
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tochemey/savekit/storage"
)

func newSlotsCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: "List the used save slots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := f.slots()
			if err != nil {
				return err
			}

			folder, err := manager.SaveFolderPath()
			if err != nil {
				return err
			}

			used, err := manager.UsedSlots()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(used) == 0 {
				fmt.Fprintf(out, "no save slots in %s\n", folder)
				return nil
			}

			slots, err := manager.EnumerateSlots()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SLOT\tFILE\tFORMAT\tSIZE")
			for _, number := range used {
				path := filepath.Join(folder, slots[number])
				format := "corrupt"
				if detected, err := storage.DetectFormat(path); err == nil {
					format = detected.String()
				}

				var size int64
				if info, err := os.Stat(path); err == nil {
					size = info.Size()
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", number, slots[number], format, size)
			}
			return w.Flush()
		},
	}
}
