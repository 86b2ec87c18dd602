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

	"github.com/tochemey/savekit/storage"
)

func newConvertCmd(f *flags) *cobra.Command {
	var (
		to          string
		compression string
	)

	cmd := &cobra.Command{
		Use:   "convert <slot>",
		Short: "Rewrite a save slot in another storage format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseSlot(args[0])
			if err != nil {
				return err
			}

			target, err := storage.ParseFormat(to)
			if err != nil {
				return err
			}

			manager, err := f.slots()
			if err != nil {
				return err
			}

			opts := manager.Config().StorageOptions()
			if compression != "" {
				codec, err := storage.ParseCompression(compression)
				if err != nil {
					return err
				}
				opts = append(opts, storage.WithCompression(codec))
			}

			used, err := manager.IsSlotUsed(number)
			if err != nil {
				return err
			}
			if !used {
				return fmt.Errorf("slot %d is empty", number)
			}

			path, err := manager.SlotPath(number)
			if err != nil {
				return err
			}

			src, err := storage.Open(path, opts...)
			if err != nil {
				return err
			}

			dst, err := storage.Convert(src, target, opts...)
			if err != nil {
				return err
			}

			if err := manager.Write(dst, number); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "slot %d converted from %s to %s\n", number, src.Format(), dst.Format())
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "target format (text, binary, embedded)")
	cmd.Flags().StringVar(&compression, "compression", "", "binary compression (zstd, brotli, none)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
