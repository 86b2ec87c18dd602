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
)

func newWipeSceneCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "wipe-scene <slot> <scene>",
		Short: "Remove every entry written under a scene",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseSlot(args[0])
			if err != nil {
				return err
			}

			manager, err := f.slots()
			if err != nil {
				return err
			}

			backend, err := loadSlot(manager, number)
			if err != nil {
				return err
			}

			scene := args[1]
			removed := len(backend.SceneKeys(scene))
			backend.WipeSceneData(scene)
			if err := manager.Write(backend, number); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries of scene %s from slot %d\n", removed, scene, number)
			return nil
		},
	}
}
