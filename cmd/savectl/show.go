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
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tochemey/savekit/storage"
)

const payloadPreview = 60

type entryView struct {
	Key     string `json:"key"`
	Scene   string `json:"scene,omitempty"`
	Payload string `json:"payload"`
}

type saveView struct {
	Format   string            `json:"format"`
	FileName string            `json:"fileName"`
	Entries  []entryView       `json:"entries"`
	MetaData map[string]string `json:"metadata"`
}

func newShowCmd(f *flags) *cobra.Command {
	var (
		scene  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "show <slot>",
		Short: "Print the entries and metadata of a save slot",
		Args:  cobra.ExactArgs(1),
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

			view := newSaveView(backend, scene)
			out := cmd.OutOrStdout()
			if asJSON {
				bytea, err := json.MarshalIndent(view, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(bytea))
				return err
			}

			fmt.Fprintf(out, "%s (%s), %d entries\n", view.FileName, view.Format, len(view.Entries))
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tSCENE\tPAYLOAD")
			for _, e := range view.Entries {
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.Key, e.Scene, preview(e.Payload))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			keys := make([]string, 0, len(view.MetaData))
			for key := range view.MetaData {
				keys = append(keys, key)
			}
			slices.Sort(keys)
			for _, key := range keys {
				fmt.Fprintf(out, "meta %s=%s\n", key, view.MetaData[key])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scene, "scene", "", "only show the entries of this scene")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newSaveView(backend storage.Backend, scene string) saveView {
	view := saveView{
		Format:   backend.Format().String(),
		FileName: backend.FileName(),
		Entries:  []entryView{},
		MetaData: backend.MetaData(),
	}
	for _, e := range backend.Entries() {
		if scene != "" && e.Scene != scene {
			continue
		}
		view.Entries = append(view.Entries, entryView{Key: e.Key, Scene: e.Scene, Payload: e.Payload})
	}
	return view
}

func preview(payload string) string {
	runes := []rune(payload)
	if len(runes) <= payloadPreview {
		return payload
	}
	return string(runes[:payloadPreview]) + "..."
}
