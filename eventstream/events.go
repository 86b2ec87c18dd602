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

package eventstream

const (
	// SlotTopic carries SlotChangeBegin and SlotChangeDone
	SlotTopic = "slot"
	// WriteTopic carries WriteBegin and WriteDone
	WriteTopic = "write"
	// WipeTopic carries SceneWiped
	WipeTopic = "wipe"
)

// SlotChangeBegin is published before the active slot changes
type SlotChangeBegin struct {
	From int
	To   int
}

// SlotChangeDone is published once the new slot is active and its data loaded
type SlotChangeDone struct {
	From int
	To   int
}

// WriteBegin is published before the active save is written to disk
type WriteBegin struct {
	Slot int
}

// WriteDone is published after a write attempt. Err is nil on success.
type WriteDone struct {
	Slot int
	Err  error
}

// SceneWiped is published after the data of a scene was removed from the active save
type SceneWiped struct {
	Scene string
}
