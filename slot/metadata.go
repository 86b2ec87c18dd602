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

package slot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// The sidecar is a flat JSON object of string values mirroring the metadata
// table of the save. It can be read without decoding the save file.

// LoadMetaData reads one metadata value of slot from its sidecar
func (m *Manager) LoadMetaData(slot int, key string) (string, bool, error) {
	content, err := m.readSidecar(slot)
	if err != nil || content == nil {
		return "", false, err
	}

	result := gjson.GetBytes(content, gjson.Escape(key))
	if !result.Exists() {
		return "", false, nil
	}
	return result.String(), true, nil
}

// MetaData returns every metadata value of slot from its sidecar
func (m *Manager) MetaData(slot int) (map[string]string, error) {
	content, err := m.readSidecar(slot)
	if err != nil || content == nil {
		return map[string]string{}, err
	}

	if !gjson.ValidBytes(content) {
		return nil, fmt.Errorf("slot=(%d): metadata file is not valid JSON", slot)
	}

	out := make(map[string]string)
	gjson.ParseBytes(content).ForEach(func(key, value gjson.Result) bool {
		out[key.String()] = value.String()
		return true
	})
	return out, nil
}

// WriteMetaData patches one metadata value into the sidecar of slot
func (m *Manager) WriteMetaData(slot int, key, value string) error {
	path, err := m.metaPath(slot)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		content = []byte("{}")
	}

	patched, err := sjson.SetBytes(content, gjson.Escape(key), value)
	if err != nil {
		return fmt.Errorf("slot=(%d): failed to patch metadata: %w", slot, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return err
	}
	return os.WriteFile(path, patched, fileMode)
}

func (m *Manager) readSidecar(slot int) ([]byte, error) {
	path, err := m.metaPath(slot)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return content, nil
}

// writeSidecar mirrors metadata to path. An empty table removes the sidecar.
func (m *Manager) writeSidecar(path string, metadata map[string]string) error {
	if len(metadata) == 0 {
		return removeIfExists(path)
	}

	bytea, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	return os.WriteFile(path, bytea, fileMode)
}

func (m *Manager) metaPath(slot int) (string, error) {
	path, err := m.SlotPath(slot)
	if err != nil {
		return "", err
	}

	if fileName, ok := m.cache.Get(slot); ok {
		path = filepath.Join(filepath.Dir(path), fileName)
	}
	return strings.TrimSuffix(path, m.config.Extension()) + m.config.MetaExtension(), nil
}
