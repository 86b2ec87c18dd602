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

package storage

import (
	"encoding/base64"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/goccy/go-json"

	gerrors "github.com/tochemey/savekit/errors"
)

const (
	textFormatName = "text"
	textVersion    = 1
	fileMode       = 0o644

	// base64Encoding flags an entry whose fields are not valid UTF-8
	base64Encoding = "b64"
)

// textDocument is the on-disk layout. Entries and metadata pairs that are not
// valid UTF-8 are stored base64 encoded so the document stays lossless.
type textDocument struct {
	Format          string            `json:"format"`
	Version         int               `json:"version"`
	FileName        string            `json:"fileName,omitempty"`
	Entries         []textEntry       `json:"entries"`
	MetaData        map[string]string `json:"metadata,omitempty"`
	EncodedMetaData map[string]string `json:"encodedMetadata,omitempty"`
}

type textEntry struct {
	Key      string `json:"key"`
	Scene    string `json:"scene,omitempty"`
	Data     string `json:"data"`
	Encoding string `json:"enc,omitempty"`
}

func encodeEntry(entry Entry) textEntry {
	if utf8.ValidString(entry.Key) && utf8.ValidString(entry.Scene) && utf8.ValidString(entry.Payload) {
		return textEntry{Key: entry.Key, Scene: entry.Scene, Data: entry.Payload}
	}
	return textEntry{
		Key:      encodeString(entry.Key),
		Scene:    encodeString(entry.Scene),
		Data:     encodeString(entry.Payload),
		Encoding: base64Encoding,
	}
}

func (e textEntry) decode() (Entry, error) {
	switch e.Encoding {
	case "":
		return Entry{Key: e.Key, Payload: e.Data, Scene: e.Scene}, nil
	case base64Encoding:
		key, err := decodeString(e.Key)
		if err != nil {
			return Entry{}, err
		}
		scene, err := decodeString(e.Scene)
		if err != nil {
			return Entry{}, err
		}
		payload, err := decodeString(e.Data)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Key: key, Payload: payload, Scene: scene}, nil
	default:
		return Entry{}, fmt.Errorf("unknown entry encoding %q", e.Encoding)
	}
}

func encodeString(value string) string {
	if value == "" {
		return ""
	}
	return base64.StdEncoding.EncodeToString([]byte(value))
}

func decodeString(value string) (string, error) {
	bytea, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", err
	}
	return string(bytea), nil
}

// Text is the JSON backend. Its files always open with a '{' so detection
// matches it within the header window.
type Text struct {
	*table
}

var (
	_ Backend   = (*Text)(nil)
	_ Converter = (*Text)(nil)
)

// NewText creates an empty text backend
func NewText() *Text {
	return &Text{table: newTable()}
}

// Format returns FormatText
func (x *Text) Format() Format {
	return FormatText
}

// ReadSaveFromPath replaces the backend content with the JSON document at path
func (x *Text) ReadSaveFromPath(path string) error {
	bytea, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var doc textDocument
	if err := json.Unmarshal(bytea, &doc); err != nil {
		return gerrors.NewErrCorruptFile(path, err)
	}

	if doc.Format != textFormatName {
		return gerrors.NewErrCorruptFile(path, fmt.Errorf("unexpected document format %q", doc.Format))
	}

	entries := make([]Entry, 0, len(doc.Entries))
	for _, encoded := range doc.Entries {
		entry, err := encoded.decode()
		if err != nil {
			return gerrors.NewErrCorruptFile(path, err)
		}
		entries = append(entries, entry)
	}

	metadata := doc.MetaData
	if len(doc.EncodedMetaData) > 0 {
		metadata = make(map[string]string, len(doc.MetaData)+len(doc.EncodedMetaData))
		for key, value := range doc.MetaData {
			metadata[key] = value
		}
		for encodedKey, encodedValue := range doc.EncodedMetaData {
			key, err := decodeString(encodedKey)
			if err != nil {
				return gerrors.NewErrCorruptFile(path, err)
			}
			value, err := decodeString(encodedValue)
			if err != nil {
				return gerrors.NewErrCorruptFile(path, err)
			}
			metadata[key] = value
		}
	}

	x.replace(doc.FileName, entries, metadata)
	return nil
}

// WriteSaveFile writes the backend as an indented JSON document
func (x *Text) WriteSaveFile(path string) error {
	entries := x.Entries()
	doc := textDocument{
		Format:   textFormatName,
		Version:  textVersion,
		FileName: x.FileName(),
		Entries:  make([]textEntry, 0, len(entries)),
	}

	for _, entry := range entries {
		doc.Entries = append(doc.Entries, encodeEntry(entry))
	}

	for key, value := range x.MetaData() {
		if utf8.ValidString(key) && utf8.ValidString(value) {
			if doc.MetaData == nil {
				doc.MetaData = make(map[string]string)
			}
			doc.MetaData[key] = value
			continue
		}
		if doc.EncodedMetaData == nil {
			doc.EncodedMetaData = make(map[string]string)
		}
		doc.EncodedMetaData[encodeString(key)] = encodeString(value)
	}

	bytea, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, bytea, fileMode)
}

// ConvertTo copies the content into a fresh backend of format
func (x *Text) ConvertTo(format Format, opts ...Option) (Backend, error) {
	return convertTable(x.table, FormatText, format, opts...)
}
