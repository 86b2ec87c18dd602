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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"go.etcd.io/bbolt"

	gerrors "github.com/tochemey/savekit/errors"
)

const (
	embeddedFileMode    = 0o600
	embeddedLockTimeout = time.Second
)

var (
	bucketEntries  = []byte("entries")
	bucketScenes   = []byte("scenes")
	bucketMetaData = []byte("metadata")
	bucketInfo     = []byte("info")

	infoFileName = []byte("fileName")
)

// Embedded is the bbolt backend. Each write produces a fresh database file
// in a single update transaction.
type Embedded struct {
	*table
}

var (
	_ Backend   = (*Embedded)(nil)
	_ Converter = (*Embedded)(nil)
)

// NewEmbedded creates an empty embedded backend
func NewEmbedded() *Embedded {
	return &Embedded{table: newTable()}
}

// Format returns FormatEmbedded
func (x *Embedded) Format() Format {
	return FormatEmbedded
}

// ReadSaveFromPath replaces the backend content with the database at path
func (x *Embedded) ReadSaveFromPath(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	db, err := bbolt.Open(path, embeddedFileMode, &bbolt.Options{
		Timeout:  embeddedLockTimeout,
		ReadOnly: true,
	})
	if err != nil {
		return gerrors.NewErrCorruptFile(path, err)
	}
	defer db.Close()

	var (
		fileName string
		entries  []Entry
		metadata = make(map[string]string)
	)

	err = db.View(func(tx *bbolt.Tx) error {
		index := make(map[string]int)
		if bucket := tx.Bucket(bucketEntries); bucket != nil {
			if err := bucket.ForEach(func(k, v []byte) error {
				index[string(k)] = len(entries)
				entries = append(entries, Entry{Key: string(k), Payload: string(v)})
				return nil
			}); err != nil {
				return err
			}
		}

		if bucket := tx.Bucket(bucketScenes); bucket != nil {
			if err := bucket.ForEachBucket(func(scene []byte) error {
				return bucket.Bucket(scene).ForEach(func(k, _ []byte) error {
					if i, ok := index[string(k)]; ok {
						entries[i].Scene = string(scene)
					}
					return nil
				})
			}); err != nil {
				return err
			}
		}

		if bucket := tx.Bucket(bucketMetaData); bucket != nil {
			if err := bucket.ForEach(func(k, v []byte) error {
				metadata[string(k)] = string(v)
				return nil
			}); err != nil {
				return err
			}
		}

		if bucket := tx.Bucket(bucketInfo); bucket != nil {
			fileName = string(bucket.Get(infoFileName))
		}
		return nil
	})
	if err != nil {
		return gerrors.NewErrCorruptFile(path, err)
	}

	x.replace(fileName, entries, metadata)
	return nil
}

// WriteSaveFile writes the backend into a fresh database at path
func (x *Embedded) WriteSaveFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	db, err := bbolt.Open(path, embeddedFileMode, &bbolt.Options{Timeout: embeddedLockTimeout})
	if err != nil {
		return fmt.Errorf("failed to open embedded save file: %w", err)
	}

	entries := x.Entries()
	metadata := x.MetaData()
	fileName := x.FileName()

	err = db.Update(func(tx *bbolt.Tx) error {
		entriesBucket, err := tx.CreateBucketIfNotExists(bucketEntries)
		if err != nil {
			return err
		}
		scenesBucket, err := tx.CreateBucketIfNotExists(bucketScenes)
		if err != nil {
			return err
		}
		metaBucket, err := tx.CreateBucketIfNotExists(bucketMetaData)
		if err != nil {
			return err
		}
		infoBucket, err := tx.CreateBucketIfNotExists(bucketInfo)
		if err != nil {
			return err
		}

		for _, entry := range entries {
			if err := entriesBucket.Put([]byte(entry.Key), []byte(entry.Payload)); err != nil {
				return err
			}
			if entry.Scene == "" {
				continue
			}
			sceneBucket, err := scenesBucket.CreateBucketIfNotExists([]byte(entry.Scene))
			if err != nil {
				return err
			}
			if err := sceneBucket.Put([]byte(entry.Key), []byte{}); err != nil {
				return err
			}
		}

		for key, value := range metadata {
			if err := metaBucket.Put([]byte(key), []byte(value)); err != nil {
				return err
			}
		}

		if fileName != "" {
			return infoBucket.Put(infoFileName, []byte(fileName))
		}
		return nil
	})

	if closeErr := db.Close(); err == nil {
		err = closeErr
	}
	return err
}

// ConvertTo copies the content into a fresh backend of format
func (x *Embedded) ConvertTo(format Format, opts ...Option) (Backend, error) {
	return convertTable(x.table, FormatEmbedded, format, opts...)
}
