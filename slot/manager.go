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
	"slices"
	"strconv"
	"strings"

	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/singleflight"

	"github.com/tochemey/savekit/config"
	gerrors "github.com/tochemey/savekit/errors"
	"github.com/tochemey/savekit/internal/xsync"
	"github.com/tochemey/savekit/log"
	"github.com/tochemey/savekit/storage"
)

// TemporarySlot is the in-memory working slot. It is never bound to a file.
const TemporarySlot = -2

const (
	dirMode  = 0o755
	fileMode = 0o644
	scanKey  = "scan"
)

// Manager maps slot numbers to save files. It owns the slot cache, which is
// built by a single directory scan and then kept in sync by writes and deletes.
// ClearCache is the only point that forces a new scan.
type Manager struct {
	config  *config.Config
	logger  log.Logger
	cache   *xsync.Map[int, string]
	scanned *atomic.Bool
	group   singleflight.Group
}

// NewManager creates an instance of Manager
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		config:  cfg,
		logger:  cfg.Logger(),
		cache:   xsync.NewMap[int, string](),
		scanned: atomic.NewBool(false),
	}
}

// Config returns the configuration the manager was created with
func (m *Manager) Config() *config.Config {
	return m.config
}

// SaveFolderPath returns the directory holding the save files
func (m *Manager) SaveFolderPath() (string, error) {
	root, err := m.config.RootPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, m.config.FileFolder()), nil
}

// SlotFileName returns the file name of slot without extension
func (m *Manager) SlotFileName(slot int) string {
	return m.config.GameFileName() + strconv.Itoa(slot)
}

// SlotPath returns the canonical path of the save file of slot
func (m *Manager) SlotPath(slot int) (string, error) {
	if slot < 0 {
		return "", gerrors.NewErrInvalidSlot(slot)
	}
	folder, err := m.SaveFolderPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(folder, m.SlotFileName(slot)+m.config.Extension()), nil
}

// EnumerateSlots returns the slot to file name table.
// The save folder is scanned once and created when missing.
func (m *Manager) EnumerateSlots() (map[int]string, error) {
	if m.scanned.Load() {
		return m.cache.Snapshot(), nil
	}

	_, err, _ := m.group.Do(scanKey, func() (any, error) {
		if m.scanned.Load() {
			return nil, nil
		}
		return nil, m.scan()
	})
	if err != nil {
		return nil, err
	}
	return m.cache.Snapshot(), nil
}

func (m *Manager) scan() error {
	folder, err := m.SaveFolderPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(folder, dirMode); err != nil {
		return fmt.Errorf("failed to create save folder: %w", err)
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return fmt.Errorf("failed to read save folder: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		slot, ok := m.parseSlot(entry.Name())
		if !ok {
			continue
		}
		m.logger.Debugf("found slot=(%d) save file at %s", slot, filepath.Join(folder, entry.Name()))
		// writes that landed before the scan completed win
		m.cache.SetIfAbsent(slot, entry.Name())
	}

	m.scanned.Store(true)
	return nil
}

// parseSlot extracts the slot number of a save file name.
// Names not shaped as <gameFileName><number><extension> are rejected, and so are
// non canonical spellings of the number such as "01" or "+1".
func (m *Manager) parseSlot(name string) (int, bool) {
	prefix := m.config.GameFileName()
	extension := m.config.Extension()
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, extension) || len(name) <= len(prefix)+len(extension) {
		return 0, false
	}

	suffix := name[len(prefix) : len(name)-len(extension)]
	slot, err := strconv.Atoi(suffix)
	if err != nil || slot < 0 || strconv.Itoa(slot) != suffix {
		return 0, false
	}
	return slot, true
}

// UsedSlots returns the used slots in ascending order
func (m *Manager) UsedSlots() ([]int, error) {
	slots, err := m.EnumerateSlots()
	if err != nil {
		return nil, err
	}
	used := make([]int, 0, len(slots))
	for slot := range slots {
		used = append(used, slot)
	}
	slices.Sort(used)
	return used, nil
}

// SlotCount returns the number of used slots
func (m *Manager) SlotCount() (int, error) {
	slots, err := m.EnumerateSlots()
	if err != nil {
		return 0, err
	}
	return len(slots), nil
}

// IsSlotUsed reports whether slot has a save file
func (m *Manager) IsSlotUsed(slot int) (bool, error) {
	slots, err := m.EnumerateSlots()
	if err != nil {
		return false, err
	}
	_, ok := slots[slot]
	return ok, nil
}

// IsFileNameUsed reports whether a save file named fileName exists.
// The extension is appended when missing.
func (m *Manager) IsFileNameUsed(fileName string) (bool, error) {
	path, err := m.namedPath(fileName)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AvailableSlot returns the smallest slot in [0, maxSlots) without a save file, or -1
func (m *Manager) AvailableSlot(maxSlots int) (int, error) {
	slots, err := m.EnumerateSlots()
	if err != nil {
		return -1, err
	}
	for slot := range maxSlots {
		if _, ok := slots[slot]; !ok {
			return slot, nil
		}
	}
	return -1, nil
}

// Load returns the backend stored in slot.
// A nil backend and a nil error mean the slot is empty and createIfEmpty is false.
// An empty native backend is returned without touching disk when createIfEmpty is set.
func (m *Manager) Load(slot int, createIfEmpty bool) (storage.Backend, error) {
	if slot == TemporarySlot {
		if !createIfEmpty {
			return nil, nil
		}
		return m.newBackend(m.SlotFileName(slot))
	}

	if slot < 0 {
		return nil, gerrors.NewErrInvalidSlot(slot)
	}

	slots, err := m.EnumerateSlots()
	if err != nil {
		return nil, err
	}

	if fileName, ok := slots[slot]; ok {
		folder, err := m.SaveFolderPath()
		if err != nil {
			return nil, err
		}

		backend, err := m.read(filepath.Join(folder, fileName))
		if err != nil {
			return nil, fmt.Errorf("slot=(%d): %w", slot, err)
		}

		if backend != nil {
			m.logger.Debugf("loaded slot=(%d) from %s", slot, fileName)
			return backend, nil
		}

		// the file vanished behind the cache
		m.cache.Delete(slot)
	}

	if !createIfEmpty {
		return nil, nil
	}
	return m.newBackend(m.SlotFileName(slot))
}

// LoadFile returns the backend stored in the save file named fileName, or nil when missing
func (m *Manager) LoadFile(fileName string) (storage.Backend, error) {
	path, err := m.namedPath(fileName)
	if err != nil {
		return nil, err
	}
	return m.read(path)
}

// read detects the format of path and applies the validation policy.
// A missing file yields a nil backend.
func (m *Manager) read(path string) (storage.Backend, error) {
	detected, err := storage.DetectFormat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		if errors.Is(err, gerrors.ErrCorruptFile) {
			m.logger.Errorf("save file %s is corrupted: %v", path, err)
		}
		return nil, err
	}

	native := m.config.Format()
	if detected == native {
		return m.readAs(native, path)
	}

	policy := m.config.Validation()
	m.logger.Warnf("save file %s is %s, native format is %s, applying %s policy", path, detected, native, policy)

	switch policy {
	case config.Strict:
		return nil, gerrors.NewFormatMismatchError(detected.String(), native.String())
	case config.Convert:
		return m.convert(detected, native, path)
	case config.Replace:
		return m.replace(path)
	default:
		return m.readAs(native, path)
	}
}

func (m *Manager) readAs(format storage.Format, path string) (storage.Backend, error) {
	backend, err := storage.New(format, m.config.StorageOptions()...)
	if err != nil {
		return nil, err
	}

	if err := backend.ReadSaveFromPath(path); err != nil {
		if errors.Is(err, gerrors.ErrCorruptFile) {
			m.logger.Errorf("save file %s is corrupted: %v", path, err)
		}
		return nil, err
	}

	if backend.FileName() == "" {
		backend.SetFileName(m.baseName(path))
	}
	backend.OnAfterLoad()
	return backend, nil
}

func (m *Manager) convert(detected, native storage.Format, path string) (storage.Backend, error) {
	source, err := storage.New(detected, m.config.StorageOptions()...)
	if err != nil {
		return nil, err
	}

	if err := source.ReadSaveFromPath(path); err != nil {
		return nil, err
	}

	converted, err := storage.Convert(source, native, m.config.StorageOptions()...)
	if err != nil {
		return nil, err
	}

	if converted.FileName() == "" {
		converted.SetFileName(m.baseName(path))
	}
	converted.OnAfterLoad()
	m.logger.Infof("converted save file %s from %s to %s", path, detected, native)
	return converted, nil
}

// replace overwrites path with an empty native save and drops its sidecar
func (m *Manager) replace(path string) (storage.Backend, error) {
	backend, err := m.newBackend(m.baseName(path))
	if err != nil {
		return nil, err
	}

	backend.OnBeforeWrite()
	if err := backend.WriteSaveFile(path); err != nil {
		return nil, fmt.Errorf("failed to replace save file: %w", err)
	}

	if err := removeIfExists(m.metaPathOf(path)); err != nil {
		return nil, err
	}

	m.logger.Warnf("replaced save file %s with an empty save", path)
	return backend, nil
}

func (m *Manager) newBackend(fileName string) (storage.Backend, error) {
	backend, err := storage.New(m.config.Format(), m.config.StorageOptions()...)
	if err != nil {
		return nil, err
	}
	backend.SetFileName(fileName)
	return backend, nil
}

// Write persists backend as the canonical save file of slot.
// Writing the temporary slot is a no-op.
func (m *Manager) Write(backend storage.Backend, slot int) error {
	if slot == TemporarySlot {
		m.logger.Debug("skipping write of the temporary slot")
		return nil
	}

	if slot < 0 {
		return gerrors.NewErrInvalidSlot(slot)
	}

	if _, err := m.EnumerateSlots(); err != nil {
		return err
	}

	path, err := m.SlotPath(slot)
	if err != nil {
		return err
	}

	fileName := filepath.Base(path)
	if err := m.write(backend, path); err != nil {
		return fmt.Errorf("slot=(%d): %w", slot, err)
	}

	m.cache.Set(slot, fileName)
	m.logger.Debugf("wrote slot=(%d) to %s", slot, fileName)
	return nil
}

// WriteNamed persists backend under an explicit file name.
// Names shaped like a slot file are registered in the slot cache.
func (m *Manager) WriteNamed(backend storage.Backend, fileName string) error {
	path, err := m.namedPath(fileName)
	if err != nil {
		return err
	}

	if _, err := m.EnumerateSlots(); err != nil {
		return err
	}

	if err := m.write(backend, path); err != nil {
		return err
	}

	name := filepath.Base(path)
	if slot, ok := m.parseSlot(name); ok {
		m.cache.Set(slot, name)
	}
	return nil
}

func (m *Manager) write(backend storage.Backend, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return fmt.Errorf("failed to create save folder: %w", err)
	}

	if backend.FileName() == "" {
		backend.SetFileName(m.baseName(path))
	}

	backend.OnBeforeWrite()
	if err := backend.WriteSaveFile(path); err != nil {
		return fmt.Errorf("failed to write save file: %w", err)
	}

	return m.writeSidecar(m.metaPathOf(path), backend.MetaData())
}

// Delete removes the save file of slot and its sidecar.
// Deleting an empty slot is a no-op.
func (m *Manager) Delete(slot int) error {
	if slot < 0 {
		return gerrors.NewErrInvalidSlot(slot)
	}

	slots, err := m.EnumerateSlots()
	if err != nil {
		return err
	}

	folder, err := m.SaveFolderPath()
	if err != nil {
		return err
	}

	fileName, ok := slots[slot]
	if !ok {
		fileName = m.SlotFileName(slot) + m.config.Extension()
	}
	path := filepath.Join(folder, fileName)

	if err := os.Remove(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("slot=(%d): failed to delete save file: %w", slot, err)
		}
		m.logger.Debugf("slot=(%d) has no save file at %s", slot, path)
	}

	if err := removeIfExists(m.metaPathOf(path)); err != nil {
		return fmt.Errorf("slot=(%d): failed to delete metadata file: %w", slot, err)
	}

	m.cache.Delete(slot)
	return nil
}

// DeleteAll removes every save and metadata file of the save folder.
// The slot cache is cleared and rebuilt on next use.
func (m *Manager) DeleteAll() error {
	folder, err := m.SaveFolderPath()
	if err != nil {
		return err
	}

	defer m.ClearCache()

	entries, err := os.ReadDir(folder)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	var errs error
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, m.config.Extension()) || strings.HasSuffix(name, m.config.MetaExtension())) {
			continue
		}
		errs = multierr.Append(errs, removeIfExists(filepath.Join(folder, name)))
	}
	return errs
}

// ClearCache drops the slot cache. The next enumeration scans the save folder again.
func (m *Manager) ClearCache() {
	m.scanned.Store(false)
	m.cache.Reset()
}

// namedPath returns the path of an explicitly named save file
func (m *Manager) namedPath(fileName string) (string, error) {
	if strings.TrimSpace(fileName) == "" {
		return "", gerrors.ErrEmptyFileName
	}

	folder, err := m.SaveFolderPath()
	if err != nil {
		return "", err
	}

	name := filepath.Base(fileName)
	if !strings.HasSuffix(name, m.config.Extension()) {
		name += m.config.Extension()
	}
	return filepath.Join(folder, name), nil
}

func (m *Manager) metaPathOf(path string) string {
	return strings.TrimSuffix(path, m.config.Extension()) + m.config.MetaExtension()
}

func (m *Manager) baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), m.config.Extension())
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
