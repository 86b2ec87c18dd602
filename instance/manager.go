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

package instance

import (
	"fmt"
	"sync"

	goset "github.com/deckarep/golang-set/v2"
	"github.com/goccy/go-json"

	gerrors "github.com/tochemey/savekit/errors"
	"github.com/tochemey/savekit/log"
	"github.com/tochemey/savekit/saveable"
)

const (
	// IdentificationPrefix prefixes the save identification of a manager registry
	IdentificationPrefix = "InstanceManager"
	// ComponentKey is the component key the spawn list is stored under
	ComponentKey = "Spawns"
	// DefaultIdentifierLength is the suffix length of generated instance identifiers
	DefaultIdentifierLength = 5
)

type record struct {
	ID   string    `json:"id"`
	Info SpawnInfo `json:"info"`
}

type entry struct {
	generation uint32
	instance   *Instance
}

// Manager tracks the objects spawned at runtime in one scene and respawns
// them when their save is loaded. The spawn list is saved through the
// manager's own registry, which the manager joins as a participant.
type Manager struct {
	mu sync.Mutex

	scene       string
	factory     Factory
	coordinator Coordinator
	clock       saveable.Clock
	loaded      *saveable.LoadedSet
	logger      log.Logger
	idLength    int

	entries []entry
	free    []uint32
	dirty   bool

	registry *saveable.Saveable
}

var _ saveable.Participant = (*Manager)(nil)

// NewManager creates a Manager for scene
func NewManager(scene string, factory Factory, opts ...Option) (*Manager, error) {
	if factory == nil {
		return nil, gerrors.ErrNoFactory
	}

	m := &Manager{
		scene:    scene,
		factory:  factory,
		clock:    saveable.NewTickClock(),
		loaded:   saveable.NewLoadedSet(),
		logger:   log.DiscardLogger,
		idLength: DefaultIdentifierLength,
	}
	for _, opt := range opts {
		opt.Apply(m)
	}

	m.registry = saveable.New(IdentificationPrefix+"-"+scene, m.registryOptions(saveable.WithParticipant(ComponentKey, m))...)
	return m, nil
}

// Scene returns the scene of the manager
func (m *Manager) Scene() string {
	return m.scene
}

// Saveable returns the registry holding the spawn list
func (m *Manager) Saveable() *saveable.Saveable {
	return m.registry
}

// Activate registers the manager registry, which loads the spawn list
// and respawns the saved instances when a save is active
func (m *Manager) Activate() {
	m.registry.Activate()
}

// Close flushes the spawn list and tears down every live instance
// as part of a scene teardown
func (m *Manager) Close() {
	m.registry.Destroy()
	for _, inst := range m.Instances() {
		inst.HandleDestroyed(CauseSceneTeardown)
	}
}

// Spawn builds the object described by info and registers its registry.
// An empty id generates <scene>-<sourceID>-<suffix>.
func (m *Manager) Spawn(info SpawnInfo, id string) (*Instance, error) {
	if info.Scene == "" {
		info.Scene = m.scene
	}

	m.mu.Lock()
	taken := m.identifiers()
	m.mu.Unlock()

	if id == "" {
		generated, err := saveable.GenerateObjectIdentification(m.scene, info.SourceID, m.idLength, taken)
		if err != nil {
			return nil, err
		}
		id = generated
	} else if taken.Contains(id) {
		return nil, gerrors.NewErrIdentifierCollision(id)
	}

	registry := saveable.New(id, m.registryOptions()...)
	if err := m.factory.Build(info, registry); err != nil {
		return nil, fmt.Errorf("failed to build instance %s: %w", id, err)
	}

	inst := &Instance{
		id:          id,
		info:        info,
		registry:    registry,
		coordinator: m.coordinator,
		clock:       m.clock,
		logger:      m.logger,
		forget:      m.forget,
		removeData:  true,
	}

	m.mu.Lock()
	if m.identifiers().Contains(id) {
		m.mu.Unlock()
		return nil, gerrors.NewErrIdentifierCollision(id)
	}
	inst.handle = m.allocate(inst)
	m.dirty = true
	m.mu.Unlock()

	m.logger.Debugf("instance %s spawned from %s (%s)", id, info.SourceID, inst.handle)
	registry.Activate()
	return inst, nil
}

// Instance returns the live instance addressed by h
func (m *Manager) Instance(h Handle) (*Instance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.valid(h) {
		return nil, false
	}
	return m.entries[h.index].instance, true
}

// Instances returns the live instances in slot order
func (m *Manager) Instances() []*Instance {
	m.mu.Lock()
	defer m.mu.Unlock()
	instances := make([]*Instance, 0, len(m.entries)-len(m.free))
	for _, e := range m.entries {
		if e.instance != nil {
			instances = append(instances, e.instance)
		}
	}
	return instances
}

// Len returns the number of live instances
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries) - len(m.free)
}

// Serialize returns the spawn list of the instances that still save
func (m *Manager) Serialize() string {
	instances := m.Instances()
	records := make([]record, 0, len(instances))
	for _, inst := range instances {
		if inst.DontSaveInstance() {
			continue
		}
		records = append(records, record{ID: inst.ID(), Info: inst.SpawnInfo()})
	}

	bytea, err := json.Marshal(records)
	if err != nil {
		m.logger.Errorf("failed to encode the spawn list of scene %s: %v", m.scene, err)
		return ""
	}

	m.mu.Lock()
	m.dirty = false
	m.mu.Unlock()
	return string(bytea)
}

// Deserialize respawns every saved instance that is not live yet
func (m *Manager) Deserialize(payload string) {
	var records []record
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		m.logger.Errorf("failed to decode the spawn list of scene %s: %v", m.scene, err)
		return
	}

	for _, r := range records {
		m.mu.Lock()
		live := m.identifiers().Contains(r.ID)
		m.mu.Unlock()
		if live || r.ID == "" {
			continue
		}

		if _, err := m.Spawn(r.Info, r.ID); err != nil {
			m.logger.Warnf("failed to respawn instance %s: %v", r.ID, err)
		}
	}
}

// ShouldSave reports whether the spawn list changed since it was last serialized
func (m *Manager) ShouldSave() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirty
}

func (m *Manager) registryOptions(extra ...saveable.Option) []saveable.Option {
	opts := []saveable.Option{
		saveable.WithScene(m.scene),
		saveable.WithClock(m.clock),
		saveable.WithLoadedSet(m.loaded),
		saveable.WithLogger(m.logger),
	}
	if m.coordinator != nil {
		opts = append(opts, saveable.WithCoordinator(m.coordinator))
	}
	return append(opts, extra...)
}

// identifiers returns the ids of the live instances. It must be called with the lock held.
func (m *Manager) identifiers() goset.Set[string] {
	ids := goset.NewThreadUnsafeSetWithSize[string](len(m.entries))
	for _, e := range m.entries {
		if e.instance != nil {
			ids.Add(e.instance.id)
		}
	}
	return ids
}

func (m *Manager) allocate(inst *Instance) Handle {
	if n := len(m.free); n > 0 {
		index := m.free[n-1]
		m.free = m.free[:n-1]
		m.entries[index].instance = inst
		return Handle{index: index, generation: m.entries[index].generation}
	}

	index := uint32(len(m.entries))
	m.entries = append(m.entries, entry{generation: 1, instance: inst})
	return Handle{index: index, generation: 1}
}

func (m *Manager) valid(h Handle) bool {
	return !h.IsZero() &&
		int(h.index) < len(m.entries) &&
		m.entries[h.index].generation == h.generation &&
		m.entries[h.index].instance != nil
}

func (m *Manager) forget(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.valid(h) {
		return
	}

	e := &m.entries[h.index]
	e.instance = nil
	e.generation++
	if e.generation == 0 {
		e.generation = 1
	}
	m.free = append(m.free, h.index)
	m.dirty = true
}
