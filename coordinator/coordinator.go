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

package coordinator

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/tochemey/savekit/config"
	gerrors "github.com/tochemey/savekit/errors"
	"github.com/tochemey/savekit/eventstream"
	"github.com/tochemey/savekit/instance"
	"github.com/tochemey/savekit/internal/metric"
	"github.com/tochemey/savekit/log"
	"github.com/tochemey/savekit/saveable"
	"github.com/tochemey/savekit/slot"
	"github.com/tochemey/savekit/storage"
)

// NoSlot is the active slot when no save is bound
const NoSlot = -1

// Coordinator fans save and load requests out to the registered registries
// and binds them to the active save. Registries and participants are always
// called without the coordinator lock held, so they may call back into it.
type Coordinator struct {
	mu sync.Mutex

	config        *config.Config
	slots         *slot.Manager
	logger        log.Logger
	clock         *saveable.TickClock
	loaded        *saveable.LoadedSet
	events        *eventstream.EventsStream
	meterProvider otelmetric.MeterProvider
	metric        *metric.SaveMetric

	registries  []*saveable.Saveable
	owners      map[string]*saveable.Saveable
	identifiers map[*saveable.Saveable][]string
	activeSlot  int
	active      storage.Backend
}

var (
	_ saveable.Coordinator = (*Coordinator)(nil)
	_ instance.Coordinator = (*Coordinator)(nil)
)

// New creates a Coordinator without an active save
func New(cfg *config.Config, opts ...Option) (*Coordinator, error) {
	if cfg == nil {
		return nil, gerrors.NewErrInvalidConfig(errors.New("config is required"))
	}

	c := &Coordinator{
		config:      cfg,
		slots:       slot.NewManager(cfg),
		logger:      cfg.Logger(),
		clock:       saveable.NewTickClock(),
		loaded:      saveable.NewLoadedSet(),
		events:      eventstream.New(),
		owners:      make(map[string]*saveable.Saveable),
		identifiers: make(map[*saveable.Saveable][]string),
		activeSlot:  NoSlot,
	}
	for _, opt := range opts {
		opt.Apply(c)
	}

	var providerOpts []metric.Option
	if c.meterProvider != nil {
		providerOpts = append(providerOpts, metric.WithMeterProvider(c.meterProvider))
	}
	saveMetric, err := metric.NewSaveMetric(metric.New(providerOpts...).Meter())
	if err != nil {
		return nil, err
	}
	c.metric = saveMetric
	return c, nil
}

// Slots returns the slot manager
func (c *Coordinator) Slots() *slot.Manager {
	return c.slots
}

// Events returns the stream the save lifecycle events are published on
func (c *Coordinator) Events() eventstream.Stream {
	return c.events
}

// Clock returns the tick clock shared with the registries
func (c *Coordinator) Clock() saveable.Clock {
	return c.clock
}

// Advance moves the shared clock to the next tick
func (c *Coordinator) Advance() uint64 {
	return c.clock.Advance()
}

// LoadedSet returns the process loaded set
func (c *Coordinator) LoadedSet() *saveable.LoadedSet {
	return c.loaded
}

// Boot marks the start of a game boot. It must run before any scene loads.
func (c *Coordinator) Boot() {
	c.loaded.Reset()
	c.logger.Debug("loaded set reset")
}

// NewSaveable creates a registry wired to the coordinator
func (c *Coordinator) NewSaveable(identification string, opts ...saveable.Option) *saveable.Saveable {
	defaults := []saveable.Option{
		saveable.WithCoordinator(c),
		saveable.WithClock(c.clock),
		saveable.WithLoadedSet(c.loaded),
		saveable.WithLogger(c.logger),
	}
	return saveable.New(identification, append(defaults, opts...)...)
}

// SpawnManager creates an instance manager for scene wired to the coordinator.
// The manager still has to be activated.
func (c *Coordinator) SpawnManager(scene string, factory instance.Factory) (*instance.Manager, error) {
	return instance.NewManager(scene, factory,
		instance.WithCoordinator(c),
		instance.WithClock(c.clock),
		instance.WithLoadedSet(c.loaded),
		instance.WithLogger(c.logger),
		instance.WithIdentifierLength(c.config.ObjectIDLength()))
}

// Register adds s to the fan-out. s loads right away when a save is active.
func (c *Coordinator) Register(s *saveable.Saveable) {
	if s == nil {
		return
	}

	ids := identificationsOf(s)

	c.mu.Lock()
	if slices.Contains(c.registries, s) {
		c.mu.Unlock()
		return
	}
	c.registries = append(c.registries, s)
	collisions := c.index(s, ids)
	backend := c.active
	c.mu.Unlock()

	c.warnCollisions(s, collisions)

	if backend != nil {
		s.OnLoadRequest(backend)
	}
}

// Unregister removes s from the fan-out, saving it first into the active save
// when flushOnRemove is set
func (c *Coordinator) Unregister(s *saveable.Saveable, flushOnRemove bool) {
	c.mu.Lock()
	c.registries = slices.DeleteFunc(c.registries, func(r *saveable.Saveable) bool { return r == s })
	c.unindex(s)
	backend := c.active
	c.mu.Unlock()

	if flushOnRemove && backend != nil {
		s.OnSaveRequest(backend)
	}
}

// RequestReload loads s from the active save.
// The identifiers of a registered s are indexed again since they may have changed.
func (c *Coordinator) RequestReload(s *saveable.Saveable) {
	ids := identificationsOf(s)

	c.mu.Lock()
	var collisions []string
	if slices.Contains(c.registries, s) {
		c.unindex(s)
		collisions = c.index(s, ids)
	}
	backend := c.active
	c.mu.Unlock()

	c.warnCollisions(s, collisions)

	if backend != nil {
		s.OnLoadRequest(backend)
	}
}

// Listeners returns the registered registries in registration order
func (c *Coordinator) Listeners() []*saveable.Saveable {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.registries)
}

// ActiveSlot returns the active slot or NoSlot
func (c *Coordinator) ActiveSlot() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeSlot
}

// ActiveSave returns the active save, or nil
func (c *Coordinator) ActiveSave() storage.Backend {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// HasActiveSave reports whether a save is bound
func (c *Coordinator) HasActiveSave() bool {
	return c.ActiveSave() != nil
}

// SetSlot makes the save of slot active, creating it in memory when the slot is empty.
// Every registry has its state reset, and loads from the new save when reload is set.
func (c *Coordinator) SetSlot(slotNumber int, reload bool) error {
	backend, err := c.slots.Load(slotNumber, true)
	if err != nil {
		return err
	}
	c.activate(slotNumber, backend, true, reload)
	return nil
}

// SetSlotToTemporary binds the in-memory temporary slot. With keepData the
// content of the current save is carried over and the registries are left as is.
func (c *Coordinator) SetSlotToTemporary(keepData bool) error {
	backend, err := c.slots.Load(slot.TemporarySlot, true)
	if err != nil {
		return err
	}

	if current := c.ActiveSave(); keepData && current != nil {
		for _, entry := range current.Entries() {
			backend.Set(entry.Key, entry.Payload, entry.Scene)
		}
		for key, value := range current.MetaData() {
			backend.SetMetaData(key, value)
		}
	}

	c.activate(slot.TemporarySlot, backend, !keepData, !keepData)
	return nil
}

func (c *Coordinator) activate(slotNumber int, backend storage.Backend, reset, reload bool) {
	c.mu.Lock()
	from := c.activeSlot
	c.mu.Unlock()

	c.events.Publish(eventstream.SlotTopic, &eventstream.SlotChangeBegin{From: from, To: slotNumber})

	c.mu.Lock()
	c.activeSlot = slotNumber
	c.active = backend
	registries := slices.Clone(c.registries)
	c.mu.Unlock()

	ctx := context.Background()
	if reset {
		for _, s := range registries {
			s.ResetState()
		}
	}
	if reload {
		for _, s := range registries {
			s.OnLoadRequest(backend)
		}
		c.metric.RecordLoad(ctx, slotNumber, len(registries))
	}

	c.metric.RecordSlotChange(ctx, slotNumber)
	c.logger.Infof("active slot changed from %d to %d", from, slotNumber)
	c.events.Publish(eventstream.SlotTopic, &eventstream.SlotChangeDone{From: from, To: slotNumber})
}

// SaveAll asks every registry to save into the active save
func (c *Coordinator) SaveAll() error {
	c.mu.Lock()
	backend := c.active
	slotNumber := c.activeSlot
	registries := slices.Clone(c.registries)
	c.mu.Unlock()

	if backend == nil {
		return gerrors.ErrNoActiveSave
	}

	for _, s := range registries {
		s.OnSaveRequest(backend)
	}
	c.metric.RecordSave(context.Background(), slotNumber, len(registries))
	return nil
}

// LoadAll asks every registry to load from the active save
func (c *Coordinator) LoadAll() error {
	c.mu.Lock()
	backend := c.active
	slotNumber := c.activeSlot
	registries := slices.Clone(c.registries)
	c.mu.Unlock()

	if backend == nil {
		return gerrors.ErrNoActiveSave
	}

	for _, s := range registries {
		s.OnLoadRequest(backend)
	}
	c.metric.RecordLoad(context.Background(), slotNumber, len(registries))
	return nil
}

// WriteActiveSaveToDisk saves every registry and writes the active save to its slot file.
// The temporary slot stays in memory.
func (c *Coordinator) WriteActiveSaveToDisk() error {
	if err := c.SaveAll(); err != nil {
		return err
	}

	c.mu.Lock()
	backend := c.active
	slotNumber := c.activeSlot
	c.mu.Unlock()

	c.events.Publish(eventstream.WriteTopic, &eventstream.WriteBegin{Slot: slotNumber})

	start := time.Now()
	err := c.slots.Write(backend, slotNumber)
	c.metric.RecordWrite(context.Background(), slotNumber, time.Since(start), err)
	if err != nil {
		c.logger.Errorf("failed to write slot %d: %v", slotNumber, err)
	}

	c.events.Publish(eventstream.WriteTopic, &eventstream.WriteDone{Slot: slotNumber, Err: err})
	return err
}

// WipeSaveable removes the data of s from the active save and stops it from saving
func (c *Coordinator) WipeSaveable(s *saveable.Saveable) {
	s.WipeData(c.ActiveSave(), true)
}

// WipeSceneData removes every payload written under scene from the active save
func (c *Coordinator) WipeSceneData(scene string) error {
	backend := c.ActiveSave()
	if backend == nil {
		return gerrors.ErrNoActiveSave
	}
	backend.WipeSceneData(scene)
	c.events.Publish(eventstream.WipeTopic, &eventstream.SceneWiped{Scene: scene})
	return nil
}

// SetMetaData sets a metadata value of the active save. A save bound to a slot
// file has its sidecar patched too, so the value is readable before the next write.
func (c *Coordinator) SetMetaData(key, value string) error {
	c.mu.Lock()
	backend := c.active
	slotNumber := c.activeSlot
	c.mu.Unlock()

	if backend == nil {
		return gerrors.ErrNoActiveSave
	}

	backend.SetMetaData(key, value)
	if slotNumber < 0 {
		return nil
	}
	return c.slots.WriteMetaData(slotNumber, key, value)
}

// GetMetaData returns a metadata value of the active save
func (c *Coordinator) GetMetaData(key string) (string, bool) {
	backend := c.ActiveSave()
	if backend == nil {
		return "", false
	}
	return backend.GetMetaData(key)
}

// GetSlotMetaData reads a metadata value of slot from its sidecar without loading the save
func (c *Coordinator) GetSlotMetaData(slotNumber int, key string) (string, bool, error) {
	return c.slots.LoadMetaData(slotNumber, key)
}

// DeleteSave removes the save file of slot. Deleting the active slot unbinds the active save.
func (c *Coordinator) DeleteSave(slotNumber int) error {
	if err := c.slots.Delete(slotNumber); err != nil {
		return err
	}

	c.mu.Lock()
	unbound := c.activeSlot == slotNumber
	if unbound {
		c.activeSlot = NoSlot
		c.active = nil
	}
	c.mu.Unlock()

	if unbound {
		c.logger.Infof("active slot %d deleted", slotNumber)
	}
	return nil
}

// index claims ids for s, first claim wins, and returns the ones already owned by another registry.
// It must be called with the lock held.
func (c *Coordinator) index(s *saveable.Saveable, ids []string) []string {
	var collisions []string
	for _, id := range ids {
		if owner, ok := c.owners[id]; ok && owner != s {
			collisions = append(collisions, id)
			continue
		}
		c.owners[id] = s
	}
	c.identifiers[s] = ids
	return collisions
}

// unindex releases the ids claimed by s. It must be called with the lock held.
func (c *Coordinator) unindex(s *saveable.Saveable) {
	for _, id := range c.identifiers[s] {
		if c.owners[id] == s {
			delete(c.owners, id)
		}
	}
	delete(c.identifiers, s)
}

func (c *Coordinator) warnCollisions(s *saveable.Saveable, collisions []string) {
	for _, id := range collisions {
		c.logger.Warnf("registry %s: %v", s.SaveIdentification(), gerrors.NewErrIdentifierCollision(id))
	}
}

func identificationsOf(s *saveable.Saveable) []string {
	if !s.HasIdentification() {
		return nil
	}
	return s.Identifications()
}

// Close shuts down the event subscribers
func (c *Coordinator) Close() {
	c.events.Close()
}
