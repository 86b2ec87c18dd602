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

package saveable

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/tochemey/savekit/log"
	"github.com/tochemey/savekit/storage"
)

// DynamicPrefix prefixes the component keys derived for participants added at runtime
const DynamicPrefix = "Dyn"

type component struct {
	key         string
	participant Participant
}

// Saveable is the registry of the participants of one object.
// Every participant is stored under <identification>-<componentKey>.
// An empty identification makes the registry inert.
type Saveable struct {
	mu sync.Mutex

	identification string
	scene          string
	components     []component

	coordinator Coordinator
	clock       Clock
	loaded      *LoadedSet
	logger      log.Logger

	loadOnce                  bool
	manualSaveLoad            bool
	saveWhenDisabled          bool
	deactivateWhenInitialized bool

	initialized bool
	registered  bool
	active      bool
	destroyed   bool
	disableTick uint64

	hasLoaded              bool
	hasStateReset          bool
	hasLoadedAnyComponents bool
	hasSavedAnyComponents  bool
}

// New creates an unregistered Saveable
func New(identification string, opts ...Option) *Saveable {
	s := &Saveable{
		identification:   identification,
		clock:            NewTickClock(),
		loaded:           NewLoadedSet(),
		logger:           log.DiscardLogger,
		saveWhenDisabled: true,
	}
	for _, opt := range opts {
		opt.Apply(s)
	}
	return s
}

// Activate initializes the registry and registers it with the coordinator
// unless it is in manual mode. Later calls are no-ops.
func (s *Saveable) Activate() {
	s.mu.Lock()
	if s.initialized || s.destroyed {
		s.mu.Unlock()
		return
	}

	s.initialized = true
	s.active = true
	if s.deactivateWhenInitialized {
		s.active = false
		s.disableTick = s.clock.Tick()
	}

	register := !s.manualSaveLoad && s.coordinator != nil
	s.registered = register
	coordinator := s.coordinator
	s.mu.Unlock()

	if register {
		coordinator.Register(s)
	}
}

// Enable marks the owning object active
func (s *Saveable) Enable() {
	s.mu.Lock()
	s.active = true
	s.mu.Unlock()
}

// Disable marks the owning object inactive and records the tick
func (s *Saveable) Disable() {
	s.mu.Lock()
	s.active = false
	s.disableTick = s.clock.Tick()
	s.mu.Unlock()
}

// Destroy unregisters the registry, flushing its state into the active save,
// unless it is in manual mode. The participants are released.
// An active registry is disabled at the current tick, so the flush falls within the grace window.
func (s *Saveable) Destroy() {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	s.destroyed = true
	if s.active {
		s.active = false
		s.disableTick = s.clock.Tick()
	}
	unregister := !s.manualSaveLoad && s.registered && s.coordinator != nil
	s.registered = false
	coordinator := s.coordinator
	s.mu.Unlock()

	if unregister {
		coordinator.Unregister(s, true)
	}

	s.mu.Lock()
	s.components = nil
	s.mu.Unlock()
}

// SaveIdentification returns the object identifier
func (s *Saveable) SaveIdentification() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identification
}

// SetSaveIdentification sets the object identifier.
// Going from empty to non-empty asks the coordinator for a reload.
func (s *Saveable) SetSaveIdentification(identification string) {
	s.mu.Lock()
	wasEmpty := s.identification == ""
	s.identification = identification
	reload := wasEmpty && identification != "" && s.coordinator != nil
	coordinator := s.coordinator
	s.mu.Unlock()

	if reload {
		coordinator.RequestReload(s)
	}
}

// Scene returns the scene tag
func (s *Saveable) Scene() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene
}

// SetScene sets the scene tag used by subsequent saves
func (s *Saveable) SetScene(scene string) {
	s.mu.Lock()
	s.scene = scene
	s.mu.Unlock()
}

// AddParticipant registers participant under key. A participant already
// registered under key is replaced. reload must only be set when adding a
// single participant, since every sibling is loaded again.
func (s *Saveable) AddParticipant(key string, participant Participant, reload bool) {
	s.mu.Lock()
	s.upsert(key, participant)
	coordinator := s.coordinator
	s.mu.Unlock()

	if reload && coordinator != nil {
		coordinator.RequestReload(s)
	}
}

// ScanAddParticipants registers participants under Dyn-<typeName>-<index>
// keys and then asks for a single reload
func (s *Saveable) ScanAddParticipants(participants ...Participant) {
	if len(participants) == 0 {
		return
	}

	s.mu.Lock()
	for index, participant := range participants {
		s.upsert(DynamicComponentKey(typeName(participant), index), participant)
	}
	coordinator := s.coordinator
	s.mu.Unlock()

	if coordinator != nil {
		coordinator.RequestReload(s)
	}
}

func (s *Saveable) upsert(key string, participant Participant) {
	for i := range s.components {
		if s.components[i].key == key {
			s.components[i].participant = participant
			return
		}
	}
	s.components = append(s.components, component{key: key, participant: participant})
}

// ComponentKeys returns the component keys in registration order
func (s *Saveable) ComponentKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.components))
	for _, c := range s.components {
		keys = append(keys, c.key)
	}
	return keys
}

// Identifications returns the composite identifiers in registration order
func (s *Saveable) Identifications() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.components))
	for _, c := range s.components {
		ids = append(ids, CompositeIdentifier(s.identification, c.key))
	}
	return ids
}

// ParticipantCount returns the number of registered participants
func (s *Saveable) ParticipantCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.components)
}

// IsParticipantLoaded reports whether the payload of the participant under key
// has been applied since the last boot
func (s *Saveable) IsParticipantLoaded(key string) bool {
	s.mu.Lock()
	id := CompositeIdentifier(s.identification, key)
	s.mu.Unlock()
	return s.loaded.Contains(id)
}

// OnSaveRequest writes every eligible participant into backend
func (s *Saveable) OnSaveRequest(backend storage.Backend) {
	s.mu.Lock()
	s.hasSavedAnyComponents = false
	if backend == nil || s.identification == "" {
		s.mu.Unlock()
		return
	}

	if !s.saveWhenDisabled && !s.active && !s.withinGrace() {
		s.mu.Unlock()
		return
	}

	identification := s.identification
	scene := s.scene
	force := s.hasStateReset
	components := append([]component(nil), s.components...)
	s.mu.Unlock()

	var (
		stale []string
		saved bool
	)

	for i := len(components) - 1; i >= 0; i-- {
		c := components[i]
		id := CompositeIdentifier(identification, c.key)
		if isStale(c.participant) {
			s.logger.Debugf("failed to save component %s, the component is potentially destroyed", id)
			stale = append(stale, c.key)
			continue
		}

		if !force && !s.shouldSave(id, c.participant) {
			continue
		}

		payload, ok := s.serialize(id, c.participant)
		if !ok || payload == "" {
			continue
		}

		backend.Set(id, payload, scene)
		saved = true
	}

	s.mu.Lock()
	s.prune(stale)
	s.hasSavedAnyComponents = saved
	s.hasStateReset = false
	s.mu.Unlock()
}

// OnLoadRequest restores every participant that has a payload in backend.
// A load-once registry ignores every request after its first load.
func (s *Saveable) OnLoadRequest(backend storage.Backend) {
	s.mu.Lock()
	s.hasLoadedAnyComponents = false
	if backend == nil || (s.loadOnce && s.hasLoaded) || s.identification == "" {
		s.mu.Unlock()
		return
	}

	s.hasLoaded = true
	identification := s.identification
	components := append([]component(nil), s.components...)
	s.mu.Unlock()

	var (
		stale  []string
		loaded bool
	)

	for i := len(components) - 1; i >= 0; i-- {
		c := components[i]
		id := CompositeIdentifier(identification, c.key)
		if isStale(c.participant) {
			s.logger.Debugf("failed to load component %s, the component is potentially destroyed", id)
			stale = append(stale, c.key)
			continue
		}

		payload := backend.Get(id)
		if payload == "" {
			continue
		}

		if !s.deserialize(id, c.participant, payload) {
			continue
		}

		loaded = true
		s.loaded.Add(id)
	}

	s.mu.Lock()
	s.prune(stale)
	s.hasLoadedAnyComponents = loaded
	s.mu.Unlock()
}

// WipeData removes every payload of the registry from backend. With stopSaving
// the registry switches to manual mode and leaves the coordinator, so it is not
// saved again before it goes away.
func (s *Saveable) WipeData(backend storage.Backend, stopSaving bool) {
	ids := s.Identifications()
	if backend != nil {
		for i := len(ids) - 1; i >= 0; i-- {
			backend.Remove(ids[i])
		}
	}

	if !stopSaving {
		return
	}

	s.mu.Lock()
	s.manualSaveLoad = true
	s.registered = false
	coordinator := s.coordinator
	s.mu.Unlock()

	if coordinator != nil {
		coordinator.Unregister(s, false)
	}
}

// ResetState prepares the registry for a different save: it may load again
// and its next save ignores the participants' ShouldSave
func (s *Saveable) ResetState() {
	s.mu.Lock()
	s.loadOnce = false
	s.hasLoaded = false
	s.hasStateReset = true
	s.mu.Unlock()
}

// LoadOnce reports whether the registry loads at most once
func (s *Saveable) LoadOnce() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadOnce
}

// HasLoaded reports whether a load has been applied
func (s *Saveable) HasLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasLoaded
}

// HasStateReset reports whether a state reset is pending
func (s *Saveable) HasStateReset() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasStateReset
}

// HasIdentification reports whether the registry has an identifier
func (s *Saveable) HasIdentification() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identification != ""
}

// ManualSaveLoad reports whether the registry is out of the coordinator fan-out
func (s *Saveable) ManualSaveLoad() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manualSaveLoad
}

// SetManualSaveLoad switches manual mode. It does not register or unregister.
func (s *Saveable) SetManualSaveLoad(manual bool) {
	s.mu.Lock()
	s.manualSaveLoad = manual
	s.mu.Unlock()
}

// SaveWhenDisabled reports whether the registry saves while disabled
func (s *Saveable) SaveWhenDisabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveWhenDisabled
}

// SetSaveWhenDisabled sets whether the registry saves while disabled
func (s *Saveable) SetSaveWhenDisabled(enabled bool) {
	s.mu.Lock()
	s.saveWhenDisabled = enabled
	s.mu.Unlock()
}

// IsActive reports whether the owning object is active
func (s *Saveable) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// IsDestroyed reports whether Destroy was called
func (s *Saveable) IsDestroyed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyed
}

// IsRegistered reports whether the registry registered with its coordinator
func (s *Saveable) IsRegistered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registered
}

// HasLoadedAnyComponents reports whether the last load applied a payload
func (s *Saveable) HasLoadedAnyComponents() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasLoadedAnyComponents
}

// HasSavedAnyComponents reports whether the last save wrote a payload
func (s *Saveable) HasSavedAnyComponents() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasSavedAnyComponents
}

// withinGrace reports whether the last Disable happened within GraceTicks
func (s *Saveable) withinGrace() bool {
	now := s.clock.Tick()
	return now >= s.disableTick && now-s.disableTick <= GraceTicks
}

func (s *Saveable) prune(keys []string) {
	if len(keys) == 0 {
		return
	}
	stale := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		stale[key] = struct{}{}
	}
	kept := s.components[:0]
	for _, c := range s.components {
		if _, ok := stale[c.key]; !ok {
			kept = append(kept, c)
		}
	}
	clear(s.components[len(kept):])
	s.components = kept
}

func (s *Saveable) shouldSave(id string, p Participant) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("component %s panicked in ShouldSave: %v", id, r)
			ok = false
		}
	}()
	return p.ShouldSave()
}

func (s *Saveable) serialize(id string, p Participant) (payload string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("component %s panicked in Serialize: %v", id, r)
			payload, ok = "", false
		}
	}()
	return p.Serialize(), true
}

func (s *Saveable) deserialize(id string, p Participant, payload string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("component %s panicked in Deserialize: %v", id, r)
			ok = false
		}
	}()
	p.Deserialize(payload)
	return true
}

// CompositeIdentifier returns the storage key of a component
func CompositeIdentifier(identification, componentKey string) string {
	return identification + "-" + componentKey
}

// DynamicComponentKey returns the key of the participant at index of a scan
func DynamicComponentKey(typeName string, index int) string {
	return fmt.Sprintf("%s-%s-%d", DynamicPrefix, typeName, index)
}

func typeName(p Participant) string {
	if namer, ok := p.(TypeNamer); ok {
		return namer.SaveTypeName()
	}
	t := reflect.TypeOf(p)
	if t == nil {
		return "nil"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
