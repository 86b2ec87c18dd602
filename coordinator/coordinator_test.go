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
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/tochemey/savekit/config"
	gerrors "github.com/tochemey/savekit/errors"
	"github.com/tochemey/savekit/eventstream"
	"github.com/tochemey/savekit/instance"
	"github.com/tochemey/savekit/log"
	"github.com/tochemey/savekit/saveable"
	"github.com/tochemey/savekit/slot"
)

type stat struct {
	value string
	loads []string
}

func (s *stat) Serialize() string {
	return s.value
}

func (s *stat) Deserialize(payload string) {
	s.value = payload
	s.loads = append(s.loads, payload)
}

func (s *stat) ShouldSave() bool {
	return true
}

func newCoordinator(t *testing.T, root string, opts ...config.Option) *Coordinator {
	t.Helper()
	opts = append([]config.Option{
		config.WithRootPath(root),
		config.WithLogger(log.DiscardLogger),
	}, opts...)
	cfg, err := config.New(opts...)
	require.NoError(t, err)

	c, err := New(cfg, WithMeterProvider(noop.NewMeterProvider()))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func drain(sub eventstream.Subscriber) []any {
	var events []any
	for message := range sub.Iterator() {
		events = append(events, message.Payload())
	}
	return events
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, gerrors.ErrInvalidConfig)

	c := newCoordinator(t, t.TempDir())
	assert.Equal(t, NoSlot, c.ActiveSlot())
	assert.False(t, c.HasActiveSave())
	assert.NotNil(t, c.Slots())
	assert.NotNil(t, c.LoadedSet())
	assert.Zero(t, c.Clock().Tick())
	assert.EqualValues(t, 1, c.Advance())
}

func TestWithoutActiveSave(t *testing.T) {
	c := newCoordinator(t, t.TempDir())
	hp := &stat{value: "1"}
	hero := c.NewSaveable("Hero", saveable.WithParticipant("HP", hp))
	hero.Activate()

	require.ErrorIs(t, c.SaveAll(), gerrors.ErrNoActiveSave)
	require.ErrorIs(t, c.LoadAll(), gerrors.ErrNoActiveSave)
	require.ErrorIs(t, c.WriteActiveSaveToDisk(), gerrors.ErrNoActiveSave)
	require.ErrorIs(t, c.WipeSceneData("Farm"), gerrors.ErrNoActiveSave)
	require.ErrorIs(t, c.SetMetaData("k", "v"), gerrors.ErrNoActiveSave)

	_, ok := c.GetMetaData("k")
	assert.False(t, ok)

	c.RequestReload(hero)
	assert.False(t, hero.HasLoaded())
	hero.Destroy()
	assert.Empty(t, c.Listeners())
}

func TestSaveWriteAndReload(t *testing.T) {
	root := t.TempDir()
	c := newCoordinator(t, root)
	sub := c.Events().AddSubscriber()
	c.Events().Subscribe(sub, eventstream.SlotTopic)
	c.Events().Subscribe(sub, eventstream.WriteTopic)

	hp := &stat{}
	hero := c.NewSaveable("Hero", saveable.WithScene("Farm"), saveable.WithParticipant("HP", hp))
	hero.Activate()
	c.Register(hero)
	require.Len(t, c.Listeners(), 1)

	require.NoError(t, c.SetSlot(0, true))
	assert.Equal(t, 0, c.ActiveSlot())
	assert.True(t, hero.HasLoaded())

	hp.value = "100"
	require.NoError(t, c.WriteActiveSaveToDisk())
	used, err := c.Slots().IsSlotUsed(0)
	require.NoError(t, err)
	assert.True(t, used)

	assert.Equal(t, []any{
		&eventstream.SlotChangeBegin{From: NoSlot, To: 0},
		&eventstream.SlotChangeDone{From: NoSlot, To: 0},
		&eventstream.WriteBegin{Slot: 0},
		&eventstream.WriteDone{Slot: 0},
	}, drain(sub))

	other := newCoordinator(t, root)
	restored := &stat{}
	require.NoError(t, other.SetSlot(0, true))
	late := other.NewSaveable("Hero", saveable.WithParticipant("HP", restored))
	late.Activate()
	assert.Equal(t, []string{"100"}, restored.loads)

	require.NoError(t, other.WipeSceneData("Farm"))
	assert.Empty(t, other.ActiveSave().Get("Hero-HP"))
}

func TestSetSlotResetsState(t *testing.T) {
	root := t.TempDir()
	c := newCoordinator(t, root)
	for slotNumber, value := range []string{"A", "B"} {
		backend, err := c.Slots().Load(slotNumber, true)
		require.NoError(t, err)
		backend.Set("Player-HP", value, "")
		require.NoError(t, c.Slots().Write(backend, slotNumber))
	}

	require.NoError(t, c.SetSlot(0, true))
	hp := &stat{}
	player := c.NewSaveable("Player", saveable.WithLoadOnce(), saveable.WithParticipant("HP", hp))
	player.Activate()
	require.NoError(t, c.LoadAll())
	assert.Equal(t, []string{"A"}, hp.loads)

	require.NoError(t, c.SetSlot(1, true))
	assert.Equal(t, []string{"A", "B"}, hp.loads)

	require.NoError(t, c.SetSlot(2, false))
	assert.Equal(t, []string{"A", "B"}, hp.loads)
	assert.True(t, player.HasStateReset())
}

func TestTemporarySlot(t *testing.T) {
	root := t.TempDir()
	c := newCoordinator(t, root)
	hp := &stat{value: "7"}
	hero := c.NewSaveable("Hero", saveable.WithParticipant("HP", hp))
	hero.Activate()

	require.NoError(t, c.SetSlot(0, true))
	require.NoError(t, c.SaveAll())
	require.NoError(t, c.SetMetaData("name", "farm"))

	require.NoError(t, c.SetSlotToTemporary(true))
	assert.Equal(t, slot.TemporarySlot, c.ActiveSlot())
	assert.Equal(t, "7", c.ActiveSave().Get("Hero-HP"))
	value, ok := c.GetMetaData("name")
	require.True(t, ok)
	assert.Equal(t, "farm", value)

	require.NoError(t, c.WriteActiveSaveToDisk())
	used, err := c.Slots().UsedSlots()
	require.NoError(t, err)
	assert.Empty(t, used)

	require.NoError(t, c.SetSlotToTemporary(false))
	assert.Zero(t, c.ActiveSave().Len())
	assert.True(t, hero.HasStateReset())
}

func TestUnregisterFlushes(t *testing.T) {
	c := newCoordinator(t, t.TempDir())
	require.NoError(t, c.SetSlot(0, true))

	hp := &stat{}
	hero := c.NewSaveable("Hero", saveable.WithParticipant("HP", hp))
	hero.Activate()
	hp.value = "3"

	hero.Destroy()
	assert.Empty(t, c.Listeners())
	assert.Equal(t, "3", c.ActiveSave().Get("Hero-HP"))

	chest := c.NewSaveable("Chest", saveable.WithParticipant("Items", &stat{value: "sword"}))
	chest.Activate()
	require.NoError(t, c.SaveAll())
	c.WipeSaveable(chest)
	assert.Empty(t, c.ActiveSave().Get("Chest-Items"))
	assert.True(t, chest.ManualSaveLoad())
	assert.Empty(t, c.Listeners())
}

func TestDestroyFlushesAfterTicks(t *testing.T) {
	c := newCoordinator(t, t.TempDir())
	require.NoError(t, c.SetSlot(0, true))

	hero := c.NewSaveable("Hero", saveable.WithSaveWhenDisabled(false), saveable.WithParticipant("HP", &stat{value: "100"}))
	hero.Activate()
	for range 3 {
		c.Advance()
	}

	hero.Destroy()
	assert.Equal(t, "100", c.ActiveSave().Get("Hero-HP"))
}

func TestMetaData(t *testing.T) {
	c := newCoordinator(t, t.TempDir())
	require.NoError(t, c.SetSlot(0, true))
	require.NoError(t, c.SetMetaData("playtime", "42"))

	value, ok, err := c.GetSlotMetaData(0, "playtime")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "42", value)

	value, ok = c.GetMetaData("playtime")
	require.True(t, ok)
	assert.Equal(t, "42", value)
}

func TestDeleteSave(t *testing.T) {
	c := newCoordinator(t, t.TempDir())
	require.NoError(t, c.SetSlot(0, true))
	require.NoError(t, c.WriteActiveSaveToDisk())

	available, err := c.Slots().AvailableSlot(c.config.MaxSlots())
	require.NoError(t, err)
	assert.Equal(t, 1, available)

	path, err := c.Slots().SlotPath(0)
	require.NoError(t, err)
	require.NoError(t, c.DeleteSave(0))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, NoSlot, c.ActiveSlot())
	assert.False(t, c.HasActiveSave())

	require.ErrorIs(t, c.DeleteSave(-5), gerrors.ErrInvalidSlot)
}

func TestCollisionIsTolerated(t *testing.T) {
	buffer := new(bytes.Buffer)
	logger := log.NewZap(log.WarningLevel, buffer)
	c := newCoordinator(t, t.TempDir(), config.WithLogger(logger))

	first := c.NewSaveable("Hero", saveable.WithParticipant("HP", &stat{}))
	second := c.NewSaveable("Hero", saveable.WithParticipant("HP", &stat{}))
	first.Activate()
	require.NoError(t, logger.Flush())
	assert.Empty(t, buffer.String())

	second.Activate()
	assert.Len(t, c.Listeners(), 2)
	require.NoError(t, logger.Flush())
	assert.Contains(t, buffer.String(), "Hero-HP")

	t.Run("released identifiers can be claimed again", func(t *testing.T) {
		buffer.Reset()
		first.Destroy()
		second.Destroy()
		third := c.NewSaveable("Hero", saveable.WithParticipant("HP", &stat{}))
		third.Activate()
		require.NoError(t, logger.Flush())
		assert.Empty(t, buffer.String())
	})

	t.Run("late identification is indexed", func(t *testing.T) {
		buffer.Reset()
		anonymous := c.NewSaveable("", saveable.WithParticipant("HP", &stat{}))
		anonymous.Activate()
		require.NoError(t, logger.Flush())
		assert.Empty(t, buffer.String())

		anonymous.SetSaveIdentification("Hero")
		require.NoError(t, logger.Flush())
		assert.Contains(t, buffer.String(), "Hero-HP")
	})
}

func TestSpawnedInstances(t *testing.T) {
	root := t.TempDir()
	factory := func(crops map[string]*stat) instance.Factory {
		return instance.FactoryFunc(func(_ instance.SpawnInfo, registry *saveable.Saveable) error {
			crop := &stat{value: "seed"}
			crops[registry.SaveIdentification()] = crop
			registry.AddParticipant("Growth", crop, false)
			return nil
		})
	}

	c := newCoordinator(t, root)
	require.NoError(t, c.SetSlot(0, true))
	crops := make(map[string]*stat)
	manager, err := c.SpawnManager("Farm", factory(crops))
	require.NoError(t, err)
	manager.Activate()

	wheat, err := manager.Spawn(instance.SpawnInfo{Source: instance.SourceResource, SourceID: "Wheat"}, "")
	require.NoError(t, err)
	assert.Len(t, wheat.ID(), len("Farm-Wheat-")+config.DefaultObjectIDLength)
	corn, err := manager.Spawn(instance.SpawnInfo{Source: instance.SourceResource, SourceID: "Corn"}, "")
	require.NoError(t, err)
	crops[wheat.ID()].value = "ripe"
	assert.Len(t, c.Listeners(), 3)

	corn.HandleDestroyed(instance.CauseRemoved)
	assert.Len(t, c.Listeners(), 2)
	require.NoError(t, c.WriteActiveSaveToDisk())
	assert.Empty(t, c.ActiveSave().Get(corn.ID()+"-Growth"))

	other := newCoordinator(t, root)
	respawned := make(map[string]*stat)
	otherManager, err := other.SpawnManager("Farm", factory(respawned))
	require.NoError(t, err)
	otherManager.Activate()
	require.NoError(t, other.SetSlot(0, true))

	require.Equal(t, 1, otherManager.Len())
	assert.Equal(t, wheat.ID(), otherManager.Instances()[0].ID())
	assert.Equal(t, "ripe", respawned[wheat.ID()].value)
}
