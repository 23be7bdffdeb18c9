package drop_test

import (
	"context"
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/orchestrators/drop"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/roster"
)

func publishCommit(t *testing.T, bus events.EventBus, entry *roster.Entry) {
	t.Helper()
	event := events.NewGameEvent(drop.CommittedEventType(content.CategoryMonster), entry, nil)
	event.Context().Set(drop.ContextKeyNewSheet, true)
	require.NoError(t, bus.Publish(context.Background(), event))
}

func TestTokenUpdater_KeepsConcurrentTasksApart(t *testing.T) {
	bus := events.NewBus()
	client := &fakeTokenClient{}
	updater, err := drop.NewTokenUpdater(&drop.TokenUpdaterConfig{Client: client, Bus: bus})
	require.NoError(t, err)

	first := &roster.Entry{ID: "npc_1", SessionID: "session_1", Name: "Mage"}
	second := &roster.Entry{ID: "npc_2", SessionID: "session_1", Name: "Wolf"}
	publishCommit(t, bus, first)
	publishCommit(t, bus, second)

	firstTask := updater.TakeScheduled("npc_1")
	secondTask := updater.TakeScheduled("npc_2")
	require.NotNil(t, firstTask)
	require.NotNil(t, secondTask)
	require.NoError(t, firstTask.Await())
	require.NoError(t, secondTask.Await())

	names := make(map[string]string)
	for _, call := range client.calls() {
		names[call.EntryID] = call.Name
	}
	assert.Equal(t, map[string]string{"npc_1": "Mage", "npc_2": "Wolf"}, names)

	// A taken task is gone
	assert.Nil(t, updater.TakeScheduled("npc_1"))
}

func TestTokenUpdater_IgnoresCompanionCommits(t *testing.T) {
	bus := events.NewBus()
	client := &fakeTokenClient{}
	updater, err := drop.NewTokenUpdater(&drop.TokenUpdaterConfig{Client: client, Bus: bus})
	require.NoError(t, err)

	entry := &roster.Entry{ID: "npc_1", SessionID: "session_1", Name: "Wolf"}
	event := events.NewGameEvent(drop.CommittedEventType(content.CategoryMonster), entry, nil)
	event.Context().Set(drop.ContextKeyNewSheet, false)
	require.NoError(t, bus.Publish(context.Background(), event))

	assert.Nil(t, updater.TakeScheduled("npc_1"))
	assert.Empty(t, client.calls())
}
