// internal/events/registry_test.go
package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Unmarshal(t *testing.T) {
	registry := NewRegistry()
	registry.Register(EventAcquisitionQueued, func() Event { return &AcquisitionQueued{} })

	raw := RawEvent{
		EventType: EventAcquisitionQueued,
		Payload:   `{"type":"acquisition.queued","entity_type":"acquisition","entity_id":"nxm://skyrimse/mods/266/files/1000","occurred_at":"2024-01-01T00:00:00Z","task_id":"t-1","source":"nxm://skyrimse/mods/266/files/1000","game_mode":"skyrimse","reloaded":true}`,
	}

	event, err := registry.Unmarshal(raw)
	require.NoError(t, err)

	queued, ok := event.(*AcquisitionQueued)
	require.True(t, ok)
	assert.Equal(t, "t-1", queued.TaskID)
	assert.Equal(t, "skyrimse", queued.GameMode)
	assert.True(t, queued.Reloaded)
	assert.Equal(t, "nxm://skyrimse/mods/266/files/1000", queued.EntityID())
}

func TestRegistry_UnmarshalUnknownType(t *testing.T) {
	registry := NewRegistry()

	raw := RawEvent{
		EventType: "unknown.event",
		Payload:   `{}`,
	}

	_, err := registry.Unmarshal(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
}

func TestRegistry_UnmarshalInvalidJSON(t *testing.T) {
	registry := NewRegistry()
	registry.Register(EventAcquisitionQueued, func() Event { return &AcquisitionQueued{} })

	raw := RawEvent{
		EventType: EventAcquisitionQueued,
		Payload:   `{invalid json`,
	}

	_, err := registry.Unmarshal(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal event payload")
}

func TestDefaultRegistry(t *testing.T) {
	registry := DefaultRegistry()

	eventTypes := []string{
		EventAcquisitionQueued,
		EventAcquisitionCompleted,
		EventAcquisitionFailed,
		EventAcquisitionCancelled,
		EventAcquisitionSuspended,
		EventModRegistered,
		EventModTagged,
	}

	for _, eventType := range eventTypes {
		t.Run(eventType, func(t *testing.T) {
			raw := RawEvent{
				EventType: eventType,
				Payload:   `{"type":"` + eventType + `","entity_type":"acquisition","entity_id":"k","occurred_at":"2024-01-01T00:00:00Z"}`,
			}
			event, err := registry.Unmarshal(raw)
			require.NoError(t, err, "Failed to unmarshal %s", eventType)
			assert.Equal(t, eventType, event.EventType())
		})
	}
}

func TestRegistry_UnmarshalCompleted(t *testing.T) {
	registry := DefaultRegistry()

	raw := RawEvent{
		EventType: EventAcquisitionCompleted,
		Payload:   `{"type":"acquisition.completed","entity_type":"acquisition","entity_id":"k","occurred_at":"2024-01-01T12:00:00Z","task_id":"t-9","source":"k","paths":["/mods/a.esp","/mods/b.esp"]}`,
	}

	event, err := registry.Unmarshal(raw)
	require.NoError(t, err)

	completed, ok := event.(*AcquisitionCompleted)
	require.True(t, ok)
	assert.Equal(t, []string{"/mods/a.esp", "/mods/b.esp"}, completed.Paths)
	assert.Equal(t, "t-9", completed.TaskID)
}
