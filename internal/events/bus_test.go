package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindNames(t *testing.T) {
	assert.Equal(t, "resource:change", ResourceChange.String())
	assert.Equal(t, "game:victory", GameVictory.String())
	assert.Equal(t, "notification", Notification.String())
	assert.Equal(t, "unknown", Kind(999).String())

	for _, k := range AllKinds() {
		parsed, ok := ParseKind(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, parsed)
	}

	_, ok := ParseKind("nope")
	assert.False(t, ok)
}

func TestBusDispatchOrder(t *testing.T) {
	bus := NewBus(nil)
	var got []string

	bus.SubscribeAll(func(e Event) { got = append(got, "all:"+e.Kind.String()) })
	bus.Subscribe(EraChange, func(e Event) { got = append(got, "first") })
	bus.Subscribe(EraChange, func(e Event) { got = append(got, "second") })

	bus.Emit(EraChange, EraChanged{From: 1, To: 2})

	assert.Equal(t, []string{"first", "second", "all:era:change"}, got)
}

func TestBusPanickingListenerIsolated(t *testing.T) {
	bus := NewBus(nil)
	var calls int

	bus.Subscribe(StructureBuilt, func(Event) { panic("boom") })
	bus.Subscribe(StructureBuilt, func(Event) { calls++ })

	require.NotPanics(t, func() {
		bus.Emit(StructureBuilt, StructureCompleted{Structure: "solar_panel", Count: 1})
	})
	assert.Equal(t, 1, calls)
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus(nil)
	var calls int

	unsubscribe := bus.Subscribe(ResearchStart, func(Event) { calls++ })
	assert.Equal(t, 1, bus.ListenerCount(ResearchStart))

	bus.Emit(ResearchStart, ResearchStarted{Tech: "rocketry"})
	unsubscribe()
	bus.Emit(ResearchStart, ResearchStarted{Tech: "rocketry"})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, bus.ListenerCount(ResearchStart))
}

func TestBusUnsubscribeDuringDispatch(t *testing.T) {
	bus := NewBus(nil)
	var calls int

	var unsubscribe func()
	unsubscribe = bus.Subscribe(Notification, func(Event) {
		calls++
		unsubscribe()
	})

	bus.Notify(Notice{Severity: SeverityInfo, Title: "hello"})
	bus.Notify(Notice{Severity: SeverityInfo, Title: "again"})

	assert.Equal(t, 1, calls)
}

func TestConstructionProgressFraction(t *testing.T) {
	assert.Equal(t, 0.5, ConstructionProgressed{Progress: 2.5, BuildTime: 5}.Fraction())
	assert.Equal(t, 1.0, ConstructionProgressed{Progress: 7, BuildTime: 5}.Fraction())
	assert.Equal(t, 1.0, ConstructionProgressed{}.Fraction())
}
