package signal

import (
	"reflect"
	"testing"
)

func TestPublishInOrder(t *testing.T) {
	bus := NewBus()
	var got []string

	bus.Subscribe(JobChosen, func(args ...any) { got = append(got, "first:"+args[0].(string)) })
	bus.Subscribe(JobChosen, func(args ...any) { got = append(got, "second:"+args[0].(string)) })
	bus.Subscribe(WeaponAdded, func(args ...any) { got = append(got, "weapon") })

	bus.Publish(JobChosen, "knight")

	want := []string{"first:knight", "second:knight"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestLateSubscriberMissesEarlierSignal(t *testing.T) {
	bus := NewBus()
	bus.Publish(StatsChanged)

	count := 0
	bus.Subscribe(StatsChanged, func(args ...any) { count++ })
	if count != 0 {
		t.Errorf("late subscriber received %d signals, want 0", count)
	}

	bus.Publish(StatsChanged)
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestSubscribeDuringPublish(t *testing.T) {
	bus := NewBus()
	inner := 0

	bus.Subscribe(Awakening, func(args ...any) {
		bus.Subscribe(Awakening, func(args ...any) { inner++ })
	})

	bus.Publish(Awakening)
	if inner != 0 {
		t.Errorf("handler added during publish was called %d times", inner)
	}
	if bus.SubscriberCount(Awakening) != 2 {
		t.Errorf("SubscriberCount = %d, want 2", bus.SubscriberCount(Awakening))
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()
	count := 0

	unsubscribe := bus.Subscribe(SkillUpgraded, func(args ...any) { count++ })
	bus.Publish(SkillUpgraded, "cleave", 2)
	unsubscribe()
	bus.Publish(SkillUpgraded, "cleave", 3)

	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if bus.SubscriberCount(SkillUpgraded) != 0 {
		t.Errorf("SubscriberCount = %d, want 0", bus.SubscriberCount(SkillUpgraded))
	}
}

func TestVariadicPayload(t *testing.T) {
	bus := NewBus()
	var payload []any

	bus.Subscribe(EnchantUpgraded, func(args ...any) { payload = args })
	bus.Publish(EnchantUpgraded, "longsword", "venom", 3)

	want := []any{"longsword", "venom", 3}
	if !reflect.DeepEqual(payload, want) {
		t.Errorf("payload = %v, want %v", payload, want)
	}
}
