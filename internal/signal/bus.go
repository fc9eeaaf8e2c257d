// Package signal is a synchronous publish/subscribe bus for progression events.
package signal

import "sync"

// Topic names a signal.
type Topic string

const (
	JobChosen                    Topic = "job_chosen"
	SkillUpgraded                Topic = "skill_upgraded"
	MasterySkillUpgraded         Topic = "mastery_skill_upgraded"
	WeaponAdded                  Topic = "weapon_added"
	WeaponUpgraded               Topic = "weapon_upgraded"
	EnchantApplied               Topic = "enchant_applied"
	EnchantUpgraded              Topic = "enchant_upgraded"
	ElementApplied               Topic = "element_applied"
	ElementUpgraded              Topic = "element_upgraded"
	StatsChanged                 Topic = "stats_changed"
	SynergySkillUpgradeRequested Topic = "synergy_skill_upgrade_requested"
	SynergyActivated             Topic = "synergy_activated"
	Awakening                    Topic = "awakening"
	PassiveAdvanced              Topic = "passive_advanced"
	EnhancementPicked            Topic = "enhancement_picked"
)

// Handler receives a signal payload.
type Handler func(args ...any)

type subscription struct {
	id      int
	handler Handler
}

// Bus dispatches signals to the handlers subscribed at publish time, in
// subscription order. Handlers run on the publisher's goroutine.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[Topic][]subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[Topic][]subscription),
	}
}

// Subscribe registers a handler and returns a function that removes it.
func (b *Bus) Subscribe(topic Topic, handler Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, handler: handler})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[topic]
		for i, s := range subs {
			if s.id == id {
				b.subs[topic] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers a signal synchronously. Handlers subscribed while the
// signal is being delivered do not receive it.
func (b *Bus) Publish(topic Topic, args ...any) {
	b.mu.Lock()
	snapshot := make([]subscription, len(b.subs[topic]))
	copy(snapshot, b.subs[topic])
	b.mu.Unlock()

	for _, s := range snapshot {
		s.handler(args...)
	}
}

// SubscriberCount returns the number of handlers for a topic.
func (b *Bus) SubscriberCount(topic Topic) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[topic])
}
