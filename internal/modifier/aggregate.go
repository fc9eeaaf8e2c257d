package modifier

// Op is the reducer operation of a delta.
type Op string

const (
	OpAdd      Op = "add"
	OpMultiply Op = "mul"
)

// Delta is a single command applied by Aggregate.Apply.
type Delta struct {
	Channel Channel `json:"channel"`
	Op      Op      `json:"op"`
	Value   float64 `json:"value"`
	Source  string  `json:"source,omitempty"`
}

// Aggregate is the mutable set of modifier channels for one session.
// Channels are never removed; unset channels read as their baseline.
type Aggregate struct {
	values  map[Channel]float64
	history []Delta
}

// NewAggregate creates an aggregate with every channel at its baseline.
func NewAggregate() *Aggregate {
	return &Aggregate{
		values: make(map[Channel]float64),
	}
}

// Apply reduces the deltas into the aggregate in order.
// Deltas on unknown channels or with an unknown op are dropped.
func (a *Aggregate) Apply(deltas ...Delta) int {
	applied := 0
	for _, d := range deltas {
		if !d.Channel.IsValid() {
			continue
		}
		current, ok := a.values[d.Channel]
		if !ok {
			current = d.Channel.Baseline()
		}
		switch d.Op {
		case OpAdd:
			current += d.Value
		case OpMultiply:
			current *= d.Value
		default:
			continue
		}
		a.values[d.Channel] = current
		a.history = append(a.history, d)
		applied++
	}
	return applied
}

// Get returns the current value of a channel.
func (a *Aggregate) Get(c Channel) float64 {
	if v, ok := a.values[c]; ok {
		return v
	}
	return c.Baseline()
}

// Snapshot returns a copy of every channel value, baselines included.
func (a *Aggregate) Snapshot() map[Channel]float64 {
	result := make(map[Channel]float64, len(channels))
	for c := range channels {
		result[c] = a.Get(c)
	}
	return result
}

// History returns a copy of the applied deltas in application order.
func (a *Aggregate) History() []Delta {
	result := make([]Delta, len(a.history))
	copy(result, a.history)
	return result
}

// Replay builds a fresh aggregate from a delta log.
func Replay(history []Delta) *Aggregate {
	a := NewAggregate()
	a.Apply(history...)
	return a
}
