package modifier

import (
	"fmt"
	"math"
	"strings"
)

// Effect is a declarative stat change authored in catalog data.
// On additive channels Amount is added; on multiplicative channels it is the factor.
type Effect struct {
	Channel Channel `yaml:"channel" json:"channel"`
	Amount  float64 `yaml:"amount" json:"amount"`
}

// Scaled returns the effect with its magnitude scaled by mult.
// Multiplicative factors scale their distance from 1.0.
func (e Effect) Scaled(mult float64) Effect {
	if e.Channel.Kind() == Multiplicative {
		return Effect{Channel: e.Channel, Amount: 1 + (e.Amount-1)*mult}
	}
	return Effect{Channel: e.Channel, Amount: e.Amount * mult}
}

// Delta converts the effect into a reducer command tagged with its source.
func (e Effect) Delta(source string) Delta {
	op := OpAdd
	if e.Channel.Kind() == Multiplicative {
		op = OpMultiply
	}
	return Delta{Channel: e.Channel, Op: op, Value: e.Amount, Source: source}
}

// String renders the effect for card descriptions, e.g. "+15% Damage".
func (e Effect) String() string {
	info := channels[e.Channel]
	value := e.Amount
	if e.Channel.Kind() == Multiplicative {
		value = (e.Amount - 1) * 100
	} else if info.percent {
		value = e.Amount * 100
	}

	sign := "+"
	if value < 0 {
		sign = "-"
		value = -value
	}

	suffix := ""
	if info.percent {
		suffix = "%"
	}
	return fmt.Sprintf("%s%s%s %s", sign, formatAmount(value), suffix, e.Channel.Label())
}

// Describe renders a list of effects scaled by mult.
func Describe(effects []Effect, mult float64) string {
	parts := make([]string, 0, len(effects))
	for _, e := range effects {
		parts = append(parts, e.Scaled(mult).String())
	}
	return strings.Join(parts, ", ")
}

// Deltas converts a list of effects scaled by mult into reducer commands.
func Deltas(effects []Effect, mult float64, source string) []Delta {
	result := make([]Delta, 0, len(effects))
	for _, e := range effects {
		result = append(result, e.Scaled(mult).Delta(source))
	}
	return result
}

func formatAmount(v float64) string {
	if math.Abs(v-math.Round(v)) < 1e-9 {
		return fmt.Sprintf("%d", int(math.Round(v)))
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.1f", v), "0"), ".")
}
