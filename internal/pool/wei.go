package pool

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"gopkg.in/yaml.v3"
)

// Decimals is the number of fractional digits of one DMD.
const Decimals = 18

var weiPerDMD = new(big.Int).Exp(big.NewInt(10), big.NewInt(Decimals), nil)

// Wei is an on-chain amount. The zero value means "missing" and renders as a
// placeholder rather than as 0.
type Wei struct {
	v *big.Int
}

// NewWei wraps v. A nil v yields a missing amount.
func NewWei(v *big.Int) Wei {
	if v == nil {
		return Wei{}
	}
	return Wei{v: new(big.Int).Set(v)}
}

// ParseWei parses a base-10 integer, optionally quoted.
func ParseWei(s string) (Wei, error) {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	if s == "" {
		return Wei{}, nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Wei{}, fmt.Errorf("parse wei %q: not a base-10 integer", s)
	}
	return Wei{v: v}, nil
}

// DMD returns an amount of whole coins expressed in wei.
func DMD(coins int64) Wei {
	return Wei{v: new(big.Int).Mul(big.NewInt(coins), weiPerDMD)}
}

// Valid reports whether the amount is present.
func (w Wei) Valid() bool { return w.v != nil }

// Big returns a copy of the amount; missing amounts are zero.
func (w Wei) Big() *big.Int {
	if w.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(w.v)
}

// String returns the raw wei value.
func (w Wei) String() string {
	if w.v == nil {
		return ""
	}
	return w.v.String()
}

// Fixed formats the amount in DMD with the given number of decimals.
func (w Wei) Fixed(prec int) string {
	if w.v == nil {
		return ""
	}
	return new(big.Rat).SetFrac(w.v, weiPerDMD).FloatString(prec)
}

// Exact formats the amount in DMD without trailing zeros.
func (w Wei) Exact() string {
	s := w.Fixed(Decimals)
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// Float returns the amount in DMD. Precision loss is acceptable for filtering.
func (w Wei) Float() float64 {
	if w.v == nil {
		return 0
	}
	f, _ := new(big.Rat).SetFrac(w.v, weiPerDMD).Float64()
	return f
}

// WholeCoins returns the integer part of the amount rounded to two decimals,
// which is what decides whether a reward can be claimed.
func (w Wei) WholeCoins() int64 {
	s := w.Fixed(2)
	if s == "" {
		return 0
	}
	whole, _, _ := strings.Cut(s, ".")
	v, ok := new(big.Int).SetString(whole, 10)
	if !ok || !v.IsInt64() {
		return 0
	}
	return v.Int64()
}

// Ratio returns w/max clamped to [0, 1].
func (w Wei) Ratio(max Wei) float64 {
	if w.v == nil || max.v == nil || max.v.Sign() <= 0 {
		return 0
	}
	f, _ := new(big.Rat).SetFrac(w.v, max.v).Float64()
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// MarshalJSON encodes the amount as a quoted integer to survive JSON number limits.
func (w Wei) MarshalJSON() ([]byte, error) {
	if w.v == nil {
		return []byte("null"), nil
	}
	return json.Marshal(w.v.String())
}

// UnmarshalJSON accepts null, a JSON number, or a quoted integer. Anything
// else decodes as a missing amount rather than failing the whole record.
func (w *Wei) UnmarshalJSON(data []byte) error {
	v, err := ParseWei(string(data))
	if err != nil {
		v = Wei{}
	}
	*w = v
	return nil
}

// UnmarshalYAML accepts a scalar integer, quoted or not. Anything else
// decodes as a missing amount rather than failing the whole document.
func (w *Wei) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode || node.Tag == "!!null" {
		*w = Wei{}
		return nil
	}
	v, err := ParseWei(node.Value)
	if err != nil {
		v = Wei{}
	}
	*w = v
	return nil
}

// MarshalYAML encodes the amount as a string.
func (w Wei) MarshalYAML() (any, error) {
	if w.v == nil {
		return nil, nil
	}
	return w.v.String(), nil
}
