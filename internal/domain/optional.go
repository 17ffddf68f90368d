package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// OptionalFloat is a numeric value that may be absent. It is the single
// place where provider sentinels ("N/A", "None", empty strings, nulls,
// NaN) are interpreted; everything downstream works with Get/Or and
// never sees a sentinel.
//
// The zero value is "absent".
type OptionalFloat struct {
	value float64
	valid bool
}

// Float wraps a known value. NaN and infinities collapse to absent,
// since the provider uses NaN as a missing-data marker.
func Float(v float64) OptionalFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return OptionalFloat{}
	}
	return OptionalFloat{value: v, valid: true}
}

// None returns an absent value.
func None() OptionalFloat {
	return OptionalFloat{}
}

// Get returns the value and whether it is present.
func (o OptionalFloat) Get() (float64, bool) {
	return o.value, o.valid
}

// Or returns the value, or fallback when absent.
func (o OptionalFloat) Or(fallback float64) float64 {
	if !o.valid {
		return fallback
	}
	return o.value
}

// Present reports whether a value exists.
func (o OptionalFloat) Present() bool {
	return o.valid
}

// missingSentinels are the literal strings the provider emits for
// absent numerics, compared case-insensitively.
var missingSentinels = map[string]bool{
	"":     true,
	"n/a":  true,
	"na":   true,
	"none": true,
	"null": true,
	"nan":  true,
	"-":    true,
	"—":    true,
}

// UnmarshalJSON accepts numbers, numeric strings, nulls and the
// provider's sentinel strings. Unparseable input becomes "absent"
// rather than an error: a malformed field must never abort decoding of
// the rest of the snapshot.
func (o *OptionalFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*o = OptionalFloat{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*o = OptionalFloat{}
			return nil
		}
		s = strings.TrimSpace(s)
		if missingSentinels[strings.ToLower(s)] {
			*o = OptionalFloat{}
			return nil
		}
		// Provider sometimes quotes numbers, with thousands separators.
		s = strings.ReplaceAll(s, ",", "")
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*o = OptionalFloat{}
			return nil
		}
		*o = Float(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*o = OptionalFloat{}
		return nil
	}
	*o = Float(v)
	return nil
}

// MarshalJSON renders absent values as null.
func (o OptionalFloat) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
