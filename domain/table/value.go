package table

import (
	"fmt"
	"strconv"
	"time"
)

// ValueKind defines the storage type for cell values
type ValueKind string

const (
	KindString   ValueKind = "string"
	KindNumeric  ValueKind = "numeric"
	KindBoolean  ValueKind = "boolean"
	KindTemporal ValueKind = "temporal"
	KindMissing  ValueKind = "missing"
)

// Value represents a typed cell value with explicit missing handling
type Value struct {
	Kind        ValueKind  `json:"kind"`
	StringVal   *string    `json:"string_val,omitempty"`
	NumericVal  *float64   `json:"numeric_val,omitempty"`
	BooleanVal  *bool      `json:"boolean_val,omitempty"`
	TemporalVal *time.Time `json:"temporal_val,omitempty"`
	IsMissing   bool       `json:"is_missing"`
}

// NewStringValue creates a string value; empty strings count as missing
func NewStringValue(s string) Value {
	if s == "" {
		return NewMissingValue()
	}
	return Value{Kind: KindString, StringVal: &s}
}

// NewNumericValue creates a numeric value
func NewNumericValue(n float64) Value {
	return Value{Kind: KindNumeric, NumericVal: &n}
}

// NewBooleanValue creates a boolean value
func NewBooleanValue(b bool) Value {
	return Value{Kind: KindBoolean, BooleanVal: &b}
}

// NewTemporalValue creates a temporal value
func NewTemporalValue(t time.Time) Value {
	return Value{Kind: KindTemporal, TemporalVal: &t}
}

// NewMissingValue creates a missing value
func NewMissingValue() Value {
	return Value{Kind: KindMissing, IsMissing: true}
}

// String renders the value the way it would appear in a report
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return *v.StringVal
	case KindNumeric:
		return strconv.FormatFloat(*v.NumericVal, 'f', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(*v.BooleanVal)
	case KindTemporal:
		return v.TemporalVal.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// Number returns the numeric representation if one exists
func (v Value) Number() (float64, bool) {
	switch v.Kind {
	case KindNumeric:
		return *v.NumericVal, true
	case KindBoolean:
		if *v.BooleanVal {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Key returns a canonical representation used for distinct counting and
// duplicate detection. Kinds are folded in so "1" (string) and 1 (number)
// stay distinct values.
func (v Value) Key() string {
	if v.IsMissing {
		return "\x00missing"
	}
	return fmt.Sprintf("%s\x00%s", v.Kind, v.String())
}
