package extract

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Cast selects the typed conversion applied to a field at projection time.
type Cast int

const (
	CastText Cast = iota
	CastInt
	CastBool
	CastDate
)

// affinity maps a cast to the column affinity declared for it.
func (c Cast) affinity() string {
	switch c {
	case CastInt:
		return "int"
	case CastBool:
		return "bool"
	case CastDate:
		return "date"
	default:
		return "text"
	}
}

// Field describes one output column: the source attribute it is read from
// (which doubles as the column name), its cast, and whether it is the
// identity field that alias expansion substitutes.
type Field struct {
	Attr    string
	Cast    Cast
	Key     bool
	Default any // value used by CastBool when the attribute is absent
}

// CastError reports a failed typed conversion for one attribute.
type CastError struct {
	Attr  string
	Value any
	Err   error
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cast %s value %v: %v", e.Attr, e.Value, e.Err)
}

func (e *CastError) Unwrap() error { return e.Err }

// Project flattens records into rows, one value per field in order.
//
// Absent optional attributes project as nil. When aliased is set, every row
// gains a trailing alias-of slot: nil on canonical rows, and for each synonym
// in a record's whitespace-separated @alias attribute an extra row is emitted
// with the Key field replaced by the synonym and the alias-of slot pointing
// back at the canonical name.
func Project(records []Record, aliased bool, fields []Field) ([][]any, error) {
	keyIdx := -1
	for i, f := range fields {
		if f.Key {
			keyIdx = i
			break
		}
	}
	if aliased && keyIdx < 0 {
		return nil, fmt.Errorf("alias expansion requires a key field")
	}

	var rows [][]any
	for _, rec := range records {
		base := make([]any, 0, len(fields)+1)
		for _, f := range fields {
			v, err := castValue(rec["@"+f.Attr], f)
			if err != nil {
				return nil, err
			}
			base = append(base, v)
		}
		if aliased {
			base = append(base, nil)
		}
		rows = append(rows, base)

		if !aliased {
			continue
		}
		for _, alias := range strings.Fields(attr(rec, "alias")) {
			row := slices.Clone(base)
			row[keyIdx] = alias
			row[len(fields)] = base[keyIdx]
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// castValue applies a field's cast to a raw decoded value. Values already of
// the target type pass through unchanged.
func castValue(raw any, f Field) (any, error) {
	if raw == nil {
		if f.Cast == CastBool {
			return f.Default, nil
		}
		return nil, nil
	}

	switch f.Cast {
	case CastInt:
		switch x := raw.(type) {
		case int:
			return int64(x), nil
		case int64:
			return x, nil
		case string:
			if x == "" {
				return nil, nil
			}
			n, err := strconv.ParseInt(x, 10, 64)
			if err != nil {
				return nil, &CastError{Attr: f.Attr, Value: raw, Err: err}
			}
			return n, nil
		default:
			return nil, &CastError{Attr: f.Attr, Value: raw, Err: fmt.Errorf("not an integer")}
		}

	case CastBool:
		return castBool(raw, f.Default), nil

	case CastDate:
		switch x := raw.(type) {
		case time.Time:
			return x, nil
		case string:
			if x == "" {
				return nil, nil
			}
			d, err := parseDate(x)
			if err != nil {
				return nil, &CastError{Attr: f.Attr, Value: raw, Err: err}
			}
			return d, nil
		default:
			return nil, &CastError{Attr: f.Attr, Value: raw, Err: fmt.Errorf("not a date")}
		}

	default:
		return raw, nil
	}
}

// castBool converts the CLDR boolean token vocabulary. Unrecognized non-nil
// values fall back to generic truthiness; nil takes the declared default.
func castBool(raw any, def any) any {
	switch x := raw.(type) {
	case nil:
		return def
	case bool:
		return x
	case int:
		return x != 0
	case int64:
		return x != 0
	case string:
		switch x {
		case "yes", "true", "1":
			return true
		case "no", "false", "0":
			return false
		}
		return x != ""
	default:
		return true
	}
}

// parseDate parses a hyphen-separated YYYY[-MM[-DD]] numeric string into a
// calendar date; omitted month and day default to 1.
func parseDate(s string) (time.Time, error) {
	parts := strings.Split(s, "-")
	if len(parts) < 1 || len(parts) > 3 {
		return time.Time{}, fmt.Errorf("malformed date %q", s)
	}

	nums := [3]int{0, 1, 1}
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return time.Time{}, fmt.Errorf("malformed date %q: %w", s, err)
		}
		nums[i] = n
	}
	return time.Date(nums[0], time.Month(nums[1]), nums[2], 0, 0, 0, 0, time.UTC), nil
}
