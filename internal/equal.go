package internal

import (
	"math"
	"reflect"
)

// SameValue is the default change-detection predicate.
//
// Two NaN floats are equal here so that writing NaN over NaN does not notify;
// this is for change suppression only. Maps, slices and funcs compare by
// identity, comparable values with ==, anything else is never equal.
func SameValue(a, b any) bool {
	if isNaN(a) && isNaN(b) {
		return true
	}

	if a == nil || b == nil {
		return a == nil && b == nil
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Map, reflect.Func, reflect.Pointer, reflect.UnsafePointer, reflect.Chan:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}

	if va.Comparable() && vb.Comparable() {
		return a == b
	}

	return false
}

func isNaN(v any) bool {
	switch f := v.(type) {
	case float64:
		return math.IsNaN(f)
	case float32:
		return math.IsNaN(float64(f))
	}

	return false
}
