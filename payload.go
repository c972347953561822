package glint

import "reflect"

// sliceLen returns the length of a typed slice held in an any value.
// Payloads cross the backend contract as typed slices; this is the only
// reflection the wrapper layer needs on them.
func sliceLen(v any) (int, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return 0, false
	}
	return rv.Len(), true
}
