// Package assert panics on programmer errors, like a constructor called
// without a required collaborator.
package assert

import "reflect"

// NotNil panics when value is nil, including a nil pointer, map, slice,
// func or chan stored in an interface.
func NotNil(value any) {
	if value == nil {
		panic("expected value to be not nil")
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if v.IsNil() {
			panic("expected " + v.Type().String() + " to be not nil")
		}
	}
}

func NotEmptyStr(str string) {
	if str == "" {
		panic("expected string to be non-empty")
	}
}
