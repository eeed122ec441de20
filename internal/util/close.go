package util

import (
	"io"
	"reflect"
)

// CloseWithErr closes c and logs a warning naming what failed to close.
// Typed nil pointers are ignored.
func CloseWithErr(c io.Closer, what string) {
	if c == nil {
		return
	}
	if v := reflect.ValueOf(c); v.Kind() == reflect.Pointer && v.IsNil() {
		return
	}
	if err := c.Close(); err != nil {
		if what == "" {
			what = "resource"
		}
		Warnf("close %s: %v", what, err)
	}
}
