package asserts

import (
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

// WithoutWhitespace returns s with all Unicode white space removed.
func WithoutWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// EqualsWithoutWhitespace checks that expected and found are equal once all
// white space is removed from both.
func EqualsWithoutWhitespace(expected, found string, opts ...Option) error {
	e := WithoutWhitespace(expected)
	f := WithoutWhitespace(found)
	if e != f {
		o := newOptions(opts)
		return failCompare(o.format("strings without white space are not equal"), e, f)
	}
	return nil
}

// SecPreciseEquals checks that two timestamps denote the same second. Sub-second
// parts are truncated toward zero.
func SecPreciseEquals(expected, found time.Time, opts ...Option) error {
	if expected.UnixMilli()/1000 != found.UnixMilli()/1000 {
		o := newOptions(opts)
		return failCompare(o.format("timestamps are not equal at second precision"),
			expected.Format(time.RFC3339Nano), found.Format(time.RFC3339Nano))
	}
	return nil
}

// NotEquals checks that a and b are neither the same value nor equal.
// A nil value is never equal to a non-nil value.
func NotEquals(a, b any, opts ...Option) error {
	o := newOptions(opts)
	if same(a, b) {
		return fail(o.format("both objects are same but should not be"))
	}
	if isNil(a) != isNil(b) {
		return nil
	}
	if assert.ObjectsAreEqual(a, b) {
		return fail(o.format("both objects are equal but should not be"))
	}
	return nil
}

// same reports identity: both nil, or pointers to the same address.
func same(a, b any) bool {
	if isNil(a) && isNil(b) {
		return true
	}
	if isNil(a) || isNil(b) {
		return false
	}
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Kind() != reflect.Ptr || bv.Kind() != reflect.Ptr {
		return false
	}
	return av.Type() == bv.Type() && av.Pointer() == bv.Pointer()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// ReflectiveEquals checks that expected and actual are equal field by field,
// including unexported fields. Neither may be nil.
func ReflectiveEquals[T any](expected, actual T, opts ...Option) error {
	if isNil(actual) {
		return invalidArgument("actual")
	}
	if isNil(expected) {
		return invalidArgument("expected")
	}

	d := cmp.Diff(expected, actual, allowUnexported(expected, actual))
	if d == "" {
		return nil
	}
	o := newOptions(opts)
	return &ComparisonFailure{
		Message:  o.format("objects are not reflectively equal"),
		Expected: renderDeep(expected),
		Actual:   renderDeep(actual),
		Diff:     d,
	}
}

// allowUnexported opens every struct type reachable from vs to cmp.
func allowUnexported(vs ...any) cmp.Option {
	w := &typeWalker{
		structs: make(map[reflect.Type]struct{}),
		visited: make(map[visit]struct{}),
	}
	for _, v := range vs {
		w.walk(reflect.ValueOf(v))
	}
	types := make([]any, 0, len(w.structs))
	for t := range w.structs {
		types = append(types, reflect.New(t).Elem().Interface())
	}
	return cmp.AllowUnexported(types...)
}

// visit identifies a reference value already walked, so cyclic values end.
type visit struct {
	ptr uintptr
	typ reflect.Type
	len int
}

type typeWalker struct {
	structs map[reflect.Type]struct{}
	visited map[visit]struct{}
}

func (w *typeWalker) walk(v reflect.Value) {
	if !v.IsValid() {
		return
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return
		}
		key := visit{ptr: v.Pointer(), typ: v.Type()}
		if v.Kind() != reflect.Ptr {
			key.len = v.Len()
		}
		if _, ok := w.visited[key]; ok {
			return
		}
		w.visited[key] = struct{}{}
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if !v.IsNil() {
			w.walk(v.Elem())
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			w.walk(v.Index(i))
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			w.walk(iter.Value())
		}
	case reflect.Struct:
		w.structs[v.Type()] = struct{}{}
		for i := 0; i < v.NumField(); i++ {
			w.walk(v.Field(i))
		}
	}
}
