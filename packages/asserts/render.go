package asserts

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/pmezard/go-difflib/difflib"
)

var spewConfig = spew.ConfigState{
	Indent:                  " ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
	DisableMethods:          true,
	MaxDepth:                10,
}

// render formats a value for the Expected/Actual fields of a failure.
func render(v any) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v", v)
}

// renderDeep is render for values that may reference themselves.
func renderDeep(v any) string {
	if v == nil {
		return "<nil>"
	}
	return spewConfig.Sprintf("%v", v)
}

// diff returns a unified diff of two structured values of the same kind, or
// an empty string when a diff would add nothing over the rendered values.
func diff(expected, actual any) string {
	if expected == nil || actual == nil {
		return ""
	}

	et, ek := typeAndKind(expected)
	at, _ := typeAndKind(actual)
	if et != at {
		return ""
	}

	var e, a string
	switch ek {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
		e = spewConfig.Sdump(expected)
		a = spewConfig.Sdump(actual)
	case reflect.String:
		e = reflect.ValueOf(expected).String()
		a = reflect.ValueOf(actual).String()
		if !multiline(e) && !multiline(a) {
			return ""
		}
	default:
		return ""
	}

	out, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(e),
		B:        difflib.SplitLines(a),
		FromFile: "Expected",
		FromDate: "",
		ToFile:   "Actual",
		ToDate:   "",
		Context:  1,
	})
	return out
}

func typeAndKind(v any) (reflect.Type, reflect.Kind) {
	t := reflect.TypeOf(v)
	k := t.Kind()
	if k == reflect.Ptr {
		t = t.Elem()
		k = t.Kind()
	}
	return t, k
}

func multiline(s string) bool {
	return strings.Contains(strings.TrimSuffix(s, "\n"), "\n")
}
