package relation

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/queomedia/asserts/packages/asserts"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

// Relation is an equivalence relation over decoded values.
type Relation = asserts.EqualsFunc[any, any]

// Default is the relation used when a check names none.
const Default = "equal"

type factory func(arg string) (Relation, error)

var registry = map[string]factory{
	"equal": plain(Equal),
	"fold":  plain(Fold),
	"nows":  plain(NoWhitespace),
	"lt":    plain(numeric(func(e, f float64) bool { return e < f })),
	"lte":   plain(numeric(func(e, f float64) bool { return e <= f })),
	"gt":    plain(numeric(func(e, f float64) bool { return e > f })),
	"gte":   plain(numeric(func(e, f float64) bool { return e >= f })),
	"regex": plain(Regex),
	"approx": func(arg string) (Relation, error) {
		delta, err := strconv.ParseFloat(arg, 64)
		if err != nil || delta < 0 {
			return nil, fmt.Errorf("approx needs a non-negative delta, got %q", arg)
		}
		return Approx(delta), nil
	},
	"key": func(arg string) (Relation, error) {
		if arg == "" {
			return nil, fmt.Errorf("key needs a gjson path")
		}
		return Key(arg), nil
	},
}

// takesArgument lists relations written as name:argument.
var takesArgument = map[string]bool{"approx": true, "key": true}

func plain(r Relation) factory {
	return func(arg string) (Relation, error) {
		if arg != "" {
			return nil, fmt.Errorf("relation takes no argument, got %q", arg)
		}
		return r, nil
	}
}

// Parse resolves a relation spec such as "equal", "approx:0.5" or "key:id".
// An empty spec yields Default.
func Parse(spec string) (Relation, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		spec = Default
	}
	name, arg, _ := strings.Cut(spec, ":")
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown relation %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	r, err := f(arg)
	if err != nil {
		return nil, fmt.Errorf("relation %q: %w", name, err)
	}
	return r, nil
}

// Names returns the registered relation names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		if takesArgument[name] {
			name += ":<arg>"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Equal matches deeply equal values; numbers compare by value regardless of
// their Go type.
func Equal(expected, found any) bool {
	if assert.ObjectsAreEqual(expected, found) {
		return true
	}
	if isString(expected) || isString(found) {
		return false
	}
	e, eOk := toFloat64(expected)
	f, fOk := toFloat64(found)
	return eOk && fOk && e == f
}

// Fold matches strings case-insensitively.
func Fold(expected, found any) bool {
	e, eOk := expected.(string)
	f, fOk := found.(string)
	if !eOk || !fOk {
		return Equal(expected, found)
	}
	return strings.EqualFold(e, f)
}

// NoWhitespace matches strings that are equal once white space is removed.
func NoWhitespace(expected, found any) bool {
	e, eOk := expected.(string)
	f, fOk := found.(string)
	if !eOk || !fOk {
		return Equal(expected, found)
	}
	return asserts.WithoutWhitespace(e) == asserts.WithoutWhitespace(f)
}

// Regex treats expected as a pattern, optionally wrapped in slashes, and
// matches it against the string form of found. Invalid patterns match nothing.
func Regex(expected, found any) bool {
	pattern, ok := expected.(string)
	if !ok {
		return false
	}
	pattern = strings.TrimSuffix(strings.TrimPrefix(pattern, "/"), "/")
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(fmt.Sprintf("%v", found))
}

// Approx matches numbers that differ by at most delta.
func Approx(delta float64) Relation {
	return numeric(func(e, f float64) bool {
		return math.Abs(e-f) <= delta
	})
}

// Key matches values whose sub-values at path are Equal. Both values must
// contain the path.
func Key(path string) Relation {
	return func(expected, found any) bool {
		e, eOk := lookup(expected, path)
		f, fOk := lookup(found, path)
		return eOk && fOk && Equal(e, f)
	}
}

// numeric compares two numbers. Strings never match, even numeric ones, as in
// Equal.
func numeric(cmp func(e, f float64) bool) Relation {
	return func(expected, found any) bool {
		e, eOk := toFloat64(expected)
		f, fOk := toFloat64(found)
		return eOk && fOk && cmp(e, f)
	}
}

func lookup(v any, path string) (any, bool) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	r := gjson.GetBytes(data, path)
	if !r.Exists() {
		return nil, false
	}
	return r.Value(), true
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
