package source

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultQueryTimeout bounds a single SQL query.
const DefaultQueryTimeout = 30 * time.Second

// Ref names where a value is loaded from. Exactly one of File and SQL is set.
type Ref struct {
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
	Path   string `yaml:"path,omitempty" json:"path,omitempty"`
	SQL    string `yaml:"sql,omitempty" json:"sql,omitempty"`
	Query  string `yaml:"query,omitempty" json:"query,omitempty"`
	Column string `yaml:"column,omitempty" json:"column,omitempty"`
}

// String describes the ref for reports.
func (r Ref) String() string {
	switch {
	case r.File != "" && r.Path != "":
		return r.File + "#" + r.Path
	case r.File != "":
		return r.File
	case r.Column != "":
		return fmt.Sprintf("%s [%s] %s", r.SQL, r.Column, r.Query)
	default:
		return r.SQL + " " + r.Query
	}
}

// Validate checks that the ref names exactly one source.
func (r Ref) Validate() error {
	switch {
	case r.File == "" && r.SQL == "":
		return fmt.Errorf("source needs either file or sql")
	case r.File != "" && r.SQL != "":
		return fmt.Errorf("source cannot have both file and sql")
	case r.SQL != "" && strings.TrimSpace(r.Query) == "":
		return fmt.Errorf("sql source needs a query")
	case r.File != "" && (r.Query != "" || r.Column != ""):
		return fmt.Errorf("file source cannot have query or column")
	}
	return nil
}

// Loader resolves refs relative to a base directory.
type Loader struct {
	baseDir      string
	queryTimeout time.Duration
}

// LoaderOption is a functional option for configuring a Loader.
type LoaderOption func(*Loader)

// WithQueryTimeout bounds each SQL query.
func WithQueryTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) {
		if d > 0 {
			l.queryTimeout = d
		}
	}
}

func NewLoader(baseDir string, opts ...LoaderOption) *Loader {
	l := &Loader{
		baseDir:      baseDir,
		queryTimeout: DefaultQueryTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the value ref names. A file path selecting nothing yields nil.
func (l *Loader) Load(ctx context.Context, ref Ref) (any, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if ref.SQL != "" {
		return l.loadSQL(ctx, ref)
	}
	return l.loadFile(ref)
}

// resolve joins a relative path to the base directory and rejects paths that
// leave it.
func (l *Loader) resolve(path string) (string, error) {
	if !filepath.IsAbs(path) && l.baseDir != "" {
		path = filepath.Join(l.baseDir, path)
	}
	if err := validatePathWithinBase(path, l.baseDir); err != nil {
		return "", err
	}
	return path, nil
}

// Normalize converts v to the types JSON decoding produces: nil, bool,
// float64, string, []any and map[string]any.
func Normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(stringKeys(v))
	if err != nil {
		return nil, fmt.Errorf("cannot normalize %T: %w", v, err)
	}
	return valueOf(gjson.ParseBytes(data)), nil
}

// stringKeys rewrites the map[any]any YAML produces for non-string keys, such
// as {1: a}, into map[string]any so it can be encoded as JSON.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = stringKeys(e)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = stringKeys(e)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = stringKeys(e)
		}
		return s
	default:
		return v
	}
}

// valueOf decodes r, keeping empty arrays distinct from nil.
func valueOf(r gjson.Result) any {
	if r.IsArray() && len(r.Array()) == 0 {
		return []any{}
	}
	return r.Value()
}

// Sequence returns v as a sequence. nil stays nil so that a missing document
// is reported as an absent collection.
func Sequence(v any) ([]any, error) {
	switch s := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return s, nil
	default:
		return nil, fmt.Errorf("expected a sequence, got %s", describe(v))
	}
}

// Mapping returns v as a mapping, or false if it is not one.
func Mapping(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func describe(v any) string {
	switch v.(type) {
	case map[string]any:
		return "an object"
	case string:
		return "a string"
	case float64:
		return "a number"
	case bool:
		return "a boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
