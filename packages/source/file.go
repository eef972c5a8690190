package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

func (l *Loader) loadFile(ref Ref) (any, error) {
	path, err := l.resolve(ref.File)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ref.File, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return selectJSON(data, ref)
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", ref.File, err)
		}
		v, err := Normalize(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", ref.File, err)
		}
		if ref.Path == "" {
			return v, nil
		}
		return selectValue(v, ref)
	default:
		return nil, fmt.Errorf("unsupported data file %s (want .json, .yaml or .yml)", ref.File)
	}
}

func selectJSON(data []byte, ref Ref) (any, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON in %s", ref.File)
	}
	if ref.Path == "" {
		return valueOf(gjson.ParseBytes(data)), nil
	}
	result := gjson.GetBytes(data, convertBracketNotation(ref.Path))
	if !result.Exists() {
		return nil, nil
	}
	return valueOf(result), nil
}

func selectValue(v any, ref Ref) (any, error) {
	data, err := jsonBytes(v)
	if err != nil {
		return nil, err
	}
	return selectJSON(data, ref)
}
