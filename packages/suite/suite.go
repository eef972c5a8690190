package suite

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/queomedia/asserts/packages/relation"
	"github.com/queomedia/asserts/packages/source"
	"gopkg.in/yaml.v3"
)

// Mode selects the assertion a check runs.
type Mode string

const (
	ModeExact      Mode = "exact"
	ModeExactItem  Mode = "exact-item"
	ModeAtLeast    Mode = "at-least"
	ModeNot        Mode = "not"
	ModeOrder      Mode = "order"
	ModeSize       Mode = "size"
	ModeSameSize   Mode = "same-size"
	ModeEmpty      Mode = "empty"
	ModeEmptyOrNil Mode = "empty-or-nil"
)

// Modes lists every mode in documentation order.
var Modes = []Mode{
	ModeExact, ModeExactItem, ModeAtLeast, ModeNot, ModeOrder,
	ModeSize, ModeSameSize, ModeEmpty, ModeEmptyOrNil,
}

// NeedsExpected reports whether the mode compares against an expected value.
func (m Mode) NeedsExpected() bool {
	switch m {
	case ModeSize, ModeEmpty, ModeEmptyOrNil:
		return false
	}
	return true
}

// UsesRelation reports whether the mode evaluates an equivalence relation.
func (m Mode) UsesRelation() bool {
	switch m {
	case ModeExact, ModeExactItem, ModeAtLeast, ModeNot, ModeOrder:
		return true
	}
	return false
}

func (m Mode) valid() bool {
	for _, known := range Modes {
		if m == known {
			return true
		}
	}
	return false
}

// Suite is a parsed suite file.
type Suite struct {
	Name   string   `yaml:"name"`
	Checks []*Check `yaml:"checks"`

	// File is the path the suite was read from, if any.
	File string `yaml:"-"`
}

// Check is a single assertion over a found value.
type Check struct {
	Name            string      `yaml:"name"`
	Mode            Mode        `yaml:"mode"`
	Expected        any         `yaml:"expected"`
	ExpectedFrom    *source.Ref `yaml:"expectedFrom"`
	Found           any         `yaml:"found"`
	FoundFrom       *source.Ref `yaml:"foundFrom"`
	Relation        string      `yaml:"relation"`
	Size            *int        `yaml:"size"`
	MaximumMatching bool        `yaml:"maximumMatching"`
	Schema          string      `yaml:"schema"`
	Message         string      `yaml:"message"`
}

// HasExpected reports whether an inline or referenced expected value is set.
func (c *Check) HasExpected() bool {
	return c.Expected != nil || c.ExpectedFrom != nil
}

// HasFound reports whether an inline or referenced found value is set.
func (c *Check) HasFound() bool {
	return c.Found != nil || c.FoundFrom != nil
}

// Refs returns the source refs the check reads.
func (c *Check) Refs() []source.Ref {
	var refs []source.Ref
	if c.ExpectedFrom != nil {
		refs = append(refs, *c.ExpectedFrom)
	}
	if c.FoundFrom != nil {
		refs = append(refs, *c.FoundFrom)
	}
	return refs
}

// IsSuiteFile reports whether path names a suite file. The bare
// ".asserts.yaml" and ".asserts.yml" names are config files, not suites.
func IsSuiteFile(path string) bool {
	base := filepath.Base(path)
	for _, ext := range []string{".asserts.yaml", ".asserts.yml"} {
		if len(base) > len(ext) && strings.HasSuffix(base, ext) {
			return true
		}
	}
	return false
}

// ParseFile reads and parses the suite file at path.
func ParseFile(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.File = path
	return s, nil
}

// Parse decodes a suite document. Unknown keys are rejected.
func Parse(data []byte) (*Suite, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	s := &Suite{}
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("invalid suite: %w", err)
	}
	for i, c := range s.Checks {
		if c == nil {
			return nil, fmt.Errorf("invalid suite: check %d is empty", i+1)
		}
		if c.Name == "" {
			c.Name = fmt.Sprintf("check %d", i+1)
		}
	}
	return s, nil
}

// Validate reports every problem in the suite.
func (s *Suite) Validate() error {
	if len(s.Checks) == 0 {
		return errors.New("suite has no checks")
	}

	var errs []error
	seen := make(map[string]bool, len(s.Checks))
	for _, c := range s.Checks {
		if seen[c.Name] {
			errs = append(errs, fmt.Errorf("%s: duplicate check name", c.Name))
		}
		seen[c.Name] = true
		for _, err := range c.validate() {
			errs = append(errs, fmt.Errorf("%s: %w", c.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (c *Check) validate() []error {
	var errs []error

	if !c.Mode.valid() {
		errs = append(errs, fmt.Errorf("unknown mode %q", c.Mode))
	}

	if c.Found != nil && c.FoundFrom != nil {
		errs = append(errs, errors.New("found and foundFrom are mutually exclusive"))
	}
	if !c.HasFound() && c.Mode != ModeEmptyOrNil {
		errs = append(errs, errors.New("found or foundFrom is required"))
	}
	if c.FoundFrom != nil {
		if err := c.FoundFrom.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("foundFrom: %w", err))
		}
	}

	if c.Expected != nil && c.ExpectedFrom != nil {
		errs = append(errs, errors.New("expected and expectedFrom are mutually exclusive"))
	}
	if c.Mode.valid() && c.Mode.NeedsExpected() && !c.HasExpected() {
		errs = append(errs, fmt.Errorf("mode %s needs expected or expectedFrom", c.Mode))
	}
	if c.ExpectedFrom != nil {
		if err := c.ExpectedFrom.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("expectedFrom: %w", err))
		}
	}

	if c.Mode == ModeSize && c.Size == nil {
		errs = append(errs, errors.New("mode size needs size"))
	}
	if c.Size != nil && *c.Size < 0 {
		errs = append(errs, fmt.Errorf("size must not be negative, got %d", *c.Size))
	}

	if c.Relation != "" {
		if _, err := relation.Parse(c.Relation); err != nil {
			errs = append(errs, err)
		}
	}
	if c.MaximumMatching && c.Mode != ModeExact {
		errs = append(errs, fmt.Errorf("maximumMatching only applies to mode %s", ModeExact))
	}
	return errs
}
