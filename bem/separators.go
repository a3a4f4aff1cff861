// Package bem extracts BEM entities (block, element, modifier) from resolved
// selectors and reconstructs their modifier → element → block chains.
package bem

import (
	"errors"
	"fmt"
	"regexp"
)

// Sentinel errors
var (
	ErrInvalidSeparators = errors.New("invalid BEM separators")
)

// Separators are the strings separating the parts of a BEM class name.
type Separators struct {
	Element       string `yaml:"element" json:"element"`
	Modifier      string `yaml:"modifier" json:"modifier"`
	ModifierValue string `yaml:"modifier_value" json:"modifier_value"`
}

// DefaultSeparators returns __ / -- / --
func DefaultSeparators() Separators {
	return Separators{
		Element:       "__",
		Modifier:      "--",
		ModifierValue: "--",
	}
}

// WithDefaults fills empty separators with the defaults.
func (s Separators) WithDefaults() Separators {
	defaults := DefaultSeparators()
	if s.Element == "" {
		s.Element = defaults.Element
	}
	if s.Modifier == "" {
		s.Modifier = defaults.Modifier
	}
	if s.ModifierValue == "" {
		s.ModifierValue = defaults.ModifierValue
	}
	return s
}

// Validate checks that the separators can be told apart.
func (s Separators) Validate() error {
	switch {
	case s.Element == "" || s.Modifier == "" || s.ModifierValue == "":
		return fmt.Errorf("%w: separators must not be empty", ErrInvalidSeparators)
	case s.Element == s.Modifier:
		return fmt.Errorf("%w: element and modifier separators are both %q", ErrInvalidSeparators, s.Element)
	}
	return nil
}

// pattern compiles the class name grammar:
//
//	block (ELEMENT element)? (MODIFIER name (VALUE value)?)?
func (s Separators) pattern() *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`^(.+?)(?:%s(.+?))?(?:%s(.+?)(?:%s(.+))?)?$`,
		regexp.QuoteMeta(s.Element),
		regexp.QuoteMeta(s.Modifier),
		regexp.QuoteMeta(s.ModifierValue),
	))
}
