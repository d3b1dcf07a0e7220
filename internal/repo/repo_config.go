package repo

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/bvogt/anncat/internal/catalog"
	"gopkg.in/yaml.v3"
)

// ValueRegexp is a wrapper around regexp.Regexp to allow for custom YAML unmarshaling.
type ValueRegexp regexp.Regexp

// ValueRule defines a validation rule for a string value.
// It can enforce a specific list of values or a set of regular expressions.
type ValueRule struct {
	Values  []string       `yaml:"values"`
	Matches []*ValueRegexp `yaml:"matches"`
}

type EquivalenceValidationRules struct {
	// Restricts the set of valid metadata tags.
	Tag *ValueRule `yaml:"tag"`
	// Restricts the java packages annotations may come from.
	SpringPackage *ValueRule `yaml:"springPackage"`
	// Restricts the .NET namespaces attributes may come from.
	DotnetNamespace *ValueRule `yaml:"dotnetNamespace"`
}

type CategoryValidationRules struct {
	// Restricts the set of valid category names.
	Name *ValueRule `yaml:"name"`
}

type CatalogValidationRules struct {
	Equivalence *EquivalenceValidationRules `yaml:"equivalence"`
	Category    *CategoryValidationRules    `yaml:"category"`
}

// Config holds repository-specific application configuration.
type Config struct {
	Validation *CatalogValidationRules `yaml:"validation"`
}

func (r *CatalogValidationRules) Accept(e catalog.Entity) error {
	switch v := e.(type) {
	case *catalog.Equivalence:
		if r.Equivalence == nil {
			return nil
		}
		for _, tag := range v.GetMetadata().Tags {
			if !r.Equivalence.Tag.Accept(tag) {
				return fmt.Errorf("invalid tag %q (allowed: %s)", tag, r.Equivalence.Tag.Describe())
			}
		}
		if s := v.Spec.Spring; s != nil && s.Package != "" {
			if !r.Equivalence.SpringPackage.Accept(s.Package) {
				return fmt.Errorf("invalid spring package %q (allowed: %s)", s.Package, r.Equivalence.SpringPackage.Describe())
			}
		}
		if d := v.Spec.Dotnet; d != nil && d.Namespace != "" {
			if !r.Equivalence.DotnetNamespace.Accept(d.Namespace) {
				return fmt.Errorf("invalid dotnet namespace %q (allowed: %s)", d.Namespace, r.Equivalence.DotnetNamespace.Describe())
			}
		}
	case *catalog.Category:
		if r.Category == nil {
			return nil
		}
		if !r.Category.Name.Accept(v.GetName()) {
			return fmt.Errorf("invalid category name %q (allowed: %s)", v.GetName(), r.Category.Name.Describe())
		}
	}
	// If no specific rules failed, the entity is considered valid.
	return nil
}

// Describe returns a human-readable description of the allowed values.
func (r *ValueRule) Describe() string {
	if r == nil {
		return "any value"
	}
	if len(r.Values) > 0 {
		// e.g. "one of [web, testing]"
		return fmt.Sprintf("one of [%s]", strings.Join(r.Values, ", "))
	}
	if len(r.Matches) > 0 {
		patterns := make([]string, len(r.Matches))
		for i, re := range r.Matches {
			patterns[i] = (*regexp.Regexp)(re).String()
		}
		if len(patterns) == 1 {
			return fmt.Sprintf("matching pattern %s", patterns[0])
		}
		return fmt.Sprintf("matching any of patterns [%s]", strings.Join(patterns, ", "))
	}
	return "any value"
}

// Accept checks if a given value is valid according to the rule.
func (r *ValueRule) Accept(val string) bool {
	if r == nil {
		// If no rule is defined, all values are accepted.
		return true
	}
	if r.Values != nil {
		// If an explicit list of values is provided, check against it.
		return slices.Contains(r.Values, val)
	}
	if r.Matches != nil {
		// If regex patterns are provided, check if any of them match.
		for _, re := range r.Matches {
			if (*regexp.Regexp)(re).MatchString(val) {
				return true
			}
		}
		// If there are regexes but none matched, the value is not accepted.
		return false
	}
	// If the rule is empty (e.g., "tag:"), all values are accepted.
	return true
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for ValueRegexp.
// This allows converting a string from a YAML file directly into a compiled regexp.
func (vr *ValueRegexp) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		return fmt.Errorf("regexp pattern in validation rule cannot be empty")
	}

	fullMatchPattern := "^(?:" + s + ")$"

	re, err := regexp.Compile(fullMatchPattern)
	if err != nil {
		return fmt.Errorf("failed to compile validation regexp %q: %w", s, err)
	}

	*vr = ValueRegexp(*re)
	return nil
}
