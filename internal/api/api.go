// This file contains the API classes that define the annotation equivalence
// catalog. The types mirror the YAML descriptor format: each document is one
// entity with apiVersion, kind, metadata, and spec.
package api

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// Uppercase kind names, as used in YAML (e.g., "kind: Equivalence")
	YAMLKindEquivalence = "Equivalence"
	YAMLKindCategory    = "Category"
	// Lowercase kind names, as used in entity references (e.g. "category:web")
	KindEquivalence = "equivalence"
	KindCategory    = "category"
)

var (
	// Valid entity kinds for use in entity references
	validRefKinds = map[string]bool{
		KindEquivalence: true,
		KindCategory:    true,
	}

	// Regexp defining valid entity names.
	// Alphanumeric characters and "-". Must start with a letter and end with an
	// alphanumeric character.
	validNameRE = regexp.MustCompile("^[A-Za-z]([A-Za-z0-9-]*[A-Za-z0-9])?$")
)

func IsValidRefKind(kind string) bool {
	_, ok := validRefKinds[kind]
	return ok
}

func IsValidName(s string) bool {
	return len(s) > 0 && len(s) <= 63 && validNameRE.MatchString(s)
}

// Ref is an entity reference as it appears in YAML: an optional kind
// specifier followed by the entity name, e.g. "category:web" or just "web".
type Ref struct {
	Kind string
	Name string
}

func (r *Ref) String() string {
	if r.Kind == "" {
		return r.Name
	}
	return r.Kind + ":" + r.Name
}

func (r *Ref) Equal(other *Ref) bool {
	return r.Kind == other.Kind && r.Name == other.Name
}

// ParseRef parses an entity reference of the form [<kind>:]<name>.
func ParseRef(s string) (*Ref, error) {
	var ref Ref
	kind, name, found := strings.Cut(s, ":")
	if found {
		if !IsValidRefKind(kind) {
			return nil, fmt.Errorf("invalid kind %q in entity reference %q", kind, s)
		}
		ref.Kind = kind
	} else {
		name = s
	}
	if !IsValidName(name) {
		return nil, fmt.Errorf("invalid name %q in entity reference %q", name, s)
	}
	ref.Name = name
	return &ref, nil
}

// Entity is the interface implemented by all entity kinds (Equivalence, Category).
type Entity interface {
	GetKind() string
	GetMetadata() *Metadata
	// Returns the fully qualified entity reference in the format <kind>:<name>.
	GetRef() *Ref

	// GetSourceInfo returns internal bookkeeping data, e.g. for error logging.
	GetSourceInfo() *SourceInfo
	SetSourceInfo(si *SourceInfo)
}

// File and line information shared by all entities.
// Used in error messages when the catalog fails validation.
type SourceInfo struct {
	Node *yaml.Node // The raw YAML source code from which the entity was parsed.
	Path string     // The path from which the entity was read.
	Line int        // The first line number in Path where the entity was found.
}

// Metadata

type Link struct {
	// A url in a standard uri format.
	// [required]
	URL string `yaml:"url,omitempty"`
	// A user friendly display name for the link.
	// [optional]
	Title string `yaml:"title,omitempty"`
}

type Metadata struct {
	// The name of the entity. Must be unique within the catalog for any given kind.
	// [required]
	Name string `yaml:"name,omitempty"`
	// A display name of the entity, to be presented in user interfaces instead
	// of the name property, when available.
	// [optional]
	Title string `yaml:"title,omitempty"`
	// An explanation of the entity. May use Markdown.
	// [optional]
	Description string `yaml:"description,omitempty"`
	// A list of single-valued strings, to classify entities in various ways.
	// [optional]
	Tags []string `yaml:"tags,omitempty"`
	// A list of external hyperlinks related to the entity (e.g. framework docs).
	// [optional]
	Links []*Link `yaml:"links,omitempty"`
}

// Equivalence

// SpringSpec describes the Spring Boot side of an equivalence.
type SpringSpec struct {
	// The annotation, including the leading "@", e.g. "@RestController".
	// [required]
	Annotation string `yaml:"annotation,omitempty"`
	// The Java package defining the annotation.
	// [optional]
	Package string `yaml:"package,omitempty"`
	// The framework version that introduced the annotation (semver).
	// [optional]
	Since string `yaml:"since,omitempty"`
	// An illustrative code snippet, stored verbatim and never parsed.
	// [optional]
	Example string `yaml:"example,omitempty"`
}

// DotnetSpec describes the .NET side of an equivalence.
type DotnetSpec struct {
	// The attribute, including the surrounding brackets, e.g. "[ApiController]".
	// [required]
	Attribute string `yaml:"attribute,omitempty"`
	// The .NET namespace defining the attribute.
	// [optional]
	Namespace string `yaml:"namespace,omitempty"`
	// The framework version that introduced the attribute (semver).
	// [optional]
	Since string `yaml:"since,omitempty"`
	// An illustrative code snippet, stored verbatim and never parsed.
	// [optional]
	Example string `yaml:"example,omitempty"`
}

type EquivalenceSpec struct {
	// The Spring Boot concept of the pairing.
	// [required]
	Spring *SpringSpec `yaml:"spring,omitempty"`
	// The closest .NET counterpart.
	// [required]
	Dotnet *DotnetSpec `yaml:"dotnet,omitempty"`
	// An entity reference to the category the pairing belongs to.
	// [required]
	Category string `yaml:"category,omitempty"`
	// Caveats about where the parallel breaks down.
	// [optional]
	Notes string `yaml:"notes,omitempty"`
}

type Equivalence struct {
	APIVersion string           `yaml:"apiVersion,omitempty"`
	Kind       string           `yaml:"kind,omitempty"`
	Metadata   *Metadata        `yaml:"metadata,omitempty"`
	Spec       *EquivalenceSpec `yaml:"spec,omitempty"`

	// Internal bookkeeping data, not part of the API.
	*SourceInfo `yaml:"-"`
}

// Category

type CategorySpec struct {
	// Display rank of the category. Lower ranks are shown first.
	// [optional]
	Rank int `yaml:"rank,omitempty"`
}

type Category struct {
	APIVersion string        `yaml:"apiVersion,omitempty"`
	Kind       string        `yaml:"kind,omitempty"`
	Metadata   *Metadata     `yaml:"metadata,omitempty"`
	Spec       *CategorySpec `yaml:"spec,omitempty"`

	// Internal bookkeeping data, not part of the API.
	*SourceInfo `yaml:"-"`
}

//
// Interface implementations.
//

func (e *Equivalence) GetKind() string          { return e.Kind }
func (e *Equivalence) GetMetadata() *Metadata   { return e.Metadata }
func (e *Equivalence) GetRef() *Ref             { return &Ref{Kind: KindEquivalence, Name: e.Metadata.Name} }
func (e *Equivalence) GetSourceInfo() *SourceInfo {
	return e.SourceInfo
}
func (e *Equivalence) SetSourceInfo(si *SourceInfo) { e.SourceInfo = si }

func (c *Category) GetKind() string          { return c.Kind }
func (c *Category) GetMetadata() *Metadata   { return c.Metadata }
func (c *Category) GetRef() *Ref             { return &Ref{Kind: KindCategory, Name: c.Metadata.Name} }
func (c *Category) GetSourceInfo() *SourceInfo {
	return c.SourceInfo
}
func (c *Category) SetSourceInfo(si *SourceInfo) { c.SourceInfo = si }
