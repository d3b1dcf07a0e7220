// Package catalog defines the model classes that form the equivalence catalog.
// See the api package for the types that are unmarshalled from YAML.
package catalog

import (
	"cmp"
	"strings"

	"github.com/bvogt/anncat/internal/api"
)

type Kind string

const (
	KindEquivalence Kind = api.KindEquivalence
	KindCategory    Kind = api.KindCategory
)

// Ref is a fully qualified entity reference.
type Ref struct {
	Kind Kind
	Name string
}

// Entity is the interface implemented by all entity kinds (Equivalence, Category).
type Entity interface {
	GetKind() Kind
	GetMetadata() *Metadata
	// Returns the fully qualified entity reference.
	GetRef() *Ref
	// Returns the entity name (unique per kind).
	GetName() string

	// GetSourceInfo returns internal bookkeeping data, e.g. for error logging.
	GetSourceInfo() *api.SourceInfo
	SetSourceInfo(si *api.SourceInfo)

	// Reset creates a shallow copy of the entity with computed values (inv. relations) removed.
	Reset() Entity
}

// Metadata

type Link struct {
	// A url in a standard uri format.
	// [required]
	URL string
	// A user friendly display name for the link.
	// [optional]
	Title string
}

type Metadata struct {
	// The name of the entity. Must be unique within the catalog for any given kind.
	// [required]
	Name string
	// A display name of the entity, to be presented in user interfaces instead
	// of the name property, when available.
	// [optional]
	Title string
	// An explanation of the entity. May use Markdown.
	// [optional]
	Description string
	// A list of single-valued strings, to classify entities in various ways.
	// [optional]
	Tags []string
	// A list of external hyperlinks related to the entity.
	// [optional]
	Links []*Link
}

// Equivalence

// SpringConcept is the Spring Boot side of a documented pairing.
type SpringConcept struct {
	// The annotation, including the leading "@", e.g. "@RestController".
	// [required]
	Annotation string
	// The Java package defining the annotation.
	// [optional]
	Package string
	// The framework version that introduced the annotation.
	// [optional]
	Since string
	// An illustrative code snippet, stored verbatim and never parsed.
	// [optional]
	Example string
}

// DotnetConcept is the .NET side of a documented pairing.
type DotnetConcept struct {
	// The attribute, including the surrounding brackets, e.g. "[ApiController]".
	// [required]
	Attribute string
	// The .NET namespace defining the attribute.
	// [optional]
	Namespace string
	// The framework version that introduced the attribute.
	// [optional]
	Since string
	// An illustrative code snippet, stored verbatim and never parsed.
	// [optional]
	Example string
}

type EquivalenceSpec struct {
	// The Spring Boot concept of the pairing.
	// [required]
	Spring *SpringConcept
	// The closest .NET counterpart.
	// [required]
	Dotnet *DotnetConcept
	// An entity reference to the category the pairing belongs to.
	// [required]
	Category *Ref
	// Caveats about where the parallel breaks down.
	// [optional]
	Notes string
}

type Equivalence struct {
	Metadata *Metadata
	Spec     *EquivalenceSpec

	sourceInfo *api.SourceInfo
}

// Category

type categoryInvRel struct {
	equivalences []*Ref
}

type CategorySpec struct {
	// Display rank of the category. Lower ranks are shown first.
	// [optional]
	Rank int

	// These fields are not part of the YAML descriptor format.
	// They are populated on demand to make "reverse navigation" easier.
	inv categoryInvRel
}

type Category struct {
	Metadata *Metadata
	Spec     *CategorySpec

	sourceInfo *api.SourceInfo
}

//
// Interface implementations and helpers.
//

func (r *Ref) Equal(other *Ref) bool {
	return r.Kind == other.Kind && r.Name == other.Name
}

func (r *Ref) String() string {
	var sb strings.Builder
	if r.Kind != "" {
		sb.WriteString(string(r.Kind) + ":")
	}
	sb.WriteString(r.Name)
	return sb.String()
}

// Compare compares two Refs lexicographically by (kind, name).
func (r *Ref) Compare(s *Ref) int {
	if c := cmp.Compare(r.Kind, s.Kind); c != 0 {
		return c
	}
	return cmp.Compare(r.Name, s.Name)
}

// CompareEntityByRef compares two entities lexicographically by (kind, name).
func CompareEntityByRef(a, b Entity) int {
	return a.GetRef().Compare(b.GetRef())
}

func (e *Equivalence) GetKind() Kind          { return KindEquivalence }
func (e *Equivalence) GetMetadata() *Metadata { return e.Metadata }
func (e *Equivalence) GetRef() *Ref           { return &Ref{Kind: KindEquivalence, Name: e.Metadata.Name} }
func (e *Equivalence) GetName() string        { return e.Metadata.Name }

// SpringAnnotation returns the stored Spring annotation identifier, e.g. "@Autowired".
func (e *Equivalence) SpringAnnotation() string { return e.Spec.Spring.Annotation }

// DotnetAttribute returns the stored .NET attribute identifier, e.g. "[Inject]".
func (e *Equivalence) DotnetAttribute() string { return e.Spec.Dotnet.Attribute }

func (e *Equivalence) GetSourceInfo() *api.SourceInfo   { return e.sourceInfo }
func (e *Equivalence) SetSourceInfo(si *api.SourceInfo) { e.sourceInfo = si }
func (e *Equivalence) Reset() Entity {
	clone := *e
	spec := *e.Spec
	clone.Spec = &spec
	return &clone
}

func (c *Category) GetKind() Kind          { return KindCategory }
func (c *Category) GetMetadata() *Metadata { return c.Metadata }
func (c *Category) GetRef() *Ref           { return &Ref{Kind: KindCategory, Name: c.Metadata.Name} }
func (c *Category) GetName() string        { return c.Metadata.Name }
func (c *Category) GetRank() int           { return c.Spec.Rank }

// GetEquivalences returns the references of all equivalences assigned to this
// category, in catalog order.
func (c *Category) GetEquivalences() []*Ref { return c.Spec.inv.equivalences }
func (c *Category) AddEquivalence(e *Ref) {
	c.Spec.inv.equivalences = append(c.Spec.inv.equivalences, e)
}
func (c *Category) GetSourceInfo() *api.SourceInfo   { return c.sourceInfo }
func (c *Category) SetSourceInfo(si *api.SourceInfo) { c.sourceInfo = si }
func (c *Category) Reset() Entity {
	clone := *c
	spec := *c.Spec
	clone.Spec = &spec
	clone.Spec.inv = categoryInvRel{}
	return &clone
}

func ParseRef(s string) (*Ref, error) {
	r, err := api.ParseRef(s)
	if err != nil {
		return nil, err
	}
	return NewRefFromAPI(r)
}

func ParseRefAs(kind Kind, s string) (*Ref, error) {
	r, err := api.ParseRef(s)
	if err != nil {
		return nil, err
	}
	return NewRefFromAPIWithKind(kind, r)
}
