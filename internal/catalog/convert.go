package catalog

import (
	"fmt"

	"github.com/bvogt/anncat/internal/api"
)

func APIRef(r *Ref) *api.Ref {
	return &api.Ref{
		Kind: string(r.Kind),
		Name: r.Name,
	}
}

// NewRefFromAPI creates a new catalog.Ref from the given api.Ref.
// All fields must be present and valid. In particular, an empty Kind
// field is not allowed.
func NewRefFromAPI(r *api.Ref) (*Ref, error) {
	if r == nil {
		return nil, fmt.Errorf("nil reference")
	}
	if !IsValidKind(r.Kind) {
		return nil, fmt.Errorf("invalid kind: %q", r.Kind)
	}
	return NewRefFromAPIWithKind(Kind(r.Kind), r)
}

// NewRefFromAPIWithKind creates a new catalog.Ref from the given api.Ref.
// It expects the Kind field of r either to be empty or to be equal to the given kind.
// If r.Kind is empty, kind is assigned to the returned Ref.
func NewRefFromAPIWithKind(kind Kind, r *api.Ref) (*Ref, error) {
	if r == nil {
		return nil, fmt.Errorf("nil reference for kind %q", kind)
	}
	if !IsValidKind(string(kind)) {
		return nil, fmt.Errorf("invalid kind: %q", kind)
	}
	if !IsValidName(r.Name) {
		return nil, fmt.Errorf("invalid name: %q", r.Name)
	}
	if r.Kind != "" && r.Kind != string(kind) {
		return nil, fmt.Errorf("kind mismatch in ref conversion: got %q, want %q", r.Kind, kind)
	}
	return &Ref{
		Kind: kind,
		Name: r.Name,
	}, nil
}

func newMetadataFromAPI(m *api.Metadata) (*Metadata, error) {
	if m == nil {
		return nil, fmt.Errorf("metadata is nil")
	}
	var links []*Link
	for _, l := range m.Links {
		if l == nil {
			return nil, fmt.Errorf("nil link in metadata of %q", m.Name)
		}
		links = append(links, &Link{URL: l.URL, Title: l.Title})
	}
	return &Metadata{
		Name:        m.Name,
		Title:       m.Title,
		Description: m.Description,
		Tags:        append([]string(nil), m.Tags...),
		Links:       links,
	}, nil
}

func newEquivalenceFromAPI(e *api.Equivalence) (*Equivalence, error) {
	meta, err := newMetadataFromAPI(e.Metadata)
	if err != nil {
		return nil, err
	}
	if e.Spec == nil {
		return nil, fmt.Errorf("equivalence %q has no spec", meta.Name)
	}
	spec := &EquivalenceSpec{
		Notes: e.Spec.Notes,
	}
	if s := e.Spec.Spring; s != nil {
		spec.Spring = &SpringConcept{
			Annotation: s.Annotation,
			Package:    s.Package,
			Since:      s.Since,
			Example:    s.Example,
		}
	}
	if d := e.Spec.Dotnet; d != nil {
		spec.Dotnet = &DotnetConcept{
			Attribute: d.Attribute,
			Namespace: d.Namespace,
			Since:     d.Since,
			Example:   d.Example,
		}
	}
	if c := e.Spec.Category; c != "" {
		ref, err := ParseRefAs(KindCategory, c)
		if err != nil {
			return nil, fmt.Errorf("invalid category reference %q for equivalence %q: %v", c, meta.Name, err)
		}
		spec.Category = ref
	}
	result := &Equivalence{
		Metadata: meta,
		Spec:     spec,
	}
	result.SetSourceInfo(e.GetSourceInfo())
	return result, nil
}

func newCategoryFromAPI(c *api.Category) (*Category, error) {
	meta, err := newMetadataFromAPI(c.Metadata)
	if err != nil {
		return nil, err
	}
	spec := &CategorySpec{}
	if c.Spec != nil {
		spec.Rank = c.Spec.Rank
	}
	result := &Category{
		Metadata: meta,
		Spec:     spec,
	}
	result.SetSourceInfo(c.GetSourceInfo())
	return result, nil
}

// NewEntityFromAPI converts a parsed api entity into its catalog model type.
func NewEntityFromAPI(e api.Entity) (Entity, error) {
	switch x := e.(type) {
	case *api.Equivalence:
		return newEquivalenceFromAPI(x)
	case *api.Category:
		return newCategoryFromAPI(x)
	}
	return nil, fmt.Errorf("unsupported api entity type %T", e)
}
