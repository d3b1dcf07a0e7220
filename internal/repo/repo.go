package repo

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"log"
	"slices"
	"strings"

	"github.com/bvogt/anncat/internal/catalog"
	"github.com/bvogt/anncat/internal/store"
	"golang.org/x/mod/semver"
)

// ErrNotFound is returned by symbol lookups when no record matches.
var ErrNotFound = errors.New("no such record")

// LoadError reports malformed or missing backing catalog data.
// Path and Line are set when the failing document is known.
type LoadError struct {
	Path string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid catalog: %v", e.Err)
	}
	if e.Line == 0 {
		return fmt.Sprintf("invalid catalog (%s): %v", e.Path, e.Err)
	}
	return fmt.Sprintf("invalid catalog (%s:%d): %v", e.Path, e.Line, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Repository holds the loaded, validated equivalence catalog.
// It is populated once during Load and read-only thereafter, so it can be
// shared by concurrent readers without locking.
type Repository struct {
	// Maps containing the different kinds of entities in the repository,
	// keyed by entity name.
	equivalences map[string]*catalog.Equivalence
	categories   map[string]*catalog.Category
	// Tracks all entities added to this repo
	// (for duplicate detection and kind-independent lookups).
	//
	// This map is keyed by entity references including the kind: prefix.
	allEntities map[string]catalog.Entity

	// Equivalences in catalog order (file order, document order within a file).
	// This order matches the numbered list of the generated reference document.
	records []*catalog.Equivalence

	// Exact-match symbol indexes, built during Validate.
	bySpring map[string]*catalog.Equivalence
	byDotnet map[string]*catalog.Equivalence

	// Repository configuration
	config Config
}

func NewRepositoryWithConfig(config Config) *Repository {
	return &Repository{
		equivalences: make(map[string]*catalog.Equivalence),
		categories:   make(map[string]*catalog.Category),
		allEntities:  make(map[string]catalog.Entity),
		bySpring:     make(map[string]*catalog.Equivalence),
		byDotnet:     make(map[string]*catalog.Equivalence),
		config:       config,
	}
}

func NewRepository() *Repository {
	return NewRepositoryWithConfig(Config{})
}

func (r *Repository) Size() int {
	return len(r.allEntities)
}

func (r *Repository) setEntity(e catalog.Entity) error {
	switch x := e.(type) {
	case *catalog.Equivalence:
		r.equivalences[x.GetName()] = x
		r.records = append(r.records, x)
	case *catalog.Category:
		r.categories[x.GetName()] = x
	default:
		return fmt.Errorf("invalid type: %T", e)
	}

	r.allEntities[e.GetRef().String()] = e
	return nil
}

func (r *Repository) Exists(e catalog.Entity) bool {
	_, ok := r.allEntities[e.GetRef().String()]
	return ok
}

// AddEntity adds an entity to the repository during construction,
// before the repository is validated and indexes are built.
func (r *Repository) AddEntity(e catalog.Entity) error {
	if e.GetMetadata() == nil {
		return fmt.Errorf("entity metadata is nil")
	}
	if r.Exists(e) {
		return fmt.Errorf("entity %q already exists in the repository", e.GetRef())
	}
	return r.setEntity(e)
}

func getEntity[T any](m map[string]*T, ref *catalog.Ref, expectedKind catalog.Kind) *T {
	if ref.Kind != "" && ref.Kind != expectedKind {
		return nil
	}
	return m[ref.Name]
}

func (r *Repository) Equivalence(ref *catalog.Ref) *catalog.Equivalence {
	return getEntity(r.equivalences, ref, catalog.KindEquivalence)
}

func (r *Repository) Category(ref *catalog.Ref) *catalog.Category {
	return getEntity(r.categories, ref, catalog.KindCategory)
}

// Entity returns the entity identified by the entity reference ref, if it exists.
// If the entity does not exist, it returns the nil interface.
// The entity reference must be fully qualified, i.e. <kind>:<name>.
func (r *Repository) Entity(ref *catalog.Ref) catalog.Entity {
	if ref.Kind == "" {
		return nil // Entity lookup requires kind specifier
	}
	switch ref.Kind {
	case catalog.KindEquivalence:
		if e := r.Equivalence(ref); e != nil {
			return e
		}
	case catalog.KindCategory:
		if c := r.Category(ref); c != nil {
			return c
		}
	}
	return nil // invalid kind specifier
}

// BySpringAnnotation returns the record whose Spring annotation is exactly
// sym (case-sensitive). It returns ErrNotFound if no record matches.
func (r *Repository) BySpringAnnotation(sym string) (*catalog.Equivalence, error) {
	if e, ok := r.bySpring[sym]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("spring annotation %q: %w", sym, ErrNotFound)
}

// ByDotnetAttribute returns the record whose .NET attribute is exactly
// sym (case-sensitive). It returns ErrNotFound if no record matches.
func (r *Repository) ByDotnetAttribute(sym string) (*catalog.Equivalence, error) {
	if e, ok := r.byDotnet[sym]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("dotnet attribute %q: %w", sym, ErrNotFound)
}

// Records returns all equivalence records in catalog order.
// The returned sequence is restartable: each range over it yields the
// same records in the same order.
func (r *Repository) Records() iter.Seq[*catalog.Equivalence] {
	return func(yield func(*catalog.Equivalence) bool) {
		for _, e := range r.records {
			if !yield(e) {
				return
			}
		}
	}
}

// NumRecords returns the number of equivalence records in the repository.
func (r *Repository) NumRecords() int {
	return len(r.records)
}

// Categories returns all categories, ordered by (rank, name).
func (r *Repository) Categories() []*catalog.Category {
	result := make([]*catalog.Category, 0, len(r.categories))
	for _, c := range r.categories {
		result = append(result, c)
	}
	slices.SortFunc(result, func(a, b *catalog.Category) int {
		if c := cmp.Compare(a.GetRank(), b.GetRank()); c != 0 {
			return c
		}
		return cmp.Compare(a.GetName(), b.GetName())
	})
	return result
}

func (r *Repository) validateMetadata(m *catalog.Metadata) error {
	if m == nil {
		return fmt.Errorf("metadata is null")
	}
	if !catalog.IsValidName(m.Name) {
		return fmt.Errorf("invalid name: %s", m.Name)
	}
	for _, tag := range m.Tags {
		if !catalog.IsValidTag(tag) {
			return fmt.Errorf("invalid tag: %q", tag)
		}
	}
	for _, l := range m.Links {
		if strings.TrimSpace(l.URL) == "" {
			return fmt.Errorf("link with empty URL")
		}
	}
	return nil
}

// validSince checks that a spec "since" value is a valid semantic version.
// The leading "v" is optional in the YAML ("2.1.0" and "v2.1.0" are both fine).
func validSince(s string) bool {
	if !strings.HasPrefix(s, "v") {
		s = "v" + s
	}
	return semver.IsValid(s)
}

// Validate validates the repository (required identifier fields present,
// category references exist, symbols unique, etc.) and builds the
// exact-match symbol indexes.
func (r *Repository) Validate() error {
	// Validate against configured rules, if present
	if v := r.config.Validation; v != nil {
		for _, e := range r.allEntities {
			if err := v.Accept(e); err != nil {
				return fmt.Errorf("entity %s failed validation of configured rules: %v", e.GetRef(), err)
			}
		}
	}

	// Categories
	for _, c := range r.categories {
		if err := r.validateMetadata(c.Metadata); err != nil {
			return fmt.Errorf("category %s has invalid metadata: %v", c.GetName(), err)
		}
		if c.Spec == nil {
			return fmt.Errorf("category %s has no spec", c.GetName())
		}
	}

	// Equivalences. Iterate in catalog order so that duplicate-symbol errors
	// deterministically report the later record.
	clear(r.bySpring)
	clear(r.byDotnet)
	for _, e := range r.records {
		name := e.GetName()
		if err := r.validateMetadata(e.Metadata); err != nil {
			return fmt.Errorf("equivalence %s has invalid metadata: %v", name, err)
		}
		s := e.Spec
		if s == nil {
			return fmt.Errorf("equivalence %s has no spec", name)
		}
		if s.Spring == nil || s.Spring.Annotation == "" {
			return fmt.Errorf("equivalence %s has no spec.spring.annotation", name)
		}
		if s.Dotnet == nil || s.Dotnet.Attribute == "" {
			return fmt.Errorf("equivalence %s has no spec.dotnet.attribute", name)
		}
		if !catalog.IsValidSpringAnnotation(s.Spring.Annotation) {
			return fmt.Errorf("equivalence %s has a malformed spring annotation %q", name, s.Spring.Annotation)
		}
		if !catalog.IsValidDotnetAttribute(s.Dotnet.Attribute) {
			return fmt.Errorf("equivalence %s has a malformed dotnet attribute %q", name, s.Dotnet.Attribute)
		}
		if s.Spring.Since != "" && !validSince(s.Spring.Since) {
			return fmt.Errorf("equivalence %s has an invalid spring.since version %q", name, s.Spring.Since)
		}
		if s.Dotnet.Since != "" && !validSince(s.Dotnet.Since) {
			return fmt.Errorf("equivalence %s has an invalid dotnet.since version %q", name, s.Dotnet.Since)
		}
		if s.Category == nil {
			return fmt.Errorf("equivalence %s has no category reference", name)
		}
		if c := r.Category(s.Category); c == nil {
			return fmt.Errorf("category %q for equivalence %s is undefined", s.Category, name)
		}
		if prev, ok := r.bySpring[s.Spring.Annotation]; ok {
			return fmt.Errorf("duplicate spring annotation %q in equivalences %s and %s",
				s.Spring.Annotation, prev.GetName(), name)
		}
		if prev, ok := r.byDotnet[s.Dotnet.Attribute]; ok {
			return fmt.Errorf("duplicate dotnet attribute %q in equivalences %s and %s",
				s.Dotnet.Attribute, prev.GetName(), name)
		}
		r.bySpring[s.Spring.Annotation] = e
		r.byDotnet[s.Dotnet.Attribute] = e
	}

	// Validation succeeded: postprocess entities.
	r.populateRelationships()

	return nil
}

// populateRelationships populates the "inverse relationship" fields of entities.
// Assumes that the repository has been validated already.
func (r *Repository) populateRelationships() {
	// Walk records in catalog order, so each category lists its equivalences
	// in the same order as the catalog itself.
	for _, e := range r.records {
		c := r.Category(e.Spec.Category)
		c.AddEquivalence(e.GetRef())
	}
}

// Load reads entities from the *.yml files under catalogDir in the given
// store and returns a validated repository. Any malformed content is
// reported as a *LoadError.
func Load(st store.Store, config Config, catalogDir string) (*Repository, error) {
	repo := NewRepositoryWithConfig(config)
	err := repo.initialize(st, catalogDir)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *Repository) initialize(st store.Store, catalogDir string) error {
	if r.Size() != 0 {
		return fmt.Errorf("initialize called on a non-empty repo (size: %d)", r.Size())
	}
	catalogPaths, err := store.CatalogFiles(st, catalogDir)
	if err != nil {
		return &LoadError{Err: fmt.Errorf("cannot retrieve catalog files: %w", err)}
	}
	for _, catalogPath := range catalogPaths {
		log.Printf("Reading catalog file %s", catalogPath)
		entities, err := store.ReadRecords(st, catalogPath)
		if err != nil {
			return &LoadError{Path: catalogPath, Err: err}
		}
		for _, e := range entities {
			entity, err := catalog.NewEntityFromAPI(e)
			if err != nil {
				return &LoadError{
					Path: e.GetSourceInfo().Path,
					Line: e.GetSourceInfo().Line,
					Err:  err,
				}
			}
			if err := r.AddEntity(entity); err != nil {
				si := e.GetSourceInfo()
				return &LoadError{Path: si.Path, Line: si.Line, Err: err}
			}
		}
	}
	if err := r.Validate(); err != nil {
		return &LoadError{Err: err}
	}

	return nil
}
