package repo

import (
	"slices"
	"strings"

	"github.com/bvogt/anncat/internal/catalog"
	"github.com/bvogt/anncat/internal/query"
)

// Finder searches the repository using the query language.
type Finder struct{}

// NewFinder creates a new Finder.
func NewFinder() *Finder {
	return &Finder{}
}

// filterEntities filters items by the query q, preserving the order of items.
func filterEntities[T catalog.Entity](q string, items []T) []T {
	if strings.TrimSpace(q) == "" {
		// No filter, return all items
		return slices.Clone(items)
	}
	expr, err := query.Parse(q)
	if err != nil {
		return nil // Invalid query => no results
	}
	ev := query.NewEvaluator()
	var result []T
	for _, item := range items {
		ok, err := ev.Evaluate(item, expr)
		if err != nil {
			return nil // Broken query (e.g. broken regex) => no results
		}
		if ok {
			result = append(result, item)
		}
	}
	return result
}

// FindEquivalences returns the equivalence records matching q in catalog order.
func (f *Finder) FindEquivalences(repo *Repository, q string) []*catalog.Equivalence {
	return filterEntities(q, repo.records)
}

// FindCategories returns the categories matching q, ordered by rank.
func (f *Finder) FindCategories(repo *Repository, q string) []*catalog.Category {
	return filterEntities(q, repo.Categories())
}

// FindEntities returns all entities matching q, equivalences first.
func (f *Finder) FindEntities(repo *Repository, q string) []catalog.Entity {
	var all []catalog.Entity
	for _, e := range repo.records {
		all = append(all, e)
	}
	for _, c := range repo.Categories() {
		all = append(all, c)
	}
	return filterEntities(q, all)
}
