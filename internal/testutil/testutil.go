// Package testutil contains helpers shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bvogt/anncat/internal/repo"
	"github.com/bvogt/anncat/internal/store"
)

// WriteCatalog writes the given catalog files (path -> YAML content,
// paths relative to the catalog dir) into a temp directory and returns
// a DiskStore rooted there.
func WriteCatalog(t *testing.T, files map[string]string) *store.DiskStore {
	t.Helper()
	rootDir := t.TempDir()
	for path, content := range files {
		fullPath := filepath.Join(rootDir, "catalog", path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", path, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", path, err)
		}
	}
	return store.NewDiskStore(rootDir)
}

// LoadRepo writes the given catalog files to disk and loads them into a
// validated repository. It fails the test on any load error.
func LoadRepo(t *testing.T, files map[string]string) *repo.Repository {
	t.Helper()
	st := WriteCatalog(t, files)
	r, err := repo.Load(st, repo.Config{}, "catalog")
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	return r
}

// MinimalCatalog returns a small but complete catalog usable as a
// starting point for tests.
func MinimalCatalog() map[string]string {
	return map[string]string{
		"categories.yml": `
kind: Category
metadata:
  name: dependency-injection
  title: Dependency injection
spec:
  rank: 1
---
kind: Category
metadata:
  name: web
  title: Web and REST
spec:
  rank: 2
`,
		"records.yml": `
kind: Equivalence
metadata:
  name: autowired
  description: Injects a dependency from the container.
spec:
  spring:
    annotation: "@Autowired"
    package: org.springframework.beans.factory.annotation
  dotnet:
    attribute: "[Inject]"
    namespace: Microsoft.AspNetCore.Components
  category: dependency-injection
---
kind: Equivalence
metadata:
  name: rest-controller
  description: Marks a class as a REST controller.
spec:
  spring:
    annotation: "@RestController"
    package: org.springframework.web.bind.annotation
  dotnet:
    attribute: "[ApiController]"
    namespace: Microsoft.AspNetCore.Mvc
  category: web
`,
	}
}
