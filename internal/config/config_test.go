package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bvogt/anncat/internal/store"
)

func writeConfig(t *testing.T, content string) store.Store {
	t.Helper()
	rootDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(rootDir, "anncat.yml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return store.NewDiskStore(rootDir)
}

func TestLoad(t *testing.T) {
	st := writeConfig(t, `
catalog:
  validation:
    equivalence:
      tag:
        values:
          - core
          - deprecated
      springPackage:
        matches:
          - "(org\\.springframework|jakarta)\\..*"
    category:
      name:
        matches:
          - "[a-z][a-z0-9-]*"
ui:
  helpLink:
    title: Query syntax
    url: https://example.com/help
`)

	bundle, err := Load(st, "anncat.yml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	v := bundle.Catalog.Validation
	if v == nil {
		t.Fatal("Catalog.Validation is nil")
	}
	if !v.Equivalence.Tag.Accept("core") {
		t.Error("Tag.Accept(core) = false, want true")
	}
	if v.Equivalence.Tag.Accept("experimental") {
		t.Error("Tag.Accept(experimental) = true, want false")
	}
	if !v.Equivalence.SpringPackage.Accept("jakarta.persistence") {
		t.Error("SpringPackage.Accept(jakarta.persistence) = false, want true")
	}
	if v.Equivalence.SpringPackage.Accept("com.example.foo") {
		t.Error("SpringPackage.Accept(com.example.foo) = true, want false")
	}
	if !v.Category.Name.Accept("dependency-injection") {
		t.Error("Category.Name.Accept(dependency-injection) = false, want true")
	}

	if bundle.UI.HelpLink == nil || bundle.UI.HelpLink.Title != "Query syntax" {
		t.Errorf("UI.HelpLink = %+v, want Query syntax", bundle.UI.HelpLink)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("unknown field", func(t *testing.T) {
		st := writeConfig(t, "catalogue:\n  foo: bar\n")
		_, err := Load(st, "anncat.yml")
		if err == nil {
			t.Fatal("Load() error = nil, want error")
		}
		if !strings.Contains(err.Error(), "catalogue") {
			t.Errorf("Load() error = %q, want it to mention the unknown field", err)
		}
	})

	t.Run("invalid regexp", func(t *testing.T) {
		st := writeConfig(t, `
catalog:
  validation:
    category:
      name:
        matches:
          - "["
`)
		_, err := Load(st, "anncat.yml")
		if err == nil {
			t.Fatal("Load() error = nil, want error for invalid regexp")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		st := store.NewDiskStore(t.TempDir())
		_, err := Load(st, "anncat.yml")
		if err == nil {
			t.Fatal("Load() error = nil, want error for missing file")
		}
	})
}
