// Package docs generates a markdown reference of the annotation catalog,
// suitable for publishing as-is or through a static site generator.
package docs

import (
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/bvogt/anncat/internal/catalog"
	"github.com/bvogt/anncat/internal/repo"
)

// Generator builds the documentation structure.
type Generator struct {
	repo *repo.Repository
}

func NewGenerator(r *repo.Repository) *Generator {
	return &Generator{repo: r}
}

// numberedRecord pairs an equivalence with its running number in the
// generated reference. Numbering is continuous across categories.
type numberedRecord struct {
	Number      int
	Equivalence *catalog.Equivalence
}

type categorySection struct {
	Category *catalog.Category
	Records  []numberedRecord
}

// Generate builds the documentation in the output directory.
func (g *Generator) Generate(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", outputDir, err)
	}

	// Group records by category, keeping categories in rank order and
	// records in catalog order.
	var sections []categorySection
	number := 0
	for _, cat := range g.repo.Categories() {
		section := categorySection{Category: cat}
		for _, ref := range cat.GetEquivalences() {
			eq := g.repo.Equivalence(ref)
			if eq == nil {
				continue
			}
			number++
			section.Records = append(section.Records, numberedRecord{
				Number:      number,
				Equivalence: eq,
			})
		}
		sections = append(sections, section)
	}

	if err := g.generateIndex(outputDir, sections); err != nil {
		return err
	}

	for _, section := range sections {
		filename := filepath.Join(outputDir, section.Category.GetName()+".md")
		if err := g.generateCategoryDoc(filename, section); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) generateIndex(dir string, sections []categorySection) error {
	f, err := os.Create(filepath.Join(dir, "index.md"))
	if err != nil {
		return fmt.Errorf("failed to create index.md in %s: %w", dir, err)
	}
	defer f.Close()

	data := struct {
		Title    string
		Sections []categorySection
	}{
		Title:    "Spring annotations and their .NET equivalents",
		Sections: sections,
	}

	if err := indexTemplate.Execute(f, data); err != nil {
		return fmt.Errorf("failed to execute index template: %w", err)
	}
	return nil
}

func (g *Generator) generateCategoryDoc(filename string, section categorySection) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create category doc %s: %w", filename, err)
	}
	defer f.Close()

	if err := categoryTemplate.Execute(f, section); err != nil {
		return fmt.Errorf("failed to execute category template: %w", err)
	}
	return nil
}

// Templates

var indexTemplate = template.Must(template.New("index").Parse(`---
title: {{ .Title }}
---
<!-- Auto-generated by anncat gen-docs. DO NOT EDIT. -->
# {{ .Title }}

## Categories

{{ range .Sections -}}
* [{{ .Category.GetName }}]({{ .Category.GetName }}.md){{ if .Category.GetMetadata.Title }} - *{{ .Category.GetMetadata.Title }}*{{ end }}
{{ end }}
## All annotations

| # | Spring | .NET | Category |
|---|--------|------|----------|
{{ range .Sections }}{{ $cat := .Category -}}
{{ range .Records -}}
| {{ .Number }} | ` + "`{{ .Equivalence.SpringAnnotation }}`" + ` | ` + "`{{ .Equivalence.DotnetAttribute }}`" + ` | [{{ $cat.GetName }}]({{ $cat.GetName }}.md) |
{{ end }}{{ end -}}
`))

var categoryTemplate = template.Must(template.New("category").Parse(`---
title: {{ .Category.GetName }}
---
<!-- Auto-generated by anncat gen-docs. DO NOT EDIT. -->
# {{ if .Category.GetMetadata.Title }}{{ .Category.GetMetadata.Title }}{{ else }}{{ .Category.GetName }}{{ end }}

{{ if .Category.GetMetadata.Description }}{{ .Category.GetMetadata.Description }}
{{ end }}
{{- range .Records }}
## {{ .Number }}. {{ .Equivalence.SpringAnnotation }} / {{ .Equivalence.DotnetAttribute }}

{{ .Equivalence.GetMetadata.Description }}

| | Spring | .NET |
|---|--------|------|
| Symbol | ` + "`{{ .Equivalence.SpringAnnotation }}`" + ` | ` + "`{{ .Equivalence.DotnetAttribute }}`" + ` |
{{ if or .Equivalence.Spec.Spring.Package .Equivalence.Spec.Dotnet.Namespace -}}
| Origin | ` + "`{{ .Equivalence.Spec.Spring.Package }}`" + ` | ` + "`{{ .Equivalence.Spec.Dotnet.Namespace }}`" + ` |
{{ end -}}
{{ if or .Equivalence.Spec.Spring.Since .Equivalence.Spec.Dotnet.Since -}}
| Since | {{ .Equivalence.Spec.Spring.Since }} | {{ .Equivalence.Spec.Dotnet.Since }} |
{{ end }}
{{- if .Equivalence.Spec.Spring.Example }}
Spring:

` + "```java\n{{ .Equivalence.Spec.Spring.Example }}\n```" + `
{{ end }}
{{- if .Equivalence.Spec.Dotnet.Example }}
.NET:

` + "```csharp\n{{ .Equivalence.Spec.Dotnet.Example }}\n```" + `
{{ end }}
{{- if .Equivalence.Spec.Notes }}
{{ .Equivalence.Spec.Notes }}
{{ end }}
{{- end }}
`))
