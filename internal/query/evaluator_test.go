package query

import (
	"testing"

	"github.com/bvogt/anncat/internal/catalog"
)

func testEquivalence() *catalog.Equivalence {
	return &catalog.Equivalence{
		Metadata: &catalog.Metadata{
			Name:        "get-mapping",
			Title:       "GET handler",
			Description: "Maps HTTP GET requests to a handler method.",
			Tags:        []string{"core"},
		},
		Spec: &catalog.EquivalenceSpec{
			Spring: &catalog.SpringConcept{
				Annotation: "@GetMapping",
				Package:    "org.springframework.web.bind.annotation",
				Since:      "4.3.0",
			},
			Dotnet: &catalog.DotnetConcept{
				Attribute: "[HttpGet]",
				Namespace: "Microsoft.AspNetCore.Mvc",
			},
			Category: &catalog.Ref{Kind: catalog.KindCategory, Name: "web"},
			Notes:    "Route templates differ in syntax.",
		},
	}
}

func TestEvaluate(t *testing.T) {
	eq := testEquivalence()

	testCases := []struct {
		query string
		want  bool
	}{
		// Full-text terms match any attribute, case-insensitively.
		{"getmapping", true},
		{"HTTPGET", true},
		{"handler", true},
		{"nomatch", false},
		// Attribute terms.
		{"spring:GetMapping", true},
		{"spring:@getmapping", true},
		{"annotation:GetMapping", true},
		{"dotnet:HttpGet", true},
		{"attribute:HttpGet", true},
		{"package:bind.annotation", true},
		{"namespace:AspNetCore", true},
		{"category:web", true},
		{"category:data", false},
		{"tag:core", true},
		{"tag:deprecated", false},
		{"name:get-mapping", true},
		{"title:GET", true},
		{"since:4.3", true},
		{"notes:syntax", true},
		{"kind:equivalence", true},
		{"kind:category", false},
		// Regex operator.
		{"spring~^@Get", true},
		{"spring~^Get", false},
		{"dotnet~Http(Get|Post)", true},
		// Boolean combinations.
		{"category:web AND tag:core", true},
		{"category:web AND tag:deprecated", false},
		{"category:data OR tag:core", true},
		{"!tag:deprecated", true},
		{"!(category:web)", false},
		{"spring:Get dotnet:Get", true},
	}

	ev := NewEvaluator()
	for _, tc := range testCases {
		t.Run(tc.query, func(t *testing.T) {
			expr, err := Parse(tc.query)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tc.query, err)
			}
			got, err := ev.Evaluate(eq, expr)
			if err != nil {
				t.Fatalf("Evaluate(%q) error = %v", tc.query, err)
			}
			if got != tc.want {
				t.Errorf("Evaluate(%q) = %t, want %t", tc.query, got, tc.want)
			}
		})
	}
}

func TestEvaluateCategory(t *testing.T) {
	cat := &catalog.Category{
		Metadata: &catalog.Metadata{
			Name:  "web",
			Title: "Web and REST",
		},
		Spec: &catalog.CategorySpec{Rank: 2},
	}

	ev := NewEvaluator()
	testCases := []struct {
		query string
		want  bool
	}{
		{"kind:category", true},
		{"name:web", true},
		{"title:REST", true},
		// Equivalence-only attributes yield no values for categories.
		{"spring:web", false},
	}
	for _, tc := range testCases {
		t.Run(tc.query, func(t *testing.T) {
			expr, err := Parse(tc.query)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tc.query, err)
			}
			got, err := ev.Evaluate(cat, expr)
			if err != nil {
				t.Fatalf("Evaluate(%q) error = %v", tc.query, err)
			}
			if got != tc.want {
				t.Errorf("Evaluate(%q) = %t, want %t", tc.query, got, tc.want)
			}
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	eq := testEquivalence()
	ev := NewEvaluator()

	t.Run("unknown attribute", func(t *testing.T) {
		expr, err := Parse("owner:alice")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if _, err := ev.Evaluate(eq, expr); err == nil {
			t.Error("Evaluate() expected error for unknown attribute, got nil")
		}
	})

	t.Run("invalid regexp", func(t *testing.T) {
		expr, err := Parse("spring~'['")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if _, err := ev.Evaluate(eq, expr); err == nil {
			t.Error("Evaluate() expected error for invalid regexp, got nil")
		}
	})
}
