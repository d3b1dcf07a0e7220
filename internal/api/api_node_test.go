package api

import (
	"strings"
	"testing"
)

func TestNewEntityFromString_Equivalence(t *testing.T) {
	const doc = `
kind: Equivalence
metadata:
  name: rest-controller
  title: REST controller class
  tags:
    - core
spec:
  spring:
    annotation: "@RestController"
    package: org.springframework.web.bind.annotation
    since: "4.0.0"
  dotnet:
    attribute: "[ApiController]"
    namespace: Microsoft.AspNetCore.Mvc
  category: web
  notes: Some caveats.
`
	entity, err := NewEntityFromString(doc)
	if err != nil {
		t.Fatalf("NewEntityFromString() error = %v", err)
	}
	eq, ok := entity.(*Equivalence)
	if !ok {
		t.Fatalf("entity type = %T, want *Equivalence", entity)
	}
	if eq.Metadata.Name != "rest-controller" {
		t.Errorf("Metadata.Name = %q, want rest-controller", eq.Metadata.Name)
	}
	if eq.Spec.Spring.Annotation != "@RestController" {
		t.Errorf("Spring.Annotation = %q, want @RestController", eq.Spec.Spring.Annotation)
	}
	if eq.Spec.Dotnet.Attribute != "[ApiController]" {
		t.Errorf("Dotnet.Attribute = %q, want [ApiController]", eq.Spec.Dotnet.Attribute)
	}
	if eq.Spec.Category != "web" {
		t.Errorf("Spec.Category = %q, want web", eq.Spec.Category)
	}
	wantRef := "equivalence:rest-controller"
	if got := eq.GetRef().String(); got != wantRef {
		t.Errorf("GetRef() = %q, want %q", got, wantRef)
	}
	if eq.GetSourceInfo() == nil || eq.GetSourceInfo().Node == nil {
		t.Error("GetSourceInfo() has no node")
	}
}

func TestNewEntityFromString_Category(t *testing.T) {
	const doc = `
kind: Category
metadata:
  name: web
  title: Web and REST
spec:
  rank: 2
`
	entity, err := NewEntityFromString(doc)
	if err != nil {
		t.Fatalf("NewEntityFromString() error = %v", err)
	}
	cat, ok := entity.(*Category)
	if !ok {
		t.Fatalf("entity type = %T, want *Category", entity)
	}
	if cat.Spec.Rank != 2 {
		t.Errorf("Spec.Rank = %d, want 2", cat.Spec.Rank)
	}
}

func TestNewEntityFromString_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantMsg string
	}{
		{
			name:    "missing kind",
			doc:     "metadata:\n  name: foo\n",
			wantMsg: "no 'kind' field",
		},
		{
			name:    "invalid kind",
			doc:     "kind: Gadget\nmetadata:\n  name: foo\n",
			wantMsg: "invalid kind",
		},
		{
			name: "unknown field",
			doc: `
kind: Equivalence
metadata:
  name: foo
spec:
  flavor: vanilla
`,
			wantMsg: "flavor",
		},
		{
			name:    "not a map",
			doc:     "- a\n- b\n",
			wantMsg: "top-level map",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEntityFromString(tt.doc)
			if err == nil {
				t.Fatal("NewEntityFromString() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		input    string
		wantKind string
		wantName string
		wantErr  bool
	}{
		{input: "category:web", wantKind: "category", wantName: "web"},
		{input: "equivalence:rest-controller", wantKind: "equivalence", wantName: "rest-controller"},
		{input: "web", wantKind: "", wantName: "web"},
		{input: "gadget:web", wantErr: true},
		{input: "category:", wantErr: true},
		{input: "category:-bad", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ref, err := ParseRef(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRef(%q) error = %v, wantErr %t", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if ref.Kind != tt.wantKind || ref.Name != tt.wantName {
				t.Errorf("ParseRef(%q) = %v, want %s:%s", tt.input, ref, tt.wantKind, tt.wantName)
			}
		})
	}
}

func TestIsValidName(t *testing.T) {
	valid := []string{"web", "rest-controller", "a", "a1", "A-1-b"}
	for _, s := range valid {
		if !IsValidName(s) {
			t.Errorf("IsValidName(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "-web", "web-", "1web", "has space", "has.dot", strings.Repeat("a", 64)}
	for _, s := range invalid {
		if IsValidName(s) {
			t.Errorf("IsValidName(%q) = true, want false", s)
		}
	}
}
