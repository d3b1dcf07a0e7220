package query

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single simple term",
			input:    "controller",
			expected: "controller",
		},
		{
			name:     "single attribute term",
			input:    "tag:core",
			expected: "tag:core",
		},
		{
			name:     "single attribute term with tilde",
			input:    "spring~Mapping",
			expected: "spring~Mapping",
		},
		{
			name:     "single attribute term with quoted value",
			input:    "title:'field injection'",
			expected: "title:'field injection'",
		},
		{
			name:     "simple OR",
			input:    "a OR b",
			expected: "(a OR b)",
		},
		{
			name:     "simple AND",
			input:    "a AND b",
			expected: "(a AND b)",
		},
		{
			name:     "simple implicit AND",
			input:    "a b",
			expected: "(a AND b)",
		},
		{
			name:     "negation",
			input:    "!controller",
			expected: "!controller",
		},
		{
			name:     "negation with attribute",
			input:    "!tag:core",
			expected: "!tag:core",
		},
		{
			name:     "grouped expression",
			input:    "(a OR b)",
			expected: "(a OR b)",
		},
		{
			name:     "AND and OR precedence",
			input:    "a AND b OR c",
			expected: "((a AND b) OR c)",
		},
		{
			name:     "OR and AND precedence",
			input:    "a OR b AND c",
			expected: "(a OR (b AND c))",
		},
		{
			name:     "grouped with surrounding terms",
			input:    "x (a OR b) y",
			expected: "((x AND (a OR b)) AND y)",
		},
		{
			name:     "negated group",
			input:    "!(a OR b)",
			expected: "!(a OR b)",
		},
		{
			name:     "implicit AND with attributes",
			input:    "category:web spring:Get",
			expected: "(category:web AND spring:Get)",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			expr, err := Parse(tc.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tc.input, err)
			}
			if got := expr.String(); got != tc.expected {
				t.Errorf("Parse(%q).String() = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "dangling operator", input: "a AND"},
		{name: "unclosed group", input: "(a OR b"},
		{name: "lone closing paren", input: ")"},
		{name: "attribute without value", input: "tag:"},
		{name: "operator without left operand", input: "OR b"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.input)
			if err == nil {
				t.Fatalf("Parse(%q) expected error, got nil", tc.input)
			}
			if !strings.Contains(err.Error(), "parser errors") {
				t.Errorf("Parse(%q) error = %v, want parser errors", tc.input, err)
			}
		})
	}
}
