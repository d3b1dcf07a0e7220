package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bvogt/anncat/internal/catalog"
)

// accessorFunc extracts the values of a named attribute from an entity.
// An attribute can have multiple values (e.g. tags), so a slice is returned.
type accessorFunc func(e catalog.Entity) []string

func springValues(e catalog.Entity) []string {
	if eq, ok := e.(*catalog.Equivalence); ok {
		vals := []string{eq.Spec.Spring.Annotation}
		if eq.Spec.Spring.Package != "" {
			vals = append(vals, eq.Spec.Spring.Package)
		}
		return vals
	}
	return nil
}

func dotnetValues(e catalog.Entity) []string {
	if eq, ok := e.(*catalog.Equivalence); ok {
		vals := []string{eq.Spec.Dotnet.Attribute}
		if eq.Spec.Dotnet.Namespace != "" {
			vals = append(vals, eq.Spec.Dotnet.Namespace)
		}
		return vals
	}
	return nil
}

// attributeAccessors maps the attribute names usable in queries to the
// entity fields they read.
var attributeAccessors = map[string]accessorFunc{
	"kind": func(e catalog.Entity) []string {
		return []string{string(e.GetKind())}
	},
	"name": func(e catalog.Entity) []string {
		return []string{e.GetName()}
	},
	"title": func(e catalog.Entity) []string {
		return []string{e.GetMetadata().Title}
	},
	"description": func(e catalog.Entity) []string {
		return []string{e.GetMetadata().Description}
	},
	"tag": func(e catalog.Entity) []string {
		return e.GetMetadata().Tags
	},
	"category": func(e catalog.Entity) []string {
		if eq, ok := e.(*catalog.Equivalence); ok && eq.Spec.Category != nil {
			return []string{eq.Spec.Category.Name}
		}
		return nil
	},
	"spring": springValues,
	"annotation": func(e catalog.Entity) []string {
		if eq, ok := e.(*catalog.Equivalence); ok {
			return []string{eq.Spec.Spring.Annotation}
		}
		return nil
	},
	"dotnet": dotnetValues,
	"attribute": func(e catalog.Entity) []string {
		if eq, ok := e.(*catalog.Equivalence); ok {
			return []string{eq.Spec.Dotnet.Attribute}
		}
		return nil
	},
	"package": func(e catalog.Entity) []string {
		if eq, ok := e.(*catalog.Equivalence); ok {
			return []string{eq.Spec.Spring.Package}
		}
		return nil
	},
	"namespace": func(e catalog.Entity) []string {
		if eq, ok := e.(*catalog.Equivalence); ok {
			return []string{eq.Spec.Dotnet.Namespace}
		}
		return nil
	},
	"since": func(e catalog.Entity) []string {
		if eq, ok := e.(*catalog.Equivalence); ok {
			var vals []string
			if eq.Spec.Spring.Since != "" {
				vals = append(vals, eq.Spec.Spring.Since)
			}
			if eq.Spec.Dotnet.Since != "" {
				vals = append(vals, eq.Spec.Dotnet.Since)
			}
			return vals
		}
		return nil
	},
	"notes": func(e catalog.Entity) []string {
		if eq, ok := e.(*catalog.Equivalence); ok {
			return []string{eq.Spec.Notes}
		}
		return nil
	},
}

// collectLeafValues gathers all searchable text of an entity for
// unqualified (full-text) terms.
func collectLeafValues(e catalog.Entity) []string {
	var vals []string
	for _, accessor := range attributeAccessors {
		vals = append(vals, accessor(e)...)
	}
	return vals
}

// Evaluator evaluates parsed query expressions against catalog entities.
// It caches compiled regular expressions, so it should be reused across
// entities when filtering a list.
type Evaluator struct {
	regexpCache map[string]*regexp.Regexp
}

func NewEvaluator() *Evaluator {
	return &Evaluator{
		regexpCache: make(map[string]*regexp.Regexp),
	}
}

func (ev *Evaluator) compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := ev.regexpCache[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regexp %q: %w", pattern, err)
	}
	ev.regexpCache[pattern] = re
	return re, nil
}

// Evaluate reports whether entity matches expr.
func (ev *Evaluator) Evaluate(entity catalog.Entity, expr Expression) (bool, error) {
	switch e := expr.(type) {
	case *Term:
		return ev.evalTerm(entity, e)
	case *AttributeTerm:
		return ev.evalAttributeTerm(entity, e)
	case *NotExpression:
		ok, err := ev.Evaluate(entity, e.Expression)
		if err != nil {
			return false, err
		}
		return !ok, nil
	case *BinaryExpression:
		left, err := ev.Evaluate(entity, e.Left)
		if err != nil {
			return false, err
		}
		switch e.Operator {
		case "AND":
			if !left {
				return false, nil
			}
			return ev.Evaluate(entity, e.Right)
		case "OR":
			if left {
				return true, nil
			}
			return ev.Evaluate(entity, e.Right)
		default:
			return false, fmt.Errorf("unknown operator %q", e.Operator)
		}
	case nil:
		return false, fmt.Errorf("cannot evaluate nil expression")
	default:
		return false, fmt.Errorf("unknown expression type %T", expr)
	}
}

func (ev *Evaluator) evalTerm(entity catalog.Entity, t *Term) (bool, error) {
	needle := strings.ToLower(t.Value)
	for _, val := range collectLeafValues(entity) {
		if strings.Contains(strings.ToLower(val), needle) {
			return true, nil
		}
	}
	return false, nil
}

func (ev *Evaluator) evalAttributeTerm(entity catalog.Entity, at *AttributeTerm) (bool, error) {
	accessor, ok := attributeAccessors[at.Attribute]
	if !ok {
		return false, fmt.Errorf("unknown attribute %q", at.Attribute)
	}
	vals := accessor(entity)
	switch at.Operator {
	case ":":
		needle := strings.ToLower(at.Value)
		for _, val := range vals {
			if strings.Contains(strings.ToLower(val), needle) {
				return true, nil
			}
		}
		return false, nil
	case "~":
		re, err := ev.compile(at.Value)
		if err != nil {
			return false, err
		}
		for _, val := range vals {
			if re.MatchString(val) {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("unknown attribute operator %q", at.Operator)
	}
}
