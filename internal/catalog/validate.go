package catalog

import (
	"regexp"

	"github.com/bvogt/anncat/internal/api"
)

var (
	// tagRegex validates the tag format. It must consist of one or more
	// segments of [a-z0-9:+#], separated by single hyphens.
	tagRegex = regexp.MustCompile(`^[a-z0-9:+#]+(-[a-z0-9:+#]+)*$`)

	// springAnnotationRegex validates a Spring annotation identifier: a leading
	// "@" followed by a Java identifier path, e.g. "@RestController" or
	// "@Scheduled.fixedRate".
	springAnnotationRegex = regexp.MustCompile(`^@[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

	// dotnetAttributeRegex validates a .NET attribute identifier in bracket
	// form, e.g. "[ApiController]". Only the bare attribute name is stored;
	// parameters belong in examples.
	dotnetAttributeRegex = regexp.MustCompile(`^\[[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*\]$`)
)

func IsValidKind(kind string) bool {
	return api.IsValidRefKind(kind)
}

func IsValidName(s string) bool {
	return api.IsValidName(s)
}

// IsValidTag checks if tag is a valid tag. Tags are lowercase, short, and
// hyphen-separated, following the Backstage descriptor conventions.
func IsValidTag(tag string) bool {
	if len(tag) > 63 {
		return false
	}
	return tagRegex.MatchString(tag)
}

// IsValidSpringAnnotation checks whether s is a well-formed Spring annotation
// identifier as stored in the catalog (leading "@", no parameters).
func IsValidSpringAnnotation(s string) bool {
	return springAnnotationRegex.MatchString(s)
}

// IsValidDotnetAttribute checks whether s is a well-formed .NET attribute
// identifier as stored in the catalog (bracketed, no parameters).
func IsValidDotnetAttribute(s string) bool {
	return dotnetAttributeRegex.MatchString(s)
}
