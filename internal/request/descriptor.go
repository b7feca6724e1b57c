// Package request builds transport descriptors for the two competing query
// styles. Builders are pure: the same inputs always yield the same
// descriptor, and descriptors carrying validation issues are never executed.
package request

import (
	"net/http"
	"strings"
)

// Descriptor is an executable request shape: a method, a path relative to
// the session base URL, and an optional body. Issues collects structural
// problems found while building; a descriptor with issues must not be
// dispatched.
type Descriptor struct {
	Method      string
	Path        string
	Body        []byte
	ContentType string
	Issues      []string
}

// Valid reports whether the descriptor is safe to execute.
func (d Descriptor) Valid() bool {
	return len(d.Issues) == 0
}

// Target describes the descriptor for progress and tracing output.
func (d Descriptor) Target() string {
	method := d.Method
	if method == "" {
		method = http.MethodGet
	}
	return method + " " + d.Path
}

// IssueSummary joins validation issues into one human-readable string.
func (d Descriptor) IssueSummary() string {
	return strings.Join(d.Issues, "; ")
}
