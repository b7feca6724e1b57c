// Package scenario defines the benchmark scenario library and the expansion
// of enabled categories into concrete test units.
package scenario

import (
	"fmt"
	"strings"
)

// Call names one backend resource fetch: the resource, the fields to select,
// and an optional filter expression.
type Call struct {
	Resource string
	Fields   []string
	Filter   string
}

// Spec describes one benchmark variant. Exactly one of Single or Composite
// is set; Kind reports which.
type Spec struct {
	Category  string
	Variant   string
	Single    *Single
	Composite *Composite
}

// Single is a variant whose direct-fetch side is one resource call.
type Single struct {
	Call Call
}

// Composite is a variant whose direct-fetch side requires several resource
// calls fused into one logical measurement. Resources declares the expected
// call count and is validated against Calls before execution.
type Composite struct {
	Calls     []Call
	Resources int
}

// Kind tags the two spec shapes so callers can switch exhaustively.
type Kind int

const (
	KindUnknown Kind = iota
	KindSingle
	KindComposite
)

func (s Spec) Kind() Kind {
	switch {
	case s.Single != nil && s.Composite == nil:
		return KindSingle
	case s.Composite != nil && s.Single == nil:
		return KindComposite
	default:
		return KindUnknown
	}
}

// Calls returns the underlying resource calls regardless of shape.
func (s Spec) Calls() []Call {
	switch s.Kind() {
	case KindSingle:
		return []Call{s.Single.Call}
	case KindComposite:
		return append([]Call(nil), s.Composite.Calls...)
	default:
		return nil
	}
}

// Fields returns the union of field lists across all calls, in call order.
func (s Spec) Fields() []string {
	seen := map[string]struct{}{}
	var fields []string
	for _, call := range s.Calls() {
		for _, f := range call.Fields {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			fields = append(fields, f)
		}
	}
	return fields
}

// ValidationError reports an inconsistent scenario shape. Units failing this
// check are never executed.
type ValidationError struct {
	Category string
	Variant  string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("scenario %s/%s: %s", e.Category, e.Variant, e.Reason)
}

// Validate checks the spec shape before any network activity.
func (s Spec) Validate() error {
	switch s.Kind() {
	case KindSingle:
		return validateCall(s.Category, s.Variant, s.Single.Call)
	case KindComposite:
		if len(s.Composite.Calls) == 0 {
			return &ValidationError{Category: s.Category, Variant: s.Variant, Reason: "composite scenario has no calls"}
		}
		if s.Composite.Resources != len(s.Composite.Calls) {
			return &ValidationError{
				Category: s.Category,
				Variant:  s.Variant,
				Reason: fmt.Sprintf("composite declares %d resources but has %d calls",
					s.Composite.Resources, len(s.Composite.Calls)),
			}
		}
		for _, call := range s.Composite.Calls {
			if err := validateCall(s.Category, s.Variant, call); err != nil {
				return err
			}
		}
		return nil
	default:
		return &ValidationError{Category: s.Category, Variant: s.Variant, Reason: "spec must be single or composite"}
	}
}

func validateCall(category, variant string, call Call) error {
	if strings.TrimSpace(call.Resource) == "" {
		return &ValidationError{Category: category, Variant: variant, Reason: "call has no resource"}
	}
	if len(call.Fields) == 0 {
		return &ValidationError{Category: category, Variant: variant, Reason: fmt.Sprintf("call on %s has no fields", call.Resource)}
	}
	return nil
}
