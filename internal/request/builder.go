package request

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"querybench/internal/scenario"
)

// Builder produces descriptors for both query styles. It is called before
// every attempt and never caches across differing field/limit combinations.
type Builder interface {
	// Rest builds a direct resource-fetch request for one call.
	Rest(call scenario.Call, limit int) Descriptor

	// Query builds one structured query request covering all calls.
	Query(calls []scenario.Call, limit int) Descriptor
}

// DefaultBuilder targets the backend's /api/data and /api/query surfaces.
type DefaultBuilder struct{}

var fieldNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

func NewBuilder() *DefaultBuilder {
	return &DefaultBuilder{}
}

// Rest builds GET /api/data/<resource>?fields=...&filter=...&limit=N.
func (DefaultBuilder) Rest(call scenario.Call, limit int) Descriptor {
	issues := validateCall(call, limit)

	values := url.Values{}
	values.Set("fields", strings.Join(call.Fields, ","))
	if strings.TrimSpace(call.Filter) != "" {
		values.Set("filter", call.Filter)
	}
	values.Set("limit", strconv.Itoa(limit))

	return Descriptor{
		Method: http.MethodGet,
		Path:   "/api/data/" + url.PathEscape(call.Resource) + "?" + values.Encode(),
		Issues: issues,
	}
}

type queryBody struct {
	Queries []queryClause `json:"queries"`
}

type queryClause struct {
	Entity string   `json:"entity"`
	Fields []string `json:"fields"`
	Filter string   `json:"filter,omitempty"`
	Limit  int      `json:"limit"`
}

// Query builds POST /api/query with one clause per call. Composite scenarios
// batch all their resources into this single request.
func (DefaultBuilder) Query(calls []scenario.Call, limit int) Descriptor {
	var issues []string
	if len(calls) == 0 {
		issues = append(issues, "query requires at least one call")
	}

	clauses := make([]queryClause, 0, len(calls))
	for _, call := range calls {
		issues = append(issues, validateCall(call, limit)...)
		clauses = append(clauses, queryClause{
			Entity: call.Resource,
			Fields: append([]string(nil), call.Fields...),
			Filter: call.Filter,
			Limit:  limit,
		})
	}

	body, err := json.Marshal(queryBody{Queries: clauses})
	if err != nil {
		issues = append(issues, fmt.Sprintf("encode query body: %v", err))
	}

	return Descriptor{
		Method:      http.MethodPost,
		Path:        "/api/query",
		Body:        body,
		ContentType: "application/json",
		Issues:      issues,
	}
}

func validateCall(call scenario.Call, limit int) []string {
	var issues []string
	if strings.TrimSpace(call.Resource) == "" {
		issues = append(issues, "resource name is empty")
	}
	if len(call.Fields) == 0 {
		issues = append(issues, fmt.Sprintf("no fields selected for %q", call.Resource))
	}
	for _, field := range call.Fields {
		if !fieldNamePattern.MatchString(field) {
			issues = append(issues, fmt.Sprintf("invalid field name %q", field))
		}
	}
	if limit < 1 {
		issues = append(issues, fmt.Sprintf("limit must be >= 1, got %d", limit))
	}
	return issues
}
