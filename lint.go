package addons

import (
	"context"
	"fmt"

	"github.com/goliatone/go-addons/pkg/displayers"
	"github.com/goliatone/go-addons/pkg/schema"
)

// Severity grades lint findings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one lint finding, located by entity type and field identity.
type Issue struct {
	Severity   Severity `json:"severity"`
	EntityType string   `json:"entityType"`
	Source     string   `json:"source"`
	Group      string   `json:"group"`
	Field      string   `json:"field"`
	Message    string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s %s/%s/%s: %s", i.Severity, i.EntityType, i.Source, i.Group, i.Field, i.Message)
}

// Lint checks every field of every configured entity type resolves to a
// displayer. Fields naming a displayer that is not registered are reported
// as warnings since they still render, without extra attributes.
func (s *Service) Lint(ctx context.Context) ([]Issue, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return LintCatalog(s.registry, catalog), nil
}

// LintCatalog runs the Lint checks against catalog.
func LintCatalog(registry *displayers.Registry, catalog schema.Catalog) []Issue {
	var issues []Issue
	for _, entity := range catalog.Entities {
		for _, source := range entity.Schema.Sources {
			for _, group := range source.Groups {
				for _, field := range group.Fields {
					if field.HasTemplate() {
						continue
					}
					issue := Issue{
						EntityType: entity.Name,
						Source:     source.Name,
						Group:      group.Key,
						Field:      field.Key,
					}
					fieldType := registry.InferType(field.Type, field.Displayer)
					name, err := registry.ResolveName(fieldType, field.Displayer)
					if err != nil {
						issue.Severity = SeverityError
						issue.Message = err.Error()
						issues = append(issues, issue)
						continue
					}
					if !registry.Has(name) {
						issue.Severity = SeverityWarning
						issue.Message = fmt.Sprintf("displayer %q is not registered", name)
						issues = append(issues, issue)
					}
				}
			}
		}
	}
	return issues
}
