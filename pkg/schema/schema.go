/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

package schema

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	preflighterrors "github.com/erptools/preflight/pkg/errors"
	"github.com/erptools/preflight/pkg/record"
)

var (
	//go:embed data/schemas-v1.yaml
	schemaData []byte

	registryOnce   sync.Once
	cachedRegistry *Registry
	cachedErr      error
)

// FieldType is the declared type of a schema field.
type FieldType string

const (
	TypeString    FieldType = "string"
	TypeText      FieldType = "text"
	TypeInteger   FieldType = "integer"
	TypeFloat     FieldType = "float"
	TypeBoolean   FieldType = "boolean"
	TypeDate      FieldType = "date"
	TypeSelection FieldType = "selection"
	TypeMany2One  FieldType = "many2one"
	TypeMany2Many FieldType = "many2many"
	TypeArray     FieldType = "array"
)

// FieldSpec declares the type and constraints of one model field.
type FieldSpec struct {
	Type     FieldType `yaml:"type"`
	Required bool      `yaml:"required"`
	Values   []string  `yaml:"values,omitempty"`
	Min      *float64  `yaml:"min,omitempty"`
	Max      *float64  `yaml:"max,omitempty"`
}

// IsRelation reports whether the field references another record.
func (s FieldSpec) IsRelation() bool {
	return s.Type == TypeMany2One || s.Type == TypeMany2Many
}

// Model is the declarative schema for one target model.
type Model struct {
	Fields map[string]FieldSpec `yaml:"fields"`

	// AdditionalProperties permits fields not declared in the schema.
	// Unknown fields are then reported informationally, not as errors.
	AdditionalProperties bool `yaml:"additionalProperties"`
}

type registryData struct {
	Models map[string]*Model `yaml:"models"`
}

// Registry holds the compiled target-model schemas plus the per-model
// cross-field check tables.
type Registry struct {
	models      map[string]*Model
	crossChecks map[string][]crossCheck
}

// Load parses and caches the embedded schema registry. The data is
// embedded at build time, so it is parsed once and shared for the
// lifetime of the process.
func Load(_ context.Context) (*Registry, error) {
	registryOnce.Do(func() {
		var data registryData
		if err := yaml.Unmarshal(schemaData, &data); err != nil {
			cachedErr = err
			return
		}
		cachedRegistry = &Registry{
			models:      data.Models,
			crossChecks: defaultCrossChecks(),
		}
	})

	if cachedErr != nil {
		return nil, preflighterrors.Wrap(preflighterrors.ErrCodeInternal, "parsing embedded schemas", cachedErr)
	}
	if cachedRegistry == nil {
		return nil, preflighterrors.New(preflighterrors.ErrCodeInternal, "schema registry not initialized")
	}
	return cachedRegistry, nil
}

// MustLoad is Load for callers that treat a broken embedded registry as
// a programming error.
func MustLoad() *Registry {
	r, err := Load(context.Background())
	if err != nil {
		panic(err)
	}
	return r
}

// Models returns the registered model names in sorted order.
func (r *Registry) Models() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Issue is one structural finding against a schema.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the outcome of checking one record against one model schema.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// ValidateAgainstSchema checks a record's shape against the named model:
// required fields, declared types, enumerations, numeric bounds,
// relationship tuple shapes, and the model's cross-field table.
func (r *Registry) ValidateAgainstSchema(rec record.Record, modelName string) Result {
	model, ok := r.models[modelName]
	if !ok {
		return Result{
			Errors: []Issue{{Field: "", Message: fmt.Sprintf("no schema for model %q", modelName)}},
		}
	}

	var res Result

	for _, field := range sortedFields(model) {
		spec := model.Fields[field]
		value, present := rec.Get(field)

		if !present || record.IsEmpty(value) {
			if spec.Required {
				res.Errors = append(res.Errors, Issue{
					Field:   field,
					Message: fmt.Sprintf("required field %q is missing", field),
				})
			}
			continue
		}

		if spec.IsRelation() {
			if issue := checkRelationShape(field, spec, value); issue != nil {
				res.Errors = append(res.Errors, *issue)
			}
			continue
		}

		if issue := checkFieldValue(field, spec, value); issue != nil {
			res.Errors = append(res.Errors, *issue)
		}
	}

	for _, check := range r.crossChecks[modelName] {
		if issue := check.fn(rec); issue != nil {
			if check.warning {
				res.Warnings = append(res.Warnings, *issue)
			} else {
				res.Errors = append(res.Errors, *issue)
			}
		}
	}

	res.Valid = len(res.Errors) == 0
	return res
}

// ValidateFieldTypes audits individual field types without evaluating
// required-ness or cross-field rules. Fields not declared in the schema
// are reported informationally when the model permits additional
// properties, and as issues when it does not.
func (r *Registry) ValidateFieldTypes(rec record.Record, modelName string) []Issue {
	model, ok := r.models[modelName]
	if !ok {
		return []Issue{{Message: fmt.Sprintf("no schema for model %q", modelName)}}
	}

	var issues []Issue
	for _, field := range sortedRecordFields(rec) {
		value := rec[field]
		spec, declared := model.Fields[field]
		if !declared {
			if model.AdditionalProperties {
				issues = append(issues, Issue{
					Field:   field,
					Message: fmt.Sprintf("field %q is not declared in the %s schema", field, modelName),
				})
			} else {
				issues = append(issues, Issue{
					Field:   field,
					Message: fmt.Sprintf("field %q is not permitted by the %s schema", field, modelName),
				})
			}
			continue
		}
		if record.IsEmpty(value) {
			continue
		}
		if spec.IsRelation() {
			if issue := checkRelationShape(field, spec, value); issue != nil {
				issues = append(issues, *issue)
			}
			continue
		}
		if issue := checkFieldValue(field, spec, value); issue != nil {
			issues = append(issues, *issue)
		}
	}
	return issues
}

// checkRelationShape enforces the mandated reference encodings:
// many2one values must be [integer, string] tuples, many2many values
// arrays of integers. Malformed shapes are schema errors, never coerced.
func checkRelationShape(field string, spec FieldSpec, value any) *Issue {
	switch spec.Type {
	case TypeMany2One:
		if _, err := record.ParseRelation(value); err != nil {
			return &Issue{
				Field:   field,
				Message: fmt.Sprintf("field %q is not a valid [id, label] reference: %v", field, err),
			}
		}
	case TypeMany2Many:
		if _, err := record.ParseMultiRelation(value); err != nil {
			return &Issue{
				Field:   field,
				Message: fmt.Sprintf("field %q is not a valid id array: %v", field, err),
			}
		}
	}
	return nil
}

func checkFieldValue(field string, spec FieldSpec, value any) *Issue {
	switch spec.Type {
	case TypeString, TypeText:
		if _, ok := value.(string); !ok {
			return typeMismatch(field, spec.Type, value)
		}

	case TypeInteger:
		n, ok := record.ToInt(value)
		if !ok {
			return typeMismatch(field, spec.Type, value)
		}
		return checkBounds(field, float64(n), spec)

	case TypeFloat:
		f, ok := record.ToFloat(value)
		if !ok {
			return typeMismatch(field, spec.Type, value)
		}
		return checkBounds(field, f, spec)

	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			return typeMismatch(field, spec.Type, value)
		}

	case TypeDate:
		if _, ok := record.ToTime(value); !ok {
			return typeMismatch(field, spec.Type, value)
		}

	case TypeSelection:
		s, ok := value.(string)
		if !ok {
			return typeMismatch(field, spec.Type, value)
		}
		for _, allowed := range spec.Values {
			if s == allowed {
				return nil
			}
		}
		return &Issue{
			Field:   field,
			Message: fmt.Sprintf("field %q value %q is not one of %v", field, s, spec.Values),
		}

	case TypeArray:
		if _, ok := value.([]any); !ok {
			return typeMismatch(field, spec.Type, value)
		}
	}
	return nil
}

func checkBounds(field string, v float64, spec FieldSpec) *Issue {
	if spec.Min != nil && v < *spec.Min {
		return &Issue{
			Field:   field,
			Message: fmt.Sprintf("field %q value %v is below minimum %v", field, v, *spec.Min),
		}
	}
	if spec.Max != nil && v > *spec.Max {
		return &Issue{
			Field:   field,
			Message: fmt.Sprintf("field %q value %v is above maximum %v", field, v, *spec.Max),
		}
	}
	return nil
}

func typeMismatch(field string, want FieldType, got any) *Issue {
	return &Issue{
		Field:   field,
		Message: fmt.Sprintf("field %q expected %s, got %T", field, want, got),
	}
}

func sortedFields(m *Model) []string {
	names := make([]string, 0, len(m.Fields))
	for name := range m.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedRecordFields(rec record.Record) []string {
	names := make([]string, 0, len(rec))
	for name := range rec {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
