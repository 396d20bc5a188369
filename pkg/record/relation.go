/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

package record

import "fmt"

// Relation is a reference to another record, encoded on the wire as a
// two-element tuple [integer id, string label].
type Relation struct {
	ID    int64
	Label string
}

// ParseRelation decodes a single-reference value. A nil value yields
// (nil, nil): absence is not an error here; required-ness is the
// caller's concern. Any other shape than [integer, string] is rejected.
func ParseRelation(v any) (*Relation, error) {
	if v == nil {
		return nil, nil
	}

	tuple, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected [id, label] tuple, got %T", v)
	}
	if len(tuple) != 2 {
		return nil, fmt.Errorf("expected [id, label] tuple of 2 elements, got %d", len(tuple))
	}

	id, ok := ToInt(tuple[0])
	if !ok {
		return nil, fmt.Errorf("relation id must be an integer, got %T", tuple[0])
	}

	label, ok := tuple[1].(string)
	if !ok {
		return nil, fmt.Errorf("relation label must be a string, got %T", tuple[1])
	}

	return &Relation{ID: id, Label: label}, nil
}

// ParseMultiRelation decodes a multi-reference value, which must be an
// array of integer ids. A nil value yields (nil, nil).
func ParseMultiRelation(v any) ([]int64, error) {
	if v == nil {
		return nil, nil
	}

	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected array of ids, got %T", v)
	}

	ids := make([]int64, 0, len(items))
	for i, item := range items {
		id, ok := ToInt(item)
		if !ok {
			return nil, fmt.Errorf("element %d: relation id must be an integer, got %T", i, item)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// Relation returns the field decoded as a single reference. Absent fields
// yield (nil, nil).
func (r Record) Relation(field string) (*Relation, error) {
	v, ok := r[field]
	if !ok {
		return nil, nil
	}
	return ParseRelation(v)
}
