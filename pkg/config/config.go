/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package config holds the tunable thresholds of the validation engine.
//
// The numeric values are behavioral-compatibility constants inherited from
// the upstream import tooling; they are configuration, not derived business
// policy. Loaded configurations are checked with struct validation so the
// engine never runs with a partial or out-of-range setup.
package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	preflighterrors "github.com/erptools/preflight/pkg/errors"
)

var validate = validator.New()

// Thresholds carries every tunable limit used by the validators.
type Thresholds struct {
	// Epsilon is the tolerance for money/quantity cross-field comparisons.
	Epsilon float64 `yaml:"epsilon" validate:"gt=0"`

	// CompletenessRatio is the minimum fraction of required fields a
	// record should populate before a completeness warning fires.
	CompletenessRatio float64 `yaml:"completeness_ratio" validate:"gt=0,lte=1"`

	// MarginLow and MarginHigh bound the acceptable product margin.
	MarginLow  float64 `yaml:"margin_low" validate:"gte=0"`
	MarginHigh float64 `yaml:"margin_high" validate:"gtfield=MarginLow"`

	// DescriptionMinLen and DescriptionMaxLen bound product descriptions.
	DescriptionMinLen int `yaml:"description_min_len" validate:"gte=0"`
	DescriptionMaxLen int `yaml:"description_max_len" validate:"gtfield=DescriptionMinLen"`

	// StaleStockAge marks inventory older than this as stale.
	StaleStockAge time.Duration `yaml:"stale_stock_age" validate:"gt=0"`

	// HighOrderValue is the total above which an order counts toward the
	// suspicious-order heuristic.
	HighOrderValue float64 `yaml:"high_order_value" validate:"gt=0"`

	// MaxFutureOrderWindow is how far in the future an order date may lie
	// before a warning fires.
	MaxFutureOrderWindow time.Duration `yaml:"max_future_order_window" validate:"gt=0"`

	// SuspiciousFutureWindow is the future-date window counted by the
	// suspicious-order heuristic.
	SuspiciousFutureWindow time.Duration `yaml:"suspicious_future_window" validate:"gt=0"`

	// SuspiciousLineCount is the line-item count counted by the
	// suspicious-order heuristic.
	SuspiciousLineCount int `yaml:"suspicious_line_count" validate:"gt=0"`

	// NameDistance is the maximum levenshtein distance between two product
	// names before they count as near-duplicates.
	NameDistance int `yaml:"name_distance" validate:"gte=0"`
}

// Default returns the stock threshold set.
func Default() Thresholds {
	return Thresholds{
		Epsilon:                0.01,
		CompletenessRatio:      0.5,
		MarginLow:              0.10,
		MarginHigh:             3.0,
		DescriptionMinLen:      10,
		DescriptionMaxLen:      1000,
		StaleStockAge:          3 * 365 * 24 * time.Hour,
		HighOrderValue:         100_000,
		MaxFutureOrderWindow:   6 * 30 * 24 * time.Hour,
		SuspiciousFutureWindow: 30 * 24 * time.Hour,
		SuspiciousLineCount:    50,
		NameDistance:           2,
	}
}

// Validate checks the thresholds for internal consistency.
func (t Thresholds) Validate() error {
	if err := validate.Struct(t); err != nil {
		return preflighterrors.Wrap(preflighterrors.ErrCodeInvalidInput, "invalid thresholds", err)
	}
	return nil
}

// Load reads a YAML thresholds file layered over the defaults. Fields the
// file does not set keep their default values.
func Load(path string) (Thresholds, error) {
	t := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return t, preflighterrors.Wrap(preflighterrors.ErrCodeNotFound, "reading thresholds file", err)
	}

	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, preflighterrors.Wrap(preflighterrors.ErrCodeInvalidInput, "parsing thresholds file", err)
	}

	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}
