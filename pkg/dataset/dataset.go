/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package dataset loads import dataset bundles from JSON or YAML files
// for the CLI and server adapters.
package dataset

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/erptools/preflight/pkg/errors"
	"github.com/erptools/preflight/pkg/pipeline"
)

// Load reads a dataset bundle from path. The format follows the file
// extension: .json decodes as JSON, .yaml/.yml as YAML, anything else is
// tried as JSON first and YAML second.
func Load(path string) (*pipeline.Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, "dataset file not found", err)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to read dataset file", err)
	}

	slog.Debug("loading dataset bundle", "path", path, "bytes", len(data))

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return decodeJSON(data)
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		bundle, err := decodeJSON(data)
		if err == nil {
			return bundle, nil
		}
		return decodeYAML(data)
	}
}

// Decode parses a dataset bundle from raw bytes, trying JSON first and
// YAML second. Used by the HTTP adapter where no filename is available.
func Decode(data []byte) (*pipeline.Bundle, error) {
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "dataset payload is empty")
	}
	bundle, err := decodeJSON(data)
	if err == nil {
		return bundle, nil
	}
	return decodeYAML(data)
}

func decodeJSON(data []byte) (*pipeline.Bundle, error) {
	var bundle pipeline.Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, "dataset is not valid JSON", err)
	}
	return &bundle, nil
}

func decodeYAML(data []byte) (*pipeline.Bundle, error) {
	var bundle pipeline.Bundle
	if err := yaml.Unmarshal(data, &bundle); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, "dataset is not valid YAML", err)
	}
	return &bundle, nil
}
