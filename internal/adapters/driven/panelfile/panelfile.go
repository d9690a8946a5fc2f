// Package panelfile reads biomarker panels from YAML, TOML or JSON files.
//
// A panel file is a flat mapping of biomarker names to numbers:
//
//	albumin: 4.2
//	creatinine: 0.9
//	crp: 1.1
//	age: 45
//
// Synonyms accepted by domain.ParseBiomarker may be used as keys. Missing
// biomarkers and null values are absent in the resulting Extraction, so a
// partial file can be completed with command-line flags.
package panelfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
)

// Format is a panel file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q (use .yaml, .yml, .toml or .json)", domain.ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads and decodes the panel file at path.
func Load(path string) (domain.Extraction, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read panel file: %w", err)
	}

	e, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return e, nil
}

// Decode reads a panel in the given format.
func Decode(r io.Reader, format Format) (domain.Extraction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read panel: %w", err)
	}

	fields := make(map[string]any)
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &fields)
	case FormatTOML:
		err = toml.Unmarshal(data, &fields)
	case FormatJSON:
		if len(bytes.TrimSpace(data)) == 0 {
			break
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&fields)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrInvalidInput, format, err)
	}

	return fromFields(fields)
}

// fromFields is strict: unlike model output, a panel file is written by the
// user, so unknown keys, duplicates and non-numeric values are errors.
func fromFields(fields map[string]any) (domain.Extraction, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	e := domain.NewExtraction()
	source := make(map[domain.Biomarker]string)

	for _, key := range keys {
		b, ok := domain.ParseBiomarker(key)
		if !ok {
			return nil, fmt.Errorf("%w: unknown biomarker %q", domain.ErrInvalidInput, key)
		}
		if prev, dup := source[b]; dup {
			return nil, fmt.Errorf("%w: %q and %q both set %s", domain.ErrInvalidInput, prev, key, b)
		}
		source[b] = key

		if fields[key] == nil {
			continue
		}
		v, err := number(fields[key])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
		}
		e.Set(b, v)
	}

	return e, nil
}

func number(val any) (float64, error) {
	var f float64
	switch v := val.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, err
		}
		f = parsed
	default:
		return 0, fmt.Errorf("expected a number, got %T", val)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("value %v is not finite", f)
	}
	return f, nil
}
