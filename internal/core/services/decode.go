package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
)

// leadingNumber matches a decimal number at the start of a string value,
// e.g. "4.2" in "4.2 g/dL".
var leadingNumber = regexp.MustCompile(`^[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)

// DecodeExtraction normalises raw model output into an Extraction.
//
// Code fences, a leading "json" label and any prose around the object are
// dropped by taking the text between the first '{' and the last '}'. Keys
// are resolved through domain.ParseBiomarker and unknown keys are ignored.
// A value is present only if it is a finite number or a string that starts
// with one; everything else is absent. The result always has all ten keys.
func DecodeExtraction(raw string) (domain.Extraction, error) {
	body := strings.TrimSpace(raw)
	if body == "" {
		return nil, fmt.Errorf("%w: empty model output", domain.ErrExtractionFailed)
	}

	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON object in model output", domain.ErrExtractionFailed)
	}

	var fields map[string]any
	dec := json.NewDecoder(strings.NewReader(body[start : end+1]))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: model output is not an object", domain.ErrExtractionFailed)
	}

	return extractionFromFields(fields), nil
}

// extractionFromFields maps loosely keyed values onto the canonical biomarkers.
// A canonical key beats a synonym; among synonyms the first in sorted order wins.
func extractionFromFields(fields map[string]any) domain.Extraction {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	e := domain.NewExtraction()
	canonical := make(map[domain.Biomarker]bool)

	for _, key := range keys {
		b, ok := domain.ParseBiomarker(key)
		if !ok {
			continue
		}
		exact := strings.TrimSpace(key) == b.String()
		if canonical[b] || (!exact && e[b] != nil) {
			continue
		}

		v, ok := numericValue(fields[key])
		if !ok {
			continue
		}
		e.Set(b, v)
		if exact {
			canonical[b] = true
		}
	}

	return e
}

// numericValue converts a decoded JSON value to a finite float.
func numericValue(val any) (float64, bool) {
	var f float64
	switch v := val.(type) {
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = v
	case string:
		parsed, ok := parseLeadingFloat(v)
		if !ok {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseLeadingFloat reads the number at the start of s. A decimal comma
// ("4,2") is rejected rather than truncated.
func parseLeadingFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	token := leadingNumber.FindString(s)
	if token == "" {
		return 0, false
	}
	if rest := s[len(token):]; strings.HasPrefix(rest, ",") || strings.HasPrefix(rest, ".") {
		return 0, false
	}

	f, err := strconv.ParseFloat(token, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}
