// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aseggdf

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/geoconv/pkg/types"
)

// ParseDFN reads an ASEG-GDF2 definition (.dfn) file and returns the field
// definitions for the data records, in file order. Non-data record types
// (RT=PROJ projection records, RT=COMM comment records) are skipped, as are
// the RT label fields themselves.
func ParseDFN(path string) ([]types.FieldDefinition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening definition file: %w", err)
	}
	defer f.Close()

	var fields []types.FieldDefinition
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(strings.ToUpper(line), "DEFN") {
			return nil, fmt.Errorf("line %d: expected DEFN record, got %q", lineNo, line)
		}

		header, payload, found := strings.Cut(line, ";")
		if !found {
			return nil, fmt.Errorf("line %d: DEFN record has no field definitions", lineNo)
		}
		if rt := recordType(header); rt != "" {
			// Projection, comment and other auxiliary record definitions
			// do not describe data columns.
			continue
		}

		// One DEFN line may carry several definitions separated by ';'.
		done := false
		for _, segment := range strings.Split(payload, ";") {
			segment = strings.TrimSpace(segment)
			if segment == "" {
				continue
			}
			if strings.EqualFold(segment, "END DEFN") {
				done = true
				break
			}
			if strings.HasPrefix(strings.ToUpper(segment), "RT:") {
				// Record-type label field, not a data column.
				continue
			}

			field, err := parseDefinition(segment)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			fields = append(fields, field)
		}
		if done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading definition file: %w", err)
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("no field definitions found in %s", path)
	}
	return fields, nil
}

// recordType extracts the RT= value from a DEFN record header, e.g. "PROJ"
// from "DEFN 1 ST=RECD,RT=PROJ".
func recordType(header string) string {
	upper := strings.ToUpper(header)
	idx := strings.Index(upper, "RT=")
	if idx < 0 {
		return ""
	}
	rt := upper[idx+len("RT="):]
	if comma := strings.IndexAny(rt, ", ;"); comma >= 0 {
		rt = rt[:comma]
	}
	return strings.TrimSpace(rt)
}

// parseDefinition decodes one "name : format : aux" definition segment.
func parseDefinition(segment string) (types.FieldDefinition, error) {
	parts := strings.SplitN(segment, ":", 3)
	if len(parts) < 2 {
		return types.FieldDefinition{}, fmt.Errorf("malformed field definition %q", segment)
	}

	field := types.FieldDefinition{
		Name:   strings.TrimSpace(parts[0]),
		Format: strings.TrimSpace(parts[1]),
	}
	if field.Name == "" {
		return types.FieldDefinition{}, fmt.Errorf("field definition %q has no name", segment)
	}

	spec, err := DecodeFormat(field.Format)
	if err != nil {
		return types.FieldDefinition{}, fmt.Errorf("field %s: %w", field.Name, err)
	}
	dtype, err := TypeForSpec(spec)
	if err != nil {
		return types.FieldDefinition{}, fmt.Errorf("field %s: %w", field.Name, err)
	}
	field.Type = dtype
	field.Columns = spec.Columns
	field.IntegerDigits = spec.Width
	field.FractionalDigits = spec.Decimals

	if len(parts) == 3 {
		if err := parseAux(strings.TrimSpace(parts[2]), &field); err != nil {
			return types.FieldDefinition{}, fmt.Errorf("field %s: %w", field.Name, err)
		}
	}
	return field, nil
}

// parseAux decodes the trailing clause list: UNITS=, NULL=, NAME= and any
// free-text comment.
func parseAux(aux string, field *types.FieldDefinition) error {
	var comments []string
	for _, clause := range strings.Split(aux, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		key, value, found := strings.Cut(clause, "=")
		if !found {
			comments = append(comments, clause)
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToUpper(strings.TrimSpace(key)) {
		case "UNITS", "UNIT":
			field.Units = value
		case "NAME":
			field.LongName = value
		case "NULL":
			field.NullValue = value
			null, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("invalid NULL value %q", value)
			}
			field.Null = null
			field.HasNull = true
		default:
			comments = append(comments, clause)
		}
	}
	field.Comment = strings.Join(comments, ", ")
	return nil
}
