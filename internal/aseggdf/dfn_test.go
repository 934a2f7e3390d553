// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aseggdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/geoconv/pkg/types"
)

// writeDefinitionFile writes content to a temporary .dfn file.
func writeDefinitionFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "survey.dfn")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleDFN = `DEFN   ST=RECD,RT=COMM;RT:A4
DEFN 1 ST=RECD,RT=;flight:I4
DEFN 2 ST=RECD,RT=;fiducial:F10.1:NAME=Fiducial number
DEFN 3 ST=RECD,RT=;latitude:F12.6:UNITS=degrees,NULL=-99.999999,NAME=Latitude GDA94
DEFN 4 ST=RECD,RT=;longitude:F12.6:UNITS=degrees,NULL=-999.999999
DEFN 5 ST=RECD,RT=;em_response:30E12.6:UNITS=pV.m-2,NULL=-9.999999e+00
DEFN 6 ST=RECD,RT=;datum:A5
DEFN 7 ST=RECD,RT=PROJ;projection:A40
DEFN 8 ST=RECD,RT=;END DEFN
`

func TestParseDFN(t *testing.T) {
	path := writeDefinitionFile(t, sampleDFN)

	fields, err := ParseDFN(path)
	if err != nil {
		t.Fatalf("ParseDFN: %v", err)
	}

	if len(fields) != 6 {
		t.Fatalf("got %d fields, want 6 (PROJ record must be skipped)", len(fields))
	}

	tests := []struct {
		index    int
		name     string
		dtype    types.DataType
		columns  int
		units    string
		longName string
		hasNull  bool
		null     float64
	}{
		{index: 0, name: "flight", dtype: types.Int16, columns: 1},
		{index: 1, name: "fiducial", dtype: types.Float64, columns: 1, longName: "Fiducial number"},
		{index: 2, name: "latitude", dtype: types.Float64, columns: 1, units: "degrees",
			longName: "Latitude GDA94", hasNull: true, null: -99.999999},
		{index: 3, name: "longitude", dtype: types.Float64, columns: 1, units: "degrees",
			hasNull: true, null: -999.999999},
		{index: 4, name: "em_response", dtype: types.Float64, columns: 30, units: "pV.m-2",
			hasNull: true, null: -9.999999},
		{index: 5, name: "datum", dtype: types.String, columns: 1},
	}

	for _, tt := range tests {
		f := fields[tt.index]
		if f.Name != tt.name {
			t.Errorf("field %d name = %q, want %q", tt.index, f.Name, tt.name)
		}
		if f.Type != tt.dtype {
			t.Errorf("field %s type = %q, want %q", tt.name, f.Type, tt.dtype)
		}
		if f.Columns != tt.columns {
			t.Errorf("field %s columns = %d, want %d", tt.name, f.Columns, tt.columns)
		}
		if f.Units != tt.units {
			t.Errorf("field %s units = %q, want %q", tt.name, f.Units, tt.units)
		}
		if f.LongName != tt.longName {
			t.Errorf("field %s long name = %q, want %q", tt.name, f.LongName, tt.longName)
		}
		if f.HasNull != tt.hasNull {
			t.Errorf("field %s hasNull = %v, want %v", tt.name, f.HasNull, tt.hasNull)
		}
		if tt.hasNull && f.Null != tt.null {
			t.Errorf("field %s null = %v, want %v", tt.name, f.Null, tt.null)
		}
	}
}

func TestParseDFN_MultipleDefinitionsPerLine(t *testing.T) {
	path := writeDefinitionFile(t, "DEFN 1 ST=RECD,RT=;flight:I4;fiducial:F10.1;END DEFN\n")

	fields, err := ParseDFN(path)
	if err != nil {
		t.Fatalf("ParseDFN: %v", err)
	}
	if len(fields) != 2 {
		t.Fatalf("got %d fields, want 2", len(fields))
	}
	if fields[0].Name != "flight" || fields[1].Name != "fiducial" {
		t.Errorf("fields = %q, %q, want flight, fiducial", fields[0].Name, fields[1].Name)
	}
}

func TestParseDFN_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty file", content: ""},
		{name: "only terminator", content: "DEFN 1 ST=RECD,RT=;END DEFN\n"},
		{name: "garbage line", content: "this is not a DEFN record\n"},
		{name: "bad format string", content: "DEFN 1 ST=RECD,RT=;flight:Q4\nDEFN 2 ST=RECD,RT=;END DEFN\n"},
		{name: "bad null value", content: "DEFN 1 ST=RECD,RT=;lat:F12.6:NULL=not-a-number\nDEFN 2 ST=RECD,RT=;END DEFN\n"},
		{name: "missing format", content: "DEFN 1 ST=RECD,RT=;flight\nDEFN 2 ST=RECD,RT=;END DEFN\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeDefinitionFile(t, tt.content)
			if _, err := ParseDFN(path); err == nil {
				t.Error("ParseDFN succeeded, want error")
			}
		})
	}
}

func TestParseDFN_MissingFile(t *testing.T) {
	if _, err := ParseDFN(filepath.Join(t.TempDir(), "absent.dfn")); err == nil {
		t.Error("ParseDFN succeeded on missing file")
	}
}
