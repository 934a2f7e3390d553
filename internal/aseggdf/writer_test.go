// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aseggdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/geoconv/pkg/types"
)

func TestWrite_RoundTrip(t *testing.T) {
	columns := []Column{
		{
			Field:  types.FieldDefinition{Name: "flight", Format: "I4", Type: types.Int16, Columns: 1},
			Values: []float64{12, 12, 13},
		},
		{
			Field: types.FieldDefinition{Name: "latitude", Format: "F12.6", Type: types.Float64,
				Columns: 1, Units: "degrees", NullValue: "-99.999999", Null: -99.999999, HasNull: true,
				Comment: "geodetic coordinate"},
			Values: []float64{-27.5, -99.999999, -27.6},
			Mask:   []bool{false, true, false},
		},
		{
			Field:  types.FieldDefinition{Name: "datum", Format: "A5", Type: types.String, Columns: 1},
			Text:   []string{"GDA94", "GDA94", "AGD66"},
		},
	}

	stem := filepath.Join(t.TempDir(), "out")
	if err := Write(stem, columns); err != nil {
		t.Fatalf("Write: %v", err)
	}

	// The regenerated pair must parse back to the same shape and values.
	fields, err := ParseDFN(stem + ".dfn")
	if err != nil {
		t.Fatalf("ParseDFN on output: %v", err)
	}
	if len(fields) != 3 {
		t.Fatalf("got %d fields, want 3", len(fields))
	}
	if fields[1].Units != "degrees" {
		t.Errorf("units = %q, want degrees", fields[1].Units)
	}
	if !fields[1].HasNull {
		t.Error("NULL clause lost on round trip")
	}
	if fields[1].Comment != "geodetic coordinate" {
		t.Errorf("comment = %q, want geodetic coordinate", fields[1].Comment)
	}

	readBack, err := ReadDAT(stem+".dat", fields, 0)
	if err != nil {
		t.Fatalf("ReadDAT on output: %v", err)
	}
	if readBack[0].Rows() != 3 {
		t.Fatalf("rows = %d, want 3", readBack[0].Rows())
	}
	for i, want := range columns[1].Values {
		got := readBack[1].Values[i]
		if diff := got - want; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("latitude[%d] = %v, want %v", i, got, want)
		}
	}
	if readBack[2].Text[2] != "AGD66" {
		t.Errorf("datum[2] = %q, want AGD66", readBack[2].Text[2])
	}
}

func TestWrite_MismatchedRows(t *testing.T) {
	columns := []Column{
		{Field: types.FieldDefinition{Name: "a", Type: types.Float64, Columns: 1}, Values: []float64{1}},
		{Field: types.FieldDefinition{Name: "b", Type: types.Float64, Columns: 1}, Values: []float64{1, 2}},
	}
	if err := Write(filepath.Join(t.TempDir(), "out"), columns); err == nil {
		t.Error("Write succeeded with mismatched row counts")
	}
}

func TestWrite_NoColumns(t *testing.T) {
	if err := Write(filepath.Join(t.TempDir(), "out"), nil); err == nil {
		t.Error("Write succeeded with no columns")
	}
}

func TestWrite_DFNTerminator(t *testing.T) {
	columns := []Column{
		{Field: types.FieldDefinition{Name: "g", Type: types.Float64, Columns: 1}, Values: []float64{1.5}},
	}
	stem := filepath.Join(t.TempDir(), "out")
	if err := Write(stem, columns); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(stem + ".dfn")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "END DEFN") {
		t.Error("definition file lacks END DEFN terminator")
	}
}
