// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aseggdf

import (
	"testing"

	"github.com/pdiddy/geoconv/pkg/types"
)

func TestDecodeFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		want    FormatSpec
		wantErr bool
	}{
		{
			name:   "float with decimals",
			format: "F10.2",
			want:   FormatSpec{Columns: 1, Code: 'F', Width: 10, Decimals: 2},
		},
		{
			name:   "plain integer",
			format: "I8",
			want:   FormatSpec{Columns: 1, Code: 'I', Width: 8},
		},
		{
			name:   "2D exponent format",
			format: "30E12.6",
			want:   FormatSpec{Columns: 30, Code: 'E', Width: 12, Decimals: 6},
		},
		{
			name:   "double precision",
			format: "D15.8",
			want:   FormatSpec{Columns: 1, Code: 'D', Width: 15, Decimals: 8},
		},
		{
			name:   "string format",
			format: "A40",
			want:   FormatSpec{Columns: 1, Code: 'A', Width: 40},
		},
		{
			name:   "lower case code is upper cased",
			format: "f10.2",
			want:   FormatSpec{Columns: 1, Code: 'F', Width: 10, Decimals: 2},
		},
		{
			name:    "empty string",
			format:  "",
			wantErr: true,
		},
		{
			name:    "no width",
			format:  "F",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeFormat(tt.format)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("DecodeFormat(%q) succeeded, want error", tt.format)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeFormat(%q): %v", tt.format, err)
			}
			if got != tt.want {
				t.Errorf("DecodeFormat(%q) = %+v, want %+v", tt.format, got, tt.want)
			}
		})
	}
}

func TestFormatSpecString(t *testing.T) {
	tests := []struct {
		spec FormatSpec
		want string
	}{
		{FormatSpec{Columns: 1, Code: 'F', Width: 10, Decimals: 2}, "F10.2"},
		{FormatSpec{Columns: 1, Code: 'I', Width: 8}, "I8"},
		{FormatSpec{Columns: 30, Code: 'E', Width: 12, Decimals: 6}, "30E12.6"},
		{FormatSpec{Columns: 1, Code: 'A', Width: 40}, "A40"},
	}
	for _, tt := range tests {
		if got := tt.spec.String(); got != tt.want {
			t.Errorf("spec.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestTypeForSpec(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		want    types.DataType
		wantErr bool
	}{
		{name: "tiny integer", format: "I2", want: types.Int8},
		{name: "small integer", format: "I4", want: types.Int16},
		{name: "medium integer", format: "I8", want: types.Int32},
		{name: "large integer", format: "I12", want: types.Int64},
		{name: "narrow float", format: "F5.2", want: types.Float32},
		{name: "wide float", format: "F10.4", want: types.Float64},
		{name: "exponent maps like float", format: "E12.6", want: types.Float64},
		{name: "double maps like float", format: "D5.1", want: types.Float32},
		{name: "string", format: "A20", want: types.String},
		{name: "integer with decimals", format: "I8.2", wantErr: true},
		{name: "absurd integer width", format: "I25", wantErr: true},
		{name: "absurd float width", format: "F30.10", wantErr: true},
		{name: "unknown code", format: "X10", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := DecodeFormat(tt.format)
			if err != nil {
				t.Fatalf("DecodeFormat(%q): %v", tt.format, err)
			}
			got, err := TypeForSpec(spec)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("TypeForSpec(%q) = %q, want error", tt.format, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("TypeForSpec(%q): %v", tt.format, err)
			}
			if got != tt.want {
				t.Errorf("TypeForSpec(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestFormatForValues(t *testing.T) {
	tests := []struct {
		name       string
		values     []float64
		dtype      types.DataType
		decimals   int
		stored     string
		wantFormat string
		wantVerb   string
	}{
		{
			name:       "signed float with explicit decimals",
			values:     []float64{1.5, -12.25},
			dtype:      types.Float64,
			decimals:   2,
			wantFormat: "D2.2",
			wantVerb:   "%6.2f",
		},
		{
			name:       "unsigned integer",
			values:     []float64{1, 2, 512},
			dtype:      types.Int16,
			decimals:   -1,
			wantFormat: "I3",
			wantVerb:   "%3.0f",
		},
		{
			name:       "decimals from stored format",
			values:     []float64{140.5, 148.75},
			dtype:      types.Float64,
			decimals:   -1,
			stored:     "F12.6",
			wantFormat: "D3.6",
			wantVerb:   "%10.6f",
		},
		{
			name:       "float32 derives decimals from sig figs",
			values:     []float64{9.5},
			dtype:      types.Float32,
			decimals:   -1,
			wantFormat: "F2.7",
			wantVerb:   "%10.7f",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatForValues(tt.values, tt.dtype, 1, tt.decimals, tt.stored)
			if err != nil {
				t.Fatalf("FormatForValues: %v", err)
			}
			if got.Spec.String() != tt.wantFormat {
				t.Errorf("format = %q, want %q", got.Spec.String(), tt.wantFormat)
			}
			if got.Verb != tt.wantVerb {
				t.Errorf("verb = %q, want %q", got.Verb, tt.wantVerb)
			}
		})
	}
}

func TestFormatForText(t *testing.T) {
	got := FormatForText([]string{"GDA94", "AGD66"}, 1, "")
	if got.Spec.String() != "A5" {
		t.Errorf("format = %q, want %q", got.Spec.String(), "A5")
	}
	if got.Verb != "%5s" {
		t.Errorf("verb = %q, want %q", got.Verb, "%5s")
	}

	stored := FormatForText([]string{"GDA94"}, 1, "A40")
	if stored.Spec.Width != 40 {
		t.Errorf("stored width = %d, want 40", stored.Spec.Width)
	}
}

func TestReducePrecision(t *testing.T) {
	tests := []struct {
		name       string
		values     []float64
		current    types.DataType
		fracDigits int
		wantType   types.DataType
		wantOK     bool
	}{
		{
			name:       "float64 of whole numbers narrows to float32",
			values:     []float64{1, 2, 3, 100},
			current:    types.Float64,
			fracDigits: 2,
			wantType:   types.Float32,
			wantOK:     true,
		},
		{
			name:       "high precision float stays wide",
			values:     []float64{1.123456789123, 2.987654321987},
			current:    types.Float64,
			fracDigits: 10,
			wantOK:     false,
		},
		{
			name:       "small integers narrow to int8",
			values:     []float64{1, 2, 100},
			current:    types.Int64,
			fracDigits: 0,
			wantType:   types.Int8,
			wantOK:     true,
		},
		{
			name:       "large magnitude blocks narrowing",
			values:     []float64{1, 40000},
			current:    types.Int64,
			fracDigits: 0,
			wantType:   types.Int32,
			wantOK:     true,
		},
		{
			name:       "already narrowest",
			values:     []float64{1, 2},
			current:    types.Int8,
			fracDigits: 0,
			wantOK:     false,
		},
		{
			name:       "unknown family",
			values:     []float64{1, 2},
			current:    types.String,
			fracDigits: 0,
			wantOK:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ReducePrecision(tt.values, tt.current, tt.fracDigits, 0, false)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.Type != tt.wantType {
				t.Errorf("type = %q, want %q", got.Type, tt.wantType)
			}
		})
	}
}

func TestReducePrecision_TruncatesNull(t *testing.T) {
	// -99.9999999 fits float32 only loosely; after reduction the null is
	// truncated to the reduced format's digit budget.
	values := []float64{10.25, 22.5, 93.75}
	red, ok := ReducePrecision(values, types.Float64, 2, -99.9999999, true)
	if !ok {
		t.Fatal("expected reduction to float32")
	}
	if red.Type != types.Float32 {
		t.Fatalf("type = %q, want float32", red.Type)
	}
	if !red.HasNull {
		t.Fatal("null flag lost in reduction")
	}
	if red.Null != -99.99 {
		t.Errorf("null = %v, want -99.99", red.Null)
	}
}

func TestReducePrecision_AmbiguousNullKept(t *testing.T) {
	// Truncating the null would collide with a real value, so the original
	// sentinel is kept.
	values := []float64{-99.99, 2.5}
	red, ok := ReducePrecision(values, types.Float64, 2, -99.9999999, true)
	if !ok {
		t.Fatal("expected reduction to float32")
	}
	if red.Null != -99.9999999 {
		t.Errorf("null = %v, want original sentinel", red.Null)
	}
}
