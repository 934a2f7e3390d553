// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aseggdf

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/geoconv/pkg/types"
)

// Write renders columns back into an ASEG-GDF2 pair: stem.dfn and stem.dat.
// Output formats are derived from the data (sign, magnitude, datatype) with
// each field's stored format string consulted for fractional digits. All
// columns must have the same row count.
func Write(stem string, columns []Column) error {
	if len(columns) == 0 {
		return fmt.Errorf("no columns to write")
	}
	rows := columns[0].Rows()
	for _, col := range columns[1:] {
		if col.Rows() != rows {
			return fmt.Errorf("column %s has %d rows, want %d", col.Field.Name, col.Rows(), rows)
		}
	}

	formats := make([]OutputFormat, len(columns))
	for i, col := range columns {
		var err error
		formats[i], err = columnFormat(col)
		if err != nil {
			return fmt.Errorf("field %s: %w", col.Field.Name, err)
		}
	}

	if err := writeDFN(stem+".dfn", columns, formats); err != nil {
		return err
	}
	return writeDAT(stem+".dat", columns, formats, rows)
}

func columnFormat(col Column) (OutputFormat, error) {
	if col.Field.Type == types.String {
		return FormatForText(col.Text, col.Field.Columns, col.Field.Format), nil
	}
	return FormatForValues(col.Values, col.Field.Type, col.Field.Columns, -1, col.Field.Format)
}

func writeDFN(path string, columns []Column, formats []OutputFormat) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating definition file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "DEFN   ST=RECD,RT=COMM;RT:A4")

	n := 0
	for i, col := range columns {
		n++
		var clauses []string
		if col.Field.Units != "" {
			clauses = append(clauses, "UNITS="+col.Field.Units)
		}
		if col.Field.HasNull {
			clauses = append(clauses, "NULL="+col.Field.NullValue)
		}
		if col.Field.LongName != "" {
			clauses = append(clauses, "NAME="+col.Field.LongName)
		}
		if col.Field.Comment != "" {
			clauses = append(clauses, col.Field.Comment)
		}

		fmt.Fprintf(w, "DEFN %d ST=RECD,RT=;%s:%s", n, col.Field.Name, formats[i].Spec)
		if len(clauses) > 0 {
			fmt.Fprintf(w, ":%s", strings.Join(clauses, ","))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "DEFN %d ST=RECD,RT=;END DEFN\n", n+1)

	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing definition file: %w", err)
	}
	return nil
}

func writeDAT(path string, columns []Column, formats []OutputFormat, rows int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating data file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for row := 0; row < rows; row++ {
		for i, col := range columns {
			for c := 0; c < col.Field.Columns; c++ {
				if i > 0 || c > 0 {
					w.WriteByte(' ')
				}
				idx := row*col.Field.Columns + c
				if col.Field.Type == types.String {
					fmt.Fprintf(w, formats[i].Verb, col.Text[idx])
				} else {
					fmt.Fprintf(w, formats[i].Verb, col.Values[idx])
				}
			}
		}
		w.WriteByte('\n')
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing data file: %w", err)
	}
	return nil
}
