// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ncpoint writes and reads NetCDF point datasets: one "point"
// dimension, one variable per field, a scalar CRS variable and CF/ACDD
// style global attributes. Container I/O goes through the pure-Go
// go-native-netcdf library.
package ncpoint

import (
	"fmt"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/batchatco/go-native-netcdf/netcdf/util"
)

// PointDimension is the dimension shared by all per-point variables.
const PointDimension = "point"

// Attr is one attribute key/value pair. Attribute order is significant in
// NetCDF headers, so attributes travel as slices rather than maps.
type Attr struct {
	Key   string
	Value any
}

// Variable is one NetCDF variable to be written.
type Variable struct {
	Name string

	// Values is a typed slice ([]float64, []int16, []string, ...) for
	// dimensioned variables, or a scalar value for scalar variables.
	Values any

	// Dimensions is nil for scalar variables.
	Dimensions []string

	Attributes []Attr
}

// WithAttr appends an attribute and returns the variable for chaining.
func (v Variable) WithAttr(key string, value any) Variable {
	v.Attributes = append(v.Attributes, Attr{Key: key, Value: value})
	return v
}

// WriteDataset creates a NetCDF file at path holding the given variables and
// global attributes. It overwrites any existing file.
func WriteDataset(path string, variables []Variable, global []Attr) error {
	cw, err := cdf.OpenWriter(path)
	if err != nil {
		return fmt.Errorf("creating NetCDF file: %w", err)
	}

	for _, v := range variables {
		attrs, err := attrMap(v.Attributes)
		if err != nil {
			cw.Close()
			return fmt.Errorf("variable %s: %w", v.Name, err)
		}
		av := api.Variable{
			Values:     v.Values,
			Dimensions: v.Dimensions,
			Attributes: attrs,
		}
		if err := cw.AddVar(v.Name, av); err != nil {
			cw.Close()
			return fmt.Errorf("writing variable %s: %w", v.Name, err)
		}
	}

	globalAttrs, err := attrMap(global)
	if err != nil {
		cw.Close()
		return fmt.Errorf("global attributes: %w", err)
	}
	if globalAttrs != nil {
		if err := cw.AddAttributes(globalAttrs); err != nil {
			cw.Close()
			return fmt.Errorf("writing global attributes: %w", err)
		}
	}

	if err := cw.Close(); err != nil {
		return fmt.Errorf("closing NetCDF file: %w", err)
	}
	return nil
}

// attrMap converts an attribute slice into the library's ordered map form.
func attrMap(attrs []Attr) (api.AttributeMap, error) {
	if len(attrs) == 0 {
		return nil, nil
	}
	keys := make([]string, len(attrs))
	values := make(map[string]any, len(attrs))
	for i, a := range attrs {
		keys[i] = a.Key
		values[a.Key] = a.Value
	}
	om, err := util.NewOrderedMap(keys, values)
	if err != nil {
		return nil, fmt.Errorf("building attribute map: %w", err)
	}
	return om, nil
}
