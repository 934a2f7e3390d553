// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/geoconv/internal/ncpoint"
)

var describeCmd = &cobra.Command{
	Use:   "describe <input.nc>",
	Short: "Print the structure of a NetCDF point dataset",
	Long: `Describe prints a dataset's point count, spatial extent, CRS, variables
with their attributes, and global attributes.`,
	Args: cobra.ExactArgs(1),
	RunE: runDescribe,
}

func init() {
	describeCmd.Flags().Bool("hull", false, "also print the convex hull as WKT")

	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	d, err := ncpoint.Open(args[0])
	if err != nil {
		return err
	}
	defer d.Close()

	w := os.Stdout
	fmt.Fprintf(w, "dataset: %s\n", d.Path())
	fmt.Fprintf(w, "points:  %d\n", d.PointCount())

	bounds := d.Bounds()
	fmt.Fprintf(w, "extent:  [%.6f, %.6f] .. [%.6f, %.6f]\n",
		bounds[0], bounds[1], bounds[2], bounds[3])
	if epsg := ncpoint.EPSGFromWKT(d.CRSWKT()); epsg != "" {
		fmt.Fprintf(w, "crs:     EPSG:%s\n", epsg)
	}

	fmt.Fprintln(w, "\nvariables:")
	for _, name := range d.VariableNames() {
		fmt.Fprintf(w, "  %s\n", name)
		attrs, err := d.VariableAttributes(name)
		if err != nil {
			return err
		}
		for _, a := range attrs {
			fmt.Fprintf(w, "    %s = %v\n", a.Key, a.Value)
		}
	}

	fmt.Fprintln(w, "\nglobal attributes:")
	for _, a := range d.GlobalAttributes() {
		fmt.Fprintf(w, "  %s = %v\n", a.Key, a.Value)
	}

	if hull, _ := cmd.Flags().GetBool("hull"); hull {
		fmt.Fprintf(w, "\nconvex hull: %s\n", d.PolygonWKT())
	}
	return nil
}
