// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/geoconv/internal/convert"
)

var exportCmd = &cobra.Command{
	Use:   "export <input.nc> <output-stem>",
	Short: "Export a NetCDF point dataset back to an ASEG-GDF2 pair",
	Long: `Export reads a NetCDF point dataset and writes <output-stem>.dfn and
<output-stem>.dat. Field formats are regenerated from the data, consulting
each variable's aseg_gdf_format attribute for fractional digits.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := convert.Export(args[0], args[1], convertConfig(cmd)); err != nil {
			return err
		}
		fmt.Printf("exported: %s -> %s.dfn, %s.dat\n", args[0], args[1], args[1])
		return nil
	},
}

func init() {
	exportCmd.Flags().Int("chunk-size", 0, "points read per chunk (default 8192)")

	rootCmd.AddCommand(exportCmd)
}
