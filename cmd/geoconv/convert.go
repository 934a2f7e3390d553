// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/geoconv/internal/catalog"
	"github.com/pdiddy/geoconv/internal/convert"
	"github.com/pdiddy/geoconv/pkg/types"
)

// runConversion is the single-file conversion entry point. The command layer
// hands both paths through verbatim and returns the pipeline's error
// unchanged; replacing one non-zero exit with another is all cobra does.
var runConversion = convert.Convert

var convertCmd = &cobra.Command{
	Use:   "convert <input.dfn> <output.nc>",
	Short: "Convert an ASEG-GDF2 pair to a NetCDF point dataset",
	Long: `Convert reads an ASEG-GDF2 definition file and its sibling data file and
writes a CF/ACDD compliant NetCDF point dataset. Field datatypes are narrowed
to the smallest representation preserving the format's stated precision
unless --full-precision is given.

With --batch, every argument is a definition file and outputs are written to
--output-dir (or alongside each input), skipping files whose output already
exists.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("settings", "", "YAML settings file with per-field overrides")
	convertCmd.Flags().Bool("full-precision", false, "keep the datatypes implied by the format strings")
	convertCmd.Flags().Int("chunk-size", 0, "rows read per chunk (default 8192)")
	convertCmd.Flags().Bool("batch", false, "convert many definition files")
	convertCmd.Flags().Int("workers", 1, "concurrent conversions in batch mode")
	convertCmd.Flags().String("output-dir", "", "output directory in batch mode")
	convertCmd.Flags().Bool("catalog", false, "register converted datasets in the metadata catalog")

	rootCmd.AddCommand(convertCmd)
}

func convertConfig(cmd *cobra.Command) types.ConvertConfig {
	cfg := types.ConvertConfig{
		SettingsPath:      viper.GetString("convert.settings"),
		ChunkSize:         viper.GetInt("convert.chunk_size"),
		OutputDir:         viper.GetString("convert.output_dir"),
		KeepFullPrecision: viper.GetBool("convert.keep_full_precision"),
		Workers:           viper.GetInt("convert.workers"),
	}
	if v, _ := cmd.Flags().GetString("settings"); v != "" {
		cfg.SettingsPath = v
	}
	if v, _ := cmd.Flags().GetInt("chunk-size"); v > 0 {
		cfg.ChunkSize = v
	}
	if v, _ := cmd.Flags().GetString("output-dir"); v != "" {
		cfg.OutputDir = v
	}
	if v, _ := cmd.Flags().GetBool("full-precision"); v {
		cfg.KeepFullPrecision = true
	}
	if v, _ := cmd.Flags().GetInt("workers"); v > 1 {
		cfg.Workers = v
	}
	return cfg
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := convertConfig(cmd)
	register, _ := cmd.Flags().GetBool("catalog")

	if batch, _ := cmd.Flags().GetBool("batch"); batch {
		if len(args) == 0 {
			return fmt.Errorf("batch mode needs at least one definition file")
		}
		result, err := convert.ConvertBatch(context.Background(), args, cfg, os.Stdout)
		if err != nil {
			return err
		}
		if register {
			for _, dfnPath := range args {
				ncPath := convert.OutputPath(dfnPath, cfg.OutputDir)
				if _, err := os.Stat(ncPath); err != nil {
					continue // conversion failed, nothing to register
				}
				if err := registerDataset(ncPath); err != nil {
					return err
				}
			}
		}
		if result.HasFailures() {
			return fmt.Errorf("%d file(s) failed conversion", result.Failed)
		}
		return nil
	}

	if len(args) != 2 {
		return fmt.Errorf("convert needs exactly two arguments: <input.dfn> <output.nc>")
	}
	if err := runConversion(args[0], args[1], cfg); err != nil {
		return err
	}
	if register {
		return registerDataset(args[1])
	}
	return nil
}

func registerDataset(ncPath string) error {
	store, err := catalog.Open(catalogConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	ds, err := store.RegisterConversion(context.Background(), ncPath, nil)
	if err != nil {
		return err
	}
	fmt.Printf("registered: %s (%s)\n", ds.Title, ds.MetadataUUID)
	return nil
}
