// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/geoconv/internal/catalog"
	"github.com/pdiddy/geoconv/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the dataset metadata catalog (add, search)",
	Long: `Catalog maintains a SQLite cache of converted dataset metadata: titles,
spatial extents, keywords, and distribution URLs. Use subcommands to register
datasets or search them.`,
}

var catalogAddCmd = &cobra.Command{
	Use:   "add <dataset.nc>...",
	Short: "Register converted NetCDF datasets in the catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCatalogAdd,
}

var catalogSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the catalog by keyword, bounding box, or protocol",
	Long: `Search lists catalogued datasets matching every given criterion. Keywords
are ANDed; --bbox takes xmin,ymin,xmax,ymax in decimal degrees. Without
criteria the whole catalog is listed.`,
	RunE: runCatalogSearch,
}

func init() {
	catalogCmd.PersistentFlags().String("catalog-path", "", "catalog SQLite file (default catalog.sqlite)")

	catalogAddCmd.Flags().StringSlice("keyword", nil, "extra keywords to attach")

	catalogSearchCmd.Flags().StringSlice("keyword", nil, "keyword that must be attached (repeatable)")
	catalogSearchCmd.Flags().String("bbox", "", "bounding box as xmin,ymin,xmax,ymax")
	catalogSearchCmd.Flags().String("protocol", "", "distribution protocol (e.g. file)")
	catalogSearchCmd.Flags().Bool("json", false, "print results as JSON")

	catalogCmd.AddCommand(catalogAddCmd, catalogSearchCmd)
	rootCmd.AddCommand(catalogCmd)
}

func catalogConfig() types.CatalogConfig {
	cfg := types.CatalogConfig{CatalogPath: viper.GetString("catalog.path")}
	if v, _ := catalogCmd.PersistentFlags().GetString("catalog-path"); v != "" {
		cfg.CatalogPath = v
	}
	return cfg
}

func runCatalogAdd(cmd *cobra.Command, args []string) error {
	store, err := catalog.Open(catalogConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	keywords, _ := cmd.Flags().GetStringSlice("keyword")
	for _, ncPath := range args {
		ds, err := store.RegisterConversion(context.Background(), ncPath, keywords)
		if err != nil {
			return err
		}
		fmt.Printf("registered: %s (%s)\n", ds.Title, ds.MetadataUUID)
	}
	return nil
}

func runCatalogSearch(cmd *cobra.Command, args []string) error {
	store, err := catalog.Open(catalogConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	opts := catalog.SearchOptions{}
	opts.Keywords, _ = cmd.Flags().GetStringSlice("keyword")
	opts.Protocol, _ = cmd.Flags().GetString("protocol")

	if bbox, _ := cmd.Flags().GetString("bbox"); bbox != "" {
		bounds, err := parseBBox(bbox)
		if err != nil {
			return err
		}
		opts.Bounds = &bounds
	}

	results, err := store.Search(context.Background(), opts)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No datasets found.")
		return nil
	}
	for _, ds := range results {
		fmt.Printf("%s  %s  [%.4f, %.4f, %.4f, %.4f]\n",
			ds.MetadataUUID, ds.Title,
			ds.LongitudeMin, ds.LatitudeMin, ds.LongitudeMax, ds.LatitudeMax)
		for _, dist := range ds.Distributions {
			fmt.Printf("    %s (%s)\n", dist.URL, dist.Protocol)
		}
	}
	return nil
}

// parseBBox parses "xmin,ymin,xmax,ymax".
func parseBBox(raw string) ([4]float64, error) {
	var bounds [4]float64
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return bounds, fmt.Errorf("bbox needs four values, got %d", len(parts))
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return bounds, fmt.Errorf("bbox value %q: %w", p, err)
		}
		bounds[i] = v
	}
	if bounds[0] > bounds[2] || bounds[1] > bounds[3] {
		return bounds, fmt.Errorf("bbox minimum exceeds maximum")
	}
	return bounds, nil
}
