// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/geoconv/internal/gravity"
	"github.com/pdiddy/geoconv/pkg/types"
)

var gravityCmd = &cobra.Command{
	Use:   "gravity [survey-ids...]",
	Short: "Convert gravity survey observations to NetCDF datasets",
	Long: `Gravity reads survey observations from a SQLite database and writes one
NetCDF point dataset per survey. Without arguments every survey with
releasable observations is converted; otherwise only the named surveys are.

Duplicated stations are resolved to their most recent database entry, and
only released, open-access GDA94 observations with a complete measurement
set are exported.`,
	RunE: runGravity,
}

func init() {
	gravityCmd.Flags().String("db", "", "gravity observation SQLite database")
	gravityCmd.Flags().String("settings", "", "YAML file mapping database columns to variables")
	gravityCmd.Flags().String("output-dir", "", "directory receiving one .nc file per survey")

	rootCmd.AddCommand(gravityCmd)
}

func gravityConfig(cmd *cobra.Command) types.GravityConfig {
	cfg := types.GravityConfig{
		DatabasePath: viper.GetString("gravity.database"),
		SettingsPath: viper.GetString("gravity.settings"),
		OutputDir:    viper.GetString("gravity.output_dir"),
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DatabasePath = v
	}
	if v, _ := cmd.Flags().GetString("settings"); v != "" {
		cfg.SettingsPath = v
	}
	if v, _ := cmd.Flags().GetString("output-dir"); v != "" {
		cfg.OutputDir = v
	}
	return cfg
}

func runGravity(cmd *cobra.Command, args []string) error {
	cfg := gravityConfig(cmd)
	if cfg.DatabasePath == "" {
		return fmt.Errorf("no gravity database: use --db or set gravity.database in the config")
	}

	store, err := gravity.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	if len(args) == 0 {
		result, err := gravity.ConvertAll(ctx, store, cfg, os.Stdout)
		if err != nil {
			return err
		}
		if result.HasFailures() {
			return fmt.Errorf("%d survey(s) failed conversion", result.Failed)
		}
		return nil
	}

	settings, err := gravity.LoadSettings(cfg.SettingsPath)
	if err != nil {
		return err
	}
	for _, id := range args {
		ncPath := filepath.Join(cfg.OutputDir, id+".nc")
		if err := gravity.ConvertSurvey(ctx, store, id, ncPath, settings); err != nil {
			return err
		}
		fmt.Printf("converted: %s -> %s\n", id, ncPath)
	}
	return nil
}
