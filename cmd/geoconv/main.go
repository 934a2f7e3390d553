// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the geoconv CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the geoconv CLI.
var rootCmd = &cobra.Command{
	Use:   "geoconv",
	Short: "Convert geophysical point data between ASEG-GDF2 and NetCDF",
	Long: `geoconv converts geophysical line and point data between the ASEG-GDF2
interchange format and CF/ACDD compliant NetCDF point datasets.

Each operation is a subcommand: convert (.dfn/.dat to .nc), export (the
reverse), describe (dataset inspection), gravity (survey database to NetCDF),
and catalog (the dataset metadata cache).`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./geoconv.yaml or ~/.config/geoconv/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("geoconv")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "geoconv"))
		}
	}

	viper.SetEnvPrefix("GEOCONV")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
