//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// run executes the built CLI with the given arguments.
func run(args ...string) error {
	cmd := exec.Command(filepath.Join(binDir, binName), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Convert converts every ASEG-GDF2 pair under data/aseg into data/netcdf.
func Convert() error {
	mg.Deps(Build)
	pairs, err := filepath.Glob(filepath.Join("data", "aseg", "*.dfn"))
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		fmt.Println("[convert] no .dfn files under data/aseg")
		return nil
	}
	args := append([]string{"convert", "--batch", "--output-dir", filepath.Join("data", "netcdf")}, pairs...)
	return run(args...)
}

// Gravity converts every survey in the gravity database into data/netcdf.
func Gravity() error {
	mg.Deps(Build)
	return run("gravity",
		"--db", filepath.Join("data", "gravity", "gravity.db"),
		"--output-dir", filepath.Join("data", "netcdf"))
}

// Catalog registers every NetCDF dataset under data/netcdf in the catalog.
func Catalog() error {
	mg.Deps(Build)
	files, err := filepath.Glob(filepath.Join("data", "netcdf", "*.nc"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("[catalog] no .nc files under data/netcdf")
		return nil
	}
	return run(append([]string{"catalog", "add"}, files...)...)
}
