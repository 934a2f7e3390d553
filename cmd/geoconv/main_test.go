// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/pdiddy/geoconv/pkg/types"
)

// TestConvertPassesArgumentsVerbatim pins the command-layer contract: both
// paths reach the pipeline exactly as given, and the pipeline's error comes
// back unchanged.
func TestConvertPassesArgumentsVerbatim(t *testing.T) {
	var gotIn, gotOut string
	pipelineErr := errors.New("pipeline failed")

	orig := runConversion
	runConversion = func(dfnPath, ncPath string, cfg types.ConvertConfig) error {
		gotIn, gotOut = dfnPath, ncPath
		return pipelineErr
	}
	defer func() { runConversion = orig }()

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"convert", "in dir/lines with spaces.dfn", "out/lines.nc"})

	err := rootCmd.Execute()
	if !errors.Is(err, pipelineErr) {
		t.Errorf("Execute error = %v, want the pipeline error unchanged", err)
	}
	if gotIn != "in dir/lines with spaces.dfn" || gotOut != "out/lines.nc" {
		t.Errorf("pipeline got (%q, %q), want the arguments verbatim", gotIn, gotOut)
	}
}

func TestConvertRejectsWrongArgCount(t *testing.T) {
	orig := runConversion
	called := false
	runConversion = func(dfnPath, ncPath string, cfg types.ConvertConfig) error {
		called = true
		return nil
	}
	defer func() { runConversion = orig }()

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"convert", "only-one-arg.dfn"})

	if err := rootCmd.Execute(); err == nil {
		t.Error("Execute succeeded with one argument")
	}
	if called {
		t.Error("pipeline was invoked despite the argument error")
	}
}
