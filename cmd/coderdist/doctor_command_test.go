package main

import (
	"errors"
	"testing"

	"coderdist/internal/services"
	"coderdist/internal/testsupport"
)

func TestDoctorReportsHealthyToolchain(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedEngine(), testsupport.WithStubbedBinaries("pdflatex"))

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "== Directories ==")
	requireContains(t, out, "Corpus directory:")
	requireContains(t, out, "[OK]")
}

func TestDoctorFailsWithoutEngine(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Typesetting.Engine = "coderdist-missing-engine"
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	requireContains(t, out, "[ERROR]")
	requireContains(t, out, "coderdist-missing-engine")
}
