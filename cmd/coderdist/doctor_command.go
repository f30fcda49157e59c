package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"coderdist/internal/preflight"
	"coderdist/internal/services"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check directories and the typesetting toolchain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			report := newStatusReport(cmd.OutOrStdout())

			report.section("Configuration")
			if ctx.configExists {
				report.line("Config file", statusOK, ctx.configPath)
			} else {
				report.line("Config file", statusWarn, "not found; using defaults")
			}
			report.line("Run history", statusInfo, "enabled: "+yesNo(cfg.Ledger.Enabled))

			report.section("Directories")
			for _, result := range preflight.RunAll(cfg) {
				if result.Passed {
					report.line(result.Name, statusOK, result.Detail)
				} else {
					report.line(result.Name, statusError, result.Detail)
				}
			}

			report.section("Typesetting")
			for _, status := range preflight.CheckSystemDeps(cfg) {
				switch {
				case status.Available:
					report.line(status.Name, statusOK, status.Path)
				case status.Optional:
					report.line(status.Name, statusWarn, status.Detail)
				default:
					report.line(status.Name, statusError, status.Detail)
				}
			}
			// Engines that reject -v only warn.
			version := preflight.CheckEngineVersion(cmd.Context(), cfg.Typesetting.Engine)
			if version.Passed {
				report.line(version.Name, statusOK, version.Detail)
			} else {
				report.line(version.Name, statusWarn, version.Detail)
			}

			if report.errors > 0 {
				return services.Wrap(services.ErrConfiguration, "doctor", "check",
					fmt.Sprintf("%d problem(s) found", report.errors), nil)
			}
			return nil
		},
	}
}
