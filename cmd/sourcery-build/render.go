// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/invowk/sourcery-build/internal/discovery"
	"github.com/invowk/sourcery-build/internal/plan"
	"github.com/invowk/sourcery-build/internal/resolver"
	"github.com/invowk/sourcery-build/pkg/target"

	"github.com/goccy/go-yaml"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// planReport is the machine-readable form of a resolved plan.
type planReport struct {
	Target          string                 `json:"target" yaml:"target"`
	Directory       string                 `json:"directory" yaml:"directory"`
	Mode            resolver.Mode          `json:"mode" yaml:"mode"`
	Configuration   resolver.Configuration `json:"configuration" yaml:"configuration"`
	OutputDirectory string                 `json:"output_directory" yaml:"output_directory"`
	CacheDirectory  string                 `json:"cache_directory" yaml:"cache_directory"`
	Diagnostics     []discovery.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
	Commands        []plan.Command         `json:"commands" yaml:"commands"`
}

func newPlanReport(m *target.Manifest, res resolver.Resolution, cmds []plan.Command) planReport {
	diags := res.Diagnostics
	if diags == nil {
		diags = []discovery.Diagnostic{}
	}
	return planReport{
		Target:          m.Target.Name,
		Directory:       m.Target.Directory,
		Mode:            res.Configuration.Mode(),
		Configuration:   res.Configuration,
		OutputDirectory: res.OutputDirectory,
		CacheDirectory:  res.CacheDirectory,
		Diagnostics:     diags,
		Commands:        cmds,
	}
}

func writePlan(w io.Writer, format string, report planReport) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case formatYAML:
		out, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to encode plan: %w", err)
		}
		_, err = w.Write(out)
		return err
	case formatText:
		writePlanText(w, report)
		return nil
	default:
		return fmt.Errorf("unknown format %q (valid: text, json, yaml)", format)
	}
}

func writePlanText(w io.Writer, report planReport) {
	fmt.Fprintf(w, "%s %s\n\n", TitleStyle.Render("Target:"), report.Target)
	fmt.Fprintf(w, "%s%s\n", labelStyle.Render("Directory"), report.Directory)
	fmt.Fprintf(w, "%s%s\n", labelStyle.Render("Mode"), report.Mode)

	switch cfg := report.Configuration.(type) {
	case resolver.ConfigFileMode:
		fmt.Fprintf(w, "%s%s\n", labelStyle.Render("Config"), cfg.ConfigPath)
	case resolver.CliOptionsMode:
		fmt.Fprintf(w, "%s%s\n", labelStyle.Render("Sources"), cfg.Sources)
		for _, tpl := range cfg.Templates {
			fmt.Fprintf(w, "%s%s\n", labelStyle.Render("Template"), tpl)
		}
		if len(cfg.ExtraArgs) > 0 {
			fmt.Fprintf(w, "%s%s\n", labelStyle.Render("Extra args"), strings.Join(cfg.ExtraArgs, " "))
		}
	}
	fmt.Fprintf(w, "%s%s\n", labelStyle.Render("Output"), report.OutputDirectory)
	fmt.Fprintf(w, "%s%s\n", labelStyle.Render("Cache"), report.CacheDirectory)

	if len(report.Diagnostics) > 0 {
		fmt.Fprintln(w)
		renderDiagnostics(w, report.Diagnostics)
	}

	fmt.Fprintf(w, "\n%s\n", TitleStyle.Render("Commands:"))
	for i, c := range report.Commands {
		fmt.Fprintf(w, "  %d. %s\n", i+1, c.DisplayName)
		fmt.Fprintf(w, "     %s\n", CmdStyle.Render(c.ShellLine()))
	}
}

// renderDiagnostics prints one line per diagnostic, errors in red and
// warnings in amber.
func renderDiagnostics(w io.Writer, diags []discovery.Diagnostic) {
	for _, d := range diags {
		label := WarningStyle.Render("warning")
		if d.Severity == discovery.SeverityError {
			label = ErrorStyle.Render("error")
		}
		fmt.Fprintf(w, "%s [%s] %s\n", label, d.Code, d.Message)
		if d.Cause != nil {
			fmt.Fprintf(w, "    %s\n", SubtitleStyle.Render(d.Cause.Error()))
		}
	}
}
