package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/flanksource/commons/logger"
	"github.com/flanksource/informe"
	"github.com/flanksource/informe/api"
	"github.com/flanksource/informe/canvas/pdf"
	"github.com/flanksource/informe/images/cache"
	"github.com/flanksource/informe/shutdown"
	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Build information (set by goreleaser)
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, cancel := shutdown.WithSignals(context.Background())
	rootCmd := newRootCommand()
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		shutdown.Shutdown()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	shutdown.Shutdown()
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "informe",
		Short: "Lay out inspection reports as paginated PDF, SVG or PNG documents",
		Long: `informe renders an inspection report (YAML or JSON) into a paginated document:
a full-bleed cover, a running header and footer, one titled grid of fields per
section, photo grids, and an optional closing summary.`,
		Example: `  informe render report.yaml -o informe.pdf
  informe render report.yaml --format svg -o preview/informe.svg
  informe plan report.yaml
  informe info informe.pdf`,
		SilenceUsage: true,
	}
	flags := informe.BindAllFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
		return flags.UseFlags(cmd.Flags())
	}

	rootCmd.AddCommand(newRenderCommand(flags))
	rootCmd.AddCommand(newPlanCommand(flags))
	rootCmd.AddCommand(newInfoCommand())
	rootCmd.AddCommand(newCacheCommand(flags))
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

func loadReport(path string) (api.Report, error) {
	report, err := api.LoadReport(path)
	if err != nil {
		return api.Report{}, err
	}
	if report.Identifier == "" {
		report.Identifier = strings.ToUpper(uuid.NewString()[:8])
		logger.Debugf("report %s has no identifier, using %s", path, report.Identifier)
	}
	return *report, nil
}

func newRenderCommand(flags *informe.AllFlags) *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "render [flags] <report.yaml>",
		Short: "Render a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := loadReport(args[0])
			if err != nil {
				return err
			}
			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(output), ".")
			}
			if format == "" {
				format = api.FormatPDF
			}
			if output == "" {
				output = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0])) + "." + format
			}

			doc, err := informe.Render(cmd.Context(), report, flags.Config, format, informe.Options{BaseDir: filepath.Dir(args[0])})
			if err != nil {
				return err
			}

			var keep []func()
			for _, p := range doc.Paths(output) {
				keep = append(keep, shutdown.RemoveOnInterrupt(p))
			}
			paths, err := doc.Write(output)
			if err != nil {
				return err
			}
			for _, k := range keep {
				k()
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderSummary(doc, paths))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: report name with the format extension)")
	cmd.Flags().StringVar(&format, "format", "", "Output format: "+strings.Join(api.Formats, ", ")+" (default: from --output, else pdf)")
	return cmd
}

func newPlanCommand(flags *informe.AllFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "plan [flags] <report.yaml>",
		Short: "Show which page every grid row and photo lands on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := loadReport(args[0])
			if err != nil {
				return err
			}
			result, _, err := informe.Plan(cmd.Context(), report, flags.Config, informe.Options{BaseDir: filepath.Dir(args[0])})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderPlan(report, result))
			return nil
		},
	}
}

func newInfoCommand() *cobra.Command {
	var text bool
	cmd := &cobra.Command{
		Use:   "info [flags] <file.pdf>",
		Short: "Validate a PDF and print its page count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			info, err := pdf.GetPDFInfo(data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d pages, %d bytes\n", args[0], info.Pages, info.Size)
			if !text {
				return nil
			}
			pages, err := pdf.ExtractText(data)
			if err != nil {
				return err
			}
			for i, page := range pages {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", headingStyle.Render(fmt.Sprintf("--- page %d ---", i+1)), page)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&text, "text", false, "Also print the text of every page")
	return cmd
}

func newCacheCommand(flags *informe.AllFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the photo cache",
	}
	open := func() (*cache.Cache, error) {
		return cache.New(flags.Config.Cache)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show cached photo counts and sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := open()
			if err != nil {
				return err
			}
			defer c.Close()
			stats, err := c.Stats()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n  entries: %d (%d expired)\n  size:    %d bytes\n  hits:    %d\n",
				c.Path(), stats.Entries, stats.Expired, stats.Bytes, stats.Hits)
			return nil
		},
	})

	var expired bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached photos",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := open()
			if err != nil {
				return err
			}
			defer c.Close()
			n, err := c.Clear(expired)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached photos\n", n)
			return nil
		},
	}
	clearCmd.Flags().BoolVar(&expired, "expired", false, "Only remove expired entries")
	cmd.AddCommand(clearCmd)
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), getVersionInfo())
		},
	}
}

func getVersionInfo() string {
	return fmt.Sprintf("informe %s (commit: %s, built: %s, go: %s)",
		version, commit, date, runtime.Version())
}
