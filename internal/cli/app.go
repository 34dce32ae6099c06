package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sales-comparison/internal/config"
	"sales-comparison/internal/domain"
	"sales-comparison/internal/httpapi"
)

// Comparer loads extracts and builds comparison reports.
type Comparer interface {
	httpapi.Analyzer
	LoadDatasets(ctx context.Context, prevPath, currPath string) (*domain.DatasetPair, error)
}

// Exporter writes a report to disk and returns the written path.
type Exporter interface {
	Export(report *domain.ComparisonReport, format, filename, outputDir string) (string, error)
}

// Services are the dependencies wired from a loaded configuration.
type Services struct {
	Comparer Comparer
	Exporter Exporter
	Logger   *slog.Logger
}

// Builder wires the services for a configuration.
type Builder func(cfg *config.Config) (*Services, error)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd *cobra.Command
	build   Builder
	out     io.Writer
}

// NewCLIApp creates the command tree. build is called once the
// configuration has been loaded.
func NewCLIApp(version string, build Builder) *CLIApp {
	app := &CLIApp{build: build, out: os.Stdout}

	rootCmd := &cobra.Command{
		Use:   "salescompare <previous> <current>",
		Short: "Compare the sales extracts of two periods",
		Long: "Compare a previous and a current period sales extract (CSV or XLSX) by customer,\n" +
			"product and sales rep, segment customers by RFM and export the result.",
		Version:       version,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          app.runReport,
	}
	rootCmd.SetVersionTemplate(`{{printf "salescompare version: %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")

	addReportFlags(rootCmd)

	reportCmd := &cobra.Command{
		Use:   "report <previous> <current>",
		Short: "Print the comparison and write the configured exports",
		Args:  cobra.MaximumNArgs(2),
		RunE:  app.runReport,
	}
	addReportFlags(reportCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(app.newServeCmd())

	app.rootCmd = rootCmd
	return app
}

// addReportFlags registers the flags of the report command on cmd.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().String("previous", "", "Previous period extract (alternative to the first argument)")
	cmd.Flags().String("current", "", "Current period extract (alternative to the second argument)")
	cmd.Flags().IntSliceP("months", "m", nil, "Calendar months to keep, e.g. --months 1,2,3")
	cmd.Flags().StringSlice("customers", nil, "Customer IDs to keep (comma-separated)")
	cmd.Flags().StringSlice("products", nil, "Product IDs to keep (comma-separated)")
	cmd.Flags().StringSlice("reps", nil, "Sales reps to keep (comma-separated)")
	cmd.Flags().StringSliceP("report-type", "y", nil, "Report types to write: xlsx, pdf, json (default from config)")
	cmd.Flags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	cmd.Flags().StringP("report-name", "n", "", "Base name for the report files (without extension)")
	cmd.Flags().IntP("top", "t", 10, "Rows shown per table in the terminal, 0 for all")
	cmd.Flags().Bool("no-export", false, "Only print the report, write no files")
}

// SetOutput redirects console output.
func (app *CLIApp) SetOutput(w io.Writer) {
	app.out = w
	app.rootCmd.SetOut(w)
	app.rootCmd.SetErr(w)
}

// SetArgs overrides os.Args[1:].
func (app *CLIApp) SetArgs(args []string) {
	app.rootCmd.SetArgs(args)
}

// Execute runs the CLI application.
func (app *CLIApp) Execute(ctx context.Context) error {
	return app.rootCmd.ExecuteContext(ctx)
}

// reportArgs holds the parsed flags of the report command.
type reportArgs struct {
	previous string
	current  string
	filter   domain.FilterSpec
	types    []string
	dir      string
	name     string
	top      int
	noExport bool
}

func parseReportArgs(cmd *cobra.Command, args []string, cfg *config.Config) (*reportArgs, error) {
	flags := cmd.Flags()
	ra := &reportArgs{
		types: cfg.Report.Types,
		dir:   cfg.Report.Dir,
		name:  cfg.Report.Name,
	}
	ra.previous, _ = flags.GetString("previous")
	ra.current, _ = flags.GetString("current")
	if len(args) > 0 {
		ra.previous = args[0]
	}
	if len(args) > 1 {
		ra.current = args[1]
	}
	if ra.previous == "" || ra.current == "" {
		return nil, errors.New("both a previous and a current extract are required")
	}

	ra.filter.Months, _ = flags.GetIntSlice("months")
	ra.filter.CustomerIDs, _ = flags.GetStringSlice("customers")
	ra.filter.ProductIDs, _ = flags.GetStringSlice("products")
	ra.filter.SalesReps, _ = flags.GetStringSlice("reps")
	ra.top, _ = flags.GetInt("top")
	ra.noExport, _ = flags.GetBool("no-export")

	if flags.Changed("report-type") {
		ra.types, _ = flags.GetStringSlice("report-type")
	}
	if flags.Changed("dir") {
		ra.dir, _ = flags.GetString("dir")
	}
	if flags.Changed("report-name") {
		ra.name, _ = flags.GetString("report-name")
	}

	// Set default directory to current working directory if not specified
	if ra.dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		ra.dir = cwd
	} else {
		abs, err := filepath.Abs(ra.dir)
		if err != nil {
			return nil, err
		}
		ra.dir = abs
	}
	return ra, nil
}

// setup loads the configuration named by --config-file and wires the
// services.
func (app *CLIApp) setup(cmd *cobra.Command) (*config.Config, *Services, error) {
	configFile, _ := cmd.Flags().GetString("config-file")
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	services, err := app.build(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialise services: %w", err)
	}
	return cfg, services, nil
}

func (app *CLIApp) runReport(cmd *cobra.Command, args []string) error {
	cfg, services, err := app.setup(cmd)
	if err != nil {
		return err
	}
	ra, err := parseReportArgs(cmd, args, cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	console := NewConsole(app.out, ra.top)

	pair, err := services.Comparer.LoadDatasets(ctx, ra.previous, ra.current)
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}
	console.PrintDatasets(pair)

	report, err := services.Comparer.Analyze(ctx, pair, ra.filter)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	console.PrintReport(report)

	if ra.noExport {
		return nil
	}
	for _, format := range ra.types {
		path, err := services.Exporter.Export(report, format, ra.name, ra.dir)
		if err != nil {
			return fmt.Errorf("%s export failed: %w", format, err)
		}
		console.Success("%s report saved to %s", format, path)
	}
	return nil
}
