// Package main provides the CLI entrypoint for f1dash.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/f1dash/internal/config"
	"github.com/verte-zerg/f1dash/internal/dashboard"
	"github.com/verte-zerg/f1dash/internal/dashui"
	"github.com/verte-zerg/f1dash/internal/dataset"
	"github.com/verte-zerg/f1dash/internal/ingest"
	"github.com/verte-zerg/f1dash/internal/logging"
	"github.com/verte-zerg/f1dash/internal/render"
	"github.com/verte-zerg/f1dash/internal/selection"
	"github.com/verte-zerg/f1dash/internal/stats"
	"github.com/verte-zerg/f1dash/internal/store"
)

const (
	defaultPlotHeight = 10
)

var (
	dashYear      int
	dashCircuit   string
	dashDriver    string
	dashMinSeason int
	dashMaxSeason int
	dashDebug     bool

	dataDir      string
	snapshotPath string
	logPath      string

	reportWidth  int
	reportHeight int

	fetchURL    string
	fetchImport bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "f1dash",
		Short:         "Formula 1 history dashboard",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDashboardCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.IntVar(&dashYear, "year", selection.DefaultYear, "season to show")
	flags.StringVar(&dashCircuit, "circuit", selection.AllToken, "circuit id, name or 'all'")
	flags.StringVar(&dashDriver, "driver", selection.AllToken, "driver id, name or 'all'")
	flags.IntVar(&dashMinSeason, "min-season", stats.DefaultMinSeason, "oldest selectable season (0 for no bound)")
	flags.IntVar(&dashMaxSeason, "max-season", stats.DefaultMaxSeason, "newest selectable season (0 for no bound)")
	flags.BoolVar(&dashDebug, "debug", false, "enable debug logging")
	flags.StringVar(&dataDir, "data", config.DefaultDataDir(), "directory with the dataset CSV files")
	flags.StringVar(&snapshotPath, "snapshot", config.DefaultSnapshotPath(), "SQLite snapshot path")
	flags.StringVar(&logPath, "log-file", config.DefaultLogPath(), "log file path")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newSeasonsCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newFetchCmd())

	return rootCmd
}

// applyFileConfig fills every flag the user did not set from the config file.
func applyFileConfig(cmd *cobra.Command) (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "year", &dashYear, fileCfg.Dashboard.Year)
	applyStringConfig(cmd, "circuit", &dashCircuit, fileCfg.Dashboard.Circuit)
	applyStringConfig(cmd, "driver", &dashDriver, fileCfg.Dashboard.Driver)
	applyIntConfig(cmd, "min-season", &dashMinSeason, fileCfg.Dashboard.MinSeason)
	applyIntConfig(cmd, "max-season", &dashMaxSeason, fileCfg.Dashboard.MaxSeason)
	applyBoolConfig(cmd, "debug", &dashDebug, fileCfg.Dashboard.Debug)
	applyStringConfig(cmd, "data", &dataDir, fileCfg.Data.Dir)
	applyStringConfig(cmd, "snapshot", &snapshotPath, fileCfg.Data.Snapshot)
	applyStringConfig(cmd, "log-file", &logPath, fileCfg.Data.LogFile)
	return fileCfg, nil
}

func validateSettings() error {
	if dashYear <= 0 {
		return fmt.Errorf("--year must be > 0")
	}
	if dashMinSeason < 0 || dashMaxSeason < 0 {
		return fmt.Errorf("--min-season and --max-season must be >= 0")
	}
	if dashMinSeason > 0 && dashMaxSeason > 0 && dashMinSeason > dashMaxSeason {
		return fmt.Errorf("--min-season must not exceed --max-season")
	}
	if strings.TrimSpace(dataDir) == "" && strings.TrimSpace(snapshotPath) == "" {
		return fmt.Errorf("--data or --snapshot is required")
	}
	return nil
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	session, closeLog, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	seasons, err := session.Seasons(dashMinSeason, dashMaxSeason)
	if err != nil {
		return err
	}
	if len(seasons) == 0 {
		logErrf("No seasons between %d and %d in the dataset\n", dashMinSeason, dashMaxSeason)
	}

	model := dashui.NewModel(session, seasons)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard TUI: %w", err)
	}
	return nil
}

// openSession loads the dataset and applies the startup selection. The
// returned func closes the log file.
func openSession(cmd *cobra.Command) (*dashboard.Session, func(), error) {
	if _, err := applyFileConfig(cmd); err != nil {
		return nil, nil, err
	}
	if err := validateSettings(); err != nil {
		return nil, nil, err
	}

	logger, closeLog := openLogger()
	session := dashboard.New(selection.New(dashYear), logger)
	src := resolveSource(cmd.Flags().Changed("data"), dataDir, snapshotPath)
	logger.Info().Str("source", src.String()).Msg("loading dataset")
	if err := session.Load(cmd.Context(), src.Load); err != nil {
		closeLog()
		return nil, nil, datasetLoadError(src, err)
	}

	views, err := session.Views()
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	circuit, err := dashboard.ResolveCircuit(views, dashCircuit)
	if err != nil {
		closeLog()
		return nil, nil, fmt.Errorf("invalid --circuit: %w", err)
	}
	driver, err := dashboard.ResolveDriver(views, dashDriver)
	if err != nil {
		closeLog()
		return nil, nil, fmt.Errorf("invalid --driver: %w", err)
	}
	sel := selection.New(dashYear)
	sel.SetCircuit(circuit)
	sel.SetDriver(driver)
	if _, err := session.Select(sel); err != nil {
		closeLog()
		return nil, nil, err
	}
	return session, closeLog, nil
}

func openLogger() (zerolog.Logger, func()) {
	logFile, err := logging.Open(logPath, dashDebug)
	if err != nil {
		logErrf("failed to open log file %s: %v\n", logPath, err)
		return logging.Nop(), func() {}
	}
	return logFile.Logger, func() {
		if cerr := logFile.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print every view for the selection",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}
	cmd.Flags().IntVar(&reportWidth, "width", 0, "output width (default: terminal width)")
	cmd.Flags().IntVar(&reportHeight, "plot-height", defaultPlotHeight, "plot height in rows")
	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	if reportWidth < 0 {
		return fmt.Errorf("--width must be >= 0")
	}
	if reportHeight <= 0 {
		return fmt.Errorf("--plot-height must be > 0")
	}
	session, closeLog, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	views, err := session.Views()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	opts := render.Options{Width: reportWidth, PlotHeight: reportHeight, Color: render.IsTerminal(out)}
	if err := render.Report(out, views, opts); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func newSeasonsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seasons",
		Short: "List seasons available in the dataset",
		Args:  cobra.NoArgs,
		RunE:  runSeasonsCmd,
	}
}

func runSeasonsCmd(cmd *cobra.Command, _ []string) error {
	session, closeLog, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	seasons, err := session.Seasons(dashMinSeason, dashMaxSeason)
	if err != nil {
		return err
	}
	if err := render.Seasons(cmd.OutOrStdout(), seasons); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Import the CSV dataset into the SQLite snapshot",
		Args:  cobra.NoArgs,
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, _ []string) error {
	if _, err := applyFileConfig(cmd); err != nil {
		return err
	}
	return importSnapshot(cmd.Context(), dataDir, snapshotPath)
}

func importSnapshot(ctx context.Context, dir, path string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("--data is required")
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("--snapshot is required")
	}
	tables, err := ingest.Load(ctx, dir)
	if err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close snapshot: %v\n", cerr)
		}
	}()
	source := dir
	if abs, err := filepath.Abs(dir); err == nil {
		source = abs
	}
	if err := st.ImportTables(ctx, tables, source); err != nil {
		return fmt.Errorf("failed to import dataset: %w", err)
	}
	logErrf("Imported %d races and %d results into %s\n", len(tables.Races), len(tables.Results), path)
	return nil
}

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download and extract a dataset archive",
		Args:  cobra.NoArgs,
		RunE:  runFetchCmd,
	}
	cmd.Flags().StringVar(&fetchURL, "url", "", "URL of a zip archive with the dataset CSV files")
	cmd.Flags().BoolVar(&fetchImport, "import", false, "import the extracted files into the snapshot")
	return cmd
}

func runFetchCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := applyFileConfig(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "url", &fetchURL, fileCfg.Data.URL)
	if strings.TrimSpace(fetchURL) == "" {
		return fmt.Errorf("--url is required (or set url in the [data] section of %s)", config.DefaultConfigPath())
	}
	if strings.TrimSpace(dataDir) == "" {
		return fmt.Errorf("--data is required")
	}

	logErrln("Downloading dataset archive...")
	archive, err := dataset.DownloadArchive(cmd.Context(), fetchURL, config.DefaultCacheDir())
	if err != nil {
		return fmt.Errorf("failed to download dataset: %w", err)
	}
	if archive.Cached {
		logErrf("Using cached archive %s\n", archive.Filename)
	} else {
		logErrf("Downloaded archive %s\n", archive.Filename)
	}
	written, err := dataset.ExtractTables(archive.Path, dataDir)
	if err != nil {
		return fmt.Errorf("failed to extract dataset: %w", err)
	}
	for _, path := range written {
		logErrf("Wrote %s\n", path)
	}
	if err := dataset.WriteAttribution(fetchURL, dataDir); err != nil {
		return err
	}
	logErrln("Wrote ATTRIBUTION.txt")
	if !fetchImport {
		return nil
	}
	return importSnapshot(cmd.Context(), dataDir, snapshotPath)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# f1dash configuration
# Uncomment a value to enable it. CLI flags override config values.

[dashboard]
# year = %d               # Season shown on startup
# circuit = %q           # Circuit id, name or "all"
# driver = %q            # Driver id, name or "all"
# min-season = %d         # Oldest selectable season (0 for no bound)
# max-season = %d         # Newest selectable season (0 for no bound)
# debug = false           # Debug logging

[data]
# dir = %q
# snapshot = %q
# log-file = %q
# url = ""                # Zip archive used by "f1dash fetch"
`,
		selection.DefaultYear,
		selection.AllToken,
		selection.AllToken,
		stats.DefaultMinSeason,
		stats.DefaultMaxSeason,
		config.DefaultDataDir(),
		config.DefaultSnapshotPath(),
		config.DefaultLogPath(),
	)
}

func datasetLoadError(src source, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load dataset: %v", err),
		fmt.Sprintf("source: %s", src),
		"Download: f1dash fetch --url <zip archive>",
		"Snapshot: f1dash import --data <csv dir>",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
