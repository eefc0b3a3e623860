package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/sharepoint-versions/internal/config"
	"github.com/pfrederiksen/sharepoint-versions/internal/logger"
	"github.com/pfrederiksen/sharepoint-versions/internal/metrics"
	"github.com/pfrederiksen/sharepoint-versions/internal/scraper"
	"github.com/pfrederiksen/sharepoint-versions/internal/storage"
	"github.com/pfrederiksen/sharepoint-versions/internal/updater"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// includeToddKlindtArg enables the community source when passed as the second argument
const includeToddKlindtArg = "--include-toddklindt"

var (
	flagIncludeToddKlindt bool
	flagConfig            string
	flagFormat            string
	flagMetricsFile       string
	flagVerbose           bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sharepoint-versions <versions-file> [--include-toddklindt]",
		Short: "Update a JSON table of SharePoint Server builds",
		Long: `Scrape SharePoint Server build numbers from the official Microsoft updates page
and, optionally, Todd Klindt's build lists, merge them into the JSON table at
<versions-file> and write it back sorted by build.

Builds from the official page always replace existing entries. Builds from
toddklindt.com are only added when the build is not already in the table.`,
		Args:          requireVersionsFile,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runUpdate,
		// Unrecognised flags only leave the community source disabled
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	}

	// Define flags
	cmd.Flags().BoolVar(&flagIncludeToddKlindt, "include-toddklindt", false, "Also add builds from toddklindt.com")
	cmd.Flags().StringVar(&flagConfig, "config", "", "Optional YAML config file")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Summary format: text or json")
	cmd.Flags().StringVar(&flagMetricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	return cmd
}

// requireVersionsFile rejects a missing table path before anything else runs
func requireVersionsFile(cmd *cobra.Command, args []string) error {
	if len(args) < 1 || strings.TrimSpace(args[0]) == "" {
		return storage.ErrNoPath
	}
	return nil
}

// includeCommunity reports whether the community source was requested, either
// by flag or by the literal second argument. Any other second value disables it.
func includeCommunity(args []string) bool {
	return flagIncludeToddKlindt || (len(args) > 1 && args[1] == includeToddKlindtArg)
}

// runUpdate is the main command logic
func runUpdate(cmd *cobra.Command, args []string) error {
	// Validate format
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level, err := logger.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	if flagVerbose {
		level = logger.LevelDebug
	}
	log := logger.New(level, cmd.ErrOrStderr(), cfg.Logging.Development).With(logger.Fields{
		"run_id": uuid.NewString(),
	})
	logger.SetDefault(log)
	defer log.Sync() // nolint:errcheck

	community := includeCommunity(args)

	store, err := storage.New(args[0])
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	rec := metrics.New()
	opts := append(cfg.ScraperOptions(), scraper.WithLogger(log), scraper.WithMetrics(rec))
	sc := scraper.New(opts...)

	log.Debug("Starting run", logger.Fields{
		"file":               store.Path(),
		"include_toddklindt": community,
		"docs_url":           cfg.Sources.DocsURL,
	})

	result, runErr := updater.New(store, sc, log, rec).Run(cmd.Context(), community)

	if flagMetricsFile != "" {
		if err := rec.WriteTextfile(flagMetricsFile); err != nil {
			log.Warn("Could not write metrics", logger.Fields{"file": flagMetricsFile, "error": err.Error()})
		}
	}

	if runErr != nil {
		log.Error("Run failed", logger.Fields{"file": store.Path()}, runErr)
		return runErr
	}

	if err := WriteOutput(cmd.OutOrStdout(), result, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
