package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"suppressaudit/config"
	"suppressaudit/logging"
	"suppressaudit/render"
	"suppressaudit/scanner"
)

// Version information (set at build time with -ldflags)
var Version = "dev"

// errFindings makes the process exit with status 1 without printing an error.
var errFindings = errors.New("inline suppressions found")

type scanOptions struct {
	configPath     string
	format         string
	workers        int
	languages      []string
	exclude        []string
	diff           bool
	ref            string
	debug          bool
	logLevel       string
	logFormat      string
	metricsOut     string
	interactive    bool
	failOnFindings bool
	noColor        bool
}

func newRootCmd() *cobra.Command {
	opts := &scanOptions{}
	cmd := &cobra.Command{
		Use:   "suppressaudit [path]",
		Short: "Find inline suppressions of static analysis findings",
		Long: `suppressaudit walks a source tree and reports every inline directive that
silences SonarQube: NOSONAR comments, @SuppressWarnings / @Suppress annotations
naming Sonar rules, and [SuppressMessage] attributes.`,
		Version:       Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runScan(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Config file (default: <path>/"+config.DefaultFile+" if present)")
	f.StringVarP(&opts.format, "format", "f", "", "Output format: text, json, or sarif")
	f.IntVarP(&opts.workers, "workers", "w", 0, "Files audited in parallel (0 = one per CPU)")
	f.StringSliceVarP(&opts.languages, "lang", "l", nil, "Only audit these language keys (repeatable)")
	f.StringSliceVar(&opts.exclude, "exclude", nil, "Extra gitignore-style patterns to skip (repeatable)")
	f.BoolVar(&opts.diff, "diff", false, "Only audit files changed vs --ref")
	f.StringVar(&opts.ref, "ref", "main", "Branch/ref to compare against (use with --diff)")
	f.BoolVar(&opts.debug, "debug", false, "Shorthand for --log-level debug")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&opts.logFormat, "log-format", "", "Log format: auto, console, or json")
	f.StringVar(&opts.metricsOut, "metrics-out", "", "Write Prometheus metrics in text format to this file")
	f.BoolVarP(&opts.interactive, "interactive", "i", false, "Browse findings interactively")
	f.BoolVar(&opts.failOnFindings, "fail-on-findings", false, "Exit with status 1 when any suppression is found")
	f.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(newLanguagesCmd(), newExtractCmd(), newRuleCmd())
	return cmd
}

// resolveConfig loads the config file and applies the flags that were set.
func resolveConfig(cmd *cobra.Command, root string, opts *scanOptions) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
	} else {
		cfg, err = config.LoadDefault(root)
	}
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = opts.format
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flags.Changed("lang") {
		cfg.Languages = opts.languages
	}
	if flags.Changed("exclude") {
		cfg.Exclude = append(cfg.Exclude, opts.exclude...)
	}
	if flags.Changed("fail-on-findings") {
		cfg.FailOnFindings = opts.failOnFindings
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if opts.debug {
		cfg.Log.Level = "debug"
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = opts.logFormat
	}
	return cfg, cfg.Validate()
}

func runScan(cmd *cobra.Command, root string, opts *scanOptions) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if info, err := os.Stat(absRoot); err != nil {
		return err
	} else if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	cfg, err := resolveConfig(cmd, absRoot, opts)
	if err != nil {
		return err
	}

	logger, err := logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	logger.Debug().Str("root", absRoot).Strs("languages", cfg.Languages).Strs("exclude", cfg.Exclude).Msg("Starting audit")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	files, err := scanner.ScanFiles(absRoot, scanner.LoadGitignore(absRoot, cfg.Exclude...))
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}
	files = scanner.FilterLanguages(files, cfg.Languages)

	var diffRef string
	if opts.diff {
		info, err := scanner.GitDiffInfo(ctx, absRoot, opts.ref)
		if err != nil {
			return fmt.Errorf("%w (make sure %q is a valid branch/ref)", err, opts.ref)
		}
		files = scanner.FilterToChangedWithInfo(files, info)
		diffRef = opts.ref
		logger.Debug().Int("changed", len(info.Changed)).Int("auditable", len(files)).Msg("Filtered to changed files")
	}

	var metrics *scanner.Metrics
	if opts.metricsOut != "" {
		metrics = scanner.NewMetrics()
	}

	report, err := scanner.NewAuditor(cfg.Workers, logger, metrics).Audit(ctx, absRoot, files)
	if err != nil {
		return err
	}
	report.DiffRef = diffRef

	if err := writeReport(cmd, report, cfg.Format, opts); err != nil {
		return err
	}

	if metrics != nil {
		if err := metrics.WriteTextfile(opts.metricsOut); err != nil {
			return err
		}
	}

	logSummary(logger, report)
	if cfg.FailOnFindings && len(report.Issues) > 0 {
		return errFindings
	}
	return nil
}

func writeReport(cmd *cobra.Command, report *scanner.Report, format string, opts *scanOptions) error {
	out := cmd.OutOrStdout()
	if opts.interactive {
		if !logging.IsTerminal(out) {
			return errors.New("--interactive requires a terminal")
		}
		return render.Browse(report)
	}
	switch format {
	case "json":
		return render.JSON(out, report)
	case "sarif":
		return render.SARIF(out, report, Version)
	default:
		render.Text(out, report, render.Options{NoColor: opts.noColor})
		return nil
	}
}

func logSummary(logger zerolog.Logger, report *scanner.Report) {
	ev := logger.Info()
	if len(report.Issues) > 0 {
		ev = logger.Warn()
	}
	ev.Int("files", report.FilesScanned).
		Int("skipped", len(report.Skipped)).
		Int("findings", len(report.Issues)).
		Msg("Audit complete")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if errors.Is(err, errFindings) {
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
