package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/relocate/pkg/config"
	"github.com/walteh/relocate/pkg/log"
	"github.com/walteh/relocate/pkg/operation"
	"github.com/walteh/relocate/pkg/tree"
	"gitlab.com/tozd/go/errors"
)

// rootOpts holds the flag values of the root command
type rootOpts struct {
	configFile string
	root       string
	extensions []string
	ignore     []string
	dryRun     bool
	diff       bool
	strict     bool
	jobs       int
	verbose    bool
	debug      bool

	// environ replaces the process environment when set
	environ map[string]string
}

// newRootCmd creates the relocate command
func newRootCmd(environ map[string]string) *cobra.Command {
	o := &rootOpts{environ: environ}

	cmd := &cobra.Command{
		Use:   "relocate",
		Short: "Rewrite import path aliases across a source tree",
		Long: `relocate walks a source tree and rewrites every reference to one import alias
so it points at another, e.g. "@/hooks/x" becomes "@/lib/hooks/x".

Without flags it rewrites @/hooks to @/lib/hooks in the .ts and .tsx files of
the src directory next to the directory holding the binary.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd)
		},
	}

	addRootFlags(cmd, o)
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// addRootFlags adds the run flags to the root command
func addRootFlags(cmd *cobra.Command, o *rootOpts) {
	flags := cmd.Flags()
	flags.StringVarP(&o.configFile, "config", "c", "", "config file path (.yaml, .yml, .hcl or .json)")
	flags.StringVar(&o.root, "root", "", "directory to rewrite (default: ../src relative to the binary)")
	flags.StringSliceVar(&o.extensions, "ext", nil, "file extensions to rewrite (default: .ts,.tsx)")
	flags.StringSliceVar(&o.ignore, "ignore", nil, "doublestar globs of root-relative paths to leave alone")
	flags.BoolVar(&o.dryRun, "dry-run", false, "report what would change without writing")
	flags.BoolVar(&o.diff, "diff", false, "print a diff of every changed file (implies --verbose)")
	flags.BoolVar(&o.strict, "strict", false, "exit with status 1 when any file failed")
	flags.IntVar(&o.jobs, "jobs", 1, "number of files processed at once")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "print a line for every processed file")
	flags.BoolVarP(&o.debug, "debug", "d", false, "enable debug logging on stderr")
}

// setupLogging creates the diagnostic logger
func setupLogging(w io.Writer, debug, verbose bool) zerolog.Logger {
	level := zerolog.ErrorLevel
	switch {
	case debug:
		level = zerolog.DebugLevel
	case verbose:
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// setupConsole turns styling off when out is not a terminal
func setupConsole(out io.Writer) {
	if f, ok := out.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return
	}
	color.NoColor = true
	pterm.DisableStyling()
}

// defaultRoot returns the src directory next to the directory holding the binary
func defaultRoot() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", errors.Errorf("locating executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(filepath.Dir(exe)), "src"), nil
}

// loadConfig merges defaults, the config file, the environment and the changed flags
func (o *rootOpts) loadConfig(ctx context.Context, cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if o.configFile != "" {
		loaded, err := config.Load(ctx, o.configFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if err := config.ApplyEnv(cfg, o.environ); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Root = o.root
	}
	if flags.Changed("ext") {
		cfg.Extensions = o.extensions
	}
	if flags.Changed("ignore") {
		cfg.Ignore = o.ignore
	}
	if flags.Changed("dry-run") {
		cfg.DryRun = o.dryRun
	}
	if flags.Changed("diff") {
		cfg.Diff = o.diff
	}
	if flags.Changed("strict") {
		cfg.Strict = o.strict
	}
	if flags.Changed("jobs") {
		cfg.Jobs = o.jobs
	}
	if flags.Changed("verbose") {
		cfg.Verbose = o.verbose
	}
	if flags.Changed("debug") {
		cfg.Debug = o.debug
	}

	if cfg.Root == "" {
		root, err := defaultRoot()
		if err != nil {
			return nil, err
		}
		cfg.Root = root
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🏃 run executes one rewrite of the configured tree
func (o *rootOpts) run(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := o.loadConfig(ctx, cmd)
	if err != nil {
		return err
	}

	logger := setupLogging(cmd.ErrOrStderr(), cfg.Debug, cfg.Verbose)
	ctx = logger.WithContext(ctx)
	logger.Debug().Str("config", cfg.String()).Msg("resolved configuration")

	out := cmd.OutOrStdout()
	setupConsole(out)

	rules, err := cfg.RuleSet()
	if err != nil {
		return err
	}

	selector, err := tree.NewSelector(cfg.Extensions, cfg.Ignore, logger)
	if err != nil {
		return errors.Errorf("creating selector: %w", err)
	}

	processor, err := operation.NewProcessor(operation.ProcessorOptions{
		Rules:  rules,
		DryRun: cfg.DryRun,
		Diff:   cfg.Diff,
	})
	if err != nil {
		return errors.Errorf("creating processor: %w", err)
	}

	console := log.New(out, cfg.Verbose || cfg.Diff)

	runner, err := operation.NewRunner(operation.Options{
		Root:      cfg.Root,
		Selector:  selector,
		Processor: processor,
		Reporter:  console,
		Jobs:      cfg.Jobs,
		DryRun:    cfg.DryRun,
	})
	if err != nil {
		return errors.Errorf("creating runner: %w", err)
	}

	summary, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	if cfg.Strict && summary.Failed() > 0 {
		return errors.Errorf("%d file(s) failed", summary.Failed())
	}

	return nil
}
