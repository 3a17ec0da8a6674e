// Package app is the fuzzwalk command line: it parses flags, loads the
// configuration and runs one search.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"fuzzwalk/internal/config"
	"fuzzwalk/internal/eventbus"
	"fuzzwalk/internal/logic"
	"fuzzwalk/internal/matcher"
	"fuzzwalk/internal/search"
	"fuzzwalk/internal/ui"
)

// Exit codes
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitInterrupted = 130
)

const usageHeader = `Usage: fuzzwalk [flags] <query>

Fuzzy-search the names of every file and directory under a root.

Flags:
`

// flags holds the parsed command line
type flags struct {
	set        *pflag.FlagSet
	verbose    bool
	root       string
	workers    int
	top        int
	exclude    []string
	color      string
	tui        bool
	pager      bool
	configPath string
	saveConfig bool
}

func newFlags(stderr io.Writer) *flags {
	f := &flags{set: pflag.NewFlagSet("fuzzwalk", pflag.ContinueOnError)}
	set := f.set
	set.SetOutput(stderr)
	set.Usage = func() {
		fmt.Fprint(stderr, usageHeader)
		set.PrintDefaults()
	}

	set.BoolVarP(&f.verbose, "verbose", "v", false, "report unreadable directories and skipped entries on stderr")
	set.StringVarP(&f.root, "root", "r", "", "directory to scan (default: current directory)")
	set.IntVarP(&f.workers, "workers", "w", 0, "traversal pool size (default: number of CPUs)")
	set.IntVarP(&f.top, "top", "n", 0, "number of matches displayed (default 10)")
	set.StringArrayVar(&f.exclude, "exclude", nil, "file or directory name to skip (repeatable)")
	set.StringVar(&f.color, "color", "", "highlight matches: auto, always or never (default auto)")
	set.BoolVar(&f.tui, "tui", false, "show live results in a full-screen view")
	set.BoolVar(&f.pager, "pager", false, "browse every match in a pager after the search")
	set.StringVar(&f.configPath, "config", "", "config file (default: <user config dir>/fuzzwalk/config.toml)")
	set.BoolVar(&f.saveConfig, "save-config", false, "write the effective settings to the config file and exit")
	return f
}

// apply overrides configuration values with the flags that were set
func (f *flags) apply(cfg *config.Config) {
	if f.set.Changed("verbose") {
		cfg.Verbose = f.verbose
	}
	if f.set.Changed("root") {
		cfg.Root = f.root
	}
	if f.set.Changed("workers") {
		cfg.Workers = f.workers
	}
	if f.set.Changed("top") {
		cfg.Top = f.top
	}
	if f.set.Changed("exclude") {
		cfg.Exclude = f.exclude
	}
	if f.set.Changed("color") {
		cfg.Color = f.color
	}
}

// loadConfig reads the --config file, or the user config file when none is given.
// A missing file is tolerated when it is about to be written.
func loadConfig(path string, saving bool) (config.ConfigService, *config.Config, error) {
	svc := config.NewConfigService()
	if path != "" {
		svc = config.NewConfigServiceAt(path)
	}
	cfg, err := svc.Load()
	if saving && errors.Is(err, fs.ErrNotExist) {
		return svc, config.DefaultConfig(), nil
	}
	return svc, cfg, err
}

// Run executes the command and returns the process exit code
func Run(args []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), args, stdout, stderr)
}

// RunContext is Run with a parent context; cancelling it interrupts the
// search the same way SIGINT does
func RunContext(parent context.Context, args []string, stdout, stderr io.Writer) int {
	f := newFlags(stderr)
	if err := f.set.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}

	if f.saveConfig {
		return saveConfig(f, stderr)
	}

	if f.set.NArg() == 0 {
		fmt.Fprintln(stderr, "Error: no query provided")
		f.set.Usage()
		return ExitUsage
	}
	if f.set.NArg() > 1 {
		fmt.Fprintf(stderr, "Error: expected one query, got %d arguments (quote queries containing spaces)\n", f.set.NArg())
		return ExitUsage
	}
	query := f.set.Arg(0)

	svc, cfg, err := loadConfig(f.configPath, false)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitUsage
	}
	f.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitUsage
	}
	root, err := cfg.ResolveRoot()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitUsage
	}

	// Set up logging
	log.SetOutput(io.Discard)
	if cfg.LogFile != "" {
		logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(stderr, "Could not open log file: %v\n", err)
		} else {
			defer logFile.Close()
			log.SetOutput(logFile)
		}
	}

	log.Printf("Configuration: %s", svc.Path())

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			log.Printf("Interrupted, stopping scan")
			cancel()
		case <-ctx.Done():
		}
	}()

	interactive := isTerminal(stdout)

	bus := eventbus.New()
	search.SubscribeLogging(bus)

	opts := search.Options{
		Fs:          afero.NewOsFs(),
		Bus:         bus,
		Scorer:      matcher.NewFuzzyScorer(query),
		Decorator:   matcher.NewHighlighter(matcher.ColorProfile(cfg.Color, stdout)),
		Out:         stdout,
		Diagnostics: stderr,
		NewRenderer: rendererFactory(f.tui, interactive, cfg, stdout, root, query, cancel),
		Query:       query,
		Root:        root,
		Top:         cfg.Top,
		Workers:     cfg.Workers,
		Exclude:     cfg.Exclude,
		Verbose:     cfg.Verbose,
	}

	result, err := search.New(opts).Run(ctx)
	if result == nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitFailure
	}
	if cfg.Verbose {
		fmt.Fprintf(stderr, "Time elapsed: %v\n", result.Elapsed)
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}

	if f.pager && interactive {
		if err := ui.ShowInPager(logic.RankAll(result.Matches)); err != nil {
			fmt.Fprintf(stderr, "Error opening pager: %v\n", err)
			return ExitFailure
		}
	}

	return ExitOK
}

// saveConfig writes the configuration file merged with the flags given
func saveConfig(f *flags, stderr io.Writer) int {
	if f.set.NArg() > 0 {
		fmt.Fprintln(stderr, "Error: --save-config takes no query")
		return ExitUsage
	}
	svc, cfg, err := loadConfig(f.configPath, true)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitUsage
	}
	f.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitUsage
	}
	if err := svc.SaveToPath(cfg, svc.Path()); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitFailure
	}
	fmt.Fprintf(stderr, "Configuration written to %s\n", svc.Path())
	return ExitOK
}

// rendererFactory picks the live renderer. Output that is not a terminal
// gets no live rendering, only the final frame.
func rendererFactory(useTUI, interactive bool, cfg *config.Config, out io.Writer, root, query string, cancel context.CancelFunc) search.RendererFactory {
	if !interactive {
		return nil
	}
	if useTUI {
		return func(source logic.CandidateSource) ui.Renderer {
			model := ui.NewTUIModel(source, cfg.Top, cfg.RefreshHz, root, query, cancel)
			return ui.NewTUIRenderer(model, tea.WithAltScreen(), tea.WithOutput(out))
		}
	}
	return func(source logic.CandidateSource) ui.Renderer {
		return ui.NewLiveRenderer(out, source, cfg.Top, cfg.RefreshHz)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
