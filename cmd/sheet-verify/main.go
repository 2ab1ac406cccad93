package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"sheet-verify/internal/config"
	"sheet-verify/internal/exporter"
	"sheet-verify/internal/logger"
	"sheet-verify/internal/model"
	"sheet-verify/internal/pipeline"
	"sheet-verify/internal/ui"
	"sheet-verify/internal/web"
	"sheet-verify/internal/workbook"

	"github.com/joho/godotenv"
)

const (
	appName    = "Sheet Verify"
	appVersion = "1.0.0"
	appDesc    = "Validates spreadsheet rows against reference lists"

	logFileName = "sheet_verify.log"
)

// Exit codes
const (
	exitPass    = 0
	exitFailure = 1
	exitInvalid = 2
)

type options struct {
	configPath  string
	verbose     bool
	showVersion bool
	input       string
	reference   string
	outputDir   string
	formats     string
	serve       string
	wait        bool
}

func parseFlags(args []string, output io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("sheet-verify", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&opts.configPath, "config", "config.yaml", "Path to configuration file")
	fs.StringVar(&opts.configPath, "c", "config.yaml", "Path to configuration file (shorthand)")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging (DEBUG level)")
	fs.BoolVar(&opts.verbose, "v", false, "Enable verbose logging (shorthand)")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")
	fs.StringVar(&opts.input, "input", "", "Override the data workbook from config")
	fs.StringVar(&opts.input, "i", "", "Override the data workbook from config (shorthand)")
	fs.StringVar(&opts.reference, "reference", "", "Separate reference workbook")
	fs.StringVar(&opts.reference, "r", "", "Separate reference workbook (shorthand)")
	fs.StringVar(&opts.outputDir, "output", "", "Override output directory from config")
	fs.StringVar(&opts.formats, "format", "", "Comma-separated output formats (excel,html,word,json)")
	fs.StringVar(&opts.serve, "serve", "", "Serve the HTTP API on this address instead of a one-shot run")
	fs.BoolVar(&opts.wait, "wait", false, "Wait for Enter before exiting (double-click launches)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitPass
		}
		return exitFailure
	}

	if opts.wait {
		// Keep the console open even on panic or error
		defer func() {
			if r := recover(); r != nil {
				fmt.Printf("\n❌ PANIC: %v\n", r)
			}
			waitForEnter()
		}()
	}

	if opts.showVersion {
		fmt.Printf("%s v%s\n%s\n", appName, appVersion, appDesc)
		return exitPass
	}

	// .env is optional; real environment variables take precedence
	if err := godotenv.Load(); err == nil {
		fmt.Println("Loaded environment from .env")
	}

	printBanner()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		return exitFailure
	}
	if err := applyOverrides(cfg, opts); err != nil {
		fmt.Printf("❌ %v\n", err)
		return exitFailure
	}

	logPath := filepath.Join(cfg.Output.Dir, logFileName)
	if err := logger.Init(os.Stdout, logPath, opts.verbose); err != nil {
		fmt.Printf("❌ Failed to initialize logger: %v\n", err)
		return exitFailure
	}
	defer logger.Close()

	if opts.verbose {
		cfg.Print()
	}

	if opts.serve != "" {
		return serve(cfg)
	}

	passed, err := runVerification(cfg)
	if err != nil {
		return exitFailure
	}
	if !passed {
		logger.Warn("Invalid rows found. Check [%s] directory.", cfg.Output.Dir)
		return exitInvalid
	}

	logger.Info("✅ All checks passed. Check [%s] directory.", cfg.Output.Dir)
	return exitPass
}

// applyOverrides folds command-line overrides into the loaded config
func applyOverrides(cfg *config.Config, opts *options) error {
	for _, o := range []struct {
		flag string
		dst  *string
	}{
		{opts.input, &cfg.Input.File},
		{opts.reference, &cfg.Reference.File},
		{opts.outputDir, &cfg.Output.Dir},
	} {
		if o.flag == "" {
			continue
		}
		abs, err := filepath.Abs(o.flag)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", o.flag, err)
		}
		*o.dst = abs
	}

	if opts.outputDir != "" {
		if err := cfg.EnsureOutputDir(); err != nil {
			return err
		}
	}
	if opts.formats != "" {
		cfg.Output.Formats = strings.Split(opts.formats, ",")
	}
	if opts.serve != "" {
		cfg.Web.Addr = opts.serve
	}
	return nil
}

func serve(cfg *config.Config) int {
	server, err := web.NewServer(cfg)
	if err != nil {
		logger.Error("%v", err)
		return exitFailure
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.ListenAndServe(ctx); err != nil {
		logger.Error("Server failed: %v", err)
		return exitFailure
	}
	return exitPass
}

// runVerification loads the workbooks, runs every check and writes the
// reports. It reports whether every check passed.
func runVerification(cfg *config.Config) (bool, error) {
	plan, err := cfg.Plan()
	if err != nil {
		logger.Error("Invalid configuration: %v", err)
		return false, err
	}

	tracker := ui.NewTracker([]ui.Phase{
		ui.PhaseLoading,
		ui.PhaseChecking,
		ui.PhaseGenerating,
	})

	// --- Phase 1: Loading ---
	logger.Info("Phase 1: Loading workbooks...")
	files := []string{cfg.Input.File}
	if cfg.Reference.File != "" {
		files = append(files, cfg.Reference.File)
	}
	loadBar := tracker.NextPhase(len(files))

	bundle, err := loadBundle(cfg, files, loadBar)
	if err != nil {
		logger.Error("Failed to load workbook: %v", err)
		return false, err
	}
	loadBar.Finish()
	logger.Info("Loaded %d sheets: %s", bundle.Len(), strings.Join(bundle.Names(), ", "))

	// --- Phase 2: Checking ---
	logger.Info("Phase 2: Running %d checks...", len(plan.Checks))
	checkBar := tracker.NextPhase(len(plan.Checks))

	runner := pipeline.NewRunner(plan)
	runner.OnCheck = func(name string, invalid int) {
		logger.Debug("%s: %d invalid rows", name, invalid)
		checkBar.Describe(name)
		checkBar.Increment()
	}

	result, err := runner.Run(bundle)
	if err != nil {
		tracker.Finish()
		if model.IsPrecondition(err) {
			logger.LogPrecondition(cfg.Input.File, err)
		} else {
			logger.Error("Verification failed: %v", err)
		}
		return false, err
	}
	checkBar.Finish()

	logger.Summary("Diagnostics", result.Diagnostics())

	// --- Phase 3: Reporting ---
	logger.Info("Phase 3: Generating Reports...")
	exporters := exporter.GetExporters(cfg.Output.Formats)
	if len(exporters) == 0 {
		logger.Warn("No valid output formats in %v", cfg.Output.Formats)
	}

	genBar := tracker.NextPhase(len(exporters))

	var exportErrors []error
	for _, exp := range exporters {
		if err := exp.Export(result, cfg); err != nil {
			logger.Error("Export failed: %v", err)
			exportErrors = append(exportErrors, err)
		}
		genBar.Increment()
	}
	tracker.Finish()

	if len(exportErrors) > 0 {
		return false, fmt.Errorf("one or more exports failed: %w", errors.Join(exportErrors...))
	}

	return result.Passed(), nil
}

func loadBundle(cfg *config.Config, files []string, bar *ui.ProgressBar) (*model.Bundle, error) {
	var bundle *model.Bundle
	csvSheets := []string{cfg.Input.DataSheet, cfg.Reference.Sheet}

	for i, path := range files {
		b, err := workbook.Open(path, workbook.Options{
			CSVSheet:  csvSheets[i],
			Encodings: cfg.Input.Encoding,
		})
		if err != nil {
			return nil, err
		}
		if bundle == nil {
			bundle = b
		} else {
			bundle.Merge(b)
		}
		bar.Increment()
	}
	return bundle, nil
}

// waitForEnter pauses execution and waits for user to press Enter
// This prevents the console window from closing immediately when double-clicked
func waitForEnter() {
	fmt.Println("\n==========================================")
	fmt.Println("Execution Finished. Press 'Enter' to exit.")
	fmt.Println("==========================================")
	bufio.NewReader(os.Stdin).ReadBytes('\n')
}

func printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                    SHEET VERIFY v1.0.0                    ║
║        Reference-list validation for survey workbooks     ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
}
